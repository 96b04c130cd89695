package report

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	StatusDraft         = "DRAFT"
	StatusSubmitted     = "SUBMITTED"
	StatusNeedsRevision = "NEEDS_REVISION"
	StatusApproved      = "APPROVED"
	StatusRejected      = "REJECTED"
)

const (
	StageAwaitingSupervisor = "pending_supervisor"
	StageCompleted          = "completed"
)

// NormalizeStatus collapses legacy spellings onto the canonical status set.
// Older rows used "pending_supervisor" as a status; that is SUBMITTED with
// the supervisor stage label. All status comparisons go through here.
func NormalizeStatus(s string) string {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PENDING_SUPERVISOR":
		return StatusSubmitted
	case "DRAFT":
		return StatusDraft
	case "SUBMITTED":
		return StatusSubmitted
	case "NEEDS_REVISION", "NEEDS-REVISION":
		return StatusNeedsRevision
	case "APPROVED":
		return StatusApproved
	case "REJECTED":
		return StatusRejected
	default:
		return strings.ToUpper(strings.TrimSpace(s))
	}
}

type Report struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID    uuid.UUID `gorm:"type:uuid;not null;index:idx_reports_company_status"`
	EmployeeID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_reports_employee_period"`
	ReportNumber string    `gorm:"type:varchar(20);not null"`

	PeriodYear      int `gorm:"not null;uniqueIndex:uq_reports_employee_period"`
	PeriodMonth     int `gorm:"not null;uniqueIndex:uq_reports_employee_period"`
	PeriodSubNumber int `gorm:"not null;default:0;uniqueIndex:uq_reports_employee_period"`

	Status               string      `gorm:"type:varchar(20);not null;default:'DRAFT';index:idx_reports_company_status"`
	CurrentApprovalStage string      `gorm:"type:varchar(40)"`
	CurrentApproverID    *uuid.UUID  `gorm:"type:uuid;index"`
	ReportData           ReportData  `gorm:"type:jsonb"`
	ApprovalWorkflow     WorkflowLog `gorm:"type:jsonb"`

	SubmittedAt     *time.Time
	SubmittedBy     *uuid.UUID `gorm:"type:uuid"`
	ReviewedAt      *time.Time
	ReviewedBy      *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt      *time.Time
	ApprovedBy      *uuid.UUID `gorm:"type:uuid;index"`
	RejectedAt      *time.Time
	RejectedBy      *uuid.UUID `gorm:"type:uuid"`
	RejectionReason *string    `gorm:"type:text"`
	Comments        string     `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ReportData is the line-item payload. Category fields can be edited
// independently, so totals are always recomputed from here and never stored.
type ReportData struct {
	MileageAmount  float64 `json:"mileage_amount"`
	Travel         float64 `json:"travel"`
	Lodging        float64 `json:"lodging"`
	PerDiem        float64 `json:"per_diem"`
	Communications float64 `json:"communications"`
	Shipping       float64 `json:"shipping"`
	Printing       float64 `json:"printing"`
	Supplies       float64 `json:"supplies"`
	MiscReceipts   float64 `json:"misc_receipts"`
	Meals          float64 `json:"meals"`
	Other          float64 `json:"other"`
	HoursWorked    float64 `json:"hours_worked"`
}

// TotalExpenses sums every expense category. Keys missing from the stored
// JSON decode to zero, so partial payloads still sum correctly.
func (d ReportData) TotalExpenses() float64 {
	return d.MileageAmount +
		d.Travel +
		d.Lodging +
		d.PerDiem +
		d.Communications +
		d.Shipping +
		d.Printing +
		d.Supplies +
		d.MiscReceipts +
		d.Meals +
		d.Other
}

func (d ReportData) Value() (driver.Value, error) {
	return json.Marshal(d)
}

func (d *ReportData) Scan(value interface{}) error {
	if value == nil {
		*d = ReportData{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	default:
		return fmt.Errorf("unsupported type for ReportData: %T", value)
	}
}

type WorkflowOutcome string

const (
	OutcomeCreated           WorkflowOutcome = "created"
	OutcomeSubmitted         WorkflowOutcome = "submitted"
	OutcomeApproved          WorkflowOutcome = "approved"
	OutcomeRejected          WorkflowOutcome = "rejected"
	OutcomeRevisionRequested WorkflowOutcome = "revision_requested"
)

// WorkflowEntry is one line of the append-only approval audit trail.
type WorkflowEntry struct {
	Stage      string          `json:"stage"`
	Outcome    WorkflowOutcome `json:"outcome"`
	ActorID    string          `json:"actor_id"`
	Comments   string          `json:"comments,omitempty"`
	Reason     string          `json:"reason,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// WorkflowLog is append-only: transitions add entries, nothing rewrites them.
type WorkflowLog []WorkflowEntry

func (l WorkflowLog) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal(WorkflowLog{})
	}
	return json.Marshal(l)
}

func (l *WorkflowLog) Scan(value interface{}) error {
	if value == nil {
		*l = WorkflowLog{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return errors.New("unsupported type for WorkflowLog")
	}
}
