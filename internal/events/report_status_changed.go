package events

import "time"

const ReportLifecycleTopic = "backoffice.report.lifecycle.v1"

const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// ReportStatusChangedEvent is emitted once per successful report mutation,
// after the transaction that applied it has committed.
type ReportStatusChangedEvent struct {
	EventType          string    `json:"event_type"`
	RequestID          string    `json:"request_id,omitempty"`
	EntityType         string    `json:"entity_type"`
	Action             string    `json:"action"`
	EntityID           string    `json:"entity_id"`
	AffectedEmployeeID string    `json:"affected_employee_id"`
	CompanyID          string    `json:"company_id"`
	FromStatus         string    `json:"from_status,omitempty"`
	ToStatus           string    `json:"to_status,omitempty"`
	OccurredAt         time.Time `json:"occurred_at"`
}
