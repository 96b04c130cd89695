package report

import "time"

type UpsertReportRequest struct {
	EmployeeID      string     `json:"employee_id" binding:"required,uuid"`
	PeriodYear      int        `json:"period_year" binding:"required,min=2000,max=2100"`
	PeriodMonth     int        `json:"period_month" binding:"required,min=1,max=12"`
	PeriodSubNumber int        `json:"period_sub_number" binding:"min=0,max=9"`
	ReportData      ReportData `json:"report_data"`
	Comments        string     `json:"comments"`
}

type RejectReportRequest struct {
	Reason   string `json:"reason" binding:"required"`
	Comments string `json:"comments"`
}

type ReviewReportRequest struct {
	Comments string `json:"comments"`
}

type ReportResponse struct {
	ID                   string          `json:"id"`
	CompanyID            string          `json:"company_id"`
	EmployeeID           string          `json:"employee_id"`
	ReportNumber         string          `json:"report_number"`
	PeriodYear           int             `json:"period_year"`
	PeriodMonth          int             `json:"period_month"`
	PeriodSubNumber      int             `json:"period_sub_number"`
	Status               string          `json:"status"`
	CurrentApprovalStage string          `json:"current_approval_stage,omitempty"`
	CurrentApproverID    *string         `json:"current_approver_id,omitempty"`
	ReportData           ReportData      `json:"report_data"`
	TotalExpenses        float64         `json:"total_expenses"`
	ApprovalWorkflow     []WorkflowEntry `json:"approval_workflow"`
	SubmittedAt          *string         `json:"submitted_at,omitempty"`
	SubmittedBy          *string         `json:"submitted_by,omitempty"`
	ReviewedAt           *string         `json:"reviewed_at,omitempty"`
	ReviewedBy           *string         `json:"reviewed_by,omitempty"`
	ApprovedAt           *string         `json:"approved_at,omitempty"`
	ApprovedBy           *string         `json:"approved_by,omitempty"`
	RejectedAt           *string         `json:"rejected_at,omitempty"`
	RejectedBy           *string         `json:"rejected_by,omitempty"`
	RejectionReason      *string         `json:"rejection_reason,omitempty"`
	Comments             string          `json:"comments,omitempty"`
	CreatedAt            string          `json:"created_at"`
	UpdatedAt            string          `json:"updated_at"`
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.Format(time.RFC3339)
	return &v
}
