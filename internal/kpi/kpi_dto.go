package kpi

import "time"

// Snapshot is computed on demand and never persisted. Counts are always
// present (zero when the team is empty); ratios and latencies are omitted
// entirely when their denominator is zero, so dashboards can distinguish
// "measured zero" from "nothing to measure".
type Snapshot struct {
	SupervisorID string    `json:"supervisor_id"`
	AsOf         time.Time `json:"as_of"`

	Team        TeamSize       `json:"team"`
	Reports     StatusCounts   `json:"reports"`
	ThisMonth   MonthlyFigures `json:"this_month"`
	LastMonth   MonthlyFigures `json:"last_month"`
	Performance Performance    `json:"performance"`
	Trend       []TrendBucket  `json:"trend"`
}

type TeamSize struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Archived int `json:"archived"`
}

type StatusCounts struct {
	Pending       int64 `json:"pending"`
	NeedsRevision int64 `json:"needs_revision"`
	Approved      int64 `json:"approved"`
}

type MonthlyFigures struct {
	ApprovedCount    int64   `json:"approved_count"`
	ApprovedExpenses float64 `json:"approved_expenses"`
}

type Performance struct {
	ReviewedCount        int      `json:"reviewed_count"`
	AvgApprovalHours     *float64 `json:"avg_approval_hours,omitempty"`
	FastestApprovalHours *float64 `json:"fastest_approval_hours,omitempty"`
	ApprovalRate         *float64 `json:"approval_rate,omitempty"`
}

type TrendBucket struct {
	Year             int     `json:"year"`
	Month            int     `json:"month"`
	SubmittedCount   int64   `json:"submitted_count"`
	ApprovedCount    int64   `json:"approved_count"`
	ApprovedExpenses float64 `json:"approved_expenses"`
}
