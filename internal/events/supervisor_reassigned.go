package events

import "time"

const HierarchyChangedTopic = "backoffice.employee.hierarchy.v1"

type SupervisorReassignedEvent struct {
	EventType          string    `json:"event_type"`
	RequestID          string    `json:"request_id,omitempty"`
	EntityType         string    `json:"entity_type"`
	Action             string    `json:"action"`
	EntityID           string    `json:"entity_id"`
	AffectedEmployeeID string    `json:"affected_employee_id"`
	CompanyID          string    `json:"company_id"`
	OldSupervisorID    *string   `json:"old_supervisor_id,omitempty"`
	NewSupervisorID    string    `json:"new_supervisor_id"`
	OccurredAt         time.Time `json:"occurred_at"`
}
