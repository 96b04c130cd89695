package employee

type CreateEmployeeRequest struct {
	FullName      string  `json:"full_name" binding:"required"`
	Email         string  `json:"email" binding:"required,email"`
	Role          string  `json:"role" binding:"required,oneof=employee supervisor admin finance contracts"`
	SupervisorID  *string `json:"supervisor_id"`
	SeniorStaffID *string `json:"senior_staff_id"`
}

type UpdateEmployeeRequest struct {
	FullName      string  `json:"full_name" binding:"required"`
	Email         string  `json:"email" binding:"required,email"`
	Role          string  `json:"role" binding:"required,oneof=employee supervisor admin finance contracts"`
	SupervisorID  *string `json:"supervisor_id"`
	SeniorStaffID *string `json:"senior_staff_id"`
	Archived      bool    `json:"archived"`
}

type ReassignSupervisorRequest struct {
	NewSupervisorID string `json:"new_supervisor_id" binding:"required,uuid"`
}

type EmployeeResponse struct {
	ID            string  `json:"id"`
	CompanyID     string  `json:"company_id"`
	FullName      string  `json:"full_name"`
	Email         string  `json:"email"`
	Role          string  `json:"role"`
	SupervisorID  *string `json:"supervisor_id,omitempty"`
	SeniorStaffID *string `json:"senior_staff_id,omitempty"`
	Archived      bool    `json:"archived"`
}
