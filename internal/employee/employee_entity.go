package employee

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleEmployee   = "employee"
	RoleSupervisor = "supervisor"
	RoleAdmin      = "admin"
	RoleFinance    = "finance"
	RoleContracts  = "contracts"
)

func IsValidRole(role string) bool {
	switch role {
	case RoleEmployee, RoleSupervisor, RoleAdmin, RoleFinance, RoleContracts:
		return true
	}
	return false
}

type Employee struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index:idx_employees_company"`

	// SupervisorID forms the reports-to tree; null marks a chain root.
	SupervisorID *uuid.UUID `gorm:"type:uuid;index:idx_employees_supervisor"`
	// SeniorStaffID is an independent escalation reference and must never
	// equal SupervisorID for the same employee.
	SeniorStaffID *uuid.UUID `gorm:"type:uuid"`

	FullName string `gorm:"type:varchar(120);not null"`
	Email    string `gorm:"uniqueIndex:uq_employee_email"`
	Role     string `gorm:"type:varchar(20);not null;default:'employee'"`
	Archived bool   `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
