package notification

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeReportStatus = "report_status"
	TypeHierarchy    = "hierarchy"
)

type Notification struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CompanyID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_notifications_recipient"`
	RecipientID uuid.UUID  `gorm:"type:uuid;not null;index:idx_notifications_recipient"`
	Type        string     `gorm:"type:varchar(40);not null"`
	Title       string     `gorm:"type:varchar(120);not null"`
	Message     string     `gorm:"type:text"`
	ReferenceID *uuid.UUID `gorm:"type:uuid"`
	Read        bool       `gorm:"not null;default:false"`
	CreatedAt   time.Time
}
