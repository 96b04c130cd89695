package hierarchy

import (
	"context"

	"gorm.io/gorm"
)

type directory struct {
	db *gorm.DB
}

// NewDirectory reads supervisor links straight from the employees table so a
// full resolution costs one round-trip regardless of tree depth.
func NewDirectory(db *gorm.DB) Directory {
	return &directory{db: db}
}

func (d *directory) ListSupervisorLinks(ctx context.Context, companyID string) ([]Link, error) {
	var links []Link
	err := d.db.WithContext(ctx).
		Table("employees").
		Select("id AS employee_id, supervisor_id, archived").
		Where("company_id = ?", companyID).
		Scan(&links).Error
	return links, err
}
