package notification

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=notification_repo.go -destination=mock/notification_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, n *Notification) error
	FindByRecipient(ctx context.Context, companyID, recipientID string, unreadOnly bool) ([]Notification, error)
	FindByIDAndRecipient(ctx context.Context, companyID, recipientID, id string) (*Notification, error)
	MarkRead(ctx context.Context, companyID, recipientID, id string) error
	MarkAllRead(ctx context.Context, companyID, recipientID string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, n *Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *repository) FindByRecipient(ctx context.Context, companyID, recipientID string, unreadOnly bool) ([]Notification, error) {
	var notifications []Notification
	query := r.db.WithContext(ctx).
		Where("company_id = ? AND recipient_id = ?", companyID, recipientID)
	if unreadOnly {
		query = query.Where("read = ?", false)
	}
	err := query.Order("created_at DESC").Limit(200).Find(&notifications).Error
	return notifications, err
}

func (r *repository) FindByIDAndRecipient(ctx context.Context, companyID, recipientID, id string) (*Notification, error) {
	var n Notification
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND recipient_id = ? AND id = ?", companyID, recipientID, id).
		Take(&n).Error
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *repository) MarkRead(ctx context.Context, companyID, recipientID, id string) error {
	return r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("company_id = ? AND recipient_id = ? AND id = ?", companyID, recipientID, id).
		Update("read", true).Error
}

func (r *repository) MarkAllRead(ctx context.Context, companyID, recipientID string) error {
	return r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("company_id = ? AND recipient_id = ? AND read = ?", companyID, recipientID, false).
		Update("read", true).Error
}
