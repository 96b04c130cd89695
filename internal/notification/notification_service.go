package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-expense/internal/events"
	notificationerrors "go-expense/internal/notification/errors"
	"go-expense/internal/report"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=notification_service.go -destination=mock/notification_service_mock.go -package=mock
type Service interface {
	RecordReportStatusChange(ctx context.Context, event events.ReportStatusChangedEvent) error
	ListForRecipient(ctx context.Context, companyID, recipientID string, unreadOnly bool) ([]NotificationResponse, error)
	MarkRead(ctx context.Context, companyID, recipientID, id string) error
	MarkAllRead(ctx context.Context, companyID, recipientID string) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("notification.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.service")
	}
	return &service{repo: repo, logger: l}
}

// RecordReportStatusChange turns a lifecycle event into an inbox row for the
// report owner. Deletes and no-op status changes produce nothing.
func (s *service) RecordReportStatusChange(ctx context.Context, event events.ReportStatusChangedEvent) error {
	if event.Action == events.ActionDelete {
		return nil
	}

	companyID, err := uuid.Parse(event.CompanyID)
	if err != nil {
		return notificationerrors.ErrInvalidCompanyID
	}
	recipientID, err := uuid.Parse(event.AffectedEmployeeID)
	if err != nil {
		return notificationerrors.ErrInvalidRecipientID
	}

	title, message := describeStatusChange(event)
	if title == "" {
		return nil
	}

	var referenceID *uuid.UUID
	if parsed, err := uuid.Parse(event.EntityID); err == nil {
		referenceID = &parsed
	}

	n := &Notification{
		ID:          uuid.New(),
		CompanyID:   companyID,
		RecipientID: recipientID,
		Type:        TypeReportStatus,
		Title:       title,
		Message:     message,
		ReferenceID: referenceID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.Error("create notification failed",
			zap.String("recipient_id", event.AffectedEmployeeID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func describeStatusChange(event events.ReportStatusChangedEvent) (title, message string) {
	switch report.NormalizeStatus(event.ToStatus) {
	case report.StatusSubmitted:
		return "Report submitted", "Your expense report was submitted and is awaiting review."
	case report.StatusApproved:
		return "Report approved", "Your expense report has been approved."
	case report.StatusRejected:
		return "Report rejected", "Your expense report was rejected. Open it to see the reason."
	case report.StatusNeedsRevision:
		return "Revision requested", "Your reviewer requested changes to your expense report."
	case report.StatusDraft:
		if event.Action == events.ActionCreate {
			return "Report created", fmt.Sprintf("A draft expense report was created for you (%s).", event.EntityID)
		}
		return "", ""
	default:
		return "", ""
	}
}

func (s *service) ListForRecipient(ctx context.Context, companyID, recipientID string, unreadOnly bool) ([]NotificationResponse, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return nil, notificationerrors.ErrInvalidCompanyID
	}
	if _, err := uuid.Parse(recipientID); err != nil {
		return nil, notificationerrors.ErrInvalidRecipientID
	}

	notifications, err := s.repo.FindByRecipient(ctx, companyID, recipientID, unreadOnly)
	if err != nil {
		return nil, err
	}

	responses := make([]NotificationResponse, len(notifications))
	for i, n := range notifications {
		responses[i] = mapToResponse(n)
	}
	return responses, nil
}

func (s *service) MarkRead(ctx context.Context, companyID, recipientID, id string) error {
	if _, err := s.repo.FindByIDAndRecipient(ctx, companyID, recipientID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notificationerrors.ErrNotificationNotFound
		}
		return err
	}
	return s.repo.MarkRead(ctx, companyID, recipientID, id)
}

func (s *service) MarkAllRead(ctx context.Context, companyID, recipientID string) error {
	return s.repo.MarkAllRead(ctx, companyID, recipientID)
}

func mapToResponse(n Notification) NotificationResponse {
	var referenceID *string
	if n.ReferenceID != nil {
		id := n.ReferenceID.String()
		referenceID = &id
	}
	return NotificationResponse{
		ID:          n.ID.String(),
		Type:        n.Type,
		Title:       n.Title,
		Message:     n.Message,
		ReferenceID: referenceID,
		Read:        n.Read,
		CreatedAt:   n.CreatedAt,
	}
}
