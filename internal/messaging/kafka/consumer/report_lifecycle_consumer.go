package consumer

import (
	"context"
	"encoding/json"

	"go-expense/internal/events"
	"go-expense/internal/notification"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeReportLifecycle fans report lifecycle events into the notification
// inbox. Malformed messages are committed and dropped; transient store
// failures leave the message uncommitted so it is retried.
func ConsumeReportLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	notificationService notification.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.report_lifecycle")
	log.Info("report lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("report lifecycle consumer stopped")
				return
			}
			log.Error("fetch report lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.ReportStatusChangedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode report lifecycle event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := notificationService.RecordReportStatusChange(ctx, event); err != nil {
			log.Error("record report status change failed",
				zap.String("report_id", event.EntityID),
				zap.String("company_id", event.CompanyID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit report lifecycle message failed", zap.Error(err))
			continue
		}

		log.Debug("notification recorded from report lifecycle event",
			zap.String("report_id", event.EntityID),
			zap.String("to_status", event.ToStatus),
		)
	}
}
