package consumer

import (
	"context"
	"encoding/json"
	"go-leave/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeLeaveStatusChanges drains the leave status topic and emits a
// notification log line per transition. Delivery is best-effort: a
// malformed payload is committed and skipped so the partition never
// stalls on a poison message.
func ConsumeLeaveStatusChanges(
	ctx context.Context,
	reader *kafkago.Reader,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_status")
	log.Info("leave status consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave status consumer stopped")
				return
			}
			log.Error("fetch leave status message failed", zap.Error(err))
			continue
		}

		var event events.LeaveStatusChangedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode leave status event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		log.Info("leave status changed",
			zap.String("leave_id", event.LeaveID),
			zap.String("employee_id", event.EmployeeID),
			zap.String("from_status", event.FromStatus),
			zap.String("to_status", event.ToStatus),
			zap.String("actor_id", event.ActorID),
		)

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave status message failed", zap.Error(err))
		}
	}
}
