package consumer

import (
	"context"
	"encoding/json"
	"go-leave/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeLeaveInterruptions notifies on applied interruptions so the
// receiving departments learn the employee is back early.
func ConsumeLeaveInterruptions(
	ctx context.Context,
	reader *kafkago.Reader,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_interruption")
	log.Info("leave interruption consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave interruption consumer stopped")
				return
			}
			log.Error("fetch leave interruption message failed", zap.Error(err))
			continue
		}

		var event events.LeaveInterruptionAppliedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode leave interruption event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		log.Info("leave interruption applied",
			zap.String("interruption_id", event.InterruptionID),
			zap.String("leave_id", event.LeaveID),
			zap.String("employee_id", event.EmployeeID),
			zap.String("resume_date", event.ResumeDate),
			zap.Int("credited_days", event.CreditedDays),
		)

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave interruption message failed", zap.Error(err))
		}
	}
}
