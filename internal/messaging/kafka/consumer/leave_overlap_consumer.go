package consumer

import (
	"context"
	"encoding/json"
	"go-leave/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeLeaveOverlaps surfaces department coverage warnings. The event
// is informational, so handling is a warn-level log and a commit.
func ConsumeLeaveOverlaps(
	ctx context.Context,
	reader *kafkago.Reader,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_overlap")
	log.Info("leave overlap consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave overlap consumer stopped")
				return
			}
			log.Error("fetch leave overlap message failed", zap.Error(err))
			continue
		}

		var event events.LeaveOverlapDetectedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode leave overlap event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		log.Warn("department leave overlap detected",
			zap.String("leave_id", event.LeaveID),
			zap.String("employee_id", event.EmployeeID),
			zap.String("department_id", event.DepartmentID),
			zap.String("start_date", event.StartDate),
			zap.String("end_date", event.EndDate),
			zap.Int("overlap_count", event.OverlapCount),
		)

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave overlap message failed", zap.Error(err))
		}
	}
}
