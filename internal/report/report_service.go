package report

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"go-leave/internal/affiliate"
	"go-leave/internal/approval"
	"go-leave/internal/interruption"
	"go-leave/internal/leave"

	"go.uber.org/zap"
)

// Service streams the leave audit trail as CSV. One row per request,
// flat, with every approval stage and the interruption summary inline,
// which is what auditors feed into their spreadsheets.
type Service interface {
	WriteLeaveAudit(ctx context.Context, w io.Writer) error
}

type service struct {
	leaves        leave.Repository
	interruptions interruption.Repository
	res           approval.Resolver
	logger        *zap.Logger
}

func NewService(
	leaves leave.Repository,
	interruptions interruption.Repository,
	res approval.Resolver,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("report.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("report.service")
	}
	return &service{leaves: leaves, interruptions: interruptions, res: res, logger: l}
}

var auditHeader = []string{
	"employee",
	"affiliate",
	"department",
	"leave_type",
	"start_date",
	"end_date",
	"working_days",
	"status",
	"reason",
	"approval_comments",
	"created_at",
	"manager_approved_at",
	"hr_approved_at",
	"ceo_approved_at",
	"final_approval_date",
	"rejected_at",
	"rejection_reason",
	"cancelled_at",
	"interruption_kind",
	"interruption_status",
	"interrupted_by",
	"interruption_resume_date",
	"interruption_credited_days",
	"interruption_note",
	"interrupted_at",
	"actual_resume_date",
}

func (s *service) WriteLeaveAudit(ctx context.Context, w io.Writer) error {
	leaves, err := s.leaves.FindAll(ctx)
	if err != nil {
		s.logger.Error("audit export read failed", zap.Error(err))
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(auditHeader); err != nil {
		return err
	}
	for i := range leaves {
		if err := cw.Write(s.auditRow(ctx, &leaves[i])); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}

	s.logger.Info("audit export written", zap.Int("rows", len(leaves)))
	return nil
}

func (s *service) auditRow(ctx context.Context, l *leave.LeaveRequest) []string {
	var name, dept string
	tag := affiliate.TagUnknown
	if l.Employee != nil {
		name = l.Employee.FullName
		tag = s.res.AffiliateOf(l.Employee)
		if l.Employee.Department != nil {
			dept = l.Employee.Department.Name
		}
	}

	var kind, miniStatus, initiator string
	if mini := s.reportedInterruption(ctx, l); mini != nil {
		kind = mini.Kind
		miniStatus = mini.Status
		initiator = mini.InitiatedBy.String()
	} else if l.InterruptedBy != nil {
		initiator = l.InterruptedBy.String()
	}

	return []string{
		name,
		string(tag),
		dept,
		l.LeaveType,
		l.StartDate.Format("2006-01-02"),
		l.EndDate.Format("2006-01-02"),
		strconv.Itoa(l.WorkingDays),
		l.Status,
		l.Reason,
		strDeref(l.ApprovalComments),
		l.CreatedAt.UTC().Format(time.RFC3339),
		timeDeref(l.ManagerApprovedAt),
		timeDeref(l.HRApprovedAt),
		timeDeref(l.CEOApprovedAt),
		timeDeref(finalApprovalDate(tag, l)),
		timeDeref(l.RejectedAt),
		strDeref(l.RejectionReason),
		timeDeref(l.CancelledAt),
		kind,
		miniStatus,
		initiator,
		dateDeref(interruptionResumeDate(l)),
		intDeref(l.InterruptionCreditedDays),
		strDeref(l.InterruptionNote),
		timeDeref(l.InterruptedAt),
		dateDeref(l.ActualResumeDate),
	}
}

// reportedInterruption picks the interruption summarized on the row:
// the applied one when present, otherwise the latest attempt. Lookup
// failures blank the columns instead of aborting the export.
func (s *service) reportedInterruption(ctx context.Context, l *leave.LeaveRequest) *interruption.InterruptRequest {
	list, err := s.interruptions.FindByLeaveID(ctx, l.ID.String())
	if err != nil {
		s.logger.Warn("interruption lookup failed for audit row",
			zap.String("leave_id", l.ID.String()),
			zap.Error(err),
		)
		return nil
	}
	if len(list) == 0 {
		return nil
	}
	for i := range list {
		if list[i].Status == interruption.StatusApplied {
			return &list[i]
		}
	}
	return &list[len(list)-1]
}

// finalApprovalDate is the timestamp of the stage that finalizes a
// request under the affiliate's chain: the CEO closes Merban requests,
// HR closes SDSL and SBL ones.
func finalApprovalDate(tag affiliate.Tag, l *leave.LeaveRequest) *time.Time {
	if l.Status != approval.StatusApproved {
		return nil
	}
	switch tag {
	case affiliate.TagMerban:
		if l.CEOApprovedAt != nil {
			return l.CEOApprovedAt
		}
	case affiliate.TagSDSL, affiliate.TagSBL:
		if l.HRApprovedAt != nil {
			return l.HRApprovedAt
		}
	}
	return l.ApprovalDate
}

// interruptionResumeDate only reports the resume date when it came from
// an applied interruption; a plain recorded resume shows up in
// actual_resume_date alone.
func interruptionResumeDate(l *leave.LeaveRequest) *time.Time {
	if l.InterruptionCreditedDays == nil {
		return nil
	}
	return l.ActualResumeDate
}

func strDeref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func timeDeref(v *time.Time) string {
	if v == nil {
		return ""
	}
	return v.UTC().Format(time.RFC3339)
}

func dateDeref(v *time.Time) string {
	if v == nil {
		return ""
	}
	return v.Format("2006-01-02")
}

func intDeref(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
