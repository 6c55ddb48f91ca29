package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"go-leave/internal/affiliate"
	"go-leave/internal/approval"
	"go-leave/internal/employee"
	"go-leave/internal/events"
	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/shared/config"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/shared/workdays"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BalanceChecker answers how many working days an employee still has for
// a leave type in a given year.
type BalanceChecker interface {
	Available(ctx context.Context, employeeID uuid.UUID, leaveType string, year int) (int, error)
}

// BalanceReconciler recomputes an employee's balance row from the full
// request history. Reconciliation runs after terminal transitions; a
// failure is logged and never rolls the transition back.
type BalanceReconciler interface {
	Reconcile(ctx context.Context, employeeID uuid.UUID, leaveType string, year int) error
}

type Service interface {
	Create(ctx context.Context, actorID string, req CreateLeaveRequest) (LeaveResponse, error)
	GetAll(ctx context.Context) ([]LeaveResponse, error)
	GetAllByEmployee(ctx context.Context, employeeID string) ([]LeaveResponse, error)
	GetByID(ctx context.Context, id string) (LeaveResponse, error)
	Approve(ctx context.Context, actorID, id string, req ApproveLeaveRequest) (LeaveResponse, error)
	Reject(ctx context.Context, actorID, id, rejectionReason string) (LeaveResponse, error)
	Cancel(ctx context.Context, actorID, id string) (LeaveResponse, error)
	RecordResume(ctx context.Context, actorID, id string, req ResumeLeaveRequest) (LeaveResponse, error)
	PendingApprovals(ctx context.Context, actorID string) ([]LeaveResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	emp      employee.Repository
	engine   *approval.Engine
	res      approval.Resolver
	outbox   kafka.OutboxRepository
	balances BalanceChecker
	recon    BalanceReconciler
	cfg      config.Config
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	emp employee.Repository,
	engine *approval.Engine,
	res approval.Resolver,
	outbox kafka.OutboxRepository,
	balances BalanceChecker,
	recon BalanceReconciler,
	cfg config.Config,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		emp:      emp,
		engine:   engine,
		res:      res,
		outbox:   outbox,
		balances: balances,
		recon:    recon,
		cfg:      cfg,
		logger:   l,
	}
}

func (s *service) Create(ctx context.Context, actorID string, req CreateLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("create leave requested",
		zap.String("actor_id", actorID),
		zap.String("employee_id", req.EmployeeID),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidEmployeeID
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	if startDate.After(endDate) {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}
	workingDays := workdays.Count(startDate, endDate)
	if workingDays == 0 {
		return LeaveResponse{}, leaveerrors.ErrNoWorkingDays
	}

	requester, err := s.emp.FindByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrEmployeeNotFound
		}
		return LeaveResponse{}, err
	}

	if actorUUID != requester.ID {
		actor, err := s.findActor(ctx, actorID)
		if err != nil {
			return LeaveResponse{}, err
		}
		if !actor.IsAdmin() {
			return LeaveResponse{}, leaveerrors.ErrNotRequestOwner
		}
	}

	overlap, err := s.repo.HasOverlappingPeriod(ctx, req.EmployeeID, startDate, endDate, nil)
	if err != nil {
		s.logger.Error("create leave overlap check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if overlap {
		s.logger.Warn("create leave overlap detected",
			zap.String("employee_id", req.EmployeeID),
			zap.String("start_date", req.StartDate),
			zap.String("end_date", req.EndDate),
		)
		return LeaveResponse{}, leaveerrors.ErrLeaveOverlap
	}

	// Unpaid leave draws from no entitlement.
	if s.balances != nil && req.LeaveType != TypeUnpaid {
		available, err := s.balances.Available(ctx, employeeUUID, req.LeaveType, startDate.Year())
		if err != nil {
			s.logger.Error("create leave balance check failed", zap.Error(err))
			return LeaveResponse{}, err
		}
		if workingDays > available {
			s.logger.Warn("create leave insufficient balance",
				zap.String("employee_id", req.EmployeeID),
				zap.String("leave_type", req.LeaveType),
				zap.Int("working_days", workingDays),
				zap.Int("available", available),
			)
			return LeaveResponse{}, leaveerrors.ErrInsufficientBalance
		}
	}

	initialStatus := s.engine.InitialStatus(requester)
	if tag := s.res.AffiliateOf(requester); tag == affiliate.TagUnknown {
		s.logger.Warn("create leave for unresolvable affiliate, request will not route",
			zap.String("employee_id", req.EmployeeID),
		)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	l := &LeaveRequest{
		ID:          uuid.New(),
		EmployeeID:  employeeUUID,
		LeaveType:   req.LeaveType,
		StartDate:   startDate,
		EndDate:     endDate,
		WorkingDays: workingDays,
		Reason:      req.Reason,
		Status:      initialStatus,
	}
	if err := s.repo.WithTx(tx).Create(ctx, l); err != nil {
		s.logger.Error("create leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := s.recordStatusChange(ctx, tx, l, "", initialStatus, actorUUID); err != nil {
		return LeaveResponse{}, err
	}
	s.notifyDepartmentOverlap(ctx, tx, requester, l)

	if err := tx.Commit(); err != nil {
		s.logger.Error("create leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	s.logger.Info("create leave success",
		zap.String("leave_id", l.ID.String()),
		zap.String("employee_id", req.EmployeeID),
		zap.String("status", initialStatus),
	)

	l.Employee = requester
	return s.mapToResponse(*l), nil
}

func (s *service) GetAll(ctx context.Context) ([]LeaveResponse, error) {
	leaves, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.mapToListResponse(leaves), nil
}

func (s *service) GetAllByEmployee(ctx context.Context, employeeID string) ([]LeaveResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, leaveerrors.ErrInvalidEmployeeID
	}
	leaves, err := s.repo.FindAllByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return s.mapToListResponse(leaves), nil
}

func (s *service) GetByID(ctx context.Context, id string) (LeaveResponse, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	return s.mapToResponse(*l), nil
}

func (s *service) Approve(ctx context.Context, actorID, id string, req ApproveLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("approve leave requested",
		zap.String("leave_id", id),
		zap.String("actor_id", actorID),
	)

	actor, err := s.findActor(ctx, actorID)
	if err != nil {
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("approve leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := s.lockAndLoad(ctx, qtx, id)
	if err != nil {
		return LeaveResponse{}, err
	}

	// Routing data may have changed since creation; re-resolve under the
	// lock. An unresolvable affiliate makes the request unroutable for
	// everyone, admins included.
	if len(s.engine.FlowFor(l.Employee)) == 0 {
		return LeaveResponse{}, leaveerrors.ErrUnresolvedAffiliate
	}

	if l.StampedBy(actor.ID) {
		s.logger.Warn("approve leave duplicate approver",
			zap.String("leave_id", id),
			zap.String("actor_id", actorID),
		)
		return LeaveResponse{}, leaveerrors.ErrAlreadyActedOn
	}

	ok, err := s.engine.CanApprove(ctx, actor, l.Employee, l.Status)
	if err != nil {
		return LeaveResponse{}, err
	}
	if !ok {
		s.logger.Warn("approve leave not authorized",
			zap.String("leave_id", id),
			zap.String("actor_id", actorID),
			zap.String("status", l.Status),
		)
		return LeaveResponse{}, leaveerrors.ErrNotAuthorizedToApprove
	}

	step, _ := s.engine.FlowFor(l.Employee)[l.Status]
	fromStatus := l.Status
	now := time.Now().UTC()

	switch step.Role {
	case employee.RoleManager:
		l.ManagerApprovedBy = &actor.ID
		l.ManagerApprovedAt = &now
	case employee.RoleHR:
		l.HRApprovedBy = &actor.ID
		l.HRApprovedAt = &now
	case employee.RoleCEO:
		l.CEOApprovedBy = &actor.ID
		l.CEOApprovedAt = &now
	}
	l.Status = step.Next
	if step.Next == approval.StatusApproved {
		l.ApprovalDate = &now
	}
	if req.Comments != "" {
		appendComment(l, req.Comments)
	}

	if err := qtx.UpdateDecision(ctx, l); err != nil {
		s.logger.Error("approve leave persist failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	if err := s.recordStatusChange(ctx, tx, l, fromStatus, l.Status, actor.ID); err != nil {
		return LeaveResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("approve leave commit failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	if l.Status == approval.StatusApproved {
		s.reconcileBalance(ctx, l)
	}
	s.logger.Info("approve leave success",
		zap.String("leave_id", id),
		zap.String("from_status", fromStatus),
		zap.String("status", l.Status),
		zap.String("actor_id", actorID),
	)
	return s.mapToResponse(*l), nil
}

func (s *service) Reject(ctx context.Context, actorID, id, rejectionReason string) (LeaveResponse, error) {
	s.logger.Debug("reject leave requested",
		zap.String("leave_id", id),
		zap.String("actor_id", actorID),
	)

	if rejectionReason == "" {
		return LeaveResponse{}, leaveerrors.ErrRejectionReasonRequired
	}
	actor, err := s.findActor(ctx, actorID)
	if err != nil {
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("reject leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := s.lockAndLoad(ctx, qtx, id)
	if err != nil {
		return LeaveResponse{}, err
	}

	ok, err := s.engine.CanApprove(ctx, actor, l.Employee, l.Status)
	if err != nil {
		return LeaveResponse{}, err
	}
	if !ok {
		return LeaveResponse{}, leaveerrors.ErrNotAuthorizedToApprove
	}

	// A rejection stamps only the rejector; no stage column is filled on
	// the actor's behalf, even for admins.
	fromStatus := l.Status
	now := time.Now().UTC()
	l.Status = approval.StatusRejected
	l.RejectedBy = &actor.ID
	l.RejectedAt = &now
	l.RejectionReason = &rejectionReason

	if err := qtx.UpdateDecision(ctx, l); err != nil {
		s.logger.Error("reject leave persist failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	if err := s.recordStatusChange(ctx, tx, l, fromStatus, l.Status, actor.ID); err != nil {
		return LeaveResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("reject leave commit failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	s.reconcileBalance(ctx, l)
	s.logger.Info("reject leave success",
		zap.String("leave_id", id),
		zap.String("from_status", fromStatus),
		zap.String("actor_id", actorID),
	)
	return s.mapToResponse(*l), nil
}

func (s *service) Cancel(ctx context.Context, actorID, id string) (LeaveResponse, error) {
	s.logger.Debug("cancel leave requested",
		zap.String("leave_id", id),
		zap.String("actor_id", actorID),
	)

	actor, err := s.findActor(ctx, actorID)
	if err != nil {
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("cancel leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := s.lockAndLoad(ctx, qtx, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	// Cancellation belongs to the requester alone, and only before any
	// approval action has happened.
	if actor.ID != l.EmployeeID {
		return LeaveResponse{}, leaveerrors.ErrNotRequestOwner
	}
	if l.Status != approval.StatusPending {
		return LeaveResponse{}, leaveerrors.ErrOnlyPendingCancellable
	}

	fromStatus := l.Status
	now := time.Now().UTC()
	l.Status = approval.StatusCancelled
	l.CancelledBy = &actor.ID
	l.CancelledAt = &now

	if err := qtx.UpdateDecision(ctx, l); err != nil {
		s.logger.Error("cancel leave persist failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	if err := s.recordStatusChange(ctx, tx, l, fromStatus, l.Status, actor.ID); err != nil {
		return LeaveResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("cancel leave commit failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	s.reconcileBalance(ctx, l)
	s.logger.Info("cancel leave success",
		zap.String("leave_id", id),
		zap.String("from_status", fromStatus),
		zap.String("actor_id", actorID),
	)
	return s.mapToResponse(*l), nil
}

// RecordResume stores the date the employee actually reported back to
// work after an approved leave. It is informational only and never
// touches balances, hence no reconciliation afterwards.
func (s *service) RecordResume(ctx context.Context, actorID, id string, req ResumeLeaveRequest) (LeaveResponse, error) {
	actor, err := s.findActor(ctx, actorID)
	if err != nil {
		return LeaveResponse{}, err
	}

	resumeDate, err := parseDate(req.ResumeDate)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateFormat
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("record resume begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := s.lockAndLoadAny(ctx, qtx, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	if actor.ID != l.EmployeeID && !actor.IsAdmin() {
		return LeaveResponse{}, leaveerrors.ErrNotRequestOwner
	}
	if l.Status != approval.StatusApproved {
		return LeaveResponse{}, leaveerrors.ErrResumeRequiresApproved
	}
	if resumeDate.Before(l.EndDate) {
		return LeaveResponse{}, leaveerrors.ErrResumeBeforeEnd
	}

	if err := qtx.RecordResume(ctx, id, resumeDate); err != nil {
		s.logger.Error("record resume persist failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("record resume commit failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}

	l.ActualResumeDate = &resumeDate
	s.logger.Info("record resume success",
		zap.String("leave_id", id),
		zap.String("resume_date", req.ResumeDate),
	)
	return s.mapToResponse(*l), nil
}

// PendingApprovals lists the open requests the actor is entitled to act
// on right now. Routing is evaluated live, so directory changes show up
// immediately.
func (s *service) PendingApprovals(ctx context.Context, actorID string) ([]LeaveResponse, error) {
	actor, err := s.findActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	open, err := s.repo.FindByStatuses(ctx, approval.OpenStatuses)
	if err != nil {
		return nil, err
	}

	pending := make([]LeaveResponse, 0)
	for i := range open {
		l := open[i]
		if l.StampedBy(actor.ID) {
			continue
		}
		ok, err := s.engine.CanApprove(ctx, actor, l.Employee, l.Status)
		if err != nil {
			return nil, err
		}
		if ok {
			pending = append(pending, s.mapToResponse(l))
		}
	}
	return pending, nil
}

func (s *service) reconcileBalance(ctx context.Context, l *LeaveRequest) {
	if s.recon == nil {
		return
	}
	if err := s.recon.Reconcile(ctx, l.EmployeeID, l.LeaveType, l.StartDate.Year()); err != nil {
		s.logger.Warn("balance reconciliation failed",
			zap.String("leave_id", l.ID.String()),
			zap.String("employee_id", l.EmployeeID.String()),
			zap.Error(err),
		)
	}
}

func (s *service) findActor(ctx context.Context, actorID string) (*employee.Employee, error) {
	if _, err := uuid.Parse(actorID); err != nil {
		return nil, leaveerrors.ErrInvalidActorID
	}
	actor, err := s.emp.FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leaveerrors.ErrEmployeeNotFound
		}
		return nil, err
	}
	return actor, nil
}

// lockAndLoad takes the row lock, rejects terminal requests, and reads
// back the full routing graph under the lock.
func (s *service) lockAndLoad(ctx context.Context, qtx Repository, id string) (*LeaveRequest, error) {
	l, err := s.lockAndLoadAny(ctx, qtx, id)
	if err != nil {
		return nil, err
	}
	if approval.IsTerminal(l.Status) {
		return nil, leaveerrors.ErrRequestClosed
	}
	return l, nil
}

// lockAndLoadAny is lockAndLoad without the terminal-status guard, for
// operations that legitimately target a finished request.
func (s *service) lockAndLoadAny(ctx context.Context, qtx Repository, id string) (*LeaveRequest, error) {
	status, err := qtx.LockByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leaveerrors.ErrLeaveNotFound
		}
		return nil, err
	}

	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leaveerrors.ErrLeaveNotFound
		}
		return nil, err
	}
	l.Status = status
	return l, nil
}

func (s *service) recordStatusChange(ctx context.Context, tx *sql.Tx, l *LeaveRequest, from, to string, actorID uuid.UUID) error {
	if s.outbox == nil {
		return nil
	}

	payload, err := json.Marshal(events.LeaveStatusChangedEvent{
		EventType:  "leave.status.changed",
		LeaveID:    l.ID.String(),
		EmployeeID: l.EmployeeID.String(),
		FromStatus: from,
		ToStatus:   to,
		ActorID:    actorID.String(),
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	err = s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave_request",
		AggregateID:   l.ID.String(),
		EventType:     "leave.status.changed",
		Topic:         events.LeaveStatusChangedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
	if err != nil {
		s.logger.Error("record leave status event failed",
			zap.String("leave_id", l.ID.String()),
			zap.Error(err),
		)
	}
	return err
}

// notifyDepartmentOverlap emits an informational event when too many
// colleagues of a department are away at once. Best effort: failures are
// logged and never block the request.
func (s *service) notifyDepartmentOverlap(ctx context.Context, tx *sql.Tx, requester *employee.Employee, l *LeaveRequest) {
	if s.outbox == nil || !s.cfg.Overlap.Enabled {
		return
	}
	if requester.DepartmentID == nil || l.WorkingDays < s.cfg.Overlap.MinDays {
		return
	}

	count, err := s.repo.CountDepartmentOverlaps(ctx, requester.DepartmentID.String(), l.StartDate, l.EndDate, requester.ID.String())
	if err != nil {
		s.logger.Warn("department overlap count failed",
			zap.String("leave_id", l.ID.String()),
			zap.Error(err),
		)
		return
	}
	total := int(count) + 1
	if total < s.cfg.Overlap.MinCount {
		return
	}

	payload, err := json.Marshal(events.LeaveOverlapDetectedEvent{
		EventType:    "leave.overlap.detected",
		LeaveID:      l.ID.String(),
		EmployeeID:   l.EmployeeID.String(),
		DepartmentID: requester.DepartmentID.String(),
		StartDate:    l.StartDate.Format("2006-01-02"),
		EndDate:      l.EndDate.Format("2006-01-02"),
		OverlapCount: total,
		OccurredAt:   time.Now().UTC(),
	})
	if err != nil {
		return
	}

	if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave_request",
		AggregateID:   l.ID.String(),
		EventType:     "leave.overlap.detected",
		Topic:         events.LeaveOverlapDetectedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Warn("record overlap event failed",
			zap.String("leave_id", l.ID.String()),
			zap.Error(err),
		)
	}
}

func appendComment(l *LeaveRequest, comment string) {
	if l.ApprovalComments == nil || *l.ApprovalComments == "" {
		l.ApprovalComments = &comment
		return
	}
	merged := *l.ApprovalComments + "\n" + comment
	l.ApprovalComments = &merged
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func (s *service) mapToResponse(l LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:          l.ID.String(),
		EmployeeID:  l.EmployeeID.String(),
		LeaveType:   l.LeaveType,
		StartDate:   l.StartDate.Format("2006-01-02"),
		EndDate:     l.EndDate.Format("2006-01-02"),
		WorkingDays: l.WorkingDays,
		Reason:      l.Reason,
		Status:      l.Status,
	}
	if l.Employee != nil {
		resp.EmployeeName = l.Employee.FullName
		if s.res != nil {
			resp.Affiliate = string(s.res.AffiliateOf(l.Employee))
		}
	}

	resp.ManagerApproval = stageResponse(l.ManagerApprovedBy, l.ManagerApprovedAt)
	resp.HRApproval = stageResponse(l.HRApprovedBy, l.HRApprovedAt)
	resp.CEOApproval = stageResponse(l.CEOApprovedBy, l.CEOApprovedAt)

	if l.ApprovalDate != nil {
		v := l.ApprovalDate.Format(time.RFC3339)
		resp.ApprovalDate = &v
	}
	resp.ApprovalComments = l.ApprovalComments

	if l.RejectedBy != nil {
		v := l.RejectedBy.String()
		resp.RejectedBy = &v
	}
	if l.RejectedAt != nil {
		v := l.RejectedAt.Format(time.RFC3339)
		resp.RejectedAt = &v
	}
	resp.RejectionReason = l.RejectionReason

	if l.CancelledBy != nil {
		v := l.CancelledBy.String()
		resp.CancelledBy = &v
	}
	if l.CancelledAt != nil {
		v := l.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &v
	}

	if l.ActualResumeDate != nil {
		v := l.ActualResumeDate.Format("2006-01-02")
		resp.ActualResumeDate = &v
	}
	if l.ActualResumeDate != nil && l.InterruptionCreditedDays != nil &&
		l.InterruptedBy != nil && l.InterruptedAt != nil {
		resp.Interruption = &InterruptionSummaryResponse{
			ActualResumeDate: l.ActualResumeDate.Format("2006-01-02"),
			CreditedDays:     *l.InterruptionCreditedDays,
			Note:             l.InterruptionNote,
			By:               l.InterruptedBy.String(),
			At:               l.InterruptedAt.Format(time.RFC3339),
		}
	}
	return resp
}

func stageResponse(by *uuid.UUID, at *time.Time) *StageResponse {
	if by == nil && at == nil {
		return nil
	}
	resp := &StageResponse{}
	if by != nil {
		v := by.String()
		resp.By = &v
	}
	if at != nil {
		v := at.Format(time.RFC3339)
		resp.At = &v
	}
	return resp
}

func (s *service) mapToListResponse(leaves []LeaveRequest) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = s.mapToResponse(l)
	}
	return resp
}
