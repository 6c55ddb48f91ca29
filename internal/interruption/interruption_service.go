package interruption

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
	interruptionerrors "go-leave/internal/interruption/errors"
	"go-leave/internal/leave"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/shared/workdays"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	SubmitRecall(ctx context.Context, actorID, leaveID string, req RecallLeaveRequest) (InterruptionResponse, error)
	SubmitEarlyReturn(ctx context.Context, actorID, leaveID string, req EarlyReturnRequest) (InterruptionResponse, error)
	Approve(ctx context.Context, actorID, id string, req ApproveInterruptionRequest) (InterruptionResponse, error)
	Reject(ctx context.Context, actorID, id, note string) (InterruptionResponse, error)
	GetByID(ctx context.Context, id string) (InterruptionResponse, error)
	GetByLeave(ctx context.Context, leaveID string) ([]InterruptionResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	leaves leave.Repository
	emp    employee.Repository
	engine *approval.Engine
	res    approval.Resolver
	outbox kafka.OutboxRepository
	recon  leave.BalanceReconciler
	logger *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	leaves leave.Repository,
	emp employee.Repository,
	engine *approval.Engine,
	res approval.Resolver,
	outbox kafka.OutboxRepository,
	recon leave.BalanceReconciler,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("interruption.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("interruption.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		leaves: leaves,
		emp:    emp,
		engine: engine,
		res:    res,
		outbox: outbox,
		recon:  recon,
		logger: l,
	}
}

// SubmitRecall opens a recall against an approved leave. Nothing on the
// parent changes until the employee accepts: the mini-request enters
// pending_staff and waits for their decision.
func (s *service) SubmitRecall(ctx context.Context, actorID, leaveID string, req RecallLeaveRequest) (InterruptionResponse, error) {
	s.logger.Debug("submit recall requested",
		zap.String("leave_id", leaveID),
		zap.String("actor_id", actorID),
	)

	actor, err := s.findActor(ctx, actorID)
	if err != nil {
		return InterruptionResponse{}, err
	}
	resumeDate, err := parseDate(req.RequestedResumeDate)
	if err != nil {
		return InterruptionResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("submit recall begin tx failed", zap.Error(err))
		return InterruptionResponse{}, err
	}
	defer tx.Rollback()

	parent, err := s.lockApprovedParent(ctx, tx, leaveID)
	if err != nil {
		return InterruptionResponse{}, err
	}
	if err := s.validateWindow(parent, resumeDate); err != nil {
		return InterruptionResponse{}, err
	}

	ok, err := s.canInitiateRecall(ctx, actor, parent.Employee)
	if err != nil {
		return InterruptionResponse{}, err
	}
	if !ok {
		return InterruptionResponse{}, interruptionerrors.ErrNotAuthorizedToInitiate
	}

	mini := &InterruptRequest{
		ID:                  uuid.New(),
		LeaveRequestID:      parent.ID,
		Leave:               parent,
		Kind:                KindManagerRecall,
		Status:              StatusPendingStaff,
		RequestedResumeDate: resumeDate,
		Reason:              req.Reason,
		InitiatedBy:         actor.ID,
		InitiatedRole:       actor.RoutingRole(),
	}
	if err := s.repo.WithTx(tx).Create(ctx, mini); err != nil {
		s.logger.Error("submit recall persist failed", zap.String("leave_id", leaveID), zap.Error(err))
		return InterruptionResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("submit recall commit failed", zap.String("leave_id", leaveID), zap.Error(err))
		return InterruptionResponse{}, err
	}

	s.logger.Info("submit recall success",
		zap.String("interruption_id", mini.ID.String()),
		zap.String("leave_id", leaveID),
		zap.String("initiated_by", actorID),
	)
	return mapToResponse(mini), nil
}

// SubmitEarlyReturn opens an early-return request by the employee on
// leave. It enters the first stage of the affiliate's mini-flow.
func (s *service) SubmitEarlyReturn(ctx context.Context, actorID, leaveID string, req EarlyReturnRequest) (InterruptionResponse, error) {
	s.logger.Debug("submit early return requested",
		zap.String("leave_id", leaveID),
		zap.String("actor_id", actorID),
	)

	actor, err := s.findActor(ctx, actorID)
	if err != nil {
		return InterruptionResponse{}, err
	}
	resumeDate, err := parseDate(req.RequestedResumeDate)
	if err != nil {
		return InterruptionResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("submit early return begin tx failed", zap.Error(err))
		return InterruptionResponse{}, err
	}
	defer tx.Rollback()

	parent, err := s.lockApprovedParent(ctx, tx, leaveID)
	if err != nil {
		return InterruptionResponse{}, err
	}
	if actor.ID != parent.EmployeeID && !actor.IsAdmin() {
		return InterruptionResponse{}, interruptionerrors.ErrNotReturnOwner
	}
	if err := s.validateWindow(parent, resumeDate); err != nil {
		return InterruptionResponse{}, err
	}

	flow, initial := ReturnFlowFor(s.res.AffiliateOf(parent.Employee), parent.Employee.RoutingRole())
	if len(flow) == 0 {
		return InterruptionResponse{}, interruptionerrors.ErrUnresolvedAffiliate
	}

	mini := &InterruptRequest{
		ID:                  uuid.New(),
		LeaveRequestID:      parent.ID,
		Leave:               parent,
		Kind:                KindStaffReturn,
		Status:              initial,
		RequestedResumeDate: resumeDate,
		Reason:              req.Reason,
		InitiatedBy:         actor.ID,
		InitiatedRole:       actor.RoutingRole(),
	}
	if err := s.repo.WithTx(tx).Create(ctx, mini); err != nil {
		s.logger.Error("submit early return persist failed", zap.String("leave_id", leaveID), zap.Error(err))
		return InterruptionResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("submit early return commit failed", zap.String("leave_id", leaveID), zap.Error(err))
		return InterruptionResponse{}, err
	}

	s.logger.Info("submit early return success",
		zap.String("interruption_id", mini.ID.String()),
		zap.String("leave_id", leaveID),
		zap.String("initial_status", initial),
	)
	return mapToResponse(mini), nil
}

// Approve advances an open interruption one stage. At pending_staff the
// approver is the employee on leave accepting a recall; every other
// stage follows the early-return mini-flow. Reaching approved applies
// the interruption to the parent in the same transaction.
func (s *service) Approve(ctx context.Context, actorID, id string, req ApproveInterruptionRequest) (InterruptionResponse, error) {
	s.logger.Debug("approve interruption requested",
		zap.String("interruption_id", id),
		zap.String("actor_id", actorID),
	)

	actor, err := s.findActor(ctx, actorID)
	if err != nil {
		return InterruptionResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("approve interruption begin tx failed", zap.Error(err))
		return InterruptionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	mini, err := s.lockAndLoad(ctx, qtx, id)
	if err != nil {
		return InterruptionResponse{}, err
	}

	now := time.Now().UTC()
	next, err := s.decide(ctx, actor, mini, now)
	if err != nil {
		return InterruptionResponse{}, err
	}
	mini.Status = next
	if req.Comments != "" {
		mini.DecisionNote = &req.Comments
	}

	applied := false
	if next == StatusApproved {
		if err := s.apply(ctx, tx, mini, now); err != nil {
			return InterruptionResponse{}, err
		}
		applied = true
	}

	if err := qtx.UpdateDecision(ctx, mini); err != nil {
		s.logger.Error("approve interruption persist failed", zap.String("interruption_id", id), zap.Error(err))
		return InterruptionResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("approve interruption commit failed", zap.String("interruption_id", id), zap.Error(err))
		return InterruptionResponse{}, err
	}

	if applied {
		s.reconcileBalance(ctx, mini.Leave)
	}
	s.logger.Info("approve interruption success",
		zap.String("interruption_id", id),
		zap.String("status", mini.Status),
		zap.String("actor_id", actorID),
	)
	return mapToResponse(mini), nil
}

// Reject closes an open interruption at its current stage. A staff
// rejection of a recall additionally annotates the parent leave with
// the note, so the audit trail shows the declined recall.
func (s *service) Reject(ctx context.Context, actorID, id, note string) (InterruptionResponse, error) {
	if note == "" {
		return InterruptionResponse{}, interruptionerrors.ErrNoteRequired
	}

	actor, err := s.findActor(ctx, actorID)
	if err != nil {
		return InterruptionResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("reject interruption begin tx failed", zap.Error(err))
		return InterruptionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	mini, err := s.lockAndLoad(ctx, qtx, id)
	if err != nil {
		return InterruptionResponse{}, err
	}

	now := time.Now().UTC()
	staffStage := mini.Status == StatusPendingStaff
	if _, err := s.decide(ctx, actor, mini, now); err != nil {
		return InterruptionResponse{}, err
	}
	mini.Status = StatusRejected
	mini.DecisionNote = &note

	if err := qtx.UpdateDecision(ctx, mini); err != nil {
		s.logger.Error("reject interruption persist failed", zap.String("interruption_id", id), zap.Error(err))
		return InterruptionResponse{}, err
	}

	if staffStage && mini.Kind == KindManagerRecall {
		if err := s.annotateDeclinedRecall(ctx, tx, mini, note, now); err != nil {
			return InterruptionResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("reject interruption commit failed", zap.String("interruption_id", id), zap.Error(err))
		return InterruptionResponse{}, err
	}

	s.logger.Info("reject interruption success",
		zap.String("interruption_id", id),
		zap.String("actor_id", actorID),
	)
	return mapToResponse(mini), nil
}

func (s *service) GetByID(ctx context.Context, id string) (InterruptionResponse, error) {
	mini, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return InterruptionResponse{}, interruptionerrors.ErrInterruptionNotFound
		}
		return InterruptionResponse{}, err
	}
	return mapToResponse(mini), nil
}

func (s *service) GetByLeave(ctx context.Context, leaveID string) ([]InterruptionResponse, error) {
	list, err := s.repo.FindByLeaveID(ctx, leaveID)
	if err != nil {
		return nil, err
	}
	resp := make([]InterruptionResponse, len(list))
	for i := range list {
		resp[i] = mapToResponse(&list[i])
	}
	return resp, nil
}

// decide authorizes the actor for the mini's current stage and stamps
// the matching decision pair. It returns the status an approval at this
// stage would advance to; callers rejecting discard it.
func (s *service) decide(ctx context.Context, actor *employee.Employee, mini *InterruptRequest, now time.Time) (string, error) {
	parent := mini.Leave
	switch mini.Status {
	case StatusPendingStaff:
		if actor.ID != parent.EmployeeID && !actor.IsAdmin() {
			return "", interruptionerrors.ErrNotRecallTarget
		}
		mini.StaffDecisionBy = &actor.ID
		mini.StaffDecisionAt = &now
		return StatusApproved, nil
	case StatusPendingManager, StatusPendingHR, StatusPendingCEO:
		flow, _ := ReturnFlowFor(s.res.AffiliateOf(parent.Employee), parent.Employee.RoutingRole())
		if len(flow) == 0 {
			return "", interruptionerrors.ErrUnresolvedAffiliate
		}
		ok, err := s.engine.CanAct(ctx, actor, parent.Employee, flow, mini.Status)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", interruptionerrors.ErrNotAuthorizedToDecide
		}
		switch mini.Status {
		case StatusPendingManager:
			mini.ManagerDecisionBy = &actor.ID
			mini.ManagerDecisionAt = &now
		case StatusPendingHR:
			mini.HRDecisionBy = &actor.ID
			mini.HRDecisionAt = &now
		case StatusPendingCEO:
			mini.CEODecisionBy = &actor.ID
			mini.CEODecisionAt = &now
		}
		return flow.NextStatus(mini.Status), nil
	default:
		return "", interruptionerrors.ErrInterruptionClosed
	}
}

// apply writes the interruption onto the parent exactly once. The
// parent row lock serializes concurrent attempts; a mini that already
// carries applied_at is a no-op.
func (s *service) apply(ctx context.Context, tx *sql.Tx, mini *InterruptRequest, now time.Time) error {
	if mini.AppliedAt != nil {
		return nil
	}
	parent := mini.Leave

	if _, err := s.leaves.WithTx(tx).LockByID(ctx, parent.ID.String()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return interruptionerrors.ErrLeaveNotFound
		}
		return err
	}

	credited := workdays.Count(mini.RequestedResumeDate, parent.EndDate)
	mini.Status = StatusApplied
	mini.CreditedWorkingDays = credited
	mini.AppliedAt = &now

	resume := mini.RequestedResumeDate
	note := mini.Reason
	annotated := *parent
	annotated.ActualResumeDate = &resume
	annotated.InterruptionCreditedDays = &credited
	if note != "" {
		annotated.InterruptionNote = &note
	}
	annotated.InterruptedBy = &mini.InitiatedBy
	annotated.InterruptedAt = &now
	if err := s.leaves.WithTx(tx).ApplyInterruption(ctx, &annotated); err != nil {
		s.logger.Error("apply interruption to parent failed",
			zap.String("interruption_id", mini.ID.String()),
			zap.String("leave_id", parent.ID.String()),
			zap.Error(err),
		)
		return err
	}

	s.recordApplied(ctx, tx, mini, now)
	return nil
}

// annotateDeclinedRecall leaves a trace of the refused recall on the
// parent without touching dates or credit.
func (s *service) annotateDeclinedRecall(ctx context.Context, tx *sql.Tx, mini *InterruptRequest, note string, now time.Time) error {
	parent := mini.Leave

	if _, err := s.leaves.WithTx(tx).LockByID(ctx, parent.ID.String()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return interruptionerrors.ErrLeaveNotFound
		}
		return err
	}

	annotated := *parent
	annotated.InterruptionNote = &note
	annotated.InterruptedAt = &now
	return s.leaves.WithTx(tx).ApplyInterruption(ctx, &annotated)
}

// recordApplied queues the applied event in the same transaction as the
// decision. Best effort by contract of the outbox: a failed insert is
// logged and rolls the transaction back with the rest.
func (s *service) recordApplied(ctx context.Context, tx *sql.Tx, mini *InterruptRequest, now time.Time) {
	if s.outbox == nil {
		return
	}

	payload, err := json.Marshal(events.LeaveInterruptionAppliedEvent{
		EventType:      "leave.interruption.applied",
		InterruptionID: mini.ID.String(),
		LeaveID:        mini.LeaveRequestID.String(),
		EmployeeID:     mini.Leave.EmployeeID.String(),
		ResumeDate:     mini.RequestedResumeDate.Format("2006-01-02"),
		CreditedDays:   mini.CreditedWorkingDays,
		OccurredAt:     now,
	})
	if err != nil {
		return
	}

	if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave_interrupt_request",
		AggregateID:   mini.ID.String(),
		EventType:     "leave.interruption.applied",
		Topic:         events.LeaveInterruptionAppliedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Warn("record interruption applied event failed",
			zap.String("interruption_id", mini.ID.String()),
			zap.Error(err),
		)
	}
}

// canInitiateRecall encodes who may pull an employee back from leave.
// The answer depends on the employee's affiliate and role, never on the
// initiator's convenience.
func (s *service) canInitiateRecall(ctx context.Context, initiator, target *employee.Employee) (bool, error) {
	if !initiator.IsActive {
		return false, nil
	}
	if initiator.IsAdmin() {
		return true, nil
	}

	tag := s.res.AffiliateOf(target)
	switch tag {
	case affiliate.TagMerban:
		switch target.RoutingRole() {
		case employee.RoleManager:
			if initiator.RoutingRole() == employee.RoleHR {
				return true, nil
			}
			return s.isAffiliateCEO(ctx, initiator, target)
		case employee.RoleHR:
			return s.isAffiliateCEO(ctx, initiator, target)
		case employee.RoleCEO:
			return false, nil
		default:
			return isDirectSuperior(initiator, target), nil
		}
	case affiliate.TagSDSL, affiliate.TagSBL:
		if isDirectSuperior(initiator, target) {
			return s.res.AffiliateOf(initiator) == tag, nil
		}
		return s.isAffiliateCEO(ctx, initiator, target)
	default:
		return false, nil
	}
}

func (s *service) isAffiliateCEO(ctx context.Context, initiator, target *employee.Employee) (bool, error) {
	ceo, err := s.res.CEOFor(ctx, target)
	if err != nil {
		return false, err
	}
	return ceo != nil && ceo.ID == initiator.ID, nil
}

func isDirectSuperior(initiator, target *employee.Employee) bool {
	if target.ManagerID != nil && *target.ManagerID == initiator.ID {
		return true
	}
	return target.Department != nil && target.Department.HodID != nil &&
		*target.Department.HodID == initiator.ID
}

// lockApprovedParent takes the parent row lock and enforces every
// precondition shared by both submission paths.
func (s *service) lockApprovedParent(ctx context.Context, tx *sql.Tx, leaveID string) (*leave.LeaveRequest, error) {
	status, err := s.leaves.WithTx(tx).LockByID(ctx, leaveID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, interruptionerrors.ErrLeaveNotFound
		}
		return nil, err
	}
	if status != approval.StatusApproved {
		return nil, interruptionerrors.ErrParentNotApproved
	}

	parent, err := s.leaves.FindByID(ctx, leaveID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, interruptionerrors.ErrLeaveNotFound
		}
		return nil, err
	}
	parent.Status = status

	if parent.InterruptedAt != nil && parent.InterruptionCreditedDays != nil {
		return nil, interruptionerrors.ErrAlreadyInterrupted
	}
	open, err := s.repo.HasOpenByLeaveID(ctx, leaveID)
	if err != nil {
		return nil, err
	}
	if open {
		return nil, interruptionerrors.ErrInterruptionInFlight
	}
	return parent, nil
}

// validateWindow checks the resume date sits inside the leave and still
// buys back at least one working day.
func (s *service) validateWindow(parent *leave.LeaveRequest, resumeDate time.Time) error {
	if resumeDate.Before(parent.StartDate) || resumeDate.After(parent.EndDate) {
		return interruptionerrors.ErrResumeOutsideLeave
	}
	if workdays.Count(resumeDate, parent.EndDate) == 0 {
		return interruptionerrors.ErrNoCreditableDays
	}
	return nil
}

func (s *service) lockAndLoad(ctx context.Context, qtx Repository, id string) (*InterruptRequest, error) {
	status, err := qtx.LockByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, interruptionerrors.ErrInterruptionNotFound
		}
		return nil, err
	}
	if !IsOpen(status) {
		return nil, interruptionerrors.ErrInterruptionClosed
	}

	mini, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, interruptionerrors.ErrInterruptionNotFound
		}
		return nil, err
	}
	mini.Status = status
	return mini, nil
}

func (s *service) reconcileBalance(ctx context.Context, parent *leave.LeaveRequest) {
	if s.recon == nil {
		return
	}
	if err := s.recon.Reconcile(ctx, parent.EmployeeID, parent.LeaveType, parent.StartDate.Year()); err != nil {
		s.logger.Warn("balance reconciliation failed",
			zap.String("leave_id", parent.ID.String()),
			zap.String("employee_id", parent.EmployeeID.String()),
			zap.Error(err),
		)
	}
}

func (s *service) findActor(ctx context.Context, actorID string) (*employee.Employee, error) {
	if _, err := uuid.Parse(actorID); err != nil {
		return nil, interruptionerrors.ErrInvalidActorID
	}
	actor, err := s.emp.FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, interruptionerrors.ErrEmployeeNotFound
		}
		return nil, err
	}
	return actor, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, interruptionerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(i *InterruptRequest) InterruptionResponse {
	resp := InterruptionResponse{
		ID:                  i.ID.String(),
		LeaveRequestID:      i.LeaveRequestID.String(),
		Kind:                i.Kind,
		Status:              i.Status,
		RequestedResumeDate: i.RequestedResumeDate.Format("2006-01-02"),
		Reason:              i.Reason,
		InitiatedBy:         i.InitiatedBy.String(),
		InitiatedRole:       i.InitiatedRole,
		DecisionNote:        i.DecisionNote,
		CreditedWorkingDays: i.CreditedWorkingDays,
	}
	resp.ManagerDecision = decisionResponse(i.ManagerDecisionBy, i.ManagerDecisionAt)
	resp.HRDecision = decisionResponse(i.HRDecisionBy, i.HRDecisionAt)
	resp.CEODecision = decisionResponse(i.CEODecisionBy, i.CEODecisionAt)
	resp.StaffDecision = decisionResponse(i.StaffDecisionBy, i.StaffDecisionAt)
	if i.AppliedAt != nil {
		v := i.AppliedAt.Format(time.RFC3339)
		resp.AppliedAt = &v
	}
	return resp
}

func decisionResponse(by *uuid.UUID, at *time.Time) *DecisionResponse {
	if by == nil && at == nil {
		return nil
	}
	resp := &DecisionResponse{}
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
