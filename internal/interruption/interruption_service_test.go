package interruption_test

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"go-leave/internal/affiliate"
	"go-leave/internal/approval"
	"go-leave/internal/employee"
	"go-leave/internal/interruption"
	"go-leave/internal/leave"
	"go-leave/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeInterruptionRepository struct {
	createFn         func(ctx context.Context, i *interruption.InterruptRequest) error
	findByIDFn       func(ctx context.Context, id string) (*interruption.InterruptRequest, error)
	findByLeaveIDFn  func(ctx context.Context, leaveID string) ([]interruption.InterruptRequest, error)
	hasOpenFn        func(ctx context.Context, leaveID string) (bool, error)
	lockByIDFn       func(ctx context.Context, id string) (string, error)
	updateDecisionFn func(ctx context.Context, i *interruption.InterruptRequest) error
}

func (f *fakeInterruptionRepository) WithTx(_ *sql.Tx) interruption.Repository { return f }

func (f *fakeInterruptionRepository) Create(ctx context.Context, i *interruption.InterruptRequest) error {
	if f.createFn != nil {
		return f.createFn(ctx, i)
	}
	return nil
}

func (f *fakeInterruptionRepository) FindByID(ctx context.Context, id string) (*interruption.InterruptRequest, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeInterruptionRepository) FindByLeaveID(ctx context.Context, leaveID string) ([]interruption.InterruptRequest, error) {
	if f.findByLeaveIDFn != nil {
		return f.findByLeaveIDFn(ctx, leaveID)
	}
	return nil, nil
}

func (f *fakeInterruptionRepository) HasOpenByLeaveID(ctx context.Context, leaveID string) (bool, error) {
	if f.hasOpenFn != nil {
		return f.hasOpenFn(ctx, leaveID)
	}
	return false, nil
}

func (f *fakeInterruptionRepository) LockByID(ctx context.Context, id string) (string, error) {
	if f.lockByIDFn != nil {
		return f.lockByIDFn(ctx, id)
	}
	return "", gorm.ErrRecordNotFound
}

func (f *fakeInterruptionRepository) UpdateDecision(ctx context.Context, i *interruption.InterruptRequest) error {
	if f.updateDecisionFn != nil {
		return f.updateDecisionFn(ctx, i)
	}
	return nil
}

type fakeLeaveRepository struct {
	findByIDFn          func(ctx context.Context, id string) (*leave.LeaveRequest, error)
	lockByIDFn          func(ctx context.Context, id string) (string, error)
	applyInterruptionFn func(ctx context.Context, l *leave.LeaveRequest) error
}

func (f *fakeLeaveRepository) WithTx(_ *sql.Tx) leave.Repository { return f }

func (f *fakeLeaveRepository) Create(_ context.Context, _ *leave.LeaveRequest) error { return nil }

func (f *fakeLeaveRepository) FindAll(_ context.Context) ([]leave.LeaveRequest, error) {
	return nil, nil
}

func (f *fakeLeaveRepository) FindAllByEmployee(_ context.Context, _ string) ([]leave.LeaveRequest, error) {
	return nil, nil
}

func (f *fakeLeaveRepository) FindByID(ctx context.Context, id string) (*leave.LeaveRequest, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLeaveRepository) FindByStatuses(_ context.Context, _ []string) ([]leave.LeaveRequest, error) {
	return nil, nil
}

func (f *fakeLeaveRepository) LockByID(ctx context.Context, id string) (string, error) {
	if f.lockByIDFn != nil {
		return f.lockByIDFn(ctx, id)
	}
	return "", gorm.ErrRecordNotFound
}

func (f *fakeLeaveRepository) UpdateDecision(_ context.Context, _ *leave.LeaveRequest) error {
	return nil
}

func (f *fakeLeaveRepository) ApplyInterruption(ctx context.Context, l *leave.LeaveRequest) error {
	if f.applyInterruptionFn != nil {
		return f.applyInterruptionFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) RecordResume(_ context.Context, _ string, _ time.Time) error {
	return nil
}

func (f *fakeLeaveRepository) HasOverlappingPeriod(_ context.Context, _ string, _, _ time.Time, _ *string) (bool, error) {
	return false, nil
}

func (f *fakeLeaveRepository) CountDepartmentOverlaps(_ context.Context, _ string, _, _ time.Time, _ string) (int64, error) {
	return 0, nil
}

type fakeEmployeeRepository struct {
	employees map[string]*employee.Employee
	ceoByName map[string]*employee.Employee
	byRole    map[string]*employee.Employee
}

func newFakeEmployeeRepository() *fakeEmployeeRepository {
	return &fakeEmployeeRepository{
		employees: map[string]*employee.Employee{},
		ceoByName: map[string]*employee.Employee{},
		byRole:    map[string]*employee.Employee{},
	}
}

func (f *fakeEmployeeRepository) add(e *employee.Employee) *employee.Employee {
	f.employees[e.ID.String()] = e
	return e
}

func (f *fakeEmployeeRepository) WithTx(_ *sql.Tx) employee.Repository { return f }

func (f *fakeEmployeeRepository) Create(_ context.Context, _ *employee.Employee) error { return nil }

func (f *fakeEmployeeRepository) FindAll(_ context.Context) ([]employee.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeRepository) FindByID(_ context.Context, id string) (*employee.Employee, error) {
	if e, ok := f.employees[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepository) Update(_ context.Context, _ *employee.Employee) error { return nil }

func (f *fakeEmployeeRepository) Delete(_ context.Context, _ string) error { return nil }

func (f *fakeEmployeeRepository) FirstActiveByRole(_ context.Context, role string) (*employee.Employee, error) {
	if e, ok := f.byRole[role]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepository) FindCEOByAffiliateNames(_ context.Context, names []string) (*employee.Employee, error) {
	for _, n := range names {
		if e, ok := f.ceoByName[strings.ToLower(n)]; ok {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeOutboxRepository struct {
	events []kafka.OutboxEvent
}

func (f *fakeOutboxRepository) WithTx(_ *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutboxRepository) Create(_ context.Context, event kafka.OutboxEvent) error {
	f.events = append(f.events, event)
	return nil
}

func (f *fakeOutboxRepository) ListPending(_ context.Context, _ int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkSent(_ context.Context, _ string) error { return nil }

func (f *fakeOutboxRepository) MarkFailed(_ context.Context, _ string, _ string) error { return nil }

type fakeReconciler struct {
	calls []uuid.UUID
}

func (f *fakeReconciler) Reconcile(_ context.Context, employeeID uuid.UUID, _ string, _ int) error {
	f.calls = append(f.calls, employeeID)
	return nil
}

type interruptionServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	repo    *fakeInterruptionRepository
	leaves  *fakeLeaveRepository
	emp     *fakeEmployeeRepository
	outbox  *fakeOutboxRepository
	recon   *fakeReconciler
	service interruption.Service
}

func setupInterruptionServiceTest(t *testing.T) *interruptionServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeInterruptionRepository{}
	leaves := &fakeLeaveRepository{}
	emp := newFakeEmployeeRepository()
	outbox := &fakeOutboxRepository{}
	recon := &fakeReconciler{}

	res := employee.NewResolver(emp)
	engine := approval.NewEngine(emp, res, zap.NewNop())
	svc := interruption.NewService(db, repo, leaves, emp, engine, res, outbox, recon, zap.NewNop())

	return &interruptionServiceDeps{
		db:      db,
		sqlMock: sqlMock,
		repo:    repo,
		leaves:  leaves,
		emp:     emp,
		outbox:  outbox,
		recon:   recon,
		service: svc,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func merbanAffiliate() *affiliate.Affiliate {
	return &affiliate.Affiliate{ID: uuid.New(), Name: "Merban Capital"}
}

func sdslAffiliate() *affiliate.Affiliate {
	return &affiliate.Affiliate{ID: uuid.New(), Name: "SDSL"}
}

func newTestEmployee(role string, aff *affiliate.Affiliate) *employee.Employee {
	return &employee.Employee{
		ID:        uuid.New(),
		FullName:  "Test " + role,
		Role:      role,
		Affiliate: aff,
		IsActive:  true,
	}
}

// approvedLeave spans Thursday 2025-05-01 through Friday 2025-05-09,
// seven working days.
func approvedLeave(requester *employee.Employee) *leave.LeaveRequest {
	return &leave.LeaveRequest{
		ID:          uuid.New(),
		EmployeeID:  requester.ID,
		Employee:    requester,
		LeaveType:   leave.TypeAnnual,
		StartDate:   time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2025, 5, 9, 0, 0, 0, 0, time.UTC),
		WorkingDays: 7,
		Status:      approval.StatusApproved,
	}
}

func stubParent(deps *interruptionServiceDeps, l *leave.LeaveRequest) {
	deps.leaves.lockByIDFn = func(_ context.Context, id string) (string, error) {
		if id != l.ID.String() {
			return "", gorm.ErrRecordNotFound
		}
		return l.Status, nil
	}
	deps.leaves.findByIDFn = func(_ context.Context, id string) (*leave.LeaveRequest, error) {
		if id != l.ID.String() {
			return nil, gorm.ErrRecordNotFound
		}
		return l, nil
	}
}

func stubMini(deps *interruptionServiceDeps, mini *interruption.InterruptRequest) {
	deps.repo.lockByIDFn = func(_ context.Context, id string) (string, error) {
		if id != mini.ID.String() {
			return "", gorm.ErrRecordNotFound
		}
		return mini.Status, nil
	}
	deps.repo.findByIDFn = func(_ context.Context, id string) (*interruption.InterruptRequest, error) {
		if id != mini.ID.String() {
			return nil, gorm.ErrRecordNotFound
		}
		return mini, nil
	}
}

func TestInterruptionService_SubmitRecall(t *testing.T) {
	ctx := context.Background()

	t.Run("success manager recalls their report", func(t *testing.T) {
		deps := setupInterruptionServiceTest(t)
		defer deps.db.Close()

		aff := merbanAffiliate()
		manager := deps.emp.add(newTestEmployee(employee.RoleManager, aff))
		staff := newTestEmployee(employee.RoleJuniorStaff, aff)
		staff.ManagerID = &manager.ID
		deps.emp.add(staff)

		parent := approvedLeave(staff)
		stubParent(deps, parent)

		expectTx(t, deps.sqlMock, true)
		var created *interruption.InterruptRequest
		deps.repo.createFn = func(_ context.Context, i *interruption.InterruptRequest) error {
			created = i
			return nil
		}

		resp, err := deps.service.SubmitRecall(ctx, manager.ID.String(), parent.ID.String(), interruption.RecallLeaveRequest{
			RequestedResumeDate: "2025-05-07",
			Reason:              "audit season",
		})

		assert.NoError(t, err)
		assert.Equal(t, interruption.KindManagerRecall, resp.Kind)
		assert.Equal(t, interruption.StatusPendingStaff, resp.Status)
		assert.Equal(t, manager.ID.String(), resp.InitiatedBy)
		assert.Equal(t, employee.RoleManager, resp.InitiatedRole)
		assert.NotNil(t, created)
		assert.Equal(t, parent.ID, created.LeaveRequestID)
	})

	t.Run("success hr recalls a merban manager", func(t *testing.T) {
		deps := setupInterruptionServiceTest(t)
		defer deps.db.Close()

		aff := merbanAffiliate()
		hr := deps.emp.add(newTestEmployee(employee.RoleHR, aff))
		manager := deps.emp.add(newTestEmployee(employee.RoleManager, aff))

		parent := approvedLeave(manager)
		stubParent(deps, parent)

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.SubmitRecall(ctx, hr.ID.String(), parent.ID.String(), interruption.RecallLeaveRequest{
			RequestedResumeDate: "2025-05-08",
			Reason:              "regional review",
		})

		assert.NoError(t, err)
		assert.Equal(t, interruption.StatusPendingStaff, resp.Status)
	})

	t.Run("success sdsl ceo recalls affiliate staff", func(t *testing.T) {
		deps := setupInterruptionServiceTest(t)
		defer deps.db.Close()

		aff := sdslAffiliate()
		ceo := deps.emp.add(newTestEmployee(employee.RoleCEO, aff))
		deps.emp.ceoByName["sdsl"] = ceo
		staff := deps.emp.add(newTestEmployee(employee.RoleSeniorStaff, aff))

		parent := approvedLeave(staff)
		stubParent(deps, parent)

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.SubmitRecall(ctx, ceo.ID.String(), parent.ID.String(), interruption.RecallLeaveRequest{
			RequestedResumeDate: "2025-05-07",
			Reason:              "branch opening",
		})

		assert.NoError(t, err)
		assert.Equal(t, interruption.StatusPendingStaff, resp.Status)
	})

	t.Run("negative peer cannot recall", func(t *testing.T) {
		deps := setupInterruptionServiceTest(t)
		defer deps.db.Close()

		aff := merbanAffiliate()
		peer := deps.emp.add(newTestEmployee(employee.RoleSeniorStaff, aff))
		staff := deps.emp.add(newTestEmployee(employee.RoleJuniorStaff, aff))

		parent := approvedLeave(staff)
		stubParent(deps, parent)

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.SubmitRecall(ctx, peer.ID.String(), parent.ID.String(), interruption.RecallLeaveRequest{
			RequestedResumeDate: "2025-05-07",
			Reason:              "come back",
		})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "may not initiate a recall")
	})

	t.Run("negative parent not approved", func(t *testing.T) {
		deps := setupInterruptionServiceTest(t)
		defer deps.db.Close()

		aff := merbanAffiliate()
		manager := deps.emp.add(newTestEmployee(employee.RoleManager, aff))
		staff := newTestEmployee(employee.RoleJuniorStaff, aff)
		staff.ManagerID = &manager.ID
		deps.emp.add(staff)

		parent := approvedLeave(staff)
		parent.Status = approval.StatusPending
		stubParent(deps, parent)

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.SubmitRecall(ctx, manager.ID.String(), parent.ID.String(), interruption.RecallLeaveRequest{
			RequestedResumeDate: "2025-05-07",
			Reason:              "early recall",
		})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "only an approved leave")
	})

	t.Run("negative resume date outside the leave", func(t *testing.T) {
		deps := setupInterruptionServiceTest(t)
		defer deps.db.Close()

		aff := merbanAffiliate()
		manager := deps.emp.add(newTestEmployee(employee.RoleManager, aff))
		staff := newTestEmployee(employee.RoleJuniorStaff, aff)
		staff.ManagerID = &manager.ID
		deps.emp.add(staff)

		parent := approvedLeave(staff)
		stubParent(deps, parent)

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.SubmitRecall(ctx, manager.ID.String(), parent.ID.String(), interruption.RecallLeaveRequest{
			RequestedResumeDate: "2025-05-20",
			Reason:              "too late",
		})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "must fall within the leave period")
	})

	t.Run("negative weekend tail yields no credit", func(t *testing.T) {
		deps := setupInterruptionServiceTest(t)
		defer deps.db.Close()

		aff := merbanAffiliate()
		manager := deps.emp.add(newTestEmployee(employee.RoleManager, aff))
		staff := newTestEmployee(employee.RoleJuniorStaff, aff)
		staff.ManagerID = &manager.ID
		deps.emp.add(staff)

		parent := approvedLeave(staff)
		// Extend into the weekend so a Saturday resume still lands
		// inside the leave window.
		parent.EndDate = time.Date(2025, 5, 11, 0, 0, 0, 0, time.UTC)
		stubParent(deps, parent)

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.SubmitRecall(ctx, manager.ID.String(), parent.ID.String(), interruption.RecallLeaveRequest{
			RequestedResumeDate: "2025-05-10",
			Reason:              "saturday recall",
		})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "no creditable working days")
	})

	t.Run("negative open interruption already in flight", func(t *testing.T) {
		deps := setupInterruptionServiceTest(t)
		defer deps.db.Close()

		aff := merbanAffiliate()
		manager := deps.emp.add(newTestEmployee(employee.RoleManager, aff))
		staff := newTestEmployee(employee.RoleJuniorStaff, aff)
		staff.ManagerID = &manager.ID
		deps.emp.add(staff)

		parent := approvedLeave(staff)
		stubParent(deps, parent)
		deps.repo.hasOpenFn = func(_ context.Context, _ string) (bool, error) {
			return true, nil
		}

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.SubmitRecall(ctx, manager.ID.String(), parent.ID.String(), interruption.RecallLeaveRequest{
			RequestedResumeDate: "2025-05-07",
			Reason:              "second recall",
		})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "already exists for this leave")
	})
}

func TestInterruptionService_SubmitEarlyReturn(t *testing.T) {
	ctx := context.Background()

	t.Run("success merban staff enters at pending_manager", func(t *testing.T) {
		deps := setupInterruptionServiceTest(t)
		defer deps.db.Close()

		staff := deps.emp.add(newTestEmployee(employee.RoleJuniorStaff, merbanAffiliate()))
		parent := approvedLeave(staff)
		stubParent(deps, parent)

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.SubmitEarlyReturn(ctx, staff.ID.String(), parent.ID.String(), interruption.EarlyReturnRequest{
			RequestedResumeDate: "2025-05-07",
			Reason:              "project escalation",
		})

		assert.NoError(t, err)
		assert.Equal(t, interruption.KindStaffReturn, resp.Kind)
		assert.Equal(t, interruption.StatusPendingManager, resp.Status)
	})

	t.Run("success sdsl staff enters at pending_ceo", func(t *testing.T) {
		deps := setupInterruptionServiceTest(t)
		defer deps.db.Close()

		staff := deps.emp.add(newTestEmployee(employee.RoleSeniorStaff, sdslAffiliate()))
		parent := approvedLeave(staff)
		stubParent(deps, parent)

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.SubmitEarlyReturn(ctx, staff.ID.String(), parent.ID.String(), interruption.EarlyReturnRequest{
			RequestedResumeDate: "2025-05-07",
		})

		assert.NoError(t, err)
		assert.Equal(t, interruption.StatusPendingCEO, resp.Status)
	})

	t.Run("negative only the employee on leave may submit", func(t *testing.T) {
		deps := setupInterruptionServiceTest(t)
		defer deps.db.Close()

		aff := merbanAffiliate()
		staff := deps.emp.add(newTestEmployee(employee.RoleJuniorStaff, aff))
		other := deps.emp.add(newTestEmployee(employee.RoleSeniorStaff, aff))

		parent := approvedLeave(staff)
		stubParent(deps, parent)

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.SubmitEarlyReturn(ctx, other.ID.String(), parent.ID.String(), interruption.EarlyReturnRequest{
			RequestedResumeDate: "2025-05-07",
		})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "only the employee on leave")
	})

	t.Run("negative unknown affiliate is unroutable", func(t *testing.T) {
		deps := setupInterruptionServiceTest(t)
		defer deps.db.Close()

		staff := deps.emp.add(newTestEmployee(employee.RoleJuniorStaff, &affiliate.Affiliate{
			ID:   uuid.New(),
			Name: "Acme Holdings",
		}))
		parent := approvedLeave(staff)
		stubParent(deps, parent)

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.SubmitEarlyReturn(ctx, staff.ID.String(), parent.ID.String(), interruption.EarlyReturnRequest{
			RequestedResumeDate: "2025-05-07",
		})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unroutable")
	})
}

func TestInterruptionService_Approve(t *testing.T) {
	ctx := context.Background()

	t.Run("success staff accepts recall and credit lands on the parent", func(t *testing.T) {
		deps := setupInterruptionServiceTest(t)
		defer deps.db.Close()

		aff := merbanAffiliate()
		manager := deps.emp.add(newTestEmployee(employee.RoleManager, aff))
		staff := newTestEmployee(employee.RoleJuniorStaff, aff)
		staff.ManagerID = &manager.ID
		deps.emp.add(staff)

		parent := approvedLeave(staff)
		stubParent(deps, parent)

		mini := &interruption.InterruptRequest{
			ID:                  uuid.New(),
			LeaveRequestID:      parent.ID,
			Leave:               parent,
			Kind:                interruption.KindManagerRecall,
			Status:              interruption.StatusPendingStaff,
			RequestedResumeDate: time.Date(2025, 5, 7, 0, 0, 0, 0, time.UTC),
			Reason:              "audit season",
			InitiatedBy:         manager.ID,
			InitiatedRole:       employee.RoleManager,
		}
		stubMini(deps, mini)

		expectTx(t, deps.sqlMock, true)
		var annotated *leave.LeaveRequest
		deps.leaves.applyInterruptionFn = func(_ context.Context, l *leave.LeaveRequest) error {
			annotated = l
			return nil
		}
		var saved *interruption.InterruptRequest
		deps.repo.updateDecisionFn = func(_ context.Context, i *interruption.InterruptRequest) error {
			saved = i
			return nil
		}

		resp, err := deps.service.Approve(ctx, staff.ID.String(), mini.ID.String(), interruption.ApproveInterruptionRequest{})

		assert.NoError(t, err)
		assert.Equal(t, interruption.StatusApplied, resp.Status)
		// Wed 7th through Fri 9th buys back three working days.
		assert.Equal(t, 3, resp.CreditedWorkingDays)
		assert.NotNil(t, resp.StaffDecision)
		assert.NotNil(t, resp.AppliedAt)

		assert.NotNil(t, saved)
		assert.NotNil(t, saved.AppliedAt)

		assert.NotNil(t, annotated)
		assert.Equal(t, time.Date(2025, 5, 7, 0, 0, 0, 0, time.UTC), *annotated.ActualResumeDate)
		assert.Equal(t, 3, *annotated.InterruptionCreditedDays)
		assert.Equal(t, manager.ID, *annotated.InterruptedBy)

		assert.Len(t, deps.outbox.events, 1)
		assert.Equal(t, "leave.interruption.applied.v1", deps.outbox.events[0].Topic)
		assert.Equal(t, []uuid.UUID{staff.ID}, deps.recon.calls)
	})

	t.Run("success sdsl early return crosses ceo then hr", func(t *testing.T) {
		deps := setupInterruptionServiceTest(t)
		defer deps.db.Close()

		aff := sdslAffiliate()
		ceo := deps.emp.add(newTestEmployee(employee.RoleCEO, aff))
		deps.emp.ceoByName["sdsl"] = ceo
		hr := deps.emp.add(newTestEmployee(employee.RoleHR, aff))
		staff := deps.emp.add(newTestEmployee(employee.RoleSeniorStaff, aff))

		parent := approvedLeave(staff)
		stubParent(deps, parent)

		mini := &interruption.InterruptRequest{
			ID:                  uuid.New(),
			LeaveRequestID:      parent.ID,
			Leave:               parent,
			Kind:                interruption.KindStaffReturn,
			Status:              interruption.StatusPendingCEO,
			RequestedResumeDate: time.Date(2025, 5, 8, 0, 0, 0, 0, time.UTC),
			InitiatedBy:         staff.ID,
			InitiatedRole:       employee.RoleSeniorStaff,
		}
		stubMini(deps, mini)

		expectTx(t, deps.sqlMock, true)
		resp, err := deps.service.Approve(ctx, ceo.ID.String(), mini.ID.String(), interruption.ApproveInterruptionRequest{})
		assert.NoError(t, err)
		assert.Equal(t, interruption.StatusPendingHR, resp.Status)
		assert.NotNil(t, resp.CEODecision)
		assert.Nil(t, resp.AppliedAt)
		assert.Empty(t, deps.recon.calls)

		mini.Status = interruption.StatusPendingHR

		expectTx(t, deps.sqlMock, true)
		resp, err = deps.service.Approve(ctx, hr.ID.String(), mini.ID.String(), interruption.ApproveInterruptionRequest{})
		assert.NoError(t, err)
		assert.Equal(t, interruption.StatusApplied, resp.Status)
		// Thu 8th and Fri 9th are the two bought-back days.
		assert.Equal(t, 2, resp.CreditedWorkingDays)
		assert.Equal(t, []uuid.UUID{staff.ID}, deps.recon.calls)
	})

	t.Run("negative only the employee may accept a recall", func(t *testing.T) {
		deps := setupInterruptionServiceTest(t)
		defer deps.db.Close()

		aff := merbanAffiliate()
		manager := deps.emp.add(newTestEmployee(employee.RoleManager, aff))
		staff := newTestEmployee(employee.RoleJuniorStaff, aff)
		staff.ManagerID = &manager.ID
		deps.emp.add(staff)

		parent := approvedLeave(staff)
		stubParent(deps, parent)

		mini := &interruption.InterruptRequest{
			ID:                  uuid.New(),
			LeaveRequestID:      parent.ID,
			Leave:               parent,
			Kind:                interruption.KindManagerRecall,
			Status:              interruption.StatusPendingStaff,
			RequestedResumeDate: time.Date(2025, 5, 7, 0, 0, 0, 0, time.UTC),
			InitiatedBy:         manager.ID,
			InitiatedRole:       employee.RoleManager,
		}
		stubMini(deps, mini)

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Approve(ctx, manager.ID.String(), mini.ID.String(), interruption.ApproveInterruptionRequest{})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "may decide a recall")
	})

	t.Run("negative hr cannot act at pending_ceo", func(t *testing.T) {
		deps := setupInterruptionServiceTest(t)
		defer deps.db.Close()

		aff := sdslAffiliate()
		ceo := deps.emp.add(newTestEmployee(employee.RoleCEO, aff))
		deps.emp.ceoByName["sdsl"] = ceo
		hr := deps.emp.add(newTestEmployee(employee.RoleHR, aff))
		staff := deps.emp.add(newTestEmployee(employee.RoleSeniorStaff, aff))

		parent := approvedLeave(staff)
		stubParent(deps, parent)

		mini := &interruption.InterruptRequest{
			ID:                  uuid.New(),
			LeaveRequestID:      parent.ID,
			Leave:               parent,
			Kind:                interruption.KindStaffReturn,
			Status:              interruption.StatusPendingCEO,
			RequestedResumeDate: time.Date(2025, 5, 8, 0, 0, 0, 0, time.UTC),
			InitiatedBy:         staff.ID,
			InitiatedRole:       employee.RoleSeniorStaff,
		}
		stubMini(deps, mini)

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Approve(ctx, hr.ID.String(), mini.ID.String(), interruption.ApproveInterruptionRequest{})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "cannot act on this interruption")
	})

	t.Run("negative closed interruption", func(t *testing.T) {
		deps := setupInterruptionServiceTest(t)
		defer deps.db.Close()

		aff := merbanAffiliate()
		staff := deps.emp.add(newTestEmployee(employee.RoleJuniorStaff, aff))

		parent := approvedLeave(staff)
		mini := &interruption.InterruptRequest{
			ID:                  uuid.New(),
			LeaveRequestID:      parent.ID,
			Leave:               parent,
			Kind:                interruption.KindStaffReturn,
			Status:              interruption.StatusApplied,
			RequestedResumeDate: time.Date(2025, 5, 7, 0, 0, 0, 0, time.UTC),
			InitiatedBy:         staff.ID,
			InitiatedRole:       employee.RoleJuniorStaff,
		}
		stubMini(deps, mini)

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Approve(ctx, staff.ID.String(), mini.ID.String(), interruption.ApproveInterruptionRequest{})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "terminal status")
	})
}

func TestInterruptionService_Reject(t *testing.T) {
	ctx := context.Background()

	t.Run("success staff declines recall and the parent is annotated", func(t *testing.T) {
		deps := setupInterruptionServiceTest(t)
		defer deps.db.Close()

		aff := merbanAffiliate()
		manager := deps.emp.add(newTestEmployee(employee.RoleManager, aff))
		staff := newTestEmployee(employee.RoleJuniorStaff, aff)
		staff.ManagerID = &manager.ID
		deps.emp.add(staff)

		parent := approvedLeave(staff)
		stubParent(deps, parent)

		mini := &interruption.InterruptRequest{
			ID:                  uuid.New(),
			LeaveRequestID:      parent.ID,
			Leave:               parent,
			Kind:                interruption.KindManagerRecall,
			Status:              interruption.StatusPendingStaff,
			RequestedResumeDate: time.Date(2025, 5, 7, 0, 0, 0, 0, time.UTC),
			InitiatedBy:         manager.ID,
			InitiatedRole:       employee.RoleManager,
		}
		stubMini(deps, mini)

		expectTx(t, deps.sqlMock, true)
		var annotated *leave.LeaveRequest
		deps.leaves.applyInterruptionFn = func(_ context.Context, l *leave.LeaveRequest) error {
			annotated = l
			return nil
		}

		resp, err := deps.service.Reject(ctx, staff.ID.String(), mini.ID.String(), "still abroad")

		assert.NoError(t, err)
		assert.Equal(t, interruption.StatusRejected, resp.Status)
		assert.NotNil(t, resp.StaffDecision)
		assert.Equal(t, "still abroad", *resp.DecisionNote)

		assert.NotNil(t, annotated)
		assert.Equal(t, "still abroad", *annotated.InterruptionNote)
		assert.Nil(t, annotated.ActualResumeDate)
		assert.Nil(t, annotated.InterruptionCreditedDays)

		assert.Empty(t, deps.outbox.events)
		assert.Empty(t, deps.recon.calls)
	})

	t.Run("success manager rejects an early return without touching the parent", func(t *testing.T) {
		deps := setupInterruptionServiceTest(t)
		defer deps.db.Close()

		aff := merbanAffiliate()
		manager := deps.emp.add(newTestEmployee(employee.RoleManager, aff))
		staff := newTestEmployee(employee.RoleJuniorStaff, aff)
		staff.ManagerID = &manager.ID
		deps.emp.add(staff)

		parent := approvedLeave(staff)
		stubParent(deps, parent)

		mini := &interruption.InterruptRequest{
			ID:                  uuid.New(),
			LeaveRequestID:      parent.ID,
			Leave:               parent,
			Kind:                interruption.KindStaffReturn,
			Status:              interruption.StatusPendingManager,
			RequestedResumeDate: time.Date(2025, 5, 7, 0, 0, 0, 0, time.UTC),
			InitiatedBy:         staff.ID,
			InitiatedRole:       employee.RoleJuniorStaff,
		}
		stubMini(deps, mini)

		expectTx(t, deps.sqlMock, true)
		annotations := 0
		deps.leaves.applyInterruptionFn = func(_ context.Context, _ *leave.LeaveRequest) error {
			annotations++
			return nil
		}

		resp, err := deps.service.Reject(ctx, manager.ID.String(), mini.ID.String(), "cover arranged already")

		assert.NoError(t, err)
		assert.Equal(t, interruption.StatusRejected, resp.Status)
		assert.NotNil(t, resp.ManagerDecision)
		assert.Zero(t, annotations)
	})

	t.Run("negative note is required", func(t *testing.T) {
		deps := setupInterruptionServiceTest(t)
		defer deps.db.Close()

		staff := deps.emp.add(newTestEmployee(employee.RoleJuniorStaff, merbanAffiliate()))

		_, err := deps.service.Reject(ctx, staff.ID.String(), uuid.NewString(), "")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "note is required")
	})
}

func TestInterruptionService_Apply_Idempotent(t *testing.T) {
	ctx := context.Background()

	t.Run("re-approving an already applied mini is a no-op", func(t *testing.T) {
		deps := setupInterruptionServiceTest(t)
		defer deps.db.Close()

		aff := merbanAffiliate()
		staff := deps.emp.add(newTestEmployee(employee.RoleJuniorStaff, aff))

		parent := approvedLeave(staff)
		applied := time.Date(2025, 5, 6, 10, 0, 0, 0, time.UTC)
		mini := &interruption.InterruptRequest{
			ID:                  uuid.New(),
			LeaveRequestID:      parent.ID,
			Leave:               parent,
			Kind:                interruption.KindManagerRecall,
			Status:              interruption.StatusApplied,
			RequestedResumeDate: time.Date(2025, 5, 7, 0, 0, 0, 0, time.UTC),
			InitiatedBy:         staff.ID,
			InitiatedRole:       employee.RoleJuniorStaff,
			CreditedWorkingDays: 3,
			AppliedAt:           &applied,
		}
		stubMini(deps, mini)

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Approve(ctx, staff.ID.String(), mini.ID.String(), interruption.ApproveInterruptionRequest{})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "terminal status")
	})
}
