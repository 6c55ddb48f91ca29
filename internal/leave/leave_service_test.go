package leave_test

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"go-leave/internal/affiliate"
	"go-leave/internal/approval"
	"go-leave/internal/employee"
	"go-leave/internal/leave"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/shared/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeLeaveRepository struct {
	createFn                  func(ctx context.Context, l *leave.LeaveRequest) error
	findAllFn                 func(ctx context.Context) ([]leave.LeaveRequest, error)
	findAllByEmployeeFn       func(ctx context.Context, employeeID string) ([]leave.LeaveRequest, error)
	findByIDFn                func(ctx context.Context, id string) (*leave.LeaveRequest, error)
	findByStatusesFn          func(ctx context.Context, statuses []string) ([]leave.LeaveRequest, error)
	lockByIDFn                func(ctx context.Context, id string) (string, error)
	updateDecisionFn          func(ctx context.Context, l *leave.LeaveRequest) error
	applyInterruptionFn       func(ctx context.Context, l *leave.LeaveRequest) error
	recordResumeFn            func(ctx context.Context, id string, resumeDate time.Time) error
	hasOverlappingPeriodFn    func(ctx context.Context, employeeID string, startDate, endDate time.Time, excludeID *string) (bool, error)
	countDepartmentOverlapsFn func(ctx context.Context, departmentID string, startDate, endDate time.Time, excludeEmployeeID string) (int64, error)
}

func (f *fakeLeaveRepository) WithTx(_ *sql.Tx) leave.Repository {
	return f
}

func (f *fakeLeaveRepository) Create(ctx context.Context, l *leave.LeaveRequest) error {
	if f.createFn != nil {
		return f.createFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) FindAll(ctx context.Context) ([]leave.LeaveRequest, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) FindAllByEmployee(ctx context.Context, employeeID string) ([]leave.LeaveRequest, error) {
	if f.findAllByEmployeeFn != nil {
		return f.findAllByEmployeeFn(ctx, employeeID)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) FindByID(ctx context.Context, id string) (*leave.LeaveRequest, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLeaveRepository) FindByStatuses(ctx context.Context, statuses []string) ([]leave.LeaveRequest, error) {
	if f.findByStatusesFn != nil {
		return f.findByStatusesFn(ctx, statuses)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) LockByID(ctx context.Context, id string) (string, error) {
	if f.lockByIDFn != nil {
		return f.lockByIDFn(ctx, id)
	}
	return "", gorm.ErrRecordNotFound
}

func (f *fakeLeaveRepository) UpdateDecision(ctx context.Context, l *leave.LeaveRequest) error {
	if f.updateDecisionFn != nil {
		return f.updateDecisionFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) ApplyInterruption(ctx context.Context, l *leave.LeaveRequest) error {
	if f.applyInterruptionFn != nil {
		return f.applyInterruptionFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) RecordResume(ctx context.Context, id string, resumeDate time.Time) error {
	if f.recordResumeFn != nil {
		return f.recordResumeFn(ctx, id, resumeDate)
	}
	return nil
}

func (f *fakeLeaveRepository) HasOverlappingPeriod(ctx context.Context, employeeID string, startDate, endDate time.Time, excludeID *string) (bool, error) {
	if f.hasOverlappingPeriodFn != nil {
		return f.hasOverlappingPeriodFn(ctx, employeeID, startDate, endDate, excludeID)
	}
	return false, nil
}

func (f *fakeLeaveRepository) CountDepartmentOverlaps(ctx context.Context, departmentID string, startDate, endDate time.Time, excludeEmployeeID string) (int64, error) {
	if f.countDepartmentOverlapsFn != nil {
		return f.countDepartmentOverlapsFn(ctx, departmentID, startDate, endDate, excludeEmployeeID)
	}
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

type fakeBalanceChecker struct {
	availableFn func(ctx context.Context, employeeID uuid.UUID, leaveType string, year int) (int, error)
}

func (f *fakeBalanceChecker) Available(ctx context.Context, employeeID uuid.UUID, leaveType string, year int) (int, error) {
	if f.availableFn != nil {
		return f.availableFn(ctx, employeeID, leaveType, year)
	}
	return 25, nil
}

type fakeReconciler struct {
	calls []uuid.UUID
}

func (f *fakeReconciler) Reconcile(_ context.Context, employeeID uuid.UUID, _ string, _ int) error {
	f.calls = append(f.calls, employeeID)
	return nil
}

type leaveServiceDeps struct {
	db       *sql.DB
	sqlMock  sqlmock.Sqlmock
	repo     *fakeLeaveRepository
	emp      *fakeEmployeeRepository
	outbox   *fakeOutboxRepository
	balances *fakeBalanceChecker
	recon    *fakeReconciler
	service  leave.Service
}

func setupLeaveServiceTest(t *testing.T) *leaveServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeLeaveRepository{}
	emp := newFakeEmployeeRepository()
	outbox := &fakeOutboxRepository{}
	balances := &fakeBalanceChecker{}
	recon := &fakeReconciler{}

	res := employee.NewResolver(emp)
	engine := approval.NewEngine(emp, res, zap.NewNop())
	svc := leave.NewService(db, repo, emp, engine, res, outbox, balances, recon, config.Config{}, zap.NewNop())

	return &leaveServiceDeps{
		db:       db,
		sqlMock:  sqlMock,
		repo:     repo,
		emp:      emp,
		outbox:   outbox,
		balances: balances,
		recon:    recon,
		service:  svc,
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

func TestLeaveService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success merban staff starts pending", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		aff := merbanAffiliate()
		manager := newTestEmployee(employee.RoleManager, aff)
		requester := newTestEmployee(employee.RoleJuniorStaff, aff)
		requester.ManagerID = &manager.ID
		deps.emp.add(manager)
		deps.emp.add(requester)

		expectTx(t, deps.sqlMock, true)
		req := leave.CreateLeaveRequest{
			EmployeeID: requester.ID.String(),
			LeaveType:  leave.TypeAnnual,
			StartDate:  "2026-03-02",
			EndDate:    "2026-03-06",
			Reason:     "family event",
		}

		deps.repo.createFn = func(_ context.Context, l *leave.LeaveRequest) error {
			assert.Equal(t, requester.ID, l.EmployeeID)
			assert.Equal(t, 5, l.WorkingDays)
			assert.Equal(t, approval.StatusPending, l.Status)
			return nil
		}

		resp, err := deps.service.Create(ctx, requester.ID.String(), req)

		assert.NoError(t, err)
		assert.Equal(t, approval.StatusPending, resp.Status)
		assert.Equal(t, 5, resp.WorkingDays)
		assert.Equal(t, string(affiliate.TagMerban), resp.Affiliate)
		assert.Len(t, deps.outbox.events, 1)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success weekend days are not counted", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		aff := merbanAffiliate()
		requester := newTestEmployee(employee.RoleSeniorStaff, aff)
		mgrID := uuid.New()
		requester.ManagerID = &mgrID
		deps.emp.add(requester)

		expectTx(t, deps.sqlMock, true)
		req := leave.CreateLeaveRequest{
			EmployeeID: requester.ID.String(),
			LeaveType:  leave.TypeAnnual,
			StartDate:  "2026-03-06",
			EndDate:    "2026-03-09",
		}

		deps.repo.createFn = func(_ context.Context, l *leave.LeaveRequest) error {
			assert.Equal(t, 2, l.WorkingDays)
			return nil
		}

		resp, err := deps.service.Create(ctx, requester.ID.String(), req)

		assert.NoError(t, err)
		assert.Equal(t, 2, resp.WorkingDays)
	})

	t.Run("success merban manager skips own stage", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		aff := merbanAffiliate()
		requester := newTestEmployee(employee.RoleManager, aff)
		deps.emp.add(requester)

		expectTx(t, deps.sqlMock, true)
		req := leave.CreateLeaveRequest{
			EmployeeID: requester.ID.String(),
			LeaveType:  leave.TypeAnnual,
			StartDate:  "2026-03-02",
			EndDate:    "2026-03-03",
		}

		resp, err := deps.service.Create(ctx, requester.ID.String(), req)

		assert.NoError(t, err)
		assert.Equal(t, approval.StatusManagerApproved, resp.Status)
	})

	t.Run("success sdsl ceo request enters at ceo_approved", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		requester := newTestEmployee(employee.RoleCEO, sdslAffiliate())
		deps.emp.add(requester)

		expectTx(t, deps.sqlMock, true)
		req := leave.CreateLeaveRequest{
			EmployeeID: requester.ID.String(),
			LeaveType:  leave.TypeAnnual,
			StartDate:  "2026-03-02",
			EndDate:    "2026-03-03",
		}

		resp, err := deps.service.Create(ctx, requester.ID.String(), req)

		assert.NoError(t, err)
		assert.Equal(t, approval.StatusCEOApproved, resp.Status)
	})

	t.Run("negative weekend-only period", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		requester := newTestEmployee(employee.RoleJuniorStaff, merbanAffiliate())
		deps.emp.add(requester)

		req := leave.CreateLeaveRequest{
			EmployeeID: requester.ID.String(),
			LeaveType:  leave.TypeAnnual,
			StartDate:  "2026-03-07",
			EndDate:    "2026-03-08",
		}

		_, err := deps.service.Create(ctx, requester.ID.String(), req)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "no working days")
	})

	t.Run("negative overlap period", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		requester := newTestEmployee(employee.RoleJuniorStaff, merbanAffiliate())
		deps.emp.add(requester)

		deps.repo.hasOverlappingPeriodFn = func(_ context.Context, _ string, _, _ time.Time, excludeID *string) (bool, error) {
			assert.Nil(t, excludeID)
			return true, nil
		}

		req := leave.CreateLeaveRequest{
			EmployeeID: requester.ID.String(),
			LeaveType:  leave.TypeAnnual,
			StartDate:  "2026-03-02",
			EndDate:    "2026-03-03",
		}

		_, err := deps.service.Create(ctx, requester.ID.String(), req)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "overlapping period")
	})

	t.Run("negative insufficient balance", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		requester := newTestEmployee(employee.RoleJuniorStaff, merbanAffiliate())
		deps.emp.add(requester)

		deps.balances.availableFn = func(_ context.Context, _ uuid.UUID, _ string, _ int) (int, error) {
			return 1, nil
		}

		req := leave.CreateLeaveRequest{
			EmployeeID: requester.ID.String(),
			LeaveType:  leave.TypeAnnual,
			StartDate:  "2026-03-02",
			EndDate:    "2026-03-06",
		}

		_, err := deps.service.Create(ctx, requester.ID.String(), req)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "insufficient leave balance")
	})

	t.Run("negative actor is not the requester", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		aff := merbanAffiliate()
		requester := newTestEmployee(employee.RoleJuniorStaff, aff)
		stranger := newTestEmployee(employee.RoleSeniorStaff, aff)
		deps.emp.add(requester)
		deps.emp.add(stranger)

		req := leave.CreateLeaveRequest{
			EmployeeID: requester.ID.String(),
			LeaveType:  leave.TypeAnnual,
			StartDate:  "2026-03-02",
			EndDate:    "2026-03-03",
		}

		_, err := deps.service.Create(ctx, stranger.ID.String(), req)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "only the requester or an admin")
	})

	t.Run("success admin creates on behalf of employee", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		aff := merbanAffiliate()
		requester := newTestEmployee(employee.RoleJuniorStaff, aff)
		mgrID := uuid.New()
		requester.ManagerID = &mgrID
		admin := newTestEmployee(employee.RoleAdmin, aff)
		deps.emp.add(requester)
		deps.emp.add(admin)

		expectTx(t, deps.sqlMock, true)
		req := leave.CreateLeaveRequest{
			EmployeeID: requester.ID.String(),
			LeaveType:  leave.TypeSick,
			StartDate:  "2026-03-02",
			EndDate:    "2026-03-03",
		}

		resp, err := deps.service.Create(ctx, admin.ID.String(), req)

		assert.NoError(t, err)
		assert.Equal(t, approval.StatusPending, resp.Status)
	})
}

func newOpenRequest(requester *employee.Employee, status string) *leave.LeaveRequest {
	return &leave.LeaveRequest{
		ID:          uuid.New(),
		EmployeeID:  requester.ID,
		Employee:    requester,
		LeaveType:   leave.TypeAnnual,
		StartDate:   time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC),
		WorkingDays: 5,
		Status:      status,
	}
}

func stubRequest(deps *leaveServiceDeps, l *leave.LeaveRequest) {
	deps.repo.lockByIDFn = func(_ context.Context, id string) (string, error) {
		if id != l.ID.String() {
			return "", gorm.ErrRecordNotFound
		}
		return l.Status, nil
	}
	deps.repo.findByIDFn = func(_ context.Context, id string) (*leave.LeaveRequest, error) {
		if id != l.ID.String() {
			return nil, gorm.ErrRecordNotFound
		}
		cp := *l
		return &cp, nil
	}
}

func TestLeaveService_Approve(t *testing.T) {
	ctx := context.Background()

	t.Run("success manager moves pending to manager_approved", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		aff := merbanAffiliate()
		manager := newTestEmployee(employee.RoleManager, aff)
		requester := newTestEmployee(employee.RoleJuniorStaff, aff)
		requester.ManagerID = &manager.ID
		deps.emp.add(manager)
		deps.emp.add(requester)

		l := newOpenRequest(requester, approval.StatusPending)
		stubRequest(deps, l)

		expectTx(t, deps.sqlMock, true)
		deps.repo.updateDecisionFn = func(_ context.Context, got *leave.LeaveRequest) error {
			assert.Equal(t, approval.StatusManagerApproved, got.Status)
			assert.NotNil(t, got.ManagerApprovedBy)
			assert.Equal(t, manager.ID, *got.ManagerApprovedBy)
			assert.NotNil(t, got.ManagerApprovedAt)
			assert.Nil(t, got.ApprovalDate)
			return nil
		}

		resp, err := deps.service.Approve(ctx, manager.ID.String(), l.ID.String(), leave.ApproveLeaveRequest{})

		assert.NoError(t, err)
		assert.Equal(t, approval.StatusManagerApproved, resp.Status)
		assert.Len(t, deps.outbox.events, 1)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success response carries earlier stage stamps", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		aff := merbanAffiliate()
		manager := newTestEmployee(employee.RoleManager, aff)
		hr := newTestEmployee(employee.RoleHR, aff)
		requester := newTestEmployee(employee.RoleJuniorStaff, aff)
		requester.ManagerID = &manager.ID
		deps.emp.add(manager)
		deps.emp.add(hr)
		deps.emp.add(requester)

		l := newOpenRequest(requester, approval.StatusManagerApproved)
		stamped := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
		l.ManagerApprovedBy = &manager.ID
		l.ManagerApprovedAt = &stamped
		stubRequest(deps, l)

		expectTx(t, deps.sqlMock, true)
		deps.repo.updateDecisionFn = func(_ context.Context, got *leave.LeaveRequest) error {
			return nil
		}

		resp, err := deps.service.Approve(ctx, hr.ID.String(), l.ID.String(), leave.ApproveLeaveRequest{})

		assert.NoError(t, err)
		assert.NotNil(t, resp.ManagerApproval)
		assert.Equal(t, manager.ID.String(), *resp.ManagerApproval.By)
		assert.Equal(t, stamped.Format(time.RFC3339), *resp.ManagerApproval.At)
		assert.NotNil(t, resp.HRApproval)
		assert.Nil(t, resp.CEOApproval)
	})

	t.Run("success ceo finalizes merban request", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		aff := merbanAffiliate()
		ceo := newTestEmployee(employee.RoleCEO, aff)
		requester := newTestEmployee(employee.RoleJuniorStaff, aff)
		deps.emp.add(ceo)
		deps.emp.add(requester)
		deps.emp.ceoByName["merban capital"] = ceo

		l := newOpenRequest(requester, approval.StatusHRApproved)
		stubRequest(deps, l)

		expectTx(t, deps.sqlMock, true)
		deps.repo.updateDecisionFn = func(_ context.Context, got *leave.LeaveRequest) error {
			assert.Equal(t, approval.StatusApproved, got.Status)
			assert.NotNil(t, got.CEOApprovedBy)
			assert.Equal(t, ceo.ID, *got.CEOApprovedBy)
			assert.NotNil(t, got.ApprovalDate)
			return nil
		}

		resp, err := deps.service.Approve(ctx, ceo.ID.String(), l.ID.String(), leave.ApproveLeaveRequest{Comments: "enjoy"})

		assert.NoError(t, err)
		assert.Equal(t, approval.StatusApproved, resp.Status)
		assert.NotNil(t, resp.ApprovalDate)
		assert.NotNil(t, resp.ApprovalComments)
		assert.Equal(t, "enjoy", *resp.ApprovalComments)
		assert.Equal(t, []uuid.UUID{requester.ID}, deps.recon.calls)
	})

	t.Run("negative unresolvable affiliate blocks even admins", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		unknown := &affiliate.Affiliate{ID: uuid.New(), Name: "Acme Holdings"}
		admin := newTestEmployee(employee.RoleAdmin, merbanAffiliate())
		requester := newTestEmployee(employee.RoleJuniorStaff, unknown)
		deps.emp.add(admin)
		deps.emp.add(requester)

		l := newOpenRequest(requester, approval.StatusPending)
		stubRequest(deps, l)

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Approve(ctx, admin.ID.String(), l.ID.String(), leave.ApproveLeaveRequest{})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unroutable")
	})

	t.Run("success sdsl hr finalizes after ceo", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		aff := sdslAffiliate()
		hr := newTestEmployee(employee.RoleHR, aff)
		requester := newTestEmployee(employee.RoleJuniorStaff, aff)
		deps.emp.add(hr)
		deps.emp.add(requester)

		l := newOpenRequest(requester, approval.StatusCEOApproved)
		stubRequest(deps, l)

		expectTx(t, deps.sqlMock, true)
		deps.repo.updateDecisionFn = func(_ context.Context, got *leave.LeaveRequest) error {
			assert.Equal(t, approval.StatusApproved, got.Status)
			assert.NotNil(t, got.HRApprovedBy)
			assert.NotNil(t, got.ApprovalDate)
			return nil
		}

		resp, err := deps.service.Approve(ctx, hr.ID.String(), l.ID.String(), leave.ApproveLeaveRequest{})

		assert.NoError(t, err)
		assert.Equal(t, approval.StatusApproved, resp.Status)
	})

	t.Run("negative hr cannot act at pending for merban staff", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		aff := merbanAffiliate()
		hr := newTestEmployee(employee.RoleHR, aff)
		requester := newTestEmployee(employee.RoleJuniorStaff, aff)
		deps.emp.add(hr)
		deps.emp.add(requester)

		l := newOpenRequest(requester, approval.StatusPending)
		stubRequest(deps, l)

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Approve(ctx, hr.ID.String(), l.ID.String(), leave.ApproveLeaveRequest{})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "cannot act on this request")
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative ceo of another affiliate is denied", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		merbanCEO := newTestEmployee(employee.RoleCEO, merbanAffiliate())
		requester := newTestEmployee(employee.RoleJuniorStaff, sdslAffiliate())
		sdslCEO := newTestEmployee(employee.RoleCEO, sdslAffiliate())
		deps.emp.add(merbanCEO)
		deps.emp.add(requester)
		deps.emp.add(sdslCEO)
		deps.emp.ceoByName["sdsl"] = sdslCEO

		l := newOpenRequest(requester, approval.StatusPending)
		stubRequest(deps, l)

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Approve(ctx, merbanCEO.ID.String(), l.ID.String(), leave.ApproveLeaveRequest{})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "cannot act on this request")
	})

	t.Run("negative duplicate approver conflicts", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		aff := merbanAffiliate()
		hr := newTestEmployee(employee.RoleHR, aff)
		requester := newTestEmployee(employee.RoleJuniorStaff, aff)
		deps.emp.add(hr)
		deps.emp.add(requester)

		l := newOpenRequest(requester, approval.StatusHRApproved)
		l.HRApprovedBy = &hr.ID
		now := time.Now().UTC()
		l.HRApprovedAt = &now
		stubRequest(deps, l)

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Approve(ctx, hr.ID.String(), l.ID.String(), leave.ApproveLeaveRequest{})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "already approved an earlier stage")
	})

	t.Run("negative terminal request is closed", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		aff := merbanAffiliate()
		manager := newTestEmployee(employee.RoleManager, aff)
		requester := newTestEmployee(employee.RoleJuniorStaff, aff)
		deps.emp.add(manager)
		deps.emp.add(requester)

		l := newOpenRequest(requester, approval.StatusApproved)
		stubRequest(deps, l)

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Approve(ctx, manager.ID.String(), l.ID.String(), leave.ApproveLeaveRequest{})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "terminal status")
	})

	t.Run("negative unknown request id", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		manager := newTestEmployee(employee.RoleManager, merbanAffiliate())
		deps.emp.add(manager)

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Approve(ctx, manager.ID.String(), uuid.NewString(), leave.ApproveLeaveRequest{})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})
}

func TestLeaveService_Reject(t *testing.T) {
	ctx := context.Background()

	t.Run("success rejection stamps only the rejector", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		aff := merbanAffiliate()
		manager := newTestEmployee(employee.RoleManager, aff)
		requester := newTestEmployee(employee.RoleJuniorStaff, aff)
		deps.emp.add(manager)
		deps.emp.add(requester)

		l := newOpenRequest(requester, approval.StatusPending)
		stubRequest(deps, l)

		expectTx(t, deps.sqlMock, true)
		deps.repo.updateDecisionFn = func(_ context.Context, got *leave.LeaveRequest) error {
			assert.Equal(t, approval.StatusRejected, got.Status)
			assert.NotNil(t, got.RejectedBy)
			assert.Equal(t, manager.ID, *got.RejectedBy)
			assert.NotNil(t, got.RejectionReason)
			assert.Nil(t, got.ManagerApprovedBy)
			return nil
		}

		resp, err := deps.service.Reject(ctx, manager.ID.String(), l.ID.String(), "short staffed")

		assert.NoError(t, err)
		assert.Equal(t, approval.StatusRejected, resp.Status)
		assert.NotNil(t, resp.RejectionReason)
		assert.Equal(t, "short staffed", *resp.RejectionReason)
	})

	t.Run("success admin rejects without stage stamps", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		aff := merbanAffiliate()
		admin := newTestEmployee(employee.RoleAdmin, aff)
		requester := newTestEmployee(employee.RoleJuniorStaff, aff)
		deps.emp.add(admin)
		deps.emp.add(requester)

		l := newOpenRequest(requester, approval.StatusHRApproved)
		stubRequest(deps, l)

		expectTx(t, deps.sqlMock, true)
		deps.repo.updateDecisionFn = func(_ context.Context, got *leave.LeaveRequest) error {
			assert.Equal(t, approval.StatusRejected, got.Status)
			assert.Equal(t, admin.ID, *got.RejectedBy)
			assert.Nil(t, got.CEOApprovedBy)
			return nil
		}

		_, err := deps.service.Reject(ctx, admin.ID.String(), l.ID.String(), "policy")

		assert.NoError(t, err)
	})

	t.Run("negative reason required", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		manager := newTestEmployee(employee.RoleManager, merbanAffiliate())
		deps.emp.add(manager)

		_, err := deps.service.Reject(ctx, manager.ID.String(), uuid.NewString(), "")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "rejection_reason is required")
	})
}

func TestLeaveService_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("success owner cancels a pending request", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		requester := newTestEmployee(employee.RoleJuniorStaff, merbanAffiliate())
		deps.emp.add(requester)

		l := newOpenRequest(requester, approval.StatusPending)
		stubRequest(deps, l)

		expectTx(t, deps.sqlMock, true)
		deps.repo.updateDecisionFn = func(_ context.Context, got *leave.LeaveRequest) error {
			assert.Equal(t, approval.StatusCancelled, got.Status)
			assert.Equal(t, requester.ID, *got.CancelledBy)
			return nil
		}

		resp, err := deps.service.Cancel(ctx, requester.ID.String(), l.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, approval.StatusCancelled, resp.Status)
		assert.Equal(t, []uuid.UUID{requester.ID}, deps.recon.calls)
	})

	t.Run("negative cancel after approval has started", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		requester := newTestEmployee(employee.RoleJuniorStaff, merbanAffiliate())
		deps.emp.add(requester)

		l := newOpenRequest(requester, approval.StatusManagerApproved)
		stubRequest(deps, l)

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Cancel(ctx, requester.ID.String(), l.ID.String())

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "only a pending request")
	})

	t.Run("negative non-owner cannot cancel", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		aff := merbanAffiliate()
		requester := newTestEmployee(employee.RoleJuniorStaff, aff)
		stranger := newTestEmployee(employee.RoleSeniorStaff, aff)
		deps.emp.add(requester)
		deps.emp.add(stranger)

		l := newOpenRequest(requester, approval.StatusPending)
		stubRequest(deps, l)

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Cancel(ctx, stranger.ID.String(), l.ID.String())

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "only the requester or an admin")
	})
}

func TestLeaveService_RecordResume(t *testing.T) {
	ctx := context.Background()

	t.Run("success owner records resume after the leave ended", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		requester := newTestEmployee(employee.RoleJuniorStaff, merbanAffiliate())
		deps.emp.add(requester)

		l := newOpenRequest(requester, approval.StatusApproved)
		stubRequest(deps, l)

		expectTx(t, deps.sqlMock, true)
		var stored time.Time
		deps.repo.recordResumeFn = func(_ context.Context, id string, resumeDate time.Time) error {
			assert.Equal(t, l.ID.String(), id)
			stored = resumeDate
			return nil
		}

		resp, err := deps.service.RecordResume(ctx, requester.ID.String(), l.ID.String(), leave.ResumeLeaveRequest{
			ResumeDate: "2026-03-09",
		})

		assert.NoError(t, err)
		assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), stored)
		assert.NotNil(t, resp.ActualResumeDate)
		assert.Equal(t, "2026-03-09", *resp.ActualResumeDate)
		assert.Empty(t, deps.recon.calls)
	})

	t.Run("negative resume date before leave end", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		requester := newTestEmployee(employee.RoleJuniorStaff, merbanAffiliate())
		deps.emp.add(requester)

		l := newOpenRequest(requester, approval.StatusApproved)
		stubRequest(deps, l)

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.RecordResume(ctx, requester.ID.String(), l.ID.String(), leave.ResumeLeaveRequest{
			ResumeDate: "2026-03-04",
		})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "on or after the leave end_date")
	})

	t.Run("negative resume on a request that is not approved", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		requester := newTestEmployee(employee.RoleJuniorStaff, merbanAffiliate())
		deps.emp.add(requester)

		l := newOpenRequest(requester, approval.StatusPending)
		stubRequest(deps, l)

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.RecordResume(ctx, requester.ID.String(), l.ID.String(), leave.ResumeLeaveRequest{
			ResumeDate: "2026-03-09",
		})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "approved leave")
	})
}

func TestLeaveService_PendingApprovals(t *testing.T) {
	ctx := context.Background()

	t.Run("success lists only requests the actor can act on", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		aff := merbanAffiliate()
		manager := newTestEmployee(employee.RoleManager, aff)
		staffA := newTestEmployee(employee.RoleJuniorStaff, aff)
		staffB := newTestEmployee(employee.RoleSeniorStaff, aff)
		deps.emp.add(manager)
		deps.emp.add(staffA)
		deps.emp.add(staffB)

		pending := newOpenRequest(staffA, approval.StatusPending)
		awaitingHR := newOpenRequest(staffB, approval.StatusManagerApproved)
		deps.repo.findByStatusesFn = func(_ context.Context, statuses []string) ([]leave.LeaveRequest, error) {
			assert.ElementsMatch(t, approval.OpenStatuses, statuses)
			return []leave.LeaveRequest{*pending, *awaitingHR}, nil
		}

		resp, err := deps.service.PendingApprovals(ctx, manager.ID.String())

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, pending.ID.String(), resp[0].ID)
	})

	t.Run("negative repo error", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		manager := newTestEmployee(employee.RoleManager, merbanAffiliate())
		deps.emp.add(manager)

		deps.repo.findByStatusesFn = func(_ context.Context, _ []string) ([]leave.LeaveRequest, error) {
			return nil, errors.New("db error")
		}

		resp, err := deps.service.PendingApprovals(ctx, manager.ID.String())

		assert.Error(t, err)
		assert.Nil(t, resp)
	})
}
