package balance

import (
	"context"
	"errors"

	balanceerrors "go-leave/internal/balance/errors"
	"go-leave/internal/leave"
	"go-leave/internal/shared/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service is both the checker the request workflow consults before
// accepting a request and the reconciler it pokes after a terminal
// transition. Balances are derived data; every answer is computed from
// the request history, the stored rows only cache the result.
type Service interface {
	Available(ctx context.Context, employeeID uuid.UUID, leaveType string, year int) (int, error)
	Reconcile(ctx context.Context, employeeID uuid.UUID, leaveType string, year int) error
	ListForEmployee(ctx context.Context, employeeID string, year int) ([]BalanceResponse, error)
}

type service struct {
	repo   Repository
	cfg    config.Config
	logger *zap.Logger
}

func NewService(repo Repository, cfg config.Config, logger ...*zap.Logger) Service {
	l := zap.L().Named("balance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.service")
	}
	return &service{repo: repo, cfg: cfg, logger: l}
}

// reconciledTypes are the leave types balances are kept for. Unpaid
// leave is unlimited and never reconciled.
var reconciledTypes = []string{
	leave.TypeAnnual,
	leave.TypeSick,
	leave.TypeCasual,
	leave.TypeMaternity,
}

func (s *service) entitledDays(leaveType string) int {
	switch leaveType {
	case leave.TypeAnnual:
		return s.cfg.DefaultAnnualEntitled
	case leave.TypeSick:
		return 10
	case leave.TypeCasual:
		return 5
	case leave.TypeMaternity:
		return 90
	default:
		return 0
	}
}

// Available computes the remaining days live rather than trusting the
// cached row: the reconciler is eventually consistent and the check
// before accepting a request must not be.
func (s *service) Available(ctx context.Context, employeeID uuid.UUID, leaveType string, year int) (int, error) {
	b, err := s.snapshot(ctx, employeeID, leaveType, year)
	if err != nil {
		return 0, err
	}
	return b.Remaining(), nil
}

// Reconcile rebuilds the stored row from the request history. It is
// idempotent; running it twice writes the same counters twice.
func (s *service) Reconcile(ctx context.Context, employeeID uuid.UUID, leaveType string, year int) error {
	if leaveType == leave.TypeUnpaid {
		return nil
	}
	b, err := s.snapshot(ctx, employeeID, leaveType, year)
	if err != nil {
		return err
	}
	if err := s.repo.Upsert(ctx, b); err != nil {
		s.logger.Error("balance upsert failed",
			zap.String("employee_id", employeeID.String()),
			zap.String("leave_type", leaveType),
			zap.Int("year", year),
			zap.Error(err),
		)
		return err
	}
	s.logger.Debug("balance reconciled",
		zap.String("employee_id", employeeID.String()),
		zap.String("leave_type", leaveType),
		zap.Int("year", year),
		zap.Int("used", b.UsedDays),
		zap.Int("pending", b.PendingDays),
	)
	return nil
}

func (s *service) ListForEmployee(ctx context.Context, employeeID string, year int) ([]BalanceResponse, error) {
	id, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, balanceerrors.ErrInvalidEmployeeID
	}

	resp := make([]BalanceResponse, 0, len(reconciledTypes))
	for _, leaveType := range reconciledTypes {
		b, err := s.snapshot(ctx, id, leaveType, year)
		if err != nil {
			return nil, err
		}
		resp = append(resp, mapToResponse(b))
	}
	return resp, nil
}

// snapshot assembles the current counters for one (type, year) cell.
// The entitled figure sticks to whatever a stored row says, so manual
// adjustments survive reconciliation; consumption always comes from the
// request history.
func (s *service) snapshot(ctx context.Context, employeeID uuid.UUID, leaveType string, year int) (*LeaveBalance, error) {
	entitled := s.entitledDays(leaveType)
	if existing, err := s.repo.Find(ctx, employeeID, leaveType, year); err == nil {
		entitled = existing.EntitledDays
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	used, pending, err := s.repo.Consumption(ctx, employeeID, leaveType, year)
	if err != nil {
		return nil, err
	}

	return &LeaveBalance{
		EmployeeID:   employeeID,
		LeaveType:    leaveType,
		Year:         year,
		EntitledDays: entitled,
		UsedDays:     used,
		PendingDays:  pending,
	}, nil
}

func mapToResponse(b *LeaveBalance) BalanceResponse {
	return BalanceResponse{
		EmployeeID:   b.EmployeeID.String(),
		LeaveType:    b.LeaveType,
		Year:         b.Year,
		EntitledDays: b.EntitledDays,
		UsedDays:     b.UsedDays,
		PendingDays:  b.PendingDays,
		Remaining:    b.Remaining(),
	}
}
