package balance

import (
	"context"

	"go-leave/internal/approval"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Find(ctx context.Context, employeeID uuid.UUID, leaveType string, year int) (*LeaveBalance, error)
	Consumption(ctx context.Context, employeeID uuid.UUID, leaveType string, year int) (used, pending int, err error)
	Upsert(ctx context.Context, b *LeaveBalance) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Find(ctx context.Context, employeeID uuid.UUID, leaveType string, year int) (*LeaveBalance, error) {
	var b LeaveBalance
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND leave_type = ? AND year = ?", employeeID, leaveType, year).
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Consumption derives used and pending day counts straight from the
// request history. Approved requests consume their working days minus
// any interruption credit; open requests hold their days as pending.
func (r *repository) Consumption(ctx context.Context, employeeID uuid.UUID, leaveType string, year int) (int, int, error) {
	var row struct {
		Used    int
		Pending int
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COALESCE(SUM(CASE WHEN status = ?
				THEN working_days - COALESCE(interruption_credited_days, 0)
				ELSE 0 END), 0) AS used,
			COALESCE(SUM(CASE WHEN status IN ?
				THEN working_days
				ELSE 0 END), 0) AS pending
		FROM leave_requests
		WHERE employee_id = ?
			AND leave_type = ?
			AND EXTRACT(YEAR FROM start_date) = ?
			AND deleted_at IS NULL
	`, approval.StatusApproved, approval.OpenStatuses, employeeID, leaveType, year).
		Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	return row.Used, row.Pending, nil
}

// Upsert writes the derived counters atomically per (employee, type,
// year) so concurrent reconciliations cannot race each other into
// duplicate rows.
func (r *repository) Upsert(ctx context.Context, b *LeaveBalance) error {
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO leave_balances (employee_id, leave_type, year, entitled_days, used_days, pending_days, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, now(), now())
		ON CONFLICT (employee_id, leave_type, year) DO UPDATE
		SET entitled_days = EXCLUDED.entitled_days,
			used_days = EXCLUDED.used_days,
			pending_days = EXCLUDED.pending_days,
			updated_at = now()
	`, b.EmployeeID, b.LeaveType, b.Year, b.EntitledDays, b.UsedDays, b.PendingDays).Error
}
