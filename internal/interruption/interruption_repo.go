package interruption

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, i *InterruptRequest) error
	FindByID(ctx context.Context, id string) (*InterruptRequest, error)
	FindByLeaveID(ctx context.Context, leaveID string) ([]InterruptRequest, error)
	HasOpenByLeaveID(ctx context.Context, leaveID string) (bool, error)
	LockByID(ctx context.Context, id string) (string, error)
	UpdateDecision(ctx context.Context, i *InterruptRequest) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, i *InterruptRequest) error {
	return r.db.WithContext(ctx).Create(i).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*InterruptRequest, error) {
	var i InterruptRequest
	err := r.db.WithContext(ctx).
		Preload("Leave").
		Preload("Leave.Employee").
		Preload("Leave.Employee.Affiliate").
		Preload("Leave.Employee.Department").
		Preload("Leave.Employee.Department.Affiliate").
		Preload("Leave.Employee.Manager").
		First(&i, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *repository) FindByLeaveID(ctx context.Context, leaveID string) ([]InterruptRequest, error) {
	var list []InterruptRequest
	err := r.db.WithContext(ctx).
		Where("leave_request_id = ?", leaveID).
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}

func (r *repository) HasOpenByLeaveID(ctx context.Context, leaveID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&InterruptRequest{}).
		Where("leave_request_id = ?", leaveID).
		Where("status IN ?", []string{
			StatusPendingManager, StatusPendingHR, StatusPendingCEO, StatusPendingStaff,
		}).
		Count(&count).Error
	return count > 0, err
}

// LockByID takes the row lock and returns the status as of the lock.
func (r *repository) LockByID(ctx context.Context, id string) (string, error) {
	query := `
SELECT status FROM leave_interrupt_requests
WHERE id = $1 AND deleted_at IS NULL
FOR UPDATE
`
	var status string
	err := r.querier().QueryRowContext(ctx, query, id).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", gorm.ErrRecordNotFound
		}
		return "", err
	}
	return status, nil
}

func (r *repository) UpdateDecision(ctx context.Context, i *InterruptRequest) error {
	query := `
UPDATE leave_interrupt_requests
SET
	status = $2,
	manager_decision_by = $3,
	manager_decision_at = $4,
	hr_decision_by = $5,
	hr_decision_at = $6,
	ceo_decision_by = $7,
	ceo_decision_at = $8,
	staff_decision_by = $9,
	staff_decision_at = $10,
	decision_note = $11,
	credited_working_days = $12,
	applied_at = $13,
	updated_at = NOW()
WHERE id = $1 AND deleted_at IS NULL
`
	_, err := r.execer().ExecContext(
		ctx, query,
		i.ID, i.Status,
		i.ManagerDecisionBy, i.ManagerDecisionAt,
		i.HRDecisionBy, i.HRDecisionAt,
		i.CEODecisionBy, i.CEODecisionAt,
		i.StaffDecisionBy, i.StaffDecisionAt,
		i.DecisionNote, i.CreditedWorkingDays, i.AppliedAt,
	)
	return err
}

func (r *repository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db.ConnPool
}

func (r *repository) querier() interface {
	QueryRowContext(context.Context, string, ...any) *sql.Row
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db.ConnPool
}
