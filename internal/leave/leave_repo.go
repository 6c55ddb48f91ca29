package leave

import (
	"context"
	"database/sql"
	"time"

	"go-leave/internal/approval"

	"gorm.io/gorm"
)

// closedStatuses never count toward overlap checks.
var closedStatuses = []string{approval.StatusRejected, approval.StatusCancelled}

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	FindAll(ctx context.Context) ([]LeaveRequest, error)
	FindAllByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error)
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	FindByStatuses(ctx context.Context, statuses []string) ([]LeaveRequest, error)
	LockByID(ctx context.Context, id string) (string, error)
	UpdateDecision(ctx context.Context, l *LeaveRequest) error
	ApplyInterruption(ctx context.Context, l *LeaveRequest) error
	RecordResume(ctx context.Context, id string, resumeDate time.Time) error
	HasOverlappingPeriod(ctx context.Context, employeeID string, startDate, endDate time.Time, excludeID *string) (bool, error)
	CountDepartmentOverlaps(ctx context.Context, departmentID string, startDate, endDate time.Time, excludeEmployeeID string) (int64, error)
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

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindAll(ctx context.Context) ([]LeaveRequest, error) {
	var leaves []LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Preload("Employee.Affiliate").
		Preload("Employee.Department").
		Preload("Employee.Department.Affiliate").
		Order("start_date DESC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindAllByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error) {
	var leaves []LeaveRequest
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("start_date DESC").
		Find(&leaves).Error
	return leaves, err
}

// FindByID loads the request plus the requester's full routing graph;
// the approval engine needs the associations to select a flow.
func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Preload("Employee.Affiliate").
		Preload("Employee.Department").
		Preload("Employee.Department.Affiliate").
		Preload("Employee.Manager").
		First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) FindByStatuses(ctx context.Context, statuses []string) ([]LeaveRequest, error) {
	var leaves []LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Preload("Employee.Affiliate").
		Preload("Employee.Department").
		Preload("Employee.Department.Affiliate").
		Preload("Employee.Manager").
		Where("status IN ?", statuses).
		Order("created_at ASC").
		Find(&leaves).Error
	return leaves, err
}

// LockByID takes a row lock on the request and returns its current
// status. Must run inside a transaction; callers re-read the full row
// afterwards knowing nobody else can move it.
func (r *repository) LockByID(ctx context.Context, id string) (string, error) {
	query := `
SELECT status
FROM leave_requests
WHERE id = $1 AND deleted_at IS NULL
FOR UPDATE
`
	var status string
	if err := r.querier().QueryRowContext(ctx, query, id).Scan(&status); err != nil {
		if err == sql.ErrNoRows {
			return "", gorm.ErrRecordNotFound
		}
		return "", err
	}
	return status, nil
}

// UpdateDecision persists a workflow decision: the status plus every
// stage, rejection and cancellation column. Runs through the bound
// transaction so the write sits under the lock taken by LockByID.
func (r *repository) UpdateDecision(ctx context.Context, l *LeaveRequest) error {
	query := `
UPDATE leave_requests
SET
	status = $2,
	manager_approved_by = $3,
	manager_approved_at = $4,
	hr_approved_by = $5,
	hr_approved_at = $6,
	ceo_approved_by = $7,
	ceo_approved_at = $8,
	approval_date = $9,
	approval_comments = $10,
	rejected_by = $11,
	rejected_at = $12,
	rejection_reason = $13,
	cancelled_by = $14,
	cancelled_at = $15,
	updated_at = NOW()
WHERE id = $1 AND deleted_at IS NULL
`
	_, err := r.execer().ExecContext(
		ctx, query,
		l.ID, l.Status,
		l.ManagerApprovedBy, l.ManagerApprovedAt,
		l.HRApprovedBy, l.HRApprovedAt,
		l.CEOApprovedBy, l.CEOApprovedAt,
		l.ApprovalDate, l.ApprovalComments,
		l.RejectedBy, l.RejectedAt, l.RejectionReason,
		l.CancelledBy, l.CancelledAt,
	)
	return err
}

// ApplyInterruption writes the one-off interruption summary onto the
// parent request.
func (r *repository) ApplyInterruption(ctx context.Context, l *LeaveRequest) error {
	query := `
UPDATE leave_requests
SET
	actual_resume_date = $2,
	interruption_credited_days = $3,
	interruption_note = $4,
	interrupted_by = $5,
	interrupted_at = $6,
	updated_at = NOW()
WHERE id = $1 AND deleted_at IS NULL
`
	_, err := r.execer().ExecContext(
		ctx, query,
		l.ID,
		l.ActualResumeDate, l.InterruptionCreditedDays,
		l.InterruptionNote, l.InterruptedBy, l.InterruptedAt,
	)
	return err
}

// RecordResume stores the date an employee actually reported back.
// Purely informational, it never changes balances.
func (r *repository) RecordResume(ctx context.Context, id string, resumeDate time.Time) error {
	query := `
UPDATE leave_requests
SET actual_resume_date = $2, updated_at = NOW()
WHERE id = $1 AND deleted_at IS NULL
`
	_, err := r.execer().ExecContext(ctx, query, id, resumeDate)
	return err
}

func (r *repository) HasOverlappingPeriod(ctx context.Context, employeeID string, startDate, endDate time.Time, excludeID *string) (bool, error) {
	db := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("employee_id = ?", employeeID).
		Where("status NOT IN ?", closedStatuses).
		Where("NOT (end_date < ? OR start_date > ?)", startDate, endDate)

	if excludeID != nil && *excludeID != "" {
		db = db.Where("id <> ?", *excludeID)
	}

	var count int64
	err := db.Count(&count).Error
	return count > 0, err
}

// CountDepartmentOverlaps counts colleagues of the same department with
// open or approved requests crossing the given period.
func (r *repository) CountDepartmentOverlaps(ctx context.Context, departmentID string, startDate, endDate time.Time, excludeEmployeeID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Joins("JOIN employees ON employees.id = leave_requests.employee_id").
		Where("employees.department_id = ?", departmentID).
		Where("leave_requests.employee_id <> ?", excludeEmployeeID).
		Where("leave_requests.status NOT IN ?", closedStatuses).
		Where("NOT (leave_requests.end_date < ? OR leave_requests.start_date > ?)", startDate, endDate).
		Count(&count).Error
	return count, err
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
