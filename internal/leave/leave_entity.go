package leave

import (
	"time"

	"go-leave/internal/employee"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TypeAnnual    = "annual"
	TypeSick      = "sick"
	TypeCasual    = "casual"
	TypeMaternity = "maternity"
	TypeUnpaid    = "unpaid"
)

// LeaveRequest keeps one column pair per approval stage rather than a
// separate decisions table: the chains are short and fixed, and the audit
// export reads a request as a single flat row.
type LeaveRequest struct {
	ID         uuid.UUID          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID          `gorm:"type:uuid;not null;index:idx_leave_requests_employee_dates"`
	Employee   *employee.Employee `gorm:"foreignKey:EmployeeID"`

	LeaveType   string    `gorm:"type:varchar(30);not null;default:'annual'"`
	StartDate   time.Time `gorm:"type:date;not null;index:idx_leave_requests_employee_dates"`
	EndDate     time.Time `gorm:"type:date;not null;index:idx_leave_requests_employee_dates"`
	WorkingDays int       `gorm:"type:int;not null;default:1"`
	Reason      string    `gorm:"type:text"`

	Status string `gorm:"type:varchar(20);not null;default:'pending';index"`

	ManagerApprovedBy *uuid.UUID `gorm:"type:uuid"`
	ManagerApprovedAt *time.Time
	HRApprovedBy      *uuid.UUID `gorm:"type:uuid"`
	HRApprovedAt      *time.Time
	CEOApprovedBy     *uuid.UUID `gorm:"type:uuid"`
	CEOApprovedAt     *time.Time

	// ApprovalDate is stamped once, when the request reaches approved.
	ApprovalDate     *time.Time
	ApprovalComments *string `gorm:"type:text"`

	RejectedBy      *uuid.UUID `gorm:"type:uuid"`
	RejectedAt      *time.Time
	RejectionReason *string `gorm:"type:text"`

	CancelledBy *uuid.UUID `gorm:"type:uuid"`
	CancelledAt *time.Time

	// Interruption summary, written exactly once when a recall or early
	// return is applied to this request.
	ActualResumeDate         *time.Time `gorm:"type:date"`
	InterruptionCreditedDays *int
	InterruptionNote         *string    `gorm:"type:text"`
	InterruptedBy            *uuid.UUID `gorm:"type:uuid"`
	InterruptedAt            *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

// StampedBy reports whether actorID already signed one of the stage
// columns on this request.
func (l *LeaveRequest) StampedBy(actorID uuid.UUID) bool {
	for _, by := range []*uuid.UUID{l.ManagerApprovedBy, l.HRApprovedBy, l.CEOApprovedBy} {
		if by != nil && *by == actorID {
			return true
		}
	}
	return false
}
