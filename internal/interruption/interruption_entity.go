package interruption

import (
	"time"

	"go-leave/internal/leave"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// KindManagerRecall is management pulling an employee back from an
	// approved leave; the employee must consent before anything changes.
	KindManagerRecall = "manager_recall"
	// KindStaffReturn is the employee offering to come back early; it
	// walks a short approval chain of its own.
	KindStaffReturn = "staff_return"
)

const (
	StatusPendingManager = "pending_manager"
	StatusPendingHR      = "pending_hr"
	StatusPendingCEO     = "pending_ceo"
	StatusPendingStaff   = "pending_staff"
	StatusApproved       = "approved"
	StatusRejected       = "rejected"
	StatusApplied        = "applied"
)

func IsOpen(status string) bool {
	switch status {
	case StatusPendingManager, StatusPendingHR, StatusPendingCEO, StatusPendingStaff:
		return true
	}
	return false
}

// InterruptRequest is a recall or early-return riding on an approved
// leave request. At most one ever reaches applied per parent; the
// parent's interruption summary columns are written exactly once,
// under a row lock on the parent.
type InterruptRequest struct {
	ID             uuid.UUID           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LeaveRequestID uuid.UUID           `gorm:"type:uuid;not null;index"`
	Leave          *leave.LeaveRequest `gorm:"foreignKey:LeaveRequestID"`

	Kind   string `gorm:"type:varchar(20);not null"`
	Status string `gorm:"type:varchar(20);not null;index"`

	RequestedResumeDate time.Time `gorm:"type:date;not null"`
	Reason              string    `gorm:"type:text"`

	InitiatedBy   uuid.UUID `gorm:"type:uuid;not null"`
	InitiatedRole string    `gorm:"type:varchar(20);not null"`

	ManagerDecisionBy *uuid.UUID `gorm:"type:uuid"`
	ManagerDecisionAt *time.Time
	HRDecisionBy      *uuid.UUID `gorm:"type:uuid"`
	HRDecisionAt      *time.Time
	CEODecisionBy     *uuid.UUID `gorm:"type:uuid"`
	CEODecisionAt     *time.Time
	StaffDecisionBy   *uuid.UUID `gorm:"type:uuid"`
	StaffDecisionAt   *time.Time

	DecisionNote *string `gorm:"type:text"`

	CreditedWorkingDays int `gorm:"type:int;not null;default:0"`
	AppliedAt           *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (InterruptRequest) TableName() string {
	return "leave_interrupt_requests"
}
