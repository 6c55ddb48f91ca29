package balance

import (
	"time"

	"github.com/google/uuid"
)

// LeaveBalance is a per-employee, per-type, per-year counter row kept
// eventually consistent with the request history by the reconciler. The
// request workflow never reads it inside a transaction; it is a derived
// view, safe to rebuild at any time.
type LeaveBalance struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balances_employee_type_year"`
	LeaveType  string    `gorm:"type:varchar(30);not null;uniqueIndex:uq_leave_balances_employee_type_year"`
	Year       int       `gorm:"not null;uniqueIndex:uq_leave_balances_employee_type_year"`

	EntitledDays int `gorm:"type:int;not null;default:0"`
	UsedDays     int `gorm:"type:int;not null;default:0"`
	PendingDays  int `gorm:"type:int;not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LeaveBalance) TableName() string {
	return "leave_balances"
}

// Remaining never goes below zero; an over-drawn year simply shows
// nothing left.
func (b *LeaveBalance) Remaining() int {
	rem := b.EntitledDays - b.UsedDays - b.PendingDays
	if rem < 0 {
		return 0
	}
	return rem
}
