package employee

import (
	"strings"
	"time"

	"go-leave/internal/affiliate"
	"go-leave/internal/department"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleJuniorStaff = "junior_staff"
	RoleSeniorStaff = "senior_staff"
	RoleManager     = "manager"
	RoleHod         = "hod"
	RoleHR          = "hr"
	RoleCEO         = "ceo"
	RoleAdmin       = "admin"
)

type Employee struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FullName     string    `gorm:"type:varchar(255);not null"`
	Email        string    `gorm:"type:text;not null;uniqueIndex:uq_employee_email"`
	PasswordHash string    `gorm:"type:text"`
	Role         string    `gorm:"type:varchar(20);not null;default:'junior_staff';index"`

	AffiliateID *uuid.UUID             `gorm:"type:uuid;index"`
	Affiliate   *affiliate.Affiliate   `gorm:"foreignKey:AffiliateID"`

	// Merban only: SDSL/SBL employees never carry a department or manager.
	DepartmentID *uuid.UUID             `gorm:"type:uuid"`
	Department   *department.Department `gorm:"foreignKey:DepartmentID"`
	ManagerID    *uuid.UUID             `gorm:"type:uuid"`
	Manager      *Employee              `gorm:"foreignKey:ManagerID"`

	IsActive    bool `gorm:"default:true"`
	IsSuperuser bool `gorm:"default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// NormalizeRole lowercases a role and folds hod into manager: heads of
// department are managers everywhere routing is concerned.
func NormalizeRole(role string) string {
	role = strings.ToLower(strings.TrimSpace(role))
	if role == RoleHod {
		return RoleManager
	}
	return role
}

func IsKnownRole(role string) bool {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case RoleJuniorStaff, RoleSeniorStaff, RoleManager, RoleHod, RoleHR, RoleCEO, RoleAdmin:
		return true
	}
	return false
}

// RoutingRole is the role the approval flows see.
func (e *Employee) RoutingRole() string {
	return NormalizeRole(e.Role)
}

func (e *Employee) IsStaff() bool {
	switch NormalizeRole(e.Role) {
	case RoleJuniorStaff, RoleSeniorStaff:
		return true
	}
	return false
}

// IsAdmin reports whether the employee bypasses role checks. Superusers
// count regardless of their stored role.
func (e *Employee) IsAdmin() bool {
	return e.IsSuperuser || NormalizeRole(e.Role) == RoleAdmin
}
