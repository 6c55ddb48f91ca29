package department

import (
	"time"

	"go-leave/internal/affiliate"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Department exists only under Merban Capital; SDSL and SBL employees
// carry no department. HodID is a weak reference to the employee who
// heads the department.
type Department struct {
	ID          uuid.UUID            `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string               `gorm:"size:255;not null"`
	AffiliateID uuid.UUID            `gorm:"type:uuid;not null;index"`
	Affiliate   *affiliate.Affiliate `gorm:"foreignKey:AffiliateID"`
	HodID       *uuid.UUID           `gorm:"type:uuid"`
	CreatedAt   time.Time            `gorm:"autoCreateTime"`
	UpdatedAt   time.Time            `gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt       `gorm:"index"`
}
