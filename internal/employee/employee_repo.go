package employee

import (
	"context"
	"database/sql"
	"strings"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, e *Employee) error
	FindAll(ctx context.Context) ([]Employee, error)
	FindByID(ctx context.Context, id string) (*Employee, error)
	Update(ctx context.Context, e *Employee) error
	Delete(ctx context.Context, id string) error
	FirstActiveByRole(ctx context.Context, role string) (*Employee, error)
	FindCEOByAffiliateNames(ctx context.Context, names []string) (*Employee, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) Create(ctx context.Context, e *Employee) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Employee, error) {
	var employees []Employee
	err := r.db.WithContext(ctx).
		Preload("Affiliate").
		Preload("Department").
		Order("full_name ASC").
		Find(&employees).Error
	return employees, err
}

// FindByID loads the full routing graph: affiliate, department with its
// affiliate, and the direct manager. The approval engine relies on these
// associations being present.
func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).
		Preload("Affiliate").
		Preload("Department").
		Preload("Department.Affiliate").
		Preload("Manager").
		First(&e, "id = ?", id).Error
	return &e, err
}

func (r *repository) Update(ctx context.Context, e *Employee) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Delete(&Employee{}, "id = ?", id).Error
}

func (r *repository) FirstActiveByRole(ctx context.Context, role string) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).
		Where("role = ?", role).
		Where("is_active = ?", true).
		Order("id ASC").
		First(&e).Error
	return &e, err
}

func (r *repository) FindCEOByAffiliateNames(ctx context.Context, names []string) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).
		Joins("JOIN affiliates ON affiliates.id = employees.affiliate_id").
		Where("LOWER(affiliates.name) IN ?", loweredNames(names)).
		Where("employees.role = ?", RoleCEO).
		Where("employees.is_active = ?", true).
		Order("employees.id ASC").
		First(&e).Error
	return &e, err
}

func loweredNames(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = strings.ToLower(n)
	}
	return out
}
