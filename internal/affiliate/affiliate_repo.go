package affiliate

import (
	"context"
	"strings"

	"gorm.io/gorm"
)

type Repository interface {
	FindAll(ctx context.Context) ([]Affiliate, error)
	FindByID(ctx context.Context, id string) (*Affiliate, error)
	FindByNames(ctx context.Context, names []string) (*Affiliate, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindAll(ctx context.Context) ([]Affiliate, error) {
	var affiliates []Affiliate
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&affiliates).Error
	return affiliates, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Affiliate, error) {
	var a Affiliate
	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	return &a, err
}

func (r *repository) FindByNames(ctx context.Context, names []string) (*Affiliate, error) {
	var a Affiliate
	err := r.db.WithContext(ctx).
		Where("LOWER(name) IN ?", lowered(names)).
		Order("id ASC").
		First(&a).Error
	return &a, err
}

func lowered(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = strings.ToLower(n)
	}
	return out
}
