package employee

import (
	"context"
	"errors"

	"go-leave/internal/affiliate"

	"gorm.io/gorm"
)

// Resolver is the single source of truth for which affiliate an employee
// belongs to and who that affiliate's CEO is. Every routing decision goes
// through it; nothing else is allowed to compare affiliate names.
type Resolver struct {
	repo Repository
}

func NewResolver(repo Repository) *Resolver {
	return &Resolver{repo: repo}
}

// AffiliateOf resolves the canonical tag for an employee. An employee
// without a direct affiliate adopts their department's affiliate when,
// and only when, that department belongs to Merban. The override never
// applies to SDSL or SBL.
func (r *Resolver) AffiliateOf(e *Employee) affiliate.Tag {
	if e == nil {
		return affiliate.TagUnknown
	}
	if e.Affiliate != nil {
		if tag := affiliate.Canonicalize(e.Affiliate.Name); tag != affiliate.TagUnknown {
			return tag
		}
	}
	if e.Department != nil && e.Department.Affiliate != nil {
		if affiliate.Canonicalize(e.Department.Affiliate.Name) == affiliate.TagMerban {
			return affiliate.TagMerban
		}
	}
	return affiliate.TagUnknown
}

// CEOFor returns the active CEO of the employee's affiliate, or nil when
// the affiliate cannot be resolved or has no CEO. The lowest id wins when
// data holds more than one, for determinism.
func (r *Resolver) CEOFor(ctx context.Context, e *Employee) (*Employee, error) {
	tag := r.AffiliateOf(e)
	if tag == affiliate.TagUnknown {
		return nil, nil
	}

	ceo, err := r.repo.FindCEOByAffiliateNames(ctx, affiliate.Names(tag))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return ceo, nil
}
