package department

import (
	"context"
	"database/sql"
	"errors"

	"go-leave/internal/affiliate"
	departmenterrors "go-leave/internal/department/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	Create(ctx context.Context, req CreateDepartmentRequest) (DepartmentResponse, error)
	GetAll(ctx context.Context) ([]DepartmentResponse, error)
	GetByID(ctx context.Context, id string) (DepartmentResponse, error)
	Update(ctx context.Context, id string, req UpdateDepartmentRequest) (DepartmentResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db            *sql.DB
	repo          Repository
	affiliateRepo affiliate.Repository
	logger        *zap.Logger
}

func NewService(db *sql.DB, repo Repository, affiliateRepo affiliate.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("department.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("department.service")
	}
	return &service{db: db, repo: repo, affiliateRepo: affiliateRepo, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateDepartmentRequest) (DepartmentResponse, error) {
	s.logger.Debug("create department requested",
		zap.String("name", req.Name),
		zap.String("affiliate_id", req.AffiliateID),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create department begin tx failed", zap.Error(err))
		return DepartmentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	affiliateID, err := uuid.Parse(req.AffiliateID)
	if err != nil {
		return DepartmentResponse{}, departmenterrors.ErrInvalidAffiliateID
	}

	aff, err := s.affiliateRepo.FindByID(ctx, req.AffiliateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DepartmentResponse{}, departmenterrors.ErrAffiliateNotFound
		}
		return DepartmentResponse{}, err
	}
	// Only Merban Capital is organized into departments.
	if affiliate.Canonicalize(aff.Name) != affiliate.TagMerban {
		s.logger.Warn("create department refused for non-Merban affiliate",
			zap.String("affiliate", aff.Name),
		)
		return DepartmentResponse{}, departmenterrors.ErrNonMerbanDepartment
	}

	dept := &Department{
		ID:          uuid.New(),
		Name:        req.Name,
		AffiliateID: affiliateID,
	}
	if req.HodID != nil && *req.HodID != "" {
		hodID, err := uuid.Parse(*req.HodID)
		if err != nil {
			return DepartmentResponse{}, departmenterrors.ErrInvalidHodID
		}
		dept.HodID = &hodID
	}

	if err := qtx.Create(ctx, dept); err != nil {
		s.logger.Error("create department persist failed", zap.Error(err))
		return DepartmentResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return DepartmentResponse{}, err
	}

	s.logger.Info("create department success",
		zap.String("department_id", dept.ID.String()),
		zap.String("name", dept.Name),
	)
	dept.Affiliate = aff
	return mapToResponse(*dept), nil
}

func (s *service) GetAll(ctx context.Context) ([]DepartmentResponse, error) {
	depts, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(depts), nil
}

func (s *service) GetByID(ctx context.Context, id string) (DepartmentResponse, error) {
	dept, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DepartmentResponse{}, departmenterrors.ErrDepartmentNotFound
		}
		return DepartmentResponse{}, err
	}
	return mapToResponse(*dept), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateDepartmentRequest) (DepartmentResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return DepartmentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	dept, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DepartmentResponse{}, departmenterrors.ErrDepartmentNotFound
		}
		return DepartmentResponse{}, err
	}

	dept.Name = req.Name
	dept.HodID = nil
	if req.HodID != nil && *req.HodID != "" {
		hodID, err := uuid.Parse(*req.HodID)
		if err != nil {
			return DepartmentResponse{}, departmenterrors.ErrInvalidHodID
		}
		dept.HodID = &hodID
	}

	if err := qtx.Update(ctx, dept); err != nil {
		s.logger.Error("update department persist failed",
			zap.String("department_id", id),
			zap.Error(err),
		)
		return DepartmentResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return DepartmentResponse{}, err
	}

	s.logger.Info("update department success", zap.String("department_id", id))
	return mapToResponse(*dept), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Delete(ctx, id); err != nil {
		return err
	}
	return tx.Commit()
}

func mapToResponse(dept Department) DepartmentResponse {
	resp := DepartmentResponse{
		ID:          dept.ID.String(),
		Name:        dept.Name,
		AffiliateID: dept.AffiliateID.String(),
	}
	if dept.Affiliate != nil {
		resp.AffiliateName = dept.Affiliate.Name
	}
	if dept.HodID != nil {
		v := dept.HodID.String()
		resp.HodID = &v
	}
	return resp
}

func mapToListResponse(depts []Department) []DepartmentResponse {
	res := make([]DepartmentResponse, len(depts))
	for i, d := range depts {
		res[i] = mapToResponse(d)
	}
	return res
}
