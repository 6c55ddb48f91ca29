package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"go-leave/internal/affiliate"
	employeeerrors "go-leave/internal/employee/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const employeeOptionsKey = "employees:options"

type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context) ([]EmployeeResponse, error)
	GetOptions(ctx context.Context) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db            *sql.DB
	repo          Repository
	affiliateRepo affiliate.Repository
	rdb           *redis.Client
	sf            *singleflight.Group
	logger        *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	affiliateRepo affiliate.Repository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:            db,
		repo:          repo,
		affiliateRepo: affiliateRepo,
		rdb:           rdb,
		sf:            &singleflight.Group{},
		logger:        l,
	}
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	s.logger.Debug("create employee requested",
		zap.String("email", req.Email),
		zap.String("role", req.Role),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create employee begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if !IsKnownRole(req.Role) {
		return EmployeeResponse{}, employeeerrors.ErrInvalidRole
	}

	// The stored role keeps hod as hod; folding into manager happens at
	// routing time via RoutingRole.
	e := &Employee{
		ID:       uuid.New(),
		FullName: req.FullName,
		Email:    req.Email,
		Role:     strings.ToLower(strings.TrimSpace(req.Role)),
		IsActive: true,
	}

	if err := s.applyOrgReferences(ctx, e, req.AffiliateID, req.DepartmentID, req.ManagerID); err != nil {
		s.logger.Warn("create employee org validation failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	if err := qtx.Create(ctx, e); err != nil {
		s.logger.Error("create employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return EmployeeResponse{}, err
	}

	s.invalidateOptionsCache(ctx)
	s.logger.Info("create employee success",
		zap.String("employee_id", e.ID.String()),
		zap.String("role", e.Role),
	)
	return mapToResponse(*e), nil
}

// applyOrgReferences validates and sets the affiliate/department/manager
// triple. SDSL and SBL employees must not carry a department or manager;
// a Merban department must actually belong to Merban.
func (s *service) applyOrgReferences(
	ctx context.Context,
	e *Employee,
	affiliateID, departmentID, managerID *string,
) error {
	var tag = affiliate.TagUnknown

	if affiliateID != nil && *affiliateID != "" {
		id, err := uuid.Parse(*affiliateID)
		if err != nil {
			return employeeerrors.ErrInvalidAffiliateID
		}
		aff, err := s.affiliateRepo.FindByID(ctx, *affiliateID)
		if err != nil {
			return mapRepositoryError(err)
		}
		e.AffiliateID = &id
		e.Affiliate = aff
		tag = affiliate.Canonicalize(aff.Name)
	}

	subsidiary := tag == affiliate.TagSDSL || tag == affiliate.TagSBL

	e.DepartmentID = nil
	e.ManagerID = nil

	if departmentID != nil && *departmentID != "" {
		if subsidiary && !e.IsAdmin() {
			return employeeerrors.ErrDepartmentNotAllowed
		}
		id, err := uuid.Parse(*departmentID)
		if err != nil {
			return employeeerrors.ErrInvalidDepartmentID
		}
		e.DepartmentID = &id
	}

	if managerID != nil && *managerID != "" {
		if subsidiary && !e.IsAdmin() {
			return employeeerrors.ErrManagerNotAllowed
		}
		id, err := uuid.Parse(*managerID)
		if err != nil {
			return employeeerrors.ErrInvalidManagerID
		}
		e.ManagerID = &id
	}

	return nil
}

func (s *service) GetAll(ctx context.Context) ([]EmployeeResponse, error) {
	employees, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(employees), nil
}

// GetOptions serves the lightweight employee list dashboards use for
// picker widgets, cached in redis and deduplicated with singleflight so
// a cache miss storm produces one database query.
func (s *service) GetOptions(ctx context.Context) ([]EmployeeResponse, error) {
	if s.rdb != nil {
		if val, err := s.rdb.Get(ctx, employeeOptionsKey).Result(); err == nil {
			var cached []EmployeeResponse
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				return cached, nil
			}
		}
	}

	v, err, _ := s.sf.Do(employeeOptionsKey, func() (any, error) {
		employees, err := s.repo.FindAll(ctx)
		if err != nil {
			return nil, err
		}
		resp := mapToListResponse(employees)

		if s.rdb != nil {
			if payload, err := json.Marshal(resp); err == nil {
				if err := s.rdb.Set(ctx, employeeOptionsKey, payload, 5*time.Minute).Err(); err != nil {
					s.logger.Warn("cache employee options failed", zap.Error(err))
				}
			}
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]EmployeeResponse), nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*e), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	e, err := qtx.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if !IsKnownRole(req.Role) {
		return EmployeeResponse{}, employeeerrors.ErrInvalidRole
	}

	e.FullName = req.FullName
	e.Role = strings.ToLower(strings.TrimSpace(req.Role))
	if req.IsActive != nil {
		e.IsActive = *req.IsActive
	}
	e.Affiliate = nil
	e.AffiliateID = nil
	if err := s.applyOrgReferences(ctx, e, req.AffiliateID, req.DepartmentID, req.ManagerID); err != nil {
		s.logger.Warn("update employee org validation failed",
			zap.String("employee_id", id),
			zap.Error(err),
		)
		return EmployeeResponse{}, err
	}

	if err := qtx.Update(ctx, e); err != nil {
		s.logger.Error("update employee persist failed",
			zap.String("employee_id", id),
			zap.Error(err),
		)
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return EmployeeResponse{}, err
	}

	s.invalidateOptionsCache(ctx)
	s.logger.Info("update employee success", zap.String("employee_id", id))
	return mapToResponse(*e), nil
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
	if err := tx.Commit(); err != nil {
		return err
	}

	s.invalidateOptionsCache(ctx)
	return nil
}

func (s *service) invalidateOptionsCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, employeeOptionsKey).Err(); err != nil {
		s.logger.Warn("invalidate employee options cache failed", zap.Error(err))
	}
}

func mapToResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:       e.ID.String(),
		FullName: e.FullName,
		Email:    e.Email,
		Role:     e.Role,
		IsActive: e.IsActive,
	}
	if e.AffiliateID != nil {
		v := e.AffiliateID.String()
		resp.AffiliateID = &v
	}
	if e.Affiliate != nil {
		resp.AffiliateName = e.Affiliate.Name
	}
	if e.DepartmentID != nil {
		v := e.DepartmentID.String()
		resp.DepartmentID = &v
	}
	if e.Department != nil {
		resp.DepartmentName = e.Department.Name
	}
	if e.ManagerID != nil {
		v := e.ManagerID.String()
		resp.ManagerID = &v
	}
	return resp
}

func mapToListResponse(employees []Employee) []EmployeeResponse {
	resp := make([]EmployeeResponse, len(employees))
	for i, e := range employees {
		resp[i] = mapToResponse(e)
	}
	return resp
}
