package rbac

import (
	"fmt"
	"sync"

	"go-leave/internal/domain"
	"go-leave/internal/shared/apperror"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

type Service interface {
	LoadPolicy() error
	Enforce(req domain.EnforceRequest) (bool, error)

	ListRoles() ([]domain.RoleResponse, error)
	GetRole(id string) (*domain.RoleResponse, error)
	CreateRole(req domain.CreateRoleRequest) (*domain.RoleResponse, error)
	UpdateRole(id string, req domain.UpdateRoleRequest) (*domain.RoleResponse, error)
	DeleteRole(id string) error
	ListPermissions() ([]domain.PermissionResponse, error)
}

type service struct {
	repo     Repository
	enforcer *casbin.Enforcer
	mu       sync.Mutex
	logger   *zap.Logger
}

func NewService(repo Repository, enforcer *casbin.Enforcer, logger ...*zap.Logger) Service {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}
	return &service{
		repo:     repo,
		enforcer: enforcer,
		logger:   l,
	}
}

func (s *service) LoadPolicy() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadPolicyUnlocked()
}

// loadPolicyUnlocked rebuilds the in-memory casbin policy from the role
// tables. Edits always go through here so the enforcer never serves a
// half-written policy.
func (s *service) loadPolicyUnlocked() error {
	s.enforcer.ClearPolicy()

	employeeRoles, err := s.repo.GetEmployeeRoles()
	if err != nil {
		return err
	}

	for _, er := range employeeRoles {
		if _, err := s.enforcer.AddGroupingPolicy(er.EmployeeID, er.RoleID); err != nil {
			return err
		}
	}

	rolePerms, err := s.repo.GetRolePermissions()
	if err != nil {
		return err
	}

	for _, rp := range rolePerms {
		if _, err := s.enforcer.AddPolicy(rp.RoleID, rp.Resource, rp.Action); err != nil {
			return err
		}
	}

	s.logger.Debug("rbac policy loaded",
		zap.Int("employee_roles", len(employeeRoles)),
		zap.Int("role_permissions", len(rolePerms)),
	)

	return nil
}

func (s *service) Enforce(req domain.EnforceRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadPolicyUnlocked(); err != nil {
		return false, err
	}

	allowed, err := s.enforcer.Enforce(req.EmployeeID, req.Resource, req.Action)
	if err != nil {
		s.logger.Error("rbac enforce failed",
			zap.String("employee_id", req.EmployeeID),
			zap.String("resource", req.Resource),
			zap.String("action", req.Action),
			zap.Error(err),
		)
		return false, err
	}

	s.logger.Debug("rbac enforce result",
		zap.String("employee_id", req.EmployeeID),
		zap.String("resource", req.Resource),
		zap.String("action", req.Action),
		zap.Bool("allowed", allowed),
	)

	return allowed, nil
}

var errRoleNotFound = apperror.New(apperror.CodeNotFound, "role not found", 404)
var errRoleNameTaken = apperror.New(apperror.CodeConflict, "a role with this name already exists", 409)

func (s *service) ListRoles() ([]domain.RoleResponse, error) {
	rows, err := s.repo.ListRoles()
	if err != nil {
		return nil, err
	}

	resp := make([]domain.RoleResponse, 0, len(rows))
	for _, row := range rows {
		r, err := s.mapRole(&row)
		if err != nil {
			return nil, err
		}
		resp = append(resp, *r)
	}
	return resp, nil
}

func (s *service) GetRole(id string) (*domain.RoleResponse, error) {
	row, err := s.repo.GetRoleByID(id)
	if err != nil {
		return nil, errRoleNotFound
	}
	return s.mapRole(row)
}

func (s *service) CreateRole(req domain.CreateRoleRequest) (*domain.RoleResponse, error) {
	if existing, _ := s.repo.GetRoleByName(req.Name); existing != nil {
		return nil, errRoleNameTaken
	}

	row := &RoleRow{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.repo.CreateRole(row); err != nil {
		return nil, err
	}

	if len(req.Permissions) > 0 {
		if err := s.repo.UpdateRolePermissions(row.ID, req.Permissions); err != nil {
			return nil, err
		}
	}

	return s.mapRole(row)
}

func (s *service) UpdateRole(id string, req domain.UpdateRoleRequest) (*domain.RoleResponse, error) {
	row, err := s.repo.GetRoleByID(id)
	if err != nil {
		return nil, errRoleNotFound
	}

	if req.Name != "" {
		row.Name = req.Name
	}
	if req.Description != "" {
		row.Description = req.Description
	}
	if err := s.repo.UpdateRole(row); err != nil {
		return nil, err
	}

	if req.Permissions != nil {
		if err := s.repo.UpdateRolePermissions(row.ID, req.Permissions); err != nil {
			return nil, err
		}
	}

	return s.mapRole(row)
}

func (s *service) DeleteRole(id string) error {
	if _, err := s.repo.GetRoleByID(id); err != nil {
		return errRoleNotFound
	}
	return s.repo.DeleteRole(id)
}

func (s *service) ListPermissions() ([]domain.PermissionResponse, error) {
	rows, err := s.repo.ListPermissions()
	if err != nil {
		return nil, err
	}

	resp := make([]domain.PermissionResponse, 0, len(rows))
	for _, p := range rows {
		resp = append(resp, domain.PermissionResponse{
			ID:       p.ID,
			Resource: p.Resource,
			Action:   p.Action,
			Label:    p.Label,
			Category: p.Category,
		})
	}
	return resp, nil
}

func (s *service) mapRole(row *RoleRow) (*domain.RoleResponse, error) {
	perms, err := s.repo.GetPermissionsByRoleID(row.ID)
	if err != nil {
		return nil, err
	}

	permStrings := make([]string, 0, len(perms))
	for _, p := range perms {
		permStrings = append(permStrings, fmt.Sprintf("%s:%s", p.Resource, p.Action))
	}

	return &domain.RoleResponse{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		Permissions: permStrings,
	}, nil
}
