package approval

import (
	"context"
	"errors"

	"go-leave/internal/affiliate"
	"go-leave/internal/employee"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Directory is the slice of the employee repository the engine needs.
type Directory interface {
	FindByID(ctx context.Context, id string) (*employee.Employee, error)
	FirstActiveByRole(ctx context.Context, role string) (*employee.Employee, error)
}

// Resolver answers affiliate and CEO questions for an employee.
type Resolver interface {
	AffiliateOf(e *employee.Employee) affiliate.Tag
	CEOFor(ctx context.Context, e *employee.Employee) (*employee.Employee, error)
}

// Engine decides who may act on a leave request at each status and who
// should act next. It is stateless; the request's requester (with the
// routing graph preloaded) carries everything flow selection needs.
type Engine struct {
	dir    Directory
	res    Resolver
	logger *zap.Logger
}

func NewEngine(dir Directory, res Resolver, logger *zap.Logger) *Engine {
	return &Engine{
		dir:    dir,
		res:    res,
		logger: logger.Named("approval_engine"),
	}
}

// FlowFor returns the approval table governing requests by requester.
func (en *Engine) FlowFor(requester *employee.Employee) Flow {
	return FlowFor(en.res.AffiliateOf(requester), requester.RoutingRole())
}

// InitialStatus decides where a new request enters its flow. Requesters
// who themselves hold an early stage of the Merban chain skip it
// structurally: their requests start past the stage they would otherwise
// approve for others. Merban staff with neither a manager reference nor
// a department head likewise skip the manager stage rather than strand.
// Subsidiary HR and CEO requests enter at ceo_approved so only HR remains.
func (en *Engine) InitialStatus(requester *employee.Employee) string {
	tag := en.res.AffiliateOf(requester)
	role := requester.RoutingRole()

	switch tag {
	case affiliate.TagMerban:
		switch role {
		case employee.RoleManager, employee.RoleHR:
			return StatusManagerApproved
		}
		if requester.IsStaff() && !en.hasManagerStageApprover(requester) {
			return StatusManagerApproved
		}
	case affiliate.TagSDSL, affiliate.TagSBL:
		switch role {
		case employee.RoleHR, employee.RoleCEO:
			return StatusCEOApproved
		}
	}
	return StatusPending
}

func (en *Engine) hasManagerStageApprover(requester *employee.Employee) bool {
	if requester.ManagerID != nil {
		return true
	}
	return requester.Department != nil && requester.Department.HodID != nil
}

// CanApprove reports whether actor may move a request by requester out of
// status. Admins bypass the role match but not the flow itself: an
// unresolvable affiliate yields an empty flow that blocks everyone, and a
// status with no step is closed to admins too. CEO steps additionally
// pin the approver to the requester's own affiliate's CEO.
func (en *Engine) CanApprove(ctx context.Context, actor, requester *employee.Employee, status string) (bool, error) {
	return en.CanAct(ctx, actor, requester, en.FlowFor(requester), status)
}

// CanAct is CanApprove against an explicit flow table. Interruption
// mini-flows route through here with their own tables.
func (en *Engine) CanAct(ctx context.Context, actor, requester *employee.Employee, flow Flow, status string) (bool, error) {
	step, ok := flow[status]
	if !ok {
		return false, nil
	}
	if !actor.IsActive {
		return false, nil
	}
	if actor.IsAdmin() {
		return true, nil
	}
	if actor.RoutingRole() != step.Role {
		return false, nil
	}
	if step.Role == employee.RoleCEO {
		ceo, err := en.res.CEOFor(ctx, requester)
		if err != nil {
			return false, err
		}
		return ceo != nil && ceo.ID == actor.ID, nil
	}
	return true, nil
}

// NextApprover resolves the concrete employee expected to act on a
// request by requester sitting at status. A nil result with a nil error
// means the step exists but nobody fills it right now; routing is
// re-resolved on every action, so the request unblocks as soon as the
// directory changes.
func (en *Engine) NextApprover(ctx context.Context, requester *employee.Employee, status string) (*employee.Employee, error) {
	step, ok := en.FlowFor(requester)[status]
	if !ok {
		return nil, nil
	}

	switch step.Role {
	case employee.RoleManager:
		return en.managerStageApprover(ctx, requester)
	case employee.RoleHR:
		return en.activeByRole(ctx, employee.RoleHR)
	case employee.RoleCEO:
		return en.res.CEOFor(ctx, requester)
	default:
		en.logger.Warn("flow step names an unroutable role",
			zap.String("role", step.Role),
			zap.String("status", status),
		)
		return nil, nil
	}
}

// managerStageApprover prefers the requester's direct manager and falls
// back to their department's head.
func (en *Engine) managerStageApprover(ctx context.Context, requester *employee.Employee) (*employee.Employee, error) {
	if requester.ManagerID != nil {
		mgr, err := en.lookup(ctx, requester.ManagerID.String())
		if err != nil {
			return nil, err
		}
		if mgr != nil && mgr.IsActive {
			return mgr, nil
		}
	}
	if requester.Department != nil && requester.Department.HodID != nil {
		hod, err := en.lookup(ctx, requester.Department.HodID.String())
		if err != nil {
			return nil, err
		}
		if hod != nil && hod.IsActive {
			return hod, nil
		}
	}
	return nil, nil
}

// lookup resolves an employee id, folding a missing row into nil.
func (en *Engine) lookup(ctx context.Context, id string) (*employee.Employee, error) {
	e, err := en.dir.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return e, nil
}

func (en *Engine) activeByRole(ctx context.Context, role string) (*employee.Employee, error) {
	e, err := en.dir.FirstActiveByRole(ctx, role)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return e, nil
}
