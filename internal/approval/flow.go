// Package approval encodes the per-affiliate leave approval state
// machines. Flows are flat lookup tables keyed by request status; a
// status missing from the table is terminal for that flow. Who actually
// holds the pen at each state is decided by the Engine, which layers the
// permission rules and approver resolution on top of these tables.
package approval

import (
	"go-leave/internal/affiliate"
	"go-leave/internal/employee"
)

const (
	StatusPending         = "pending"
	StatusManagerApproved = "manager_approved"
	StatusHRApproved      = "hr_approved"
	StatusCEOApproved     = "ceo_approved"
	StatusApproved        = "approved"
	StatusRejected        = "rejected"
	StatusCancelled       = "cancelled"
)

// OpenStatuses are the states a request can still move out of.
var OpenStatuses = []string{
	StatusPending,
	StatusManagerApproved,
	StatusHRApproved,
	StatusCEOApproved,
}

func IsTerminal(status string) bool {
	switch status {
	case StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// Step names the role that must act at a status and the status an
// approval by that role produces.
type Step struct {
	Role string
	Next string
}

// Flow maps each open status to its step. An empty flow blocks all
// approvals, which is exactly what an unknown affiliate gets.
type Flow map[string]Step

// RequiredRole returns the role that must act at status, if any.
func (f Flow) RequiredRole(status string) (string, bool) {
	step, ok := f[status]
	if !ok {
		return "", false
	}
	return step.Role, true
}

// NextStatus returns the successor of status under this flow, or "" when
// the status has no step.
func (f Flow) NextStatus(status string) string {
	step, ok := f[status]
	if !ok {
		return ""
	}
	return step.Next
}

// Merban requests climb manager -> hr -> ceo. Requester roles that skip
// early stages do so structurally, through the initial status, so the
// later stages stay reachable for every variant.
func merbanStaffFlow() Flow {
	return Flow{
		StatusPending:         {Role: employee.RoleManager, Next: StatusManagerApproved},
		StatusManagerApproved: {Role: employee.RoleHR, Next: StatusHRApproved},
		StatusHRApproved:      {Role: employee.RoleCEO, Next: StatusApproved},
	}
}

func merbanManagerFlow() Flow {
	return Flow{
		StatusPending:         {Role: employee.RoleHR, Next: StatusHRApproved},
		StatusManagerApproved: {Role: employee.RoleHR, Next: StatusHRApproved},
		StatusHRApproved:      {Role: employee.RoleCEO, Next: StatusApproved},
	}
}

func merbanHRFlow() Flow {
	return Flow{
		StatusPending:         {Role: employee.RoleCEO, Next: StatusApproved},
		StatusManagerApproved: {Role: employee.RoleHR, Next: StatusHRApproved},
		StatusHRApproved:      {Role: employee.RoleCEO, Next: StatusApproved},
	}
}

// SDSL and SBL route CEO first, HR last.
func subsidiaryFlow() Flow {
	return Flow{
		StatusPending:     {Role: employee.RoleCEO, Next: StatusCEOApproved},
		StatusCEOApproved: {Role: employee.RoleHR, Next: StatusApproved},
	}
}

// A subsidiary CEO's own request goes straight to HR.
func subsidiaryCEOFlow() Flow {
	return Flow{
		StatusPending:     {Role: employee.RoleHR, Next: StatusApproved},
		StatusCEOApproved: {Role: employee.RoleHR, Next: StatusApproved},
	}
}

// FlowFor selects the approval table for a requester. routingRole must
// already be normalized (hod folded into manager).
func FlowFor(tag affiliate.Tag, routingRole string) Flow {
	switch tag {
	case affiliate.TagMerban:
		switch routingRole {
		case employee.RoleManager:
			return merbanManagerFlow()
		case employee.RoleHR:
			return merbanHRFlow()
		default:
			return merbanStaffFlow()
		}
	case affiliate.TagSDSL, affiliate.TagSBL:
		if routingRole == employee.RoleCEO {
			return subsidiaryCEOFlow()
		}
		return subsidiaryFlow()
	default:
		return Flow{}
	}
}
