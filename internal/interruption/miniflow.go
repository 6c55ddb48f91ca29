package interruption

import (
	"go-leave/internal/affiliate"
	"go-leave/internal/approval"
	"go-leave/internal/employee"
)

// Early returns walk a shortened version of the affiliate's approval
// chain: the employee is already on an approved leave, so only the
// stages above them sign off. The tables reuse the approval package's
// Step/Flow machinery; a recall never appears here because its single
// stage (pending_staff) is decided by the employee, not by a role.
//
// ReturnFlowFor returns the table and the status a fresh early-return
// request enters at. An unknown affiliate yields an empty flow and an
// empty initial status, which blocks submission outright.
func ReturnFlowFor(tag affiliate.Tag, routingRole string) (approval.Flow, string) {
	switch tag {
	case affiliate.TagMerban:
		switch routingRole {
		case employee.RoleManager:
			return merbanManagerReturnFlow(), StatusPendingHR
		case employee.RoleHR:
			return merbanHRReturnFlow(), StatusPendingCEO
		case employee.RoleCEO:
			return ceoReturnFlow(), StatusPendingHR
		default:
			return merbanStaffReturnFlow(), StatusPendingManager
		}
	case affiliate.TagSDSL, affiliate.TagSBL:
		switch routingRole {
		case employee.RoleCEO:
			return ceoReturnFlow(), StatusPendingHR
		case employee.RoleHR:
			return subsidiaryHRReturnFlow(), StatusPendingCEO
		default:
			return subsidiaryReturnFlow(), StatusPendingCEO
		}
	default:
		return approval.Flow{}, ""
	}
}

func merbanStaffReturnFlow() approval.Flow {
	return approval.Flow{
		StatusPendingManager: {Role: employee.RoleManager, Next: StatusPendingHR},
		StatusPendingHR:      {Role: employee.RoleHR, Next: StatusApproved},
	}
}

func merbanManagerReturnFlow() approval.Flow {
	return approval.Flow{
		StatusPendingHR: {Role: employee.RoleHR, Next: StatusApproved},
	}
}

func merbanHRReturnFlow() approval.Flow {
	return approval.Flow{
		StatusPendingCEO: {Role: employee.RoleCEO, Next: StatusApproved},
	}
}

// A CEO coming back early only needs HR to acknowledge it.
func ceoReturnFlow() approval.Flow {
	return approval.Flow{
		StatusPendingHR: {Role: employee.RoleHR, Next: StatusApproved},
	}
}

func subsidiaryReturnFlow() approval.Flow {
	return approval.Flow{
		StatusPendingCEO: {Role: employee.RoleCEO, Next: StatusPendingHR},
		StatusPendingHR:  {Role: employee.RoleHR, Next: StatusApproved},
	}
}

func subsidiaryHRReturnFlow() approval.Flow {
	return approval.Flow{
		StatusPendingCEO: {Role: employee.RoleCEO, Next: StatusApproved},
	}
}
