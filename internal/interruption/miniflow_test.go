package interruption_test

import (
	"testing"

	"go-leave/internal/affiliate"
	"go-leave/internal/approval"
	"go-leave/internal/employee"
	"go-leave/internal/interruption"

	"github.com/stretchr/testify/assert"
)

func TestReturnFlowFor(t *testing.T) {
	// walk follows the flow from initial until a stage has no step,
	// collecting role -> next transitions.
	walk := func(flow approval.Flow, initial string) []string {
		var path []string
		status := initial
		for {
			step, ok := flow[status]
			if !ok {
				break
			}
			path = append(path, step.Role+"->"+step.Next)
			status = step.Next
		}
		return path
	}

	tests := []struct {
		name        string
		tag         affiliate.Tag
		role        string
		wantInitial string
		wantPath    []string
	}{
		{
			name:        "merban staff climbs manager then hr",
			tag:         affiliate.TagMerban,
			role:        employee.RoleJuniorStaff,
			wantInitial: interruption.StatusPendingManager,
			wantPath: []string{
				"manager->pending_hr",
				"hr->approved",
			},
		},
		{
			name:        "merban manager needs only hr",
			tag:         affiliate.TagMerban,
			role:        employee.RoleManager,
			wantInitial: interruption.StatusPendingHR,
			wantPath:    []string{"hr->approved"},
		},
		{
			name:        "merban hr needs the ceo",
			tag:         affiliate.TagMerban,
			role:        employee.RoleHR,
			wantInitial: interruption.StatusPendingCEO,
			wantPath:    []string{"ceo->approved"},
		},
		{
			name:        "merban ceo needs only hr",
			tag:         affiliate.TagMerban,
			role:        employee.RoleCEO,
			wantInitial: interruption.StatusPendingHR,
			wantPath:    []string{"hr->approved"},
		},
		{
			name:        "sdsl staff routes ceo first then hr",
			tag:         affiliate.TagSDSL,
			role:        employee.RoleSeniorStaff,
			wantInitial: interruption.StatusPendingCEO,
			wantPath: []string{
				"ceo->pending_hr",
				"hr->approved",
			},
		},
		{
			name:        "sbl manager routes like sbl staff",
			tag:         affiliate.TagSBL,
			role:        employee.RoleManager,
			wantInitial: interruption.StatusPendingCEO,
			wantPath: []string{
				"ceo->pending_hr",
				"hr->approved",
			},
		},
		{
			name:        "sdsl ceo needs only hr",
			tag:         affiliate.TagSDSL,
			role:        employee.RoleCEO,
			wantInitial: interruption.StatusPendingHR,
			wantPath:    []string{"hr->approved"},
		},
		{
			name:        "sdsl hr needs the ceo",
			tag:         affiliate.TagSDSL,
			role:        employee.RoleHR,
			wantInitial: interruption.StatusPendingCEO,
			wantPath:    []string{"ceo->approved"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flow, initial := interruption.ReturnFlowFor(tt.tag, tt.role)
			assert.Equal(t, tt.wantInitial, initial)
			assert.Equal(t, tt.wantPath, walk(flow, initial))
		})
	}

	t.Run("unknown affiliate yields no flow", func(t *testing.T) {
		flow, initial := interruption.ReturnFlowFor(affiliate.TagUnknown, employee.RoleJuniorStaff)
		assert.Empty(t, flow)
		assert.Empty(t, initial)
	})
}

func TestIsOpen(t *testing.T) {
	open := []string{
		interruption.StatusPendingManager,
		interruption.StatusPendingHR,
		interruption.StatusPendingCEO,
		interruption.StatusPendingStaff,
	}
	for _, status := range open {
		assert.True(t, interruption.IsOpen(status), status)
	}

	closed := []string{
		interruption.StatusApproved,
		interruption.StatusRejected,
		interruption.StatusApplied,
	}
	for _, status := range closed {
		assert.False(t, interruption.IsOpen(status), status)
	}
}
