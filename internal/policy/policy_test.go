package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teuprojeto/flowrev/internal/board"
	"github.com/teuprojeto/flowrev/internal/domain"
)

func columnTarget(s domain.InsumoStatus) board.Target {
	return board.Target{Kind: board.TargetColumn, Status: s}
}

func TestDecide_EmptyContentDeniedForAnyUser(t *testing.T) {
	cfg := DefaultConfig()
	insumo := &domain.Insumo{Title: "Cover", Content: "   "}

	users := []*domain.User{
		{ID: "u1", Role: domain.RoleSupervisor},
		{ID: "u2", Role: domain.RoleAnalyst},
		{ID: "u3", Role: domain.RoleManager},
		nil,
	}
	for _, u := range users {
		d := cfg.Decide(insumo, columnTarget(domain.StatusSubmitted), u)
		assert.False(t, d.Allowed)
		assert.Equal(t, RuleMissingContent, d.Rule)
		assert.Contains(t, d.Reason, "missing content")
	}
}

func TestDecide_ContentGateOnlyGuardsReviewStatuses(t *testing.T) {
	cfg := DefaultConfig()
	insumo := &domain.Insumo{Title: "Cover"}
	actor := &domain.User{ID: "u1", Role: domain.RoleSupervisor}

	d := cfg.Decide(insumo, columnTarget(domain.StatusInProgress), actor)
	assert.True(t, d.Allowed, "authoring statuses need no content")
}

func TestDecide_AnalystMatrix(t *testing.T) {
	cfg := DefaultConfig()
	insumo := &domain.Insumo{Title: "Cover", Content: "done"}
	analyst := &domain.User{ID: "u1", Role: domain.RoleAnalyst}

	d := cfg.Decide(insumo, columnTarget(domain.StatusUnderReview), analyst)
	assert.True(t, d.Allowed)

	d = cfg.Decide(insumo, columnTarget(domain.StatusApproved), analyst)
	assert.True(t, d.Allowed)

	d = cfg.Decide(insumo, columnTarget(domain.StatusNotStarted), analyst)
	require.False(t, d.Allowed)
	assert.Equal(t, RuleRoleForbidden, d.Rule)
	assert.Contains(t, d.Reason, "analyst")
}

func TestDecide_AuthoringRolesStopAtSubmitted(t *testing.T) {
	cfg := DefaultConfig()
	insumo := &domain.Insumo{Title: "Cover", Content: "done"}

	for _, role := range []domain.Role{domain.RoleSupervisor, domain.RoleMidAnalyst} {
		actor := &domain.User{ID: "u1", Role: role}

		d := cfg.Decide(insumo, columnTarget(domain.StatusSubmitted), actor)
		assert.True(t, d.Allowed, "role %s may submit", role)

		d = cfg.Decide(insumo, columnTarget(domain.StatusApproved), actor)
		assert.False(t, d.Allowed, "role %s may not approve", role)
		assert.Equal(t, RuleRoleForbidden, d.Rule)
	}
}

func TestDecide_CoordinationRolesUnrestricted(t *testing.T) {
	cfg := DefaultConfig()
	insumo := &domain.Insumo{Title: "Cover", Content: "done"}

	for _, role := range []domain.Role{domain.RoleCoordinator, domain.RoleManager} {
		actor := &domain.User{ID: "u1", Role: role}
		for _, s := range domain.AllStatuses {
			d := cfg.Decide(insumo, columnTarget(s), actor)
			assert.True(t, d.Allowed, "role %s blocked from %s", role, s)
		}
	}
}

func TestDecide_BypassListSkipsRoleGateOnly(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BypassUserIDs = []string{"vip"}

	withContent := &domain.Insumo{Title: "Cover", Content: "done"}
	vip := &domain.User{ID: "vip", Role: domain.RoleSupervisor}

	d := cfg.Decide(withContent, columnTarget(domain.StatusApproved), vip)
	assert.True(t, d.Allowed, "bypassed user escapes the role gate")

	empty := &domain.Insumo{Title: "Cover"}
	d = cfg.Decide(empty, columnTarget(domain.StatusApproved), vip)
	assert.False(t, d.Allowed, "content gate still applies to bypassed users")
	assert.Equal(t, RuleMissingContent, d.Rule)
}

func TestDecide_DateMovesBypassAllGates(t *testing.T) {
	cfg := DefaultConfig()
	empty := &domain.Insumo{Title: "Cover"}
	supervisor := &domain.User{ID: "u1", Role: domain.RoleSupervisor}

	d := cfg.Decide(empty, board.Target{Kind: board.TargetDay, Day: "2026-03-20"}, supervisor)
	assert.True(t, d.Allowed, "calendar moves skip role and content gates")
}

func TestDecide_UnknownRoleUnrestricted(t *testing.T) {
	cfg := DefaultConfig()
	insumo := &domain.Insumo{Title: "Cover", Content: "done"}
	actor := &domain.User{ID: "u1", Role: "intern"}

	d := cfg.Decide(insumo, columnTarget(domain.StatusApproved), actor)
	assert.True(t, d.Allowed, "roles absent from the table are unrestricted")
}
