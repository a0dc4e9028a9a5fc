// Package policy gates proposed insumo moves against role permissions and
// content-readiness rules. Decisions are pure values: a Deny never reaches
// the network, and the caller is responsible for surfacing its message.
package policy

import (
	"fmt"

	"github.com/teuprojeto/flowrev/internal/board"
	"github.com/teuprojeto/flowrev/internal/domain"
)

// Rule identifies which gate produced a denial.
type Rule string

const (
	RuleMissingContent Rule = "missing_content"
	RuleRoleForbidden  Rule = "role_forbidden"
)

// Decision is the outcome of evaluating a proposed move.
type Decision struct {
	Allowed bool
	Rule    Rule   // failed rule, set on denial
	Reason  string // user-facing message naming the failed rule
}

func allow() Decision { return Decision{Allowed: true} }

func deny(rule Rule, format string, args ...any) Decision {
	return Decision{Allowed: false, Rule: rule, Reason: fmt.Sprintf(format, args...)}
}

// Config is the declarative permission table. RoleTargets maps each role to
// the statuses it may move an item into; a role absent from the map is
// unrestricted. BypassUserIDs lists accounts exempt from the role gate
// (the content gate still applies to them).
type Config struct {
	RoleTargets   map[domain.Role][]domain.InsumoStatus
	BypassUserIDs []string
}

// DefaultConfig reflects the production permission matrix: authoring roles
// push work up to submission, the analyst reviews from submission onward,
// and coordination roles are unrestricted.
func DefaultConfig() Config {
	return Config{
		RoleTargets: map[domain.Role][]domain.InsumoStatus{
			domain.RoleSupervisor: {
				domain.StatusNotStarted, domain.StatusInProgress, domain.StatusSubmitted,
			},
			domain.RoleMidAnalyst: {
				domain.StatusNotStarted, domain.StatusInProgress, domain.StatusSubmitted,
			},
			domain.RoleAnalyst: {
				domain.StatusSubmitted, domain.StatusUnderReview,
				domain.StatusAdjustmentRequested, domain.StatusApproved,
			},
		},
	}
}

// Decide validates a proposed move of insumo to target by actor.
//
// Date targets bypass both gates: rescheduling is permitted to any actor
// who can open the board. For status targets the content-readiness gate
// runs first, then the role gate.
func (c Config) Decide(insumo *domain.Insumo, target board.Target, actor *domain.User) Decision {
	if target.Kind == board.TargetDay {
		return allow()
	}

	if domain.ReviewStatuses[target.Status] && !insumo.HasContent() {
		return deny(RuleMissingContent,
			"cannot move %q to %s: missing content",
			insumo.Title, domain.StatusLabels[target.Status])
	}

	if actor != nil && !c.bypassed(actor.ID) {
		if allowed, restricted := c.RoleTargets[actor.Role]; restricted {
			if !statusIn(target.Status, allowed) {
				return deny(RuleRoleForbidden,
					"role %s may not move items to %s",
					actor.Role, domain.StatusLabels[target.Status])
			}
		}
	}

	return allow()
}

func (c Config) bypassed(userID string) bool {
	for _, id := range c.BypassUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func statusIn(s domain.InsumoStatus, set []domain.InsumoStatus) bool {
	for _, candidate := range set {
		if candidate == s {
			return true
		}
	}
	return false
}
