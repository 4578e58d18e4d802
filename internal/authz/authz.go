// Package authz evaluates the approval model shared by all environments.
//
// Every principal has exactly one role. A named action is either directly
// authorized for a set of roles, or requires approval rows in the
// environment's approvals table. An approval row carries a code of the
// shape "<action>_<requesterID>" plus the approving role; AND-composed
// rules need every listed role to have approved, OR-composed rules need at
// least one.
package authz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/toolbench/internal/store"
)

// Mode selects how a rule combines its roles.
type Mode string

const (
	// ModeDirect authorizes the listed roles with no external approval.
	ModeDirect Mode = "direct"

	// ModeAll requires approval rows from every listed role.
	ModeAll Mode = "all"

	// ModeAny requires an approval row from at least one listed role.
	ModeAny Mode = "any"
)

// Rule is the authorization specification for one named action.
type Rule struct {
	Mode  Mode
	Roles []string
}

// Direct builds a rule authorizing the roles without approval rows.
func Direct(roles ...string) Rule {
	return Rule{Mode: ModeDirect, Roles: roles}
}

// All builds an AND-composed rule: every role must have approved.
func All(roles ...string) Rule {
	return Rule{Mode: ModeAll, Roles: roles}
}

// Any builds an OR-composed rule: at least one role must have approved.
func Any(roles ...string) Rule {
	return Rule{Mode: ModeAny, Roles: roles}
}

// Approver builds a single-approver rule, equivalent to All of one role.
func Approver(role string) Rule {
	return Rule{Mode: ModeAll, Roles: []string{role}}
}

// Policy binds an environment's action rules to its principal table.
type Policy struct {
	// PrincipalTable names the table holding requesters (e.g. "users",
	// "employees"). Each record's "role" field is the requester's role.
	PrincipalTable string

	// ApprovalsTable names the approval-grant table; defaults to "approvals".
	ApprovalsTable string

	// Actions maps action names to their rules.
	Actions map[string]Rule
}

// Result is the outcome of an approval lookup, returned verbatim by the
// approval_lookup tools.
type Result struct {
	ApprovalValid bool     `json:"approval_valid"`
	ApprovedBy    []string `json:"approved_by,omitempty"`
	Error         string   `json:"error,omitempty"`
}

// Lookup evaluates whether the requester may perform the named action.
//
// Resolution order: resolve requester -> role; directly authorized roles
// pass immediately; otherwise collect the approved_by_role set from rows
// whose code equals "<action>_<requesterID>" and test it against the rule.
func (p Policy) Lookup(ds store.Dataset, action, requesterID string) Result {
	rule, ok := p.Actions[action]
	if !ok {
		return Result{Error: fmt.Sprintf("Unknown action '%s'", action)}
	}

	requester, ok := ds.Lookup(p.PrincipalTable, requesterID)
	if !ok {
		return Result{Error: fmt.Sprintf("Requester with id '%s' not found", requesterID)}
	}
	role, _ := requester["role"].(string)

	if rule.Mode == ModeDirect {
		for _, r := range rule.Roles {
			if r == role {
				return Result{ApprovalValid: true, ApprovedBy: []string{role}}
			}
		}
		return Result{Error: fmt.Sprintf("Role '%s' is not authorized for action '%s'", role, action)}
	}

	approved := p.approvedRoles(ds, action, requesterID)

	switch rule.Mode {
	case ModeAll:
		var missing []string
		for _, r := range rule.Roles {
			if !approved[r] {
				missing = append(missing, r)
			}
		}
		if len(missing) > 0 {
			sort.Strings(missing)
			return Result{Error: fmt.Sprintf("Requires additional approvals from roles: %s", strings.Join(missing, ", "))}
		}
		return Result{ApprovalValid: true, ApprovedBy: sortedRoles(approved, rule.Roles)}

	case ModeAny:
		for _, r := range rule.Roles {
			if approved[r] {
				return Result{ApprovalValid: true, ApprovedBy: sortedRoles(approved, rule.Roles)}
			}
		}
		return Result{Error: fmt.Sprintf("Requires approval from one of roles: %s", strings.Join(rule.Roles, ", "))}

	default:
		return Result{Error: fmt.Sprintf("Invalid authorization mode '%s' for action '%s'", rule.Mode, action)}
	}
}

// approvedRoles collects the roles that approved this action for this
// requester.
func (p Policy) approvedRoles(ds store.Dataset, action, requesterID string) map[string]bool {
	table := p.ApprovalsTable
	if table == "" {
		table = "approvals"
	}
	code := action + "_" + requesterID

	approved := make(map[string]bool)
	for _, rec := range ds.Get(table) {
		if c, _ := rec["code"].(string); c != code {
			continue
		}
		if role, ok := rec["approved_by_role"].(string); ok && role != "" {
			approved[role] = true
		}
	}
	return approved
}

// sortedRoles renders the granted subset of the rule's roles in sorted
// order for deterministic envelopes.
func sortedRoles(approved map[string]bool, ruleRoles []string) []string {
	var out []string
	for _, r := range ruleRoles {
		if approved[r] {
			out = append(out, r)
		}
	}
	sort.Strings(out)
	return out
}
