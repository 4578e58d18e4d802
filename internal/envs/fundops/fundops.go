// Package fundops is the fund-finance back-office environment: investors,
// funds, subscriptions, NAV records, invoices, payments and trades, with
// approval-gated management operations.
package fundops

import (
	"github.com/roach88/toolbench/internal/authz"
	"github.com/roach88/toolbench/internal/rules"
	"github.com/roach88/toolbench/internal/tool"
)

// Name is the environment directory name under envs/.
const Name = "fundops"

// Policy declares which roles may perform which privileged actions.
// fund_management_setup is AND-composed: both the fund manager and the
// compliance officer must have approval rows before a fund can be set up.
var Policy = authz.Policy{
	PrincipalTable: "users",
	Actions: map[string]authz.Rule{
		"fund_management_setup":   authz.All("fund_manager", "compliance_officer"),
		"subscription_management": authz.Any("fund_manager", "compliance_officer"),
		"nav_management":          authz.Approver("finance_officer"),
		"trade_execution":         authz.Direct("trader"),
		"payment_processing":      authz.Any("finance_officer", "fund_manager"),
	},
}

// subscriptionLifecycle: pending -> approved -> cancelled; a pending
// subscription may also be cancelled directly. cancelled is terminal.
var subscriptionLifecycle = rules.Lifecycle{
	Field: "status",
	Transitions: map[string][]string{
		"pending":  {"approved", "cancelled"},
		"approved": {"cancelled"},
	},
	Terminal: []string{"cancelled"},
}

// invoiceLifecycle: issued -> paid. A paid invoice is immutable.
var invoiceLifecycle = rules.Lifecycle{
	Field: "status",
	Transitions: map[string][]string{
		"issued": {"paid"},
	},
	Terminal: []string{"paid"},
}

// paymentLifecycle: pending -> completed | failed, both terminal.
var paymentLifecycle = rules.Lifecycle{
	Field: "status",
	Transitions: map[string][]string{
		"pending": {"completed", "failed"},
	},
	Terminal: []string{"completed", "failed"},
}

// Catalogue returns the fundops tool set with the logical now injected.
func Catalogue(now string) []*tool.Tool {
	return []*tool.Tool{
		manageInvestors(now),
		manageFunds(now),
		manageSubscriptions(now),
		manageNAVRecord(now),
		manageInvoices(now),
		managePayments(now),
		executeTrade(now),
		approvalLookup(),
		discoverFundEntities(),
		discoverInvestorEntities(),
	}
}

// requester returns the audit identity for a call: the requester_id
// argument when present, "system" otherwise.
func requester(args map[string]any) string {
	if id := rules.Str(args, "requester_id"); id != "" {
		return id
	}
	return "system"
}
