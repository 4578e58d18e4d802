package fundops

import (
	"fmt"

	"github.com/roach88/toolbench/internal/audit"
	"github.com/roach88/toolbench/internal/rules"
	"github.com/roach88/toolbench/internal/store"
	"github.com/roach88/toolbench/internal/tool"
)

// manageSubscriptions handles the pending -> approved -> cancelled
// lifecycle. Approval is a boolean claim (compliance_officer_approval):
// the flag's presence is required but not cross-checked against the
// approvals table, per this tool's contract.
func manageSubscriptions(now string) *tool.Tool {
	return &tool.Tool{
		Descriptor: tool.Descriptor{
			Name:        "manage_subscriptions",
			Description: "Create, approve or cancel fund subscriptions. One subscription per (investor_id, fund_id). Approving requires the compliance_officer_approval flag. Cancelled subscriptions are immutable.",
			Parameters: tool.Params{
				"action":                      {Type: "string", Description: "Operation to perform", Enum: []any{"create", "approve", "cancel"}},
				"subscription_id":             {Type: "string", Description: "Subscription id (required for approve and cancel)"},
				"investor_id":                 {Type: "string", Description: "Investor id (required for create)"},
				"fund_id":                     {Type: "string", Description: "Fund id (required for create)"},
				"amount":                      {Type: "number", Description: "Subscription amount (required for create, must be positive)"},
				"compliance_officer_approval": {Type: "boolean", Description: "Compliance officer approval claim (required for approve)"},
				"requester_id":                {Type: "string", Description: "User id performing the operation"},
			},
			Required: []string{"action"},
		},
		Handler: func(ds store.Dataset, args map[string]any) string {
			if ds == nil {
				return tool.Fail("Store is not initialized")
			}
			if err := (rules.Pipeline{
				rules.AllowOnly("action", "subscription_id", "investor_id", "fund_id", "amount", "compliance_officer_approval", "requester_id"),
				rules.Require("action"),
			}).Run(ds, args); err != nil {
				return tool.Fail("%s", err)
			}

			switch rules.Str(args, "action") {
			case "create":
				return createSubscription(ds, now, args)
			case "approve":
				return transitionSubscription(ds, now, args, "approved", true)
			case "cancel":
				return transitionSubscription(ds, now, args, "cancelled", false)
			default:
				return tool.Fail("Invalid action '%s'. Must be one of: create, approve, cancel", rules.Str(args, "action"))
			}
		},
	}
}

func createSubscription(ds store.Dataset, now string, args map[string]any) string {
	if err := (rules.Pipeline{
		rules.Require("investor_id", "fund_id", "amount"),
		rules.Positive("amount", "Subscription amount"),
		rules.Ref("investor_id", "investors", "Investor"),
		rules.Ref("fund_id", "funds", "Fund"),
		rules.UniquePair("subscriptions", "investor_id", "fund_id", "Subscription", ""),
	}).Run(ds, args); err != nil {
		return tool.Fail("%s", err)
	}

	rec := store.Record{
		"investor_id": args["investor_id"],
		"fund_id":     args["fund_id"],
		"amount":      args["amount"],
		"status":      "pending",
	}
	tool.StampCreate(rec, now)

	id := ds.FreshID("subscriptions")
	ds.Insert("subscriptions", id, rec)
	audit.MustAppend(ds, now, audit.Entry{
		Who:        requester(args),
		EntityType: "subscription",
		EntityID:   id,
		ActionType: "create",
		Summary:    fmt.Sprintf("Created subscription for investor '%v' in fund '%v'", args["investor_id"], args["fund_id"]),
	})

	return tool.OK(map[string]any{"subscription_id": id, "subscription": rec})
}

func transitionSubscription(ds store.Dataset, now string, args map[string]any, to string, needsApproval bool) string {
	id := rules.Str(args, "subscription_id")
	if id == "" {
		return tool.Fail("Missing required field: subscription_id")
	}
	rec, ok := ds.Lookup("subscriptions", id)
	if !ok {
		return tool.Fail("Subscription with id '%s' not found", id)
	}

	if needsApproval && !rules.Bool(args, "compliance_officer_approval") {
		return tool.Fail("Approving a subscription requires compliance_officer_approval")
	}
	if err := subscriptionLifecycle.GuardMutation(rec, "subscription"); err != nil {
		return tool.Fail("%s", err)
	}
	if err := subscriptionLifecycle.GuardTransition(rec, to, "subscription"); err != nil {
		return tool.Fail("%s", err)
	}

	rec["status"] = to
	tool.StampUpdate(rec, now)
	audit.MustAppend(ds, now, audit.Entry{
		Who:        requester(args),
		EntityType: "subscription",
		EntityID:   id,
		ActionType: to,
		Summary:    fmt.Sprintf("Subscription '%s' %s", id, to),
	})

	return tool.OK(map[string]any{"subscription_id": id, "subscription": rec})
}
