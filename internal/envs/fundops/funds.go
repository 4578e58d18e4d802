package fundops

import (
	"fmt"

	"github.com/roach88/toolbench/internal/audit"
	"github.com/roach88/toolbench/internal/rules"
	"github.com/roach88/toolbench/internal/store"
	"github.com/roach88/toolbench/internal/tool"
)

var fundDataChecks = rules.Pipeline{
	rules.AllowOnly("name", "fund_type", "base_currency", "manager_id", "size", "status"),
	rules.StringField("name"),
	rules.Enum("fund_type", "hedge", "mutual", "private_equity"),
	rules.Enum("base_currency", "USD", "EUR", "GBP"),
	rules.Positive("size", "Fund size"),
	rules.Enum("status", "open", "closed"),
	rules.Ref("manager_id", "users", "User"),
}

// manageFunds is approval-gated: fund_management_setup requires approval
// rows from both fund_manager and compliance_officer, verified against the
// approvals table (not trusted as a claim).
func manageFunds(now string) *tool.Tool {
	return &tool.Tool{
		Descriptor: tool.Descriptor{
			Name:        "manage_funds",
			Description: "Create or update funds. Requires fund_management_setup approvals from both fund_manager and compliance_officer, verified against the approvals table.",
			Parameters: tool.Params{
				"action":       {Type: "string", Description: "Operation to perform", Enum: []any{"create", "update"}},
				"fund_id":      {Type: "string", Description: "Fund id (required for update)"},
				"fund_data":    {Type: "object", Description: "Fund fields: name, fund_type, base_currency, manager_id, size, status"},
				"requester_id": {Type: "string", Description: "User id requesting the operation"},
			},
			Required: []string{"action", "requester_id"},
		},
		Handler: func(ds store.Dataset, args map[string]any) string {
			if ds == nil {
				return tool.Fail("Store is not initialized")
			}
			if err := (rules.Pipeline{
				rules.AllowOnly("action", "fund_id", "fund_data", "requester_id"),
				rules.Require("action", "requester_id"),
			}).Run(ds, args); err != nil {
				return tool.Fail("%s", err)
			}

			res := Policy.Lookup(ds, "fund_management_setup", rules.Str(args, "requester_id"))
			if !res.ApprovalValid {
				return tool.Fail("%s", res.Error)
			}

			switch rules.Str(args, "action") {
			case "create":
				return createFund(ds, now, args)
			case "update":
				return updateFund(ds, now, args)
			default:
				return tool.Fail("Invalid action '%s'. Must be one of: create, update", rules.Str(args, "action"))
			}
		},
	}
}

func createFund(ds store.Dataset, now string, args map[string]any) string {
	data, ok := rules.Obj(args, "fund_data")
	if !ok {
		return tool.Fail("Missing required field: fund_data")
	}

	checks := append(rules.Pipeline{rules.Require("name", "fund_type", "base_currency")}, fundDataChecks...)
	checks = append(checks, rules.UniqueName("funds", "name", "Fund", ""))
	if err := checks.Run(ds, data); err != nil {
		return tool.Fail("%s", err)
	}

	rec := store.Record{
		"name":          data["name"],
		"fund_type":     data["fund_type"],
		"base_currency": data["base_currency"],
		"status":        "open",
	}
	for _, optional := range []string{"manager_id", "size", "status"} {
		if v, ok := data[optional]; ok {
			rec[optional] = v
		}
	}
	tool.StampCreate(rec, now)

	id := ds.FreshID("funds")
	ds.Insert("funds", id, rec)
	audit.MustAppend(ds, now, audit.Entry{
		Who:        requester(args),
		EntityType: "fund",
		EntityID:   id,
		ActionType: "create",
		Summary:    fmt.Sprintf("Created fund '%v'", data["name"]),
	})

	return tool.OK(map[string]any{"fund_id": id, "fund": rec})
}

func updateFund(ds store.Dataset, now string, args map[string]any) string {
	id := rules.Str(args, "fund_id")
	if id == "" {
		return tool.Fail("Missing required field: fund_id")
	}
	rec, ok := ds.Lookup("funds", id)
	if !ok {
		return tool.Fail("Fund with id '%s' not found", id)
	}
	data, ok := rules.Obj(args, "fund_data")
	if !ok {
		return tool.Fail("Missing required field: fund_data")
	}

	checks := append(rules.Pipeline{}, fundDataChecks...)
	checks = append(checks, rules.UniqueName("funds", "name", "Fund", id))
	if err := checks.Run(ds, data); err != nil {
		return tool.Fail("%s", err)
	}
	if status, _ := rec["status"].(string); status == "closed" {
		return tool.Fail("Cannot modify closed fund")
	}

	for k, v := range data {
		rec[k] = v
	}
	tool.StampUpdate(rec, now)
	audit.MustAppend(ds, now, audit.Entry{
		Who:        requester(args),
		EntityType: "fund",
		EntityID:   id,
		ActionType: "update",
		Summary:    fmt.Sprintf("Updated fund '%s'", id),
	})

	return tool.OK(map[string]any{"fund_id": id, "fund": rec})
}
