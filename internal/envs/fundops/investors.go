package fundops

import (
	"fmt"

	"github.com/roach88/toolbench/internal/audit"
	"github.com/roach88/toolbench/internal/rules"
	"github.com/roach88/toolbench/internal/store"
	"github.com/roach88/toolbench/internal/tool"
)

// investorLifecycle: onboarding -> active -> offboarded; offboarded is
// terminal.
var investorLifecycle = rules.Lifecycle{
	Field: "status",
	Transitions: map[string][]string{
		"onboarding": {"active", "offboarded"},
		"active":     {"offboarded"},
	},
	Terminal: []string{"offboarded"},
}

var investorDataChecks = rules.Pipeline{
	rules.AllowOnly("name", "contact_email", "accreditation_status", "status"),
	rules.StringField("name"),
	rules.StringField("contact_email"),
	rules.Enum("accreditation_status", "accredited", "non_accredited"),
	rules.Enum("status", investorLifecycle.States()...),
}

func manageInvestors(now string) *tool.Tool {
	return &tool.Tool{
		Descriptor: tool.Descriptor{
			Name:        "manage_investors",
			Description: "Create or update investor records. Investor names are unique (case-insensitive). Offboarded investors cannot be modified.",
			Parameters: tool.Params{
				"action":       {Type: "string", Description: "Operation to perform", Enum: []any{"create", "update"}},
				"investor_id":  {Type: "string", Description: "Investor id (required for update)"},
				"investor_data": {Type: "object", Description: "Investor fields: name, contact_email, accreditation_status, status"},
				"requester_id": {Type: "string", Description: "User id performing the operation"},
			},
			Required: []string{"action"},
		},
		Handler: func(ds store.Dataset, args map[string]any) string {
			if ds == nil {
				return tool.Fail("Store is not initialized")
			}
			if err := (rules.Pipeline{
				rules.AllowOnly("action", "investor_id", "investor_data", "requester_id"),
				rules.Require("action"),
			}).Run(ds, args); err != nil {
				return tool.Fail("%s", err)
			}

			switch rules.Str(args, "action") {
			case "create":
				return createInvestor(ds, now, args)
			case "update":
				return updateInvestor(ds, now, args)
			default:
				return tool.Fail("Invalid action '%s'. Must be one of: create, update", rules.Str(args, "action"))
			}
		},
	}
}

func createInvestor(ds store.Dataset, now string, args map[string]any) string {
	data, ok := rules.Obj(args, "investor_data")
	if !ok {
		return tool.Fail("Missing required field: investor_data")
	}

	checks := append(rules.Pipeline{rules.Require("name")}, investorDataChecks...)
	checks = append(checks, rules.UniqueName("investors", "name", "Investor", ""))
	if err := checks.Run(ds, data); err != nil {
		return tool.Fail("%s", err)
	}

	rec := store.Record{
		"name":                 data["name"],
		"contact_email":        data["contact_email"],
		"accreditation_status": data["accreditation_status"],
		"status":               "onboarding",
	}
	if s, ok := data["status"].(string); ok {
		rec["status"] = s
	}
	tool.StampCreate(rec, now)

	id := ds.FreshID("investors")
	ds.Insert("investors", id, rec)
	audit.MustAppend(ds, now, audit.Entry{
		Who:        requester(args),
		EntityType: "investor",
		EntityID:   id,
		ActionType: "create",
		Summary:    fmt.Sprintf("Created investor '%v'", data["name"]),
	})

	return tool.OK(map[string]any{"investor_id": id, "investor": rec})
}

func updateInvestor(ds store.Dataset, now string, args map[string]any) string {
	id := rules.Str(args, "investor_id")
	if id == "" {
		return tool.Fail("Missing required field: investor_id")
	}
	rec, ok := ds.Lookup("investors", id)
	if !ok {
		return tool.Fail("Investor with id '%s' not found", id)
	}
	data, ok := rules.Obj(args, "investor_data")
	if !ok {
		return tool.Fail("Missing required field: investor_data")
	}

	checks := append(rules.Pipeline{}, investorDataChecks...)
	checks = append(checks, rules.UniqueName("investors", "name", "Investor", id))
	if err := checks.Run(ds, data); err != nil {
		return tool.Fail("%s", err)
	}
	if err := investorLifecycle.GuardMutation(rec, "investor"); err != nil {
		return tool.Fail("%s", err)
	}
	if next, ok := data["status"].(string); ok {
		if err := investorLifecycle.GuardTransition(rec, next, "investor"); err != nil {
			return tool.Fail("%s", err)
		}
	}

	for k, v := range data {
		rec[k] = v
	}
	tool.StampUpdate(rec, now)
	audit.MustAppend(ds, now, audit.Entry{
		Who:        requester(args),
		EntityType: "investor",
		EntityID:   id,
		ActionType: "update",
		Summary:    fmt.Sprintf("Updated investor '%s'", id),
	})

	return tool.OK(map[string]any{"investor_id": id, "investor": rec})
}
