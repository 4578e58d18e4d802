package fundops

import (
	"fmt"

	"github.com/roach88/toolbench/internal/audit"
	"github.com/roach88/toolbench/internal/rules"
	"github.com/roach88/toolbench/internal/store"
	"github.com/roach88/toolbench/internal/tool"
)

// manageNAVRecord maintains one NAV record per (fund_id, nav_date).
// approval_code is accepted on input but filtered out on write - it
// authorizes the call, it is not part of the record.
func manageNAVRecord(now string) *tool.Tool {
	return &tool.Tool{
		Descriptor: tool.Descriptor{
			Name:        "manage_nav_record",
			Description: "Create or update fund NAV records. One record per (fund_id, nav_date); NAV values must be positive. approval_code authorizes the call and is not persisted.",
			Parameters: tool.Params{
				"action":        {Type: "string", Description: "Operation to perform", Enum: []any{"create", "update"}},
				"nav_id":        {Type: "string", Description: "NAV record id (required for update)"},
				"fund_id":       {Type: "string", Description: "Fund id (required for create)"},
				"nav_date":      {Type: "string", Description: "Valuation date, YYYY-MM-DD (required for create)"},
				"nav_value":     {Type: "number", Description: "Net asset value (required for create, must be positive)"},
				"approval_code": {Type: "string", Description: "Approval code authorizing the operation"},
				"nav_data":      {Type: "object", Description: "Fields to update: nav_value, approval_code"},
				"requester_id":  {Type: "string", Description: "User id performing the operation"},
			},
			Required: []string{"action"},
		},
		Handler: func(ds store.Dataset, args map[string]any) string {
			if ds == nil {
				return tool.Fail("Store is not initialized")
			}
			if err := (rules.Pipeline{
				rules.AllowOnly("action", "nav_id", "fund_id", "nav_date", "nav_value", "approval_code", "nav_data", "requester_id"),
				rules.Require("action"),
			}).Run(ds, args); err != nil {
				return tool.Fail("%s", err)
			}

			switch rules.Str(args, "action") {
			case "create":
				return createNAVRecord(ds, now, args)
			case "update":
				return updateNAVRecord(ds, now, args)
			default:
				return tool.Fail("Invalid action '%s'. Must be one of: create, update", rules.Str(args, "action"))
			}
		},
	}
}

func createNAVRecord(ds store.Dataset, now string, args map[string]any) string {
	if err := (rules.Pipeline{
		rules.Require("fund_id", "nav_date", "nav_value", "approval_code"),
		rules.Date("nav_date"),
		rules.Positive("nav_value", "NAV value"),
		rules.Ref("fund_id", "funds", "Fund"),
		rules.UniquePair("nav_records", "fund_id", "nav_date", "NAV record", ""),
	}).Run(ds, args); err != nil {
		return tool.Fail("%s", err)
	}

	// approval_code is deliberately not persisted.
	rec := store.Record{
		"fund_id":   args["fund_id"],
		"nav_date":  args["nav_date"],
		"nav_value": args["nav_value"],
	}
	tool.StampCreate(rec, now)

	id := ds.FreshID("nav_records")
	ds.Insert("nav_records", id, rec)
	audit.MustAppend(ds, now, audit.Entry{
		Who:        requester(args),
		EntityType: "nav_record",
		EntityID:   id,
		ActionType: "create",
		Summary:    fmt.Sprintf("Recorded NAV for fund '%v' on %v", args["fund_id"], args["nav_date"]),
	})

	return tool.OK(map[string]any{"nav_id": id, "nav_record": rec})
}

func updateNAVRecord(ds store.Dataset, now string, args map[string]any) string {
	id := rules.Str(args, "nav_id")
	if id == "" {
		return tool.Fail("Missing required field: nav_id")
	}
	rec, ok := ds.Lookup("nav_records", id)
	if !ok {
		return tool.Fail("NAV record with id '%s' not found", id)
	}
	data, ok := rules.Obj(args, "nav_data")
	if !ok {
		return tool.Fail("Missing required field: nav_data")
	}

	if err := (rules.Pipeline{
		rules.AllowOnly("nav_value", "approval_code"),
		rules.Require("nav_value", "approval_code"),
		rules.Positive("nav_value", "NAV value"),
	}).Run(ds, data); err != nil {
		return tool.Fail("%s", err)
	}

	rec["nav_value"] = data["nav_value"]
	tool.StampUpdate(rec, now)
	audit.MustAppend(ds, now, audit.Entry{
		Who:        requester(args),
		EntityType: "nav_record",
		EntityID:   id,
		ActionType: "update",
		Summary:    fmt.Sprintf("Updated NAV record '%s'", id),
	})

	return tool.OK(map[string]any{"nav_id": id, "nav_record": rec})
}
