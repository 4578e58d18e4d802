package incidents

import (
	"fmt"

	"github.com/roach88/toolbench/internal/audit"
	"github.com/roach88/toolbench/internal/rules"
	"github.com/roach88/toolbench/internal/store"
	"github.com/roach88/toolbench/internal/tool"
)

var workOrderDataChecks = rules.Pipeline{
	rules.AllowOnly("incident_id", "description", "assigned_to", "cost", "status", "completion_pct"),
	rules.StringField("description"),
	rules.NonNegative("cost", "Work order cost"),
	rules.Percent("completion_pct", "Completion percentage"),
	rules.Enum("status", workOrderLifecycle.States()...),
	rules.Ref("incident_id", "incidents", "Incident"),
	rules.Ref("assigned_to", "users", "User"),
}

func manageWorkOrders(now string) *tool.Tool {
	return &tool.Tool{
		Descriptor: tool.Descriptor{
			Name:        "manage_work_orders",
			Description: "Create or update remediation work orders attached to incidents. Work orders move pending -> in_progress -> completed; completed work orders cannot be modified.",
			Parameters: tool.Params{
				"action":          {Type: "string", Description: "Operation to perform", Enum: []any{"create", "update"}},
				"work_order_id":   {Type: "string", Description: "Work order id (required for update)"},
				"work_order_data": {Type: "object", Description: "Work order fields: incident_id, description, assigned_to, cost, status, completion_pct"},
				"requester_id":    {Type: "string", Description: "User id performing the operation"},
			},
			Required: []string{"action"},
		},
		Handler: func(ds store.Dataset, args map[string]any) string {
			if ds == nil {
				return tool.Fail("Store is not initialized")
			}
			if err := (rules.Pipeline{
				rules.AllowOnly("action", "work_order_id", "work_order_data", "requester_id"),
				rules.Require("action"),
			}).Run(ds, args); err != nil {
				return tool.Fail("%s", err)
			}

			switch rules.Str(args, "action") {
			case "create":
				return createWorkOrder(ds, now, args)
			case "update":
				return updateWorkOrder(ds, now, args)
			default:
				return tool.Fail("Invalid action '%s'. Must be one of: create, update", rules.Str(args, "action"))
			}
		},
	}
}

func createWorkOrder(ds store.Dataset, now string, args map[string]any) string {
	data, ok := rules.Obj(args, "work_order_data")
	if !ok {
		return tool.Fail("Missing required field: work_order_data")
	}

	checks := append(rules.Pipeline{rules.Require("incident_id", "description")}, workOrderDataChecks...)
	if err := checks.Run(ds, data); err != nil {
		return tool.Fail("%s", err)
	}

	rec := store.Record{
		"incident_id": data["incident_id"],
		"description": data["description"],
		"status":      "pending",
	}
	for _, optional := range []string{"assigned_to", "cost", "completion_pct"} {
		if v, ok := data[optional]; ok {
			rec[optional] = v
		}
	}
	tool.StampCreate(rec, now)

	id := ds.FreshID("work_orders")
	ds.Insert("work_orders", id, rec)
	audit.MustAppend(ds, now, audit.Entry{
		Who:        requester(args),
		EntityType: "work_order",
		EntityID:   id,
		ActionType: "create",
		Summary:    fmt.Sprintf("Created work order for incident '%v'", data["incident_id"]),
	})

	return tool.OK(map[string]any{"work_order_id": id, "work_order": rec})
}

func updateWorkOrder(ds store.Dataset, now string, args map[string]any) string {
	id := rules.Str(args, "work_order_id")
	if id == "" {
		return tool.Fail("Missing required field: work_order_id")
	}
	rec, ok := ds.Lookup("work_orders", id)
	if !ok {
		return tool.Fail("Work order with id '%s' not found", id)
	}
	data, ok := rules.Obj(args, "work_order_data")
	if !ok {
		return tool.Fail("Missing required field: work_order_data")
	}

	if err := workOrderDataChecks.Run(ds, data); err != nil {
		return tool.Fail("%s", err)
	}
	if err := workOrderLifecycle.GuardMutation(rec, "work order"); err != nil {
		return tool.Fail("%s", err)
	}
	if next, ok := data["status"].(string); ok {
		if err := workOrderLifecycle.GuardTransition(rec, next, "work order"); err != nil {
			return tool.Fail("%s", err)
		}
	}

	for k, v := range data {
		rec[k] = v
	}
	tool.StampUpdate(rec, now)
	audit.MustAppend(ds, now, audit.Entry{
		Who:        requester(args),
		EntityType: "work_order",
		EntityID:   id,
		ActionType: "update",
		Summary:    fmt.Sprintf("Updated work order '%s'", id),
	})

	return tool.OK(map[string]any{"work_order_id": id, "work_order": rec})
}
