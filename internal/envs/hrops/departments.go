package hrops

import (
	"fmt"

	"github.com/roach88/toolbench/internal/audit"
	"github.com/roach88/toolbench/internal/rules"
	"github.com/roach88/toolbench/internal/store"
	"github.com/roach88/toolbench/internal/tool"
)

var departmentDataChecks = rules.Pipeline{
	rules.AllowOnly("name", "head_id", "budget"),
	rules.StringField("name"),
	rules.NonNegative("budget", "Department budget"),
	rules.Ref("head_id", "employees", "Employee"),
}

func manageDepartments(now string) *tool.Tool {
	return &tool.Tool{
		Descriptor: tool.Descriptor{
			Name:        "manage_departments",
			Description: "Create or update departments. Department names are unique, case-insensitive.",
			Parameters: tool.Params{
				"action":          {Type: "string", Description: "Operation to perform", Enum: []any{"create", "update"}},
				"department_id":   {Type: "string", Description: "Department id (required for update)"},
				"department_data": {Type: "object", Description: "Department fields: name, head_id, budget"},
				"requester_id":    {Type: "string", Description: "User id performing the operation"},
			},
			Required: []string{"action"},
		},
		Handler: func(ds store.Dataset, args map[string]any) string {
			if ds == nil {
				return tool.Fail("Store is not initialized")
			}
			if err := (rules.Pipeline{
				rules.AllowOnly("action", "department_id", "department_data", "requester_id"),
				rules.Require("action"),
			}).Run(ds, args); err != nil {
				return tool.Fail("%s", err)
			}

			switch rules.Str(args, "action") {
			case "create":
				return createDepartment(ds, now, args)
			case "update":
				return updateDepartment(ds, now, args)
			default:
				return tool.Fail("Invalid action '%s'. Must be one of: create, update", rules.Str(args, "action"))
			}
		},
	}
}

func createDepartment(ds store.Dataset, now string, args map[string]any) string {
	data, ok := rules.Obj(args, "department_data")
	if !ok {
		return tool.Fail("Missing required field: department_data")
	}

	checks := append(rules.Pipeline{rules.Require("name")}, departmentDataChecks...)
	checks = append(checks, rules.UniqueName("departments", "name", "Department", ""))
	if err := checks.Run(ds, data); err != nil {
		return tool.Fail("%s", err)
	}

	rec := store.Record{"name": data["name"]}
	for _, optional := range []string{"head_id", "budget"} {
		if v, ok := data[optional]; ok {
			rec[optional] = v
		}
	}
	tool.StampCreate(rec, now)

	id := ds.FreshID("departments")
	ds.Insert("departments", id, rec)
	audit.MustAppend(ds, now, audit.Entry{
		Who:        requester(args),
		EntityType: "department",
		EntityID:   id,
		ActionType: "create",
		Summary:    fmt.Sprintf("Created department '%v'", data["name"]),
	})

	return tool.OK(map[string]any{"department_id": id, "department": rec})
}

func updateDepartment(ds store.Dataset, now string, args map[string]any) string {
	id := rules.Str(args, "department_id")
	if id == "" {
		return tool.Fail("Missing required field: department_id")
	}
	rec, ok := ds.Lookup("departments", id)
	if !ok {
		return tool.Fail("Department with id '%s' not found", id)
	}
	data, ok := rules.Obj(args, "department_data")
	if !ok {
		return tool.Fail("Missing required field: department_data")
	}

	checks := append(rules.Pipeline{}, departmentDataChecks...)
	checks = append(checks, rules.UniqueName("departments", "name", "Department", id))
	if err := checks.Run(ds, data); err != nil {
		return tool.Fail("%s", err)
	}

	for k, v := range data {
		rec[k] = v
	}
	tool.StampUpdate(rec, now)
	audit.MustAppend(ds, now, audit.Entry{
		Who:        requester(args),
		EntityType: "department",
		EntityID:   id,
		ActionType: "update",
		Summary:    fmt.Sprintf("Updated department '%s'", id),
	})

	return tool.OK(map[string]any{"department_id": id, "department": rec})
}
