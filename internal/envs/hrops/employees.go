package hrops

import (
	"fmt"

	"github.com/roach88/toolbench/internal/audit"
	"github.com/roach88/toolbench/internal/rules"
	"github.com/roach88/toolbench/internal/store"
	"github.com/roach88/toolbench/internal/tool"
)

var employeeDataChecks = rules.Pipeline{
	rules.AllowOnly("name", "email", "department_id", "position", "salary", "status", "hire_date"),
	rules.StringField("name"),
	rules.StringField("email"),
	rules.StringField("position"),
	rules.Positive("salary", "Salary"),
	rules.Date("hire_date"),
	rules.Enum("status", "active", "on_leave", "terminated"),
	rules.Ref("department_id", "departments", "Department"),
}

// manageEmployees returns the bare-record envelope on success: the stored
// employee as the top-level object. This is the legacy shape this tool has
// always had; its task scripts assert on it.
func manageEmployees(now string) *tool.Tool {
	return &tool.Tool{
		Descriptor: tool.Descriptor{
			Name:        "manage_employees",
			Description: "Create or update employee records. Emails are unique, case-insensitive. Returns the employee record on success.",
			Parameters: tool.Params{
				"action":        {Type: "string", Description: "Operation to perform", Enum: []any{"create", "update"}},
				"employee_id":   {Type: "string", Description: "Employee id (required for update)"},
				"employee_data": {Type: "object", Description: "Employee fields: name, email, department_id, position, salary, status, hire_date"},
				"requester_id":  {Type: "string", Description: "User id performing the operation"},
			},
			Required: []string{"action"},
		},
		Handler: func(ds store.Dataset, args map[string]any) string {
			if ds == nil {
				return tool.Fail("Store is not initialized")
			}
			if err := (rules.Pipeline{
				rules.AllowOnly("action", "employee_id", "employee_data", "requester_id"),
				rules.Require("action"),
			}).Run(ds, args); err != nil {
				return tool.Fail("%s", err)
			}

			switch rules.Str(args, "action") {
			case "create":
				return createEmployee(ds, now, args)
			case "update":
				return updateEmployee(ds, now, args)
			default:
				return tool.Fail("Invalid action '%s'. Must be one of: create, update", rules.Str(args, "action"))
			}
		},
	}
}

func createEmployee(ds store.Dataset, now string, args map[string]any) string {
	data, ok := rules.Obj(args, "employee_data")
	if !ok {
		return tool.Fail("Missing required field: employee_data")
	}

	checks := append(rules.Pipeline{rules.Require("name", "email")}, employeeDataChecks...)
	checks = append(checks, rules.UniqueName("employees", "email", "Employee", ""))
	if err := checks.Run(ds, data); err != nil {
		return tool.Fail("%s", err)
	}

	rec := store.Record{
		"name":   data["name"],
		"email":  data["email"],
		"status": "active",
	}
	for _, optional := range []string{"department_id", "position", "salary", "status", "hire_date"} {
		if v, ok := data[optional]; ok {
			rec[optional] = v
		}
	}
	tool.StampCreate(rec, now)

	id := ds.FreshID("employees")
	ds.Insert("employees", id, rec)
	audit.MustAppend(ds, now, audit.Entry{
		Who:        requester(args),
		EntityType: "employee",
		EntityID:   id,
		ActionType: "create",
		Summary:    fmt.Sprintf("Created employee '%v'", data["email"]),
	})

	out := store.Record{"employee_id": id}
	for k, v := range rec {
		out[k] = v
	}
	return tool.Record(out)
}

func updateEmployee(ds store.Dataset, now string, args map[string]any) string {
	id := rules.Str(args, "employee_id")
	if id == "" {
		return tool.Fail("Missing required field: employee_id")
	}
	rec, ok := ds.Lookup("employees", id)
	if !ok {
		return tool.Fail("Employee with id '%s' not found", id)
	}
	data, ok := rules.Obj(args, "employee_data")
	if !ok {
		return tool.Fail("Missing required field: employee_data")
	}

	checks := append(rules.Pipeline{}, employeeDataChecks...)
	checks = append(checks, rules.UniqueName("employees", "email", "Employee", id))
	if err := checks.Run(ds, data); err != nil {
		return tool.Fail("%s", err)
	}
	if status, _ := rec["status"].(string); status == "terminated" {
		return tool.Fail("Cannot modify terminated employee")
	}

	for k, v := range data {
		rec[k] = v
	}
	tool.StampUpdate(rec, now)
	audit.MustAppend(ds, now, audit.Entry{
		Who:        requester(args),
		EntityType: "employee",
		EntityID:   id,
		ActionType: "update",
		Summary:    fmt.Sprintf("Updated employee '%s'", id),
	})

	out := store.Record{"employee_id": id}
	for k, v := range rec {
		out[k] = v
	}
	return tool.Record(out)
}
