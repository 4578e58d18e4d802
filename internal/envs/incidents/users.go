package incidents

import (
	"fmt"

	"github.com/roach88/toolbench/internal/audit"
	"github.com/roach88/toolbench/internal/rules"
	"github.com/roach88/toolbench/internal/store"
	"github.com/roach88/toolbench/internal/tool"
)

var userDataChecks = rules.Pipeline{
	rules.AllowOnly("name", "email", "role", "status"),
	rules.StringField("name"),
	rules.StringField("email"),
	rules.Enum("role", "agent", "supervisor", "admin"),
	rules.Enum("status", "active", "suspended"),
}

func manageUsers(now string) *tool.Tool {
	return &tool.Tool{
		Descriptor: tool.Descriptor{
			Name:        "manage_users",
			Description: "Create or update support users. Emails are unique, case-insensitive.",
			Parameters: tool.Params{
				"action":       {Type: "string", Description: "Operation to perform", Enum: []any{"create", "update"}},
				"user_id":      {Type: "string", Description: "User id (required for update)"},
				"user_data":    {Type: "object", Description: "User fields: name, email, role, status"},
				"requester_id": {Type: "string", Description: "User id performing the operation"},
			},
			Required: []string{"action"},
		},
		Handler: func(ds store.Dataset, args map[string]any) string {
			if ds == nil {
				return tool.Fail("Store is not initialized")
			}
			if err := (rules.Pipeline{
				rules.AllowOnly("action", "user_id", "user_data", "requester_id"),
				rules.Require("action"),
			}).Run(ds, args); err != nil {
				return tool.Fail("%s", err)
			}

			switch rules.Str(args, "action") {
			case "create":
				return createUser(ds, now, args)
			case "update":
				return updateUser(ds, now, args)
			default:
				return tool.Fail("Invalid action '%s'. Must be one of: create, update", rules.Str(args, "action"))
			}
		},
	}
}

func createUser(ds store.Dataset, now string, args map[string]any) string {
	data, ok := rules.Obj(args, "user_data")
	if !ok {
		return tool.Fail("Missing required field: user_data")
	}

	checks := append(rules.Pipeline{rules.Require("name", "email", "role")}, userDataChecks...)
	checks = append(checks, rules.UniqueName("users", "email", "User", ""))
	if err := checks.Run(ds, data); err != nil {
		return tool.Fail("%s", err)
	}

	rec := store.Record{
		"name":   data["name"],
		"email":  data["email"],
		"role":   data["role"],
		"status": "active",
	}
	if s, ok := data["status"].(string); ok {
		rec["status"] = s
	}
	tool.StampCreate(rec, now)

	id := ds.FreshID("users")
	ds.Insert("users", id, rec)
	audit.MustAppend(ds, now, audit.Entry{
		Who:        requester(args),
		EntityType: "user",
		EntityID:   id,
		ActionType: "create",
		Summary:    fmt.Sprintf("Created user '%v'", data["email"]),
	})

	return tool.OK(map[string]any{"user_id": id, "user": rec})
}

func updateUser(ds store.Dataset, now string, args map[string]any) string {
	id := rules.Str(args, "user_id")
	if id == "" {
		return tool.Fail("Missing required field: user_id")
	}
	rec, ok := ds.Lookup("users", id)
	if !ok {
		return tool.Fail("User with id '%s' not found", id)
	}
	data, ok := rules.Obj(args, "user_data")
	if !ok {
		return tool.Fail("Missing required field: user_data")
	}

	checks := append(rules.Pipeline{}, userDataChecks...)
	checks = append(checks, rules.UniqueName("users", "email", "User", id))
	if err := checks.Run(ds, data); err != nil {
		return tool.Fail("%s", err)
	}

	for k, v := range data {
		rec[k] = v
	}
	tool.StampUpdate(rec, now)
	audit.MustAppend(ds, now, audit.Entry{
		Who:        requester(args),
		EntityType: "user",
		EntityID:   id,
		ActionType: "update",
		Summary:    fmt.Sprintf("Updated user '%s'", id),
	})

	return tool.OK(map[string]any{"user_id": id, "user": rec})
}
