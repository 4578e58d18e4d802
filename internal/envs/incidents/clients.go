package incidents

import (
	"fmt"

	"github.com/roach88/toolbench/internal/audit"
	"github.com/roach88/toolbench/internal/rules"
	"github.com/roach88/toolbench/internal/store"
	"github.com/roach88/toolbench/internal/tool"
)

var clientDataChecks = rules.Pipeline{
	rules.AllowOnly("client_name", "client_type", "status", "contact_email"),
	rules.StringField("client_name"),
	rules.StringField("contact_email"),
	rules.Enum("client_type", "enterprise", "mid_market", "small_business"),
	rules.Enum("status", "active", "inactive"),
}

// manageClients creates and updates client accounts. Client names are a
// natural key: uniqueness is case-insensitive and ignores surrounding
// whitespace, so "Acme " and "acme" are the same client.
func manageClients(now string) *tool.Tool {
	return &tool.Tool{
		Descriptor: tool.Descriptor{
			Name:        "manage_clients",
			Description: "Create or update client accounts. Client names are unique, case-insensitive and whitespace-trimmed.",
			Parameters: tool.Params{
				"action":       {Type: "string", Description: "Operation to perform", Enum: []any{"create", "update"}},
				"client_id":    {Type: "string", Description: "Client id (required for update)"},
				"client_data":  {Type: "object", Description: "Client fields: client_name, client_type, status, contact_email"},
				"requester_id": {Type: "string", Description: "User id performing the operation"},
			},
			Required: []string{"action"},
		},
		Handler: func(ds store.Dataset, args map[string]any) string {
			if ds == nil {
				return tool.Fail("Store is not initialized")
			}
			if err := (rules.Pipeline{
				rules.AllowOnly("action", "client_id", "client_data", "requester_id"),
				rules.Require("action"),
			}).Run(ds, args); err != nil {
				return tool.Fail("%s", err)
			}

			switch rules.Str(args, "action") {
			case "create":
				return createClient(ds, now, args)
			case "update":
				return updateClient(ds, now, args)
			default:
				return tool.Fail("Invalid action '%s'. Must be one of: create, update", rules.Str(args, "action"))
			}
		},
	}
}

func createClient(ds store.Dataset, now string, args map[string]any) string {
	data, ok := rules.Obj(args, "client_data")
	if !ok {
		return tool.Fail("Missing required field: client_data")
	}

	checks := append(rules.Pipeline{rules.Require("client_name", "client_type")}, clientDataChecks...)
	checks = append(checks, rules.UniqueName("clients", "client_name", "Client", ""))
	if err := checks.Run(ds, data); err != nil {
		return tool.Fail("%s", err)
	}

	rec := store.Record{
		"client_name": data["client_name"],
		"client_type": data["client_type"],
		"status":      "active",
	}
	for _, optional := range []string{"status", "contact_email"} {
		if v, ok := data[optional]; ok {
			rec[optional] = v
		}
	}
	tool.StampCreate(rec, now)

	id := ds.FreshID("clients")
	ds.Insert("clients", id, rec)
	audit.MustAppend(ds, now, audit.Entry{
		Who:        requester(args),
		EntityType: "client",
		EntityID:   id,
		ActionType: "create",
		Summary:    fmt.Sprintf("Created client '%v'", data["client_name"]),
	})

	return tool.OK(map[string]any{"client_id": id, "client": rec})
}

func updateClient(ds store.Dataset, now string, args map[string]any) string {
	id := rules.Str(args, "client_id")
	if id == "" {
		return tool.Fail("Missing required field: client_id")
	}
	rec, ok := ds.Lookup("clients", id)
	if !ok {
		return tool.Fail("Client with id '%s' not found", id)
	}
	data, ok := rules.Obj(args, "client_data")
	if !ok {
		return tool.Fail("Missing required field: client_data")
	}

	checks := append(rules.Pipeline{}, clientDataChecks...)
	checks = append(checks, rules.UniqueName("clients", "client_name", "Client", id))
	if err := checks.Run(ds, data); err != nil {
		return tool.Fail("%s", err)
	}

	for k, v := range data {
		rec[k] = v
	}
	tool.StampUpdate(rec, now)
	audit.MustAppend(ds, now, audit.Entry{
		Who:        requester(args),
		EntityType: "client",
		EntityID:   id,
		ActionType: "update",
		Summary:    fmt.Sprintf("Updated client '%s'", id),
	})

	return tool.OK(map[string]any{"client_id": id, "client": rec})
}
