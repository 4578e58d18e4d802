package incidents

import (
	"fmt"

	"github.com/roach88/toolbench/internal/audit"
	"github.com/roach88/toolbench/internal/rules"
	"github.com/roach88/toolbench/internal/store"
	"github.com/roach88/toolbench/internal/tool"
)

var incidentDataChecks = rules.Pipeline{
	rules.AllowOnly("title", "description", "severity", "status", "client_id", "assigned_to"),
	rules.StringField("title"),
	rules.StringField("description"),
	rules.Enum("severity", "P1", "P2", "P3", "P4"),
	rules.Enum("status", incidentLifecycle.States()...),
	rules.Ref("client_id", "clients", "Client"),
	rules.Ref("assigned_to", "users", "User"),
}

// manageIncidents drives the open -> in_progress -> resolved -> closed
// lifecycle. A closed incident is immutable; a resolved incident may be
// reopened to in_progress.
func manageIncidents(now string) *tool.Tool {
	return &tool.Tool{
		Descriptor: tool.Descriptor{
			Name:        "manage_incidents",
			Description: "Create or update incidents. Incidents move open -> in_progress -> resolved -> closed; closed incidents cannot be modified.",
			Parameters: tool.Params{
				"action":        {Type: "string", Description: "Operation to perform", Enum: []any{"create", "update"}},
				"incident_id":   {Type: "string", Description: "Incident id (required for update)"},
				"incident_data": {Type: "object", Description: "Incident fields: title, description, severity, status, client_id, assigned_to"},
				"requester_id":  {Type: "string", Description: "User id performing the operation"},
			},
			Required: []string{"action"},
		},
		Handler: func(ds store.Dataset, args map[string]any) string {
			if ds == nil {
				return tool.Fail("Store is not initialized")
			}
			if err := (rules.Pipeline{
				rules.AllowOnly("action", "incident_id", "incident_data", "requester_id"),
				rules.Require("action"),
			}).Run(ds, args); err != nil {
				return tool.Fail("%s", err)
			}

			switch rules.Str(args, "action") {
			case "create":
				return createIncident(ds, now, args)
			case "update":
				return updateIncident(ds, now, args)
			default:
				return tool.Fail("Invalid action '%s'. Must be one of: create, update", rules.Str(args, "action"))
			}
		},
	}
}

func createIncident(ds store.Dataset, now string, args map[string]any) string {
	data, ok := rules.Obj(args, "incident_data")
	if !ok {
		return tool.Fail("Missing required field: incident_data")
	}

	checks := append(rules.Pipeline{rules.Require("title", "severity", "client_id")}, incidentDataChecks...)
	if err := checks.Run(ds, data); err != nil {
		return tool.Fail("%s", err)
	}

	rec := store.Record{
		"title":     data["title"],
		"severity":  data["severity"],
		"client_id": data["client_id"],
		"status":    "open",
	}
	for _, optional := range []string{"description", "assigned_to"} {
		if v, ok := data[optional]; ok {
			rec[optional] = v
		}
	}
	tool.StampCreate(rec, now)

	id := ds.FreshID("incidents")
	ds.Insert("incidents", id, rec)
	audit.MustAppend(ds, now, audit.Entry{
		Who:        requester(args),
		EntityType: "incident",
		EntityID:   id,
		ActionType: "create",
		Summary:    fmt.Sprintf("Opened %v incident '%v'", data["severity"], data["title"]),
	})

	return tool.OK(map[string]any{"incident_id": id, "incident": rec})
}

func updateIncident(ds store.Dataset, now string, args map[string]any) string {
	id := rules.Str(args, "incident_id")
	if id == "" {
		return tool.Fail("Missing required field: incident_id")
	}
	rec, ok := ds.Lookup("incidents", id)
	if !ok {
		return tool.Fail("Incident with id '%s' not found", id)
	}
	data, ok := rules.Obj(args, "incident_data")
	if !ok {
		return tool.Fail("Missing required field: incident_data")
	}

	if err := incidentDataChecks.Run(ds, data); err != nil {
		return tool.Fail("%s", err)
	}
	if err := incidentLifecycle.GuardMutation(rec, "incident"); err != nil {
		return tool.Fail("%s", err)
	}
	if next, ok := data["status"].(string); ok {
		if err := incidentLifecycle.GuardTransition(rec, next, "incident"); err != nil {
			return tool.Fail("%s", err)
		}
	}

	for k, v := range data {
		rec[k] = v
	}
	tool.StampUpdate(rec, now)
	audit.MustAppend(ds, now, audit.Entry{
		Who:        requester(args),
		EntityType: "incident",
		EntityID:   id,
		ActionType: "update",
		Summary:    fmt.Sprintf("Updated incident '%s'", id),
	})

	return tool.OK(map[string]any{"incident_id": id, "incident": rec})
}
