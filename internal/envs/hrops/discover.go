package hrops

import (
	"github.com/roach88/toolbench/internal/envs/discovery"
	"github.com/roach88/toolbench/internal/rules"
	"github.com/roach88/toolbench/internal/store"
	"github.com/roach88/toolbench/internal/tool"
)

// discoverUserEmployeeEntities serves both the users and employees tables
// behind one tool; env.yaml exposes per-table aliases with entity_type
// preset. Invalid entity_type keeps the bare "Error: ..." string this
// tool has always returned.
func discoverUserEmployeeEntities() *tool.Tool {
	return &tool.Tool{
		Descriptor: tool.Descriptor{
			Name:        "discover_user_employee_entities",
			Description: "Find users or employees matching the given field filters. Returns all records of the chosen entity type when no filters are given.",
			Parameters: tool.Params{
				"entity_type": {Type: "string", Description: "Which table to search", Enum: []any{"users", "employees"}},
				"filters":     {Type: "object", Description: "Field equality filters"},
			},
			Required: []string{"entity_type"},
		},
		Handler: func(ds store.Dataset, args map[string]any) string {
			if ds == nil {
				return tool.Fail("Store is not initialized")
			}
			if err := (rules.Pipeline{
				rules.AllowOnly("entity_type", "filters"),
				rules.Require("entity_type"),
			}).Run(ds, args); err != nil {
				return tool.Fail("%s", err)
			}

			table := rules.Str(args, "entity_type")
			if table != "users" && table != "employees" {
				return tool.LegacyError("Invalid entity_type '%s'. Must be one of: users, employees", table)
			}
			filters, ok := rules.Obj(args, "filters")
			if !ok && args["filters"] != nil {
				return tool.Fail("Field filters must be an object")
			}
			return discovery.Envelope(table, discovery.Find(ds, table, filters))
		},
	}
}
