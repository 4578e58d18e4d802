package fundops

import (
	"encoding/json"

	"github.com/roach88/toolbench/internal/rules"
	"github.com/roach88/toolbench/internal/store"
	"github.com/roach88/toolbench/internal/tool"
)

// actionNames returns the declared action names for the descriptor enum.
func actionNames() []any {
	names := make([]any, 0, len(Policy.Actions))
	for name := range Policy.Actions {
		names = append(names, name)
	}
	return names
}

// approvalLookup resolves whether a requester may perform an action. The
// envelope is the bare authz result: {"approval_valid": ..., ...}.
func approvalLookup() *tool.Tool {
	return &tool.Tool{
		Descriptor: tool.Descriptor{
			Name:        "approval_lookup",
			Description: "Check whether the requester is authorized for an action, resolving direct role grants and approval rows in the approvals table.",
			Parameters: tool.Params{
				"action":       {Type: "string", Description: "Action name to check", Enum: actionNames()},
				"requester_id": {Type: "string", Description: "User id requesting the action"},
			},
			Required: []string{"action", "requester_id"},
		},
		Handler: func(ds store.Dataset, args map[string]any) string {
			if ds == nil {
				return tool.Fail("Store is not initialized")
			}
			if err := (rules.Pipeline{
				rules.AllowOnly("action", "requester_id"),
				rules.Require("action", "requester_id"),
			}).Run(ds, args); err != nil {
				return tool.Fail("%s", err)
			}

			res := Policy.Lookup(ds, rules.Str(args, "action"), rules.Str(args, "requester_id"))
			data, err := json.Marshal(res)
			if err != nil {
				return tool.Fail("Failed to encode approval result: %v", err)
			}
			return string(data)
		},
	}
}
