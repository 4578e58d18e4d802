package fundops

import (
	"github.com/roach88/toolbench/internal/envs/discovery"
	"github.com/roach88/toolbench/internal/rules"
	"github.com/roach88/toolbench/internal/store"
	"github.com/roach88/toolbench/internal/tool"
)

func discoverFundEntities() *tool.Tool {
	return discoverTool("discover_fund_entities", "funds",
		"Find funds matching the given field filters. Returns all funds when no filters are given.")
}

func discoverInvestorEntities() *tool.Tool {
	return discoverTool("discover_investor_entities", "investors",
		"Find investors matching the given field filters. Returns all investors when no filters are given.")
}

func discoverTool(name, table, description string) *tool.Tool {
	return &tool.Tool{
		Descriptor: tool.Descriptor{
			Name:        name,
			Description: description,
			Parameters: tool.Params{
				"filters": {Type: "object", Description: "Field equality filters"},
			},
			Required: []string{},
		},
		Handler: func(ds store.Dataset, args map[string]any) string {
			if ds == nil {
				return tool.Fail("Store is not initialized")
			}
			if err := rules.AllowOnly("filters")(ds, args); err != nil {
				return tool.Fail("%s", err)
			}
			filters, ok := rules.Obj(args, "filters")
			if !ok && args["filters"] != nil {
				return tool.Fail("Field filters must be an object")
			}
			return discovery.Envelope(table, discovery.Find(ds, table, filters))
		},
	}
}
