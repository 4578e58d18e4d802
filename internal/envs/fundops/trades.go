package fundops

import (
	"fmt"

	"github.com/roach88/toolbench/internal/audit"
	"github.com/roach88/toolbench/internal/rules"
	"github.com/roach88/toolbench/internal/store"
	"github.com/roach88/toolbench/internal/tool"
)

// executeTrade is directly authorized for traders (no approvals rows
// needed), but additionally demands the fund_manager_approval boolean
// claim - the flag is trusted, not cross-checked, per this tool's
// contract.
func executeTrade(now string) *tool.Tool {
	return &tool.Tool{
		Descriptor: tool.Descriptor{
			Name:        "execute_trade",
			Description: "Execute a trade for a fund. The requester must hold the trader role; fund_manager_approval must be asserted.",
			Parameters: tool.Params{
				"fund_id":               {Type: "string", Description: "Fund the trade belongs to"},
				"instrument":            {Type: "string", Description: "Instrument identifier (e.g. ticker)"},
				"side":                  {Type: "string", Description: "Trade side", Enum: []any{"buy", "sell"}},
				"quantity":              {Type: "number", Description: "Quantity, must be positive"},
				"price":                 {Type: "number", Description: "Execution price, must be positive"},
				"fund_manager_approval": {Type: "boolean", Description: "Fund manager approval claim"},
				"requester_id":          {Type: "string", Description: "User id executing the trade"},
			},
			Required: []string{"fund_id", "instrument", "side", "quantity", "price", "requester_id"},
		},
		Handler: func(ds store.Dataset, args map[string]any) string {
			if ds == nil {
				return tool.Fail("Store is not initialized")
			}
			if err := (rules.Pipeline{
				rules.AllowOnly("fund_id", "instrument", "side", "quantity", "price", "fund_manager_approval", "requester_id"),
				rules.Require("fund_id", "instrument", "side", "quantity", "price", "requester_id"),
				rules.Enum("side", "buy", "sell"),
				rules.Positive("quantity", "Trade quantity"),
				rules.Positive("price", "Trade price"),
				rules.Ref("fund_id", "funds", "Fund"),
			}).Run(ds, args); err != nil {
				return tool.Fail("%s", err)
			}

			res := Policy.Lookup(ds, "trade_execution", rules.Str(args, "requester_id"))
			if !res.ApprovalValid {
				return tool.Fail("%s", res.Error)
			}
			if !rules.Bool(args, "fund_manager_approval") {
				return tool.Fail("Trade execution requires fund_manager_approval")
			}

			rec := store.Record{
				"fund_id":    args["fund_id"],
				"instrument": args["instrument"],
				"side":       args["side"],
				"quantity":   args["quantity"],
				"price":      args["price"],
				"trader_id":  args["requester_id"],
				"status":     "executed",
			}
			tool.StampCreate(rec, now)

			id := ds.FreshID("trades")
			ds.Insert("trades", id, rec)
			audit.MustAppend(ds, now, audit.Entry{
				Who:        requester(args),
				EntityType: "trade",
				EntityID:   id,
				ActionType: "execute",
				Summary:    fmt.Sprintf("Executed %v %v of '%v' for fund '%v'", args["side"], args["quantity"], args["instrument"], args["fund_id"]),
			})

			return tool.OK(map[string]any{"trade_id": id, "trade": rec})
		},
	}
}
