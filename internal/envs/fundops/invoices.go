package fundops

import (
	"fmt"

	"github.com/roach88/toolbench/internal/audit"
	"github.com/roach88/toolbench/internal/rules"
	"github.com/roach88/toolbench/internal/store"
	"github.com/roach88/toolbench/internal/tool"
)

var invoiceDataChecks = rules.Pipeline{
	rules.AllowOnly("investor_id", "fund_id", "amount", "currency", "due_date", "status"),
	rules.Positive("amount", "Invoice amount"),
	rules.Enum("currency", "USD", "EUR", "GBP"),
	rules.Date("due_date"),
	rules.Enum("status", "issued", "paid"),
	rules.Ref("investor_id", "investors", "Investor"),
	rules.Ref("fund_id", "funds", "Fund"),
}

// manageInvoices: invoices are issued, may be marked paid once, and a paid
// invoice is immutable.
func manageInvoices(now string) *tool.Tool {
	return &tool.Tool{
		Descriptor: tool.Descriptor{
			Name:        "manage_invoices",
			Description: "Create or update invoices. Invoices move issued -> paid; paid invoices cannot be modified.",
			Parameters: tool.Params{
				"action":       {Type: "string", Description: "Operation to perform", Enum: []any{"create", "update"}},
				"invoice_id":   {Type: "string", Description: "Invoice id (required for update)"},
				"invoice_data": {Type: "object", Description: "Invoice fields: investor_id, fund_id, amount, currency, due_date, status"},
				"requester_id": {Type: "string", Description: "User id performing the operation"},
			},
			Required: []string{"action"},
		},
		Handler: func(ds store.Dataset, args map[string]any) string {
			if ds == nil {
				return tool.Fail("Store is not initialized")
			}
			if err := (rules.Pipeline{
				rules.AllowOnly("action", "invoice_id", "invoice_data", "requester_id"),
				rules.Require("action"),
			}).Run(ds, args); err != nil {
				return tool.Fail("%s", err)
			}

			switch rules.Str(args, "action") {
			case "create":
				return createInvoice(ds, now, args)
			case "update":
				return updateInvoice(ds, now, args)
			default:
				return tool.Fail("Invalid action '%s'. Must be one of: create, update", rules.Str(args, "action"))
			}
		},
	}
}

func createInvoice(ds store.Dataset, now string, args map[string]any) string {
	data, ok := rules.Obj(args, "invoice_data")
	if !ok {
		return tool.Fail("Missing required field: invoice_data")
	}

	checks := append(rules.Pipeline{rules.Require("investor_id", "amount", "due_date")}, invoiceDataChecks...)
	if err := checks.Run(ds, data); err != nil {
		return tool.Fail("%s", err)
	}

	rec := store.Record{
		"investor_id": data["investor_id"],
		"amount":      data["amount"],
		"due_date":    data["due_date"],
		"status":      "issued",
	}
	for _, optional := range []string{"fund_id", "currency"} {
		if v, ok := data[optional]; ok {
			rec[optional] = v
		}
	}
	tool.StampCreate(rec, now)

	id := ds.FreshID("invoices")
	ds.Insert("invoices", id, rec)
	audit.MustAppend(ds, now, audit.Entry{
		Who:        requester(args),
		EntityType: "invoice",
		EntityID:   id,
		ActionType: "create",
		Summary:    fmt.Sprintf("Issued invoice for investor '%v'", data["investor_id"]),
	})

	return tool.OK(map[string]any{"invoice_id": id, "invoice": rec})
}

func updateInvoice(ds store.Dataset, now string, args map[string]any) string {
	id := rules.Str(args, "invoice_id")
	if id == "" {
		return tool.Fail("Missing required field: invoice_id")
	}
	rec, ok := ds.Lookup("invoices", id)
	if !ok {
		return tool.Fail("Invoice with id '%s' not found", id)
	}
	data, ok := rules.Obj(args, "invoice_data")
	if !ok {
		return tool.Fail("Missing required field: invoice_data")
	}

	if err := invoiceDataChecks.Run(ds, data); err != nil {
		return tool.Fail("%s", err)
	}
	if err := invoiceLifecycle.GuardMutation(rec, "invoice"); err != nil {
		return tool.Fail("%s", err)
	}
	if next, ok := data["status"].(string); ok {
		if err := invoiceLifecycle.GuardTransition(rec, next, "invoice"); err != nil {
			return tool.Fail("%s", err)
		}
	}

	for k, v := range data {
		rec[k] = v
	}
	tool.StampUpdate(rec, now)
	audit.MustAppend(ds, now, audit.Entry{
		Who:        requester(args),
		EntityType: "invoice",
		EntityID:   id,
		ActionType: "update",
		Summary:    fmt.Sprintf("Updated invoice '%s'", id),
	})

	return tool.OK(map[string]any{"invoice_id": id, "invoice": rec})
}
