package fundops

import (
	"fmt"

	"github.com/roach88/toolbench/internal/audit"
	"github.com/roach88/toolbench/internal/rules"
	"github.com/roach88/toolbench/internal/store"
	"github.com/roach88/toolbench/internal/tool"
)

// managePayments records payments against invoices. Payment processing is
// verified against the approvals table via the payment_processing action
// (finance_officer or fund_manager approval).
func managePayments(now string) *tool.Tool {
	return &tool.Tool{
		Descriptor: tool.Descriptor{
			Name:        "manage_payments",
			Description: "Record payments against invoices and settle them. Requires payment_processing approval (finance_officer or fund_manager) verified against the approvals table. A completed payment marks its invoice paid.",
			Parameters: tool.Params{
				"action":       {Type: "string", Description: "Operation to perform", Enum: []any{"create", "complete", "fail"}},
				"payment_id":   {Type: "string", Description: "Payment id (required for complete and fail)"},
				"payment_data": {Type: "object", Description: "Payment fields for create: invoice_id, amount, payment_date, method"},
				"requester_id": {Type: "string", Description: "User id requesting the operation"},
			},
			Required: []string{"action", "requester_id"},
		},
		Handler: func(ds store.Dataset, args map[string]any) string {
			if ds == nil {
				return tool.Fail("Store is not initialized")
			}
			if err := (rules.Pipeline{
				rules.AllowOnly("action", "payment_id", "payment_data", "requester_id"),
				rules.Require("action", "requester_id"),
			}).Run(ds, args); err != nil {
				return tool.Fail("%s", err)
			}

			res := Policy.Lookup(ds, "payment_processing", rules.Str(args, "requester_id"))
			if !res.ApprovalValid {
				return tool.Fail("%s", res.Error)
			}

			switch rules.Str(args, "action") {
			case "create":
				return createPayment(ds, now, args)
			case "complete":
				return settlePayment(ds, now, args, "completed")
			case "fail":
				return settlePayment(ds, now, args, "failed")
			default:
				return tool.Fail("Invalid action '%s'. Must be one of: create, complete, fail", rules.Str(args, "action"))
			}
		},
	}
}

func createPayment(ds store.Dataset, now string, args map[string]any) string {
	data, ok := rules.Obj(args, "payment_data")
	if !ok {
		return tool.Fail("Missing required field: payment_data")
	}

	if err := (rules.Pipeline{
		rules.AllowOnly("invoice_id", "amount", "payment_date", "method"),
		rules.Require("invoice_id", "amount", "payment_date"),
		rules.Positive("amount", "Payment amount"),
		rules.Date("payment_date"),
		rules.Enum("method", "wire", "ach", "check"),
		rules.Ref("invoice_id", "invoices", "Invoice"),
	}).Run(ds, data); err != nil {
		return tool.Fail("%s", err)
	}

	invoiceID := rules.RefID(data["invoice_id"])
	invoice, _ := ds.Lookup("invoices", invoiceID)
	if err := invoiceLifecycle.GuardMutation(invoice, "invoice"); err != nil {
		return tool.Fail("%s", err)
	}

	rec := store.Record{
		"invoice_id":   data["invoice_id"],
		"amount":       data["amount"],
		"payment_date": data["payment_date"],
		"status":       "pending",
	}
	if v, ok := data["method"]; ok {
		rec["method"] = v
	}
	tool.StampCreate(rec, now)

	id := ds.FreshID("payments")
	ds.Insert("payments", id, rec)
	audit.MustAppend(ds, now, audit.Entry{
		Who:        requester(args),
		EntityType: "payment",
		EntityID:   id,
		ActionType: "create",
		Summary:    fmt.Sprintf("Created payment for invoice '%v'", data["invoice_id"]),
	})

	return tool.OK(map[string]any{"payment_id": id, "payment": rec})
}

// settlePayment flips a pending payment to completed or failed. Completing
// a payment marks its invoice paid in the same tool call.
func settlePayment(ds store.Dataset, now string, args map[string]any, to string) string {
	id := rules.Str(args, "payment_id")
	if id == "" {
		return tool.Fail("Missing required field: payment_id")
	}
	rec, ok := ds.Lookup("payments", id)
	if !ok {
		return tool.Fail("Payment with id '%s' not found", id)
	}

	if err := paymentLifecycle.GuardMutation(rec, "payment"); err != nil {
		return tool.Fail("%s", err)
	}
	if err := paymentLifecycle.GuardTransition(rec, to, "payment"); err != nil {
		return tool.Fail("%s", err)
	}

	invoiceID := rules.RefID(rec["invoice_id"])
	invoice, invoiceExists := ds.Lookup("invoices", invoiceID)
	if to == "completed" {
		if !invoiceExists {
			return tool.Fail("Invoice with id '%s' not found", invoiceID)
		}
		if err := invoiceLifecycle.GuardMutation(invoice, "invoice"); err != nil {
			return tool.Fail("%s", err)
		}
	}

	rec["status"] = to
	tool.StampUpdate(rec, now)
	if to == "completed" {
		invoice["status"] = "paid"
		tool.StampUpdate(invoice, now)
	}
	audit.MustAppend(ds, now, audit.Entry{
		Who:        requester(args),
		EntityType: "payment",
		EntityID:   id,
		ActionType: to,
		Summary:    fmt.Sprintf("Payment '%s' %s", id, to),
	})

	return tool.OK(map[string]any{"payment_id": id, "payment": rec})
}
