package fundops

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/toolbench/internal/store"
	"github.com/roach88/toolbench/internal/tool"
)

const testNow = "2025-10-01T12:00:00"

func getTool(t *testing.T, name string) *tool.Tool {
	t.Helper()
	for _, tl := range Catalogue(testNow) {
		if tl.Descriptor.Name == name {
			return tl
		}
	}
	t.Fatalf("tool %q not in catalogue", name)
	return nil
}

func seed() store.Dataset {
	ds := store.New()
	ds.Insert("users", "1", store.Record{"name": "Dana", "role": "fund_manager"})
	ds.Insert("users", "3", store.Record{"name": "Marcus", "role": "finance_officer"})
	ds.Insert("users", "4", store.Record{"name": "Lena", "role": "trader"})
	ds.Insert("users", "5", store.Record{"name": "Tom", "role": "analyst"})
	ds.Insert("investors", "1", store.Record{"name": "Halvorsen Family Office", "status": "active"})
	ds.Insert("funds", "1", store.Record{
		"name": "Meridian Global Macro", "fund_type": "hedge",
		"base_currency": "USD", "manager_id": "1", "status": "open",
	})
	return ds
}

func grant(ds store.Dataset, action, requesterID, byRole string) {
	ds.Insert("approvals", ds.FreshID("approvals"), store.Record{
		"code":             action + "_" + requesterID,
		"requester_id":     requesterID,
		"approved_by_role": byRole,
	})
}

func call(t *testing.T, tl *tool.Tool, ds store.Dataset, args map[string]any) map[string]any {
	t.Helper()
	out := tl.Invoke(ds, args)
	var env map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &env), "raw output: %s", out)
	return env
}

func TestManageFunds_ApprovalGate(t *testing.T) {
	ds := seed()
	funds := getTool(t, "manage_funds")

	// Nobody has approved: the missing roles are named.
	env := call(t, funds, ds, map[string]any{
		"action": "create", "requester_id": "5",
		"fund_data": map[string]any{"name": "Atlas", "fund_type": "hedge", "base_currency": "USD"},
	})
	assert.Equal(t, false, env["success"])
	assert.Equal(t, "Requires additional approvals from roles: compliance_officer, fund_manager", env["error"])
	assert.Equal(t, 1, ds.Len("funds"))

	grant(ds, "fund_management_setup", "5", "fund_manager")
	grant(ds, "fund_management_setup", "5", "compliance_officer")
	env = call(t, funds, ds, map[string]any{
		"action": "create", "requester_id": "5",
		"fund_data": map[string]any{"name": "Atlas", "fund_type": "hedge", "base_currency": "USD"},
	})
	assert.Equal(t, true, env["success"])
	assert.Equal(t, "2", env["fund_id"])

	fund := env["fund"].(map[string]any)
	assert.Equal(t, "Atlas", fund["name"])
	assert.Equal(t, "open", fund["status"])
	assert.Equal(t, testNow, fund["created_at"])
	assert.Equal(t, 1, ds.Len("audit_trail"))
}

func TestManageFunds_DuplicateNameAndClosedFund(t *testing.T) {
	ds := seed()
	grant(ds, "fund_management_setup", "5", "fund_manager")
	grant(ds, "fund_management_setup", "5", "compliance_officer")
	funds := getTool(t, "manage_funds")

	env := call(t, funds, ds, map[string]any{
		"action": "create", "requester_id": "5",
		"fund_data": map[string]any{"name": "  meridian global macro ", "fund_type": "hedge", "base_currency": "USD"},
	})
	assert.Equal(t, "Fund with name 'meridian global macro' already exists", env["error"])

	env = call(t, funds, ds, map[string]any{
		"action": "update", "requester_id": "5", "fund_id": "1",
		"fund_data": map[string]any{"status": "closed"},
	})
	require.Equal(t, true, env["success"])

	env = call(t, funds, ds, map[string]any{
		"action": "update", "requester_id": "5", "fund_id": "1",
		"fund_data": map[string]any{"size": float64(1000)},
	})
	assert.Equal(t, "Cannot modify closed fund", env["error"])
}

func TestManageNAVRecord_PerFundPerDate(t *testing.T) {
	ds := seed()
	nav := getTool(t, "manage_nav_record")

	env := call(t, nav, ds, map[string]any{
		"action": "create", "fund_id": "1", "nav_date": "2025-09-30",
		"nav_value": 1.2345, "approval_code": "nav_management_3",
	})
	require.Equal(t, true, env["success"])
	assert.Equal(t, "1", env["nav_id"])

	// approval_code authorizes the call but is never written.
	rec, ok := ds.Lookup("nav_records", "1")
	require.True(t, ok)
	assert.NotContains(t, rec, "approval_code")
	assert.Equal(t, 1.2345, rec["nav_value"])

	env = call(t, nav, ds, map[string]any{
		"action": "create", "fund_id": "1", "nav_date": "2025-09-30",
		"nav_value": 1.3, "approval_code": "nav_management_3",
	})
	assert.Equal(t, "NAV record for fund_id '1' and nav_date '2025-09-30' already exists", env["error"])

	env = call(t, nav, ds, map[string]any{
		"action": "update", "nav_id": "1",
		"nav_data": map[string]any{"nav_value": float64(-5), "approval_code": "nav_management_3"},
	})
	assert.Equal(t, "NAV value must be positive", env["error"])
}

func TestManageSubscriptions_Lifecycle(t *testing.T) {
	ds := seed()
	subs := getTool(t, "manage_subscriptions")

	env := call(t, subs, ds, map[string]any{
		"action": "create", "investor_id": "1", "fund_id": "1", "amount": float64(250000),
	})
	require.Equal(t, true, env["success"])
	sub := env["subscription"].(map[string]any)
	assert.Equal(t, "pending", sub["status"])

	// Same (investor, fund) pair twice is rejected.
	env = call(t, subs, ds, map[string]any{
		"action": "create", "investor_id": "1", "fund_id": "1", "amount": float64(1),
	})
	assert.Equal(t, "Subscription for investor_id '1' and fund_id '1' already exists", env["error"])

	// Approving demands the claim flag.
	env = call(t, subs, ds, map[string]any{"action": "approve", "subscription_id": "1"})
	assert.Equal(t, "Approving a subscription requires compliance_officer_approval", env["error"])

	env = call(t, subs, ds, map[string]any{
		"action": "approve", "subscription_id": "1", "compliance_officer_approval": true,
	})
	require.Equal(t, true, env["success"])

	env = call(t, subs, ds, map[string]any{"action": "cancel", "subscription_id": "1"})
	require.Equal(t, true, env["success"])

	// Cancelled is terminal.
	env = call(t, subs, ds, map[string]any{
		"action": "approve", "subscription_id": "1", "compliance_officer_approval": true,
	})
	assert.Equal(t, "Cannot modify cancelled subscription", env["error"])
}

func TestManageInvoices_PaidIsTerminal(t *testing.T) {
	ds := seed()
	invoices := getTool(t, "manage_invoices")

	env := call(t, invoices, ds, map[string]any{
		"action": "create",
		"invoice_data": map[string]any{
			"investor_id": "1", "amount": float64(5000), "due_date": "2025-10-15",
		},
	})
	require.Equal(t, true, env["success"])
	assert.Equal(t, "issued", env["invoice"].(map[string]any)["status"])

	env = call(t, invoices, ds, map[string]any{
		"action": "update", "invoice_id": "1",
		"invoice_data": map[string]any{"status": "paid"},
	})
	require.Equal(t, true, env["success"])

	env = call(t, invoices, ds, map[string]any{
		"action": "update", "invoice_id": "1",
		"invoice_data": map[string]any{"amount": float64(1)},
	})
	assert.Equal(t, "Cannot modify paid invoice", env["error"])
}

func TestApprovalLookup_BareEnvelope(t *testing.T) {
	ds := seed()
	lookup := getTool(t, "approval_lookup")

	env := call(t, lookup, ds, map[string]any{"action": "trade_execution", "requester_id": "4"})
	assert.Equal(t, true, env["approval_valid"])
	assert.Equal(t, []any{"trader"}, env["approved_by"])
	assert.NotContains(t, env, "success")

	env = call(t, lookup, ds, map[string]any{"action": "fund_management_setup", "requester_id": "5"})
	assert.Equal(t, false, env["approval_valid"])
	assert.Equal(t, "Requires additional approvals from roles: compliance_officer, fund_manager", env["error"])
}

func TestExecuteTrade(t *testing.T) {
	ds := seed()
	trade := getTool(t, "execute_trade")
	base := map[string]any{
		"fund_id": "1", "instrument": "ESZ5", "side": "buy",
		"quantity": float64(10), "price": float64(5031.25),
	}

	args := map[string]any{"requester_id": "5"}
	for k, v := range base {
		args[k] = v
	}
	env := call(t, trade, ds, args)
	assert.Equal(t, "Role 'analyst' is not authorized for action 'trade_execution'", env["error"])

	args["requester_id"] = "4"
	env = call(t, trade, ds, args)
	assert.Equal(t, "Trade execution requires fund_manager_approval", env["error"])

	args["fund_manager_approval"] = true
	env = call(t, trade, ds, args)
	require.Equal(t, true, env["success"])
	rec := env["trade"].(map[string]any)
	assert.Equal(t, "executed", rec["status"])
	assert.Equal(t, "4", rec["trader_id"])
}

func TestTools_RejectUnknownArguments(t *testing.T) {
	ds := seed()
	subs := getTool(t, "manage_subscriptions")

	env := call(t, subs, ds, map[string]any{"action": "create", "bogus": 1, "zz": 2})
	assert.Equal(t, false, env["success"])
	assert.Equal(t, "Unknown field(s): bogus, zz", env["error"])
}
