package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/toolbench/internal/store"
)

func TestRequire(t *testing.T) {
	check := Require("name", "email")

	assert.NoError(t, check(nil, map[string]any{"name": "a", "email": "b"}))

	err := check(nil, map[string]any{"name": "a"})
	require.Error(t, err)
	assert.Equal(t, "Missing required field: email", err.Error())

	// Explicit null counts as absent.
	err = check(nil, map[string]any{"name": nil, "email": "b"})
	require.Error(t, err)
	assert.Equal(t, "Missing required field: name", err.Error())
}

func TestAllowOnly(t *testing.T) {
	check := AllowOnly("name", "status")

	assert.NoError(t, check(nil, map[string]any{"name": "a"}))

	err := check(nil, map[string]any{"name": "a", "bogus": 1, "extra": 2})
	require.Error(t, err)
	assert.Equal(t, "Unknown field(s): bogus, extra", err.Error())
}

func TestEnum(t *testing.T) {
	check := Enum("status", "active", "inactive")

	assert.NoError(t, check(nil, map[string]any{"status": "active"}))
	assert.NoError(t, check(nil, map[string]any{})) // absent passes

	err := check(nil, map[string]any{"status": "archived"})
	require.Error(t, err)
	assert.Equal(t, "Invalid status 'archived'. Must be one of: active, inactive", err.Error())
}

func TestNumericChecks(t *testing.T) {
	pos := Positive("amount", "Subscription amount")
	assert.NoError(t, pos(nil, map[string]any{"amount": 10.0}))

	err := pos(nil, map[string]any{"amount": -5.0})
	require.Error(t, err)
	assert.Equal(t, "Subscription amount must be positive", err.Error())

	err = pos(nil, map[string]any{"amount": 0.0})
	require.Error(t, err)

	err = pos(nil, map[string]any{"amount": "ten"})
	require.Error(t, err)
	assert.Equal(t, "Subscription amount must be a number", err.Error())

	pct := Percent("completion_pct", "Completion percentage")
	assert.NoError(t, pct(nil, map[string]any{"completion_pct": 100.0}))
	err = pct(nil, map[string]any{"completion_pct": 101.0})
	require.Error(t, err)
	assert.Equal(t, "Completion percentage must be between 0 and 100", err.Error())
}

func TestDateAndOrdered(t *testing.T) {
	assert.NoError(t, Date("d")(nil, map[string]any{"d": "2025-09-30"}))

	err := Date("d")(nil, map[string]any{"d": "30/09/2025"})
	require.Error(t, err)
	assert.Equal(t, "Invalid date '30/09/2025' for d. Expected format: YYYY-MM-DD", err.Error())

	ord := Ordered("start_date", "end_date")
	assert.NoError(t, ord(nil, map[string]any{"start_date": "2025-10-01", "end_date": "2025-10-01"}))

	err = ord(nil, map[string]any{"start_date": "2025-10-05", "end_date": "2025-10-01"})
	require.Error(t, err)
	assert.Equal(t, "end_date must not be before start_date", err.Error())
}

func TestRef(t *testing.T) {
	ds := store.New()
	ds.Insert("funds", "7", store.Record{"name": "alpha"})

	check := Ref("fund_id", "funds", "Fund")
	assert.NoError(t, check(ds, map[string]any{"fund_id": "7"}))
	// Numeric ids resolve to their decimal-string key.
	assert.NoError(t, check(ds, map[string]any{"fund_id": 7.0}))

	err := check(ds, map[string]any{"fund_id": "8"})
	require.Error(t, err)
	assert.Equal(t, "Fund with id '8' not found", err.Error())
}

func TestUniqueName_CaseAndWhitespaceInsensitive(t *testing.T) {
	ds := store.New()
	ds.Insert("clients", "1", store.Record{"client_name": "Acme "})

	check := UniqueName("clients", "client_name", "Client", "")
	err := check(ds, map[string]any{"client_name": "  acme"})
	require.Error(t, err)
	assert.Equal(t, "Client with name 'acme' already exists", err.Error())

	// Updating the colliding record itself is allowed.
	self := UniqueName("clients", "client_name", "Client", "1")
	assert.NoError(t, self(ds, map[string]any{"client_name": "ACME"}))
}

func TestUniquePair(t *testing.T) {
	ds := store.New()
	ds.Insert("nav_records", "1", store.Record{"fund_id": "7", "nav_date": "2025-09-30"})

	check := UniquePair("nav_records", "fund_id", "nav_date", "NAV record", "")
	assert.NoError(t, check(ds, map[string]any{"fund_id": "7", "nav_date": "2025-10-01"}))

	err := check(ds, map[string]any{"fund_id": "7", "nav_date": "2025-09-30"})
	require.Error(t, err)
	assert.Equal(t, "NAV record for fund_id '7' and nav_date '2025-09-30' already exists", err.Error())

	// Numeric fund id matches its string key.
	err = check(ds, map[string]any{"fund_id": 7.0, "nav_date": "2025-09-30"})
	require.Error(t, err)
}

func TestPipeline_FirstFailureWins(t *testing.T) {
	p := Pipeline{
		Require("name"),
		Enum("status", "active"),
	}
	err := p.Run(nil, map[string]any{"status": "bogus"})
	require.Error(t, err)
	assert.Equal(t, "Missing required field: name", err.Error())
}
