package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xbrl_statements/pkg/core/metrics"
	"xbrl_statements/pkg/core/xbrl"
)

func testStatement(query string, values ...string) *xbrl.Statement {
	s := xbrl.NewScaler(xbrl.ScaleMinusDecimals, 0)
	row := xbrl.Row{Concept: "us-gaap_Assets", Label: "Total assets"}
	for _, v := range values {
		row.Values = append(row.Values, s.Normalize(xbrl.Fact{Text: v}))
	}
	return &xbrl.Statement{
		ID:         "4c1f4f1e-8a5b-4a55-9a36-0d3f1c2b7e10",
		Query:      query,
		Source:     xbrl.SourcePresentation,
		RoleURI:    "http://acme.com/role/BalanceSheets",
		ContextIDs: []string{"c-1", "c-2"},
		Dates:      []string{"2025-03-31", "2024-12-31"},
		Rows:       []xbrl.Row{row},
	}
}

func TestStatementVault_FileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	v := NewStatementVault(nil, dir, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, v.Save(ctx, "acme-20250331", testStatement("Balance Sheet", "9000", "N/A")))

	_, err := os.Stat(filepath.Join(dir, "acme-20250331", "balance_sheet.json"))
	require.NoError(t, err)

	rec, err := v.Load(ctx, "acme-20250331", "  BALANCE   sheet ")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "balance sheet", rec.Query)
	assert.Equal(t, "4c1f4f1e-8a5b-4a55-9a36-0d3f1c2b7e10", rec.ID)
	assert.Equal(t, xbrl.SourcePresentation, rec.Source)
	require.Len(t, rec.Statement.Rows, 1)
	assert.Equal(t, "9000", rec.Statement.Rows[0].Values[0].String())
	assert.Equal(t, xbrl.KindText, rec.Statement.Rows[0].Values[1].Kind)
}

func TestStatementVault_Upsert(t *testing.T) {
	v := NewStatementVault(nil, t.TempDir(), zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, v.Save(ctx, "acme-20250331", testStatement("balance sheet", "1")))
	require.NoError(t, v.Save(ctx, "acme-20250331", testStatement("Balance Sheet", "2")))

	recs, err := v.List(ctx, "acme-20250331")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "2", recs[0].Statement.Rows[0].Values[0].String())
}

func TestStatementVault_ListOrdersByQuery(t *testing.T) {
	v := NewStatementVault(nil, t.TempDir(), zerolog.Nop())
	ctx := context.Background()

	for _, q := range []string{"income statement", "balance sheet", "goodwill"} {
		require.NoError(t, v.Save(ctx, "acme-20250331", testStatement(q, "1")))
	}
	require.NoError(t, v.Save(ctx, "other-20250331", testStatement("cash flow", "1")))

	recs, err := v.List(ctx, "acme-20250331")
	require.NoError(t, err)

	var queries []string
	for _, r := range recs {
		queries = append(queries, r.Query)
	}
	assert.Equal(t, []string{"balance sheet", "goodwill", "income statement"}, queries)
}

func TestStatementVault_Miss(t *testing.T) {
	v := NewStatementVault(nil, t.TempDir(), zerolog.Nop())

	rec, err := v.Load(context.Background(), "acme-20250331", "balance sheet")
	require.NoError(t, err)
	assert.Nil(t, rec)

	recs, err := v.List(context.Background(), "nothing-here")
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestStatementVault_AssignsIDWhenMissing(t *testing.T) {
	v := NewStatementVault(nil, t.TempDir(), zerolog.Nop())
	ctx := context.Background()

	stmt := testStatement("goodwill", "350")
	stmt.ID = ""
	require.NoError(t, v.Save(ctx, "acme-20250331", stmt))

	rec, err := v.Load(ctx, "acme-20250331", "goodwill")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Len(t, rec.ID, 36)
}

func TestStatementVault_Metrics(t *testing.T) {
	m := metrics.New(nil)
	v := NewStatementVault(nil, t.TempDir(), zerolog.Nop())
	v.SetMetrics(m)

	require.NoError(t, v.Save(context.Background(), "acme-20250331", testStatement("goodwill", "350")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreOperations.WithLabelValues("file", "ok")))
}

func TestInitDB_RequiresURL(t *testing.T) {
	// once.Do makes InitDB single-shot; only the empty URL path is safe to exercise here.
	err := InitDB(context.Background(), "")
	assert.Error(t, err)
	assert.Nil(t, GetPool())
}
