package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xbrl_statements/pkg/core/export"
	"xbrl_statements/pkg/core/metrics"
	"xbrl_statements/pkg/core/store"
	"xbrl_statements/pkg/core/xbrl"
	"xbrl_statements/pkg/core/xbrl/xbrltest"
)

// --- Mocks ---

type MockResolver struct {
	ResolveFunc func(query string) (*xbrl.Statement, error)
}

func (m *MockResolver) Resolve(query string) (*xbrl.Statement, error) {
	if m.ResolveFunc != nil {
		return m.ResolveFunc(query)
	}
	return &xbrl.Statement{Query: query, Rows: []xbrl.Row{{Concept: "c", Label: "C"}}}, nil
}

type MockWriter struct {
	mu       sync.Mutex
	Exported []string
	Err      error
}

func (m *MockWriter) Export(stmt *xbrl.Statement) ([]string, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Exported = append(m.Exported, stmt.Query)
	return []string{stmt.Query + ".csv"}, nil
}

type MockRepository struct {
	mu      sync.Mutex
	Saved   []string
	SaveErr error
}

func (m *MockRepository) Save(ctx context.Context, filing string, stmt *xbrl.Statement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Saved = append(m.Saved, filing+"/"+stmt.Query)
	return m.SaveErr
}

func (m *MockRepository) Load(ctx context.Context, filing, query string) (*store.StatementRecord, error) {
	return nil, nil
}

func (m *MockRepository) List(ctx context.Context, filing string) ([]store.StatementRecord, error) {
	return nil, nil
}

// --- Tests ---

func TestOrchestrator_Run(t *testing.T) {
	tests := []struct {
		name        string
		resolve     func(query string) (*xbrl.Statement, error)
		writerErr   error
		wantWritten int
		wantSkipped int
		wantErr     string
	}{
		{
			name:        "all resolved",
			wantWritten: 3,
		},
		{
			name: "structural absence is skipped",
			resolve: func(q string) (*xbrl.Statement, error) {
				switch q {
				case "cash flow":
					return nil, fmt.Errorf("%w: %q", xbrl.ErrNoConcepts, q)
				case "goodwill":
					return nil, fmt.Errorf("%w: %q", xbrl.ErrNoContexts, q)
				}
				return &xbrl.Statement{Query: q}, nil
			},
			wantWritten: 1,
			wantSkipped: 2,
		},
		{
			name: "unexpected resolver error aborts",
			resolve: func(q string) (*xbrl.Statement, error) {
				return nil, errors.New("index corrupted")
			},
			wantErr: "index corrupted",
		},
		{
			name:      "output failure aborts",
			writerErr: errors.New("disk full"),
			wantErr:   "disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewOrchestrator(&MockResolver{ResolveFunc: tt.resolve}, &MockWriter{Err: tt.writerErr}, zerolog.Nop())

			report, err := o.Run(context.Background(), "acme-20250331", []string{"balance sheet", "cash flow", "goodwill"})
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantWritten, report.Written)
			assert.Equal(t, tt.wantSkipped, report.Skipped)
			assert.Len(t, report.RunID, 36)
			assert.Equal(t, "balance sheet", report.Results[0].Query)
		})
	}
}

func TestOrchestrator_PersistsWrittenStatements(t *testing.T) {
	repo := &MockRepository{SaveErr: errors.New("db down")}
	o := NewOrchestrator(&MockResolver{}, &MockWriter{}, zerolog.Nop())
	o.SetRepository(repo)

	report, err := o.Run(context.Background(), "acme-20250331", []string{"balance sheet", "income statement"})
	require.NoError(t, err, "persistence failures are logged, not fatal")
	assert.Equal(t, 2, report.Written)
	assert.ElementsMatch(t, []string{"acme-20250331/balance sheet", "acme-20250331/income statement"}, repo.Saved)
}

func TestOrchestrator_ParallelKeepsQueryOrder(t *testing.T) {
	queries := []string{"q1", "q2", "q3", "q4", "q5", "q6"}
	writer := &MockWriter{}
	o := NewOrchestrator(&MockResolver{}, writer, zerolog.Nop())
	o.SetWorkers(4)

	report, err := o.Run(context.Background(), "f", queries)
	require.NoError(t, err)

	for i, q := range queries {
		assert.Equal(t, q, report.Results[i].Query)
		assert.Equal(t, []string{q + ".csv"}, report.Results[i].Files)
	}
	assert.ElementsMatch(t, queries, writer.Exported)
}

func TestOrchestrator_SameOutputNameRunsOnce(t *testing.T) {
	writer := &MockWriter{}
	o := NewOrchestrator(&MockResolver{}, writer, zerolog.Nop())
	o.SetWorkers(4)

	queries := []string{"Balance Sheet", "goodwill", "balance sheet", "Balance-Sheet!", "Goodwill"}
	report, err := o.Run(context.Background(), "f", queries)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"Balance Sheet", "goodwill", "Balance-Sheet!"}, writer.Exported)
	assert.Equal(t, 3, report.Written)
	assert.Equal(t, 2, report.Skipped)
	for _, i := range []int{2, 4} {
		assert.True(t, report.Results[i].Skipped, queries[i])
		assert.Contains(t, report.Results[i].Reason, "already used by query")
	}
	assert.Contains(t, report.Results[2].Reason, `"Balance Sheet"`)
	assert.False(t, report.Results[3].Skipped, "balancesheet is a different stem from balance_sheet")
}

func TestOrchestrator_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o := NewOrchestrator(&MockResolver{}, &MockWriter{}, zerolog.Nop())
	_, err := o.Run(ctx, "f", []string{"balance sheet"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOrchestrator_EndToEnd(t *testing.T) {
	root := t.TempDir()
	paths, err := xbrl.LocateFiling(xbrltest.WriteFiling(t, root))
	require.NoError(t, err)
	filing, err := xbrl.LoadFiling(paths, xbrl.LoadOptions{}, zerolog.Nop())
	require.NoError(t, err)

	outDir := filepath.Join(root, export.OutputDirName(paths.Instance))
	m := metrics.New(nil)
	vault := store.NewStatementVault(nil, filepath.Join(root, "vault"), zerolog.Nop())

	o := NewOrchestrator(filing, export.NewExporter(outDir, []export.Format{export.FormatCSV}, zerolog.Nop()), zerolog.Nop())
	o.SetRepository(vault)
	o.SetMetrics(m)
	o.SetWorkers(2)

	queries := []string{"income statement", "balance sheet", "earnings per share", "cash flow", "Goodwill"}
	report, err := o.Run(context.Background(), paths.Prefix(), queries)
	require.NoError(t, err)
	assert.Equal(t, 4, report.Written)
	assert.Equal(t, 1, report.Skipped)
	assert.True(t, report.Results[3].Skipped)

	assert.Equal(t, "financial_statements_ACME_20250331", filepath.Base(outDir))
	data, err := os.ReadFile(filepath.Join(outDir, "balance_sheet.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, "Line Item,2025-03-31,2024-12-31", lines[0])
	assert.Contains(t, lines, "Cash and cash equivalents,1234000,-500")
	assert.Contains(t, lines, "Total assets,100000000,9000")

	_, err = os.Stat(filepath.Join(outDir, "cash_flow.csv"))
	assert.True(t, os.IsNotExist(err))

	rec, err := vault.Load(context.Background(), "acme-20250331", "goodwill")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "350", rec.Statement.Rows[0].Values[0].String())

	assert.Equal(t, 4.0, testutil.ToFloat64(m.QueriesTotal.WithLabelValues(metrics.OutcomeResolved)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.QueriesTotal.WithLabelValues(metrics.OutcomeNoConcepts)))
}
