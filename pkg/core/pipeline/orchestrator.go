package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"xbrl_statements/pkg/core/export"
	"xbrl_statements/pkg/core/metrics"
	"xbrl_statements/pkg/core/store"
	"xbrl_statements/pkg/core/xbrl"
)

// StatementResolver answers one free-text query against a loaded filing.
type StatementResolver interface {
	Resolve(query string) (*xbrl.Statement, error)
}

// StatementWriter writes a statement to its output files and returns their paths.
type StatementWriter interface {
	Export(stmt *xbrl.Statement) ([]string, error)
}

// QueryResult is the outcome of one query in a run.
type QueryResult struct {
	Query     string
	Statement *xbrl.Statement // nil when skipped
	Files     []string
	Skipped   bool
	Reason    string
}

// Report summarizes a run. Results are in query order.
type Report struct {
	RunID    string
	Filing   string
	Results  []QueryResult
	Written  int
	Skipped  int
	Duration time.Duration
}

// Orchestrator runs a list of queries against one filing:
// Resolve -> Export -> (optional) Store.
// Structural absence (no concepts, no contexts) skips the query and the run continues.
type Orchestrator struct {
	resolver StatementResolver
	writer   StatementWriter
	repo     store.StatementRepository
	metrics  *metrics.Metrics
	workers  int
	log      zerolog.Logger
}

// NewOrchestrator creates a sequential orchestrator with no persistence.
func NewOrchestrator(resolver StatementResolver, writer StatementWriter, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		resolver: resolver,
		writer:   writer,
		workers:  1,
		log:      log.With().Str("component", "pipeline").Logger(),
	}
}

// SetRepository enables persistence of every written statement.
func (o *Orchestrator) SetRepository(repo store.StatementRepository) {
	o.repo = repo
}

// SetMetrics attaches query metrics.
func (o *Orchestrator) SetMetrics(m *metrics.Metrics) {
	o.metrics = m
}

// SetWorkers sets how many queries are answered at once; values below 1 mean 1.
func (o *Orchestrator) SetWorkers(n int) {
	if n < 1 {
		n = 1
	}
	o.workers = n
}

// Run answers every query. filing keys persisted records. Only output and
// unexpected resolver errors abort the run.
func (o *Orchestrator) Run(ctx context.Context, filing string, queries []string) (*Report, error) {
	start := time.Now()
	report := &Report{
		RunID:   uuid.NewString(),
		Filing:  filing,
		Results: make([]QueryResult, len(queries)),
	}
	log := o.log.With().Str("run_id", report.RunID).Str("filing", filing).Logger()
	log.Info().Int("queries", len(queries)).Int("workers", o.workers).Msg("starting run")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	claimed := make(map[string]int, len(queries))
	for i, q := range queries {
		stem := export.Stem(q)
		if first, taken := claimed[stem]; taken {
			reason := fmt.Sprintf("output name %q already used by query %q", stem, queries[first])
			log.Warn().Str("query", q).Str("reason", reason).Msg("query skipped")
			report.Results[i] = QueryResult{Query: q, Skipped: true, Reason: reason}
			continue
		}
		claimed[stem] = i

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := o.runQuery(gctx, log, filing, q)
			if err != nil {
				return err
			}
			report.Results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, r := range report.Results {
		if r.Skipped {
			report.Skipped++
		} else {
			report.Written++
		}
	}
	report.Duration = time.Since(start)
	log.Info().
		Int("written", report.Written).
		Int("skipped", report.Skipped).
		Dur("duration", report.Duration).
		Msg("run complete")
	return report, nil
}

func (o *Orchestrator) runQuery(ctx context.Context, log zerolog.Logger, filing, query string) (QueryResult, error) {
	res := QueryResult{Query: query}
	log.Info().Str("query", query).Msg("processing query")

	began := time.Now()
	stmt, err := o.resolver.Resolve(query)
	rows := 0
	if stmt != nil {
		rows = len(stmt.Rows)
	}
	o.metrics.ObserveQuery(err, rows, time.Since(began))

	switch {
	case errors.Is(err, xbrl.ErrNoConcepts), errors.Is(err, xbrl.ErrNoContexts):
		log.Warn().Str("query", query).Str("reason", err.Error()).Msg("query skipped")
		res.Skipped = true
		res.Reason = err.Error()
		return res, nil
	case err != nil:
		return res, fmt.Errorf("resolve %q: %w", query, err)
	}
	res.Statement = stmt

	files, err := o.writer.Export(stmt)
	if err != nil {
		return res, fmt.Errorf("export %q: %w", query, err)
	}
	res.Files = files

	if o.repo != nil {
		if err := o.repo.Save(ctx, filing, stmt); err != nil {
			log.Warn().Err(err).Str("query", query).Msg("failed to persist statement, continuing")
		}
	}
	return res, nil
}
