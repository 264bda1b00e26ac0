package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"xbrl_statements/pkg/core/export"
	"xbrl_statements/pkg/core/metrics"
	"xbrl_statements/pkg/core/xbrl"
)

// StatementRepository persists resolved statements keyed by filing and query.
type StatementRepository interface {
	Save(ctx context.Context, filing string, stmt *xbrl.Statement) error
	Load(ctx context.Context, filing, query string) (*StatementRecord, error)
	List(ctx context.Context, filing string) ([]StatementRecord, error)
}

// StatementRecord is one stored statement.
type StatementRecord struct {
	ID        string          `json:"id"`
	Filing    string          `json:"filing"`
	Query     string          `json:"query"`
	RoleURI   string          `json:"role_uri,omitempty"`
	Source    xbrl.Source     `json:"source"`
	Statement *xbrl.Statement `json:"statement"`
	SavedAt   time.Time       `json:"saved_at"`
}

// StatementVault stores statements in a hybrid vault: Postgres (primary) plus
// a JSON file tree (fallback/local). With a pool, reads come from the database
// only; writes go to the database and, when a directory is configured, to files too.
type StatementVault struct {
	pool    *pgxpool.Pool
	fileDir string
	metrics *metrics.Metrics
	log     zerolog.Logger
}

// NewStatementVault creates a vault. If pool is nil and dir is empty, files go
// under .cache/statements.
func NewStatementVault(pool *pgxpool.Pool, dir string, log zerolog.Logger) *StatementVault {
	if pool == nil && dir == "" {
		dir = filepath.Join(".cache", "statements")
	}
	log = log.With().Str("component", "store").Logger()
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Warn().Err(err).Str("dir", dir).Msg("statement vault dir unavailable")
		}
	}
	return &StatementVault{pool: pool, fileDir: dir, log: log}
}

// SetMetrics attaches store operation counters.
func (v *StatementVault) SetMetrics(m *metrics.Metrics) {
	v.metrics = m
}

// normalizeQuery is the key form of a query: trimmed, lower-cased, single spaced.
func normalizeQuery(q string) string {
	return strings.Join(strings.Fields(strings.ToLower(q)), " ")
}

// Save upserts stmt under (filing, query).
func (v *StatementVault) Save(ctx context.Context, filing string, stmt *xbrl.Statement) error {
	rec := StatementRecord{
		ID:        stmt.ID,
		Filing:    filing,
		Query:     normalizeQuery(stmt.Query),
		RoleURI:   stmt.RoleURI,
		Source:    stmt.Source,
		Statement: stmt,
		SavedAt:   time.Now().UTC(),
	}
	if _, err := uuid.Parse(rec.ID); err != nil {
		rec.ID = uuid.NewString()
	}

	// 1. Save to DB
	if v.pool != nil {
		err := v.saveDB(ctx, rec)
		v.metrics.ObserveStore("postgres", err)
		if err != nil {
			return err
		}
	}

	// 2. Save to File (always if configured)
	if v.fileDir != "" {
		err := v.saveFile(rec)
		v.metrics.ObserveStore("file", err)
		if err != nil {
			return err
		}
	}

	v.log.Debug().Str("filing", filing).Str("query", rec.Query).Msg("statement saved")
	return nil
}

func (v *StatementVault) saveDB(ctx context.Context, rec StatementRecord) error {
	data, err := json.Marshal(rec.Statement)
	if err != nil {
		return fmt.Errorf("failed to marshal statement: %w", err)
	}
	query := `
		INSERT INTO xbrl_statements (id, filing, query, role_uri, source, data, saved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (filing, query)
		DO UPDATE SET
			id = EXCLUDED.id,
			role_uri = EXCLUDED.role_uri,
			source = EXCLUDED.source,
			data = EXCLUDED.data,
			saved_at = EXCLUDED.saved_at
	`
	_, err = v.pool.Exec(ctx, query, rec.ID, rec.Filing, rec.Query, rec.RoleURI, string(rec.Source), data, rec.SavedAt)
	if err != nil {
		return fmt.Errorf("failed to save statement to db: %w", err)
	}
	return nil
}

func (v *StatementVault) saveFile(rec StatementRecord) error {
	path := v.recordPath(rec.Filing, rec.Query)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create vault dir: %w", err)
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to save to file vault: %w", err)
	}
	return nil
}

// Load returns the stored statement for (filing, query), or nil on a miss.
func (v *StatementVault) Load(ctx context.Context, filing, query string) (*StatementRecord, error) {
	query = normalizeQuery(query)

	// 1. Try DB
	if v.pool != nil {
		var (
			rec  = StatementRecord{Filing: filing, Query: query}
			src  string
			data []byte
		)
		err := v.pool.QueryRow(ctx, `
			SELECT id::text, role_uri, source, data, saved_at
			FROM xbrl_statements
			WHERE filing = $1 AND query = $2
		`, filing, query).Scan(&rec.ID, &rec.RoleURI, &src, &data, &rec.SavedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load statement from db: %w", err)
		}
		rec.Source = xbrl.Source(src)
		if err := json.Unmarshal(data, &rec.Statement); err != nil {
			return nil, fmt.Errorf("failed to unmarshal db statement: %w", err)
		}
		return &rec, nil
	}

	// 2. Try File System
	if v.fileDir != "" {
		return v.loadFile(v.recordPath(filing, query))
	}
	return nil, nil
}

// List returns every statement stored for filing, ordered by query.
func (v *StatementVault) List(ctx context.Context, filing string) ([]StatementRecord, error) {
	if v.pool != nil {
		rows, err := v.pool.Query(ctx, `
			SELECT query FROM xbrl_statements WHERE filing = $1 ORDER BY query
		`, filing)
		if err != nil {
			return nil, fmt.Errorf("failed to list statements: %w", err)
		}
		queries, err := pgx.CollectRows(rows, pgx.RowTo[string])
		if err != nil {
			return nil, fmt.Errorf("failed to scan statements: %w", err)
		}
		return v.loadAll(ctx, filing, queries)
	}

	if v.fileDir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(v.filingDir(filing))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var out []StatementRecord
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		rec, err := v.loadFile(filepath.Join(v.filingDir(filing), e.Name()))
		if err != nil {
			v.log.Warn().Err(err).Str("file", e.Name()).Msg("skipping unreadable statement")
			continue
		}
		if rec != nil {
			out = append(out, *rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Query < out[j].Query })
	return out, nil
}

func (v *StatementVault) loadAll(ctx context.Context, filing string, queries []string) ([]StatementRecord, error) {
	out := make([]StatementRecord, 0, len(queries))
	for _, q := range queries {
		rec, err := v.Load(ctx, filing, q)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			out = append(out, *rec)
		}
	}
	return out, nil
}

// Internal File Helpers

func (v *StatementVault) filingDir(filing string) string {
	safe := strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(filing)
	return filepath.Join(v.fileDir, safe)
}

func (v *StatementVault) recordPath(filing, query string) string {
	return filepath.Join(v.filingDir(filing), export.FileName(query, export.FormatJSON))
}

func (v *StatementVault) loadFile(path string) (*StatementRecord, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var rec StatementRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", filepath.Base(path), err)
	}
	return &rec, nil
}
