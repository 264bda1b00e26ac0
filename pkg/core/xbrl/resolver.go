package xbrl

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultContextCount is the number of distinct period dates selected per query.
const DefaultContextCount = 2

// DefaultInstantKeywords mark queries that need point-in-time contexts.
var DefaultInstantKeywords = []string{"balance sheet", "goodwill"}

// Source records which index produced a statement's concept list.
type Source string

const (
	SourcePresentation Source = "presentation"
	SourceLabels       Source = "labels"
)

// Statement is the answer to one query: a header of context dates and one row per concept.
type Statement struct {
	ID         string   `json:"id"`
	Query      string   `json:"query"`
	Source     Source   `json:"source"`
	RoleURI    string   `json:"role_uri,omitempty"`
	ContextIDs []string `json:"context_ids"`
	Dates      []string `json:"dates"`
	Rows       []Row    `json:"rows"`
}

// Row is one line item.
type Row struct {
	Concept string  `json:"concept"`
	Label   string  `json:"label"`
	Values  []Value `json:"values"`
}

// HeaderLabel is the first header cell of every statement table.
const HeaderLabel = "Line Item"

// Header returns ["Line Item", <date>...].
func (s *Statement) Header() []string {
	return append([]string{HeaderLabel}, s.Dates...)
}

// ResolverOptions tunes context selection.
type ResolverOptions struct {
	ContextCount    int
	InstantKeywords []string
}

// Resolver answers free-text queries against the read-only indices of one filing.
// It holds no per-query state and is safe for concurrent use.
type Resolver struct {
	labels       *LabelIndex
	presentation *Presentation
	repo         *Repository
	scaler       *Scaler
	opts         ResolverOptions
	log          zerolog.Logger
}

// NewResolver wires the indices together. Zero options take the defaults.
func NewResolver(labels *LabelIndex, pres *Presentation, repo *Repository, scaler *Scaler, opts ResolverOptions, log zerolog.Logger) *Resolver {
	if opts.ContextCount <= 0 {
		opts.ContextCount = DefaultContextCount
	}
	if len(opts.InstantKeywords) == 0 {
		opts.InstantKeywords = DefaultInstantKeywords
	}
	if scaler == nil {
		scaler = NewScaler(ScaleMinusDecimals, DefaultPrecision)
	}
	return &Resolver{
		labels:       labels,
		presentation: pres,
		repo:         repo,
		scaler:       scaler,
		opts:         opts,
		log:          log.With().Str("component", "resolver").Logger(),
	}
}

// Labels exposes the label index.
func (r *Resolver) Labels() *LabelIndex { return r.labels }

// Presentation exposes the presentation hierarchy builder.
func (r *Resolver) Presentation() *Presentation { return r.presentation }

// Repository exposes the context and fact repository.
func (r *Resolver) Repository() *Repository { return r.repo }

// Resolve answers a query: statement concepts first, label search as fallback, then
// the most recent contexts of the query's period type, then scaled values.
func (r *Resolver) Resolve(query string) (*Statement, error) {
	stmt := &Statement{ID: uuid.NewString(), Query: query, Source: SourcePresentation}

	concepts := []string(nil)
	if role, ok := r.presentation.FindRole(query); ok {
		if h := r.presentation.Hierarchy(role.URI); h != nil {
			concepts = h.Concepts()
		}
		if len(concepts) > 0 {
			stmt.RoleURI = role.URI
			r.log.Debug().Str("query", query).Str("role", role.URI).Msg("matched statement role")
		}
	}
	if len(concepts) == 0 {
		r.log.Debug().Str("query", query).Msg("not a statement, searching labels")
		concepts = r.labels.FindByQuery(query)
		stmt.Source = SourceLabels
	}
	if len(concepts) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoConcepts, query)
	}

	contextIDs := r.SelectContexts(query, r.opts.ContextCount)
	if len(contextIDs) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoContexts, query)
	}
	stmt.ContextIDs = contextIDs
	stmt.Dates = r.repo.ContextDates(contextIDs)

	for _, fr := range r.repo.FactsFor(concepts, contextIDs) {
		row := Row{
			Concept: fr.Concept,
			Label:   r.labels.Label(fr.Concept),
			Values:  make([]Value, 0, len(fr.Facts)),
		}
		for _, f := range fr.Facts {
			row.Values = append(row.Values, r.scaler.Normalize(f))
		}
		stmt.Rows = append(stmt.Rows, row)
	}

	r.log.Info().
		Str("query", query).
		Str("source", string(stmt.Source)).
		Int("concepts", len(concepts)).
		Strs("contexts", contextIDs).
		Msg("query resolved")
	return stmt, nil
}

// PeriodTypeFor classifies a query: instant when it mentions an instant keyword,
// duration otherwise.
func (r *Resolver) PeriodTypeFor(query string) PeriodType {
	q := strings.ToLower(query)
	for _, kw := range r.opts.InstantKeywords {
		if strings.Contains(q, strings.ToLower(kw)) {
			return PeriodInstant
		}
	}
	return PeriodDuration
}

// SelectContexts picks up to n context ids of the query's period type, newest date
// first, keeping only the first context seen for each date.
func (r *Resolver) SelectContexts(query string, n int) []string {
	if n <= 0 {
		n = DefaultContextCount
	}
	want := r.PeriodTypeFor(query)

	var candidates []Context
	for _, c := range r.repo.Contexts() {
		if c.Type == want {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		r.log.Warn().Str("query", query).Str("type", string(want)).Msg("no contexts of required type")
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return dateAfter(candidates[i].Date, candidates[j].Date)
	})

	var out []string
	seen := make(map[string]bool)
	for _, c := range candidates {
		if seen[c.Date] {
			continue
		}
		seen[c.Date] = true
		out = append(out, c.ID)
		if len(out) >= n {
			break
		}
	}
	r.log.Debug().Str("query", query).Str("type", string(want)).Strs("contexts", out).Msg("contexts selected")
	return out
}

// dateAfter orders dates newest first. ISO-8601 dates sort the same lexically and
// temporally, so one lexical rule covers every value, well-formed or not.
func dateAfter(a, b string) bool {
	return a > b
}
