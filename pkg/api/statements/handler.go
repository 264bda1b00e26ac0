// Package statements provides HTTP API handlers answering statement queries against a loaded filing.
package statements

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"xbrl_statements/pkg/core/export"
	"xbrl_statements/pkg/core/metrics"
	"xbrl_statements/pkg/core/xbrl"
)

// Filing is the read-only view of a loaded filing the handler needs.
// *xbrl.Filing satisfies it.
type Filing interface {
	Resolve(query string) (*xbrl.Statement, error)
	Presentation() *xbrl.Presentation
}

// Handler holds dependencies for the statement endpoints
type Handler struct {
	filing  Filing
	name    string
	metrics *metrics.Metrics
	log     zerolog.Logger
}

// NewHandler creates a handler serving one filing. name identifies the filing in responses.
func NewHandler(filing Filing, name string, m *metrics.Metrics, log zerolog.Logger) *Handler {
	return &Handler{
		filing:  filing,
		name:    name,
		metrics: m,
		log:     log.With().Str("component", "api").Logger(),
	}
}

// Routes registers the endpoints on a new mux.
//
//	GET /api/statements?q=<query>[&format=json|csv|md|html]
//	GET /api/roles
//	GET /metrics (when metrics are configured)
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/statements", h.HandleStatement)
	mux.HandleFunc("/api/roles", h.HandleRoles)
	if h.metrics != nil {
		mux.Handle("/metrics", h.metrics.Handler())
	}
	return mux
}

// RolesResponse lists the statement roles of the filing.
type RolesResponse struct {
	Filing string      `json:"filing"`
	Roles  []xbrl.Role `json:"roles"`
}

type errorResponse struct {
	Error string `json:"error"`
	Query string `json:"query,omitempty"`
}

// HandleStatement handles GET /api/statements
func (h *Handler) HandleStatement(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing q parameter"})
		return
	}

	format := export.FormatJSON
	if f := r.URL.Query().Get("format"); f != "" {
		parsed, err := export.ParseFormat(f)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		format = parsed
	}

	start := time.Now()
	stmt, err := h.filing.Resolve(query)
	rows := 0
	if stmt != nil {
		rows = len(stmt.Rows)
	}
	h.metrics.ObserveQuery(err, rows, time.Since(start))

	switch {
	case errors.Is(err, xbrl.ErrNoConcepts), errors.Is(err, xbrl.ErrNoContexts):
		h.log.Warn().Str("query", query).Err(err).Msg("statement not found")
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error(), Query: query})
		return
	case err != nil:
		h.log.Error().Str("query", query).Err(err).Msg("resolve failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error(), Query: query})
		return
	}

	w.Header().Set("Content-Type", contentType(format))
	w.WriteHeader(http.StatusOK)
	if err := export.Write(w, format, stmt); err != nil {
		h.log.Error().Str("query", query).Err(err).Msg("write response")
		return
	}
	h.log.Info().Str("query", query).Int("rows", rows).Str("format", string(format)).Msg("statement served")
}

// HandleRoles handles GET /api/roles
func (h *Handler) HandleRoles(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	roles := h.filing.Presentation().Roles()
	if roles == nil {
		roles = []xbrl.Role{}
	}
	writeJSON(w, http.StatusOK, RolesResponse{Filing: h.name, Roles: roles})
}

func setCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

func contentType(f export.Format) string {
	switch f {
	case export.FormatCSV:
		return "text/csv; charset=utf-8"
	case export.FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case export.FormatHTML:
		return "text/html; charset=utf-8"
	default:
		return "application/json"
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
