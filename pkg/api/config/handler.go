// Package config exposes the effective runtime configuration over HTTP.
package config

import (
	"encoding/json"
	"net/http"

	coreConfig "xbrl_statements/pkg/core/config"
)

// Response is the public view of the configuration. Connection strings are never exposed.
type Response struct {
	Queries         []string `json:"queries"`
	Formats         []string `json:"formats"`
	ContextCount    int      `json:"context_count"`
	InstantKeywords []string `json:"instant_keywords"`
	Convention      string   `json:"scaling_convention"`
	Precision       uint32   `json:"scaling_precision"`
	Workers         int      `json:"workers"`
	Persistence     string   `json:"persistence"` // "postgres" or "files"
}

// Handler holds dependencies for config endpoints
type Handler struct {
	cfg *coreConfig.Config
}

// NewHandler creates a new config handler
func NewHandler(cfg *coreConfig.Config) *Handler {
	return &Handler{cfg: cfg}
}

// HandleConfig handles GET /api/config
func (h *Handler) HandleConfig(w http.ResponseWriter, r *http.Request) {
	// Add CORS headers for local dev
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	persistence := "files"
	if h.cfg.DatabaseURL != "" {
		persistence = "postgres"
	}
	resp := Response{
		Queries:         h.cfg.Queries,
		Formats:         h.cfg.Formats,
		ContextCount:    h.cfg.ContextCount,
		InstantKeywords: h.cfg.InstantKeywords,
		Convention:      h.cfg.Scaling.Convention,
		Precision:       h.cfg.Scaling.Precision,
		Workers:         h.cfg.Workers,
		Persistence:     persistence,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
