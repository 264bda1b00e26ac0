// Package edgar provides HTTP API handlers for downloading filings from SEC EDGAR.
package edgar

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"xbrl_statements/pkg/core/ingest"
)

// Fetcher downloads the XBRL documents of a company's latest filing.
// *ingest.Fetcher satisfies it.
type Fetcher interface {
	FetchLatest(ctx context.Context, ticker, form string) (*ingest.FetchResult, error)
}

// FetchRequest for the fetch endpoint
type FetchRequest struct {
	Ticker string `json:"ticker"`
	Form   string `json:"form"` // "10-K" or "10-Q"
}

// Handler holds dependencies for EDGAR endpoints
type Handler struct {
	fetcher Fetcher
	log     zerolog.Logger
}

// NewHandler creates a new EDGAR handler
func NewHandler(fetcher Fetcher, log zerolog.Logger) *Handler {
	return &Handler{
		fetcher: fetcher,
		log:     log.With().Str("component", "api").Logger(),
	}
}

// HandleFetch handles POST /api/edgar/fetch
// Returns the local paths of the downloaded instance, label and presentation documents.
func (h *Handler) HandleFetch(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req FetchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	req.Ticker = strings.TrimSpace(req.Ticker)
	if req.Ticker == "" {
		http.Error(w, "ticker is required", http.StatusBadRequest)
		return
	}
	if req.Form == "" {
		req.Form = "10-K"
	}

	res, err := h.fetcher.FetchLatest(r.Context(), req.Ticker, req.Form)
	if err != nil {
		h.log.Error().Err(err).Str("ticker", req.Ticker).Str("form", req.Form).Msg("fetch failed")
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}
