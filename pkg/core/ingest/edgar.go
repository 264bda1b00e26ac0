// Package ingest provides SEC EDGAR API integration for fetching the XBRL documents of a filing.
// API Documentation: https://www.sec.gov/developer
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultUserAgent is sent when none is configured. SEC requires a contact address.
const DefaultUserAgent = "XBRLStatements/1.0 (contact@example.com)"

// Endpoints are the SEC URLs the client talks to. Tests point them at a local server.
type Endpoints struct {
	// Submissions is a format string taking the 10-digit CIK.
	Submissions string
	// Archives is the base of filing folders: <Archives>/<cik>/<accession-no-dashes>/.
	Archives string
	// Tickers is the ticker -> CIK mapping file.
	Tickers string
}

// DefaultEndpoints returns the live SEC endpoints.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Submissions: "https://data.sec.gov/submissions/CIK%s.json",
		Archives:    "https://www.sec.gov/Archives/edgar/data",
		Tickers:     "https://www.sec.gov/files/company_tickers.json",
	}
}

// =============================================================================
// SEC EDGAR DATA TYPES
// =============================================================================

// SECCompanyInfo represents the top-level company submission response.
type SECCompanyInfo struct {
	CIK     string     `json:"cik"`
	Name    string     `json:"name"`
	Tickers []string   `json:"tickers"`
	Filings SECFilings `json:"filings"`
}

// SECFilings contains recent and older filing lists.
type SECFilings struct {
	Recent SECRecentFilings `json:"recent"`
}

// SECRecentFilings holds arrays of filing attributes (parallel arrays).
type SECRecentFilings struct {
	AccessionNumber []string `json:"accessionNumber"` // e.g., "0000037996-24-000012"
	FilingDate      []string `json:"filingDate"`      // e.g., "2024-02-06"
	ReportDate      []string `json:"reportDate"`      // Fiscal period end
	Form            []string `json:"form"`            // "10-K", "10-Q", "8-K"
	PrimaryDocument []string `json:"primaryDocument"` // filename
}

// Filing represents a single SEC filing (denormalized from parallel arrays).
type Filing struct {
	CIK             string    `json:"cik"`
	AccessionNumber string    `json:"accession_number"`
	FilingDate      time.Time `json:"filing_date"`
	ReportDate      time.Time `json:"report_date"`
	FormType        string    `json:"form_type"`
	PrimaryDocument string    `json:"primary_document"`
}

// =============================================================================
// SEC EDGAR CLIENT
// =============================================================================

// EDGARClient handles SEC EDGAR API requests.
type EDGARClient struct {
	httpClient *http.Client
	userAgent  string
	endpoints  Endpoints
	log        zerolog.Logger

	tickerMu    sync.Mutex
	tickerCache map[string]string // ticker -> padded CIK
}

// NewEDGARClient creates a new SEC EDGAR API client.
func NewEDGARClient(userAgent string, log zerolog.Logger) *EDGARClient {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &EDGARClient{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		userAgent:  userAgent,
		endpoints:  DefaultEndpoints(),
		log:        log.With().Str("component", "ingest").Logger(),
	}
}

// SetEndpoints overrides the SEC URLs.
func (c *EDGARClient) SetEndpoints(e Endpoints) {
	c.endpoints = e
}

func (c *EDGARClient) fetchURL(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// SEC requires User-Agent header
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json, application/xml, text/xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("SEC request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("SEC returned status %d for %s", resp.StatusCode, url)
	}
	return io.ReadAll(resp.Body)
}

// LookupCIK resolves a ticker symbol to a 10-digit CIK using SEC's company_tickers.json.
// The mapping is fetched once and cached for the life of the client.
func (c *EDGARClient) LookupCIK(ctx context.Context, ticker string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(ticker))

	c.tickerMu.Lock()
	defer c.tickerMu.Unlock()

	if c.tickerCache == nil {
		if err := c.loadTickerCache(ctx); err != nil {
			return "", err
		}
	}
	if cik, ok := c.tickerCache[normalized]; ok {
		return cik, nil
	}
	return "", fmt.Errorf("ticker %s not found in SEC database", ticker)
}

// loadTickerCache fetches the full ticker list.
// Format: {"0": {"cik_str": 320193, "ticker": "AAPL", "title": "Apple Inc."}, ...}
func (c *EDGARClient) loadTickerCache(ctx context.Context) error {
	body, err := c.fetchURL(ctx, c.endpoints.Tickers)
	if err != nil {
		return fmt.Errorf("failed to fetch company tickers: %w", err)
	}

	var mapping map[string]struct {
		CIK    int    `json:"cik_str"`
		Ticker string `json:"ticker"`
		Title  string `json:"title"`
	}
	if err := json.Unmarshal(body, &mapping); err != nil {
		return fmt.Errorf("failed to parse ticker mapping: %w", err)
	}

	cache := make(map[string]string, len(mapping))
	for _, entry := range mapping {
		cache[strings.ToUpper(entry.Ticker)] = fmt.Sprintf("%010d", entry.CIK)
	}
	c.tickerCache = cache
	c.log.Debug().Int("tickers", len(cache)).Msg("loaded ticker map")
	return nil
}

// FetchCompanyInfo retrieves company submission data from SEC EDGAR.
// CIK is zero-padded to 10 digits when needed.
func (c *EDGARClient) FetchCompanyInfo(ctx context.Context, cik string) (*SECCompanyInfo, error) {
	body, err := c.fetchURL(ctx, fmt.Sprintf(c.endpoints.Submissions, padCIK(cik)))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch submissions: %w", err)
	}

	var info SECCompanyInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("failed to parse SEC response: %w", err)
	}
	if info.CIK == "" {
		info.CIK = padCIK(cik)
	}
	return &info, nil
}

// GetFilings extracts filings filtered by form type, newest first as SEC lists them.
//
// formTypes: "10-K", "10-Q", etc. Pass nil for all types.
// limit: Maximum number of filings to return (0 = no limit).
func (c *EDGARClient) GetFilings(info *SECCompanyInfo, formTypes []string, limit int) []Filing {
	recent := info.Filings.Recent
	filings := make([]Filing, 0)

	formTypeSet := make(map[string]bool)
	for _, ft := range formTypes {
		formTypeSet[strings.ToUpper(ft)] = true
	}

	for i := range recent.AccessionNumber {
		form := at(recent.Form, i)
		if len(formTypes) > 0 && !formTypeSet[strings.ToUpper(form)] {
			continue
		}

		filingDate, _ := time.Parse(time.DateOnly, at(recent.FilingDate, i))
		reportDate, _ := time.Parse(time.DateOnly, at(recent.ReportDate, i))

		filings = append(filings, Filing{
			CIK:             padCIK(info.CIK),
			AccessionNumber: recent.AccessionNumber[i],
			FilingDate:      filingDate,
			ReportDate:      reportDate,
			FormType:        form,
			PrimaryDocument: at(recent.PrimaryDocument, i),
		})

		if limit > 0 && len(filings) >= limit {
			break
		}
	}
	return filings
}

// LatestFiling returns the most recently filed filing of the given form type.
func (c *EDGARClient) LatestFiling(ctx context.Context, cik, form string) (*Filing, error) {
	info, err := c.FetchCompanyInfo(ctx, cik)
	if err != nil {
		return nil, err
	}

	var latest *Filing
	for _, f := range c.GetFilings(info, []string{form}, 0) {
		if latest == nil || f.FilingDate.After(latest.FilingDate) {
			latest = &f
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("no %s filings found for CIK %s", form, cik)
	}
	return latest, nil
}

// filingFolderURL is <Archives>/<cik without padding>/<accession without dashes>.
func (c *EDGARClient) filingFolderURL(cik, accession string) string {
	trimmed := strings.TrimLeft(cik, "0")
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(c.endpoints.Archives, "/"), trimmed, strings.ReplaceAll(accession, "-", ""))
}

func padCIK(cik string) string {
	// Remove leading zeros first, then pad to 10 digits
	cik = strings.TrimLeft(strings.TrimSpace(cik), "0")
	if len(cik) >= 10 {
		return cik
	}
	return strings.Repeat("0", 10-len(cik)) + cik
}

func at(s []string, i int) string {
	if i < len(s) {
		return s[i]
	}
	return ""
}
