package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// FetchResult describes a filing whose XBRL documents are available locally.
type FetchResult struct {
	Ticker       string `json:"ticker"`
	CIK          string `json:"cik"`
	Filing       Filing `json:"filing"`
	InstancePath string `json:"instance_path"`
	Downloaded   int    `json:"downloaded"`
	Cached       int    `json:"cached"`
}

// Fetcher downloads the instance, label and presentation documents of a filing
// into a FilingCache.
type Fetcher struct {
	client *EDGARClient
	cache  *FilingCache
	log    zerolog.Logger
}

// NewFetcher creates a fetcher over an EDGAR client and cache.
func NewFetcher(client *EDGARClient, cache *FilingCache, log zerolog.Logger) *Fetcher {
	return &Fetcher{
		client: client,
		cache:  cache,
		log:    log.With().Str("component", "ingest").Logger(),
	}
}

// FetchLatest resolves the ticker, finds its most recent filing of the given form
// (10-K, 10-Q) and makes the document triplet available locally.
func (f *Fetcher) FetchLatest(ctx context.Context, ticker, form string) (*FetchResult, error) {
	cik, err := f.client.LookupCIK(ctx, ticker)
	if err != nil {
		return nil, err
	}
	filing, err := f.client.LatestFiling(ctx, cik, form)
	if err != nil {
		return nil, err
	}
	return f.FetchFiling(ctx, ticker, *filing)
}

// FetchFiling downloads the triplet of one filing, reusing cached copies.
func (f *Fetcher) FetchFiling(ctx context.Context, ticker string, filing Filing) (*FetchResult, error) {
	docs, err := f.client.FilingIndex(ctx, filing.CIK, filing.AccessionNumber)
	if err != nil {
		return nil, err
	}
	triplet, err := SelectXBRLDocuments(docs)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", ticker, filing.AccessionNumber, err)
	}

	result := &FetchResult{
		Ticker: strings.ToUpper(ticker),
		CIK:    filing.CIK,
		Filing: filing,
	}
	for _, doc := range []FilingIndexDocument{triplet.Labels, triplet.Presentation, triplet.Instance} {
		if f.cache.Has(ticker, filing.AccessionNumber, doc.Name) {
			result.Cached++
			continue
		}
		data, err := f.client.fetchURL(ctx, doc.URL)
		if err != nil {
			return nil, fmt.Errorf("download %s: %w", doc.Name, err)
		}
		if _, err := f.cache.Set(ticker, filing.AccessionNumber, doc.Name, data); err != nil {
			return nil, err
		}
		result.Downloaded++
		f.log.Debug().
			Str("document", doc.Name).
			Int("bytes", len(data)).
			Str("md5", ContentHash(data)).
			Msg("document downloaded")
	}
	result.InstancePath = f.cache.Path(ticker, filing.AccessionNumber, triplet.Instance.Name)

	f.log.Info().
		Str("ticker", result.Ticker).
		Str("accession", filing.AccessionNumber).
		Str("form", filing.FormType).
		Int("downloaded", result.Downloaded).
		Int("cached", result.Cached).
		Msg("filing available")
	return result, nil
}
