package ingest

import (
	"crypto/md5"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FilingCache stores downloaded XBRL documents as <dir>/<ticker>/<accession>/<name>.
// The layout keeps the ticker two levels above each instance document, which is
// what output directory naming relies on.
type FilingCache struct {
	cacheDir string
}

// NewFilingCache creates a cache rooted at dir.
// Cache directory defaults to .cache/edgar/filings in the current working directory
func NewFilingCache(dir string) *FilingCache {
	if dir == "" {
		dir = filepath.Join(".cache", "edgar", "filings")
	}
	return &FilingCache{cacheDir: dir}
}

// FolderFor returns the directory holding one filing's documents.
func (c *FilingCache) FolderFor(ticker, accession string) string {
	// Normalize accession number (remove dashes)
	accession = strings.ReplaceAll(accession, "-", "")
	return filepath.Join(c.cacheDir, strings.ToLower(ticker), accession)
}

// Path returns the file path for a cached document.
func (c *FilingCache) Path(ticker, accession, name string) string {
	return filepath.Join(c.FolderFor(ticker, accession), filepath.Base(name))
}

// Has checks if a document is cached and non-empty.
func (c *FilingCache) Has(ticker, accession, name string) bool {
	info, err := os.Stat(c.Path(ticker, accession, name))
	return err == nil && info.Size() > 0
}

// Set stores a document and returns its path.
func (c *FilingCache) Set(ticker, accession, name string, data []byte) (string, error) {
	path := c.Path(ticker, accession, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("create cache folder: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return path, nil
}

// GetCacheDir returns the cache directory path
func (c *FilingCache) GetCacheDir() string {
	return c.cacheDir
}

// ClearCache removes all cached files
func (c *FilingCache) ClearCache() error {
	return os.RemoveAll(c.cacheDir)
}

// ContentHash generates a hash of the content for change detection
func ContentHash(data []byte) string {
	return fmt.Sprintf("%x", md5.Sum(data))
}
