package export

import (
	"path/filepath"
	"regexp"
	"strings"
)

const dirPrefix = "financial_statements_"

var unsafeFileChars = regexp.MustCompile(`[^a-z0-9_]`)

// OutputDirName derives the output folder for a filing from its instance path.
// For .../acme/Q1/acme-20250331_htm.xml it returns financial_statements_ACME_20250331:
// the ticker is the directory two levels above the file, the date is the part of the
// file prefix after the first '-'. Paths without that shape fall back to
// financial_statements_<prefix>.
func OutputDirName(instancePath string) string {
	base := filepath.Base(instancePath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	prefix := stem
	if i := strings.Index(stem, "_"); i >= 0 {
		prefix = stem[:i]
	}

	ticker := ""
	parts := strings.Split(filepath.ToSlash(filepath.Clean(instancePath)), "/")
	if len(parts) >= 3 {
		ticker = parts[len(parts)-3]
	}
	_, date, hasDate := strings.Cut(prefix, "-")
	if ticker == "" || ticker == "." || ticker == ".." || !hasDate || date == "" {
		return dirPrefix + prefix
	}
	return dirPrefix + strings.ToUpper(ticker) + "_" + date
}

// Stem turns a query into a safe file stem: lower-cased, spaces become '_',
// anything outside [a-z0-9_] is dropped. An empty result becomes "statement".
// Queries with equal stems write the same files.
func Stem(query string) string {
	name := strings.ReplaceAll(strings.ToLower(query), " ", "_")
	name = unsafeFileChars.ReplaceAllString(name, "")
	if name == "" {
		name = "statement"
	}
	return name
}

// FileName is the query's stem with the format's extension.
func FileName(query string, f Format) string {
	return Stem(query) + "." + f.Ext()
}
