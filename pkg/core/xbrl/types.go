// Package xbrl reconstructs financial statements from an XBRL filing: the instance
// document (facts + contexts), the label linkbase and the presentation linkbase.
package xbrl

import (
	"errors"
	"strings"
)

// Standard XBRL namespace URIs, used when a filing does not declare them.
const (
	LinkbaseNS = "http://www.xbrl.org/2003/linkbase"
	XLinkNS    = "http://www.w3.org/1999/xlink"
	InstanceNS = "http://www.xbrl.org/2003/instance"

	// StandardLabelRole is the only label role indexed; verbose/documentation labels are ignored.
	StandardLabelRole = "http://www.xbrl.org/2003/role/label"
)

// NotAvailable is the display value for a missing fact.
const NotAvailable = "N/A"

var (
	// ErrMissingDocument means one of the three filing documents is absent or unreadable.
	ErrMissingDocument = errors.New("missing filing document")
	// ErrNoConcepts means neither a statement role nor any label matched the query.
	ErrNoConcepts = errors.New("no concepts found for query")
	// ErrNoContexts means the filing has no contexts of the period type the query needs.
	ErrNoContexts = errors.New("no relevant contexts for query")
)

// PeriodType distinguishes point-in-time contexts from duration contexts.
type PeriodType string

const (
	PeriodInstant  PeriodType = "instant"
	PeriodDuration PeriodType = "duration"
)

// Context is a named time period a fact is reported against.
type Context struct {
	ID   string     `json:"id"`
	Type PeriodType `json:"type"`
	// Date is the instant date, or the end date of a duration.
	Date        string `json:"date"`
	StartDate   string `json:"start_date,omitempty"`
	Dimensional bool   `json:"dimensional"` // carries a segment or scenario qualifier
}

// Fact is the raw reported value for one (concept, context) pair.
// Scale and Decimals keep their attribute text; they are interpreted by the Scaler.
type Fact struct {
	Concept    string `json:"concept"`
	ContextRef string `json:"context_ref"`
	Text       string `json:"text"`
	Scale      string `json:"scale"`
	Decimals   string `json:"decimals"`
	UnitRef    string `json:"unit_ref,omitempty"`
}

// NotAvailableFact is returned for (concept, context) pairs with no reported value.
func NotAvailableFact(concept, contextRef string) Fact {
	return Fact{
		Concept:    concept,
		ContextRef: contextRef,
		Text:       NotAvailable,
		Scale:      "0",
		Decimals:   "0",
	}
}

// FactKey is the composite key of the fact table.
type FactKey struct {
	Concept    string
	ContextRef string
}

// Role is a statement grouping declared in the presentation linkbase.
type Role struct {
	FriendlyName string `json:"friendly_name"`
	URI          string `json:"uri"`
}

// queryTokens lower-cases the query and splits it on whitespace.
func queryTokens(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

// containsAll reports whether every token is a substring of s.
// An empty token list matches everything.
func containsAll(s string, tokens []string) bool {
	for _, tok := range tokens {
		if !strings.Contains(s, tok) {
			return false
		}
	}
	return true
}

// hrefFragment returns the part of href after the last '#', or "" when there is none.
func hrefFragment(href string) string {
	i := strings.LastIndex(href, "#")
	if i < 0 {
		return ""
	}
	return href[i+1:]
}
