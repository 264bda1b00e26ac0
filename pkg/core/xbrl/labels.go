package xbrl

import (
	"fmt"
	"io"
	"strings"
)

// LabelIndex is a two-way concept <-> standard label index built from the label linkbase.
type LabelIndex struct {
	concepts []string          // insertion order, one entry per concept
	labels   map[string]string // concept -> label
	lowered  map[string]string // concept -> lower-cased label
	byLabel  map[string]string // lower-cased label -> concept
}

// BuildLabelIndex decodes a label linkbase and indexes its standard labels.
func BuildLabelIndex(r io.Reader, ns Namespaces) (*LabelIndex, error) {
	lb, err := DecodeLinkbase(r, ns)
	if err != nil {
		return nil, fmt.Errorf("label linkbase: %w", err)
	}
	return NewLabelIndex(lb), nil
}

// NewLabelIndex resolves loc -> labelArc -> label within every labelLink.
// A linkbase without resolvable arcs yields an empty index.
func NewLabelIndex(lb *Linkbase) *LabelIndex {
	ix := &LabelIndex{
		labels:  make(map[string]string),
		lowered: make(map[string]string),
		byLabel: make(map[string]string),
	}

	for _, link := range lb.LinksNamed("labelLink") {
		locs := link.ConceptLocators()

		texts := make(map[string]string)
		for _, res := range link.Resources {
			if res.Role != StandardLabelRole || res.Label == "" || res.Text == "" {
				continue
			}
			texts[res.Label] = res.Text
		}

		g := BuildGraph(link.ArcsNamed("labelArc"), texts)
		for _, from := range g.Sources() {
			concept, ok := locs[from]
			if !ok {
				continue
			}
			for _, e := range g.Children(from) {
				ix.add(concept, e.Payload)
			}
		}
	}
	return ix
}

func (ix *LabelIndex) add(concept, text string) {
	if _, seen := ix.labels[concept]; !seen {
		ix.concepts = append(ix.concepts, concept)
	}
	lower := strings.ToLower(text)
	ix.labels[concept] = text
	ix.lowered[concept] = lower
	ix.byLabel[lower] = concept
}

// Len is the number of labelled concepts.
func (ix *LabelIndex) Len() int {
	return len(ix.concepts)
}

// Label returns the standard label of concept, or the concept itself when it has none.
func (ix *LabelIndex) Label(concept string) string {
	if l, ok := ix.labels[concept]; ok {
		return l
	}
	return concept
}

// ConceptForLabel looks a concept up by its exact label, ignoring case.
func (ix *LabelIndex) ConceptForLabel(label string) (string, bool) {
	c, ok := ix.byLabel[strings.ToLower(label)]
	return c, ok
}

// FindByQuery returns every concept whose label contains all query words as substrings,
// in index insertion order. A query with no words matches every concept.
func (ix *LabelIndex) FindByQuery(query string) []string {
	tokens := queryTokens(query)
	var out []string
	for _, c := range ix.concepts {
		if containsAll(ix.lowered[c], tokens) {
			out = append(out, c)
		}
	}
	return out
}
