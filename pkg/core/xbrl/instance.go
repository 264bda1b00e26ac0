package xbrl

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Repository is the context index and fact table of an instance document.
// Facts live in a single table keyed by (concept, context id); a miss is
// answered with NotAvailableFact.
type Repository struct {
	contexts  []Context // document order
	contextIx map[string]int
	facts     map[FactKey]Fact

	// Skipped counts facts dropped at load time because their namespace has no
	// known prefix or their contextRef names no parsed context.
	SkippedNamespace int
	SkippedContext   int
}

type contextElement struct {
	ID     string `xml:"id,attr"`
	Entity struct {
		Segment *struct{} `xml:"segment"`
	} `xml:"entity"`
	Scenario *struct{} `xml:"scenario"`
	Period   struct {
		Instant   string `xml:"instant"`
		StartDate string `xml:"startDate"`
		EndDate   string `xml:"endDate"`
	} `xml:"period"`
}

type factElement struct {
	Text string `xml:",chardata"`
}

// LoadRepository parses contexts and facts from an instance document.
// Contexts without an instant or an end date are skipped. A fact is any element
// with a contextRef attribute; it is kept only if its namespace reverse-resolves to
// a prefix in ns and its contextRef names a parsed context. Contexts may appear
// after the facts that use them.
func LoadRepository(r io.Reader, ns Namespaces) (*Repository, error) {
	repo := &Repository{
		contextIx: make(map[string]int),
		facts:     make(map[FactKey]Fact),
	}
	instanceNS := ns.URI("xbrli")
	prefixes := ns.reverse()

	var pending []Fact
	dec := newDecoder(r)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode instance: %w", err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		if se.Name.Local == "context" && se.Name.Space == instanceNS {
			var ce contextElement
			if err := dec.DecodeElement(&ce, &se); err != nil {
				return nil, fmt.Errorf("decode context: %w", err)
			}
			if c, ok := ce.toContext(); ok {
				repo.addContext(c)
			}
			continue
		}

		contextRef := attrValue(se, "", "contextRef")
		if contextRef == "" {
			continue
		}
		var fe factElement
		if err := dec.DecodeElement(&fe, &se); err != nil {
			return nil, fmt.Errorf("decode fact %s: %w", se.Name.Local, err)
		}
		prefix, ok := prefixes[se.Name.Space]
		if !ok {
			repo.SkippedNamespace++
			continue
		}
		pending = append(pending, Fact{
			Concept:    prefix + "_" + se.Name.Local,
			ContextRef: contextRef,
			Text:       fe.Text,
			Scale:      attrOr(se, "scale", "0"),
			Decimals:   attrOr(se, "decimals", "0"),
			UnitRef:    attrValue(se, "", "unitRef"),
		})
	}

	for _, f := range pending {
		if _, ok := repo.contextIx[f.ContextRef]; !ok {
			repo.SkippedContext++
			continue
		}
		// Later duplicates overwrite earlier ones.
		repo.facts[FactKey{Concept: f.Concept, ContextRef: f.ContextRef}] = f
	}
	return repo, nil
}

func (ce contextElement) toContext() (Context, bool) {
	c := Context{
		ID:          ce.ID,
		Dimensional: ce.Entity.Segment != nil || ce.Scenario != nil,
	}
	instant := strings.TrimSpace(ce.Period.Instant)
	end := strings.TrimSpace(ce.Period.EndDate)
	switch {
	case ce.ID == "":
		return c, false
	case instant != "":
		c.Type, c.Date = PeriodInstant, instant
	case end != "":
		c.Type, c.Date = PeriodDuration, end
		c.StartDate = strings.TrimSpace(ce.Period.StartDate)
	default:
		return c, false
	}
	return c, true
}

func (repo *Repository) addContext(c Context) {
	if i, ok := repo.contextIx[c.ID]; ok {
		repo.contexts[i] = c
		return
	}
	repo.contextIx[c.ID] = len(repo.contexts)
	repo.contexts = append(repo.contexts, c)
}

func attrOr(se xml.StartElement, local, def string) string {
	if v := attrValue(se, "", local); v != "" {
		return v
	}
	return def
}

// Contexts returns all parsed contexts in document order.
func (repo *Repository) Contexts() []Context {
	out := make([]Context, len(repo.contexts))
	copy(out, repo.contexts)
	return out
}

// Context looks a context up by id.
func (repo *Repository) Context(id string) (Context, bool) {
	i, ok := repo.contextIx[id]
	if !ok {
		return Context{}, false
	}
	return repo.contexts[i], true
}

// FactCount is the number of indexed facts.
func (repo *Repository) FactCount() int {
	return len(repo.facts)
}

// Fact returns the stored fact for (concept, contextRef).
func (repo *Repository) Fact(concept, contextRef string) (Fact, bool) {
	f, ok := repo.facts[FactKey{Concept: concept, ContextRef: contextRef}]
	return f, ok
}

// FactRow holds one concept's facts, one per requested context, in request order.
type FactRow struct {
	Concept string
	Facts   []Fact
}

// FactsFor returns a row per concept with a fact per context id. Missing facts are
// NotAvailableFact values; retrieval never fails.
func (repo *Repository) FactsFor(concepts, contextIDs []string) []FactRow {
	rows := make([]FactRow, 0, len(concepts))
	for _, c := range concepts {
		row := FactRow{Concept: c, Facts: make([]Fact, 0, len(contextIDs))}
		for _, id := range contextIDs {
			f, ok := repo.Fact(c, id)
			if !ok {
				f = NotAvailableFact(c, id)
			}
			row.Facts = append(row.Facts, f)
		}
		rows = append(rows, row)
	}
	return rows
}

// ContextDates returns the display date of each context id, or the id itself when unknown.
func (repo *Repository) ContextDates(contextIDs []string) []string {
	out := make([]string, 0, len(contextIDs))
	for _, id := range contextIDs {
		if c, ok := repo.Context(id); ok {
			out = append(out, c.Date)
		} else {
			out = append(out, id)
		}
	}
	return out
}
