package xbrl

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"
)

// newDecoder returns a decoder that tolerates the encodings and entities found in
// real filings (ISO-8859-1 declarations, HTML entities inside text blocks).
func newDecoder(r io.Reader) *xml.Decoder {
	dec := xml.NewDecoder(r)
	dec.Strict = false
	dec.Entity = xml.HTMLEntity
	dec.CharsetReader = charset.NewReaderLabel
	return dec
}

// Locator maps an xlink:label (arc endpoint) to the concept named by its href fragment.
type Locator struct {
	Label string
	Href  string
}

// Arc connects two endpoint labels. Seq is the arc's position in its extended link,
// used to keep document order among arcs with equal Order.
type Arc struct {
	Name  string // element local name, e.g. labelArc, presentationArc
	From  string
	To    string
	Order float64
	Seq   int
}

// Resource is a label resource: endpoint label, xlink:role and text.
type Resource struct {
	Label string
	Role  string
	Text  string
}

// RoleRef is a role declaration at the top of a linkbase.
type RoleRef struct {
	RoleURI string
	Href    string
}

// ExtendedLink groups the locators, arcs and resources of one *Link element.
// Endpoint labels are only meaningful inside the link that declares them.
type ExtendedLink struct {
	Name      string // element local name, e.g. labelLink, presentationLink
	Role      string
	Locators  []Locator
	Arcs      []Arc
	Resources []Resource
}

// Linkbase is the decoded subset of a linkbase document this package understands.
type Linkbase struct {
	RoleRefs []RoleRef
	Links    []*ExtendedLink
}

// DecodeLinkbase reads locator, arc, label and roleRef elements from a linkbase.
// Elements are recognised by the link and xlink namespace URIs in ns, not by prefix.
func DecodeLinkbase(r io.Reader, ns Namespaces) (*Linkbase, error) {
	linkNS, xlinkNS := ns.URI("link"), ns.URI("xlink")
	lb := &Linkbase{}
	dec := newDecoder(r)

	// Locators and arcs outside any extended link land in a synthetic one.
	var current, orphan *ExtendedLink
	target := func() *ExtendedLink {
		if current != nil {
			return current
		}
		if orphan == nil {
			orphan = &ExtendedLink{}
			lb.Links = append(lb.Links, orphan)
		}
		return orphan
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode linkbase: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space != linkNS {
				continue
			}
			local := t.Name.Local
			switch {
			case local == "roleRef":
				lb.RoleRefs = append(lb.RoleRefs, RoleRef{
					RoleURI: attrValue(t, "", "roleURI"),
					Href:    attrValue(t, xlinkNS, "href"),
				})
			case local == "loc":
				l := target()
				l.Locators = append(l.Locators, Locator{
					Label: attrValue(t, xlinkNS, "label"),
					Href:  attrValue(t, xlinkNS, "href"),
				})
			case local == "label":
				var body struct {
					Text string `xml:",chardata"`
				}
				if err := dec.DecodeElement(&body, &t); err != nil {
					return nil, fmt.Errorf("decode label resource: %w", err)
				}
				l := target()
				l.Resources = append(l.Resources, Resource{
					Label: attrValue(t, xlinkNS, "label"),
					Role:  attrValue(t, xlinkNS, "role"),
					Text:  body.Text,
				})
			case strings.HasSuffix(local, "Arc"):
				l := target()
				l.Arcs = append(l.Arcs, Arc{
					Name:  local,
					From:  attrValue(t, xlinkNS, "from"),
					To:    attrValue(t, xlinkNS, "to"),
					Order: parseOrder(attrValue(t, "", "order")),
					Seq:   len(l.Arcs),
				})
			case strings.HasSuffix(local, "Link"):
				current = &ExtendedLink{Name: local, Role: attrValue(t, xlinkNS, "role")}
				lb.Links = append(lb.Links, current)
			}
		case xml.EndElement:
			if t.Name.Space == linkNS && current != nil && t.Name.Local == current.Name {
				current = nil
			}
		}
	}
	return lb, nil
}

// LinksNamed returns the extended links with the given element name, in document order.
func (lb *Linkbase) LinksNamed(name string) []*ExtendedLink {
	var out []*ExtendedLink
	for _, l := range lb.Links {
		if l.Name == name {
			out = append(out, l)
		}
	}
	return out
}

// ArcsNamed returns the link's arcs with the given element name.
func (l *ExtendedLink) ArcsNamed(name string) []Arc {
	var out []Arc
	for _, a := range l.Arcs {
		if a.Name == name {
			out = append(out, a)
		}
	}
	return out
}

// ConceptLocators maps each locator label to the concept named by its href fragment.
// Locators without a label or without a '#' fragment are dropped.
func (l *ExtendedLink) ConceptLocators() map[string]string {
	out := make(map[string]string, len(l.Locators))
	for _, loc := range l.Locators {
		concept := hrefFragment(loc.Href)
		if loc.Label == "" || concept == "" {
			continue
		}
		out[loc.Label] = concept
	}
	return out
}

func attrValue(se xml.StartElement, space, local string) string {
	for _, a := range se.Attr {
		if a.Name.Local == local && a.Name.Space == space {
			return a.Value
		}
	}
	return ""
}

// parseOrder reads an arc's order attribute; absent or malformed values mean 1.0.
func parseOrder(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 1.0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 1.0
	}
	return f
}
