package xbrl

import (
	"encoding/xml"
	"fmt"
	"io"
	"sort"
)

// DefaultPrefix is the key under which an unprefixed (default) namespace is recorded.
const DefaultPrefix = "default"

// Namespaces maps XML namespace prefixes to URIs, aggregated across the filing documents.
// It is built once and only read afterwards.
type Namespaces map[string]string

// URI returns the namespace URI bound to prefix.
func (ns Namespaces) URI(prefix string) string {
	return ns[prefix]
}

// Prefix reverse-resolves a namespace URI to a known prefix. When several prefixes share
// a URI the lexically smallest explicit prefix wins, so the result does not depend on map
// iteration order. The default namespace entry is never returned.
func (ns Namespaces) Prefix(uri string) (string, bool) {
	if uri == "" {
		return "", false
	}
	var found []string
	for prefix, u := range ns {
		if u == uri && prefix != DefaultPrefix {
			found = append(found, prefix)
		}
	}
	if len(found) == 0 {
		return "", false
	}
	sort.Strings(found)
	return found[0], true
}

// reverse builds a URI -> prefix table with the same tie-breaking as Prefix.
func (ns Namespaces) reverse() map[string]string {
	prefixes := make([]string, 0, len(ns))
	for p := range ns {
		if p != DefaultPrefix {
			prefixes = append(prefixes, p)
		}
	}
	sort.Strings(prefixes)

	out := make(map[string]string, len(prefixes))
	for _, p := range prefixes {
		if _, ok := out[ns[p]]; !ok {
			out[ns[p]] = p
		}
	}
	return out
}

// DiscoverNamespaces scans every xmlns declaration in the given documents, in order.
// A later declaration of the same prefix overrides an earlier one. The standard
// link/xlink/xbrli namespaces are filled in when the documents do not declare them,
// and xbrli falls back to the default namespace first.
func DiscoverNamespaces(docs ...io.Reader) (Namespaces, error) {
	ns := make(Namespaces)
	for i, doc := range docs {
		if err := scanNamespaces(doc, ns); err != nil {
			return nil, fmt.Errorf("scan namespaces of document %d: %w", i, err)
		}
	}

	if _, ok := ns["xbrli"]; !ok {
		if def, ok := ns[DefaultPrefix]; ok {
			ns["xbrli"] = def
		}
	}
	setDefault(ns, "link", LinkbaseNS)
	setDefault(ns, "xlink", XLinkNS)
	setDefault(ns, "xbrli", InstanceNS)

	return ns, nil
}

func setDefault(ns Namespaces, prefix, uri string) {
	if _, ok := ns[prefix]; !ok {
		ns[prefix] = uri
	}
}

func scanNamespaces(r io.Reader, ns Namespaces) error {
	dec := newDecoder(r)
	for {
		tok, err := dec.RawToken()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		for _, attr := range se.Attr {
			switch {
			case attr.Name.Space == "xmlns":
				ns[attr.Name.Local] = attr.Value
			case attr.Name.Space == "" && attr.Name.Local == "xmlns":
				ns[DefaultPrefix] = attr.Value
			}
		}
	}
}
