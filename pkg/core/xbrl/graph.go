package xbrl

import "sort"

// Edge is one resolved arc: its order key, the target endpoint and the target's payload.
type Edge[P any] struct {
	Order   float64
	Seq     int
	To      string
	Payload P
}

// Graph is the three-hop resolution of a linkbase relationship set:
// arc endpoints are joined to payloads keyed by endpoint label, and arcs whose
// target has no payload are dropped. It is read-only once built.
type Graph[P any] struct {
	edges   map[string][]Edge[P]
	sources []string // from-endpoints in first-seen order
	targets map[string]bool
}

// BuildGraph resolves arcs against payloads. The payload map plays the role of the
// locator→target (or resource→text) lookup; an arc survives only if its To endpoint
// is a key of payloads.
func BuildGraph[P any](arcs []Arc, payloads map[string]P) *Graph[P] {
	g := &Graph[P]{
		edges:   make(map[string][]Edge[P]),
		targets: make(map[string]bool),
	}
	for _, a := range arcs {
		if a.From == "" || a.To == "" {
			continue
		}
		p, ok := payloads[a.To]
		if !ok {
			continue
		}
		if _, seen := g.edges[a.From]; !seen {
			g.sources = append(g.sources, a.From)
		}
		g.edges[a.From] = append(g.edges[a.From], Edge[P]{Order: a.Order, Seq: a.Seq, To: a.To, Payload: p})
		g.targets[a.To] = true
	}
	for from := range g.edges {
		sortEdges(g.edges[from])
	}
	return g
}

// sortEdges orders edges by ascending Order; ties keep document order.
func sortEdges[P any](edges []Edge[P]) {
	sort.SliceStable(edges, func(i, j int) bool {
		if edges[i].Order != edges[j].Order {
			return edges[i].Order < edges[j].Order
		}
		return edges[i].Seq < edges[j].Seq
	})
}

// Children returns the outgoing edges of from, sorted by order.
func (g *Graph[P]) Children(from string) []Edge[P] {
	return g.edges[from]
}

// Sources returns every endpoint with at least one resolved outgoing arc, in discovery order.
func (g *Graph[P]) Sources() []string {
	return g.sources
}

// Roots returns the sources that are never the target of a resolved arc, in discovery order.
func (g *Graph[P]) Roots() []string {
	var roots []string
	for _, s := range g.sources {
		if !g.targets[s] {
			roots = append(roots, s)
		}
	}
	return roots
}

// Len is the number of resolved arcs.
func (g *Graph[P]) Len() int {
	n := 0
	for _, e := range g.edges {
		n += len(e)
	}
	return n
}
