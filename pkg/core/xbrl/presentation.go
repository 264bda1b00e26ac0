package xbrl

import (
	"fmt"
	"io"
	"strings"
)

// Presentation holds the statement roles of a presentation linkbase and the
// presentationLink subtree of each role.
type Presentation struct {
	roles     []Role
	roleIndex map[string]int           // friendly name -> position in roles
	links     map[string]*ExtendedLink // role URI -> first presentationLink with that role
}

// BuildPresentation decodes a presentation linkbase and discovers its roles.
func BuildPresentation(r io.Reader, ns Namespaces) (*Presentation, error) {
	lb, err := DecodeLinkbase(r, ns)
	if err != nil {
		return nil, fmt.Errorf("presentation linkbase: %w", err)
	}
	return NewPresentation(lb), nil
}

// NewPresentation indexes roleRef declarations and presentationLink elements.
// The friendly name of a role is the lower-cased fragment of its roleRef href;
// a repeated friendly name keeps its first position but takes the later URI.
func NewPresentation(lb *Linkbase) *Presentation {
	p := &Presentation{
		roleIndex: make(map[string]int),
		links:     make(map[string]*ExtendedLink),
	}
	for _, rr := range lb.RoleRefs {
		frag := hrefFragment(rr.Href)
		if rr.RoleURI == "" || !strings.Contains(rr.Href, "#") {
			continue
		}
		name := strings.ToLower(frag)
		if i, ok := p.roleIndex[name]; ok {
			p.roles[i].URI = rr.RoleURI
			continue
		}
		p.roleIndex[name] = len(p.roles)
		p.roles = append(p.roles, Role{FriendlyName: name, URI: rr.RoleURI})
	}
	for _, link := range lb.LinksNamed("presentationLink") {
		if _, ok := p.links[link.Role]; !ok {
			p.links[link.Role] = link
		}
	}
	return p
}

// Roles returns the discovered roles in discovery order.
func (p *Presentation) Roles() []Role {
	out := make([]Role, len(p.roles))
	copy(out, p.roles)
	return out
}

// FindRole returns the first role, in discovery order, whose friendly name contains
// every query word. First match wins even when a later role matches more closely.
func (p *Presentation) FindRole(query string) (Role, bool) {
	tokens := queryTokens(query)
	for _, r := range p.roles {
		if containsAll(r.FriendlyName, tokens) {
			return r, true
		}
	}
	return Role{}, false
}

// FindStatementConcepts returns the ordered concepts of the first role matching query.
// An empty result means the query does not name a statement, or the role has no subtree.
func (p *Presentation) FindStatementConcepts(query string) []string {
	role, ok := p.FindRole(query)
	if !ok {
		return nil
	}
	h := p.Hierarchy(role.URI)
	if h == nil {
		return nil
	}
	return h.Concepts()
}

// Hierarchy builds the node arena of a role, or returns nil when the role has no
// presentationLink. Locators and arcs are scoped to that link only.
func (p *Presentation) Hierarchy(roleURI string) *Hierarchy {
	link, ok := p.links[roleURI]
	if !ok {
		return nil
	}
	return buildHierarchy(roleURI, link)
}

// Node is one position in a role's concept tree. Children index into Hierarchy.Nodes.
type Node struct {
	Locator  string
	Concept  string // empty when the locator does not resolve
	Order    float64
	Depth    int
	Children []int
}

// Hierarchy is the node arena of one presentation role. A role may have several roots.
type Hierarchy struct {
	RoleURI string
	Nodes   []Node
	Roots   []int
}

func buildHierarchy(roleURI string, link *ExtendedLink) *Hierarchy {
	locs := link.ConceptLocators()
	g := BuildGraph(link.ArcsNamed("presentationArc"), locs)

	h := &Hierarchy{RoleURI: roleURI}
	parent := []int{} // arena index -> parent index, build-time only

	newNode := func(loc string, order float64, depth, up int) int {
		h.Nodes = append(h.Nodes, Node{Locator: loc, Concept: locs[loc], Order: order, Depth: depth})
		parent = append(parent, up)
		return len(h.Nodes) - 1
	}
	// onPath reports whether loc already appears between idx and its root.
	onPath := func(idx int, loc string) bool {
		for i := idx; i >= 0; i = parent[i] {
			if h.Nodes[i].Locator == loc {
				return true
			}
		}
		return false
	}

	for _, root := range g.Roots() {
		rootIdx := newNode(root, 1.0, 0, -1)
		h.Roots = append(h.Roots, rootIdx)

		stack := []int{rootIdx}
		for len(stack) > 0 {
			idx := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			for _, e := range g.Children(h.Nodes[idx].Locator) {
				if onPath(idx, e.To) {
					continue // cyclic arc
				}
				child := newNode(e.To, e.Order, h.Nodes[idx].Depth+1, idx)
				h.Nodes[idx].Children = append(h.Nodes[idx].Children, child)
				stack = append(stack, child)
			}
		}
	}
	return h
}

// Concepts walks every root in discovery order, depth-first pre-order, emitting each
// resolvable concept before its children (already sorted by ascending order).
func (h *Hierarchy) Concepts() []string {
	var out []string
	h.Walk(func(n Node) {
		if n.Concept != "" {
			out = append(out, n.Concept)
		}
	})
	return out
}

// Walk visits every node in statement order.
func (h *Hierarchy) Walk(visit func(Node)) {
	for _, root := range h.Roots {
		stack := []int{root}
		for len(stack) > 0 {
			idx := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			visit(h.Nodes[idx])

			children := h.Nodes[idx].Children
			for i := len(children) - 1; i >= 0; i-- {
				stack = append(stack, children[i])
			}
		}
	}
}
