package xbrl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverNamespaces(t *testing.T) {
	ns := testNamespaces(t)

	assert.Equal(t, LinkbaseNS, ns.URI("link"))
	assert.Equal(t, XLinkNS, ns.URI("xlink"))
	assert.Equal(t, "http://fasb.org/us-gaap/2024", ns.URI("us-gaap"))
	// The instance declares its vocabulary as the default namespace only.
	assert.Equal(t, InstanceNS, ns.URI(DefaultPrefix))
	assert.Equal(t, InstanceNS, ns.URI("xbrli"))
}

func TestDiscoverNamespaces_LaterDeclarationWins(t *testing.T) {
	a := `<root xmlns:acme="http://acme.com/2024"/>`
	b := `<root xmlns:acme="http://acme.com/2025" xmlns:xbrli="http://example.com/instance"/>`

	ns, err := DiscoverNamespaces(strings.NewReader(a), strings.NewReader(b))
	require.NoError(t, err)

	assert.Equal(t, "http://acme.com/2025", ns.URI("acme"))
	assert.Equal(t, "http://example.com/instance", ns.URI("xbrli"), "explicit xbrli is not replaced")
}

func TestNamespaces_Prefix(t *testing.T) {
	ns := Namespaces{
		"default": "http://fasb.org/us-gaap/2024",
		"zz":      "http://fasb.org/us-gaap/2024",
		"us-gaap": "http://fasb.org/us-gaap/2024",
	}

	p, ok := ns.Prefix("http://fasb.org/us-gaap/2024")
	require.True(t, ok)
	assert.Equal(t, "us-gaap", p)

	_, ok = ns.Prefix("http://unknown.example")
	assert.False(t, ok)
	assert.Equal(t, map[string]string{"http://fasb.org/us-gaap/2024": "us-gaap"}, ns.reverse())
}

func TestDecodeLinkbase(t *testing.T) {
	lb, err := DecodeLinkbase(strings.NewReader(preFixture), testNamespaces(t))
	require.NoError(t, err)

	require.Len(t, lb.RoleRefs, 4)
	assert.Equal(t, "http://acme.com/role/CondensedConsolidatedBalanceSheets", lb.RoleRefs[0].RoleURI)

	links := lb.LinksNamed("presentationLink")
	require.Len(t, links, 3)
	bs := links[0]
	assert.Equal(t, "http://acme.com/role/CondensedConsolidatedBalanceSheets", bs.Role)
	assert.Len(t, bs.Locators, 6)
	require.Len(t, bs.Arcs, 5)
	assert.Equal(t, 2.0, bs.Arcs[0].Order)
	assert.Equal(t, 1.0, bs.Arcs[3].Order, "missing order defaults to 1")
	assert.Equal(t, "us-gaap_Cash", bs.ConceptLocators()["loc_Cash"])
}

func TestBuildGraph(t *testing.T) {
	payloads := map[string]string{"b": "B", "c": "C", "d": "D", "e": "E"}
	arcs := []Arc{
		{From: "a", To: "c", Order: 2, Seq: 0},
		{From: "a", To: "b", Order: 1, Seq: 1},
		{From: "a", To: "x", Order: 0, Seq: 2}, // no payload: dropped
		{From: "b", To: "d", Order: 1, Seq: 3},
		{From: "b", To: "e", Order: 1, Seq: 4},
		{From: "r", To: "e", Order: 1, Seq: 5},
		{From: "y", To: "x", Order: 1, Seq: 6}, // dropped, so y is not a source
	}

	g := BuildGraph(arcs, payloads)

	assert.Equal(t, []string{"a", "b", "r"}, g.Sources())
	assert.Equal(t, []string{"a", "r"}, g.Roots())
	assert.Equal(t, 5, g.Len())

	var children []string
	for _, e := range g.Children("a") {
		children = append(children, e.Payload)
	}
	assert.Equal(t, []string{"B", "C"}, children)

	ties := g.Children("b")
	require.Len(t, ties, 2)
	assert.Equal(t, "d", ties[0].To, "equal order keeps document order")
	assert.Equal(t, "e", ties[1].To)
	assert.Empty(t, g.Children("x"))
}
