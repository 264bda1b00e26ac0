package xbrl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildFixtureLabels(t *testing.T) *LabelIndex {
	t.Helper()
	ix, err := BuildLabelIndex(strings.NewReader(labFixture), testNamespaces(t))
	require.NoError(t, err)
	return ix
}

func TestLabelIndex_StandardLabelsOnly(t *testing.T) {
	ix := buildFixtureLabels(t)

	assert.Equal(t, 9, ix.Len())
	assert.Equal(t, "Total assets", ix.Label("us-gaap_Assets"))
	assert.Equal(t, "Footnote reference", ix.Label("acme_FootnoteText"))
	assert.Equal(t, "us-gaap_Unlabelled", ix.Label("us-gaap_Unlabelled"), "unknown concepts fall back to the id")
}

func TestLabelIndex_ConceptForLabel(t *testing.T) {
	ix := buildFixtureLabels(t)

	c, ok := ix.ConceptForLabel("TOTAL ASSETS")
	require.True(t, ok)
	assert.Equal(t, "us-gaap_Assets", c)

	_, ok = ix.ConceptForLabel("Assets, verbose")
	assert.False(t, ok)
}

func TestLabelIndex_FindByQuery(t *testing.T) {
	ix := buildFixtureLabels(t)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"all words must match", "earnings per share", []string{"us-gaap_EarningsPerShareBasic", "us-gaap_EarningsPerShareDiluted"}},
		{"substring inside a word", "shares", []string{"us-gaap_SharesOutstanding"}},
		{"case insensitive", "GOODWILL", []string{"us-gaap_Goodwill"}},
		{"no match", "cash flow", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ix.FindByQuery(tt.query))
		})
	}
}

func TestLabelIndex_EmptyQueryMatchesAll(t *testing.T) {
	ix := buildFixtureLabels(t)

	got := ix.FindByQuery("   ")
	assert.Len(t, got, ix.Len())
	assert.Equal(t, "us-gaap_Assets", got[0], "insertion order")
}

func TestLabelIndex_NoArcs(t *testing.T) {
	doc := `<link:linkbase xmlns:link="http://www.xbrl.org/2003/linkbase" xmlns:xlink="http://www.w3.org/1999/xlink">
  <link:labelLink xlink:type="extended">
    <link:loc xlink:type="locator" xlink:href="x.xsd#us-gaap_Assets" xlink:label="loc_Assets"/>
    <link:label xlink:type="resource" xlink:label="lab_Assets" xlink:role="http://www.xbrl.org/2003/role/label">Total assets</link:label>
  </link:labelLink>
</link:linkbase>`

	ix, err := BuildLabelIndex(strings.NewReader(doc), Namespaces{"link": LinkbaseNS, "xlink": XLinkNS})
	require.NoError(t, err)
	assert.Equal(t, 0, ix.Len())
	assert.Empty(t, ix.FindByQuery("assets"))
}
