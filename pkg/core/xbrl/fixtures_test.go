package xbrl

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"xbrl_statements/pkg/core/xbrl/xbrltest"
)

const (
	labFixture   = xbrltest.Labels
	preFixture   = xbrltest.Presentation
	insFixture   = xbrltest.Instance
	longFootnote = xbrltest.LongFootnote
)

func testNamespaces(t *testing.T) Namespaces {
	t.Helper()
	ns, err := DiscoverNamespaces(strings.NewReader(labFixture), strings.NewReader(preFixture), strings.NewReader(insFixture))
	require.NoError(t, err)
	return ns
}

func loadFixtureFiling(t *testing.T, opts LoadOptions) *Filing {
	t.Helper()
	f, err := LoadFilingBytes(FilingPaths{Instance: "acme-20250331_htm.xml"},
		[]byte(labFixture), []byte(preFixture), []byte(insFixture), opts, zerolog.Nop())
	require.NoError(t, err)
	return f
}

func writeFixtureFiling(t *testing.T) string {
	t.Helper()
	return xbrltest.WriteFiling(t, t.TempDir())
}
