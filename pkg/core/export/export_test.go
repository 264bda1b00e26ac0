package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xbrl_statements/pkg/core/xbrl"
)

func sampleStatement() *xbrl.Statement {
	s := xbrl.NewScaler(xbrl.ScaleMinusDecimals, 0)
	return &xbrl.Statement{
		ID:         "stmt-1",
		Query:      "Balance Sheet",
		Source:     xbrl.SourcePresentation,
		RoleURI:    "http://acme.com/role/BalanceSheets",
		ContextIDs: []string{"c-1", "c-2"},
		Dates:      []string{"2025-03-31", "2024-12-31"},
		Rows: []xbrl.Row{
			{Concept: "us-gaap_Cash", Label: "Cash, and equivalents", Values: []xbrl.Value{
				s.Normalize(xbrl.Fact{Text: "1,234", Decimals: "-3"}),
				s.Normalize(xbrl.Fact{Text: "(500)", Decimals: "INF"}),
			}},
			{Concept: "us-gaap_EarningsPerShareBasic", Label: "EPS", Values: []xbrl.Value{
				s.Normalize(xbrl.Fact{Text: "1.25", Decimals: "INF"}),
				xbrl.TextValue(xbrl.NotAvailable),
			}},
		},
	}
}

func TestOutputDirName(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"ticker and date", "/data/goog/q1/goog-20250331_htm.xml", "financial_statements_GOOG_20250331"},
		{"relative", "acme/Q1/acme-20241231_htm.xml", "financial_statements_ACME_20241231"},
		{"no date in prefix", "/data/goog/q1/goog_htm.xml", "financial_statements_goog"},
		{"too shallow", "goog-20250331_htm.xml", "financial_statements_goog-20250331"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OutputDirName(tt.path))
		})
	}
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "balance_sheet.csv", FileName("Balance Sheet", FormatCSV))
	assert.Equal(t, "earnings_per_share.md", FileName("Earnings per share!", FormatMarkdown))
	assert.Equal(t, "cashflow_2025.json", FileName("Cash-Flow 2025", FormatJSON))
	assert.Equal(t, "statement.html", FileName("???", FormatHTML))
}

func TestStem(t *testing.T) {
	assert.Equal(t, "balance_sheet", Stem("Balance Sheet"))
	assert.Equal(t, Stem("balance sheet"), Stem("BALANCE SHEET"))
	assert.Equal(t, "balancesheet", Stem("Balance-Sheet!"))
	assert.Equal(t, "statement", Stem(""))
}

func TestParseFormats(t *testing.T) {
	got, err := ParseFormats([]string{"CSV", "markdown", "md", "html", "json"})
	require.NoError(t, err)
	assert.Equal(t, []Format{FormatCSV, FormatMarkdown, FormatHTML, FormatJSON}, got)

	_, err = ParseFormats([]string{"xlsx"})
	assert.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleStatement()))

	want := "Line Item,2025-03-31,2024-12-31\n" +
		"\"Cash, and equivalents\",1234000,-500\n" +
		"EPS,1.25,N/A\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMarkdown(&buf, sampleStatement()))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "## Balance Sheet\n"))
	assert.Contains(t, out, "| Line Item | 2025-03-31 | 2024-12-31 |\n")
	assert.Contains(t, out, "| EPS | 1.25 | N/A |\n")
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, sampleStatement()))

	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)

	assert.Equal(t, "Balance Sheet", doc.Find("h2").Text())
	var header []string
	doc.Find("thead th").Each(func(_ int, s *goquery.Selection) {
		header = append(header, s.Text())
	})
	assert.Equal(t, []string{"Line Item", "2025-03-31", "2024-12-31"}, header)
	assert.Equal(t, 2, doc.Find("tbody tr").Length())
	assert.Equal(t, "1234000", doc.Find("tbody tr").First().Find("td").Eq(1).Text())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleStatement()))

	var got struct {
		Query string `json:"query"`
		Rows  []struct {
			Label  string            `json:"label"`
			Values []json.RawMessage `json:"values"`
		} `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "Balance Sheet", got.Query)
	require.Len(t, got.Rows, 2)
	assert.Equal(t, "1234000", string(got.Rows[0].Values[0]))
	assert.Equal(t, `"N/A"`, string(got.Rows[1].Values[1]))
}

func TestExporter_Export(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "financial_statements_ACME_20250331")
	e := NewExporter(dir, []Format{FormatCSV, FormatJSON}, zerolog.Nop())

	paths, err := e.Export(sampleStatement())
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "balance_sheet.csv"),
		filepath.Join(dir, "balance_sheet.json"),
	}, paths)

	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Line Item,"))
}

func TestNewExporter_DefaultsToCSV(t *testing.T) {
	e := NewExporter(t.TempDir(), nil, zerolog.Nop())
	assert.Equal(t, []Format{FormatCSV}, e.Formats)
}
