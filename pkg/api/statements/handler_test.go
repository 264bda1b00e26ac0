package statements

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xbrl_statements/pkg/core/metrics"
	"xbrl_statements/pkg/core/xbrl"
	"xbrl_statements/pkg/core/xbrl/xbrltest"
)

func newTestServer(t *testing.T) (*httptest.Server, *metrics.Metrics) {
	t.Helper()
	paths, err := xbrl.LocateFiling(xbrltest.WriteFiling(t, t.TempDir()))
	require.NoError(t, err)
	filing, err := xbrl.LoadFiling(paths, xbrl.LoadOptions{}, zerolog.Nop())
	require.NoError(t, err)

	m := metrics.New(nil)
	srv := httptest.NewServer(NewHandler(filing, paths.Prefix(), m, zerolog.Nop()).Routes())
	t.Cleanup(srv.Close)
	return srv, m
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHandleStatement_JSON(t *testing.T) {
	srv, m := newTestServer(t)

	resp := get(t, srv.URL+"/api/statements?q=balance+sheet")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	var stmt xbrl.Statement
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stmt))
	assert.Equal(t, "balance sheet", stmt.Query)
	assert.Equal(t, xbrl.SourcePresentation, stmt.Source)
	assert.Equal(t, []string{"2025-03-31", "2024-12-31"}, stmt.Dates)

	var cash *xbrl.Row
	for i := range stmt.Rows {
		if stmt.Rows[i].Label == "Cash and cash equivalents" {
			cash = &stmt.Rows[i]
		}
	}
	require.NotNil(t, cash)
	assert.Equal(t, "1234000", cash.Values[0].String())
	assert.Equal(t, "-500", cash.Values[1].String())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.QueriesTotal.WithLabelValues(metrics.OutcomeResolved)))
}

func TestHandleStatement_Formats(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := get(t, srv.URL+"/api/statements?q=balance+sheet&format=csv")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), "Line Item,2025-03-31,2024-12-31\n"))

	resp = get(t, srv.URL+"/api/statements?q=goodwill&format=html")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "goodwill", doc.Find("h2").Text())
	assert.Equal(t, "350", doc.Find("tbody tr").First().Find("td").Eq(1).Text())
}

func TestHandleStatement_Errors(t *testing.T) {
	srv, m := newTestServer(t)

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"missing query", "/api/statements", http.StatusBadRequest},
		{"unknown format", "/api/statements?q=goodwill&format=xlsx", http.StatusBadRequest},
		{"no concepts", "/api/statements?q=cash+flow", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := get(t, srv.URL+tt.path)
			assert.Equal(t, tt.status, resp.StatusCode)

			var body errorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.NotEmpty(t, body.Error)
		})
	}

	resp, err := http.Post(srv.URL+"/api/statements?q=goodwill", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.QueriesTotal.WithLabelValues(metrics.OutcomeNoConcepts)))
}

type failingFiling struct{}

func (failingFiling) Resolve(string) (*xbrl.Statement, error) { return nil, errors.New("boom") }
func (failingFiling) Presentation() *xbrl.Presentation      { return nil }

func TestHandleStatement_InternalError(t *testing.T) {
	rec := httptest.NewRecorder()
	h := NewHandler(failingFiling{}, "broken", nil, zerolog.Nop())
	h.HandleStatement(rec, httptest.NewRequest(http.MethodGet, "/api/statements?q=goodwill", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "boom")
}

func TestHandleRoles(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := get(t, srv.URL+"/api/roles")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body RolesResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "acme-20250331", body.Filing)
	require.Len(t, body.Roles, 4)
	assert.NotEmpty(t, body.Roles[0].URI)
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	get(t, srv.URL+"/api/statements?q=goodwill")

	resp := get(t, srv.URL+"/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "xbrl_queries_total")
}
