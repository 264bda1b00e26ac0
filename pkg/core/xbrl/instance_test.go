package xbrl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFixtureRepository(t *testing.T) *Repository {
	t.Helper()
	repo, err := LoadRepository(strings.NewReader(insFixture), testNamespaces(t))
	require.NoError(t, err)
	return repo
}

func TestLoadRepository_Contexts(t *testing.T) {
	repo := loadFixtureRepository(t)

	ids := []string{}
	for _, c := range repo.Contexts() {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"c-1", "c-2", "c-3", "c-4", "c-5"}, ids, "forever context is skipped")

	c3, ok := repo.Context("c-3")
	require.True(t, ok)
	assert.True(t, c3.Dimensional)
	assert.Equal(t, PeriodInstant, c3.Type)

	c4, ok := repo.Context("c-4")
	require.True(t, ok)
	assert.Equal(t, Context{ID: "c-4", Type: PeriodDuration, Date: "2025-03-31", StartDate: "2025-01-01"}, c4)
}

func TestLoadRepository_Facts(t *testing.T) {
	repo := loadFixtureRepository(t)

	assert.Equal(t, 12, repo.FactCount())
	assert.Equal(t, 1, repo.SkippedContext)
	assert.Equal(t, 1, repo.SkippedNamespace)

	cash, ok := repo.Fact("us-gaap_Cash", "c-1")
	require.True(t, ok)
	assert.Equal(t, Fact{Concept: "us-gaap_Cash", ContextRef: "c-1", Text: "1,234", Scale: "0", Decimals: "-3", UnitRef: "usd"}, cash)

	gw, ok := repo.Fact("us-gaap_Goodwill", "c-1")
	require.True(t, ok)
	assert.Equal(t, "350", gw.Text, "later duplicate wins")

	rev, ok := repo.Fact("us-gaap_Revenues", "c-5")
	require.True(t, ok, "context declared after its fact")
	assert.Equal(t, "2000", rev.Text)

	_, ok = repo.Fact("us-gaap_Revenues", "c-missing")
	assert.False(t, ok)
}

func TestRepository_FactsFor(t *testing.T) {
	repo := loadFixtureRepository(t)

	rows := repo.FactsFor([]string{"us-gaap_Liabilities", "us-gaap_Nothing"}, []string{"c-1", "c-2"})
	require.Len(t, rows, 2)

	assert.Equal(t, "4000", rows[0].Facts[0].Text)
	assert.Equal(t, NotAvailableFact("us-gaap_Liabilities", "c-2"), rows[0].Facts[1])
	for _, f := range rows[1].Facts {
		assert.Equal(t, NotAvailable, f.Text)
	}
}

func TestRepository_ContextDates(t *testing.T) {
	repo := loadFixtureRepository(t)

	assert.Equal(t, []string{"2025-03-31", "2024-03-31", "c-unknown"},
		repo.ContextDates([]string{"c-1", "c-5", "c-unknown"}))
}
