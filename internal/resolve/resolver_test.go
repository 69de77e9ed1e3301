package resolve

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centrematch/internal/locations"
)

type stubStore struct {
	entries []locations.Entry
}

func (s *stubStore) FetchEntries(ctx context.Context) ([]locations.Entry, error) {
	return s.entries, nil
}

func strPtr(s string) *string { return &s }

var testCategories = []string{"Charities", "Fashion", "Food & Beverage", "Mobile Phones"}

func centreList() []locations.Entry {
	return []locations.Entry{
		{CentreID: 1, CentreName: "Eastgate Bondi", Suburb: strPtr("Bondi Junction"), State: strPtr("NSW")},
		{CentreID: 2, CentreName: "Bondi Junction Plaza", Suburb: strPtr("Bondi Junction"), State: strPtr("NSW")},
		{CentreID: 3, CentreName: "Fashion Mall", Suburb: strPtr("Chatswood"), State: strPtr("NSW")},
		{CentreID: 4, CentreName: "Westfield Parramatta", Suburb: strPtr("Parramatta"), State: strPtr("NSW")},
	}
}

func newTestResolver(entries []locations.Entry) *Resolver {
	return NewResolver(locations.NewIndex(&stubStore{entries: entries}))
}

func TestResolveCategoryAndLocation(t *testing.T) {
	r := newTestResolver([]locations.Entry{
		{CentreID: 1, CentreName: "Eastgate Bondi Junction", Suburb: strPtr("Bondi")},
	})

	result, err := r.Resolve(context.Background(), "charity at bondi", testCategories)
	require.NoError(t, err)

	assert.Equal(t, "charity", result.Category)
	assert.Equal(t, []string{"bondi"}, result.ResidualTokens)
	require.Len(t, result.Candidates, 1)
	assert.Equal(t, 1.0, result.Candidates[0].Score)
	assert.True(t, result.Collapsed)
	require.NotNil(t, result.Best)
	assert.Equal(t, 1, result.Best.Entry.CentreID)
}

func TestResolveCollapsesToSingleCentre(t *testing.T) {
	r := newTestResolver(centreList())

	result, err := r.Resolve(context.Background(), "2x3m fashion at Eastgate Bondi", testCategories)
	require.NoError(t, err)

	assert.Equal(t, "fashion", result.Category)
	assert.Equal(t, []string{"eastgate", "bondi"}, result.ResidualTokens)

	require.True(t, result.Collapsed)
	require.NotNil(t, result.Best)
	assert.Equal(t, "Eastgate Bondi", result.Best.Entry.CentreName)
	assert.GreaterOrEqual(t, result.Best.Score, 0.7)
}

func TestResolveDropsZeroScores(t *testing.T) {
	r := newTestResolver(centreList())

	result, err := r.Resolve(context.Background(), "2x3m fashion at Eastgate Bondi", testCategories)
	require.NoError(t, err)

	for _, c := range result.Candidates {
		assert.Greater(t, c.Score, 0.0)
		assert.NotEqual(t, "Fashion Mall", c.Entry.CentreName,
			"category token stripped, nothing left to match Fashion Mall")
	}
}

func TestResolveKeepsRankedListWhenAmbiguous(t *testing.T) {
	r := newTestResolver([]locations.Entry{
		{CentreID: 1, CentreName: "Bondi Beach Markets", Suburb: strPtr("Bondi")},
		{CentreID: 2, CentreName: "Bondi Junction Plaza", Suburb: strPtr("Bondi Junction")},
	})

	// Each centre matches one of the two tokens: top score 0.5, two
	// contenders, no collapse.
	result, err := r.Resolve(context.Background(), "bondi westgarden", testCategories)
	require.NoError(t, err)

	assert.False(t, result.Collapsed)
	assert.Nil(t, result.Best)
	assert.Len(t, result.Candidates, 2)
	for _, c := range result.Candidates {
		assert.Equal(t, 0.5, c.Score)
	}
}

func TestResolvePureCategoryQuery(t *testing.T) {
	r := newTestResolver(centreList())

	result, err := r.Resolve(context.Background(), "fashion", testCategories)
	require.NoError(t, err)

	assert.Equal(t, "fashion", result.Category)
	assert.True(t, result.CategoryOnly)
	assert.False(t, result.Collapsed)
	assert.Len(t, result.Candidates, 4, "a pure category query keeps every centre as a potential match")
}

func TestResolveCategorySynonymsStripped(t *testing.T) {
	r := newTestResolver(centreList())

	// "clothing" is a synonym of "fashion": both tokens strip, leaving a
	// pure category query.
	result, err := r.Resolve(context.Background(), "fashion clothing", testCategories)
	require.NoError(t, err)

	assert.Equal(t, "fashion", result.Category)
	assert.Empty(t, result.ResidualTokens)
	assert.True(t, result.CategoryOnly)
}

func TestResolveStopwordsOnlyQuery(t *testing.T) {
	r := newTestResolver(centreList())

	result, err := r.Resolve(context.Background(), "at the in for", nil)
	require.NoError(t, err)

	assert.Empty(t, result.ResidualTokens)
	assert.True(t, result.CategoryOnly)
}

func TestResolveNoMatchIsEmptyNotError(t *testing.T) {
	r := newTestResolver(centreList())

	result, err := r.Resolve(context.Background(), "woolloomooloo wharf", testCategories)
	require.NoError(t, err)

	assert.Empty(t, result.Candidates)
	assert.False(t, result.Collapsed)
	assert.Nil(t, result.Best)
}

func TestResolveShortTokensExcluded(t *testing.T) {
	r := newTestResolver(centreList())

	// "w" is too short to carry signal and must not dilute the score.
	result, err := r.Resolve(context.Background(), "w bondi", testCategories)
	require.NoError(t, err)

	require.NotEmpty(t, result.Candidates)
	assert.Equal(t, 1.0, result.Candidates[0].Score)
}

func TestResolveSuburbScoredIndependently(t *testing.T) {
	r := newTestResolver([]locations.Entry{
		// Suburb matches both tokens, name matches neither.
		{CentreID: 1, CentreName: "The Galleria", Suburb: strPtr("Bondi Junction")},
	})

	result, err := r.Resolve(context.Background(), "bondi junction", testCategories)
	require.NoError(t, err)

	require.Len(t, result.Candidates, 1)
	assert.Equal(t, 1.0, result.Candidates[0].Score)
	assert.True(t, result.Collapsed)
}

func TestResolveStrongTopScoreCollapsesDespiteContenders(t *testing.T) {
	r := newTestResolver([]locations.Entry{
		{CentreID: 1, CentreName: "Bondi Beach Markets", Suburb: strPtr("Bondi")},
		{CentreID: 2, CentreName: "Bondi Junction Plaza", Suburb: strPtr("Bondi Junction")},
	})

	// Both centres score 1.0; the strong-top rule still collapses.
	result, err := r.Resolve(context.Background(), "bondi", testCategories)
	require.NoError(t, err)

	assert.True(t, result.Collapsed)
	require.NotNil(t, result.Best)
	assert.Equal(t, 1, result.Best.Entry.CentreID)
}

func TestResolveRankingIsDescending(t *testing.T) {
	r := newTestResolver(centreList())

	result, err := r.Resolve(context.Background(), "bondi junction plaza", testCategories)
	require.NoError(t, err)

	require.NotEmpty(t, result.Candidates)
	for i := 1; i < len(result.Candidates); i++ {
		assert.GreaterOrEqual(t, result.Candidates[i-1].Score, result.Candidates[i].Score)
	}
	assert.Equal(t, 2, result.Candidates[0].Entry.CentreID)
}

func TestCollapseThresholdOverrides(t *testing.T) {
	entries := []locations.Entry{
		{CentreID: 1, CentreName: "Bondi Beach Markets", Suburb: strPtr("Bondi")},
		{CentreID: 2, CentreName: "Bondi Junction Plaza", Suburb: strPtr("Bondi Junction")},
	}
	opts := DefaultOptions()
	opts.CollapseStrong = 1.1 // unreachable: only the single-contender rule can collapse

	r := NewResolverWithOptions(locations.NewIndex(&stubStore{entries: entries}), opts)
	result, err := r.Resolve(context.Background(), "bondi", testCategories)
	require.NoError(t, err)

	assert.False(t, result.Collapsed, "two contenders and strong rule disabled")
}
