package resolve

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchResolveAll(t *testing.T) {
	r := newTestResolver(centreList())
	br, err := NewBatchResolver(r, 4)
	require.NoError(t, err)
	defer br.Close()

	queries := []string{
		"2x3m fashion at Eastgate Bondi", // collapses
		"bondi",                          // collapses (strong top)
		"woolloomooloo wharf",            // no match
		"charity at parramatta",          // collapses on suburb
	}

	results, stats, err := br.ResolveAll(context.Background(), queries, testCategories)
	require.NoError(t, err)
	require.Len(t, results, 4)

	// Results keep input order regardless of worker scheduling.
	for i, q := range queries {
		assert.Equal(t, q, results[i].Query)
		require.NoError(t, results[i].Err)
	}

	assert.Equal(t, 4, stats.TotalQueries)
	assert.Equal(t, 3, stats.CollapsedCount)
	assert.Equal(t, 1, stats.NoMatchCount)
	assert.Equal(t, 0, stats.ErrorCount)
	assert.Greater(t, stats.ProcessingTime.Nanoseconds(), int64(0))
}

func TestBatchResolveAllEmpty(t *testing.T) {
	r := newTestResolver(centreList())
	br, err := NewBatchResolver(r, 2)
	require.NoError(t, err)
	defer br.Close()

	results, stats, err := br.ResolveAll(context.Background(), nil, testCategories)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, 0, stats.TotalQueries)
}

func TestNewBatchResolverClampsWorkers(t *testing.T) {
	r := newTestResolver(centreList())
	br, err := NewBatchResolver(r, 0)
	require.NoError(t, err)
	defer br.Close()

	results, _, err := br.ResolveAll(context.Background(), []string{"bondi"}, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
}
