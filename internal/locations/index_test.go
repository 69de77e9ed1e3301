package locations

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory Store that counts fetches.
type fakeStore struct {
	mu      sync.Mutex
	entries []Entry
	err     error
	fetches int
}

func (s *fakeStore) FetchEntries(ctx context.Context) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetches++
	if s.err != nil {
		return nil, s.err
	}
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	for i := range out {
		out[i].NormalizeCoordinates()
	}
	return out, nil
}

func (s *fakeStore) fetchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetches
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func testEntries() []Entry {
	return []Entry{
		{
			CentreID:   1,
			CentreName: "Eastgate Bondi Junction",
			Suburb:     strPtr("Bondi Junction"),
			City:       strPtr("Sydney"),
			State:      strPtr("NSW"),
			Postcode:   strPtr("2022"),
			Latitude:   floatPtr(-33.8912),
			Longitude:  floatPtr(151.2501),
		},
		{
			CentreID:   2,
			CentreName: "Westfield Parramatta",
			Suburb:     strPtr("Parramatta"),
			City:       strPtr("Sydney"),
			State:      strPtr("NSW"),
			Postcode:   strPtr("2150"),
			Latitude:   floatPtr(-33.8170),
			Longitude:  floatPtr(151.0043),
		},
		{
			CentreID:   3,
			CentreName: "Queen Street Mall",
			Suburb:     strPtr("Brisbane City"),
			City:       strPtr("Brisbane"),
			State:      strPtr("QLD"),
			Postcode:   strPtr("4000"),
			Latitude:   floatPtr(-27.4698),
			Longitude:  floatPtr(153.0251),
		},
		{
			CentreID:   4,
			CentreName: "Chadstone",
			Suburb:     strPtr("Chadstone"),
			City:       strPtr("Melbourne"),
			State:      strPtr("VIC"),
			Postcode:   strPtr("3148"),
			// No coordinates: excluded from radius search.
		},
		{
			CentreID:   5,
			CentreName: "Sydney CBD Pop-Up",
			Suburb:     strPtr("Sydney"),
			City:       strPtr("Sydney"),
			State:      strPtr("NSW"),
			Postcode:   strPtr("2000"),
			Latitude:   floatPtr(-33.8688),
			Longitude:  floatPtr(151.2093),
		},
	}
}

func newTestIndex() (*Index, *fakeStore) {
	store := &fakeStore{entries: testEntries()}
	return NewIndex(store), store
}

func TestEnsureBuildsOnce(t *testing.T) {
	ix, store := newTestIndex()
	ctx := context.Background()

	first, err := ix.Ensure(ctx)
	require.NoError(t, err)
	assert.Len(t, first, 5)

	_, err = ix.Ensure(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, store.fetchCount(), "second Ensure must not re-fetch")
}

func TestEnsureSingleFlight(t *testing.T) {
	ix, store := newTestIndex()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			entries, err := ix.Ensure(ctx)
			assert.NoError(t, err)
			assert.Len(t, entries, 5)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, store.fetchCount(), "concurrent first calls must share one build")
}

func TestEnsurePropagatesStoreError(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	ix := NewIndex(store)

	_, err := ix.Ensure(context.Background())
	require.Error(t, err)

	// A failed build must not be cached.
	store.mu.Lock()
	store.err = nil
	store.entries = testEntries()
	store.mu.Unlock()

	entries, err := ix.Ensure(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 5)
}

func TestRefreshForcesRebuild(t *testing.T) {
	ix, store := newTestIndex()
	ctx := context.Background()

	_, err := ix.Ensure(ctx)
	require.NoError(t, err)

	store.mu.Lock()
	store.entries = store.entries[:2]
	store.mu.Unlock()

	ix.Refresh()

	entries, err := ix.Ensure(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "refresh must discard the old snapshot wholesale")
	assert.Equal(t, 2, store.fetchCount())
}

func TestFindBySuburbOrCity(t *testing.T) {
	ix, _ := newTestIndex()
	ctx := context.Background()

	tests := []struct {
		name    string
		query   string
		wantIDs []int
	}{
		{name: "exact suburb", query: "Parramatta", wantIDs: []int{2}},
		{name: "partial suburb", query: "bondi", wantIDs: []int{1}},
		{name: "city match", query: "brisbane", wantIDs: []int{3}},
		{name: "typo within distance two", query: "parramata", wantIDs: []int{2}},
		{name: "transposed letters", query: "chadsotne", wantIDs: []int{4}},
		{name: "no match", query: "alice springs", wantIDs: nil},
		{name: "empty query", query: "   ", wantIDs: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ix.FindBySuburbOrCity(ctx, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.wantIDs, centreIDs(got))
		})
	}
}

func TestFindByArea(t *testing.T) {
	ix, _ := newTestIndex()
	ctx := context.Background()

	tests := []struct {
		name    string
		query   string
		wantIDs []int
	}{
		{name: "alias with postcode ranges", query: "eastern suburbs", wantIDs: []int{1}},
		{name: "alias matching suburb list", query: "Western Sydney", wantIDs: []int{2}},
		{name: "state-only alias matches whole state", query: "queensland", wantIDs: []int{3}},
		{name: "city alias", query: "brisbane", wantIDs: []int{3}},
		{name: "unknown area falls back to suburb lookup", query: "chadstone", wantIDs: []int{4}},
		{name: "sydney alias spans cbd and suburbs", query: "sydney", wantIDs: []int{1, 2, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ix.FindByArea(ctx, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.wantIDs, centreIDs(got))
		})
	}
}

func TestFindNearCoordinates(t *testing.T) {
	ix, _ := newTestIndex()
	ctx := context.Background()

	// Sydney CBD origin: the pop-up sits on it, Bondi Junction ~4-6km out.
	results, err := ix.FindNearCoordinates(ctx, -33.8688, 151.2093, 10)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, 5, results[0].Entry.CentreID)
	assert.Equal(t, 0.0, results[0].DistanceKm)
	assert.Equal(t, 1, results[1].Entry.CentreID)
	assert.Greater(t, results[1].DistanceKm, 3.0)
	assert.Less(t, results[1].DistanceKm, 6.0)
}

func TestFindNearCoordinatesTightRadius(t *testing.T) {
	ix, _ := newTestIndex()

	results, err := ix.FindNearCoordinates(context.Background(), -33.8912, 151.2501, 3)
	require.NoError(t, err)
	require.Len(t, results, 1, "only Bondi Junction itself within 3km")
	assert.Equal(t, 1, results[0].Entry.CentreID)
}

func TestFindNearCoordinatesExcludesMissingCoordinates(t *testing.T) {
	ix, _ := newTestIndex()

	// Huge radius: everything with coordinates matches, Chadstone (no
	// coordinates) must be absent rather than treated as distance zero.
	results, err := ix.FindNearCoordinates(context.Background(), -33.8688, 151.2093, 100000)
	require.NoError(t, err)
	assert.Len(t, results, 4)
	for _, r := range results {
		assert.NotEqual(t, 4, r.Entry.CentreID)
	}
}

func TestFindNearCoordinatesSorted(t *testing.T) {
	ix, _ := newTestIndex()

	results, err := ix.FindNearCoordinates(context.Background(), -33.8688, 151.2093, 100000)
	require.NoError(t, err)
	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i-1].DistanceKm, results[i].DistanceKm)
	}
}

func TestNearbyCentres(t *testing.T) {
	ix, _ := newTestIndex()
	ctx := context.Background()

	results, err := ix.NearbyCentres(ctx, 5, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].Entry.CentreID, "target centre itself must be excluded")
	assert.Greater(t, results[0].DistanceKm, 3.0)
	assert.Less(t, results[0].DistanceKm, 6.0)

	tight, err := ix.NearbyCentres(ctx, 5, 3)
	require.NoError(t, err)
	assert.Empty(t, tight)
}

func TestNearbyCentresWithoutCoordinates(t *testing.T) {
	ix, _ := newTestIndex()

	results, err := ix.NearbyCentres(context.Background(), 4, 100)
	require.NoError(t, err)
	assert.Empty(t, results, "a centre without coordinates has no neighbours")
}

func TestNearbyCentresUnknownCentre(t *testing.T) {
	ix, _ := newTestIndex()

	results, err := ix.NearbyCentres(context.Background(), 999, 100)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func centreIDs(entries []Entry) []int {
	if len(entries) == 0 {
		return nil
	}
	ids := make([]int, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.CentreID)
	}
	return ids
}
