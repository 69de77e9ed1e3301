package resolve

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/centrematch/internal/debug"
)

// BatchStats tracks the outcome of a batch resolution run.
type BatchStats struct {
	TotalQueries   int
	CollapsedCount int
	RankedCount    int
	NoMatchCount   int
	ErrorCount     int
	ProcessingTime time.Duration
}

// BatchResult pairs a query with its resolution outcome.
type BatchResult struct {
	Query  string
	Result *Result
	Err    error
}

// BatchResolver resolves many queries concurrently over a shared worker
// pool. The underlying resolver is read-only per query, so workers need
// no coordination beyond the pool itself.
type BatchResolver struct {
	resolver *Resolver
	pool     *ants.Pool
}

// NewBatchResolver creates a batch resolver with the given worker count.
func NewBatchResolver(resolver *Resolver, workers int) (*BatchResolver, error) {
	if workers < 1 {
		workers = 1
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}
	return &BatchResolver{resolver: resolver, pool: pool}, nil
}

// Close releases the worker pool.
func (b *BatchResolver) Close() {
	b.pool.Release()
}

// ResolveAll resolves every query, preserving input order in the returned
// results, and aggregates run statistics.
func (b *BatchResolver) ResolveAll(ctx context.Context, queries []string, categories []string) ([]BatchResult, *BatchStats, error) {
	localDebug := b.resolver.opts.Debug
	debug.Header(localDebug)
	defer debug.Footer(localDebug)

	start := time.Now()
	stats := &BatchStats{TotalQueries: len(queries)}
	results := make([]BatchResult, len(queries))

	var wg sync.WaitGroup
	for i, query := range queries {
		i, query := i, query
		wg.Add(1)
		err := b.pool.Submit(func() {
			defer wg.Done()
			res, err := b.resolver.Resolve(ctx, query, categories)
			results[i] = BatchResult{Query: query, Result: res, Err: err}
		})
		if err != nil {
			wg.Done()
			results[i] = BatchResult{Query: query, Err: fmt.Errorf("failed to submit query: %w", err)}
		}
	}
	wg.Wait()

	for _, r := range results {
		switch {
		case r.Err != nil:
			stats.ErrorCount++
		case r.Result.Collapsed:
			stats.CollapsedCount++
		case len(r.Result.Candidates) > 0:
			stats.RankedCount++
		default:
			stats.NoMatchCount++
		}
	}

	stats.ProcessingTime = time.Since(start)
	debug.Output(localDebug, "Batch resolved %d queries: %d collapsed, %d ranked, %d no-match, %d errors",
		stats.TotalQueries, stats.CollapsedCount, stats.RankedCount, stats.NoMatchCount, stats.ErrorCount)

	return results, stats, nil
}
