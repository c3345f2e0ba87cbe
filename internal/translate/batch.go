package translate

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// batchFunc sends one batch to a provider.
type batchFunc func(ctx context.Context, items []TranslationItem) ([]TranslationResult, error)

// batcher splits items into BatchSize batches and runs them on up to
// concurrency workers. Results come back sorted by item index.
type batcher struct {
	size    int
	limiter *rate.Limiter
	send    batchFunc
}

func newBatcher(opts Options, send batchFunc) *batcher {
	b := &batcher{size: opts.batchSize(), send: send}
	if opts.RequestsPerMinute > 0 {
		b.limiter = rate.NewLimiter(rate.Limit(float64(opts.RequestsPerMinute)/60.0), 1)
	}
	return b
}

func (b *batcher) split(items []TranslationItem) [][]TranslationItem {
	var batches [][]TranslationItem
	for i := 0; i < len(items); i += b.size {
		end := min(i+b.size, len(items))
		batches = append(batches, items[i:end])
	}
	return batches
}

func (b *batcher) run(
	ctx context.Context,
	items []TranslationItem,
	concurrency int,
) ([]TranslationResult, error) {
	if len(items) == 0 {
		return []TranslationResult{}, nil
	}
	if concurrency <= 0 {
		concurrency = 1
	}

	batches := b.split(items)
	results := make([][]TranslationResult, len(batches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, batch := range batches {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if b.limiter != nil {
				if err := b.limiter.Wait(gctx); err != nil {
					return fmt.Errorf("rate limiter: %w", err)
				}
			}
			got, err := b.send(gctx, batch)
			if err != nil {
				return fmt.Errorf("batch %d failed: %w", i, err)
			}
			results[i] = got
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []TranslationResult
	for _, r := range results {
		all = append(all, r...)
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].Index < all[j].Index
	})

	return all, nil
}
