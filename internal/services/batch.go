package services

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// MaxBatchSize is the per-call id limit of videos.list and channels.list.
const MaxBatchSize = 50

// BatchFunc fetches the records of one batch of ids. Ids unknown upstream are
// simply missing from the returned slice.
type BatchFunc[T any] func(ctx context.Context, ids []string) ([]T, error)

// Chunk splits ids into contiguous batches of at most size.
func Chunk(ids []string, size int) [][]string {
	if size <= 0 || size > MaxBatchSize {
		size = MaxBatchSize
	}
	batches := make([][]string, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		batches = append(batches, ids[start:end])
	}
	return batches
}

// FetchInBatches issues one fetch per batch and merges every returned record
// into a map keyed by keyOf. With concurrency > 1 batches run in parallel;
// the merge is applied in batch order either way, so the first record seen
// for an id always wins. Any failed batch fails the whole fetch.
func FetchInBatches[T any](ctx context.Context, ids []string, size, concurrency int, fetch BatchFunc[T], keyOf func(T) string) (map[string]T, error) {
	batches := Chunk(ids, size)
	results := make([][]T, len(batches))

	if concurrency <= 1 {
		for i, batch := range batches {
			records, err := fetch(ctx, batch)
			if err != nil {
				return nil, err
			}
			results[i] = records
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(concurrency)
		for i, batch := range batches {
			i, batch := i, batch
			g.Go(func() error {
				records, err := fetch(gctx, batch)
				if err != nil {
					return err
				}
				results[i] = records
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	merged := make(map[string]T, len(ids))
	for _, records := range results {
		for _, rec := range records {
			key := keyOf(rec)
			if _, ok := merged[key]; ok {
				continue
			}
			merged[key] = rec
		}
	}
	return merged, nil
}
