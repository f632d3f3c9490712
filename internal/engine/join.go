package engine

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// fanOut runs fn for every index in [0, n) with at most limit tasks in flight
// and waits for all of them. Results are returned in index order.
//
// If any task fails, the first error is returned and every result, including
// those that completed successfully, is discarded. A failure does not cancel
// siblings; each task runs to completion or failure on its own.
func fanOut[T any](ctx context.Context, limit, n int, fn func(ctx context.Context, i int) (T, error)) ([]T, error) {
	results := make([]T, n)

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i := range n {
		g.Go(func() error {
			v, err := fn(ctx, i)
			if err != nil {
				return err
			}
			results[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
