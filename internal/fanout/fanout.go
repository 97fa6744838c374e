// Package fanout runs one lookup per item concurrently and joins the
// results, isolating per-item failures.
package fanout

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Map calls fn for every item with at most limit calls in flight and
// returns the results in input order. When fn fails for an item, its slot
// is filled by fallback (or the zero value if fallback is nil) and the
// failure is reported in the joined error. The batch itself never aborts,
// so callers may use the results even when err != nil.
func Map[T, R any](ctx context.Context, items []T, limit int, fn func(context.Context, T) (R, error), fallback func(T, error) R) ([]R, error) {
	results := make([]R, len(items))
	errs := make([]error, len(items))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, item := range items {
		g.Go(func() error {
			r, err := fn(ctx, item)
			if err != nil {
				errs[i] = fmt.Errorf("item %d: %w", i, err)
				if fallback != nil {
					r = fallback(item, err)
				} else {
					var zero R
					r = zero
				}
			}
			results[i] = r
			return nil
		})
	}
	_ = g.Wait()

	return results, errors.Join(errs...)
}
