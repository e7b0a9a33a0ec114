package batch

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// FetchAll fetches every id concurrently, at most limit at a time (limit <= 0
// means unbounded). A failed item yields no entry; it never cancels its
// siblings. Successful results keep the relative order of ids.
func FetchAll[K comparable, T any](ctx context.Context, ids []K, limit int, fetch FetchFunc[K, T]) []T {
	slots := make([]*T, len(ids))

	// errgroup.Group without WithContext: a failing item must not cancel the rest.
	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, id := range ids {
		i, id := i, id
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("fetch %v panicked: %v", id, r)
				}
			}()
			v, err := fetch(ctx, id)
			if err != nil {
				return nil
			}
			slots[i] = &v
			return nil
		})
	}
	_ = g.Wait()

	out := make([]T, 0, len(ids))
	for _, s := range slots {
		if s != nil {
			out = append(out, *s)
		}
	}
	return out
}
