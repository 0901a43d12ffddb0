package crawler

import (
	"context"
	"sync"
)

type ItemResult struct {
	Processed    int
	Succeeded    int
	Failed       int
	FailureKinds map[string]int
}

func (r *ItemResult) record(err error) {
	r.Processed++
	if err == nil {
		r.Succeeded++
		return
	}
	r.Failed++
	kind := KindOf(err)
	if kind == "" {
		kind = ErrorKindUnknown
	}
	if r.FailureKinds == nil {
		r.FailureKinds = make(map[string]int, 1)
	}
	r.FailureKinds[string(kind)]++
}

// ForEachLimit walks items with at most limit workers in flight. Catalog
// crawls run with limit=1 so product operations stay strictly sequential; the
// concurrent path serves independent work like image downloads. A canceled
// ctx stops new items from starting; in-flight ones finish and are tallied.
func ForEachLimit[T any](ctx context.Context, items []T, limit int, fn func(context.Context, T) error) ItemResult {
	if ctx == nil {
		ctx = context.Background()
	}

	var out ItemResult
	if limit <= 1 {
		for _, it := range items {
			if ctx.Err() != nil {
				return out
			}
			out.record(fn(ctx, it))
		}
		return out
	}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, limit)
	)
	for _, it := range items {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(it T) {
			defer wg.Done()
			defer func() { <-sem }()
			err := fn(ctx, it)
			mu.Lock()
			out.record(err)
			mu.Unlock()
		}(it)
	}
	wg.Wait()
	return out
}
