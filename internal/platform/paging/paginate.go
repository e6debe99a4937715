package paging

import (
	"context"
	"fmt"
	"time"
)

// Page is one page of upstream results. TotalPages is zero when the API did
// not report a total.
type Page[T any] struct {
	Items      []T
	TotalPages int
}

// FetchFunc loads one page. Pages are numbered from 1.
type FetchFunc[T any] func(ctx context.Context, page int) (Page[T], error)

type Options struct {
	PerPage int
	// Delay is the minimum wait between page requests. It is skipped after
	// the final page so callers never pay for a stop condition.
	Delay time.Duration
}

// Collect walks pages sequentially until a stop condition and returns every
// item seen, in order. Stop conditions, checked in this order per page:
// a short page (fewer than PerPage items), the declared total page count
// reached, or an empty page.
//
// A failing page returns that page's error together with the items gathered
// from earlier pages; the caller decides whether partial data is usable.
func Collect[T any](ctx context.Context, opts Options, fetch FetchFunc[T]) ([]T, error) {
	if fetch == nil {
		return nil, fmt.Errorf("fetch func is required")
	}
	perPage := opts.PerPage
	if perPage < 1 {
		perPage = 1
	}

	var items []T
	totalPages := 0
	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return items, err
		}

		result, err := fetch(ctx, page)
		if err != nil {
			return items, fmt.Errorf("fetch page %d: %w", page, err)
		}
		if result.TotalPages > 0 {
			totalPages = result.TotalPages
		}

		if len(result.Items) == 0 {
			return items, nil
		}
		items = append(items, result.Items...)

		if len(result.Items) < perPage {
			return items, nil
		}
		if totalPages > 0 && page >= totalPages {
			return items, nil
		}

		if opts.Delay > 0 {
			timer := time.NewTimer(opts.Delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return items, ctx.Err()
			case <-timer.C:
			}
		}
	}
}
