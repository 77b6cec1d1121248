package tasks

import (
	"context"
	"iter"

	"github.com/desertthunder/plsaver/internal/models"
)

// FetchFunc fetches the first page of a resource.
type FetchFunc[T any] func(ctx context.Context) (models.Page[T], error)

// NextFunc fetches the page a cursor points at.
type NextFunc[T any] func(ctx context.Context, cursor string) (models.Page[T], error)

// Pages lazily walks a paged resource, yielding items in API order.
//
// next is only called while the previous page carried a cursor. The first error is yielded as-is
// and ends the sequence. Stopping early fetches nothing further.
func Pages[T any](ctx context.Context, first FetchFunc[T], next NextFunc[T]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T

		page, err := first(ctx)
		for {
			if err != nil {
				yield(zero, err)
				return
			}

			for _, item := range page.Items {
				if !yield(item, nil) {
					return
				}
			}

			if !page.HasNext() {
				return
			}
			if err := ctx.Err(); err != nil {
				yield(zero, err)
				return
			}
			page, err = next(ctx, page.Next)
		}
	}
}

// Collect drains seq into a slice, stopping at the first error.
func Collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	var items []T
	for item, err := range seq {
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
