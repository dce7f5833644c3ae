// Package listview drives paginated, infinitely scrolled lists of remote records.
package listview

import (
	"context"
	"strconv"

	"github.com/msquare-market/admin/internal/domain"
	"github.com/pkg/errors"
)

// DefaultPageSize rows requested per page.
const DefaultPageSize = 25

// Query is one page request.
type Query struct {
	Filter   domain.Filter
	PageSize int
	// Cursor zero value requests the first page.
	Cursor domain.PageCursor
}

// Fetcher loads one page of records.
type Fetcher[T any] interface {
	Fetch(ctx context.Context, q Query) (domain.Page[T], error)
}

// FetchFunc adapts a function to Fetcher.
type FetchFunc[T any] func(ctx context.Context, q Query) (domain.Page[T], error)

func (f FetchFunc[T]) Fetch(ctx context.Context, q Query) (domain.Page[T], error) {
	return f(ctx, q)
}

// CursorFunc is the shape of last-id paginated client endpoints.
type CursorFunc[T any] func(ctx context.Context, filter domain.Filter, pageSize int, cursor domain.PageCursor) (domain.Page[T], error)

// Cursor adapts a last-id endpoint.
func Cursor[T any](fn CursorFunc[T]) Fetcher[T] {
	return FetchFunc[T](func(ctx context.Context, q Query) (domain.Page[T], error) {
		return fn(ctx, q.Filter, q.PageSize, q.Cursor)
	})
}

// OffsetFunc is the shape of page/pageSize client endpoints.
type OffsetFunc[T any] func(ctx context.Context, filter domain.Filter, page, pageSize int) (domain.Page[T], error)

// OffsetFetcher serves page-numbered endpoints through the cursor contract.
// The cursor LastID holds the number of the last loaded page.
type OffsetFetcher[T any] struct {
	fn OffsetFunc[T]
}

func NewOffsetFetcher[T any](fn OffsetFunc[T]) *OffsetFetcher[T] {
	return &OffsetFetcher[T]{fn: fn}
}

func (o *OffsetFetcher[T]) Fetch(ctx context.Context, q Query) (domain.Page[T], error) {
	page := 1
	if q.Cursor.LastID != "" {
		last, err := strconv.Atoi(q.Cursor.LastID)
		if err != nil || last < 1 {
			return domain.Page[T]{}, errors.Errorf("invalid page cursor %q", q.Cursor.LastID)
		}
		page = last + 1
	}

	res, err := o.fn(ctx, q.Filter, page, q.PageSize)
	if err != nil {
		return domain.Page[T]{}, err
	}

	loaded := int64((page-1)*q.PageSize + len(res.Rows))
	res.Cursor = domain.PageCursor{
		LastID:  strconv.Itoa(page),
		HasNext: len(res.Rows) > 0 && loaded < res.Total,
	}
	return res, nil
}
