package listview

import (
	"context"
	"sync"

	"github.com/msquare-market/admin/internal/domain"
	"go.uber.org/zap"
)

// ErrorReporter shows failures to the admin.
type ErrorReporter interface {
	Fail(err error)
}

// State is a copy of what the list currently shows.
type State[T any] struct {
	Filter  domain.Filter
	Rows    []T
	Cursor  domain.PageCursor
	Total   int64
	Loading bool
}

// Controller accumulates pages of T for the active filter.
//
// Every filter change starts a new generation; responses that belong to an
// older generation are dropped, so a slow page of a previous search can never
// overwrite or append to the current list.
type Controller[T any] struct {
	l        *zap.Logger
	name     string
	fetcher  Fetcher[T]
	reporter ErrorReporter
	pageSize int

	mu         sync.Mutex
	generation uint64
	filter     domain.Filter
	rows       []T
	cursor     domain.PageCursor
	total      int64
	loading    bool
	loaded     bool
	// reachedFor is the cursor for which the end-of-list sentinel already asked for more.
	reachedFor string
	listeners  []func()
}

// NewController creates a controller for the list called name. pageSize <= 0 means DefaultPageSize.
func NewController[T any](l *zap.Logger, name string, fetcher Fetcher[T], reporter ErrorReporter, pageSize int) *Controller[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Controller[T]{
		l:        l.With(zap.String("list", name)),
		name:     name,
		fetcher:  fetcher,
		reporter: reporter,
		pageSize: pageSize,
	}
}

// Name of the list.
func (c *Controller[T]) Name() string {
	return c.name
}

// PageSize rows per request.
func (c *Controller[T]) PageSize() int {
	return c.pageSize
}

// OnChange registers fn to run after every state change.
func (c *Controller[T]) OnChange(fn func()) {
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

// SetFilter drops the accumulated rows and cursor and loads the first page for f.
// Setting the filter that is already active is a no-op once its first page loaded.
func (c *Controller[T]) SetFilter(ctx context.Context, f domain.Filter) error {
	c.mu.Lock()
	if c.loaded && c.filter.Equal(f) {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	return c.restart(ctx, &f)
}

// Reload fetches the first page of the active filter again.
func (c *Controller[T]) Reload(ctx context.Context) error {
	return c.restart(ctx, nil)
}

func (c *Controller[T]) restart(ctx context.Context, f *domain.Filter) error {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	if f != nil {
		c.filter = f.Clone()
	}
	filter := c.filter.Clone()
	c.rows = nil
	c.cursor = domain.PageCursor{}
	c.total = 0
	c.reachedFor = ""
	c.loaded = false
	c.loading = true
	c.mu.Unlock()

	c.changed()
	return c.fetch(ctx, gen, filter, domain.PageCursor{})
}

// LoadMore requests the page after the stored cursor. It does nothing when the
// server reported no further rows or a request is already running.
// It reports whether a request was sent.
func (c *Controller[T]) LoadMore(ctx context.Context) (bool, error) {
	c.mu.Lock()
	if c.loading || !c.cursor.HasNext {
		c.mu.Unlock()
		return false, nil
	}
	gen := c.generation
	filter := c.filter.Clone()
	cursor := c.cursor
	c.loading = true
	c.mu.Unlock()

	c.changed()
	return true, c.fetch(ctx, gen, filter, cursor)
}

// Reached is called when the last row becomes visible. The next page is
// requested at most once per cursor, so a failed page is not retried by
// scrolling; Reload or a filter change starts over.
func (c *Controller[T]) Reached(ctx context.Context) (bool, error) {
	c.mu.Lock()
	if !c.cursor.HasNext || c.loading {
		c.mu.Unlock()
		return false, nil
	}
	key := c.cursor.LastID + "|" + c.cursor.LastCreatedAt
	if c.reachedFor == key {
		c.mu.Unlock()
		return false, nil
	}
	c.reachedFor = key
	c.mu.Unlock()

	return c.LoadMore(ctx)
}

func (c *Controller[T]) fetch(ctx context.Context, gen uint64, filter domain.Filter, cursor domain.PageCursor) error {
	page, err := c.fetcher.Fetch(ctx, Query{Filter: filter, PageSize: c.pageSize, Cursor: cursor})

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		c.l.Debug("dropping stale page", zap.Uint64("generation", gen))
		return nil
	}
	c.loading = false
	if err != nil {
		c.mu.Unlock()
		c.l.Warn("failed to load page", zap.String("last_id", cursor.LastID), zap.Error(err))
		if c.reporter != nil {
			c.reporter.Fail(err)
		}
		c.changed()
		return err
	}

	if cursor.IsZero() {
		c.rows = append([]T(nil), page.Rows...)
	} else {
		c.rows = append(c.rows, page.Rows...)
	}
	c.cursor = page.Cursor
	if page.Total > 0 {
		c.total = page.Total
	}
	c.loaded = true
	c.mu.Unlock()

	c.l.Debug("page loaded",
		zap.Int("rows", len(page.Rows)),
		zap.Bool("has_next", page.Cursor.HasNext),
		zap.String("last_id", page.Cursor.LastID))
	c.changed()
	return nil
}

func (c *Controller[T]) changed() {
	c.mu.Lock()
	listeners := append([]func(){}, c.listeners...)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// State returns a copy of the current list state.
func (c *Controller[T]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	return State[T]{
		Filter:  c.filter.Clone(),
		Rows:    append([]T(nil), c.rows...),
		Cursor:  c.cursor,
		Total:   c.total,
		Loading: c.loading,
	}
}

func (c *Controller[T]) Rows() []T {
	return c.State().Rows
}

func (c *Controller[T]) Cursor() domain.PageCursor {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursor
}

func (c *Controller[T]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

func (c *Controller[T]) Filter() domain.Filter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter.Clone()
}
