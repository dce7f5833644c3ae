package console

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/msquare-market/admin/internal/columns"
	"github.com/msquare-market/admin/internal/domain"
	"github.com/msquare-market/admin/internal/listview"
	"github.com/msquare-market/admin/internal/search"
	"github.com/msquare-market/admin/internal/storage/prefs"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrUnknownView no view is registered under the name.
var ErrUnknownView = errors.New("unknown view")

// View is one paginated list screen.
type View interface {
	Name() string
	Title() string
	// Open restores the column layout and loads the first page once.
	Open(ctx context.Context) error
	Reload(ctx context.Context) error
	SetFilter(ctx context.Context, f domain.Filter) error
	// Search feeds the debounced search box; SubmitSearch skips the wait.
	Search(value string)
	SubmitSearch(value string)
	LoadMore(ctx context.Context) (bool, error)
	Reached(ctx context.Context) (bool, error)

	Columns() []columns.Column
	MoveColumn(field string, index int) (bool, error)
	ToggleSort(field string) (bool, error)
	SaveView() error
	ResetView() error

	Snapshot() Snapshot
	Close()
}

// Snapshot is what a view shows: headers and cells in the current column order.
type Snapshot struct {
	View     string            `json:"view"`
	Title    string            `json:"title"`
	Fields   []string          `json:"fields"`
	Headers  []string          `json:"headers"`
	IDs      []string          `json:"ids"`
	Rows     [][]string        `json:"rows"`
	Sort     domain.SortModel  `json:"sort"`
	Cursor   domain.PageCursor `json:"cursor"`
	Total    int64             `json:"total,omitempty"`
	Search   string            `json:"search"`
	Loading  bool              `json:"loading"`
	Dirty    bool              `json:"dirty"`
	LayoutID string            `json:"layoutKey"`
}

type viewDef[T domain.Row] struct {
	name        string
	title       string
	layout      string
	columns     []columns.Column
	defaultSort domain.SortModel
	fetcher     listview.Fetcher[T]
}

// listView binds a list controller, its column layout and its search box.
type listView[T domain.Row] struct {
	ctx        context.Context
	l          *zap.Logger
	name       string
	title      string
	controller *listview.Controller[T]
	table      *columns.Table
	layout     *columns.Store
	box        *search.Box

	openMu sync.Mutex
	opened bool
}

func newListView[T domain.Row](ctx context.Context, l *zap.Logger, def viewDef[T], store *prefs.WALStore, reporter listview.ErrorReporter, opts Options) *listView[T] {
	table := columns.NewTable(def.columns, def.defaultSort)
	v := &listView[T]{
		ctx:        ctx,
		l:          l.With(zap.String("view", def.name)),
		name:       def.name,
		title:      def.title,
		controller: listview.NewController(l, def.name, def.fetcher, reporter, opts.PageSize),
		table:      table,
		layout:     columns.NewStore(l, store, def.layout, table),
	}
	v.box = search.NewBox(v.applySearch, opts.SearchDelay, opts.SearchMinLength)
	return v
}

func (v *listView[T]) Name() string  { return v.name }
func (v *listView[T]) Title() string { return v.title }

func (v *listView[T]) Open(ctx context.Context) error {
	v.openMu.Lock()
	defer v.openMu.Unlock()

	if v.opened {
		return nil
	}
	if err := v.layout.RestoreOrder(); err != nil {
		v.l.Warn("failed to restore column layout", zap.Error(err))
	}
	v.opened = true
	return v.controller.Reload(ctx)
}

func (v *listView[T]) Reload(ctx context.Context) error {
	return v.controller.Reload(ctx)
}

func (v *listView[T]) SetFilter(ctx context.Context, f domain.Filter) error {
	return v.controller.SetFilter(ctx, f)
}

func (v *listView[T]) Search(value string)       { v.box.Type(value) }
func (v *listView[T]) SubmitSearch(value string) { v.box.Submit(value) }

func (v *listView[T]) applySearch(value string) error {
	f := v.controller.Filter().WithSearch(value)
	if err := v.controller.SetFilter(v.ctx, f); err != nil {
		v.l.Debug("search failed", zap.String("search", value), zap.Error(err))
		return err
	}
	return nil
}

func (v *listView[T]) LoadMore(ctx context.Context) (bool, error) {
	return v.controller.LoadMore(ctx)
}

func (v *listView[T]) Reached(ctx context.Context) (bool, error) {
	return v.controller.Reached(ctx)
}

func (v *listView[T]) Columns() []columns.Column {
	return v.table.Columns()
}

func (v *listView[T]) MoveColumn(field string, index int) (bool, error) {
	if err := v.table.Move(field, index); err != nil {
		return v.layout.Dirty(), err
	}
	return v.layout.HandleColumnChange(false), nil
}

func (v *listView[T]) ToggleSort(field string) (bool, error) {
	if err := v.table.ToggleSort(field); err != nil {
		return v.layout.Dirty(), err
	}
	return v.layout.HandleColumnChange(true), nil
}

func (v *listView[T]) SaveView() error  { return v.layout.SaveView() }
func (v *listView[T]) ResetView() error { return v.layout.ResetDefault() }

// Row finds a loaded row by id.
func (v *listView[T]) Row(id string) (T, bool) {
	for _, r := range v.controller.Rows() {
		if r.RowID() == id {
			return r, true
		}
	}
	var zero T
	return zero, false
}

// Rows currently loaded, in server order.
func (v *listView[T]) Rows() []T {
	return v.controller.Rows()
}

func (v *listView[T]) Snapshot() Snapshot {
	state := v.controller.State()
	cols := v.table.Columns()
	sortModel := v.table.Sort()

	snap := Snapshot{
		View:     v.name,
		Title:    v.title,
		Fields:   make([]string, 0, len(cols)),
		Headers:  make([]string, 0, len(cols)),
		IDs:      make([]string, 0, len(state.Rows)),
		Rows:     make([][]string, 0, len(state.Rows)),
		Sort:     sortModel,
		Cursor:   state.Cursor,
		Total:    state.Total,
		Search:   state.Filter.Search,
		Loading:  state.Loading,
		Dirty:    v.layout.Dirty(),
		LayoutID: v.layout.Key(),
	}
	for _, c := range cols {
		snap.Fields = append(snap.Fields, c.Field)
		snap.Headers = append(snap.Headers, c.Title)
	}

	type line struct {
		id    string
		cells map[string]string
	}
	lines := make([]line, 0, len(state.Rows))
	for _, r := range state.Rows {
		lines = append(lines, line{id: r.RowID(), cells: r.Cells()})
	}

	if len(sortModel) > 0 {
		item := sortModel[0]
		slices.SortStableFunc(lines, func(a, b line) int {
			cmp := compareCells(a.cells[item.Field], b.cells[item.Field])
			if item.Sort == domain.SortDesc {
				return -cmp
			}
			return cmp
		})
	}

	for _, ln := range lines {
		cells := make([]string, 0, len(snap.Fields))
		for _, f := range snap.Fields {
			cells = append(cells, ln.cells[f])
		}
		snap.IDs = append(snap.IDs, ln.id)
		snap.Rows = append(snap.Rows, cells)
	}
	return snap
}

func (v *listView[T]) Close() {
	v.box.Close()
}

// compareCells orders numeric cells by value and everything else as text.
func compareCells(a, b string) int {
	da, errA := decimal.NewFromString(a)
	db, errB := decimal.NewFromString(b)
	if errA == nil && errB == nil {
		return da.Cmp(db)
	}
	return strings.Compare(a, b)
}
