// Package columns holds the grid column model and persists its layout per page.
package columns

import (
	"slices"
	"sync"

	"github.com/msquare-market/admin/internal/domain"
	"github.com/pkg/errors"
)

// Column definition of a grid column.
type Column struct {
	Field    string
	Title    string
	Width    int
	Sortable bool
}

// Grid is the imperative API of a data grid the layout store drives.
type Grid interface {
	Order() []string
	SetOrder(fields []string)
	Sort() domain.SortModel
	SetSort(model domain.SortModel)
	Defaults() domain.ColumnState
}

// Table is an in-memory data grid: column definitions plus the live order and sort.
type Table struct {
	mu       sync.RWMutex
	defs     map[string]Column
	defaults domain.ColumnState
	order    []string
	sort     domain.SortModel
}

// NewTable builds a table whose code-defined default order is the order of cols.
func NewTable(cols []Column, defaultSort domain.SortModel) *Table {
	defs := make(map[string]Column, len(cols))
	order := make([]string, 0, len(cols))
	for _, c := range cols {
		if c.Title == "" {
			c.Title = c.Field
		}
		defs[c.Field] = c
		order = append(order, c.Field)
	}

	defaults := domain.ColumnState{OrderedFields: order, SortModel: defaultSort}

	return &Table{
		defs:     defs,
		defaults: defaults,
		order:    slices.Clone(order),
		sort:     slices.Clone(defaultSort),
	}
}

// Defaults returns the code-defined layout.
func (t *Table) Defaults() domain.ColumnState {
	return t.defaults.Clone()
}

// Order returns the live column order.
func (t *Table) Order() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.order)
}

// SetOrder applies an order. Unknown fields are dropped and missing ones appended
// in default order, so a saved layout keeps working after columns change in code.
func (t *Table) SetOrder(fields []string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.order = t.normalize(fields)
}

// Sort returns the live sort model.
func (t *Table) Sort() domain.SortModel {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.sort)
}

// SetSort applies a sort model, ignoring fields the table does not know.
func (t *Table) SetSort(model domain.SortModel) {
	t.mu.Lock()
	defer t.mu.Unlock()

	sort := make(domain.SortModel, 0, len(model))
	for _, item := range model {
		if _, ok := t.defs[item.Field]; ok {
			sort = append(sort, item)
		}
	}
	t.sort = sort
}

// Move drags field to position index (clamped to the table bounds).
func (t *Table) Move(field string, index int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	from := slices.Index(t.order, field)
	if from < 0 {
		return errors.Errorf("unknown column %q", field)
	}

	index = max(0, min(index, len(t.order)-1))
	order := slices.Delete(slices.Clone(t.order), from, from+1)
	t.order = slices.Insert(order, index, field)
	return nil
}

// ToggleSort cycles a sortable column through asc, desc and unsorted.
// Only one column is sorted at a time, like clicking a grid header.
func (t *Table) ToggleSort(field string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	col, ok := t.defs[field]
	if !ok {
		return errors.Errorf("unknown column %q", field)
	}
	if !col.Sortable {
		return errors.Errorf("column %q is not sortable", field)
	}

	var current domain.SortDirection
	if len(t.sort) > 0 && t.sort[0].Field == field {
		current = t.sort[0].Sort
	}

	switch current {
	case "":
		t.sort = domain.SortModel{{Field: field, Sort: domain.SortAsc}}
	case domain.SortAsc:
		t.sort = domain.SortModel{{Field: field, Sort: domain.SortDesc}}
	default:
		t.sort = nil
	}
	return nil
}

// Columns returns the column definitions in live order.
func (t *Table) Columns() []Column {
	t.mu.RLock()
	defer t.mu.RUnlock()

	cols := make([]Column, 0, len(t.order))
	for _, f := range t.order {
		cols = append(cols, t.defs[f])
	}
	return cols
}

func (t *Table) normalize(fields []string) []string {
	seen := make(map[string]bool, len(t.defs))
	order := make([]string, 0, len(t.defs))
	for _, f := range fields {
		if _, ok := t.defs[f]; ok && !seen[f] {
			order = append(order, f)
			seen[f] = true
		}
	}
	for _, f := range t.defaults.OrderedFields {
		if !seen[f] {
			order = append(order, f)
		}
	}
	return order
}
