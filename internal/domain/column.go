package domain

import "slices"

// SortDirection of a grid column.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortItem sorts a single field.
type SortItem struct {
	Field string        `json:"field"`
	Sort  SortDirection `json:"sort"`
}

// SortModel ordered list of sort items, the first one has priority.
type SortModel []SortItem

// Equal compares two sort models by value.
func (m SortModel) Equal(other SortModel) bool {
	return slices.Equal(m, other)
}

// ColumnState is the user customized layout of a data grid.
type ColumnState struct {
	OrderedFields []string  `json:"orderedFields"`
	SortModel     SortModel `json:"sortModel"`
}

// Equal compares two column states by value.
func (s ColumnState) Equal(other ColumnState) bool {
	return slices.Equal(s.OrderedFields, other.OrderedFields) && s.SortModel.Equal(other.SortModel)
}

// Clone deep copies the state.
func (s ColumnState) Clone() ColumnState {
	return ColumnState{
		OrderedFields: slices.Clone(s.OrderedFields),
		SortModel:     slices.Clone(s.SortModel),
	}
}
