package domain

import (
	"maps"
	"net/url"
	"sort"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Filter is the active query of a list view.
type Filter struct {
	Search string
	From   time.Time
	To     time.Time
	// Params arbitrary endpoint specific query params (status, type, ...).
	Params map[string]string
}

// WithSearch returns a copy of the filter with the search text replaced.
func (f Filter) WithSearch(search string) Filter {
	out := f.Clone()
	out.Search = strings.TrimSpace(search)
	return out
}

// WithParam returns a copy of the filter with a single param set. Empty value removes it.
func (f Filter) WithParam(key, value string) Filter {
	out := f.Clone()
	if value == "" {
		delete(out.Params, key)
		return out
	}
	if out.Params == nil {
		out.Params = make(map[string]string)
	}
	out.Params[key] = value
	return out
}

// Clone deep copies the filter.
func (f Filter) Clone() Filter {
	out := f
	if f.Params != nil {
		out.Params = maps.Clone(f.Params)
	}
	return out
}

// Equal compares two filters by value.
func (f Filter) Equal(other Filter) bool {
	if f.Search != other.Search || !f.From.Equal(other.From) || !f.To.Equal(other.To) {
		return false
	}
	if len(f.Params) != len(other.Params) {
		return false
	}
	for k, v := range f.Params {
		if ov, ok := other.Params[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// Values encodes the filter as query params understood by the admin API.
func (f Filter) Values() url.Values {
	values := url.Values{}
	if f.Search != "" {
		values.Set("search", f.Search)
	}
	if !f.From.IsZero() {
		values.Set("startDate", f.From.Format(dateLayout))
	}
	if !f.To.IsZero() {
		values.Set("endDate", f.To.Format(dateLayout))
	}

	keys := make([]string, 0, len(f.Params))
	for k := range f.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		values.Set(k, f.Params[k])
	}

	return values
}

// Key is a stable string form of the filter, used as a cache key.
func (f Filter) Key() string {
	return f.Values().Encode()
}
