package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnvironmentFromURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected Environment
	}{
		{name: "dev host", url: "https://dev-api.msquare.market", expected: EnvDevelopment},
		{name: "localhost", url: "http://localhost:4000", expected: EnvDevelopment},
		{name: "staging host", url: "https://staging-api.msquare.market", expected: EnvStaging},
		{name: "stg host", url: "https://api-stg.msquare.market", expected: EnvStaging},
		{name: "production host", url: "https://api.msquare.market", expected: EnvProduction},
		{name: "empty", url: "", expected: EnvProduction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EnvironmentFromURL(tt.url))
		})
	}
}

func TestFilter_Values(t *testing.T) {
	f := Filter{
		Search: "alice",
		From:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		To:     time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
	}.WithParam("status", "PENDING")

	values := f.Values()
	assert.Equal(t, "alice", values.Get("search"))
	assert.Equal(t, "2024-03-01", values.Get("startDate"))
	assert.Equal(t, "2024-03-31", values.Get("endDate"))
	assert.Equal(t, "PENDING", values.Get("status"))
}

func TestFilter_EqualAndClone(t *testing.T) {
	a := Filter{Search: "bob"}.WithParam("type", "deposit")
	b := a.Clone()
	assert.True(t, a.Equal(b))

	b.Params["type"] = "withdrawal"
	assert.False(t, a.Equal(b), "clone must not share params")
	assert.Equal(t, "deposit", a.Params["type"])

	assert.False(t, a.Equal(a.WithSearch("bobby")))
	assert.True(t, a.Equal(a.WithSearch("  bob ")), "search is trimmed")
	assert.Empty(t, a.WithParam("type", "").Params)
}

func TestColumnState_EqualAndClone(t *testing.T) {
	s := ColumnState{
		OrderedFields: []string{"name", "email"},
		SortModel:     SortModel{{Field: "name", Sort: SortAsc}},
	}
	c := s.Clone()
	assert.True(t, s.Equal(c))

	c.OrderedFields[0] = "email"
	assert.False(t, s.Equal(c))
	assert.Equal(t, "name", s.OrderedFields[0])
}

func TestPageCursor_IsZero(t *testing.T) {
	assert.True(t, PageCursor{HasNext: true}.IsZero())
	assert.False(t, PageCursor{LastID: "abc"}.IsZero())
}
