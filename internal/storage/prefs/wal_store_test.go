package prefs

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/msquare-market/admin/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, dir string) *WALStore {
	t.Helper()
	s, err := NewWALStore(dir)
	require.NoError(t, err, "Failed to open prefs store")
	return s
}

func TestWALStore_SetGetRemove(t *testing.T) {
	s := newTestStore(t, t.TempDir())
	defer s.Close()

	key := ColumnStateKey("token")
	assert.Equal(t, "tokenColumnState", key.Name)

	_, err := Get(s, key)
	assert.ErrorIs(t, err, ErrNotFound)

	state := domain.ColumnState{
		OrderedFields: []string{"symbol", "name", "price"},
		SortModel:     domain.SortModel{{Field: "price", Sort: domain.SortDesc}},
	}
	require.NoError(t, Set(s, key, state))

	got, err := Get(s, key)
	require.NoError(t, err)
	assert.True(t, state.Equal(got))

	require.NoError(t, Remove(s, key))
	_, err = Get(s, key)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, Remove(s, key), "removing a missing key is a no-op")
}

func TestWALStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	s := newTestStore(t, dir)
	require.NoError(t, Set(s, OnboardingKey, OnboardingStatus{Completed: true, Step: 3}))
	require.NoError(t, Set(s, ColumnStateKey("user"), domain.ColumnState{OrderedFields: []string{"email"}}))
	require.NoError(t, Set(s, ColumnStateKey("user"), domain.ColumnState{OrderedFields: []string{"name", "email"}}))
	require.NoError(t, Set(s, ColumnStateKey("deposit"), domain.ColumnState{OrderedFields: []string{"amount"}}))
	require.NoError(t, Remove(s, ColumnStateKey("deposit")))
	require.NoError(t, s.Close())

	reopened := newTestStore(t, dir)
	defer reopened.Close()

	onboarding, err := Get(reopened, OnboardingKey)
	require.NoError(t, err)
	assert.True(t, onboarding.Completed)
	assert.Equal(t, 3, onboarding.Step)

	users, err := Get(reopened, ColumnStateKey("user"))
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "email"}, users.OrderedFields, "last writer wins")

	_, err = Get(reopened, ColumnStateKey("deposit"))
	assert.ErrorIs(t, err, ErrNotFound, "tombstone survives reopen")

	assert.ElementsMatch(t, []string{"onboardingStatus", "userColumnState"}, reopened.Keys())
}

func TestGet_VersionMismatch(t *testing.T) {
	s := newTestStore(t, t.TempDir())
	defer s.Close()

	v1 := Key[[]string]{Name: "platformColumnState", Version: 1}
	require.NoError(t, Set(s, v1, []string{"name", "domain"}))

	t.Run("without migration the value is absent", func(t *testing.T) {
		v2 := Key[domain.ColumnState]{Name: "platformColumnState", Version: 2}
		_, err := Get(s, v2)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("migration upgrades the stored shape", func(t *testing.T) {
		v2 := Key[domain.ColumnState]{
			Name:    "platformColumnState",
			Version: 2,
			Migrate: func(version int, data []byte) (domain.ColumnState, error) {
				var fields []string
				if err := json.Unmarshal(data, &fields); err != nil {
					return domain.ColumnState{}, err
				}
				return domain.ColumnState{OrderedFields: fields}, nil
			},
		}
		got, err := Get(s, v2)
		require.NoError(t, err)
		assert.Equal(t, []string{"name", "domain"}, got.OrderedFields)
	})
}

func TestTimer_Remaining(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 30*time.Second, Timer{Deadline: now.Add(30 * time.Second)}.Remaining(now))
	assert.Equal(t, time.Duration(0), Timer{Deadline: now.Add(-time.Second)}.Remaining(now))
}
