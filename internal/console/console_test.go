package console

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/msquare-market/admin/internal/actions"
	"github.com/msquare-market/admin/internal/clients"
	"github.com/msquare-market/admin/internal/notify"
	"github.com/msquare-market/admin/internal/querycache"
	"github.com/msquare-market/admin/internal/storage/prefs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeAPI serves a handful of admin endpoints and records what it was asked.
type fakeAPI struct {
	mu        sync.Mutex
	lastIDs   []string
	searches  []string
	approved  []map[string]string
	approvals int
}

func (f *fakeAPI) requested() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.lastIDs...)
}

func (f *fakeAPI) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/bank-changes", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.lastIDs = append(f.lastIDs, r.URL.Query().Get("lastId"))
		f.searches = append(f.searches, r.URL.Query().Get("search"))
		approvals := f.approvals
		f.mu.Unlock()

		if r.URL.Query().Get("lastId") == "abc" {
			_, _ = io.WriteString(w, `{"rows":[{"_id":"r3","user_id":"u3","user_name":"park","status":"PENDING"}],"hasNext":false,"lastId":"r3"}`)
			return
		}
		status := "PENDING"
		if approvals > 0 {
			status = "APPROVED"
		}
		_, _ = io.WriteString(w, `{"rows":[
			{"_id":"r1","user_id":"u1","user_name":"kim","status":"`+status+`","createdAt":"2024-05-01T10:00:00Z"},
			{"_id":"abc","user_id":"u2","user_name":"lee","status":"PENDING","createdAt":"2024-05-02T10:00:00Z"}
		],"hasNext":true,"lastId":"abc"}`)
	})
	mux.HandleFunc("/v1/bank-changes/approve", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		f.mu.Lock()
		f.approved = append(f.approved, body)
		f.approvals++
		f.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/v1/dashboard", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":{"total_users":10,"pending_bank_changes":2,"total_deposited":"1500.5"}}`)
	})
	return mux
}

func newTestConsole(t *testing.T, api *fakeAPI) *Console {
	t.Helper()
	srv := httptest.NewServer(api.handler(t))
	t.Cleanup(srv.Close)

	client, err := clients.NewAdminClient(zap.NewNop(), srv.URL, nil, time.Second)
	require.NoError(t, err)

	store, err := prefs.NewWALStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	c := New(context.Background(), zap.NewNop(), client, store, notify.NewHub(zap.NewNop(), 0), Options{
		SearchDelay: 10 * time.Millisecond,
		Locale:      "en",
	})
	t.Cleanup(c.Close)
	return c
}

func TestConsole_Registry(t *testing.T) {
	c := newTestConsole(t, &fakeAPI{})

	names := make([]string, 0)
	for _, v := range c.Views() {
		names = append(names, v.Name())
	}
	assert.Equal(t, []string{
		querycache.Users, querycache.Tokens, querycache.Platforms, querycache.Affiliates,
		querycache.Deposits, querycache.Withdrawals, querycache.BankChanges, querycache.OwnershipTransfers,
	}, names)

	_, err := c.View("nope")
	assert.ErrorIs(t, err, ErrUnknownView)

	tokens, err := c.View(querycache.Tokens)
	require.NoError(t, err)
	assert.Equal(t, "tokenColumnState", tokens.Snapshot().LayoutID)
}

func TestConsole_InfiniteScrollAndApprove(t *testing.T) {
	api := &fakeAPI{}
	c := newTestConsole(t, api)
	ctx := context.Background()

	v, err := c.View(querycache.BankChanges)
	require.NoError(t, err)
	require.NoError(t, v.Open(ctx))
	require.NoError(t, v.Open(ctx), "second open does not refetch")

	snap := v.Snapshot()
	assert.Equal(t, []string{"abc", "r1"}, snap.IDs, "newest first by default")
	assert.True(t, snap.Cursor.HasNext)

	sent, err := v.Reached(ctx)
	require.NoError(t, err)
	assert.True(t, sent)
	sent, err = v.Reached(ctx)
	require.NoError(t, err)
	assert.False(t, sent)
	assert.Equal(t, []string{"", "abc"}, api.requested())

	req, ok := c.BankChangeByUser("u1")
	require.True(t, ok)
	require.NoError(t, c.Actions(actions.Answers{}).BankChanges.Approve(ctx, req))

	api.mu.Lock()
	assert.Equal(t, []map[string]string{{"user_id": "u1"}}, api.approved)
	api.mu.Unlock()
	assert.Equal(t, []string{"", "abc", ""}, api.requested(), "approval reloads the list from the first page")
	_, ok = c.BankChangeByUser("u1")
	assert.False(t, ok)

	toasts := c.Hub().After(0)
	require.NotEmpty(t, toasts)
	assert.Equal(t, notify.LevelSuccess, toasts[len(toasts)-1].Level)
}

func TestConsole_ColumnLayoutPersists(t *testing.T) {
	c := newTestConsole(t, &fakeAPI{})
	v, err := c.View(querycache.BankChanges)
	require.NoError(t, err)
	require.NoError(t, v.Open(context.Background()))

	dirty, err := v.MoveColumn("status", 0)
	require.NoError(t, err)
	assert.True(t, dirty)

	require.NoError(t, v.SaveView())
	snap := v.Snapshot()
	assert.False(t, snap.Dirty)
	assert.Equal(t, "status", snap.Fields[0])
	assert.Equal(t, "PENDING", snap.Rows[0][0])

	stored, err := prefs.Get(c.prefs, prefs.ColumnStateKey("bankChange"))
	require.NoError(t, err)
	assert.Equal(t, "status", stored.OrderedFields[0])

	require.NoError(t, v.ResetView())
	assert.Equal(t, "user", v.Snapshot().Fields[0])
}

func TestConsole_DebouncedSearch(t *testing.T) {
	api := &fakeAPI{}
	c := newTestConsole(t, api)
	v, err := c.View(querycache.BankChanges)
	require.NoError(t, err)
	require.NoError(t, v.Open(context.Background()))

	v.Search("k")
	v.Search("ki")
	v.Search("kim")

	assert.Eventually(t, func() bool {
		api.mu.Lock()
		defer api.mu.Unlock()
		return len(api.searches) == 2
	}, time.Second, 5*time.Millisecond)
	api.mu.Lock()
	assert.Equal(t, []string{"", "kim"}, api.searches)
	api.mu.Unlock()
	assert.Equal(t, "kim", v.Snapshot().Search)
}

func TestConsole_Dashboard(t *testing.T) {
	c := newTestConsole(t, &fakeAPI{})

	stats, err := c.Dashboard(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 10, stats.TotalUsers)
	assert.Equal(t, "1500.5", stats.TotalDeposited.String())
	assert.Equal(t, "DEVELOPMENT", string(c.Environment()))
}

func TestConsole_Onboarding(t *testing.T) {
	c := newTestConsole(t, &fakeAPI{})
	assert.False(t, c.Onboarding().Completed)

	require.NoError(t, c.AdvanceOnboarding(2, true))
	got := c.Onboarding()
	assert.True(t, got.Completed)
	assert.Equal(t, 2, got.Step)
}
