package tui

import (
	"testing"

	"github.com/charmbracelet/huh"
	"github.com/msquare-market/admin/internal/console"
	"github.com/msquare-market/admin/internal/domain"
	"github.com/msquare-market/admin/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderSnapshot(t *testing.T) {
	snap := console.Snapshot{
		View:    "deposits",
		Fields:  []string{"user", "amount", "created_at"},
		Headers: []string{"User", "Amount", "Created"},
		IDs:     []string{"d1", "d2"},
		Rows: [][]string{
			{"kim", "100.5", "2024-05-01 10:00"},
			{"lee", "7", "2024-05-01 09:00"},
		},
		Sort:   domain.SortModel{{Field: "created_at", Sort: domain.SortDesc}},
		Cursor: domain.PageCursor{HasNext: true},
		Search: "ki",
		Dirty:  true,
	}

	out := RenderSnapshot(snap)
	assert.Contains(t, out, "Created ▼")
	assert.Contains(t, out, "kim")
	assert.Contains(t, out, "100.5")
	assert.Contains(t, out, "2 rows")
	assert.Contains(t, out, `search "ki"`)
	assert.Contains(t, out, "more available")
	assert.Contains(t, out, "unsaved column layout")
	assert.NotContains(t, out, "Amount ▲")
}

func TestStatusLine(t *testing.T) {
	t.Run("offset total", func(t *testing.T) {
		line := statusLine(console.Snapshot{Rows: [][]string{{"a"}}, Total: 40})
		assert.Equal(t, "1 of 40 rows · end of list", line)
	})
	t.Run("loading wins", func(t *testing.T) {
		line := statusLine(console.Snapshot{Loading: true, Cursor: domain.PageCursor{HasNext: true}})
		assert.Equal(t, "0 rows · loading…", line)
	})
}

func TestRenderToasts(t *testing.T) {
	out := RenderToasts([]notify.Toast{
		{Index: 1, Level: notify.LevelSuccess, Message: "Approved."},
		{Index: 2, Level: notify.LevelWarning, Message: "You are offline."},
	})
	assert.Contains(t, out, "Approved.")
	assert.Contains(t, out, "You are offline.")
	assert.Empty(t, RenderToasts(nil))
}

func TestViewOptions(t *testing.T) {
	values := func(opts []huh.Option[string]) []string {
		out := make([]string, len(opts))
		for i, o := range opts {
			out[i] = o.Value
		}
		return out
	}

	assert.Contains(t, values(viewOptions("bankChanges")), actApprove)
	assert.Contains(t, values(viewOptions("withdrawals")), actReject)
	assert.NotContains(t, values(viewOptions("users")), actApprove)
	assert.Contains(t, values(viewOptions("tokens")), actToken)
	assert.Contains(t, values(viewOptions("ownershipTransfers")), actTransfer)
	assert.Equal(t, actBack, values(viewOptions("users"))[len(viewOptions("users"))-1])
}

func TestRowLabel(t *testing.T) {
	assert.Equal(t, "a · b · c", rowLabel([]string{"a", "b", "c", "d"}))
	assert.Equal(t, "a", rowLabel([]string{"a"}))
}

func TestWizardValidators(t *testing.T) {
	require.NoError(t, validateURL("https://api.msquare.market"))
	require.Error(t, validateURL("ftp://api"))
	require.Error(t, validateURL("not a url"))

	require.NoError(t, validatePageSize("25"))
	require.Error(t, validatePageSize("0"))
	require.Error(t, validatePageSize("201"))
	require.Error(t, validatePageSize("x"))
}

func TestEnabledChannels(t *testing.T) {
	assert.Equal(t, []string{channelEmail, channelSMS}, enabledChannels(domain.NotificationSetting{Email: true, SMS: true}))
	assert.Empty(t, enabledChannels(domain.NotificationSetting{Event: "deposit_requested"}))
}
