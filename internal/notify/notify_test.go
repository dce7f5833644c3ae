package notify

import (
	"fmt"
	"testing"

	"github.com/msquare-market/admin/internal/clients"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

func TestHub_After(t *testing.T) {
	h := NewHub(zap.NewNop(), 3)
	assert.Equal(t, uint64(0), h.LastIndex())
	assert.Empty(t, h.After(0))

	h.Success("a")
	h.Error("b")
	h.Warning("c")
	h.Info("d")

	assert.Equal(t, uint64(4), h.LastIndex())

	all := h.After(0)
	require.Len(t, all, 3, "oldest toast is dropped past capacity")
	assert.Equal(t, "b", all[0].Message)
	assert.Equal(t, LevelError, all[0].Level)
	assert.Equal(t, LevelInfo, all[2].Level)

	tail := h.After(3)
	require.Len(t, tail, 1)
	assert.Equal(t, "d", tail[0].Message)
}

func TestCatalog(t *testing.T) {
	tests := []struct {
		locale string
		want   language.Tag
	}{
		{locale: "ko-KR", want: language.Korean},
		{locale: "ko", want: language.Korean},
		{locale: "en-US", want: language.English},
		{locale: "fr", want: language.English},
		{locale: "", want: language.English},
	}

	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			assert.Equal(t, tt.want, NewCatalog(tt.locale).Language())
		})
	}

	en := NewCatalog("en")
	assert.Equal(t, "Failed to load users.", en.T(MsgLoadFailed, "users"))
	assert.Equal(t, "unknown", en.T(MessageID("unknown")))
	assert.Equal(t, "요청이 승인되었습니다.", NewCatalog("ko").T(MsgApproved))
}

type userError struct{}

func (userError) Error() string       { return "internal detail" }
func (userError) UserMessage() string { return "amount is invalid" }

func TestFromError(t *testing.T) {
	c := NewCatalog("en")

	tests := []struct {
		name      string
		err       error
		wantLevel Level
		wantText  string
	}{
		{name: "offline", err: errors.Wrap(clients.ErrOffline, "GET /v1/users"), wantLevel: LevelWarning, wantText: c.T(MsgOffline)},
		{name: "expired", err: clients.ErrSessionExpired, wantLevel: LevelError, wantText: c.T(MsgSessionExpired)},
		{name: "api message", err: &clients.APIError{Status: 400, Message: "already processed"}, wantLevel: LevelError, wantText: "already processed"},
		{name: "user message", err: fmt.Errorf("wrap: %w", userError{}), wantLevel: LevelError, wantText: "amount is invalid"},
		{name: "unknown", err: errors.New("boom"), wantLevel: LevelError, wantText: c.T(MsgSomethingWrong)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, text := FromError(c, tt.err)
			assert.Equal(t, tt.wantLevel, level)
			assert.Equal(t, tt.wantText, text)
		})
	}
}

func TestReporter_Fail(t *testing.T) {
	h := NewHub(zap.NewNop(), 0)
	r := NewReporter(h, NewCatalog("en"))

	r.Fail(nil)
	r.Fail(errors.Wrap(clients.ErrOffline, "ping"))
	r.Success(MsgApproved)

	toasts := h.After(0)
	require.Len(t, toasts, 2)
	assert.Equal(t, LevelWarning, toasts[0].Level)
	assert.Equal(t, LevelSuccess, toasts[1].Level)
	assert.Equal(t, "Request approved successfully.", toasts[1].Message)
}
