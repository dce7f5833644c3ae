package actions

import (
	"context"
	"testing"

	"github.com/msquare-market/admin/internal/clients"
	"github.com/msquare-market/admin/internal/domain"
	"github.com/msquare-market/admin/internal/notify"
	"github.com/msquare-market/admin/internal/querycache"
	"github.com/msquare-market/admin/internal/validate"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockBankChangeAPI struct {
	mock.Mock
}

func (m *MockBankChangeAPI) ApproveBankChange(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockBankChangeAPI) RejectBankChange(ctx context.Context, userID, reason string) error {
	return m.Called(ctx, userID, reason).Error(0)
}

type MockDialog struct {
	mock.Mock
}

func (m *MockDialog) Confirm(ctx context.Context, title, message string) (bool, error) {
	args := m.Called(ctx, title, message)
	return args.Bool(0), args.Error(1)
}

func (m *MockDialog) Prompt(ctx context.Context, title, message string) (string, error) {
	args := m.Called(ctx, title, message)
	return args.String(0), args.Error(1)
}

type MockTransferAPI struct {
	mock.Mock
}

func (m *MockTransferAPI) CreateTransfer(ctx context.Context, req clients.TransferRequest) (domain.OwnershipTransfer, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.OwnershipTransfer), args.Error(1)
}

type fixture struct {
	hub      *notify.Hub
	cache    *querycache.Cache
	flow     *Flow
	reloaded []string
}

func newFixture(t *testing.T, locale string) *fixture {
	t.Helper()
	f := &fixture{
		hub:   notify.NewHub(zap.NewNop(), 0),
		cache: querycache.New(zap.NewNop(), 0),
	}
	f.flow = NewFlow(zap.NewNop(), f.cache, notify.NewReporter(f.hub, notify.NewCatalog(locale)))
	for _, name := range []string{querycache.BankChanges, querycache.Dashboard, querycache.OwnershipTransfers} {
		f.cache.Subscribe(name, func() { f.reloaded = append(f.reloaded, name) })
	}
	return f
}

func pendingBankChange() domain.BankChangeRequest {
	return domain.BankChangeRequest{ID: "r1", UserID: "u1", Status: domain.StatusPending}
}

func TestBankChanges_Approve(t *testing.T) {
	f := newFixture(t, "ko")
	api := new(MockBankChangeAPI)
	dialog := new(MockDialog)
	api.On("ApproveBankChange", mock.Anything, "u1").Return(nil)

	err := NewBankChanges(f.flow, api, dialog).Approve(context.Background(), pendingBankChange())
	require.NoError(t, err)

	api.AssertExpectations(t)
	dialog.AssertNotCalled(t, "Confirm", mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, []string{querycache.BankChanges, querycache.Dashboard}, f.reloaded)

	toasts := f.hub.After(0)
	require.Len(t, toasts, 1)
	assert.Equal(t, notify.LevelSuccess, toasts[0].Level)
	assert.Equal(t, "요청이 승인되었습니다.", toasts[0].Message)
}

func TestBankChanges_Reject(t *testing.T) {
	t.Run("confirmed", func(t *testing.T) {
		f := newFixture(t, "en")
		api := new(MockBankChangeAPI)
		dialog := new(MockDialog)
		dialog.On("Confirm", mock.Anything, "Reject", "Are you sure you want to reject this request?").Return(true, nil)
		dialog.On("Prompt", mock.Anything, "Reason", mock.Anything).Return(" wrong holder name ", nil)
		api.On("RejectBankChange", mock.Anything, "u1", "wrong holder name").Return(nil)

		err := NewBankChanges(f.flow, api, dialog).Reject(context.Background(), pendingBankChange())
		require.NoError(t, err)

		api.AssertExpectations(t)
		dialog.AssertExpectations(t)
		assert.Contains(t, f.reloaded, querycache.BankChanges)
		assert.Equal(t, "Request rejected successfully.", f.hub.After(0)[0].Message)
	})

	t.Run("declined", func(t *testing.T) {
		f := newFixture(t, "en")
		api := new(MockBankChangeAPI)
		dialog := new(MockDialog)
		dialog.On("Confirm", mock.Anything, mock.Anything, mock.Anything).Return(false, nil)

		err := NewBankChanges(f.flow, api, dialog).Reject(context.Background(), pendingBankChange())
		assert.ErrorIs(t, err, ErrCanceled)

		api.AssertNotCalled(t, "RejectBankChange", mock.Anything, mock.Anything, mock.Anything)
		dialog.AssertNotCalled(t, "Prompt", mock.Anything, mock.Anything, mock.Anything)
		assert.Empty(t, f.reloaded)
		assert.Empty(t, f.hub.After(0))
	})

	t.Run("empty reason", func(t *testing.T) {
		f := newFixture(t, "en")
		api := new(MockBankChangeAPI)
		dialog := new(MockDialog)
		dialog.On("Confirm", mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
		dialog.On("Prompt", mock.Anything, mock.Anything, mock.Anything).Return("  ", nil)

		err := NewBankChanges(f.flow, api, dialog).Reject(context.Background(), pendingBankChange())
		require.Error(t, err)

		var errs validate.Errors
		assert.True(t, errors.As(err, &errs))
		api.AssertNotCalled(t, "RejectBankChange", mock.Anything, mock.Anything, mock.Anything)
		assert.Equal(t, notify.LevelError, f.hub.After(0)[0].Level)
	})
}

func TestBankChanges_ApproveFailure(t *testing.T) {
	tests := []struct {
		name      string
		apiErr    error
		wantLevel notify.Level
		wantText  string
	}{
		{name: "api message", apiErr: &clients.APIError{Status: 409, Message: "already processed"}, wantLevel: notify.LevelError, wantText: "already processed"},
		{name: "offline", apiErr: errors.Wrap(clients.ErrOffline, "dial"), wantLevel: notify.LevelWarning, wantText: "You are offline. Check your network connection."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "en")
			api := new(MockBankChangeAPI)
			api.On("ApproveBankChange", mock.Anything, "u1").Return(tt.apiErr)

			err := NewBankChanges(f.flow, api, new(MockDialog)).Approve(context.Background(), pendingBankChange())
			require.Error(t, err)

			assert.Empty(t, f.reloaded, "nothing is invalidated on failure")
			toasts := f.hub.After(0)
			require.Len(t, toasts, 1)
			assert.Equal(t, tt.wantLevel, toasts[0].Level)
			assert.Equal(t, tt.wantText, toasts[0].Message)
		})
	}
}

func TestBankChanges_AlreadyReviewed(t *testing.T) {
	f := newFixture(t, "en")
	api := new(MockBankChangeAPI)

	req := pendingBankChange()
	req.Status = domain.StatusApproved
	err := NewBankChanges(f.flow, api, new(MockDialog)).Approve(context.Background(), req)
	require.Error(t, err)
	api.AssertNotCalled(t, "ApproveBankChange", mock.Anything, mock.Anything)
}

func TestTransfers_Create(t *testing.T) {
	f := newFixture(t, "en")
	api := new(MockTransferAPI)
	dialog := new(MockDialog)

	want := clients.TransferRequest{FromUserID: "u1", ToUserID: "u2", Token: "MSQ", Amount: decimal.RequireFromString("5")}
	dialog.On("Confirm", mock.Anything, "Transfer", "Transfer 5 MSQ from u1 to u2?").Return(true, nil)
	api.On("CreateTransfer", mock.Anything, mock.MatchedBy(func(req clients.TransferRequest) bool {
		return req.FromUserID == want.FromUserID && req.ToUserID == want.ToUserID && req.Amount.Equal(want.Amount)
	})).Return(domain.OwnershipTransfer{ID: "t1"}, nil)

	created, err := NewTransfers(f.flow, api, dialog).Create(context.Background(), validate.TransferForm{
		FromUserID: "u1", ToUserID: "u2", Token: "MSQ", Amount: "5",
	})
	require.NoError(t, err)
	assert.Equal(t, "t1", created.ID)
	assert.Contains(t, f.reloaded, querycache.OwnershipTransfers)
	api.AssertExpectations(t)
}

func TestCheckTimeSetting(t *testing.T) {
	assert.NoError(t, checkTimeSetting(domain.TimeSetting{Name: "withdrawal", StartTime: "09:00", EndTime: "18:00", Timezone: "Asia/Seoul"}))

	err := checkTimeSetting(domain.TimeSetting{Name: "withdrawal", StartTime: "9am", EndTime: "18:00", Timezone: "Mars/Base"})
	var errs validate.Errors
	require.True(t, errors.As(err, &errs))
	assert.Contains(t, errs, "start_time")
	assert.Contains(t, errs, "timezone")
}

type MockSettingsAPI struct {
	mock.Mock
}

func (m *MockSettingsAPI) UpdateBankAccountAmount(ctx context.Context, amount domain.BankAccountAmount) error {
	return m.Called(ctx, amount).Error(0)
}

func (m *MockSettingsAPI) UpdateNotificationSetting(ctx context.Context, setting domain.NotificationSetting) error {
	return m.Called(ctx, setting).Error(0)
}

func (m *MockSettingsAPI) UpdateTimeSetting(ctx context.Context, setting domain.TimeSetting) error {
	return m.Called(ctx, setting).Error(0)
}

func (m *MockSettingsAPI) CreateToken(ctx context.Context, req clients.TokenRequest) (domain.Token, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.Token), args.Error(1)
}

func TestSettings(t *testing.T) {
	t.Run("bank amount needs one field", func(t *testing.T) {
		f := newFixture(t, "en")
		api := new(MockSettingsAPI)

		err := NewSettings(f.flow, api).UpdateBankAccountAmount(context.Background(), "", " ")
		var errs validate.Errors
		require.True(t, errors.As(err, &errs))
		assert.Len(t, errs, 2)
		api.AssertNotCalled(t, "UpdateBankAccountAmount", mock.Anything, mock.Anything)

		toasts := f.hub.After(0)
		require.Len(t, toasts, 1)
		assert.Equal(t, notify.LevelError, toasts[0].Level)
	})

	t.Run("bank amount fee only", func(t *testing.T) {
		f := newFixture(t, "en")
		api := new(MockSettingsAPI)
		api.On("UpdateBankAccountAmount", mock.Anything, mock.MatchedBy(func(a domain.BankAccountAmount) bool {
			return a.Fee.Valid && a.Fee.Decimal.Equal(decimal.RequireFromString("1000")) && !a.USDTCharge.Valid
		})).Return(nil)

		require.NoError(t, NewSettings(f.flow, api).UpdateBankAccountAmount(context.Background(), "1000", ""))
		api.AssertExpectations(t)

		toasts := f.hub.After(0)
		require.Len(t, toasts, 1)
		assert.Equal(t, notify.LevelSuccess, toasts[0].Level)
	})

	t.Run("notification", func(t *testing.T) {
		f := newFixture(t, "en")
		api := new(MockSettingsAPI)
		setting := domain.NotificationSetting{Event: "withdrawal_requested", Email: true}
		api.On("UpdateNotificationSetting", mock.Anything, setting).Return(nil)

		s := NewSettings(f.flow, api)
		require.NoError(t, s.UpdateNotification(context.Background(), setting))
		require.Error(t, s.UpdateNotification(context.Background(), domain.NotificationSetting{}))
		api.AssertNumberOfCalls(t, "UpdateNotificationSetting", 1)
	})

	t.Run("time rejected before submit", func(t *testing.T) {
		f := newFixture(t, "en")
		api := new(MockSettingsAPI)

		err := NewSettings(f.flow, api).UpdateTime(context.Background(), domain.TimeSetting{Name: "deposit", StartTime: "25:00", EndTime: "18:00"})
		require.Error(t, err)
		api.AssertNotCalled(t, "UpdateTimeSetting", mock.Anything, mock.Anything)
	})

	t.Run("create token", func(t *testing.T) {
		f := newFixture(t, "en")
		api := new(MockSettingsAPI)
		api.On("CreateToken", mock.Anything, mock.MatchedBy(func(req clients.TokenRequest) bool {
			return req.Symbol == "MSQ" && req.Decimals == 18
		})).Return(domain.Token{ID: "tok1", Symbol: "MSQ"}, nil)

		token, err := NewSettings(f.flow, api).CreateToken(context.Background(), validate.TokenForm{
			Name:            "MSquare",
			Symbol:          "msq",
			ContractAddress: "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
			Decimals:        "18",
		})
		require.NoError(t, err)
		assert.Equal(t, "tok1", token.ID)
	})
}

type MockRequestAPI struct {
	mock.Mock
}

func (m *MockRequestAPI) ApproveDeposit(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRequestAPI) RejectDeposit(ctx context.Context, id, reason string) error {
	return m.Called(ctx, id, reason).Error(0)
}

func (m *MockRequestAPI) ApproveWithdrawal(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRequestAPI) RejectWithdrawal(ctx context.Context, id, reason string) error {
	return m.Called(ctx, id, reason).Error(0)
}

func TestRequests(t *testing.T) {
	t.Run("approve deposit", func(t *testing.T) {
		f := newFixture(t, "en")
		var reloaded bool
		f.cache.Subscribe(querycache.Deposits, func() { reloaded = true })
		api := new(MockRequestAPI)
		api.On("ApproveDeposit", mock.Anything, "d1").Return(nil)

		err := NewRequests(f.flow, api, new(MockDialog)).ApproveDeposit(context.Background(), domain.DepositRequest{ID: "d1", Status: domain.StatusPending})
		require.NoError(t, err)
		assert.True(t, reloaded)
		assert.Contains(t, f.reloaded, querycache.Dashboard)
		assert.Equal(t, notify.LevelSuccess, f.hub.After(0)[0].Level)
	})

	t.Run("reject withdrawal with reason", func(t *testing.T) {
		f := newFixture(t, "en")
		api := new(MockRequestAPI)
		dialog := new(MockDialog)
		dialog.On("Confirm", mock.Anything, "Reject", mock.Anything).Return(true, nil)
		dialog.On("Prompt", mock.Anything, "Reason", mock.Anything).Return("bank account closed", nil)
		api.On("RejectWithdrawal", mock.Anything, "w1", "bank account closed").Return(nil)

		err := NewRequests(f.flow, api, dialog).RejectWithdrawal(context.Background(), domain.WithdrawalRequest{ID: "w1"})
		require.NoError(t, err)
		api.AssertExpectations(t)
	})

	t.Run("already reviewed", func(t *testing.T) {
		f := newFixture(t, "en")
		api := new(MockRequestAPI)

		err := NewRequests(f.flow, api, new(MockDialog)).ApproveWithdrawal(context.Background(), domain.WithdrawalRequest{ID: "w1", Status: domain.StatusRejected})
		require.Error(t, err)
		api.AssertNotCalled(t, "ApproveWithdrawal", mock.Anything, mock.Anything)
	})
}
