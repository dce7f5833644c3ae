// Package console assembles the admin console: list views, their persisted
// layouts, the query cache, toasts and the mutation services.
package console

import (
	"context"
	"sync"
	"time"

	"github.com/msquare-market/admin/internal/actions"
	"github.com/msquare-market/admin/internal/clients"
	"github.com/msquare-market/admin/internal/domain"
	"github.com/msquare-market/admin/internal/notify"
	"github.com/msquare-market/admin/internal/querycache"
	"github.com/msquare-market/admin/internal/storage/prefs"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Options tune list behaviour.
type Options struct {
	PageSize        int
	SearchDelay     time.Duration
	SearchMinLength int
	Locale          string
	CacheTTL        time.Duration
}

// ActionSet are the mutation services bound to one way of asking the admin.
type ActionSet struct {
	BankChanges *actions.BankChanges
	Requests    *actions.Requests
	Transfers   *actions.Transfers
	Settings    *actions.Settings
}

// Console owns every stateful piece of the admin session.
type Console struct {
	l        *zap.Logger
	client   *clients.AdminClient
	prefs    *prefs.WALStore
	cache    *querycache.Cache
	hub      *notify.Hub
	reporter *notify.Reporter
	flow     *actions.Flow
	env      domain.Environment

	order       []View
	views       map[string]View
	bankChanges *listView[domain.BankChangeRequest]
	deposits    *listView[domain.DepositRequest]
	withdrawals *listView[domain.WithdrawalRequest]

	closeOnce sync.Once
}

// New builds the console. ctx bounds background work such as debounced searches
// and reloads after invalidation.
func New(ctx context.Context, l *zap.Logger, client *clients.AdminClient, store *prefs.WALStore, hub *notify.Hub, opts Options) *Console {
	cache := querycache.New(l, opts.CacheTTL)
	reporter := notify.NewReporter(hub, notify.NewCatalog(opts.Locale))

	c := &Console{
		l:        l,
		client:   client,
		prefs:    store,
		cache:    cache,
		hub:      hub,
		reporter: reporter,
		flow:     actions.NewFlow(l, cache, reporter),
		env:      domain.EnvironmentFromURL(client.BaseURL()),
		views:    make(map[string]View),
	}

	c.register(ctx, newListView(ctx, l, usersDef(client), store, reporter, opts))
	c.register(ctx, newListView(ctx, l, tokensDef(client), store, reporter, opts))
	c.register(ctx, newListView(ctx, l, platformsDef(client), store, reporter, opts))
	c.register(ctx, newListView(ctx, l, affiliatesDef(client), store, reporter, opts))

	c.deposits = newListView(ctx, l, depositsDef(client), store, reporter, opts)
	c.withdrawals = newListView(ctx, l, withdrawalsDef(client), store, reporter, opts)
	c.bankChanges = newListView(ctx, l, bankChangesDef(client), store, reporter, opts)
	c.register(ctx, c.deposits)
	c.register(ctx, c.withdrawals)
	c.register(ctx, c.bankChanges)
	c.register(ctx, newListView(ctx, l, transfersDef(client), store, reporter, opts))

	return c
}

// register adds v and reloads it whenever its query is invalidated.
func (c *Console) register(ctx context.Context, v View) {
	c.order = append(c.order, v)
	c.views[v.Name()] = v
	c.cache.Subscribe(v.Name(), func() {
		if err := v.Reload(ctx); err != nil {
			c.l.Debug("reload after invalidation failed", zap.String("view", v.Name()), zap.Error(err))
		}
	})
}

// Views in menu order.
func (c *Console) Views() []View {
	return append([]View(nil), c.order...)
}

// View looks a view up by name.
func (c *Console) View(name string) (View, error) {
	v, ok := c.views[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownView, "%q", name)
	}
	return v, nil
}

// Actions returns the mutation services asking d for confirmations and reasons.
func (c *Console) Actions(d actions.Dialog) *ActionSet {
	return &ActionSet{
		BankChanges: actions.NewBankChanges(c.flow, c.client, d),
		Requests:    actions.NewRequests(c.flow, c.client, d),
		Transfers:   actions.NewTransfers(c.flow, c.client, d),
		Settings:    actions.NewSettings(c.flow, c.client),
	}
}

// BankChangeByUser finds the loaded pending bank change of userID.
func (c *Console) BankChangeByUser(userID string) (domain.BankChangeRequest, bool) {
	for _, r := range c.bankChanges.Rows() {
		if r.UserID == userID && (r.Status == "" || r.Status == domain.StatusPending) {
			return r, true
		}
	}
	return domain.BankChangeRequest{}, false
}

// BankChange finds a loaded bank change by its row id.
func (c *Console) BankChange(id string) (domain.BankChangeRequest, bool) {
	return c.bankChanges.Row(id)
}

// Deposit finds a loaded deposit request.
func (c *Console) Deposit(id string) (domain.DepositRequest, bool) {
	return c.deposits.Row(id)
}

// Withdrawal finds a loaded withdrawal request.
func (c *Console) Withdrawal(id string) (domain.WithdrawalRequest, bool) {
	return c.withdrawals.Row(id)
}

// Dashboard returns cached headline numbers; any approve or reject invalidates them.
func (c *Console) Dashboard(ctx context.Context) (domain.DashboardStats, error) {
	stats, err := querycache.GetOrFetch(ctx, c.cache, querycache.Dashboard, "", c.client.Dashboard)
	if err != nil {
		c.reporter.Fail(err)
		return domain.DashboardStats{}, err
	}
	return stats, nil
}

// BankAccountAmount returns the cached bank fee settings.
func (c *Console) BankAccountAmount(ctx context.Context) (domain.BankAccountAmount, error) {
	amount, err := querycache.GetOrFetch(ctx, c.cache, querycache.BankAccountAmount, "", c.client.BankAccountAmount)
	if err != nil {
		c.reporter.Fail(err)
	}
	return amount, err
}

func (c *Console) NotificationSettings(ctx context.Context) ([]domain.NotificationSetting, error) {
	sets, err := querycache.GetOrFetch(ctx, c.cache, querycache.NotificationSets, "", c.client.NotificationSettings)
	if err != nil {
		c.reporter.Fail(err)
	}
	return sets, err
}

func (c *Console) TimeSettings(ctx context.Context) ([]domain.TimeSetting, error) {
	sets, err := querycache.GetOrFetch(ctx, c.cache, querycache.TimeSettings, "", c.client.TimeSettings)
	if err != nil {
		c.reporter.Fail(err)
	}
	return sets, err
}

// Environment of the API the console talks to.
func (c *Console) Environment() domain.Environment {
	return c.env
}

// Hub is the toast feed.
func (c *Console) Hub() *notify.Hub {
	return c.hub
}

// Catalog localized texts of the session.
func (c *Console) Catalog() *notify.Catalog {
	return c.reporter.Catalog()
}

// Reporter turns errors into toasts.
func (c *Console) Reporter() *notify.Reporter {
	return c.reporter
}

// Onboarding progress, zero value on first run.
func (c *Console) Onboarding() prefs.OnboardingStatus {
	status, err := prefs.Get(c.prefs, prefs.OnboardingKey)
	if err != nil && !errors.Is(err, prefs.ErrNotFound) {
		c.l.Warn("failed to read onboarding status", zap.Error(err))
	}
	return status
}

// AdvanceOnboarding records step; completed ends the walkthrough.
func (c *Console) AdvanceOnboarding(step int, completed bool) error {
	return prefs.Set(c.prefs, prefs.OnboardingKey, prefs.OnboardingStatus{
		Completed: completed,
		Step:      step,
		SeenAt:    time.Now(),
	})
}

// Close cancels pending searches.
func (c *Console) Close() {
	c.closeOnce.Do(func() {
		for _, v := range c.order {
			v.Close()
		}
	})
}
