package tui

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/msquare-market/admin/internal/console"
	"github.com/msquare-market/admin/internal/domain"
	"github.com/msquare-market/admin/internal/notify"
	"github.com/msquare-market/admin/internal/validate"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	menuDashboard = "dashboard"
	menuSettings  = "settings"
	menuQuit      = "quit"

	actMore     = "more"
	actSearch   = "search"
	actReload   = "reload"
	actSort     = "sort"
	actMove     = "move"
	actSave     = "save"
	actReset    = "reset"
	actApprove  = "approve"
	actReject   = "reject"
	actTransfer = "transfer"
	actToken    = "token"
	actBack     = "back"
)

// App is the interactive terminal loop over a console.
type App struct {
	l       *zap.Logger
	console *console.Console
	actions *console.ActionSet
	seen    uint64
}

func NewApp(l *zap.Logger, c *console.Console) *App {
	return &App{
		l:       l,
		console: c,
		actions: c.Actions(Dialog{}),
	}
}

// Run shows the main menu until the admin quits or ctx is done.
func (a *App) Run(ctx context.Context) error {
	a.onboarding()
	for {
		if ctx.Err() != nil {
			return nil
		}
		printHeader(string(a.console.Environment()))
		a.printToasts()

		choice, err := a.mainMenu(ctx)
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) || ctx.Err() != nil {
				return nil
			}
			return err
		}
		switch choice {
		case menuQuit:
			return nil
		case menuDashboard:
			a.dashboard(ctx)
		case menuSettings:
			a.settings(ctx)
		default:
			if err := a.view(ctx, choice); err != nil {
				return err
			}
		}
	}
}

func (a *App) mainMenu(ctx context.Context) (string, error) {
	options := []huh.Option[string]{huh.NewOption("Dashboard", menuDashboard)}
	for _, v := range a.console.Views() {
		options = append(options, huh.NewOption(v.Title(), v.Name()))
	}
	options = append(options,
		huh.NewOption("Settings", menuSettings),
		huh.NewOption("Quit", menuQuit),
	)

	var choice string
	err := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().Title("Open").Options(options...).Value(&choice),
	)).RunWithContext(ctx)
	return choice, err
}

func (a *App) onboarding() {
	status := a.console.Onboarding()
	if status.Completed {
		return
	}
	a.console.Hub().Info("Tip: pick a list, then \"Load more\" to scroll. Column order and sort are kept per list once saved.")
	if err := a.console.AdvanceOnboarding(status.Step+1, true); err != nil {
		a.l.Warn("failed to store onboarding progress", zap.Error(err))
	}
}

func (a *App) printToasts() {
	toasts := a.console.Hub().After(a.seen)
	if len(toasts) == 0 {
		return
	}
	a.seen = toasts[len(toasts)-1].Index
	fmt.Println(RenderToasts(toasts))
	fmt.Println()
}

func (a *App) dashboard(ctx context.Context) {
	printHeader("dashboard")
	stats, err := a.console.Dashboard(ctx)
	if err == nil {
		fmt.Println(RenderDashboard(stats, a.console.Environment()))
	}
	a.printToasts()
	pause(ctx)
}

func (a *App) view(ctx context.Context, name string) error {
	v, err := a.console.View(name)
	if err != nil {
		return err
	}
	if err := v.Open(ctx); err != nil {
		a.l.Debug("open failed", zap.String("view", name), zap.Error(err))
	}

	for {
		printHeader(v.Title())
		fmt.Println(RenderSnapshot(v.Snapshot()))
		fmt.Println()
		a.printToasts()

		var choice string
		err := huh.NewForm(huh.NewGroup(
			huh.NewSelect[string]().Title("Action").Options(viewOptions(name)...).Value(&choice),
		)).RunWithContext(ctx)
		if errors.Is(err, huh.ErrUserAborted) || choice == actBack {
			return nil
		}
		if err != nil {
			return err
		}
		if err := a.viewAction(ctx, v, choice); err != nil && !errors.Is(err, huh.ErrUserAborted) {
			a.l.Debug("view action failed", zap.String("view", name), zap.String("action", choice), zap.Error(err))
		}
	}
}

func viewOptions(name string) []huh.Option[string] {
	opts := []huh.Option[string]{
		huh.NewOption("Load more", actMore),
		huh.NewOption("Search", actSearch),
		huh.NewOption("Reload", actReload),
		huh.NewOption("Sort by column", actSort),
		huh.NewOption("Move column", actMove),
		huh.NewOption("Save column layout", actSave),
		huh.NewOption("Reset column layout", actReset),
	}
	switch name {
	case "bankChanges", "deposits", "withdrawals":
		opts = append(opts, huh.NewOption("Approve", actApprove), huh.NewOption("Reject", actReject))
	case "ownershipTransfers":
		opts = append(opts, huh.NewOption("New transfer", actTransfer))
	case "tokens":
		opts = append(opts, huh.NewOption("New token", actToken))
	}
	return append(opts, huh.NewOption("Back", actBack))
}

func (a *App) viewAction(ctx context.Context, v console.View, choice string) error {
	switch choice {
	case actMore:
		_, err := v.LoadMore(ctx)
		return err
	case actReload:
		return v.Reload(ctx)
	case actSearch:
		value := v.Snapshot().Search
		err := huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("Search").Description("empty clears the search").Value(&value),
		)).RunWithContext(ctx)
		if err != nil {
			return err
		}
		v.SubmitSearch(value)
		return nil
	case actSort:
		field, err := a.pickColumn(ctx, v, true)
		if err != nil {
			return err
		}
		_, err = v.ToggleSort(field)
		return err
	case actMove:
		field, err := a.pickColumn(ctx, v, false)
		if err != nil {
			return err
		}
		pos := "1"
		err = huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("New position").Value(&pos).Validate(func(s string) error {
				n, err := strconv.Atoi(s)
				if err != nil || n < 1 || n > len(v.Columns()) {
					return errors.Errorf("must be between 1 and %d", len(v.Columns()))
				}
				return nil
			}),
		)).RunWithContext(ctx)
		if err != nil {
			return err
		}
		n, _ := strconv.Atoi(pos)
		_, err = v.MoveColumn(field, n-1)
		return err
	case actSave:
		if err := v.SaveView(); err != nil {
			a.console.Reporter().Fail(err)
			return err
		}
		a.console.Reporter().Success(notify.MsgViewSaved)
		return nil
	case actReset:
		if err := v.ResetView(); err != nil {
			a.console.Reporter().Fail(err)
			return err
		}
		a.console.Reporter().Success(notify.MsgViewReset)
		return nil
	case actApprove, actReject:
		id, err := a.pickRow(ctx, v)
		if err != nil {
			return err
		}
		return a.decide(ctx, v.Name(), id, choice == actApprove)
	case actTransfer:
		return a.transfer(ctx)
	case actToken:
		return a.token(ctx)
	}
	a.l.Warn("unknown action", zap.String("action", choice))
	return nil
}

func (a *App) decide(ctx context.Context, view, id string, approve bool) error {
	switch view {
	case "bankChanges":
		req, ok := a.console.BankChange(id)
		if !ok {
			return errors.Errorf("bank change %s is not loaded", id)
		}
		if approve {
			return a.actions.BankChanges.Approve(ctx, req)
		}
		return a.actions.BankChanges.Reject(ctx, req)
	case "deposits":
		req, ok := a.console.Deposit(id)
		if !ok {
			return errors.Errorf("deposit %s is not loaded", id)
		}
		if approve {
			return a.actions.Requests.ApproveDeposit(ctx, req)
		}
		return a.actions.Requests.RejectDeposit(ctx, req)
	case "withdrawals":
		req, ok := a.console.Withdrawal(id)
		if !ok {
			return errors.Errorf("withdrawal %s is not loaded", id)
		}
		if approve {
			return a.actions.Requests.ApproveWithdrawal(ctx, req)
		}
		return a.actions.Requests.RejectWithdrawal(ctx, req)
	}
	return errors.Errorf("%s has no approval flow", view)
}

func (a *App) pickColumn(ctx context.Context, v console.View, sortable bool) (string, error) {
	var options []huh.Option[string]
	for _, c := range v.Columns() {
		if sortable && !c.Sortable {
			continue
		}
		options = append(options, huh.NewOption(c.Title, c.Field))
	}
	if len(options) == 0 {
		return "", errors.New("no columns to choose from")
	}
	var field string
	err := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().Title("Column").Options(options...).Value(&field),
	)).RunWithContext(ctx)
	return field, err
}

func (a *App) pickRow(ctx context.Context, v console.View) (string, error) {
	snap := v.Snapshot()
	if len(snap.IDs) == 0 {
		return "", errors.New("no rows loaded")
	}
	options := make([]huh.Option[string], len(snap.IDs))
	for i, id := range snap.IDs {
		options[i] = huh.NewOption(rowLabel(snap.Rows[i]), id)
	}
	var id string
	err := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().Title("Row").Options(options...).Height(12).Value(&id),
	)).RunWithContext(ctx)
	return id, err
}

func rowLabel(cells []string) string {
	if len(cells) > 3 {
		cells = cells[:3]
	}
	return strings.Join(cells, " · ")
}

func (a *App) transfer(ctx context.Context) error {
	var form validate.TransferForm
	err := huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("From user id").Value(&form.FromUserID),
		huh.NewInput().Title("To user id").Value(&form.ToUserID),
		huh.NewInput().Title("Token").Value(&form.Token),
		huh.NewInput().Title("Amount").Value(&form.Amount),
		huh.NewInput().Title("Memo").Value(&form.Memo),
	)).RunWithContext(ctx)
	if err != nil {
		return err
	}
	_, err = a.actions.Transfers.Create(ctx, form)
	return err
}

func (a *App) token(ctx context.Context) error {
	form := validate.TokenForm{Decimals: "18"}
	err := huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Name").Value(&form.Name),
		huh.NewInput().Title("Symbol").Value(&form.Symbol),
		huh.NewInput().Title("Contract address").Value(&form.ContractAddress),
		huh.NewInput().Title("Decimals").Value(&form.Decimals),
	)).RunWithContext(ctx)
	if err != nil {
		return err
	}
	_, err = a.actions.Settings.CreateToken(ctx, form)
	return err
}

func (a *App) settings(ctx context.Context) {
	for {
		printHeader("settings")
		a.printToasts()

		var choice string
		err := huh.NewForm(huh.NewGroup(
			huh.NewSelect[string]().Title("Settings").Options(
				huh.NewOption("Bank fees", "bank"),
				huh.NewOption("Notifications", "notifications"),
				huh.NewOption("Time windows", "time"),
				huh.NewOption("Back", actBack),
			).Value(&choice),
		)).RunWithContext(ctx)
		if err != nil || choice == actBack {
			return
		}

		switch choice {
		case "bank":
			err = a.bankAmount(ctx)
		case "notifications":
			err = a.notifications(ctx)
		case "time":
			err = a.timeWindow(ctx)
		}
		if err != nil && !errors.Is(err, huh.ErrUserAborted) {
			a.l.Debug("settings update failed", zap.String("setting", choice), zap.Error(err))
		}
	}
}

func (a *App) bankAmount(ctx context.Context) error {
	amount, err := a.console.BankAccountAmount(ctx)
	if err != nil {
		return err
	}
	fee, charge := "", ""
	if amount.Fee.Valid {
		fee = amount.Fee.Decimal.String()
	}
	if amount.USDTCharge.Valid {
		charge = amount.USDTCharge.Decimal.String()
	}

	err = huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Bank fee").Value(&fee),
		huh.NewInput().Title("USDT charge").Value(&charge),
	)).RunWithContext(ctx)
	if err != nil {
		return err
	}
	return a.actions.Settings.UpdateBankAccountAmount(ctx, fee, charge)
}

const (
	channelEmail = "email"
	channelPush  = "push"
	channelSMS   = "sms"
)

func (a *App) notifications(ctx context.Context) error {
	sets, err := a.console.NotificationSettings(ctx)
	if err != nil {
		return err
	}
	if len(sets) == 0 {
		return errors.New("no notification events configured")
	}

	options := make([]huh.Option[int], len(sets))
	for i, s := range sets {
		options[i] = huh.NewOption(s.Event, i)
	}
	var idx int
	if err := huh.NewForm(huh.NewGroup(
		huh.NewSelect[int]().Title("Event").Options(options...).Value(&idx),
	)).RunWithContext(ctx); err != nil {
		return err
	}

	setting := sets[idx]
	channels := enabledChannels(setting)
	err = huh.NewForm(huh.NewGroup(
		huh.NewMultiSelect[string]().
			Title(setting.Event).
			Options(
				huh.NewOption("Email", channelEmail),
				huh.NewOption("Push", channelPush),
				huh.NewOption("SMS", channelSMS),
			).
			Value(&channels),
	)).RunWithContext(ctx)
	if err != nil {
		return err
	}

	setting.Email = slices.Contains(channels, channelEmail)
	setting.Push = slices.Contains(channels, channelPush)
	setting.SMS = slices.Contains(channels, channelSMS)
	return a.actions.Settings.UpdateNotification(ctx, setting)
}

func enabledChannels(s domain.NotificationSetting) []string {
	var out []string
	if s.Email {
		out = append(out, channelEmail)
	}
	if s.Push {
		out = append(out, channelPush)
	}
	if s.SMS {
		out = append(out, channelSMS)
	}
	return out
}

func (a *App) timeWindow(ctx context.Context) error {
	sets, err := a.console.TimeSettings(ctx)
	if err != nil {
		return err
	}
	if len(sets) == 0 {
		return errors.New("no time windows configured")
	}

	options := make([]huh.Option[int], len(sets))
	for i, t := range sets {
		options[i] = huh.NewOption(fmt.Sprintf("%s: %s - %s (%s)", t.Name, t.StartTime, t.EndTime, t.Timezone), i)
	}
	var idx int
	if err := huh.NewForm(huh.NewGroup(
		huh.NewSelect[int]().Title("Time window").Options(options...).Value(&idx),
	)).RunWithContext(ctx); err != nil {
		return err
	}

	setting := sets[idx]
	err = huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Start (HH:MM)").Value(&setting.StartTime),
		huh.NewInput().Title("End (HH:MM)").Value(&setting.EndTime),
		huh.NewInput().Title("Timezone").Description("IANA name, e.g. Asia/Seoul").Value(&setting.Timezone),
	)).RunWithContext(ctx)
	if err != nil {
		return err
	}
	return a.actions.Settings.UpdateTime(ctx, setting)
}

func pause(ctx context.Context) {
	_ = huh.NewForm(huh.NewGroup(
		huh.NewNote().Title("").Next(true).NextLabel("Back"),
	)).RunWithContext(ctx)
}
