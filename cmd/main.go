// Command msquare-admin runs the MSquare Market admin console in the terminal,
// as a local web console, or both.
//
// Usage:
//
//	msquare-admin --setup                 (configuration wizard)
//	msquare-admin --config admin.yaml
//	msquare-admin --mode web --web 127.0.0.1:8088
//
// Environment variables (also read from .env):
//
//	MSQUARE_API_URL, MSQUARE_API_TOKEN, MSQUARE_LOCALE, MSQUARE_MODE,
//	MSQUARE_WEB_ADDR, MSQUARE_PREFS_DIR, MSQUARE_DEBUG
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/msquare-market/admin/config"
	"github.com/msquare-market/admin/internal/clients"
	"github.com/msquare-market/admin/internal/console"
	"github.com/msquare-market/admin/internal/notify"
	"github.com/msquare-market/admin/internal/storage/prefs"
	"github.com/msquare-market/admin/internal/tui"
	"github.com/msquare-market/admin/internal/web"
	"github.com/msquare-market/admin/pkg/retrier"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	logFile       = "msquare-admin.log"
	toastCapacity = 100
)

func main() {
	flags, err := config.ParseFlags(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	var cfg config.Config
	if flags.Setup {
		cfg, err = tui.RunSetup()
	} else {
		cfg, err = config.Get(flags)
	}
	if err != nil {
		log.Fatalf("failed to get configuration: %v (run with --setup to create %s)", err, config.GeneratedFile)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, cfg); err != nil {
		logger.Fatal("admin console stopped", zap.Error(err))
	}
}

func run(ctx context.Context, l *zap.Logger, cfg config.Config) error {
	store, err := prefs.NewWALStore(cfg.PrefsDir)
	if err != nil {
		return err
	}
	defer store.Close()

	session := clients.NewSession(cfg.APIToken)
	if session.Expired(time.Now()) {
		return errors.Wrap(clients.ErrSessionExpired, "api token")
	}

	client, err := clients.NewAdminClient(l, cfg.APIURL, session, cfg.RequestTimeout)
	if err != nil {
		return err
	}
	ping(ctx, l, client, cfg.PingRetries)

	hub := notify.NewHub(l, toastCapacity)
	c := console.New(ctx, l, client, store, hub, console.Options{
		PageSize:        cfg.PageSize,
		SearchDelay:     cfg.SearchDelay,
		SearchMinLength: cfg.SearchMinLength,
		Locale:          cfg.Locale,
		CacheTTL:        cfg.CacheTTL,
	})
	defer c.Close()

	l.Info("admin console started",
		zap.String("api", client.BaseURL()),
		zap.String("environment", string(c.Environment())),
		zap.String("mode", string(cfg.Mode)),
		zap.String("admin", session.Subject()))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	if cfg.Mode == config.ModeWeb || cfg.Mode == config.ModeBoth {
		server := web.NewServer(l, cfg.WebAddr, c)
		g.Go(func() error {
			return server.Start(gctx)
		})
	}
	if cfg.Mode == config.ModeTUI || cfg.Mode == config.ModeBoth {
		app := tui.NewApp(l, c)
		g.Go(func() error {
			// leaving the menu ends the session, web console included
			defer cancel()
			return app.Run(gctx)
		})
	}

	return g.Wait()
}

// ping waits for the API to answer. Failed pings are logged but not fatal:
// the console still starts and shows the offline toast on every request.
func ping(ctx context.Context, l *zap.Logger, client *clients.AdminClient, retries int) {
	r := retrier.New(
		retrier.WithMaxRetries(retries),
		retrier.WithRetryable(transient),
		retrier.WithOnRetry(func(attempt int, wait time.Duration, err error) {
			l.Warn("admin API ping failed, retrying",
				zap.Int("attempt", attempt),
				zap.Duration("wait", wait),
				zap.Error(err))
		}),
	)
	if err := r.Do(ctx, client.Ping); err != nil {
		l.Error("admin API is not reachable", zap.String("api", client.BaseURL()), zap.Error(err))
	}
}

func transient(err error) bool {
	if errors.Is(err, clients.ErrOffline) {
		return true
	}
	var apiErr *clients.APIError
	return errors.As(err, &apiErr) && apiErr.Status >= 500
}

// newLogger writes to a file while the terminal UI owns stdout.
func newLogger(cfg config.Config) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Debug {
		zcfg = zap.NewDevelopmentConfig()
	}
	if cfg.Mode != config.ModeWeb {
		zcfg.OutputPaths = []string{logFile}
		zcfg.ErrorOutputPaths = []string{logFile}
	}
	return zcfg.Build()
}
