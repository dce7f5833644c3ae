// Package actions runs admin mutations: approve, reject, transfer and settings updates.
// Each one follows the same flow: ask, submit, invalidate cached queries, toast.
package actions

import (
	"context"

	"github.com/msquare-market/admin/internal/notify"
	"github.com/msquare-market/admin/internal/querycache"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrCanceled the admin dismissed a dialog.
var ErrCanceled = errors.New("action canceled")

// Dialog asks the admin for a decision or a value.
type Dialog interface {
	Confirm(ctx context.Context, title, message string) (bool, error)
	Prompt(ctx context.Context, title, message string) (string, error)
}

// Action is one mutation.
type Action struct {
	Name string
	// Invalidates query names that are stale after a successful submit.
	Invalidates []string
	Success     notify.MessageID
	Submit      func(ctx context.Context) error
}

// Flow executes actions and reports their outcome.
type Flow struct {
	l        *zap.Logger
	cache    *querycache.Cache
	reporter *notify.Reporter
}

func NewFlow(l *zap.Logger, cache *querycache.Cache, reporter *notify.Reporter) *Flow {
	return &Flow{l: l, cache: cache, reporter: reporter}
}

// Catalog used for dialog texts.
func (f *Flow) Catalog() *notify.Catalog {
	return f.reporter.Catalog()
}

// Run submits a. On success the listed queries are invalidated and a success
// toast is shown; on failure an error (or offline warning) toast is shown and
// the error is returned.
func (f *Flow) Run(ctx context.Context, a Action) error {
	if err := a.Submit(ctx); err != nil {
		if errors.Is(err, ErrCanceled) {
			return err
		}
		f.l.Warn("action failed", zap.String("action", a.Name), zap.Error(err))
		f.reporter.Fail(err)
		return errors.Wrapf(err, "%s failed", a.Name)
	}

	f.l.Info("action done", zap.String("action", a.Name))
	if len(a.Invalidates) > 0 {
		f.cache.Invalidate(a.Invalidates...)
	}
	if a.Success != "" {
		f.reporter.Success(a.Success)
	}
	return nil
}

// confirm returns ErrCanceled when the admin declines.
func confirm(ctx context.Context, d Dialog, title, message string) error {
	ok, err := d.Confirm(ctx, title, message)
	if err != nil {
		return errors.Wrap(err, "confirm dialog")
	}
	if !ok {
		return ErrCanceled
	}
	return nil
}
