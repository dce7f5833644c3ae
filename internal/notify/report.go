package notify

import (
	"context"

	"github.com/msquare-market/admin/internal/clients"
	"github.com/pkg/errors"
)

// Reporter turns failures into toasts in the admin's language.
type Reporter struct {
	n       Notifier
	catalog *Catalog
}

func NewReporter(n Notifier, catalog *Catalog) *Reporter {
	return &Reporter{n: n, catalog: catalog}
}

// Catalog used for the toasts.
func (r *Reporter) Catalog() *Catalog {
	return r.catalog
}

func (r *Reporter) Success(id MessageID, args ...any) {
	r.n.Success(r.catalog.T(id, args...))
}

// Fail raises a toast for err: a warning when offline, otherwise an error carrying
// the message the API returned. Canceled operations are silent.
func (r *Reporter) Fail(err error) {
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}

	level, message := FromError(r.catalog, err)
	switch level {
	case LevelWarning:
		r.n.Warning(message)
	default:
		r.n.Error(message)
	}
}

// FromError picks the toast level and text for err.
func FromError(catalog *Catalog, err error) (Level, string) {
	switch {
	case errors.Is(err, clients.ErrOffline):
		return LevelWarning, catalog.T(MsgOffline)
	case errors.Is(err, clients.ErrSessionExpired), errors.Is(err, clients.ErrUnauthorized):
		return LevelError, catalog.T(MsgSessionExpired)
	}

	if msg := clients.Message(err); msg != "" {
		return LevelError, msg
	}

	var userErr interface{ UserMessage() string }
	if errors.As(err, &userErr) {
		return LevelError, userErr.UserMessage()
	}
	return LevelError, catalog.T(MsgSomethingWrong)
}
