package tui

import (
	"context"

	"github.com/charmbracelet/huh"
	"github.com/msquare-market/admin/internal/actions"
	"github.com/msquare-market/admin/internal/validate"
	"github.com/pkg/errors"
)

// Dialog asks through huh forms.
type Dialog struct{}

func (Dialog) Confirm(ctx context.Context, title, message string) (bool, error) {
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(message).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	).RunWithContext(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return ok, err
}

func (Dialog) Prompt(ctx context.Context, title, message string) (string, error) {
	var text string
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title(title).
				Description(message).
				CharLimit(validate.MaxReasonLength).
				Value(&text).
				Validate(func(s string) error {
					_, err := validate.Reason(s)
					return err
				}),
		),
	).RunWithContext(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		return "", actions.ErrCanceled
	}
	return text, err
}
