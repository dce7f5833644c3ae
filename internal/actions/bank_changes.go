package actions

import (
	"context"

	"github.com/msquare-market/admin/internal/domain"
	"github.com/msquare-market/admin/internal/notify"
	"github.com/msquare-market/admin/internal/querycache"
	"github.com/msquare-market/admin/internal/validate"
	"github.com/pkg/errors"
)

// BankChangeAPI reviews bank account change requests.
type BankChangeAPI interface {
	ApproveBankChange(ctx context.Context, userID string) error
	RejectBankChange(ctx context.Context, userID, reason string) error
}

type BankChanges struct {
	flow   *Flow
	api    BankChangeAPI
	dialog Dialog
}

func NewBankChanges(flow *Flow, api BankChangeAPI, dialog Dialog) *BankChanges {
	return &BankChanges{flow: flow, api: api, dialog: dialog}
}

var bankChangeQueries = []string{querycache.BankChanges, querycache.Dashboard}

// Approve accepts req right away.
func (b *BankChanges) Approve(ctx context.Context, req domain.BankChangeRequest) error {
	return b.flow.Run(ctx, Action{
		Name:        "approve bank change",
		Invalidates: bankChangeQueries,
		Success:     notify.MsgApproved,
		Submit: func(ctx context.Context) error {
			if err := pending(req.Status); err != nil {
				return err
			}
			return b.api.ApproveBankChange(ctx, req.UserID)
		},
	})
}

// Reject asks for confirmation and a reason before declining req.
func (b *BankChanges) Reject(ctx context.Context, req domain.BankChangeRequest) error {
	return b.flow.Run(ctx, Action{
		Name:        "reject bank change",
		Invalidates: bankChangeQueries,
		Success:     notify.MsgRejected,
		Submit: func(ctx context.Context) error {
			if err := pending(req.Status); err != nil {
				return err
			}
			reason, err := askReason(ctx, b.dialog, b.flow.Catalog())
			if err != nil {
				return err
			}
			return b.api.RejectBankChange(ctx, req.UserID, reason)
		},
	})
}

func askReason(ctx context.Context, d Dialog, catalog *notify.Catalog) (string, error) {
	if err := confirm(ctx, d, "Reject", catalog.T(notify.MsgConfirmReject)); err != nil {
		return "", err
	}
	text, err := d.Prompt(ctx, "Reason", "Why is the request rejected?")
	if err != nil {
		return "", errors.Wrap(err, "reason dialog")
	}
	return validate.Reason(text)
}

// pending refuses requests that were already reviewed.
func pending(status domain.RequestStatus) error {
	if status != "" && status != domain.StatusPending {
		return validate.Errors{"status": "request is already " + string(status)}
	}
	return nil
}
