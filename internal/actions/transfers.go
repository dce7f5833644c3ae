package actions

import (
	"context"

	"github.com/msquare-market/admin/internal/clients"
	"github.com/msquare-market/admin/internal/domain"
	"github.com/msquare-market/admin/internal/notify"
	"github.com/msquare-market/admin/internal/querycache"
	"github.com/msquare-market/admin/internal/validate"
)

type TransferAPI interface {
	CreateTransfer(ctx context.Context, req clients.TransferRequest) (domain.OwnershipTransfer, error)
}

// Transfers moves token balances between users.
type Transfers struct {
	flow   *Flow
	api    TransferAPI
	dialog Dialog
}

func NewTransfers(flow *Flow, api TransferAPI, dialog Dialog) *Transfers {
	return &Transfers{flow: flow, api: api, dialog: dialog}
}

// Create validates form, asks for confirmation and submits the transfer.
func (t *Transfers) Create(ctx context.Context, form validate.TransferForm) (domain.OwnershipTransfer, error) {
	var created domain.OwnershipTransfer
	err := t.flow.Run(ctx, Action{
		Name:        "create ownership transfer",
		Invalidates: []string{querycache.OwnershipTransfers, querycache.Dashboard},
		Success:     notify.MsgTransferCreated,
		Submit: func(ctx context.Context) error {
			req, err := form.Validate()
			if err != nil {
				return err
			}
			msg := t.flow.Catalog().T(notify.MsgConfirmTransfer, req.Amount.String(), req.Token, req.FromUserID, req.ToUserID)
			if err := confirm(ctx, t.dialog, "Transfer", msg); err != nil {
				return err
			}
			created, err = t.api.CreateTransfer(ctx, req)
			return err
		},
	})
	return created, err
}
