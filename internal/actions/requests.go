package actions

import (
	"context"

	"github.com/msquare-market/admin/internal/domain"
	"github.com/msquare-market/admin/internal/notify"
	"github.com/msquare-market/admin/internal/querycache"
)

// RequestAPI reviews deposit and withdrawal requests.
type RequestAPI interface {
	ApproveDeposit(ctx context.Context, id string) error
	RejectDeposit(ctx context.Context, id, reason string) error
	ApproveWithdrawal(ctx context.Context, id string) error
	RejectWithdrawal(ctx context.Context, id, reason string) error
}

type Requests struct {
	flow   *Flow
	api    RequestAPI
	dialog Dialog
}

func NewRequests(flow *Flow, api RequestAPI, dialog Dialog) *Requests {
	return &Requests{flow: flow, api: api, dialog: dialog}
}

func (r *Requests) ApproveDeposit(ctx context.Context, req domain.DepositRequest) error {
	return r.approve(ctx, "approve deposit", req.Status, querycache.Deposits, func(ctx context.Context) error {
		return r.api.ApproveDeposit(ctx, req.ID)
	})
}

func (r *Requests) RejectDeposit(ctx context.Context, req domain.DepositRequest) error {
	return r.reject(ctx, "reject deposit", req.Status, querycache.Deposits, func(ctx context.Context, reason string) error {
		return r.api.RejectDeposit(ctx, req.ID, reason)
	})
}

func (r *Requests) ApproveWithdrawal(ctx context.Context, req domain.WithdrawalRequest) error {
	return r.approve(ctx, "approve withdrawal", req.Status, querycache.Withdrawals, func(ctx context.Context) error {
		return r.api.ApproveWithdrawal(ctx, req.ID)
	})
}

func (r *Requests) RejectWithdrawal(ctx context.Context, req domain.WithdrawalRequest) error {
	return r.reject(ctx, "reject withdrawal", req.Status, querycache.Withdrawals, func(ctx context.Context, reason string) error {
		return r.api.RejectWithdrawal(ctx, req.ID, reason)
	})
}

func (r *Requests) approve(ctx context.Context, name string, status domain.RequestStatus, query string, submit func(ctx context.Context) error) error {
	return r.flow.Run(ctx, Action{
		Name:        name,
		Invalidates: []string{query, querycache.Dashboard},
		Success:     notify.MsgApproved,
		Submit: func(ctx context.Context) error {
			if err := pending(status); err != nil {
				return err
			}
			return submit(ctx)
		},
	})
}

func (r *Requests) reject(ctx context.Context, name string, status domain.RequestStatus, query string, submit func(ctx context.Context, reason string) error) error {
	return r.flow.Run(ctx, Action{
		Name:        name,
		Invalidates: []string{query, querycache.Dashboard},
		Success:     notify.MsgRejected,
		Submit: func(ctx context.Context) error {
			if err := pending(status); err != nil {
				return err
			}
			reason, err := askReason(ctx, r.dialog, r.flow.Catalog())
			if err != nil {
				return err
			}
			return submit(ctx, reason)
		},
	})
}
