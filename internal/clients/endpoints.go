package clients

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/msquare-market/admin/internal/domain"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	pathUsers              = "/v1/users"
	pathTokens             = "/v1/tokens"
	pathPlatforms          = "/v1/platforms"
	pathAffiliates         = "/v1/affiliates"
	pathDeposits           = "/v1/deposits"
	pathWithdrawals        = "/v1/withdrawals"
	pathBankChanges        = "/v1/bank-changes"
	pathOwnershipTransfers = "/v1/ownership-transfers"
	pathDashboard          = "/v1/dashboard"
	pathBankAccountAmount  = "/v1/settings/bank-account-amount"
	pathNotificationSets   = "/v1/settings/notifications"
	pathTimeSettings       = "/v1/settings/times"
)

// cursorEnvelope is the answer of last-id paginated endpoints.
type cursorEnvelope[T any] struct {
	Rows          []T    `json:"rows"`
	HasNext       bool   `json:"hasNext"`
	LastID        string `json:"lastId"`
	LastCreatedAt string `json:"lastCreatedAt"`
}

// offsetEnvelope is the answer of page/pageSize endpoints.
type offsetEnvelope[T any] struct {
	Data  []T   `json:"data"`
	Total int64 `json:"total"`
}

type dataEnvelope[T any] struct {
	Data T `json:"data"`
}

func listCursor[T any](ctx context.Context, c *AdminClient, path string, filter domain.Filter, pageSize int, cursor domain.PageCursor) (domain.Page[T], error) {
	query := filter.Values()
	query.Set("pageSize", strconv.Itoa(pageSize))
	if cursor.LastID != "" {
		query.Set("lastId", cursor.LastID)
	}
	if cursor.LastCreatedAt != "" {
		query.Set("lastCreatedAt", cursor.LastCreatedAt)
	}

	var env cursorEnvelope[T]
	if err := c.do(ctx, http.MethodGet, path, query, nil, &env); err != nil {
		return domain.Page[T]{}, err
	}

	rows := env.Rows
	if rows == nil {
		rows = []T{}
	}
	return domain.Page[T]{
		Rows: rows,
		Cursor: domain.PageCursor{
			LastID:        env.LastID,
			LastCreatedAt: env.LastCreatedAt,
			HasNext:       env.HasNext,
		},
	}, nil
}

func listOffset[T any](ctx context.Context, c *AdminClient, path string, filter domain.Filter, page, pageSize int) (domain.Page[T], error) {
	if page < 1 {
		page = 1
	}
	query := filter.Values()
	query.Set("page", strconv.Itoa(page))
	query.Set("pageSize", strconv.Itoa(pageSize))

	var env offsetEnvelope[T]
	if err := c.do(ctx, http.MethodGet, path, query, nil, &env); err != nil {
		return domain.Page[T]{}, err
	}

	rows := env.Data
	if rows == nil {
		rows = []T{}
	}
	return domain.Page[T]{Rows: rows, Total: env.Total}, nil
}

// Users lists platform members.
func (c *AdminClient) Users(ctx context.Context, filter domain.Filter, pageSize int, cursor domain.PageCursor) (domain.Page[domain.User], error) {
	return listCursor[domain.User](ctx, c, pathUsers, filter, pageSize, cursor)
}

// Affiliates lists referrers.
func (c *AdminClient) Affiliates(ctx context.Context, filter domain.Filter, pageSize int, cursor domain.PageCursor) (domain.Page[domain.Affiliate], error) {
	return listCursor[domain.Affiliate](ctx, c, pathAffiliates, filter, pageSize, cursor)
}

func (c *AdminClient) Deposits(ctx context.Context, filter domain.Filter, pageSize int, cursor domain.PageCursor) (domain.Page[domain.DepositRequest], error) {
	return listCursor[domain.DepositRequest](ctx, c, pathDeposits, filter, pageSize, cursor)
}

func (c *AdminClient) Withdrawals(ctx context.Context, filter domain.Filter, pageSize int, cursor domain.PageCursor) (domain.Page[domain.WithdrawalRequest], error) {
	return listCursor[domain.WithdrawalRequest](ctx, c, pathWithdrawals, filter, pageSize, cursor)
}

func (c *AdminClient) BankChanges(ctx context.Context, filter domain.Filter, pageSize int, cursor domain.PageCursor) (domain.Page[domain.BankChangeRequest], error) {
	return listCursor[domain.BankChangeRequest](ctx, c, pathBankChanges, filter, pageSize, cursor)
}

func (c *AdminClient) OwnershipTransfers(ctx context.Context, filter domain.Filter, pageSize int, cursor domain.PageCursor) (domain.Page[domain.OwnershipTransfer], error) {
	return listCursor[domain.OwnershipTransfer](ctx, c, pathOwnershipTransfers, filter, pageSize, cursor)
}

// Tokens is paginated by page number, pages start at 1.
func (c *AdminClient) Tokens(ctx context.Context, filter domain.Filter, page, pageSize int) (domain.Page[domain.Token], error) {
	return listOffset[domain.Token](ctx, c, pathTokens, filter, page, pageSize)
}

// Platforms is paginated by page number, pages start at 1.
func (c *AdminClient) Platforms(ctx context.Context, filter domain.Filter, page, pageSize int) (domain.Page[domain.Platform], error) {
	return listOffset[domain.Platform](ctx, c, pathPlatforms, filter, page, pageSize)
}

type userIDRequest struct {
	UserID string `json:"user_id"`
	Reason string `json:"reason,omitempty"`
}

type idRequest struct {
	ID     string `json:"id"`
	Reason string `json:"reason,omitempty"`
}

// ApproveBankChange accepts the pending bank change of the user.
func (c *AdminClient) ApproveBankChange(ctx context.Context, userID string) error {
	if userID == "" {
		return errors.New("user id is required")
	}
	return c.do(ctx, http.MethodPost, pathBankChanges+"/approve", nil, userIDRequest{UserID: userID}, nil)
}

// RejectBankChange declines the pending bank change of the user.
func (c *AdminClient) RejectBankChange(ctx context.Context, userID, reason string) error {
	if userID == "" {
		return errors.New("user id is required")
	}
	return c.do(ctx, http.MethodPost, pathBankChanges+"/reject", nil, userIDRequest{UserID: userID, Reason: reason}, nil)
}

func (c *AdminClient) ApproveDeposit(ctx context.Context, id string) error {
	return c.review(ctx, pathDeposits, "approve", id, "")
}

func (c *AdminClient) RejectDeposit(ctx context.Context, id, reason string) error {
	return c.review(ctx, pathDeposits, "reject", id, reason)
}

func (c *AdminClient) ApproveWithdrawal(ctx context.Context, id string) error {
	return c.review(ctx, pathWithdrawals, "approve", id, "")
}

func (c *AdminClient) RejectWithdrawal(ctx context.Context, id, reason string) error {
	return c.review(ctx, pathWithdrawals, "reject", id, reason)
}

func (c *AdminClient) review(ctx context.Context, path, verb, id, reason string) error {
	if id == "" {
		return errors.New("request id is required")
	}
	return c.do(ctx, http.MethodPost, path+"/"+verb, nil, idRequest{ID: id, Reason: reason}, nil)
}

// TransferRequest moves an amount of a token from one user to another.
type TransferRequest struct {
	FromUserID string          `json:"from_user_id"`
	ToUserID   string          `json:"to_user_id"`
	Token      string          `json:"token"`
	Amount     decimal.Decimal `json:"amount"`
	Memo       string          `json:"memo,omitempty"`
}

// CreateTransfer returns the transfer as stored by the API.
func (c *AdminClient) CreateTransfer(ctx context.Context, req TransferRequest) (domain.OwnershipTransfer, error) {
	var env dataEnvelope[domain.OwnershipTransfer]
	if err := c.do(ctx, http.MethodPost, pathOwnershipTransfers, nil, req, &env); err != nil {
		return domain.OwnershipTransfer{}, err
	}
	return env.Data, nil
}

// TokenRequest lists a new token.
type TokenRequest struct {
	Name            string `json:"name"`
	Symbol          string `json:"symbol"`
	ContractAddress string `json:"contract_address"`
	Decimals        int    `json:"decimals"`
}

func (c *AdminClient) CreateToken(ctx context.Context, req TokenRequest) (domain.Token, error) {
	var env dataEnvelope[domain.Token]
	if err := c.do(ctx, http.MethodPost, pathTokens, nil, req, &env); err != nil {
		return domain.Token{}, err
	}
	return env.Data, nil
}

func (c *AdminClient) BankAccountAmount(ctx context.Context) (domain.BankAccountAmount, error) {
	var env dataEnvelope[domain.BankAccountAmount]
	if err := c.do(ctx, http.MethodGet, pathBankAccountAmount, nil, nil, &env); err != nil {
		return domain.BankAccountAmount{}, err
	}
	return env.Data, nil
}

// UpdateBankAccountAmount sends only the fields that are set.
func (c *AdminClient) UpdateBankAccountAmount(ctx context.Context, amount domain.BankAccountAmount) error {
	body := map[string]decimal.Decimal{}
	if amount.Fee.Valid {
		body["fee"] = amount.Fee.Decimal
	}
	if amount.USDTCharge.Valid {
		body["usdt_charge"] = amount.USDTCharge.Decimal
	}
	if len(body) == 0 {
		return errors.New("nothing to update")
	}
	return c.do(ctx, http.MethodPatch, pathBankAccountAmount, nil, body, nil)
}

func (c *AdminClient) NotificationSettings(ctx context.Context) ([]domain.NotificationSetting, error) {
	var env dataEnvelope[[]domain.NotificationSetting]
	if err := c.do(ctx, http.MethodGet, pathNotificationSets, nil, nil, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

func (c *AdminClient) UpdateNotificationSetting(ctx context.Context, setting domain.NotificationSetting) error {
	if setting.Event == "" {
		return errors.New("notification event is required")
	}
	return c.do(ctx, http.MethodPatch, pathNotificationSets+"/"+url.PathEscape(setting.Event), nil, setting, nil)
}

func (c *AdminClient) TimeSettings(ctx context.Context) ([]domain.TimeSetting, error) {
	var env dataEnvelope[[]domain.TimeSetting]
	if err := c.do(ctx, http.MethodGet, pathTimeSettings, nil, nil, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

func (c *AdminClient) UpdateTimeSetting(ctx context.Context, setting domain.TimeSetting) error {
	if setting.Name == "" {
		return errors.New("time setting name is required")
	}
	return c.do(ctx, http.MethodPatch, pathTimeSettings+"/"+url.PathEscape(setting.Name), nil, setting, nil)
}

// Dashboard returns the headline numbers.
func (c *AdminClient) Dashboard(ctx context.Context) (domain.DashboardStats, error) {
	var env dataEnvelope[domain.DashboardStats]
	if err := c.do(ctx, http.MethodGet, pathDashboard, nil, nil, &env); err != nil {
		return domain.DashboardStats{}, err
	}
	return env.Data, nil
}
