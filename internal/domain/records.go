package domain

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

const cellTimeLayout = "2006-01-02 15:04"

// Row is a record that can be rendered in a data grid.
type Row interface {
	// RowID unique id of the row, used as pagination cursor.
	RowID() string
	// Cells display values keyed by column field.
	Cells() map[string]string
}

// RequestStatus of deposit, withdrawal and bank change requests.
type RequestStatus string

const (
	StatusPending  RequestStatus = "PENDING"
	StatusApproved RequestStatus = "APPROVED"
	StatusRejected RequestStatus = "REJECTED"
)

// User is a platform member.
type User struct {
	ID         string    `json:"_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Platform   string    `json:"platform"`
	ReferralID string    `json:"referral_id"`
	IsBlocked  bool      `json:"is_blocked"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (u User) RowID() string { return u.ID }

func (u User) Cells() map[string]string {
	return map[string]string{
		"name":       u.Name,
		"email":      u.Email,
		"phone":      u.Phone,
		"platform":   u.Platform,
		"referral":   u.ReferralID,
		"status":     blockedLabel(u.IsBlocked),
		"created_at": formatTime(u.CreatedAt),
	}
}

// Token is a reward token listed on the platform.
type Token struct {
	ID              string          `json:"_id"`
	Name            string          `json:"name"`
	Symbol          string          `json:"symbol"`
	ContractAddress string          `json:"contract_address"`
	Decimals        int             `json:"decimals"`
	Price           decimal.Decimal `json:"price"`
	IsActive        bool            `json:"is_active"`
	CreatedAt       time.Time       `json:"createdAt"`
}

func (t Token) RowID() string { return t.ID }

func (t Token) Cells() map[string]string {
	return map[string]string{
		"name":       t.Name,
		"symbol":     t.Symbol,
		"contract":   t.ContractAddress,
		"decimals":   strconv.Itoa(t.Decimals),
		"price":      t.Price.String(),
		"active":     strconv.FormatBool(t.IsActive),
		"created_at": formatTime(t.CreatedAt),
	}
}

// Platform is a partner platform whose users earn tokens.
type Platform struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Domain    string    `json:"domain"`
	OwnerID   string    `json:"owner_id"`
	Users     int64     `json:"users_count"`
	CreatedAt time.Time `json:"createdAt"`
}

func (p Platform) RowID() string { return p.ID }

func (p Platform) Cells() map[string]string {
	return map[string]string{
		"name":       p.Name,
		"domain":     p.Domain,
		"owner":      p.OwnerID,
		"users":      strconv.FormatInt(p.Users, 10),
		"created_at": formatTime(p.CreatedAt),
	}
}

// Affiliate is a referrer together with the reward it accumulated.
type Affiliate struct {
	ID         string          `json:"_id"`
	UserID     string          `json:"user_id"`
	Name       string          `json:"name"`
	Referrals  int64           `json:"referrals"`
	Commission decimal.Decimal `json:"commission"`
	CreatedAt  time.Time       `json:"createdAt"`
}

func (a Affiliate) RowID() string { return a.ID }

func (a Affiliate) Cells() map[string]string {
	return map[string]string{
		"name":       a.Name,
		"user_id":    a.UserID,
		"referrals":  strconv.FormatInt(a.Referrals, 10),
		"commission": a.Commission.String(),
		"created_at": formatTime(a.CreatedAt),
	}
}

// DepositRequest is a user deposit waiting for admin review.
type DepositRequest struct {
	ID        string          `json:"_id"`
	UserID    string          `json:"user_id"`
	UserName  string          `json:"user_name"`
	Token     string          `json:"token"`
	Amount    decimal.Decimal `json:"amount"`
	TxHash    string          `json:"tx_hash"`
	Status    RequestStatus   `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
}

func (d DepositRequest) RowID() string { return d.ID }

func (d DepositRequest) Cells() map[string]string {
	return map[string]string{
		"user":       d.UserName,
		"token":      d.Token,
		"amount":     d.Amount.String(),
		"tx_hash":    d.TxHash,
		"status":     string(d.Status),
		"created_at": formatTime(d.CreatedAt),
	}
}

// WithdrawalRequest is a user withdrawal waiting for admin review.
type WithdrawalRequest struct {
	ID        string          `json:"_id"`
	UserID    string          `json:"user_id"`
	UserName  string          `json:"user_name"`
	Token     string          `json:"token"`
	Amount    decimal.Decimal `json:"amount"`
	Fee       decimal.Decimal `json:"fee"`
	BankName  string          `json:"bank_name"`
	AccountNo string          `json:"account_no"`
	Status    RequestStatus   `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
}

func (w WithdrawalRequest) RowID() string { return w.ID }

func (w WithdrawalRequest) Cells() map[string]string {
	return map[string]string{
		"user":       w.UserName,
		"token":      w.Token,
		"amount":     w.Amount.String(),
		"fee":        w.Fee.String(),
		"bank":       w.BankName,
		"account":    w.AccountNo,
		"status":     string(w.Status),
		"created_at": formatTime(w.CreatedAt),
	}
}

// BankChangeRequest is a user asking to replace the registered bank account.
type BankChangeRequest struct {
	ID             string        `json:"_id"`
	UserID         string        `json:"user_id"`
	UserName       string        `json:"user_name"`
	OldBankName    string        `json:"old_bank_name"`
	OldAccountNo   string        `json:"old_account_no"`
	NewBankName    string        `json:"new_bank_name"`
	NewAccountNo   string        `json:"new_account_no"`
	NewAccountName string        `json:"new_account_name"`
	Status         RequestStatus `json:"status"`
	CreatedAt      time.Time     `json:"createdAt"`
}

func (b BankChangeRequest) RowID() string { return b.ID }

func (b BankChangeRequest) Cells() map[string]string {
	return map[string]string{
		"user":       b.UserName,
		"old_bank":   b.OldBankName + " " + b.OldAccountNo,
		"new_bank":   b.NewBankName + " " + b.NewAccountNo,
		"holder":     b.NewAccountName,
		"status":     string(b.Status),
		"created_at": formatTime(b.CreatedAt),
	}
}

// OwnershipTransfer moves platform ownership or token balance between users.
type OwnershipTransfer struct {
	ID         string          `json:"_id"`
	FromUserID string          `json:"from_user_id"`
	ToUserID   string          `json:"to_user_id"`
	Token      string          `json:"token"`
	Amount     decimal.Decimal `json:"amount"`
	Memo       string          `json:"memo"`
	CreatedAt  time.Time       `json:"createdAt"`
}

func (o OwnershipTransfer) RowID() string { return o.ID }

func (o OwnershipTransfer) Cells() map[string]string {
	return map[string]string{
		"from":       o.FromUserID,
		"to":         o.ToUserID,
		"token":      o.Token,
		"amount":     o.Amount.String(),
		"memo":       o.Memo,
		"created_at": formatTime(o.CreatedAt),
	}
}

// NotificationSetting toggles a notification channel for an event.
type NotificationSetting struct {
	Event string `json:"event"`
	Email bool   `json:"email"`
	Push  bool   `json:"push"`
	SMS   bool   `json:"sms"`
}

// TimeSetting configures a platform wide time window (e.g. withdrawal hours).
type TimeSetting struct {
	Name      string `json:"name"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Timezone  string `json:"timezone"`
}

// BankAccountAmount is the fee configuration applied to bank withdrawals.
type BankAccountAmount struct {
	Fee        decimal.NullDecimal `json:"fee"`
	USDTCharge decimal.NullDecimal `json:"usdt_charge"`
}

// DashboardStats are the headline numbers of the dashboard.
type DashboardStats struct {
	TotalUsers         int64           `json:"total_users"`
	NewUsersToday      int64           `json:"new_users_today"`
	TotalPlatforms     int64           `json:"total_platforms"`
	PendingDeposits    int64           `json:"pending_deposits"`
	PendingWithdrawals int64           `json:"pending_withdrawals"`
	PendingBankChanges int64           `json:"pending_bank_changes"`
	TotalDeposited     decimal.Decimal `json:"total_deposited"`
	TotalWithdrawn     decimal.Decimal `json:"total_withdrawn"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(cellTimeLayout)
}

func blockedLabel(blocked bool) string {
	if blocked {
		return "blocked"
	}
	return "active"
}
