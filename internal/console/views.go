package console

import (
	"github.com/msquare-market/admin/internal/clients"
	"github.com/msquare-market/admin/internal/columns"
	"github.com/msquare-market/admin/internal/domain"
	"github.com/msquare-market/admin/internal/listview"
	"github.com/msquare-market/admin/internal/querycache"
)

var newestFirst = domain.SortModel{{Field: "created_at", Sort: domain.SortDesc}}

func usersDef(c *clients.AdminClient) viewDef[domain.User] {
	return viewDef[domain.User]{
		name:   querycache.Users,
		title:  "Users",
		layout: "user",
		columns: []columns.Column{
			{Field: "name", Title: "Name", Width: 16, Sortable: true},
			{Field: "email", Title: "Email", Width: 24, Sortable: true},
			{Field: "phone", Title: "Phone", Width: 14},
			{Field: "platform", Title: "Platform", Width: 12, Sortable: true},
			{Field: "referral", Title: "Referral", Width: 12},
			{Field: "status", Title: "Status", Width: 8, Sortable: true},
			{Field: "created_at", Title: "Joined", Width: 16, Sortable: true},
		},
		defaultSort: newestFirst,
		fetcher:     listview.Cursor[domain.User](c.Users),
	}
}

func tokensDef(c *clients.AdminClient) viewDef[domain.Token] {
	return viewDef[domain.Token]{
		name:   querycache.Tokens,
		title:  "Tokens",
		layout: "token",
		columns: []columns.Column{
			{Field: "name", Title: "Name", Width: 14, Sortable: true},
			{Field: "symbol", Title: "Symbol", Width: 8, Sortable: true},
			{Field: "contract", Title: "Contract", Width: 42},
			{Field: "decimals", Title: "Decimals", Width: 8},
			{Field: "price", Title: "Price", Width: 10, Sortable: true},
			{Field: "active", Title: "Active", Width: 6},
			{Field: "created_at", Title: "Created", Width: 16, Sortable: true},
		},
		fetcher: listview.NewOffsetFetcher[domain.Token](c.Tokens),
	}
}

func platformsDef(c *clients.AdminClient) viewDef[domain.Platform] {
	return viewDef[domain.Platform]{
		name:   querycache.Platforms,
		title:  "Platforms",
		layout: "platform",
		columns: []columns.Column{
			{Field: "name", Title: "Name", Width: 16, Sortable: true},
			{Field: "domain", Title: "Domain", Width: 20},
			{Field: "owner", Title: "Owner", Width: 12},
			{Field: "users", Title: "Users", Width: 8, Sortable: true},
			{Field: "created_at", Title: "Created", Width: 16, Sortable: true},
		},
		fetcher: listview.NewOffsetFetcher[domain.Platform](c.Platforms),
	}
}

func affiliatesDef(c *clients.AdminClient) viewDef[domain.Affiliate] {
	return viewDef[domain.Affiliate]{
		name:   querycache.Affiliates,
		title:  "Affiliates",
		layout: "affiliate",
		columns: []columns.Column{
			{Field: "name", Title: "Name", Width: 16, Sortable: true},
			{Field: "user_id", Title: "User", Width: 12},
			{Field: "referrals", Title: "Referrals", Width: 9, Sortable: true},
			{Field: "commission", Title: "Commission", Width: 12, Sortable: true},
			{Field: "created_at", Title: "Since", Width: 16, Sortable: true},
		},
		defaultSort: newestFirst,
		fetcher:     listview.Cursor[domain.Affiliate](c.Affiliates),
	}
}

func depositsDef(c *clients.AdminClient) viewDef[domain.DepositRequest] {
	return viewDef[domain.DepositRequest]{
		name:   querycache.Deposits,
		title:  "Deposit requests",
		layout: "deposit",
		columns: []columns.Column{
			{Field: "user", Title: "User", Width: 14, Sortable: true},
			{Field: "token", Title: "Token", Width: 8},
			{Field: "amount", Title: "Amount", Width: 12, Sortable: true},
			{Field: "tx_hash", Title: "Tx hash", Width: 20},
			{Field: "status", Title: "Status", Width: 9, Sortable: true},
			{Field: "created_at", Title: "Requested", Width: 16, Sortable: true},
		},
		defaultSort: newestFirst,
		fetcher:     listview.Cursor[domain.DepositRequest](c.Deposits),
	}
}

func withdrawalsDef(c *clients.AdminClient) viewDef[domain.WithdrawalRequest] {
	return viewDef[domain.WithdrawalRequest]{
		name:   querycache.Withdrawals,
		title:  "Withdrawal requests",
		layout: "withdrawal",
		columns: []columns.Column{
			{Field: "user", Title: "User", Width: 14, Sortable: true},
			{Field: "token", Title: "Token", Width: 8},
			{Field: "amount", Title: "Amount", Width: 12, Sortable: true},
			{Field: "fee", Title: "Fee", Width: 8},
			{Field: "bank", Title: "Bank", Width: 12},
			{Field: "account", Title: "Account", Width: 16},
			{Field: "status", Title: "Status", Width: 9, Sortable: true},
			{Field: "created_at", Title: "Requested", Width: 16, Sortable: true},
		},
		defaultSort: newestFirst,
		fetcher:     listview.Cursor[domain.WithdrawalRequest](c.Withdrawals),
	}
}

func bankChangesDef(c *clients.AdminClient) viewDef[domain.BankChangeRequest] {
	return viewDef[domain.BankChangeRequest]{
		name:   querycache.BankChanges,
		title:  "Bank account changes",
		layout: "bankChange",
		columns: []columns.Column{
			{Field: "user", Title: "User", Width: 14, Sortable: true},
			{Field: "old_bank", Title: "Current account", Width: 22},
			{Field: "new_bank", Title: "New account", Width: 22},
			{Field: "holder", Title: "Holder", Width: 12},
			{Field: "status", Title: "Status", Width: 9, Sortable: true},
			{Field: "created_at", Title: "Requested", Width: 16, Sortable: true},
		},
		defaultSort: newestFirst,
		fetcher:     listview.Cursor[domain.BankChangeRequest](c.BankChanges),
	}
}

func transfersDef(c *clients.AdminClient) viewDef[domain.OwnershipTransfer] {
	return viewDef[domain.OwnershipTransfer]{
		name:   querycache.OwnershipTransfers,
		title:  "Ownership transfers",
		layout: "ownershipTransfer",
		columns: []columns.Column{
			{Field: "from", Title: "From", Width: 12},
			{Field: "to", Title: "To", Width: 12},
			{Field: "token", Title: "Token", Width: 8},
			{Field: "amount", Title: "Amount", Width: 12, Sortable: true},
			{Field: "memo", Title: "Memo", Width: 20},
			{Field: "created_at", Title: "Created", Width: 16, Sortable: true},
		},
		defaultSort: newestFirst,
		fetcher:     listview.Cursor[domain.OwnershipTransfer](c.OwnershipTransfers),
	}
}
