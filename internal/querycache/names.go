package querycache

// Query names shared by list views and the mutations that make them stale.
const (
	Users              = "users"
	Tokens             = "tokens"
	Platforms          = "platforms"
	Affiliates         = "affiliates"
	Deposits           = "deposits"
	Withdrawals        = "withdrawals"
	BankChanges        = "bankChanges"
	OwnershipTransfers = "ownershipTransfers"
	Dashboard          = "dashboard"
	BankAccountAmount  = "bankAccountAmount"
	NotificationSets   = "notificationSettings"
	TimeSettings       = "timeSettings"
)
