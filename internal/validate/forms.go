package validate

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/common"
	"github.com/msquare-market/admin/internal/clients"
	"github.com/msquare-market/admin/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	msgRequired      = "this field is required"
	msgOneOfRequired = "one of the two fields is required"
	msgNotNumber     = "must be a number"
	msgNegative      = "must not be negative"
	msgNotPositive   = "must be greater than zero"

	// MaxReasonLength in characters.
	MaxReasonLength = 500
	maxDecimals     = 36
)

// BankAccountAmount validates the bank fee form; at least one field must be set.
func BankAccountAmount(fee, usdtCharge string) (domain.BankAccountAmount, error) {
	fee, usdtCharge = strings.TrimSpace(fee), strings.TrimSpace(usdtCharge)
	errs := Errors{}

	if fee == "" && usdtCharge == "" {
		errs.add("fee", msgOneOfRequired)
		errs.add("usdt_charge", msgOneOfRequired)
		return domain.BankAccountAmount{}, errs
	}

	var out domain.BankAccountAmount
	out.Fee = nonNegative(errs, "fee", fee)
	out.USDTCharge = nonNegative(errs, "usdt_charge", usdtCharge)

	if err := errs.err(); err != nil {
		return domain.BankAccountAmount{}, err
	}
	return out, nil
}

func nonNegative(errs Errors, field, raw string) decimal.NullDecimal {
	if raw == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		errs.add(field, msgNotNumber)
		return decimal.NullDecimal{}
	}
	if d.IsNegative() {
		errs.add(field, msgNegative)
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// TokenForm is the "add token" form as typed by the admin.
type TokenForm struct {
	Name            string
	Symbol          string
	ContractAddress string
	Decimals        string
}

// Validate returns the request with a checksummed contract address.
func (f TokenForm) Validate() (clients.TokenRequest, error) {
	errs := Errors{}
	req := clients.TokenRequest{
		Name:   strings.TrimSpace(f.Name),
		Symbol: strings.ToUpper(strings.TrimSpace(f.Symbol)),
	}

	if req.Name == "" {
		errs.add("name", msgRequired)
	}
	if req.Symbol == "" {
		errs.add("symbol", msgRequired)
	}

	addr, msg := contractAddress(f.ContractAddress)
	if msg != "" {
		errs.add("contract_address", msg)
	}
	req.ContractAddress = addr

	decimals := strings.TrimSpace(f.Decimals)
	switch n, err := strconv.Atoi(decimals); {
	case decimals == "":
		errs.add("decimals", msgRequired)
	case err != nil:
		errs.add("decimals", msgNotNumber)
	case n < 0 || n > maxDecimals:
		errs.add("decimals", "must be between 0 and 36")
	default:
		req.Decimals = n
	}

	if err := errs.err(); err != nil {
		return clients.TokenRequest{}, err
	}
	return req, nil
}

func contractAddress(raw string) (string, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", msgRequired
	}
	if !common.IsHexAddress(raw) {
		return "", "must be a 0x prefixed 20 byte hex address"
	}
	checksummed := common.HexToAddress(raw).Hex()
	hexPart := strings.TrimPrefix(strings.TrimPrefix(raw, "0x"), "0X")
	mixedCase := strings.ToLower(hexPart) != hexPart && strings.ToUpper(hexPart) != hexPart
	if mixedCase && "0x"+hexPart != checksummed {
		return "", "checksum does not match"
	}
	if common.HexToAddress(raw) == (common.Address{}) {
		return "", "must not be the zero address"
	}
	return checksummed, ""
}

// TransferForm is the ownership transfer form.
type TransferForm struct {
	FromUserID string
	ToUserID   string
	Token      string
	Amount     string
	Memo       string
}

func (f TransferForm) Validate() (clients.TransferRequest, error) {
	errs := Errors{}
	req := clients.TransferRequest{
		FromUserID: strings.TrimSpace(f.FromUserID),
		ToUserID:   strings.TrimSpace(f.ToUserID),
		Token:      strings.TrimSpace(f.Token),
		Memo:       strings.TrimSpace(f.Memo),
	}

	if req.FromUserID == "" {
		errs.add("from_user_id", msgRequired)
	}
	if req.ToUserID == "" {
		errs.add("to_user_id", msgRequired)
	}
	if req.FromUserID != "" && req.FromUserID == req.ToUserID {
		errs.add("to_user_id", "must differ from the sender")
	}
	if req.Token == "" {
		errs.add("token", msgRequired)
	}

	amount := strings.TrimSpace(f.Amount)
	if amount == "" {
		errs.add("amount", msgRequired)
	} else if d, err := decimal.NewFromString(amount); err != nil {
		errs.add("amount", msgNotNumber)
	} else if !d.IsPositive() {
		errs.add("amount", msgNotPositive)
	} else {
		req.Amount = d
	}

	if utf8.RuneCountInString(req.Memo) > MaxReasonLength {
		errs.add("memo", "must be at most 500 characters")
	}

	if err := errs.err(); err != nil {
		return clients.TransferRequest{}, err
	}
	return req, nil
}

// Reason validates the text of a reject dialog.
func Reason(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", Errors{"reason": msgRequired}
	}
	if utf8.RuneCountInString(text) > MaxReasonLength {
		return "", Errors{"reason": "must be at most 500 characters"}
	}
	return text, nil
}
