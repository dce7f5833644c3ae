package validate

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldErrors(t *testing.T, err error) Errors {
	t.Helper()
	var errs Errors
	require.True(t, errors.As(err, &errs), "expected validation errors, got %v", err)
	return errs
}

func TestBankAccountAmount(t *testing.T) {
	t.Run("both empty", func(t *testing.T) {
		_, err := BankAccountAmount("  ", "")
		errs := fieldErrors(t, err)
		assert.Equal(t, Errors{
			"fee":         "one of the two fields is required",
			"usdt_charge": "one of the two fields is required",
		}, errs)
	})

	t.Run("only fee", func(t *testing.T) {
		out, err := BankAccountAmount("1.5", "")
		require.NoError(t, err)
		assert.True(t, out.Fee.Valid)
		assert.Equal(t, "1.5", out.Fee.Decimal.String())
		assert.False(t, out.USDTCharge.Valid)
	})

	t.Run("invalid values", func(t *testing.T) {
		_, err := BankAccountAmount("abc", "-1")
		errs := fieldErrors(t, err)
		assert.Equal(t, "must be a number", errs["fee"])
		assert.Equal(t, "must not be negative", errs["usdt_charge"])
	})
}

func TestTokenForm(t *testing.T) {
	const lower = "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"
	const checksummed = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"

	tests := []struct {
		name      string
		form      TokenForm
		wantField string
		wantAddr  string
	}{
		{name: "lowercase address is checksummed", form: TokenForm{Name: "MSquare", Symbol: "msq", ContractAddress: lower, Decimals: "18"}, wantAddr: checksummed},
		{name: "checksummed address", form: TokenForm{Name: "MSquare", Symbol: "MSQ", ContractAddress: checksummed, Decimals: "6"}, wantAddr: checksummed},
		{name: "bad checksum", form: TokenForm{Name: "MSquare", Symbol: "MSQ", ContractAddress: "0x5AAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", Decimals: "6"}, wantField: "contract_address"},
		{name: "not hex", form: TokenForm{Name: "MSquare", Symbol: "MSQ", ContractAddress: "0x1234", Decimals: "6"}, wantField: "contract_address"},
		{name: "zero address", form: TokenForm{Name: "MSquare", Symbol: "MSQ", ContractAddress: "0x0000000000000000000000000000000000000000", Decimals: "6"}, wantField: "contract_address"},
		{name: "missing name", form: TokenForm{Symbol: "MSQ", ContractAddress: lower, Decimals: "6"}, wantField: "name"},
		{name: "decimals out of range", form: TokenForm{Name: "MSquare", Symbol: "MSQ", ContractAddress: lower, Decimals: "99"}, wantField: "decimals"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := tt.form.Validate()
			if tt.wantField != "" {
				errs := fieldErrors(t, err)
				assert.Contains(t, errs, tt.wantField)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantAddr, req.ContractAddress)
			assert.Equal(t, "MSQ", req.Symbol)
		})
	}
}

func TestTransferForm(t *testing.T) {
	req, err := TransferForm{FromUserID: "u1", ToUserID: "u2", Token: "MSQ", Amount: "10.5"}.Validate()
	require.NoError(t, err)
	assert.Equal(t, "10.5", req.Amount.String())

	_, err = TransferForm{FromUserID: "u1", ToUserID: "u1", Token: "MSQ", Amount: "0"}.Validate()
	errs := fieldErrors(t, err)
	assert.Equal(t, "must differ from the sender", errs["to_user_id"])
	assert.Equal(t, "must be greater than zero", errs["amount"])
}

func TestReason(t *testing.T) {
	got, err := Reason("  duplicate account  ")
	require.NoError(t, err)
	assert.Equal(t, "duplicate account", got)

	_, err = Reason(" ")
	assert.Error(t, err)

	_, err = Reason(strings.Repeat("가", MaxReasonLength+1))
	assert.Error(t, err)

	_, err = Reason(strings.Repeat("가", MaxReasonLength))
	assert.NoError(t, err)
}

func TestErrors_UserMessage(t *testing.T) {
	errs := Errors{"b": "two", "a": "one"}
	assert.Equal(t, "a: one; b: two", errs.UserMessage())
}
