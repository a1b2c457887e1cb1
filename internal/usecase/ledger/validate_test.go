package ledger

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/homeledger/homeledger-backend/internal/domain"
)

func validRequest() TransactionRequest {
	return TransactionRequest{
		Type:     "expense",
		Owner:    "me",
		WalletID: "w1",
		Amount:   json.Number("200"),
		Currency: "UAH",
	}
}

func TestParsePayload_Valid(t *testing.T) {
	_, payload, err := ParsePayload(validRequest(), false)

	require.NoError(t, err)
	assert.Equal(t, domain.TransactionTypeExpense, payload.Type)
	assert.Equal(t, domain.OwnerMe, payload.Owner)
	assert.Equal(t, "w1", payload.WalletID)
	assert.True(t, payload.Amount.Equal(decimal.NewFromInt(200)))
	assert.Equal(t, domain.CurrencyUAH, payload.Currency)
	assert.Empty(t, payload.TargetWalletID)
}

func TestParsePayload_TransferValid(t *testing.T) {
	req := validRequest()
	req.Type = "transfer"
	req.TargetWalletID = "w2"

	_, payload, err := ParsePayload(req, false)

	require.NoError(t, err)
	assert.Equal(t, "w2", payload.TargetWalletID)
}

// A target wallet supplied on a non-transfer is dropped rather than
// rejected
func TestParsePayload_NonTransferDropsTarget(t *testing.T) {
	req := validRequest()
	req.TargetWalletID = "w2"

	_, payload, err := ParsePayload(req, false)

	require.NoError(t, err)
	assert.Empty(t, payload.TargetWalletID)
}

func TestParsePayload_RejectionOrder(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*TransactionRequest)
		message string
	}{
		{"unknown type", func(r *TransactionRequest) { r.Type = "loan" }, "Invalid transaction type"},
		{"empty type", func(r *TransactionRequest) { r.Type = "" }, "Invalid transaction type"},
		{"unknown owner", func(r *TransactionRequest) { r.Owner = "dog" }, "Invalid owner"},
		{"blank wallet", func(r *TransactionRequest) { r.WalletID = "   " }, "walletId is required"},
		{"zero amount", func(r *TransactionRequest) { r.Amount = json.Number("0") }, "amount must be positive"},
		{"negative amount", func(r *TransactionRequest) { r.Amount = json.Number("-5") }, "amount must be positive"},
		{"unparseable amount", func(r *TransactionRequest) { r.Amount = json.Number("abc") }, "amount must be positive"},
		{"missing amount", func(r *TransactionRequest) { r.Amount = json.Number("") }, "amount must be positive"},
		{"unknown currency", func(r *TransactionRequest) { r.Currency = "GBP" }, "Invalid currency"},
		{
			"transfer without target",
			func(r *TransactionRequest) { r.Type = "transfer" },
			"targetWalletId is required for transfer",
		},
		{
			"transfer to same wallet",
			func(r *TransactionRequest) { r.Type = "transfer"; r.TargetWalletID = r.WalletID },
			"targetWalletId must differ from walletId",
		},
		{
			// type is checked before owner, even when both are bad
			"type checked first",
			func(r *TransactionRequest) { r.Type = "loan"; r.Owner = "dog" },
			"Invalid transaction type",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)

			_, _, err := ParsePayload(req, false)

			require.Error(t, err)
			st, ok := status.FromError(err)
			require.True(t, ok)
			assert.Equal(t, codes.InvalidArgument, st.Code())
			assert.Equal(t, tc.message, st.Message())
		})
	}
}

func TestParsePayload_RequireID(t *testing.T) {
	req := validRequest()

	_, _, err := ParsePayload(req, true)
	st, _ := status.FromError(err)
	require.Equal(t, codes.InvalidArgument, st.Code())
	assert.Equal(t, "id is required", st.Message())

	req.ID = "  tx-1  "
	id, _, err := ParsePayload(req, true)
	require.NoError(t, err)
	assert.Equal(t, "tx-1", id)
}

func TestParseDebtPayment(t *testing.T) {
	_, _, err := ParseDebtPayment(DebtPaymentRequest{DebtID: "", Amount: json.Number("10")})
	st, _ := status.FromError(err)
	assert.Equal(t, "debtId is required", st.Message())

	_, _, err = ParseDebtPayment(DebtPaymentRequest{DebtID: "d1", Amount: json.Number("-1")})
	st, _ = status.FromError(err)
	assert.Equal(t, "amount must be positive", st.Message())

	debtID, amount, err := ParseDebtPayment(DebtPaymentRequest{DebtID: "d1", Amount: json.Number("200")})
	require.NoError(t, err)
	assert.Equal(t, "d1", debtID)
	assert.True(t, amount.Equal(decimal.NewFromInt(200)))
}

func TestParseGoalAdjust(t *testing.T) {
	_, _, err := ParseGoalAdjust(GoalAdjustRequest{GoalID: " ", Delta: json.Number("10")})
	st, _ := status.FromError(err)
	assert.Equal(t, "goalId is required", st.Message())

	_, _, err = ParseGoalAdjust(GoalAdjustRequest{GoalID: "g1", Delta: json.Number("0")})
	st, _ = status.FromError(err)
	assert.Equal(t, "delta must be non-zero", st.Message())

	goalID, delta, err := ParseGoalAdjust(GoalAdjustRequest{GoalID: "g1", Delta: json.Number("-450")})
	require.NoError(t, err)
	assert.Equal(t, "g1", goalID)
	assert.True(t, delta.Equal(decimal.NewFromInt(-450)))
}
