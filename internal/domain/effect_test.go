package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expensePayload(walletID string, amount int64) TransactionPayload {
	return TransactionPayload{
		Type:     TransactionTypeExpense,
		Owner:    OwnerMe,
		WalletID: walletID,
		Amount:   decimal.NewFromInt(amount),
		Currency: CurrencyUAH,
	}
}

func TestEffectOf_Expense(t *testing.T) {
	effect := EffectOf(expensePayload("w1", 200))

	require.Len(t, effect, 1)
	assert.Equal(t, "w1", effect[0].WalletID)
	assert.Equal(t, CurrencyUAH, effect[0].Currency)
	assert.True(t, effect[0].Amount.Equal(decimal.NewFromInt(-200)))
}

func TestEffectOf_Income(t *testing.T) {
	payload := expensePayload("w1", 350)
	payload.Type = TransactionTypeIncome

	effect := EffectOf(payload)

	require.Len(t, effect, 1)
	assert.True(t, effect[0].Amount.Equal(decimal.NewFromInt(350)))
}

func TestEffectOf_Transfer(t *testing.T) {
	payload := TransactionPayload{
		Type:           TransactionTypeTransfer,
		Owner:          OwnerWife,
		WalletID:       "w1",
		TargetWalletID: "w2",
		Amount:         decimal.NewFromInt(150),
		Currency:       CurrencyEUR,
	}

	effect := EffectOf(payload)

	require.Len(t, effect, 2)
	assert.Equal(t, "w1", effect[0].WalletID)
	assert.True(t, effect[0].Amount.Equal(decimal.NewFromInt(-150)))
	assert.Equal(t, "w2", effect[1].WalletID)
	assert.True(t, effect[1].Amount.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, CurrencyEUR, effect[0].Currency)
	assert.Equal(t, CurrencyEUR, effect[1].Currency)
}

// applyDeltas mirrors how a store folds deltas into balances
func applyDeltas(balances map[string]map[Currency]decimal.Decimal, deltas []BalanceDelta) {
	for _, delta := range deltas {
		byCurrency, ok := balances[delta.WalletID]
		if !ok {
			byCurrency = make(map[Currency]decimal.Decimal)
			balances[delta.WalletID] = byCurrency
		}
		byCurrency[delta.Currency] = byCurrency[delta.Currency].Add(delta.Amount)
	}
}

// Applying an effect and then its reverse must restore every touched
// balance to its starting value, for every transaction type
func TestReverseOf_RestoresBalances(t *testing.T) {
	payloads := []TransactionPayload{
		expensePayload("w1", 200),
		{Type: TransactionTypeIncome, WalletID: "w1", Amount: decimal.NewFromInt(75), Currency: CurrencyUSD},
		{Type: TransactionTypeTransfer, WalletID: "w1", TargetWalletID: "w2", Amount: decimal.RequireFromString("99.99"), Currency: CurrencyUAH},
		{Type: TransactionTypeTransfer, WalletID: "w2", TargetWalletID: "w3", Amount: decimal.RequireFromString("0.01"), Currency: CurrencyEUR},
	}

	for _, payload := range payloads {
		balances := map[string]map[Currency]decimal.Decimal{
			"w1": {CurrencyUAH: decimal.NewFromInt(1000), CurrencyUSD: decimal.NewFromInt(50)},
			"w2": {CurrencyUAH: decimal.NewFromInt(500)},
		}

		effect := EffectOf(payload)
		applyDeltas(balances, effect)
		applyDeltas(balances, ReverseOf(effect))

		assert.True(t, balances["w1"][CurrencyUAH].Equal(decimal.NewFromInt(1000)))
		assert.True(t, balances["w1"][CurrencyUSD].Equal(decimal.NewFromInt(50)))
		assert.True(t, balances["w2"][CurrencyUAH].Equal(decimal.NewFromInt(500)))
		for wallet, byCurrency := range balances {
			for currency, balance := range byCurrency {
				if wallet == "w1" || wallet == "w2" {
					continue
				}
				assert.True(t, balance.IsZero(), "wallet %s currency %s not restored", wallet, currency)
			}
		}
	}
}

func TestReverseOf_IsExactInverse(t *testing.T) {
	effect := EffectOf(TransactionPayload{
		Type:           TransactionTypeTransfer,
		WalletID:       "a",
		TargetWalletID: "b",
		Amount:         decimal.RequireFromString("123.45"),
		Currency:       CurrencyUSD,
	})

	reversed := ReverseOf(effect)

	require.Len(t, reversed, len(effect))
	for i := range effect {
		assert.Equal(t, effect[i].WalletID, reversed[i].WalletID)
		assert.Equal(t, effect[i].Currency, reversed[i].Currency)
		assert.True(t, effect[i].Amount.Add(reversed[i].Amount).IsZero())
	}
}

func TestDebtStatusFor(t *testing.T) {
	total := decimal.NewFromInt(1000)

	assert.Equal(t, DebtStatusActive, DebtStatusFor(decimal.NewFromInt(999), total))
	assert.Equal(t, DebtStatusPaid, DebtStatusFor(decimal.NewFromInt(1000), total))
	assert.Equal(t, DebtStatusPaid, DebtStatusFor(decimal.NewFromInt(1200), total))
	assert.Equal(t, DebtStatusActive, DebtStatusFor(decimal.Zero, total))
}

func TestGoalStatusFor(t *testing.T) {
	target := decimal.NewFromInt(500)

	assert.Equal(t, GoalStatusActive, GoalStatusFor(decimal.NewFromInt(499), target))
	assert.Equal(t, GoalStatusCompleted, GoalStatusFor(decimal.NewFromInt(500), target))
	assert.Equal(t, GoalStatusCompleted, GoalStatusFor(decimal.NewFromInt(550), target))
	// status moves back when the amount drops under the target again
	assert.Equal(t, GoalStatusActive, GoalStatusFor(decimal.NewFromInt(100), target))
}
