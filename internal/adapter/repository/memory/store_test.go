package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homeledger/homeledger-backend/internal/domain"
)

func TestRunAtomic_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	require.NoError(t, NewGoalRepository(store).Create(ctx, &domain.Goal{
		ID:            "g1",
		Title:         "bike",
		TargetAmount:  decimal.NewFromInt(100),
		CurrentAmount: decimal.NewFromInt(10),
		Status:        domain.GoalStatusActive,
	}))

	boom := errors.New("boom")
	err := store.RunAtomic(ctx, func(tx domain.AtomicUnit) error {
		require.NoError(t, tx.PutTransaction(ctx, &domain.Transaction{ID: "t1"}))
		require.NoError(t, tx.ApplyBalanceDeltas(ctx, []domain.BalanceDelta{
			{WalletID: "w1", Currency: domain.CurrencyUAH, Amount: decimal.NewFromInt(50)},
		}))
		require.NoError(t, tx.UpdateGoalProgress(ctx, "g1", decimal.NewFromInt(60), domain.GoalStatusActive))
		return boom
	})
	require.ErrorIs(t, err, boom)

	// none of the writes survived
	err = store.RunAtomic(ctx, func(tx domain.AtomicUnit) error {
		_, err := tx.GetTransaction(ctx, "t1")
		assert.ErrorIs(t, err, domain.ErrNotFound)

		goal, err := tx.GetGoal(ctx, "g1")
		require.NoError(t, err)
		assert.True(t, goal.CurrentAmount.Equal(decimal.NewFromInt(10)))
		return nil
	})
	require.NoError(t, err)
}

func TestRunAtomic_CommitsOnSuccess(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	err := store.RunAtomic(ctx, func(tx domain.AtomicUnit) error {
		return tx.ApplyBalanceDeltas(ctx, []domain.BalanceDelta{
			{WalletID: "w1", Currency: domain.CurrencyUSD, Amount: decimal.NewFromInt(30)},
			{WalletID: "w1", Currency: domain.CurrencyUSD, Amount: decimal.NewFromInt(-10)},
		})
	})
	require.NoError(t, err)

	require.NoError(t, NewWalletRepository(store).Create(ctx, &domain.Wallet{
		ID:   "w1",
		Name: "main",
		Type: domain.WalletTypeCash,
	}))

	wallets, err := NewWalletRepository(store).List(ctx)
	require.NoError(t, err)
	require.Len(t, wallets, 1)
	assert.True(t, wallets[0].Balances[domain.CurrencyUSD].Equal(decimal.NewFromInt(20)))
}
