package domain

import "github.com/shopspring/decimal"

// BalanceDelta is one signed adjustment to a wallet's balance in a single
// currency. A positive Amount increases the balance.
type BalanceDelta struct {
	WalletID string
	Currency Currency
	Amount   decimal.Decimal
}

// EffectOf maps a transaction payload to the balance deltas it implies:
//   - expense: one negative delta on the source wallet
//   - income: one positive delta on the source wallet
//   - transfer: a negative delta on the source wallet and a positive
//     delta of the same amount on the target wallet
//
// Pure and deterministic; no I/O.
func EffectOf(p TransactionPayload) []BalanceDelta {
	switch p.Type {
	case TransactionTypeExpense:
		return []BalanceDelta{
			{WalletID: p.WalletID, Currency: p.Currency, Amount: p.Amount.Neg()},
		}
	case TransactionTypeIncome:
		return []BalanceDelta{
			{WalletID: p.WalletID, Currency: p.Currency, Amount: p.Amount},
		}
	case TransactionTypeTransfer:
		return []BalanceDelta{
			{WalletID: p.WalletID, Currency: p.Currency, Amount: p.Amount.Neg()},
			{WalletID: p.TargetWalletID, Currency: p.Currency, Amount: p.Amount},
		}
	default:
		return nil
	}
}

// ReverseOf negates every delta in an effect, wallet-for-wallet and
// currency-for-currency, so that applying an effect and then its reverse
// leaves every touched balance exactly where it started.
func ReverseOf(effect []BalanceDelta) []BalanceDelta {
	reversed := make([]BalanceDelta, len(effect))
	for i, delta := range effect {
		reversed[i] = BalanceDelta{
			WalletID: delta.WalletID,
			Currency: delta.Currency,
			Amount:   delta.Amount.Neg(),
		}
	}
	return reversed
}

// DebtStatusFor derives a debt's status from its amounts
func DebtStatusFor(paidAmount, totalAmount decimal.Decimal) DebtStatus {
	if paidAmount.GreaterThanOrEqual(totalAmount) {
		return DebtStatusPaid
	}
	return DebtStatusActive
}

// GoalStatusFor derives a goal's status from its amounts
func GoalStatusFor(currentAmount, targetAmount decimal.Decimal) GoalStatus {
	if currentAmount.GreaterThanOrEqual(targetAmount) {
		return GoalStatusCompleted
	}
	return GoalStatusActive
}
