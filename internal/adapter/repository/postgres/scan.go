package postgres

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/homeledger/homeledger-backend/internal/domain"
)

// rowScanner is satisfied by both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(row rowScanner) (*domain.Transaction, error) {
	var transaction domain.Transaction
	var target, category, note sql.NullString
	var amountStr string

	err := row.Scan(
		&transaction.ID,
		&transaction.Type,
		&transaction.Owner,
		&transaction.WalletID,
		&target,
		&amountStr,
		&transaction.Currency,
		&category,
		&note,
		&transaction.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	transaction.TargetWalletID = target.String
	transaction.Category = category.String
	transaction.Note = note.String

	if transaction.Amount, err = decimal.NewFromString(amountStr); err != nil {
		return nil, fmt.Errorf("failed to parse amount: %w", err)
	}
	return &transaction, nil
}

func scanGoal(row rowScanner) (*domain.Goal, error) {
	var goal domain.Goal
	var targetStr, currentStr string

	err := row.Scan(
		&goal.ID,
		&goal.Title,
		&targetStr,
		&currentStr,
		&goal.Currency,
		&goal.Status,
		&goal.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if goal.TargetAmount, err = decimal.NewFromString(targetStr); err != nil {
		return nil, fmt.Errorf("failed to parse target_amount: %w", err)
	}
	if goal.CurrentAmount, err = decimal.NewFromString(currentStr); err != nil {
		return nil, fmt.Errorf("failed to parse current_amount: %w", err)
	}
	return &goal, nil
}

func scanDebt(row rowScanner) (*domain.Debt, error) {
	var debt domain.Debt
	var totalStr, paidStr string

	err := row.Scan(
		&debt.ID,
		&debt.Title,
		&debt.Direction,
		&totalStr,
		&paidStr,
		&debt.Currency,
		&debt.Status,
		&debt.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if debt.TotalAmount, err = decimal.NewFromString(totalStr); err != nil {
		return nil, fmt.Errorf("failed to parse total_amount: %w", err)
	}
	if debt.PaidAmount, err = decimal.NewFromString(paidStr); err != nil {
		return nil, fmt.Errorf("failed to parse paid_amount: %w", err)
	}
	return &debt, nil
}
