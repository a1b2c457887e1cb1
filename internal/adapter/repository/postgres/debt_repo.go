package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/homeledger/homeledger-backend/internal/domain"
)

// debtRepository implements domain.DebtRepository
type debtRepository struct {
	db *DB
}

// NewDebtRepository creates a new debt repository
func NewDebtRepository(db *DB) domain.DebtRepository {
	return &debtRepository{db: db}
}

// Create creates a new debt
func (r *debtRepository) Create(ctx context.Context, debt *domain.Debt) error {
	query := `
		INSERT INTO debts (id, title, direction, total_amount, paid_amount, currency, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		debt.ID,
		debt.Title,
		string(debt.Direction),
		debt.TotalAmount.String(),
		debt.PaidAmount.String(),
		string(debt.Currency),
		string(debt.Status),
		debt.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create debt: %w", err)
	}
	return nil
}

// List retrieves all debts ordered by creation time, newest first
func (r *debtRepository) List(ctx context.Context) ([]*domain.Debt, error) {
	query := `
		SELECT id, title, direction, total_amount, paid_amount, currency, status, created_at
		FROM debts
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list debts: %w", err)
	}
	defer rows.Close()

	var debts []*domain.Debt
	for rows.Next() {
		debt, err := scanDebt(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan debt row: %w", err)
		}
		debts = append(debts, debt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate debt rows: %w", err)
	}
	return debts, nil
}

// ListPayments retrieves a debt's payments ordered by payment time,
// newest first
func (r *debtRepository) ListPayments(ctx context.Context, debtID string) ([]*domain.DebtPayment, error) {
	query := `
		SELECT id, debt_id, amount, paid_at, note
		FROM debt_payments
		WHERE debt_id = $1
		ORDER BY paid_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, debtID)
	if err != nil {
		return nil, fmt.Errorf("failed to list debt payments: %w", err)
	}
	defer rows.Close()

	var payments []*domain.DebtPayment
	for rows.Next() {
		var payment domain.DebtPayment
		var note sql.NullString
		var amountStr string

		err := rows.Scan(
			&payment.ID,
			&payment.DebtID,
			&amountStr,
			&payment.PaidAt,
			&note,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan debt payment row: %w", err)
		}

		payment.Note = note.String
		if payment.Amount, err = decimal.NewFromString(amountStr); err != nil {
			return nil, fmt.Errorf("failed to parse payment amount: %w", err)
		}
		payments = append(payments, &payment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate debt payment rows: %w", err)
	}
	return payments, nil
}
