package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/homeledger/homeledger-backend/internal/domain"
)

// DefaultMaxAttempts bounds how many times a conflicting unit of work is
// re-executed before RunAtomic gives up with domain.ErrConflict
const DefaultMaxAttempts = 5

// Store implements domain.Store on top of PostgreSQL. Each unit of work
// runs in a SERIALIZABLE transaction; when Postgres aborts it with a
// serialization or deadlock failure the whole body is re-executed from
// scratch, up to MaxAttempts times.
type Store struct {
	db          *DB
	MaxAttempts int
}

// NewStore creates a new transactional store over db
func NewStore(db *DB) *Store {
	return &Store{db: db, MaxAttempts: DefaultMaxAttempts}
}

// RunAtomic executes fn in a serializable database transaction, retrying
// serialization failures. Any other error from fn aborts and rolls back
// without retry.
func (s *Store) RunAtomic(ctx context.Context, fn func(tx domain.AtomicUnit) error) error {
	for attempt := 1; ; attempt++ {
		err := s.runOnce(ctx, fn)
		if err == nil {
			return nil
		}
		if !isSerializationFailure(err) {
			return err
		}
		if attempt >= s.MaxAttempts {
			return domain.ErrConflict
		}
		logrus.WithFields(logrus.Fields{
			"attempt": attempt,
			"error":   err,
		}).Warn("serialization failure, retrying atomic unit")
	}
}

func (s *Store) runOnce(ctx context.Context, fn func(tx domain.AtomicUnit) error) error {
	dbTx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	if err := fn(&atomicUnit{tx: dbTx}); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// isSerializationFailure reports whether err is a Postgres
// serialization_failure or deadlock_detected, the two retryable
// conflict classes under SERIALIZABLE
func isSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "40001" || pqErr.Code == "40P01"
	}
	return false
}

// atomicUnit implements domain.AtomicUnit over one open database
// transaction
type atomicUnit struct {
	tx *sql.Tx
}

func (u *atomicUnit) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	query := `
		SELECT id, tx_type, owner, wallet_id, target_wallet_id, amount, currency, category, note, created_at
		FROM transactions
		WHERE id = $1
	`

	row := u.tx.QueryRowContext(ctx, query, id)
	transaction, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("transaction %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return transaction, nil
}

func (u *atomicUnit) PutTransaction(ctx context.Context, transaction *domain.Transaction) error {
	query := `
		INSERT INTO transactions (id, tx_type, owner, wallet_id, target_wallet_id, amount, currency, category, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			tx_type = EXCLUDED.tx_type,
			owner = EXCLUDED.owner,
			wallet_id = EXCLUDED.wallet_id,
			target_wallet_id = EXCLUDED.target_wallet_id,
			amount = EXCLUDED.amount,
			currency = EXCLUDED.currency,
			category = EXCLUDED.category,
			note = EXCLUDED.note,
			created_at = EXCLUDED.created_at
	`

	_, err := u.tx.ExecContext(ctx, query,
		transaction.ID,
		string(transaction.Type),
		string(transaction.Owner),
		transaction.WalletID,
		nullString(transaction.TargetWalletID),
		transaction.Amount.String(),
		string(transaction.Currency),
		nullString(transaction.Category),
		nullString(transaction.Note),
		transaction.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to put transaction: %w", err)
	}
	return nil
}

func (u *atomicUnit) DeleteTransaction(ctx context.Context, id string) error {
	_, err := u.tx.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return nil
}

func (u *atomicUnit) ApplyBalanceDeltas(ctx context.Context, deltas []domain.BalanceDelta) error {
	query := `
		INSERT INTO wallet_balances (wallet_id, currency, balance)
		VALUES ($1, $2, $3)
		ON CONFLICT (wallet_id, currency) DO UPDATE SET
			balance = wallet_balances.balance + EXCLUDED.balance
	`

	for _, delta := range deltas {
		_, err := u.tx.ExecContext(ctx, query,
			delta.WalletID,
			string(delta.Currency),
			delta.Amount.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to apply balance delta: %w", err)
		}
	}
	return nil
}

func (u *atomicUnit) GetDebt(ctx context.Context, id string) (*domain.Debt, error) {
	query := `
		SELECT id, title, direction, total_amount, paid_amount, currency, status, created_at
		FROM debts
		WHERE id = $1
	`

	debt, err := scanDebt(u.tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("debt %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get debt: %w", err)
	}
	return debt, nil
}

func (u *atomicUnit) PutDebtPayment(ctx context.Context, payment *domain.DebtPayment) error {
	query := `
		INSERT INTO debt_payments (id, debt_id, amount, paid_at, note)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := u.tx.ExecContext(ctx, query,
		payment.ID,
		payment.DebtID,
		payment.Amount.String(),
		payment.PaidAt,
		nullString(payment.Note),
	)
	if err != nil {
		return fmt.Errorf("failed to put debt payment: %w", err)
	}
	return nil
}

func (u *atomicUnit) UpdateDebtProgress(ctx context.Context, id string, paidAmount decimal.Decimal, status domain.DebtStatus) error {
	query := `UPDATE debts SET paid_amount = $2, status = $3 WHERE id = $1`

	result, err := u.tx.ExecContext(ctx, query, id, paidAmount.String(), string(status))
	if err != nil {
		return fmt.Errorf("failed to update debt progress: %w", err)
	}
	return requireUpdated(result, "debt", id)
}

func (u *atomicUnit) GetGoal(ctx context.Context, id string) (*domain.Goal, error) {
	query := `
		SELECT id, title, target_amount, current_amount, currency, status, created_at
		FROM goals
		WHERE id = $1
	`

	goal, err := scanGoal(u.tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("goal %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}
	return goal, nil
}

func (u *atomicUnit) UpdateGoalProgress(ctx context.Context, id string, currentAmount decimal.Decimal, status domain.GoalStatus) error {
	query := `UPDATE goals SET current_amount = $2, status = $3 WHERE id = $1`

	result, err := u.tx.ExecContext(ctx, query, id, currentAmount.String(), string(status))
	if err != nil {
		return fmt.Errorf("failed to update goal progress: %w", err)
	}
	return requireUpdated(result, "goal", id)
}

func requireUpdated(result sql.Result, entity, id string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
	}
	return nil
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}
