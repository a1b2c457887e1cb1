package domain

import "context"

// WalletRepository defines the read and administrative operations on
// wallets. Balances are never written through this interface; every
// balance change goes through AtomicUnit.ApplyBalanceDeltas.
type WalletRepository interface {
	// Create creates a new wallet with empty balances
	Create(ctx context.Context, wallet *Wallet) error

	// List retrieves all wallets with their current balances
	List(ctx context.Context) ([]*Wallet, error)
}

// TransactionRepository defines the read-side view over transactions
type TransactionRepository interface {
	// List retrieves transactions ordered by creation time, newest
	// first, with limit/offset pagination
	List(ctx context.Context, limit, offset int) ([]*Transaction, error)
}

// DebtRepository defines the read and administrative operations on debts
type DebtRepository interface {
	// Create creates a new debt
	Create(ctx context.Context, debt *Debt) error

	// List retrieves all debts ordered by creation time, newest first
	List(ctx context.Context) ([]*Debt, error)

	// ListPayments retrieves a debt's payments ordered by payment time,
	// newest first
	ListPayments(ctx context.Context, debtID string) ([]*DebtPayment, error)
}

// GoalRepository defines the read and administrative operations on goals
type GoalRepository interface {
	// Create creates a new goal
	Create(ctx context.Context, goal *Goal) error

	// GetByID retrieves a goal by its ID, ErrNotFound if absent
	GetByID(ctx context.Context, id string) (*Goal, error)

	// List retrieves all goals ordered by creation time, newest first
	List(ctx context.Context) ([]*Goal, error)
}
