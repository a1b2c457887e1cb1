package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned by store reads when the referenced entity does
// not exist at mutation time
var ErrNotFound = errors.New("not found")

// ErrConflict is returned by Store.RunAtomic when the store could not
// serialize the unit of work after exhausting its retry budget
var ErrConflict = errors.New("transaction conflict: retries exhausted")

// Store is the authoritative transactional store. RunAtomic executes fn
// inside one serializable store-level transaction: every read fn performs
// observes a consistent snapshot, and either every write commits or none
// does. On a write-write conflict with a concurrent caller the whole fn
// is re-executed from scratch, so fn must be safe to re-run verbatim and
// must not capture reads made outside the transaction.
type Store interface {
	RunAtomic(ctx context.Context, fn func(tx AtomicUnit) error) error
}

// AtomicUnit is the set of reads and writes available inside one atomic
// store transaction. It is only ever obtained through Store.RunAtomic;
// there is no way to touch a balance, debt or goal outside of one.
type AtomicUnit interface {
	// GetTransaction reads a stored transaction, ErrNotFound if absent
	GetTransaction(ctx context.Context, id string) (*Transaction, error)

	// PutTransaction writes a transaction record, replacing any existing
	// record with the same id
	PutTransaction(ctx context.Context, tx *Transaction) error

	// DeleteTransaction removes a transaction record
	DeleteTransaction(ctx context.Context, id string) error

	// ApplyBalanceDeltas increments wallet balances by the given signed
	// deltas. A delta against an unknown wallet id creates a detached
	// balance entry rather than failing.
	ApplyBalanceDeltas(ctx context.Context, deltas []BalanceDelta) error

	// GetDebt reads a debt, ErrNotFound if absent
	GetDebt(ctx context.Context, id string) (*Debt, error)

	// PutDebtPayment appends an immutable payment record
	PutDebtPayment(ctx context.Context, payment *DebtPayment) error

	// UpdateDebtProgress writes a debt's derived paid amount and status
	UpdateDebtProgress(ctx context.Context, id string, paidAmount decimal.Decimal, status DebtStatus) error

	// GetGoal reads a goal, ErrNotFound if absent
	GetGoal(ctx context.Context, id string) (*Goal, error)

	// UpdateGoalProgress writes a goal's derived current amount and status
	UpdateGoalProgress(ctx context.Context, id string, currentAmount decimal.Decimal, status GoalStatus) error
}
