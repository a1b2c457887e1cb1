package memory

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/homeledger/homeledger-backend/internal/domain"
)

// Store is an in-memory implementation of domain.Store and the query
// repositories. A single mutex serializes units of work, so atomic
// bodies never conflict and never retry; a failed body is rolled back by
// restoring a snapshot taken at entry. Suitable for tests and for
// running the service without Postgres.
type Store struct {
	mu sync.Mutex

	wallets      map[string]*domain.Wallet
	balances     map[string]map[domain.Currency]decimal.Decimal
	transactions map[string]*domain.Transaction
	debts        map[string]*domain.Debt
	payments     map[string][]*domain.DebtPayment
	goals        map[string]*domain.Goal
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{
		wallets:      make(map[string]*domain.Wallet),
		balances:     make(map[string]map[domain.Currency]decimal.Decimal),
		transactions: make(map[string]*domain.Transaction),
		debts:        make(map[string]*domain.Debt),
		payments:     make(map[string][]*domain.DebtPayment),
		goals:        make(map[string]*domain.Goal),
	}
}

// RunAtomic executes fn under the store lock. If fn returns an error the
// store is restored to its state at entry, so partial writes never leak.
func (s *Store) RunAtomic(ctx context.Context, fn func(tx domain.AtomicUnit) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.clone()
	if err := fn(&atomicUnit{store: s}); err != nil {
		s.restore(snapshot)
		return err
	}
	return nil
}

type storeState struct {
	balances     map[string]map[domain.Currency]decimal.Decimal
	transactions map[string]*domain.Transaction
	debts        map[string]*domain.Debt
	payments     map[string][]*domain.DebtPayment
	goals        map[string]*domain.Goal
}

func (s *Store) clone() storeState {
	state := storeState{
		balances:     make(map[string]map[domain.Currency]decimal.Decimal, len(s.balances)),
		transactions: make(map[string]*domain.Transaction, len(s.transactions)),
		debts:        make(map[string]*domain.Debt, len(s.debts)),
		payments:     make(map[string][]*domain.DebtPayment, len(s.payments)),
		goals:        make(map[string]*domain.Goal, len(s.goals)),
	}
	for id, byCurrency := range s.balances {
		copied := make(map[domain.Currency]decimal.Decimal, len(byCurrency))
		for currency, balance := range byCurrency {
			copied[currency] = balance
		}
		state.balances[id] = copied
	}
	for id, tx := range s.transactions {
		copied := *tx
		state.transactions[id] = &copied
	}
	for id, debt := range s.debts {
		copied := *debt
		state.debts[id] = &copied
	}
	for id, list := range s.payments {
		state.payments[id] = append([]*domain.DebtPayment(nil), list...)
	}
	for id, goal := range s.goals {
		copied := *goal
		state.goals[id] = &copied
	}
	return state
}

func (s *Store) restore(state storeState) {
	s.balances = state.balances
	s.transactions = state.transactions
	s.debts = state.debts
	s.payments = state.payments
	s.goals = state.goals
}

// atomicUnit exposes the store's maps as one unit of work. It only
// exists while RunAtomic holds the lock.
type atomicUnit struct {
	store *Store
}

func (u *atomicUnit) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	tx, ok := u.store.transactions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *tx
	return &copied, nil
}

func (u *atomicUnit) PutTransaction(ctx context.Context, tx *domain.Transaction) error {
	copied := *tx
	u.store.transactions[tx.ID] = &copied
	return nil
}

func (u *atomicUnit) DeleteTransaction(ctx context.Context, id string) error {
	delete(u.store.transactions, id)
	return nil
}

func (u *atomicUnit) ApplyBalanceDeltas(ctx context.Context, deltas []domain.BalanceDelta) error {
	for _, delta := range deltas {
		byCurrency, ok := u.store.balances[delta.WalletID]
		if !ok {
			byCurrency = make(map[domain.Currency]decimal.Decimal)
			u.store.balances[delta.WalletID] = byCurrency
		}
		byCurrency[delta.Currency] = byCurrency[delta.Currency].Add(delta.Amount)
	}
	return nil
}

func (u *atomicUnit) GetDebt(ctx context.Context, id string) (*domain.Debt, error) {
	debt, ok := u.store.debts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *debt
	return &copied, nil
}

func (u *atomicUnit) PutDebtPayment(ctx context.Context, payment *domain.DebtPayment) error {
	copied := *payment
	u.store.payments[payment.DebtID] = append(u.store.payments[payment.DebtID], &copied)
	return nil
}

func (u *atomicUnit) UpdateDebtProgress(ctx context.Context, id string, paidAmount decimal.Decimal, status domain.DebtStatus) error {
	debt, ok := u.store.debts[id]
	if !ok {
		return domain.ErrNotFound
	}
	debt.PaidAmount = paidAmount
	debt.Status = status
	return nil
}

func (u *atomicUnit) GetGoal(ctx context.Context, id string) (*domain.Goal, error) {
	goal, ok := u.store.goals[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *goal
	return &copied, nil
}

func (u *atomicUnit) UpdateGoalProgress(ctx context.Context, id string, currentAmount decimal.Decimal, status domain.GoalStatus) error {
	goal, ok := u.store.goals[id]
	if !ok {
		return domain.ErrNotFound
	}
	goal.CurrentAmount = currentAmount
	goal.Status = status
	return nil
}
