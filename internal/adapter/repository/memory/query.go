package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/homeledger/homeledger-backend/internal/domain"
)

// walletRepository implements domain.WalletRepository over the in-memory
// store
type walletRepository struct {
	store *Store
}

// NewWalletRepository creates a new in-memory wallet repository
func NewWalletRepository(store *Store) domain.WalletRepository {
	return &walletRepository{store: store}
}

func (r *walletRepository) Create(ctx context.Context, wallet *domain.Wallet) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	copied := *wallet
	copied.Balances = nil
	r.store.wallets[wallet.ID] = &copied

	byCurrency, ok := r.store.balances[wallet.ID]
	if !ok {
		byCurrency = make(map[domain.Currency]decimal.Decimal)
		r.store.balances[wallet.ID] = byCurrency
	}
	for currency, balance := range wallet.Balances {
		byCurrency[currency] = balance
	}
	return nil
}

func (r *walletRepository) List(ctx context.Context) ([]*domain.Wallet, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	wallets := make([]*domain.Wallet, 0, len(r.store.wallets))
	for id, wallet := range r.store.wallets {
		copied := *wallet
		copied.Balances = make(map[domain.Currency]decimal.Decimal)
		for currency, balance := range r.store.balances[id] {
			copied.Balances[currency] = balance
		}
		wallets = append(wallets, &copied)
	}
	sort.Slice(wallets, func(i, j int) bool { return wallets[i].Name < wallets[j].Name })
	return wallets, nil
}

// transactionRepository implements domain.TransactionRepository over the
// in-memory store
type transactionRepository struct {
	store *Store
}

// NewTransactionRepository creates a new in-memory transaction repository
func NewTransactionRepository(store *Store) domain.TransactionRepository {
	return &transactionRepository{store: store}
}

func (r *transactionRepository) List(ctx context.Context, limit, offset int) ([]*domain.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	all := make([]*domain.Transaction, 0, len(r.store.transactions))
	for _, tx := range r.store.transactions {
		copied := *tx
		all = append(all, &copied)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

// debtRepository implements domain.DebtRepository over the in-memory
// store
type debtRepository struct {
	store *Store
}

// NewDebtRepository creates a new in-memory debt repository
func NewDebtRepository(store *Store) domain.DebtRepository {
	return &debtRepository{store: store}
}

func (r *debtRepository) Create(ctx context.Context, debt *domain.Debt) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	copied := *debt
	r.store.debts[debt.ID] = &copied
	return nil
}

func (r *debtRepository) List(ctx context.Context) ([]*domain.Debt, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	debts := make([]*domain.Debt, 0, len(r.store.debts))
	for _, debt := range r.store.debts {
		copied := *debt
		debts = append(debts, &copied)
	}
	sort.Slice(debts, func(i, j int) bool { return debts[i].CreatedAt.After(debts[j].CreatedAt) })
	return debts, nil
}

func (r *debtRepository) ListPayments(ctx context.Context, debtID string) ([]*domain.DebtPayment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	payments := make([]*domain.DebtPayment, 0, len(r.store.payments[debtID]))
	for _, payment := range r.store.payments[debtID] {
		copied := *payment
		payments = append(payments, &copied)
	}
	sort.Slice(payments, func(i, j int) bool { return payments[i].PaidAt.After(payments[j].PaidAt) })
	return payments, nil
}

// goalRepository implements domain.GoalRepository over the in-memory
// store
type goalRepository struct {
	store *Store
}

// NewGoalRepository creates a new in-memory goal repository
func NewGoalRepository(store *Store) domain.GoalRepository {
	return &goalRepository{store: store}
}

func (r *goalRepository) Create(ctx context.Context, goal *domain.Goal) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	copied := *goal
	r.store.goals[goal.ID] = &copied
	return nil
}

func (r *goalRepository) GetByID(ctx context.Context, id string) (*domain.Goal, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	goal, ok := r.store.goals[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *goal
	return &copied, nil
}

func (r *goalRepository) List(ctx context.Context) ([]*domain.Goal, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	goals := make([]*domain.Goal, 0, len(r.store.goals))
	for _, goal := range r.store.goals {
		copied := *goal
		goals = append(goals, &copied)
	}
	sort.Slice(goals, func(i, j int) bool { return goals[i].CreatedAt.After(goals[j].CreatedAt) })
	return goals, nil
}
