package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/homeledger/homeledger-backend/internal/domain"
)

// walletRepository implements domain.WalletRepository
type walletRepository struct {
	db *DB
}

// NewWalletRepository creates a new wallet repository
func NewWalletRepository(db *DB) domain.WalletRepository {
	return &walletRepository{db: db}
}

// Create creates a new wallet and its initial balance rows
func (r *walletRepository) Create(ctx context.Context, wallet *domain.Wallet) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	insertWalletQuery := `
		INSERT INTO wallets (id, name, wallet_type)
		VALUES ($1, $2, $3)
	`

	_, err = dbTx.ExecContext(ctx, insertWalletQuery,
		wallet.ID,
		wallet.Name,
		string(wallet.Type),
	)
	if err != nil {
		return fmt.Errorf("failed to insert wallet: %w", err)
	}

	insertBalanceQuery := `
		INSERT INTO wallet_balances (wallet_id, currency, balance)
		VALUES ($1, $2, $3)
		ON CONFLICT (wallet_id, currency) DO UPDATE SET balance = EXCLUDED.balance
	`

	for currency, balance := range wallet.Balances {
		_, err = dbTx.ExecContext(ctx, insertBalanceQuery,
			wallet.ID,
			string(currency),
			balance.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert wallet balance: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// List retrieves all wallets with their current balances
func (r *walletRepository) List(ctx context.Context) ([]*domain.Wallet, error) {
	query := `
		SELECT w.id, w.name, w.wallet_type, b.currency, b.balance
		FROM wallets w
		LEFT JOIN wallet_balances b ON b.wallet_id = w.id
		ORDER BY w.name, w.id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}
	defer rows.Close()

	var wallets []*domain.Wallet
	byID := make(map[string]*domain.Wallet)

	for rows.Next() {
		var id, name, walletType string
		var currency, balanceStr *string

		if err := rows.Scan(&id, &name, &walletType, &currency, &balanceStr); err != nil {
			return nil, fmt.Errorf("failed to scan wallet row: %w", err)
		}

		wallet, ok := byID[id]
		if !ok {
			wallet = &domain.Wallet{
				ID:       id,
				Name:     name,
				Type:     domain.WalletType(walletType),
				Balances: make(map[domain.Currency]decimal.Decimal),
			}
			byID[id] = wallet
			wallets = append(wallets, wallet)
		}

		if currency != nil && balanceStr != nil {
			balance, err := decimal.NewFromString(*balanceStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse balance: %w", err)
			}
			wallet.Balances[domain.Currency(*currency)] = balance
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate wallet rows: %w", err)
	}
	return wallets, nil
}
