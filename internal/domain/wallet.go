package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Currency is one of the household's supported currency codes
type Currency string

const (
	CurrencyUAH Currency = "UAH"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
)

// ValidCurrency reports whether c is a supported currency code
func ValidCurrency(c Currency) bool {
	return c == CurrencyUAH || c == CurrencyUSD || c == CurrencyEUR
}

// WalletType represents the kind of wallet holding the money
type WalletType string

const (
	WalletTypeCash     WalletType = "cash"
	WalletTypeCard     WalletType = "card"
	WalletTypeBusiness WalletType = "business"
)

// Wallet represents a wallet entity in the domain layer.
// Balances hold one entry per currency and are mutated only through
// balance deltas applied inside an atomic store transaction.
type Wallet struct {
	ID       string
	Name     string
	Type     WalletType
	Balances map[Currency]decimal.Decimal
}

// Validate ensures the wallet adheres to domain rules
// Returns an error if validation fails
func (w *Wallet) Validate() error {
	if w.Name == "" {
		return errors.New("wallet name cannot be empty")
	}

	if w.Type != WalletTypeCash && w.Type != WalletTypeCard && w.Type != WalletTypeBusiness {
		return errors.New("wallet type must be cash, card or business")
	}

	for currency := range w.Balances {
		if !ValidCurrency(currency) {
			return errors.New("wallet balance currency must be UAH, USD or EUR")
		}
	}

	return nil
}
