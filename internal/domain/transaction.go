package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the type of a ledger transaction
type TransactionType string

const (
	TransactionTypeExpense  TransactionType = "expense"
	TransactionTypeIncome   TransactionType = "income"
	TransactionTypeTransfer TransactionType = "transfer"
)

// Owner tags which household member a transaction belongs to
type Owner string

const (
	OwnerMe   Owner = "me"
	OwnerWife Owner = "wife"
)

// TransactionPayload is the normalized body of a transaction as accepted
// by the mutation service. TargetWalletID is set iff Type is transfer,
// in which case it must differ from WalletID. CreatedAt is always
// server-stamped: set on create, and on update forced back to the stored
// record's value regardless of what the client sent.
type TransactionPayload struct {
	Type           TransactionType
	Owner          Owner
	WalletID       string
	TargetWalletID string
	Amount         decimal.Decimal
	Currency       Currency
	Category       string
	Note           string
	CreatedAt      time.Time
}

// Transaction represents a stored transaction entity in the domain layer
type Transaction struct {
	ID string
	TransactionPayload
}
