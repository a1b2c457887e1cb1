package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DebtDirection represents who owes whom
type DebtDirection string

const (
	DebtDirectionOwedToMe DebtDirection = "owedToMe"
	DebtDirectionIOwe     DebtDirection = "iOwe"
)

// DebtStatus represents the lifecycle state of a debt
type DebtStatus string

const (
	DebtStatusActive DebtStatus = "active"
	DebtStatusPaid   DebtStatus = "paid"
)

// Debt represents a debt entity in the domain layer.
// PaidAmount only grows: payments are append-only ledger entries with no
// reversal path, so there is no paid -> active transition.
type Debt struct {
	ID          string
	Title       string
	Direction   DebtDirection
	TotalAmount decimal.Decimal
	PaidAmount  decimal.Decimal
	Currency    Currency
	Status      DebtStatus
	CreatedAt   time.Time
}

// DebtPayment is an immutable record of one payment against a debt
type DebtPayment struct {
	ID     string
	DebtID string
	Amount decimal.Decimal
	PaidAt time.Time
	Note   string
}
