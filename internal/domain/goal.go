package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// GoalStatus represents the lifecycle state of a savings goal
type GoalStatus string

const (
	GoalStatusActive    GoalStatus = "active"
	GoalStatusCompleted GoalStatus = "completed"
)

// Goal represents a savings goal entity in the domain layer.
// CurrentAmount never drops below zero; it moves only through signed
// delta adjustments, and status follows it across the target in both
// directions.
type Goal struct {
	ID            string
	Title         string
	TargetAmount  decimal.Decimal
	CurrentAmount decimal.Decimal
	Currency      Currency
	Status        GoalStatus
	CreatedAt     time.Time
}
