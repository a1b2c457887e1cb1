package ledger

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/homeledger/homeledger-backend/internal/domain"
)

// TransactionRequest is the untyped, client-submitted shape of a
// transaction mutation. CreatedAt is accepted as a field but never
// trusted: the service stamps it on create and restores the stored value
// on update.
type TransactionRequest struct {
	ID             string      `json:"id"`
	Type           string      `json:"type"`
	Owner          string      `json:"owner"`
	WalletID       string      `json:"walletId"`
	TargetWalletID string      `json:"targetWalletId"`
	Amount         json.Number `json:"amount"`
	Currency       string      `json:"currency"`
	Category       string      `json:"category"`
	Note           string      `json:"note"`
	CreatedAt      int64       `json:"createdAt"`
}

// DebtPaymentRequest is the client-submitted shape of a debt payment
type DebtPaymentRequest struct {
	DebtID string      `json:"debtId"`
	Amount json.Number `json:"amount"`
	Note   string      `json:"note"`
}

// GoalAdjustRequest is the client-submitted shape of a goal adjustment
type GoalAdjustRequest struct {
	GoalID string      `json:"goalId"`
	Delta  json.Number `json:"delta"`
}

func invalid(message string) error {
	return status.Error(codes.InvalidArgument, message)
}

// parseAmount accepts a JSON number and returns it as a decimal, or an
// error if it is absent or not a finite number
func parseAmount(raw json.Number) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(raw.String()))
}

// ParsePayload normalizes an untyped transaction request into a typed
// payload, or fails with InvalidArgument naming the first violated rule.
// Rules are checked in a fixed order: type, owner, walletId, amount,
// currency, transfer target, then id when requireID is set. The returned
// id is empty unless requireID is set. No side effects.
func ParsePayload(req TransactionRequest, requireID bool) (string, domain.TransactionPayload, error) {
	var payload domain.TransactionPayload

	txType := domain.TransactionType(req.Type)
	if txType != domain.TransactionTypeExpense &&
		txType != domain.TransactionTypeIncome &&
		txType != domain.TransactionTypeTransfer {
		return "", payload, invalid("Invalid transaction type")
	}

	owner := domain.Owner(req.Owner)
	if owner != domain.OwnerMe && owner != domain.OwnerWife {
		return "", payload, invalid("Invalid owner")
	}

	walletID := strings.TrimSpace(req.WalletID)
	if walletID == "" {
		return "", payload, invalid("walletId is required")
	}

	amount, err := parseAmount(req.Amount)
	if err != nil || !amount.IsPositive() {
		return "", payload, invalid("amount must be positive")
	}

	currency := domain.Currency(req.Currency)
	if !domain.ValidCurrency(currency) {
		return "", payload, invalid("Invalid currency")
	}

	targetWalletID := strings.TrimSpace(req.TargetWalletID)
	if txType == domain.TransactionTypeTransfer {
		if targetWalletID == "" {
			return "", payload, invalid("targetWalletId is required for transfer")
		}
		if targetWalletID == walletID {
			return "", payload, invalid("targetWalletId must differ from walletId")
		}
	} else {
		targetWalletID = ""
	}

	var id string
	if requireID {
		id = strings.TrimSpace(req.ID)
		if id == "" {
			return "", payload, invalid("id is required")
		}
	}

	payload = domain.TransactionPayload{
		Type:           txType,
		Owner:          owner,
		WalletID:       walletID,
		TargetWalletID: targetWalletID,
		Amount:         amount,
		Currency:       currency,
		Category:       req.Category,
		Note:           req.Note,
	}
	return id, payload, nil
}

// ParseDebtPayment normalizes a debt payment request
func ParseDebtPayment(req DebtPaymentRequest) (string, decimal.Decimal, error) {
	debtID := strings.TrimSpace(req.DebtID)
	if debtID == "" {
		return "", decimal.Decimal{}, invalid("debtId is required")
	}

	amount, err := parseAmount(req.Amount)
	if err != nil || !amount.IsPositive() {
		return "", decimal.Decimal{}, invalid("amount must be positive")
	}

	return debtID, amount, nil
}

// ParseGoalAdjust normalizes a goal adjustment request
func ParseGoalAdjust(req GoalAdjustRequest) (string, decimal.Decimal, error) {
	goalID := strings.TrimSpace(req.GoalID)
	if goalID == "" {
		return "", decimal.Decimal{}, invalid("goalId is required")
	}

	delta, err := parseAmount(req.Delta)
	if err != nil || delta.IsZero() {
		return "", decimal.Decimal{}, invalid("delta must be non-zero")
	}

	return goalID, delta, nil
}
