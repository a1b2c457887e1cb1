package ledger

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/homeledger/homeledger-backend/internal/domain"
)

// ChangeEvent describes one committed mutation, for read-side consumers
type ChangeEvent struct {
	Collection string    `json:"collection"`
	Action     string    `json:"action"`
	ID         string    `json:"id"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Notifier receives change events after a mutation has committed.
// Delivery is best-effort; a failing notifier never fails the mutation.
type Notifier interface {
	MutationCommitted(ctx context.Context, event ChangeEvent)
}

// Service executes the five ledger mutations. Every cross-record effect
// of one mutation is applied through a single Store.RunAtomic call, so a
// mutation either lands completely or not at all. Now and NewID are
// injected so tests can pin timestamps and identifiers; both are sampled
// before the atomic body starts, which keeps retried bodies identical.
type Service struct {
	Store    domain.Store
	Notifier Notifier

	Now   func() time.Time
	NewID func() string
}

// NewService creates a new ledger Service instance. notifier may be nil.
func NewService(store domain.Store, notifier Notifier) *Service {
	return &Service{
		Store:    store,
		Notifier: notifier,
		Now:      time.Now,
		NewID:    uuid.NewString,
	}
}

// CreateTransaction validates the request, writes the transaction record
// and applies its balance effect atomically. Returns the new id.
// A wallet id that matches no wallet still gets its balance entry
// written; wallet existence is not a precondition here.
func (s *Service) CreateTransaction(ctx context.Context, req TransactionRequest) (string, error) {
	_, payload, err := ParsePayload(req, false)
	if err != nil {
		return "", err
	}

	payload.CreatedAt = s.Now()
	id := s.NewID()

	err = s.Store.RunAtomic(ctx, func(tx domain.AtomicUnit) error {
		if err := tx.PutTransaction(ctx, &domain.Transaction{ID: id, TransactionPayload: payload}); err != nil {
			return err
		}
		return tx.ApplyBalanceDeltas(ctx, domain.EffectOf(payload))
	})
	if err != nil {
		return "", mapStoreErr(err)
	}

	s.notify(ctx, "transactions", "created", id)
	return id, nil
}

// UpdateTransaction replaces a stored transaction with a new payload.
// Inside one atomic unit it reads the previous payload, undoes its
// balance effect, applies the new payload's effect (possibly against
// different wallets) and overwrites the record, preserving the original
// creation timestamp. Both phases are computed from the same
// transactional read, so a retried body never double-counts.
func (s *Service) UpdateTransaction(ctx context.Context, req TransactionRequest) (string, error) {
	id, payload, err := ParsePayload(req, true)
	if err != nil {
		return "", err
	}

	err = s.Store.RunAtomic(ctx, func(tx domain.AtomicUnit) error {
		prev, err := tx.GetTransaction(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return status.Error(codes.NotFound, "Transaction not found")
			}
			return err
		}

		if err := tx.ApplyBalanceDeltas(ctx, domain.ReverseOf(domain.EffectOf(prev.TransactionPayload))); err != nil {
			return err
		}

		payload.CreatedAt = prev.CreatedAt
		if err := tx.ApplyBalanceDeltas(ctx, domain.EffectOf(payload)); err != nil {
			return err
		}
		return tx.PutTransaction(ctx, &domain.Transaction{ID: id, TransactionPayload: payload})
	})
	if err != nil {
		return "", mapStoreErr(err)
	}

	s.notify(ctx, "transactions", "updated", id)
	return id, nil
}

// DeleteTransaction removes a transaction and undoes its balance effect
// atomically
func (s *Service) DeleteTransaction(ctx context.Context, id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", invalid("id is required")
	}

	err := s.Store.RunAtomic(ctx, func(tx domain.AtomicUnit) error {
		prev, err := tx.GetTransaction(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return status.Error(codes.NotFound, "Transaction not found")
			}
			return err
		}

		if err := tx.ApplyBalanceDeltas(ctx, domain.ReverseOf(domain.EffectOf(prev.TransactionPayload))); err != nil {
			return err
		}
		return tx.DeleteTransaction(ctx, id)
	})
	if err != nil {
		return "", mapStoreErr(err)
	}

	s.notify(ctx, "transactions", "deleted", id)
	return id, nil
}

// AddDebtPayment appends an immutable payment record to a debt and rolls
// the debt's paid amount and derived status forward atomically. Returns
// the new payment id. There is no reversal path: payments are ledger
// entries, and a debt never moves back from paid to active here.
func (s *Service) AddDebtPayment(ctx context.Context, req DebtPaymentRequest) (string, error) {
	debtID, amount, err := ParseDebtPayment(req)
	if err != nil {
		return "", err
	}

	paymentID := s.NewID()
	paidAt := s.Now()

	err = s.Store.RunAtomic(ctx, func(tx domain.AtomicUnit) error {
		debt, err := tx.GetDebt(ctx, debtID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return status.Error(codes.NotFound, "Debt not found")
			}
			return err
		}

		nextPaid := debt.PaidAmount.Add(amount)
		nextStatus := domain.DebtStatusFor(nextPaid, debt.TotalAmount)

		payment := &domain.DebtPayment{
			ID:     paymentID,
			DebtID: debtID,
			Amount: amount,
			PaidAt: paidAt,
			Note:   req.Note,
		}
		if err := tx.PutDebtPayment(ctx, payment); err != nil {
			return err
		}
		return tx.UpdateDebtProgress(ctx, debtID, nextPaid, nextStatus)
	})
	if err != nil {
		return "", mapStoreErr(err)
	}

	s.notify(ctx, "debts", "updated", debtID)
	return paymentID, nil
}

// AdjustGoal moves a goal's current amount by a signed delta and derives
// its status, atomically. A delta that would drive the amount negative
// fails FailedPrecondition and leaves the goal untouched.
func (s *Service) AdjustGoal(ctx context.Context, req GoalAdjustRequest) (string, error) {
	goalID, delta, err := ParseGoalAdjust(req)
	if err != nil {
		return "", err
	}

	err = s.Store.RunAtomic(ctx, func(tx domain.AtomicUnit) error {
		goal, err := tx.GetGoal(ctx, goalID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return status.Error(codes.NotFound, "Goal not found")
			}
			return err
		}

		nextCurrent := goal.CurrentAmount.Add(delta)
		if nextCurrent.IsNegative() {
			return status.Error(codes.FailedPrecondition, "currentAmount cannot be negative")
		}

		nextStatus := domain.GoalStatusFor(nextCurrent, goal.TargetAmount)
		return tx.UpdateGoalProgress(ctx, goalID, nextCurrent, nextStatus)
	})
	if err != nil {
		return "", mapStoreErr(err)
	}

	s.notify(ctx, "goals", "updated", goalID)
	return goalID, nil
}

func (s *Service) notify(ctx context.Context, collection, action, id string) {
	if s.Notifier == nil {
		return
	}
	s.Notifier.MutationCommitted(ctx, ChangeEvent{
		Collection: collection,
		Action:     action,
		ID:         id,
		OccurredAt: s.Now(),
	})
}

// mapStoreErr keeps status-coded errors as-is and converts store-level
// conflict exhaustion to Aborted
func mapStoreErr(err error) error {
	if _, ok := status.FromError(err); ok {
		return err
	}
	if errors.Is(err, domain.ErrConflict) {
		return status.Error(codes.Aborted, domain.ErrConflict.Error())
	}
	return err
}
