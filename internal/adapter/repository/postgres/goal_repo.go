package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/homeledger/homeledger-backend/internal/domain"
)

// goalRepository implements domain.GoalRepository
type goalRepository struct {
	db *DB
}

// NewGoalRepository creates a new goal repository
func NewGoalRepository(db *DB) domain.GoalRepository {
	return &goalRepository{db: db}
}

// Create creates a new goal
func (r *goalRepository) Create(ctx context.Context, goal *domain.Goal) error {
	query := `
		INSERT INTO goals (id, title, target_amount, current_amount, currency, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		goal.ID,
		goal.Title,
		goal.TargetAmount.String(),
		goal.CurrentAmount.String(),
		string(goal.Currency),
		string(goal.Status),
		goal.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create goal: %w", err)
	}
	return nil
}

// GetByID retrieves a goal by its ID
func (r *goalRepository) GetByID(ctx context.Context, id string) (*domain.Goal, error) {
	query := `
		SELECT id, title, target_amount, current_amount, currency, status, created_at
		FROM goals
		WHERE id = $1
	`

	goal, err := scanGoal(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("goal %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}
	return goal, nil
}

// List retrieves all goals ordered by creation time, newest first
func (r *goalRepository) List(ctx context.Context) ([]*domain.Goal, error) {
	query := `
		SELECT id, title, target_amount, current_amount, currency, status, created_at
		FROM goals
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer rows.Close()

	var goals []*domain.Goal
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal row: %w", err)
		}
		goals = append(goals, goal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate goal rows: %w", err)
	}
	return goals, nil
}
