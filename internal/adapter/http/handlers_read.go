package http

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/homeledger/homeledger-backend/internal/domain"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// walletResponse is the JSON shape of a wallet with its balances keyed
// by currency, amounts rendered as decimal strings
type walletResponse struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Type     string            `json:"type"`
	Balances map[string]string `json:"balances"`
}

type transactionResponse struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	Owner          string    `json:"owner"`
	WalletID       string    `json:"walletId"`
	TargetWalletID string    `json:"targetWalletId,omitempty"`
	Amount         string    `json:"amount"`
	Currency       string    `json:"currency"`
	Category       string    `json:"category,omitempty"`
	Note           string    `json:"note,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

type debtResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Direction   string    `json:"direction"`
	TotalAmount string    `json:"totalAmount"`
	PaidAmount  string    `json:"paidAmount"`
	Currency    string    `json:"currency"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

type debtPaymentResponse struct {
	ID     string    `json:"id"`
	DebtID string    `json:"debtId"`
	Amount string    `json:"amount"`
	PaidAt time.Time `json:"paidAt"`
	Note   string    `json:"note,omitempty"`
}

type goalResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	TargetAmount  string    `json:"targetAmount"`
	CurrentAmount string    `json:"currentAmount"`
	Currency      string    `json:"currency"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

func walletToResponse(wallet *domain.Wallet) walletResponse {
	balances := make(map[string]string, len(wallet.Balances))
	for currency, balance := range wallet.Balances {
		balances[string(currency)] = balance.String()
	}
	return walletResponse{
		ID:       wallet.ID,
		Name:     wallet.Name,
		Type:     string(wallet.Type),
		Balances: balances,
	}
}

func transactionToResponse(tx *domain.Transaction) transactionResponse {
	return transactionResponse{
		ID:             tx.ID,
		Type:           string(tx.Type),
		Owner:          string(tx.Owner),
		WalletID:       tx.WalletID,
		TargetWalletID: tx.TargetWalletID,
		Amount:         tx.Amount.String(),
		Currency:       string(tx.Currency),
		Category:       tx.Category,
		Note:           tx.Note,
		CreatedAt:      tx.CreatedAt,
	}
}

func debtToResponse(debt *domain.Debt) debtResponse {
	return debtResponse{
		ID:          debt.ID,
		Title:       debt.Title,
		Direction:   string(debt.Direction),
		TotalAmount: debt.TotalAmount.String(),
		PaidAmount:  debt.PaidAmount.String(),
		Currency:    string(debt.Currency),
		Status:      string(debt.Status),
		CreatedAt:   debt.CreatedAt,
	}
}

func goalToResponse(goal *domain.Goal) goalResponse {
	return goalResponse{
		ID:            goal.ID,
		Title:         goal.Title,
		TargetAmount:  goal.TargetAmount.String(),
		CurrentAmount: goal.CurrentAmount.String(),
		Currency:      string(goal.Currency),
		Status:        string(goal.Status),
		CreatedAt:     goal.CreatedAt,
	}
}

// ListWallets handles GET /api/wallets
func (s *Server) ListWallets(c *fiber.Ctx) error {
	wallets, err := s.WalletRepo.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}

	responses := make([]walletResponse, 0, len(wallets))
	for _, wallet := range wallets {
		responses = append(responses, walletToResponse(wallet))
	}
	return c.JSON(fiber.Map{"wallets": responses})
}

// CreateWallet handles POST /api/wallets. Wallets start with empty
// balances; money only enters through transactions.
func (s *Server) CreateWallet(c *fiber.Ctx) error {
	var req struct {
		Name string `json:"name"`
		Type string `json:"type"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	wallet := &domain.Wallet{
		ID:   uuid.NewString(),
		Name: strings.TrimSpace(req.Name),
		Type: domain.WalletType(req.Type),
	}
	if err := wallet.Validate(); err != nil {
		return writeError(c, status.Error(codes.InvalidArgument, err.Error()))
	}

	if err := s.WalletRepo.Create(c.UserContext(), wallet); err != nil {
		return writeError(c, err)
	}
	return respondID(c, wallet.ID)
}

// ListTransactions handles GET /api/transactions
func (s *Server) ListTransactions(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultListLimit)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 || limit > maxListLimit {
		return writeError(c, status.Error(codes.InvalidArgument, "limit must be between 1 and 500"))
	}
	if offset < 0 {
		return writeError(c, status.Error(codes.InvalidArgument, "offset must be non-negative"))
	}

	transactions, err := s.TransactionRepo.List(c.UserContext(), limit, offset)
	if err != nil {
		return writeError(c, err)
	}

	responses := make([]transactionResponse, 0, len(transactions))
	for _, tx := range transactions {
		responses = append(responses, transactionToResponse(tx))
	}
	return c.JSON(fiber.Map{"transactions": responses})
}

// ListDebts handles GET /api/debts
func (s *Server) ListDebts(c *fiber.Ctx) error {
	debts, err := s.DebtRepo.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}

	responses := make([]debtResponse, 0, len(debts))
	for _, debt := range debts {
		responses = append(responses, debtToResponse(debt))
	}
	return c.JSON(fiber.Map{"debts": responses})
}

// CreateDebt handles POST /api/debts. New debts start active with
// nothing paid.
func (s *Server) CreateDebt(c *fiber.Ctx) error {
	var req struct {
		Title       string      `json:"title"`
		Direction   string      `json:"direction"`
		TotalAmount json.Number `json:"totalAmount"`
		Currency    string      `json:"currency"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return writeError(c, status.Error(codes.InvalidArgument, "title is required"))
	}
	direction := domain.DebtDirection(req.Direction)
	if direction != domain.DebtDirectionOwedToMe && direction != domain.DebtDirectionIOwe {
		return writeError(c, status.Error(codes.InvalidArgument, "Invalid direction"))
	}
	totalAmount, err := decimal.NewFromString(req.TotalAmount.String())
	if err != nil || !totalAmount.IsPositive() {
		return writeError(c, status.Error(codes.InvalidArgument, "totalAmount must be positive"))
	}
	currency := domain.Currency(req.Currency)
	if !domain.ValidCurrency(currency) {
		return writeError(c, status.Error(codes.InvalidArgument, "Invalid currency"))
	}

	debt := &domain.Debt{
		ID:          uuid.NewString(),
		Title:       title,
		Direction:   direction,
		TotalAmount: totalAmount,
		PaidAmount:  decimal.Zero,
		Currency:    currency,
		Status:      domain.DebtStatusActive,
		CreatedAt:   time.Now(),
	}
	if err := s.DebtRepo.Create(c.UserContext(), debt); err != nil {
		return writeError(c, err)
	}
	return respondID(c, debt.ID)
}

// ListDebtPayments handles GET /api/debts/:id/payments
func (s *Server) ListDebtPayments(c *fiber.Ctx) error {
	payments, err := s.DebtRepo.ListPayments(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}

	responses := make([]debtPaymentResponse, 0, len(payments))
	for _, payment := range payments {
		responses = append(responses, debtPaymentResponse{
			ID:     payment.ID,
			DebtID: payment.DebtID,
			Amount: payment.Amount.String(),
			PaidAt: payment.PaidAt,
			Note:   payment.Note,
		})
	}
	return c.JSON(fiber.Map{"payments": responses})
}

// ListGoals handles GET /api/goals
func (s *Server) ListGoals(c *fiber.Ctx) error {
	goals, err := s.GoalRepo.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}

	responses := make([]goalResponse, 0, len(goals))
	for _, goal := range goals {
		responses = append(responses, goalToResponse(goal))
	}
	return c.JSON(fiber.Map{"goals": responses})
}

// GetGoal handles GET /api/goals/:id
func (s *Server) GetGoal(c *fiber.Ctx) error {
	goal, err := s.GoalRepo.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return writeError(c, status.Error(codes.NotFound, "Goal not found"))
		}
		return writeError(c, err)
	}
	return c.JSON(goalToResponse(goal))
}

// CreateGoal handles POST /api/goals. New goals start active with a
// zero current amount.
func (s *Server) CreateGoal(c *fiber.Ctx) error {
	var req struct {
		Title        string      `json:"title"`
		TargetAmount json.Number `json:"targetAmount"`
		Currency     string      `json:"currency"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return writeError(c, status.Error(codes.InvalidArgument, "title is required"))
	}
	targetAmount, err := decimal.NewFromString(req.TargetAmount.String())
	if err != nil || !targetAmount.IsPositive() {
		return writeError(c, status.Error(codes.InvalidArgument, "targetAmount must be positive"))
	}
	currency := domain.Currency(req.Currency)
	if !domain.ValidCurrency(currency) {
		return writeError(c, status.Error(codes.InvalidArgument, "Invalid currency"))
	}

	goal := &domain.Goal{
		ID:            uuid.NewString(),
		Title:         title,
		TargetAmount:  targetAmount,
		CurrentAmount: decimal.Zero,
		Currency:      currency,
		Status:        domain.GoalStatusActive,
		CreatedAt:     time.Now(),
	}
	if err := s.GoalRepo.Create(c.UserContext(), goal); err != nil {
		return writeError(c, err)
	}
	return respondID(c, goal.ID)
}
