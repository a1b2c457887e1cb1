package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/homeledger/homeledger-backend/internal/domain"
	"github.com/homeledger/homeledger-backend/internal/usecase/ledger"
)

// Server wires the ledger mutation service and the read-side
// repositories into an HTTP API
type Server struct {
	Ledger *ledger.Service

	WalletRepo      domain.WalletRepository
	TransactionRepo domain.TransactionRepository
	DebtRepo        domain.DebtRepository
	GoalRepo        domain.GoalRepository
}

// NewServer creates a new HTTP server instance
func NewServer(
	ledgerService *ledger.Service,
	walletRepo domain.WalletRepository,
	transactionRepo domain.TransactionRepository,
	debtRepo domain.DebtRepository,
	goalRepo domain.GoalRepository,
) *Server {
	return &Server{
		Ledger:          ledgerService,
		WalletRepo:      walletRepo,
		TransactionRepo: transactionRepo,
		DebtRepo:        debtRepo,
		GoalRepo:        goalRepo,
	}
}

// RegisterRoutes mounts the API under /api behind the access gate
func (s *Server) RegisterRoutes(app *fiber.App, allowedEmails []string) {
	api := app.Group("/api", AccessGate(allowedEmails))

	api.Post("/transactions", s.CreateTransaction)
	api.Put("/transactions/:id", s.UpdateTransaction)
	api.Delete("/transactions/:id", s.DeleteTransaction)
	api.Post("/debts/:id/payments", s.AddDebtPayment)
	api.Post("/goals/:id/adjust", s.AdjustGoal)

	api.Get("/wallets", s.ListWallets)
	api.Post("/wallets", s.CreateWallet)
	api.Get("/transactions", s.ListTransactions)
	api.Get("/debts", s.ListDebts)
	api.Post("/debts", s.CreateDebt)
	api.Get("/debts/:id/payments", s.ListDebtPayments)
	api.Get("/goals", s.ListGoals)
	api.Get("/goals/:id", s.GetGoal)
	api.Post("/goals", s.CreateGoal)
}
