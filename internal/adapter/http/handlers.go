package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/homeledger/homeledger-backend/internal/usecase/ledger"
)

func badBody(c *fiber.Ctx) error {
	return writeError(c, status.Error(codes.InvalidArgument, "invalid request body"))
}

func respondID(c *fiber.Ctx, id string) error {
	return c.JSON(fiber.Map{"id": id})
}

// CreateTransaction handles POST /api/transactions
func (s *Server) CreateTransaction(c *fiber.Ctx) error {
	var req ledger.TransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	id, err := s.Ledger.CreateTransaction(c.UserContext(), req)
	if err != nil {
		return writeError(c, err)
	}

	logrus.WithFields(logrus.Fields{
		"id":     id,
		"type":   req.Type,
		"wallet": req.WalletID,
	}).Info("transaction created")
	return respondID(c, id)
}

// UpdateTransaction handles PUT /api/transactions/:id
func (s *Server) UpdateTransaction(c *fiber.Ctx) error {
	var req ledger.TransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	req.ID = c.Params("id")

	id, err := s.Ledger.UpdateTransaction(c.UserContext(), req)
	if err != nil {
		return writeError(c, err)
	}
	return respondID(c, id)
}

// DeleteTransaction handles DELETE /api/transactions/:id
func (s *Server) DeleteTransaction(c *fiber.Ctx) error {
	id, err := s.Ledger.DeleteTransaction(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return respondID(c, id)
}

// AddDebtPayment handles POST /api/debts/:id/payments
func (s *Server) AddDebtPayment(c *fiber.Ctx) error {
	var req ledger.DebtPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	req.DebtID = c.Params("id")

	id, err := s.Ledger.AddDebtPayment(c.UserContext(), req)
	if err != nil {
		return writeError(c, err)
	}
	return respondID(c, id)
}

// AdjustGoal handles POST /api/goals/:id/adjust
func (s *Server) AdjustGoal(c *fiber.Ctx) error {
	var req ledger.GoalAdjustRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	req.GoalID = c.Params("id")

	id, err := s.Ledger.AdjustGoal(c.UserContext(), req)
	if err != nil {
		return writeError(c, err)
	}
	return respondID(c, id)
}
