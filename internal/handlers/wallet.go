package handlers

import (
	"errors"

	"finch/internal/models"
	"finch/internal/repositories"
	"finch/internal/services/wallet"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// WalletHandler exposes the customer-facing wallet operations.
type WalletHandler struct {
	wallets  wallet.Service
	validate *validator.Validate
}

func NewWalletHandler(wallets wallet.Service) *WalletHandler {
	return &WalletHandler{
		wallets:  wallets,
		validate: validator.New(),
	}
}

func extractCustomerClaims(c *fiber.Ctx) (*models.CustomerClaims, error) {
	claims, ok := c.Locals("claims").(*models.CustomerClaims)
	if !ok || claims == nil {
		return nil, fiber.ErrUnauthorized
	}
	return claims, nil
}

func (h *WalletHandler) CreateWallet(c *fiber.Ctx) error {
	claims, err := extractCustomerClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid claims"})
	}

	var input struct {
		Type     models.WalletType `json:"type" validate:"required,oneof=REAL_MONEY INVESTMENT EMERGENCY_FUND"`
		PolicyID string            `json:"policy_id,omitempty"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request format"})
	}
	if err := h.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	created, err := h.wallets.CreateWallet(c.Context(), claims.CustomerID, input.Type, input.PolicyID)
	if err != nil {
		if errors.Is(err, repositories.ErrPolicyNotFound) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "policy not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create wallet"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"wallet": created})
}

func (h *WalletHandler) GetWallet(c *fiber.Ctx) error {
	found, err := h.wallets.GetWallet(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "wallet not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to get wallet"})
	}
	return c.JSON(fiber.Map{"wallet": found})
}

// GetBalance returns the wallet's available balance computed from its
// journal entries.
func (h *WalletHandler) GetBalance(c *fiber.Ctx) error {
	balance, err := h.wallets.AvailableBalance(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "wallet not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to get balance"})
	}
	return c.JSON(fiber.Map{"balance": balance})
}

// Invest holds part of the caller's real money for investment.
func (h *WalletHandler) Invest(c *fiber.Ctx) error {
	claims, err := extractCustomerClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid claims"})
	}

	var req wallet.InvestmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request format"})
	}
	req.CustomerID = claims.CustomerID
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := h.wallets.Invest(c.Context(), req); err != nil {
		switch {
		case errors.Is(err, repositories.ErrWalletNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "wallet not found"})
		case errors.Is(err, wallet.ErrInvestmentFailed):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to invest"})
		}
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"message": "investment accepted"})
}

// Liquidate sells down the caller's investments.
func (h *WalletHandler) Liquidate(c *fiber.Ctx) error {
	claims, err := extractCustomerClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid claims"})
	}

	var req wallet.LiquidationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request format"})
	}
	req.CustomerID = claims.CustomerID
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := h.wallets.Liquidate(c.Context(), req); err != nil {
		switch {
		case errors.Is(err, repositories.ErrWalletNotFound), errors.Is(err, repositories.ErrPolicyNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, wallet.ErrLiquidationFailed):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to liquidate"})
		}
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"message": "liquidation accepted"})
}
