package handlers

import (
	"errors"

	"finch/internal/repositories"
	"finch/internal/services/transaction"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// TransactionHandler exposes the transaction processing pipeline over HTTP.
// These endpoints are back-office surfaces; customer intents go through the
// wallet endpoints instead.
type TransactionHandler struct {
	processor transaction.Service
	store     repositories.TransactionRepository
	validate  *validator.Validate
}

func NewTransactionHandler(processor transaction.Service, store repositories.TransactionRepository) *TransactionHandler {
	return &TransactionHandler{
		processor: processor,
		store:     store,
		validate:  validator.New(),
	}
}

// ProcessTransaction submits one transaction. Validation and transient
// failures are reported through the returned transaction's status, not as
// HTTP errors.
func (h *TransactionHandler) ProcessTransaction(c *fiber.Ctx) error {
	var req transaction.Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request format"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	tx, err := h.processor.Process(c.Context(), req)
	if err != nil {
		if errors.Is(err, transaction.ErrUnsupportedType) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to process transaction"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"transaction": tx})
}

func (h *TransactionHandler) GetTransaction(c *fiber.Ctx) error {
	tx, err := h.store.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "transaction not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to get transaction"})
	}
	return c.JSON(fiber.Map{"transaction": tx})
}

// GetBatch lists the legs of a batch, letting operators inspect partial
// failures.
func (h *TransactionHandler) GetBatch(c *fiber.Ctx) error {
	txs, err := h.store.Find(c.Context(), repositories.TransactionFilter{BatchID: c.Params("id")})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list batch"})
	}
	return c.JSON(fiber.Map{"transactions": txs})
}

// RetryBatch re-drives the batch's transient legs.
func (h *TransactionHandler) RetryBatch(c *fiber.Ctx) error {
	var input struct {
		MaxAttempts int `json:"max_attempts" validate:"min=1,max=10"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request format"})
	}
	if input.MaxAttempts == 0 {
		input.MaxAttempts = 3
	}
	if err := h.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := h.processor.RetryBatch(c.Context(), c.Params("id"), input.MaxAttempts); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to retry batch"})
	}
	return c.JSON(fiber.Map{"message": "batch retry executed"})
}

// ReverseBatch unwinds a partially completed batch and fails its legs.
func (h *TransactionHandler) ReverseBatch(c *fiber.Ctx) error {
	var input struct {
		Reason string `json:"reason" validate:"required"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request format"})
	}
	if err := h.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := h.processor.ReverseAndFailBatch(c.Context(), c.Params("id"), input.Reason); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to reverse batch"})
	}
	return c.JSON(fiber.Map{"message": "batch reversed"})
}
