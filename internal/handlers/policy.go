package handlers

import (
	"errors"

	"finch/internal/models"
	"finch/internal/repositories"

	"github.com/gofiber/fiber/v2"
)

// PolicyHandler manages investment allocation policies. Policies are
// immutable once created.
type PolicyHandler struct {
	policies repositories.PolicyRepository
}

func NewPolicyHandler(policies repositories.PolicyRepository) *PolicyHandler {
	return &PolicyHandler{policies: policies}
}

func (h *PolicyHandler) CreatePolicy(c *fiber.Ctx) error {
	var input struct {
		AllocationStrategy models.AllocationStrategy `json:"allocation_strategy"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request format"})
	}

	policy, err := h.policies.Insert(c.Context(), input.AllocationStrategy)
	if err != nil {
		if errors.Is(err, repositories.ErrInvalidAllocation) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create policy"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"policy": policy})
}

func (h *PolicyHandler) GetPolicy(c *fiber.Ctx) error {
	policy, err := h.policies.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrPolicyNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "policy not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to get policy"})
	}
	return c.JSON(fiber.Map{"policy": policy})
}
