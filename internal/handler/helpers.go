package handler

import (
	"errors"

	"github.com/FoodNxt/sa-pizzedda-operations-hub-sub006/internal/bom"
	"github.com/FoodNxt/sa-pizzedda-operations-hub-sub006/internal/reconcile"
	"github.com/FoodNxt/sa-pizzedda-operations-hub-sub006/internal/service"

	"github.com/gofiber/fiber/v2"
)

// operator reads the identity set by the auth middleware.
func operator(c *fiber.Ctx) service.Operator {
	op := service.Operator{ID: "system", Name: "Unknown"}
	if id, ok := c.Locals("operator_id").(string); ok && id != "" {
		op.ID = id
	}
	if name, ok := c.Locals("operator_name").(string); ok && name != "" {
		op.Name = name
	}
	return op
}

// fail maps a service error to its HTTP status.
func fail(c *fiber.Ctx, err error, fallback string) error {
	var verr *service.ValidationError
	var cyc *bom.CyclicBOMError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": verr.Error(), "fields": verr.Fields})
	case errors.Is(err, reconcile.ErrInvalidRange), errors.Is(err, reconcile.ErrInvalidResolution),
		errors.Is(err, service.ErrInvalidQuantity):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrRecipeNotFound), errors.Is(err, service.ErrMaterialNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &cyc):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error(), "cycle": cyc.Path})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": fallback})
}
