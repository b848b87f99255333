package handler

import (
	"github.com/FoodNxt/sa-pizzedda-operations-hub-sub006/internal/service"

	"github.com/gofiber/fiber/v2"
)

type InventoryCountHandler struct {
	service service.InventoryCountService
}

func NewInventoryCountHandler(s service.InventoryCountService) *InventoryCountHandler {
	return &InventoryCountHandler{service: s}
}

func (h *InventoryCountHandler) RecordCount(c *fiber.Ctx) error {
	var req service.RecordCountRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	count, err := h.service.RecordCount(c.UserContext(), req, operator(c))
	if err != nil {
		return fail(c, err, "Failed to record inventory count")
	}

	return c.Status(201).JSON(fiber.Map{"message": "Inventory count recorded", "data": count})
}

// ListCounts returns counts between from and to, optionally for one store.
func (h *InventoryCountHandler) ListCounts(c *fiber.Ctx) error {
	counts, err := h.service.ListCounts(c.UserContext(), service.CountQuery{
		From:    c.Query("from"),
		To:      c.Query("to"),
		StoreID: c.Query("store_id"),
	})
	if err != nil {
		return fail(c, err, "Failed to fetch inventory counts")
	}
	return c.JSON(fiber.Map{"data": counts})
}
