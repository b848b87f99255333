package handler

import (
	"strconv"

	"github.com/FoodNxt/sa-pizzedda-operations-hub-sub006/internal/bom"
	"github.com/FoodNxt/sa-pizzedda-operations-hub-sub006/internal/reconcile"
	"github.com/FoodNxt/sa-pizzedda-operations-hub-sub006/internal/service"
	"github.com/FoodNxt/sa-pizzedda-operations-hub-sub006/pkg/export"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ReconciliationHandler struct {
	service service.ReconciliationService
}

func NewReconciliationHandler(s service.ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{service: s}
}

func reportQuery(c *fiber.Ctx) service.ReportQuery {
	return service.ReportQuery{
		From:          c.Query("from"),
		To:            c.Query("to"),
		StoreID:       c.Query("store_id"),
		Resolution:    c.Query("resolution", string(reconcile.Daily)),
		PeriodInitial: c.Query("period_initial"),
	}
}

// GetReport returns the ledger rows with their rounded presentation.
// Query params: from, to (YYYY-MM-DD), store_id, resolution (daily|weekly|monthly)
func (h *ReconciliationHandler) GetReport(c *fiber.Ctx) error {
	report, err := h.service.BuildReport(c.UserContext(), reportQuery(c))
	if err != nil {
		return fail(c, err, "Failed to build reconciliation")
	}

	return c.JSON(fiber.Map{
		"report":       report,
		"presentation": reconcile.Present(report.Rows),
		"has_warnings": report.Diagnostics.HasWarnings(),
	})
}

// ExportReport streams the same report as an xlsx workbook.
func (h *ReconciliationHandler) ExportReport(c *fiber.Ctx) error {
	report, err := h.service.BuildReport(c.UserContext(), reportQuery(c))
	if err != nil {
		return fail(c, err, "Failed to build reconciliation")
	}

	f, name, err := service.ExportReport(report)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to export reconciliation"})
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to export reconciliation"})
	}

	c.Attachment(name)
	c.Set(fiber.HeaderContentType, export.ContentType)
	return c.Send(buf.Bytes())
}

// GetExplosion breaks a quantity of a recipe into raw materials.
// Query params: quantity (default 1), mode (stocking|trace)
func (h *ReconciliationHandler) GetExplosion(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid recipe ID"})
	}
	quantity, err := strconv.ParseFloat(c.Query("quantity", "1"), 64)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid quantity"})
	}

	result, err := h.service.ExplodeRecipe(c.UserContext(), id, quantity, bom.ParseMode(c.Query("mode")))
	if err != nil {
		return fail(c, err, "Failed to explode recipe")
	}
	return c.JSON(result)
}

// ValidateBOM checks every recipe for cycles and reference problems.
func (h *ReconciliationHandler) ValidateBOM(c *fiber.Ctx) error {
	result, err := h.service.ValidateBOM(c.UserContext())
	if err != nil {
		return fail(c, err, "Failed to validate recipes")
	}
	return c.JSON(result)
}
