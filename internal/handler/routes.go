package handler

import (
	"github.com/FoodNxt/sa-pizzedda-operations-hub-sub006/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

const (
	PrivilegeInventoryCount     = "inventory:count"
	PrivilegeReconciliationView = "reconciliation:view"
)

// RegisterRoutes mounts the API under /api/v1. Every route needs a bearer token.
func RegisterRoutes(app *fiber.App, recon *ReconciliationHandler, counts *InventoryCountHandler) fiber.Router {
	api := app.Group("/api/v1", middleware.RequireAuth())

	api.Get("/reconciliation", recon.GetReport)
	api.Get("/reconciliation/export", recon.ExportReport)
	api.Get("/recipes/:id/explosion", recon.GetExplosion)
	api.Get("/bom/validate", recon.ValidateBOM)

	api.Get("/inventory-counts", middleware.RequireAnyPrivilege(PrivilegeInventoryCount, PrivilegeReconciliationView), counts.ListCounts)
	api.Post("/inventory-counts", middleware.RequirePrivilege(PrivilegeInventoryCount), counts.RecordCount)

	return api
}
