package handler

import (
	"go-vendsync/internal/apperr"
	"go-vendsync/internal/service"

	"github.com/gofiber/fiber/v2"
)

type CatalogHandler struct {
	service service.CatalogService
}

func NewCatalogHandler(s service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: s}
}

// GetProducts serves the full catalog with derived stats.
// GET /api/getProducts
func (h *CatalogHandler) GetProducts(c *fiber.Ctx) error {
	products, stats, err := h.service.GetProducts()
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(fiber.Map{
		"status": "success",
		"data": fiber.Map{
			"products": products,
			"stats":    stats,
		},
	})
}

// UpdateSlot applies a partial update to a slot and, when assigned, its
// product. POST /api/updateSlot
func (h *CatalogHandler) UpdateSlot(c *fiber.Ctx) error {
	var req service.UpdateSlotRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, apperr.Validation("invalid JSON body"))
	}

	if err := h.service.UpdateSlot(&req); err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Slot and product updated",
	})
}
