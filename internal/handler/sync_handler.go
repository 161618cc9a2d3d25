package handler

import (
	"go-vendsync/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SyncHandler struct {
	service service.SyncService
}

func NewSyncHandler(s service.SyncService) *SyncHandler {
	return &SyncHandler{service: s}
}

// GetSlotDetails triggers a slot sync pass and serves the enriched
// read-back. GET /api/getSlotDetails?machineId=219
func (h *SyncHandler) GetSlotDetails(c *fiber.Ctx) error {
	machineID := c.QueryInt("machineId", service.DefaultMachineID)

	slots, err := h.service.SyncSlots(c.Context(), machineID)
	if err != nil {
		return errorJSON(c, err)
	}

	views := make([]slotView, 0, len(slots))
	for _, s := range slots {
		views = append(views, newSlotView(s))
	}

	return c.JSON(fiber.Map{
		"status": "success",
		"data":   fiber.Map{"products": views},
	})
}

// GetSalesData triggers a sales sync pass and serves the stored mirror.
// GET /api/getSalesData?machineId=219
func (h *SyncHandler) GetSalesData(c *fiber.Ctx) error {
	machineID := c.QueryInt("machineId", service.DefaultMachineID)

	transactions, err := h.service.SyncSales(c.Context(), machineID)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(fiber.Map{
		"status": "success",
		"data":   transactions,
		"msg":    "Data synchronized",
	})
}
