package handler

import (
	"errors"

	"go-vendsync/internal/apperr"
	"go-vendsync/internal/repository"

	"github.com/gofiber/fiber/v2"
)

type stockInfoView struct {
	Qty int `json:"qty"`
}

// slotView mirrors the upstream key style the client already consumes,
// including the coloumnNumber typo and the spaced product keys.
type slotView struct {
	SlotID       string          `json:"slotId"`
	SlotName     string          `json:"slotName"`
	RowNumber    int             `json:"rowNumber"`
	ColumnNumber int             `json:"coloumnNumber"`
	ProductID    *string         `json:"Product Id"`
	ProductName  string          `json:"Product Name"`
	ProductCost  int64           `json:"Product Cost"`
	ProductImage *string         `json:"Product Image"`
	Status       string          `json:"status"`
	Enable       int             `json:"enable"`
	MaxQty       int             `json:"maxQty"`
	StockInfo    []stockInfoView `json:"stockInfo"`
}

func newSlotView(e repository.EnrichedSlot) slotView {
	return slotView{
		SlotID:       e.SlotID,
		SlotName:     e.SlotName,
		RowNumber:    e.RowNumber,
		ColumnNumber: e.ColumnNumber,
		ProductID:    e.ProductID,
		ProductName:  e.ProductName,
		ProductCost:  e.ProductCost,
		ProductImage: e.ProductImage,
		Status:       e.Status,
		Enable:       e.Enable,
		MaxQty:       e.MaxQty,
		StockInfo:    []stockInfoView{{Qty: e.Qty}},
	}
}

// errorJSON maps the error taxonomy onto the wrapped error envelope.
func errorJSON(c *fiber.Ctx, err error) error {
	var gwErr *apperr.GatewayError
	if errors.As(err, &gwErr) && gwErr.Upstream != nil {
		return c.Status(500).JSON(fiber.Map{
			"status":       "error",
			"message":      "API Failure",
			"api_response": gwErr.Upstream,
		})
	}

	code := 500
	switch {
	case errors.Is(err, apperr.ErrValidation):
		code = 400
	case errors.Is(err, apperr.ErrNotFound):
		code = 404
	}
	return c.Status(code).JSON(fiber.Map{"status": "error", "message": err.Error()})
}
