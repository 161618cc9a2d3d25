// Package normalize maps raw upstream payloads onto the local schema. All
// functions are pure; a malformed or missing field degrades to its default
// rather than failing the record or the pass.
package normalize

import (
	"encoding/json"

	"go-vendsync/internal/gateway"
	"go-vendsync/internal/model"
)

const unknownName = "Unknown"

// SlotEntry maps one raw slot onto (Product, Slot, Stock) for the given
// machine. The product is nil when the entry carries no product id; the
// slot then stays unassigned.
func SlotEntry(machineID int, raw gateway.RawSlotEntry) (*model.Product, model.Slot, model.Stock) {
	slotID := raw.SlotID.String()

	var product *model.Product
	var productID *string
	if raw.ProductID != nil && raw.ProductID.String() != "" {
		id := raw.ProductID.String()
		productID = &id
		product = &model.Product{
			ProductID: id,
			Name:      stringOr(raw.ProductName, unknownName),
			Image:     raw.ProductImage,
			Cost:      intOr(raw.ProductCost, 0),
		}
	}

	slot := model.Slot{
		MachineID:    machineID,
		SlotID:       slotID,
		SlotName:     raw.SlotName,
		RowNumber:    raw.RowNumber,
		ColumnNumber: raw.ColumnNumber,
		ProductID:    productID,
		Status:       model.SlotStatusNormal, // upstream status is ignored
		Enable:       enableOr(raw.Enable, 1),
	}

	qty := 0
	for _, batch := range raw.StockInfo {
		qty += batch.Qty
	}
	stock := model.Stock{
		MachineID: machineID,
		SlotID:    slotID,
		Qty:       qty,
		MaxQty:    model.DefaultMaxQty,
	}

	return product, slot, stock
}

// Transaction maps one raw sale onto the local mirror. Display fields come
// from the first cart item only; later items of a multi-item cart lose
// their attribution. That matches the upstream contract and is intentional.
func Transaction(machineID int, raw gateway.RawTransactionEntry) model.Transaction {
	tx := model.Transaction{
		MachineID:       machineID,
		TransactionID:   raw.ID.String(),
		ProductName:     unknownName,
		PaymentType:     unknownName,
		Status:          raw.Status,
		TransactionTime: intOr(raw.TransactionTime, 0),
		CreatedAt:       raw.CreatedAt.String(),
	}

	var firstItemAmount int64
	if len(raw.CartData) > 0 {
		item := raw.CartData[0]
		tx.ProductName = stringOr(&item.ProductName, unknownName)
		tx.SlotName = item.SlotName
		if item.ProductID != nil && item.ProductID.String() != "" {
			id := item.ProductID.String()
			tx.ProductID = &id
		}
		firstItemAmount = intOr(item.Amount, 0)
	}

	if amount := intOr(raw.AmountReceived, 0); amount != 0 {
		tx.Amount = amount
	} else {
		tx.Amount = firstItemAmount
	}

	if len(raw.AmountData) > 0 && raw.AmountData[0].PaymentType != "" {
		tx.PaymentType = raw.AmountData[0].PaymentType
	}

	return tx
}

func stringOr(s *string, def string) string {
	if s == nil || *s == "" {
		return def
	}
	return *s
}

func enableOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

// intOr reads a json.Number, truncating a fractional value and falling back
// to def when the field was absent or unparseable.
func intOr(n json.Number, def int64) int64 {
	if n == "" {
		return def
	}
	if v, err := n.Int64(); err == nil {
		return v
	}
	if f, err := n.Float64(); err == nil {
		return int64(f)
	}
	return def
}
