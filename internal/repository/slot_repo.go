package repository

import (
	"go-vendsync/internal/model"

	"gorm.io/gorm"
)

// EnrichedSlot is a slot joined with its product and stock for client
// display. Product fields fall back to catalog defaults when the slot is
// unassigned; a missing stock row reads as qty 0.
type EnrichedSlot struct {
	SlotID       string  `json:"slot_id"`
	SlotName     string  `json:"slot_name"`
	RowNumber    int     `json:"row_number"`
	ColumnNumber int     `json:"column_number"`
	Status       string  `json:"status"`
	Enable       int     `json:"enable"`
	ProductID    *string `json:"product_id"`
	ProductName  string  `json:"product_name"`
	ProductCost  int64   `json:"product_cost"`
	ProductImage *string `json:"product_image"`
	Qty          int     `json:"qty"`
	MaxQty       int     `json:"max_qty"`
}

type SlotRepository interface {
	ReplaceForMachine(tx *gorm.DB, machineID int, slots []model.Slot, stocks []model.Stock) error
	FindEnrichedByMachine(machineID int) ([]EnrichedSlot, error)
	FindByKey(machineID int, slotID string) (*model.Slot, error)
	UpdateSlotFields(tx *gorm.DB, machineID int, slotID string, fields map[string]interface{}) error
	UpdateStockFields(tx *gorm.DB, machineID int, slotID string, fields map[string]interface{}) error
	LowStockCount(threshold int) (int64, error)
}

type slotRepo struct {
	db *gorm.DB
}

func NewSlotRepo(db *gorm.DB) SlotRepository {
	return &slotRepo{db}
}

// ReplaceForMachine is the destructive replace policy: every slot and stock
// row scoped to the machine is dropped, then the fresh sets are inserted.
// Must run inside a transaction so readers never see the gap.
func (r *slotRepo) ReplaceForMachine(tx *gorm.DB, machineID int, slots []model.Slot, stocks []model.Stock) error {
	if err := tx.Where("machine_id = ?", machineID).Delete(&model.Slot{}).Error; err != nil {
		return err
	}
	if err := tx.Where("machine_id = ?", machineID).Delete(&model.Stock{}).Error; err != nil {
		return err
	}
	if len(slots) > 0 {
		if err := tx.Create(&slots).Error; err != nil {
			return err
		}
	}
	if len(stocks) > 0 {
		if err := tx.Create(&stocks).Error; err != nil {
			return err
		}
	}
	return nil
}

// enrichedRow is the raw join scan target; product and stock columns are
// nullable because of the left joins.
type enrichedRow struct {
	SlotID       string
	SlotName     string
	RowNumber    int
	ColumnNumber int
	Status       string
	Enable       int
	ProductID    *string
	ProductName  *string
	ProductCost  *int64
	ProductImage *string
	Qty          *int
	MaxQty       *int
}

func (r *slotRepo) FindEnrichedByMachine(machineID int) ([]EnrichedSlot, error) {
	var rows []enrichedRow
	err := r.db.Table("slots").
		Select(`slots.slot_id, slots.slot_name, slots.row_number, slots.column_number,
			slots.status, slots.enable, slots.product_id,
			products.name AS product_name, products.cost AS product_cost, products.image AS product_image,
			stocks.qty AS qty, stocks.max_qty AS max_qty`).
		Joins("LEFT JOIN products ON products.product_id = slots.product_id").
		Joins("LEFT JOIN stocks ON stocks.machine_id = slots.machine_id AND stocks.slot_id = slots.slot_id").
		Where("slots.machine_id = ?", machineID).
		Order("slots.slot_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	enriched := make([]EnrichedSlot, 0, len(rows))
	for _, row := range rows {
		e := EnrichedSlot{
			SlotID:       row.SlotID,
			SlotName:     row.SlotName,
			RowNumber:    row.RowNumber,
			ColumnNumber: row.ColumnNumber,
			Status:       row.Status,
			Enable:       row.Enable,
			ProductID:    row.ProductID,
			ProductName:  "Unknown",
			ProductImage: row.ProductImage,
			MaxQty:       model.DefaultMaxQty,
		}
		if row.ProductName != nil && *row.ProductName != "" {
			e.ProductName = *row.ProductName
		}
		if row.ProductCost != nil {
			e.ProductCost = *row.ProductCost
		}
		if row.Qty != nil {
			e.Qty = *row.Qty
		}
		if row.MaxQty != nil {
			e.MaxQty = *row.MaxQty
		}
		enriched = append(enriched, e)
	}
	return enriched, nil
}

func (r *slotRepo) FindByKey(machineID int, slotID string) (*model.Slot, error) {
	var slot model.Slot
	err := r.db.First(&slot, "machine_id = ? AND slot_id = ?", machineID, slotID).Error
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *slotRepo) UpdateSlotFields(tx *gorm.DB, machineID int, slotID string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return tx.Model(&model.Slot{}).
		Where("machine_id = ? AND slot_id = ?", machineID, slotID).
		Updates(fields).Error
}

func (r *slotRepo) UpdateStockFields(tx *gorm.DB, machineID int, slotID string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return tx.Model(&model.Stock{}).
		Where("machine_id = ? AND slot_id = ?", machineID, slotID).
		Updates(fields).Error
}

// LowStockCount counts stock rows under the threshold across every machine.
// Deliberately global: the catalog endpoint has no machine parameter.
func (r *slotRepo) LowStockCount(threshold int) (int64, error) {
	var count int64
	err := r.db.Model(&model.Stock{}).Where("qty < ?", threshold).Count(&count).Error
	return count, err
}
