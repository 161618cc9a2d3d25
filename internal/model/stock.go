package model

// DefaultMaxQty is the slot capacity assumed when upstream does not report one.
const DefaultMaxQty = 10

// Stock is quantity-on-hand for one slot, one row per (machine_id, slot_id).
// Qty is the sum over the upstream batch list; batch-level detail is not
// retained.
type Stock struct {
	MachineID int    `gorm:"primaryKey;autoIncrement:false" json:"machine_id"`
	SlotID    string `gorm:"primaryKey;type:varchar(32)" json:"slot_id"`
	Qty       int    `gorm:"not null" json:"qty"`
	MaxQty    int    `gorm:"not null;default:10" json:"max_qty"`
}
