package model

// SlotStatusNormal is forced onto every synced slot regardless of the
// upstream value.
const SlotStatusNormal = "Normal"

// Slot is a physical dispensing location. Identity is (machine_id, slot_id);
// a slot belongs to exactly one machine. ProductID is nil for an unassigned
// slot.
type Slot struct {
	MachineID    int     `gorm:"primaryKey;autoIncrement:false" json:"machine_id"`
	SlotID       string  `gorm:"primaryKey;type:varchar(32)" json:"slot_id"`
	SlotName     string  `gorm:"type:varchar(64)" json:"slot_name"`
	RowNumber    int     `json:"row_number"`
	ColumnNumber int     `json:"column_number"`
	ProductID    *string `gorm:"type:varchar(64)" json:"product_id"`
	Status       string  `gorm:"type:varchar(32);not null;default:Normal" json:"status"`
	// No column default on purpose: an explicit 0 must survive the insert,
	// and gorm swaps zero values for defaults when one is declared.
	Enable int `gorm:"not null" json:"enable"` // stored 0/1
}
