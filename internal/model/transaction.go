package model

// Transaction is a read-mostly mirror of an upstream sale. Upstream ids are
// only unique within a machine, so the key is (machine_id, transaction_id).
// ProductID here is a denormalized copy, not a foreign key.
type Transaction struct {
	MachineID       int     `gorm:"primaryKey;autoIncrement:false" json:"machine_id"`
	TransactionID   string  `gorm:"primaryKey;type:varchar(64)" json:"transaction_id"`
	ProductName     string  `gorm:"type:varchar(255)" json:"product_name"`
	ProductID       *string `gorm:"type:varchar(64)" json:"product_id"`
	SlotName        *string `gorm:"type:varchar(64)" json:"slot_name"`
	Amount          int64   `gorm:"not null;default:0" json:"amount"` // minor units
	PaymentType     string  `gorm:"type:varchar(32)" json:"payment_type"`
	Status          string  `gorm:"type:varchar(32)" json:"status"`
	TransactionTime int64   `gorm:"index" json:"transaction_time"`
	CreatedAt       string  `gorm:"type:varchar(64)" json:"created_at"` // upstream timestamp, mirrored verbatim
}
