package model

// Product is a sellable item definition shared across slots and machines.
// Identity comes from the upstream catalog, not a generated key, so the
// upstream id is the primary key and upserts merge by it.
type Product struct {
	ProductID string  `gorm:"primaryKey;type:varchar(64)" json:"product_id"`
	Name      string  `gorm:"type:varchar(255);not null" json:"product_name"`
	Image     *string `gorm:"type:text" json:"product_image"`
	Cost      int64   `gorm:"not null" json:"product_cost"` // minor units (cents)
}
