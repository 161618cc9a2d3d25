package repository

import (
	"go-vendsync/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository interface {
	UpsertAll(tx *gorm.DB, products []model.Product) error
	FindAll() ([]model.Product, error)
	FindByID(id string) (*model.Product, error)
	UpdateFields(tx *gorm.DB, id string, fields map[string]interface{}) error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

// UpsertAll merges products by upstream id. Products are global, not scoped
// to a machine, so a product shared across machines takes whatever the last
// synced machine reported.
func (r *productRepo) UpsertAll(tx *gorm.DB, products []model.Product) error {
	if len(products) == 0 {
		return nil
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "cost", "image"}),
	}).Create(&products).Error
}

func (r *productRepo) FindAll() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Order("product_id").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(id string) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "product_id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateFields takes *gorm.DB so partial updates can join a transaction.
func (r *productRepo) UpdateFields(tx *gorm.DB, id string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return tx.Model(&model.Product{}).
		Where("product_id = ?", id).
		Updates(fields).Error
}
