package repository

import (
	"go-vendsync/internal/model"

	"gorm.io/gorm"
)

type TransactionRepository interface {
	ReplaceForMachine(tx *gorm.DB, machineID int, transactions []model.Transaction) error
	FindByMachine(machineID int) ([]model.Transaction, error)
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

// ReplaceForMachine drops and reinserts the machine's sales mirror. Rows of
// other machines are untouched.
func (r *transactionRepo) ReplaceForMachine(tx *gorm.DB, machineID int, transactions []model.Transaction) error {
	if err := tx.Where("machine_id = ?", machineID).Delete(&model.Transaction{}).Error; err != nil {
		return err
	}
	if len(transactions) > 0 {
		if err := tx.Create(&transactions).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *transactionRepo) FindByMachine(machineID int) ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.db.Where("machine_id = ?", machineID).
		Order("transaction_time DESC").
		Find(&transactions).Error
	return transactions, err
}
