package repository

import (
	"settlement-batch-backend/internal/models"

	"gorm.io/gorm"
)

type TransactionErrorRepository struct {
	db *gorm.DB
}

func NewTransactionErrorRepository(db *gorm.DB) *TransactionErrorRepository {
	return &TransactionErrorRepository{db: db}
}

func (r *TransactionErrorRepository) FindByTransactionID(transactionID int64) ([]models.TransactionError, error) {
	var errs []models.TransactionError
	err := r.db.
		Where("transaction_id = ?", transactionID).
		Order("logged_at ASC").
		Find(&errs).Error
	return errs, err
}
