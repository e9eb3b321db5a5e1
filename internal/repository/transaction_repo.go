package repository

import (
	"context"
	"time"

	"settlement-batch-backend/internal/models"

	"gorm.io/gorm"
)

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Expose DB if needed
func (r *TransactionRepository) DB() *gorm.DB {
	return r.db
}

// MaxID returns the highest transaction id, or 0 on an empty ledger. Used
// as the snapshot boundary when a batch cursor opens.
func (r *TransactionRepository) MaxID(ctx context.Context) (int64, error) {
	var maxID int64
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Select("COALESCE(MAX(id), 0)").
		Scan(&maxID).Error
	return maxID, err
}

// FindUnprocessedPage returns the next page of unprocessed transactions in
// created_at ASC order (id breaks ties), bounded by the snapshot id and
// keyed on the previous page's last (created_at, id).
func (r *TransactionRepository) FindUnprocessedPage(ctx context.Context, snapshotMaxID int64, afterCreatedAt time.Time, afterID int64, limit int) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := r.db.WithContext(ctx).
		Where("is_processed = ?", false).
		Where("id <= ?", snapshotMaxID).
		Where("created_at > ? OR (created_at = ? AND id > ?)", afterCreatedAt, afterCreatedAt, afterID).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Find(&txs).Error
	return txs, err
}

func (r *TransactionRepository) CountByProcessed(processed bool) (int64, error) {
	var count int64
	err := r.db.Model(&models.Transaction{}).
		Where("is_processed = ?", processed).
		Count(&count).Error
	return count, err
}

// Create inserts one pending transaction into the ledger.
func (r *TransactionRepository) Create(tx *models.Transaction) error {
	return r.db.Create(tx).Error
}

// CreateBatch inserts a set of pending transactions in one statement.
func (r *TransactionRepository) CreateBatch(txs []models.Transaction) error {
	return r.db.Create(&txs).Error
}

func (r *TransactionRepository) FindByDateRange(start, end time.Time, page, size int) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := r.db.
		Where("created_at BETWEEN ? AND ?", start, end).
		Order("created_at ASC, id ASC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&txs).Error
	return txs, err
}

func (r *TransactionRepository) FindByAccountID(accountID string, page, size int) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := r.db.
		Where("account_id = ?", accountID).
		Order("created_at ASC, id ASC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&txs).Error
	return txs, err
}

// List returns transactions ordered by creation time, optionally filtered
// by the processed flag.
func (r *TransactionRepository) List(processed *bool, page, size int) ([]models.Transaction, error) {
	var txs []models.Transaction
	query := r.db.Order("created_at ASC, id ASC")
	if processed != nil {
		query = query.Where("is_processed = ?", *processed)
	}
	err := query.
		Offset((page - 1) * size).
		Limit(size).
		Find(&txs).Error
	return txs, err
}
