package repository

import (
	"time"

	"settlement-batch-backend/internal/models"

	"gorm.io/gorm"
)

type SettlementHistoryRepository struct {
	db *gorm.DB
}

func NewSettlementHistoryRepository(db *gorm.DB) *SettlementHistoryRepository {
	return &SettlementHistoryRepository{db: db}
}

// Create appends one outcome row. History rows are never updated.
func (r *SettlementHistoryRepository) Create(h *models.SettlementHistory) error {
	return r.db.Create(h).Error
}

func (r *SettlementHistoryRepository) ListPaged(page, size int) ([]models.SettlementHistory, error) {
	var history []models.SettlementHistory
	err := r.db.
		Order("settlement_date DESC, id DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&history).Error
	return history, err
}

// FindByDate returns every run recorded for one settlement day.
func (r *SettlementHistoryRepository) FindByDate(date time.Time) ([]models.SettlementHistory, error) {
	var history []models.SettlementHistory
	err := r.db.
		Where("settlement_date = ?", date).
		Order("id DESC").
		Find(&history).Error
	return history, err
}

func (r *SettlementHistoryRepository) FindByDateRange(start, end time.Time) ([]models.SettlementHistory, error) {
	var history []models.SettlementHistory
	err := r.db.
		Where("settlement_date BETWEEN ? AND ?", start, end).
		Order("settlement_date DESC, id DESC").
		Find(&history).Error
	return history, err
}

func (r *SettlementHistoryRepository) FindByStatus(status models.SettlementStatus) ([]models.SettlementHistory, error) {
	var history []models.SettlementHistory
	err := r.db.
		Where("status = ?", status).
		Order("settlement_date DESC, id DESC").
		Find(&history).Error
	return history, err
}
