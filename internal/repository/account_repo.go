package repository

import (
	"settlement-batch-backend/internal/models"

	"gorm.io/gorm"
)

type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// GetByID fetches a single account by its ledger key.
func (r *AccountRepository) GetByID(id string) (*models.Account, error) {
	var account models.Account
	if err := r.db.First(&account, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *AccountRepository) List(page, size int) ([]models.Account, error) {
	var accounts []models.Account
	err := r.db.
		Order("id ASC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&accounts).Error
	return accounts, err
}

func (r *AccountRepository) FindByStatus(status models.AccountStatus) ([]models.Account, error) {
	var accounts []models.Account
	err := r.db.
		Where("status = ?", status).
		Order("id ASC").
		Find(&accounts).Error
	return accounts, err
}

func (r *AccountRepository) FindByType(accountType models.AccountType) ([]models.Account, error) {
	var accounts []models.Account
	err := r.db.
		Where("account_type = ?", accountType).
		Order("id ASC").
		Find(&accounts).Error
	return accounts, err
}

func (r *AccountRepository) Create(account *models.Account) error {
	return r.db.Create(account).Error
}

// Update persists changed fields on an existing account row.
func (r *AccountRepository) Update(account *models.Account) error {
	return r.db.Save(account).Error
}
