package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccountStatus string

const (
	AccountActive   AccountStatus = "ACTIVE"
	AccountInactive AccountStatus = "INACTIVE"
)

type AccountType string

const (
	AccountBasic   AccountType = "BASIC"
	AccountPremium AccountType = "PREMIUM"
)

// Account is a ledger account. Balance must never go negative after
// settlement; only the settlement executor mutates it.
type Account struct {
	ID          string          `gorm:"primaryKey;size:50"`
	Balance     decimal.Decimal `gorm:"type:numeric(15,2);not null"`
	Status      AccountStatus   `gorm:"size:20;not null"`
	AccountType AccountType     `gorm:"column:account_type;size:20;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
