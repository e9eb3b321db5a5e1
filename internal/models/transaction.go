package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	Deposit    TransactionType = "DEPOSIT"
	Withdrawal TransactionType = "WITHDRAWAL"
)

// Transaction is a pending ledger movement. IsProcessed flips false to true
// exactly once, inside the settlement executor, and never reverses; a
// processed row is immutable.
type Transaction struct {
	ID          int64           `gorm:"primaryKey;autoIncrement"`
	AccountID   string          `gorm:"size:50;not null;index"`
	Amount      decimal.Decimal `gorm:"type:numeric(15,2);not null"`
	Type        TransactionType `gorm:"size:20;not null"`
	CreatedAt   time.Time       `gorm:"index"`
	IsProcessed bool            `gorm:"not null;default:false;index"`
}
