package models

import "time"

// Rule violation codes recorded by the settlement executor.
const (
	ErrCodeInsufficientFunds = "INSUFFICIENT_FUNDS"
	ErrCodeAccountInactive   = "ACCOUNT_INACTIVE"
	ErrCodeAccountNotFound   = "ACCOUNT_NOT_FOUND"
)

// TransactionError records why a transaction was settled as an error.
// Diagnostic only; the transaction itself is still marked processed.
type TransactionError struct {
	ID            int64     `gorm:"primaryKey;autoIncrement"`
	TransactionID int64     `gorm:"not null;index"`
	ErrorCode     string    `gorm:"size:50;not null"`
	ErrorMessage  string    `gorm:"size:500"`
	LoggedAt      time.Time `gorm:"autoCreateTime"`
}
