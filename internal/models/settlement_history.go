package models

import "time"

type SettlementStatus string

const (
	SettlementSuccess SettlementStatus = "SUCCESS"
	SettlementFail    SettlementStatus = "FAIL"
)

// SettlementHistory is the append-only outcome record of one settlement
// run. One row per run, never updated. FAIL is reserved for execution
// failures; a completed run with rule violations is still SUCCESS.
type SettlementHistory struct {
	ID             int64            `gorm:"primaryKey;autoIncrement"`
	SettlementDate time.Time        `gorm:"type:date;not null;index"`
	ProcessedCount int              `gorm:"not null"`
	ErrorCount     int              `gorm:"not null"`
	Status         SettlementStatus `gorm:"size:20;not null;index"`
	CreatedAt      time.Time
}
