package batch

import (
	"context"
	"testing"
	"time"

	"settlement-batch-backend/internal/models"
	"settlement-batch-backend/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A fresh connection would see a fresh :memory: database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Account{},
		&models.Transaction{},
		&models.SettlementHistory{},
		&models.TransactionError{},
		&models.JobExecution{},
	))
	return db
}

func insertTransaction(t *testing.T, db *gorm.DB, accountID, amount string, createdAt time.Time) int64 {
	t.Helper()
	tx := &models.Transaction{
		AccountID: accountID,
		Amount:    decimal.RequireFromString(amount),
		Type:      models.Deposit,
		CreatedAt: createdAt,
	}
	require.NoError(t, db.Create(tx).Error)
	return tx.ID
}

func drainCursor(t *testing.T, cursor *TransactionCursor) []models.Transaction {
	t.Helper()
	var out []models.Transaction
	for {
		item, err := cursor.Next(context.Background())
		require.NoError(t, err)
		if item == nil {
			return out
		}
		out = append(out, *item)
	}
}

func TestCursorOrdersByCreationTime(t *testing.T) {
	db := setupTestDB(t)
	base := time.Date(2026, 8, 1, 4, 0, 0, 0, time.UTC)

	// Insertion order deliberately disagrees with creation time.
	insertTransaction(t, db, "T2", "2.00", base.Add(time.Minute))
	insertTransaction(t, db, "T3", "3.00", base.Add(2*time.Minute))
	insertTransaction(t, db, "T1", "1.00", base)

	cursor, err := OpenTransactionCursor(context.Background(), repository.NewTransactionRepository(db), 10)
	require.NoError(t, err)

	items := drainCursor(t, cursor)
	require.Len(t, items, 3)
	assert.Equal(t, "T1", items[0].AccountID)
	assert.Equal(t, "T2", items[1].AccountID)
	assert.Equal(t, "T3", items[2].AccountID)
}

func TestCursorExcludesRowsCreatedAfterOpen(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now().UTC()
	insertTransaction(t, db, "OLD", "1.00", now.Add(-time.Hour))

	cursor, err := OpenTransactionCursor(context.Background(), repository.NewTransactionRepository(db), 10)
	require.NoError(t, err)

	// Arrives after the scan began; must not join the current run.
	insertTransaction(t, db, "NEW", "2.00", now)

	items := drainCursor(t, cursor)
	require.Len(t, items, 1)
	assert.Equal(t, "OLD", items[0].AccountID)
}

func TestCursorPagesThroughSnapshot(t *testing.T) {
	db := setupTestDB(t)
	base := time.Date(2026, 8, 1, 4, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		insertTransaction(t, db, "ACCT", "1.00", base.Add(time.Duration(i)*time.Second))
	}

	cursor, err := OpenTransactionCursor(context.Background(), repository.NewTransactionRepository(db), 2)
	require.NoError(t, err)

	items := drainCursor(t, cursor)
	require.Len(t, items, 5)
	for i := 1; i < len(items); i++ {
		assert.False(t, items[i].CreatedAt.Before(items[i-1].CreatedAt))
	}

	// Past exhaustion the cursor keeps signaling the sentinel.
	item, err := cursor.Next(context.Background())
	require.NoError(t, err)
	assert.Nil(t, item)
}

func TestCursorTieBreaksEqualTimestampsByID(t *testing.T) {
	db := setupTestDB(t)
	at := time.Date(2026, 8, 1, 4, 0, 0, 0, time.UTC)
	first := insertTransaction(t, db, "SAME", "1.00", at)
	second := insertTransaction(t, db, "SAME", "2.00", at)

	cursor, err := OpenTransactionCursor(context.Background(), repository.NewTransactionRepository(db), 1)
	require.NoError(t, err)

	items := drainCursor(t, cursor)
	require.Len(t, items, 2)
	assert.Equal(t, first, items[0].ID)
	assert.Equal(t, second, items[1].ID)
}

func TestCursorEmptyLedger(t *testing.T) {
	db := setupTestDB(t)

	cursor, err := OpenTransactionCursor(context.Background(), repository.NewTransactionRepository(db), 10)
	require.NoError(t, err)

	item, err := cursor.Next(context.Background())
	require.NoError(t, err)
	assert.Nil(t, item)
}

func TestCursorSkipsAlreadyProcessedRows(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now().UTC()
	insertTransaction(t, db, "PENDING", "1.00", now)
	done := insertTransaction(t, db, "DONE", "2.00", now.Add(time.Second))
	require.NoError(t, db.Model(&models.Transaction{}).
		Where("id = ?", done).
		Update("is_processed", true).Error)

	cursor, err := OpenTransactionCursor(context.Background(), repository.NewTransactionRepository(db), 10)
	require.NoError(t, err)

	items := drainCursor(t, cursor)
	require.Len(t, items, 1)
	assert.Equal(t, "PENDING", items[0].AccountID)
}
