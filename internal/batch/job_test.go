package batch

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"settlement-batch-backend/internal/models"
	"settlement-batch-backend/internal/repository"
	"settlement-batch-backend/internal/services/settlement"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupRunner(t *testing.T, chunkSize int) (*JobRunner, *settlement.RunGuard, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)

	txRepo := repository.NewTransactionRepository(db)
	historyRepo := repository.NewSettlementHistoryRepository(db)
	executor := settlement.NewExecutor(db)
	guard := &settlement.RunGuard{}
	service := settlement.NewService(executor, guard, historyRepo)
	writer := NewSettlementWriter(executor)

	return NewJobRunner(db, txRepo, writer, service, guard, chunkSize), guard, db
}

func insertAccount(t *testing.T, db *gorm.DB, id, balance string) {
	t.Helper()
	require.NoError(t, db.Create(&models.Account{
		ID:          id,
		Balance:     decimal.RequireFromString(balance),
		Status:      models.AccountActive,
		AccountType: models.AccountBasic,
	}).Error)
}

func TestJobRunCompletesAndRecordsHistory(t *testing.T) {
	runner, _, db := setupRunner(t, 2)
	insertAccount(t, db, "A001", "1000.00")
	base := time.Date(2026, 8, 1, 4, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		insertTransaction(t, db, "A001", "10.00", base.Add(time.Duration(i)*time.Second))
	}

	exec, err := runner.Run(context.Background(), settlement.TriggerScheduled)
	require.NoError(t, err)

	assert.Equal(t, models.JobCompleted, exec.Status)
	assert.Equal(t, 5, exec.ProcessedCount)
	assert.Equal(t, 0, exec.ErrorCount)
	require.NotNil(t, exec.CompletedAt)

	// The persisted execution matches the in-memory one.
	var stored models.JobExecution
	require.NoError(t, db.First(&stored, "id = ?", exec.ID).Error)
	assert.Equal(t, models.JobCompleted, stored.Status)
	assert.Equal(t, 5, stored.ProcessedCount)

	var params JobParams
	require.NoError(t, json.Unmarshal(stored.Parameters, &params))
	assert.Equal(t, string(settlement.TriggerScheduled), params.Trigger)
	assert.NotZero(t, params.Time)

	// One outcome row per run.
	var history []models.SettlementHistory
	require.NoError(t, db.Find(&history).Error)
	require.Len(t, history, 1)
	assert.Equal(t, models.SettlementSuccess, history[0].Status)
	assert.Equal(t, 5, history[0].ProcessedCount)

	var unprocessed int64
	require.NoError(t, db.Model(&models.Transaction{}).
		Where("is_processed = ?", false).
		Count(&unprocessed).Error)
	assert.Zero(t, unprocessed)
}

func TestJobRunAggregatesRuleViolations(t *testing.T) {
	runner, _, db := setupRunner(t, 10)
	insertAccount(t, db, "C001", "100.00")
	now := time.Now().UTC()
	require.NoError(t, db.Create(&models.Transaction{
		AccountID: "C001",
		Amount:    decimal.RequireFromString("500.00"),
		Type:      models.Withdrawal,
		CreatedAt: now,
	}).Error)

	exec, err := runner.Run(context.Background(), settlement.TriggerManual)
	require.NoError(t, err)

	assert.Equal(t, models.JobCompleted, exec.Status)
	assert.Equal(t, 0, exec.ProcessedCount)
	assert.Equal(t, 1, exec.ErrorCount)
}

func TestJobRunRejectedWhileGuardHeld(t *testing.T) {
	runner, guard, db := setupRunner(t, 2)
	require.NoError(t, guard.Acquire())
	defer guard.Release()

	exec, err := runner.Run(context.Background(), settlement.TriggerScheduled)
	assert.ErrorIs(t, err, settlement.ErrRunInProgress)
	assert.Nil(t, exec)

	// No execution state is created for a rejected attempt.
	var count int64
	require.NoError(t, db.Model(&models.JobExecution{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestJobRunFailureMarksJobFailedAndRecordsFailRow(t *testing.T) {
	runner, _, db := setupRunner(t, 2)
	insertTransaction(t, db, "A001", "10.00", time.Now().UTC())

	// Break the ledger so the writer's executor call errors.
	require.NoError(t, db.Migrator().DropTable(&models.Account{}))

	exec, err := runner.Run(context.Background(), settlement.TriggerScheduled)
	require.Error(t, err)
	require.NotNil(t, exec)

	assert.Equal(t, models.JobFailed, exec.Status)
	assert.NotEmpty(t, exec.ExitMessage)

	var history []models.SettlementHistory
	require.NoError(t, db.Find(&history).Error)
	require.Len(t, history, 1)
	assert.Equal(t, models.SettlementFail, history[0].Status)
	assert.Equal(t, 0, history[0].ProcessedCount)
	assert.Equal(t, 1, history[0].ErrorCount)
}

func TestJobRunEmptyLedgerCompletesWithZeroCounts(t *testing.T) {
	runner, _, db := setupRunner(t, 2)

	exec, err := runner.Run(context.Background(), settlement.TriggerScheduled)
	require.NoError(t, err)

	assert.Equal(t, models.JobCompleted, exec.Status)
	assert.Equal(t, 0, exec.ProcessedCount)
	assert.Equal(t, 0, exec.ErrorCount)

	var history []models.SettlementHistory
	require.NoError(t, db.Find(&history).Error)
	require.Len(t, history, 1)
	assert.Equal(t, models.SettlementSuccess, history[0].Status)
}

func TestJobRunReleasesGuardForNextRun(t *testing.T) {
	runner, _, _ := setupRunner(t, 2)

	_, err := runner.Run(context.Background(), settlement.TriggerScheduled)
	require.NoError(t, err)
	_, err = runner.Run(context.Background(), settlement.TriggerScheduled)
	require.NoError(t, err)
}
