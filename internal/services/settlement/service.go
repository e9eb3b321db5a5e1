package settlement

import (
	"context"
	"log/slog"
	"time"

	"settlement-batch-backend/internal/models"
	"settlement-batch-backend/internal/repository"
)

// Trigger identifies what started a settlement run.
type Trigger string

const (
	TriggerScheduled Trigger = "scheduled"
	TriggerManual    Trigger = "manual"
)

// Service runs the settlement routine and records one history row per run.
type Service struct {
	executor    *Executor
	guard       *RunGuard
	historyRepo *repository.SettlementHistoryRepository
}

func NewService(executor *Executor, guard *RunGuard, historyRepo *repository.SettlementHistoryRepository) *Service {
	return &Service{
		executor:    executor,
		guard:       guard,
		historyRepo: historyRepo,
	}
}

// ExecuteSettlement is the direct path: guard, execute, record. An attempt
// rejected by the guard writes no history row; it is not a run. An executor
// failure is recorded as FAIL and returned alongside the row.
func (s *Service) ExecuteSettlement(ctx context.Context, trigger Trigger) (*models.SettlementHistory, error) {
	if err := s.guard.Acquire(); err != nil {
		return nil, err
	}
	defer s.guard.Release()

	slog.Info("starting settlement", "trigger", trigger)

	res, execErr := s.executor.Execute(ctx)
	history, recordErr := s.RecordOutcome(res, execErr)
	if recordErr != nil {
		slog.Error("failed to record settlement history", "err", recordErr)
	}
	if execErr != nil {
		slog.Error("settlement failed", "trigger", trigger, "err", execErr)
		return history, execErr
	}

	slog.Info("settlement completed",
		"trigger", trigger,
		"processed", res.ProcessedCount,
		"errors", res.ErrorCount)
	return history, recordErr
}

// RecordOutcome persists the outcome of one run. A completed execution is
// SUCCESS with the returned counts even when rule violations occurred;
// FAIL with counts (0, 1) is reserved for an execution that errored.
func (s *Service) RecordOutcome(res Result, execErr error) (*models.SettlementHistory, error) {
	history := &models.SettlementHistory{
		SettlementDate: today(),
		ProcessedCount: res.ProcessedCount,
		ErrorCount:     res.ErrorCount,
		Status:         models.SettlementSuccess,
	}
	if execErr != nil {
		history.ProcessedCount = 0
		history.ErrorCount = 1
		history.Status = models.SettlementFail
	}
	if err := s.historyRepo.Create(history); err != nil {
		return nil, err
	}
	return history, nil
}

func (s *Service) GetHistory(page, size int) ([]models.SettlementHistory, error) {
	return s.historyRepo.ListPaged(page, size)
}

func (s *Service) GetHistoryByDate(date time.Time) ([]models.SettlementHistory, error) {
	return s.historyRepo.FindByDate(date)
}

func (s *Service) GetHistoryByDateRange(start, end time.Time) ([]models.SettlementHistory, error) {
	return s.historyRepo.FindByDateRange(start, end)
}

func (s *Service) GetHistoryByStatus(status models.SettlementStatus) ([]models.SettlementHistory, error) {
	return s.historyRepo.FindByStatus(status)
}

func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
