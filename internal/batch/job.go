package batch

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"settlement-batch-backend/internal/models"
	"settlement-batch-backend/internal/repository"
	"settlement-batch-backend/internal/services/settlement"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	// DefaultChunkSize bounds how many records a step accumulates before
	// invoking the writer.
	DefaultChunkSize = 1000

	settlementJobName = "settlementJob"
)

// JobParams parameterizes one launch. Identical parameter sets are not
// deduplicated; every launch gets its own execution.
type JobParams struct {
	Time    int64  `json:"time"`
	Trigger string `json:"trigger"`
}

// JobRunner orchestrates the chunk-oriented settlement job: read up to N
// records through the cursor, pass each through the processor, hand the
// chunk to the writer, repeat until the snapshot is drained. Each execution
// is tracked through the JobExecution state machine; a step failure marks
// the job FAILED and stops, leaving already-written chunks committed.
type JobRunner struct {
	db        *gorm.DB
	txRepo    *repository.TransactionRepository
	writer    *SettlementWriter
	processor ItemProcessor
	service   *settlement.Service
	guard     *settlement.RunGuard
	chunkSize int
}

func NewJobRunner(
	db *gorm.DB,
	txRepo *repository.TransactionRepository,
	writer *SettlementWriter,
	service *settlement.Service,
	guard *settlement.RunGuard,
	chunkSize int,
) *JobRunner {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &JobRunner{
		db:        db,
		txRepo:    txRepo,
		writer:    writer,
		processor: PassthroughProcessor,
		service:   service,
		guard:     guard,
		chunkSize: chunkSize,
	}
}

// Run executes the settlement job end to end and records one history row
// for the run. It holds the run token for the whole job; an overlapping
// attempt gets ErrRunInProgress before any execution state is created.
func (r *JobRunner) Run(ctx context.Context, trigger settlement.Trigger) (*models.JobExecution, error) {
	if err := r.guard.Acquire(); err != nil {
		return nil, err
	}
	defer r.guard.Release()

	params, err := json.Marshal(JobParams{
		Time:    time.Now().UnixMilli(),
		Trigger: string(trigger),
	})
	if err != nil {
		return nil, err
	}

	exec := &models.JobExecution{
		ID:         uuid.New(),
		JobName:    settlementJobName,
		Status:     models.JobCreated,
		Parameters: datatypes.JSON(params),
		StartedAt:  time.Now(),
	}
	if err := r.db.WithContext(ctx).Create(exec).Error; err != nil {
		return nil, err
	}

	slog.Info("job started", "job", settlementJobName, "execution", exec.ID, "trigger", trigger)
	r.transition(ctx, exec, models.JobStarted)

	total, stepErr := r.runStep(ctx, exec)
	if stepErr != nil {
		exec.ExitMessage = stepErr.Error()
		r.finish(ctx, exec, models.JobFailed, total)
		if _, err := r.service.RecordOutcome(settlement.Result{}, stepErr); err != nil {
			slog.Error("failed to record settlement history", "execution", exec.ID, "err", err)
		}
		slog.Error("job failed", "execution", exec.ID, "err", stepErr)
		return exec, stepErr
	}

	r.finish(ctx, exec, models.JobCompleted, total)
	if _, err := r.service.RecordOutcome(total, nil); err != nil {
		slog.Error("failed to record settlement history", "execution", exec.ID, "err", err)
	}
	slog.Info("job completed",
		"execution", exec.ID,
		"processed", total.ProcessedCount,
		"errors", total.ErrorCount)
	return exec, nil
}

func (r *JobRunner) runStep(ctx context.Context, exec *models.JobExecution) (settlement.Result, error) {
	r.transition(ctx, exec, models.JobStepStarted)

	cursor, err := OpenTransactionCursor(ctx, r.txRepo, r.chunkSize)
	if err != nil {
		return settlement.Result{}, err
	}

	var total settlement.Result
	for {
		chunk := make([]*models.Transaction, 0, r.chunkSize)
		for len(chunk) < r.chunkSize {
			item, err := cursor.Next(ctx)
			if err != nil {
				return total, err
			}
			if item == nil {
				break
			}
			processed, err := r.processor(item)
			if err != nil {
				return total, err
			}
			if processed != nil {
				chunk = append(chunk, processed)
			}
		}
		if len(chunk) == 0 {
			break
		}

		res, err := r.writer.Write(ctx, chunk)
		if err != nil {
			return total, err
		}
		total.ProcessedCount += res.ProcessedCount
		total.ErrorCount += res.ErrorCount
	}

	r.transition(ctx, exec, models.JobStepCompleted)
	return total, nil
}

func (r *JobRunner) transition(ctx context.Context, exec *models.JobExecution, status models.JobStatus) {
	exec.Status = status
	if err := r.db.WithContext(ctx).
		Model(&models.JobExecution{}).
		Where("id = ?", exec.ID).
		Update("status", status).Error; err != nil {
		slog.Error("failed to persist job transition", "execution", exec.ID, "status", status, "err", err)
	}
}

func (r *JobRunner) finish(ctx context.Context, exec *models.JobExecution, status models.JobStatus, total settlement.Result) {
	now := time.Now()
	exec.Status = status
	exec.ProcessedCount = total.ProcessedCount
	exec.ErrorCount = total.ErrorCount
	exec.CompletedAt = &now
	if err := r.db.WithContext(ctx).
		Model(&models.JobExecution{}).
		Where("id = ?", exec.ID).
		Updates(map[string]interface{}{
			"status":          status,
			"processed_count": total.ProcessedCount,
			"error_count":     total.ErrorCount,
			"exit_message":    exec.ExitMessage,
			"completed_at":    now,
		}).Error; err != nil {
		slog.Error("failed to persist job completion", "execution", exec.ID, "status", status, "err", err)
	}
}
