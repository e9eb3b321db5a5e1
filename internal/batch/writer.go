package batch

import (
	"context"
	"log/slog"

	"settlement-batch-backend/internal/models"
	"settlement-batch-backend/internal/services/settlement"
)

// SettlementWriter triggers one executor call per chunk. The executor is
// ledger-wide: it settles every unprocessed transaction, not just the
// chunk's rows, so chunking controls job bookkeeping cadence rather than
// settlement granularity. A later chunk whose rows were already settled by
// an earlier call simply observes zero eligible rows.
type SettlementWriter struct {
	executor *settlement.Executor
}

func NewSettlementWriter(executor *settlement.Executor) *SettlementWriter {
	return &SettlementWriter{executor: executor}
}

// Write invokes the settlement executor and returns its counts. Any
// executor error propagates and fails the step.
func (w *SettlementWriter) Write(ctx context.Context, chunk []*models.Transaction) (settlement.Result, error) {
	slog.Info("starting settlement for chunk", "size", len(chunk))

	res, err := w.executor.Execute(ctx)
	if err != nil {
		slog.Error("settlement failed for chunk", "err", err)
		return settlement.Result{}, err
	}

	slog.Info("chunk settlement completed",
		"processed", res.ProcessedCount,
		"errors", res.ErrorCount)
	return res, nil
}
