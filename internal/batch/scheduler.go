package batch

import (
	"context"
	"errors"
	"log/slog"

	"settlement-batch-backend/internal/services/settlement"

	"github.com/robfig/cron/v3"
)

// Scheduler fires the two independent daily settlement triggers: one
// launches the chunked job, the other invokes the executor directly. Any
// error raised during dispatch is logged and swallowed so the next tick
// always fires.
type Scheduler struct {
	cron    *cron.Cron
	runner  *JobRunner
	service *settlement.Service
}

func NewScheduler(runner *JobRunner, service *settlement.Service) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger))),
		runner:  runner,
		service: service,
	}
}

// Start registers both cron entries and starts the timer loop.
func (s *Scheduler) Start(jobSpec, procedureSpec string) error {
	if _, err := s.cron.AddFunc(jobSpec, s.runJob); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(procedureSpec, s.runProcedure); err != nil {
		return err
	}
	s.cron.Start()
	slog.Info("settlement scheduler started", "job_cron", jobSpec, "procedure_cron", procedureSpec)
	return nil
}

// Stop halts the timer loop; a dispatch already running completes.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

func (s *Scheduler) runJob() {
	slog.Info("starting scheduled settlement job")
	exec, err := s.runner.Run(context.Background(), settlement.TriggerScheduled)
	if err != nil {
		if errors.Is(err, settlement.ErrRunInProgress) {
			slog.Warn("skipping scheduled settlement job", "reason", err)
			return
		}
		slog.Error("scheduled settlement job failed", "err", err)
		return
	}
	slog.Info("scheduled settlement job completed",
		"execution", exec.ID,
		"processed", exec.ProcessedCount,
		"errors", exec.ErrorCount)
}

func (s *Scheduler) runProcedure() {
	slog.Info("starting scheduled settlement procedure")
	history, err := s.service.ExecuteSettlement(context.Background(), settlement.TriggerScheduled)
	if err != nil {
		if errors.Is(err, settlement.ErrRunInProgress) {
			slog.Warn("skipping scheduled settlement procedure", "reason", err)
			return
		}
		slog.Error("scheduled settlement procedure failed", "err", err)
		return
	}
	slog.Info("scheduled settlement procedure completed",
		"processed", history.ProcessedCount,
		"errors", history.ErrorCount)
}
