package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type JobStatus string

const (
	JobCreated       JobStatus = "CREATED"
	JobStarted       JobStatus = "STARTED"
	JobStepStarted   JobStatus = "STEP_STARTED"
	JobStepCompleted JobStatus = "STEP_COMPLETED"
	JobCompleted     JobStatus = "COMPLETED"
	JobFailed        JobStatus = "FAILED"
)

// JobExecution tracks one launch of a batch job through its state machine:
// CREATED -> STARTED -> STEP_STARTED -> STEP_COMPLETED -> COMPLETED | FAILED.
type JobExecution struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	JobName        string    `gorm:"size:100;not null;index"`
	Status         JobStatus `gorm:"size:20;not null;index"`
	Parameters     datatypes.JSON
	ProcessedCount int
	ErrorCount     int
	ExitMessage    string `gorm:"size:500"`
	StartedAt      time.Time
	CompletedAt    *time.Time
	CreatedAt      time.Time
}
