package jobs

import (
	"context"
	"time"
)

// JobStatus represents the current status of a job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// CategorizeTransactionsJob asks the categorization engine to process a set
// of freshly imported transactions. The import response never waits on it.
type CategorizeTransactionsJob struct {
	JobID          string     `json:"job_id"`
	UserID         string     `json:"user_id"`
	TransactionIDs []string   `json:"transaction_ids"`
	BatchSize      int        `json:"batch_size"`
	Status         JobStatus  `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	Error          string     `json:"error,omitempty"`
}

// Publisher defines the interface for handing jobs to a queue.
// The abstraction allows swapping the in-memory queue for an external broker
// without touching the import pipeline.
type Publisher interface {
	// PublishCategorize enqueues a categorization job.
	PublishCategorize(ctx context.Context, job *CategorizeTransactionsJob) error

	// Close closes the publisher and releases resources.
	Close() error
}

// Consumer defines the interface for consuming jobs from a queue.
type Consumer interface {
	// Start begins consuming jobs; handler is called for each job received.
	Start(ctx context.Context, handler JobHandler) error

	// Stop stops consuming and waits for in-flight jobs to complete.
	Stop(ctx context.Context) error
}

// JobHandler processes one job. A returned error marks the job failed; there
// is no automatic retry, a manual categorization re-run is the remediation.
type JobHandler func(ctx context.Context, job *CategorizeTransactionsJob) error

// JobStore tracks job status so the categorization stage has an observable
// completion state instead of a fire-and-forget call.
type JobStore interface {
	// SaveJob saves or updates a job's state.
	SaveJob(ctx context.Context, job *CategorizeTransactionsJob) error

	// GetJob retrieves a job by ID.
	GetJob(ctx context.Context, jobID string) (*CategorizeTransactionsJob, error)
}
