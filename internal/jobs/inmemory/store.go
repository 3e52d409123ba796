package inmemory

import (
	"context"
	"sync"

	"github.com/statement-sync/statement_sync_app/internal/apperrors"
	"github.com/statement-sync/statement_sync_app/internal/jobs"
)

// Store is an in-memory job status store, safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	jobs map[string]jobs.CategorizeTransactionsJob
}

// NewStore creates an empty job store.
func NewStore() *Store {
	return &Store{jobs: make(map[string]jobs.CategorizeTransactionsJob)}
}

// SaveJob saves or updates a job's state.
func (s *Store) SaveJob(_ context.Context, job *jobs.CategorizeTransactionsJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.JobID] = *job
	return nil
}

// GetJob retrieves a job by ID.
func (s *Store) GetJob(_ context.Context, jobID string) (*jobs.CategorizeTransactionsJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &job, nil
}

var _ jobs.JobStore = (*Store)(nil)
