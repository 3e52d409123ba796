package inmemory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statement-sync/statement_sync_app/internal/apperrors"
	"github.com/statement-sync/statement_sync_app/internal/jobs"
)

func waitForStatus(t *testing.T, store jobs.JobStore, jobID string, want jobs.JobStatus) *jobs.CategorizeTransactionsJob {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		job, err := store.GetJob(context.Background(), jobID)
		if err == nil && job.Status == want {
			return job
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job %s never reached status %s", jobID, want)
	return nil
}

func TestQueue_PublishAndProcess(t *testing.T) {
	store := NewStore()
	q := NewQueue(4, 1, store)
	defer q.Close()

	var mu sync.Mutex
	var handled []string
	err := q.Start(context.Background(), func(_ context.Context, job *jobs.CategorizeTransactionsJob) error {
		mu.Lock()
		handled = append(handled, job.JobID)
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)

	job := &jobs.CategorizeTransactionsJob{UserID: "user-1", TransactionIDs: []string{"t1", "t2"}, BatchSize: 100}
	require.NoError(t, q.PublishCategorize(context.Background(), job))
	assert.NotEmpty(t, job.JobID)
	assert.False(t, job.CreatedAt.IsZero())

	done := waitForStatus(t, store, job.JobID, jobs.JobStatusCompleted)
	assert.NotNil(t, done.StartedAt)
	assert.NotNil(t, done.CompletedAt)
	assert.Empty(t, done.Error)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{job.JobID}, handled)
}

func TestQueue_HandlerErrorMarksFailed(t *testing.T) {
	store := NewStore()
	q := NewQueue(4, 1, store)
	defer q.Close()

	err := q.Start(context.Background(), func(_ context.Context, _ *jobs.CategorizeTransactionsJob) error {
		return errors.New("categorization blew up")
	})
	require.NoError(t, err)

	job := &jobs.CategorizeTransactionsJob{UserID: "user-1", TransactionIDs: []string{"t1"}}
	require.NoError(t, q.PublishCategorize(context.Background(), job))

	failed := waitForStatus(t, store, job.JobID, jobs.JobStatusFailed)
	assert.Equal(t, "categorization blew up", failed.Error)
	assert.NotNil(t, failed.CompletedAt)
}

func TestQueue_PublishAfterStopFails(t *testing.T) {
	q := NewQueue(1, 1, NewStore())
	require.NoError(t, q.Stop(context.Background()))

	err := q.PublishCategorize(context.Background(), &jobs.CategorizeTransactionsJob{UserID: "user-1"})
	assert.Error(t, err)
}

func TestQueue_StopIsIdempotent(t *testing.T) {
	q := NewQueue(1, 2, NewStore())
	require.NoError(t, q.Start(context.Background(), func(_ context.Context, _ *jobs.CategorizeTransactionsJob) error {
		return nil
	}))

	require.NoError(t, q.Stop(context.Background()))
	require.NoError(t, q.Stop(context.Background()))
}

func TestStore_GetMissingJob(t *testing.T) {
	store := NewStore()
	_, err := store.GetJob(context.Background(), "nope")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestStore_SaveIsCopyOnWrite(t *testing.T) {
	store := NewStore()
	job := &jobs.CategorizeTransactionsJob{JobID: "j1", UserID: "user-1", Status: jobs.JobStatusPending}
	require.NoError(t, store.SaveJob(context.Background(), job))

	// Mutating the caller's struct after save must not leak into the store.
	job.Status = jobs.JobStatusFailed
	saved, err := store.GetJob(context.Background(), "j1")
	require.NoError(t, err)
	assert.Equal(t, jobs.JobStatusPending, saved.Status)
}
