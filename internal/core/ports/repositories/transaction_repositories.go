package repositories

import (
	"context"
	"time"

	"github.com/statement-sync/statement_sync_app/internal/core/domain"
)

// TransactionReader defines read operations for ledger transactions
type TransactionReader interface {
	// CountByUser returns the number of non-deleted transactions for a user.
	CountByUser(ctx context.Context, userID string) (int, error)

	// FindByUserInDateRange retrieves a user's non-deleted transactions whose
	// date falls within [from, to] inclusive.
	FindByUserInDateRange(ctx context.Context, userID string, from, to time.Time) ([]domain.Transaction, error)

	// FindByIDs retrieves a user's non-deleted transactions by ID.
	FindByIDs(ctx context.Context, userID string, transactionIDs []string) ([]domain.Transaction, error)

	// FindUncategorized retrieves up to limit non-deleted transactions of the
	// user that have no category assigned yet.
	FindUncategorized(ctx context.Context, userID string, limit int) ([]domain.Transaction, error)
}

// TransactionWriter defines write operations for ledger transactions
type TransactionWriter interface {
	// BulkInsert writes one batch with a single multi-row statement using
	// insert-or-ignore semantics and returns the IDs actually inserted. Rows
	// colliding with the duplicate-identity index are silently skipped.
	BulkInsert(ctx context.Context, transactions []domain.Transaction) ([]string, error)

	// InsertRowByRow is the fallback write path: each row is attempted
	// individually with the same insert-or-ignore semantics, so one bad row
	// cannot reject the rest of the batch.
	InsertRowByRow(ctx context.Context, transactions []domain.Transaction) ([]string, error)

	// UpdateCategories sets category_id on the given transactions in one
	// batch round trip, returning how many rows changed.
	UpdateCategories(ctx context.Context, userID string, assignments map[string]*string, updatedBy string, now time.Time) (int, error)
}

// TransactionRepositoryFacade combines all transaction repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
