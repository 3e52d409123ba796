package repositories

import (
	"context"
	"time"

	"github.com/statement-sync/statement_sync_app/internal/core/domain"
)

// AccountStatementReader defines read operations for account statements
type AccountStatementReader interface {
	// FindLatestByAccount returns the most recent statement (by start date)
	// for the (user, account, bank) triple, or ErrNotFound.
	FindLatestByAccount(ctx context.Context, userID, accountNumber, bankCode string) (*domain.AccountStatement, error)

	// FindByAccountAndPeriod returns the statement for the
	// (user, account, bank) triple starting on the given date, or ErrNotFound.
	FindByAccountAndPeriod(ctx context.Context, userID, accountNumber, bankCode string, statementStartDate time.Time) (*domain.AccountStatement, error)

	// ListByUser returns a user's statements, newest first.
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.AccountStatement, error)
}

// AccountStatementWriter defines write operations for account statements
type AccountStatementWriter interface {
	// SaveStatement inserts the statement and demotes every other statement
	// for the same (user, account, bank) to inactive, atomically.
	SaveStatement(ctx context.Context, statement domain.AccountStatement) error
}

// AccountStatementRepositoryFacade combines statement repository interfaces
type AccountStatementRepositoryFacade interface {
	AccountStatementReader
	AccountStatementWriter
}
