package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// RepositoryProvider bundles the concrete repositories handed to the
// service layer at startup.
type RepositoryProvider struct {
	TransactionRepo   TransactionRepositoryFacade
	StatementRepo     AccountStatementRepositoryFacade
	CategoryRepo      CategoryRepositoryFacade
	EntityMappingRepo EntityMappingReader
}

// TransactionManager defines operations for managing database transactions
type TransactionManager interface {
	// Begin starts a new database transaction
	Begin(ctx context.Context) (pgx.Tx, error)

	// Commit commits a transaction
	Commit(ctx context.Context, tx pgx.Tx) error

	// Rollback rolls back a transaction
	Rollback(ctx context.Context, tx pgx.Tx) error
}
