package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/statement-sync/statement_sync_app/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	transactionRepo := newPgxTransactionRepository(dbPool)
	statementRepo := newPgxAccountStatementRepository(dbPool)
	categoryRepo := newPgxCategoryRepository(dbPool)
	entityMappingRepo := newPgxEntityMappingRepository(dbPool)

	return portsrepo.RepositoryProvider{
		TransactionRepo:   transactionRepo,
		StatementRepo:     statementRepo,
		CategoryRepo:      categoryRepo,
		EntityMappingRepo: entityMappingRepo,
	}
}
