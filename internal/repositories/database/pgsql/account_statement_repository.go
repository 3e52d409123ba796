package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/statement-sync/statement_sync_app/internal/apperrors"
	"github.com/statement-sync/statement_sync_app/internal/core/domain"
	portsrepo "github.com/statement-sync/statement_sync_app/internal/core/ports/repositories"
	"github.com/statement-sync/statement_sync_app/internal/models"
	"github.com/statement-sync/statement_sync_app/internal/utils/mapping"
)

const statementColumns = `statement_id, user_id, account_number, bank_code, ifsc, branch, account_holder_name, statement_start_date, statement_end_date, opening_balance, closing_balance, total_credits, total_debits, transaction_count, is_active, created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountStatementRepository struct {
	BaseRepository
}

// newPgxAccountStatementRepository creates a new repository for statements.
func newPgxAccountStatementRepository(pool *pgxpool.Pool) portsrepo.AccountStatementRepositoryFacade {
	return &PgxAccountStatementRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.AccountStatementRepositoryFacade = (*PgxAccountStatementRepository)(nil)

func scanStatement(row pgx.CollectableRow) (models.AccountStatement, error) {
	var m models.AccountStatement
	err := row.Scan(
		&m.StatementID,
		&m.UserID,
		&m.AccountNumber,
		&m.BankCode,
		&m.IFSC,
		&m.Branch,
		&m.AccountHolderName,
		&m.StatementStartDate,
		&m.StatementEndDate,
		&m.OpeningBalance,
		&m.ClosingBalance,
		&m.TotalCredits,
		&m.TotalDebits,
		&m.TransactionCount,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindLatestByAccount returns the most recent statement for the
// (user, account, bank) triple, or ErrNotFound.
func (r *PgxAccountStatementRepository) FindLatestByAccount(ctx context.Context, userID, accountNumber, bankCode string) (*domain.AccountStatement, error) {
	query := `
		SELECT ` + statementColumns + `
		FROM account_statements
		WHERE user_id = $1 AND account_number = $2 AND bank_code = $3
		ORDER BY statement_start_date DESC
		LIMIT 1;
	`
	rows, err := r.Pool.Query(ctx, query, userID, accountNumber, bankCode)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest statement for account %s: %w", accountNumber, err)
	}
	defer rows.Close()

	modelStmt, err := pgx.CollectOneRow(rows, scanStatement)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan latest statement: %w", err)
	}

	domainStmt := mapping.ToDomainAccountStatement(modelStmt)
	return &domainStmt, nil
}

// FindByAccountAndPeriod returns the statement for the (user, account, bank)
// triple starting on the given date, or ErrNotFound.
func (r *PgxAccountStatementRepository) FindByAccountAndPeriod(ctx context.Context, userID, accountNumber, bankCode string, statementStartDate time.Time) (*domain.AccountStatement, error) {
	query := `
		SELECT ` + statementColumns + `
		FROM account_statements
		WHERE user_id = $1 AND account_number = $2 AND bank_code = $3 AND statement_start_date = $4
		LIMIT 1;
	`
	rows, err := r.Pool.Query(ctx, query, userID, accountNumber, bankCode, statementStartDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query statement period for account %s: %w", accountNumber, err)
	}
	defer rows.Close()

	modelStmt, err := pgx.CollectOneRow(rows, scanStatement)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan statement period: %w", err)
	}

	domainStmt := mapping.ToDomainAccountStatement(modelStmt)
	return &domainStmt, nil
}

// ListByUser returns a user's statements, newest first.
func (r *PgxAccountStatementRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.AccountStatement, error) {
	query := `
		SELECT ` + statementColumns + `
		FROM account_statements
		WHERE user_id = $1
		ORDER BY statement_start_date DESC
		LIMIT $2;
	`
	rows, err := r.Pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query statements for user %s: %w", userID, err)
	}
	defer rows.Close()

	modelStmts, err := pgx.CollectRows(rows, scanStatement)
	if err != nil {
		return nil, fmt.Errorf("failed to scan statements: %w", err)
	}
	return mapping.ToDomainAccountStatementSlice(modelStmts), nil
}

// SaveStatement inserts the statement and demotes every other statement for
// the same (user, account, bank) to inactive within one transaction.
func (r *PgxAccountStatementRepository) SaveStatement(ctx context.Context, statement domain.AccountStatement) error {
	modelStmt := mapping.ToModelAccountStatement(statement)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	deactivateQuery := `
		UPDATE account_statements
		SET is_active = FALSE, last_updated_at = $4, last_updated_by = $5
		WHERE user_id = $1 AND account_number = $2 AND bank_code = $3 AND is_active = TRUE;
	`
	if _, err := tx.Exec(ctx, deactivateQuery,
		modelStmt.UserID,
		modelStmt.AccountNumber,
		modelStmt.BankCode,
		modelStmt.LastUpdatedAt,
		modelStmt.LastUpdatedBy,
	); err != nil {
		return apperrors.NewAppError(500, "failed to deactivate previous statements", err)
	}

	insertQuery := `
		INSERT INTO account_statements (` + statementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);
	`
	if _, err := tx.Exec(ctx, insertQuery,
		modelStmt.StatementID,
		modelStmt.UserID,
		modelStmt.AccountNumber,
		modelStmt.BankCode,
		modelStmt.IFSC,
		modelStmt.Branch,
		modelStmt.AccountHolderName,
		modelStmt.StatementStartDate,
		modelStmt.StatementEndDate,
		modelStmt.OpeningBalance,
		modelStmt.ClosingBalance,
		modelStmt.TotalCredits,
		modelStmt.TotalDebits,
		modelStmt.TransactionCount,
		modelStmt.IsActive,
		modelStmt.CreatedAt,
		modelStmt.CreatedBy,
		modelStmt.LastUpdatedAt,
		modelStmt.LastUpdatedBy,
	); err != nil {
		return apperrors.NewAppError(500, "failed to insert account statement", err)
	}

	return r.Commit(ctx, tx)
}
