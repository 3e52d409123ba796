package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/statement-sync/statement_sync_app/internal/apperrors"
	"github.com/statement-sync/statement_sync_app/internal/core/domain"
	portsrepo "github.com/statement-sync/statement_sync_app/internal/core/ports/repositories"
	"github.com/statement-sync/statement_sync_app/internal/models"
	"github.com/statement-sync/statement_sync_app/internal/utils/mapping"
)

const transactionColumns = `transaction_id, user_id, transaction_date, description, credit_amount, debit_amount, financial_category, category_id, bank_code, bank_transaction_id, account_number, store, person_name, upi_id, branch, transfer_type, balance, raw_data, is_partial_data, has_invalid_date, has_zero_amount, is_deleted, account_statement_id, created_at, created_by, last_updated_at, last_updated_by`

const transactionColumnCount = 27

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for ledger transactions.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

func transactionArgs(m models.Transaction) []any {
	return []any{
		m.TransactionID,
		m.UserID,
		m.TransactionDate,
		m.Description,
		m.CreditAmount,
		m.DebitAmount,
		m.FinancialCategory,
		m.CategoryID,
		m.BankCode,
		m.BankTransactionID,
		m.AccountNumber,
		m.Store,
		m.PersonName,
		m.UPIID,
		m.Branch,
		m.TransferType,
		m.Balance,
		m.RawData,
		m.IsPartialData,
		m.HasInvalidDate,
		m.HasZeroAmount,
		m.IsDeleted,
		m.AccountStatementID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	}
}

func scanTransaction(row pgx.CollectableRow) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.UserID,
		&m.TransactionDate,
		&m.Description,
		&m.CreditAmount,
		&m.DebitAmount,
		&m.FinancialCategory,
		&m.CategoryID,
		&m.BankCode,
		&m.BankTransactionID,
		&m.AccountNumber,
		&m.Store,
		&m.PersonName,
		&m.UPIID,
		&m.Branch,
		&m.TransferType,
		&m.Balance,
		&m.RawData,
		&m.IsPartialData,
		&m.HasInvalidDate,
		&m.HasZeroAmount,
		&m.IsDeleted,
		&m.AccountStatementID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// BulkInsert writes the batch with one parameterized multi-row statement.
// Rows colliding with the duplicate-identity index are skipped by the
// ON CONFLICT guard; only the surviving IDs come back.
func (r *PgxTransactionRepository) BulkInsert(ctx context.Context, transactions []domain.Transaction) ([]string, error) {
	if len(transactions) == 0 {
		return nil, nil
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO transactions (")
	sb.WriteString(transactionColumns)
	sb.WriteString(") VALUES ")

	args := make([]any, 0, len(transactions)*transactionColumnCount)
	for i, d := range transactions {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		base := i * transactionColumnCount
		for c := 0; c < transactionColumnCount; c++ {
			if c > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "$%d", base+c+1)
		}
		sb.WriteString(")")
		args = append(args, transactionArgs(mapping.ToModelTransaction(d))...)
	}
	sb.WriteString(" ON CONFLICT DO NOTHING RETURNING transaction_id;")

	rows, err := r.Pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to bulk insert %d transactions: %w", len(transactions), err)
	}
	defer rows.Close()

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to collect inserted transaction ids: %w", err)
	}
	return ids, nil
}

// InsertRowByRow attempts each row individually with the same
// insert-or-ignore semantics, so one rejected row cannot sink the batch.
func (r *PgxTransactionRepository) InsertRowByRow(ctx context.Context, transactions []domain.Transaction) ([]string, error) {
	var sb strings.Builder
	sb.WriteString("INSERT INTO transactions (")
	sb.WriteString(transactionColumns)
	sb.WriteString(") VALUES (")
	for c := 0; c < transactionColumnCount; c++ {
		if c > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "$%d", c+1)
	}
	sb.WriteString(") ON CONFLICT DO NOTHING RETURNING transaction_id;")
	query := sb.String()

	ids := make([]string, 0, len(transactions))
	var firstErr error
	for _, d := range transactions {
		var id string
		err := r.Pool.QueryRow(ctx, query, transactionArgs(mapping.ToModelTransaction(d))...).Scan(&id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				continue // conflict, row already exists
			}
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 && firstErr != nil {
		return nil, fmt.Errorf("failed to insert transactions row by row: %w", firstErr)
	}
	return ids, nil
}

// UpdateCategories applies category assignments in one batch round trip.
func (r *PgxTransactionRepository) UpdateCategories(ctx context.Context, userID string, assignments map[string]*string, updatedBy string, now time.Time) (int, error) {
	if len(assignments) == 0 {
		return 0, nil
	}

	query := `
		UPDATE transactions
		SET category_id = $1, last_updated_at = $2, last_updated_by = $3
		WHERE transaction_id = $4 AND user_id = $5 AND is_deleted = FALSE;
	`
	batch := &pgx.Batch{}
	for transactionID, categoryID := range assignments {
		batch.Queue(query, categoryID, now, updatedBy, transactionID, userID)
	}

	br := r.Pool.SendBatch(ctx, batch)
	updated := 0
	for range assignments {
		tag, err := br.Exec()
		if err != nil {
			br.Close()
			return updated, apperrors.NewAppError(500, "failed to update transaction categories", err)
		}
		updated += int(tag.RowsAffected())
	}
	if err := br.Close(); err != nil {
		return updated, apperrors.NewAppError(500, "failed to close category update batch", err)
	}
	return updated, nil
}

// CountByUser returns the number of non-deleted transactions for a user.
func (r *PgxTransactionRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	query := `SELECT COUNT(*) FROM transactions WHERE user_id = $1 AND is_deleted = FALSE;`
	var count int
	if err := r.Pool.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count transactions for user %s: %w", userID, err)
	}
	return count, nil
}

// FindByUserInDateRange retrieves a user's transactions within [from, to].
func (r *PgxTransactionRepository) FindByUserInDateRange(ctx context.Context, userID string, from, to time.Time) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1 AND is_deleted = FALSE AND transaction_date BETWEEN $2 AND $3
		ORDER BY transaction_date;
	`
	rows, err := r.Pool.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions in date range: %w", err)
	}
	defer rows.Close()

	modelTxns, err := pgx.CollectRows(rows, scanTransaction)
	if err != nil {
		return nil, fmt.Errorf("failed to scan transactions: %w", err)
	}
	return mapping.ToDomainTransactionSlice(modelTxns), nil
}

// FindByIDs retrieves a user's transactions by ID.
func (r *PgxTransactionRepository) FindByIDs(ctx context.Context, userID string, transactionIDs []string) ([]domain.Transaction, error) {
	if len(transactionIDs) == 0 {
		return []domain.Transaction{}, nil
	}
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1 AND is_deleted = FALSE AND transaction_id = ANY($2)
		ORDER BY transaction_date;
	`
	rows, err := r.Pool.Query(ctx, query, userID, transactionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions by ids: %w", err)
	}
	defer rows.Close()

	modelTxns, err := pgx.CollectRows(rows, scanTransaction)
	if err != nil {
		return nil, fmt.Errorf("failed to scan transactions: %w", err)
	}
	return mapping.ToDomainTransactionSlice(modelTxns), nil
}

// FindUncategorized retrieves up to limit transactions without a category.
func (r *PgxTransactionRepository) FindUncategorized(ctx context.Context, userID string, limit int) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1 AND is_deleted = FALSE AND category_id IS NULL
		ORDER BY transaction_date DESC
		LIMIT $2;
	`
	rows, err := r.Pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query uncategorized transactions: %w", err)
	}
	defer rows.Close()

	modelTxns, err := pgx.CollectRows(rows, scanTransaction)
	if err != nil {
		return nil, fmt.Errorf("failed to scan transactions: %w", err)
	}
	return mapping.ToDomainTransactionSlice(modelTxns), nil
}
