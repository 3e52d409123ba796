package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/statement-sync/statement_sync_app/internal/apperrors"
	"github.com/statement-sync/statement_sync_app/internal/core/domain"
	portsrepo "github.com/statement-sync/statement_sync_app/internal/core/ports/repositories"
	"github.com/statement-sync/statement_sync_app/internal/models"
	"github.com/statement-sync/statement_sync_app/internal/utils/mapping"
)

const categoryColumns = `category_id, user_id, name, type, color, is_default, created_at, created_by, last_updated_at, last_updated_by`

type PgxCategoryRepository struct {
	BaseRepository
}

// newPgxCategoryRepository creates a new repository for categories.
func newPgxCategoryRepository(pool *pgxpool.Pool) portsrepo.CategoryRepositoryFacade {
	return &PgxCategoryRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.CategoryRepositoryFacade = (*PgxCategoryRepository)(nil)

func scanCategory(row pgx.CollectableRow) (models.Category, error) {
	var m models.Category
	err := row.Scan(
		&m.CategoryID,
		&m.UserID,
		&m.Name,
		&m.Type,
		&m.Color,
		&m.IsDefault,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// ListForUser returns the system default categories plus the user's own.
func (r *PgxCategoryRepository) ListForUser(ctx context.Context, userID string) ([]domain.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE user_id IS NULL OR user_id = $1
		ORDER BY name;
	`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories for user %s: %w", userID, err)
	}
	defer rows.Close()

	modelCategories, err := pgx.CollectRows(rows, scanCategory)
	if err != nil {
		return nil, fmt.Errorf("failed to scan categories: %w", err)
	}
	return mapping.ToDomainCategorySlice(modelCategories), nil
}

// FindByID retrieves one category visible to the user (own or default).
func (r *PgxCategoryRepository) FindByID(ctx context.Context, userID, categoryID string) (*domain.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE category_id = $1 AND (user_id IS NULL OR user_id = $2);
	`
	rows, err := r.Pool.Query(ctx, query, categoryID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query category %s: %w", categoryID, err)
	}
	defer rows.Close()

	modelCategory, err := pgx.CollectOneRow(rows, scanCategory)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan category: %w", err)
	}

	domainCategory := mapping.ToDomainCategory(modelCategory)
	return &domainCategory, nil
}

// SaveCategory persists a new user-owned category.
func (r *PgxCategoryRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	modelCategory := mapping.ToModelCategory(category)

	query := `
		INSERT INTO categories (` + categoryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelCategory.CategoryID,
		modelCategory.UserID,
		modelCategory.Name,
		modelCategory.Type,
		modelCategory.Color,
		modelCategory.IsDefault,
		modelCategory.CreatedAt,
		modelCategory.CreatedBy,
		modelCategory.LastUpdatedAt,
		modelCategory.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save category %s: %w", modelCategory.Name, err)
	}
	return nil
}
