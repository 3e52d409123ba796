package pgsql

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/statement-sync/statement_sync_app/internal/core/domain"
	portsrepo "github.com/statement-sync/statement_sync_app/internal/core/ports/repositories"
)

type PgxEntityMappingRepository struct {
	BaseRepository
}

// newPgxEntityMappingRepository creates a read-only repository for the
// entity canonicalization table.
func newPgxEntityMappingRepository(pool *pgxpool.Pool) portsrepo.EntityMappingReader {
	return &PgxEntityMappingRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.EntityMappingReader = (*PgxEntityMappingRepository)(nil)

// FindMappingsByUserAndType returns the user's canonicalization table for one
// entity type, keyed by lower-cased source spelling.
func (r *PgxEntityMappingRepository) FindMappingsByUserAndType(ctx context.Context, userID string, entityType domain.EntityType) (map[string]string, error) {
	query := `
		SELECT source_name, canonical_name
		FROM entity_mappings
		WHERE user_id = $1 AND entity_type = $2;
	`
	rows, err := r.Pool.Query(ctx, query, userID, string(entityType))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s mappings for user %s: %w", entityType, userID, err)
	}
	defer rows.Close()

	mappings := make(map[string]string)
	for rows.Next() {
		var sourceName, canonicalName string
		if err := rows.Scan(&sourceName, &canonicalName); err != nil {
			return nil, fmt.Errorf("failed to scan entity mapping: %w", err)
		}
		mappings[strings.ToLower(strings.TrimSpace(sourceName))] = canonicalName
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read entity mappings: %w", err)
	}
	return mappings, nil
}
