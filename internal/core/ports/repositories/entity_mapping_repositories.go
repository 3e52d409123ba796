package repositories

import (
	"context"

	"github.com/statement-sync/statement_sync_app/internal/core/domain"
)

// EntityMappingReader is the read-only view of the external mapping store.
// The import pipeline never writes mappings.
type EntityMappingReader interface {
	// FindMappingsByUserAndType returns the user's canonicalization table for
	// one entity type, keyed by lower-cased source spelling.
	FindMappingsByUserAndType(ctx context.Context, userID string, entityType domain.EntityType) (map[string]string, error)
}
