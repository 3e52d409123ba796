package repositories

import (
	"context"

	"github.com/statement-sync/statement_sync_app/internal/core/domain"
)

// CategoryReader defines read operations for categories
type CategoryReader interface {
	// ListForUser returns the system default categories plus the user's own.
	ListForUser(ctx context.Context, userID string) ([]domain.Category, error)

	// FindByID retrieves one category visible to the user (own or default).
	FindByID(ctx context.Context, userID, categoryID string) (*domain.Category, error)
}

// CategoryWriter defines write operations for categories
type CategoryWriter interface {
	// SaveCategory persists a new user-owned category.
	SaveCategory(ctx context.Context, category domain.Category) error
}

// CategoryRepositoryFacade combines category repository interfaces
type CategoryRepositoryFacade interface {
	CategoryReader
	CategoryWriter
}
