package services

import (
	"context"

	"github.com/statement-sync/statement_sync_app/internal/dto"
)

// CategorizationSvc assigns spending/income categories to transactions using
// the multi-pass rule/pattern engine.
type CategorizationSvc interface {
	// CategorizeTransactions runs the full pass pipeline over the given
	// transaction IDs (or the user's uncategorized transactions when empty)
	// and persists changed assignments.
	CategorizeTransactions(ctx context.Context, userID string, transactionIDs []string, batchSize int) (*dto.CategorizationSummary, error)
}

// CategoryReaderSvc exposes category listing to the API surface.
type CategoryReaderSvc interface {
	ListCategories(ctx context.Context, userID string) ([]dto.CategoryResponse, error)
}
