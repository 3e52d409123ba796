package services

import (
	"context"

	"github.com/statement-sync/statement_sync_app/internal/dto"
)

// ImportSvc runs the normalization, deduplication and persistence pipeline
// for one batch of raw statement rows.
type ImportSvc interface {
	// ImportTransactions processes one import request for the given user and
	// returns the insertion/duplicate counts. Optional-capability failures
	// (entity mapping, categorization dispatch) surface as warnings, not
	// errors; only a total pipeline failure returns a non-nil error.
	ImportTransactions(ctx context.Context, userID string, req dto.ImportRequest) (*dto.ImportResponse, error)
}

// StatementReaderSvc exposes statement history to the API surface.
type StatementReaderSvc interface {
	ListStatements(ctx context.Context, userID string, limit int) ([]dto.AccountStatementResponse, error)
}
