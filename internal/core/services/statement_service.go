package services

import (
	"context"

	portsrepo "github.com/statement-sync/statement_sync_app/internal/core/ports/repositories"
	portssvc "github.com/statement-sync/statement_sync_app/internal/core/ports/services"
	"github.com/statement-sync/statement_sync_app/internal/dto"
)

const defaultStatementListLimit = 50

// statementService exposes statement history reads.
type statementService struct {
	BaseService
	statementRepo portsrepo.AccountStatementRepositoryFacade
}

// NewStatementService creates the statement read service.
func NewStatementService(statementRepo portsrepo.AccountStatementRepositoryFacade) portssvc.StatementReaderSvc {
	return &statementService{statementRepo: statementRepo}
}

func (s *statementService) ListStatements(ctx context.Context, userID string, limit int) ([]dto.AccountStatementResponse, error) {
	if limit <= 0 {
		limit = defaultStatementListLimit
	}
	statements, err := s.statementRepo.ListByUser(ctx, userID, limit)
	if err != nil {
		s.LogError(ctx, err, "Failed to list account statements")
		return nil, err
	}
	res := make([]dto.AccountStatementResponse, len(statements))
	for i := range statements {
		res[i] = dto.ToAccountStatementResponse(&statements[i])
	}
	return res, nil
}
