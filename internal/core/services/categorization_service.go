package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/statement-sync/statement_sync_app/internal/core/domain"
	portsrepo "github.com/statement-sync/statement_sync_app/internal/core/ports/repositories"
	portssvc "github.com/statement-sync/statement_sync_app/internal/core/ports/services"
	"github.com/statement-sync/statement_sync_app/internal/dto"
)

// categorizationService runs the multi-pass categorization engine over one
// batch of transactions and persists the changed assignments.
type categorizationService struct {
	BaseService
	txnRepo          portsrepo.TransactionRepositoryFacade
	categoryRepo     portsrepo.CategoryRepositoryFacade
	defaultBatchSize int
}

// NewCategorizationService creates the categorization engine service.
func NewCategorizationService(txnRepo portsrepo.TransactionRepositoryFacade, categoryRepo portsrepo.CategoryRepositoryFacade, defaultBatchSize int) portssvc.CategorizationSvc {
	if defaultBatchSize <= 0 {
		defaultBatchSize = 100
	}
	return &categorizationService{
		txnRepo:          txnRepo,
		categoryRepo:     categoryRepo,
		defaultBatchSize: defaultBatchSize,
	}
}

var _ portssvc.CategorizationSvc = (*categorizationService)(nil)

// CategorizeTransactions fetches the target transactions, runs the pass
// pipeline and writes back changed category assignments. A persistence error
// returns the partial summary alongside the error.
func (s *categorizationService) CategorizeTransactions(ctx context.Context, userID string, transactionIDs []string, batchSize int) (*dto.CategorizationSummary, error) {
	if batchSize <= 0 {
		batchSize = s.defaultBatchSize
	}

	var transactions []domain.Transaction
	var err error
	if len(transactionIDs) > 0 {
		transactions, err = s.txnRepo.FindByIDs(ctx, userID, transactionIDs)
	} else {
		transactions, err = s.txnRepo.FindUncategorized(ctx, userID, batchSize)
	}
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch transactions for categorization")
		return nil, err
	}

	summary := &dto.CategorizationSummary{}
	if len(transactions) == 0 {
		return summary, nil
	}

	results := make([]domain.CategorizationResult, len(transactions))
	for i, t := range transactions {
		results[i] = classifyInitial(t)
	}

	var fixes int
	results, fixes = consistencyPass(transactions, results)
	summary.ConsistencyFixes += fixes
	results, fixes = integrityPass(transactions, results)
	summary.IntegrityFixes += fixes

	results = reanalyzePass(transactions, results)

	results, fixes = consistencyPass(transactions, results)
	summary.ConsistencyFixes += fixes
	results, fixes = integrityPass(transactions, results)
	summary.IntegrityFixes += fixes

	results = confidenceBoostPass(transactions, results)

	for _, r := range results {
		if r.Categorized() {
			summary.Categorized++
		}
	}

	updated, err := s.persistResults(ctx, userID, transactions, results, batchSize)
	summary.Updated = updated
	if err != nil {
		s.LogError(ctx, err, "Failed to persist categorization results",
			slog.Int("categorized", summary.Categorized), slog.Int("updated", updated))
		return summary, err
	}

	s.LogInfo(ctx, "Categorization run completed",
		slog.Int("transactions", len(transactions)),
		slog.Int("categorized", summary.Categorized),
		slog.Int("updated", summary.Updated),
		slog.Int("consistency_fixes", summary.ConsistencyFixes),
		slog.Int("integrity_fixes", summary.IntegrityFixes))
	return summary, nil
}

// persistResults resolves category names to IDs and updates only the rows
// whose stored assignment actually changed, in fixed-size batches.
func (s *categorizationService) persistResults(ctx context.Context, userID string, transactions []domain.Transaction, results []domain.CategorizationResult, batchSize int) (int, error) {
	categories, err := s.categoryRepo.ListForUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	nameToID := make(map[string]string, len(categories))
	for _, c := range categories {
		nameToID[strings.ToLower(c.Name)] = c.CategoryID
	}

	assignments := make(map[string]*string)
	order := make([]string, 0, len(results))
	for i, r := range results {
		if !r.Categorized() {
			continue
		}
		categoryID := r.CategoryID
		if categoryID == nil {
			resolved, ok := nameToID[strings.ToLower(r.CategoryName)]
			if !ok {
				s.LogWarn(ctx, "Categorization produced an unknown category name, skipping",
					slog.String("category", r.CategoryName))
				continue
			}
			categoryID = &resolved
		}
		current := transactions[i].CategoryID
		if current != nil && *current == *categoryID {
			continue
		}
		assignments[r.TransactionID] = categoryID
		order = append(order, r.TransactionID)
	}
	if len(assignments) == 0 {
		return 0, nil
	}

	now := time.Now()
	updated := 0
	for start := 0; start < len(order); start += batchSize {
		end := start + batchSize
		if end > len(order) {
			end = len(order)
		}
		chunk := make(map[string]*string, end-start)
		for _, id := range order[start:end] {
			chunk[id] = assignments[id]
		}
		n, err := s.txnRepo.UpdateCategories(ctx, userID, chunk, userID, now)
		if err != nil {
			return updated, err
		}
		updated += n
	}
	return updated, nil
}

// categoryService exposes category listing.
type categoryService struct {
	BaseService
	categoryRepo portsrepo.CategoryRepositoryFacade
}

// NewCategoryService creates the category read service.
func NewCategoryService(categoryRepo portsrepo.CategoryRepositoryFacade) portssvc.CategoryReaderSvc {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) ListCategories(ctx context.Context, userID string) ([]dto.CategoryResponse, error) {
	categories, err := s.categoryRepo.ListForUser(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list categories")
		return nil, err
	}
	return dto.ToListCategoryResponse(categories), nil
}
