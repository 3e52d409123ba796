package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/statement-sync/statement_sync_app/internal/apperrors"
	"github.com/statement-sync/statement_sync_app/internal/core/domain"
	portsrepo "github.com/statement-sync/statement_sync_app/internal/core/ports/repositories"
	portssvc "github.com/statement-sync/statement_sync_app/internal/core/ports/services"
	"github.com/statement-sync/statement_sync_app/internal/dto"
	"github.com/statement-sync/statement_sync_app/internal/jobs"
)

// ImportConfig tunes the persistence and categorization-dispatch behavior.
type ImportConfig struct {
	// MaxBatchesInFlight bounds concurrent persistence batches.
	MaxBatchesInFlight int
	// BackgroundCategorizeAt routes categorization to the job queue when the
	// accepted batch exceeds this count.
	BackgroundCategorizeAt int
	// CategorizeBatchSize is handed to the categorization engine.
	CategorizeBatchSize int
}

func (c ImportConfig) withDefaults() ImportConfig {
	if c.MaxBatchesInFlight <= 0 {
		c.MaxBatchesInFlight = 4
	}
	if c.BackgroundCategorizeAt <= 0 {
		c.BackgroundCategorizeAt = 50
	}
	if c.CategorizeBatchSize <= 0 {
		c.CategorizeBatchSize = 100
	}
	return c
}

// importService runs the import pipeline: normalize, canonicalize entities,
// validate statement metadata, dedup, persist, dispatch categorization.
type importService struct {
	BaseService
	txnRepo           portsrepo.TransactionRepositoryFacade
	statementRepo     portsrepo.AccountStatementRepositoryFacade
	mappingRepo       portsrepo.EntityMappingReader
	categorizationSvc portssvc.CategorizationSvc
	publisher         jobs.Publisher
	validator         *statementValidator
	cfg               ImportConfig
}

// NewImportService creates the import pipeline service.
func NewImportService(
	txnRepo portsrepo.TransactionRepositoryFacade,
	statementRepo portsrepo.AccountStatementRepositoryFacade,
	mappingRepo portsrepo.EntityMappingReader,
	categorizationSvc portssvc.CategorizationSvc,
	publisher jobs.Publisher,
	cfg ImportConfig,
) portssvc.ImportSvc {
	return &importService{
		txnRepo:           txnRepo,
		statementRepo:     statementRepo,
		mappingRepo:       mappingRepo,
		categorizationSvc: categorizationSvc,
		publisher:         publisher,
		validator:         newStatementValidator(statementRepo),
		cfg:               cfg.withDefaults(),
	}
}

var _ portssvc.ImportSvc = (*importService)(nil)

// ImportTransactions processes one import request. Optional capabilities
// (entity mapping, categorization dispatch) degrade to warnings; only a
// storage failure on the core read path returns an error.
func (s *importService) ImportTransactions(ctx context.Context, userID string, req dto.ImportRequest) (*dto.ImportResponse, error) {
	now := time.Now()
	resp := &dto.ImportResponse{}

	// 1. Normalize dates, amounts and descriptions.
	var statementStart *time.Time
	if req.Metadata != nil {
		if start, ok := parseDate(req.Metadata.StatementStartDate); ok {
			statementStart = &start
		}
	}
	outcome := newNormalizer(userID, statementStart, now).normalizeBatch(req.Records)
	resp.Skipped = outcome.dropped
	if outcome.dropped > 0 {
		resp.Warnings = append(resp.Warnings, fmt.Sprintf("%d records dropped: no usable date", outcome.dropped))
	}
	if outcome.invalidDates > 0 {
		resp.Warnings = append(resp.Warnings, fmt.Sprintf("%d records stored with a fallback date", outcome.invalidDates))
	}
	transactions := outcome.transactions

	// 2. Canonicalize store/person names. Mapping store failures must not
	// abort the import.
	transactions = s.canonicalizeEntities(ctx, userID, transactions, resp)

	// 3. Statement metadata validation and statement creation.
	if req.Metadata != nil {
		s.handleStatement(ctx, userID, &req, transactions, now, resp)
	}

	// 4. Dedup within the batch, then against storage.
	transactions, inBatchDupes := dedupInBatch(transactions)
	resp.Duplicates += inBatchDupes

	if !req.ForceInsert && len(transactions) > 0 {
		deduped, storageDupes, err := s.dedupAgainstStorage(ctx, userID, transactions)
		if err != nil {
			return nil, err
		}
		transactions = deduped
		resp.Duplicates += storageDupes
	}

	// 5. Persist in concurrent batches.
	insertedIDs := s.persistBatches(ctx, transactions)
	resp.Inserted = len(insertedIDs)
	// Storage-level conflicts not caught by the in-memory pass still count
	// as duplicates.
	resp.Duplicates += len(transactions) - len(insertedIDs)

	insertedSet := make(map[string]struct{}, len(insertedIDs))
	for _, id := range insertedIDs {
		insertedSet[id] = struct{}{}
	}
	for _, t := range transactions {
		if _, ok := insertedSet[t.TransactionID]; !ok {
			continue
		}
		if t.CreditAmount.IsPositive() {
			resp.CreditInserted++
		}
		if t.DebitAmount.IsPositive() {
			resp.DebitInserted++
		}
		switch t.FinancialCategory {
		case domain.FinancialIncome:
			resp.IncomeInserted++
		case domain.FinancialExpense:
			resp.ExpenseInserted++
		}
	}

	// 6. Hand the new rows to the categorization engine.
	s.dispatchCategorization(ctx, userID, req, insertedIDs, resp)

	s.LogInfo(ctx, "Import completed",
		slog.Int("received", len(req.Records)),
		slog.Int("inserted", resp.Inserted),
		slog.Int("duplicates", resp.Duplicates),
		slog.Int("skipped", resp.Skipped))
	return resp, nil
}

// canonicalizeEntities replaces free-text store/person names with the user's
// canonical spellings, one lookup round trip per entity type.
func (s *importService) canonicalizeEntities(ctx context.Context, userID string, transactions []domain.Transaction, resp *dto.ImportResponse) []domain.Transaction {
	hasStore := false
	hasPerson := false
	for _, t := range transactions {
		if t.Store != "" {
			hasStore = true
		}
		if t.PersonName != "" {
			hasPerson = true
		}
	}

	var storeMap, personMap map[string]string
	var err error
	if hasStore {
		storeMap, err = s.mappingRepo.FindMappingsByUserAndType(ctx, userID, domain.EntityTypeStore)
		if err != nil {
			s.LogWarn(ctx, "Store mapping lookup failed, continuing with original names", slog.String("error", err.Error()))
			resp.Warnings = append(resp.Warnings, "store name canonicalization unavailable")
			storeMap = nil
		}
	}
	if hasPerson {
		personMap, err = s.mappingRepo.FindMappingsByUserAndType(ctx, userID, domain.EntityTypePerson)
		if err != nil {
			s.LogWarn(ctx, "Person mapping lookup failed, continuing with original names", slog.String("error", err.Error()))
			resp.Warnings = append(resp.Warnings, "person name canonicalization unavailable")
			personMap = nil
		}
	}

	if storeMap == nil && personMap == nil {
		return transactions
	}
	for i := range transactions {
		if canonical, ok := storeMap[normalizeLookupName(transactions[i].Store)]; ok {
			transactions[i].Store = canonical
		}
		if canonical, ok := personMap[normalizeLookupName(transactions[i].PersonName)]; ok {
			transactions[i].PersonName = canonical
		}
	}
	return transactions
}

func normalizeLookupName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// handleStatement validates the declared balances and records the statement.
// A balance error is advisory: it surfaces in the response but does not stop
// persistence unless the caller gates on it. One statement row exists per
// distinct statement period; re-imports reuse it.
func (s *importService) handleStatement(ctx context.Context, userID string, req *dto.ImportRequest, transactions []domain.Transaction, now time.Time, resp *dto.ImportResponse) {
	meta := req.Metadata
	createStatement := true

	if req.ValidateBalance {
		validation, err := s.validator.validate(ctx, userID, meta)
		if err != nil {
			s.LogError(ctx, err, "Statement balance validation failed", slog.String("account_number", meta.AccountNumber))
			resp.Warnings = append(resp.Warnings, "balance validation unavailable")
			validation = nil
		}
		if validation != nil {
			resp.BalanceValidation = validation.Result
			if validation.ContinuityWarning != "" {
				resp.Warnings = append(resp.Warnings, validation.ContinuityWarning)
			}
			if validation.Result.Valid && !validation.Result.FirstImport && validation.Result.Message != "" {
				resp.Warnings = append(resp.Warnings, validation.Result.Message)
			}
			if !validation.Result.Valid {
				resp.Errors = append(resp.Errors, validation.Result.Message)
				if !req.ForceInsert {
					createStatement = false
				}
			}
		}
	}

	if !createStatement {
		return
	}

	if startDate, ok := parseDate(meta.StatementStartDate); ok {
		existing, err := s.statementRepo.FindByAccountAndPeriod(ctx, userID, meta.AccountNumber, meta.BankCode, startDate)
		switch {
		case err == nil:
			for i := range transactions {
				id := existing.StatementID
				transactions[i].AccountStatementID = &id
			}
			statementResp := dto.ToAccountStatementResponse(existing)
			resp.AccountStatement = &statementResp
			return
		case !errors.Is(err, apperrors.ErrNotFound):
			s.LogError(ctx, err, "Statement period lookup failed", slog.String("account_number", meta.AccountNumber))
			resp.Warnings = append(resp.Warnings, "account statement could not be recorded")
			return
		}
	}

	statement := s.validator.buildStatement(userID, meta, transactions, now)
	if err := s.statementRepo.SaveStatement(ctx, statement); err != nil {
		s.LogError(ctx, err, "Failed to save account statement", slog.String("account_number", meta.AccountNumber))
		resp.Warnings = append(resp.Warnings, "account statement could not be recorded")
		return
	}
	for i := range transactions {
		id := statement.StatementID
		transactions[i].AccountStatementID = &id
	}
	statementResp := dto.ToAccountStatementResponse(&statement)
	resp.AccountStatement = &statementResp
}

// dedupAgainstStorage drops incoming rows whose identity already exists.
// A user with zero transactions skips the lookup entirely.
func (s *importService) dedupAgainstStorage(ctx context.Context, userID string, transactions []domain.Transaction) ([]domain.Transaction, int, error) {
	count, err := s.txnRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	if count == 0 {
		return transactions, 0, nil
	}

	from, to := batchDateWindow(transactions)
	existing, err := s.txnRepo.FindByUserInDateRange(ctx, userID, from, to)
	if err != nil {
		return nil, 0, err
	}
	deduped, duplicates := dedupAgainstExisting(transactions, existing)
	return deduped, duplicates, nil
}

// persistenceBatchSize scales the batch size with import volume.
func persistenceBatchSize(total int) int {
	switch {
	case total <= 500:
		return 100
	case total <= 2000:
		return 250
	default:
		return 500
	}
}

// persistBatches writes accepted rows in fixed-size batches with bounded
// concurrency. A failed bulk write falls back to row-level insert-or-skip
// for that batch only.
func (s *importService) persistBatches(ctx context.Context, transactions []domain.Transaction) []string {
	if len(transactions) == 0 {
		return nil
	}

	batchSize := persistenceBatchSize(len(transactions))
	sem := make(chan struct{}, s.cfg.MaxBatchesInFlight)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var insertedIDs []string

	for start := 0; start < len(transactions); start += batchSize {
		end := start + batchSize
		if end > len(transactions) {
			end = len(transactions)
		}
		batch := transactions[start:end]

		wg.Add(1)
		sem <- struct{}{}
		go func(batch []domain.Transaction) {
			defer wg.Done()
			defer func() { <-sem }()

			ids, err := s.txnRepo.BulkInsert(ctx, batch)
			if err != nil {
				s.LogWarn(ctx, "Bulk insert failed, retrying batch row by row",
					slog.Int("batch_size", len(batch)), slog.String("error", err.Error()))
				ids, err = s.txnRepo.InsertRowByRow(ctx, batch)
				if err != nil {
					s.LogError(ctx, err, "Row-level insert fallback failed, batch dropped",
						slog.Int("batch_size", len(batch)))
					return
				}
			}
			mu.Lock()
			insertedIDs = append(insertedIDs, ids...)
			mu.Unlock()
		}(batch)
	}
	wg.Wait()
	return insertedIDs
}

// dispatchCategorization hands freshly inserted rows to the categorization
// engine, inline for small imports, via the job queue otherwise. A dispatch
// failure is logged and never affects the import response.
func (s *importService) dispatchCategorization(ctx context.Context, userID string, req dto.ImportRequest, insertedIDs []string, resp *dto.ImportResponse) {
	if len(insertedIDs) == 0 {
		return
	}
	if req.UseAICategorization != nil && !*req.UseAICategorization {
		return
	}

	background := req.CategorizeInBackground || len(insertedIDs) > s.cfg.BackgroundCategorizeAt
	if background {
		job := &jobs.CategorizeTransactionsJob{
			UserID:         userID,
			TransactionIDs: insertedIDs,
			BatchSize:      s.cfg.CategorizeBatchSize,
		}
		if err := s.publisher.PublishCategorize(ctx, job); err != nil {
			s.LogError(ctx, err, "Failed to enqueue categorization job", slog.Int("transactions", len(insertedIDs)))
			resp.Warnings = append(resp.Warnings, "categorization could not be scheduled; re-run it manually")
		}
		return
	}

	if _, err := s.categorizationSvc.CategorizeTransactions(ctx, userID, insertedIDs, s.cfg.CategorizeBatchSize); err != nil {
		s.LogError(ctx, err, "Inline categorization failed", slog.Int("transactions", len(insertedIDs)))
		resp.Warnings = append(resp.Warnings, "categorization failed; re-run it manually")
	}
}
