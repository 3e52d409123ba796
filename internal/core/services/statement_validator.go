package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/statement-sync/statement_sync_app/internal/apperrors"
	"github.com/statement-sync/statement_sync_app/internal/core/domain"
	portsrepo "github.com/statement-sync/statement_sync_app/internal/core/ports/repositories"
	"github.com/statement-sync/statement_sync_app/internal/dto"
)

// Balance tolerance thresholds. A discrepancy within the exact tolerance is
// silently accepted; within the soft tolerance it is accepted with a warning;
// beyond that the validation fails.
var (
	balanceExactTolerance = decimal.NewFromFloat(0.01)
	balanceSoftTolerance  = decimal.NewFromInt(1)
)

// statementValidation is the combined outcome of validating one statement's
// declared metadata against stored history.
type statementValidation struct {
	Result            *dto.BalanceValidationResult
	ContinuityWarning string
	Prior             *domain.AccountStatement
}

// statementValidator checks declared statement balances against the account's
// stored history and constructs the AccountStatement row.
type statementValidator struct {
	BaseService
	statementRepo portsrepo.AccountStatementRepositoryFacade
}

func newStatementValidator(statementRepo portsrepo.AccountStatementRepositoryFacade) *statementValidator {
	return &statementValidator{statementRepo: statementRepo}
}

// validate compares the declared opening balance against the most recent
// statement's closing balance for the same (user, account, bank) and checks
// for a day gap since that statement.
func (v *statementValidator) validate(ctx context.Context, userID string, meta *dto.StatementMetadata) (*statementValidation, error) {
	prior, err := v.statementRepo.FindLatestByAccount(ctx, userID, meta.AccountNumber, meta.BankCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return &statementValidation{
				Result: &dto.BalanceValidationResult{
					Valid:           true,
					FirstImport:     true,
					DeclaredOpening: meta.OpeningBalance,
					Message:         "first import for this account",
				},
			}, nil
		}
		return nil, err
	}

	result := &dto.BalanceValidationResult{
		ExpectedOpening: prior.ClosingBalance,
		DeclaredOpening: meta.OpeningBalance,
		Difference:      meta.OpeningBalance.Sub(prior.ClosingBalance),
	}

	diff := result.Difference.Abs()
	switch {
	case diff.LessThanOrEqual(balanceExactTolerance):
		result.Valid = true
	case diff.LessThanOrEqual(balanceSoftTolerance):
		result.Valid = true
		result.Message = fmt.Sprintf("opening balance differs from previous closing balance by %s; may be due to pending transactions or rounding", result.Difference)
	default:
		result.Valid = false
		result.Message = fmt.Sprintf("opening balance %s does not match previous closing balance %s (difference %s)", meta.OpeningBalance, prior.ClosingBalance, result.Difference)
	}

	validation := &statementValidation{Result: result, Prior: prior}

	if startDate, ok := parseDate(meta.StatementStartDate); ok {
		gapDays := int(startDate.Sub(midnightUTC(prior.StatementEndDate)).Hours() / 24)
		if gapDays > 1 {
			validation.ContinuityWarning = fmt.Sprintf("%d day gap since previous statement ending %s; a statement may be missing", gapDays, prior.StatementEndDate.Format("2006-01-02"))
		}
	}

	return validation, nil
}

// buildStatement constructs the AccountStatement row for a validated import.
// Totals come from the normalized record set, not the raw input.
func (v *statementValidator) buildStatement(userID string, meta *dto.StatementMetadata, transactions []domain.Transaction, now time.Time) domain.AccountStatement {
	totalCredits := decimal.Zero
	totalDebits := decimal.Zero
	for _, t := range transactions {
		totalCredits = totalCredits.Add(t.CreditAmount)
		totalDebits = totalDebits.Add(t.DebitAmount)
	}

	startDate, ok := parseDate(meta.StatementStartDate)
	if !ok {
		startDate = midnightUTC(now)
	}
	endDate, ok := parseDate(meta.StatementEndDate)
	if !ok {
		endDate = startDate
	}

	return domain.AccountStatement{
		StatementID:        uuid.NewString(),
		UserID:             userID,
		AccountNumber:      meta.AccountNumber,
		BankCode:           meta.BankCode,
		IFSC:               meta.IFSC,
		Branch:             meta.Branch,
		AccountHolderName:  meta.AccountHolderName,
		StatementStartDate: startDate,
		StatementEndDate:   endDate,
		OpeningBalance:     meta.OpeningBalance,
		ClosingBalance:     meta.ClosingBalance,
		TotalCredits:       totalCredits,
		TotalDebits:        totalDebits,
		TransactionCount:   len(transactions),
		IsActive:           true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
}
