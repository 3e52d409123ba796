package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/statement-sync/statement_sync_app/internal/apperrors"
	"github.com/statement-sync/statement_sync_app/internal/core/domain"
	"github.com/statement-sync/statement_sync_app/internal/dto"
)

type mockStatementRepo struct {
	mock.Mock
}

func (m *mockStatementRepo) FindLatestByAccount(ctx context.Context, userID, accountNumber, bankCode string) (*domain.AccountStatement, error) {
	args := m.Called(ctx, userID, accountNumber, bankCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountStatement), args.Error(1)
}

func (m *mockStatementRepo) FindByAccountAndPeriod(ctx context.Context, userID, accountNumber, bankCode string, statementStartDate time.Time) (*domain.AccountStatement, error) {
	args := m.Called(ctx, userID, accountNumber, bankCode, statementStartDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountStatement), args.Error(1)
}

func (m *mockStatementRepo) ListByUser(ctx context.Context, userID string, limit int) ([]domain.AccountStatement, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountStatement), args.Error(1)
}

func (m *mockStatementRepo) SaveStatement(ctx context.Context, statement domain.AccountStatement) error {
	args := m.Called(ctx, statement)
	return args.Error(0)
}

func testMetadata(opening string) *dto.StatementMetadata {
	return &dto.StatementMetadata{
		OpeningBalance:     decimal.RequireFromString(opening),
		ClosingBalance:     decimal.RequireFromString("5000"),
		StatementStartDate: "2024-04-01",
		StatementEndDate:   "2024-04-30",
		AccountNumber:      "ACC123",
		BankCode:           "HDFC",
	}
}

func priorStatement(closing string, end time.Time) *domain.AccountStatement {
	return &domain.AccountStatement{
		StatementID:      "stmt-prior",
		UserID:           "user-1",
		AccountNumber:    "ACC123",
		BankCode:         "HDFC",
		ClosingBalance:   decimal.RequireFromString(closing),
		StatementEndDate: end,
	}
}

func TestStatementValidator_FirstImport(t *testing.T) {
	repo := new(mockStatementRepo)
	repo.On("FindLatestByAccount", mock.Anything, "user-1", "ACC123", "HDFC").
		Return(nil, apperrors.ErrNotFound).Once()

	v := newStatementValidator(repo)
	validation, err := v.validate(context.Background(), "user-1", testMetadata("1000"))

	require.NoError(t, err)
	assert.True(t, validation.Result.Valid)
	assert.True(t, validation.Result.FirstImport)
	repo.AssertExpectations(t)
}

func TestStatementValidator_BalanceThresholds(t *testing.T) {
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name        string
		opening     string
		wantValid   bool
		wantMessage bool
	}{
		{"exact within 0.01", "1000.005", true, false},
		{"soft within 1.00", "1000.50", true, true},
		{"beyond tolerance", "1005.00", false, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := new(mockStatementRepo)
			repo.On("FindLatestByAccount", mock.Anything, "user-1", "ACC123", "HDFC").
				Return(priorStatement("1000.00", end), nil).Once()

			v := newStatementValidator(repo)
			validation, err := v.validate(context.Background(), "user-1", testMetadata(tc.opening))

			require.NoError(t, err)
			assert.Equal(t, tc.wantValid, validation.Result.Valid)
			if tc.wantMessage {
				assert.NotEmpty(t, validation.Result.Message)
			} else {
				assert.Empty(t, validation.Result.Message)
			}
		})
	}
}

func TestStatementValidator_ContinuityGapWarning(t *testing.T) {
	// Prior statement ends 2024-03-27; new one starts 2024-04-01.
	end := time.Date(2024, 3, 27, 0, 0, 0, 0, time.UTC)
	repo := new(mockStatementRepo)
	repo.On("FindLatestByAccount", mock.Anything, "user-1", "ACC123", "HDFC").
		Return(priorStatement("1000.00", end), nil).Once()

	v := newStatementValidator(repo)
	validation, err := v.validate(context.Background(), "user-1", testMetadata("1000.00"))

	require.NoError(t, err)
	assert.Contains(t, validation.ContinuityWarning, "5 day gap")
}

func TestStatementValidator_NoGapNoWarning(t *testing.T) {
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	repo := new(mockStatementRepo)
	repo.On("FindLatestByAccount", mock.Anything, "user-1", "ACC123", "HDFC").
		Return(priorStatement("1000.00", end), nil).Once()

	v := newStatementValidator(repo)
	validation, err := v.validate(context.Background(), "user-1", testMetadata("1000.00"))

	require.NoError(t, err)
	assert.Empty(t, validation.ContinuityWarning)
}

func TestBuildStatement_TotalsFromNormalizedSet(t *testing.T) {
	v := newStatementValidator(new(mockStatementRepo))
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	txns := []domain.Transaction{
		{CreditAmount: decimal.NewFromInt(100), DebitAmount: decimal.Zero},
		{CreditAmount: decimal.Zero, DebitAmount: decimal.NewFromInt(40)},
		{CreditAmount: decimal.Zero, DebitAmount: decimal.NewFromInt(60)},
	}

	statement := v.buildStatement("user-1", testMetadata("1000"), txns, now)

	assert.NotEmpty(t, statement.StatementID)
	assert.True(t, statement.TotalCredits.Equal(decimal.NewFromInt(100)))
	assert.True(t, statement.TotalDebits.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, 3, statement.TransactionCount)
	assert.True(t, statement.IsActive)
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), statement.StatementStartDate)
}
