package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/statement-sync/statement_sync_app/internal/core/domain"
	portssvc "github.com/statement-sync/statement_sync_app/internal/core/ports/services"
	"github.com/statement-sync/statement_sync_app/internal/core/services"
)

// --- Mock TransactionRepository ---
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockTransactionRepository) FindByUserInDateRange(ctx context.Context, userID string, from, to time.Time) ([]domain.Transaction, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindByIDs(ctx context.Context, userID string, transactionIDs []string) ([]domain.Transaction, error) {
	args := m.Called(ctx, userID, transactionIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindUncategorized(ctx context.Context, userID string, limit int) ([]domain.Transaction, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) BulkInsert(ctx context.Context, transactions []domain.Transaction) ([]string, error) {
	args := m.Called(ctx, transactions)
	if fn, ok := args.Get(0).(func([]domain.Transaction) []string); ok {
		return fn(transactions), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockTransactionRepository) InsertRowByRow(ctx context.Context, transactions []domain.Transaction) ([]string, error) {
	args := m.Called(ctx, transactions)
	if fn, ok := args.Get(0).(func([]domain.Transaction) []string); ok {
		return fn(transactions), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockTransactionRepository) UpdateCategories(ctx context.Context, userID string, assignments map[string]*string, updatedBy string, now time.Time) (int, error) {
	args := m.Called(ctx, userID, assignments, updatedBy, now)
	return args.Int(0), args.Error(1)
}

// --- Mock CategoryRepository ---
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) ListForUser(ctx context.Context, userID string) ([]domain.Category, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, userID, categoryID string) (*domain.Category, error) {
	args := m.Called(ctx, userID, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

// --- Test Suite ---
type CategorizationServiceTestSuite struct {
	suite.Suite
	txnRepo      *MockTransactionRepository
	categoryRepo *MockCategoryRepository
	service      portssvc.CategorizationSvc
}

func (suite *CategorizationServiceTestSuite) SetupTest() {
	suite.txnRepo = new(MockTransactionRepository)
	suite.categoryRepo = new(MockCategoryRepository)
	suite.service = services.NewCategorizationService(suite.txnRepo, suite.categoryRepo, 100)
}

func defaultCategories() []domain.Category {
	return []domain.Category{
		{CategoryID: "cat-shopping", Name: "Shopping", Type: domain.CategoryTypeExpense, IsDefault: true},
		{CategoryID: "cat-transfer", Name: "Transfer", Type: domain.CategoryTypeExpense, IsDefault: true},
		{CategoryID: "cat-food", Name: "Food & Dining", Type: domain.CategoryTypeExpense, IsDefault: true},
	}
}

func (suite *CategorizationServiceTestSuite) TestCategorize_KeywordAndConsistency() {
	ctx := context.Background()
	txns := []domain.Transaction{
		{TransactionID: "t1", UserID: "user-1", Description: "AMAZON PAY ORDER", Store: "Amazon", DebitAmount: decimal.NewFromInt(500), FinancialCategory: domain.FinancialExpense},
		{TransactionID: "t2", UserID: "user-1", Description: "AMAZON PAY ORDER", Store: "Amazon", DebitAmount: decimal.NewFromInt(900), FinancialCategory: domain.FinancialExpense},
		{TransactionID: "t3", UserID: "user-1", Description: "SWIGGY ORDER 18871", Store: "Amazon", DebitAmount: decimal.NewFromInt(100), FinancialCategory: domain.FinancialExpense},
	}

	suite.txnRepo.On("FindByIDs", ctx, "user-1", []string{"t1", "t2", "t3"}).Return(txns, nil).Once()
	suite.categoryRepo.On("ListForUser", ctx, "user-1").Return(defaultCategories(), nil).Once()
	suite.txnRepo.On("UpdateCategories", ctx, "user-1", mock.MatchedBy(func(assignments map[string]*string) bool {
		if len(assignments) != 3 {
			return false
		}
		for _, categoryID := range assignments {
			if categoryID == nil || *categoryID != "cat-shopping" {
				return false
			}
		}
		return true
	}), "user-1", mock.AnythingOfType("time.Time")).Return(3, nil).Once()

	summary, err := suite.service.CategorizeTransactions(ctx, "user-1", []string{"t1", "t2", "t3"}, 100)

	suite.Require().NoError(err)
	suite.Equal(3, summary.Categorized)
	suite.Equal(3, summary.Updated)
	suite.GreaterOrEqual(summary.ConsistencyFixes, 1)
	suite.txnRepo.AssertExpectations(suite.T())
	suite.categoryRepo.AssertExpectations(suite.T())
}

func (suite *CategorizationServiceTestSuite) TestCategorize_SalaryIntegrityDowngrade() {
	ctx := context.Background()
	txns := []domain.Transaction{
		{TransactionID: "t1", UserID: "user-1", Description: "ACME CORP SALARY", PersonName: "Ravi Kumar", CreditAmount: decimal.NewFromInt(50000), FinancialCategory: domain.FinancialIncome},
	}

	suite.txnRepo.On("FindByIDs", ctx, "user-1", []string{"t1"}).Return(txns, nil).Once()
	suite.categoryRepo.On("ListForUser", ctx, "user-1").Return(defaultCategories(), nil).Once()
	suite.txnRepo.On("UpdateCategories", ctx, "user-1", mock.MatchedBy(func(assignments map[string]*string) bool {
		categoryID, ok := assignments["t1"]
		return ok && categoryID != nil && *categoryID == "cat-transfer"
	}), "user-1", mock.AnythingOfType("time.Time")).Return(1, nil).Once()

	summary, err := suite.service.CategorizeTransactions(ctx, "user-1", []string{"t1"}, 100)

	suite.Require().NoError(err)
	suite.Equal(1, summary.Categorized)
	suite.Equal(1, summary.Updated)
	suite.GreaterOrEqual(summary.IntegrityFixes, 1)
	suite.txnRepo.AssertExpectations(suite.T())
}

func (suite *CategorizationServiceTestSuite) TestCategorize_NoTransactions() {
	ctx := context.Background()
	suite.txnRepo.On("FindUncategorized", ctx, "user-1", 100).Return([]domain.Transaction{}, nil).Once()

	summary, err := suite.service.CategorizeTransactions(ctx, "user-1", nil, 100)

	suite.Require().NoError(err)
	suite.Equal(0, summary.Categorized)
	suite.Equal(0, summary.Updated)
	suite.txnRepo.AssertExpectations(suite.T())
}

func (suite *CategorizationServiceTestSuite) TestCategorize_SkipsUnchangedAssignments() {
	ctx := context.Background()
	shoppingID := "cat-shopping"
	txns := []domain.Transaction{
		{TransactionID: "t1", UserID: "user-1", Description: "AMAZON PAY ORDER", CategoryID: &shoppingID, DebitAmount: decimal.NewFromInt(500), FinancialCategory: domain.FinancialExpense},
	}

	suite.txnRepo.On("FindByIDs", ctx, "user-1", []string{"t1"}).Return(txns, nil).Once()
	suite.categoryRepo.On("ListForUser", ctx, "user-1").Return(defaultCategories(), nil).Once()

	summary, err := suite.service.CategorizeTransactions(ctx, "user-1", []string{"t1"}, 100)

	suite.Require().NoError(err)
	suite.Equal(1, summary.Categorized)
	suite.Equal(0, summary.Updated)
	suite.txnRepo.AssertNotCalled(suite.T(), "UpdateCategories", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.txnRepo.AssertExpectations(suite.T())
}

func TestCategorizationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CategorizationServiceTestSuite))
}
