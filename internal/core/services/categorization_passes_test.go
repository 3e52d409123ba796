package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statement-sync/statement_sync_app/internal/core/domain"
)

func storeTxn(id, store string) domain.Transaction {
	return domain.Transaction{
		TransactionID:     id,
		UserID:            "user-1",
		Store:             store,
		DebitAmount:       decimal.NewFromInt(500),
		FinancialCategory: domain.FinancialExpense,
	}
}

func result(id, category string, confidence float64) domain.CategorizationResult {
	return domain.CategorizationResult{
		TransactionID: id,
		CategoryName:  category,
		Confidence:    confidence,
		Source:        domain.SourceRule,
	}
}

func TestClassifyInitial_KeywordMatch(t *testing.T) {
	txn := domain.Transaction{
		TransactionID:     "t1",
		Description:       "SWIGGY ORDER 99231",
		DebitAmount:       decimal.NewFromInt(450),
		FinancialCategory: domain.FinancialExpense,
	}
	r := classifyInitial(txn)
	assert.Equal(t, "Food & Dining", r.CategoryName)
	assert.Equal(t, domain.SourceRule, r.Source)
	assert.InDelta(t, 0.85, r.Confidence, 0.001)
}

func TestClassifyInitial_SalaryRequiresCredit(t *testing.T) {
	debit := domain.Transaction{
		TransactionID: "t1",
		Description:   "salary advance repayment",
		DebitAmount:   decimal.NewFromInt(5000),
	}
	r := classifyInitial(debit)
	assert.NotEqual(t, categorySalary, r.CategoryName)

	credit := domain.Transaction{
		TransactionID:     "t2",
		Description:       "ACME CORP SALARY MAR",
		CreditAmount:      decimal.NewFromInt(50000),
		FinancialCategory: domain.FinancialIncome,
	}
	r = classifyInitial(credit)
	assert.Equal(t, categorySalary, r.CategoryName)
}

func TestClassifyInitial_TransferFallback(t *testing.T) {
	txn := domain.Transaction{
		TransactionID:     "t1",
		Description:       "NEFT DR 120045",
		DebitAmount:       decimal.NewFromInt(2000),
		FinancialCategory: domain.FinancialTransfer,
	}
	r := classifyInitial(txn)
	assert.Equal(t, categoryTransfer, r.CategoryName)
	assert.InDelta(t, 0.7, r.Confidence, 0.001)
}

func TestClassifyInitial_UnmatchedStaysUncategorized(t *testing.T) {
	txn := domain.Transaction{
		TransactionID: "t1",
		Description:   "POS 4451 XXXXXX",
		DebitAmount:   decimal.NewFromInt(75),
	}
	r := classifyInitial(txn)
	assert.False(t, r.Categorized())
}

func TestConsistencyPass_ForcesMajorityCategory(t *testing.T) {
	txns := []domain.Transaction{
		storeTxn("t1", "Amazon"),
		storeTxn("t2", "Amazon"),
		storeTxn("t3", "Amazon"),
	}
	results := []domain.CategorizationResult{
		result("t1", "Shopping", 0.9),
		result("t2", "Shopping", 0.9),
		result("t3", "Entertainment", 0.6),
	}

	out, fixes := consistencyPass(txns, results)

	assert.Equal(t, 1, fixes)
	for _, r := range out {
		assert.Equal(t, "Shopping", r.CategoryName)
	}
	assert.InDelta(t, 0.7, out[2].Confidence, 0.001)
	// Original slice untouched.
	assert.Equal(t, "Entertainment", results[2].CategoryName)
}

func TestConsistencyPass_SingletonUntouched(t *testing.T) {
	txns := []domain.Transaction{storeTxn("t1", "Amazon")}
	results := []domain.CategorizationResult{result("t1", "Shopping", 0.9)}

	out, fixes := consistencyPass(txns, results)
	assert.Equal(t, 0, fixes)
	assert.Equal(t, results[0], out[0])
}

func TestIntegrityPass_SalaryWithPersonBecomesTransfer(t *testing.T) {
	categoryID := "cat-salary"
	txns := []domain.Transaction{{
		TransactionID:     "t1",
		PersonName:        "Ravi Kumar",
		CreditAmount:      decimal.NewFromInt(50000),
		FinancialCategory: domain.FinancialIncome,
	}}
	results := []domain.CategorizationResult{{
		TransactionID: "t1",
		CategoryName:  categorySalary,
		CategoryID:    &categoryID,
		Confidence:    0.9,
		Source:        domain.SourceRule,
	}}

	out, fixes := integrityPass(txns, results)

	assert.Equal(t, 1, fixes)
	assert.Equal(t, categoryTransfer, out[0].CategoryName)
	assert.Nil(t, out[0].CategoryID)
	assert.InDelta(t, 0.7, out[0].Confidence, 0.001)
}

func TestIntegrityPass_SalaryWithoutRecurrenceDowngraded(t *testing.T) {
	txns := []domain.Transaction{{
		TransactionID:     "t1",
		CreditAmount:      decimal.NewFromInt(8000),
		FinancialCategory: domain.FinancialIncome,
	}}
	results := []domain.CategorizationResult{result("t1", categorySalary, 0.9)}

	out, fixes := integrityPass(txns, results)

	assert.Equal(t, 1, fixes)
	assert.Equal(t, categoryOtherIncome, out[0].CategoryName)
}

func TestIntegrityPass_SalaryWithRecurrenceKept(t *testing.T) {
	salary := func(id string, amount int64) domain.Transaction {
		return domain.Transaction{
			TransactionID:     id,
			CreditAmount:      decimal.NewFromInt(amount),
			FinancialCategory: domain.FinancialIncome,
		}
	}
	txns := []domain.Transaction{salary("t1", 50000), salary("t2", 49000), salary("t3", 51000)}
	results := []domain.CategorizationResult{
		result("t1", categorySalary, 0.9),
		result("t2", categorySalary, 0.9),
		result("t3", categorySalary, 0.9),
	}

	out, fixes := integrityPass(txns, results)

	assert.Equal(t, 0, fixes)
	for _, r := range out {
		assert.Equal(t, categorySalary, r.CategoryName)
	}
}

func TestIntegrityPass_KeywordMissLowersConfidence(t *testing.T) {
	txns := []domain.Transaction{{
		TransactionID: "t1",
		Description:   "POS purchase 8812",
		DebitAmount:   decimal.NewFromInt(1200),
	}}
	results := []domain.CategorizationResult{result("t1", "Taxes", 0.85)}

	out, fixes := integrityPass(txns, results)

	assert.Equal(t, 1, fixes)
	assert.InDelta(t, 0.65, out[0].Confidence, 0.001)
	assert.Equal(t, "Taxes", out[0].CategoryName)
}

func TestIntegrityPass_KeywordFloorClamped(t *testing.T) {
	txns := []domain.Transaction{{
		TransactionID: "t1",
		Description:   "POS purchase 8812",
		DebitAmount:   decimal.NewFromInt(1200),
	}}
	results := []domain.CategorizationResult{result("t1", "Taxes", 0.35)}

	out, _ := integrityPass(txns, results)
	assert.InDelta(t, 0.3, out[0].Confidence, 0.001)
}

func TestReanalyzePass_AdoptsPattern(t *testing.T) {
	txns := []domain.Transaction{
		storeTxn("t1", "Amazon"),
		storeTxn("t2", "Amazon"),
		storeTxn("t3", "Amazon"),
	}
	results := []domain.CategorizationResult{
		result("t1", "Shopping", 0.9),
		result("t2", "Shopping", 0.9),
		{TransactionID: "t3"},
	}

	out := reanalyzePass(txns, results)

	require.True(t, out[2].Categorized())
	assert.Equal(t, "Shopping", out[2].CategoryName)
	assert.Equal(t, domain.SourcePattern, out[2].Source)
	assert.InDelta(t, 0.8, out[2].Confidence, 0.001) // 0.7 + 0.05*2
}

func TestReanalyzePass_SingleMemberPatternIgnored(t *testing.T) {
	txns := []domain.Transaction{
		storeTxn("t1", "Amazon"),
		storeTxn("t2", "Amazon"),
	}
	results := []domain.CategorizationResult{
		result("t1", "Shopping", 0.9),
		{TransactionID: "t2"},
	}

	out := reanalyzePass(txns, results)
	assert.False(t, out[1].Categorized())
}

func TestConfidenceBoostPass_CapsAtPointTwo(t *testing.T) {
	txns := make([]domain.Transaction, 8)
	results := make([]domain.CategorizationResult, 8)
	for i := range txns {
		id := string(rune('a' + i))
		txns[i] = storeTxn(id, "Amazon")
		results[i] = result(id, "Shopping", 0.5)
	}

	out := confidenceBoostPass(txns, results)
	for _, r := range out {
		assert.InDelta(t, 0.7, r.Confidence, 0.001) // 0.5 + capped 0.2
	}
}

func TestConfidenceBoostPass_SkipsUncategorized(t *testing.T) {
	txns := []domain.Transaction{storeTxn("t1", "Amazon"), storeTxn("t2", "Amazon")}
	results := []domain.CategorizationResult{
		result("t1", "Shopping", 0.9),
		{TransactionID: "t2"},
	}

	out := confidenceBoostPass(txns, results)
	assert.InDelta(t, 0.95, out[0].Confidence, 0.001)
	assert.Zero(t, out[1].Confidence)
}
