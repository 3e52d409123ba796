package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statement-sync/statement_sync_app/internal/core/domain"
	"github.com/statement-sync/statement_sync_app/internal/dto"
)

func dec(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func TestNormalizeBatch_DateFallbackToLastParsed(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)
	n := newNormalizer("user-1", nil, now)

	out := n.normalizeBatch([]dto.ImportRecord{
		{DateISO: "2024-03-05", Description: "Coffee", Debit: dec("120")},
		{Date: "not a date", Description: "Smudged row", Debit: dec("80")},
	})

	require.Len(t, out.transactions, 2)
	assert.Equal(t, 0, out.dropped)
	assert.Equal(t, 1, out.invalidDates)

	fallback := out.transactions[1]
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), fallback.TransactionDate)
	assert.True(t, fallback.HasInvalidDate)
	assert.False(t, out.transactions[0].HasInvalidDate)
}

func TestNormalizeBatch_DateFallbackToStatementStart(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	n := newNormalizer("user-1", &start, now)

	out := n.normalizeBatch([]dto.ImportRecord{
		{Date: "garbage", Description: "First row", Debit: dec("10")},
	})

	require.Len(t, out.transactions, 1)
	assert.Equal(t, start, out.transactions[0].TransactionDate)
	assert.True(t, out.transactions[0].HasInvalidDate)
}

func TestNormalizeBatch_DateFallbackToProcessingDate(t *testing.T) {
	now := time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC)
	n := newNormalizer("user-1", nil, now)

	out := n.normalizeBatch([]dto.ImportRecord{
		{Description: "No date at all", Credit: dec("42")},
	})

	require.Len(t, out.transactions, 1)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), out.transactions[0].TransactionDate)
	assert.True(t, out.transactions[0].HasInvalidDate)
}

func TestParseDate_RejectsInsaneYears(t *testing.T) {
	_, ok := parseDate("1970-01-01")
	assert.False(t, ok)
	_, ok = parseDate("2099-01-01")
	assert.False(t, ok)
	parsed, ok := parseDate("15/08/2024")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 8, 15, 0, 0, 0, 0, time.UTC), parsed)
}

func TestResolveAmounts_SignInference(t *testing.T) {
	credit, debit, zero := resolveAmounts(dto.ImportRecord{Amount: dec("-250.50")})
	assert.True(t, credit.IsZero())
	assert.True(t, debit.Equal(decimal.RequireFromString("250.50")))
	assert.False(t, zero)

	credit, debit, _ = resolveAmounts(dto.ImportRecord{Amount: dec("300")})
	assert.True(t, credit.Equal(decimal.NewFromInt(300)))
	assert.True(t, debit.IsZero())
}

func TestResolveAmounts_TypeHintOverridesSign(t *testing.T) {
	credit, debit, _ := resolveAmounts(dto.ImportRecord{Amount: dec("500"), Type: "dr"})
	assert.True(t, credit.IsZero())
	assert.True(t, debit.Equal(decimal.NewFromInt(500)))

	credit, debit, _ = resolveAmounts(dto.ImportRecord{Amount: dec("-500"), Type: "credit"})
	assert.True(t, credit.Equal(decimal.NewFromInt(500)))
	assert.True(t, debit.IsZero())
}

func TestResolveAmounts_ClampsNegatives(t *testing.T) {
	credit, debit, zero := resolveAmounts(dto.ImportRecord{Credit: dec("-5"), Debit: dec("-7")})
	assert.True(t, credit.IsZero())
	assert.True(t, debit.IsZero())
	assert.True(t, zero)
}

func TestNormalizeRecord_ZeroAmountRetainedAsPartial(t *testing.T) {
	n := newNormalizer("user-1", nil, time.Now())
	txn, ok := n.normalizeRecord(dto.ImportRecord{DateISO: "2024-04-01", Description: "Torn row"})
	require.True(t, ok)
	assert.True(t, txn.HasZeroAmount)
	assert.True(t, txn.IsPartialData)
}

func TestResolveDescription_Fallbacks(t *testing.T) {
	desc, partial := resolveDescription(dto.ImportRecord{Title: "UPI to shop"})
	assert.Equal(t, "UPI to shop", desc)
	assert.False(t, partial)

	desc, partial = resolveDescription(dto.ImportRecord{RawData: "RAW|LINE|TEXT"})
	assert.Equal(t, "RAW|LINE|TEXT", desc)
	assert.True(t, partial)

	desc, partial = resolveDescription(dto.ImportRecord{})
	assert.Equal(t, placeholderDescription, desc)
	assert.True(t, partial)
}

func TestResolveFinancialCategory_TransferMarkers(t *testing.T) {
	hundred := decimal.NewFromInt(100)

	got := resolveFinancialCategory(decimal.Zero, hundred, "NEFT", "payment out")
	assert.Equal(t, domain.FinancialTransfer, got)

	got = resolveFinancialCategory(hundred, decimal.Zero, "", "IMPS-50021-incoming")
	assert.Equal(t, domain.FinancialIncome, got)

	got = resolveFinancialCategory(decimal.Zero, hundred, "", "card swipe")
	assert.Equal(t, domain.FinancialExpense, got)

	got = resolveFinancialCategory(hundred, decimal.Zero, "", "cheque deposit")
	assert.Equal(t, domain.FinancialIncome, got)
}
