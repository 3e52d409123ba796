package services

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/statement-sync/statement_sync_app/internal/core/domain"
	"github.com/statement-sync/statement_sync_app/internal/dto"
)

const placeholderDescription = "Uncategorized Transaction"

// Parsed dates outside this range are treated as OCR noise and replaced via
// the fallback chain.
const (
	minSaneYear = 2010
	maxSaneYear = 2030
)

// dateFormats are tried in order for free-form date fields. ISO first; the
// rest cover common bank-export layouts.
var dateFormats = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"02.01.2006",
	"2006/01/02",
	"02 Jan 2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"02 January 2006",
	time.RFC3339,
}

// transferMarkers are inter-bank transfer systems whose presence in the
// transfer-type or description upgrades the financial category.
var transferMarkers = []string{"NEFT", "RTGS", "IMPS"}

// normalizer turns raw statement rows into canonical transactions. It is
// batch-scoped: the last successfully parsed date feeds the fallback chain
// for subsequent rows.
type normalizer struct {
	userID         string
	statementStart *time.Time
	lastParsed     *time.Time
	now            time.Time
}

// normalizeOutcome is the result of normalizing one batch.
type normalizeOutcome struct {
	transactions []domain.Transaction
	dropped      int
	invalidDates int
	zeroAmounts  int
}

func newNormalizer(userID string, statementStart *time.Time, now time.Time) *normalizer {
	return &normalizer{userID: userID, statementStart: statementStart, now: now}
}

// normalizeBatch processes records in order, preserving batch date context.
func (n *normalizer) normalizeBatch(records []dto.ImportRecord) normalizeOutcome {
	out := normalizeOutcome{transactions: make([]domain.Transaction, 0, len(records))}
	for _, rec := range records {
		txn, ok := n.normalizeRecord(rec)
		if !ok {
			out.dropped++
			continue
		}
		if txn.HasInvalidDate {
			out.invalidDates++
		}
		if txn.HasZeroAmount {
			out.zeroAmounts++
		}
		out.transactions = append(out.transactions, txn)
	}
	return out
}

// normalizeRecord converts one raw row. The only hard rejection is a record
// for which no date can be produced by any fallback.
func (n *normalizer) normalizeRecord(rec dto.ImportRecord) (domain.Transaction, bool) {
	date, invalidDate := n.resolveDate(rec)
	if date.IsZero() {
		return domain.Transaction{}, false
	}
	if !invalidDate {
		d := date
		n.lastParsed = &d
	}

	credit, debit, zeroAmount := resolveAmounts(rec)

	description, partial := resolveDescription(rec)
	if zeroAmount {
		partial = true
	}

	rawData := rec.RawData
	if rawData == "" {
		rawData = rec.Raw
	}

	var balance *decimal.Decimal
	if rec.Balance != nil {
		b := *rec.Balance
		balance = &b
	}

	txn := domain.Transaction{
		TransactionID:     uuid.NewString(),
		UserID:            n.userID,
		TransactionDate:   date,
		Description:       description,
		CreditAmount:      credit,
		DebitAmount:       debit,
		FinancialCategory: resolveFinancialCategory(credit, debit, rec.TransferType, description),
		BankCode:          rec.BankCode,
		BankTransactionID: rec.TransactionID,
		AccountNumber:     rec.AccountNumber,
		Store:             rec.Store,
		PersonName:        rec.PersonName,
		UPIID:             rec.UPIID,
		Branch:            rec.Branch,
		TransferType:      rec.TransferType,
		Balance:           balance,
		RawData:           rawData,
		IsPartialData:     partial,
		HasInvalidDate:    invalidDate,
		HasZeroAmount:     zeroAmount,
		AuditFields: domain.AuditFields{
			CreatedAt:     n.now,
			CreatedBy:     n.userID,
			LastUpdatedAt: n.now,
			LastUpdatedBy: n.userID,
		},
	}
	return txn, true
}

// resolveDate parses the record date, preferring the pre-validated ISO field.
// On parse failure or an out-of-range year it walks the fallback chain: last
// parsed date in this batch, statement start date, processing date.
func (n *normalizer) resolveDate(rec dto.ImportRecord) (time.Time, bool) {
	if date, ok := parseDate(rec.DateISO); ok {
		return date, false
	}
	if date, ok := parseDate(rec.Date); ok {
		return date, false
	}
	if n.lastParsed != nil {
		return *n.lastParsed, true
	}
	if n.statementStart != nil {
		return *n.statementStart, true
	}
	return midnightUTC(n.now), true
}

// parseDate parses a single date string, midnight UTC, rejecting insane years.
func parseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateFormats {
		parsed, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		if parsed.Year() < minSaneYear || parsed.Year() > maxSaneYear {
			return time.Time{}, false
		}
		return midnightUTC(parsed), true
	}
	return time.Time{}, false
}

// midnightUTC truncates a timestamp to its calendar date in UTC, avoiding
// timezone drift when only the date matters.
func midnightUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// resolveAmounts derives non-negative credit/debit values. When explicit
// debit/credit are absent it infers the side from the signed amount, honoring
// a "credit"/"debit" type hint when present.
func resolveAmounts(rec dto.ImportRecord) (credit, debit decimal.Decimal, zeroAmount bool) {
	if rec.Credit != nil {
		credit = *rec.Credit
	}
	if rec.Debit != nil {
		debit = *rec.Debit
	}

	if credit.IsZero() && debit.IsZero() && rec.Amount != nil && !rec.Amount.IsZero() {
		amount := *rec.Amount
		switch strings.ToLower(strings.TrimSpace(rec.Type)) {
		case "credit", "cr":
			credit = amount.Abs()
		case "debit", "dr":
			debit = amount.Abs()
		default:
			if amount.IsNegative() {
				debit = amount.Abs()
			} else {
				credit = amount
			}
		}
	}

	if credit.IsNegative() {
		credit = decimal.Zero
	}
	if debit.IsNegative() {
		debit = decimal.Zero
	}
	return credit, debit, credit.IsZero() && debit.IsZero()
}

// resolveDescription picks the display text: title, then description, then
// raw captured text, then a placeholder. Anything past the first two marks
// the row partial.
func resolveDescription(rec dto.ImportRecord) (string, bool) {
	if title := strings.TrimSpace(rec.Title); title != "" {
		return title, false
	}
	if desc := strings.TrimSpace(rec.Description); desc != "" {
		return desc, false
	}
	if raw := strings.TrimSpace(rec.RawData); raw != "" {
		return raw, true
	}
	if raw := strings.TrimSpace(rec.Raw); raw != "" {
		return raw, true
	}
	return placeholderDescription, true
}

// resolveFinancialCategory infers the coarse money-flow class. Inter-bank
// transfer markers with a debit-only amount upgrade EXPENSE to TRANSFER;
// markers alongside a credit stay INCOME so incoming transfers are not
// miscast.
func resolveFinancialCategory(credit, debit decimal.Decimal, transferType, description string) domain.FinancialCategory {
	category := domain.FinancialExpense
	if credit.IsPositive() {
		category = domain.FinancialIncome
	}

	if hasTransferMarker(transferType) || hasTransferMarker(description) {
		if credit.IsPositive() {
			return domain.FinancialIncome
		}
		if debit.IsPositive() {
			return domain.FinancialTransfer
		}
	}
	return category
}

func hasTransferMarker(text string) bool {
	upper := strings.ToUpper(text)
	for _, marker := range transferMarkers {
		if strings.Contains(upper, marker) {
			return true
		}
	}
	return false
}
