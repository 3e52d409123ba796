package services

import (
	"strings"
	"time"

	"github.com/statement-sync/statement_sync_app/internal/core/domain"
	"github.com/statement-sync/statement_sync_app/internal/utils/textnorm"
)

// dedupWindowPadding widens the storage lookup window around the batch's
// date range to tolerate date-fallback drift.
const dedupWindowPadding = 30 * 24 * time.Hour

// dedupKey builds the canonical identity for duplicate detection:
// (user, truncated description, credit, debit, calendar date, bank
// reference, account number). Amounts are fixed to two decimal places so
// representation differences cannot split identical values.
func dedupKey(t domain.Transaction) string {
	return strings.Join([]string{
		t.UserID,
		textnorm.TruncateDescription(t.Description),
		t.CreditAmount.StringFixed(2),
		t.DebitAmount.StringFixed(2),
		t.TransactionDate.Format("2006-01-02"),
		t.BankTransactionID,
		t.AccountNumber,
	}, "|")
}

// dedupIndex is a request-scoped key set, built once per import call and
// discarded with it.
type dedupIndex struct {
	keys map[string]struct{}
}

func newDedupIndex() *dedupIndex {
	return &dedupIndex{keys: make(map[string]struct{})}
}

func (idx *dedupIndex) addTransactions(transactions []domain.Transaction) {
	for _, t := range transactions {
		idx.keys[dedupKey(t)] = struct{}{}
	}
}

// seen reports whether the key exists, inserting it when absent so the first
// occurrence wins.
func (idx *dedupIndex) seen(t domain.Transaction) bool {
	key := dedupKey(t)
	if _, ok := idx.keys[key]; ok {
		return true
	}
	idx.keys[key] = struct{}{}
	return false
}

// dedupInBatch collapses records sharing an identity key within one import,
// first occurrence winning. Returns survivors and the duplicate count.
func dedupInBatch(transactions []domain.Transaction) ([]domain.Transaction, int) {
	idx := newDedupIndex()
	unique := make([]domain.Transaction, 0, len(transactions))
	duplicates := 0
	for _, t := range transactions {
		if idx.seen(t) {
			duplicates++
			continue
		}
		unique = append(unique, t)
	}
	return unique, duplicates
}

// dedupAgainstExisting drops incoming transactions whose identity already
// exists among the stored set. The stored set is expected to cover the padded
// date window around the batch.
func dedupAgainstExisting(incoming, existing []domain.Transaction) ([]domain.Transaction, int) {
	idx := newDedupIndex()
	idx.addTransactions(existing)

	unique := make([]domain.Transaction, 0, len(incoming))
	duplicates := 0
	for _, t := range incoming {
		if _, ok := idx.keys[dedupKey(t)]; ok {
			duplicates++
			continue
		}
		unique = append(unique, t)
	}
	return unique, duplicates
}

// batchDateWindow computes the padded [from, to] lookup window covering every
// transaction date in the batch.
func batchDateWindow(transactions []domain.Transaction) (time.Time, time.Time) {
	if len(transactions) == 0 {
		return time.Time{}, time.Time{}
	}
	min := transactions[0].TransactionDate
	max := transactions[0].TransactionDate
	for _, t := range transactions[1:] {
		if t.TransactionDate.Before(min) {
			min = t.TransactionDate
		}
		if t.TransactionDate.After(max) {
			max = t.TransactionDate
		}
	}
	return min.Add(-dedupWindowPadding), max.Add(dedupWindowPadding)
}
