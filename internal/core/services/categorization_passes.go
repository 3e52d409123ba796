package services

import (
	"fmt"

	"github.com/statement-sync/statement_sync_app/internal/core/domain"
	"github.com/statement-sync/statement_sync_app/internal/utils/textnorm"
)

// Pass parameters.
const (
	consistencyBonus   = 0.1
	reanalyzeThreshold = 0.7
	reanalyzeBase      = 0.7
	reanalyzePerMember = 0.05
	boostPerOccurrence = 0.05
	boostCap           = 0.2
)

// Each pass takes the transactions with their current results and returns a
// fresh result slice, leaving its input untouched. results[i] always belongs
// to transactions[i].

func cloneResults(results []domain.CategorizationResult) []domain.CategorizationResult {
	out := make([]domain.CategorizationResult, len(results))
	copy(out, results)
	return out
}

// identityGroups maps each normalized entity identity to the indexes of the
// transactions carrying it. Transactions without identity are excluded.
func identityGroups(transactions []domain.Transaction) map[string][]int {
	groups := make(map[string][]int)
	for i, t := range transactions {
		key := textnorm.IdentityKey(t.Store, t.PersonName, t.UPIID)
		if key == "" {
			continue
		}
		groups[key] = append(groups[key], i)
	}
	return groups
}

// consistencyPass forces every member of an identity group to the category of
// the group's highest-confidence member, ties going to the category more
// members already hold. Forced members get a confidence bonus; the count of
// forced changes is returned.
func consistencyPass(transactions []domain.Transaction, results []domain.CategorizationResult) ([]domain.CategorizationResult, int) {
	out := cloneResults(results)
	fixes := 0

	for _, members := range identityGroups(transactions) {
		if len(members) < 2 {
			continue
		}

		categoryCounts := make(map[string]int)
		for _, i := range members {
			if out[i].Categorized() {
				categoryCounts[out[i].CategoryName]++
			}
		}
		if len(categoryCounts) == 0 {
			continue
		}

		winner := -1
		for _, i := range members {
			if !out[i].Categorized() {
				continue
			}
			if winner == -1 {
				winner = i
				continue
			}
			switch {
			case out[i].Confidence > out[winner].Confidence:
				winner = i
			case out[i].Confidence == out[winner].Confidence &&
				categoryCounts[out[i].CategoryName] > categoryCounts[out[winner].CategoryName]:
				winner = i
			}
		}

		winning := out[winner]
		for _, i := range members {
			if out[i].CategoryName == winning.CategoryName {
				continue
			}
			out[i].CategoryName = winning.CategoryName
			out[i].CategoryID = winning.CategoryID
			out[i].Confidence = clampConfidence(out[i].Confidence + consistencyBonus)
			out[i].Source = domain.SourcePattern
			out[i].Reasoning = fmt.Sprintf("aligned with %d transactions sharing the same entity", len(members)-1)
			fixes++
		}
	}
	return out, fixes
}

// integrityPass applies category-specific sanity rules. Each rule only lowers
// confidence or reassigns the category; none raises confidence.
func integrityPass(transactions []domain.Transaction, results []domain.CategorizationResult) ([]domain.CategorizationResult, int) {
	out := cloneResults(results)
	fixes := 0

	for i := range out {
		if !out[i].Categorized() {
			continue
		}
		t := transactions[i]

		if out[i].CategoryName == categorySalary {
			if t.FinancialCategory == domain.FinancialIncome &&
				t.CreditAmount.GreaterThanOrEqual(salaryTransferMinAmount) &&
				(t.PersonName != "" || t.UPIID != "") {
				out[i].CategoryName = categoryTransfer
				out[i].CategoryID = nil
				out[i].Confidence = 0.7
				out[i].Reasoning = "large credit with a person identity looks like a transfer, not salary"
				fixes++
				continue
			}
			if !hasRecurringIncome(transactions, i) {
				out[i].CategoryName = categoryOtherIncome
				out[i].CategoryID = nil
				out[i].Confidence = 0.6
				out[i].Reasoning = "no recurring income of a similar amount to support salary"
				fixes++
				continue
			}
		}

		if floor, required := keywordRequiredFloors[out[i].CategoryName]; required {
			if !containsAny(matchText(t), keywordsForCategory(out[i].CategoryName)) {
				lowered := out[i].Confidence - keywordMissPenalty
				if lowered < floor {
					lowered = floor
				}
				if lowered < out[i].Confidence {
					out[i].Confidence = lowered
					out[i].Reasoning = fmt.Sprintf("no supporting keywords for %s", out[i].CategoryName)
					fixes++
				}
			}
		}
	}
	return out, fixes
}

// hasRecurringIncome reports whether at least salaryMinRecurrence other
// income transactions fall within the relative amount tolerance of row i.
func hasRecurringIncome(transactions []domain.Transaction, i int) bool {
	amount := transactions[i].CreditAmount
	if amount.IsZero() {
		return false
	}
	tolerance := amount.Mul(salaryAmountTolerance)
	matches := 0
	for j, other := range transactions {
		if j == i || other.FinancialCategory != domain.FinancialIncome {
			continue
		}
		if other.CreditAmount.Sub(amount).Abs().LessThanOrEqual(tolerance) {
			matches++
			if matches >= salaryMinRecurrence {
				return true
			}
		}
	}
	return false
}

// reanalyzePass gives uncategorized or low-confidence transactions a second
// chance via the identity-pattern map built from every current result: a
// pattern backed by at least two confident members is adopted.
func reanalyzePass(transactions []domain.Transaction, results []domain.CategorizationResult) []domain.CategorizationResult {
	out := cloneResults(results)

	type pattern struct {
		category   string
		categoryID *string
		count      int
	}
	patterns := make(map[string]*pattern)
	for i, t := range transactions {
		if !out[i].Categorized() || out[i].Confidence < reanalyzeThreshold {
			continue
		}
		key := textnorm.IdentityKey(t.Store, t.PersonName, t.UPIID)
		if key == "" {
			continue
		}
		p, ok := patterns[key]
		if !ok || out[i].CategoryName == p.category {
			if !ok {
				p = &pattern{category: out[i].CategoryName, categoryID: out[i].CategoryID}
				patterns[key] = p
			}
			p.count++
		}
	}

	for i, t := range transactions {
		if out[i].Categorized() && out[i].Confidence >= reanalyzeThreshold {
			continue
		}
		key := textnorm.IdentityKey(t.Store, t.PersonName, t.UPIID)
		p, ok := patterns[key]
		if !ok || p.count < 2 {
			continue
		}
		out[i].CategoryName = p.category
		out[i].CategoryID = p.categoryID
		out[i].Confidence = clampConfidence(reanalyzeBase + reanalyzePerMember*float64(p.count))
		out[i].Source = domain.SourcePattern
		out[i].Reasoning = fmt.Sprintf("%d confident transactions share this entity", p.count)
	}
	return out
}

// confidenceBoostPass rewards repeated entities: every categorized member of
// an identity group with two or more members gains 0.05 per extra occurrence,
// up to +0.2.
func confidenceBoostPass(transactions []domain.Transaction, results []domain.CategorizationResult) []domain.CategorizationResult {
	out := cloneResults(results)

	for _, members := range identityGroups(transactions) {
		if len(members) < 2 {
			continue
		}
		bonus := boostPerOccurrence * float64(len(members)-1)
		if bonus > boostCap {
			bonus = boostCap
		}
		for _, i := range members {
			if !out[i].Categorized() {
				continue
			}
			out[i].Confidence = clampConfidence(out[i].Confidence + bonus)
		}
	}
	return out
}

func clampConfidence(c float64) float64 {
	if c > 1 {
		return 1
	}
	return c
}
