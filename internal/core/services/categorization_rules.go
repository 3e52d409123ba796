package services

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/statement-sync/statement_sync_app/internal/core/domain"
)

// Category names assigned by the rule engine. They must match the seeded
// default categories so the persist pass can resolve them to IDs.
const (
	categorySalary      = "Salary"
	categoryTransfer    = "Transfer"
	categoryOtherIncome = "Other Income"
)

// keywordRule assigns one category when any of its keywords appears in the
// transaction's descriptive text. Rules are evaluated in order; the first
// match wins, so more specific rules come first.
type keywordRule struct {
	category   string
	confidence float64
	creditOnly bool
	keywords   []string
}

var keywordRules = []keywordRule{
	{category: categorySalary, confidence: 0.9, creditOnly: true,
		keywords: []string{"salary", "payroll", "wages", "stipend"}},
	{category: "Refund", confidence: 0.85, creditOnly: true,
		keywords: []string{"refund", "reversal", "cashback"}},
	{category: "Cash Withdrawal", confidence: 0.9,
		keywords: []string{"atm wdl", "atm withdrawal", "cash withdrawal", "atm cash"}},
	{category: "Investments", confidence: 0.85,
		keywords: []string{"mutual fund", "zerodha", "groww", "upstox", "sip installment", "ppf", "nps contribution"}},
	{category: "Taxes", confidence: 0.85,
		keywords: []string{"income tax", "advance tax", "self assessment tax", "gst payment", "tds"}},
	{category: "Rent", confidence: 0.85,
		keywords: []string{"rent", "lease payment"}},
	{category: "Groceries", confidence: 0.85,
		keywords: []string{"grocery", "groceries", "supermarket", "bigbasket", "dmart", "blinkit", "zepto", "reliance fresh"}},
	{category: "Food & Dining", confidence: 0.85,
		keywords: []string{"swiggy", "zomato", "restaurant", "cafe", "dominos", "mcdonald", "kfc", "starbucks"}},
	{category: "Shopping", confidence: 0.85,
		keywords: []string{"amazon", "flipkart", "myntra", "ajio", "nykaa", "decathlon"}},
	{category: "Entertainment", confidence: 0.85,
		keywords: []string{"netflix", "spotify", "hotstar", "prime video", "bookmyshow", "cinema", "movie ticket"}},
	{category: "Transport", confidence: 0.85,
		keywords: []string{"uber", "ola cabs", "rapido", "fastag", "petrol", "diesel", "fuel", "metro card", "parking"}},
	{category: "Travel", confidence: 0.8,
		keywords: []string{"irctc", "makemytrip", "goibibo", "indigo", "air india", "flight", "oyo", "hotel booking"}},
	{category: "Utilities", confidence: 0.8,
		keywords: []string{"electricity", "water bill", "broadband", "airtel", "jio recharge", "vodafone", "dth", "piped gas"}},
	{category: "Health", confidence: 0.8,
		keywords: []string{"pharmacy", "hospital", "clinic", "apollo", "medplus", "pharmeasy", "1mg", "diagnostic"}},
	{category: "Education", confidence: 0.8,
		keywords: []string{"school fee", "college fee", "tuition", "udemy", "coursera", "exam fee"}},
	{category: "Fees & Charges", confidence: 0.8,
		keywords: []string{"bank charges", "service charge", "annual fee", "late fee", "penalty", "processing fee", "sms charges"}},
	{category: "Charity & Donations", confidence: 0.8,
		keywords: []string{"donation", "charity", "relief fund"}},
	{category: "Gifts & Donations", confidence: 0.75,
		keywords: []string{"gift"}},
	{category: categoryOtherIncome, confidence: 0.75, creditOnly: true,
		keywords: []string{"interest credit", "int.pd", "dividend"}},
}

// matchText is the lower-cased haystack the keyword rules search: description
// plus the extracted entity fields.
func matchText(t domain.Transaction) string {
	return strings.ToLower(strings.Join([]string{t.Description, t.Store, t.PersonName}, " "))
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// classifyInitial categorizes one transaction in isolation. Keyword rules
// first, then the coarse financial class; anything unmatched stays
// uncategorized for the pattern passes to pick up.
func classifyInitial(t domain.Transaction) domain.CategorizationResult {
	result := domain.CategorizationResult{TransactionID: t.TransactionID}
	text := matchText(t)

	for _, rule := range keywordRules {
		if rule.creditOnly && !t.IsCredit() {
			continue
		}
		if containsAny(text, rule.keywords) {
			result.CategoryName = rule.category
			result.Confidence = rule.confidence
			result.Source = domain.SourceRule
			result.Reasoning = fmt.Sprintf("keyword match for %s", rule.category)
			return result
		}
	}

	if t.FinancialCategory == domain.FinancialTransfer {
		result.CategoryName = categoryTransfer
		result.Confidence = 0.7
		result.Source = domain.SourceRule
		result.Reasoning = "inter-bank transfer marker"
	}
	return result
}

// Integrity rule parameters.
var (
	// Credits at or above this that carry a person identity look like
	// peer-to-peer transfers, not salary.
	salaryTransferMinAmount = decimal.NewFromInt(10000)
	// Recurrence check: salary needs at least this many other income rows
	// within the relative amount tolerance.
	salaryMinRecurrence   = 2
	salaryAmountTolerance = decimal.NewFromFloat(0.10)
)

const keywordMissPenalty = 0.2

// keywordRequiredFloors lists categories that must be backed by a keyword
// match; a miss costs keywordMissPenalty, clamped to the per-category floor.
var keywordRequiredFloors = map[string]float64{
	"Taxes":               0.3,
	"Fees & Charges":      0.3,
	"Gifts & Donations":   0.25,
	"Charity & Donations": 0.25,
	"Refund":              0.3,
}

// keywordsForCategory returns the rule keywords backing a category name.
func keywordsForCategory(category string) []string {
	for _, rule := range keywordRules {
		if rule.category == category {
			return rule.keywords
		}
	}
	return nil
}
