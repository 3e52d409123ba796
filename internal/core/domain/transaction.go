package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FinancialCategory is the coarse money-flow classification of a transaction.
type FinancialCategory string

const (
	FinancialIncome     FinancialCategory = "INCOME"
	FinancialExpense    FinancialCategory = "EXPENSE"
	FinancialTransfer   FinancialCategory = "TRANSFER"
	FinancialInvestment FinancialCategory = "INVESTMENT"
	FinancialOther      FinancialCategory = "OTHER"
)

// Transaction is a canonical ledger row produced by the import pipeline.
// Exactly one of CreditAmount/DebitAmount is normally nonzero; both zero is
// tolerated for partial rows so statement totals stay reconcilable.
type Transaction struct {
	TransactionID      string            `json:"transactionID"` // Primary key (UUID)
	UserID             string            `json:"userID"`
	TransactionDate    time.Time         `json:"transactionDate"` // Date only; time is always midnight UTC
	Description        string            `json:"description"`
	CreditAmount       decimal.Decimal   `json:"creditAmount"`
	DebitAmount        decimal.Decimal   `json:"debitAmount"`
	FinancialCategory  FinancialCategory `json:"financialCategory"`
	CategoryID         *string           `json:"categoryID,omitempty"` // FK -> Category, assigned by categorization
	BankCode           string            `json:"bankCode"`
	BankTransactionID  string            `json:"bankTransactionID"` // Bank-issued reference, may be empty
	AccountNumber      string            `json:"accountNumber"`
	Store              string            `json:"store"`
	PersonName         string            `json:"personName"`
	UPIID              string            `json:"upiID"`
	Branch             string            `json:"branch"`
	TransferType       string            `json:"transferType"`
	Balance            *decimal.Decimal  `json:"balance,omitempty"` // Running balance from the statement
	RawData            string            `json:"rawData"`           // Original captured row text
	IsPartialData      bool              `json:"isPartialData"`
	HasInvalidDate     bool              `json:"hasInvalidDate"`
	HasZeroAmount      bool              `json:"hasZeroAmount"`
	IsDeleted          bool              `json:"isDeleted"`
	AccountStatementID *string           `json:"accountStatementID,omitempty"`
	AuditFields
}

// IsCredit reports whether money flowed into the account.
func (t Transaction) IsCredit() bool {
	return t.CreditAmount.IsPositive()
}
