package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FinancialCategory is the coarse money-flow classification stored per row.
type FinancialCategory string

const (
	FinancialIncome     FinancialCategory = "INCOME"
	FinancialExpense    FinancialCategory = "EXPENSE"
	FinancialTransfer   FinancialCategory = "TRANSFER"
	FinancialInvestment FinancialCategory = "INVESTMENT"
	FinancialOther      FinancialCategory = "OTHER"
)

// Transaction mirrors the transactions table.
// Dedup identity for a user is the tuple (description prefix, credit, debit,
// calendar date, bank reference, account number) over non-deleted rows,
// enforced by a partial unique index.
type Transaction struct {
	TransactionID      string            `json:"transactionID" db:"transaction_id"`
	UserID             string            `json:"userID" db:"user_id"`
	TransactionDate    time.Time         `json:"transactionDate" db:"transaction_date"`
	Description        string            `json:"description" db:"description"`
	CreditAmount       decimal.Decimal   `json:"creditAmount" db:"credit_amount"`
	DebitAmount        decimal.Decimal   `json:"debitAmount" db:"debit_amount"`
	FinancialCategory  FinancialCategory `json:"financialCategory" db:"financial_category"`
	CategoryID         *string           `json:"categoryID" db:"category_id"`
	BankCode           string            `json:"bankCode" db:"bank_code"`
	BankTransactionID  string            `json:"bankTransactionID" db:"bank_transaction_id"`
	AccountNumber      string            `json:"accountNumber" db:"account_number"`
	Store              string            `json:"store" db:"store"`
	PersonName         string            `json:"personName" db:"person_name"`
	UPIID              string            `json:"upiID" db:"upi_id"`
	Branch             string            `json:"branch" db:"branch"`
	TransferType       string            `json:"transferType" db:"transfer_type"`
	Balance            *decimal.Decimal  `json:"balance" db:"balance"`
	RawData            string            `json:"rawData" db:"raw_data"`
	IsPartialData      bool              `json:"isPartialData" db:"is_partial_data"`
	HasInvalidDate     bool              `json:"hasInvalidDate" db:"has_invalid_date"`
	HasZeroAmount      bool              `json:"hasZeroAmount" db:"has_zero_amount"`
	IsDeleted          bool              `json:"isDeleted" db:"is_deleted"`
	AccountStatementID *string           `json:"accountStatementID" db:"account_statement_id"`
	AuditFields
}
