package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountStatement records one imported statement period for a bank account.
// Rows are created once per distinct (user, account, bank, start date) import
// and never mutated afterwards except the active-flag sweep that demotes
// superseded statements.
type AccountStatement struct {
	StatementID        string          `json:"statementID"`
	UserID             string          `json:"userID"`
	AccountNumber      string          `json:"accountNumber"`
	BankCode           string          `json:"bankCode"`
	IFSC               string          `json:"ifsc"`
	Branch             string          `json:"branch"`
	AccountHolderName  string          `json:"accountHolderName"`
	StatementStartDate time.Time       `json:"statementStartDate"`
	StatementEndDate   time.Time       `json:"statementEndDate"`
	OpeningBalance     decimal.Decimal `json:"openingBalance"`
	ClosingBalance     decimal.Decimal `json:"closingBalance"`
	TotalCredits       decimal.Decimal `json:"totalCredits"`
	TotalDebits        decimal.Decimal `json:"totalDebits"`
	TransactionCount   int             `json:"transactionCount"`
	IsActive           bool            `json:"isActive"`
	AuditFields
}
