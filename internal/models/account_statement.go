package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountStatement mirrors the account_statements table.
type AccountStatement struct {
	StatementID        string          `json:"statementID" db:"statement_id"`
	UserID             string          `json:"userID" db:"user_id"`
	AccountNumber      string          `json:"accountNumber" db:"account_number"`
	BankCode           string          `json:"bankCode" db:"bank_code"`
	IFSC               string          `json:"ifsc" db:"ifsc"`
	Branch             string          `json:"branch" db:"branch"`
	AccountHolderName  string          `json:"accountHolderName" db:"account_holder_name"`
	StatementStartDate time.Time       `json:"statementStartDate" db:"statement_start_date"`
	StatementEndDate   time.Time       `json:"statementEndDate" db:"statement_end_date"`
	OpeningBalance     decimal.Decimal `json:"openingBalance" db:"opening_balance"`
	ClosingBalance     decimal.Decimal `json:"closingBalance" db:"closing_balance"`
	TotalCredits       decimal.Decimal `json:"totalCredits" db:"total_credits"`
	TotalDebits        decimal.Decimal `json:"totalDebits" db:"total_debits"`
	TransactionCount   int             `json:"transactionCount" db:"transaction_count"`
	IsActive           bool            `json:"isActive" db:"is_active"`
	AuditFields
}
