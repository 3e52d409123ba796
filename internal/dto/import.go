package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/statement-sync/statement_sync_app/internal/core/domain"
)

// ImportRecord is one raw statement row as produced by the OCR/parse step.
// Field pairs like Title/Description and Raw/RawData exist because different
// extractors emit different names for the same thing.
type ImportRecord struct {
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	Date          string           `json:"date"`     // free-form, human entered
	DateISO       string           `json:"date_iso"` // pre-validated ISO date, preferred
	Amount        *decimal.Decimal `json:"amount"`   // signed; used when debit/credit absent
	Debit         *decimal.Decimal `json:"debit"`
	Credit        *decimal.Decimal `json:"credit"`
	Type          string           `json:"type"` // optional "credit"/"debit" hint for signed amounts
	Category      string           `json:"category"`
	Notes         string           `json:"notes"`
	BankCode      string           `json:"bankCode"`
	TransactionID string           `json:"transactionId"` // bank-issued reference
	AccountNumber string           `json:"accountNumber"`
	TransferType  string           `json:"transferType"`
	PersonName    string           `json:"personName"`
	UPIID         string           `json:"upiId"`
	Branch        string           `json:"branch"`
	Store         string           `json:"store"`
	Commodity     string           `json:"commodity"`
	Raw           string           `json:"raw"`
	RawData       string           `json:"rawData"`
	Balance       *decimal.Decimal `json:"balance"`
}

// StatementMetadata carries the statement-level figures declared by the bank
// export, used for balance validation and continuity checking.
type StatementMetadata struct {
	OpeningBalance     decimal.Decimal `json:"openingBalance"`
	ClosingBalance     decimal.Decimal `json:"closingBalance"`
	StatementStartDate string          `json:"statementStartDate" binding:"required"`
	StatementEndDate   string          `json:"statementEndDate" binding:"required"`
	AccountNumber      string          `json:"accountNumber" binding:"required"`
	IFSC               string          `json:"ifsc"`
	Branch             string          `json:"branch"`
	AccountHolderName  string          `json:"accountHolderName"`
	TotalDebits        decimal.Decimal `json:"totalDebits"`
	TotalCredits       decimal.Decimal `json:"totalCredits"`
	TransactionCount   int             `json:"transactionCount"`
	BankCode           string          `json:"bankCode"`
}

// ImportRequest is the import operation payload.
type ImportRequest struct {
	UserID                 string             `json:"userId"`
	Records                []ImportRecord     `json:"records" binding:"required,min=1"`
	Metadata               *StatementMetadata `json:"metadata"`
	UseAICategorization    *bool              `json:"useAICategorization"`
	ValidateBalance        bool               `json:"validateBalance"`
	CategorizeInBackground bool               `json:"categorizeInBackground"`
	ForceInsert            bool               `json:"forceInsert"`
}

// BalanceValidationResult reports the opening-balance check outcome.
type BalanceValidationResult struct {
	Valid           bool            `json:"valid"`
	FirstImport     bool            `json:"firstImport"`
	ExpectedOpening decimal.Decimal `json:"expectedOpening"`
	DeclaredOpening decimal.Decimal `json:"declaredOpening"`
	Difference      decimal.Decimal `json:"difference"`
	Message         string          `json:"message,omitempty"`
}

// ImportResponse is the import operation result.
type ImportResponse struct {
	Inserted          int                       `json:"inserted"`
	Skipped           int                       `json:"skipped"`
	Duplicates        int                       `json:"duplicates"`
	CreditInserted    int                       `json:"creditInserted"`
	DebitInserted     int                       `json:"debitInserted"`
	IncomeInserted    int                       `json:"incomeInserted"`
	ExpenseInserted   int                       `json:"expenseInserted"`
	Warnings          []string                  `json:"warnings,omitempty"`
	Errors            []string                  `json:"errors,omitempty"`
	BalanceValidation *BalanceValidationResult  `json:"balanceValidation,omitempty"`
	AccountStatement  *AccountStatementResponse `json:"accountStatement,omitempty"`
}

// AccountStatementResponse is the API shape of an account statement.
type AccountStatementResponse struct {
	StatementID        string          `json:"statementID"`
	AccountNumber      string          `json:"accountNumber"`
	BankCode           string          `json:"bankCode"`
	StatementStartDate time.Time       `json:"statementStartDate"`
	StatementEndDate   time.Time       `json:"statementEndDate"`
	OpeningBalance     decimal.Decimal `json:"openingBalance"`
	ClosingBalance     decimal.Decimal `json:"closingBalance"`
	TotalCredits       decimal.Decimal `json:"totalCredits"`
	TotalDebits        decimal.Decimal `json:"totalDebits"`
	TransactionCount   int             `json:"transactionCount"`
	IsActive           bool            `json:"isActive"`
	CreatedAt          time.Time       `json:"createdAt"`
}

// ToAccountStatementResponse converts a domain AccountStatement to its API shape.
func ToAccountStatementResponse(s *domain.AccountStatement) AccountStatementResponse {
	return AccountStatementResponse{
		StatementID:        s.StatementID,
		AccountNumber:      s.AccountNumber,
		BankCode:           s.BankCode,
		StatementStartDate: s.StatementStartDate,
		StatementEndDate:   s.StatementEndDate,
		OpeningBalance:     s.OpeningBalance,
		ClosingBalance:     s.ClosingBalance,
		TotalCredits:       s.TotalCredits,
		TotalDebits:        s.TotalDebits,
		TransactionCount:   s.TransactionCount,
		IsActive:           s.IsActive,
		CreatedAt:          s.CreatedAt,
	}
}

// ToListAccountStatementResponse converts a slice of domain AccountStatements.
func ToListAccountStatementResponse(statements []domain.AccountStatement) []AccountStatementResponse {
	res := make([]AccountStatementResponse, len(statements))
	for i := range statements {
		res[i] = ToAccountStatementResponse(&statements[i])
	}
	return res
}
