package mapping

import (
	"github.com/statement-sync/statement_sync_app/internal/core/domain"
	"github.com/statement-sync/statement_sync_app/internal/models"
)

// ToModelAccountStatement converts a domain AccountStatement to a model AccountStatement
func ToModelAccountStatement(d domain.AccountStatement) models.AccountStatement {
	return models.AccountStatement{
		StatementID:        d.StatementID,
		UserID:             d.UserID,
		AccountNumber:      d.AccountNumber,
		BankCode:           d.BankCode,
		IFSC:               d.IFSC,
		Branch:             d.Branch,
		AccountHolderName:  d.AccountHolderName,
		StatementStartDate: d.StatementStartDate,
		StatementEndDate:   d.StatementEndDate,
		OpeningBalance:     d.OpeningBalance,
		ClosingBalance:     d.ClosingBalance,
		TotalCredits:       d.TotalCredits,
		TotalDebits:        d.TotalDebits,
		TransactionCount:   d.TransactionCount,
		IsActive:           d.IsActive,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccountStatement converts a model AccountStatement to a domain AccountStatement
func ToDomainAccountStatement(m models.AccountStatement) domain.AccountStatement {
	return domain.AccountStatement{
		StatementID:        m.StatementID,
		UserID:             m.UserID,
		AccountNumber:      m.AccountNumber,
		BankCode:           m.BankCode,
		IFSC:               m.IFSC,
		Branch:             m.Branch,
		AccountHolderName:  m.AccountHolderName,
		StatementStartDate: m.StatementStartDate,
		StatementEndDate:   m.StatementEndDate,
		OpeningBalance:     m.OpeningBalance,
		ClosingBalance:     m.ClosingBalance,
		TotalCredits:       m.TotalCredits,
		TotalDebits:        m.TotalDebits,
		TransactionCount:   m.TransactionCount,
		IsActive:           m.IsActive,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountStatementSlice converts a slice of model AccountStatements to domain objects
func ToDomainAccountStatementSlice(ms []models.AccountStatement) []domain.AccountStatement {
	ds := make([]domain.AccountStatement, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccountStatement(m)
	}
	return ds
}
