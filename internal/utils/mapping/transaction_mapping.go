package mapping

import (
	"github.com/statement-sync/statement_sync_app/internal/core/domain"
	"github.com/statement-sync/statement_sync_app/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:      d.TransactionID,
		UserID:             d.UserID,
		TransactionDate:    d.TransactionDate,
		Description:        d.Description,
		CreditAmount:       d.CreditAmount,
		DebitAmount:        d.DebitAmount,
		FinancialCategory:  models.FinancialCategory(d.FinancialCategory),
		CategoryID:         d.CategoryID,
		BankCode:           d.BankCode,
		BankTransactionID:  d.BankTransactionID,
		AccountNumber:      d.AccountNumber,
		Store:              d.Store,
		PersonName:         d.PersonName,
		UPIID:              d.UPIID,
		Branch:             d.Branch,
		TransferType:       d.TransferType,
		Balance:            d.Balance,
		RawData:            d.RawData,
		IsPartialData:      d.IsPartialData,
		HasInvalidDate:     d.HasInvalidDate,
		HasZeroAmount:      d.HasZeroAmount,
		IsDeleted:          d.IsDeleted,
		AccountStatementID: d.AccountStatementID,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:      m.TransactionID,
		UserID:             m.UserID,
		TransactionDate:    m.TransactionDate,
		Description:        m.Description,
		CreditAmount:       m.CreditAmount,
		DebitAmount:        m.DebitAmount,
		FinancialCategory:  domain.FinancialCategory(m.FinancialCategory),
		CategoryID:         m.CategoryID,
		BankCode:           m.BankCode,
		BankTransactionID:  m.BankTransactionID,
		AccountNumber:      m.AccountNumber,
		Store:              m.Store,
		PersonName:         m.PersonName,
		UPIID:              m.UPIID,
		Branch:             m.Branch,
		TransferType:       m.TransferType,
		Balance:            m.Balance,
		RawData:            m.RawData,
		IsPartialData:      m.IsPartialData,
		HasInvalidDate:     m.HasInvalidDate,
		HasZeroAmount:      m.HasZeroAmount,
		IsDeleted:          m.IsDeleted,
		AccountStatementID: m.AccountStatementID,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTransactionSlice converts a slice of model Transactions to a slice of domain Transactions
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}
