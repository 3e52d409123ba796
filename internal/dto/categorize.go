package dto

// CategorizeRequest triggers a categorization run. When TransactionIDs is
// empty the run targets the caller's uncategorized, non-deleted transactions.
type CategorizeRequest struct {
	UserID         string   `json:"userId"`
	TransactionIDs []string `json:"transactionIds"`
	BatchSize      int      `json:"batchSize"`
}

// CategorizationSummary reports the per-pass outcome counts of one run.
type CategorizationSummary struct {
	Categorized      int `json:"categorized"`
	Updated          int `json:"updated"`
	ConsistencyFixes int `json:"consistencyFixes"`
	IntegrityFixes   int `json:"integrityFixes"`
}
