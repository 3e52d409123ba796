package domain

// CategorizationSource records which mechanism produced a category assignment.
type CategorizationSource string

const (
	SourceRule    CategorizationSource = "rule"
	SourcePattern CategorizationSource = "pattern"
	SourceModel   CategorizationSource = "model"
)

// CategorizationResult is the transient outcome of categorizing one
// transaction. It is never persisted directly; only the finalized CategoryID
// is written back to the transaction.
type CategorizationResult struct {
	TransactionID string
	CategoryID    *string
	CategoryName  string
	Confidence    float64 // [0,1]
	Source        CategorizationSource
	Reasoning     string
}

// Categorized reports whether the result carries a category assignment.
func (r CategorizationResult) Categorized() bool {
	return r.CategoryName != "" || r.CategoryID != nil
}
