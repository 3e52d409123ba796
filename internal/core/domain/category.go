package domain

// CategoryType distinguishes income categories from expense categories.
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "INCOME"
	CategoryTypeExpense CategoryType = "EXPENSE"
)

// Category is a spending/income bucket a transaction may be assigned to.
// Default categories are system-owned (UserID nil), immutable and shared
// across users; the rest belong to a single user.
type Category struct {
	CategoryID string       `json:"categoryID"`
	UserID     *string      `json:"userID,omitempty"` // nil for system defaults
	Name       string       `json:"name"`
	Type       CategoryType `json:"type"`
	Color      string       `json:"color,omitempty"`
	IsDefault  bool         `json:"isDefault"`
	AuditFields
}
