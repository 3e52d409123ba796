package models

// CategoryType distinguishes income categories from expense categories.
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "INCOME"
	CategoryTypeExpense CategoryType = "EXPENSE"
)

// Category mirrors the categories table. System defaults have a NULL user_id.
type Category struct {
	CategoryID string       `json:"categoryID" db:"category_id"`
	UserID     *string      `json:"userID" db:"user_id"`
	Name       string       `json:"name" db:"name"`
	Type       CategoryType `json:"type" db:"type"`
	Color      string       `json:"color" db:"color"`
	IsDefault  bool         `json:"isDefault" db:"is_default"`
	AuditFields
}
