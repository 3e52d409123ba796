package dto

import (
	"github.com/statement-sync/statement_sync_app/internal/core/domain"
)

// CategoryResponse is the API shape of a category.
type CategoryResponse struct {
	CategoryID string              `json:"categoryID"`
	Name       string              `json:"name"`
	Type       domain.CategoryType `json:"type"`
	Color      string              `json:"color,omitempty"`
	IsDefault  bool                `json:"isDefault"`
}

// ToCategoryResponse converts a domain Category to its API shape.
func ToCategoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		CategoryID: c.CategoryID,
		Name:       c.Name,
		Type:       c.Type,
		Color:      c.Color,
		IsDefault:  c.IsDefault,
	}
}

// ToListCategoryResponse converts a slice of domain Categories.
func ToListCategoryResponse(categories []domain.Category) []CategoryResponse {
	res := make([]CategoryResponse, len(categories))
	for i := range categories {
		res[i] = ToCategoryResponse(&categories[i])
	}
	return res
}
