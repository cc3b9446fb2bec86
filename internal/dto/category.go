package dto

import (
	"time"

	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
)

// CreateCategoryRequest defines the data needed to create a chart of accounts category.
type CreateCategoryRequest struct {
	Name         string              `json:"name" binding:"required"`
	Code         string              `json:"code" binding:"required"`
	CategoryType domain.CategoryType `json:"categoryType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	ParentID     *string             `json:"parentID"` // Optional, root categories have no parent
}

// UpdateCategoryRequest defines the data allowed for updating a category.
// The type is fixed at creation time. A non-nil empty ParentID moves the
// category to the root.
type UpdateCategoryRequest struct {
	Name     *string `json:"name"`
	Code     *string `json:"code"`
	ParentID *string `json:"parentID"`
}

// CategoryResponse defines the data returned for a category.
type CategoryResponse struct {
	CategoryID    string              `json:"categoryID"`
	ParentID      *string             `json:"parentID,omitempty"`
	Name          string              `json:"name"`
	Code          string              `json:"code"`
	CategoryType  domain.CategoryType `json:"categoryType"`
	Level         int                 `json:"level"`
	CreatedAt     time.Time           `json:"createdAt"`
	LastUpdatedAt time.Time           `json:"lastUpdatedAt"`
}

// ToCategoryResponse converts a domain.CoaCategory to CategoryResponse DTO
func ToCategoryResponse(c *domain.CoaCategory) CategoryResponse {
	return CategoryResponse{
		CategoryID:    c.CategoryID,
		ParentID:      c.ParentID,
		Name:          c.Name,
		Code:          c.Code,
		CategoryType:  c.CategoryType,
		Level:         c.Level,
		CreatedAt:     c.CreatedAt,
		LastUpdatedAt: c.LastUpdatedAt,
	}
}

// ToListCategoryResponse converts a slice of domain.CoaCategory to a slice of CategoryResponse DTOs
func ToListCategoryResponse(categories []domain.CoaCategory) []CategoryResponse {
	res := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		res[i] = ToCategoryResponse(&c)
	}
	return res
}
