package services

import (
	"context"

	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
	"github.com/finbooks-app/finbooks_backend/internal/dto"
)

// CategoryReaderSvc defines read operations for chart-of-accounts categories
type CategoryReaderSvc interface {
	// GetCategoryByID retrieves a category by its id.
	GetCategoryByID(ctx context.Context, categoryID string) (*domain.CoaCategory, error)

	// ListCategories retrieves all categories ordered by code.
	ListCategories(ctx context.Context) ([]domain.CoaCategory, error)
}

// CategoryWriterSvc defines write operations for chart-of-accounts categories
type CategoryWriterSvc interface {
	// CreateCategory persists a new category, deriving its level from the parent.
	CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*domain.CoaCategory, error)

	// UpdateCategory updates a category's name, code, and parent. A new
	// parent recomputes the category's level; descendants are not cascaded.
	UpdateCategory(ctx context.Context, categoryID string, req dto.UpdateCategoryRequest) (*domain.CoaCategory, error)

	// DeleteCategory removes a category. Fails with apperrors.ErrConflict
	// when child categories or attached accounts exist.
	DeleteCategory(ctx context.Context, categoryID string) error
}

// CategorySvcFacade combines all category-related service interfaces
type CategorySvcFacade interface {
	CategoryReaderSvc
	CategoryWriterSvc
}
