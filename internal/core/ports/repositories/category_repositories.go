package repositories

import (
	"context"

	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
)

// CategoryReader defines read operations for chart-of-accounts categories
type CategoryReader interface {
	// FindCategoryByID retrieves a category by its id.
	FindCategoryByID(ctx context.Context, categoryID string) (*domain.CoaCategory, error)

	// ListCategories retrieves all categories ordered by code.
	ListCategories(ctx context.Context) ([]domain.CoaCategory, error)

	// CountChildren returns the number of categories whose parent is the given id.
	CountChildren(ctx context.Context, categoryID string) (int64, error)

	// CountAccounts returns the number of accounts attached to the given category.
	CountAccounts(ctx context.Context, categoryID string) (int64, error)
}

// CategoryWriter defines write operations for chart-of-accounts categories
type CategoryWriter interface {
	// SaveCategory persists a new category.
	SaveCategory(ctx context.Context, category domain.CoaCategory) error

	// UpdateCategory updates an existing category.
	UpdateCategory(ctx context.Context, category domain.CoaCategory) error

	// DeleteCategory removes a category. Callers are responsible for the
	// no-children/no-accounts check before calling.
	DeleteCategory(ctx context.Context, categoryID string) error
}

// CategoryRepositoryFacade combines all category repository interfaces
type CategoryRepositoryFacade interface {
	CategoryReader
	CategoryWriter
}
