package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/finbooks-app/finbooks_backend/internal/apperrors"
	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks-app/finbooks_backend/internal/core/ports/repositories"
	"github.com/finbooks-app/finbooks_backend/internal/dto"
	"github.com/google/uuid"
)

// categoryService provides business logic for the chart of accounts tree.
type categoryService struct {
	BaseService
	categoryRepo portsrepo.CategoryRepositoryFacade
}

// NewCategoryService creates a new category service.
func NewCategoryService(categoryRepo portsrepo.CategoryRepositoryFacade) *categoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

// CreateCategory creates a chart of accounts category. The level is derived
// from the parent at write time: parent.level + 1, or 0 for roots.
func (s *categoryService) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*domain.CoaCategory, error) {
	level := 0
	if req.ParentID != nil {
		parent, err := s.categoryRepo.FindCategoryByID(ctx, *req.ParentID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent category '%s' not found", apperrors.ErrValidation, *req.ParentID)
			}
			return nil, fmt.Errorf("failed to validate parent category '%s': %w", *req.ParentID, err)
		}
		level = parent.Level + 1
	}

	now := time.Now()
	category := domain.CoaCategory{
		CategoryID:   uuid.NewString(),
		ParentID:     req.ParentID,
		Name:         req.Name,
		Code:         req.Code,
		CategoryType: req.CategoryType,
		Level:        level,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.categoryRepo.SaveCategory(ctx, category); err != nil {
		s.LogError(ctx, err, "failed to create category", slog.String("code", req.Code))
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return &category, nil
}

// GetCategoryByID retrieves a category by its identifier.
func (s *categoryService) GetCategoryByID(ctx context.Context, categoryID string) (*domain.CoaCategory, error) {
	category, err := s.categoryRepo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get category %s: %w", categoryID, err)
	}
	return category, nil
}

// ListCategories returns the whole category tree as a flat list ordered by
// code.
func (s *categoryService) ListCategories(ctx context.Context) ([]domain.CoaCategory, error) {
	categories, err := s.categoryRepo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	if categories == nil {
		return []domain.CoaCategory{}, nil
	}
	return categories, nil
}

// UpdateCategory updates a category's name, code, and parent. Re-parenting
// recomputes the category's own level from the new parent; levels of
// descendants are never cascaded, so moving a subtree leaves grandchildren
// at their old depth. The type is fixed at creation time.
func (s *categoryService) UpdateCategory(ctx context.Context, categoryID string, req dto.UpdateCategoryRequest) (*domain.CoaCategory, error) {
	category, err := s.categoryRepo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find category %s for update: %w", categoryID, err)
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Code != nil {
		category.Code = *req.Code
	}
	if req.ParentID != nil {
		if *req.ParentID == "" {
			category.ParentID = nil
			category.Level = 0
		} else {
			if *req.ParentID == categoryID {
				return nil, fmt.Errorf("%w: category cannot be its own parent", apperrors.ErrValidation)
			}
			parent, err := s.categoryRepo.FindCategoryByID(ctx, *req.ParentID)
			if err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					return nil, fmt.Errorf("%w: parent category '%s' not found", apperrors.ErrValidation, *req.ParentID)
				}
				return nil, fmt.Errorf("failed to validate parent category '%s': %w", *req.ParentID, err)
			}
			category.ParentID = req.ParentID
			category.Level = parent.Level + 1
		}
	}
	category.LastUpdatedAt = time.Now()

	if err := s.categoryRepo.UpdateCategory(ctx, *category); err != nil {
		return nil, fmt.Errorf("failed to update category %s: %w", categoryID, err)
	}

	return category, nil
}

// DeleteCategory removes a category. Deletion is refused when any child
// category or any account still references it.
func (s *categoryService) DeleteCategory(ctx context.Context, categoryID string) error {
	if _, err := s.categoryRepo.FindCategoryByID(ctx, categoryID); err != nil {
		return fmt.Errorf("failed to find category %s for delete: %w", categoryID, err)
	}

	children, err := s.categoryRepo.CountChildren(ctx, categoryID)
	if err != nil {
		return fmt.Errorf("failed to count child categories of %s: %w", categoryID, err)
	}
	if children > 0 {
		return fmt.Errorf("%w: category has %d child categories", apperrors.ErrConflict, children)
	}

	accounts, err := s.categoryRepo.CountAccounts(ctx, categoryID)
	if err != nil {
		return fmt.Errorf("failed to count accounts in category %s: %w", categoryID, err)
	}
	if accounts > 0 {
		return fmt.Errorf("%w: category has %d accounts attached", apperrors.ErrConflict, accounts)
	}

	if err := s.categoryRepo.DeleteCategory(ctx, categoryID); err != nil {
		return fmt.Errorf("failed to delete category %s: %w", categoryID, err)
	}
	return nil
}
