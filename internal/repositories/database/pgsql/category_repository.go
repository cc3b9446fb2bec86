package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/finbooks-app/finbooks_backend/internal/apperrors"
	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks-app/finbooks_backend/internal/core/ports/repositories"
	"github.com/finbooks-app/finbooks_backend/internal/models"
	"github.com/finbooks-app/finbooks_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxCategoryRepository struct {
	BaseRepository
}

// newPgxCategoryRepository creates a new repository for chart-of-accounts categories.
func newPgxCategoryRepository(pool *pgxpool.Pool) portsrepo.CategoryRepositoryFacade {
	return &PgxCategoryRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.CategoryRepositoryFacade = (*PgxCategoryRepository)(nil)

const categoryColumns = `category_id, parent_id, name, code, category_type, level, created_at, last_updated_at`

func scanCategory(row pgx.Row) (models.CoaCategory, error) {
	var m models.CoaCategory
	err := row.Scan(
		&m.CategoryID,
		&m.ParentID,
		&m.Name,
		&m.Code,
		&m.CategoryType,
		&m.Level,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	return m, err
}

// SaveCategory persists a new category.
func (r *PgxCategoryRepository) SaveCategory(ctx context.Context, category domain.CoaCategory) error {
	modelCat := mapping.ToModelCategory(category)

	query := `
		INSERT INTO coa_categories (category_id, parent_id, name, code, category_type, level, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`

	_, err := r.Pool.Exec(ctx, query,
		modelCat.CategoryID,
		modelCat.ParentID,
		modelCat.Name,
		modelCat.Code,
		modelCat.CategoryType,
		modelCat.Level,
		modelCat.CreatedAt,
		modelCat.LastUpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("%w: category code '%s' already exists", apperrors.ErrDuplicate, modelCat.Code)
		}
		return fmt.Errorf("failed to save category %s: %w", modelCat.CategoryID, err)
	}
	return nil
}

// FindCategoryByID retrieves a category by its id.
func (r *PgxCategoryRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.CoaCategory, error) {
	query := `SELECT ` + categoryColumns + ` FROM coa_categories WHERE category_id = $1;`

	modelCat, err := scanCategory(r.Pool.QueryRow(ctx, query, categoryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find category by id %s: %w", categoryID, err)
	}

	domainCat := mapping.ToDomainCategory(modelCat)
	return &domainCat, nil
}

// ListCategories retrieves all categories ordered by code.
func (r *PgxCategoryRepository) ListCategories(ctx context.Context) ([]domain.CoaCategory, error) {
	query := `SELECT ` + categoryColumns + ` FROM coa_categories ORDER BY code;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	modelCats, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.CoaCategory, error) {
		return scanCategory(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan categories: %w", err)
	}

	return mapping.ToDomainCategorySlice(modelCats), nil
}

// CountChildren returns the number of categories whose parent is the given id.
func (r *PgxCategoryRepository) CountChildren(ctx context.Context, categoryID string) (int64, error) {
	query := `SELECT COUNT(*) FROM coa_categories WHERE parent_id = $1;`

	var count int64
	if err := r.Pool.QueryRow(ctx, query, categoryID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count children of category %s: %w", categoryID, err)
	}
	return count, nil
}

// CountAccounts returns the number of accounts attached to the given category.
func (r *PgxCategoryRepository) CountAccounts(ctx context.Context, categoryID string) (int64, error) {
	query := `SELECT COUNT(*) FROM accounts WHERE category_id = $1;`

	var count int64
	if err := r.Pool.QueryRow(ctx, query, categoryID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count accounts in category %s: %w", categoryID, err)
	}
	return count, nil
}

// UpdateCategory updates an existing category.
func (r *PgxCategoryRepository) UpdateCategory(ctx context.Context, category domain.CoaCategory) error {
	modelCat := mapping.ToModelCategory(category)

	query := `
		UPDATE coa_categories
		SET name = $2, code = $3, parent_id = $4, level = $5, last_updated_at = $6
		WHERE category_id = $1;
	`

	ct, err := r.Pool.Exec(ctx, query,
		modelCat.CategoryID,
		modelCat.Name,
		modelCat.Code,
		modelCat.ParentID,
		modelCat.Level,
		modelCat.LastUpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("%w: category code '%s' already exists", apperrors.ErrDuplicate, modelCat.Code)
		}
		return fmt.Errorf("failed to update category %s: %w", modelCat.CategoryID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteCategory removes a category.
func (r *PgxCategoryRepository) DeleteCategory(ctx context.Context, categoryID string) error {
	query := `DELETE FROM coa_categories WHERE category_id = $1;`

	ct, err := r.Pool.Exec(ctx, query, categoryID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
			return fmt.Errorf("%w: category %s is still referenced", apperrors.ErrConflict, categoryID)
		}
		return fmt.Errorf("failed to delete category %s: %w", categoryID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
