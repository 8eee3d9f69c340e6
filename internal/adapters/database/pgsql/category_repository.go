package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/namboy94/papio/internal/core/domain"
	"github.com/namboy94/papio/internal/core/ports"
)

type PgxCategoryRepository struct {
	BaseRepository
}

// newPgxCategoryRepository creates a new repository for category data.
func newPgxCategoryRepository(pool *pgxpool.Pool) ports.CategoryRepository {
	return &PgxCategoryRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ ports.CategoryRepository = (*PgxCategoryRepository)(nil)

// SaveCategory inserts a category.
func (r *PgxCategoryRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	query := `
		INSERT INTO categories (category_id, name, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4);
	`
	_, err := r.Pool.Exec(ctx, query,
		category.CategoryID,
		category.Name,
		category.CreatedAt,
		category.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save category %s: %w", category.CategoryID, translateError(err))
	}
	return nil
}

// FindCategoryByID retrieves a category by its ID.
func (r *PgxCategoryRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	query := `
		SELECT category_id, name, created_at, last_updated_at
		FROM categories
		WHERE category_id = $1;
	`
	var category domain.Category
	err := r.Pool.QueryRow(ctx, query, categoryID).Scan(
		&category.CategoryID,
		&category.Name,
		&category.CreatedAt,
		&category.LastUpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find category %s: %w", categoryID, translateError(err))
	}
	return &category, nil
}

// FindCategoryByName retrieves a category by its unique name.
func (r *PgxCategoryRepository) FindCategoryByName(ctx context.Context, name string) (*domain.Category, error) {
	query := `
		SELECT category_id, name, created_at, last_updated_at
		FROM categories
		WHERE name = $1;
	`
	var category domain.Category
	err := r.Pool.QueryRow(ctx, query, name).Scan(
		&category.CategoryID,
		&category.Name,
		&category.CreatedAt,
		&category.LastUpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find category %q: %w", name, translateError(err))
	}
	return &category, nil
}

// ListCategories retrieves all categories ordered by name.
func (r *PgxCategoryRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	query := `
		SELECT category_id, name, created_at, last_updated_at
		FROM categories
		ORDER BY name;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Category, error) {
		var category domain.Category
		err := row.Scan(
			&category.CategoryID,
			&category.Name,
			&category.CreatedAt,
			&category.LastUpdatedAt,
		)
		return category, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan categories: %w", err)
	}
	return categories, nil
}

// DeleteCategory removes a category. Transactions referencing it keep their
// rows; the foreign key nulls the reference out.
func (r *PgxCategoryRepository) DeleteCategory(ctx context.Context, categoryID string) error {
	query := `DELETE FROM categories WHERE category_id = $1;`
	tag, err := r.Pool.Exec(ctx, query, categoryID)
	if err != nil {
		return fmt.Errorf("failed to delete category %s: %w", categoryID, translateError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to delete category %s: %w", categoryID, translateError(pgx.ErrNoRows))
	}
	return nil
}
