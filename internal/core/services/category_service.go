package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/namboy94/papio/internal/apperrors"
	"github.com/namboy94/papio/internal/core/domain"
	"github.com/namboy94/papio/internal/core/ports"
)

// CategoryService manages transaction categories.
type CategoryService struct {
	categoryRepo ports.CategoryRepository
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(categoryRepo ports.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// CreateCategory creates a category with a unique name.
func (s *CategoryService) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	existing, err := s.categoryRepo.FindCategoryByName(ctx, name)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check category name %q: %w", name, err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: category %q", apperrors.ErrDuplicate, name)
	}

	now := time.Now().UTC()
	category := domain.Category{
		CategoryID:  uuid.NewString(),
		Name:        name,
		AuditFields: domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
	if err := s.categoryRepo.SaveCategory(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to save category: %w", err)
	}
	return &category, nil
}

// GetCategory retrieves a category by its ID.
func (s *CategoryService) GetCategory(ctx context.Context, categoryID string) (*domain.Category, error) {
	category, err := s.categoryRepo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get category %s: %w", categoryID, err)
	}
	return category, nil
}

// ListCategories retrieves all categories.
func (s *CategoryService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categoryRepo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	return categories, nil
}

// DeleteCategory removes a category.
func (s *CategoryService) DeleteCategory(ctx context.Context, categoryID string) error {
	if err := s.categoryRepo.DeleteCategory(ctx, categoryID); err != nil {
		return fmt.Errorf("failed to delete category %s: %w", categoryID, err)
	}
	return nil
}
