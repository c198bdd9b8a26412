package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"daytrack/internal/core"
	applog "daytrack/internal/log"
	"daytrack/internal/store"
)

type CategoryService struct {
	categories store.CategoryStore
	observer   ChangeObserver
	logger     *applog.Logger
}

func NewCategoryService(categories store.CategoryStore, observer ChangeObserver, logger *applog.Logger) *CategoryService {
	if observer == nil {
		observer = noopObserver{}
	}
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &CategoryService{categories: categories, observer: observer, logger: logger.WithComponent(applog.ComponentCategory)}
}

func (s *CategoryService) List(ctx context.Context) ([]core.Category, error) {
	return s.categories.ListCategories(ctx)
}

func (s *CategoryService) Create(ctx context.Context, name, color string) (core.Category, error) {
	c := core.Category{ID: uuid.NewString(), Name: strings.TrimSpace(name), Color: strings.TrimSpace(color)}
	if err := c.Validate(); err != nil {
		return core.Category{}, invalid("category", err)
	}
	if err := s.categories.CreateCategory(ctx, c); err != nil {
		return core.Category{}, fmt.Errorf("save category: %w", err)
	}
	s.logger.InfoContext(ctx, "Category created", applog.FieldCategoryID, c.ID, "name", c.Name)
	s.observer.CategoriesChanged(ctx)
	return c, nil
}

// Update renames or recolors a category; its id and default flag stay.
func (s *CategoryService) Update(ctx context.Context, id, name, color string) (core.Category, error) {
	cats, err := s.categories.ListCategories(ctx)
	if err != nil {
		return core.Category{}, fmt.Errorf("load categories: %w", err)
	}
	current, ok := core.LookupCategory(cats, id)
	if !ok {
		return core.Category{}, fmt.Errorf("category %s: %w", id, store.ErrNotFound)
	}
	if name != "" {
		current.Name = strings.TrimSpace(name)
	}
	if color != "" {
		current.Color = strings.TrimSpace(color)
	}
	if err := current.Validate(); err != nil {
		return core.Category{}, invalid("category", err)
	}
	if err := s.categories.UpdateCategory(ctx, current); err != nil {
		return core.Category{}, fmt.Errorf("update category: %w", err)
	}
	s.observer.CategoriesChanged(ctx)
	return current, nil
}

// Delete removes the category. Activities that reference it are kept and
// render as "Unknown".
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	if err := s.categories.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Category deleted", applog.FieldCategoryID, id)
	s.observer.CategoriesChanged(ctx)
	return nil
}
