package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ikkim/bizdir-backend/internal/app/model"
	"github.com/ikkim/bizdir-backend/internal/app/repository"
	"github.com/ikkim/bizdir-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound          = errors.New("category not found")
	ErrCategoryNameRequired      = errors.New("category name is required")
	ErrFallbackCategoryProtected = errors.New("fallback category cannot be deleted or deactivated")
)

// CacheInvalidator is notified whenever the keyword dictionary changes.
type CacheInvalidator interface {
	Invalidate(ctx context.Context)
}

type CategoryInput struct {
	Name      string
	LocalName string
	Aliases   []string
	Icon      string
	Color     string
	IsActive  *bool // nil keeps the current value (true on create)
}

type CategoryService interface {
	ListCategories(includeInactive bool) ([]model.Category, error)
	GetCategory(id uint) (*model.Category, error)
	CreateCategory(ctx context.Context, input CategoryInput) (*model.Category, error)
	UpdateCategory(ctx context.Context, id uint, input CategoryInput) (*model.Category, error)
	DeleteCategory(ctx context.Context, id uint) error
}

type categoryService struct {
	categoryRepo     repository.CategoryRepository
	cache            CacheInvalidator
	fallbackCategory string
}

func NewCategoryService(categoryRepo repository.CategoryRepository, cache CacheInvalidator, fallbackCategory string) CategoryService {
	return &categoryService{
		categoryRepo:     categoryRepo,
		cache:            cache,
		fallbackCategory: fallbackCategory,
	}
}

func (s *categoryService) ListCategories(includeInactive bool) ([]model.Category, error) {
	return s.categoryRepo.FindAll(includeInactive)
}

func (s *categoryService) GetCategory(id uint) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) CreateCategory(ctx context.Context, input CategoryInput) (*model.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrCategoryNameRequired
	}

	category := &model.Category{
		Name:      name,
		LocalName: strings.TrimSpace(input.LocalName),
		Aliases:   cleanAliases(input.Aliases),
		Icon:      input.Icon,
		Color:     input.Color,
		IsActive:  input.IsActive == nil || *input.IsActive,
	}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}

	logger.Info("Category created", map[string]interface{}{
		"category_id": category.ID,
		"name":        category.Name,
	})
	s.invalidate(ctx)
	return category, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, id uint, input CategoryInput) (*model.Category, error) {
	category, err := s.GetCategory(id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		if s.isFallback(category) && !strings.EqualFold(name, category.Name) {
			return nil, ErrFallbackCategoryProtected
		}
		category.Name = name
	}
	if input.IsActive != nil {
		if !*input.IsActive && s.isFallback(category) {
			return nil, ErrFallbackCategoryProtected
		}
		category.IsActive = *input.IsActive
	}
	category.LocalName = strings.TrimSpace(input.LocalName)
	category.Aliases = cleanAliases(input.Aliases)
	category.Icon = input.Icon
	category.Color = input.Color

	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return category, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, id uint) error {
	category, err := s.GetCategory(id)
	if err != nil {
		return err
	}
	if s.isFallback(category) {
		return ErrFallbackCategoryProtected
	}

	if err := s.categoryRepo.Delete(id); err != nil {
		return err
	}

	logger.Info("Category deleted", map[string]interface{}{
		"category_id": id,
		"name":        category.Name,
	})
	s.invalidate(ctx)
	return nil
}

func (s *categoryService) isFallback(category *model.Category) bool {
	return strings.EqualFold(category.Name, strings.TrimSpace(s.fallbackCategory))
}

func (s *categoryService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}

func cleanAliases(aliases []string) []string {
	out := make([]string, 0, len(aliases))
	seen := make(map[string]bool, len(aliases))
	for _, alias := range aliases {
		alias = strings.TrimSpace(alias)
		key := strings.ToLower(alias)
		if alias == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, alias)
	}
	return out
}
