package repository

import (
	"context"

	"github.com/ikkim/bizdir-backend/internal/app/model"
	"github.com/ikkim/bizdir-backend/internal/discovery"
)

// DirectoryStore exposes the repositories through the storage contract of the discovery engine.
type DirectoryStore struct {
	businesses BusinessRepository
	categories CategoryRepository
	keywords   KeywordRepository
}

var _ discovery.Store = (*DirectoryStore)(nil)

func NewDirectoryStore(businesses BusinessRepository, categories CategoryRepository, keywords KeywordRepository) *DirectoryStore {
	return &DirectoryStore{
		businesses: businesses,
		categories: categories,
		keywords:   keywords,
	}
}

func (s *DirectoryStore) FetchBusinessesByCategory(ctx context.Context, categoryName string) ([]model.Business, error) {
	return s.businesses.FindByCategory(ctx, categoryName)
}

func (s *DirectoryStore) FetchBusinessesFiltered(ctx context.Context, spec discovery.FilterSpec, limit int) ([]model.Business, error) {
	return s.businesses.FindFiltered(ctx, spec, limit)
}

func (s *DirectoryStore) FetchAllActiveBusinesses(ctx context.Context) ([]model.Business, error) {
	return s.businesses.FindAllActive(ctx)
}

func (s *DirectoryStore) FetchActiveCategories(ctx context.Context) ([]model.Category, error) {
	return s.categories.FindActive(ctx)
}

func (s *DirectoryStore) FetchActiveKeywordRules(ctx context.Context, region string) ([]model.KeywordRule, error) {
	return s.keywords.FindActive(ctx, region)
}
