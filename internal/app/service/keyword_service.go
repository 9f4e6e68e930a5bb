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
	ErrKeywordNotFound        = errors.New("keyword rule not found")
	ErrKeywordRequired        = errors.New("keyword is required")
	ErrKeywordAlreadyExists   = errors.New("keyword already exists for category and region")
	ErrInvalidKeywordPriority = errors.New("priority must be between 1 and 5")
)

type KeywordInput struct {
	CategoryID uint
	Keyword    string
	Region     string
	Priority   int   // 0 = default
	IsActive   *bool // nil = true on create, unchanged on update
}

type KeywordService interface {
	ListKeywords(filter repository.KeywordFilter) ([]model.KeywordRule, error)
	GetKeyword(id uint) (*model.KeywordRule, error)
	CreateKeyword(ctx context.Context, input KeywordInput, createdBy string) (*model.KeywordRule, error)
	UpdateKeyword(ctx context.Context, id uint, input KeywordInput) (*model.KeywordRule, error)
	DeleteKeyword(ctx context.Context, id uint) error
	ToggleKeyword(ctx context.Context, id uint) (*model.KeywordRule, error)
}

type keywordService struct {
	keywordRepo  repository.KeywordRepository
	categoryRepo repository.CategoryRepository
	cache        CacheInvalidator
}

func NewKeywordService(keywordRepo repository.KeywordRepository, categoryRepo repository.CategoryRepository, cache CacheInvalidator) KeywordService {
	return &keywordService{
		keywordRepo:  keywordRepo,
		categoryRepo: categoryRepo,
		cache:        cache,
	}
}

func (s *keywordService) ListKeywords(filter repository.KeywordFilter) ([]model.KeywordRule, error) {
	return s.keywordRepo.FindAll(filter)
}

func (s *keywordService) GetKeyword(id uint) (*model.KeywordRule, error) {
	rule, err := s.keywordRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKeywordNotFound
		}
		return nil, err
	}
	return rule, nil
}

func (s *keywordService) CreateKeyword(ctx context.Context, input KeywordInput, createdBy string) (*model.KeywordRule, error) {
	rule := &model.KeywordRule{
		CategoryID: input.CategoryID,
		IsActive:   input.IsActive == nil || *input.IsActive,
		CreatedBy:  createdBy,
	}
	if err := s.applyInput(rule, input); err != nil {
		return nil, err
	}

	if err := s.keywordRepo.Create(rule); err != nil {
		return nil, err
	}

	logger.Info("Keyword rule created", map[string]interface{}{
		"rule_id":     rule.ID,
		"keyword":     rule.Keyword,
		"category_id": rule.CategoryID,
		"region":      rule.Region,
		"priority":    rule.Priority,
	})
	s.invalidate(ctx)
	return s.GetKeyword(rule.ID)
}

func (s *keywordService) UpdateKeyword(ctx context.Context, id uint, input KeywordInput) (*model.KeywordRule, error) {
	rule, err := s.GetKeyword(id)
	if err != nil {
		return nil, err
	}

	if input.CategoryID == 0 {
		input.CategoryID = rule.CategoryID
	}
	rule.CategoryID = input.CategoryID
	if input.IsActive != nil {
		rule.IsActive = *input.IsActive
	}
	if err := s.applyInput(rule, input); err != nil {
		return nil, err
	}

	if err := s.keywordRepo.Update(rule); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return s.GetKeyword(id)
}

func (s *keywordService) DeleteKeyword(ctx context.Context, id uint) error {
	if err := s.keywordRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrKeywordNotFound
		}
		return err
	}

	logger.Info("Keyword rule deleted", map[string]interface{}{
		"rule_id": id,
	})
	s.invalidate(ctx)
	return nil
}

func (s *keywordService) ToggleKeyword(ctx context.Context, id uint) (*model.KeywordRule, error) {
	rule, err := s.GetKeyword(id)
	if err != nil {
		return nil, err
	}

	if err := s.keywordRepo.SetActive(id, !rule.IsActive); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return s.GetKeyword(id)
}

// applyInput validates input and copies it onto rule. rule.CategoryID must already be set.
func (s *keywordService) applyInput(rule *model.KeywordRule, input KeywordInput) error {
	keyword := strings.ToLower(strings.TrimSpace(input.Keyword))
	if keyword == "" {
		return ErrKeywordRequired
	}

	priority := input.Priority
	if priority == 0 {
		priority = model.DefaultKeywordPriority
	}
	if priority < model.MinKeywordPriority || priority > model.MaxKeywordPriority {
		return ErrInvalidKeywordPriority
	}

	region := strings.ToLower(strings.TrimSpace(input.Region))
	if region == "" {
		region = model.RegionGlobal
	}

	if _, err := s.categoryRepo.FindByID(rule.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}

	categoryID := rule.CategoryID
	existing, err := s.keywordRepo.FindAll(repository.KeywordFilter{
		CategoryID:      &categoryID,
		Region:          region,
		IncludeInactive: true,
	})
	if err != nil {
		return err
	}
	for _, other := range existing {
		if other.ID != rule.ID && other.Keyword == keyword {
			return ErrKeywordAlreadyExists
		}
	}

	rule.Keyword = keyword
	rule.Priority = priority
	rule.Region = region
	return nil
}

func (s *keywordService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}
