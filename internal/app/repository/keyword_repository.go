package repository

import (
	"context"
	"strings"

	"github.com/ikkim/bizdir-backend/internal/app/model"
	"github.com/ikkim/bizdir-backend/pkg/logger"
	"gorm.io/gorm"
)

type KeywordFilter struct {
	CategoryID      *uint
	Region          string
	Search          string
	IncludeInactive bool
}

type KeywordRepository interface {
	Create(rule *model.KeywordRule) error
	Update(rule *model.KeywordRule) error
	Delete(id uint) error
	FindByID(id uint) (*model.KeywordRule, error)
	FindAll(filter KeywordFilter) ([]model.KeywordRule, error)
	FindActive(ctx context.Context, region string) ([]model.KeywordRule, error)
	SetActive(id uint, active bool) error
}

type keywordRepository struct {
	db *gorm.DB
}

func NewKeywordRepository(db *gorm.DB) KeywordRepository {
	return &keywordRepository{db: db}
}

func (r *keywordRepository) Create(rule *model.KeywordRule) error {
	logger.Debug("Creating keyword rule in database", map[string]interface{}{
		"keyword":     rule.Keyword,
		"category_id": rule.CategoryID,
		"region":      rule.Region,
	})

	if err := r.db.Omit("Category").Create(rule).Error; err != nil {
		logger.Error("Failed to create keyword rule in database", err, map[string]interface{}{
			"keyword":     rule.Keyword,
			"category_id": rule.CategoryID,
		})
		return err
	}
	return nil
}

func (r *keywordRepository) Update(rule *model.KeywordRule) error {
	if err := r.db.Omit("Category").Save(rule).Error; err != nil {
		logger.Error("Failed to update keyword rule in database", err, map[string]interface{}{
			"rule_id": rule.ID,
		})
		return err
	}
	return nil
}

func (r *keywordRepository) Delete(id uint) error {
	result := r.db.Delete(&model.KeywordRule{}, id)
	if result.Error != nil {
		logger.Error("Failed to delete keyword rule from database", result.Error, map[string]interface{}{
			"rule_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *keywordRepository) FindByID(id uint) (*model.KeywordRule, error) {
	var rule model.KeywordRule
	if err := r.db.Preload("Category").First(&rule, id).Error; err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *keywordRepository) FindAll(filter KeywordFilter) ([]model.KeywordRule, error) {
	query := r.db.Preload("Category").Order("category_id ASC, keyword ASC")

	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Region != "" {
		query = query.Where("region = ?", strings.ToLower(filter.Region))
	}
	if filter.Search != "" {
		query = query.Where("LOWER(keyword) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}
	if !filter.IncludeInactive {
		query = query.Where("is_active = ?", true)
	}

	var rules []model.KeywordRule
	if err := query.Find(&rules).Error; err != nil {
		logger.Error("Failed to list keyword rules", err)
		return nil, err
	}
	return rules, nil
}

// FindActive returns active rules for region plus the global ones. An empty region returns
// active rules of every region.
func (r *keywordRepository) FindActive(ctx context.Context, region string) ([]model.KeywordRule, error) {
	query := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id ASC")

	if region = strings.ToLower(strings.TrimSpace(region)); region != "" && region != model.RegionGlobal {
		query = query.Where("region IN ?", []string{model.RegionGlobal, region})
	}

	var rules []model.KeywordRule
	if err := query.Find(&rules).Error; err != nil {
		logger.Error("Failed to load active keyword rules", err, map[string]interface{}{
			"region": region,
		})
		return nil, err
	}

	logger.Debug("Active keyword rules loaded", map[string]interface{}{
		"region": region,
		"count":  len(rules),
	})
	return rules, nil
}

func (r *keywordRepository) SetActive(id uint, active bool) error {
	result := r.db.Model(&model.KeywordRule{}).Where("id = ?", id).Update("is_active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
