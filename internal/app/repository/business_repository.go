package repository

import (
	"context"
	"strings"

	"github.com/ikkim/bizdir-backend/internal/app/model"
	"github.com/ikkim/bizdir-backend/internal/discovery"
	"github.com/ikkim/bizdir-backend/pkg/logger"
	"gorm.io/gorm"
)

type BusinessRepository interface {
	Create(business *model.Business) error
	Update(business *model.Business) error
	Delete(id uint) error
	FindByID(id uint) (*model.Business, error)
	FindAll(ctx context.Context) ([]model.Business, error)
	FindAllActive(ctx context.Context) ([]model.Business, error)
	FindByCategory(ctx context.Context, categoryName string) ([]model.Business, error)
	FindFiltered(ctx context.Context, spec discovery.FilterSpec, limit int) ([]model.Business, error)
}

type businessRepository struct {
	db *gorm.DB
}

func NewBusinessRepository(db *gorm.DB) BusinessRepository {
	return &businessRepository{db: db}
}

func (r *businessRepository) Create(business *model.Business) error {
	logger.Debug("Creating business in database", map[string]interface{}{
		"name":   business.Name,
		"status": business.Status,
	})

	if err := r.db.Omit("Categories").Create(business).Error; err != nil {
		logger.Error("Failed to create business in database", err, map[string]interface{}{
			"name": business.Name,
		})
		return err
	}

	logger.Debug("Business created in database", map[string]interface{}{
		"business_id": business.ID,
		"name":        business.Name,
	})
	return nil
}

func (r *businessRepository) Update(business *model.Business) error {
	logger.Debug("Updating business in database", map[string]interface{}{
		"business_id": business.ID,
	})

	// Category links are owned by the categorizer.
	if err := r.db.Omit("Categories").Save(business).Error; err != nil {
		logger.Error("Failed to update business in database", err, map[string]interface{}{
			"business_id": business.ID,
		})
		return err
	}
	return nil
}

func (r *businessRepository) Delete(id uint) error {
	logger.Debug("Deleting business from database", map[string]interface{}{
		"business_id": id,
	})

	if err := r.db.Delete(&model.Business{}, id).Error; err != nil {
		logger.Error("Failed to delete business from database", err, map[string]interface{}{
			"business_id": id,
		})
		return err
	}
	return nil
}

func (r *businessRepository) FindByID(id uint) (*model.Business, error) {
	var business model.Business
	if err := r.db.Preload("Categories").First(&business, id).Error; err != nil {
		logger.Error("Failed to find business", err, map[string]interface{}{
			"business_id": id,
		})
		return nil, err
	}
	return &business, nil
}

// FindAll returns every non-deleted business in id order with its category links.
func (r *businessRepository) FindAll(ctx context.Context) ([]model.Business, error) {
	var businesses []model.Business
	if err := r.db.WithContext(ctx).
		Preload("Categories").
		Order("businesses.id ASC").
		Find(&businesses).Error; err != nil {
		logger.Error("Failed to list businesses", err)
		return nil, err
	}
	return businesses, nil
}

func (r *businessRepository) FindAllActive(ctx context.Context) ([]model.Business, error) {
	var businesses []model.Business
	if err := r.db.WithContext(ctx).
		Preload("Categories").
		Where("businesses.status = ?", model.BusinessStatusActive).
		Order("businesses.id ASC").
		Find(&businesses).Error; err != nil {
		logger.Error("Failed to list active businesses", err)
		return nil, err
	}

	logger.Debug("Active businesses loaded", map[string]interface{}{
		"count": len(businesses),
	})
	return businesses, nil
}

// FindByCategory returns active businesses linked to the category matching categoryName by name,
// local name or alias. The match uses model.Category.Matches so it agrees with the in-memory
// category filter.
func (r *businessRepository) FindByCategory(ctx context.Context, categoryName string) ([]model.Business, error) {
	name := strings.TrimSpace(categoryName)
	logger.Debug("Finding businesses by category", map[string]interface{}{
		"category": name,
	})

	var categories []model.Category
	if err := r.db.WithContext(ctx).Find(&categories).Error; err != nil {
		logger.Error("Failed to load categories for lookup", err, map[string]interface{}{
			"category": name,
		})
		return nil, err
	}
	var categoryIDs []uint
	for i := range categories {
		if categories[i].Matches(name) {
			categoryIDs = append(categoryIDs, categories[i].ID)
		}
	}
	if len(categoryIDs) == 0 {
		return []model.Business{}, nil
	}

	linked := r.db.Table("business_categories").
		Select("business_categories.business_id").
		Where("business_categories.category_id IN ?", categoryIDs)

	var businesses []model.Business
	if err := r.db.WithContext(ctx).
		Preload("Categories").
		Where("businesses.status = ?", model.BusinessStatusActive).
		Where("businesses.id IN (?)", linked).
		Order("businesses.id ASC").
		Find(&businesses).Error; err != nil {
		logger.Error("Failed to find businesses by category", err, map[string]interface{}{
			"category": name,
		})
		return nil, err
	}

	logger.Debug("Businesses found by category", map[string]interface{}{
		"category": name,
		"count":    len(businesses),
	})
	return businesses, nil
}

// FindFiltered pushes every predicate of spec (except category) and its sort order into SQL.
func (r *businessRepository) FindFiltered(ctx context.Context, spec discovery.FilterSpec, limit int) ([]model.Business, error) {
	logger.Debug("Finding businesses with filter", map[string]interface{}{
		"query":      spec.Query,
		"location":   spec.Location,
		"min_rating": spec.MinRating,
		"price_tier": spec.PriceTier,
		"sort":       spec.Sort,
		"limit":      limit,
	})

	query := r.db.WithContext(ctx).
		Model(&model.Business{}).
		Preload("Categories").
		Where("businesses.status = ?", model.BusinessStatusActive)

	if spec.Query != "" {
		like := containsPattern(spec.Query)
		query = query.Where(
			`(LOWER(businesses.name) LIKE ? ESCAPE '\' OR LOWER(businesses.description) LIKE ? ESCAPE '\' OR LOWER(businesses.address) LIKE ? ESCAPE '\')`,
			like, like, like,
		)
	}
	if spec.Location != "" {
		query = query.Where(`LOWER(businesses.address) LIKE ? ESCAPE '\'`, containsPattern(spec.Location))
	}
	if spec.MinRating > 0 {
		query = query.Where("COALESCE(businesses.rating, 0) >= ?", spec.MinRating)
	}
	if spec.PriceTier != nil {
		query = query.Where("COALESCE(businesses.price_tier, ?) = ?", model.UnknownPriceTier, *spec.PriceTier)
	}

	switch spec.Sort {
	case discovery.SortRating:
		query = query.Order("COALESCE(businesses.rating, 0) DESC")
	case discovery.SortReviews:
		query = query.Order("businesses.review_count DESC")
	case discovery.SortNewest:
		query = query.Order("businesses.created_at DESC")
	case discovery.SortName:
		query = query.Order("businesses.name ASC")
	}
	query = query.Order("businesses.id ASC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	var businesses []model.Business
	if err := query.Find(&businesses).Error; err != nil {
		logger.Error("Failed to find businesses with filter", err, map[string]interface{}{
			"query": spec.Query,
		})
		return nil, err
	}

	logger.Debug("Businesses found", map[string]interface{}{
		"count": len(businesses),
	})
	return businesses, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}
