package repository

import (
	"context"

	"github.com/ikkim/bizdir-backend/internal/app/model"
	"github.com/ikkim/bizdir-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LinkChange describes what ReplaceLinks did for one business.
type LinkChange struct {
	Created bool
	Removed int64
}

type CategoryRepository interface {
	Create(category *model.Category) error
	Update(category *model.Category) error
	Delete(id uint) error
	FindByID(id uint) (*model.Category, error)
	FindAll(includeInactive bool) ([]model.Category, error)
	FindActive(ctx context.Context) ([]model.Category, error)

	UpsertLink(ctx context.Context, businessID, categoryID uint) error
	ReplaceLinks(ctx context.Context, businessID, categoryID uint) (LinkChange, error)
	FindLinks(ctx context.Context, businessID uint) ([]model.BusinessCategory, error)
	CountLinks(ctx context.Context) (int64, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(category *model.Category) error {
	logger.Debug("Creating category in database", map[string]interface{}{
		"name": category.Name,
	})

	if err := r.db.Create(category).Error; err != nil {
		logger.Error("Failed to create category in database", err, map[string]interface{}{
			"name": category.Name,
		})
		return err
	}
	return nil
}

func (r *categoryRepository) Update(category *model.Category) error {
	if err := r.db.Save(category).Error; err != nil {
		logger.Error("Failed to update category in database", err, map[string]interface{}{
			"category_id": category.ID,
		})
		return err
	}
	return nil
}

// Delete soft-deletes the category and drops its business links and keyword rules.
func (r *categoryRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", id).Delete(&model.BusinessCategory{}).Error; err != nil {
			return err
		}
		if err := tx.Where("category_id = ?", id).Delete(&model.KeywordRule{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.Category{}, id).Error; err != nil {
			logger.Error("Failed to delete category from database", err, map[string]interface{}{
				"category_id": id,
			})
			return err
		}
		return nil
	})
}

func (r *categoryRepository) FindByID(id uint) (*model.Category, error) {
	var category model.Category
	if err := r.db.First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindAll(includeInactive bool) ([]model.Category, error) {
	query := r.db.Order("name ASC")
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}

	var categories []model.Category
	if err := query.Find(&categories).Error; err != nil {
		logger.Error("Failed to list categories", err)
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) FindActive(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&categories).Error; err != nil {
		logger.Error("Failed to list active categories", err)
		return nil, err
	}
	return categories, nil
}

// UpsertLink creates the link unless it already exists.
func (r *categoryRepository) UpsertLink(ctx context.Context, businessID, categoryID uint) error {
	link := model.BusinessCategory{BusinessID: businessID, CategoryID: categoryID}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&link).Error; err != nil {
		logger.Error("Failed to upsert business category link", err, map[string]interface{}{
			"business_id": businessID,
			"category_id": categoryID,
		})
		return err
	}
	return nil
}

// ReplaceLinks makes categoryID the only category of businessID in one transaction.
func (r *categoryRepository) ReplaceLinks(ctx context.Context, businessID, categoryID uint) (LinkChange, error) {
	var change LinkChange
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		link := model.BusinessCategory{BusinessID: businessID, CategoryID: categoryID}
		created := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link)
		if created.Error != nil {
			return created.Error
		}
		change.Created = created.RowsAffected > 0

		removed := tx.Where("business_id = ? AND category_id <> ?", businessID, categoryID).
			Delete(&model.BusinessCategory{})
		if removed.Error != nil {
			return removed.Error
		}
		change.Removed = removed.RowsAffected
		return nil
	})
	if err != nil {
		logger.Error("Failed to replace business category links", err, map[string]interface{}{
			"business_id": businessID,
			"category_id": categoryID,
		})
		return LinkChange{}, err
	}
	return change, nil
}

func (r *categoryRepository) FindLinks(ctx context.Context, businessID uint) ([]model.BusinessCategory, error) {
	var links []model.BusinessCategory
	if err := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("category_id ASC").
		Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

func (r *categoryRepository) CountLinks(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.BusinessCategory{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
