package db

import (
	"github.com/ikkim/bizdir-backend/internal/app/model"
	"github.com/ikkim/bizdir-backend/pkg/logger"
	"gorm.io/gorm"
)

// Models lists every table owned by the service, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&model.Category{},
		&model.Business{},
		&model.BusinessCategory{},
		&model.KeywordRule{},
	}
}

// AutoMigrate registers the business/category join model and migrates every table.
func AutoMigrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&model.Business{}, "Categories", &model.BusinessCategory{}); err != nil {
		return err
	}
	return db.AutoMigrate(Models()...)
}

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := AutoMigrate(DB); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed adds the default categories and keyword dictionary (optional)
func Seed() error {
	return SeedDefaults(DB)
}

type seedCategory struct {
	name      string
	localName string
	icon      string
	keywords  []string
}

// defaultDictionary is the starter dictionary; administrators curate it afterwards.
var defaultDictionary = []seedCategory{
	{name: "Restaurants", localName: "مطاعم", icon: "utensils", keywords: []string{"restaurant", "koshary", "grill", "pizza", "shawarma", "fine dining restaurant", "مطعم"}},
	{name: "Cafes", localName: "مقاهي", icon: "coffee", keywords: []string{"cafe", "coffee", "ahwa", "قهوة"}},
	{name: "Shopping", localName: "تسوق", icon: "bag", keywords: []string{"mall", "boutique", "market", "store"}},
	{name: "Health", localName: "صحة", icon: "heart", keywords: []string{"pharmacy", "clinic", "hospital", "صيدلية"}},
	{name: "Services", localName: "خدمات", icon: "wrench", keywords: []string{"repair", "laundry", "salon", "car wash"}},
}

// SeedDefaults creates the starter categories and keywords when the categories table is empty.
func SeedDefaults(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Category{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Categories already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	logger.Info("Seeding default categories and keywords...")

	return db.Transaction(func(tx *gorm.DB) error {
		keywordCount := 0
		for _, entry := range defaultDictionary {
			category := model.Category{
				Name:      entry.name,
				LocalName: entry.localName,
				Icon:      entry.icon,
				IsActive:  true,
			}
			if err := tx.Create(&category).Error; err != nil {
				logger.Error("Failed to create category", err, map[string]interface{}{
					"name": entry.name,
				})
				return err
			}

			for _, keyword := range entry.keywords {
				rule := model.KeywordRule{
					CategoryID: category.ID,
					Keyword:    keyword,
					Region:     model.RegionGlobal,
					Priority:   model.DefaultKeywordPriority,
					IsActive:   true,
					CreatedBy:  "system",
				}
				if err := tx.Omit("Category").Create(&rule).Error; err != nil {
					return err
				}
				keywordCount++
			}
		}

		logger.Info("Default dictionary seeded successfully", map[string]interface{}{
			"categories": len(defaultDictionary),
			"keywords":   keywordCount,
		})
		return nil
	})
}
