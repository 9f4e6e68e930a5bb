package service

import (
	"context"
	"testing"

	"github.com/ikkim/bizdir-backend/internal/app/model"
	"github.com/ikkim/bizdir-backend/internal/app/repository"
	"github.com/ikkim/bizdir-backend/internal/cache"
	"github.com/ikkim/bizdir-backend/internal/db"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	db           *gorm.DB
	businessRepo repository.BusinessRepository
	categoryRepo repository.CategoryRepository
	keywordRepo  repository.KeywordRepository
	store        *repository.DirectoryStore
	rules        *cache.KeywordCache

	categories map[string]*model.Category
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	env := &testEnv{
		db:           testDB,
		businessRepo: repository.NewBusinessRepository(testDB),
		categoryRepo: repository.NewCategoryRepository(testDB),
		keywordRepo:  repository.NewKeywordRepository(testDB),
		categories:   make(map[string]*model.Category),
	}
	env.store = repository.NewDirectoryStore(env.businessRepo, env.categoryRepo, env.keywordRepo)
	env.rules = cache.NewKeywordCache(env.store, cache.Options{FallbackCategory: "Shopping"})
	return env
}

func (e *testEnv) addCategory(t *testing.T, name string, aliases ...string) *model.Category {
	t.Helper()
	category := &model.Category{Name: name, Aliases: aliases, IsActive: true}
	require.NoError(t, e.categoryRepo.Create(category))
	e.categories[name] = category
	return category
}

func (e *testEnv) addKeyword(t *testing.T, category, keyword string, priority int) *model.KeywordRule {
	t.Helper()
	rule := &model.KeywordRule{
		CategoryID: e.categories[category].ID,
		Keyword:    keyword,
		Region:     model.RegionGlobal,
		Priority:   priority,
		IsActive:   true,
	}
	require.NoError(t, e.keywordRepo.Create(rule))
	return rule
}

func (e *testEnv) addBusiness(t *testing.T, b model.Business) *model.Business {
	t.Helper()
	if b.Status == "" {
		b.Status = model.BusinessStatusActive
	}
	require.NoError(t, e.businessRepo.Create(&b))
	return &b
}

func (e *testEnv) link(t *testing.T, businessID uint, category string) {
	t.Helper()
	require.NoError(t, e.categoryRepo.UpsertLink(context.Background(), businessID, e.categories[category].ID))
}

// seedDirectory creates the standard dictionary: Restaurants, Cafes and the Shopping fallback.
func (e *testEnv) seedDirectory(t *testing.T) {
	t.Helper()
	e.addCategory(t, "Restaurants", "food")
	e.addCategory(t, "Cafes")
	e.addCategory(t, "Shopping")
	e.addKeyword(t, "Restaurants", "restaurant", 3)
	e.addKeyword(t, "Restaurants", "koshary", 3)
	e.addKeyword(t, "Cafes", "cafe", 3)
	e.addKeyword(t, "Cafes", "coffee", 3)
}

type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) Invalidate(ctx context.Context) {
	c.calls++
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func linkedCategoryIDs(t *testing.T, repo repository.CategoryRepository, businessID uint) []uint {
	t.Helper()
	links, err := repo.FindLinks(context.Background(), businessID)
	require.NoError(t, err)
	out := make([]uint, 0, len(links))
	for _, l := range links {
		out = append(out, l.CategoryID)
	}
	return out
}
