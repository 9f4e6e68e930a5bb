package controller

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/bizdir-backend/internal/app/model"
	"github.com/ikkim/bizdir-backend/internal/app/repository"
	"github.com/ikkim/bizdir-backend/internal/app/service"
	"github.com/ikkim/bizdir-backend/internal/cache"
	"github.com/ikkim/bizdir-backend/internal/db"
	"github.com/ikkim/bizdir-backend/internal/discovery"
	"github.com/ikkim/bizdir-backend/internal/middleware"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testFallbackCategory = "Shopping"

type controllerEnv struct {
	db           *gorm.DB
	router       *gin.Engine
	businessRepo repository.BusinessRepository
	categoryRepo repository.CategoryRepository
	keywordRepo  repository.KeywordRepository
	categorizer  service.CategorizationService
	categories   map[string]*model.Category
}

// setupControllerTest wires the full stack over sqlite. Every request is made as an admin.
func setupControllerTest(t *testing.T) *controllerEnv {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	env := &controllerEnv{
		db:           testDB,
		businessRepo: repository.NewBusinessRepository(testDB),
		categoryRepo: repository.NewCategoryRepository(testDB),
		keywordRepo:  repository.NewKeywordRepository(testDB),
		categories:   make(map[string]*model.Category),
	}

	store := repository.NewDirectoryStore(env.businessRepo, env.categoryRepo, env.keywordRepo)
	rules := cache.NewKeywordCache(store, cache.Options{FallbackCategory: testFallbackCategory})
	engine := discovery.NewEngine(store, discovery.EngineOptions{Locale: "en"})

	env.categorizer = service.NewCategorizationService(env.businessRepo, env.categoryRepo, rules)
	searchController := NewSearchController(service.NewSearchService(engine, rules))
	businessController := NewBusinessController(service.NewBusinessService(env.businessRepo, env.categorizer))
	categoryController := NewCategoryController(service.NewCategoryService(env.categoryRepo, rules, testFallbackCategory))
	keywordController := NewKeywordController(service.NewKeywordService(env.keywordRepo, env.categoryRepo, rules), env.categorizer)
	recategorizeController := NewRecategorizeController(env.categorizer, 1)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, uint(1))
		c.Set(middleware.UserEmailKey, "ops@example.com")
		c.Set(middleware.UserRoleKey, model.RoleAdmin)
		c.Next()
	})

	router.GET("/businesses/search", searchController.SearchBusinesses)
	router.GET("/businesses/:id", businessController.GetBusiness)
	router.POST("/admin/businesses", businessController.CreateBusiness)
	router.PUT("/admin/businesses/:id", businessController.UpdateBusiness)
	router.DELETE("/admin/businesses/:id", businessController.DeleteBusiness)

	router.GET("/categories", categoryController.ListCategories)
	router.GET("/categories/:id", categoryController.GetCategory)
	router.POST("/admin/categories", categoryController.CreateCategory)
	router.PUT("/admin/categories/:id", categoryController.UpdateCategory)
	router.DELETE("/admin/categories/:id", categoryController.DeleteCategory)

	router.GET("/admin/keywords", keywordController.ListKeywords)
	router.POST("/admin/keywords", keywordController.CreateKeyword)
	router.POST("/admin/keywords/preview", keywordController.PreviewCategorization)
	router.PUT("/admin/keywords/:id", keywordController.UpdateKeyword)
	router.DELETE("/admin/keywords/:id", keywordController.DeleteKeyword)
	router.PATCH("/admin/keywords/:id/toggle", keywordController.ToggleKeyword)

	router.POST("/admin/recategorize", recategorizeController.Recategorize)
	router.GET("/admin/recategorize/report.xlsx", recategorizeController.ExportReport)

	env.router = router
	return env
}

func (e *controllerEnv) addCategory(t *testing.T, name string, aliases ...string) *model.Category {
	t.Helper()
	category := &model.Category{Name: name, Aliases: aliases, IsActive: true}
	require.NoError(t, e.categoryRepo.Create(category))
	e.categories[name] = category
	return category
}

func (e *controllerEnv) addKeyword(t *testing.T, category, keyword string) *model.KeywordRule {
	t.Helper()
	rule := &model.KeywordRule{
		CategoryID: e.categories[category].ID,
		Keyword:    keyword,
		Region:     model.RegionGlobal,
		Priority:   model.DefaultKeywordPriority,
		IsActive:   true,
	}
	require.NoError(t, e.keywordRepo.Create(rule))
	return rule
}

func (e *controllerEnv) addBusiness(t *testing.T, b model.Business) *model.Business {
	t.Helper()
	if b.Status == "" {
		b.Status = model.BusinessStatusActive
	}
	require.NoError(t, e.businessRepo.Create(&b))
	return &b
}

// seedDictionary creates Restaurants (alias "food"), Cafes and the Shopping fallback.
func (e *controllerEnv) seedDictionary(t *testing.T) {
	t.Helper()
	e.addCategory(t, "Restaurants", "food")
	e.addCategory(t, "Cafes")
	e.addCategory(t, testFallbackCategory)
	e.addKeyword(t, "Restaurants", "restaurant")
	e.addKeyword(t, "Restaurants", "koshary")
	e.addKeyword(t, "Cafes", "cafe")
	e.addKeyword(t, "Cafes", "coffee")
}

func (e *controllerEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func floatPtr(f float64) *float64 { return &f }
