package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ikkim/bizdir-backend/internal/app/model"
	"github.com/ikkim/bizdir-backend/internal/discovery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingSearcher struct{}

func (failingSearcher) SearchSpec(ctx context.Context, spec discovery.FilterSpec) (*discovery.Result, error) {
	return &discovery.Result{Businesses: []model.Business{}, Spec: spec, Degraded: true},
		&discovery.RetrievalError{State: discovery.StateFullScan, Err: errors.New("connection refused")}
}

func setupSearchTest(t *testing.T) (*testEnv, SearchService) {
	env := setupTestEnv(t)
	env.seedDirectory(t)

	engine := discovery.NewEngine(env.store, discovery.EngineOptions{
		Locale:    "en",
		Retriever: discovery.RetrieverOptions{Timeout: 2 * time.Second, Limit: 100},
	})
	return env, NewSearchService(engine, env.rules)
}

func TestSearchService_CategoryScopedSearch(t *testing.T) {
	env, svc := setupSearchTest(t)

	// ten businesses, three active restaurants
	var restaurants []uint
	for i := 0; i < 10; i++ {
		b := model.Business{Name: "Place", Rating: floatPtr(float64(i % 5))}
		if i == 7 {
			b.Status = model.BusinessStatusPending
		}
		created := env.addBusiness(t, b)
		if i < 3 || i == 7 {
			env.link(t, created.ID, "Restaurants")
			if i < 3 {
				restaurants = append(restaurants, created.ID)
			}
		} else {
			env.link(t, created.ID, "Shopping")
		}
	}

	result := svc.Search(context.Background(), discovery.RawParams{Category: "Restaurants"})

	assert.Equal(t, discovery.StateCategoryScoped, result.Strategy)
	assert.False(t, result.Degraded)
	assert.Equal(t, 3, result.Count)
	var ids []uint
	for _, b := range result.Businesses {
		ids = append(ids, b.ID)
		assert.Equal(t, model.BusinessStatusActive, b.Status)
	}
	assert.Equal(t, restaurants, ids)
}

func TestSearchService_CategoryAlias(t *testing.T) {
	env, svc := setupSearchTest(t)

	b := env.addBusiness(t, model.Business{Name: "Felfela"})
	env.link(t, b.ID, "Restaurants")
	env.addBusiness(t, model.Business{Name: "Zara"})

	result := svc.Search(context.Background(), discovery.RawParams{Category: " FOOD "})
	require.Equal(t, 1, result.Count)
	assert.Equal(t, b.ID, result.Businesses[0].ID)
}

func TestSearchService_RatingFilterAndSort(t *testing.T) {
	env, svc := setupSearchTest(t)

	low := env.addBusiness(t, model.Business{Name: "Low", Rating: floatPtr(3.2)})
	high := env.addBusiness(t, model.Business{Name: "High", Rating: floatPtr(4.8)})
	mid := env.addBusiness(t, model.Business{Name: "Mid", Rating: floatPtr(4.1)})
	env.addBusiness(t, model.Business{Name: "Unrated"})

	result := svc.Search(context.Background(), discovery.RawParams{Rating: "4", Sort: "rating"})

	assert.Equal(t, discovery.StateGeneralFiltered, result.Strategy)
	assert.Equal(t, discovery.SortRating, result.Sort)
	require.Equal(t, 2, result.Count)
	assert.Equal(t, high.ID, result.Businesses[0].ID)
	assert.Equal(t, mid.ID, result.Businesses[1].ID)
	assert.NotEqual(t, low.ID, result.Businesses[1].ID)
}

func TestSearchService_InvalidParamsDegradeToDefaults(t *testing.T) {
	env, svc := setupSearchTest(t)
	env.addBusiness(t, model.Business{Name: "A"})
	env.addBusiness(t, model.Business{Name: "B"})

	result := svc.Search(context.Background(), discovery.RawParams{Rating: "lots", Price: "cheap", Sort: "random"})

	assert.Equal(t, discovery.SortRelevance, result.Sort)
	assert.Equal(t, 2, result.Count)
	assert.Empty(t, result.Message)
}

func TestSearchService_TotalFailure(t *testing.T) {
	svc := NewSearchService(failingSearcher{}, nil)

	result := svc.Search(context.Background(), discovery.RawParams{Query: "koshary"})

	assert.Equal(t, 0, result.Count)
	assert.NotNil(t, result.Businesses)
	assert.Empty(t, result.Businesses)
	assert.True(t, result.Degraded)
	assert.Equal(t, SearchUnavailableMessage, result.Message)
}

func TestSearchService_NameSortBeyondLimit(t *testing.T) {
	env := setupTestEnv(t)
	env.seedDirectory(t)
	for _, name := range []string{"Zeta Cafe", "Yellow Cafe", "apple cafe"} {
		env.addBusiness(t, model.Business{Name: name})
	}
	engine := discovery.NewEngine(env.store, discovery.EngineOptions{
		Locale:    "en",
		Retriever: discovery.RetrieverOptions{Limit: 2},
	})
	svc := NewSearchService(engine, env.rules)

	result := svc.Search(context.Background(), discovery.RawParams{Query: "cafe", Sort: "name"})

	assert.Equal(t, discovery.StateGeneralFiltered, result.Strategy)
	require.Equal(t, 2, result.Count)
	assert.Equal(t, "apple cafe", result.Businesses[0].Name)
	assert.Equal(t, "Yellow Cafe", result.Businesses[1].Name)
}
