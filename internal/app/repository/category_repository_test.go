package repository

import (
	"context"
	"testing"

	"github.com/ikkim/bizdir-backend/internal/app/model"
	"github.com/ikkim/bizdir-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryRepository_FindAll(t *testing.T) {
	testDB, _, repo := setupBusinessTest(t)
	defer db.CleanupTestDB(testDB)

	require.NoError(t, repo.Create(&model.Category{Name: "Shopping", IsActive: true}))
	require.NoError(t, repo.Create(&model.Category{Name: "Archive", IsActive: false}))
	require.NoError(t, repo.Create(&model.Category{Name: "Cafes", IsActive: true, Aliases: []string{"coffee shops"}}))

	active, err := repo.FindAll(false)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "Cafes", active[0].Name)
	assert.Equal(t, []string{"coffee shops"}, []string(active[0].Aliases))

	all, err := repo.FindAll(true)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestCategoryRepository_UpsertLinkIsIdempotent(t *testing.T) {
	testDB, businesses, repo := setupBusinessTest(t)
	defer db.CleanupTestDB(testDB)
	ctx := context.Background()

	category := &model.Category{Name: "Restaurants", IsActive: true}
	require.NoError(t, repo.Create(category))
	business := createBusiness(t, businesses, model.Business{Name: "Koshary"})

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.UpsertLink(ctx, business.ID, category.ID))
	}

	count, err := repo.CountLinks(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestCategoryRepository_ReplaceLinks(t *testing.T) {
	testDB, businesses, repo := setupBusinessTest(t)
	defer db.CleanupTestDB(testDB)
	ctx := context.Background()

	shopping := &model.Category{Name: "Shopping", IsActive: true}
	restaurants := &model.Category{Name: "Restaurants", IsActive: true}
	require.NoError(t, repo.Create(shopping))
	require.NoError(t, repo.Create(restaurants))

	business := createBusiness(t, businesses, model.Business{Name: "Koshary"})
	require.NoError(t, repo.UpsertLink(ctx, business.ID, shopping.ID))

	change, err := repo.ReplaceLinks(ctx, business.ID, restaurants.ID)
	require.NoError(t, err)
	assert.True(t, change.Created)
	assert.Equal(t, int64(1), change.Removed)

	links, err := repo.FindLinks(ctx, business.ID)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, restaurants.ID, links[0].CategoryID)

	// second run is a no-op
	change, err = repo.ReplaceLinks(ctx, business.ID, restaurants.ID)
	require.NoError(t, err)
	assert.False(t, change.Created)
	assert.Zero(t, change.Removed)
}

func TestCategoryRepository_DeleteRemovesLinksAndRules(t *testing.T) {
	testDB, businesses, repo := setupBusinessTest(t)
	defer db.CleanupTestDB(testDB)
	ctx := context.Background()
	keywords := NewKeywordRepository(testDB)

	category := &model.Category{Name: "Nightlife", IsActive: true}
	require.NoError(t, repo.Create(category))
	business := createBusiness(t, businesses, model.Business{Name: "Club"})
	require.NoError(t, repo.UpsertLink(ctx, business.ID, category.ID))
	require.NoError(t, keywords.Create(&model.KeywordRule{
		CategoryID: category.ID, Keyword: "club", Region: model.RegionGlobal, Priority: 3, IsActive: true,
	}))

	require.NoError(t, repo.Delete(category.ID))

	count, err := repo.CountLinks(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	rules, err := keywords.FindActive(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, rules)
}
