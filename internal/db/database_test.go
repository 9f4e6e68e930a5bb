package db

import (
	"context"
	"testing"
	"time"

	"github.com/ikkim/bizdir-backend/config"
	"github.com/ikkim/bizdir-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPingDB(t *testing.T) {
	testDB, err := SetupTestDB()
	require.NoError(t, err)
	defer CleanupTestDB(testDB)

	assert.NoError(t, PingDB(context.Background(), testDB))
	assert.ErrorIs(t, PingDB(context.Background(), nil), errNotInitialized)
}

func TestGormLogger(t *testing.T) {
	assert.NotNil(t, gormLogger(&config.DatabaseConfig{}))
	assert.NotNil(t, gormLogger(&config.DatabaseConfig{SlowQuery: 200 * time.Millisecond}))
}

func TestSeedDefaultsIsIdempotent(t *testing.T) {
	testDB, err := SetupTestDB()
	require.NoError(t, err)
	defer CleanupTestDB(testDB)

	require.NoError(t, SeedDefaults(testDB))
	var categories, rules int64
	require.NoError(t, testDB.Model(&model.Category{}).Count(&categories).Error)
	require.NoError(t, testDB.Model(&model.KeywordRule{}).Count(&rules).Error)
	assert.Positive(t, categories)
	assert.Positive(t, rules)

	require.NoError(t, SeedDefaults(testDB))
	var again int64
	require.NoError(t, testDB.Model(&model.Category{}).Count(&again).Error)
	assert.Equal(t, categories, again)
}
