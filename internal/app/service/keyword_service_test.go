package service

import (
	"context"
	"testing"

	"github.com/ikkim/bizdir-backend/internal/app/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupKeywordServiceTest(t *testing.T) (*testEnv, KeywordService, *countingInvalidator) {
	env := setupTestEnv(t)
	env.seedDirectory(t)
	invalidator := &countingInvalidator{}
	return env, NewKeywordService(env.keywordRepo, env.categoryRepo, invalidator), invalidator
}

func TestKeywordService_CreateKeyword(t *testing.T) {
	env, svc, invalidator := setupKeywordServiceTest(t)
	ctx := context.Background()
	restaurants := env.categories["Restaurants"].ID

	tests := []struct {
		name    string
		input   KeywordInput
		wantErr error
	}{
		{
			name:  "defaults region and priority",
			input: KeywordInput{CategoryID: restaurants, Keyword: "  Shawarma "},
		},
		{
			name:    "blank keyword",
			input:   KeywordInput{CategoryID: restaurants, Keyword: "   "},
			wantErr: ErrKeywordRequired,
		},
		{
			name:    "priority out of range",
			input:   KeywordInput{CategoryID: restaurants, Keyword: "grill", Priority: 9},
			wantErr: ErrInvalidKeywordPriority,
		},
		{
			name:    "unknown category",
			input:   KeywordInput{CategoryID: 9999, Keyword: "grill"},
			wantErr: ErrCategoryNotFound,
		},
		{
			name:    "duplicate keyword",
			input:   KeywordInput{CategoryID: restaurants, Keyword: "KOSHARY"},
			wantErr: ErrKeywordAlreadyExists,
		},
		{
			name:  "same keyword in another region",
			input: KeywordInput{CategoryID: restaurants, Keyword: "koshary", Region: "EG", Priority: 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := invalidator.calls
			rule, err := svc.CreateKeyword(ctx, tt.input, "admin@example.com")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, before, invalidator.calls)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, before+1, invalidator.calls)
			assert.True(t, rule.IsActive)
			assert.Equal(t, "admin@example.com", rule.CreatedBy)
			assert.Equal(t, "Restaurants", rule.Category.Name)
		})
	}

	rules, err := svc.ListKeywords(repository.KeywordFilter{Search: "shawarma"})
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "shawarma", rules[0].Keyword)
	assert.Equal(t, "global", rules[0].Region)
	assert.Equal(t, 3, rules[0].Priority)

	regional, err := svc.ListKeywords(repository.KeywordFilter{Region: "eg"})
	require.NoError(t, err)
	require.Len(t, regional, 1)
	assert.Equal(t, 5, regional[0].Priority)
}

func TestKeywordService_UpdateAndToggle(t *testing.T) {
	env, svc, invalidator := setupKeywordServiceTest(t)
	ctx := context.Background()

	rule, err := svc.CreateKeyword(ctx, KeywordInput{CategoryID: env.categories["Restaurants"].ID, Keyword: "grill"}, "admin")
	require.NoError(t, err)

	updated, err := svc.UpdateKeyword(ctx, rule.ID, KeywordInput{
		CategoryID: env.categories["Cafes"].ID,
		Keyword:    "grill house",
		Priority:   4,
	})
	require.NoError(t, err)
	assert.Equal(t, "grill house", updated.Keyword)
	assert.Equal(t, "Cafes", updated.Category.Name)
	assert.Equal(t, 4, updated.Priority)

	toggled, err := svc.ToggleKeyword(ctx, rule.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)

	toggled, err = svc.ToggleKeyword(ctx, rule.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsActive)

	assert.Equal(t, 4, invalidator.calls)

	_, err = svc.UpdateKeyword(ctx, 9999, KeywordInput{Keyword: "x"})
	assert.ErrorIs(t, err, ErrKeywordNotFound)
}

func TestKeywordService_DeleteKeyword(t *testing.T) {
	env, svc, _ := setupKeywordServiceTest(t)
	ctx := context.Background()

	rule, err := svc.CreateKeyword(ctx, KeywordInput{CategoryID: env.categories["Cafes"].ID, Keyword: "ahwa"}, "admin")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteKeyword(ctx, rule.ID))
	assert.ErrorIs(t, svc.DeleteKeyword(ctx, rule.ID), ErrKeywordNotFound)

	_, err = svc.GetKeyword(rule.ID)
	assert.ErrorIs(t, err, ErrKeywordNotFound)
}

func TestKeywordService_InvalidatesRealCache(t *testing.T) {
	env := setupTestEnv(t)
	env.seedDirectory(t)
	svc := NewKeywordService(env.keywordRepo, env.categoryRepo, env.rules)
	categorizer := NewCategorizationService(env.businessRepo, env.categoryRepo, env.rules)
	ctx := context.Background()

	before, err := categorizer.Preview(ctx, "Feteer Palace", "", "")
	require.NoError(t, err)
	assert.True(t, before.Fallback)

	_, err = svc.CreateKeyword(ctx, KeywordInput{CategoryID: env.categories["Restaurants"].ID, Keyword: "feteer"}, "admin")
	require.NoError(t, err)

	after, err := categorizer.Preview(ctx, "Feteer Palace", "", "")
	require.NoError(t, err)
	assert.Equal(t, "Restaurants", after.CategoryName)
}
