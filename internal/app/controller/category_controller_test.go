package controller

import (
	"fmt"
	"net/http"
	"testing"

	apperrors "github.com/ikkim/bizdir-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryController_ListCategories(t *testing.T) {
	env := setupControllerTest(t)
	env.seedDictionary(t)
	inactive := env.addCategory(t, "Nightlife")
	inactive.IsActive = false
	require.NoError(t, env.categoryRepo.Update(inactive))

	w := env.do(t, http.MethodGet, "/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(3), decode(t, w)["count"])

	w = env.do(t, http.MethodGet, "/categories?include_inactive=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(4), decode(t, w)["count"])
}

func TestCategoryController_CreateAndUpdate(t *testing.T) {
	env := setupControllerTest(t)
	env.seedDictionary(t)

	w := env.do(t, http.MethodPost, "/admin/categories", map[string]interface{}{
		"name":       "Health",
		"local_name": "صحة",
		"aliases":    []string{"medical", " Medical ", ""},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	category := decode(t, w)["category"].(map[string]interface{})
	assert.Equal(t, "Health", category["name"])
	assert.Equal(t, []interface{}{"medical"}, category["aliases"])
	assert.Equal(t, true, category["is_active"])

	id := uint(category["id"].(float64))
	w = env.do(t, http.MethodPut, fmt.Sprintf("/admin/categories/%d", id), map[string]interface{}{
		"name":      "Healthcare",
		"is_active": false,
	})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode(t, w)["category"].(map[string]interface{})
	assert.Equal(t, "Healthcare", updated["name"])
	assert.Equal(t, false, updated["is_active"])

	w = env.do(t, http.MethodGet, fmt.Sprintf("/categories/%d", id), nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestCategoryController_Errors(t *testing.T) {
	env := setupControllerTest(t)
	env.seedDictionary(t)
	fallbackID := env.categories[testFallbackCategory].ID

	tests := []struct {
		name       string
		method     string
		path       string
		body       map[string]interface{}
		wantStatus int
		wantCode   string
	}{
		{"blank name", http.MethodPost, "/admin/categories", map[string]interface{}{"name": " "}, http.StatusBadRequest, apperrors.ValidationRequired},
		{"duplicate name", http.MethodPost, "/admin/categories", map[string]interface{}{"name": "Cafes"}, http.StatusConflict, apperrors.CategoryAlreadyExists},
		{"unknown category", http.MethodGet, "/categories/999", nil, http.StatusNotFound, apperrors.CategoryNotFound},
		{"invalid id", http.MethodGet, "/categories/x", nil, http.StatusBadRequest, apperrors.ValidationInvalidID},
		{"delete fallback", http.MethodDelete, fmt.Sprintf("/admin/categories/%d", fallbackID), nil, http.StatusConflict, apperrors.CategoryInUse},
		{"deactivate fallback", http.MethodPut, fmt.Sprintf("/admin/categories/%d", fallbackID), map[string]interface{}{"is_active": false}, http.StatusConflict, apperrors.CategoryInUse},
		{"rename fallback", http.MethodPut, fmt.Sprintf("/admin/categories/%d", fallbackID), map[string]interface{}{"name": "Retail"}, http.StatusConflict, apperrors.CategoryInUse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			assert.Equal(t, tt.wantCode, decode(t, w)["error"])
		})
	}
}

func TestCategoryController_DeleteCategory(t *testing.T) {
	env := setupControllerTest(t)
	env.seedDictionary(t)
	cafes := env.categories["Cafes"]

	w := env.do(t, http.MethodDelete, fmt.Sprintf("/admin/categories/%d", cafes.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, fmt.Sprintf("/categories/%d", cafes.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// 삭제된 카테고리의 키워드는 더 이상 매칭되지 않는다
	w = env.do(t, http.MethodPost, "/admin/keywords/preview", map[string]interface{}{"name": "Corner Cafe"})
	require.Equal(t, http.StatusOK, w.Code)
	resolution := decode(t, w)["resolution"].(map[string]interface{})
	assert.Equal(t, testFallbackCategory, resolution["category_name"])
}
