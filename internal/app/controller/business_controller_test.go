package controller

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/ikkim/bizdir-backend/internal/app/model"
	apperrors "github.com/ikkim/bizdir-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusinessController_CreateBusiness(t *testing.T) {
	env := setupControllerTest(t)
	env.seedDictionary(t)

	tests := []struct {
		name         string
		body         map[string]interface{}
		wantCategory string
		wantFallback bool
	}{
		{
			name:         "keyword in name",
			body:         map[string]interface{}{"name": "Koshary Hind", "address": "Cairo"},
			wantCategory: "Restaurants",
		},
		{
			name:         "keyword in description",
			body:         map[string]interface{}{"name": "Beanery", "description": "Specialty COFFEE roasters"},
			wantCategory: "Cafes",
		},
		{
			name:         "no keyword falls back",
			body:         map[string]interface{}{"name": "Mystery Box"},
			wantCategory: testFallbackCategory,
			wantFallback: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/admin/businesses", tt.body)
			require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

			body := decode(t, w)
			resolution := body["categorization"].(map[string]interface{})
			assert.Equal(t, tt.wantCategory, resolution["category_name"])
			assert.Equal(t, tt.wantFallback, resolution["fallback"])

			business := body["business"].(map[string]interface{})
			assert.Equal(t, string(model.BusinessStatusActive), business["status"])

			id := uint(business["id"].(float64))
			links, err := env.categoryRepo.FindLinks(context.Background(), id)
			require.NoError(t, err)
			require.Len(t, links, 1)
			assert.Equal(t, env.categories[tt.wantCategory].ID, links[0].CategoryID)
		})
	}
}

func TestBusinessController_CreateBusinessValidation(t *testing.T) {
	env := setupControllerTest(t)
	env.seedDictionary(t)

	tests := []struct {
		name     string
		body     map[string]interface{}
		wantCode string
	}{
		{"missing name", map[string]interface{}{"description": "cafe"}, apperrors.ValidationInvalidInput},
		{"blank name", map[string]interface{}{"name": "   "}, apperrors.ValidationRequired},
		{"rating out of range", map[string]interface{}{"name": "Cafe", "rating": 7}, apperrors.ValidationInvalidRange},
		{"price tier out of range", map[string]interface{}{"name": "Cafe", "price_tier": 9}, apperrors.ValidationInvalidRange},
		{"unknown status", map[string]interface{}{"name": "Cafe", "status": "closed"}, apperrors.BusinessInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/admin/businesses", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.wantCode, decode(t, w)["error"])
		})
	}

	w := env.do(t, http.MethodPost, "/admin/businesses", map[string]interface{}{"review_count": -1})
	assert.Equal(t, map[string]interface{}{"name": "required", "review_count": "gte"}, decode(t, w)["fields"])

	all, err := env.businessRepo.FindAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestBusinessController_CreateWithoutFallbackCategory(t *testing.T) {
	env := setupControllerTest(t)
	env.addCategory(t, "Cafes")
	env.addKeyword(t, "Cafes", "cafe")

	w := env.do(t, http.MethodPost, "/admin/businesses", map[string]interface{}{"name": "Mystery Box"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, apperrors.InternalConfigError, decode(t, w)["error"])

	all, err := env.businessRepo.FindAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all, "nothing is stored when categorization is misconfigured")
}

func TestBusinessController_GetUpdateDelete(t *testing.T) {
	env := setupControllerTest(t)
	env.seedDictionary(t)

	w := env.do(t, http.MethodPost, "/admin/businesses", map[string]interface{}{"name": "Corner Cafe"})
	require.Equal(t, http.StatusCreated, w.Code)
	id := uint(decode(t, w)["business"].(map[string]interface{})["id"].(float64))
	path := fmt.Sprintf("/businesses/%d", id)

	w = env.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Corner Cafe", decode(t, w)["business"].(map[string]interface{})["name"])

	// 이름 변경 시 재분류
	w = env.do(t, http.MethodPut, fmt.Sprintf("/admin/businesses/%d", id), map[string]interface{}{
		"name":   "Corner Restaurant",
		"rating": 4.2,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	links, err := env.categoryRepo.FindLinks(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, env.categories["Restaurants"].ID, links[0].CategoryID)

	w = env.do(t, http.MethodDelete, fmt.Sprintf("/admin/businesses/%d", id), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperrors.BusinessNotFound, decode(t, w)["error"])
}

func TestBusinessController_InvalidIDs(t *testing.T) {
	env := setupControllerTest(t)

	tests := []struct {
		method   string
		path     string
		wantCode int
	}{
		{http.MethodGet, "/businesses/abc", http.StatusBadRequest},
		{http.MethodGet, "/businesses/0", http.StatusBadRequest},
		{http.MethodGet, "/businesses/999", http.StatusNotFound},
		{http.MethodDelete, "/admin/businesses/999", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := env.do(t, tt.method, tt.path, nil)
			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}
