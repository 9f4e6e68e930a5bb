package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/bizdir-backend/internal/app/service"
	apperrors "github.com/ikkim/bizdir-backend/internal/errors"
	"github.com/ikkim/bizdir-backend/internal/middleware"
)

type CategoryController struct {
	categoryService service.CategoryService
}

func NewCategoryController(categoryService service.CategoryService) *CategoryController {
	return &CategoryController{categoryService: categoryService}
}

type CategoryRequest struct {
	Name      string   `json:"name"`
	LocalName string   `json:"local_name"`
	Aliases   []string `json:"aliases"`
	Icon      string   `json:"icon"`
	Color     string   `json:"color"`
	IsActive  *bool    `json:"is_active"`
}

func (r CategoryRequest) toInput() service.CategoryInput {
	return service.CategoryInput{
		Name:      r.Name,
		LocalName: r.LocalName,
		Aliases:   r.Aliases,
		Icon:      r.Icon,
		Color:     r.Color,
		IsActive:  r.IsActive,
	}
}

// ListCategories GET /categories
// include_inactive=true 는 관리자 화면용
func (ctrl *CategoryController) ListCategories(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	categories, err := ctrl.categoryService.ListCategories(queryBool(c, "include_inactive"))
	if err != nil {
		log.Error("Failed to list categories", err, nil)
		apperrors.InternalError(c, "Failed to fetch categories")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"count":      len(categories),
	})
}

// GetCategory GET /categories/:id
func (ctrl *CategoryController) GetCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid category ID")
		return
	}

	category, err := ctrl.categoryService.GetCategory(id)
	if err != nil {
		ctrl.respondError(c, err, "get category")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"category": category,
	})
}

// CreateCategory POST /admin/categories
func (ctrl *CategoryController) CreateCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BindingError(c, err, "Invalid category details")
		return
	}

	category, err := ctrl.categoryService.CreateCategory(c.Request.Context(), req.toInput())
	if err != nil {
		ctrl.respondError(c, err, "create category")
		return
	}

	log.Info("Category created", map[string]interface{}{
		"category_id": category.ID,
		"name":        category.Name,
	})

	c.JSON(http.StatusCreated, gin.H{
		"category": category,
	})
}

// UpdateCategory PUT /admin/categories/:id
func (ctrl *CategoryController) UpdateCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid category ID")
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BindingError(c, err, "Invalid category details")
		return
	}

	category, err := ctrl.categoryService.UpdateCategory(c.Request.Context(), id, req.toInput())
	if err != nil {
		ctrl.respondError(c, err, "update category")
		return
	}

	log.Info("Category updated", map[string]interface{}{
		"category_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"category": category,
	})
}

// DeleteCategory DELETE /admin/categories/:id
// 연결된 업체 링크와 키워드 규칙도 함께 삭제
func (ctrl *CategoryController) DeleteCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid category ID")
		return
	}

	if err := ctrl.categoryService.DeleteCategory(c.Request.Context(), id); err != nil {
		ctrl.respondError(c, err, "delete category")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Category deleted",
	})
}

func (ctrl *CategoryController) respondError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, service.ErrCategoryNotFound):
		apperrors.NotFound(c, apperrors.CategoryNotFound, "Category not found")
	case errors.Is(err, service.ErrCategoryNameRequired):
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Category name is required")
	case errors.Is(err, service.ErrFallbackCategoryProtected):
		apperrors.Conflict(c, apperrors.CategoryInUse, "The fallback category must stay active under its current name")
	default:
		middleware.GetLoggerFromContext(c).Error("Category operation failed", err, map[string]interface{}{
			"operation": context,
		})
		respondStoreError(c, err, context)
	}
}
