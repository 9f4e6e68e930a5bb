package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/bizdir-backend/internal/app/repository"
	"github.com/ikkim/bizdir-backend/internal/app/service"
	"github.com/ikkim/bizdir-backend/internal/discovery"
	apperrors "github.com/ikkim/bizdir-backend/internal/errors"
	"github.com/ikkim/bizdir-backend/internal/middleware"
)

type KeywordController struct {
	keywordService service.KeywordService
	categorizer    service.CategorizationService
}

func NewKeywordController(keywordService service.KeywordService, categorizer service.CategorizationService) *KeywordController {
	return &KeywordController{
		keywordService: keywordService,
		categorizer:    categorizer,
	}
}

type KeywordRequest struct {
	CategoryID uint   `json:"category_id"`
	Keyword    string `json:"keyword"`
	Region     string `json:"region"`
	Priority   int    `json:"priority"`
	IsActive   *bool  `json:"is_active"`
}

func (r KeywordRequest) toInput() service.KeywordInput {
	return service.KeywordInput{
		CategoryID: r.CategoryID,
		Keyword:    r.Keyword,
		Region:     r.Region,
		Priority:   r.Priority,
		IsActive:   r.IsActive,
	}
}

type PreviewRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Region      string `json:"region"`
}

// ListKeywords GET /admin/keywords?category_id&region&search&include_inactive
func (ctrl *KeywordController) ListKeywords(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := repository.KeywordFilter{
		Region:          c.Query("region"),
		Search:          c.Query("search"),
		IncludeInactive: queryBool(c, "include_inactive"),
	}
	if raw := c.Query("category_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid category ID")
			return
		}
		categoryID := uint(id)
		filter.CategoryID = &categoryID
	}

	rules, err := ctrl.keywordService.ListKeywords(filter)
	if err != nil {
		log.Error("Failed to list keyword rules", err, nil)
		apperrors.InternalError(c, "Failed to fetch keywords")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"keywords": rules,
		"count":    len(rules),
	})
}

// CreateKeyword POST /admin/keywords
func (ctrl *KeywordController) CreateKeyword(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req KeywordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BindingError(c, err, "Invalid keyword details")
		return
	}
	if req.CategoryID == 0 {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "category_id is required")
		return
	}

	createdBy := middleware.GetActor(c)
	rule, err := ctrl.keywordService.CreateKeyword(c.Request.Context(), req.toInput(), createdBy)
	if err != nil {
		ctrl.respondError(c, err, "create keyword")
		return
	}

	log.Info("Keyword rule created", map[string]interface{}{
		"rule_id":    rule.ID,
		"keyword":    rule.Keyword,
		"created_by": createdBy,
	})

	c.JSON(http.StatusCreated, gin.H{
		"keyword": rule,
	})
}

// UpdateKeyword PUT /admin/keywords/:id
func (ctrl *KeywordController) UpdateKeyword(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid keyword ID")
		return
	}

	var req KeywordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BindingError(c, err, "Invalid keyword details")
		return
	}

	rule, err := ctrl.keywordService.UpdateKeyword(c.Request.Context(), id, req.toInput())
	if err != nil {
		ctrl.respondError(c, err, "update keyword")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"keyword": rule,
	})
}

// DeleteKeyword DELETE /admin/keywords/:id
func (ctrl *KeywordController) DeleteKeyword(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid keyword ID")
		return
	}

	if err := ctrl.keywordService.DeleteKeyword(c.Request.Context(), id); err != nil {
		ctrl.respondError(c, err, "delete keyword")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Keyword deleted",
	})
}

// ToggleKeyword PATCH /admin/keywords/:id/toggle
func (ctrl *KeywordController) ToggleKeyword(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid keyword ID")
		return
	}

	rule, err := ctrl.keywordService.ToggleKeyword(c.Request.Context(), id)
	if err != nil {
		ctrl.respondError(c, err, "toggle keyword")
		return
	}

	log.Info("Keyword rule toggled", map[string]interface{}{
		"rule_id":   id,
		"is_active": rule.IsActive,
	})

	c.JSON(http.StatusOK, gin.H{
		"keyword": rule,
	})
}

// PreviewCategorization POST /admin/keywords/preview
// 저장하지 않고 현재 사전 기준 분류 결과만 반환
func (ctrl *KeywordController) PreviewCategorization(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BindingError(c, err, "name is required")
		return
	}

	resolution, err := ctrl.categorizer.Preview(c.Request.Context(), req.Name, req.Description, req.Region)
	if err != nil {
		if discovery.IsConfigurationError(err) {
			log.Error("Categorizer misconfigured", err, nil)
			apperrors.ConfigError(c, err.Error())
			return
		}
		log.Error("Failed to preview categorization", err, nil)
		apperrors.InternalError(c, "Failed to load the keyword dictionary")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"resolution": resolution,
	})
}

func (ctrl *KeywordController) respondError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, service.ErrKeywordNotFound):
		apperrors.NotFound(c, apperrors.KeywordNotFound, "Keyword not found")
	case errors.Is(err, service.ErrCategoryNotFound):
		apperrors.NotFound(c, apperrors.CategoryNotFound, "Category not found")
	case errors.Is(err, service.ErrKeywordRequired):
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Keyword is required")
	case errors.Is(err, service.ErrInvalidKeywordPriority):
		apperrors.BadRequest(c, apperrors.KeywordInvalidPriority, "Priority must be between 1 and 5")
	case errors.Is(err, service.ErrKeywordAlreadyExists):
		apperrors.Conflict(c, apperrors.KeywordAlreadyExists, "This keyword is already defined for the category and region")
	default:
		middleware.GetLoggerFromContext(c).Error("Keyword operation failed", err, map[string]interface{}{
			"operation": context,
		})
		respondStoreError(c, err, context)
	}
}
