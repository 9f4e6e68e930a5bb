package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/bizdir-backend/internal/app/model"
	"github.com/ikkim/bizdir-backend/internal/app/service"
	"github.com/ikkim/bizdir-backend/internal/discovery"
	apperrors "github.com/ikkim/bizdir-backend/internal/errors"
	"github.com/ikkim/bizdir-backend/internal/middleware"
)

type BusinessController struct {
	businessService service.BusinessService
}

func NewBusinessController(businessService service.BusinessService) *BusinessController {
	return &BusinessController{businessService: businessService}
}

type BusinessRequest struct {
	Name        string               `json:"name" binding:"required"`
	Description string               `json:"description"`
	PhoneNumber string               `json:"phone_number"`
	Address     string               `json:"address"`
	Rating      *float64             `json:"rating"`
	PriceTier   *int                 `json:"price_tier"`
	ReviewCount int                  `json:"review_count" binding:"gte=0"`
	Status      model.BusinessStatus `json:"status"`
	Region      string               `json:"region"`
}

func (r BusinessRequest) toInput() service.BusinessInput {
	return service.BusinessInput{
		Name:        r.Name,
		Description: r.Description,
		PhoneNumber: r.PhoneNumber,
		Address:     r.Address,
		Rating:      r.Rating,
		PriceTier:   r.PriceTier,
		ReviewCount: r.ReviewCount,
		Status:      r.Status,
		Region:      r.Region,
	}
}

// GetBusiness GET /businesses/:id
func (ctrl *BusinessController) GetBusiness(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid business ID")
		return
	}

	business, err := ctrl.businessService.GetBusiness(id)
	if err != nil {
		if errors.Is(err, service.ErrBusinessNotFound) {
			apperrors.NotFound(c, apperrors.BusinessNotFound, "Business not found")
			return
		}
		log.Error("Failed to fetch business", err, map[string]interface{}{
			"business_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get business")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"business": business,
	})
}

// CreateBusiness POST /admin/businesses
// 생성 직후 키워드 사전으로 카테고리를 자동 지정
func (ctrl *BusinessController) CreateBusiness(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req BusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid business request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BindingError(c, err, "Invalid business details")
		return
	}

	business, resolution, err := ctrl.businessService.CreateBusiness(c.Request.Context(), req.toInput())
	if err != nil {
		var writeErr *discovery.PartialWriteError
		switch {
		case errors.As(err, &writeErr) && business != nil:
			log.Warn("Business created without category link", map[string]interface{}{
				"business_id": business.ID,
				"error":       err.Error(),
			})
			c.JSON(http.StatusCreated, gin.H{
				"business":             business,
				"categorization":       resolution,
				"categorization_error": err.Error(),
			})
			return
		case ctrl.respondInputError(c, err):
			return
		case discovery.IsConfigurationError(err):
			log.Error("Categorizer misconfigured", err, nil)
			apperrors.ConfigError(c, err.Error())
			return
		}
		log.Error("Failed to create business", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create business")
		return
	}

	log.Info("Business created", map[string]interface{}{
		"business_id": business.ID,
		"category":    resolution.CategoryName,
		"fallback":    resolution.Fallback,
	})

	c.JSON(http.StatusCreated, gin.H{
		"business":       business,
		"categorization": resolution,
	})
}

// UpdateBusiness PUT /admin/businesses/:id
func (ctrl *BusinessController) UpdateBusiness(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid business ID")
		return
	}

	var req BusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BindingError(c, err, "Invalid business details")
		return
	}

	business, err := ctrl.businessService.UpdateBusiness(c.Request.Context(), id, req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBusinessNotFound):
			apperrors.NotFound(c, apperrors.BusinessNotFound, "Business not found")
			return
		case ctrl.respondInputError(c, err):
			return
		case discovery.IsConfigurationError(err):
			log.Error("Categorizer misconfigured", err, nil)
			apperrors.ConfigError(c, err.Error())
			return
		}
		log.Error("Failed to update business", err, map[string]interface{}{
			"business_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update business")
		return
	}

	log.Info("Business updated", map[string]interface{}{
		"business_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"business": business,
	})
}

// DeleteBusiness DELETE /admin/businesses/:id
func (ctrl *BusinessController) DeleteBusiness(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid business ID")
		return
	}

	if err := ctrl.businessService.DeleteBusiness(id); err != nil {
		if errors.Is(err, service.ErrBusinessNotFound) {
			apperrors.NotFound(c, apperrors.BusinessNotFound, "Business not found")
			return
		}
		log.Error("Failed to delete business", err, map[string]interface{}{
			"business_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete business")
		return
	}

	log.Info("Business deleted", map[string]interface{}{
		"business_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Business deleted",
	})
}

func (ctrl *BusinessController) respondInputError(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, service.ErrBusinessNameRequired):
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Business name is required")
	case errors.Is(err, service.ErrInvalidBusinessStatus):
		apperrors.BadRequest(c, apperrors.BusinessInvalidStatus, "Unknown business status")
	case errors.Is(err, service.ErrInvalidRating):
		apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Rating must be between 0 and 5")
	case errors.Is(err, service.ErrInvalidPriceTier):
		apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Price tier must be between 1 and 4")
	default:
		return false
	}
	return true
}
