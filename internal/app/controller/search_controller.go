package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/bizdir-backend/internal/app/service"
	"github.com/ikkim/bizdir-backend/internal/discovery"
	"github.com/ikkim/bizdir-backend/internal/middleware"
)

type SearchController struct {
	searchService service.SearchService
}

func NewSearchController(searchService service.SearchService) *SearchController {
	return &SearchController{searchService: searchService}
}

// SearchBusinesses GET /businesses/search
// 잘못된 파라미터는 기본값으로 처리하며 400을 반환하지 않는다
func (ctrl *SearchController) SearchBusinesses(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	raw := discovery.RawParams{
		Query:    c.Query("q"),
		Location: c.Query("location"),
		Category: c.Query("category"),
		Rating:   c.Query("rating"),
		Price:    c.Query("price"),
		Sort:     c.Query("sort"),
	}

	result := ctrl.searchService.Search(c.Request.Context(), raw)

	if result.Degraded {
		log.Warn("Search served in degraded mode", map[string]interface{}{
			"strategy": result.Strategy,
			"count":    result.Count,
		})
	} else {
		log.Info("Businesses searched", map[string]interface{}{
			"strategy": result.Strategy,
			"count":    result.Count,
		})
	}

	c.JSON(http.StatusOK, result)
}
