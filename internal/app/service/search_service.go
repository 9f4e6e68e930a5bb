package service

import (
	"context"

	"github.com/ikkim/bizdir-backend/internal/app/model"
	"github.com/ikkim/bizdir-backend/internal/discovery"
	"github.com/ikkim/bizdir-backend/pkg/logger"
)

// SearchUnavailableMessage is shown instead of results when every retrieval path failed.
const SearchUnavailableMessage = "Search is temporarily unavailable. Please try again in a moment"

// CategoryNamer canonicalizes a user supplied category (name, local name or alias).
type CategoryNamer interface {
	CanonicalCategory(ctx context.Context, name string) string
}

// Searcher is the engine surface the service depends on.
type Searcher interface {
	SearchSpec(ctx context.Context, spec discovery.FilterSpec) (*discovery.Result, error)
}

type SearchResult struct {
	Businesses []model.Business  `json:"businesses"`
	Count      int               `json:"count"`
	Sort       discovery.SortKey `json:"sort"`
	Strategy   discovery.State   `json:"strategy"`
	Degraded   bool              `json:"degraded"`
	Message    string            `json:"message,omitempty"`
}

type SearchService interface {
	Search(ctx context.Context, raw discovery.RawParams) *SearchResult
}

type searchService struct {
	engine     Searcher
	categories CategoryNamer
}

func NewSearchService(engine Searcher, categories CategoryNamer) SearchService {
	return &searchService{
		engine:     engine,
		categories: categories,
	}
}

// Search never fails: a total retrieval failure yields an empty, degraded result with an
// advisory message.
func (s *searchService) Search(ctx context.Context, raw discovery.RawParams) *SearchResult {
	spec := discovery.Normalize(raw)
	if spec.HasCategory() && s.categories != nil {
		spec.Category = s.categories.CanonicalCategory(ctx, spec.Category)
	}

	logger.Ctx(ctx).Debug("Searching businesses", map[string]interface{}{
		"query":      spec.Query,
		"location":   spec.Location,
		"category":   spec.Category,
		"min_rating": spec.MinRating,
		"price_tier": spec.PriceTier,
		"sort":       spec.Sort,
	})

	result, err := s.engine.SearchSpec(ctx, spec)
	if err != nil {
		logger.Ctx(ctx).Error("Search failed on every retrieval path", err, map[string]interface{}{
			"query":    spec.Query,
			"category": spec.Category,
		})
		return &SearchResult{
			Businesses: []model.Business{},
			Sort:       spec.Sort,
			Strategy:   discovery.StateFullScan,
			Degraded:   true,
			Message:    SearchUnavailableMessage,
		}
	}

	return &SearchResult{
		Businesses: result.Businesses,
		Count:      result.Count,
		Sort:       result.Spec.Sort,
		Strategy:   result.State,
		Degraded:   result.Degraded,
	}
}
