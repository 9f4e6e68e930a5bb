package discovery

import (
	"strings"

	"github.com/ikkim/bizdir-backend/internal/app/model"
)

// Predicate is a bit set of filter predicates.
type Predicate uint8

const (
	PredicateText Predicate = 1 << iota
	PredicateLocation
	PredicateRating
	PredicatePrice
	PredicateCategory

	PredicateNone Predicate = 0
	PredicateAll            = PredicateText | PredicateLocation | PredicateRating | PredicatePrice | PredicateCategory
)

func (p Predicate) Has(q Predicate) bool {
	return p&q == q
}

// ApplyFilters keeps active businesses that satisfy every predicate of spec not listed in satisfied.
// Predicates that spec leaves unset are skipped.
func ApplyFilters(businesses []model.Business, spec FilterSpec, satisfied Predicate) []model.Business {
	query := strings.ToLower(spec.Query)
	location := strings.ToLower(spec.Location)

	filtered := make([]model.Business, 0, len(businesses))
	for i := range businesses {
		b := &businesses[i]
		if !b.IsActive() {
			continue
		}
		if query != "" && !satisfied.Has(PredicateText) && !matchesText(b, query) {
			continue
		}
		if location != "" && !satisfied.Has(PredicateLocation) && !strings.Contains(strings.ToLower(b.Address), location) {
			continue
		}
		if spec.MinRating > 0 && !satisfied.Has(PredicateRating) && b.RatingValue() < spec.MinRating {
			continue
		}
		if spec.PriceTier != nil && !satisfied.Has(PredicatePrice) && b.PriceTierValue() != *spec.PriceTier {
			continue
		}
		if spec.HasCategory() && !satisfied.Has(PredicateCategory) && !inCategory(b, spec.Category) {
			continue
		}
		filtered = append(filtered, *b)
	}
	return filtered
}

func matchesText(b *model.Business, query string) bool {
	return strings.Contains(strings.ToLower(b.Name), query) ||
		strings.Contains(strings.ToLower(b.Description), query) ||
		strings.Contains(strings.ToLower(b.Address), query)
}

func inCategory(b *model.Business, name string) bool {
	for i := range b.Categories {
		if b.Categories[i].Matches(name) {
			return true
		}
	}
	return false
}
