package discovery

import (
	"math"
	"strconv"
	"strings"
)

type SortKey string

const (
	SortRelevance SortKey = "relevance"
	SortRating    SortKey = "rating"
	SortReviews   SortKey = "reviews"
	SortNewest    SortKey = "newest"
	SortName      SortKey = "name"
	// SortDistance is offered to clients but has no ordering of its own; it sorts as relevance.
	SortDistance SortKey = "distance"
)

const (
	MinPriceTier = 1
	MaxPriceTier = 4
	MaxRating    = 5.0
)

// RawParams are the search parameters exactly as the client sent them.
type RawParams struct {
	Query    string
	Location string
	Category string
	Rating   string
	Price    string
	Sort     string
}

// FilterSpec is the canonical form of a search request.
type FilterSpec struct {
	Query     string
	Location  string
	Category  string
	MinRating float64
	PriceTier *int
	Sort      SortKey
}

func (s FilterSpec) HasCategory() bool {
	return s.Category != ""
}

// Normalize turns raw parameters into a FilterSpec. Invalid values fall back to their defaults.
func Normalize(raw RawParams) FilterSpec {
	return FilterSpec{
		Query:     strings.TrimSpace(raw.Query),
		Location:  strings.TrimSpace(raw.Location),
		Category:  strings.TrimSpace(raw.Category),
		MinRating: parseRating(raw.Rating),
		PriceTier: parsePriceTier(raw.Price),
		Sort:      ParseSortKey(raw.Sort),
	}
}

// ParseSortKey maps unknown or empty keys to SortRelevance.
func ParseSortKey(s string) SortKey {
	switch key := SortKey(strings.ToLower(strings.TrimSpace(s))); key {
	case SortRelevance, SortRating, SortReviews, SortNewest, SortName, SortDistance:
		return key
	}
	return SortRelevance
}

func parseRating(s string) float64 {
	rating, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(rating) || rating < 0 || rating > MaxRating {
		return 0
	}
	return rating
}

// parsePriceTier accepts "1".."4" and the "$".."$$$$" notation used by the web client.
func parsePriceTier(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	tier, err := strconv.Atoi(s)
	if err != nil {
		if strings.Trim(s, "$") != "" {
			return nil
		}
		tier = len(s)
	}
	if tier < MinPriceTier || tier > MaxPriceTier {
		return nil
	}
	return &tier
}
