package discovery

import (
	"sort"

	"github.com/ikkim/bizdir-backend/internal/app/model"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Sorter orders result sets. Every key except relevance is a total order with ties broken by id.
type Sorter struct {
	tag language.Tag
}

func NewSorter(locale string) *Sorter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return &Sorter{tag: tag}
}

// Sort orders businesses in place. Relevance and distance keep the retrieval order.
func (s *Sorter) Sort(businesses []model.Business, key SortKey) {
	var compare func(a, b *model.Business) int

	switch key {
	case SortRating:
		compare = func(a, b *model.Business) int { return compareFloatDesc(a.RatingValue(), b.RatingValue()) }
	case SortReviews:
		compare = func(a, b *model.Business) int { return compareIntDesc(a.ReviewCount, b.ReviewCount) }
	case SortNewest:
		compare = func(a, b *model.Business) int {
			switch {
			case a.CreatedAt.After(b.CreatedAt):
				return -1
			case a.CreatedAt.Before(b.CreatedAt):
				return 1
			}
			return 0
		}
	case SortName:
		// Collators keep internal buffers, so each Sort call gets its own.
		col := collate.New(s.tag)
		compare = func(a, b *model.Business) int { return col.CompareString(a.Name, b.Name) }
	default:
		return
	}

	sort.SliceStable(businesses, func(i, j int) bool {
		a, b := &businesses[i], &businesses[j]
		if c := compare(a, b); c != 0 {
			return c < 0
		}
		return a.ID < b.ID
	})
}

func compareFloatDesc(a, b float64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	}
	return 0
}

func compareIntDesc(a, b int) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	}
	return 0
}
