package discovery

import (
	"testing"
	"time"

	"github.com/ikkim/bizdir-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
)

func sortFixture() []model.Business {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return []model.Business{
		{ID: 4, Name: "delta", Rating: floatPtr(4.0), ReviewCount: 10, CreatedAt: base.Add(2 * time.Hour)},
		{ID: 2, Name: "Bravo", Rating: nil, ReviewCount: 50, CreatedAt: base.Add(3 * time.Hour)},
		{ID: 3, Name: "alpha", Rating: floatPtr(4.0), ReviewCount: 10, CreatedAt: base},
		{ID: 1, Name: "Charlie", Rating: floatPtr(4.8), ReviewCount: 0, CreatedAt: base.Add(2 * time.Hour)},
	}
}

func TestSorter_Sort(t *testing.T) {
	tests := []struct {
		key  SortKey
		want []uint
	}{
		{key: SortRelevance, want: []uint{4, 2, 3, 1}},
		{key: SortDistance, want: []uint{4, 2, 3, 1}},
		{key: SortRating, want: []uint{1, 3, 4, 2}},
		{key: SortReviews, want: []uint{2, 3, 4, 1}},
		{key: SortNewest, want: []uint{2, 1, 4, 3}},
		{key: SortName, want: []uint{3, 2, 1, 4}},
	}

	sorter := NewSorter("en")
	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			businesses := sortFixture()
			sorter.Sort(businesses, tt.key)
			assert.Equal(t, tt.want, ids(businesses))
		})
	}
}

func TestSorter_NameTieBreaksByID(t *testing.T) {
	businesses := []model.Business{
		{ID: 9, Name: "Cafe Riche"},
		{ID: 3, Name: "Cafe Riche"},
		{ID: 5, Name: "Azza"},
	}

	NewSorter("not a locale").Sort(businesses, SortName)
	assert.Equal(t, []uint{5, 3, 9}, ids(businesses))
}
