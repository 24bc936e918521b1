package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pkordes/maple-planner/internal/domain"
	"github.com/pkordes/maple-planner/internal/search"
)

func TestQueries_CountsPerCategory(t *testing.T) {
	cases := map[domain.Category]int{
		domain.CategoryAttraction: 8,
		domain.CategoryRestaurant: 6,
		domain.CategoryHotel:      5,
		domain.CategoryActivity:   6,
		domain.CategoryAll:        8,
	}
	for c, want := range cases {
		t.Run(string(c), func(t *testing.T) {
			assert.Len(t, search.Queries(c, "Halifax"), want)
		})
	}
}

func TestQueries_InterpolatesLocationInOrder(t *testing.T) {
	got := search.Queries(domain.CategoryRestaurant, "Toronto")

	assert.Equal(t, []string{
		"restaurant in Toronto",
		"dining in Toronto",
		"food in Toronto",
		"cafe in Toronto",
		"bar in Toronto",
		"pub in Toronto",
	}, got)
}

func TestQueries_UnknownCategoryUsesAll(t *testing.T) {
	assert.Equal(t,
		search.Queries(domain.CategoryAll, "Regina"),
		search.Queries(domain.Category("spa"), "Regina"))
}
