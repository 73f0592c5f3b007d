package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestPriceRangeContains(t *testing.T) {
	unbounded := PriceRange{Min: decimal.NewFromInt(15)}
	assert.False(t, unbounded.Contains(decimal.NewFromInt(10)))
	assert.True(t, unbounded.Contains(decimal.NewFromInt(15)))
	assert.True(t, unbounded.Contains(decimal.NewFromInt(100000)))

	bounded := PriceRange{Min: decimal.Zero, Max: ptr(decimal.RequireFromString("19.99"))}
	assert.True(t, bounded.Contains(decimal.RequireFromString("19.99")))
	assert.False(t, bounded.Contains(decimal.RequireFromString("20")))
}

func TestPriceRangeEqual(t *testing.T) {
	a := PriceRange{Min: decimal.NewFromInt(1), Max: ptr(decimal.NewFromInt(5))}
	b := PriceRange{Min: decimal.RequireFromString("1.00"), Max: ptr(decimal.RequireFromString("5.0"))}
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(PriceRange{Min: decimal.NewFromInt(1)}))
	assert.True(t, PriceRange{}.Equal(PriceRange{Min: decimal.Zero}))
}

func TestFilterCloneDoesNotAlias(t *testing.T) {
	orig := FilterCriteria{
		Categories: []string{"a"},
		PriceRange: PriceRange{Max: ptr(decimal.NewFromInt(10))},
		Rating:     ptr(3.0),
	}
	clone := orig.Clone()
	require.True(t, orig.Equal(clone))

	clone.Categories[0] = "b"
	*clone.PriceRange.Max = decimal.NewFromInt(99)
	*clone.Rating = 1

	assert.Equal(t, "a", orig.Categories[0])
	assert.True(t, orig.PriceRange.Max.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, 3.0, *orig.Rating)
}

func TestFilterEqual(t *testing.T) {
	base := DefaultFilter()
	assert.True(t, base.Equal(DefaultFilter()))

	withSearch := DefaultFilter()
	withSearch.Search = "shirt"
	assert.False(t, base.Equal(withSearch))

	withRating := DefaultFilter()
	withRating.Rating = ptr(4.0)
	assert.False(t, base.Equal(withRating))

	otherRating := DefaultFilter()
	otherRating.Rating = ptr(4.0)
	assert.True(t, withRating.Equal(otherRating))

	ordered := DefaultFilter()
	ordered.Categories = []string{"a", "b"}
	reversed := DefaultFilter()
	reversed.Categories = []string{"b", "a"}
	assert.False(t, ordered.Equal(reversed))
}

func TestSortOptionByID(t *testing.T) {
	for _, opt := range SortOptions() {
		got, err := SortOptionByID(opt.ID)
		require.NoError(t, err)
		assert.Equal(t, opt, got)
	}

	_, err := SortOptionByID("cheapest")
	assert.ErrorIs(t, err, ErrUnknownSortOption)

	assert.Equal(t, FeaturedSortID, DefaultSort().ID)
	assert.Equal(t, SortFieldNone, DefaultSort().Field)
}

func TestSortOptionsReturnsCopy(t *testing.T) {
	opts := SortOptions()
	opts[0].ID = "mutated"
	assert.Equal(t, FeaturedSortID, SortOptions()[0].ID)
}

func TestParseViewMode(t *testing.T) {
	mode, err := ParseViewMode("list")
	require.NoError(t, err)
	assert.Equal(t, ViewList, mode)

	_, err = ParseViewMode("table")
	assert.ErrorIs(t, err, ErrInvalidViewMode)
}

func TestProductValidate(t *testing.T) {
	valid := Product{ID: 1, Price: decimal.NewFromInt(10), Rating: Rating{Rate: 4.5, Count: 3}}
	assert.NoError(t, valid.Validate())

	noID := valid
	noID.ID = 0
	assert.ErrorIs(t, noID.Validate(), ErrInvalidProductID)

	negative := valid
	negative.Price = decimal.NewFromInt(-1)
	assert.ErrorIs(t, negative.Validate(), ErrInvalidProductPrice)

	rate := valid
	rate.Rating.Rate = 5.5
	assert.ErrorIs(t, rate.Validate(), ErrInvalidProductRate)
}

func TestPopularityAndLineTotal(t *testing.T) {
	p := Product{ID: 1, Price: decimal.RequireFromString("9.95"), Rating: Rating{Rate: 4, Count: 10}}
	assert.Equal(t, 40.0, p.Popularity())

	line := CartLine{Product: p, Quantity: 3}
	assert.True(t, line.LineTotal().Equal(decimal.RequireFromString("29.85")))
}

func TestFetchErrorIsFetchFailed(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("refresh: %w", &FetchError{Resource: "products", Err: cause})

	assert.ErrorIs(t, err, ErrFetchFailed)
	assert.ErrorIs(t, err, cause)

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "products", fe.Resource)
	assert.Contains(t, fe.Error(), "connection refused")

	status := &FetchError{Resource: "categories", StatusCode: 503}
	assert.Equal(t, "fetch categories: server responded 503", status.Error())
}
