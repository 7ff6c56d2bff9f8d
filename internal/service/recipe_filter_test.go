package service

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecipeFilterDefaults(t *testing.T) {
	f := ParseRecipeFilter(url.Values{})

	assert.Empty(t, f.Authors)
	assert.Empty(t, f.Categories)
	assert.Empty(t, f.Tags)
	assert.Nil(t, f.PrepTimeMin)
	assert.Nil(t, f.CookTimeMax)
	assert.Equal(t, "created_at", f.SortColumn)
	assert.True(t, f.SortDesc)
	assert.Equal(t, defaultLimit, f.Limit)
	assert.Equal(t, 0, f.Offset)
}

func TestParseRecipeFilterDotLists(t *testing.T) {
	f := ParseRecipeFilter(url.Values{
		"category":   {"lunch.dinner"},
		"difficulty": {"easy.medium"},
		"author":     {"Ada.Grace"},
	})

	assert.Equal(t, []string{"lunch", "dinner"}, f.Categories)
	assert.Equal(t, []string{"easy", "medium"}, f.Difficulties)
	assert.Equal(t, []string{"Ada", "Grace"}, f.Authors)
}

func TestParseRecipeFilterTagsUseCommas(t *testing.T) {
	f := ParseRecipeFilter(url.Values{"tags": {"vegan, quick,one-pan"}})

	assert.Equal(t, []string{"vegan", "quick", "one-pan"}, f.Tags)
}

func TestParseRecipeFilterTimeRanges(t *testing.T) {
	f := ParseRecipeFilter(url.Values{
		"prepTime": {"10-30"},
		"cookTime": {"0-45"},
	})

	require.NotNil(t, f.PrepTimeMin)
	require.NotNil(t, f.PrepTimeMax)
	assert.Equal(t, 10, *f.PrepTimeMin)
	assert.Equal(t, 30, *f.PrepTimeMax)
	require.NotNil(t, f.CookTimeMin)
	assert.Equal(t, 0, *f.CookTimeMin)
	assert.Equal(t, 45, *f.CookTimeMax)
}

func TestParseRecipeFilterMalformedRangeIgnored(t *testing.T) {
	for _, raw := range []string{"banana", "10", "10-", "-30", "a-b"} {
		f := ParseRecipeFilter(url.Values{"prepTime": {raw}})
		assert.Nil(t, f.PrepTimeMin, "range %q should be ignored", raw)
		assert.Nil(t, f.PrepTimeMax, "range %q should be ignored", raw)
	}
}

func TestParseRecipeFilterSort(t *testing.T) {
	f := ParseRecipeFilter(url.Values{"sort": {"rating.asc"}})
	assert.Equal(t, "rating", f.SortColumn)
	assert.False(t, f.SortDesc)

	f = ParseRecipeFilter(url.Values{"sort": {"prepTime.desc"}})
	assert.Equal(t, "prep_time", f.SortColumn)
	assert.True(t, f.SortDesc)
}

func TestParseRecipeFilterBadSortFallsBack(t *testing.T) {
	for _, raw := range []string{"", "rating", "rating.sideways", "password.asc", "rating.asc.extra"} {
		f := ParseRecipeFilter(url.Values{"sort": {raw}})
		assert.Equal(t, "created_at", f.SortColumn, "sort %q should fall back", raw)
		assert.True(t, f.SortDesc, "sort %q should fall back", raw)
	}
}

func TestParseRecipeFilterLimitClamped(t *testing.T) {
	f := ParseRecipeFilter(url.Values{"limit": {"500"}, "offset": {"20"}})
	assert.Equal(t, maxLimit, f.Limit)
	assert.Equal(t, 20, f.Offset)

	f = ParseRecipeFilter(url.Values{"limit": {"-3"}, "offset": {"-1"}})
	assert.Equal(t, defaultLimit, f.Limit)
	assert.Equal(t, 0, f.Offset)
}

func TestOrderClause(t *testing.T) {
	f := RecipeFilter{SortColumn: "rating", SortDesc: false}
	assert.Equal(t, "rating ASC", f.orderClause())

	f = RecipeFilter{SortColumn: "likes", SortDesc: true}
	assert.Equal(t, "likes DESC", f.orderClause())

	f = RecipeFilter{}
	assert.Equal(t, "created_at DESC", f.orderClause())
}
