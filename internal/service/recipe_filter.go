package service

import (
	"net/url"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// RecipeFilter is the parsed set of optional list filters. All predicates
// combine as a conjunction; the zero value matches every published recipe.
type RecipeFilter struct {
	Authors      []string
	Categories   []string
	Difficulties []string
	PrepTimeMin  *int
	PrepTimeMax  *int
	CookTimeMin  *int
	CookTimeMax  *int
	Cuisine      string
	Query        string
	Tags         []string

	// OwnerID marks the caller as listing their own recipes, which lifts the
	// published-only restriction for that user's rows. Anonymous and
	// non-owner callers always get is_published = true forced on.
	OwnerID string

	SortColumn string
	SortDesc   bool

	Limit  int
	Offset int
}

// Columns recognized in sort tokens. Anything else falls back to the default
// ordering rather than erroring.
var sortColumns = map[string]string{
	"name":       "name",
	"rating":     "rating",
	"likes":      "likes",
	"servings":   "servings",
	"difficulty": "difficulty",
	"category":   "category",
	"prepTime":   "prep_time",
	"cookTime":   "cook_time",
	"totalTime":  "total_time",
	"createdAt":  "created_at",
	"updatedAt":  "updated_at",
	"prep_time":  "prep_time",
	"cook_time":  "cook_time",
	"total_time": "total_time",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

const (
	defaultLimit = 10
	maxLimit     = 100
)

// ParseRecipeFilter builds a filter from request query parameters. Multi-value
// filters use dot-separated lists (category=lunch.dinner), tags use commas,
// time ranges use "min-max", and sort uses "field.direction". Malformed
// values degrade permissively: a bad range or sort token is ignored, never an
// error.
func ParseRecipeFilter(params url.Values) RecipeFilter {
	f := RecipeFilter{
		Authors:      splitList(params.Get("author"), "."),
		Categories:   splitList(params.Get("category"), "."),
		Difficulties: splitList(params.Get("difficulty"), "."),
		Cuisine:      params.Get("cuisine"),
		Query:        params.Get("query"),
		Tags:         splitList(params.Get("tags"), ","),
		Limit:        defaultLimit,
	}

	f.PrepTimeMin, f.PrepTimeMax = parseRange(params.Get("prepTime"))
	f.CookTimeMin, f.CookTimeMax = parseRange(params.Get("cookTime"))
	f.SortColumn, f.SortDesc = parseSort(params.Get("sort"))

	if v, err := strconv.Atoi(params.Get("limit")); err == nil && v > 0 {
		f.Limit = v
		if f.Limit > maxLimit {
			f.Limit = maxLimit
		}
	}
	if v, err := strconv.Atoi(params.Get("offset")); err == nil && v >= 0 {
		f.Offset = v
	}

	return f
}

// parseSort interprets a "field.direction" token. Unknown columns or any
// direction other than exactly "asc" or "desc" fall back to creation-time
// descending.
func parseSort(token string) (string, bool) {
	parts := strings.Split(token, ".")
	if len(parts) == 2 {
		if column, ok := sortColumns[parts[0]]; ok {
			switch parts[1] {
			case "asc":
				return column, false
			case "desc":
				return column, true
			}
		}
	}
	return "created_at", true
}

// parseRange interprets an inclusive "min-max" token.
func parseRange(token string) (*int, *int) {
	if token == "" {
		return nil, nil
	}
	parts := strings.SplitN(token, "-", 2)
	if len(parts) != 2 {
		return nil, nil
	}
	min, errMin := strconv.Atoi(parts[0])
	max, errMax := strconv.Atoi(parts[1])
	if errMin != nil || errMax != nil {
		return nil, nil
	}
	return &min, &max
}

func splitList(raw, sep string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// apply attaches every predicate except the tag filter, which needs its own
// join resolution first (see RecipeService.List). The result is independent
// of the order filters were supplied in.
func (f *RecipeFilter) apply(query *gorm.DB) *gorm.DB {
	if len(f.Authors) > 0 {
		query = query.Where("author IN ?", f.Authors)
	}
	if len(f.Categories) > 0 {
		query = query.Where("category IN ?", f.Categories)
	}
	if len(f.Difficulties) > 0 {
		query = query.Where("difficulty IN ?", f.Difficulties)
	}
	if f.PrepTimeMin != nil {
		query = query.Where("prep_time >= ?", *f.PrepTimeMin)
	}
	if f.PrepTimeMax != nil {
		query = query.Where("prep_time <= ?", *f.PrepTimeMax)
	}
	if f.CookTimeMin != nil {
		query = query.Where("cook_time >= ?", *f.CookTimeMin)
	}
	if f.CookTimeMax != nil {
		query = query.Where("cook_time <= ?", *f.CookTimeMax)
	}
	if f.Cuisine != "" {
		query = query.Where("cuisine = ?", f.Cuisine)
	}
	if f.Query != "" {
		like := "%" + strings.ToLower(f.Query) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	if f.OwnerID != "" {
		query = query.Where("is_published = ? OR user_id = ?", true, f.OwnerID)
	} else {
		query = query.Where("is_published = ?", true)
	}

	return query
}

// orderClause renders the sort for SQL, defaulting when unset.
func (f *RecipeFilter) orderClause() string {
	column := f.SortColumn
	if column == "" {
		column = "created_at"
		return column + " DESC"
	}
	if f.SortDesc {
		return column + " DESC"
	}
	return column + " ASC"
}
