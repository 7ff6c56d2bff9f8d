package service

import (
	"context"
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tastytrove/backend/internal/models"
	"github.com/tastytrove/backend/internal/testhelpers"
)

func seedUser(t *testing.T, db *gorm.DB, id string) *models.User {
	t.Helper()
	user := &models.User{ID: id, DisplayName: "User " + id}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedRecipe(t *testing.T, db *gorm.DB, userID, name string, mutate ...func(*models.Recipe)) *models.Recipe {
	t.Helper()
	recipe := &models.Recipe{
		UserID:      userID,
		Name:        name,
		Category:    models.CategoryDinner,
		Difficulty:  models.DifficultyMedium,
		PrepTime:    10,
		CookTime:    20,
		TotalTime:   30,
		Servings:    2,
		IsPublished: true,
		Ingredients: models.Ingredients{{Ingredient: "salt"}},
		Steps:       models.Steps{"cook"},
	}
	for _, m := range mutate {
		m(recipe)
	}
	require.NoError(t, db.Create(recipe).Error)
	return recipe
}

func TestRecipeCreateDefaults(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := NewRecipeService(db)
	seedUser(t, db, "u1")

	created, err := svc.Create(context.Background(), &models.Recipe{
		UserID:     "u1",
		Name:       "Plain Rice",
		Category:   models.CategoryDinner,
		Difficulty: models.DifficultyEasy,
		PrepTime:   5,
		CookTime:   15,
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, 20, created.TotalTime, "total time defaults to prep+cook")
	assert.Equal(t, 1, created.Servings, "servings defaults to 1")
	assert.NotZero(t, created.ID)
}

func TestRecipeCreateKeepsDraftFlag(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := NewRecipeService(db)
	seedUser(t, db, "u1")

	created, err := svc.Create(context.Background(), &models.Recipe{
		UserID:      "u1",
		Name:        "Work In Progress",
		Category:    models.CategoryDinner,
		Difficulty:  models.DifficultyEasy,
		IsPublished: false,
	}, nil)
	require.NoError(t, err)

	var stored models.Recipe
	require.NoError(t, db.First(&stored, created.ID).Error)
	assert.False(t, stored.IsPublished, "draft flag must survive the insert")
}

func TestRecipeCreateNameConflict(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := NewRecipeService(db)
	seedUser(t, db, "u1")
	seedUser(t, db, "u2")
	seedRecipe(t, db, "u1", "Taken Name")

	_, err := svc.Create(context.Background(), &models.Recipe{
		UserID: "u2", Name: "Taken Name",
		Category: models.CategoryLunch, Difficulty: models.DifficultyEasy,
	}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestRecipeCreateWithTags(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := NewRecipeService(db)
	seedUser(t, db, "u1")

	created, err := svc.Create(context.Background(), &models.Recipe{
		UserID: "u1", Name: "Tagged Stew",
		Category: models.CategoryDinner, Difficulty: models.DifficultyMedium,
	}, []string{"hearty", "winter"})
	require.NoError(t, err)

	tags, err := svc.Tags(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"hearty", "winter"}, tags)

	// Reusing a tag on another recipe must not duplicate the vocabulary row.
	_, err = svc.Create(context.Background(), &models.Recipe{
		UserID: "u1", Name: "Second Stew",
		Category: models.CategoryDinner, Difficulty: models.DifficultyMedium,
	}, []string{"winter"})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Tag{}).Where("name = ?", "winter").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRecipeUpdateOwnership(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := NewRecipeService(db)
	seedUser(t, db, "owner")
	seedUser(t, db, "intruder")
	recipe := seedRecipe(t, db, "owner", "Guarded Dish")

	_, err := svc.Update(context.Background(), "intruder", recipe.ID, &models.Recipe{
		Name: "Stolen Dish", Category: models.CategoryDinner, Difficulty: models.DifficultyEasy,
	}, nil)
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := svc.Update(context.Background(), "owner", recipe.ID, &models.Recipe{
		Name: "Renamed Dish", Category: models.CategoryLunch, Difficulty: models.DifficultyHard,
		PrepTime: 1, CookTime: 2,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Renamed Dish", updated.Name)
	assert.Equal(t, models.CategoryLunch, updated.Category)
	assert.Equal(t, 3, updated.TotalTime)
}

func TestRecipeUpdateNameConflictExcludesSelf(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := NewRecipeService(db)
	seedUser(t, db, "u1")
	recipe := seedRecipe(t, db, "u1", "My Dish")
	seedRecipe(t, db, "u1", "Other Dish")

	// Keeping its own name is not a conflict.
	_, err := svc.Update(context.Background(), "u1", recipe.ID, &models.Recipe{
		Name: "My Dish", Category: models.CategoryDinner, Difficulty: models.DifficultyMedium,
	}, nil)
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), "u1", recipe.ID, &models.Recipe{
		Name: "Other Dish", Category: models.CategoryDinner, Difficulty: models.DifficultyMedium,
	}, nil)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestRecipeUpdateReplacesTags(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := NewRecipeService(db)
	seedUser(t, db, "u1")

	created, err := svc.Create(context.Background(), &models.Recipe{
		UserID: "u1", Name: "Retagged",
		Category: models.CategoryDinner, Difficulty: models.DifficultyMedium,
	}, []string{"old-tag"})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), "u1", created.ID, &models.Recipe{
		Name: "Retagged", Category: models.CategoryDinner, Difficulty: models.DifficultyMedium,
	}, []string{"new-tag"})
	require.NoError(t, err)

	tags, err := svc.Tags(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"new-tag"}, tags)
}

func TestRecipeDeleteCascades(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := NewRecipeService(db)
	seedUser(t, db, "u1")
	seedUser(t, db, "u2")

	created, err := svc.Create(context.Background(), &models.Recipe{
		UserID: "u1", Name: "Doomed Dish",
		Category: models.CategoryDinner, Difficulty: models.DifficultyMedium,
	}, []string{"doomed"})
	require.NoError(t, err)

	require.NoError(t, db.Create(&models.SavedRecipe{UserID: "u2", RecipeID: created.ID}).Error)
	require.NoError(t, db.Create(&models.Review{UserID: "u2", RecipeID: created.ID, Rating: 4}).Error)

	require.NoError(t, svc.Delete(context.Background(), "u1", created.ID))

	_, err = svc.Get(context.Background(), created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var saves, links, reviews int64
	db.Model(&models.SavedRecipe{}).Where("recipe_id = ?", created.ID).Count(&saves)
	db.Model(&models.RecipeTag{}).Where("recipe_id = ?", created.ID).Count(&links)
	db.Model(&models.Review{}).Where("recipe_id = ?", created.ID).Count(&reviews)
	assert.Zero(t, saves)
	assert.Zero(t, links)
	assert.Zero(t, reviews)

	// The tag vocabulary survives the recipe.
	var tagCount int64
	db.Model(&models.Tag{}).Where("name = ?", "doomed").Count(&tagCount)
	assert.Equal(t, int64(1), tagCount)
}

func TestRecipeListFiltersAndCount(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := NewRecipeService(db)
	seedUser(t, db, "u1")

	for i := 0; i < 5; i++ {
		seedRecipe(t, db, "u1", fmt.Sprintf("Lunch %d", i), func(r *models.Recipe) {
			r.Category = models.CategoryLunch
			r.PrepTime = 10 * (i + 1)
		})
	}
	seedRecipe(t, db, "u1", "Dinner Special", func(r *models.Recipe) {
		r.Category = models.CategoryDinner
	})

	filter := ParseRecipeFilter(url.Values{
		"category": {"lunch"},
		"limit":    {"2"},
	})
	recipes, total, err := svc.List(context.Background(), filter)
	require.NoError(t, err)
	assert.Len(t, recipes, 2, "page respects the limit")
	assert.Equal(t, int64(5), total, "count ignores the limit")

	filter = ParseRecipeFilter(url.Values{
		"category": {"lunch"},
		"prepTime": {"10-20"},
	})
	_, total, err = svc.List(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total, "range endpoints are inclusive")
}

func TestRecipeListPublishedOnly(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := NewRecipeService(db)
	seedUser(t, db, "u1")
	seedRecipe(t, db, "u1", "Public Dish")
	seedRecipe(t, db, "u1", "Secret Draft", func(r *models.Recipe) {
		r.IsPublished = false
	})

	recipes, total, err := svc.List(context.Background(), ParseRecipeFilter(url.Values{}))
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Public Dish", recipes[0].Name)

	// The owner sees their own drafts alongside everything published.
	f := ParseRecipeFilter(url.Values{})
	f.OwnerID = "u1"
	_, total, err = svc.List(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestRecipeListTagSupersetMatch(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := NewRecipeService(db)
	seedUser(t, db, "u1")

	_, err := svc.Create(context.Background(), &models.Recipe{
		UserID: "u1", Name: "Vegan Quick Bowl",
		Category: models.CategoryLunch, Difficulty: models.DifficultyEasy,
	}, []string{"vegan", "quick", "bowl"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), &models.Recipe{
		UserID: "u1", Name: "Just Vegan",
		Category: models.CategoryLunch, Difficulty: models.DifficultyEasy,
	}, []string{"vegan"})
	require.NoError(t, err)

	// A recipe qualifies when its tags are a superset of the requested set.
	recipes, total, err := svc.List(context.Background(), ParseRecipeFilter(url.Values{
		"tags": {"vegan,quick"},
	}))
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Vegan Quick Bowl", recipes[0].Name)

	// An unknown tag matches nothing and short-circuits.
	recipes, total, err = svc.List(context.Background(), ParseRecipeFilter(url.Values{
		"tags": {"vegan,nonexistent"},
	}))
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, recipes)
}

func TestRecipeListQuerySubstring(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := NewRecipeService(db)
	seedUser(t, db, "u1")
	seedRecipe(t, db, "u1", "Spicy Noodle Soup")
	seedRecipe(t, db, "u1", "Plain Salad", func(r *models.Recipe) {
		r.Description = "surprisingly spicy dressing"
	})
	seedRecipe(t, db, "u1", "Toast")

	_, total, err := svc.List(context.Background(), ParseRecipeFilter(url.Values{
		"query": {"SPICY"},
	}))
	require.NoError(t, err)
	assert.Equal(t, int64(2), total, "query matches name or description, case-insensitively")
}

func TestRecipeListByUserHidesDrafts(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := NewRecipeService(db)
	seedUser(t, db, "u1")
	seedRecipe(t, db, "u1", "Visible")
	seedRecipe(t, db, "u1", "Draft", func(r *models.Recipe) { r.IsPublished = false })

	_, total, err := svc.ListByUser(context.Background(), "u1", "someone-else", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	_, total, err = svc.ListByUser(context.Background(), "u1", "u1", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}
