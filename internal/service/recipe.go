package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/tastytrove/backend/internal/models"
)

// RecipeService handles recipe reads, writes and the tag vocabulary.
type RecipeService struct {
	db *gorm.DB
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// Create inserts a recipe for the given owner. Recipe names are unique across
// all recipes; totalTime defaults to prepTime+cookTime and servings to 1 when
// not supplied. Tags are upserted into the shared vocabulary.
func (s *RecipeService) Create(ctx context.Context, recipe *models.Recipe, tags []string) (*models.Recipe, error) {
	var existing models.Recipe
	err := s.db.WithContext(ctx).Where("name = ?", recipe.Name).First(&existing).Error
	if err == nil {
		return nil, fmt.Errorf("%w: recipe name already taken", ErrConflict)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	applyRecipeDefaults(recipe)

	if err := s.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return nil, err
	}

	if len(tags) > 0 {
		if err := s.attachTags(ctx, recipe.ID, tags); err != nil {
			return nil, err
		}
	}

	return recipe, nil
}

// Get retrieves a recipe by ID.
func (s *RecipeService) Get(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: recipe", ErrNotFound)
		}
		return nil, err
	}
	return &recipe, nil
}

// Update overwrites a recipe after re-validating existence, ownership and
// name uniqueness (excluding the recipe itself). A non-nil tags slice
// replaces the recipe's tag links.
func (s *RecipeService) Update(ctx context.Context, callerID string, id uint, updated *models.Recipe, tags []string) (*models.Recipe, error) {
	recipe, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if recipe.UserID != callerID {
		return nil, fmt.Errorf("%w: not the recipe owner", ErrForbidden)
	}

	var clash models.Recipe
	err = s.db.WithContext(ctx).Where("name = ? AND id <> ?", updated.Name, id).First(&clash).Error
	if err == nil {
		return nil, fmt.Errorf("%w: recipe name already taken", ErrConflict)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	applyRecipeDefaults(updated)

	recipe.Name = updated.Name
	if updated.Author != "" {
		recipe.Author = updated.Author
	}
	recipe.Description = updated.Description
	recipe.Difficulty = updated.Difficulty
	recipe.Category = updated.Category
	recipe.PrepTime = updated.PrepTime
	recipe.CookTime = updated.CookTime
	recipe.TotalTime = updated.TotalTime
	recipe.Servings = updated.Servings
	recipe.Ingredients = updated.Ingredients
	recipe.Steps = updated.Steps
	recipe.Cuisine = updated.Cuisine
	recipe.Source = updated.Source
	recipe.Notes = updated.Notes
	recipe.IsPublished = updated.IsPublished
	recipe.Nutrition = updated.Nutrition
	recipe.Images = updated.Images

	if err := s.db.WithContext(ctx).Save(recipe).Error; err != nil {
		return nil, err
	}

	if tags != nil {
		if err := s.db.WithContext(ctx).Where("recipe_id = ?", id).Delete(&models.RecipeTag{}).Error; err != nil {
			return nil, err
		}
		if err := s.attachTags(ctx, id, tags); err != nil {
			return nil, err
		}
	}

	return recipe, nil
}

// Delete removes a recipe and cascades to its saved rows, tag links and
// reviews. The steps are separate writes on purpose: the store's default
// isolation is the only ordering guarantee, matching the rest of the write
// path.
func (s *RecipeService) Delete(ctx context.Context, callerID string, id uint) error {
	recipe, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if recipe.UserID != callerID {
		return fmt.Errorf("%w: not the recipe owner", ErrForbidden)
	}

	db := s.db.WithContext(ctx)
	if err := db.Where("recipe_id = ?", id).Delete(&models.SavedRecipe{}).Error; err != nil {
		return err
	}
	if err := db.Where("recipe_id = ?", id).Delete(&models.RecipeTag{}).Error; err != nil {
		return err
	}
	if err := db.Where("recipe_id = ?", id).Delete(&models.Review{}).Error; err != nil {
		return err
	}
	return db.Delete(&models.Recipe{}, "id = ?", id).Error
}

// List executes the composed filter and returns the requested page together
// with the total count computed under the same predicates, independent of
// limit/offset.
func (s *RecipeService) List(ctx context.Context, filter RecipeFilter) ([]models.Recipe, int64, error) {
	var taggedIDs []uint
	if len(filter.Tags) > 0 {
		ids, err := s.recipeIDsWithAllTags(ctx, filter.Tags)
		if err != nil {
			return nil, 0, err
		}
		if len(ids) == 0 {
			// No recipe carries every requested tag; skip the main query
			// rather than issuing an empty IN clause.
			return []models.Recipe{}, 0, nil
		}
		taggedIDs = ids
	}

	compose := func() *gorm.DB {
		query := filter.apply(s.db.WithContext(ctx).Model(&models.Recipe{}))
		if taggedIDs != nil {
			query = query.Where("id IN ?", taggedIDs)
		}
		return query
	}

	var total int64
	if err := compose().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recipes []models.Recipe
	err := compose().
		Order(filter.orderClause()).
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, err
	}

	return recipes, total, nil
}

// ListByUser returns a user's recipes. Unpublished recipes are only visible
// to the owner.
func (s *RecipeService) ListByUser(ctx context.Context, userID, callerID string, limit, offset int) ([]models.Recipe, int64, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	compose := func() *gorm.DB {
		query := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("user_id = ?", userID)
		if callerID != userID {
			query = query.Where("is_published = ?", true)
		}
		return query
	}

	var total int64
	if err := compose().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recipes []models.Recipe
	err := compose().Order("created_at DESC").Limit(limit).Offset(offset).Find(&recipes).Error
	if err != nil {
		return nil, 0, err
	}

	return recipes, total, nil
}

// Tags returns the tag names attached to a recipe.
func (s *RecipeService) Tags(ctx context.Context, recipeID uint) ([]string, error) {
	var names []string
	err := s.db.WithContext(ctx).Model(&models.RecipeTag{}).
		Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
		Where("recipe_tags.recipe_id = ?", recipeID).
		Order("tags.name").
		Pluck("tags.name", &names).Error
	return names, err
}

// TagsForRecipes returns the tag names for a batch of recipes keyed by
// recipe id. Recipes without tags are absent from the map.
func (s *RecipeService) TagsForRecipes(ctx context.Context, recipeIDs []uint) (map[uint][]string, error) {
	out := make(map[uint][]string, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		RecipeID uint
		Name     string
	}
	err := s.db.WithContext(ctx).Model(&models.RecipeTag{}).
		Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
		Where("recipe_tags.recipe_id IN ?", recipeIDs).
		Order("tags.name").
		Select("recipe_tags.recipe_id AS recipe_id, tags.name AS name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		out[row.RecipeID] = append(out[row.RecipeID], row.Name)
	}
	return out, nil
}

// recipeIDsWithAllTags resolves the recipe ids carrying every one of the
// requested tags: join rows are grouped by recipe and kept only when the
// distinct tag count reaches the number requested.
func (s *RecipeService) recipeIDsWithAllTags(ctx context.Context, tags []string) ([]uint, error) {
	var ids []uint
	err := s.db.WithContext(ctx).Model(&models.RecipeTag{}).
		Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
		Where("tags.name IN ?", tags).
		Group("recipe_tags.recipe_id").
		Having("COUNT(DISTINCT recipe_tags.tag_id) >= ?", len(tags)).
		Pluck("recipe_tags.recipe_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// attachTags upserts each tag name into the vocabulary and links it to the
// recipe.
func (s *RecipeService) attachTags(ctx context.Context, recipeID uint, tags []string) error {
	db := s.db.WithContext(ctx)
	for _, name := range tags {
		var tag models.Tag
		err := db.Where("name = ?", name).First(&tag).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			tag = models.Tag{Name: name}
			err = db.Create(&tag).Error
		}
		if err != nil {
			return err
		}

		var link models.RecipeTag
		err = db.Where("recipe_id = ? AND tag_id = ?", recipeID, tag.ID).First(&link).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = db.Create(&models.RecipeTag{RecipeID: recipeID, TagID: tag.ID}).Error
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func applyRecipeDefaults(recipe *models.Recipe) {
	if recipe.TotalTime <= 0 {
		recipe.TotalTime = recipe.PrepTime + recipe.CookTime
	}
	if recipe.Servings < 1 {
		recipe.Servings = 1
	}
}
