package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/tastytrove/backend/internal/models"
)

// CookbookRecipe is a recipe with the cookbook-entry fields overlaid.
type CookbookRecipe struct {
	models.Recipe
	Notes   string    `json:"notes,omitempty"`
	AddedAt time.Time `json:"addedAt"`
}

// CookbookService handles cookbooks and their recipe entries.
type CookbookService struct {
	db *gorm.DB
}

// NewCookbookService creates a new CookbookService instance
func NewCookbookService(db *gorm.DB) *CookbookService {
	return &CookbookService{db: db}
}

// Create inserts a cookbook owned by the caller.
func (s *CookbookService) Create(ctx context.Context, cookbook *models.Cookbook) (*models.Cookbook, error) {
	if err := s.db.WithContext(ctx).Create(cookbook).Error; err != nil {
		return nil, err
	}
	return cookbook, nil
}

// Get retrieves a cookbook, enforcing visibility: private cookbooks are only
// visible to their owner.
func (s *CookbookService) Get(ctx context.Context, callerID string, id uint) (*models.Cookbook, error) {
	var cookbook models.Cookbook
	if err := s.db.WithContext(ctx).First(&cookbook, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: cookbook", ErrNotFound)
		}
		return nil, err
	}
	if !cookbook.IsPublic && cookbook.UserID != callerID {
		return nil, fmt.Errorf("%w: cookbook is private", ErrForbidden)
	}
	return &cookbook, nil
}

// ListByUser returns a user's cookbooks. Private cookbooks are only listed
// for the owner.
func (s *CookbookService) ListByUser(ctx context.Context, userID, callerID string, limit, offset int) ([]models.Cookbook, int64, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	compose := func() *gorm.DB {
		query := s.db.WithContext(ctx).Model(&models.Cookbook{}).Where("user_id = ?", userID)
		if callerID != userID {
			query = query.Where("is_public = ?", true)
		}
		return query
	}

	var total int64
	if err := compose().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var cookbooks []models.Cookbook
	err := compose().Order("created_at DESC").Limit(limit).Offset(offset).Find(&cookbooks).Error
	if err != nil {
		return nil, 0, err
	}

	return cookbooks, total, nil
}

// Update rewrites a cookbook's name, description, cover and visibility.
// Only the owner may update.
func (s *CookbookService) Update(ctx context.Context, callerID string, id uint, updated *models.Cookbook) (*models.Cookbook, error) {
	cookbook, err := s.owned(ctx, callerID, id)
	if err != nil {
		return nil, err
	}

	cookbook.Name = updated.Name
	cookbook.Description = updated.Description
	cookbook.CoverImage = updated.CoverImage
	cookbook.IsPublic = updated.IsPublic

	if err := s.db.WithContext(ctx).Save(cookbook).Error; err != nil {
		return nil, err
	}
	return cookbook, nil
}

// Delete removes a cookbook and its entries. The recipes themselves are
// untouched.
func (s *CookbookService) Delete(ctx context.Context, callerID string, id uint) error {
	if _, err := s.owned(ctx, callerID, id); err != nil {
		return err
	}

	db := s.db.WithContext(ctx)
	if err := db.Where("cookbook_id = ?", id).Delete(&models.CookbookRecipe{}).Error; err != nil {
		return err
	}
	return db.Delete(&models.Cookbook{}, "id = ?", id).Error
}

// AddRecipe links a recipe into a cookbook. Duplicate entries conflict.
func (s *CookbookService) AddRecipe(ctx context.Context, callerID string, cookbookID, recipeID uint, notes string) error {
	if _, err := s.owned(ctx, callerID, cookbookID); err != nil {
		return err
	}

	var recipe models.Recipe
	err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: recipe", ErrNotFound)
		}
		return err
	}

	var existing models.CookbookRecipe
	err = s.db.WithContext(ctx).
		Where("cookbook_id = ? AND recipe_id = ?", cookbookID, recipeID).
		First(&existing).Error
	if err == nil {
		return fmt.Errorf("%w: recipe already in cookbook", ErrConflict)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	entry := models.CookbookRecipe{
		CookbookID: cookbookID,
		RecipeID:   recipeID,
		Notes:      notes,
	}
	return s.db.WithContext(ctx).Create(&entry).Error
}

// RemoveRecipe unlinks a recipe from a cookbook.
func (s *CookbookService) RemoveRecipe(ctx context.Context, callerID string, cookbookID, recipeID uint) error {
	if _, err := s.owned(ctx, callerID, cookbookID); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).
		Where("cookbook_id = ? AND recipe_id = ?", cookbookID, recipeID).
		Delete(&models.CookbookRecipe{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: recipe not in cookbook", ErrNotFound)
	}
	return nil
}

// Recipes returns the recipes in a cookbook with entry notes and timestamps
// overlaid, newest entry first.
func (s *CookbookService) Recipes(ctx context.Context, callerID string, cookbookID uint) ([]CookbookRecipe, error) {
	if _, err := s.Get(ctx, callerID, cookbookID); err != nil {
		return nil, err
	}

	var entries []models.CookbookRecipe
	err := s.db.WithContext(ctx).
		Where("cookbook_id = ?", cookbookID).
		Order("added_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return []CookbookRecipe{}, nil
	}

	ids := make([]uint, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.RecipeID)
	}

	var recipes []models.Recipe
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&recipes).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint]models.Recipe, len(recipes))
	for _, recipe := range recipes {
		byID[recipe.ID] = recipe
	}

	out := make([]CookbookRecipe, 0, len(entries))
	for _, entry := range entries {
		recipe, ok := byID[entry.RecipeID]
		if !ok {
			continue
		}
		out = append(out, CookbookRecipe{
			Recipe:  recipe,
			Notes:   entry.Notes,
			AddedAt: entry.AddedAt,
		})
	}
	return out, nil
}

func (s *CookbookService) owned(ctx context.Context, callerID string, id uint) (*models.Cookbook, error) {
	var cookbook models.Cookbook
	if err := s.db.WithContext(ctx).First(&cookbook, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: cookbook", ErrNotFound)
		}
		return nil, err
	}
	if cookbook.UserID != callerID {
		return nil, fmt.Errorf("%w: not the cookbook owner", ErrForbidden)
	}
	return &cookbook, nil
}
