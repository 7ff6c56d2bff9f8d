package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/tastytrove/backend/internal/models"
)

// SavedRecipe is a recipe with the caller's save metadata overlaid.
type SavedRecipe struct {
	models.Recipe
	Closed  bool      `json:"closed"`
	SavedAt time.Time `json:"savedAt"`
}

// UserService handles profiles, follows and saved recipes.
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a new UserService instance
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Get retrieves a user's profile by ID.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user", ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

// UpdateProfile rewrites the caller's own profile fields.
func (s *UserService) UpdateProfile(ctx context.Context, callerID string, updated *models.User) (*models.User, error) {
	user, err := s.Get(ctx, callerID)
	if err != nil {
		return nil, err
	}

	if updated.DisplayName != "" {
		user.DisplayName = updated.DisplayName
	}
	user.Bio = updated.Bio
	user.ProfileImage = updated.ProfileImage
	user.Preferences = updated.Preferences
	user.IsChef = updated.IsChef

	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteAccount removes the caller's account and everything hanging off it:
// saves, follows in both directions, cookbook entries, cookbooks, reviews
// (with rating recomputes), tag links and recipes. Each step is its own
// write, in dependency order.
func (s *UserService) DeleteAccount(ctx context.Context, callerID string, reviews *ReviewService) error {
	if _, err := s.Get(ctx, callerID); err != nil {
		return err
	}

	db := s.db.WithContext(ctx)

	if err := db.Where("user_id = ?", callerID).Delete(&models.SavedRecipe{}).Error; err != nil {
		return err
	}
	if err := db.Where("follower_id = ? OR followed_id = ?", callerID, callerID).Delete(&models.Follow{}).Error; err != nil {
		return err
	}

	var cookbookIDs []uint
	err := db.Model(&models.Cookbook{}).Where("user_id = ?", callerID).Pluck("id", &cookbookIDs).Error
	if err != nil {
		return err
	}
	if len(cookbookIDs) > 0 {
		if err := db.Where("cookbook_id IN ?", cookbookIDs).Delete(&models.CookbookRecipe{}).Error; err != nil {
			return err
		}
		if err := db.Where("user_id = ?", callerID).Delete(&models.Cookbook{}).Error; err != nil {
			return err
		}
	}

	// The user's reviews leave stale aggregate ratings behind; collect the
	// affected recipes before deleting so they can be recomputed.
	var reviewedRecipeIDs []uint
	err = db.Model(&models.Review{}).Where("user_id = ?", callerID).
		Distinct("recipe_id").Pluck("recipe_id", &reviewedRecipeIDs).Error
	if err != nil {
		return err
	}
	if err := db.Where("user_id = ?", callerID).Delete(&models.Review{}).Error; err != nil {
		return err
	}
	for _, recipeID := range reviewedRecipeIDs {
		if err := reviews.recomputeRating(ctx, recipeID); err != nil {
			return err
		}
	}

	var recipeIDs []uint
	err = db.Model(&models.Recipe{}).Where("user_id = ?", callerID).Pluck("id", &recipeIDs).Error
	if err != nil {
		return err
	}
	if len(recipeIDs) > 0 {
		if err := db.Where("recipe_id IN ?", recipeIDs).Delete(&models.SavedRecipe{}).Error; err != nil {
			return err
		}
		if err := db.Where("recipe_id IN ?", recipeIDs).Delete(&models.RecipeTag{}).Error; err != nil {
			return err
		}
		if err := db.Where("recipe_id IN ?", recipeIDs).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		if err := db.Where("user_id = ?", callerID).Delete(&models.Recipe{}).Error; err != nil {
			return err
		}
	}

	return db.Delete(&models.User{}, "id = ?", callerID).Error
}

// ToggleFollow follows the target when no follow exists and unfollows
// otherwise. Returns whether the caller now follows the target.
func (s *UserService) ToggleFollow(ctx context.Context, callerID, targetID string) (bool, error) {
	if callerID == targetID {
		return false, fmt.Errorf("%w: cannot follow yourself", ErrConflict)
	}
	if _, err := s.Get(ctx, targetID); err != nil {
		return false, err
	}

	db := s.db.WithContext(ctx)
	var follow models.Follow
	err := db.Where("follower_id = ? AND followed_id = ?", callerID, targetID).First(&follow).Error
	if err == nil {
		if err := db.Delete(&follow).Error; err != nil {
			return false, err
		}
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	follow = models.Follow{FollowerID: callerID, FollowedID: targetID}
	if err := db.Create(&follow).Error; err != nil {
		return false, err
	}
	return true, nil
}

// Followers returns the users following the given user.
func (s *UserService) Followers(ctx context.Context, userID string, limit, offset int) ([]models.User, int64, error) {
	return s.followEdge(ctx, userID, "followed_id", "follower_id", limit, offset)
}

// Following returns the users the given user follows.
func (s *UserService) Following(ctx context.Context, userID string, limit, offset int) ([]models.User, int64, error) {
	return s.followEdge(ctx, userID, "follower_id", "followed_id", limit, offset)
}

func (s *UserService) followEdge(ctx context.Context, userID, whereCol, pluckCol string, limit, offset int) ([]models.User, int64, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	db := s.db.WithContext(ctx)

	var total int64
	err := db.Model(&models.Follow{}).Where(whereCol+" = ?", userID).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var ids []string
	err = db.Model(&models.Follow{}).
		Where(whereCol+" = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Pluck(pluckCol, &ids).Error
	if err != nil {
		return nil, 0, err
	}
	if len(ids) == 0 {
		return []models.User{}, total, nil
	}

	var users []models.User
	if err := db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// IsFollowing reports whether follower follows followed.
func (s *UserService) IsFollowing(ctx context.Context, followerID, followedID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error
	return count > 0, err
}

// ToggleSave saves the recipe for the caller when no save exists, and flips
// the closed flag on an existing save. Returns the resulting save row.
func (s *UserService) ToggleSave(ctx context.Context, callerID string, recipeID uint) (*models.SavedRecipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: recipe", ErrNotFound)
		}
		return nil, err
	}

	db := s.db.WithContext(ctx)
	var saved models.SavedRecipe
	err = db.Where("user_id = ? AND recipe_id = ?", callerID, recipeID).First(&saved).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		saved = models.SavedRecipe{UserID: callerID, RecipeID: recipeID}
		if err := db.Create(&saved).Error; err != nil {
			return nil, err
		}
		return &saved, nil
	}
	if err != nil {
		return nil, err
	}

	saved.Closed = !saved.Closed
	if err := db.Save(&saved).Error; err != nil {
		return nil, err
	}
	return &saved, nil
}

// DeleteSave removes the caller's save of a recipe entirely.
func (s *UserService) DeleteSave(ctx context.Context, callerID string, recipeID uint) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", callerID, recipeID).
		Delete(&models.SavedRecipe{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: save", ErrNotFound)
	}
	return nil
}

// ListSaved returns the caller's saved recipes, newest save first, with the
// save metadata overlaid.
func (s *UserService) ListSaved(ctx context.Context, callerID string, limit, offset int) ([]SavedRecipe, int64, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	db := s.db.WithContext(ctx)

	var total int64
	err := db.Model(&models.SavedRecipe{}).Where("user_id = ?", callerID).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var saves []models.SavedRecipe
	err = db.Where("user_id = ?", callerID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&saves).Error
	if err != nil {
		return nil, 0, err
	}
	if len(saves) == 0 {
		return []SavedRecipe{}, total, nil
	}

	ids := make([]uint, 0, len(saves))
	for _, save := range saves {
		ids = append(ids, save.RecipeID)
	}

	var recipes []models.Recipe
	if err := db.Where("id IN ?", ids).Find(&recipes).Error; err != nil {
		return nil, 0, err
	}

	byID := make(map[uint]models.Recipe, len(recipes))
	for _, recipe := range recipes {
		byID[recipe.ID] = recipe
	}

	out := make([]SavedRecipe, 0, len(saves))
	for _, save := range saves {
		recipe, ok := byID[save.RecipeID]
		if !ok {
			continue
		}
		out = append(out, SavedRecipe{
			Recipe:  recipe,
			Closed:  save.Closed,
			SavedAt: save.CreatedAt,
		})
	}
	return out, total, nil
}
