package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gorm.io/gorm"

	"github.com/tastytrove/backend/internal/models"
)

// ReviewService handles reviews, helpful votes and the derived recipe rating.
type ReviewService struct {
	db *gorm.DB
}

// NewReviewService creates a new ReviewService instance
func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

// List returns a page of reviews for a recipe, most helpful first, together
// with the total count.
func (s *ReviewService) List(ctx context.Context, recipeID uint, limit, offset int) ([]models.Review, int64, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	var total int64
	err := s.db.WithContext(ctx).Model(&models.Review{}).
		Where("recipe_id = ?", recipeID).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var reviews []models.Review
	err = s.db.WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Order("helpful_votes DESC, created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}

// Get retrieves a review by ID.
func (s *ReviewService) Get(ctx context.Context, id uint) (*models.Review, error) {
	var review models.Review
	if err := s.db.WithContext(ctx).First(&review, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: review", ErrNotFound)
		}
		return nil, err
	}
	return &review, nil
}

// Add creates a review for a recipe. Owners cannot review their own recipes
// and each user gets at most one review per recipe. The recipe's aggregate
// rating is recomputed after the insert.
func (s *ReviewService) Add(ctx context.Context, callerID string, review *models.Review) (*models.Review, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).First(&recipe, "id = ?", review.RecipeID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: recipe", ErrNotFound)
		}
		return nil, err
	}
	if recipe.UserID == callerID {
		return nil, fmt.Errorf("%w: cannot review your own recipe", ErrConflict)
	}

	var existing models.Review
	err = s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", callerID, review.RecipeID).
		First(&existing).Error
	if err == nil {
		return nil, fmt.Errorf("%w: you have already reviewed this recipe", ErrConflict)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	review.UserID = callerID
	if err := s.db.WithContext(ctx).Create(review).Error; err != nil {
		return nil, err
	}

	if err := s.recomputeRating(ctx, review.RecipeID); err != nil {
		return nil, err
	}

	return review, nil
}

// Update rewrites a review's rating and text. Only the author may update,
// and the recipe rating is recomputed afterwards.
func (s *ReviewService) Update(ctx context.Context, callerID string, id uint, updated *models.Review) (*models.Review, error) {
	review, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if review.UserID != callerID {
		return nil, fmt.Errorf("%w: not the review author", ErrForbidden)
	}

	review.Rating = updated.Rating
	review.Title = updated.Title
	review.Content = updated.Content
	review.Images = updated.Images

	if err := s.db.WithContext(ctx).Save(review).Error; err != nil {
		return nil, err
	}

	if err := s.recomputeRating(ctx, review.RecipeID); err != nil {
		return nil, err
	}

	return review, nil
}

// Delete removes a review and recomputes the recipe rating. Deleting the
// last review resets the rating to zero.
func (s *ReviewService) Delete(ctx context.Context, callerID string, id uint) error {
	review, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if review.UserID != callerID {
		return fmt.Errorf("%w: not the review author", ErrForbidden)
	}

	if err := s.db.WithContext(ctx).Delete(&models.Review{}, "id = ?", id).Error; err != nil {
		return err
	}

	return s.recomputeRating(ctx, review.RecipeID)
}

// Vote marks a review as helpful. Authors cannot vote on their own reviews.
func (s *ReviewService) Vote(ctx context.Context, callerID string, id uint) (*models.Review, error) {
	review, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if review.UserID == callerID {
		return nil, fmt.Errorf("%w: cannot vote on your own review", ErrConflict)
	}

	err = s.db.WithContext(ctx).Model(review).
		UpdateColumn("helpful_votes", gorm.Expr("helpful_votes + 1")).Error
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, id)
}

// recomputeRating reads all remaining reviews for the recipe and stores the
// rounded mean. The read and the write are not wrapped in a transaction;
// concurrent review writes settle on whichever recompute lands last.
func (s *ReviewService) recomputeRating(ctx context.Context, recipeID uint) error {
	var avg *float64
	err := s.db.WithContext(ctx).Model(&models.Review{}).
		Where("recipe_id = ?", recipeID).
		Select("AVG(rating)").
		Scan(&avg).Error
	if err != nil {
		return err
	}

	rating := 0
	if avg != nil {
		rating = int(math.Round(*avg))
	}

	return s.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("id = ?", recipeID).
		UpdateColumn("rating", rating).Error
}
