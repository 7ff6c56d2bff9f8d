package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/tastytrove/backend/internal/models"
)

const statsCacheTTL = 5 * time.Minute

// CategoryCount is one row of the category breakdown.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// RecipeStats is the site-wide recipe summary.
type RecipeStats struct {
	TotalRecipes  int64           `json:"totalRecipes"`
	TotalLikes    int64           `json:"totalLikes"`
	AvgRating     float64         `json:"avgRating"`
	TopCategories []CategoryCount `json:"topCategories"`
}

// PopularRecipe is a stripped-down recipe row for stats payloads.
type PopularRecipe struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Likes int    `json:"likes"`
}

// UserStats summarizes one user's footprint.
type UserStats struct {
	TotalRecipes   int64           `json:"totalRecipes"`
	TotalLikes     int64           `json:"totalLikes"`
	TotalFollowers int64           `json:"totalFollowers"`
	TotalFollowing int64           `json:"totalFollowing"`
	PopularRecipes []PopularRecipe `json:"popularRecipes"`
}

// StatsService aggregates counts over recipes and follows. Results are
// cached in Redis for a short window when a client is configured; a nil
// client disables caching.
type StatsService struct {
	db  *gorm.DB
	rdb *redis.Client
}

// NewStatsService creates a new StatsService instance
func NewStatsService(db *gorm.DB, rdb *redis.Client) *StatsService {
	return &StatsService{db: db, rdb: rdb}
}

// RecipeStats computes the site-wide summary over published recipes.
func (s *StatsService) RecipeStats(ctx context.Context) (*RecipeStats, error) {
	const cacheKey = "stats:recipes"

	var cached RecipeStats
	if s.cacheGet(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	db := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("is_published = ?", true)

	stats := RecipeStats{TopCategories: []CategoryCount{}}
	if err := db.Session(&gorm.Session{}).Count(&stats.TotalRecipes).Error; err != nil {
		return nil, err
	}

	var totals struct {
		TotalLikes int64
		AvgRating  *float64
	}
	err := db.Session(&gorm.Session{}).
		Select("COALESCE(SUM(likes), 0) AS total_likes, AVG(NULLIF(rating, 0)) AS avg_rating").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	stats.TotalLikes = totals.TotalLikes
	if totals.AvgRating != nil {
		stats.AvgRating = *totals.AvgRating
	}

	err = db.Session(&gorm.Session{}).
		Select("category, COUNT(*) AS count").
		Group("category").
		Order("count DESC").
		Limit(5).
		Scan(&stats.TopCategories).Error
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, cacheKey, &stats)
	return &stats, nil
}

// UserStats computes one user's recipe and follow counts plus their five
// most-liked published recipes.
func (s *StatsService) UserStats(ctx context.Context, userID string) (*UserStats, error) {
	cacheKey := "stats:user:" + userID

	var cached UserStats
	if s.cacheGet(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	db := s.db.WithContext(ctx)
	stats := UserStats{PopularRecipes: []PopularRecipe{}}

	err := db.Model(&models.Recipe{}).
		Where("user_id = ? AND is_published = ?", userID, true).
		Count(&stats.TotalRecipes).Error
	if err != nil {
		return nil, err
	}

	var likes struct{ TotalLikes int64 }
	err = db.Model(&models.Recipe{}).
		Where("user_id = ? AND is_published = ?", userID, true).
		Select("COALESCE(SUM(likes), 0) AS total_likes").
		Scan(&likes).Error
	if err != nil {
		return nil, err
	}
	stats.TotalLikes = likes.TotalLikes

	err = db.Model(&models.Follow{}).Where("followed_id = ?", userID).Count(&stats.TotalFollowers).Error
	if err != nil {
		return nil, err
	}
	err = db.Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&stats.TotalFollowing).Error
	if err != nil {
		return nil, err
	}

	err = db.Model(&models.Recipe{}).
		Where("user_id = ? AND is_published = ?", userID, true).
		Select("id, name, likes").
		Order("likes DESC").
		Limit(5).
		Scan(&stats.PopularRecipes).Error
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, cacheKey, &stats)
	return &stats, nil
}

// InvalidateUser drops a user's cached stats after a write that changes them.
func (s *StatsService) InvalidateUser(ctx context.Context, userID string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, "stats:user:"+userID).Err(); err != nil {
		log.Printf("Failed to invalidate stats cache for user %s: %v", userID, err)
	}
}

func (s *StatsService) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if s.rdb == nil {
		return false
	}
	raw, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("Failed to read stats cache %s: %v", key, err)
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		log.Printf("Failed to decode stats cache %s: %v", key, err)
		return false
	}
	return true
}

func (s *StatsService) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.rdb == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		log.Printf("Failed to encode stats cache %s: %v", key, err)
		return
	}
	if err := s.rdb.Set(ctx, key, raw, statsCacheTTL).Err(); err != nil {
		log.Printf("Failed to write stats cache %s: %v", key, err)
	}
}
