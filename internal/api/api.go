package api

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/tastytrove/backend/config"
	"github.com/tastytrove/backend/internal/middleware"
	"github.com/tastytrove/backend/internal/service"
)

// RegisterRoutes builds the service layer and mounts every endpoint group on
// the given router group. A nil redis client disables rate limiting and
// stats caching; a nil s3 config disables uploads.
func RegisterRoutes(router *gin.RouterGroup, db *gorm.DB, rdb *redis.Client, identity *service.IdentityService, s3 *config.S3Config) {
	recipes := service.NewRecipeService(db)
	reviews := service.NewReviewService(db)
	cookbooks := service.NewCookbookService(db)
	users := service.NewUserService(db)
	stats := service.NewStatsService(db, rdb)
	uploads := service.NewUploadService(s3)

	auth := middleware.AuthMiddleware(identity, identity)
	optionalAuth := middleware.OptionalAuth(identity)
	writeLimit := middleware.NewRecipeWriteRateLimiter(rdb).Middleware()
	reviewLimit := middleware.NewReviewRateLimiter(rdb).Middleware()

	NewRecipeHandler(recipes, users, stats).RegisterRoutes(router, auth, optionalAuth, writeLimit)
	NewReviewHandler(reviews).RegisterRoutes(router, auth, reviewLimit)
	NewCookbookHandler(cookbooks).RegisterRoutes(router, auth, optionalAuth)
	NewUserHandler(users, recipes, reviews, stats).RegisterRoutes(router, auth, optionalAuth)
	NewUploadHandler(uploads).RegisterRoutes(router, auth)
}
