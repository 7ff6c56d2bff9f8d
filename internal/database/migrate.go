package database

import (
	"gorm.io/gorm"

	"github.com/tastytrove/backend/internal/models"
)

// Migrate brings the schema up to date. GORM auto-migration covers both the
// Postgres deployment and the sqlite databases used in tests.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Recipe{},
		&models.Tag{},
		&models.RecipeTag{},
		&models.SavedRecipe{},
		&models.Review{},
		&models.Cookbook{},
		&models.CookbookRecipe{},
	)
}
