package models

import (
	"time"

	"gorm.io/gorm"
)

// Cookbook is a user-curated, optionally public collection of recipes.
type Cookbook struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	UserID      string         `gorm:"size:256;not null;index" json:"user_id"`
	Name        string         `gorm:"size:100;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	CoverImage  string         `gorm:"size:512" json:"cover_image"`
	// No column default: gorm drops zero-valued fields that carry one from
	// the INSERT, which would turn a private cookbook public.
	IsPublic bool `gorm:"not null" json:"is_public"`
}

// CookbookRecipe joins a recipe into a cookbook. Each entry carries its own
// note and added-at timestamp; a recipe appears at most once per cookbook.
type CookbookRecipe struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	CookbookID uint      `gorm:"not null;index;uniqueIndex:cookbook_recipes_unique_idx" json:"cookbook_id"`
	RecipeID   uint      `gorm:"not null;index;uniqueIndex:cookbook_recipes_unique_idx" json:"recipe_id"`
	AddedAt    time.Time `gorm:"autoCreateTime" json:"added_at"`
	Notes      string    `gorm:"type:text" json:"notes,omitempty"`
}
