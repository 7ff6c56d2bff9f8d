package models

import "time"

// Review is one user's rating of a recipe. Exactly one review per
// (user, recipe); recipe owners cannot review their own recipes. Reviews are
// hard-deleted so the unique pair index allows re-reviewing after deletion.
type Review struct {
	ID           uint        `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
	UserID       string      `gorm:"size:256;not null;index;uniqueIndex:reviews_user_recipe_idx" json:"user_id"`
	RecipeID     uint        `gorm:"not null;index;uniqueIndex:reviews_user_recipe_idx" json:"recipe_id"`
	Rating       int         `gorm:"not null;default:0" json:"rating"`
	Title        string      `gorm:"size:100" json:"title,omitempty"`
	Content      string      `gorm:"type:text" json:"content,omitempty"`
	Images       FileUploads `gorm:"type:jsonb" json:"images"`
	HelpfulVotes int         `gorm:"not null;default:0" json:"helpful_votes"`
}
