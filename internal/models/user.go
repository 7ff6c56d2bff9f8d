package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// Preferences is the user's free-form taste profile, stored as JSONB.
type Preferences struct {
	FavoriteCuisines    []string `json:"favoriteCuisines,omitempty"`
	DietaryRestrictions []string `json:"dietaryRestrictions,omitempty"`
}

func (p Preferences) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *Preferences) Scan(value interface{}) error {
	return scanJSON(value, p)
}

// User mirrors the identity provider's subject. The row is created on the
// user's first authenticated request and carries only profile data; no
// credentials live here.
type User struct {
	ID           string         `gorm:"size:256;primarykey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	DisplayName  string         `gorm:"size:100" json:"display_name"`
	Bio          string         `gorm:"type:text" json:"bio"`
	ProfileImage string         `gorm:"size:512" json:"profile_image"`
	Preferences  *Preferences   `gorm:"type:jsonb" json:"preferences,omitempty"`
	IsChef       bool           `gorm:"not null;default:false" json:"is_chef"`
}

// Follow is a directed edge between users, unique per pair.
type Follow struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	FollowerID string    `gorm:"size:256;not null;index;uniqueIndex:follows_unique_idx" json:"follower_id"`
	FollowedID string    `gorm:"size:256;not null;index;uniqueIndex:follows_unique_idx" json:"followed_id"`
	CreatedAt  time.Time `json:"created_at"`
}
