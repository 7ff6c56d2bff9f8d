package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

// Recipe categories and difficulties form closed vocabularies; writes outside
// them are rejected at the API layer.
const (
	CategoryBreakfast = "breakfast"
	CategoryLunch     = "lunch"
	CategoryDinner    = "dinner"
	CategoryMeal      = "meal"
	CategoryDessert   = "dessert"
	CategorySnack     = "snack"
	CategoryAppetizer = "appetizer"
	CategoryDrinks    = "drinks"

	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

var categories = map[string]bool{
	CategoryBreakfast: true,
	CategoryLunch:     true,
	CategoryDinner:    true,
	CategoryMeal:      true,
	CategoryDessert:   true,
	CategorySnack:     true,
	CategoryAppetizer: true,
	CategoryDrinks:    true,
}

var difficulties = map[string]bool{
	DifficultyEasy:   true,
	DifficultyMedium: true,
	DifficultyHard:   true,
}

// ValidCategory reports whether c is a known recipe category.
func ValidCategory(c string) bool { return categories[c] }

// ValidDifficulty reports whether d is a known difficulty level.
func ValidDifficulty(d string) bool { return difficulties[d] }

func scanJSON(value interface{}, dest interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return errors.New("unsupported type for JSONB scan")
	}
}

// Ingredient is one line of a recipe's ingredient list.
type Ingredient struct {
	Ingredient string  `json:"ingredient"`
	Quantity   float64 `json:"quantity,omitempty"`
	Units      string  `json:"units,omitempty"`
	Notes      string  `json:"notes,omitempty"`
	IsOptional bool    `json:"isOptional,omitempty"`
}

// Ingredients is stored as a JSONB array.
type Ingredients []Ingredient

func (i Ingredients) Value() (driver.Value, error) {
	return json.Marshal(i)
}

func (i *Ingredients) Scan(value interface{}) error {
	return scanJSON(value, i)
}

// Steps is an ordered list of instructions, stored as a JSONB array.
type Steps []string

func (s Steps) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *Steps) Scan(value interface{}) error {
	return scanJSON(value, s)
}

// FileUpload references an object in external storage. The server only holds
// the reference; bytes go straight to the bucket via presigned URLs.
type FileUpload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// FileUploads is stored as a JSONB array.
type FileUploads []FileUpload

func (f FileUploads) Value() (driver.Value, error) {
	return json.Marshal(f)
}

func (f *FileUploads) Scan(value interface{}) error {
	return scanJSON(value, f)
}

// NutritionFacts are per-serving values, all optional.
type NutritionFacts struct {
	Calories      float64 `json:"calories,omitempty"`
	Protein       float64 `json:"protein,omitempty"`
	Carbohydrates float64 `json:"carbohydrates,omitempty"`
	Fat           float64 `json:"fat,omitempty"`
	Fiber         float64 `json:"fiber,omitempty"`
	Sugar         float64 `json:"sugar,omitempty"`
	Sodium        float64 `json:"sodium,omitempty"`
}

func (n NutritionFacts) Value() (driver.Value, error) {
	return json.Marshal(n)
}

func (n *NutritionFacts) Scan(value interface{}) error {
	return scanJSON(value, n)
}

// Recipe is the core entity. Names are unique across the whole table,
// enforced at write time rather than by index so soft-deleted rows don't
// block reuse. Rating is derived from reviews and never written directly.
type Recipe struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
	UserID      string          `gorm:"size:256;not null;index" json:"user_id"`
	Name        string          `gorm:"size:100;not null;index" json:"name"`
	Author      string          `gorm:"size:100" json:"author"`
	Description string          `gorm:"type:text" json:"description"`
	Difficulty  string          `gorm:"size:20;not null;default:'medium';index" json:"difficulty"`
	Category    string          `gorm:"size:30;not null;default:'breakfast';index" json:"category"`
	Rating      int             `gorm:"not null;default:0" json:"rating"`
	PrepTime    int             `gorm:"not null;default:0" json:"prep_time"`
	CookTime    int             `gorm:"not null;default:0" json:"cook_time"`
	TotalTime   int             `gorm:"not null;default:0" json:"total_time"`
	Servings    int             `gorm:"not null;default:1" json:"servings"`
	Ingredients Ingredients     `gorm:"type:jsonb" json:"ingredients"`
	Steps       Steps           `gorm:"type:jsonb" json:"steps"`
	Nutrition   *NutritionFacts `gorm:"type:jsonb" json:"nutrition,omitempty"`
	Cuisine     string          `gorm:"size:50;index" json:"cuisine,omitempty"`
	Source      string          `gorm:"size:512" json:"source,omitempty"`
	Notes       string          `gorm:"type:text" json:"notes,omitempty"`
	// No column default: gorm drops zero-valued fields that carry one from
	// the INSERT, which would silently publish drafts.
	IsPublished bool `gorm:"not null;index" json:"is_published"`
	Images      FileUploads     `gorm:"type:jsonb" json:"images"`
	Likes       int             `gorm:"not null;default:0" json:"likes"`
	Dislikes    int             `gorm:"not null;default:0" json:"dislikes"`
}

// Tag is a shared vocabulary entry; names are globally unique.
type Tag struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"size:50;not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// RecipeTag links a recipe to a tag, unique per pair.
type RecipeTag struct {
	ID       uint `gorm:"primarykey" json:"id"`
	RecipeID uint `gorm:"not null;index;uniqueIndex:recipe_tags_unique_idx" json:"recipe_id"`
	TagID    uint `gorm:"not null;index;uniqueIndex:recipe_tags_unique_idx" json:"tag_id"`
}

// SavedRecipe is a user's bookmark of a recipe. Closed marks a save the user
// has tucked away without removing it.
type SavedRecipe struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    string    `gorm:"size:256;not null;index;uniqueIndex:saved_recipes_unique_idx" json:"user_id"`
	RecipeID  uint      `gorm:"not null;index;uniqueIndex:saved_recipes_unique_idx" json:"recipe_id"`
	Closed    bool      `gorm:"not null;default:false" json:"closed"`
}
