package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tastytrove/backend/internal/models"
	"github.com/tastytrove/backend/internal/service"
	"github.com/tastytrove/backend/internal/types"
)

// RecipeRequest is the write payload for creating or replacing a recipe.
type RecipeRequest struct {
	Name        string                 `json:"name" binding:"required,max=100"`
	Author      string                 `json:"author" binding:"max=100"`
	Description string                 `json:"description"`
	Category    string                 `json:"category" binding:"required"`
	Difficulty  string                 `json:"difficulty" binding:"required"`
	PrepTime    int                    `json:"prep_time" binding:"min=0"`
	CookTime    int                    `json:"cook_time" binding:"min=0"`
	TotalTime   int                    `json:"total_time" binding:"min=0"`
	Servings    int                    `json:"servings" binding:"min=0"`
	Ingredients []models.Ingredient    `json:"ingredients" binding:"required,min=1"`
	Steps       []string               `json:"steps" binding:"required,min=1"`
	Nutrition   *models.NutritionFacts `json:"nutrition"`
	Cuisine     string                 `json:"cuisine" binding:"max=50"`
	Source      string                 `json:"source" binding:"max=512"`
	Notes       string                 `json:"notes"`
	IsPublished *bool                  `json:"is_published"`
	Images      []models.FileUpload    `json:"images"`
	Tags        []string               `json:"tags"`
}

func (r *RecipeRequest) toModel(userID string) *models.Recipe {
	published := true
	if r.IsPublished != nil {
		published = *r.IsPublished
	}
	return &models.Recipe{
		UserID:      userID,
		Name:        r.Name,
		Author:      r.Author,
		Description: r.Description,
		Category:    r.Category,
		Difficulty:  r.Difficulty,
		PrepTime:    r.PrepTime,
		CookTime:    r.CookTime,
		TotalTime:   r.TotalTime,
		Servings:    r.Servings,
		Ingredients: models.Ingredients(r.Ingredients),
		Steps:       models.Steps(r.Steps),
		Nutrition:   r.Nutrition,
		Cuisine:     r.Cuisine,
		Source:      r.Source,
		Notes:       r.Notes,
		IsPublished: published,
		Images:      models.FileUploads(r.Images),
	}
}

// ReviewRequest is the write payload for creating or replacing a review.
type ReviewRequest struct {
	Rating  int                 `json:"rating" binding:"required,min=1,max=5"`
	Title   string              `json:"title" binding:"max=100"`
	Content string              `json:"content"`
	Images  []models.FileUpload `json:"images"`
}

// CookbookRequest is the write payload for creating or replacing a cookbook.
type CookbookRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
	CoverImage  string `json:"cover_image" binding:"max=512"`
	IsPublic    *bool  `json:"is_public"`
}

// CookbookEntryRequest adds a recipe into a cookbook.
type CookbookEntryRequest struct {
	RecipeID uint   `json:"recipe_id" binding:"required"`
	Notes    string `json:"notes"`
}

// ProfileRequest is the write payload for updating the caller's profile.
type ProfileRequest struct {
	DisplayName  string              `json:"display_name" binding:"max=100"`
	Bio          string              `json:"bio"`
	ProfileImage string              `json:"profile_image" binding:"max=512"`
	Preferences  *models.Preferences `json:"preferences"`
	IsChef       bool                `json:"is_chef"`
}

// UploadRequest asks for a presigned upload slot.
type UploadRequest struct {
	FileName    string `json:"file_name" binding:"required,max=256"`
	ContentType string `json:"content_type" binding:"required"`
}

func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, types.APIResponse{Data: data, Status: status, Success: true})
}

func respondMessage(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, types.APIResponse{Data: data, Status: status, Success: true, Message: message})
}

func respondList(c *gin.Context, data interface{}, meta types.PageMeta) {
	c.JSON(http.StatusOK, types.PaginatedResponse{Data: data, Meta: meta})
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: message, Success: false})
}

// respondError maps service sentinels onto HTTP statuses. Anything unmapped
// is a 500 with the detail kept out of the response body.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, types.ErrorResponse{Error: err.Error(), Success: false})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, types.ErrorResponse{Error: err.Error(), Success: false})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, types.ErrorResponse{Error: err.Error(), Success: false})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: err.Error(), Success: false})
	default:
		log.Printf("Internal error handling %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "internal server error", Success: false})
	}
}

// parseIDParam reads a numeric path parameter.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		respondBadRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// parsePage reads limit/offset query parameters with the service defaults.
func parsePage(c *gin.Context) (limit, offset int) {
	limit = 10
	offset = 0
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > 100 {
		limit = 100
	}
	if raw := c.Query("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	}
	return limit, offset
}
