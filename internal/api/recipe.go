package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tastytrove/backend/internal/middleware"
	"github.com/tastytrove/backend/internal/models"
	"github.com/tastytrove/backend/internal/service"
	"github.com/tastytrove/backend/internal/types"
)

// recipeResponse is a recipe with its tag names attached.
type recipeResponse struct {
	models.Recipe
	Tags []string `json:"tags"`
}

// RecipeHandler serves recipe CRUD, listing and saves.
type RecipeHandler struct {
	recipes *service.RecipeService
	users   *service.UserService
	stats   *service.StatsService
}

// NewRecipeHandler creates a new RecipeHandler instance
func NewRecipeHandler(recipes *service.RecipeService, users *service.UserService, stats *service.StatsService) *RecipeHandler {
	return &RecipeHandler{recipes: recipes, users: users, stats: stats}
}

// RegisterRoutes wires the recipe endpoints. Reads take optional auth so
// owners see their unpublished recipes; writes require auth and sit behind
// the write rate limiter.
func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup, auth, optionalAuth, writeLimit gin.HandlerFunc) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", optionalAuth, h.List)
		recipes.POST("", auth, writeLimit, h.Create)
		recipes.GET("/saved", auth, h.ListSaved)
		recipes.GET("/:id", optionalAuth, h.Get)
		recipes.PATCH("/:id", auth, writeLimit, h.Update)
		recipes.DELETE("/:id", auth, h.Delete)
		recipes.POST("/:id/save", auth, h.ToggleSave)
		recipes.DELETE("/:id/save", auth, h.DeleteSave)
	}
	router.GET("/stats/recipes", h.RecipeStats)
}

// List handles GET /recipes
func (h *RecipeHandler) List(c *gin.Context) {
	filter := service.ParseRecipeFilter(c.Request.URL.Query())
	if callerID, ok := middleware.CallerID(c); ok {
		filter.OwnerID = callerID
	}

	recipes, total, err := h.recipes.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	data, err := h.withTags(c, recipes)
	if err != nil {
		respondError(c, err)
		return
	}

	respondList(c, data, types.NewPageMeta(filter.Limit, filter.Offset, total))
}

// Get handles GET /recipes/:id
func (h *RecipeHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	recipe, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	// Unpublished recipes are invisible to everyone but the owner.
	callerID, _ := middleware.CallerID(c)
	if !recipe.IsPublished && recipe.UserID != callerID {
		respondError(c, fmt.Errorf("%w: recipe", service.ErrNotFound))
		return
	}

	tags, err := h.recipes.Tags(c.Request.Context(), recipe.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, recipeResponse{Recipe: *recipe, Tags: orEmpty(tags)})
}

// Create handles POST /recipes
func (h *RecipeHandler) Create(c *gin.Context) {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		respondError(c, service.ErrUnauthenticated)
		return
	}

	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request: "+err.Error())
		return
	}
	if !models.ValidCategory(req.Category) {
		respondBadRequest(c, "unknown category: "+req.Category)
		return
	}
	if !models.ValidDifficulty(req.Difficulty) {
		respondBadRequest(c, "unknown difficulty: "+req.Difficulty)
		return
	}

	recipe, err := h.recipes.Create(c.Request.Context(), req.toModel(callerID), req.Tags)
	if err != nil {
		respondError(c, err)
		return
	}

	h.stats.InvalidateUser(c.Request.Context(), callerID)
	respondMessage(c, http.StatusCreated, recipeResponse{Recipe: *recipe, Tags: orEmpty(req.Tags)}, "recipe created")
}

// Update handles PATCH /recipes/:id
func (h *RecipeHandler) Update(c *gin.Context) {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		respondError(c, service.ErrUnauthenticated)
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request: "+err.Error())
		return
	}
	if !models.ValidCategory(req.Category) {
		respondBadRequest(c, "unknown category: "+req.Category)
		return
	}
	if !models.ValidDifficulty(req.Difficulty) {
		respondBadRequest(c, "unknown difficulty: "+req.Difficulty)
		return
	}

	recipe, err := h.recipes.Update(c.Request.Context(), callerID, id, req.toModel(callerID), req.Tags)
	if err != nil {
		respondError(c, err)
		return
	}

	tags, err := h.recipes.Tags(c.Request.Context(), recipe.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, recipeResponse{Recipe: *recipe, Tags: orEmpty(tags)})
}

// Delete handles DELETE /recipes/:id
func (h *RecipeHandler) Delete(c *gin.Context) {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		respondError(c, service.ErrUnauthenticated)
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.recipes.Delete(c.Request.Context(), callerID, id); err != nil {
		respondError(c, err)
		return
	}

	h.stats.InvalidateUser(c.Request.Context(), callerID)
	respondMessage(c, http.StatusOK, nil, "recipe deleted")
}

// ToggleSave handles POST /recipes/:id/save
func (h *RecipeHandler) ToggleSave(c *gin.Context) {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		respondError(c, service.ErrUnauthenticated)
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	saved, err := h.users.ToggleSave(c.Request.Context(), callerID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, saved)
}

// DeleteSave handles DELETE /recipes/:id/save
func (h *RecipeHandler) DeleteSave(c *gin.Context) {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		respondError(c, service.ErrUnauthenticated)
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.users.DeleteSave(c.Request.Context(), callerID, id); err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, nil, "save removed")
}

// ListSaved handles GET /recipes/saved
func (h *RecipeHandler) ListSaved(c *gin.Context) {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		respondError(c, service.ErrUnauthenticated)
		return
	}
	limit, offset := parsePage(c)

	saved, total, err := h.users.ListSaved(c.Request.Context(), callerID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	respondList(c, saved, types.NewPageMeta(limit, offset, total))
}

// RecipeStats handles GET /stats/recipes
func (h *RecipeHandler) RecipeStats(c *gin.Context) {
	stats, err := h.stats.RecipeStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, stats)
}

func (h *RecipeHandler) withTags(c *gin.Context, recipes []models.Recipe) ([]recipeResponse, error) {
	ids := make([]uint, 0, len(recipes))
	for _, recipe := range recipes {
		ids = append(ids, recipe.ID)
	}

	tags, err := h.recipes.TagsForRecipes(c.Request.Context(), ids)
	if err != nil {
		return nil, err
	}

	out := make([]recipeResponse, 0, len(recipes))
	for _, recipe := range recipes {
		out = append(out, recipeResponse{Recipe: recipe, Tags: orEmpty(tags[recipe.ID])})
	}
	return out, nil
}

func orEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
