package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tastytrove/backend/internal/middleware"
	"github.com/tastytrove/backend/internal/models"
	"github.com/tastytrove/backend/internal/service"
	"github.com/tastytrove/backend/internal/types"
)

// CookbookHandler serves cookbook CRUD and entry management.
type CookbookHandler struct {
	cookbooks *service.CookbookService
}

// NewCookbookHandler creates a new CookbookHandler instance
func NewCookbookHandler(cookbooks *service.CookbookService) *CookbookHandler {
	return &CookbookHandler{cookbooks: cookbooks}
}

// RegisterRoutes wires the cookbook endpoints. Reads take optional auth so
// owners see their private cookbooks.
func (h *CookbookHandler) RegisterRoutes(router *gin.RouterGroup, auth, optionalAuth gin.HandlerFunc) {
	cookbooks := router.Group("/cookbooks")
	{
		cookbooks.POST("", auth, h.Create)
		cookbooks.GET("/:id", optionalAuth, h.Get)
		cookbooks.PATCH("/:id", auth, h.Update)
		cookbooks.DELETE("/:id", auth, h.Delete)
		cookbooks.GET("/:id/recipes", optionalAuth, h.Recipes)
		cookbooks.POST("/:id/recipes", auth, h.AddRecipe)
		cookbooks.DELETE("/:id/recipes/:recipeId", auth, h.RemoveRecipe)
	}
	router.GET("/users/:id/cookbooks", optionalAuth, h.ListByUser)
}

// Create handles POST /cookbooks
func (h *CookbookHandler) Create(c *gin.Context) {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		respondError(c, service.ErrUnauthenticated)
		return
	}

	var req CookbookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request: "+err.Error())
		return
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	cookbook, err := h.cookbooks.Create(c.Request.Context(), &models.Cookbook{
		UserID:      callerID,
		Name:        req.Name,
		Description: req.Description,
		CoverImage:  req.CoverImage,
		IsPublic:    isPublic,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, http.StatusCreated, cookbook, "cookbook created")
}

// Get handles GET /cookbooks/:id
func (h *CookbookHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	callerID, _ := middleware.CallerID(c)

	cookbook, err := h.cookbooks.Get(c.Request.Context(), callerID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, cookbook)
}

// ListByUser handles GET /users/:id/cookbooks
func (h *CookbookHandler) ListByUser(c *gin.Context) {
	userID := c.Param("id")
	callerID, _ := middleware.CallerID(c)
	limit, offset := parsePage(c)

	cookbooks, total, err := h.cookbooks.ListByUser(c.Request.Context(), userID, callerID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	respondList(c, cookbooks, types.NewPageMeta(limit, offset, total))
}

// Update handles PATCH /cookbooks/:id
func (h *CookbookHandler) Update(c *gin.Context) {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		respondError(c, service.ErrUnauthenticated)
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CookbookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request: "+err.Error())
		return
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	cookbook, err := h.cookbooks.Update(c.Request.Context(), callerID, id, &models.Cookbook{
		Name:        req.Name,
		Description: req.Description,
		CoverImage:  req.CoverImage,
		IsPublic:    isPublic,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, cookbook)
}

// Delete handles DELETE /cookbooks/:id
func (h *CookbookHandler) Delete(c *gin.Context) {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		respondError(c, service.ErrUnauthenticated)
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.cookbooks.Delete(c.Request.Context(), callerID, id); err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, nil, "cookbook deleted")
}

// Recipes handles GET /cookbooks/:id/recipes
func (h *CookbookHandler) Recipes(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	callerID, _ := middleware.CallerID(c)

	recipes, err := h.cookbooks.Recipes(c.Request.Context(), callerID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, recipes)
}

// AddRecipe handles POST /cookbooks/:id/recipes
func (h *CookbookHandler) AddRecipe(c *gin.Context) {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		respondError(c, service.ErrUnauthenticated)
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CookbookEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request: "+err.Error())
		return
	}

	err := h.cookbooks.AddRecipe(c.Request.Context(), callerID, id, req.RecipeID, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, http.StatusCreated, nil, "recipe added to cookbook")
}

// RemoveRecipe handles DELETE /cookbooks/:id/recipes/:recipeId
func (h *CookbookHandler) RemoveRecipe(c *gin.Context) {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		respondError(c, service.ErrUnauthenticated)
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	recipeID, ok := parseIDParam(c, "recipeId")
	if !ok {
		return
	}

	err := h.cookbooks.RemoveRecipe(c.Request.Context(), callerID, id, recipeID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, nil, "recipe removed from cookbook")
}
