package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tastytrove/backend/internal/middleware"
	"github.com/tastytrove/backend/internal/models"
	"github.com/tastytrove/backend/internal/service"
	"github.com/tastytrove/backend/internal/types"
)

// profileResponse is a user with the caller's follow relationship attached.
type profileResponse struct {
	models.User
	IsFollowing bool `json:"is_following"`
}

// UserHandler serves profiles, follows and user-scoped listings.
type UserHandler struct {
	users   *service.UserService
	recipes *service.RecipeService
	reviews *service.ReviewService
	stats   *service.StatsService
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(users *service.UserService, recipes *service.RecipeService, reviews *service.ReviewService, stats *service.StatsService) *UserHandler {
	return &UserHandler{users: users, recipes: recipes, reviews: reviews, stats: stats}
}

// RegisterRoutes wires the user endpoints. "me" is accepted anywhere a user
// id is, resolving to the caller.
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup, auth, optionalAuth gin.HandlerFunc) {
	users := router.Group("/users")
	{
		users.GET("/:id", optionalAuth, h.Get)
		users.PATCH("/me", auth, h.UpdateProfile)
		users.DELETE("/me", auth, h.DeleteAccount)
		users.POST("/:id/follow", auth, h.ToggleFollow)
		users.GET("/:id/followers", h.Followers)
		users.GET("/:id/following", h.Following)
		users.GET("/:id/recipes", optionalAuth, h.Recipes)
		users.GET("/:id/stats", h.Stats)
	}
}

// resolveUserID expands the "me" alias to the caller's id.
func resolveUserID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if id != "me" {
		return id, true
	}
	callerID, ok := middleware.CallerID(c)
	if !ok {
		respondError(c, service.ErrUnauthenticated)
		return "", false
	}
	return callerID, true
}

// Get handles GET /users/:id
func (h *UserHandler) Get(c *gin.Context) {
	userID, ok := resolveUserID(c)
	if !ok {
		return
	}

	user, err := h.users.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	isFollowing := false
	if callerID, authed := middleware.CallerID(c); authed && callerID != userID {
		isFollowing, err = h.users.IsFollowing(c.Request.Context(), callerID, userID)
		if err != nil {
			respondError(c, err)
			return
		}
	}

	respondData(c, http.StatusOK, profileResponse{User: *user, IsFollowing: isFollowing})
}

// UpdateProfile handles PATCH /users/me
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		respondError(c, service.ErrUnauthenticated)
		return
	}

	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request: "+err.Error())
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), callerID, &models.User{
		DisplayName:  req.DisplayName,
		Bio:          req.Bio,
		ProfileImage: req.ProfileImage,
		Preferences:  req.Preferences,
		IsChef:       req.IsChef,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, user)
}

// DeleteAccount handles DELETE /users/me
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		respondError(c, service.ErrUnauthenticated)
		return
	}

	if err := h.users.DeleteAccount(c.Request.Context(), callerID, h.reviews); err != nil {
		respondError(c, err)
		return
	}

	h.stats.InvalidateUser(c.Request.Context(), callerID)
	respondMessage(c, http.StatusOK, nil, "account deleted")
}

// ToggleFollow handles POST /users/:id/follow
func (h *UserHandler) ToggleFollow(c *gin.Context) {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		respondError(c, service.ErrUnauthenticated)
		return
	}
	targetID := c.Param("id")

	following, err := h.users.ToggleFollow(c.Request.Context(), callerID, targetID)
	if err != nil {
		respondError(c, err)
		return
	}

	h.stats.InvalidateUser(c.Request.Context(), targetID)
	h.stats.InvalidateUser(c.Request.Context(), callerID)
	respondData(c, http.StatusOK, gin.H{"following": following})
}

// Followers handles GET /users/:id/followers
func (h *UserHandler) Followers(c *gin.Context) {
	limit, offset := parsePage(c)

	users, total, err := h.users.Followers(c.Request.Context(), c.Param("id"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	respondList(c, users, types.NewPageMeta(limit, offset, total))
}

// Following handles GET /users/:id/following
func (h *UserHandler) Following(c *gin.Context) {
	limit, offset := parsePage(c)

	users, total, err := h.users.Following(c.Request.Context(), c.Param("id"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	respondList(c, users, types.NewPageMeta(limit, offset, total))
}

// Recipes handles GET /users/:id/recipes
func (h *UserHandler) Recipes(c *gin.Context) {
	userID, ok := resolveUserID(c)
	if !ok {
		return
	}
	callerID, _ := middleware.CallerID(c)
	limit, offset := parsePage(c)

	recipes, total, err := h.recipes.ListByUser(c.Request.Context(), userID, callerID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	respondList(c, recipes, types.NewPageMeta(limit, offset, total))
}

// Stats handles GET /users/:id/stats
func (h *UserHandler) Stats(c *gin.Context) {
	userID := c.Param("id")
	if _, err := h.users.Get(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}

	stats, err := h.stats.UserStats(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, stats)
}
