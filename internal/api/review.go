package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tastytrove/backend/internal/middleware"
	"github.com/tastytrove/backend/internal/models"
	"github.com/tastytrove/backend/internal/service"
	"github.com/tastytrove/backend/internal/types"
)

// ReviewHandler serves review CRUD and helpful votes.
type ReviewHandler struct {
	reviews *service.ReviewService
}

// NewReviewHandler creates a new ReviewHandler instance
func NewReviewHandler(reviews *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// RegisterRoutes wires the review endpoints. Creation sits behind the review
// rate limiter.
func (h *ReviewHandler) RegisterRoutes(router *gin.RouterGroup, auth, reviewLimit gin.HandlerFunc) {
	router.GET("/recipes/:id/reviews", h.List)
	router.POST("/recipes/:id/reviews", auth, reviewLimit, h.Add)

	reviews := router.Group("/reviews")
	{
		reviews.PATCH("/:id", auth, h.Update)
		reviews.DELETE("/:id", auth, h.Delete)
		reviews.POST("/:id/vote", auth, h.Vote)
	}
}

// List handles GET /recipes/:id/reviews
func (h *ReviewHandler) List(c *gin.Context) {
	recipeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	limit, offset := parsePage(c)

	reviews, total, err := h.reviews.List(c.Request.Context(), recipeID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	respondList(c, reviews, types.NewPageMeta(limit, offset, total))
}

// Add handles POST /recipes/:id/reviews
func (h *ReviewHandler) Add(c *gin.Context) {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		respondError(c, service.ErrUnauthenticated)
		return
	}
	recipeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request: "+err.Error())
		return
	}

	review := &models.Review{
		RecipeID: recipeID,
		Rating:   req.Rating,
		Title:    req.Title,
		Content:  req.Content,
		Images:   models.FileUploads(req.Images),
	}

	created, err := h.reviews.Add(c.Request.Context(), callerID, review)
	if err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, http.StatusCreated, created, "review created")
}

// Update handles PATCH /reviews/:id
func (h *ReviewHandler) Update(c *gin.Context) {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		respondError(c, service.ErrUnauthenticated)
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request: "+err.Error())
		return
	}

	updated, err := h.reviews.Update(c.Request.Context(), callerID, id, &models.Review{
		Rating:  req.Rating,
		Title:   req.Title,
		Content: req.Content,
		Images:  models.FileUploads(req.Images),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, updated)
}

// Delete handles DELETE /reviews/:id
func (h *ReviewHandler) Delete(c *gin.Context) {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		respondError(c, service.ErrUnauthenticated)
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.reviews.Delete(c.Request.Context(), callerID, id); err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, nil, "review deleted")
}

// Vote handles POST /reviews/:id/vote
func (h *ReviewHandler) Vote(c *gin.Context) {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		respondError(c, service.ErrUnauthenticated)
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	review, err := h.reviews.Vote(c.Request.Context(), callerID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, review)
}
