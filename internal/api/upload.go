package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tastytrove/backend/internal/middleware"
	"github.com/tastytrove/backend/internal/service"
)

// UploadHandler mints presigned upload slots.
type UploadHandler struct {
	uploads *service.UploadService
}

// NewUploadHandler creates a new UploadHandler instance
func NewUploadHandler(uploads *service.UploadService) *UploadHandler {
	return &UploadHandler{uploads: uploads}
}

// RegisterRoutes wires the upload endpoint.
func (h *UploadHandler) RegisterRoutes(router *gin.RouterGroup, auth gin.HandlerFunc) {
	router.POST("/uploads", auth, h.Presign)
}

// Presign handles POST /uploads
func (h *UploadHandler) Presign(c *gin.Context) {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		respondError(c, service.ErrUnauthenticated)
		return
	}

	var req UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request: "+err.Error())
		return
	}

	upload, err := h.uploads.Presign(c.Request.Context(), callerID, req.FileName, req.ContentType)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, upload)
}
