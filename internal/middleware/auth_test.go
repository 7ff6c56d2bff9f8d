package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/tastytrove/backend/internal/types"
)

type stubValidator struct {
	identity *types.Identity
}

func (s *stubValidator) ValidateToken(ctx context.Context, token string) (*types.Identity, error) {
	if s.identity == nil || token != "good" {
		return nil, errors.New("invalid token")
	}
	return s.identity, nil
}

func testRouter(validator TokenValidator, required bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	var mw gin.HandlerFunc
	if required {
		mw = AuthMiddleware(validator, nil)
	} else {
		mw = OptionalAuth(validator)
	}

	router.GET("/probe", mw, func(c *gin.Context) {
		userID, ok := CallerID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "authenticated": ok})
	})
	return router
}

func get(router *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	router := testRouter(&stubValidator{identity: &types.Identity{UserID: "u1"}}, true)

	w := get(router, "Bearer good")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"u1"`)
}

func TestAuthMiddlewareRejects(t *testing.T) {
	router := testRouter(&stubValidator{identity: &types.Identity{UserID: "u1"}}, true)

	for _, header := range []string{"", "Bearer bad", "good", "Basic good"} {
		w := get(router, header)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q must be rejected", header)
		assert.Contains(t, w.Body.String(), `"success":false`)
	}
}

func TestOptionalAuthContinuesAnonymously(t *testing.T) {
	router := testRouter(&stubValidator{identity: &types.Identity{UserID: "u1"}}, false)

	w := get(router, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":false`)

	w = get(router, "Bearer bad")
	assert.Equal(t, http.StatusOK, w.Code, "a bad token degrades to anonymous")
	assert.Contains(t, w.Body.String(), `"authenticated":false`)

	w = get(router, "Bearer good")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":true`)
}

func TestNilRateLimiterPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	var rl *RateLimiter
	router.GET("/probe", func(c *gin.Context) { c.Set("user_id", "u1"); c.Next() }, rl.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
