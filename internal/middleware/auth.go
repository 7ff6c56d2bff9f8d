package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tastytrove/backend/internal/types"
)

// TokenValidator verifies provider-issued bearer tokens.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*types.Identity, error)
}

// UserProvisioner creates the local user row on first authentication.
type UserProvisioner interface {
	EnsureUser(ctx context.Context, identity *types.Identity) error
}

// AuthMiddleware validates the bearer token and stores the caller identity in
// the request context. The provisioner may be nil when user upsert is handled
// elsewhere (tests seed users directly).
func AuthMiddleware(validator TokenValidator, users UserProvisioner) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := identityFromRequest(c, validator)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error(), "success": false})
			c.Abort()
			return
		}

		if users != nil {
			if err := users.EnsureUser(c.Request.Context(), identity); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to provision user", "success": false})
				c.Abort()
				return
			}
		}

		c.Set("user_id", identity.UserID)
		c.Set("identity", identity)
		c.Next()
	}
}

// OptionalAuth resolves the caller identity when a valid token is supplied
// and continues anonymously otherwise.
func OptionalAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if identity, err := identityFromRequest(c, validator); err == nil {
			c.Set("user_id", identity.UserID)
			c.Set("identity", identity)
		}
		c.Next()
	}
}

func identityFromRequest(c *gin.Context, validator TokenValidator) (*types.Identity, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, errMissingHeader
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, errBadHeader
	}

	return validator.ValidateToken(c.Request.Context(), parts[1])
}

var (
	errMissingHeader = authError("missing authorization header")
	errBadHeader     = authError("invalid authorization header format")
)

type authError string

func (e authError) Error() string { return string(e) }

// CallerID returns the authenticated user id from the gin context, if any.
func CallerID(c *gin.Context) (string, bool) {
	v, ok := c.Get("user_id")
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}
