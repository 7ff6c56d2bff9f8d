package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/tastytrove/backend/config"
	"github.com/tastytrove/backend/internal/models"
	"github.com/tastytrove/backend/internal/types"
)

// IdentityService validates provider-issued bearer tokens and provisions the
// local user row on first authentication. Authentication itself (login,
// sessions, token issuance) lives entirely with the identity provider; this
// service only verifies what the provider signed.
type IdentityService struct {
	db        *gorm.DB
	verifier  *oidc.IDTokenVerifier
	devSecret string
}

// NewIdentityService builds the service. With an issuer URL configured it
// verifies OIDC ID tokens against the provider's keys; otherwise it accepts
// HS256 tokens signed with the dev secret, for local development and tests.
func NewIdentityService(ctx context.Context, db *gorm.DB, cfg *config.Config) (*IdentityService, error) {
	s := &IdentityService{db: db, devSecret: cfg.AuthDevSecret}

	if cfg.AuthIssuerURL != "" {
		provider, err := oidc.NewProvider(ctx, cfg.AuthIssuerURL)
		if err != nil {
			return nil, fmt.Errorf("failed to reach identity provider: %w", err)
		}
		s.verifier = provider.Verifier(&oidc.Config{ClientID: cfg.AuthClientID})
	}

	return s, nil
}

// NewDevIdentityService returns a service that only accepts locally signed
// HS256 tokens. Used by tests and offline tooling.
func NewDevIdentityService(db *gorm.DB, secret string) *IdentityService {
	return &IdentityService{db: db, devSecret: secret}
}

// ValidateToken verifies a bearer token and returns the caller's identity.
func (s *IdentityService) ValidateToken(ctx context.Context, raw string) (*types.Identity, error) {
	if s.verifier != nil {
		return s.validateIDToken(ctx, raw)
	}
	if s.devSecret != "" {
		return s.validateDevToken(raw)
	}
	return nil, errors.New("no token verifier configured")
}

func (s *IdentityService) validateIDToken(ctx context.Context, raw string) (*types.Identity, error) {
	idToken, err := s.verifier.Verify(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid ID token: %w", err)
	}

	var claims struct {
		Name     string `json:"name"`
		Nickname string `json:"nickname"`
		Picture  string `json:"picture"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("cannot parse ID token claims: %w", err)
	}

	name := claims.Name
	if name == "" {
		name = claims.Nickname
	}

	return &types.Identity{
		UserID:      idToken.Subject,
		DisplayName: name,
		Picture:     claims.Picture,
	}, nil
}

func (s *IdentityService) validateDevToken(raw string) (*types.Identity, error) {
	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.devSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, errors.New("invalid token claims")
	}

	name, _ := claims["name"].(string)
	picture, _ := claims["picture"].(string)

	return &types.Identity{UserID: sub, DisplayName: name, Picture: picture}, nil
}

// GenerateDevToken mints an HS256 token accepted by the dev verifier.
func (s *IdentityService) GenerateDevToken(identity *types.Identity, ttl time.Duration) (string, error) {
	if s.devSecret == "" {
		return "", errors.New("dev secret not configured")
	}
	claims := jwt.MapClaims{
		"sub":     identity.UserID,
		"name":    identity.DisplayName,
		"picture": identity.Picture,
		"exp":     time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.devSecret))
}

// EnsureUser upserts the user row for an authenticated identity. The row is
// created on the first authenticated request; afterwards only the
// provider-owned fields are refreshed when the local profile left them empty.
func (s *IdentityService) EnsureUser(ctx context.Context, identity *types.Identity) error {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", identity.UserID).Error
	if err == nil {
		updates := map[string]interface{}{}
		if user.DisplayName == "" && identity.DisplayName != "" {
			updates["display_name"] = identity.DisplayName
		}
		if user.ProfileImage == "" && identity.Picture != "" {
			updates["profile_image"] = identity.Picture
		}
		if len(updates) == 0 {
			return nil
		}
		return s.db.WithContext(ctx).Model(&user).Updates(updates).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	user = models.User{
		ID:           identity.UserID,
		DisplayName:  identity.DisplayName,
		ProfileImage: identity.Picture,
	}
	return s.db.WithContext(ctx).Create(&user).Error
}
