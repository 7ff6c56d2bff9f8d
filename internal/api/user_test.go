package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tastytrove/backend/internal/types"
)

func TestUserProvisionedOnFirstAuth(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, "fresh-user", "Fresh Cook")

	// Any fully authenticated request provisions the user row; the profile
	// read then finds it.
	w := env.do(t, http.MethodPatch, "/api/v1/users/me", token, map[string]interface{}{})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodGet, "/api/v1/users/fresh-user", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			ID          string `json:"id"`
			DisplayName string `json:"display_name"`
		} `json:"data"`
	}
	decode(t, w, &resp)
	assert.Equal(t, "fresh-user", resp.Data.ID)
	assert.Equal(t, "Fresh Cook", resp.Data.DisplayName)
}

func TestUpdateProfileEndpoint(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, "u1", "Before")

	w := env.do(t, http.MethodPatch, "/api/v1/users/me", token, map[string]interface{}{
		"display_name": "After",
		"bio":          "cooking a lot",
		"is_chef":      true,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			DisplayName string `json:"display_name"`
			Bio         string `json:"bio"`
			IsChef      bool   `json:"is_chef"`
		} `json:"data"`
	}
	decode(t, w, &resp)
	assert.Equal(t, "After", resp.Data.DisplayName)
	assert.Equal(t, "cooking a lot", resp.Data.Bio)
	assert.True(t, resp.Data.IsChef)

	w = env.do(t, http.MethodPatch, "/api/v1/users/me", "", map[string]interface{}{"bio": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFollowEndpoints(t *testing.T) {
	env := newTestEnv(t)
	alice := env.token(t, "alice", "Alice")
	bob := env.token(t, "bob", "Bob")

	// Provision both users through an authenticated write.
	require.Equal(t, http.StatusOK, env.do(t, http.MethodPatch, "/api/v1/users/me", alice, map[string]interface{}{}).Code)
	require.Equal(t, http.StatusOK, env.do(t, http.MethodPatch, "/api/v1/users/me", bob, map[string]interface{}{}).Code)

	w := env.do(t, http.MethodPost, "/api/v1/users/bob/follow", alice, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var toggled struct {
		Data struct {
			Following bool `json:"following"`
		} `json:"data"`
	}
	decode(t, w, &toggled)
	assert.True(t, toggled.Data.Following)

	// Bob's profile shows the relationship to Alice.
	w = env.do(t, http.MethodGet, "/api/v1/users/bob", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var profile struct {
		Data struct {
			IsFollowing bool `json:"is_following"`
		} `json:"data"`
	}
	decode(t, w, &profile)
	assert.True(t, profile.Data.IsFollowing)

	w = env.do(t, http.MethodGet, "/api/v1/users/bob/followers", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var followers struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
		Meta types.PageMeta `json:"meta"`
	}
	decode(t, w, &followers)
	require.Len(t, followers.Data, 1)
	assert.Equal(t, "alice", followers.Data[0].ID)
	assert.Equal(t, int64(1), followers.Meta.TotalItems)

	// Self-follow is rejected.
	w = env.do(t, http.MethodPost, "/api/v1/users/alice/follow", alice, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Second toggle unfollows.
	w = env.do(t, http.MethodPost, "/api/v1/users/bob/follow", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &toggled)
	assert.False(t, toggled.Data.Following)
}

func TestUserStatsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	chef := env.token(t, "chef", "Chef")

	createRecipe(t, env, chef, "Stats Dish One")
	createRecipe(t, env, chef, "Stats Dish Two")

	w := env.do(t, http.MethodGet, "/api/v1/users/chef/stats", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			TotalRecipes int64 `json:"totalRecipes"`
		} `json:"data"`
	}
	decode(t, w, &resp)
	assert.Equal(t, int64(2), resp.Data.TotalRecipes)

	w = env.do(t, http.MethodGet, "/api/v1/users/nobody/stats", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteAccountEndpoint(t *testing.T) {
	env := newTestEnv(t)
	leaver := env.token(t, "leaver", "Leaver")

	recipeID := createRecipe(t, env, leaver, "Leaver API Dish")
	_ = recipeID

	w := env.do(t, http.MethodDelete, "/api/v1/users/me", leaver, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// The account is gone; the next authenticated request re-provisions a
	// fresh empty profile, so check via the public profile of a stranger.
	w = env.do(t, http.MethodGet, "/api/v1/users/leaver", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
