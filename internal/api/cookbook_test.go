package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createCookbook(t *testing.T, env *testEnv, token, name string, isPublic bool) uint {
	t.Helper()
	w := env.do(t, http.MethodPost, "/api/v1/cookbooks", token, map[string]interface{}{
		"name":      name,
		"is_public": isPublic,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Data struct {
			ID uint `json:"id"`
		} `json:"data"`
	}
	decode(t, w, &created)
	return created.Data.ID
}

func TestCookbookPrivateVisibility(t *testing.T) {
	env := newTestEnv(t)
	owner := env.token(t, "owner", "Owner")
	stranger := env.token(t, "stranger", "Stranger")

	id := createCookbook(t, env, owner, "Private Book", false)
	path := fmt.Sprintf("/api/v1/cookbooks/%d", id)

	w := env.do(t, http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodGet, path, stranger, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodGet, path, owner, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCookbookEntryFlow(t *testing.T) {
	env := newTestEnv(t)
	owner := env.token(t, "owner", "Owner")

	recipeID := createRecipe(t, env, owner, "Cookbook Entry Dish")
	cookbookID := createCookbook(t, env, owner, "Entry Book", true)
	entriesPath := fmt.Sprintf("/api/v1/cookbooks/%d/recipes", cookbookID)

	w := env.do(t, http.MethodPost, entriesPath, owner, map[string]interface{}{
		"recipe_id": recipeID,
		"notes":     "serve cold",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Duplicate entries conflict.
	w = env.do(t, http.MethodPost, entriesPath, owner, map[string]interface{}{"recipe_id": recipeID})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodGet, entriesPath, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var entries struct {
		Data []struct {
			ID    uint   `json:"id"`
			Notes string `json:"notes"`
		} `json:"data"`
	}
	decode(t, w, &entries)
	require.Len(t, entries.Data, 1)
	assert.Equal(t, recipeID, entries.Data[0].ID)
	assert.Equal(t, "serve cold", entries.Data[0].Notes)

	w = env.do(t, http.MethodDelete, fmt.Sprintf("%s/%d", entriesPath, recipeID), owner, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodDelete, fmt.Sprintf("%s/%d", entriesPath, recipeID), owner, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCookbookListByUser(t *testing.T) {
	env := newTestEnv(t)
	owner := env.token(t, "owner", "Owner")
	createCookbook(t, env, owner, "Visible Book", true)
	createCookbook(t, env, owner, "Hidden Book", false)

	w := env.do(t, http.MethodGet, "/api/v1/users/owner/cookbooks", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var anon struct {
		Data []struct {
			Name string `json:"name"`
		} `json:"data"`
	}
	decode(t, w, &anon)
	require.Len(t, anon.Data, 1)
	assert.Equal(t, "Visible Book", anon.Data[0].Name)

	w = env.do(t, http.MethodGet, "/api/v1/users/owner/cookbooks", owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &anon)
	assert.Len(t, anon.Data, 2)
}
