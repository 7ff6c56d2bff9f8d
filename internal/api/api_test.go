package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tastytrove/backend/internal/service"
	"github.com/tastytrove/backend/internal/testhelpers"
	"github.com/tastytrove/backend/internal/types"
)

type testEnv struct {
	router   *gin.Engine
	db       *gorm.DB
	identity *service.IdentityService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.NewTestDB(t)
	identity := service.NewDevIdentityService(db, "test-secret")

	router := gin.New()
	v1 := router.Group("/api/v1")
	RegisterRoutes(v1, db, nil, identity, nil)

	return &testEnv{router: router, db: db, identity: identity}
}

// token mints a bearer token; the user row is provisioned on first use.
func (e *testEnv) token(t *testing.T, userID, name string) string {
	t.Helper()
	token, err := e.identity.GenerateDevToken(&types.Identity{UserID: userID, DisplayName: name}, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func (e *testEnv) do(t *testing.T, method, path, bearer string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dest))
}

func recipeBody(name string) map[string]interface{} {
	return map[string]interface{}{
		"name":        name,
		"category":    "dinner",
		"difficulty":  "easy",
		"prep_time":   10,
		"cook_time":   20,
		"ingredients": []map[string]interface{}{{"ingredient": "salt"}},
		"steps":       []string{"cook it"},
	}
}
