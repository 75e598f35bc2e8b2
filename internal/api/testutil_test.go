package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/recipez/backend/internal/api"
	"github.com/recipez/backend/internal/database"
	"github.com/recipez/backend/internal/router"
	"github.com/recipez/backend/internal/service"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db, ""))

	authService := service.NewAuthService(db, "test-secret")
	recipeService := service.NewRecipeService(db, nil)

	return router.SetupRouter(
		api.NewAuthHandler(authService),
		api.NewRecipeHandler(recipeService),
		nil,
		authService,
		nil,
	)
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(data)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func registerUser(t *testing.T, r *gin.Engine, email string) string {
	t.Helper()

	w := doJSON(t, r, "POST", "/api/v1/auth/register", "", map[string]string{
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp["token"])
	return resp["token"]
}

func sampleRecipe() map[string]interface{} {
	return map[string]interface{}{
		"title":        "Apple Pie",
		"description":  "Classic pie.",
		"ingredients":  []map[string]string{{"value": "6 apples"}, {"value": "pastry"}},
		"instructions": "Peel.\nBake.",
		"prep_time":    "45",
		"cook_time":    50,
		"servings":     8,
		"category":     "Dessert",
	}
}
