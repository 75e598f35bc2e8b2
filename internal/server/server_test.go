package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/recipez/backend/config"
	"github.com/recipez/backend/internal/database"
)

func testDB(t *testing.T) *database.DB {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.RunMigrations(gormDB, "../../migrations"))
	return &database.DB{SQL: sqlDB, Gorm: gormDB}
}

func TestHealthEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		ServerHost: "127.0.0.1",
		ServerPort: "0",
		JWTSecret:  "test-secret",
	}
	srv := New(cfg, testDB(t), nil, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	srv.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestUnknownRouteReturns404(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{ServerHost: "127.0.0.1", ServerPort: "0", JWTSecret: "test-secret"}
	srv := New(cfg, testDB(t), nil, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/nope", nil)
	srv.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
