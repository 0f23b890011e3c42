//go:build unit

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"tablebook/internal/handler/middleware"
	"tablebook/internal/pkg/config"
	"tablebook/tests/common/authtest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthTestRouter(t *testing.T) (*gin.Engine, config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return gin.New(), config.NewTestConfig()
}

func TestRequireStaff(t *testing.T) {
	t.Run("exposes the token subject to handlers", func(t *testing.T) {
		router, cfg := newAuthTestRouter(t)
		auth := middleware.NewAuthMiddleware(cfg.JWT)

		var gotID string
		var found bool
		router.GET("/guarded", auth.RequireStaff(), func(c *gin.Context) {
			gotID, found = middleware.GetStaffID(c)
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
		req.Header.Set("Authorization", "Bearer "+authtest.SignToken(t, cfg.JWT.Secret, "staff-7", middleware.RoleStaff))
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, found)
		assert.Equal(t, "staff-7", gotID)
	})

	t.Run("staff id is absent outside the middleware", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		c, _ := gin.CreateTestContext(httptest.NewRecorder())

		_, found := middleware.GetStaffID(c)

		assert.False(t, found)
	})

	t.Run("rejects missing token", func(t *testing.T) {
		router, cfg := newAuthTestRouter(t)
		auth := middleware.NewAuthMiddleware(cfg.JWT)
		router.GET("/guarded", auth.RequireStaff(), func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/guarded", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("staff role cannot pass an admin gate", func(t *testing.T) {
		router, cfg := newAuthTestRouter(t)
		auth := middleware.NewAuthMiddleware(cfg.JWT)
		router.GET("/admin", auth.RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+authtest.SignToken(t, cfg.JWT.Secret, "staff-7", middleware.RoleStaff))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestGetRequestID(t *testing.T) {
	t.Run("returns the id set by the logging middleware", func(t *testing.T) {
		router, cfg := newAuthTestRouter(t)
		logger := middleware.NewLogger(cfg.Log)

		var gotID string
		router.GET("/ping", logger.LoggingMiddleware(), func(c *gin.Context) {
			gotID = middleware.GetRequestID(c)
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, gotID)
	})

	t.Run("empty without the middleware", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		c, _ := gin.CreateTestContext(httptest.NewRecorder())

		assert.Empty(t, middleware.GetRequestID(c))
	})
}
