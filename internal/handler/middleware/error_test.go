//go:build unit

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"tablebook/internal/handler/httperr"
	"tablebook/internal/handler/middleware"
	"tablebook/internal/pkg/errs"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newErrorTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.ErrorHandler())
	return router
}

func TestErrorHandler(t *testing.T) {
	t.Run("abort with error writes the response and keeps the cause", func(t *testing.T) {
		router := newErrorTestRouter()
		router.GET("/boom", func(c *gin.Context) {
			httperr.AbortWithError(c, http.StatusInternalServerError, errs.New("pool exhausted"), "Internal server error", nil)
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/boom", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":{"message":"Internal server error"}}`, w.Body.String())
	})

	t.Run("public error recorded without a response body is rendered from meta", func(t *testing.T) {
		router := newErrorTestRouter()
		router.GET("/silent", func(c *gin.Context) {
			resp := httperr.Response{Status: http.StatusConflict}
			resp.Error.Message = "Slot already taken"
			_ = c.Error(gin.Error{
				Err:  errs.New("conflict"),
				Type: gin.ErrorTypePublic,
				Meta: resp,
			})
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/silent", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.JSONEq(t, `{"error":{"message":"Slot already taken"}}`, w.Body.String())
	})

	t.Run("unwritten response without errors falls back to 500", func(t *testing.T) {
		router := newErrorTestRouter()
		router.GET("/empty", func(c *gin.Context) {
			_ = c.Error(errs.New("unclassified failure"))
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/empty", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":{"message":"Internal server error"}}`, w.Body.String())
	})

	t.Run("abort with nil error panics", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		assert.Panics(t, func() {
			httperr.AbortWithError(c, http.StatusBadRequest, nil, "bad", nil)
		})
	})
}
