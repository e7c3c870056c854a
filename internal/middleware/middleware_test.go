package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(LoggingMiddleware())
	router.Use(gin.CustomRecovery(HandlePanics()))
	router.GET("/api/thing", handlers...)
	router.GET("/page", handlers...)
	return router
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandlePanics(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		recovered any
		wantJSON  bool
	}{
		{name: "error on api route", path: "/api/thing", recovered: errors.New("db password is hunter2"), wantJSON: true},
		{name: "string on api route", path: "/api/thing", recovered: "hunter2", wantJSON: true},
		{name: "error on page route", path: "/page", recovered: errors.New("hunter2")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter(func(c *gin.Context) { panic(tt.recovered) })

			rec := serve(router, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.NotContains(t, rec.Body.String(), "hunter2")
			if tt.wantJSON {
				assert.JSONEq(t, `{"success":false,"message":"Internal server error"}`, rec.Body.String())
			} else {
				assert.Equal(t, "Internal server error", rec.Body.String())
			}
		})
	}
}

func TestLoggingMiddleware_RequestID(t *testing.T) {
	var seen string
	router := newRouter(func(c *gin.Context) {
		seen = RequestID(c)
		c.Status(http.StatusNoContent)
	})

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/page", nil))
	generated := rec.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(generated)
	require.NoError(t, err)
	assert.Equal(t, generated, seen)

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/page", nil)
	req.Header.Set(RequestIDHeader, incoming)
	rec = serve(router, req)
	assert.Equal(t, incoming, rec.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/page", nil)
	req.Header.Set(RequestIDHeader, "not a uuid\nInjected: yes")
	rec = serve(router, req)
	assert.NotEqual(t, "not a uuid\nInjected: yes", rec.Header().Get(RequestIDHeader))
}

func TestRateLimit(t *testing.T) {
	router := gin.New()
	router.POST("/api/comments", RateLimit(0.001, 2), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	codes := make([]int, 0, 3)
	for range 3 {
		rec := serve(router, httptest.NewRequest(http.MethodPost, "/api/comments", nil))
		codes = append(codes, rec.Code)
		if rec.Code == http.StatusTooManyRequests {
			assert.NotEmpty(t, rec.Header().Get("Retry-After"))
			assert.JSONEq(t, `{"success":false,"message":"Too many comments submitted. Please try again later."}`, rec.Body.String())
		}
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimit_Disabled(t *testing.T) {
	router := gin.New()
	router.POST("/api/comments", RateLimit(0, 0), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for range 20 {
		rec := serve(router, httptest.NewRequest(http.MethodPost, "/api/comments", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
}
