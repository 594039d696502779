package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := Setup(Deps{})

	got := make(map[string]bool)
	for _, route := range r.Routes() {
		got[route.Method+" "+route.Path] = true
	}
	for _, want := range []string{
		"GET /health",
		"POST /api/v1/projects",
		"GET /api/v1/projects",
		"GET /api/v1/projects/:id",
		"GET /api/v1/projects/:id/contributions",
		"POST /api/v1/projects/:id/contributions",
		"GET /api/v1/projects/:id/votes",
		"PUT /api/v1/contributions/:id/ready",
		"POST /api/v1/contributions/:id/claim",
		"POST /api/v1/contributions/:id/votes",
		"POST /api/v1/strategy/resolve",
		"GET /api/v1/users/:wallet",
		"GET /api/v1/outbox/:wallet",
	} {
		assert.True(t, got[want], "missing route %s", want)
	}
}

func TestHealthWithoutChain(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := Setup(Deps{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestCorsPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := Setup(Deps{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/v1/projects", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
