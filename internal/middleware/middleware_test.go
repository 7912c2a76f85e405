package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/carreira-ia/internal/auth"
	"github.com/justsurfingit/carreira-ia/internal/config"
	"github.com/justsurfingit/carreira-ia/internal/models"
	"github.com/justsurfingit/carreira-ia/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	testutils.InitTestMain()
	os.Exit(m.Run())
}

func newRouter(tokens *auth.TokenManager) *gin.Engine {
	r := testutils.SetupTestRouter()
	r.Use(RequestLogger())
	authed := r.Group("/", JWTAuth(tokens))
	authed.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.MustGet("user_id"), "role": c.GetString("role")})
	})
	authed.GET("/admin", AdminOnly(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestJWTAuthAndAdminOnly(t *testing.T) {
	tokens := auth.NewTokenManager(config.AuthConfig{JWTSecret: "test-secret"})
	userToken, err := tokens.IssueToken(7, models.RoleUser)
	require.NoError(t, err)
	adminToken, err := tokens.IssueToken(1, models.RoleAdmin)
	require.NoError(t, err)
	foreign, err := auth.NewTokenManager(config.AuthConfig{JWTSecret: "other"}).IssueToken(7, models.RoleAdmin)
	require.NoError(t, err)

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"missing header", "/me", "", http.StatusUnauthorized},
		{"garbage token", "/me", "Bearer nope", http.StatusUnauthorized},
		{"token signed with another secret", "/me", "Bearer " + foreign, http.StatusUnauthorized},
		{"user token", "/me", "Bearer " + userToken, http.StatusOK},
		{"user on admin route", "/admin", "Bearer " + userToken, http.StatusForbidden},
		{"admin on admin route", "/admin", "Bearer " + adminToken, http.StatusNoContent},
	}
	r := newRouter(tokens)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusForbidden {
				assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
			}
		})
	}
}
