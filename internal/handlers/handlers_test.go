package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/carreira-ia/internal/apperrors"
	"github.com/justsurfingit/carreira-ia/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	testutils.InitTestMain()
	os.Exit(m.Run())
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"quota", fmt.Errorf("%w (15 of 15 used)", apperrors.ErrQuotaExceeded), http.StatusTooManyRequests, "application quota exceeded for your plan (15 of 15 used)"},
		{"duplicate", apperrors.ErrDuplicateApplication, http.StatusConflict, "you have already applied to this job"},
		{"store down", fmt.Errorf("count applications: %w", apperrors.ErrStoreUnavailable), http.StatusServiceUnavailable, "count applications: Database not available"},
		{"unknown errors are hidden", errors.New("pq: relation missing"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := testutils.SetupTestRouter()
			r.GET("/x", func(c *gin.Context) { respondError(c, tt.err) })
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

			assert.Equal(t, tt.status, w.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.message, body["error"])
		})
	}
}

func TestRequestOrigin(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"origin header", map[string]string{"Origin": "https://app.carreiraia.com.br"}, "https://app.carreiraia.com.br"},
		{"forwarded https", map[string]string{"X-Forwarded-Proto": "https"}, "https://api.test"},
		{"plain host", nil, "http://api.test"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			r := testutils.SetupTestRouter()
			r.GET("/x", func(c *gin.Context) { got = requestOrigin(c) })
			req := httptest.NewRequest(http.MethodGet, "http://api.test/x", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			r.ServeHTTP(httptest.NewRecorder(), req)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCurrentUserAndParamID(t *testing.T) {
	r := testutils.SetupTestRouter()
	r.GET("/items/:id", func(c *gin.Context) {
		c.Set("user_id", uint(42))
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": currentUser(c), "id": id})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/9", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user":42,"id":9}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/nine", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
