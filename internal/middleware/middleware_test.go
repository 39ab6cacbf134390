package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/01moynul/aitools-golang/internal/auth"
	"github.com/01moynul/aitools-golang/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(tokens *auth.TokenManager, maintenance bool) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), RequestLogger())
	router.GET("/protected", AuthMiddleware(tokens, maintenance), func(c *gin.Context) {
		userID, _ := UserID(c)
		c.JSON(http.StatusOK, gin.H{
			"userId":    userID,
			"requestId": logging.RequestID(c.Request.Context()),
		})
	})
	return router
}

func TestAuthMiddleware(t *testing.T) {
	tokens := auth.NewTokenManager("secret", "")
	valid, err := tokens.GenerateToken("user_1", "")
	require.NoError(t, err)
	foreign, err := auth.NewTokenManager("other", "").GenerateToken("user_1", "")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Token " + valid, http.StatusUnauthorized},
		{"empty bearer", "Bearer ", http.StatusUnauthorized},
		{"foreign signature", "Bearer " + foreign, http.StatusUnauthorized},
		{"valid", "Bearer " + valid, http.StatusOK},
	}

	router := newRouter(tokens, false)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)
			assert.Equal(t, tt.want, resp.Code)
		})
	}
}

func TestAuthMiddlewareSetsUserAndRequestID(t *testing.T) {
	tokens := auth.NewTokenManager("secret", "")
	token, err := tokens.GenerateToken("user_1", "")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Request-ID", "req-7")
	resp := httptest.NewRecorder()
	newRouter(tokens, false).ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"userId":"user_1","requestId":"req-7"}`, resp.Body.String())
	assert.Equal(t, "req-7", resp.Header().Get("X-Request-ID"))
}

func TestMaintenanceModeLetsAdminsThrough(t *testing.T) {
	tokens := auth.NewTokenManager("secret", "")
	userToken, err := tokens.GenerateToken("user_1", "")
	require.NoError(t, err)
	adminToken, err := tokens.GenerateToken("admin_1", auth.RoleAdmin)
	require.NoError(t, err)

	router := newRouter(tokens, true)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)

	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusOK, resp.Code)
}
