package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/bizdir-backend/internal/app/model"
	apperrors "github.com/ikkim/bizdir-backend/internal/errors"
	"github.com/ikkim/bizdir-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-jwt-secret-for-middleware"

func setupMiddlewareTest() (*gin.Engine, *AuthMiddleware) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(LoggingMiddleware())
	return router, NewAuthMiddleware(testJWTSecret)
}

func generateTestTokens(t *testing.T, role string, expiry time.Duration) *util.TokenPair {
	tokens, err := util.GenerateTokenPair(1, "ops@example.com", role, testJWTSecret, expiry, time.Hour)
	require.NoError(t, err)
	return tokens
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	router, auth := setupMiddlewareTest()
	router.GET("/test", auth.Authenticate(), func(c *gin.Context) {
		userID, _ := GetUserID(c)
		role, _ := GetUserRole(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "role": role})
	})

	valid := generateTestTokens(t, "admin", 15*time.Minute)
	expired := generateTestTokens(t, "admin", -time.Minute)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantCode   string
	}{
		{"valid access token", "Bearer " + valid.AccessToken, http.StatusOK, ""},
		{"lowercase scheme", "bearer " + valid.AccessToken, http.StatusOK, ""},
		{"missing header", "", http.StatusUnauthorized, apperrors.AuthUnauthorized},
		{"missing bearer prefix", valid.AccessToken, http.StatusUnauthorized, apperrors.AuthTokenInvalid},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, apperrors.AuthTokenInvalid},
		{"empty token", "Bearer ", http.StatusUnauthorized, apperrors.AuthTokenInvalid},
		{"garbage token", "Bearer invalid.jwt.token", http.StatusUnauthorized, apperrors.AuthTokenInvalid},
		{"refresh token", "Bearer " + valid.RefreshToken, http.StatusUnauthorized, apperrors.AuthTokenInvalid},
		{"expired token", "Bearer " + expired.AccessToken, http.StatusUnauthorized, apperrors.AuthTokenExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCode != "" {
				assert.Contains(t, w.Body.String(), tt.wantCode)
			}
			assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
		})
	}
}

func TestAuthMiddleware_RequireRole(t *testing.T) {
	router, auth := setupMiddlewareTest()
	router.GET("/admin", auth.Authenticate(), auth.RequireRole(model.RoleAdmin), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	tests := []struct {
		name       string
		role       string
		wantStatus int
	}{
		{"admin allowed", "admin", http.StatusOK},
		{"user forbidden", "user", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := generateTestTokens(t, tt.role, 15*time.Minute)
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestAuthMiddleware_RequireRoleWithoutAuthenticate(t *testing.T) {
	router, auth := setupMiddlewareTest()
	router.GET("/admin", auth.RequireRole(model.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), apperrors.AuthzRoleNotFound)
}

func TestLoggingMiddleware_KeepsRequestID(t *testing.T) {
	router, _ := setupMiddlewareTest()
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("request_id"))
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Body.String())
	assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
}

func TestGetActor(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		set  map[string]interface{}
		want string
	}{
		{"email", map[string]interface{}{UserIDKey: uint(3), UserEmailKey: "ops@example.com"}, "ops@example.com"},
		{"id only", map[string]interface{}{UserIDKey: uint(3)}, "user:3"},
		{"anonymous", nil, "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			for k, v := range tt.set {
				c.Set(k, v)
			}
			assert.Equal(t, tt.want, GetActor(c))
		})
	}
}
