package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-jwt-secret-for-middleware"

type stubRevocations map[string]bool

func (s stubRevocations) IsRevoked(_ context.Context, jti string) (bool, error) {
	return s[jti], nil
}

func setupMiddlewareTest(revocations RevocationChecker) (*gin.Engine, *AuthMiddleware) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	return router, NewAuthMiddleware(testJWTSecret, revocations)
}

func generateTestToken(t *testing.T, userID uint, role model.UserRole) string {
	token, err := util.GenerateAccessToken(userID, "cook@example.com", string(role), testJWTSecret, 15*time.Minute)
	require.NoError(t, err)
	return token
}

// signTyped signs a token of a type the API never issues.
func signTyped(t *testing.T, tokenType string) string {
	claims := util.Claims{
		UserID:    7,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "typed-token",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return token
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	code, _ := body["error"].(string)
	return code
}

func whoAmI(c *gin.Context) {
	userID, ok := GetUserID(c)
	role, _ := GetUserRole(c)
	c.JSON(http.StatusOK, gin.H{"user_id": userID, "authenticated": ok, "role": role})
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	token := generateTestToken(t, 7, model.RoleRegular)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantCode   string
	}{
		{name: "Bearer token", header: "Bearer " + token, wantStatus: http.StatusOK},
		{name: "Token scheme", header: "Token " + token, wantStatus: http.StatusOK},
		{name: "Missing header", header: "", wantStatus: http.StatusUnauthorized, wantCode: "AUTH_UNAUTHORIZED"},
		{name: "Bad scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized, wantCode: "AUTH_TOKEN_INVALID"},
		{name: "Garbage token", header: "Bearer not-a-jwt", wantStatus: http.StatusUnauthorized, wantCode: "AUTH_TOKEN_INVALID"},
		{name: "Refresh token rejected", header: "Bearer " + signTyped(t, "refresh"), wantStatus: http.StatusUnauthorized, wantCode: "AUTH_TOKEN_INVALID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, auth := setupMiddlewareTest(nil)
			router.GET("/me", auth.Authenticate(), whoAmI)

			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, w))
			}
		})
	}
}

func TestAuthMiddleware_Authenticate_Expired(t *testing.T) {
	router, auth := setupMiddlewareTest(nil)
	router.GET("/me", auth.Authenticate(), whoAmI)

	token, err := util.GenerateAccessToken(1, "cook@example.com", "regular", testJWTSecret, -time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "AUTH_TOKEN_EXPIRED", decodeError(t, w))
}

func TestAuthMiddleware_Authenticate_Revoked(t *testing.T) {
	token := generateTestToken(t, 1, model.RoleRegular)
	claims, err := util.ValidateToken(token, testJWTSecret)
	require.NoError(t, err)

	router, auth := setupMiddlewareTest(stubRevocations{claims.ID: true})
	router.GET("/me", auth.Authenticate(), whoAmI)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "AUTH_TOKEN_REVOKED", decodeError(t, w))
}

func TestAuthMiddleware_OptionalAuthenticate(t *testing.T) {
	token := generateTestToken(t, 3, model.RoleRegular)

	tests := []struct {
		name     string
		header   string
		wantAuth bool
	}{
		{name: "Anonymous", header: "", wantAuth: false},
		{name: "Valid token", header: "Bearer " + token, wantAuth: true},
		{name: "Invalid token falls back to guest", header: "Bearer broken", wantAuth: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, auth := setupMiddlewareTest(nil)
			router.GET("/recipes", auth.OptionalAuthenticate(), whoAmI)

			req := httptest.NewRequest(http.MethodGet, "/recipes", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantAuth, body["authenticated"])
		})
	}
}

func TestAuthMiddleware_RequireRole(t *testing.T) {
	admin := generateTestToken(t, 1, model.RoleAdmin)
	regular := generateTestToken(t, 2, model.RoleRegular)

	tests := []struct {
		name       string
		token      string
		wantStatus int
	}{
		{name: "Admin allowed", token: admin, wantStatus: http.StatusOK},
		{name: "Regular forbidden", token: regular, wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, auth := setupMiddlewareTest(nil)
			router.DELETE("/users/:id", auth.Authenticate(), auth.RequireRole(model.RoleAdmin), whoAmI)

			req := httptest.NewRequest(http.MethodDelete, "/users/5", nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestAuthMiddleware_RequireRole_NoIdentity(t *testing.T) {
	router, auth := setupMiddlewareTest(nil)
	router.GET("/admin", auth.RequireRole(model.RoleAdmin), whoAmI)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "AUTHZ_ROLE_NOT_FOUND", decodeError(t, w))
}
