package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

const testSecret = "test-secret-0123456789"

func createJWT(t *testing.T, method jwt.SigningMethod, secret string, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(method, jwt.MapClaims{
		"sub":   "ops-1",
		"email": "ops@example.com",
		"role":  "operator",
		"exp":   exp.Unix(),
		"iat":   time.Now().Unix(),
	})

	tokenString, err := token.SignedString([]byte(secret))
	assert.NoError(t, err)
	return tokenString
}

func runMiddleware(config JWTConfig, path, authHeader string, next echo.HandlerFunc) *httptest.ResponseRecorder {
	e := echo.New()
	handler := JWTMiddleware(config)(next)

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	_ = handler(e.NewContext(req, rec))
	return rec
}

func okHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func TestJWTMiddleware_SuccessfulAuthentication(t *testing.T) {
	config := JWTConfig{Secret: testSecret, Logger: zap.NewNop()}

	rec := runMiddleware(config, "/api/v1/payments/x", "Bearer "+createJWT(t, jwt.SigningMethodHS256, testSecret, time.Now().Add(time.Hour)),
		func(c echo.Context) error {
			user, err := GetUserFromContext(c)
			assert.NoError(t, err)
			assert.Equal(t, "ops-1", user.UserID)
			assert.Equal(t, "ops@example.com", user.Email)
			assert.Equal(t, "operator", user.Role)
			assert.Equal(t, "ops-1", c.Get("user_id"))
			return okHandler(c)
		})

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTMiddleware_Rejections(t *testing.T) {
	config := JWTConfig{Secret: testSecret, Logger: zap.NewNop()}

	tests := []struct {
		name     string
		header   string
		wantCode string
	}{
		{"missing header", "", "MISSING_AUTH_HEADER"},
		{"not bearer", "Basic abc", "INVALID_AUTH_FORMAT"},
		{"garbage token", "Bearer not-a-jwt", "INVALID_TOKEN"},
		{"wrong secret", "Bearer " + createJWT(t, jwt.SigningMethodHS256, "other-secret-0123456", time.Now().Add(time.Hour)), "INVALID_TOKEN"},
		{"expired", "Bearer " + createJWT(t, jwt.SigningMethodHS256, testSecret, time.Now().Add(-time.Hour)), "INVALID_TOKEN"},
		{"other hmac alg", "Bearer " + createJWT(t, jwt.SigningMethodHS512, testSecret, time.Now().Add(time.Hour)), "INVALID_TOKEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := runMiddleware(config, "/api/v1/payments/x", tt.header, func(c echo.Context) error {
				t.Fatal("next handler must not run")
				return nil
			})

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantCode)
		})
	}
}

func TestJWTMiddleware_SkipPaths(t *testing.T) {
	config := JWTConfig{Secret: testSecret, Logger: zap.NewNop(), SkipPaths: []string{"/health"}}

	rec := runMiddleware(config, "/health", "", okHandler)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetUserFromContext_NoUser(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	user, err := GetUserFromContext(c)
	assert.Error(t, err)
	assert.Nil(t, user)
}
