package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, verified bool) string {
	t.Helper()

	claims := &ProviderClaims{
		Email:         "user@example.com",
		EmailVerified: verified,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return signed
}

func runMiddleware(t *testing.T, authHeader string) (echo.Context, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := NewAuthMiddleware(testSecret)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	return c, handler(c)
}

func assertHTTPError(t *testing.T, err error, wantCode int) {
	t.Helper()

	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("error = %v, want *echo.HTTPError", err)
	}
	if httpErr.Code != wantCode {
		t.Fatalf("status = %d, want %d", httpErr.Code, wantCode)
	}
}

func TestAuthMiddlewareMissingToken(t *testing.T) {
	_, err := runMiddleware(t, "")
	assertHTTPError(t, err, http.StatusUnauthorized)
}

func TestAuthMiddlewareMalformedHeader(t *testing.T) {
	_, err := runMiddleware(t, "Token abc")
	assertHTTPError(t, err, http.StatusUnauthorized)
}

func TestAuthMiddlewareInvalidSignature(t *testing.T) {
	token := signToken(t, "wrong-secret", true)
	_, err := runMiddleware(t, "Bearer "+token)
	assertHTTPError(t, err, http.StatusUnauthorized)
}

func TestAuthMiddlewareExpiredToken(t *testing.T) {
	claims := &ProviderClaims{
		Email:         "user@example.com",
		EmailVerified: true,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}

	_, runErr := runMiddleware(t, "Bearer "+token)
	assertHTTPError(t, runErr, http.StatusUnauthorized)
}

func TestAuthMiddlewareUnverifiedEmail(t *testing.T) {
	token := signToken(t, testSecret, false)
	_, err := runMiddleware(t, "Bearer "+token)
	assertHTTPError(t, err, http.StatusForbidden)
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	token := signToken(t, testSecret, true)
	c, err := runMiddleware(t, "Bearer "+token)
	if err != nil {
		t.Fatalf("middleware rejected a valid token: %v", err)
	}

	userID, err := GetUserID(c)
	if err != nil || userID != "user-123" {
		t.Fatalf("GetUserID = (%q, %v), want (user-123, nil)", userID, err)
	}
	email, err := GetUserEmail(c)
	if err != nil || email != "user@example.com" {
		t.Fatalf("GetUserEmail = (%q, %v), want (user@example.com, nil)", email, err)
	}
}
