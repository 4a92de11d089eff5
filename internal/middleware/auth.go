package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// ProviderClaims are the claims the hosted auth provider puts in its
// access tokens. Sub is the opaque user ID.
type ProviderClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	jwt.RegisteredClaims
}

// NewAuthMiddleware validates provider-issued bearer tokens and sets the
// user identity on the request context. Requests from accounts that have
// not verified their email are rejected here, before any handler runs.
func NewAuthMiddleware(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing authentication token")
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization header format")
			}

			token, err := jwt.ParseWithClaims(parts[1], &ProviderClaims{}, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return []byte(jwtSecret), nil
			})

			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
			}

			claims, ok := token.Claims.(*ProviderClaims)
			if !ok || !token.Valid || claims.Subject == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token claims")
			}

			if !claims.EmailVerified {
				return echo.NewHTTPError(http.StatusForbidden, "Email not verified")
			}

			c.Set("user_id", claims.Subject)
			c.Set("email", claims.Email)

			return next(c)
		}
	}
}

// GetUserID extracts the authenticated user ID from echo context
func GetUserID(c echo.Context) (string, error) {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user_id not found in context")
	}
	return userID, nil
}

// GetUserEmail extracts the authenticated user email from echo context
func GetUserEmail(c echo.Context) (string, error) {
	email, ok := c.Get("email").(string)
	if !ok {
		return "", fmt.Errorf("email not found in context")
	}
	return email, nil
}
