package http

import (
	"context"
	"errors"
	"time"

	"github.com/labstack/echo/v4"

	"ensotrade/internal/adapter"
	"ensotrade/internal/delivery/http/dto"
	"ensotrade/internal/domain"
)

// AuthHandler forwards authentication requests to the hosted auth provider
type AuthHandler struct {
	provider domain.AuthProvider
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(provider domain.AuthProvider) *AuthHandler {
	return &AuthHandler{provider: provider}
}

// Register handles user registration
// POST /api/auth/register
func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	if req.Email == "" || req.Password == "" || req.Name == "" {
		return BadRequestResponse(c, "Email, password and name are required")
	}

	if len(req.Password) < 6 {
		return BadRequestResponse(c, "Password must be at least 6 characters")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	if err := h.provider.Register(ctx, req.Email, req.Password, req.Name); err != nil {
		return providerErrorResponse(c, err, "Registration failed")
	}

	return SuccessMessageResponse(c, "Registration successful. Please check your email to verify your account.", nil)
}

// Login handles user login
// POST /api/auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	if req.Email == "" || req.Password == "" {
		return BadRequestResponse(c, "Email and password are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	session, err := h.provider.Login(ctx, req.Email, req.Password)
	if err != nil {
		return providerErrorResponse(c, err, "Invalid credentials")
	}

	return SuccessResponse(c, dto.LoginResponse{
		Token: session.AccessToken,
		User: dto.UserSummary{
			ID:            session.UserID,
			Email:         session.Email,
			Name:          session.Name,
			EmailVerified: session.EmailVerified,
		},
	})
}

// ResendVerification handles verification-email resend requests
// POST /api/auth/resend-verification
func (h *AuthHandler) ResendVerification(c echo.Context) error {
	var req dto.ResendVerificationRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	if req.Email == "" {
		return BadRequestResponse(c, "Email is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	if err := h.provider.ResendVerification(ctx, req.Email); err != nil {
		return providerErrorResponse(c, err, "Failed to resend verification email")
	}

	return SuccessMessageResponse(c, "Verification email sent", nil)
}

// providerErrorResponse maps an auth provider failure to the client,
// preserving the provider's status code when it answered at all
func providerErrorResponse(c echo.Context, err error, fallback string) error {
	var pErr *adapter.ProviderError
	if errors.As(err, &pErr) {
		return ErrorResponse(c, pErr.StatusCode, pErr.Message, nil)
	}
	return InternalServerErrorResponse(c, fallback, err)
}
