package http

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"ensotrade/internal/delivery/http/dto"
	"ensotrade/internal/domain"
	"ensotrade/internal/middleware"
	"ensotrade/internal/service"
)

// UserHandler handles profile and plan requests
type UserHandler struct {
	profileRepo domain.ProfileRepository
	credits     *service.CreditService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(profileRepo domain.ProfileRepository, credits *service.CreditService) *UserHandler {
	return &UserHandler{
		profileRepo: profileRepo,
		credits:     credits,
	}
}

// GetProfile returns the current user's plan and credit state.
// Defaults are returned when no profile row exists yet.
// GET /api/user/profile
func (h *UserHandler) GetProfile(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}
	email, _ := middleware.GetUserEmail(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	profile := h.credits.GetProfile(ctx, userID, email)

	return SuccessResponse(c, dto.ProfileOutput{
		UserID:           profile.UserID,
		Plan:             profile.Plan,
		CreditsRemaining: profile.CreditsRemaining,
		IsAdmin:          profile.IsAdmin || h.credits.IsAdminEmail(email),
		RiskProfile:      profile.RiskProfile,
		Balance:          profile.Balance,
		TradingStyle:     profile.TradingStyle,
	})
}

// UpdateProfile updates the optional trading fields. Free-tier accounts
// without admin override are rejected.
// PUT /api/user/profile
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}
	email, _ := middleware.GetUserEmail(c)

	var req dto.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	profile := h.credits.GetProfile(ctx, userID, email)
	isAdmin := profile.IsAdmin || h.credits.IsAdminEmail(email)

	if profile.Plan != domain.PlanPro && !isAdmin {
		return ForbiddenResponse(c, "Profile settings require a Pro plan")
	}

	riskProfile := profile.RiskProfile
	if req.RiskProfile != nil {
		riskProfile = *req.RiskProfile
	}
	balance := profile.Balance
	if req.Balance != nil {
		balance = *req.Balance
	}
	tradingStyle := profile.TradingStyle
	if req.TradingStyle != nil {
		tradingStyle = *req.TradingStyle
	}

	// The row may not exist yet for admin accounts that never consumed
	// a credit; Create is a no-op when it does.
	profile.IsAdmin = isAdmin
	if err := h.profileRepo.Create(ctx, profile); err != nil {
		return InternalServerErrorResponse(c, "Failed to update profile", err)
	}
	if err := h.profileRepo.UpdateTradingFields(ctx, userID, riskProfile, balance, tradingStyle); err != nil {
		return InternalServerErrorResponse(c, "Failed to update profile", err)
	}

	return SuccessMessageResponse(c, "Profile updated", nil)
}

// UpgradeToPro switches the account to the pro plan. Simulated: there is
// no payment integration behind this.
// POST /api/user/upgrade-to-pro
func (h *UserHandler) UpgradeToPro(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}
	email, _ := middleware.GetUserEmail(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	profile := h.credits.GetProfile(ctx, userID, email)
	profile.IsAdmin = profile.IsAdmin || h.credits.IsAdminEmail(email)

	if err := h.profileRepo.Create(ctx, profile); err != nil {
		return InternalServerErrorResponse(c, "Failed to upgrade plan", err)
	}
	if err := h.profileRepo.UpdatePlan(ctx, userID, domain.PlanPro); err != nil {
		return InternalServerErrorResponse(c, "Failed to upgrade plan", err)
	}

	return SuccessResponse(c, dto.UpgradeResponse{
		Message: "Welcome to Pro! You now have unlimited analyses.",
		Plan:    domain.PlanPro,
	})
}
