package dto

// ProfileOutput represents profile details in API responses
type ProfileOutput struct {
	UserID           string `json:"user_id"`
	Plan             string `json:"plan"`
	CreditsRemaining int    `json:"credits_remaining"`
	IsAdmin          bool   `json:"is_admin"`
	RiskProfile      string `json:"risk_profile,omitempty"`
	Balance          string `json:"balance,omitempty"`
	TradingStyle     string `json:"trading_style,omitempty"`
}

// UpdateProfileRequest represents the profile-update payload. All fields
// are optional; omitted fields keep their stored values.
type UpdateProfileRequest struct {
	RiskProfile  *string `json:"riskProfile,omitempty"`
	Balance      *string `json:"balance,omitempty"`
	TradingStyle *string `json:"tradingStyle,omitempty"`
}

// UpgradeResponse represents the upgrade-to-pro response
type UpgradeResponse struct {
	Message string `json:"message"`
	Plan    string `json:"plan"`
}
