package domain

import (
	"time"
)

// UserProfile holds the plan and credit state for one user.
// The account itself (email, password, verification) lives in the
// hosted auth provider; we only reference it by its opaque ID.
type UserProfile struct {
	UserID           string    `json:"user_id"`
	Plan             string    `json:"plan"`
	CreditsRemaining int       `json:"credits_remaining"`
	IsAdmin          bool      `json:"is_admin"`
	RiskProfile      string    `json:"risk_profile,omitempty"`
	Balance          string    `json:"balance,omitempty"`
	TradingStyle     string    `json:"trading_style,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Plan constants
const (
	PlanFree = "free"
	PlanPro  = "pro"
)

// DefaultFreeCredits is the implicit allowance a brand-new free account
// starts with. The profile row is only materialized on first consumption,
// already decremented to DefaultFreeCredits-1.
const DefaultFreeCredits = 5

// CreditsUnlimited is the sentinel returned for pro and admin accounts.
const CreditsUnlimited = -1

// Unlimited reports whether the account bypasses credit accounting.
func (p *UserProfile) Unlimited() bool {
	return p.IsAdmin || p.Plan == PlanPro
}
