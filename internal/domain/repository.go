package domain

import (
	"context"
)

// ProfileRepository defines the interface for user profile data operations
type ProfileRepository interface {
	// GetByUserID retrieves a profile by user ID. Returns ErrNotFound when
	// no row exists and ErrStoreUnavailable when the store is unreachable.
	GetByUserID(ctx context.Context, userID string) (*UserProfile, error)

	// Create inserts a new profile
	Create(ctx context.Context, profile *UserProfile) error

	// UpdateCredits persists a new remaining-credit count
	UpdateCredits(ctx context.Context, userID string, credits int) error

	// UpdatePlan changes the plan tier
	UpdatePlan(ctx context.Context, userID string, plan string) error

	// UpdateTradingFields updates the optional free-text trading fields
	UpdateTradingFields(ctx context.Context, userID, riskProfile, balance, tradingStyle string) error
}

// AnalysisRepository defines the interface for analysis record operations
type AnalysisRepository interface {
	// Save persists a new analysis record
	Save(ctx context.Context, record *AnalysisRecord) error

	// ListRecent retrieves up to limit records for a user, newest first
	ListRecent(ctx context.Context, userID string, limit int) ([]*AnalysisRecord, error)
}
