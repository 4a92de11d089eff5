package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ensotrade/internal/domain"
)

// ProfileRepositoryImpl implements the ProfileRepository interface on Postgres
type ProfileRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewProfileRepository creates a new ProfileRepository. A nil pool is
// allowed: every call then reports ErrStoreUnavailable so callers take
// their fallback path instead of crashing at startup.
func NewProfileRepository(db *pgxpool.Pool) domain.ProfileRepository {
	return &ProfileRepositoryImpl{db: db}
}

// GetByUserID retrieves a profile by user ID
func (r *ProfileRepositoryImpl) GetByUserID(ctx context.Context, userID string) (*domain.UserProfile, error) {
	if r.db == nil {
		return nil, domain.ErrStoreUnavailable
	}

	query := `
		SELECT user_id, plan, credits_remaining, is_admin,
		       COALESCE(risk_profile, ''), COALESCE(balance, ''), COALESCE(trading_style, ''),
		       created_at, updated_at
		FROM user_profiles
		WHERE user_id = $1
	`

	profile := &domain.UserProfile{}
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.UserID,
		&profile.Plan,
		&profile.CreditsRemaining,
		&profile.IsAdmin,
		&profile.RiskProfile,
		&profile.Balance,
		&profile.TradingStyle,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile for user %s: %w", userID, err)
	}

	return profile, nil
}

// Create inserts a new profile
func (r *ProfileRepositoryImpl) Create(ctx context.Context, profile *domain.UserProfile) error {
	if r.db == nil {
		return domain.ErrStoreUnavailable
	}

	query := `
		INSERT INTO user_profiles (
			user_id, plan, credits_remaining, is_admin,
			risk_profile, balance, trading_style, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
		ON CONFLICT (user_id) DO NOTHING
	`

	_, err := r.db.Exec(ctx, query,
		profile.UserID,
		profile.Plan,
		profile.CreditsRemaining,
		profile.IsAdmin,
		profile.RiskProfile,
		profile.Balance,
		profile.TradingStyle,
		profile.CreatedAt,
		profile.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}

	return nil
}

// UpdateCredits persists a new remaining-credit count
func (r *ProfileRepositoryImpl) UpdateCredits(ctx context.Context, userID string, credits int) error {
	if r.db == nil {
		return domain.ErrStoreUnavailable
	}

	query := `
		UPDATE user_profiles
		SET credits_remaining = $1, updated_at = NOW()
		WHERE user_id = $2
	`

	_, err := r.db.Exec(ctx, query, credits, userID)
	if err != nil {
		return fmt.Errorf("failed to update credits: %w", err)
	}

	return nil
}

// UpdatePlan changes the plan tier
func (r *ProfileRepositoryImpl) UpdatePlan(ctx context.Context, userID string, plan string) error {
	if r.db == nil {
		return domain.ErrStoreUnavailable
	}

	query := `
		UPDATE user_profiles
		SET plan = $1, updated_at = NOW()
		WHERE user_id = $2
	`

	_, err := r.db.Exec(ctx, query, plan, userID)
	if err != nil {
		return fmt.Errorf("failed to update plan: %w", err)
	}

	return nil
}

// UpdateTradingFields updates the optional free-text trading fields
func (r *ProfileRepositoryImpl) UpdateTradingFields(ctx context.Context, userID, riskProfile, balance, tradingStyle string) error {
	if r.db == nil {
		return domain.ErrStoreUnavailable
	}

	query := `
		UPDATE user_profiles
		SET risk_profile = $1, balance = $2, trading_style = $3, updated_at = NOW()
		WHERE user_id = $4
	`

	_, err := r.db.Exec(ctx, query, riskProfile, balance, tradingStyle, userID)
	if err != nil {
		return fmt.Errorf("failed to update trading fields: %w", err)
	}

	return nil
}
