package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"ensotrade/internal/domain"
)

// CreditService gates access to the analysis capability and tracks
// free-tier consumption. Eligibility is checked against a profile snapshot
// loaded at request start; there is no cross-request locking, so two
// concurrent requests holding the last credit can both pass. Accepted.
type CreditService struct {
	profiles    domain.ProfileRepository
	adminEmails []string
}

// NewCreditService creates a new CreditService with the fixed admin
// email allow-list.
func NewCreditService(profiles domain.ProfileRepository, adminEmails []string) *CreditService {
	return &CreditService{
		profiles:    profiles,
		adminEmails: adminEmails,
	}
}

// IsAdminEmail reports whether the email is on the admin allow-list
func (s *CreditService) IsAdminEmail(email string) bool {
	for _, admin := range s.adminEmails {
		if strings.EqualFold(admin, email) {
			return true
		}
	}
	return false
}

// GetProfile loads the stored profile for a user. A missing row or an
// unreachable store yields a default free profile so callers always have
// something to work with.
func (s *CreditService) GetProfile(ctx context.Context, userID, email string) *domain.UserProfile {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			log.Printf("[WARN] Profile load failed for user %s, using defaults: %v", userID, err)
		}
		profile = defaultProfile(userID, s.IsAdminEmail(email))
	}
	return profile
}

// IsEligible returns true if the email is on the admin allow-list, the
// plan is pro, or free credits remain. No side effects.
func (s *CreditService) IsEligible(profile *domain.UserProfile, email string) bool {
	if s.IsAdminEmail(email) {
		return true
	}
	if profile == nil {
		// Fresh account: implicit starting allowance not yet materialized
		return domain.DefaultFreeCredits > 0
	}
	return profile.Plan == domain.PlanPro || profile.CreditsRemaining > 0
}

// ConsumeCredit deducts one analysis credit and returns the remaining
// count, or the unlimited sentinel for admin and pro accounts. A missing
// profile is created lazily, already decremented from the implicit
// starting allowance. Store failures never propagate: the analysis has
// already succeeded by the time this runs, and delivering it wins over
// ledger accuracy.
func (s *CreditService) ConsumeCredit(ctx context.Context, userID, email string) int {
	if s.IsAdminEmail(email) {
		return domain.CreditsUnlimited
	}

	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return s.createDecremented(ctx, userID)
		}
		log.Printf("[WARN] Credit lookup failed for user %s, assuming fresh allowance: %v", userID, err)
		return domain.DefaultFreeCredits - 1
	}

	if profile.Plan == domain.PlanPro {
		return domain.CreditsUnlimited
	}

	remaining := profile.CreditsRemaining - 1
	if remaining < 0 {
		remaining = 0
	}

	if err := s.profiles.UpdateCredits(ctx, userID, remaining); err != nil {
		log.Printf("[WARN] Credit decrement not persisted for user %s: %v", userID, err)
	}

	return remaining
}

// createDecremented materializes a new free profile with one credit
// already spent on the analysis that triggered the creation.
func (s *CreditService) createDecremented(ctx context.Context, userID string) int {
	remaining := domain.DefaultFreeCredits - 1

	profile := defaultProfile(userID, false)
	profile.CreditsRemaining = remaining

	if err := s.profiles.Create(ctx, profile); err != nil {
		log.Printf("[WARN] Lazy profile creation failed for user %s: %v", userID, err)
	}

	return remaining
}

func defaultProfile(userID string, isAdmin bool) *domain.UserProfile {
	now := time.Now().UTC()
	return &domain.UserProfile{
		UserID:           userID,
		Plan:             domain.PlanFree,
		CreditsRemaining: domain.DefaultFreeCredits,
		IsAdmin:          isAdmin,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}
