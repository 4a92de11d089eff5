package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"ensotrade/internal/domain"
	"ensotrade/internal/service"
)

// InsufficientCreditsError signals the payment-required condition,
// carrying the state the client needs to offer an upgrade path.
type InsufficientCreditsError struct {
	Plan             string
	CreditsRemaining int
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("no analysis credits remaining (plan=%s, credits=%d)", e.Plan, e.CreditsRemaining)
}

// AnalyzeInput is the request for one chart analysis. Exactly one of
// ImageBase64 and ChartURL is expected.
type AnalyzeInput struct {
	ImageBase64  string
	ChartURL     string
	Symbol       string
	Timeframe    string
	TradingStyle string
}

// AnalyzeOutput is the result returned to the client
type AnalyzeOutput struct {
	Analysis         domain.AnalysisResult
	CreditsRemaining int
	Plan             string
	IsAdmin          bool
}

// AnalysisService orchestrates one analysis request: eligibility, prompt
// construction, the model call, parsing, credit deduction, persistence.
type AnalysisService struct {
	vision  domain.VisionModel
	capture domain.ChartCapture
	credits *service.CreditService
	prompts *service.PromptService
	records domain.AnalysisRepository
}

// NewAnalysisService creates a new AnalysisService
func NewAnalysisService(
	vision domain.VisionModel,
	capture domain.ChartCapture,
	credits *service.CreditService,
	prompts *service.PromptService,
	records domain.AnalysisRepository,
) *AnalysisService {
	return &AnalysisService{
		vision:  vision,
		capture: capture,
		credits: credits,
		prompts: prompts,
		records: records,
	}
}

// Analyze runs the full analysis flow for an authenticated user. A credit
// is only spent after the model call succeeds, so a failed inference never
// costs the user anything. Persistence and ledger writes are best-effort.
func (s *AnalysisService) Analyze(ctx context.Context, userID, email string, in AnalyzeInput) (*AnalyzeOutput, error) {
	profile := s.credits.GetProfile(ctx, userID, email)

	if !s.credits.IsEligible(profile, email) {
		return nil, &InsufficientCreditsError{
			Plan:             profile.Plan,
			CreditsRemaining: profile.CreditsRemaining,
		}
	}

	mode := domain.ModeScreenshot
	imageBase64 := in.ImageBase64
	if imageBase64 == "" {
		if s.capture == nil {
			return nil, fmt.Errorf("live chart capture is not configured")
		}
		captured, err := s.capture.Capture(ctx, in.ChartURL)
		if err != nil {
			return nil, fmt.Errorf("failed to capture live chart: %w", err)
		}
		imageBase64 = captured
		mode = domain.ModeLiveChart
	}

	isAdmin := profile.IsAdmin || s.credits.IsAdminEmail(email)

	tradingStyle := in.TradingStyle
	if tradingStyle == "" {
		tradingStyle = profile.TradingStyle
	}

	prompt := s.prompts.BuildPrompt(profile.Plan, isAdmin, in.Symbol, in.Timeframe, tradingStyle, mode)

	raw, err := s.vision.AnalyzeChart(ctx, prompt, imageBase64)
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}

	analysis := service.ParseAnalysisResponse(raw)

	remaining := s.credits.ConsumeCredit(ctx, userID, email)

	record := &domain.AnalysisRecord{
		ID:        uuid.New().String(),
		UserID:    userID,
		Symbol:    in.Symbol,
		Timeframe: in.Timeframe,
		PlanUsed:  profile.Plan,
		Analysis:  analysis,
		Timestamp: time.Now().UTC(),
	}

	if err := s.records.Save(ctx, record); err != nil {
		log.Printf("[ERROR] Failed to persist analysis %s: %v", record.ID, err)
	}

	return &AnalyzeOutput{
		Analysis:         analysis,
		CreditsRemaining: remaining,
		Plan:             profile.Plan,
		IsAdmin:          isAdmin,
	}, nil
}

// ListRecent returns a user's analysis history, newest first
func (s *AnalysisService) ListRecent(ctx context.Context, userID string, limit int) ([]*domain.AnalysisRecord, error) {
	return s.records.ListRecent(ctx, userID, limit)
}
