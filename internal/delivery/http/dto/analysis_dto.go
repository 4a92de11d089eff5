package dto

import "ensotrade/internal/domain"

// AnalyzeRequest represents the chart analysis payload. Exactly one of
// ImageBase64 and ChartURL must be set.
type AnalyzeRequest struct {
	ImageBase64  string `json:"imageBase64,omitempty"`
	ChartURL     string `json:"chartUrl,omitempty"`
	Symbol       string `json:"symbol" validate:"required"`
	Timeframe    string `json:"timeframe" validate:"required"`
	TradingStyle string `json:"tradingStyle,omitempty"`
}

// AnalyzeResponse represents the analysis result with updated credit state
type AnalyzeResponse struct {
	Analysis         domain.AnalysisResult `json:"analysis"`
	CreditsRemaining int                   `json:"credits_remaining"`
	Plan             string                `json:"plan"`
	IsAdmin          bool                  `json:"is_admin"`
}

// AnalysisRecordOutput represents one history entry in API responses
type AnalysisRecordOutput struct {
	ID        string                `json:"id"`
	Symbol    string                `json:"symbol"`
	Timeframe string                `json:"timeframe"`
	PlanUsed  string                `json:"plan_used"`
	Analysis  domain.AnalysisResult `json:"analysis"`
	Timestamp string                `json:"timestamp"`
}

// CreditState is the payload attached to a 402 response
type CreditState struct {
	Plan             string `json:"plan"`
	CreditsRemaining int    `json:"credits_remaining"`
}
