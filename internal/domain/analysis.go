package domain

import (
	"time"
)

// AnalysisResult is the structured model verdict. The model is asked for a
// documented key set (signals, movement, action, confidence, summary,
// fullAnalysis, customStrategy, and for elevated tiers entryPrice/stopLoss/
// takeProfit) but compliance is not guaranteed, so the shape stays open.
type AnalysisResult map[string]interface{}

// AnalysisRecord is one persisted analysis attempt. Immutable once written.
type AnalysisRecord struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Symbol    string         `json:"symbol"`
	Timeframe string         `json:"timeframe"`
	PlanUsed  string         `json:"plan_used"`
	Analysis  AnalysisResult `json:"analysis"`
	Timestamp time.Time      `json:"timestamp"`
}

// Analysis modes
const (
	ModeScreenshot = "screenshot"
	ModeLiveChart  = "liveChart"
)
