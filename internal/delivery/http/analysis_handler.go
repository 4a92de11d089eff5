package http

import (
	"errors"
	"time"

	"github.com/labstack/echo/v4"

	"ensotrade/internal/delivery/http/dto"
	"ensotrade/internal/middleware"
	"ensotrade/internal/usecase"
)

// HistoryLimit caps how many records the history endpoint returns
const HistoryLimit = 50

// AnalysisHandler handles chart analysis requests
type AnalysisHandler struct {
	analysisService *usecase.AnalysisService
}

// NewAnalysisHandler creates a new AnalysisHandler
func NewAnalysisHandler(analysisService *usecase.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{analysisService: analysisService}
}

// Analyze runs one chart analysis for the authenticated user
// POST /api/analyze
func (h *AnalysisHandler) Analyze(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}
	email, _ := middleware.GetUserEmail(c)

	var req dto.AnalyzeRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	if req.Symbol == "" || req.Timeframe == "" {
		return BadRequestResponse(c, "Symbol and timeframe are required")
	}
	if req.ImageBase64 == "" && req.ChartURL == "" {
		return BadRequestResponse(c, "Either imageBase64 or chartUrl is required")
	}

	out, err := h.analysisService.Analyze(c.Request().Context(), userID, email, usecase.AnalyzeInput{
		ImageBase64:  req.ImageBase64,
		ChartURL:     req.ChartURL,
		Symbol:       req.Symbol,
		Timeframe:    req.Timeframe,
		TradingStyle: req.TradingStyle,
	})

	if err != nil {
		var credErr *usecase.InsufficientCreditsError
		if errors.As(err, &credErr) {
			return PaymentRequiredResponse(c, "You have used all your free analyses. Upgrade to Pro for unlimited access.", dto.CreditState{
				Plan:             credErr.Plan,
				CreditsRemaining: credErr.CreditsRemaining,
			})
		}
		return InternalServerErrorResponse(c, "Analysis failed", err)
	}

	return SuccessResponse(c, dto.AnalyzeResponse{
		Analysis:         out.Analysis,
		CreditsRemaining: out.CreditsRemaining,
		Plan:             out.Plan,
		IsAdmin:          out.IsAdmin,
	})
}

// ListAnalyses returns the user's recent analysis history, newest first.
// Fails open to an empty list when nothing is readable.
// GET /api/analyses
func (h *AnalysisHandler) ListAnalyses(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	records, err := h.analysisService.ListRecent(c.Request().Context(), userID, HistoryLimit)
	if err != nil {
		records = nil
	}

	out := make([]dto.AnalysisRecordOutput, 0, len(records))
	for _, r := range records {
		out = append(out, dto.AnalysisRecordOutput{
			ID:        r.ID,
			Symbol:    r.Symbol,
			Timeframe: r.Timeframe,
			PlanUsed:  r.PlanUsed,
			Analysis:  r.Analysis,
			Timestamp: r.Timestamp.Format(time.RFC3339),
		})
	}

	return SuccessResponse(c, out)
}
