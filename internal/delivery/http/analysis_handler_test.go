package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"ensotrade/internal/domain"
	"ensotrade/internal/service"
	"ensotrade/internal/usecase"
)

type stubProfileRepo struct {
	profiles map[string]*domain.UserProfile
}

func newStubProfileRepo() *stubProfileRepo {
	return &stubProfileRepo{profiles: make(map[string]*domain.UserProfile)}
}

func (f *stubProfileRepo) GetByUserID(ctx context.Context, userID string) (*domain.UserProfile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *stubProfileRepo) Create(ctx context.Context, profile *domain.UserProfile) error {
	if _, ok := f.profiles[profile.UserID]; !ok {
		copied := *profile
		f.profiles[profile.UserID] = &copied
	}
	return nil
}

func (f *stubProfileRepo) UpdateCredits(ctx context.Context, userID string, credits int) error {
	if p, ok := f.profiles[userID]; ok {
		p.CreditsRemaining = credits
	}
	return nil
}

func (f *stubProfileRepo) UpdatePlan(ctx context.Context, userID string, plan string) error {
	if p, ok := f.profiles[userID]; ok {
		p.Plan = plan
	}
	return nil
}

func (f *stubProfileRepo) UpdateTradingFields(ctx context.Context, userID, riskProfile, balance, tradingStyle string) error {
	if p, ok := f.profiles[userID]; ok {
		p.RiskProfile = riskProfile
		p.Balance = balance
		p.TradingStyle = tradingStyle
	}
	return nil
}

type stubRecordRepo struct {
	saved []*domain.AnalysisRecord
}

func (f *stubRecordRepo) Save(ctx context.Context, record *domain.AnalysisRecord) error {
	f.saved = append(f.saved, record)
	return nil
}

func (f *stubRecordRepo) ListRecent(ctx context.Context, userID string, limit int) ([]*domain.AnalysisRecord, error) {
	return f.saved, nil
}

type stubVision struct{ reply string }

func (f *stubVision) AnalyzeChart(ctx context.Context, prompt, imageBase64 string) (string, error) {
	return f.reply, nil
}

type stubCapture struct{}

func (f *stubCapture) Capture(ctx context.Context, chartURL string) (string, error) {
	return "c2NyZWVuc2hvdA==", nil
}

func newTestHandler(profiles *stubProfileRepo, records *stubRecordRepo) *AnalysisHandler {
	credits := service.NewCreditService(profiles, []string{"admin@ensotrade.com"})
	analysisService := usecase.NewAnalysisService(
		&stubVision{reply: "{\"movement\": \"Bullish\", \"action\": \"Buy\"}"},
		&stubCapture{},
		credits,
		service.NewPromptService(),
		records,
	)
	return NewAnalysisHandler(analysisService)
}

func analyzeRequest(t *testing.T, handler *AnalysisHandler, userID, email, body string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", userID)
	c.Set("email", email)

	if err := handler.Analyze(c); err != nil {
		t.Fatalf("handler error = %v", err)
	}
	return rec
}

func TestAnalyzeHandlerPaymentRequired(t *testing.T) {
	profiles := newStubProfileRepo()
	profiles.profiles["u1"] = &domain.UserProfile{UserID: "u1", Plan: domain.PlanFree, CreditsRemaining: 0}
	handler := newTestHandler(profiles, &stubRecordRepo{})

	rec := analyzeRequest(t, handler, "u1", "user@example.com",
		`{"imageBase64": "aGVsbG8=", "symbol": "BTCUSDT", "timeframe": "1H"}`)

	if rec.Code != http.StatusPaymentRequired {
		t.Fatalf("status = %d, want 402", rec.Code)
	}

	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	details, ok := resp.Error.(map[string]interface{})
	if !ok {
		t.Fatalf("402 response missing credit details: %v", resp.Error)
	}
	if details["plan"] != "free" || details["credits_remaining"].(float64) != 0 {
		t.Fatalf("402 details = %v, want plan=free credits=0", details)
	}
}

func TestAnalyzeHandlerSuccess(t *testing.T) {
	profiles := newStubProfileRepo()
	profiles.profiles["u1"] = &domain.UserProfile{UserID: "u1", Plan: domain.PlanFree, CreditsRemaining: 4}
	records := &stubRecordRepo{}
	handler := newTestHandler(profiles, records)

	rec := analyzeRequest(t, handler, "u1", "user@example.com",
		`{"imageBase64": "aGVsbG8=", "symbol": "BTCUSDT", "timeframe": "1H"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data struct {
			Analysis         map[string]interface{} `json:"analysis"`
			CreditsRemaining int                    `json:"credits_remaining"`
			Plan             string                 `json:"plan"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Data.CreditsRemaining != 3 {
		t.Fatalf("credits_remaining = %d, want 3", resp.Data.CreditsRemaining)
	}
	if resp.Data.Analysis["movement"] != "Bullish" {
		t.Fatalf("analysis = %v, want parsed model output", resp.Data.Analysis)
	}
	if len(records.saved) != 1 {
		t.Fatalf("saved %d records, want 1", len(records.saved))
	}
}

func TestAnalyzeHandlerMissingFields(t *testing.T) {
	handler := newTestHandler(newStubProfileRepo(), &stubRecordRepo{})

	rec := analyzeRequest(t, handler, "u1", "user@example.com", `{"symbol": "BTCUSDT"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for missing timeframe/image", rec.Code)
	}
}

func TestListAnalysesFailsOpen(t *testing.T) {
	handler := newTestHandler(newStubProfileRepo(), &stubRecordRepo{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/analyses", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", "u1")
	c.Set("email", "user@example.com")

	if err := handler.ListAnalyses(c); err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Data []interface{} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Data == nil || len(resp.Data) != 0 {
		t.Fatalf("data = %v, want empty list", resp.Data)
	}
}
