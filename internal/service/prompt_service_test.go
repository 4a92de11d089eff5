package service

import (
	"strings"
	"testing"

	"ensotrade/internal/domain"
)

func TestBuildPromptFreeTierNeverMentionsTradeLevels(t *testing.T) {
	svc := NewPromptService()

	for _, mode := range []string{domain.ModeScreenshot, domain.ModeLiveChart} {
		prompt := svc.BuildPrompt(domain.PlanFree, false, "btcusdt", "1H", "", mode)

		for _, forbidden := range []string{"entryPrice", "stopLoss", "takeProfit"} {
			if strings.Contains(prompt, forbidden) {
				t.Fatalf("free prompt (mode=%s) contains %q", mode, forbidden)
			}
		}
		if !strings.Contains(prompt, "support/resistance") {
			t.Fatalf("free prompt (mode=%s) does not restrict to support/resistance analysis", mode)
		}
	}
}

func TestBuildPromptElevatedMandatesRewardRisk(t *testing.T) {
	svc := NewPromptService()

	cases := []struct {
		name    string
		tier    string
		isAdmin bool
	}{
		{"pro", domain.PlanPro, false},
		{"admin on free plan", domain.PlanFree, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			prompt := svc.BuildPrompt(tc.tier, tc.isAdmin, "ETHUSDT", "4H", "", domain.ModeScreenshot)

			for _, required := range []string{"entryPrice", "stopLoss", "takeProfit"} {
				if !strings.Contains(prompt, required) {
					t.Fatalf("elevated prompt missing %q", required)
				}
			}
			if !strings.Contains(prompt, "1.5:1") || !strings.Contains(prompt, "2:1") {
				t.Fatalf("elevated prompt does not mandate the 1.5:1 to 2:1 reward:risk ratio")
			}
		})
	}
}

func TestBuildPromptLiveChartAddsNewsFields(t *testing.T) {
	svc := NewPromptService()

	prompt := svc.BuildPrompt(domain.PlanPro, false, "AAPL", "1D", "", domain.ModeLiveChart)

	for _, required := range []string{"newsHeadlines", "Bullish", "Bearish", "Neutral", "conflict"} {
		if !strings.Contains(prompt, required) {
			t.Fatalf("liveChart prompt missing %q", required)
		}
	}

	screenshot := svc.BuildPrompt(domain.PlanPro, false, "AAPL", "1D", "", domain.ModeScreenshot)
	if strings.Contains(screenshot, "newsHeadlines") {
		t.Fatalf("screenshot prompt should not request news headlines")
	}
}

func TestBuildPromptUppercasesSymbol(t *testing.T) {
	svc := NewPromptService()

	prompt := svc.BuildPrompt(domain.PlanFree, false, "solusdt", "15m", "", domain.ModeScreenshot)
	if !strings.Contains(prompt, "Symbol: SOLUSDT") {
		t.Fatalf("prompt did not upper-case the symbol:\n%s", prompt)
	}
}

func TestBuildPromptTradingStyle(t *testing.T) {
	svc := NewPromptService()

	styled := svc.BuildPrompt(domain.PlanPro, false, "BTCUSDT", "1H", "scalping", domain.ModeScreenshot)
	if !strings.Contains(styled, "scalping") {
		t.Fatalf("prompt does not mention the trading style")
	}

	unstyled := svc.BuildPrompt(domain.PlanPro, false, "BTCUSDT", "1H", "", domain.ModeScreenshot)
	if !strings.Contains(unstyled, "Suggest a suitable trading strategy") {
		t.Fatalf("prompt without style should ask the model to suggest one")
	}
}

func TestBuildPromptDeterministic(t *testing.T) {
	svc := NewPromptService()

	a := svc.BuildPrompt(domain.PlanPro, false, "BTCUSDT", "1H", "swing", domain.ModeLiveChart)
	b := svc.BuildPrompt(domain.PlanPro, false, "BTCUSDT", "1H", "swing", domain.ModeLiveChart)
	if a != b {
		t.Fatalf("BuildPrompt is not deterministic for identical inputs")
	}
}
