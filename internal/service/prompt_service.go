package service

import (
	"fmt"
	"strings"

	"ensotrade/internal/domain"
)

// Prompt families
const (
	familyBasic    = "basic"
	familyElevated = "elevated"
)

// promptInput carries the request parameters into a template builder
type promptInput struct {
	Symbol       string
	Timeframe    string
	TradingStyle string
}

type promptBuilder func(in promptInput) string

// promptTable maps (family, mode) to a template builder, replacing the
// copy-pasted per-tier string literals the product started with.
var promptTable = map[[2]string]promptBuilder{
	{familyBasic, domain.ModeScreenshot}:    buildBasicPrompt,
	{familyBasic, domain.ModeLiveChart}:     buildBasicPrompt,
	{familyElevated, domain.ModeScreenshot}: buildElevatedPrompt,
	{familyElevated, domain.ModeLiveChart}:  buildLiveChartPrompt,
}

// PromptService deterministically constructs the instruction text sent to
// the vision model. Pure: no randomness, no external calls.
type PromptService struct{}

// NewPromptService creates a new PromptService
func NewPromptService() *PromptService {
	return &PromptService{}
}

// BuildPrompt selects the prompt family from the tier and admin flag and
// renders the template for the given mode. Admin and pro accounts get the
// elevated family; everyone else gets the basic one.
func (s *PromptService) BuildPrompt(tier string, isAdmin bool, symbol, timeframe, tradingStyle, mode string) string {
	family := familyBasic
	if isAdmin || tier == domain.PlanPro {
		family = familyElevated
	}

	if mode != domain.ModeLiveChart {
		mode = domain.ModeScreenshot
	}

	build := promptTable[[2]string{family, mode}]
	return build(promptInput{
		Symbol:       strings.ToUpper(symbol),
		Timeframe:    timeframe,
		TradingStyle: tradingStyle,
	})
}

func buildBasicPrompt(in promptInput) string {
	return fmt.Sprintf(`You are an expert trading analyst. Analyze the trading chart image provided. You are operating in restricted free mode: limit yourself strictly to overall trend direction and visible support/resistance levels. Do NOT perform indicator-based analysis (RSI, MACD, moving averages, volume profiles or similar); if the user appears to expect it, state inside the summary field that indicator-based analysis requires a Pro plan. Respond in the following JSON format:

{
  "signals": [],
  "movement": "Bullish|Bearish|Neutral",
  "action": "Hold",
  "confidence": "High|Medium|Low",
  "summary": "A concise 2-3 sentence trend and support/resistance summary. Mention here that indicator-based analysis is not included on the free plan.",
  "fullAnalysis": "A short paragraph covering only trend direction and the key support and resistance levels visible on the chart"
}

Symbol: %s
Timeframe: %s
Please do not provide anything outside JSON`, in.Symbol, in.Timeframe)
}

func buildElevatedPrompt(in promptInput) string {
	return fmt.Sprintf(`You are an expert trading analyst. Analyze the trading chart image provided. Please provide a comprehensive analysis in the following JSON format:

{
  "signals": ["List of 3-5 specific technical signals you identify in the chart"],
  "movement": "Bullish|Bearish|Neutral",
  "action": "Buy|Sell|Hold",
  "confidence": "High|Medium|Low",
  "entryPrice": "Exact numeric entry price based on the chart",
  "stopLoss": "Exact numeric stop loss price. The reward:risk ratio between takeProfit and stopLoss must be between 1.5:1 and 2:1",
  "takeProfit": "Exact numeric take profit price consistent with the mandated 1.5:1 to 2:1 reward:risk ratio",
  "summary": "A concise 2-3 sentence summary of your analysis and reasoning",
  "fullAnalysis": "A detailed paragraph explaining your complete analysis, including technical patterns, support/resistance levels, indicators, and market context",
  "customStrategy": "%s"
}

Symbol: %s
Timeframe: %s
Please do not provide anything outside JSON`, strategyInstruction(in.TradingStyle), in.Symbol, in.Timeframe)
}

func buildLiveChartPrompt(in promptInput) string {
	return fmt.Sprintf(`You are an expert trading analyst. Analyze the live trading chart screenshot provided. Please provide a comprehensive analysis in the following JSON format:

{
  "signals": ["List of 3-5 specific technical signals you identify in the chart"],
  "movement": "Bullish|Bearish|Neutral",
  "action": "Buy|Sell|Hold",
  "confidence": "High|Medium|Low",
  "entryPrice": "Exact numeric entry price based on the chart",
  "stopLoss": "Exact numeric stop loss price. The reward:risk ratio between takeProfit and stopLoss must be between 1.5:1 and 2:1",
  "takeProfit": "Exact numeric take profit price consistent with the mandated 1.5:1 to 2:1 reward:risk ratio",
  "summary": "A concise 2-3 sentence summary of your analysis and reasoning",
  "fullAnalysis": "A detailed paragraph explaining your complete analysis, including technical patterns, support/resistance levels, indicators, and market context",
  "customStrategy": "%s",
  "newsHeadlines": ["3-5 recent news headlines relevant to this symbol, each prefixed with [Bullish], [Bearish] or [Neutral]"],
  "conflict": "If the chart technicals and the news fundamentals disagree, describe the conflict here; otherwise 'None'"
}

Symbol: %s
Timeframe: %s
Please do not provide anything outside JSON`, strategyInstruction(in.TradingStyle), in.Symbol, in.Timeframe)
}

func strategyInstruction(tradingStyle string) string {
	if tradingStyle == "" {
		return "Suggest a suitable trading strategy with specific entry/exit guidance"
	}
	return fmt.Sprintf("Tailor the analysis to the user's chosen trading style (%s) and provide specific entry/exit strategies", tradingStyle)
}
