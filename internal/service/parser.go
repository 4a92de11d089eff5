package service

import (
	"encoding/json"
	"strings"

	"ensotrade/internal/domain"
)

// ParseAnalysisResponse turns the raw model reply into a structured result,
// tolerating the markdown fences the model tends to wrap JSON in. It never
// fails: malformed output degrades to a well-formed placeholder carrying
// the untouched reply under rawResponse.
func ParseAnalysisResponse(raw string) domain.AnalysisResult {
	clean := strings.TrimSpace(raw)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimSuffix(clean, "```")
	clean = strings.TrimSpace(clean)

	var result domain.AnalysisResult
	if err := json.Unmarshal([]byte(clean), &result); err != nil {
		return domain.AnalysisResult{
			"error":          "Failed to parse JSON response",
			"rawResponse":    raw,
			"signals":        []interface{}{},
			"movement":       "Unknown",
			"action":         "Hold",
			"confidence":     "Low",
			"summary":        "Analysis failed to parse properly",
			"fullAnalysis":   raw,
			"customStrategy": "Please try again with a clearer image",
		}
	}

	return result
}
