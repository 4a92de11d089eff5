package service

import (
	"reflect"
	"testing"
)

func TestParseAnalysisResponseFencedRoundTrip(t *testing.T) {
	body := `{"movement": "Bullish", "action": "Buy", "confidence": "High", "signals": ["higher highs"]}`
	fenced := "```json\n" + body + "\n```"

	plain := ParseAnalysisResponse(body)
	unfenced := ParseAnalysisResponse(fenced)

	if !reflect.DeepEqual(plain, unfenced) {
		t.Fatalf("fenced parse = %v, want %v", unfenced, plain)
	}
	if plain["action"] != "Buy" {
		t.Fatalf("action = %v, want Buy", plain["action"])
	}
}

func TestParseAnalysisResponseTrimsWhitespace(t *testing.T) {
	result := ParseAnalysisResponse("  \n```json\n{\"movement\": \"Bearish\"}\n```  \n")
	if result["movement"] != "Bearish" {
		t.Fatalf("movement = %v, want Bearish", result["movement"])
	}
}

func TestParseAnalysisResponseDegradesOnMalformedOutput(t *testing.T) {
	raw := "not json"
	result := ParseAnalysisResponse(raw)

	if result["rawResponse"] != raw {
		t.Fatalf("rawResponse = %v, want %q untouched", result["rawResponse"], raw)
	}
	if result["action"] != "Hold" {
		t.Fatalf("action = %v, want Hold", result["action"])
	}
	if result["movement"] != "Unknown" || result["confidence"] != "Low" {
		t.Fatalf("degraded defaults wrong: movement=%v confidence=%v", result["movement"], result["confidence"])
	}
	signals, ok := result["signals"].([]interface{})
	if !ok || len(signals) != 0 {
		t.Fatalf("signals = %v, want empty list", result["signals"])
	}
	if result["error"] == nil {
		t.Fatalf("degraded result should carry an error field")
	}
}
