package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"ensotrade/internal/domain"
)

// GeminiBridge implements VisionModel against the Gemini generateContent API
type GeminiBridge struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewGeminiBridge creates a new Gemini vision model bridge
func NewGeminiBridge(baseURL, apiKey, model string) domain.VisionModel {
	return &GeminiBridge{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: 120 * time.Second, // vision inference can take time
		},
	}
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// AnalyzeChart sends the prompt and the chart image to the model and
// returns its raw text reply
func (gb *GeminiBridge) AnalyzeChart(ctx context.Context, prompt, imageBase64 string) (string, error) {
	if gb.apiKey == "" {
		return "", fmt.Errorf("model API key is not configured")
	}

	reqBody := geminiRequest{
		Contents: []geminiContent{
			{
				Parts: []geminiPart{
					{Text: prompt},
					{InlineData: &geminiInlineData{
						MimeType: "image/png",
						Data:     imageBase64,
					}},
				},
			},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal model request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", gb.baseURL, gb.model, gb.apiKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create model request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := gb.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call vision model: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("vision model returned error: status=%d, body=%s", resp.StatusCode, string(body))
	}

	var modelResp geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&modelResp); err != nil {
		return "", fmt.Errorf("failed to decode model response: %w", err)
	}

	if len(modelResp.Candidates) == 0 || len(modelResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("vision model returned no candidates")
	}

	return modelResp.Candidates[0].Content.Parts[0].Text, nil
}
