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

// CaptureBridge implements ChartCapture against the headless-browser
// screenshot service: chart URL in, base64 PNG out.
type CaptureBridge struct {
	baseURL    string
	httpClient *http.Client
}

// NewCaptureBridge creates a new screenshot service bridge
func NewCaptureBridge(baseURL string) domain.ChartCapture {
	return &CaptureBridge{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second, // page load plus render
		},
	}
}

// Capture screenshots the chart page at the given URL
func (cb *CaptureBridge) Capture(ctx context.Context, chartURL string) (string, error) {
	if cb.baseURL == "" {
		return "", fmt.Errorf("capture service URL is not configured")
	}

	reqBody := map[string]string{"url": chartURL}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal capture request: %w", err)
	}

	url := fmt.Sprintf("%s/screenshot", cb.baseURL)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create capture request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := cb.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call capture service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("capture service returned error: status=%d, body=%s", resp.StatusCode, string(body))
	}

	var captureResp struct {
		ImageBase64 string `json:"image_base64"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&captureResp); err != nil {
		return "", fmt.Errorf("failed to decode capture response: %w", err)
	}

	if captureResp.ImageBase64 == "" {
		return "", fmt.Errorf("capture service returned an empty image")
	}

	return captureResp.ImageBase64, nil
}
