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

// AuthGateBridge implements AuthProvider against the hosted auth service
// that owns registration, login, and email verification. We never see
// passwords beyond forwarding them over this connection.
type AuthGateBridge struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewAuthGateBridge creates a new hosted auth provider bridge
func NewAuthGateBridge(baseURL, apiKey string) domain.AuthProvider {
	return &AuthGateBridge{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// ProviderError carries the status the auth provider answered with so the
// handler can forward it instead of flattening everything to 500.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("auth provider error: status=%d, message=%s", e.StatusCode, e.Message)
}

// Register creates a new account with the auth provider. The provider
// sends the verification email itself.
func (ab *AuthGateBridge) Register(ctx context.Context, email, password, name string) error {
	body := map[string]string{
		"email":    email,
		"password": password,
		"name":     name,
	}

	return ab.post(ctx, "/auth/v1/signup", body, nil)
}

// Login exchanges credentials for a session token
func (ab *AuthGateBridge) Login(ctx context.Context, email, password string) (*domain.AuthSession, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}

	var raw struct {
		AccessToken string `json:"access_token"`
		User        struct {
			ID               string `json:"id"`
			Email            string `json:"email"`
			Name             string `json:"name"`
			EmailConfirmedAt string `json:"email_confirmed_at"`
		} `json:"user"`
	}

	if err := ab.post(ctx, "/auth/v1/token?grant_type=password", body, &raw); err != nil {
		return nil, err
	}

	return &domain.AuthSession{
		AccessToken:   raw.AccessToken,
		UserID:        raw.User.ID,
		Email:         raw.User.Email,
		Name:          raw.User.Name,
		EmailVerified: raw.User.EmailConfirmedAt != "",
	}, nil
}

// ResendVerification asks the provider to send a fresh verification email
func (ab *AuthGateBridge) ResendVerification(ctx context.Context, email string) error {
	body := map[string]string{
		"type":  "signup",
		"email": email,
	}

	return ab.post(ctx, "/auth/v1/resend", body, nil)
}

// post issues one provider call and decodes the reply into out when given
func (ab *AuthGateBridge) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	if ab.baseURL == "" {
		return fmt.Errorf("auth provider URL is not configured")
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal auth request: %w", err)
	}

	url := ab.baseURL + path
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create auth request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", ab.apiKey)

	resp, err := ab.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call auth provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return &ProviderError{
			StatusCode: resp.StatusCode,
			Message:    providerMessage(resp.Body),
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode auth provider response: %w", err)
		}
	}

	return nil
}

// providerMessage extracts a human-readable message from an error body
func providerMessage(body io.Reader) string {
	data, err := io.ReadAll(body)
	if err != nil || len(data) == 0 {
		return "unknown provider error"
	}

	var parsed struct {
		Message string `json:"message"`
		Msg     string `json:"msg"`
		Error   string `json:"error_description"`
	}
	if err := json.Unmarshal(data, &parsed); err == nil {
		switch {
		case parsed.Message != "":
			return parsed.Message
		case parsed.Msg != "":
			return parsed.Msg
		case parsed.Error != "":
			return parsed.Error
		}
	}

	return string(data)
}
