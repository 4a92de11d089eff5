package domain

import "context"

// VisionModel defines the interface for the multimodal model call:
// chart image plus instruction text in, raw text reply out.
type VisionModel interface {
	AnalyzeChart(ctx context.Context, prompt, imageBase64 string) (string, error)
}

// ChartCapture defines the interface for the browser-automation service
// that screenshots a live chart page. Returns the image as base64 PNG.
type ChartCapture interface {
	Capture(ctx context.Context, chartURL string) (string, error)
}

// AuthSession is the token and user summary issued by the auth provider.
type AuthSession struct {
	AccessToken   string `json:"access_token"`
	UserID        string `json:"user_id"`
	Email         string `json:"email"`
	Name          string `json:"name,omitempty"`
	EmailVerified bool   `json:"email_verified"`
}

// AuthProvider defines the interface for the hosted auth service that owns
// registration, login, and email verification.
type AuthProvider interface {
	Register(ctx context.Context, email, password, name string) error
	Login(ctx context.Context, email, password string) (*AuthSession, error)
	ResendVerification(ctx context.Context, email string) error
}
