// Package aichannel turns a topic into a slide outline using a hosted LLM.
package aichannel

import (
	"context"
	"errors"
)

var (
	ErrNoAPIKey      = errors.New("API key not configured")
	ErrProviderError = errors.New("provider error")
)

// Provider is one chat-completion backend.
type Provider interface {
	Name() string
	IsConfigured() bool
	// Complete sends a system prompt and a user prompt and returns the
	// model's text.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (*Response, error)
}

// ProviderConfig holds the call settings shared by all providers.
type ProviderConfig struct {
	APIKey string `json:"api_key,omitempty"`
	Model  string `json:"model,omitempty"`
	// BaseURL replaces the vendor endpoint, e.g. for a gateway.
	BaseURL     string  `json:"base_url,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
	// JSONMode constrains replies to a single JSON object.
	JSONMode bool `json:"json_mode,omitempty"`
}

// DefaultProviderConfig returns the outline generation settings.
func DefaultProviderConfig() ProviderConfig {
	return ProviderConfig{MaxTokens: 4096, Temperature: 0.7, JSONMode: true}
}

// Response is a completed model call.
type Response struct {
	Result    string `json:"result"`
	Model     string `json:"model,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}
