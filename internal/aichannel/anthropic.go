package aichannel

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	AnthropicModelSonnet = "claude-sonnet-4-5-20250929"
	AnthropicModelHaiku  = "claude-haiku-4-5-20251001"
)

// jsonPrefill opens the assistant turn in JSON mode so the reply continues
// inside an object.
const jsonPrefill = "{"

// AnthropicProvider calls the Messages API through the official SDK.
type AnthropicProvider struct {
	client anthropic.Client
	config ProviderConfig
}

// NewAnthropicProvider builds a provider. An empty APIKey is looked up in
// ANTHROPIC_API_KEY, then CLAUDE_KEY.
func NewAnthropicProvider(cfg ProviderConfig) *AnthropicProvider {
	if cfg.APIKey == "" {
		cfg.APIKey = APIKeyFromEnv(ProviderAnthropic)
	}
	if cfg.Model == "" {
		cfg.Model = AnthropicModelSonnet
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultProviderConfig().MaxTokens
	}

	var opts []option.RequestOption
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &AnthropicProvider{client: anthropic.NewClient(opts...), config: cfg}
}

func (p *AnthropicProvider) Name() string {
	return string(ProviderAnthropic)
}

func (p *AnthropicProvider) IsConfigured() bool {
	return p.config.APIKey != ""
}

func (p *AnthropicProvider) Model() string {
	return p.config.Model
}

// SetModel switches the model for later calls.
func (p *AnthropicProvider) SetModel(model string) {
	p.config.Model = model
}

func (p *AnthropicProvider) Complete(ctx context.Context, systemPrompt, userPrompt string) (*Response, error) {
	if !p.IsConfigured() {
		return nil, ErrNoAPIKey
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.config.Model),
		MaxTokens: int64(p.config.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	}
	if p.config.JSONMode {
		params.Messages = append(params.Messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(jsonPrefill)))
	}
	if p.config.Temperature > 0 {
		params.Temperature = anthropic.Float(p.config.Temperature)
	}
	if systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: systemPrompt}}
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderError, err)
	}

	var b strings.Builder
	if p.config.JSONMode {
		b.WriteString(jsonPrefill)
	}
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return &Response{
		Result:    strings.TrimSpace(b.String()),
		Model:     string(msg.Model),
		RequestID: msg.ID,
	}, nil
}
