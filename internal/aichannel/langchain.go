package aichannel

import (
	"context"
	"fmt"
	"os"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/mistral"
	"github.com/tmc/langchaingo/llms/openai"
)

// LLMProvider names a hosted model vendor reachable through langchaingo.
type LLMProvider string

const (
	ProviderOpenAI     LLMProvider = "openai"
	ProviderAnthropic  LLMProvider = "anthropic"
	ProviderGoogle     LLMProvider = "google"
	ProviderMistral    LLMProvider = "mistral"
	ProviderDeepSeek   LLMProvider = "deepseek"
	ProviderOpenRouter LLMProvider = "openrouter"
	ProviderTogether   LLMProvider = "together"
)

// providerSpec describes how to reach one vendor. Vendors with a baseURL
// speak the OpenAI chat API.
type providerSpec struct {
	name    LLMProvider
	envKeys []string
	model   string
	baseURL string
	openAI  bool
}

// providers is ordered by preference for DetectProvider.
var providers = []providerSpec{
	{name: ProviderOpenAI, envKeys: []string{"OPENAI_API_KEY", "OPENAI_KEY"}, model: "gpt-4o-mini", openAI: true},
	{name: ProviderAnthropic, envKeys: []string{"ANTHROPIC_API_KEY", "CLAUDE_KEY"}, model: AnthropicModelSonnet},
	{name: ProviderGoogle, envKeys: []string{"GOOGLE_API_KEY", "GEMINI_API_KEY"}, model: "gemini-1.5-flash"},
	{name: ProviderMistral, envKeys: []string{"MISTRAL_API_KEY"}, model: "mistral-small-latest"},
	{name: ProviderDeepSeek, envKeys: []string{"DEEPSEEK_API_KEY"}, model: "deepseek-chat", baseURL: "https://api.deepseek.com/v1", openAI: true},
	{name: ProviderOpenRouter, envKeys: []string{"OPENROUTER_API_KEY"}, model: "openai/gpt-4o-mini", baseURL: "https://openrouter.ai/api/v1", openAI: true},
	{name: ProviderTogether, envKeys: []string{"TOGETHER_API_KEY"}, model: "meta-llama/Llama-3-70b-chat-hf", baseURL: "https://api.together.xyz/v1", openAI: true},
}

func lookupProvider(name LLMProvider) (providerSpec, bool) {
	for _, p := range providers {
		if p.name == name {
			return p, true
		}
	}
	return providerSpec{}, false
}

// APIKeyFromEnv returns the first non-empty environment key for provider.
func APIKeyFromEnv(provider LLMProvider) string {
	ps, ok := lookupProvider(provider)
	if !ok {
		return ""
	}
	for _, k := range ps.envKeys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

// DetectProvider returns the most preferred provider that has a key in the
// environment, or "" when none does.
func DetectProvider() LLMProvider {
	for _, p := range providers {
		if APIKeyFromEnv(p.name) != "" {
			return p.name
		}
	}
	return ""
}

// LangChainConfig selects a vendor and its call settings.
type LangChainConfig struct {
	Provider LLMProvider
	ProviderConfig
}

// LangChainProvider implements Provider with a langchaingo model.
type LangChainProvider struct {
	llm      llms.Model
	provider LLMProvider
	model    string
	config   ProviderConfig
}

// NewLangChainProvider builds a provider. The API key falls back to the
// vendor's environment variables.
func NewLangChainProvider(cfg LangChainConfig) (*LangChainProvider, error) {
	ps, ok := lookupProvider(cfg.Provider)
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}

	if cfg.APIKey == "" {
		cfg.APIKey = APIKeyFromEnv(cfg.Provider)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: %s (set one of %v)", ErrNoAPIKey, cfg.Provider, ps.envKeys)
	}
	if cfg.Model == "" {
		cfg.Model = ps.model
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = ps.baseURL
	}

	llm, err := newModel(ps, cfg.ProviderConfig)
	if err != nil {
		return nil, fmt.Errorf("create %s model: %w", cfg.Provider, err)
	}

	return &LangChainProvider{
		llm:      llm,
		provider: cfg.Provider,
		model:    cfg.Model,
		config:   cfg.ProviderConfig,
	}, nil
}

func newModel(ps providerSpec, cfg ProviderConfig) (llms.Model, error) {
	if ps.openAI {
		opts := []openai.Option{openai.WithToken(cfg.APIKey), openai.WithModel(cfg.Model)}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		return openai.New(opts...)
	}

	switch ps.name {
	case ProviderAnthropic:
		return anthropic.New(anthropic.WithToken(cfg.APIKey), anthropic.WithModel(cfg.Model))
	case ProviderGoogle:
		return googleai.New(context.Background(), googleai.WithAPIKey(cfg.APIKey), googleai.WithDefaultModel(cfg.Model))
	case ProviderMistral:
		return mistral.New(mistral.WithAPIKey(cfg.APIKey), mistral.WithModel(cfg.Model))
	}
	return nil, fmt.Errorf("provider %s has no client", ps.name)
}

func (p *LangChainProvider) Name() string {
	return string(p.provider)
}

func (p *LangChainProvider) IsConfigured() bool {
	return p.config.APIKey != ""
}

// Model returns the model the provider sends requests to.
func (p *LangChainProvider) Model() string {
	return p.model
}

// Complete sends one system and one user message and returns the first choice.
func (p *LangChainProvider) Complete(ctx context.Context, systemPrompt, userPrompt string) (*Response, error) {
	msgs := make([]llms.MessageContent, 0, 2)
	if systemPrompt != "" {
		msgs = append(msgs, llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt))
	}
	msgs = append(msgs, llms.TextParts(llms.ChatMessageTypeHuman, userPrompt))

	resp, err := p.llm.GenerateContent(ctx, msgs, p.callOptions()...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderError, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty completion", ErrProviderError)
	}
	return &Response{Result: resp.Choices[0].Content, Model: p.model}, nil
}

func (p *LangChainProvider) callOptions() []llms.CallOption {
	var opts []llms.CallOption
	if p.config.Temperature > 0 {
		opts = append(opts, llms.WithTemperature(p.config.Temperature))
	}
	if p.config.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(p.config.MaxTokens))
	}
	if p.config.JSONMode {
		opts = append(opts, llms.WithJSONMode())
	}
	return opts
}
