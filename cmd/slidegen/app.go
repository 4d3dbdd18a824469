package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/standardbeagle/slidegen/internal/aichannel"
	"github.com/standardbeagle/slidegen/internal/branding"
	"github.com/standardbeagle/slidegen/internal/config"
	"github.com/standardbeagle/slidegen/internal/inspector"
	"github.com/standardbeagle/slidegen/internal/logger"
	"github.com/standardbeagle/slidegen/internal/templates"
)

// app holds the long-lived services shared by every command.
type app struct {
	cfg       *config.Config
	log       *slog.Logger
	browser   *inspector.Session
	inspector *inspector.Inspector
	registry  *templates.Registry
	branding  *branding.Extractor
	generator aichannel.Generator
}

// newApp loads configuration and builds the services. logOut receives the
// structured log; MCP mode passes stderr so stdout stays protocol-only.
func newApp(logOut io.Writer) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log := logger.Setup(logOut, cfg.Log.Service, cfg.Log.Level)

	browser := inspector.NewSession(inspector.SessionOptions{
		ExecPath:          cfg.Browser.ExecPath,
		Headless:          cfg.Browser.Headless,
		NavigationTimeout: cfg.Browser.NavigationTimeout,
		ExtractTimeout:    cfg.Browser.ExtractTimeout,
		ViewportWidth:     cfg.Browser.ViewportWidth,
		ViewportHeight:    cfg.Browser.ViewportHeight,
	})

	reg := templates.NewRegistry(cfg.Templates.File)
	if err := reg.Load(); err != nil {
		_ = browser.Close()
		return nil, fmt.Errorf("load templates: %w", err)
	}

	return &app{
		cfg:       cfg,
		log:       log,
		browser:   browser,
		inspector: inspector.New(browser, inspector.WithCache(cfg.Cache.TTL, cfg.Cache.Cleanup)),
		registry:  reg,
		branding:  branding.NewExtractor(cfg.Overrides()),
		generator: newGenerator(cfg.LLM, log),
	}, nil
}

// Close stops the browser. The registry saves on every change.
func (a *app) Close() error {
	return a.browser.Close()
}

// newGenerator picks the outline generator. Without any usable model it
// falls back to the canned outlines.
func newGenerator(cfg config.LLMConfig, log *slog.Logger) aichannel.Generator {
	if cfg.Mock {
		log.Info("llm_selected", "provider", "mock")
		return aichannel.MockGenerator{}
	}

	pc := aichannel.DefaultProviderConfig()
	pc.Model = cfg.Model
	if cfg.Temperature > 0 {
		pc.Temperature = cfg.Temperature
	}
	if cfg.MaxTokens > 0 {
		pc.MaxTokens = cfg.MaxTokens
	}

	if cfg.Provider == "anthropic-sdk" {
		p := aichannel.NewAnthropicProvider(pc)
		if !p.IsConfigured() {
			log.Warn("llm_unconfigured", "provider", cfg.Provider, "fallback", "mock")
			return aichannel.MockGenerator{}
		}
		log.Info("llm_selected", "provider", p.Name(), "model", p.Model())
		return aichannel.NewLLMGenerator(p)
	}

	provider := aichannel.LLMProvider(cfg.Provider)
	if provider == "" {
		provider = aichannel.DetectProvider()
	}
	if provider == "" {
		log.Warn("llm_unconfigured", "fallback", "mock", "hint", "set a provider API key")
		return aichannel.MockGenerator{}
	}

	p, err := aichannel.NewLangChainProvider(aichannel.LangChainConfig{Provider: provider, ProviderConfig: pc})
	if err != nil {
		log.Warn("llm_unavailable", "provider", provider, "fallback", "mock", "error", err)
		return aichannel.MockGenerator{}
	}
	log.Info("llm_selected", "provider", p.Name(), "model", p.Model())
	return aichannel.NewLLMGenerator(p)
}
