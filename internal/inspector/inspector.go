package inspector

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Renderer loads a page and returns its raw data.
type Renderer interface {
	Render(ctx context.Context, url string) (*PageData, error)
}

// Inspector analyzes sites through a Renderer and caches results per URL.
type Inspector struct {
	renderer Renderer
	cache    *gocache.Cache
}

// Option configures an Inspector.
type Option func(*Inspector)

// WithCache enables result caching. A ttl <= 0 disables it.
func WithCache(ttl, cleanup time.Duration) Option {
	return func(i *Inspector) {
		if ttl <= 0 {
			i.cache = nil
			return
		}
		i.cache = gocache.New(ttl, cleanup)
	}
}

// New creates an Inspector.
func New(renderer Renderer, opts ...Option) *Inspector {
	i := &Inspector{renderer: renderer}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Analyze inspects rawURL. Results are served from cache when available.
func (i *Inspector) Analyze(ctx context.Context, rawURL string) (*SiteAnalysis, error) {
	target, err := NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}

	if i.cache != nil {
		if cached, ok := i.cache.Get(target); ok {
			slog.Debug("analysis_cache_hit", "url", target)
			return cached.(*SiteAnalysis), nil
		}
	}

	start := time.Now()
	page, err := i.renderer.Render(ctx, target)
	if err != nil {
		slog.Error("analysis_failed", "url", target, "error", err)
		return nil, err
	}

	analysis := Build(target, page)
	slog.Info("analysis_complete",
		"url", target,
		"colors", len(analysis.Colors),
		"fonts", len(analysis.Fonts),
		"logos", len(analysis.Logos),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if i.cache != nil {
		i.cache.SetDefault(target, analysis)
	}
	return analysis, nil
}

// NormalizeURL trims input and requires an absolute http(s) URL.
// A bare host gets an https scheme.
func NormalizeURL(rawURL string) (string, error) {
	s := strings.TrimSpace(rawURL)
	if s == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidURL)
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	return u.String(), nil
}
