// Package config contains configuration types for slidegen.
package config

import (
	"time"

	"github.com/standardbeagle/slidegen/internal/branding"
)

// Config holds the complete server configuration.
type Config struct {
	Server    ServerConfig    `json:"server"`
	Browser   BrowserConfig   `json:"browser"`
	Templates TemplatesConfig `json:"templates"`
	LLM       LLMConfig       `json:"llm"`
	Google    GoogleConfig    `json:"google"`
	Cache     CacheConfig     `json:"cache"`
	Log       LogConfig       `json:"log"`

	// BrandOverrides are merged over branding.DefaultOverrides.
	BrandOverrides branding.Overrides `json:"brand_overrides,omitempty"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr            string        `json:"addr"`
	ReadTimeout     time.Duration `json:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
	// PublicURL is where the browser reaches the server; used for OAuth redirects.
	PublicURL string `json:"public_url"`
}

// BrowserConfig configures the headless Chrome session.
type BrowserConfig struct {
	ExecPath          string        `json:"exec_path,omitempty"`
	Headless          bool          `json:"headless"`
	NavigationTimeout time.Duration `json:"navigation_timeout"`
	ExtractTimeout    time.Duration `json:"extract_timeout"`
	ViewportWidth     int           `json:"viewport_width"`
	ViewportHeight    int           `json:"viewport_height"`
}

// TemplatesConfig locates the template registry file.
type TemplatesConfig struct {
	File string `json:"file"`
}

// LLMConfig selects the outline generator.
type LLMConfig struct {
	// Provider is a langchaingo provider name, or "anthropic-sdk" for the native client.
	Provider    string  `json:"provider"`
	Model       string  `json:"model,omitempty"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
	// Mock forces the canned outline generator.
	Mock bool `json:"mock"`
}

// GoogleConfig holds OAuth client settings and API pacing.
type GoogleConfig struct {
	ClientID     string `json:"client_id,omitempty"`
	ClientSecret string `json:"-"`
	RedirectURI  string `json:"redirect_uri,omitempty"`
	// CredentialsFile is a service account key used when a request carries no
	// OAuth cookies.
	CredentialsFile string `json:"credentials_file,omitempty"`
	// BatchRate is API calls per second across all users; 0 disables pacing.
	BatchRate  float64 `json:"batch_rate"`
	BatchBurst int     `json:"batch_burst"`
}

// CacheConfig configures the site analysis cache.
type CacheConfig struct {
	TTL     time.Duration `json:"ttl"`
	Cleanup time.Duration `json:"cleanup"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level   string `json:"level"`
	Service string `json:"service"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":3000",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    5 * time.Minute,
			ShutdownTimeout: 10 * time.Second,
			PublicURL:       "http://localhost:3000",
		},
		Browser: BrowserConfig{
			Headless:          true,
			NavigationTimeout: 30 * time.Second,
			ExtractTimeout:    20 * time.Second,
			ViewportWidth:     1920,
			ViewportHeight:    1080,
		},
		Templates: TemplatesConfig{
			File: "templates.json",
		},
		LLM: LLMConfig{
			Provider:    "",
			Temperature: 0.7,
			MaxTokens:   4096,
		},
		Google: GoogleConfig{
			BatchRate:  5,
			BatchBurst: 5,
		},
		Cache: CacheConfig{
			TTL:     10 * time.Minute,
			Cleanup: 30 * time.Minute,
		},
		Log: LogConfig{
			Level:   "info",
			Service: "slidegen",
		},
		BrandOverrides: branding.Overrides{},
	}
}

// Overrides returns the built-in brand overrides with configured entries on top.
func (c *Config) Overrides() branding.Overrides {
	out := branding.DefaultOverrides()
	for domain, ov := range c.BrandOverrides {
		out[domain] = ov
	}
	return out
}

// RedirectURL returns the OAuth callback URL.
func (c *Config) RedirectURL() string {
	if c.Google.RedirectURI != "" {
		return c.Google.RedirectURI
	}
	return c.Server.PublicURL + "/auth/callback"
}
