package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	kdl "github.com/sblinch/kdl-go"

	"github.com/standardbeagle/slidegen/internal/branding"
)

// KDL configuration file names
const (
	LocalConfigFile  = "slidegen.kdl"
	GlobalConfigFile = "config.kdl"
)

// KDLConfig represents the KDL configuration structure.
type KDLConfig struct {
	Server    KDLServer                   `kdl:"server"`
	Browser   KDLBrowser                  `kdl:"browser"`
	Templates KDLTemplates                `kdl:"templates"`
	LLM       KDLLLM                      `kdl:"llm"`
	Google    KDLGoogle                   `kdl:"google"`
	Cache     KDLCache                    `kdl:"cache"`
	Log       KDLLog                      `kdl:"log"`
	Overrides map[string]*KDLBrandOverride `kdl:"brand-overrides"`
}

// KDLServer holds listener settings. Timeouts are in seconds.
type KDLServer struct {
	Addr            string `kdl:"addr"`
	PublicURL       string `kdl:"public-url"`
	ReadTimeout     int    `kdl:"read-timeout"`
	WriteTimeout    int    `kdl:"write-timeout"`
	ShutdownTimeout int    `kdl:"shutdown-timeout"`
}

// KDLBrowser holds headless browser settings.
type KDLBrowser struct {
	ExecPath          string `kdl:"exec-path"`
	Headless          bool   `kdl:"headless"`
	NavigationTimeout int    `kdl:"navigation-timeout"`
	ExtractTimeout    int    `kdl:"extract-timeout"`
	ViewportWidth     int    `kdl:"viewport-width"`
	ViewportHeight    int    `kdl:"viewport-height"`
}

type KDLTemplates struct {
	File string `kdl:"file"`
}

// KDLLLM holds outline generator settings.
type KDLLLM struct {
	Provider    string  `kdl:"provider"`
	Model       string  `kdl:"model"`
	Temperature float64 `kdl:"temperature"`
	MaxTokens   int     `kdl:"max-tokens"`
	Mock        bool    `kdl:"mock"`
}

// KDLGoogle holds OAuth and pacing settings.
type KDLGoogle struct {
	ClientID     string  `kdl:"client-id"`
	ClientSecret string  `kdl:"client-secret"`
	RedirectURI  string  `kdl:"redirect-uri"`
	Credentials  string  `kdl:"credentials"`
	BatchRate    float64 `kdl:"batch-rate"`
	BatchBurst   int     `kdl:"batch-burst"`
}

// KDLCache holds analysis cache settings in seconds.
type KDLCache struct {
	TTL     int `kdl:"ttl"`
	Cleanup int `kdl:"cleanup"`
}

type KDLLog struct {
	Level   string `kdl:"level"`
	Service string `kdl:"service"`
}

// KDLBrandOverride is a fixed branding profile for one domain.
type KDLBrandOverride struct {
	PrimaryColor   string `kdl:"primary-color"`
	SecondaryColor string `kdl:"secondary-color"`
	AccentColor    string `kdl:"accent-color"`
	FontFamily     string `kdl:"font-family"`
	BrandName      string `kdl:"brand-name"`
}

// Load reads .env, then the first config file found, then environment
// overrides. A missing config file yields the defaults.
func Load(explicitPath string) (*Config, error) {
	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}

	path := explicitPath
	if path == "" {
		path = FindConfigFile()
	}

	cfg := DefaultConfig()
	if path != "" {
		loaded, err := LoadConfigFile(path)
		if err != nil {
			if explicitPath == "" && errors.Is(err, os.ErrNotExist) {
				loaded = DefaultConfig()
			} else {
				return nil, fmt.Errorf("load config %s: %w", path, err)
			}
		}
		cfg = loaded
	}

	ApplyEnv(cfg, os.Getenv)
	return cfg, nil
}

// FindConfigFile returns ./slidegen.kdl if present, else the global config
// path if present, else "".
func FindConfigFile() string {
	if _, err := os.Stat(LocalConfigFile); err == nil {
		return LocalConfigFile
	}
	if p := GlobalConfigPath(); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// LoadConfigFile loads configuration from a specific file path.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseKDLConfig(string(data))
}

// ParseKDLConfig parses KDL configuration data over the defaults.
func ParseKDLConfig(data string) (*Config, error) {
	// Boolean nodes left out of the file keep these values.
	kdlCfg := KDLConfig{Browser: KDLBrowser{Headless: true}}
	if err := kdl.Unmarshal([]byte(data), &kdlCfg); err != nil {
		return nil, err
	}
	return kdlConfigToConfig(&kdlCfg), nil
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

func kdlConfigToConfig(k *KDLConfig) *Config {
	cfg := DefaultConfig()

	if k.Server.Addr != "" {
		cfg.Server.Addr = k.Server.Addr
	}
	if k.Server.PublicURL != "" {
		cfg.Server.PublicURL = strings.TrimSuffix(k.Server.PublicURL, "/")
	}
	if k.Server.ReadTimeout > 0 {
		cfg.Server.ReadTimeout = seconds(k.Server.ReadTimeout)
	}
	if k.Server.WriteTimeout > 0 {
		cfg.Server.WriteTimeout = seconds(k.Server.WriteTimeout)
	}
	if k.Server.ShutdownTimeout > 0 {
		cfg.Server.ShutdownTimeout = seconds(k.Server.ShutdownTimeout)
	}

	if k.Browser.ExecPath != "" {
		cfg.Browser.ExecPath = k.Browser.ExecPath
	}
	cfg.Browser.Headless = k.Browser.Headless
	if k.Browser.NavigationTimeout > 0 {
		cfg.Browser.NavigationTimeout = seconds(k.Browser.NavigationTimeout)
	}
	if k.Browser.ExtractTimeout > 0 {
		cfg.Browser.ExtractTimeout = seconds(k.Browser.ExtractTimeout)
	}
	if k.Browser.ViewportWidth > 0 && k.Browser.ViewportHeight > 0 {
		cfg.Browser.ViewportWidth = k.Browser.ViewportWidth
		cfg.Browser.ViewportHeight = k.Browser.ViewportHeight
	}

	if k.Templates.File != "" {
		cfg.Templates.File = k.Templates.File
	}

	if k.LLM.Provider != "" {
		cfg.LLM.Provider = k.LLM.Provider
	}
	if k.LLM.Model != "" {
		cfg.LLM.Model = k.LLM.Model
	}
	if k.LLM.Temperature > 0 {
		cfg.LLM.Temperature = k.LLM.Temperature
	}
	if k.LLM.MaxTokens > 0 {
		cfg.LLM.MaxTokens = k.LLM.MaxTokens
	}
	cfg.LLM.Mock = k.LLM.Mock

	if k.Google.ClientID != "" {
		cfg.Google.ClientID = k.Google.ClientID
	}
	if k.Google.ClientSecret != "" {
		cfg.Google.ClientSecret = k.Google.ClientSecret
	}
	if k.Google.RedirectURI != "" {
		cfg.Google.RedirectURI = k.Google.RedirectURI
	}
	if k.Google.Credentials != "" {
		cfg.Google.CredentialsFile = k.Google.Credentials
	}
	if k.Google.BatchRate > 0 {
		cfg.Google.BatchRate = k.Google.BatchRate
	}
	if k.Google.BatchBurst > 0 {
		cfg.Google.BatchBurst = k.Google.BatchBurst
	}

	if k.Cache.TTL > 0 {
		cfg.Cache.TTL = seconds(k.Cache.TTL)
	}
	if k.Cache.Cleanup > 0 {
		cfg.Cache.Cleanup = seconds(k.Cache.Cleanup)
	}

	if k.Log.Level != "" {
		cfg.Log.Level = k.Log.Level
	}
	if k.Log.Service != "" {
		cfg.Log.Service = k.Log.Service
	}

	for domain, ov := range k.Overrides {
		if ov == nil {
			continue
		}
		cfg.BrandOverrides[strings.ToLower(domain)] = branding.Override{
			PrimaryColor:   ov.PrimaryColor,
			SecondaryColor: ov.SecondaryColor,
			AccentColor:    ov.AccentColor,
			FontFamily:     ov.FontFamily,
			BrandName:      ov.BrandName,
		}
	}

	return cfg
}

// GlobalConfigPath returns the path to the global config file.
func GlobalConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "slidegen", GlobalConfigFile)
}

// WriteDefaultConfig writes a default config file with documentation.
func WriteDefaultConfig(path string) error {
	defaultKDL := `// slidegen configuration
// Secrets are better kept in .env (GOOGLE_CLIENT_SECRET, OPENAI_API_KEY, ...)

server {
    addr ":3000"
    public-url "http://localhost:3000"
    // Timeouts in seconds
    read-timeout 30
    write-timeout 300
    shutdown-timeout 10
}

browser {
    headless true
    // Page load budget in seconds, including network idle
    navigation-timeout 30
    extract-timeout 20
    viewport-width 1920
    viewport-height 1080
}

templates {
    file "templates.json"
}

llm {
    // openai, anthropic, anthropic-sdk, google, mistral, deepseek, openrouter, together
    // Empty picks the first provider with an API key
    provider ""
    temperature 0.7
    max-tokens 4096
    // Canned outlines, no model calls
    mock false
}

google {
    // Service account key used when no user is signed in
    // credentials "service-account.json"
    // API calls per second shared by all users
    batch-rate 5
    batch-burst 5
}

cache {
    // Site analysis cache in seconds
    ttl 600
    cleanup 1800
}

log {
    level "info"
}

// Fixed branding for known domains, checked before color heuristics
brand-overrides {
    "unlock-your-song.de" {
        primary-color "#f6cd6f"
        secondary-color "#7C3AED"
        accent-color "#00D9D9"
        font-family "Inter"
        brand-name "Unlock Your Song"
    }
}
`
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	return os.WriteFile(path, []byte(strings.TrimSpace(defaultKDL)+"\n"), 0644)
}
