package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKDLConfig(t *testing.T) {
	input := `
server {
    addr ":8080"
    public-url "https://slides.example.com/"
    shutdown-timeout 20
}

browser {
    headless false
    navigation-timeout 45
    extract-timeout 12
}

llm {
    provider "anthropic"
    temperature 0.2
    mock true
}

google {
    batch-rate 2.5
}

cache {
    ttl 60
}

brand-overrides {
    "Example.com" {
        primary-color "#112233"
        brand-name "Example"
    }
}
`
	cfg, err := ParseKDLConfig(input)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "https://slides.example.com", cfg.Server.PublicURL)
	assert.Equal(t, 20*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout, "unset values keep defaults")

	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, 45*time.Second, cfg.Browser.NavigationTimeout)
	assert.Equal(t, 12*time.Second, cfg.Browser.ExtractTimeout)
	assert.Equal(t, 1920, cfg.Browser.ViewportWidth)

	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.InDelta(t, 0.2, cfg.LLM.Temperature, 1e-9)
	assert.True(t, cfg.LLM.Mock)

	assert.InDelta(t, 2.5, cfg.Google.BatchRate, 1e-9)
	assert.Equal(t, 5, cfg.Google.BatchBurst)
	assert.Equal(t, time.Minute, cfg.Cache.TTL)

	ov, ok := cfg.BrandOverrides["example.com"]
	require.True(t, ok)
	assert.Equal(t, "#112233", ov.PrimaryColor)
	assert.Equal(t, "Example", ov.BrandName)
}

func TestParseKDLConfig_EmptyKeepsDefaults(t *testing.T) {
	cfg, err := ParseKDLConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestConfig_Overrides(t *testing.T) {
	cfg := DefaultConfig()
	_, ok := cfg.Overrides().Lookup("unlock-your-song.de")
	assert.True(t, ok, "built-in overrides are always present")

	cfg.BrandOverrides["acme.io"] = cfg.Overrides()["unlock-your-song.de"]
	_, ok = cfg.Overrides().Lookup("www.acme.io")
	assert.True(t, ok)
}

func TestConfig_RedirectURL(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "http://localhost:3000/auth/callback", cfg.RedirectURL())

	cfg.Google.RedirectURI = "https://x.test/cb"
	assert.Equal(t, "https://x.test/cb", cfg.RedirectURL())
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"SLIDEGEN_ADDR":        ":9999",
		"SLIDEGEN_PUBLIC_URL":  "https://deck.test/",
		"GOOGLE_CLIENT_ID":     "cid",
		"GOOGLE_CLIENT_SECRET": "secret",
		"LLM_PROVIDER":         "openai",
		"LOG_LEVEL":            " debug ",
		"SLIDEGEN_MOCK_LLM":    "TRUE",
		"OTEL_SERVICE_NAME":    "slides-api",
	}
	cfg := DefaultConfig()
	ApplyEnv(cfg, func(k string) string { return env[k] })

	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, "https://deck.test", cfg.Server.PublicURL)
	assert.Equal(t, "cid", cfg.Google.ClientID)
	assert.Equal(t, "secret", cfg.Google.ClientSecret)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "slides-api", cfg.Log.Service)
	assert.True(t, cfg.LLM.Mock)
	assert.Equal(t, "templates.json", cfg.Templates.File, "unset variables leave values alone")
}

func TestWriteDefaultConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "slidegen.kdl")
	require.NoError(t, WriteDefaultConfig(path))

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)

	def := DefaultConfig()
	assert.Equal(t, def.Server, cfg.Server)
	assert.Equal(t, def.Browser, cfg.Browser)
	assert.Equal(t, def.Cache, cfg.Cache)
	assert.Contains(t, cfg.BrandOverrides, "unlock-your-song.de")
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("SLIDEGEN_ADDR", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":3000", cfg.Server.Addr, "no file means defaults")

	require.NoError(t, os.WriteFile(LocalConfigFile, []byte(`server { addr ":4000"; }`), 0644))
	require.NoError(t, os.WriteFile(".env", []byte("SLIDEGEN_TEMPLATES_FILE=from-dotenv.json\n"), 0644))
	t.Setenv("SLIDEGEN_TEMPLATES_FILE", "")
	require.NoError(t, os.Unsetenv("SLIDEGEN_TEMPLATES_FILE"))

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, ":4000", cfg.Server.Addr)
	assert.Equal(t, "from-dotenv.json", cfg.Templates.File)

	_, err = Load(filepath.Join(dir, "missing.kdl"))
	assert.Error(t, err, "an explicit path must exist")
}
