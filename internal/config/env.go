package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment.
// Variables already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays environment variables on cfg. getenv is os.Getenv in
// production.
func ApplyEnv(cfg *Config, getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}

	set(&cfg.Server.Addr, "SLIDEGEN_ADDR")
	set(&cfg.Server.PublicURL, "SLIDEGEN_PUBLIC_URL")
	set(&cfg.Templates.File, "SLIDEGEN_TEMPLATES_FILE")
	set(&cfg.Browser.ExecPath, "CHROME_PATH")
	set(&cfg.Google.ClientID, "GOOGLE_CLIENT_ID")
	set(&cfg.Google.ClientSecret, "GOOGLE_CLIENT_SECRET")
	set(&cfg.Google.RedirectURI, "GOOGLE_REDIRECT_URI")
	set(&cfg.Google.CredentialsFile, "GOOGLE_APPLICATION_CREDENTIALS")
	set(&cfg.LLM.Provider, "LLM_PROVIDER")
	set(&cfg.LLM.Model, "LLM_MODEL")
	set(&cfg.Log.Level, "LOG_LEVEL")
	set(&cfg.Log.Service, "OTEL_SERVICE_NAME")

	switch strings.ToLower(getenv("SLIDEGEN_MOCK_LLM")) {
	case "1", "true", "yes":
		cfg.LLM.Mock = true
	}
	cfg.Server.PublicURL = strings.TrimSuffix(cfg.Server.PublicURL, "/")
}
