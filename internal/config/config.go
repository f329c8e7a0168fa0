package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds the client settings shared by every trackctl command.
type Config struct {
	// BaseURL is the root of the YYC Track REST API, including the /api prefix.
	BaseURL string

	// CredentialDB is the path of the SQLite database holding bearer token slots.
	CredentialDB string

	// HTTPTimeout bounds every request to the API.
	HTTPTimeout time.Duration
}

// Default returns the built-in configuration used when no config file or
// environment overrides are present.
func Default() Config {
	return Config{
		BaseURL:      "http://localhost:5000/api",
		CredentialDB: defaultCredentialDB(),
		HTTPTimeout:  15 * time.Second,
	}
}

func defaultCredentialDB() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "trackctl-credentials.db"
	}
	return filepath.Join(home, ".trackctl", "credentials.db")
}

// Load reads config.yaml from configPath (if present) and applies environment
// overrides (TRACKCTL_BASE_URL, TRACKCTL_CREDENTIAL_DB, TRACKCTL_HTTP_TIMEOUT)
// on top of the defaults. A missing config file is not an error.
func Load(configPath string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.AddConfigPath(".")
	v.AutomaticEnv()
	v.SetEnvPrefix("TRACKCTL")

	v.BindEnv("base_url")
	v.BindEnv("credential_db")
	v.BindEnv("http_timeout")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, err
		}
	}

	if v.IsSet("base_url") {
		cfg.BaseURL = v.GetString("base_url")
	}
	if v.IsSet("credential_db") {
		cfg.CredentialDB = v.GetString("credential_db")
	}
	if v.IsSet("http_timeout") {
		cfg.HTTPTimeout = v.GetDuration("http_timeout")
	}

	return cfg, nil
}
