package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// defaultTokenLifetimeMinutes is 7 days, matching the session cookie expiry.
const defaultTokenLifetimeMinutes = 7 * 24 * 60

// Load reads configuration from environment variables and returns a
// validated Config. Environment variables use the flat names the
// service has always been deployed with (PORT, DATABASE_URL,
// JWT_SECRET, ...). Returns an error if required settings are missing
// or invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 5000)
	v.SetDefault("server.api_prefix", "/api")
	v.SetDefault("server.log_level", "info")
	v.SetDefault("auth.token_lifetime_minutes", defaultTokenLifetimeMinutes)
	v.SetDefault("auth.cookie_secure", false)

	bindings := map[string]string{
		"server.port":                 "PORT",
		"server.api_prefix":           "API_PREFIX",
		"server.log_level":            "LOG_LEVEL",
		"database.url":                "DATABASE_URL",
		"auth.jwt_secret":             "JWT_SECRET",
		"auth.token_lifetime_minutes": "TOKEN_LIFETIME_MINUTES",
		"auth.cookie_secure":          "COOKIE_SECURE",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
