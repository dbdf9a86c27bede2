package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration, loaded from config.yaml and/or
// environment variables (env wins).
type Config struct {
	Environment string
	ServerPort  string

	// DatabaseType selects the dialect: sqlite (default), postgres, mysql.
	DatabaseType   string
	DatabaseURL    string
	DatabasePath   string
	MigrationsPath string

	SessionDuration time.Duration
	CSRFSecret      string

	// Invitation email via Amazon SES. Leaving SESFromEmail empty disables
	// email sending.
	AWSRegion    string
	SESFromEmail string
	SESFromName  string
	AppBaseURL   string

	GoogleClientID     string
	GoogleClientSecret string
}

// SessionMaxAgeDays is the fixed session lifetime.
const SessionMaxAgeDays = 7

// Load reads configuration using viper. A missing config file is not an
// error; environment variables alone are enough to run.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("environment", "development")
	v.SetDefault("port", "8080")
	v.SetDefault("database_type", "sqlite")
	v.SetDefault("db_path", "./babytrack.db")
	v.SetDefault("migrations_path", "./migrations")
	v.SetDefault("session_duration", SessionMaxAgeDays*24*time.Hour)
	v.SetDefault("csrf_secret", "")
	v.SetDefault("aws_region", "us-east-1")
	v.SetDefault("ses_from_name", "Babytrack")
	v.SetDefault("app_base_url", "http://localhost:8080")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		Environment:        v.GetString("environment"),
		ServerPort:         v.GetString("port"),
		DatabaseType:       v.GetString("database_type"),
		DatabaseURL:        v.GetString("database_url"),
		DatabasePath:       v.GetString("db_path"),
		MigrationsPath:     v.GetString("migrations_path"),
		SessionDuration:    v.GetDuration("session_duration"),
		CSRFSecret:         v.GetString("csrf_secret"),
		AWSRegion:          v.GetString("aws_region"),
		SESFromEmail:       v.GetString("ses_from_email"),
		SESFromName:        v.GetString("ses_from_name"),
		AppBaseURL:         v.GetString("app_base_url"),
		GoogleClientID:     v.GetString("google_client_id"),
		GoogleClientSecret: v.GetString("google_client_secret"),
	}

	if cfg.CSRFSecret == "" && cfg.Environment == "production" {
		return nil, fmt.Errorf("CSRF_SECRET must be set in production")
	}

	return cfg, nil
}
