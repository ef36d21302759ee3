package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	ServerPort         int
	DatabasePath       string
	SessionSecret      string
	SessionMaxAge      time.Duration
	AppEnv             string // development / production
	LogLevel           string
	CORSAllowedOrigins []string
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load loads configuration from an optional config file and environment
// variables, falling back to defaults. Environment variables win.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path := v.GetString("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", 8080)
	v.SetDefault("DATABASE_PATH", "./daily-diet.db")
	v.SetDefault("SESSION_SECRET", "dev_secret_change_me")
	v.SetDefault("SESSION_MAX_AGE", "168h")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
}

func fromViper(v *viper.Viper) (*Config, error) {
	port, err := parsePort(v.GetString("PORT"))
	if err != nil {
		return nil, err
	}

	maxAge, err := time.ParseDuration(v.GetString("SESSION_MAX_AGE"))
	if err != nil {
		return nil, fmt.Errorf("parse SESSION_MAX_AGE: %w", err)
	}
	if maxAge <= 0 {
		return nil, fmt.Errorf("SESSION_MAX_AGE must be positive, got %s", maxAge)
	}

	secret := v.GetString("SESSION_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("SESSION_SECRET must not be empty")
	}

	return &Config{
		ServerPort:         port,
		DatabasePath:       v.GetString("DATABASE_PATH"),
		SessionSecret:      secret,
		SessionMaxAge:      maxAge,
		AppEnv:             strings.ToLower(v.GetString("APP_ENV")),
		LogLevel:           strings.ToLower(v.GetString("LOG_LEVEL")),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
	}, nil
}

func parsePort(s string) (int, error) {
	port, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("parse PORT %q: %w", s, err)
	}
	if port <= 0 || port > 65535 {
		return 0, fmt.Errorf("PORT out of range: %d", port)
	}
	return port, nil
}

// splitList turns a comma separated value into a trimmed slice.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
