package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string   `mapstructure:"PORT"`
	Env         string   `mapstructure:"ENV"`
	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`

	MaxUploadMB      int      `mapstructure:"MAX_UPLOAD_MB"`
	AllowedMIMETypes []string `mapstructure:"ALLOWED_MIME_TYPES"`
	ViewerURL        string   `mapstructure:"VIEWER_URL"`

	ResultLabel       string `mapstructure:"RESULT_LABEL"`
	RequirementsLabel string `mapstructure:"REQUIREMENTS_LABEL"`

	CacheBackend string `mapstructure:"CACHE_BACKEND"`
	CacheDir     string `mapstructure:"CACHE_DIR"`
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DBMaxConns   int32  `mapstructure:"DB_MAX_CONNS"`
	DBMinConns   int32  `mapstructure:"DB_MIN_CONNS"`

	AuthMode   string `mapstructure:"AUTH_MODE"`
	AuthSecret string `mapstructure:"AUTH_SECRET"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("MAX_UPLOAD_MB", 10)
	v.SetDefault("ALLOWED_MIME_TYPES",
		"application/pdf,application/vnd.openxmlformats-officedocument.wordprocessingml.document,application/msword")
	v.SetDefault("VIEWER_URL", "https://docs.google.com/viewer?url=")
	v.SetDefault("RESULT_LABEL", "Medical result")
	v.SetDefault("REQUIREMENTS_LABEL", "Requirements")
	v.SetDefault("CACHE_BACKEND", "memory")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("AUTH_MODE", "") // auto-detect: "" -> inferred from ENV

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("MAX_UPLOAD_MB")
	v.BindEnv("ALLOWED_MIME_TYPES")
	v.BindEnv("VIEWER_URL")
	v.BindEnv("RESULT_LABEL")
	v.BindEnv("REQUIREMENTS_LABEL")
	v.BindEnv("CACHE_BACKEND")
	v.BindEnv("CACHE_DIR")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("AUTH_MODE")
	v.BindEnv("AUTH_SECRET")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		if origins := v.GetString("CORS_ORIGINS"); origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}
	if cfg.AllowedMIMETypes == nil {
		if types := v.GetString("ALLOWED_MIME_TYPES"); types != "" {
			cfg.AllowedMIMETypes = strings.Split(types, ",")
		}
	}

	return cfg, nil
}

func (c *Config) IsDev() bool { return c.Env == "development" }

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool { return c.Env == "production" }

// ResolvedAuthMode returns the effective auth mode. If AUTH_MODE is explicitly
// set, it is returned. Otherwise, the mode is inferred:
//   - ENV=development → "development" (no auth, all requests get admin)
//   - AUTH_SECRET set → "token" (HS256 bearer tokens)
//   - Otherwise       → "none"
func (c *Config) ResolvedAuthMode() string {
	if c.AuthMode != "" {
		return c.AuthMode
	}
	if c.IsDev() {
		return "development"
	}
	if c.AuthSecret != "" {
		return "token"
	}
	return "none"
}

// Validate checks that the configuration is safe to run.
func (c *Config) Validate() error {
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive, got %d", c.MaxUploadMB)
	}
	if len(c.AllowedMIMETypes) == 0 {
		return fmt.Errorf("ALLOWED_MIME_TYPES must list at least one type")
	}

	switch c.CacheBackend {
	case "memory":
	case "file":
		if c.CacheDir == "" {
			return fmt.Errorf("CACHE_DIR is required when CACHE_BACKEND is \"file\"")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when CACHE_BACKEND is \"postgres\"")
		}
	default:
		return fmt.Errorf("CACHE_BACKEND must be \"memory\", \"file\", or \"postgres\", got %q", c.CacheBackend)
	}

	mode := c.ResolvedAuthMode()
	switch mode {
	case "development", "none":
	case "token":
		if c.AuthSecret == "" {
			return fmt.Errorf("AUTH_SECRET is required when AUTH_MODE is \"token\"")
		}
	default:
		return fmt.Errorf("AUTH_MODE must be \"development\", \"token\", or \"none\", got %q", mode)
	}
	if c.IsProduction() && mode != "token" {
		return fmt.Errorf("production requires AUTH_MODE=token and a configured AUTH_SECRET (got mode %q)", mode)
	}

	return nil
}
