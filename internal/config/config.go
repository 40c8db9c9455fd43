// Package config loads the application configuration from file, environment and defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. CAREERGPS_SERVER_PORT.
const EnvPrefix = "CAREERGPS"

// Config is the full application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Export    ExportConfig    `mapstructure:"export"`
	Log       LogConfig       `mapstructure:"log"`
	Branding  BrandingConfig  `mapstructure:"branding"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// ServerConfig configures the HTTP server and browser sessions.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// SessionSecret signs session cookies. Empty means a per-process secret.
	SessionSecret string        `mapstructure:"session_secret"`
	SessionTTL    time.Duration `mapstructure:"session_ttl"`
	// SecureCookies marks the session cookie Secure. Enable behind TLS.
	SecureCookies bool   `mapstructure:"secure_cookies"`
	AllowedOrigin string `mapstructure:"allowed_origin"`
}

// LLMConfig configures the generative model.
type LLMConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	Temperature float32       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// ExportConfig configures PDF export.
type ExportConfig struct {
	ChromePath    string        `mapstructure:"chrome_path"`
	SettleDelay   time.Duration `mapstructure:"settle_delay"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxConcurrent int64         `mapstructure:"max_concurrent"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// BrandingConfig holds the strings printed in the header and page footers.
type BrandingConfig struct {
	ProductName string `mapstructure:"product_name"`
	Author      string `mapstructure:"author"`
	AuthorURL   string `mapstructure:"author_url"`
}

// RateLimitConfig configures per-client request limits. Report generation has its
// own, stricter bucket because every request costs a model call.
type RateLimitConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	DefaultLimit    int           `mapstructure:"default_limit"`
	DefaultWindow   time.Duration `mapstructure:"default_window"`
	ReportLimit     int           `mapstructure:"report_limit"`
	ReportWindow    time.Duration `mapstructure:"report_window"`
	ReportBurst     int           `mapstructure:"report_burst"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	Whitelist       []string      `mapstructure:"whitelist"`
	Blacklist       []string      `mapstructure:"blacklist"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 3*time.Minute)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)
	v.SetDefault("server.session_secret", "")
	v.SetDefault("server.session_ttl", 2*time.Hour)
	v.SetDefault("server.secure_cookies", false)
	v.SetDefault("server.allowed_origin", "*")

	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "gemini-3-flash-preview")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.timeout", 2*time.Minute)

	v.SetDefault("export.chrome_path", "")
	v.SetDefault("export.settle_delay", 800*time.Millisecond)
	v.SetDefault("export.timeout", time.Minute)
	v.SetDefault("export.max_concurrent", 2)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("branding.product_name", "Career GPS")
	v.SetDefault("branding.author", "Ritik")
	v.SetDefault("branding.author_url", "https://www.linkedin.com/in/yadavritik")

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.default_limit", 600)
	v.SetDefault("rate_limit.default_window", time.Minute)
	v.SetDefault("rate_limit.report_limit", 20)
	v.SetDefault("rate_limit.report_window", time.Hour)
	v.SetDefault("rate_limit.report_burst", 3)
	v.SetDefault("rate_limit.cleanup_interval", 5*time.Minute)
	v.SetDefault("rate_limit.whitelist", []string{})
	v.SetDefault("rate_limit.blacklist", []string{})
}

// Default returns the configuration with no file or environment applied.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults always decode.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// Load reads configuration from path (optional, JSON or YAML by extension), then
// CAREERGPS_* environment variables. GEMINI_API_KEY is accepted for the API key.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("llm.api_key", EnvPrefix+"_LLM_API_KEY", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind api key env: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Validate checks that the configuration has valid values. The API key is checked
// separately by commands that call the model.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("config error: 'server.port' must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Server.SessionTTL < time.Minute {
		errs = append(errs, fmt.Errorf("config error: 'server.session_ttl' must be at least 1m"))
	}
	if c.LLM.Model == "" {
		errs = append(errs, fmt.Errorf("config error: 'llm.model' is required"))
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errs = append(errs, fmt.Errorf("config error: 'llm.temperature' must be within 0-2"))
	}
	if c.LLM.Timeout < 0 {
		errs = append(errs, fmt.Errorf("config error: 'llm.timeout' must be non-negative"))
	}
	if c.Export.SettleDelay < 0 {
		errs = append(errs, fmt.Errorf("config error: 'export.settle_delay' must be non-negative"))
	}
	if c.Export.MaxConcurrent < 1 {
		errs = append(errs, fmt.Errorf("config error: 'export.max_concurrent' must be at least 1"))
	}
	if c.RateLimit.Enabled {
		if c.RateLimit.DefaultLimit < 1 || c.RateLimit.DefaultWindow <= 0 {
			errs = append(errs, fmt.Errorf("config error: 'rate_limit.default_limit' and 'rate_limit.default_window' must be positive"))
		}
		if c.RateLimit.ReportLimit < 1 || c.RateLimit.ReportWindow <= 0 {
			errs = append(errs, fmt.Errorf("config error: 'rate_limit.report_limit' and 'rate_limit.report_window' must be positive"))
		}
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("config error: 'log.format' must be json or console, got %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// RequireAPIKey returns an error when no model API key is configured.
func (c *Config) RequireAPIKey() error {
	if strings.TrimSpace(c.LLM.APIKey) == "" {
		return fmt.Errorf("API key is required: set GEMINI_API_KEY or %s_LLM_API_KEY", EnvPrefix)
	}
	return nil
}
