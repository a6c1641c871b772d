// Package config loads the job matcher configuration from an optional YAML
// file, JOBMATCH_* environment variables and a .env file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/jonathan/job-matcher/internal/llm"
)

// EnvPrefix is prepended to every environment override, e.g. JOBMATCH_SERVER_ADDR.
const EnvPrefix = "JOBMATCH"

// DefaultConfigName is looked up in the working directory when no file is given.
const DefaultConfigName = "job-matcher"

// sqliteScheme marks a database URL that selects the embedded store.
const sqliteScheme = "sqlite://"

// Config is the full application configuration.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth"`
	AI        AIConfig        `mapstructure:"ai"`
	Matching  MatchingConfig  `mapstructure:"matching"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// LogConfig selects the zap encoder and level.
type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// DatabaseConfig addresses the store. A postgres:// URL uses PostgreSQL,
// sqlite://path the embedded SQLite store.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr" validate:"required"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gte=0"`
}

// AuthConfig configures bearer token signing.
type AuthConfig struct {
	JWTSecret       string `mapstructure:"jwt_secret"`
	JWTSecretFile   string `mapstructure:"jwt_secret_file"`
	ExpirationHours int    `mapstructure:"expiration_hours" validate:"min=1"`
}

// AIConfig configures the external analysis provider.
type AIConfig struct {
	Provider        string        `mapstructure:"provider" validate:"oneof=none gemini vertex"`
	APIKey          string        `mapstructure:"api_key"`
	APIKeyFile      string        `mapstructure:"api_key_file"`
	Project         string        `mapstructure:"project"`
	Location        string        `mapstructure:"location"`
	LiteModel       string        `mapstructure:"lite_model"`
	StandardModel   string        `mapstructure:"standard_model"`
	Temperature     float32       `mapstructure:"temperature" validate:"gte=0,lte=2"`
	MaxOutputTokens int32         `mapstructure:"max_output_tokens" validate:"min=1"`
	SafetyThreshold string        `mapstructure:"safety_threshold" validate:"omitempty,oneof=block_none block_only_high block_medium_and_above block_low_and_above"`
	Timeout         time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

// MatchingConfig tunes the matching engine.
type MatchingConfig struct {
	LegacyStackFloor bool   `mapstructure:"legacy_stack_floor"`
	CatalogFile      string `mapstructure:"catalog_file"`
	Workers          int    `mapstructure:"workers" validate:"min=1,max=64"`
}

// RateLimitConfig configures per-client request limiting on the API.
type RateLimitConfig struct {
	Enabled                 bool          `mapstructure:"enabled"`
	RequestsPerMinute       int           `mapstructure:"requests_per_minute" validate:"min=1"`
	StrictRequestsPerMinute int           `mapstructure:"strict_requests_per_minute" validate:"min=1"`
	Burst                   int           `mapstructure:"burst" validate:"min=1"`
	CleanupInterval         time.Duration `mapstructure:"cleanup_interval" validate:"gte=0"`
	Whitelist               []string      `mapstructure:"whitelist"`
	Blacklist               []string      `mapstructure:"blacklist"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log.json", false)
	v.SetDefault("log.debug", false)

	v.SetDefault("database.url", "")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 5*time.Minute)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)

	v.SetDefault("auth.jwt_secret_file", "")
	v.SetDefault("auth.expiration_hours", 24)

	v.SetDefault("ai.provider", string(llm.ProviderGemini))
	v.SetDefault("ai.api_key_file", "")
	v.SetDefault("ai.location", "us-central1")
	v.SetDefault("ai.lite_model", "")
	v.SetDefault("ai.standard_model", "")
	v.SetDefault("ai.temperature", llm.DefaultTemperature)
	v.SetDefault("ai.max_output_tokens", llm.DefaultMaxOutputTokens)
	v.SetDefault("ai.safety_threshold", string(llm.SafetyBlockMediumAndAbove))
	v.SetDefault("ai.timeout", llm.DefaultRequestTimeout)

	v.SetDefault("matching.legacy_stack_floor", true)
	v.SetDefault("matching.catalog_file", "")
	v.SetDefault("matching.workers", 4)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_minute", 120)
	v.SetDefault("rate_limit.strict_requests_per_minute", 10)
	v.SetDefault("rate_limit.burst", 20)
	v.SetDefault("rate_limit.cleanup_interval", 5*time.Minute)
}

// BindEnv wires JOBMATCH_* overrides plus the conventional unprefixed
// variables for credentials.
func BindEnv(v *viper.Viper) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	bindings := map[string][]string{
		"database.url":    {EnvPrefix + "_DATABASE_URL", "DATABASE_URL"},
		"ai.api_key":      {EnvPrefix + "_AI_API_KEY", "GEMINI_API_KEY"},
		"ai.project":      {EnvPrefix + "_AI_PROJECT", "GOOGLE_CLOUD_PROJECT"},
		"auth.jwt_secret": {EnvPrefix + "_AUTH_JWT_SECRET", "JWT_SECRET"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return fmt.Errorf("binding %s: %w", key, err)
		}
	}
	return nil
}

// Load reads configuration for the CLI and server. An empty path searches
// the working directory for job-matcher.yaml and tolerates its absence.
func Load(path string) (*Config, error) {
	// .env is optional; variables already set win.
	_ = godotenv.Load()

	v := viper.New()
	SetDefaults(v)
	if err := BindEnv(v); err != nil {
		return nil, err
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	return FromViper(v)
}

// FromViper decodes, resolves secrets and validates a prepared viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.resolveSecrets(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) resolveSecrets() error {
	key, err := LoadSecret(Secret{Name: "ai api key", Value: c.AI.APIKey, File: c.AI.APIKeyFile})
	if err != nil && !errors.Is(err, ErrSecretNotConfigured) {
		return err
	}
	c.AI.APIKey = key

	secret, err := LoadSecret(Secret{Name: "jwt secret", Value: c.Auth.JWTSecret, File: c.Auth.JWTSecretFile})
	if err != nil && !errors.Is(err, ErrSecretNotConfigured) {
		return err
	}
	c.Auth.JWTSecret = secret
	return nil
}

var validate = validator.New()

// Validate checks field constraints and reports every violation at once.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// UsesSQLite reports whether the database URL selects the embedded store.
func (d DatabaseConfig) UsesSQLite() bool {
	return strings.HasPrefix(d.URL, sqliteScheme)
}

// SQLitePath returns the file path of a sqlite:// URL.
func (d DatabaseConfig) SQLitePath() string {
	return strings.TrimPrefix(d.URL, sqliteScheme)
}

// LLMConfig converts the AI section to the client configuration.
func (a AIConfig) LLMConfig() *llm.Config {
	var cfg *llm.Config
	switch llm.Provider(a.Provider) {
	case llm.ProviderVertex:
		cfg = llm.DefaultVertexConfig(a.Project, a.Location)
	default:
		cfg = llm.DefaultGeminiConfig()
		cfg.Provider = llm.Provider(a.Provider)
		cfg.APIKey = a.APIKey
	}
	if a.LiteModel != "" {
		cfg = cfg.WithModel(llm.TierLite, a.LiteModel)
	}
	if a.StandardModel != "" {
		cfg = cfg.WithModel(llm.TierStandard, a.StandardModel)
	}
	cfg.Temperature = a.Temperature
	cfg.MaxOutputTokens = a.MaxOutputTokens
	if a.SafetyThreshold != "" {
		cfg.SafetyThreshold = llm.SafetyThreshold(a.SafetyThreshold)
	}
	cfg.RequestTimeout = a.Timeout
	return cfg
}

// JWT returns the token configuration, failing when no secret is set.
func (a AuthConfig) JWT() (*JWTConfig, error) {
	cfg := &JWTConfig{Secret: a.JWTSecret, ExpirationHours: a.ExpirationHours}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}
