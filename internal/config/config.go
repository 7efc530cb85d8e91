package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"quiz-seeder/internal/domain"
)

type Config struct {
	DB     DBConfig     `mapstructure:"db"`
	Logger LoggerConfig `mapstructure:"logger"`
	Redis  RedisConfig  `mapstructure:"redis"`
	LLM    LLMConfig    `mapstructure:"llm"`
	Seed   SeedConfig   `mapstructure:"seed"`
	Probe  ProbeConfig  `mapstructure:"probe"`
}

type LoggerConfig struct {
	Env   string `mapstructure:"env" validate:"omitempty,oneof=development production"`
	Level string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
}

type RedisConfig struct {
	Address     string        `mapstructure:"address"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db" validate:"gte=0"`
	ProgressTTL time.Duration `mapstructure:"progress_ttl" validate:"gte=0"`
}

// Enabled reports whether progress should be written to Redis.
func (r RedisConfig) Enabled() bool {
	return r.Address != ""
}

// DBConfig describes the Postgres question database.
// URL wins over the individual fields when set.
type DBConfig struct {
	URL          string        `mapstructure:"url"`
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port" validate:"gte=0,lt=65536"`
	User         string        `mapstructure:"user"`
	Password     string        `mapstructure:"password"`
	DBName       string        `mapstructure:"name"`
	SSLMode      string        `mapstructure:"sslmode" validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`
	QueryTimeout time.Duration `mapstructure:"query_timeout" validate:"gt=0"`
}

type LLMConfig struct {
	Provider        string        `mapstructure:"provider" validate:"required,oneof=openai gemini anthropic ollama"`
	Model           string        `mapstructure:"model"`
	Temperature     float64       `mapstructure:"temperature" validate:"gte=0,lte=2"`
	MaxTokens       int           `mapstructure:"max_tokens" validate:"gt=0"`
	Timeout         time.Duration `mapstructure:"timeout" validate:"gt=0"`
	BaseURL         string        `mapstructure:"base_url" validate:"omitempty,url"`
	OpenAIAPIKey    string        `mapstructure:"openai_api_key"`
	GeminiAPIKey    string        `mapstructure:"gemini_api_key"`
	AnthropicAPIKey string        `mapstructure:"anthropic_api_key"`
	OllamaServer    string        `mapstructure:"ollama_server"`
}

// APIKey returns the credential of the selected provider. Ollama needs none.
func (c LLMConfig) APIKey() string {
	switch c.Provider {
	case "openai":
		return c.OpenAIAPIKey
	case "gemini":
		return c.GeminiAPIKey
	case "anthropic":
		return c.AnthropicAPIKey
	default:
		return ""
	}
}

// RequireAPIKey fails when the selected provider needs a key and none is configured.
func (c LLMConfig) RequireAPIKey() error {
	if c.Provider == "ollama" || c.APIKey() != "" {
		return nil
	}
	return fmt.Errorf("%s API key is not set (set %s_API_KEY)", c.Provider, strings.ToUpper(c.Provider))
}

// SeedConfig holds the pacing and sizing options of the seeding pipeline.
type SeedConfig struct {
	ChunkSize         int           `mapstructure:"chunk_size" validate:"gt=0,lte=20"`
	BatchSize         int           `mapstructure:"batch_size" validate:"gt=0"`
	InterChunkDelay   time.Duration `mapstructure:"inter_chunk_delay" validate:"gte=0"`
	InterBatchDelay   time.Duration `mapstructure:"inter_batch_delay" validate:"gte=0"`
	RateLimitCooldown time.Duration `mapstructure:"rate_limit_cooldown" validate:"gte=0"`
	RetryLimit        int           `mapstructure:"retry_limit" validate:"gte=0"`
	Tiers             []TierSpec    `mapstructure:"tiers" validate:"required,min=1,dive"`
}

type TierSpec struct {
	Difficulty string `mapstructure:"difficulty" validate:"required,oneof=easy medium hard"`
	Count      int    `mapstructure:"count" validate:"gt=0"`
	Grade      int    `mapstructure:"grade" validate:"gt=0"`
	QuizID     string `mapstructure:"quiz_id" validate:"required,uuid"`
}

// TierConfigs converts the configured tiers into domain values, keeping only
// the difficulties listed in only (all of them when only is empty).
func (s SeedConfig) TierConfigs(only ...string) ([]domain.TierConfig, error) {
	wanted := make(map[domain.Difficulty]bool, len(only))
	for _, o := range only {
		d, err := domain.ParseDifficulty(o)
		if err != nil {
			return nil, err
		}
		wanted[d] = true
	}

	tiers := make([]domain.TierConfig, 0, len(s.Tiers))
	for _, spec := range s.Tiers {
		tier, err := domain.NewTierConfig(spec.Difficulty, spec.Count, spec.Grade, spec.QuizID)
		if err != nil {
			return nil, err
		}
		if len(wanted) > 0 && !wanted[tier.Difficulty] {
			continue
		}
		tiers = append(tiers, tier)
	}
	if len(tiers) == 0 {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("no configured tier matches %v", only))
	}
	return tiers, nil
}

type ProbeConfig struct {
	Models []string `mapstructure:"models" validate:"required,min=1,dive,required"`
	Prompt string   `mapstructure:"prompt" validate:"required"`
}

var defaultTiers = []map[string]any{
	{"difficulty": "easy", "count": 200, "grade": 6, "quiz_id": "550e8400-e29b-41d4-a716-446655440001"},
	{"difficulty": "medium", "count": 200, "grade": 8, "quiz_id": "550e8400-e29b-41d4-a716-446655440002"},
	{"difficulty": "hard", "count": 150, "grade": 10, "quiz_id": "550e8400-e29b-41d4-a716-446655440003"},
}

// DefaultProbeModels are tried in order by the connectivity probe.
var DefaultProbeModels = []string{
	"gemini-1.5-flash",
	"gemini-1.5-pro",
	"gemini-pro",
	"gemini-1.0-pro",
	"models/gemini-1.5-flash",
	"models/gemini-1.5-pro",
	"models/gemini-pro",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.name", "quiz")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.query_timeout", "30s")

	v.SetDefault("logger.env", "development")
	v.SetDefault("logger.level", "info")

	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.progress_ttl", "168h")

	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.temperature", 0.9)
	v.SetDefault("llm.max_tokens", 4000)
	v.SetDefault("llm.timeout", "60s")
	v.SetDefault("llm.ollama_server", "http://localhost:11434")

	v.SetDefault("seed.chunk_size", 20)
	v.SetDefault("seed.batch_size", 20)
	v.SetDefault("seed.inter_chunk_delay", "1s")
	v.SetDefault("seed.inter_batch_delay", "2s")
	v.SetDefault("seed.rate_limit_cooldown", "10s")
	v.SetDefault("seed.retry_limit", 1)
	v.SetDefault("seed.tiers", defaultTiers)

	v.SetDefault("probe.models", DefaultProbeModels)
	v.SetDefault("probe.prompt", `Say "Hello"`)
}

// legacyEnv maps keys onto the unprefixed variable names operators already export.
var legacyEnv = map[string]string{
	"llm.openai_api_key":    "OPENAI_API_KEY",
	"llm.gemini_api_key":    "GEMINI_API_KEY",
	"llm.anthropic_api_key": "ANTHROPIC_API_KEY",
	"db.url":                "DATABASE_URL",
	"redis.address":         "REDIS_ADDRESS",
}

// LoadConfig reads configuration from configFile (or config.yaml in the usual
// search paths when empty), then applies APP_* and legacy environment overrides.
// A missing config file is not an error.
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, legacy := range legacyEnv {
		envVar := "APP_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, envVar, legacy); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable %s: %w", legacy, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks struct tags.
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

// GetDSN returns a pgx-compatible connection URL.
func (c *Config) GetDSN() string {
	if c.DB.URL != "" {
		return c.DB.URL
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.DB.User, c.DB.Password),
		Host:   fmt.Sprintf("%s:%d", c.DB.Host, c.DB.Port),
		Path:   "/" + c.DB.DBName,
	}
	if c.DB.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {c.DB.SSLMode}}.Encode()
	}
	return u.String()
}
