// Package config loads toolrun settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	ai "github.com/spetersoncode/toolrun"
	"github.com/spetersoncode/toolrun/model"
	"github.com/spetersoncode/toolrun/provider/openai"
)

// Config holds the settings read from environment variables.
type Config struct {
	// Provider selection
	Provider ai.Provider
	Model    string

	// OpenAI / Azure
	OpenAIURL      string
	OpenAIKey      string
	OpenAIEndpoint string
	OpenAIVersion  string

	// Other providers
	AnthropicKey string
	GoogleKey    string

	// Sampling and retry
	Temperature         float64
	PresencePenalty     float64
	MaxCompletionTokens int64
	PromptTimeout       time.Duration
	Retry               int

	// Budget and diagnostics
	BillingCap float64
	// DebugDir is the root under which completion transcripts are written.
	// Empty disables recording.
	DebugDir   string

	// Rate limiting and metrics
	RateLimit   float64
	RateBurst   int
	MetricsAddr string

	// Logging
	LogLevel  string
	LogPretty bool
}

// DefaultBillingCap is the spend cap in dollars when LLM_BILLING_CAP is unset.
const DefaultBillingCap = 10.0

// Load reads a .env file if present, then the environment, and validates
// the result.
func Load() (*Config, error) {
	LoadEnvFile()

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnvFile loads .env from the working directory into the environment.
// Variables already set win. A missing file is not an error.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// FromEnv reads the environment without validating.
// OPENAI_API_MODEL defaults to the provider's default model, o1 for openai.
func FromEnv() *Config {
	provider := ai.Provider(getEnvOrDefault("TOOLRUN_PROVIDER", string(ai.ProviderOpenAI)))
	return &Config{
		Provider:            provider,
		Model:               getEnvOrDefault("OPENAI_API_MODEL", model.Default(provider).String()),
		OpenAIURL:           getEnvOrDefault("OPENAI_API_URL", openai.DefaultBaseURL),
		OpenAIKey:           os.Getenv("OPENAI_API_KEY"),
		OpenAIEndpoint:      os.Getenv("OPENAI_API_ENDPOINT"),
		OpenAIVersion:       getEnvOrDefault("OPENAI_API_VERSION", "2024-10-21"),
		AnthropicKey:        os.Getenv("ANTHROPIC_API_KEY"),
		GoogleKey:           os.Getenv("GOOGLE_API_KEY"),
		Temperature:         getEnvFloatOrDefault("LLM_TEMPERATURE", ai.DefaultTemperature),
		PresencePenalty:     getEnvFloatOrDefault("LLM_PRESENCE_PENALTY", ai.DefaultPresencePenalty),
		MaxCompletionTokens: int64(getEnvIntOrDefault("LLM_MAX_COMPLETION_TOKENS", ai.DefaultMaxCompletionTokens)),
		PromptTimeout:       time.Duration(getEnvIntOrDefault("LLM_PROMPT_TIMEOUT", int(ai.DefaultTimeout/time.Second))) * time.Second,
		Retry:               getEnvIntOrDefault("LLM_RETRY", ai.DefaultRetry),
		BillingCap:          getEnvFloatOrDefault("LLM_BILLING_CAP", DefaultBillingCap),
		DebugDir:            os.Getenv("LLM_DEBUG"),
		RateLimit:           getEnvFloatOrDefault("LLM_RATE_LIMIT", 0),
		RateBurst:           getEnvIntOrDefault("LLM_RATE_BURST", 1),
		MetricsAddr:         os.Getenv("METRICS_ADDR"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogPretty:           getEnvBoolOrDefault("LOG_PRETTY", false),
	}
}

// ChatModel resolves Model against the built-in pricing table. Unknown ids
// become a custom model of the configured provider with zero pricing and
// false.
func (c *Config) ChatModel() (model.ChatModel, bool) {
	if m, ok := model.Lookup(c.Model); ok {
		return m, true
	}
	return model.Custom(c.Model, c.Provider, model.ChatPricing{}), false
}

// Settings returns the request settings described by the config.
func (c *Config) Settings() ai.Settings {
	return ai.ApplyOptions(
		ai.WithTemperature(c.Temperature),
		ai.WithPresencePenalty(c.PresencePenalty),
		ai.WithMaxCompletionTokens(c.MaxCompletionTokens),
		ai.WithTimeout(c.PromptTimeout),
		ai.WithRetry(c.Retry),
	)
}

// Validate checks that required configuration is present and in range.
func (c *Config) Validate() error {
	var errs []error

	switch c.Provider {
	case ai.ProviderOpenAI:
		if c.OpenAIKey == "" {
			errs = append(errs, errors.New("OPENAI_API_KEY is required for openai provider"))
		}
	case ai.ProviderAnthropic:
		if c.AnthropicKey == "" {
			errs = append(errs, errors.New("ANTHROPIC_API_KEY is required for anthropic provider"))
		}
	case ai.ProviderGoogle:
		if c.GoogleKey == "" {
			errs = append(errs, errors.New("GOOGLE_API_KEY is required for google provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown provider: %s (must be openai, anthropic or google)", c.Provider))
	}

	if c.Model == "" {
		errs = append(errs, errors.New("OPENAI_API_MODEL must not be empty"))
	} else if m, ok := c.ChatModel(); ok && m.Provider() != c.Provider {
		errs = append(errs, fmt.Errorf("model %s is served by %s, not %s", m, m.Provider(), c.Provider))
	}
	if c.Retry < 1 {
		errs = append(errs, fmt.Errorf("LLM_RETRY must be at least 1, got %d", c.Retry))
	}
	if c.BillingCap <= 0 {
		errs = append(errs, fmt.Errorf("LLM_BILLING_CAP must be positive, got %g", c.BillingCap))
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		errs = append(errs, fmt.Errorf("LLM_TEMPERATURE must be between 0 and 2, got %g", c.Temperature))
	}
	if c.PromptTimeout < 0 {
		errs = append(errs, errors.New("LLM_PROMPT_TIMEOUT must not be negative"))
	}
	if c.RateLimit < 0 {
		errs = append(errs, errors.New("LLM_RATE_LIMIT must not be negative"))
	}

	return errors.Join(errs...)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
