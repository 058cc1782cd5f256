package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Provider names accepted by Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config holds all LLM provider configuration.
type Config struct {
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds a single generation including retries.
	Timeout time.Duration
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey  string
	Model   string
	BaseURL string // optional, for proxies and gateways
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string // optional, for OpenAI-compatible endpoints
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderAnthropic,
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.0-flash-001"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 60 * time.Second,
	}
}

// envBinding copies one environment variable into a config field.
type envBinding struct {
	name   string
	target *string
}

func (c *Config) envBindings() []envBinding {
	return []envBinding{
		{"QCM_LLM_PROVIDER", &c.Provider},
		{"QCM_ANTHROPIC_API_KEY", &c.Anthropic.APIKey},
		{"QCM_ANTHROPIC_MODEL", &c.Anthropic.Model},
		{"QCM_ANTHROPIC_BASE_URL", &c.Anthropic.BaseURL},
		{"QCM_OPENAI_API_KEY", &c.OpenAI.APIKey},
		{"QCM_OPENAI_MODEL", &c.OpenAI.Model},
		{"QCM_OPENAI_BASE_URL", &c.OpenAI.BaseURL},
		{"QCM_GEMINI_API_KEY", &c.Gemini.APIKey},
		{"QCM_GEMINI_MODEL", &c.Gemini.Model},
		{"QCM_OPENROUTER_API_KEY", &c.OpenRouter.APIKey},
		{"QCM_OPENROUTER_MODEL", &c.OpenRouter.Model},
		{"QCM_OPENROUTER_BASE_URL", &c.OpenRouter.BaseURL},
	}
}

// ConfigFromEnv builds a Config from QCM_* environment variables, falling
// back to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	for _, b := range cfg.envBindings() {
		if v := os.Getenv(b.name); v != "" {
			*b.target = v
		}
	}
	return cfg
}

// discoveryOrder lists the vendor API key variables probed by DiscoverConfig.
var discoveryOrder = []struct {
	env      string
	provider string
}{
	{"GEMINI_API_KEY", ProviderGemini},
	{"OPENAI_API_KEY", ProviderOpenAI},
	{"ANTHROPIC_API_KEY", ProviderAnthropic},
	{"OPENROUTER_API_KEY", ProviderOpenRouter},
}

// DiscoverConfig probes the vendors' standard API key variables and returns
// a Config for the first provider whose key is set.
func DiscoverConfig() (Config, bool) {
	for _, d := range discoveryOrder {
		key := os.Getenv(d.env)
		if key == "" {
			continue
		}
		cfg := DefaultConfig()
		cfg.Provider = d.provider
		*cfg.apiKey() = key
		return cfg, true
	}
	return Config{}, false
}

// Resolve returns the QCM_* configuration when it names a usable provider,
// otherwise whatever DiscoverConfig finds.
func Resolve() (Config, error) {
	cfg := ConfigFromEnv()
	err := cfg.Validate()
	if err == nil {
		return cfg, nil
	}
	if os.Getenv("QCM_LLM_PROVIDER") != "" {
		return Config{}, err
	}
	if found, ok := DiscoverConfig(); ok {
		return found, nil
	}
	return Config{}, fmt.Errorf("no LLM provider configured: set QCM_LLM_PROVIDER and its API key, or one of GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY, OPENROUTER_API_KEY")
}

// apiKey points at the key field of the selected provider, or nil.
func (c *Config) apiKey() *string {
	switch c.Provider {
	case ProviderAnthropic:
		return &c.Anthropic.APIKey
	case ProviderOpenAI:
		return &c.OpenAI.APIKey
	case ProviderGemini:
		return &c.Gemini.APIKey
	case ProviderOpenRouter:
		return &c.OpenRouter.APIKey
	}
	return nil
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	if c.Provider == ProviderMock {
		return nil
	}
	key := c.apiKey()
	if key == nil {
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if *key == "" {
		return fmt.Errorf("an API key is required for the %s provider (QCM_%s_API_KEY)",
			c.Provider, envName(c.Provider))
	}
	return nil
}

// ModelID returns the configured model of the selected provider.
func (c Config) ModelID() string {
	switch c.Provider {
	case ProviderAnthropic:
		return resolveModel(c.Anthropic.Model, anthropicModels)
	case ProviderOpenAI:
		return resolveModel(c.OpenAI.Model, openaiModels)
	case ProviderGemini:
		return resolveModel(c.Gemini.Model, geminiModels)
	case ProviderOpenRouter:
		return c.OpenRouter.Model
	}
	return c.Provider
}

func envName(provider string) string {
	return strings.ToUpper(provider)
}

// resolveModel maps a friendly alias to a model ID. Unknown names are
// passed through as literal IDs.
func resolveModel(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}
