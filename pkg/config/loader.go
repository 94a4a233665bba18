package config

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
)

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// LoadConfig loads and validates configuration from a JSON file with
// environment variable substitution. Placeholders of the form ${NAME} are
// replaced with the value of the NAME environment variable when set.
func LoadConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Replace environment variable placeholders.
	dataStr := envVarRegex.ReplaceAllStringFunc(string(data), func(match string) string {
		envVar := match[2 : len(match)-1] // Remove ${ and }
		if value := os.Getenv(envVar); value != "" {
			return value
		}
		return match // Return original if env var not found
	})

	var config Config
	if err := json.Unmarshal([]byte(dataStr), &config); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	applyDefaults(&config)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// ResolveAPIKey fills in the LLM API key from the secrets store when the
// config does not carry one. Hosted providers look up the conventional
// environment variable for the provider.
func (c *Config) ResolveAPIKey() error {
	if c.LLM.Provider == ProviderOllama || c.LLM.APIKey != "" {
		return nil
	}

	var envName string
	switch c.LLM.Provider {
	case ProviderAnthropic:
		envName = "ANTHROPIC_API_KEY"
	case ProviderOpenAI:
		envName = "OPENAI_API_KEY"
	case ProviderGoogle:
		envName = "GEMINI_API_KEY"
	default:
		return fmt.Errorf("unknown LLM provider: %s", c.LLM.Provider)
	}

	key, err := GetSecret(envName)
	if err != nil {
		return fmt.Errorf("no API key for provider %s: %w", c.LLM.Provider, err)
	}

	c.LLM.APIKey = key
	return nil
}
