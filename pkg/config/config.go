// Package config provides JSON-based configuration with environment variable
// substitution and an encrypted secrets file for API keys.
package config

import (
	"fmt"
)

// Supported LLM providers.
const (
	ProviderOllama    = "ollama"
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderGoogle    = "google"
)

// Default model names per provider.
const (
	DefaultOllamaModel    = "llama3.2"
	DefaultEmbeddingModel = "nomic-embed-text"
)

// Ingestion defaults matching the knowledge-base chunking strategy.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
	DefaultTopK         = 4
)

// LLM configures the language model provider shared by all agents.
type LLM struct {
	Provider       string  `json:"provider"`
	Model          string  `json:"model"`
	Host           string  `json:"host,omitempty"`    // Ollama server URL
	APIKey         string  `json:"api_key,omitempty"` // Hosted providers only
	MaxTokens      int     `json:"max_tokens,omitempty"`
	Temperature    float32 `json:"temperature,omitempty"`
	MetricsEnabled bool    `json:"metrics_enabled,omitempty"`
}

// Embedding configures the embedding model used for document retrieval.
type Embedding struct {
	Model string `json:"model"`
	Host  string `json:"host,omitempty"`
}

// Ingest configures PDF ingestion and chunking.
type Ingest struct {
	PDFDir       string `json:"pdf_dir"`
	ChunkSize    int    `json:"chunk_size,omitempty"`
	ChunkOverlap int    `json:"chunk_overlap,omitempty"`
	TopK         int    `json:"top_k,omitempty"`
}

// Storage configures the SQLite database.
type Storage struct {
	DBPath string `json:"db_path"`
}

// Chat configures the conversational agent loop.
type Chat struct {
	MaxIterations int `json:"max_iterations,omitempty"`
}

// WebUI configures the embedded dashboard.
type WebUI struct {
	Enabled bool `json:"enabled,omitempty"`
	Port    int  `json:"port,omitempty"`
}

// Config is the top-level application configuration.
type Config struct {
	LLM       LLM       `json:"llm"`
	Embedding Embedding `json:"embedding"`
	Ingest    Ingest    `json:"ingest"`
	Storage   Storage   `json:"storage"`
	Chat      Chat      `json:"chat"`
	WebUI     WebUI     `json:"webui"`
}

// applyDefaults fills in zero values with sensible defaults.
func applyDefaults(config *Config) {
	if config.LLM.Provider == "" {
		config.LLM.Provider = ProviderOllama
	}
	if config.LLM.Model == "" {
		config.LLM.Model = DefaultOllamaModel
	}
	if config.LLM.MaxTokens == 0 {
		config.LLM.MaxTokens = 4096
	}
	if config.LLM.Temperature == 0 {
		config.LLM.Temperature = 0.7
	}
	if config.Embedding.Model == "" {
		config.Embedding.Model = DefaultEmbeddingModel
	}
	if config.Embedding.Host == "" {
		config.Embedding.Host = config.LLM.Host
	}
	if config.Ingest.ChunkSize == 0 {
		config.Ingest.ChunkSize = DefaultChunkSize
	}
	if config.Ingest.ChunkOverlap == 0 {
		config.Ingest.ChunkOverlap = DefaultChunkOverlap
	}
	if config.Ingest.TopK == 0 {
		config.Ingest.TopK = DefaultTopK
	}
	if config.Storage.DBPath == "" {
		config.Storage.DBPath = "advisor.db"
	}
	if config.Chat.MaxIterations == 0 {
		config.Chat.MaxIterations = 5
	}
	if config.WebUI.Port == 0 {
		config.WebUI.Port = 8080
	}
}

// validateConfig checks the configuration for internal consistency.
func validateConfig(config *Config) error {
	switch config.LLM.Provider {
	case ProviderOllama, ProviderAnthropic, ProviderOpenAI, ProviderGoogle:
	default:
		return fmt.Errorf("unknown LLM provider: %s", config.LLM.Provider)
	}

	// Hosted providers may resolve their API key from the secrets store
	// after load; the client factory enforces its presence.

	if config.Ingest.ChunkOverlap >= config.Ingest.ChunkSize {
		return fmt.Errorf("chunk overlap (%d) must be smaller than chunk size (%d)",
			config.Ingest.ChunkOverlap, config.Ingest.ChunkSize)
	}

	if config.LLM.Temperature < 0 || config.LLM.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0.0 and 2.0")
	}

	if config.WebUI.Enabled && (config.WebUI.Port < 1 || config.WebUI.Port > 65535) {
		return fmt.Errorf("invalid webui port: %d", config.WebUI.Port)
	}

	return nil
}

// Default returns a configuration populated entirely from defaults,
// for running without a config file.
func Default() *Config {
	config := &Config{}
	applyDefaults(config)
	return config
}
