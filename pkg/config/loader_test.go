package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `{"llm": {"provider": "ollama"}}`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.LLM.Model != DefaultOllamaModel {
		t.Errorf("expected default model %s, got %s", DefaultOllamaModel, cfg.LLM.Model)
	}
	if cfg.Ingest.ChunkSize != DefaultChunkSize {
		t.Errorf("expected chunk size %d, got %d", DefaultChunkSize, cfg.Ingest.ChunkSize)
	}
	if cfg.Ingest.ChunkOverlap != DefaultChunkOverlap {
		t.Errorf("expected chunk overlap %d, got %d", DefaultChunkOverlap, cfg.Ingest.ChunkOverlap)
	}
	if cfg.Ingest.TopK != DefaultTopK {
		t.Errorf("expected top_k %d, got %d", DefaultTopK, cfg.Ingest.TopK)
	}
	if cfg.Chat.MaxIterations != 5 {
		t.Errorf("expected max iterations 5, got %d", cfg.Chat.MaxIterations)
	}
}

func TestLoadConfigEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_ADVISOR_KEY", "sk-test-123")
	path := writeConfig(t, `{"llm": {"provider": "anthropic", "model": "claude-sonnet-4-20250514", "api_key": "${TEST_ADVISOR_KEY}"}}`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.LLM.APIKey != "sk-test-123" {
		t.Errorf("expected substituted API key, got %q", cfg.LLM.APIKey)
	}
}

func TestLoadConfigUnsetEnvKept(t *testing.T) {
	path := writeConfig(t, `{"llm": {"provider": "ollama", "model": "${ADVISOR_UNSET_MODEL}"}}`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	// Unset placeholders pass through unchanged.
	if cfg.LLM.Model != "${ADVISOR_UNSET_MODEL}" {
		t.Errorf("expected placeholder retained, got %q", cfg.LLM.Model)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"unknown provider", `{"llm": {"provider": "other"}}`},
		{"overlap exceeds chunk", `{"llm": {"provider": "ollama"}, "ingest": {"chunk_size": 100, "chunk_overlap": 200}}`},
		{"temperature out of range", `{"llm": {"provider": "ollama", "temperature": 3.5}}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.content)
			if _, err := LoadConfig(path); err == nil {
				t.Errorf("expected validation error for %s", tc.name)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.LLM.Provider != ProviderOllama {
		t.Errorf("expected default provider ollama, got %s", cfg.LLM.Provider)
	}
	if err := validateConfig(cfg); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}
