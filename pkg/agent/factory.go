// Package agent provides LLM client construction and the middleware stack
// shared by the chat, debug, and architect agents.
package agent

import (
	"fmt"

	"advisor/pkg/agent/internal/llmimpl/anthropic"
	"advisor/pkg/agent/internal/llmimpl/google"
	"advisor/pkg/agent/internal/llmimpl/ollama"
	"advisor/pkg/agent/internal/llmimpl/openaiofficial"
	"advisor/pkg/agent/llm"
	"advisor/pkg/agent/middleware/metrics"
	"advisor/pkg/config"
	"advisor/pkg/logx"
)

// ClientFactory creates LLM clients with the shared middleware stack applied.
type ClientFactory struct {
	cfg      *config.LLM
	recorder metrics.Recorder
}

// NewClientFactory creates a new LLM client factory with the given configuration.
// Metrics recording is enabled unless disabled in config.
func NewClientFactory(cfg *config.LLM) *ClientFactory {
	var recorder metrics.Recorder
	if cfg.MetricsEnabled {
		recorder = metrics.NewPrometheusRecorder()
	} else {
		recorder = metrics.Nop()
	}

	return &ClientFactory{
		cfg:      cfg,
		recorder: recorder,
	}
}

// CreateClient creates an LLM client for the named agent with metrics middleware applied.
func (f *ClientFactory) CreateClient(agentName string) (llm.LLMClient, error) {
	rawClient, err := f.createRawClient()
	if err != nil {
		return nil, err
	}

	logger := logx.NewLogger(agentName)
	return llm.Chain(rawClient,
		metrics.Middleware(f.recorder, nil, agentName, logger),
	), nil
}

// createRawClient creates a provider client without middleware.
func (f *ClientFactory) createRawClient() (llm.LLMClient, error) {
	switch f.cfg.Provider {
	case config.ProviderOllama:
		host := f.cfg.Host
		if host == "" {
			host = ollama.DefaultHost
		}
		return ollama.NewClientWithModel(host, f.cfg.Model), nil
	case config.ProviderAnthropic:
		if f.cfg.APIKey == "" {
			return nil, fmt.Errorf("anthropic provider requires an API key")
		}
		return anthropic.NewClaudeClientWithModel(f.cfg.APIKey, f.cfg.Model), nil
	case config.ProviderOpenAI:
		if f.cfg.APIKey == "" {
			return nil, fmt.Errorf("openai provider requires an API key")
		}
		return openaiofficial.NewOfficialClientWithModel(f.cfg.APIKey, f.cfg.Model), nil
	case config.ProviderGoogle:
		if f.cfg.APIKey == "" {
			return nil, fmt.Errorf("google provider requires an API key")
		}
		return google.NewGeminiClientWithModel(f.cfg.APIKey, f.cfg.Model), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", f.cfg.Provider)
	}
}
