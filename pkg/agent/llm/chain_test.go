package llm

import (
	"context"
	"testing"
)

// tagClient is a test client that records middleware ordering via a shared log.
type tagClient struct {
	log *[]string
	tag string
}

func (t *tagClient) Complete(_ context.Context, _ CompletionRequest) (CompletionResponse, error) {
	*t.log = append(*t.log, t.tag)
	return CompletionResponse{Content: t.tag}, nil
}

func (t *tagClient) GetModelName() string { return t.tag }

func tagMiddleware(log *[]string, tag string) Middleware {
	return func(next LLMClient) LLMClient {
		return WrapClient(
			func(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
				*log = append(*log, tag)
				return next.Complete(ctx, req)
			},
			next.GetModelName,
		)
	}
}

func TestChainOrdering(t *testing.T) {
	var log []string
	base := &tagClient{log: &log, tag: "base"}

	client := Chain(base, tagMiddleware(&log, "first"), tagMiddleware(&log, "second"))

	if _, err := client.Complete(context.Background(), NewCompletionRequest(nil)); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	want := []string{"first", "second", "base"}
	if len(log) != len(want) {
		t.Fatalf("expected %d calls, got %d: %v", len(want), len(log), log)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Errorf("call %d: expected %s, got %s", i, want[i], log[i])
		}
	}
}

func TestChainEmpty(t *testing.T) {
	var log []string
	base := &tagClient{log: &log, tag: "base"}

	client := Chain(base)
	if client.GetModelName() != "base" {
		t.Errorf("empty chain should return base client")
	}
}

func TestNewCompletionRequestDefaults(t *testing.T) {
	req := NewCompletionRequest([]CompletionMessage{NewUserMessage("hi")})
	if req.MaxTokens != DefaultMaxTokens {
		t.Errorf("expected default max tokens %d, got %d", DefaultMaxTokens, req.MaxTokens)
	}
	if req.Temperature != TemperatureDefault {
		t.Errorf("expected default temperature %v, got %v", TemperatureDefault, req.Temperature)
	}
}

func TestLLMConfigValidate(t *testing.T) {
	cfg := LLMConfig{ModelName: "llama3.2", MaxTokens: 4096, Temperature: 0.7}
	if err := cfg.Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	bad := LLMConfig{MaxTokens: 4096, Temperature: 0.7}
	if err := bad.Validate(); err == nil {
		t.Error("config without model name should be rejected")
	}

	hot := LLMConfig{ModelName: "llama3.2", MaxTokens: 4096, Temperature: 3.0}
	if err := hot.Validate(); err == nil {
		t.Error("out-of-range temperature should be rejected")
	}
}
