// Package architect provides the architecture advisory agent: trade-off
// oriented design analysis with a short memory of prior decisions.
package architect

import (
	"context"
	"fmt"
	"strings"
	"time"

	"advisor/pkg/agent/llm"
	"advisor/pkg/logx"
	"advisor/pkg/templates"
)

const (
	// memoryCapacity bounds how many past decisions are retained.
	memoryCapacity = 10
	// contextDecisions is how many recent requests are injected into
	// a new analysis prompt.
	contextDecisions = 3
	// contextTruncateLen caps each injected past request.
	contextTruncateLen = 100
)

// Decision records one architecture consultation.
type Decision struct {
	Request   string
	Response  string
	Timestamp time.Time
}

// Architect runs architecture analyses against an LLM, carrying a bounded
// FIFO memory of past consultations for continuity across a session.
type Architect struct {
	client   llm.LLMClient
	renderer *templates.Renderer
	memory   []Decision
	logger   *logx.Logger
}

// NewArchitect creates an architect agent backed by the given client.
func NewArchitect(client llm.LLMClient, renderer *templates.Renderer) *Architect {
	return &Architect{
		client:   client,
		renderer: renderer,
		logger:   logx.NewLogger("architect"),
	}
}

// Analyze runs a full architecture analysis for the request. The prompt
// carries the last few past requests so the model can stay consistent with
// earlier discussions. The exchange is recorded in memory; when memory is
// full the oldest decision is dropped.
func (a *Architect) Analyze(ctx context.Context, request string, includeConfidence bool) (string, error) {
	request = strings.TrimSpace(request)
	if request == "" {
		return "", fmt.Errorf("architecture request cannot be empty")
	}

	prompt, err := a.renderer.BuildArchitectPrompt(&templates.ArchitectData{
		UserRequest:       request,
		IncludeConfidence: includeConfidence,
		PastRequests:      a.recentRequests(),
	})
	if err != nil {
		return "", err
	}

	req := llm.NewCompletionRequest([]llm.CompletionMessage{
		llm.NewUserMessage(prompt),
	})
	req.MaxTokens = llm.ArchitectMaxTokens

	a.logger.Debug("analyzing request (%d past decisions in memory)", len(a.memory))
	resp, err := a.client.Complete(ctx, req)
	if err != nil {
		return "", fmt.Errorf("architecture analysis failed: %w", err)
	}

	a.remember(Decision{
		Request:   request,
		Response:  resp.Content,
		Timestamp: time.Now(),
	})

	return resp.Content, nil
}

// PastDecisions returns a copy of the decision memory, oldest first.
func (a *Architect) PastDecisions() []Decision {
	out := make([]Decision, len(a.memory))
	copy(out, a.memory)
	return out
}

// ClearMemory drops all recorded decisions.
func (a *Architect) ClearMemory() {
	a.memory = nil
}

func (a *Architect) remember(d Decision) {
	a.memory = append(a.memory, d)
	if len(a.memory) > memoryCapacity {
		a.memory = a.memory[len(a.memory)-memoryCapacity:]
	}
}

// recentRequests returns the last few remembered requests, each truncated
// for prompt injection. The template adds the trailing ellipsis.
func (a *Architect) recentRequests() []string {
	start := len(a.memory) - contextDecisions
	if start < 0 {
		start = 0
	}
	var out []string
	for _, d := range a.memory[start:] {
		req := d.Request
		if len(req) > contextTruncateLen {
			req = req[:contextTruncateLen]
		}
		out = append(out, req)
	}
	return out
}
