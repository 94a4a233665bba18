// Package chat runs a conversational session: it routes each user turn to
// the debug agent, the architect agent, or the tool-using chat agent, and
// maintains conversation memory and the transcript.
package chat

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"advisor/pkg/agent/llm"
	"advisor/pkg/architect"
	"advisor/pkg/contextmgr"
	"advisor/pkg/debugagent"
	"advisor/pkg/logx"
	"advisor/pkg/persistence"
	"advisor/pkg/signals"
	"advisor/pkg/tools"
)

// agentPrefix is the system message for the tool-using chat agent.
const agentPrefix = `Assistant is a helpful AI that can use tools to answer questions. When the user asks a follow-up question, always consider the previous conversation context to understand what they're referring to. If you need to search for information, include the relevant topic from the conversation history in your search query.

For example:
- If the conversation is about "one tap trading" and the user asks "list popular apps", search for "popular one tap trading apps".
- If discussing a city and asked "what's the temperature", use that city name.

Always provide the most relevant and contextual answer based on the full conversation.`

// architectPrefix routes a turn to the architect agent.
const architectPrefix = "architect:"

// compactionThreshold is the token count past which conversation memory
// is compacted.
const compactionThreshold = 8000

// Mode tags how a reply was produced, for display in the UI.
type Mode string

const (
	// ModeChat is a plain tool-agent answer.
	ModeChat Mode = "CHAT"
	// ModeInvestigation is a debug clarification round.
	ModeInvestigation Mode = "INVESTIGATION"
	// ModeAnalysis is a debug analysis answer.
	ModeAnalysis Mode = "ANALYSIS"
	// ModeArchitect is an architecture consultation answer.
	ModeArchitect Mode = "ARCHITECT"
)

// Reply is the outcome of one user turn.
type Reply struct {
	Content string
	Mode    Mode
	// Sections holds the diagnostic sections of a debug analysis,
	// already rendered, in display order.
	Sections []string
}

// Session is one user's conversation. Not safe for concurrent use; each
// session belongs to a single caller.
type Session struct {
	client        llm.LLMClient
	registry      *tools.Registry
	memory        *contextmgr.ContextManager
	debugMemory   *contextmgr.ContextManager
	debug         *debugagent.Agent
	arch          *architect.Architect
	db            *sql.DB
	sessionID     string
	maxIterations int

	// ShowConfidence adds the confidence and assumptions section to
	// architect analyses.
	ShowConfidence bool

	logger *logx.Logger
}

// Options configures a new session.
type Options struct {
	Client        llm.LLMClient
	Registry      *tools.Registry
	Debug         *debugagent.Agent
	Architect     *architect.Architect
	DB            *sql.DB // optional transcript store
	MaxIterations int

	// ShowConfidence adds the confidence and assumptions section to
	// architect analyses.
	ShowConfidence bool
}

// NewSession creates a session and, when a database is present, a
// transcript row for it.
func NewSession(ctx context.Context, opts Options) (*Session, error) {
	if opts.Client == nil {
		return nil, fmt.Errorf("session requires an LLM client")
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = 5
	}

	s := &Session{
		client:         opts.Client,
		registry:       opts.Registry,
		memory:         contextmgr.NewContextManager(),
		debugMemory:    contextmgr.NewContextManager(),
		debug:          opts.Debug,
		arch:           opts.Architect,
		db:             opts.DB,
		maxIterations:  opts.MaxIterations,
		ShowConfidence: opts.ShowConfidence,
		logger:         logx.NewLogger("chat"),
	}

	if opts.DB != nil {
		id, err := persistence.CreateSession(ctx, opts.DB)
		if err != nil {
			return nil, fmt.Errorf("failed to create session record: %w", err)
		}
		s.sessionID = id
	}

	return s, nil
}

// ProcessMessage handles one user turn and returns the reply.
func (s *Session) ProcessMessage(ctx context.Context, input string) (*Reply, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("message cannot be empty")
	}

	var reply *Reply
	var err error
	switch {
	case s.arch != nil && strings.HasPrefix(strings.ToLower(input), architectPrefix):
		reply, err = s.handleArchitect(ctx, strings.TrimSpace(input[len(architectPrefix):]))
	case s.debug != nil && s.isDebugTurn(input):
		reply, err = s.handleDebug(ctx, input)
	default:
		reply, err = s.handleChat(ctx, input)
	}
	if err != nil {
		return nil, err
	}

	s.memory.AddMessage("user", input)
	s.memory.AddMessage("assistant", reply.Content)
	s.memory.CompactIfNeeded(compactionThreshold)
	s.saveTranscript(ctx, input, reply.Content)

	return reply, nil
}

// isDebugTurn reports whether this turn belongs to the debug agent:
// explicit debug wording, environmental signals, or an open investigation
// awaiting the user's follow-up.
func (s *Session) isDebugTurn(input string) bool {
	if s.debug.State() == debugagent.StateInvestigating {
		return true
	}
	return debugagent.IsDebugQuery(input) || signals.Detect(input).ShouldInvestigate()
}

func (s *Session) handleArchitect(ctx context.Context, request string) (*Reply, error) {
	answer, err := s.arch.Analyze(ctx, request, s.ShowConfidence)
	if err != nil {
		return nil, err
	}
	return &Reply{Content: answer, Mode: ModeArchitect}, nil
}

func (s *Session) handleDebug(ctx context.Context, input string) (*Reply, error) {
	result, err := s.debug.Handle(ctx, debugagent.Request{
		UserInput:           input,
		ConversationHistory: s.debugMemory.History(),
	})
	if err != nil {
		return nil, err
	}

	if result.Mode == debugagent.ModeInvestigation {
		reply := &Reply{
			Content: result.Investigation.FormattedResponse,
			Mode:    ModeInvestigation,
		}
		s.rememberDebugTurn(input, reply.Content)
		return reply, nil
	}

	req := llm.NewCompletionRequest([]llm.CompletionMessage{
		llm.NewUserMessage(result.Analysis.Prompt),
	})
	req.Temperature = llm.TemperatureAnalysis

	resp, err := s.client.Complete(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("debug analysis failed: %w", err)
	}

	sections := result.Analysis.Sections()
	content := resp.Content
	if len(sections) > 0 {
		content = content + "\n\n" + strings.Join(sections, "\n\n")
	}

	reply := &Reply{Content: content, Mode: ModeAnalysis, Sections: sections}
	s.rememberDebugTurn(input, resp.Content)
	return reply, nil
}

// handleChat runs the tool loop: the model may request tool calls for up
// to maxIterations rounds before it must answer directly.
func (s *Session) handleChat(ctx context.Context, input string) (*Reply, error) {
	messages := []llm.CompletionMessage{llm.NewSystemMessage(agentPrefix)}
	for _, m := range s.memory.GetMessages() {
		switch m.Role {
		case "assistant":
			messages = append(messages, llm.NewAssistantMessage(m.Content))
		default:
			messages = append(messages, llm.NewUserMessage(m.Content))
		}
	}
	messages = append(messages, llm.NewUserMessage(input))

	var defs []tools.ToolDefinition
	if s.registry != nil {
		defs = s.registry.Definitions()
	}

	var lastContent string
	for i := 0; i < s.maxIterations; i++ {
		req := llm.NewCompletionRequest(messages)
		req.Tools = defs

		resp, err := s.client.Complete(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("chat completion failed: %w", err)
		}
		lastContent = resp.Content

		if len(resp.ToolCalls) == 0 {
			return &Reply{Content: resp.Content, Mode: ModeChat}, nil
		}

		messages = append(messages, llm.CompletionMessage{
			Role:      llm.RoleAssistant,
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})
		messages = append(messages, llm.CompletionMessage{
			Role:        llm.RoleUser,
			ToolResults: s.execToolCalls(ctx, resp.ToolCalls),
		})
	}

	s.logger.Warn("tool loop hit iteration limit (%d)", s.maxIterations)
	if lastContent == "" {
		lastContent = "I couldn't finish answering within the allowed number of steps. Please rephrase or narrow the question."
	}
	return &Reply{Content: lastContent, Mode: ModeChat}, nil
}

// execToolCalls runs each requested tool. A tool failure becomes a result
// string for the model, never an error that aborts the turn.
func (s *Session) execToolCalls(ctx context.Context, calls []llm.ToolCall) []llm.ToolResult {
	results := make([]llm.ToolResult, 0, len(calls))
	for _, call := range calls {
		results = append(results, llm.ToolResult{
			ToolCallID: call.ID,
			Content:    s.execToolCall(ctx, call),
		})
	}
	return results
}

func (s *Session) execToolCall(ctx context.Context, call llm.ToolCall) string {
	if s.registry == nil {
		return fmt.Sprintf("tool %s is not available", call.Name)
	}
	tool, err := s.registry.Get(call.Name)
	if err != nil {
		return fmt.Sprintf("tool %s is not available", call.Name)
	}

	s.logger.Debug("executing tool %s", call.Name)
	res, err := tool.Exec(ctx, call.Parameters)
	if err != nil {
		s.logger.Warn("tool %s rejected arguments: %v", call.Name, err)
		return fmt.Sprintf("tool %s failed: %v", call.Name, err)
	}
	return res.Content
}

// rememberDebugTurn records the exchange in the debug agent's own memory,
// which drives its follow-up detection.
func (s *Session) rememberDebugTurn(input, reply string) {
	s.debugMemory.AddMessage("user", input)
	s.debugMemory.AddMessage("assistant", reply)
}

// Clear resets conversation memory, the debug agent, and the stored
// transcript. Architect decisions persist for the session.
func (s *Session) Clear(ctx context.Context) error {
	s.memory.Clear()
	s.debugMemory.Clear()
	if s.debug != nil {
		s.debug.Reset()
	}
	if s.db != nil && s.sessionID != "" {
		if err := persistence.ClearMessages(ctx, s.db, s.sessionID); err != nil {
			return fmt.Errorf("failed to clear transcript: %w", err)
		}
	}
	return nil
}

// History returns the rendered conversation history.
func (s *Session) History() string {
	return s.memory.History()
}

func (s *Session) saveTranscript(ctx context.Context, input, reply string) {
	if s.db == nil || s.sessionID == "" {
		return
	}
	if err := persistence.SaveMessage(ctx, s.db, s.sessionID, "user", input); err != nil {
		s.logger.Warn("failed to save user message: %v", err)
		return
	}
	if err := persistence.SaveMessage(ctx, s.db, s.sessionID, "assistant", reply); err != nil {
		s.logger.Warn("failed to save assistant message: %v", err)
	}
}
