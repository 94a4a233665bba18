// Package debugagent orchestrates the debugging conversation. It is a two
// state machine: IDLE until a report carries stability or environment
// signals, INVESTIGATING while clarification questions are outstanding.
// Everything it calls is a stateless formatter; the agent owns the only
// mutable session state and is never shared between sessions.
package debugagent

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"advisor/pkg/diagnostics"
	"advisor/pkg/interaction"
	"advisor/pkg/logx"
	"advisor/pkg/signals"
	"advisor/pkg/templates"
	"advisor/pkg/triage"
)

// State is the debug agent's conversational state.
type State string

const (
	// StateIdle means no investigation is open.
	StateIdle State = "IDLE"
	// StateInvestigating means one issue is awaiting clarification.
	StateInvestigating State = "INVESTIGATING"
)

// validTransitions is the agent's transition table. Reset may force IDLE
// from any state, so it is not listed here.
var validTransitions = map[State][]State{
	StateIdle:          {StateInvestigating},
	StateInvestigating: {StateIdle},
}

// followUpErrorKeywords trigger the strict error directive on the analysis
// turn after an investigation.
var followUpErrorKeywords = []string{
	"error", "message", "console", "exception", "failed", "undefined",
	"null", "token", "cors", "network", "status",
}

// debugKeywords mark input as a debugging request for host-side routing.
var debugKeywords = []string{
	"bug", "issue", "not working", "error", "broken",
	"doesn't work", "won't work", "fails", "problem",
	"crash", "freeze", "stuck",
}

// Agent is one session's debug orchestrator.
type Agent struct {
	mu            sync.Mutex
	state         State
	originalIssue string
	renderer      *templates.Renderer
	logger        *logx.Logger
}

// New creates an idle debug agent.
func New(renderer *templates.Renderer) *Agent {
	return &Agent{
		state:    StateIdle,
		renderer: renderer,
		logger:   logx.NewLogger("debug-agent"),
	}
}

// Request is one user turn handed to the agent.
type Request struct {
	UserInput           string
	CodeContext         string
	ConversationHistory string
}

// Handle processes one turn and returns either an investigation response
// (questions to relay to the user, no model call) or an analysis response
// (a prompt for the model plus any diagnostic sections).
func (a *Agent) Handle(ctx context.Context, req Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("debug agent: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	// An open investigation plus any follow-up with history closes the
	// loop: run every generator and analyze.
	if a.state == StateInvestigating && req.ConversationHistory != "" {
		return a.analyzeFollowUp(req)
	}

	report := signals.Detect(req.UserInput)
	if report.ShouldInvestigate() {
		if err := a.transitionTo(StateInvestigating); err != nil {
			return nil, err
		}
		a.originalIssue = req.UserInput
		questions := interaction.Questions(report)
		a.logger.Info("investigation opened: %d signals, %d questions", len(report.Keywords()), len(questions))

		return &Result{
			Mode: ModeInvestigation,
			Investigation: &Investigation{
				Questions:         questions,
				FormattedResponse: interaction.FormatInvestigation(report, questions),
				Report:            report,
			},
		}, nil
	}

	prompt, err := a.renderer.BuildAnalysisPrompt(&templates.DebugData{
		UserInput:           req.UserInput,
		CodeContext:         req.CodeContext,
		StabilityKeywords:   report.AKeywords,
		EnvironmentKeywords: report.BKeywords,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build analysis prompt: %w", err)
	}

	return &Result{
		Mode:     ModeAnalysis,
		Analysis: &Analysis{Prompt: prompt, Report: &report},
	}, nil
}

// analyzeFollowUp closes the investigation: every diagnostic generator
// runs against the combined text and the prompt references both the
// original issue and the new details. Caller holds the lock.
func (a *Agent) analyzeFollowUp(req Request) (*Result, error) {
	findings := triage.Classify(req.UserInput, req.ConversationHistory)

	analysis := &Analysis{
		InspectionChecklist: diagnostics.InspectionChecklist(findings),
		VerificationTests:   diagnostics.VerificationTests(findings),
		RootCauseScores:     diagnostics.RootCauseScores(findings),
		FixStrategies:       diagnostics.FixStrategies(findings),
		ConfirmationGate:    diagnostics.ConfirmationGate(findings, req.UserInput, req.ConversationHistory),
	}

	data := &templates.DebugData{
		OriginalIssue:       a.originalIssue,
		FollowUp:            req.UserInput,
		CodeContext:         req.CodeContext,
		ConversationHistory: req.ConversationHistory,
	}
	if hasErrorKeyword(req.UserInput) || hasErrorKeyword(req.ConversationHistory) {
		directive, err := a.renderer.BuildErrorDirective()
		if err != nil {
			return nil, fmt.Errorf("failed to build error directive: %w", err)
		}
		data.ErrorDirective = directive
	}

	prompt, err := a.renderer.BuildFollowUpPrompt(data)
	if err != nil {
		return nil, fmt.Errorf("failed to build follow-up prompt: %w", err)
	}
	analysis.Prompt = prompt

	if err := a.transitionTo(StateIdle); err != nil {
		return nil, err
	}
	a.logger.Info("investigation closed: category=%s platform=%s", findings.Category, findings.Platform)

	return &Result{Mode: ModeAnalysis, Analysis: analysis}, nil
}

// transitionTo validates and applies a state change. Self-transitions are
// allowed: a second signal-bearing report without history re-opens the
// investigation with the new issue. Caller holds the lock.
func (a *Agent) transitionTo(next State) error {
	if next == a.state {
		return nil
	}
	for _, allowed := range validTransitions[a.state] {
		if allowed == next {
			a.state = next
			return nil
		}
	}
	return fmt.Errorf("invalid debug agent transition: %s -> %s", a.state, next)
}

// State returns the agent's current state.
func (a *Agent) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Reset unconditionally returns the agent to IDLE and discards the
// recorded issue.
func (a *Agent) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state = StateIdle
	a.originalIssue = ""
}

// IsDebugQuery reports whether input reads like a debugging request.
func IsDebugQuery(userInput string) bool {
	lower := strings.ToLower(userInput)
	for _, keyword := range debugKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

func hasErrorKeyword(text string) bool {
	lower := strings.ToLower(text)
	for _, keyword := range followUpErrorKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
