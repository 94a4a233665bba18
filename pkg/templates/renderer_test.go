package templates

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer()
	require.NoError(t, err)
	return r
}

func TestContainsErrorInfo(t *testing.T) {
	assert.True(t, ContainsErrorInfo("console shows a CORS error"))
	assert.True(t, ContainsErrorInfo("returns UNDEFINED"))
	assert.False(t, ContainsErrorInfo("the button is slightly misaligned"))
}

func TestBuildAnalysisPromptPlain(t *testing.T) {
	r := newTestRenderer(t)

	prompt, err := r.BuildAnalysisPrompt(&DebugData{UserInput: "the button looks wrong"})
	require.NoError(t, err)

	assert.Contains(t, prompt, "# AI Debugging Instructions")
	assert.Contains(t, prompt, "## User's Bug Report\n\nthe button looks wrong")
	assert.NotContains(t, prompt, "## Detected Signals")
	assert.NotContains(t, prompt, "CRITICAL: The user has mentioned specific error details")
	assert.NotContains(t, prompt, "## Code Context")
	assert.Contains(t, prompt, "DO NOT refactor working code")
}

func TestBuildAnalysisPromptWithSignalsAndCode(t *testing.T) {
	r := newTestRenderer(t)

	prompt, err := r.BuildAnalysisPrompt(&DebugData{
		UserInput:           "it fails with a console error on safari",
		CodeContext:         "fetch('/api/x')",
		StabilityKeywords:   []string{"sometimes"},
		EnvironmentKeywords: []string{"safari"},
	})
	require.NoError(t, err)

	assert.Contains(t, prompt, "**Stability Signals Detected:**")
	assert.Contains(t, prompt, "The user mentioned: 'sometimes'")
	assert.Contains(t, prompt, "**Environment Signals Detected:**")
	assert.Contains(t, prompt, "The user mentioned: 'safari'")
	assert.Contains(t, prompt, "CRITICAL: The user has mentioned specific error details")
	assert.Contains(t, prompt, "## Code Context\n\n```\nfetch('/api/x')\n```")
}

func TestBuildFollowUpPrompt(t *testing.T) {
	r := newTestRenderer(t)

	directive, err := r.BuildErrorDirective()
	require.NoError(t, err)
	assert.Contains(t, directive, "CRITICAL ERROR MESSAGE DETECTED")
	assert.Contains(t, directive, "MANDATORY ANALYSIS STEPS:")

	prompt, err := r.BuildFollowUpPrompt(&DebugData{
		OriginalIssue:       "delete fails on iphone",
		FollowUp:            "console shows Authorization header missing",
		ConversationHistory: "User: delete fails\nAssistant: what does the console say?",
		ErrorDirective:      directive,
	})
	require.NoError(t, err)

	assert.Contains(t, prompt, "Original issue: delete fails on iphone")
	assert.Contains(t, prompt, "Follow-up information: console shows Authorization header missing")
	assert.Contains(t, prompt, "CRITICAL ERROR MESSAGE DETECTED")
	assert.Contains(t, prompt, "Conversation history:\nUser: delete fails")
	assert.Contains(t, prompt, "Error message detected: [exact error]")
	assert.NotContains(t, prompt, "Analyze the issue and provide targeted recommendations.")

	// The generic task block precedes the error directive, and the
	// history with its analysis task comes last.
	taskAt := strings.Index(prompt, "## Your Task\n")
	directiveAt := strings.Index(prompt, "CRITICAL ERROR MESSAGE DETECTED")
	historyAt := strings.Index(prompt, "Conversation history:")
	analysisAt := strings.Index(prompt, "## Your Analysis Task:")
	require.True(t, taskAt >= 0 && directiveAt >= 0 && historyAt >= 0 && analysisAt >= 0)
	assert.Less(t, taskAt, directiveAt)
	assert.Less(t, directiveAt, historyAt)
	assert.Less(t, historyAt, analysisAt)
	assert.Contains(t, prompt, "Remember: DO NOT refactor working code.")
}

func TestBuildFollowUpPromptWithoutDirective(t *testing.T) {
	r := newTestRenderer(t)

	prompt, err := r.BuildFollowUpPrompt(&DebugData{
		OriginalIssue:       "page flickers",
		FollowUp:            "it happens after resume",
		ConversationHistory: "User: page flickers\nAssistant: when?",
	})
	require.NoError(t, err)

	assert.Contains(t, prompt, "Analyze the issue and provide targeted recommendations.")
	assert.NotContains(t, prompt, "MANDATORY ANALYSIS STEPS")
}

func TestBuildArchitectPrompt(t *testing.T) {
	r := newTestRenderer(t)

	prompt, err := r.BuildArchitectPrompt(&ArchitectData{
		UserRequest: "Design a chat app on MERN",
	})
	require.NoError(t, err)

	assert.Contains(t, prompt, "You are a SENIOR SOFTWARE ARCHITECT.")
	assert.Contains(t, prompt, "USER REQUEST:\nDesign a chat app on MERN")
	assert.Contains(t, prompt, "[INTENT SUMMARY]")
	assert.Contains(t, prompt, "[STACK ALIGNMENT CHECK]")
	assert.Contains(t, prompt, "[RECOMMENDATION (WITH CONDITIONS)]")
	assert.NotContains(t, prompt, "[CONFIDENCE & ASSUMPTIONS]")
	assert.NotContains(t, prompt, "[PAST ARCHITECTURE CONTEXT]")
}

func TestBuildArchitectPromptWithConfidenceAndHistory(t *testing.T) {
	r := newTestRenderer(t)

	prompt, err := r.BuildArchitectPrompt(&ArchitectData{
		UserRequest:       "Should I shard MongoDB?",
		IncludeConfidence: true,
		PastRequests:      []string{"Design a chat app on MERN", "Add file uploads"},
	})
	require.NoError(t, err)

	assert.Contains(t, prompt, "[CONFIDENCE & ASSUMPTIONS]")
	assert.Contains(t, prompt, "[PAST ARCHITECTURE CONTEXT]")
	assert.Contains(t, prompt, "1. Previous request: Design a chat app on MERN...")
	assert.Contains(t, prompt, "2. Previous request: Add file uploads...")
	// Confidence section renders between trade-offs and risks.
	tradeOffs := strings.Index(prompt, "[TRADE-OFF ANALYSIS]")
	confidence := strings.Index(prompt, "[CONFIDENCE & ASSUMPTIONS]")
	risks := strings.Index(prompt, "[RISKS & NON-OBVIOUS LIMITATIONS]")
	assert.Less(t, tradeOffs, confidence)
	assert.Less(t, confidence, risks)
}
