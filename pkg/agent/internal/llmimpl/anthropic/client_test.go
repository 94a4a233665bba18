package anthropic

import (
	"testing"

	"advisor/pkg/agent/llm"
)

// TestEnsureAlternation tests the message alternation logic.
func TestEnsureAlternation(t *testing.T) {
	tests := []struct {
		name         string
		input        []llm.CompletionMessage
		expectSystem string
		expectMsgLen int
		expectErr    bool
	}{
		{
			name:      "empty messages",
			input:     []llm.CompletionMessage{},
			expectErr: true,
		},
		{
			name: "system message extracted",
			input: []llm.CompletionMessage{
				{Role: llm.RoleSystem, Content: "You are helpful"},
				{Role: llm.RoleUser, Content: "Hello"},
			},
			expectSystem: "You are helpful",
			expectMsgLen: 1,
		},
		{
			name: "proper alternation maintained",
			input: []llm.CompletionMessage{
				{Role: llm.RoleUser, Content: "Hello"},
				{Role: llm.RoleAssistant, Content: "Hi"},
				{Role: llm.RoleUser, Content: "How are you?"},
			},
			expectMsgLen: 3,
		},
		{
			name: "consecutive user messages merged",
			input: []llm.CompletionMessage{
				{Role: llm.RoleUser, Content: "Hello"},
				{Role: llm.RoleUser, Content: "Anyone there?"},
			},
			expectMsgLen: 1,
		},
		{
			name: "ends with assistant returns error",
			input: []llm.CompletionMessage{
				{Role: llm.RoleUser, Content: "Hello"},
				{Role: llm.RoleAssistant, Content: "Hi"},
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			system, msgs, err := ensureAlternation(tt.input)

			if tt.expectErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if system != tt.expectSystem {
				t.Errorf("system = %q, want %q", system, tt.expectSystem)
			}
			if len(msgs) != tt.expectMsgLen {
				t.Errorf("message count = %d, want %d", len(msgs), tt.expectMsgLen)
			}
		})
	}
}

// TestEnsureAlternationPreservesToolResults checks that the tool-answer
// user message keeps its tool results through the merge step.
func TestEnsureAlternationPreservesToolResults(t *testing.T) {
	input := []llm.CompletionMessage{
		{Role: llm.RoleUser, Content: "what is the weather in Paris?"},
		{
			Role: llm.RoleAssistant,
			ToolCalls: []llm.ToolCall{
				{ID: "call_1", Name: "get_weather", Parameters: map[string]any{"city": "Paris"}},
			},
		},
		{
			Role: llm.RoleUser,
			ToolResults: []llm.ToolResult{
				{ToolCallID: "call_1", Content: "Paris: sunny +22C"},
			},
		},
	}

	_, msgs, err := ensureAlternation(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("message count = %d, want 3", len(msgs))
	}
	if len(msgs[1].ToolCalls) != 1 || msgs[1].ToolCalls[0].ID != "call_1" {
		t.Errorf("assistant tool calls lost: %+v", msgs[1].ToolCalls)
	}
	if len(msgs[2].ToolResults) != 1 || msgs[2].ToolResults[0].Content != "Paris: sunny +22C" {
		t.Errorf("tool results lost: %+v", msgs[2].ToolResults)
	}
}

// TestConvertMessagesToolBlocks checks the API block conversion: assistant
// tool calls become tool_use blocks and tool answers become tool_result
// blocks instead of empty text.
func TestConvertMessagesToolBlocks(t *testing.T) {
	alternating := []llm.CompletionMessage{
		{Role: llm.RoleUser, Content: "what is the weather in Paris?"},
		{
			Role: llm.RoleAssistant,
			ToolCalls: []llm.ToolCall{
				{ID: "call_1", Name: "get_weather", Parameters: map[string]any{"city": "Paris"}},
			},
		},
		{
			Role: llm.RoleUser,
			ToolResults: []llm.ToolResult{
				{ToolCallID: "call_1", Content: "Paris: sunny +22C"},
			},
		},
	}

	msgs := convertMessages(alternating)
	if len(msgs) != 3 {
		t.Fatalf("message count = %d, want 3", len(msgs))
	}

	if len(msgs[0].Content) != 1 || msgs[0].Content[0].OfText == nil {
		t.Fatalf("first user message should be a single text block, got %+v", msgs[0].Content)
	}

	assistant := msgs[1].Content
	if len(assistant) != 1 || assistant[0].OfToolUse == nil {
		t.Fatalf("assistant message should carry a tool_use block, got %+v", assistant)
	}
	if assistant[0].OfToolUse.ID != "call_1" || assistant[0].OfToolUse.Name != "get_weather" {
		t.Errorf("tool_use block = %+v", assistant[0].OfToolUse)
	}

	answer := msgs[2].Content
	if len(answer) != 1 || answer[0].OfToolResult == nil {
		t.Fatalf("tool answer should carry a tool_result block, got %+v", answer)
	}
	if answer[0].OfToolResult.ToolUseID != "call_1" {
		t.Errorf("tool_result ToolUseID = %q, want call_1", answer[0].OfToolResult.ToolUseID)
	}
}
