package openaiofficial

import (
	"strings"
	"testing"

	"advisor/pkg/agent/llm"
)

// TestFlattenMessagesToolExchange checks that a full tool round trip shows
// up in the flattened transcript instead of being dropped.
func TestFlattenMessagesToolExchange(t *testing.T) {
	messages := []llm.CompletionMessage{
		{Role: llm.RoleSystem, Content: "You are helpful"},
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

	out := flattenMessages(messages)

	for _, want := range []string{
		"System: You are helpful",
		"what is the weather in Paris?",
		"Assistant called tool get_weather",
		`{"city":"Paris"}`,
		"[call call_1]",
		"Tool result [call call_1]: Paris: sunny +22C",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("flattened transcript missing %q:\n%s", want, out)
		}
	}

	// The tool-call-only assistant turn must not leave an empty line.
	if strings.Contains(out, "Assistant: \n") {
		t.Errorf("empty assistant line in transcript:\n%s", out)
	}
}

func TestFlattenMessagesPlainConversation(t *testing.T) {
	out := flattenMessages([]llm.CompletionMessage{
		{Role: llm.RoleSystem, Content: "Be brief"},
		{Role: llm.RoleUser, Content: "hello"},
		{Role: llm.RoleAssistant, Content: "hi there"},
		{Role: llm.RoleUser, Content: "how are you?"},
	})

	want := "System: Be brief\n\nhelloAssistant: hi there\n\nhow are you?"
	if out != want {
		t.Errorf("flattened transcript = %q, want %q", out, want)
	}
}
