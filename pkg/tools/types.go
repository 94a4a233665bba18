// Package tools provides the tool registry and the built-in tools the chat
// agent can call: PDF knowledge-base search, weather lookup, web scraping,
// and web search.
package tools

import "context"

// Property describes a single parameter in a tool's input schema.
type Property struct {
	Type        string              `json:"type"`
	Description string              `json:"description,omitempty"`
	Enum        []string            `json:"enum,omitempty"`
	Items       *Property           `json:"items,omitempty"`
	Properties  map[string]Property `json:"properties,omitempty"`
}

// InputSchema describes the JSON schema for a tool's arguments.
type InputSchema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties,omitempty"`
	Required   []string            `json:"required,omitempty"`
}

// ToolDefinition is the LLM-facing description of a tool.
type ToolDefinition struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	InputSchema InputSchema `json:"input_schema"`
}

// ExecResult is the outcome of a tool execution. Tools degrade gracefully:
// failures produce a readable fallback message with Success=false rather
// than an error, so the agent loop can keep going.
type ExecResult struct {
	Content string
	Success bool
}

// Tool is implemented by every callable tool.
type Tool interface {
	// Name returns the tool's identifier.
	Name() string
	// Definition returns the tool definition for the LLM.
	Definition() ToolDefinition
	// Exec executes the tool with the given arguments.
	Exec(ctx context.Context, args map[string]any) (*ExecResult, error)
}
