// Package openaiofficial provides OpenAI client implementation using the official OpenAI Go package.
package openaiofficial

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"

	"advisor/pkg/agent/llm"
	"advisor/pkg/agent/llmerrors"
	"advisor/pkg/tools"
)

// OfficialClient wraps the official OpenAI Go client to implement llm.LLMClient interface.
type OfficialClient struct {
	client openai.Client
	model  string
}

// NewOfficialClientWithModel creates a new OpenAI client with specific model
// (raw client, middleware applied at higher level).
func NewOfficialClientWithModel(apiKey, model string) llm.LLMClient {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OfficialClient{
		client: client,
		model:  model,
	}
}

// convertPropertyToSchema recursively converts a Property to OpenAI schema format.
func convertPropertyToSchema(prop *tools.Property) map[string]interface{} {
	schema := map[string]interface{}{
		"type":        prop.Type,
		"description": prop.Description,
	}

	if len(prop.Enum) > 0 {
		schema["enum"] = prop.Enum
	}

	if prop.Type == "array" && prop.Items != nil {
		schema["items"] = convertPropertyToSchema(prop.Items)
	}

	if prop.Type == "object" && prop.Properties != nil {
		properties := make(map[string]interface{})
		for name := range prop.Properties {
			childProp := prop.Properties[name]
			properties[name] = convertPropertyToSchema(&childProp)
		}
		schema["properties"] = properties
	}

	return schema
}

// flattenMessages combines the conversation into a single input string for
// the Responses API. Assistant tool calls and their results are rendered as
// transcript lines so the model sees the full tool exchange.
func flattenMessages(messages []llm.CompletionMessage) string {
	var b strings.Builder
	for i := range messages {
		msg := &messages[i]
		switch msg.Role {
		case llm.RoleSystem:
			fmt.Fprintf(&b, "System: %s\n\n", msg.Content)
		case llm.RoleAssistant:
			if msg.Content != "" {
				fmt.Fprintf(&b, "Assistant: %s\n\n", msg.Content)
			}
			for j := range msg.ToolCalls {
				tc := &msg.ToolCalls[j]
				args, err := json.Marshal(tc.Parameters)
				if err != nil {
					args = []byte("{}")
				}
				fmt.Fprintf(&b, "Assistant called tool %s with arguments %s [call %s]\n\n", tc.Name, args, tc.ID)
			}
		default:
			for j := range msg.ToolResults {
				tr := &msg.ToolResults[j]
				fmt.Fprintf(&b, "Tool result [call %s]: %s\n\n", tr.ToolCallID, tr.Content)
			}
			if msg.Content != "" {
				b.WriteString(msg.Content)
			}
		}
	}
	return b.String()
}

// Complete implements the llm.LLMClient interface using the Responses API.
//
//nolint:gocritic // CompletionRequest passed by value matches interface
func (o *OfficialClient) Complete(ctx context.Context, in llm.CompletionRequest) (llm.CompletionResponse, error) {
	inputText := flattenMessages(in.Messages)

	params := responses.ResponseNewParams{
		Model:           o.model,
		MaxOutputTokens: openai.Int(int64(in.MaxTokens)),
		Input:           responses.ResponseNewParamsInputUnion{OfString: openai.String(inputText)},
	}

	if len(in.Tools) > 0 {
		toolParams := make([]responses.ToolUnionParam, len(in.Tools))
		for i := range in.Tools {
			tool := &in.Tools[i]
			properties := make(map[string]interface{})
			for name := range tool.InputSchema.Properties {
				prop := tool.InputSchema.Properties[name]
				properties[name] = convertPropertyToSchema(&prop)
			}

			toolParams[i] = responses.ToolUnionParam{
				OfFunction: &responses.FunctionToolParam{
					Name:        tool.Name,
					Description: openai.String(tool.Description),
					Parameters: openai.FunctionParameters(map[string]interface{}{
						"type":       "object",
						"properties": properties,
						"required":   tool.InputSchema.Required,
					}),
				},
			}
		}
		params.Tools = toolParams
	}

	resp, err := o.client.Responses.New(ctx, params)
	if err != nil {
		return llm.CompletionResponse{}, llmerrors.NewErrorWithCause(llmerrors.ErrorTypeUnknown, err, "OpenAI Responses API failed")
	}

	if resp == nil {
		return llm.CompletionResponse{}, llmerrors.NewError(llmerrors.ErrorTypeEmptyResponse, "empty response from OpenAI Responses API")
	}

	var toolCalls []llm.ToolCall
	for i := range resp.Output {
		item := &resp.Output[i]
		if item.Type != "function_call" {
			continue
		}

		funcItem := item.AsFunctionCall()
		var parameters map[string]interface{}
		if funcItem.Arguments != "" {
			if err := json.Unmarshal([]byte(funcItem.Arguments), &parameters); err != nil {
				continue
			}
		}

		toolCalls = append(toolCalls, llm.ToolCall{
			ID:         funcItem.ID,
			Name:       funcItem.Name,
			Parameters: parameters,
		})
	}

	return llm.CompletionResponse{
		Content:   resp.OutputText(),
		ToolCalls: toolCalls,
	}, nil
}

// GetModelName returns the model name for this client.
func (o *OfficialClient) GetModelName() string {
	return o.model
}
