package chat

import (
	"context"
	"fmt"

	"advisor/pkg/agent/llm"
	"advisor/pkg/tools"
)

const ragPromptFormat = `Use the following passages from the document to answer the question. If the answer is not in the passages, say that you don't know; do not make up an answer.

%s
Question: %s

Answer:`

// NewAnswerFunc returns the answer synthesizer the pdf_search tool uses to
// turn retrieved passages into a final answer.
func NewAnswerFunc(client llm.LLMClient) tools.AnswerFunc {
	return func(ctx context.Context, question, passages string) (string, error) {
		req := llm.NewCompletionRequest([]llm.CompletionMessage{
			llm.NewUserMessage(fmt.Sprintf(ragPromptFormat, passages, question)),
		})
		req.Temperature = llm.TemperatureAnalysis

		resp, err := client.Complete(ctx, req)
		if err != nil {
			return "", err
		}
		return resp.Content, nil
	}
}
