package tools

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"advisor/pkg/embedding"
	"advisor/pkg/logx"
	"advisor/pkg/persistence"
)

// ToolPDFSearch is the constant name for the knowledge base search tool.
const ToolPDFSearch = "pdf_search"

const pdfSearchFallback = "The knowledge base search is unavailable right now. Answer from general knowledge and say so."

// AnswerFunc turns a question plus retrieved context into a final answer.
// Injected by the chat layer so this package stays free of LLM imports.
type AnswerFunc func(ctx context.Context, question, passages string) (string, error)

// PDFSearchTool answers questions from the ingested PDF knowledge base:
// embed the query, retrieve the closest chunks, then synthesize an answer.
type PDFSearchTool struct {
	db       *sql.DB
	embedder embedding.Embedder
	answer   AnswerFunc
	topK     int
	logger   *logx.Logger
}

// NewPDFSearchTool creates a knowledge base search tool.
func NewPDFSearchTool(db *sql.DB, embedder embedding.Embedder, answer AnswerFunc, topK int) *PDFSearchTool {
	if topK <= 0 {
		topK = 4
	}
	return &PDFSearchTool{
		db:       db,
		embedder: embedder,
		answer:   answer,
		topK:     topK,
		logger:   logx.NewLogger("pdf_search"),
	}
}

// Name returns the tool name.
func (t *PDFSearchTool) Name() string {
	return ToolPDFSearch
}

// Definition returns the tool definition for LLM.
func (t *PDFSearchTool) Definition() ToolDefinition {
	return ToolDefinition{
		Name: ToolPDFSearch,
		Description: "Search the ingested PDF documents for information relevant to a question. " +
			"Use this for any question that could be answered by the loaded documentation.",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"query": {
					Type:        "string",
					Description: "The question to answer from the documents",
				},
			},
			Required: []string{"query"},
		},
	}
}

// Exec runs the retrieval pipeline. Failures degrade to a fallback message
// rather than an error so the calling agent can keep the conversation going.
func (t *PDFSearchTool) Exec(ctx context.Context, args map[string]any) (*ExecResult, error) {
	query, ok := args["query"].(string)
	if !ok || strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query is required and must be a string")
	}

	vector, err := t.embedder.Embed(ctx, query)
	if err != nil {
		t.logger.Warn("query embedding failed: %v", err)
		return &ExecResult{Content: pdfSearchFallback, Success: false}, nil
	}

	scored, err := persistence.SearchSimilar(ctx, t.db, vector, t.topK)
	if err != nil {
		t.logger.Warn("similarity search failed: %v", err)
		return &ExecResult{Content: pdfSearchFallback, Success: false}, nil
	}
	if len(scored) == 0 {
		return &ExecResult{
			Content: "No relevant passages were found in the knowledge base for this question.",
			Success: false,
		}, nil
	}

	var sb strings.Builder
	for i, sc := range scored {
		sb.WriteString(fmt.Sprintf("[Passage %d]\n%s\n\n", i+1, sc.Content))
	}

	answer, err := t.answer(ctx, query, sb.String())
	if err != nil {
		t.logger.Warn("answer synthesis failed: %v", err)
		return &ExecResult{Content: pdfSearchFallback, Success: false}, nil
	}

	return &ExecResult{Content: answer, Success: true}, nil
}
