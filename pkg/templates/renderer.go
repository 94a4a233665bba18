// Package templates renders the prompts sent to the language model. The
// prompt text lives in embedded .tpl.md files; this package only knows how
// to fill them in, never what the model answers.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed *.tpl.md
var templateFS embed.FS

// PromptTemplate identifies one embedded prompt template.
type PromptTemplate string

const (
	// DebugInstructionsTemplate is the standing instruction block that
	// opens every debug analysis prompt.
	DebugInstructionsTemplate PromptTemplate = "debug_instructions.tpl.md"
	// AnalysisTemplate is the prompt for a fresh bug report analysis.
	AnalysisTemplate PromptTemplate = "analysis.tpl.md"
	// FollowUpTemplate is the prompt for the turn after an investigation,
	// combining the original issue with the user's follow-up details.
	FollowUpTemplate PromptTemplate = "followup.tpl.md"
	// ErrorDirectiveTemplate is the stricter extract-the-exact-error-first
	// block prepended to follow-up prompts when an error message appeared.
	ErrorDirectiveTemplate PromptTemplate = "error_directive.tpl.md"
	// ArchitectTemplate is the architecture-advice reasoning prompt.
	ArchitectTemplate PromptTemplate = "architect.tpl.md"
)

// promptErrorKeywords mark a bug report as carrying concrete error details
// worth emphasizing in the prompt.
var promptErrorKeywords = []string{
	"error", "message", "console", "exception", "failed", "undefined",
	"null", "token", "cors", "network", "status", "code",
}

// ContainsErrorInfo reports whether text mentions specific error details.
func ContainsErrorInfo(text string) bool {
	lower := strings.ToLower(text)
	for _, keyword := range promptErrorKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// DebugData feeds the debug analysis templates.
type DebugData struct {
	UserInput           string
	CodeContext         string
	StabilityKeywords   []string
	EnvironmentKeywords []string
	HasErrorInfo        bool
	// Follow-up fields.
	OriginalIssue       string
	FollowUp            string
	ConversationHistory string
	ErrorDirective      string
}

// ArchitectData feeds the architect reasoning template.
type ArchitectData struct {
	UserRequest       string
	IncludeConfidence bool
	// PastRequests holds up to the last three prior requests, already
	// truncated for context injection.
	PastRequests []string
}

// Renderer loads and renders the embedded prompt templates.
type Renderer struct {
	root *template.Template
}

// NewRenderer parses all embedded templates.
func NewRenderer() (*Renderer, error) {
	root, err := template.New("prompts").Funcs(template.FuncMap{
		"join": strings.Join,
		"add1": func(i int) int { return i + 1 },
		"quoteList": func(items []string) string {
			quoted := make([]string, len(items))
			for i, item := range items {
				quoted[i] = "'" + item + "'"
			}
			return strings.Join(quoted, ", ")
		},
	}).ParseFS(templateFS, "*.tpl.md")
	if err != nil {
		return nil, fmt.Errorf("failed to parse prompt templates: %w", err)
	}
	return &Renderer{root: root}, nil
}

// Render renders the named template with the given data.
func (r *Renderer) Render(name PromptTemplate, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.root.ExecuteTemplate(&buf, string(name), data); err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", name, err)
	}
	return buf.String(), nil
}

// BuildAnalysisPrompt builds the prompt for a fresh bug report.
func (r *Renderer) BuildAnalysisPrompt(data *DebugData) (string, error) {
	data.HasErrorInfo = ContainsErrorInfo(data.UserInput)
	return r.Render(AnalysisTemplate, data)
}

// BuildFollowUpPrompt builds the prompt for the analysis turn that follows
// an investigation. The error directive, when set, is rendered between the
// report and the conversation history.
func (r *Renderer) BuildFollowUpPrompt(data *DebugData) (string, error) {
	combined := fmt.Sprintf("Original issue: %s\n\nFollow-up information: %s", data.OriginalIssue, data.FollowUp)
	data.UserInput = combined
	data.HasErrorInfo = ContainsErrorInfo(combined)
	return r.Render(FollowUpTemplate, data)
}

// BuildErrorDirective renders the extract-the-exact-error-first block.
func (r *Renderer) BuildErrorDirective() (string, error) {
	return r.Render(ErrorDirectiveTemplate, nil)
}

// BuildArchitectPrompt builds the architecture reasoning prompt.
func (r *Renderer) BuildArchitectPrompt(data *ArchitectData) (string, error) {
	return r.Render(ArchitectTemplate, data)
}
