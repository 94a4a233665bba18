package diagnostics

import (
	"fmt"
	"strings"

	"advisor/pkg/triage"
)

// errorKeywords are the triggers that make a follow-up worth gating.
var errorKeywords = []string{"token", "cors", "delete", "network", "error", "fail"}

// selfVerifiedPhrases mean the user already ran their own checks, so
// asking them to confirm again would be noise. A bare "console shows"
// report is deliberately not on the list: it names where the user looked
// but still leaves the gate's options open.
var selfVerifiedPhrases = []string{
	"network tab shows",
	"returns null",
	"returns undefined",
	"header is missing",
	"header is present",
	"i checked",
	"i verified",
	"i confirmed",
}

// ShouldRequireConfirmation decides whether to show a confirmation gate.
// It fires only on follow-up turns (the history must contain both a user
// and an assistant marker), only when an error-related keyword appears in
// the combined text, and never when the user already says they checked.
func ShouldRequireConfirmation(userInput, conversationHistory string) bool {
	combined := strings.ToLower(userInput + " " + conversationHistory)
	history := strings.ToLower(conversationHistory)

	isFollowUp := strings.Contains(history, "user:") && strings.Contains(history, "assistant:")
	if !isFollowUp {
		return false
	}
	for _, phrase := range selfVerifiedPhrases {
		if strings.Contains(combined, phrase) {
			return false
		}
	}
	for _, keyword := range errorKeywords {
		if strings.Contains(combined, keyword) {
			return true
		}
	}
	return false
}

// ConfirmationGate renders the multiple-choice confirmation block for the
// conversation, or "" when no gate is warranted. The category precedence
// (token > cors > delete > network) comes from the shared triage result.
func ConfirmationGate(findings triage.Findings, userInput, conversationHistory string) string {
	if !ShouldRequireConfirmation(userInput, conversationHistory) {
		return ""
	}
	if findings.Category == triage.CategoryNone {
		return ""
	}

	gate, ok := kb().gates[string(findings.Category)]
	if !ok || len(gate.Options) == 0 {
		return ""
	}
	return formatGate(gate)
}

func formatGate(gate Gate) string {
	divider := strings.Repeat("=", 70)

	var b strings.Builder
	b.WriteString(gate.Message + "\n")
	b.WriteString(divider + "\n\n")
	b.WriteString(gate.Explanation + "\n\n")

	for _, option := range gate.Options {
		fmt.Fprintf(&b, "**[%s]** %s\n", option.ID, option.Description)
		fmt.Fprintf(&b, "    -> %s\n\n", option.Meaning)
	}

	b.WriteString(divider + "\n")
	b.WriteString("\nPlease reply with: A, B, C, or D\n")
	b.WriteString("\nThis confirmation helps provide the most accurate fix for your specific situation.\n")
	return b.String()
}
