// Package interaction builds the clarification round of an investigation:
// which questions to ask for the detected signals and how to present them.
// Everything here is a pure function of the signal report.
package interaction

import (
	"fmt"
	"strings"

	"advisor/pkg/signals"
)

// MandatoryQuestions are always asked, after any category-specific ones.
var MandatoryQuestions = []string{
	"What is the EXACT error message or behavior you see? (This is critical!)",
	"When exactly does the issue NOT work?",
	"Which device, OS, and browser are you using?",
	"What exact user interaction triggers the issue?",
}

var categoryAQuestions = []string{
	"Can you describe the specific conditions when it works vs. when it doesn't?",
	"Is there a pattern to when the issue occurs?",
}

var categoryBQuestions = []string{
	"Does this happen consistently on the same platform, or across multiple platforms?",
	"Have you tested this on different browsers or devices?",
}

// Questions returns the ordered clarification list for a signal report:
// category-specific questions first, the four mandatory questions last.
func Questions(report signals.Report) []string {
	var questions []string
	if report.CategoryA {
		questions = append(questions, categoryAQuestions...)
	}
	if report.CategoryB {
		questions = append(questions, categoryBQuestions...)
	}
	questions = append(questions, MandatoryQuestions...)
	return questions
}

// FormatInvestigation renders the investigation-mode message shown to the
// user: matched signals, what they suggest, and the numbered questions.
func FormatInvestigation(report signals.Report, questions []string) string {
	var b strings.Builder
	b.WriteString("[INVESTIGATION] Investigation Mode Activated\n\n")

	if keywords := report.Keywords(); len(keywords) > 0 {
		b.WriteString("I detected these signals in your description:\n")
		for _, keyword := range keywords {
			fmt.Fprintf(&b, "  * '%s'\n", keyword)
		}
		b.WriteString("\n")
	}

	b.WriteString("This suggests the core logic might be correct, and the issue could be related to:\n")
	if report.CategoryA {
		b.WriteString("  * Specific triggering conditions or timing\n")
	}
	if report.CategoryB {
		b.WriteString("  * Platform or environment-specific behavior\n")
	}

	b.WriteString("\n**Before analyzing the code, please help me understand:**\n\n")
	for i, question := range questions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, question)
	}

	b.WriteString("\nThis will help me provide a more accurate solution without unnecessary refactoring.")
	return b.String()
}
