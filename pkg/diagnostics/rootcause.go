package diagnostics

import (
	"fmt"
	"sort"
	"strings"

	"advisor/pkg/triage"
)

// Confidence tier thresholds for the rendered labels.
const (
	tierVeryHigh = 0.6
	tierHigh     = 0.5
	tierMedium   = 0.25
)

const barWidth = 20

// RootCauseScores ranks likely root causes for the conversation. Unlike
// the other generators this is not first-match-wins: several scenario
// blocks can fire for the same conversation, and their weights are
// hand-assigned opinions that need not sum to 1. Causes are rendered in
// descending weight order with a percentage, a bar, and a tier label.
// Returns "" when no scenario applies.
func RootCauseScores(findings triage.Findings) string {
	causes := rootCauses(findings)
	if len(causes) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("[ANALYSIS] Root Cause Likelihood\n\n")
	for _, rc := range causes {
		percentage := int(rc.Weight * 100)
		filled := int(rc.Weight * barWidth)
		bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

		var label string
		switch {
		case rc.Weight >= tierVeryHigh:
			label = "VERY HIGH"
		case rc.Weight >= tierHigh:
			label = "HIGH"
		case rc.Weight >= tierMedium:
			label = "MEDIUM"
		default:
			label = "LOW"
		}

		fmt.Fprintf(&b, "[%s] %s %d%%\n", center(label, 9), bar, percentage)
		fmt.Fprintf(&b, "          %s\n\n", rc.Cause)
	}
	b.WriteString("\nRecommendation: Start investigation with the highest confidence items.\n")
	return b.String()
}

// rootCauses accumulates every scenario block whose condition holds.
// The token scenarios are mutually exclusive (iOS-specific beats generic),
// the delete block is a fallback that only fires when nothing else did.
func rootCauses(findings triage.Findings) []RootCause {
	scenarios := kb().rootCauses
	m := findings.Mentions

	var causes []RootCause
	switch {
	case m.Token && m.IOSSafari():
		causes = append(causes, scenarios["token_ios"]...)
	case m.Token:
		causes = append(causes, scenarios["token"]...)
	}

	// The works-on-Android scenario needs both platforms named plus an
	// assertion that it works somewhere.
	if m.IOSSafari() && m.Android && m.Works {
		causes = append(causes, scenarios["works_on_android"]...)
	}
	if m.CORS {
		causes = append(causes, scenarios["cors"]...)
	}
	if m.Network || (m.Request && m.Fail) {
		causes = append(causes, scenarios["network"]...)
	}
	if m.Delete && len(causes) == 0 {
		causes = append(causes, scenarios["delete_fallback"]...)
	}

	sort.SliceStable(causes, func(i, j int) bool {
		return causes[i].Weight > causes[j].Weight
	})
	return causes
}

// center pads s with spaces to width, splitting the slack evenly.
func center(s string, width int) string {
	if len(s) >= width {
		return s
	}
	left := (width - len(s)) / 2
	right := width - len(s) - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}
