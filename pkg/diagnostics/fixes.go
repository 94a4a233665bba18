package diagnostics

import (
	"fmt"
	"strings"

	"advisor/pkg/triage"
)

// FixStrategies renders the fix options for the conversation. Strategy
// tables exist for token storage on iOS Safari, CORS, and delete requests.
// A token issue off iOS has no table: storage advice there would be
// platform guesswork, so the section is omitted. Selection keys off raw
// keyword mentions (token, then cors, then delete) because an auth-only
// conversation has no strategy table either. Returns "" on a miss.
func FixStrategies(findings triage.Findings) string {
	strategies := fixStrategies(findings)
	if len(strategies) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("[SOLUTIONS] Fix Strategy Options\n\n")
	b.WriteString("Choose the approach that best fits your requirements:\n\n")

	divider := strings.Repeat("=", 60)
	for _, strategy := range strategies {
		fmt.Fprintf(&b, "%s\n%s\n%s\n\n", divider, strategy.Name, divider)
		fmt.Fprintf(&b, "**Description:** %s\n\n", strategy.Description)

		b.WriteString("**Pros:**\n")
		for _, pro := range strategy.Pros {
			fmt.Fprintf(&b, "  + %s\n", pro)
		}
		b.WriteString("\n**Cons:**\n")
		for _, con := range strategy.Cons {
			fmt.Fprintf(&b, "  - %s\n", con)
		}
		b.WriteString("\n")

		if strategy.Hint != "" {
			fmt.Fprintf(&b, "**Implementation Hint:**\n```\n%s\n```\n\n", strategy.Hint)
		}
	}
	return b.String()
}

func fixStrategies(findings triage.Findings) []FixStrategy {
	tables := kb().strategies
	m := findings.Mentions

	switch {
	case m.Token:
		if findings.Platform == triage.PlatformIOSSafari {
			return tables["token_ios"]
		}
		return nil
	case m.CORS:
		return tables["cors"]
	case m.Delete:
		return tables["delete"]
	}
	return nil
}
