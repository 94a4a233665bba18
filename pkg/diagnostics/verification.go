package diagnostics

import (
	"fmt"
	"strings"

	"advisor/pkg/triage"
)

// VerificationTests renders a short, timed test script the user can run
// immediately to confirm the diagnosis. Scripts exist for token issues on
// iOS Safari and Android Chrome and for CORS issues on any platform;
// everything else renders to "".
func VerificationTests(findings triage.Findings) string {
	script, ok := verificationScript(findings)
	if !ok || len(script.Steps) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[VERIFY] %s Verification Test (%s)\n\n", script.Duration, findings.Platform)
	for i, step := range script.Steps {
		fmt.Fprintf(&b, "%d. **%s**\n", i+1, step.Action)
		if step.Detail != "" {
			fmt.Fprintf(&b, "   %s\n", step.Detail)
		}
		if step.Command != "" {
			fmt.Fprintf(&b, "   Command: `%s`\n", step.Command)
		}
		if step.Expected != "" {
			fmt.Fprintf(&b, "   Expected: %s\n", step.Expected)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func verificationScript(findings triage.Findings) (VerificationScript, bool) {
	scripts := kb().verifications

	switch findings.Category {
	case triage.CategoryToken:
		switch findings.Platform {
		case triage.PlatformIOSSafari:
			script, ok := scripts["token_ios"]
			return script, ok
		case triage.PlatformAndroidChrome:
			script, ok := scripts["token_android"]
			return script, ok
		}
	case triage.CategoryCORS:
		script, ok := scripts["cors"]
		return script, ok
	}
	return VerificationScript{}, false
}
