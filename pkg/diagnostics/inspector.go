package diagnostics

import (
	"fmt"
	"strings"

	"advisor/pkg/triage"
)

// InspectionChecklist renders the code inspection checklist for the given
// findings. Token and auth issues get the token steps (plus an extra iOS
// storage check on iOS Safari), CORS issues get the CORS steps, and
// network issues get the network steps. A bare "request" mention also
// selects the network steps when nothing higher-priority matched, because
// inspecting request headers is useful for any failing request. Returns ""
// when no table applies.
func InspectionChecklist(findings triage.Findings) string {
	steps := inspectionSteps(findings)
	if len(steps) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("[INSPECTION] Code Inspection Checklist\n\n")
	for i, step := range steps {
		fmt.Fprintf(&b, "%d. **%s**\n", i+1, step.File)
		fmt.Fprintf(&b, "   - Check: %s\n", step.Check)
		if step.Command != "" {
			fmt.Fprintf(&b, "   - Command/Test: `%s`\n", step.Command)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func inspectionSteps(findings triage.Findings) []InspectionStep {
	tables := kb().inspections

	switch findings.Category {
	case triage.CategoryToken:
		steps := append([]InspectionStep{}, tables["token"]...)
		if findings.Platform == triage.PlatformIOSSafari {
			steps = append(steps, tables["token_ios_extra"]...)
		}
		return steps
	case triage.CategoryCORS:
		return tables["cors"]
	case triage.CategoryNetwork:
		return tables["network"]
	case triage.CategoryDelete, triage.CategoryNone:
		// Delete failures are usually failing requests underneath, so a
		// network or request mention still earns the network checklist.
		if findings.Mentions.Network || findings.Mentions.Request {
			return tables["network"]
		}
	}
	return nil
}
