package debugagent

import "advisor/pkg/signals"

// Mode tags which variant of a Result is populated.
type Mode string

const (
	// ModeInvestigation means the agent is asking clarifying questions
	// and no model call should happen this turn.
	ModeInvestigation Mode = "INVESTIGATION"
	// ModeAnalysis means the agent produced a prompt for the model.
	ModeAnalysis Mode = "ANALYSIS"
)

// Result is the outcome of one Handle call. Exactly one of Investigation
// and Analysis is non-nil, matching Mode.
type Result struct {
	Mode          Mode
	Investigation *Investigation
	Analysis      *Analysis
}

// Investigation carries the clarification round for the user.
type Investigation struct {
	Questions         []string
	FormattedResponse string
	Report            signals.Report
}

// Analysis carries the model prompt and any diagnostic sections. A section
// that did not apply is the empty string and should be omitted from
// output, not treated as an error.
type Analysis struct {
	Prompt string
	// Report is set on fresh analyses; nil on post-investigation turns.
	Report *signals.Report

	InspectionChecklist string
	VerificationTests   string
	RootCauseScores     string
	FixStrategies       string
	ConfirmationGate    string
}

// Sections returns the non-empty diagnostic sections in display order.
func (a *Analysis) Sections() []string {
	var sections []string
	for _, s := range []string{
		a.RootCauseScores,
		a.InspectionChecklist,
		a.VerificationTests,
		a.FixStrategies,
		a.ConfirmationGate,
	} {
		if s != "" {
			sections = append(sections, s)
		}
	}
	return sections
}
