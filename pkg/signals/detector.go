// Package signals detects stability and environment signals in bug reports.
// The detector is the first gate in the debug flow: when a report hints that
// the code works somewhere (stability) or mentions a platform (environment),
// the debug agent asks clarifying questions instead of jumping to analysis.
package signals

import "strings"

// CategoryASignals are stability phrases: the code works under some
// conditions, so the core logic is probably correct.
var CategoryASignals = []string{
	"works well",
	"works fine",
	"mostly works",
	"sometimes",
	"intermittent",
	"only when",
	"works on",
	"works in",
	"doesn't work on",
	"does not work on",
}

// CategoryBSignals are environment phrases: a platform, browser, or device
// is involved, pointing away from a pure logic error.
var CategoryBSignals = []string{
	"on pc",
	"on mobile",
	"on my pc",
	"on my mobile",
	"on desktop",
	"on phone",
	"browser",
	"android",
	"ios",
	"iphone",
	"safari",
	"chrome",
	"firefox",
	"tab out",
	"tab in",
	"focus",
	"blur",
	"device",
	"platform",
}

// Report holds the outcome of a signal scan over one message.
type Report struct {
	// CategoryA is true when at least one stability phrase matched.
	CategoryA bool
	// CategoryB is true when at least one environment phrase matched.
	CategoryB bool
	// AKeywords and BKeywords list the matched phrases per category in
	// list order (the order the keyword tables declare them).
	AKeywords []string
	BKeywords []string
}

// Keywords returns all matched phrases, Category A first.
func (r Report) Keywords() []string {
	out := make([]string, 0, len(r.AKeywords)+len(r.BKeywords))
	out = append(out, r.AKeywords...)
	out = append(out, r.BKeywords...)
	return out
}

// ShouldInvestigate reports whether the debug agent should enter
// investigation mode instead of analyzing immediately.
func (r Report) ShouldInvestigate() bool {
	return r.CategoryA || r.CategoryB
}

// Detect scans user input for stability and environment signals.
// Matching is case-insensitive substring containment with no tokenization,
// so short keywords match inside longer words ("ios" matches "biosphere").
// Empty input yields an all-false report.
func Detect(userInput string) Report {
	lower := strings.ToLower(userInput)

	var report Report
	for _, phrase := range CategoryASignals {
		if strings.Contains(lower, phrase) {
			report.AKeywords = append(report.AKeywords, phrase)
		}
	}
	for _, phrase := range CategoryBSignals {
		if strings.Contains(lower, phrase) {
			report.BKeywords = append(report.BKeywords, phrase)
		}
	}
	report.CategoryA = len(report.AKeywords) > 0
	report.CategoryB = len(report.BKeywords) > 0
	return report
}
