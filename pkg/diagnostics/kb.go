// Package diagnostics turns a triage result into hand-authored diagnostic
// output: inspection checklists, verification test scripts, weighted
// root-cause scores, fix strategies, and confirmation gates. The domain
// knowledge lives in static YAML tables embedded at build time; nothing in
// this package creates or mutates an entry at runtime. A classification
// that matches no table renders to an empty string, and callers omit the
// section rather than treating it as an error.
package diagnostics

import (
	"embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed kb/*.yaml
var kbFS embed.FS

// InspectionStep is one entry of a code inspection checklist.
type InspectionStep struct {
	File    string `yaml:"file"`
	Check   string `yaml:"check"`
	Command string `yaml:"command,omitempty"`
}

// VerificationStep is one action in a timed verification script.
type VerificationStep struct {
	Action   string `yaml:"action"`
	Detail   string `yaml:"detail,omitempty"`
	Command  string `yaml:"command,omitempty"`
	Expected string `yaml:"expected,omitempty"`
}

// VerificationScript is a short test run the user can perform right now.
type VerificationScript struct {
	Duration string             `yaml:"duration"`
	Steps    []VerificationStep `yaml:"steps"`
}

// RootCause pairs a cause description with its hand-assigned weight.
type RootCause struct {
	Cause  string  `yaml:"cause"`
	Weight float64 `yaml:"weight"`
}

// FixStrategy is one fix option with trade-offs spelled out.
type FixStrategy struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Pros        []string `yaml:"pros"`
	Cons        []string `yaml:"cons"`
	Hint        string   `yaml:"hint,omitempty"`
}

// GateOption is one choice in a confirmation gate.
type GateOption struct {
	ID          string `yaml:"id"`
	Description string `yaml:"description"`
	Meaning     string `yaml:"meaning"`
}

// Gate is a multiple-choice confirmation block shown before fixes.
type Gate struct {
	Message     string       `yaml:"message"`
	Explanation string       `yaml:"explanation"`
	Options     []GateOption `yaml:"options"`
}

type knowledgeBase struct {
	inspections   map[string][]InspectionStep
	verifications map[string]VerificationScript
	rootCauses    map[string][]RootCause
	strategies    map[string][]FixStrategy
	gates         map[string]Gate
}

var (
	kbOnce sync.Once
	kbData *knowledgeBase
	kbErr  error
)

// kb loads the embedded tables once. A parse failure here means the binary
// shipped with broken data files, so callers panic instead of returning an
// error through every generator signature.
func kb() *knowledgeBase {
	kbOnce.Do(func() {
		kbData, kbErr = loadKB()
	})
	if kbErr != nil {
		panic(fmt.Sprintf("diagnostics: embedded knowledge base is invalid: %v", kbErr))
	}
	return kbData
}

func loadKB() (*knowledgeBase, error) {
	base := &knowledgeBase{}

	if err := loadYAML("kb/inspections.yaml", &base.inspections); err != nil {
		return nil, err
	}
	if err := loadYAML("kb/verifications.yaml", &base.verifications); err != nil {
		return nil, err
	}
	var causes struct {
		Scenarios map[string][]RootCause `yaml:"scenarios"`
	}
	if err := loadYAML("kb/rootcauses.yaml", &causes); err != nil {
		return nil, err
	}
	base.rootCauses = causes.Scenarios
	if err := loadYAML("kb/strategies.yaml", &base.strategies); err != nil {
		return nil, err
	}
	if err := loadYAML("kb/gates.yaml", &base.gates); err != nil {
		return nil, err
	}

	return base, nil
}

func loadYAML(name string, dest any) error {
	raw, err := kbFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}
