// Package triage classifies conversation text into a coarse issue category
// and platform. Every diagnostic generator consumes one shared Findings
// value instead of re-deriving the category from raw text, so two
// generators can never disagree about what kind of issue they are
// describing.
package triage

import "strings"

// Category is the coarse issue class used to key the diagnostic tables.
type Category string

const (
	CategoryNone    Category = ""
	CategoryToken   Category = "token"
	CategoryCORS    Category = "cors"
	CategoryDelete  Category = "delete"
	CategoryNetwork Category = "network"
)

// Platform identifies where the issue reproduces.
type Platform string

const (
	PlatformDesktop       Platform = "Desktop Browser"
	PlatformIOSSafari     Platform = "iOS Safari"
	PlatformAndroidChrome Platform = "Android Chrome"
)

// Mentions records which trigger keywords appeared anywhere in the combined
// text. The root-cause scorer needs these raw flags because its scenarios
// overlap: a single conversation can score token causes and CORS causes at
// the same time.
type Mentions struct {
	Token   bool
	Auth    bool
	CORS    bool
	Delete  bool
	Network bool
	Request bool
	Fail    bool
	Works   bool
	IOS     bool
	IPhone  bool
	Safari  bool
	Android bool
}

// Findings is the shared classification result for one conversation.
type Findings struct {
	// Category is the primary issue class, chosen first-match-wins in the
	// order token/auth > cors > delete > network.
	Category Category
	Platform Platform
	Mentions Mentions
}

// TokenOrAuth reports whether the text mentioned token or auth keywords.
func (m Mentions) TokenOrAuth() bool { return m.Token || m.Auth }

// IOSSafari reports whether the text pointed at iOS or Safari.
func (m Mentions) IOSSafari() bool { return m.IOS || m.Safari }

// Classify scans the combined user input and conversation history.
// Matching is case-insensitive substring containment, consistent with the
// signal detector.
func Classify(userInput, conversationHistory string) Findings {
	combined := strings.ToLower(userInput + " " + conversationHistory)

	m := Mentions{
		Token:   strings.Contains(combined, "token"),
		Auth:    strings.Contains(combined, "auth"),
		CORS:    strings.Contains(combined, "cors"),
		Delete:  strings.Contains(combined, "delete"),
		Network: strings.Contains(combined, "network"),
		Request: strings.Contains(combined, "request"),
		Fail:    strings.Contains(combined, "fail"),
		Works:   strings.Contains(combined, "works"),
		IOS:     strings.Contains(combined, "ios"),
		IPhone:  strings.Contains(combined, "iphone"),
		Safari:  strings.Contains(combined, "safari"),
		Android: strings.Contains(combined, "android"),
	}

	findings := Findings{Mentions: m, Platform: PlatformDesktop}

	// Priority order is intentional: token beats cors beats delete beats
	// network when several keywords appear in the same conversation.
	switch {
	case m.Token || m.Auth:
		findings.Category = CategoryToken
	case m.CORS:
		findings.Category = CategoryCORS
	case m.Delete:
		findings.Category = CategoryDelete
	case m.Network:
		findings.Category = CategoryNetwork
	}

	switch {
	case m.IOS || m.IPhone || m.Safari:
		findings.Platform = PlatformIOSSafari
	case m.Android:
		findings.Platform = PlatformAndroidChrome
	}

	return findings
}
