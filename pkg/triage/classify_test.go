package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyPriorityOrder(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Category
	}{
		{"token beats cors", "getting a CORS error and the token is missing", CategoryToken},
		{"auth counts as token", "the auth header is rejected", CategoryToken},
		{"cors beats delete", "CORS failure when I delete an item", CategoryCORS},
		{"delete beats network", "delete call fails, maybe a network problem", CategoryDelete},
		{"network alone", "looks like a network problem", CategoryNetwork},
		{"no category", "the page renders twice", CategoryNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.text, "")
			assert.Equal(t, tt.want, got.Category)
		})
	}
}

func TestClassifyPlatform(t *testing.T) {
	assert.Equal(t, PlatformIOSSafari, Classify("broken on iphone", "").Platform)
	assert.Equal(t, PlatformIOSSafari, Classify("", "user: safari shows nothing").Platform)
	assert.Equal(t, PlatformAndroidChrome, Classify("works on android only", "").Platform)
	assert.Equal(t, PlatformDesktop, Classify("broken in my editor", "").Platform)

	// iOS wins over Android when both are present.
	assert.Equal(t, PlatformIOSSafari, Classify("works on android, fails on ios", "").Platform)
}

func TestClassifyUsesHistory(t *testing.T) {
	got := Classify("still broken", "user: the token is never attached")

	assert.Equal(t, CategoryToken, got.Category)
	assert.True(t, got.Mentions.Token)
}

func TestClassifyMentionsOverlap(t *testing.T) {
	got := Classify("token missing, CORS error in console, network tab empty", "")

	assert.Equal(t, CategoryToken, got.Category)
	assert.True(t, got.Mentions.Token)
	assert.True(t, got.Mentions.CORS)
	assert.True(t, got.Mentions.Network)
	assert.False(t, got.Mentions.Delete)
}
