package signals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectEmptyInput(t *testing.T) {
	report := Detect("")

	assert.False(t, report.CategoryA)
	assert.False(t, report.CategoryB)
	assert.Empty(t, report.Keywords())
	assert.False(t, report.ShouldInvestigate())
}

func TestDetectStabilitySignals(t *testing.T) {
	report := Detect("The login works fine but sometimes the page freezes")

	assert.True(t, report.CategoryA)
	assert.False(t, report.CategoryB)
	assert.Equal(t, []string{"works fine", "sometimes"}, report.AKeywords)
	assert.True(t, report.ShouldInvestigate())
}

func TestDetectEnvironmentSignals(t *testing.T) {
	report := Detect("It breaks on my iPhone in Safari")

	assert.False(t, report.CategoryA)
	assert.True(t, report.CategoryB)
	assert.Equal(t, []string{"iphone", "safari"}, report.BKeywords)
	assert.True(t, report.ShouldInvestigate())
}

func TestDetectBothCategoriesOrdered(t *testing.T) {
	report := Detect("it works on PC but breaks on iPhone Safari")

	require.True(t, report.CategoryA)
	require.True(t, report.CategoryB)

	// Combined keyword list puts stability matches before environment ones.
	keywords := report.Keywords()
	require.NotEmpty(t, keywords)
	assert.Contains(t, report.AKeywords, "works on")
	assert.Contains(t, report.BKeywords, "iphone")
	assert.Contains(t, report.BKeywords, "safari")
	assert.Equal(t, append(append([]string{}, report.AKeywords...), report.BKeywords...), keywords)
}

func TestDetectIsCaseInsensitive(t *testing.T) {
	report := Detect("ONLY WHEN I use FIREFOX")

	assert.Contains(t, report.AKeywords, "only when")
	assert.Contains(t, report.BKeywords, "firefox")
}

func TestDetectSubstringContainment(t *testing.T) {
	// No tokenization: "ios" matches inside a longer word.
	report := Detect("the biosphere exhibit page is blank")

	assert.True(t, report.CategoryB)
	assert.Contains(t, report.BKeywords, "ios")
}

func TestDetectNoSignals(t *testing.T) {
	report := Detect("please explain how the cache eviction is implemented")

	assert.False(t, report.ShouldInvestigate())
}
