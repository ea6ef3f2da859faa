package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildAnalysisPrompt(t *testing.T) {
	prompt := BuildAnalysisPrompt("segment body")

	assert.Contains(t, prompt, "TRADE_START")
	assert.Contains(t, prompt, "TRADE_END")
	assert.Contains(t, prompt, "GainLossSEK:")
	assert.Contains(t, prompt, "no thousands separators")
	assert.Contains(t, prompt, "segment body")

	// Same segment, same prompt.
	assert.Equal(t, prompt, BuildAnalysisPrompt("segment body"))
}
