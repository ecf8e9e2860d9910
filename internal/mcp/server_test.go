package mcp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairlead/cpgen/internal/charter"
)

func TestRecapSummaryDeterministicOrder(t *testing.T) {
	terms := map[string]charter.ExtractedTerm{
		"vessel":  {TermType: "vessel", Value: "OCEAN STAR", Confidence: 0.8, Source: charter.SourceRegex},
		"cargo":   {TermType: "cargo", Value: "iron ore", Confidence: 0.8, Source: charter.SourceRegex},
		"freight": {TermType: "freight", Value: "USD 25.50", Confidence: 0.8, Source: charter.SourceRegex},
		"laycan":  {TermType: "laycan", Value: "15/03/2024", Confidence: 0.8, Source: charter.SourceNER},
	}

	first := recapSummary("recap.txt", terms)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, recapSummary("recap.txt", terms),
			"repeated invocations must render identically")
	}

	lines := strings.Split(strings.TrimSpace(first), "\n")
	require.Len(t, lines, 6, "header, blank separator, one line per term")
	assert.Contains(t, lines[0], "Extracted 4 commercial terms")
	assert.True(t, strings.HasPrefix(lines[2], "cargo:"))
	assert.True(t, strings.HasPrefix(lines[3], "freight:"))
	assert.True(t, strings.HasPrefix(lines[4], "laycan:"))
	assert.True(t, strings.HasPrefix(lines[5], "vessel:"))
}

func TestRecapSummaryEmpty(t *testing.T) {
	summary := recapSummary("empty.txt", nil)
	assert.Contains(t, summary, "Extracted 0 commercial terms")
}
