package generate

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairlead/cpgen/internal/charter"
)

func mapping(fieldType string, start, end int, value string) charter.FieldMapping {
	term := charter.ExtractedTerm{TermType: fieldType, Value: value, Confidence: 0.8}
	return charter.FieldMapping{
		Field: charter.TemplateField{
			FieldType: fieldType,
			Span:      charter.Span{Start: start, End: end},
		},
		Matched:    &term,
		Method:     charter.MethodDirect,
		Confidence: 0.8,
	}
}

func TestSubstituteReplacesAllSpans(t *testing.T) {
	original := "Vessel: [vessel name] Cargo: [cargo]"
	mappings := []charter.FieldMapping{
		mapping("vessel_name", 8, 21, "OCEAN STAR"),
		mapping("cargo", 29, 36, "iron ore"),
	}

	text, mods := Substitute(original, mappings)
	assert.Equal(t, "Vessel: OCEAN STAR Cargo: iron ore", text)
	require.Len(t, mods, 2)
	assert.Equal(t, "[vessel name]", mods[0].OldText)
	assert.Equal(t, "OCEAN STAR", mods[0].NewText)
}

func TestSubstituteLengthInvariant(t *testing.T) {
	original := strings.Repeat("x", 10) + "[a]" + strings.Repeat("y", 10) + "[bb]" + strings.Repeat("z", 10)
	mappings := []charter.FieldMapping{
		mapping("cargo", 10, 13, "longer value"),
		mapping("owner", 23, 27, "q"),
	}

	text, mods := Substitute(original, mappings)

	spanLen, valueLen := 0, 0
	for _, m := range mods {
		spanLen += m.Span.Len()
		valueLen += len(m.NewText)
	}
	assert.Equal(t, len(original)-spanLen+valueLen, len(text))
	assert.Equal(t, strings.Repeat("x", 10)+"longer value"+strings.Repeat("y", 10)+"q"+strings.Repeat("z", 10), text,
		"bytes outside replaced spans must be untouched")
}

func TestSubstituteModificationsSortedAscending(t *testing.T) {
	original := "[a]....[b]....[c]"
	mappings := []charter.FieldMapping{
		mapping("cargo", 14, 17, "three"),
		mapping("owner", 0, 3, "one"),
		mapping("vessel_name", 7, 10, "two"),
	}

	_, mods := Substitute(original, mappings)
	require.Len(t, mods, 3)
	assert.True(t, sort.SliceIsSorted(mods, func(i, j int) bool {
		return mods[i].Span.Start < mods[j].Span.Start
	}))
	assert.Equal(t, []string{"one", "two", "three"}, []string{mods[0].NewText, mods[1].NewText, mods[2].NewText})
}

func TestSubstituteSkipsUnfilledMappings(t *testing.T) {
	original := "Vessel: [vessel name]"
	mappings := []charter.FieldMapping{
		{Field: charter.TemplateField{FieldType: "vessel_name", Span: charter.Span{Start: 8, End: 21}}, Method: charter.MethodNone},
	}

	text, mods := Substitute(original, mappings)
	assert.Equal(t, original, text)
	assert.Empty(t, mods)
}

func TestSubstituteClampsSpanPastEnd(t *testing.T) {
	original := "short [x"
	text, mods := Substitute(original, []charter.FieldMapping{mapping("cargo", 6, 50, "wheat")})
	assert.Equal(t, "short wheat", text)
	require.Len(t, mods, 1)
	assert.Equal(t, "[x", mods[0].OldText)
}

func TestSubstituteDropsSpanBeyondText(t *testing.T) {
	original := "short"
	text, mods := Substitute(original, []charter.FieldMapping{mapping("cargo", 10, 15, "wheat")})
	assert.Equal(t, original, text)
	assert.Empty(t, mods)
}

func TestSubstituteEmptyMappings(t *testing.T) {
	text, mods := Substitute("unchanged", nil)
	assert.Equal(t, "unchanged", text)
	assert.Empty(t, mods)
}
