package charter

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpanOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Span
		want bool
	}{
		{"partial overlap", Span{0, 10}, Span{5, 15}, true},
		{"containment", Span{0, 10}, Span{2, 4}, true},
		{"identical", Span{3, 7}, Span{3, 7}, true},
		{"adjacent", Span{0, 10}, Span{10, 20}, false},
		{"disjoint", Span{0, 5}, Span{8, 12}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a), "overlap is symmetric")
		})
	}
}

func TestSpanLen(t *testing.T) {
	assert.Equal(t, 13, Span{Start: 8, End: 21}.Len())
	assert.Zero(t, Span{Start: 5, End: 5}.Len())
}

func TestFieldMappingFilled(t *testing.T) {
	assert.False(t, FieldMapping{Method: MethodNone}.Filled())
	assert.False(t, FieldMapping{Matched: &ExtractedTerm{}}.Filled(), "empty value is not a fill")
	assert.True(t, FieldMapping{Matched: &ExtractedTerm{Value: "OCEAN STAR"}}.Filled())
}

func TestChangeReportJSONShape(t *testing.T) {
	report := ChangeReport{
		GenerationSummary: GenerationSummary{TemplateFile: "gencon.txt"},
		ExtractedTerms:    map[string]string{"vessel": "OCEAN STAR"},
		MappedFields:      []MappedField{},
		ChangesMade:       []Change{},
		CompletenessScore: 1,
		IsValid:           true,
	}

	data, err := json.Marshal(report)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	for _, key := range []string{
		"generation_summary", "extracted_terms", "mapped_fields", "changes_made",
		"completeness_score", "confidence_score", "is_valid", "processing_notes",
	} {
		assert.Containsf(t, decoded, key, "key %s", key)
	}
	assert.NotContains(t, decoded, "errors", "empty error list is omitted")
}
