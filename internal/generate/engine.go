// Package generate fills charter party templates from mapped recap terms,
// renders the result in several output formats, validates the fill, and
// builds the change report.
package generate

import (
	"sort"

	"github.com/fairlead/cpgen/internal/charter"
)

// Substitute rewrites the template text by replacing each filled mapping's
// span with its matched value. Spans are processed in descending start
// order so a replacement never invalidates the offsets of spans still to
// be processed. The returned modification list is sorted ascending by
// original position for reporting.
func Substitute(original string, mappings []charter.FieldMapping) (string, []charter.Modification) {
	var filled []charter.FieldMapping
	for _, m := range mappings {
		if m.Filled() && m.Field.Span.Start < len(original) {
			filled = append(filled, m)
		}
	}

	sort.SliceStable(filled, func(i, j int) bool {
		return filled[i].Field.Span.Start > filled[j].Field.Span.Start
	})

	text := original
	modifications := make([]charter.Modification, 0, len(filled))
	for _, m := range filled {
		span := m.Field.Span
		end := span.End
		if end > len(text) {
			end = len(text)
		}
		modifications = append(modifications, charter.Modification{
			Span:       span,
			OldText:    text[span.Start:end],
			NewText:    m.Matched.Value,
			FieldType:  m.Field.FieldType,
			Confidence: m.Confidence,
		})
		text = text[:span.Start] + m.Matched.Value + text[end:]
	}

	sort.SliceStable(modifications, func(i, j int) bool {
		return modifications[i].Span.Start < modifications[j].Span.Start
	})
	return text, modifications
}
