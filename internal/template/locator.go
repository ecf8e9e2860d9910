// Package template parses charter party templates: it locates fillable
// placeholders, classifies the template family from boilerplate phrases,
// extracts structural metadata, and normalizes placeholder syntax.
package template

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fairlead/cpgen/internal/charter"
)

const (
	// DefaultContextRadius is the context window taken on each side of a
	// located placeholder.
	DefaultContextRadius = 50

	fieldConfidence = 0.8
)

// Locator finds fillable fields in template text.
type Locator struct {
	contextRadius int
}

// NewLocator returns a locator with the given context window radius.
// Non-positive radii fall back to the default.
func NewLocator(contextRadius int) *Locator {
	if contextRadius <= 0 {
		contextRadius = DefaultContextRadius
	}
	return &Locator{contextRadius: contextRadius}
}

// Parsed is the full result of parsing a template.
type Parsed struct {
	Text      string
	Family    Family
	Fields    []charter.TemplateField
	Structure Structure
	Clauses   []Clause
}

// Parse normalizes, classifies, locates, and structurally analyzes
// template text. Field spans index the normalized text returned in
// Parsed.Text, which is the text substitution operates on.
func (l *Locator) Parse(text string) (*Parsed, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &charter.ParseError{Source: "template", Reason: "template contains no text"}
	}
	text = Normalize(text)
	family := Classify(text)
	return &Parsed{
		Text:      text,
		Family:    family,
		Fields:    l.Locate(text, family),
		Structure: AnalyzeStructure(text),
		Clauses:   ExtractClauses(text),
	}, nil
}

// Locate runs the placeholder pattern tables over the template text and
// returns the accepted fields sorted by ascending start position. Overlap
// resolution is first-come-first-kept in declared field type order, with
// normalized {$name} markers scanned first so they always win. The family
// decides which fields are flagged required.
func (l *Locator) Locate(text string, family Family) []charter.TemplateField {
	lowered := asciiLower(text)
	required := requiredSet(family)

	var accepted []charter.TemplateField

	add := func(fieldType string, start, end int) {
		span := charter.Span{Start: start, End: end}
		for _, existing := range accepted {
			if span.Overlaps(existing.Span) {
				return
			}
		}
		accepted = append(accepted, charter.TemplateField{
			FieldType:  fieldType,
			Span:       span,
			Context:    contextWindow(text, span, l.contextRadius),
			Required:   required[fieldType],
			Confidence: fieldConfidence,
		})
	}

	for _, idx := range markerPattern.FindAllStringSubmatchIndex(lowered, -1) {
		add(lowered[idx[2]:idx[3]], idx[0], idx[1])
	}
	for _, rule := range fieldRules {
		for _, pattern := range rule.patterns {
			for _, idx := range pattern.FindAllStringIndex(lowered, -1) {
				add(rule.fieldType, idx[0], idx[1])
			}
		}
	}

	sort.SliceStable(accepted, func(i, j int) bool {
		return accepted[i].Span.Start < accepted[j].Span.Start
	})
	for i := range accepted {
		accepted[i].FieldID = fmt.Sprintf("field_%d", i+1)
	}
	return accepted
}

// Classify scans the full text case-insensitively for family boilerplate
// phrases and returns the first family with any hit, else FamilyUnknown.
// Classification only affects which fields are flagged required.
func Classify(text string) Family {
	lowered := strings.ToLower(text)
	for _, rule := range familyRules {
		for _, phrase := range rule.phrases {
			if strings.Contains(lowered, phrase) {
				return rule.family
			}
		}
	}
	return FamilyUnknown
}

// contextWindow clips a bounded window around the span to text bounds.
func contextWindow(text string, span charter.Span, radius int) string {
	start := span.Start - radius
	if start < 0 {
		start = 0
	}
	end := span.End + radius
	if end > len(text) {
		end = len(text)
	}
	return strings.TrimSpace(text[start:end])
}

// asciiLower lowercases A-Z only so match offsets index the original text.
func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
