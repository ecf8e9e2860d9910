package recap

import (
	"regexp"
	"strings"

	"github.com/fairlead/cpgen/internal/charter"
)

const entityConfidence = 0.8

// Entity is a named-entity style span found by the rule-based recognizer.
type Entity struct {
	Text       string
	Label      string
	Confidence float64
	Span       charter.Span
}

// entityRule pairs an entity label with its detection patterns. Rules run
// against the original (cased) text since capitalization is the signal for
// organization and place names.
type entityRule struct {
	label    string
	patterns []*regexp.Regexp
}

var entityRules = []entityRule{
	{
		label: "ORG",
		patterns: compile(
			`[A-Z][A-Za-z&.-]+(?:\s+[A-Z][A-Za-z&.-]+)*\s+(?:Ltd|Limited|Inc|Corp|Corporation|Co|GmbH|SA|Shipping|Maritime|Chartering|Trading)\.?`,
		),
	},
	{
		label: "GPE",
		patterns: compile(
			`(?:port\s+of|from|to|at)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)`,
		),
	},
	{
		label: "MONEY",
		patterns: compile(
			`(?i)(?:usd?|us\$|\$)\s?[\d,]+(?:\.\d+)?`,
		),
	},
	{
		label: "DATE",
		patterns: compile(
			`\d{1,2}[-/]\d{1,2}[-/]\d{2,4}`,
			`(?i)\d{1,2}\s+(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\s+\d{2,4}`,
		),
	},
	{
		label: "PRODUCT",
		patterns: compile(
			`(?i)\b(?:iron\s+ore|coal|grain|wheat|corn|soybeans?|bauxite|alumina|fertilizer|cement|steel|crude\s+oil|naphtha|gasoil)\b`,
		),
	},
}

// entityTermTypes maps entity labels into the term type vocabulary.
// Organizations read as charterer-like parties, places as load ports,
// money amounts as freight, dates as laycan, products as cargo.
var entityTermTypes = map[string]string{
	"ORG":     "charterer",
	"GPE":     "load_port",
	"MONEY":   "freight",
	"DATE":    "laycan",
	"PRODUCT": "cargo",
}

// RecognizeEntities runs the rule-based recognizer over recap text.
func RecognizeEntities(text string) []Entity {
	var entities []Entity
	for _, rule := range entityRules {
		for _, pattern := range rule.patterns {
			for _, idx := range pattern.FindAllStringSubmatchIndex(text, -1) {
				start, end := idx[0], idx[1]
				// Prefer the capturing group when the pattern anchors on a
				// lead-in phrase.
				if len(idx) >= 4 && idx[2] >= 0 {
					start, end = idx[2], idx[3]
				}
				entities = append(entities, Entity{
					Text:       text[start:end],
					Label:      rule.label,
					Confidence: entityConfidence,
					Span:       charter.Span{Start: start, End: end},
				})
			}
		}
	}
	return entities
}

// AugmentWithEntities fills term types the regex pass missed. An entity is
// only accepted for a term type with no regex-extracted term; regex output
// always wins.
func AugmentWithEntities(terms map[string]charter.ExtractedTerm, entities []Entity) {
	for _, entity := range entities {
		termType, ok := entityTermTypes[entity.Label]
		if !ok {
			continue
		}
		if _, exists := terms[termType]; exists {
			continue
		}
		value := strings.TrimSpace(entity.Text)
		if value == "" || !isValidValue(termType, value) {
			continue
		}
		terms[termType] = charter.ExtractedTerm{
			TermType:   termType,
			Value:      value,
			RawMatch:   entity.Text,
			Confidence: entity.Confidence,
			Span:       entity.Span,
			Source:     charter.SourceNER,
		}
	}
}
