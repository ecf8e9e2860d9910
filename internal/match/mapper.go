// Package match maps located template fields to extracted recap terms.
// Resolution is layered: direct term-type lookup, then a fixed alias table,
// then a TF-IDF cosine similarity fallback over the field's context window.
package match

import (
	"sort"

	"github.com/fairlead/cpgen/internal/charter"
)

// DefaultSimilarityThreshold is the minimum cosine similarity a semantic
// match must strictly exceed to be accepted.
const DefaultSimilarityThreshold = 0.3

// aliasRule maps one recap term type onto the template field types it can
// fill. Rules are scanned in declared order.
type aliasRule struct {
	termType   string
	fieldTypes []string
}

var aliasRules = []aliasRule{
	{"freight", []string{"freight_rate", "freight"}},
	{"cargo", []string{"cargo", "commodity"}},
	{"vessel", []string{"vessel_name", "vessel"}},
	{"charterer", []string{"charterer", "chtr"}},
	{"owner", []string{"owner", "disponent"}},
	{"load_port", []string{"load_port", "loading_port", "port_of_loading"}},
	{"discharge_port", []string{"discharge_port", "discharging_port", "port_of_discharge"}},
	{"quantity", []string{"quantity", "tonnage"}},
	{"demurrage", []string{"demurrage", "dem"}},
	{"despatch", []string{"despatch", "dispatch", "desp"}},
	{"laycan", []string{"laycan_start", "laycan_end", "laycan"}},
	{"laytime", []string{"laytime", "lay_time"}},
	{"notice_time", []string{"notice_time", "notice"}},
}

// Mapper resolves template fields against extracted terms. It is pure and
// stateless between calls: Map never mutates its inputs and is idempotent.
type Mapper struct {
	similarityThreshold float64
	semantic            bool
}

// NewMapper builds a mapper. The semantic flag is the capability switch for
// similarity-based matching; when false the mapper only applies direct and
// alias resolution.
func NewMapper(similarityThreshold float64, semantic bool) *Mapper {
	if similarityThreshold <= 0 {
		similarityThreshold = DefaultSimilarityThreshold
	}
	return &Mapper{similarityThreshold: similarityThreshold, semantic: semantic}
}

// SemanticEnabled reports whether similarity-based matching is active.
func (m *Mapper) SemanticEnabled() bool {
	return m.semantic
}

// Map produces exactly one mapping per input field, order preserving. Term
// data is copied defensively into each mapping.
func (m *Mapper) Map(fields []charter.TemplateField, terms map[string]charter.ExtractedTerm) []charter.FieldMapping {
	mappings := make([]charter.FieldMapping, 0, len(fields))
	for _, field := range fields {
		mappings = append(mappings, m.mapField(field, terms))
	}
	return mappings
}

func (m *Mapper) mapField(field charter.TemplateField, terms map[string]charter.ExtractedTerm) charter.FieldMapping {
	if term, ok := terms[field.FieldType]; ok {
		return filledMapping(field, term, charter.MethodDirect, 0)
	}

	for _, rule := range aliasRules {
		if !containsString(rule.fieldTypes, field.FieldType) {
			continue
		}
		if term, ok := terms[rule.termType]; ok {
			return filledMapping(field, term, charter.MethodAliased, 0)
		}
	}

	if m.semantic && field.Context != "" {
		if term, similarity, ok := m.semanticMatch(field.Context, terms); ok {
			return filledMapping(field, term, charter.MethodSemantic, similarity)
		}
	}

	return charter.FieldMapping{Field: field, Method: charter.MethodNone}
}

// semanticMatch vectorizes the field context against every term's raw match
// and accepts the most similar term strictly above the threshold. Term keys
// are sorted so corpus order, and therefore tie-breaking, is deterministic.
func (m *Mapper) semanticMatch(context string, terms map[string]charter.ExtractedTerm) (charter.ExtractedTerm, float64, bool) {
	if len(terms) == 0 {
		return charter.ExtractedTerm{}, 0, false
	}

	keys := make([]string, 0, len(terms))
	for key := range terms {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	docs := make([]string, 0, len(keys)+1)
	docs = append(docs, context)
	for _, key := range keys {
		docs = append(docs, terms[key].RawMatch)
	}

	vectors := newVectorizer(maxVocabulary).fitTransform(docs)

	bestSimilarity := 0.0
	bestKey := ""
	for i, key := range keys {
		similarity := cosine(vectors[0], vectors[i+1])
		if similarity > m.similarityThreshold && similarity > bestSimilarity {
			bestSimilarity = similarity
			bestKey = key
		}
	}
	if bestKey == "" {
		return charter.ExtractedTerm{}, 0, false
	}
	return terms[bestKey], bestSimilarity, true
}

func filledMapping(field charter.TemplateField, term charter.ExtractedTerm, method charter.MappingMethod, similarity float64) charter.FieldMapping {
	matched := term // copy; the source map entry stays untouched
	return charter.FieldMapping{
		Field:      field,
		Matched:    &matched,
		Method:     method,
		Confidence: term.Confidence,
		Similarity: similarity,
	}
}

func containsString(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
