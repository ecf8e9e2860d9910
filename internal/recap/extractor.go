// Package recap extracts commercial terms from free-text fixture recaps.
// Extraction is layered: ordered regex pattern tables produce scored
// candidates per term type, overlapping candidates are deduplicated, values
// are cleaned and shape-checked, and a rule-based entity pass fills term
// types the patterns missed.
package recap

import (
	"sort"

	"github.com/fairlead/cpgen/internal/charter"
)

const baseConfidence = 0.8

// Extractor runs the term pattern tables over recap text.
type Extractor struct{}

// NewExtractor returns a term extractor backed by the package pattern table.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// candidate carries the discovery index so equal-confidence, equal-position
// ties resolve deterministically by declaration order.
type candidate struct {
	term  charter.ExtractedTerm
	order int
}

// Extract returns the canonical term per term type: the highest ranked
// candidate surviving deduplication whose cleaned value passes the field
// shape check. Matching runs on ASCII-lowercased text while values are
// sliced from the original text so casing is preserved.
func (e *Extractor) Extract(text string) map[string]charter.ExtractedTerm {
	terms := make(map[string]charter.ExtractedTerm)
	for termType, candidates := range e.ExtractAll(text) {
		for _, term := range candidates {
			cleaned := cleanValue(termType, term.Value)
			if cleaned == "" || !isValidValue(termType, cleaned) {
				continue
			}
			term.Value = cleaned
			terms[termType] = term
			break
		}
	}
	return terms
}

// ExtractAll returns every deduplicated candidate per term type, ranked by
// confidence then position. Values are uncleaned.
func (e *Extractor) ExtractAll(text string) map[string][]charter.ExtractedTerm {
	lowered := asciiLower(text)
	all := make(map[string][]charter.ExtractedTerm)

	for _, rule := range termRules {
		var candidates []candidate
		for _, pattern := range rule.patterns {
			for _, idx := range pattern.FindAllStringSubmatchIndex(lowered, -1) {
				// idx[2], idx[3] delimit the first capturing group.
				if len(idx) < 4 || idx[2] < 0 {
					continue
				}
				candidates = append(candidates, candidate{
					term: charter.ExtractedTerm{
						TermType:   rule.termType,
						Value:      trimSpace(text[idx[2]:idx[3]]),
						RawMatch:   trimSpace(text[idx[0]:idx[1]]),
						Confidence: baseConfidence,
						Span:       charter.Span{Start: idx[0], End: idx[1]},
						Source:     charter.SourceRegex,
					},
					order: len(candidates),
				})
			}
		}
		if deduped := deduplicate(candidates); len(deduped) > 0 {
			all[rule.termType] = deduped
		}
	}
	return all
}

// Deduplicate ranks candidates by confidence descending then start position
// ascending and greedily keeps only candidates whose spans do not overlap an
// already kept candidate. The operation is idempotent: running it on its own
// output returns the same set.
func Deduplicate(terms []charter.ExtractedTerm) []charter.ExtractedTerm {
	candidates := make([]candidate, 0, len(terms))
	for i, t := range terms {
		candidates = append(candidates, candidate{term: t, order: i})
	}
	return deduplicate(candidates)
}

func deduplicate(candidates []candidate) []charter.ExtractedTerm {
	if len(candidates) == 0 {
		return nil
	}

	ranked := make([]candidate, len(candidates))
	copy(ranked, candidates)
	// Ties on both confidence and start fall back to discovery order, which
	// SliceStable preserves from the input slice.
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].term.Confidence != ranked[j].term.Confidence {
			return ranked[i].term.Confidence > ranked[j].term.Confidence
		}
		return ranked[i].term.Span.Start < ranked[j].term.Span.Start
	})

	var kept []charter.ExtractedTerm
	for _, c := range ranked {
		overlaps := false
		for _, existing := range kept {
			if c.term.Span.Overlaps(existing.Span) {
				overlaps = true
				break
			}
		}
		if !overlaps {
			kept = append(kept, c.term)
		}
	}
	return kept
}

// asciiLower lowercases A-Z only, preserving byte offsets so spans into the
// lowered text index the original text directly.
func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

func trimSpace(s string) string {
	start := 0
	for start < len(s) && isSpace(s[start]) {
		start++
	}
	end := len(s)
	for end > start && isSpace(s[end-1]) {
		end--
	}
	return s[start:end]
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
