package template

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	dotRun        = regexp.MustCompile(`\.{4,}`)
	underscoreRun = regexp.MustCompile(`_{3,}`)
	labeledBlank  = regexp.MustCompile(`(\w+)\s*:?\s*\.{4,}`)
)

// fieldKeywords maps label words near a blank to field types, used when a
// template is first normalized to {$name} marker syntax.
var fieldKeywords = []struct {
	fieldType string
	keywords  []string
}{
	{"vessel_name", []string{"vessel", "ship", "mv", "name"}},
	{"dwt", []string{"dwt", "deadweight", "tonnage"}},
	{"built", []string{"built", "year", "construction"}},
	{"flag", []string{"flag", "registry"}},
	{"cargo", []string{"cargo", "commodity", "goods"}},
	{"quantity", []string{"quantity", "amount", "volume"}},
	{"load_port", []string{"loading", "load"}},
	{"discharge_port", []string{"discharge", "unloading", "destination"}},
	{"freight_rate", []string{"freight", "rate", "price"}},
	{"laytime", []string{"laytime"}},
	{"demurrage", []string{"demurrage", "detention"}},
	{"despatch", []string{"despatch", "dispatch"}},
	{"charterer", []string{"charterer", "hirer"}},
	{"owner", []string{"owner"}},
	{"laycan_start", []string{"laycan", "laydays"}},
	{"laycan_end", []string{"cancelling"}},
	{"notice_time", []string{"notice"}},
}

// Normalize standardizes blank runs and rewrites labeled blanks to {$name}
// placeholder markers. Underscore and long dot runs collapse to a uniform
// four-dot blank first, then each "label...." whose label resolves to a
// known field type becomes "label: {$field}". Unresolved labels keep their
// blank so the pattern tables can still type it from surrounding keywords.
// Blank runs need at least four dots; a prose ellipsis is untouched.
func Normalize(text string) string {
	text = underscoreRun.ReplaceAllString(text, "....")
	text = dotRun.ReplaceAllString(text, "....")

	return labeledBlank.ReplaceAllStringFunc(text, func(match string) string {
		m := labeledBlank.FindStringSubmatch(match)
		label := m[1]
		fieldType, ok := fieldTypeForLabel(label)
		if !ok {
			return match
		}
		return fmt.Sprintf("%s: {$%s}", label, fieldType)
	})
}

// fieldTypeForLabel resolves a label word to a known field type.
func fieldTypeForLabel(label string) (string, bool) {
	lowered := strings.ToLower(label)
	for _, entry := range fieldKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(lowered, keyword) {
				return entry.fieldType, true
			}
		}
	}
	return "", false
}
