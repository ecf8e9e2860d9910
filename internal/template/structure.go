package template

import (
	"regexp"
	"strings"
)

var (
	clauseNumber = regexp.MustCompile(`^\s*(\d+)\.`)
	bulletMark   = regexp.MustCompile(`^\s*[-•*]\s+`)
	sectionSplit = regexp.MustCompile(`\n\s*\n`)
	clauseHead   = regexp.MustCompile(`(?s)^\s*(\d+)\.\s*(.+)`)
	hasDigit     = regexp.MustCompile(`\d`)
)

// Header is an all-caps heading line.
type Header struct {
	Text string
	Line int
}

// LineRef is a structural line of interest, truncated for display.
type LineRef struct {
	Text string
	Line int
}

// NumberedClause is a clause line beginning with "N.".
type NumberedClause struct {
	Text   string
	Line   int
	Number string
}

// Structure holds auxiliary structural metadata about a template. It is
// context for review output only and does not drive field detection.
type Structure struct {
	TotalLines      int
	Headers         []Header
	NumberedClauses []NumberedClause
	BulletPoints    []LineRef
}

// AnalyzeStructure scans template text for headers, numbered clauses, and
// bullet points.
func AnalyzeStructure(text string) Structure {
	lines := strings.Split(text, "\n")
	structure := Structure{TotalLines: len(lines)}

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if isHeaderLine(trimmed) {
			structure.Headers = append(structure.Headers, Header{Text: trimmed, Line: i + 1})
		}
		if m := clauseNumber.FindStringSubmatch(trimmed); m != nil {
			structure.NumberedClauses = append(structure.NumberedClauses, NumberedClause{
				Text:   truncateLine(trimmed, 100),
				Line:   i + 1,
				Number: m[1],
			})
		}
		if bulletMark.MatchString(trimmed) {
			structure.BulletPoints = append(structure.BulletPoints, LineRef{
				Text: truncateLine(trimmed, 100),
				Line: i + 1,
			})
		}
	}
	return structure
}

// Clause is one clause-sized block of template text.
type Clause struct {
	Number string
	Title  string
	Text   string
}

// ExtractClauses splits the template on blank lines and keeps blocks that
// look like numbered clauses or titled paragraphs.
func ExtractClauses(text string) []Clause {
	var clauses []Clause
	for _, section := range sectionSplit.Split(text, -1) {
		section = strings.TrimSpace(section)
		if len(section) < 50 {
			continue
		}
		if m := clauseHead.FindStringSubmatch(section); m != nil {
			clauses = append(clauses, Clause{
				Number: m[1],
				Title:  clauseTitle(m[2]),
				Text:   m[2],
			})
			continue
		}
		if title := clauseTitle(section); title != "" {
			clauses = append(clauses, Clause{Title: title, Text: section})
		}
	}
	return clauses
}

func isHeaderLine(line string) bool {
	if len(line) <= 5 || hasDigit.MatchString(line) {
		return false
	}
	return line == strings.ToUpper(line) && line != strings.ToLower(line)
}

func clauseTitle(text string) string {
	firstLine := strings.TrimSpace(strings.SplitN(text, "\n", 2)[0])
	if len(firstLine) < 100 && len(strings.Fields(firstLine)) > 1 {
		return firstLine
	}
	words := strings.Fields(text)
	if len(words) > 10 {
		return strings.Join(words[:10], " ") + "..."
	}
	return truncateLine(firstLine, 50)
}

func truncateLine(line string, max int) string {
	if len(line) > max {
		return line[:max] + "..."
	}
	return line
}
