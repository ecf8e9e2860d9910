// Package charter defines the domain types shared by every stage of the
// charter party generation pipeline: extracted recap terms, located template
// fields, field mappings, substitution records, and the change report.
package charter

// Span is a half-open [Start, End) byte range into a source text.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Overlaps reports whether two spans share at least one byte.
func (s Span) Overlaps(o Span) bool {
	end := s.End
	if o.End < end {
		end = o.End
	}
	start := s.Start
	if o.Start > start {
		start = o.Start
	}
	return end-start > 0
}

// TermSource identifies which extraction strategy produced a term.
type TermSource string

const (
	SourceRegex TermSource = "regex"
	SourceNER   TermSource = "nlp"
)

// ExtractedTerm is a commercial term found in recap text. Value is the
// captured payload, RawMatch the full matched text around it. Terms are
// immutable once created; later stages copy them instead of mutating.
type ExtractedTerm struct {
	TermType   string     `json:"term_type"`
	Value      string     `json:"value"`
	RawMatch   string     `json:"raw_match"`
	Confidence float64    `json:"confidence"`
	Span       Span       `json:"span"`
	Source     TermSource `json:"source"`
}

// TemplateField is a fillable placeholder located in template text. Span
// indexes the original template text and stays valid until substitution.
type TemplateField struct {
	FieldID    string  `json:"field_id"`
	FieldType  string  `json:"field_type"`
	Span       Span    `json:"span"`
	Context    string  `json:"context"`
	Required   bool    `json:"required"`
	Confidence float64 `json:"confidence"`
}

// MappingMethod records which strategy resolved a field mapping.
type MappingMethod string

const (
	MethodDirect   MappingMethod = "direct"
	MethodAliased  MappingMethod = "aliased"
	MethodSemantic MappingMethod = "semantic"
	MethodNone     MappingMethod = "none"
)

// FieldMapping pairs a template field with its best matching term, if any.
// A nil Matched with MethodNone is the first-class "unfilled" state.
type FieldMapping struct {
	Field      TemplateField  `json:"field"`
	Matched    *ExtractedTerm `json:"matched_term,omitempty"`
	Method     MappingMethod  `json:"method"`
	Confidence float64        `json:"confidence"`
	Similarity float64        `json:"similarity,omitempty"`
}

// Filled reports whether the mapping carries a usable value.
func (m FieldMapping) Filled() bool {
	return m.Matched != nil && m.Matched.Value != ""
}

// Modification records a single substitution. Span indexes the original
// template text, before any replacement shifted offsets.
type Modification struct {
	Span       Span    `json:"span"`
	OldText    string  `json:"old_text"`
	NewText    string  `json:"new_text"`
	FieldType  string  `json:"field_type"`
	Confidence float64 `json:"confidence"`
}

// ValidationResult summarizes document-level checks over the mappings.
type ValidationResult struct {
	IsValid           bool     `json:"is_valid"`
	CompletenessScore float64  `json:"completeness_score"`
	ConfidenceScore   float64  `json:"confidence_score"`
	Errors            []string `json:"errors"`
	Warnings          []string `json:"warnings"`
}

// GenerationSummary describes one generation run for the change report.
type GenerationSummary struct {
	TemplateFile   string `json:"template_file"`
	RecapFile      string `json:"recap_file"`
	GeneratedAt    string `json:"generated_at"`
	ProcessingTime string `json:"processing_time"`
}

// MappedField is the report row for one filled template field.
type MappedField struct {
	TemplateField string  `json:"template_field"`
	RecapValue    string  `json:"recap_value"`
	Confidence    float64 `json:"confidence"`
	Status        string  `json:"status"`
}

// Change is a human-readable description of one substitution.
type Change struct {
	Section string `json:"section"`
	Change  string `json:"change"`
	Type    string `json:"type"`
}

// ChangeReport is the terminal artifact of a generation request. It is
// never mutated after creation and serializes to a stable JSON shape.
type ChangeReport struct {
	GenerationSummary GenerationSummary `json:"generation_summary"`
	ExtractedTerms    map[string]string `json:"extracted_terms"`
	MappedFields      []MappedField     `json:"mapped_fields"`
	ChangesMade       []Change          `json:"changes_made"`
	CompletenessScore float64           `json:"completeness_score"`
	ConfidenceScore   float64           `json:"confidence_score"`
	IsValid           bool              `json:"is_valid"`
	Errors            []string          `json:"errors,omitempty"`
	Warnings          []string          `json:"warnings,omitempty"`
	ProcessingNotes   []string          `json:"processing_notes"`
}
