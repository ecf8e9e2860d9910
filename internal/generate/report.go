package generate

import (
	"fmt"
	"strings"
	"time"

	"github.com/fairlead/cpgen/internal/charter"
)

const (
	// DefaultConfidenceThreshold flags filled mappings below it as low
	// confidence.
	DefaultConfidenceThreshold = 0.6

	// completenessWarningFloor triggers the "possibly incomplete" warning.
	completenessWarningFloor = 0.7
)

// criticalFieldTypes must each have at least one filled mapping for the
// document to be valid.
var criticalFieldTypes = []string{"vessel_name", "charterer", "owner", "cargo"}

// Validator checks a mapping set for completeness and confidence.
type Validator struct {
	confidenceThreshold float64
}

// NewValidator returns a validator using the given low-confidence floor.
// Non-positive thresholds fall back to the default.
func NewValidator(confidenceThreshold float64) *Validator {
	if confidenceThreshold <= 0 {
		confidenceThreshold = DefaultConfidenceThreshold
	}
	return &Validator{confidenceThreshold: confidenceThreshold}
}

// Validate computes completeness and confidence over the mappings, flags
// missing critical fields as errors, and records low-confidence and
// incompleteness warnings. Warnings never invalidate the document; only
// missing critical fields do.
func (v *Validator) Validate(mappings []charter.FieldMapping) charter.ValidationResult {
	result := charter.ValidationResult{IsValid: true}

	var filled []charter.FieldMapping
	for _, m := range mappings {
		if m.Filled() {
			filled = append(filled, m)
		}
	}

	if len(mappings) > 0 {
		result.CompletenessScore = float64(len(filled)) / float64(len(mappings))
	}
	if len(filled) > 0 {
		var sum float64
		for _, m := range filled {
			sum += m.Confidence
		}
		result.ConfidenceScore = sum / float64(len(filled))
	}

	var missing []string
	for _, critical := range criticalFieldTypes {
		found := false
		for _, m := range filled {
			if m.Field.FieldType == critical {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, critical)
		}
	}
	if len(missing) > 0 {
		result.Errors = append(result.Errors,
			fmt.Sprintf("missing critical fields: %s", strings.Join(missing, ", ")))
		result.IsValid = false
	}

	lowConfidence := 0
	for _, m := range filled {
		if m.Confidence < v.confidenceThreshold {
			lowConfidence++
		}
	}
	if lowConfidence > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%d fields have low confidence scores", lowConfidence))
	}
	if result.CompletenessScore < completenessWarningFloor {
		result.Warnings = append(result.Warnings,
			"document may be incomplete: less than 70% of fields filled")
	}
	return result
}

// ReportInput carries everything the report builder needs from one
// generation run.
type ReportInput struct {
	TemplateFile    string
	RecapFile       string
	GeneratedAt     time.Time
	ProcessingTime  time.Duration
	Terms           map[string]charter.ExtractedTerm
	Mappings        []charter.FieldMapping
	Validation      charter.ValidationResult
	SemanticEnabled bool
}

// BuildReport assembles the stable change report from a generation run.
func BuildReport(in ReportInput) charter.ChangeReport {
	report := charter.ChangeReport{
		GenerationSummary: charter.GenerationSummary{
			TemplateFile:   in.TemplateFile,
			RecapFile:      in.RecapFile,
			GeneratedAt:    in.GeneratedAt.Format(time.RFC3339),
			ProcessingTime: in.ProcessingTime.String(),
		},
		ExtractedTerms:    make(map[string]string, len(in.Terms)),
		MappedFields:      []charter.MappedField{},
		ChangesMade:       []charter.Change{},
		CompletenessScore: in.Validation.CompletenessScore,
		ConfidenceScore:   in.Validation.ConfidenceScore,
		IsValid:           in.Validation.IsValid,
		Errors:            in.Validation.Errors,
		Warnings:          in.Validation.Warnings,
	}

	for termType, term := range in.Terms {
		report.ExtractedTerms[termType] = term.Value
	}

	filledCount := 0
	for _, m := range in.Mappings {
		if !m.Filled() {
			continue
		}
		filledCount++
		report.MappedFields = append(report.MappedFields, charter.MappedField{
			TemplateField: displayName(m.Field.FieldType),
			RecapValue:    m.Matched.Value,
			Confidence:    m.Confidence,
			Status:        "mapped",
		})
		report.ChangesMade = append(report.ChangesMade, charter.Change{
			Section: "Document Update",
			Change:  fmt.Sprintf("Updated %s to %q", titleName(m.Field.FieldType), m.Matched.Value),
			Type:    "substitution",
		})
	}

	report.ProcessingNotes = append(report.ProcessingNotes,
		fmt.Sprintf("extracted %d terms from recap document", len(in.Terms)),
		fmt.Sprintf("filled %d of %d template fields", filledCount, len(in.Mappings)),
	)
	if !in.SemanticEnabled {
		report.ProcessingNotes = append(report.ProcessingNotes,
			"semantic matching disabled; only direct and alias mapping applied")
	}
	return report
}

// displayName renders a field type for the report, e.g. VESSEL NAME.
func displayName(fieldType string) string {
	return strings.ToUpper(strings.ReplaceAll(fieldType, "_", " "))
}

// titleName renders a field type as a title, e.g. Vessel Name.
func titleName(fieldType string) string {
	words := strings.Split(fieldType, "_")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
