package generate

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/fairlead/cpgen/internal/charter"
	"github.com/fairlead/cpgen/internal/extract"
	"github.com/fairlead/cpgen/internal/match"
	"github.com/fairlead/cpgen/internal/recap"
	"github.com/fairlead/cpgen/internal/template"
)

// Output format selectors accepted by a generation request.
const (
	FormatText = "text"
	FormatHTML = "html"
	FormatDocx = "docx"
	FormatPDF  = "pdf"
)

// Generator orchestrates one generation request through the full pipeline:
// extraction, term and field parsing, mapping, substitution, rendering,
// validation, and report building. It is stateless across requests.
type Generator struct {
	extractor *extract.Extractor
	terms     *recap.Extractor
	locator   *template.Locator
	mapper    *match.Mapper
	validator *Validator
	log       zerolog.Logger
}

// NewGenerator wires a generator from its pipeline stages.
func NewGenerator(extractor *extract.Extractor, terms *recap.Extractor, locator *template.Locator,
	mapper *match.Mapper, validator *Validator, log zerolog.Logger,
) *Generator {
	return &Generator{
		extractor: extractor,
		terms:     terms,
		locator:   locator,
		mapper:    mapper,
		validator: validator,
		log:       log,
	}
}

// Request names the input documents and the desired output format.
type Request struct {
	TemplatePath string
	RecapPath    string
	OutputFormat string
}

// Result is the outcome of a completed generation request. Content holds
// the rendered document bytes in the requested format.
type Result struct {
	Format        string
	Content       []byte
	FilledText    string
	Family        template.Family
	Terms         map[string]charter.ExtractedTerm
	Mappings      []charter.FieldMapping
	Modifications []charter.Modification
	Validation    charter.ValidationResult
	Report        charter.ChangeReport
}

// Generate runs the whole pipeline. Every stage failure is wrapped in a
// single GenerationError naming the stage, so callers see one failure mode
// regardless of which stage broke. Unfilled fields are not failures; they
// lower the completeness score and surface as warnings in the report.
func (g *Generator) Generate(req Request) (*Result, error) {
	started := time.Now()
	format := strings.ToLower(req.OutputFormat)
	if format == "" {
		format = FormatText
	}

	templateText, err := g.extractor.Extract(req.TemplatePath)
	if err != nil {
		return nil, &charter.GenerationError{Stage: "template extraction", Err: err}
	}
	recapText, err := g.extractor.Extract(req.RecapPath)
	if err != nil {
		return nil, &charter.GenerationError{Stage: "recap extraction", Err: err}
	}
	if strings.TrimSpace(recapText) == "" {
		return nil, &charter.GenerationError{
			Stage: "recap parsing",
			Err:   &charter.ParseError{Source: "recap", Reason: "recap contains no text"},
		}
	}

	parsed, err := g.locator.Parse(templateText)
	if err != nil {
		return nil, &charter.GenerationError{Stage: "template parsing", Err: err}
	}

	terms := g.terms.Extract(recapText)
	recap.AugmentWithEntities(terms, recap.RecognizeEntities(recapText))

	mappings := g.mapper.Map(parsed.Fields, terms)
	filledText, modifications := Substitute(parsed.Text, mappings)
	validation := g.validator.Validate(mappings)

	content, err := g.render(format, parsed.Text, modifications, started)
	if err != nil {
		return nil, &charter.GenerationError{Stage: "rendering", Err: err}
	}

	report := BuildReport(ReportInput{
		TemplateFile:    filepath.Base(req.TemplatePath),
		RecapFile:       filepath.Base(req.RecapPath),
		GeneratedAt:     started,
		ProcessingTime:  time.Since(started),
		Terms:           terms,
		Mappings:        mappings,
		Validation:      validation,
		SemanticEnabled: g.mapper.SemanticEnabled(),
	})

	g.log.Info().
		Str("template", report.GenerationSummary.TemplateFile).
		Str("recap", report.GenerationSummary.RecapFile).
		Str("family", string(parsed.Family)).
		Int("fields", len(mappings)).
		Int("filled", len(modifications)).
		Float64("completeness", validation.CompletenessScore).
		Msg("charter party generated")

	return &Result{
		Format:        format,
		Content:       content,
		FilledText:    filledText,
		Family:        parsed.Family,
		Terms:         terms,
		Mappings:      mappings,
		Modifications: modifications,
		Validation:    validation,
		Report:        report,
	}, nil
}

func (g *Generator) render(format, original string, mods []charter.Modification, at time.Time) ([]byte, error) {
	switch format {
	case FormatHTML:
		return []byte(RenderHTML(original, mods, at)), nil
	case FormatDocx:
		return RenderDocx(original, mods)
	case FormatPDF:
		return RenderPDF(original, mods, at)
	default:
		return []byte(RenderText(original, mods)), nil
	}
}

// Extension returns the file extension for an output format selector.
func Extension(format string) string {
	switch strings.ToLower(format) {
	case FormatHTML:
		return ".html"
	case FormatDocx:
		return ".docx"
	case FormatPDF:
		return ".pdf"
	default:
		return ".txt"
	}
}
