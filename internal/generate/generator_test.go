package generate

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairlead/cpgen/internal/charter"
	"github.com/fairlead/cpgen/internal/extract"
	"github.com/fairlead/cpgen/internal/match"
	"github.com/fairlead/cpgen/internal/recap"
	"github.com/fairlead/cpgen/internal/template"
)

func newTestGenerator() *Generator {
	return NewGenerator(
		extract.NewExtractor(0),
		recap.NewExtractor(),
		template.NewLocator(template.DefaultContextRadius),
		match.NewMapper(match.DefaultSimilarityThreshold, true),
		NewValidator(DefaultConfidenceThreshold),
		zerolog.Nop(),
	)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestGenerateEndToEnd(t *testing.T) {
	dir := t.TempDir()
	templatePath := writeFile(t, dir, "template.txt",
		"Vessel: [vessel name]\nCargo: [cargo]\nFreight: [freight rate]\n")
	recapPath := writeFile(t, dir, "recap.txt",
		"Vessel: OCEAN STAR\nFreight: USD 25.50 per MT\nCargo: 50000 MT Iron Ore")

	result, err := newTestGenerator().Generate(Request{
		TemplatePath: templatePath,
		RecapPath:    recapPath,
		OutputFormat: FormatText,
	})
	require.NoError(t, err)

	assert.Contains(t, result.FilledText, "OCEAN STAR", "vessel casing must survive the pipeline")
	assert.Contains(t, result.FilledText, "25.50")
	assert.Contains(t, result.FilledText, "50000")
	assert.NotContains(t, result.FilledText, "[vessel name]")

	require.Len(t, result.Mappings, 3)
	for _, m := range result.Mappings {
		assert.Truef(t, m.Filled(), "field %s should be filled", m.Field.FieldType)
	}
	assert.InDelta(t, 1.0, result.Validation.CompletenessScore, 1e-9)

	assert.Len(t, result.Report.MappedFields, 3)
	assert.Len(t, result.Modifications, 3)
	assert.Equal(t, string(result.Content), RenderText(
		template.Normalize("Vessel: [vessel name]\nCargo: [cargo]\nFreight: [freight rate]\n"),
		result.Modifications))
}

func TestGenerateValidationReflectsMissingCriticalFields(t *testing.T) {
	dir := t.TempDir()
	templatePath := writeFile(t, dir, "template.txt", "Cargo: [cargo]\n")
	recapPath := writeFile(t, dir, "recap.txt", "Cargo: 50000 MT Iron Ore")

	result, err := newTestGenerator().Generate(Request{
		TemplatePath: templatePath,
		RecapPath:    recapPath,
	})
	require.NoError(t, err, "missing fields degrade validity, they do not abort generation")

	assert.False(t, result.Validation.IsValid)
	require.NotEmpty(t, result.Validation.Errors)
	assert.Contains(t, result.Validation.Errors[0], "vessel_name")
}

func TestGenerateWrapsExtractionFailures(t *testing.T) {
	dir := t.TempDir()
	recapPath := writeFile(t, dir, "recap.txt", "Vessel: OCEAN STAR")

	_, err := newTestGenerator().Generate(Request{
		TemplatePath: filepath.Join(dir, "template.xyz"),
		RecapPath:    recapPath,
	})
	require.Error(t, err)

	var genErr *charter.GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, "template extraction", genErr.Stage)

	var unsupported *extract.UnsupportedFormatError
	assert.True(t, errors.As(err, &unsupported), "cause must stay reachable through the wrapper")
}

func TestGenerateRejectsEmptyRecap(t *testing.T) {
	dir := t.TempDir()
	templatePath := writeFile(t, dir, "template.txt", "Vessel: [vessel name]")
	recapPath := writeFile(t, dir, "recap.txt", "   \n")

	_, err := newTestGenerator().Generate(Request{
		TemplatePath: templatePath,
		RecapPath:    recapPath,
	})
	require.Error(t, err)

	var genErr *charter.GenerationError
	require.ErrorAs(t, err, &genErr)
}

func TestGenerateOutputFormats(t *testing.T) {
	dir := t.TempDir()
	templatePath := writeFile(t, dir, "template.txt", "Vessel: [vessel name]\n")
	recapPath := writeFile(t, dir, "recap.txt", "Vessel: OCEAN STAR")
	gen := newTestGenerator()

	tests := []struct {
		format   string
		contains string
	}{
		{FormatText, ">>OCEAN STAR<<"},
		{FormatHTML, `<span class="modified">OCEAN STAR</span>`},
		{"", ">>OCEAN STAR<<"},
	}
	for _, tt := range tests {
		result, err := gen.Generate(Request{TemplatePath: templatePath, RecapPath: recapPath, OutputFormat: tt.format})
		require.NoErrorf(t, err, "format %q", tt.format)
		assert.Containsf(t, string(result.Content), tt.contains, "format %q", tt.format)
	}

	result, err := gen.Generate(Request{TemplatePath: templatePath, RecapPath: recapPath, OutputFormat: FormatPDF})
	require.NoError(t, err)
	assert.True(t, len(result.Content) > 0 && string(result.Content[:4]) == "%PDF")

	result, err = gen.Generate(Request{TemplatePath: templatePath, RecapPath: recapPath, OutputFormat: FormatDocx})
	require.NoError(t, err)
	assert.Equal(t, "PK", string(result.Content[:2]), "DOCX output is a zip archive")
}

func TestExtension(t *testing.T) {
	assert.Equal(t, ".txt", Extension(FormatText))
	assert.Equal(t, ".html", Extension("HTML"))
	assert.Equal(t, ".docx", Extension(FormatDocx))
	assert.Equal(t, ".pdf", Extension(FormatPDF))
	assert.Equal(t, ".txt", Extension("unknown"))
}
