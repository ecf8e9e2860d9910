// Package mcp exposes the charter party pipeline as Model Context Protocol
// tools over standard I/O: recap parsing, template parsing, and full
// document generation.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/fairlead/cpgen/internal/charter"
	"github.com/fairlead/cpgen/internal/config"
	"github.com/fairlead/cpgen/internal/extract"
	"github.com/fairlead/cpgen/internal/generate"
	"github.com/fairlead/cpgen/internal/recap"
	"github.com/fairlead/cpgen/internal/template"
)

// Server is the MCP server instance wrapping the pipeline stages.
type Server struct {
	config    *config.Config
	extractor *extract.Extractor
	terms     *recap.Extractor
	locator   *template.Locator
	generator *generate.Generator
	mcpServer *server.MCPServer
}

// NewServer creates the MCP server and registers its tools.
func NewServer(cfg *config.Config, extractor *extract.Extractor, terms *recap.Extractor,
	locator *template.Locator, generator *generate.Generator,
) (*Server, error) {
	if generator == nil {
		return nil, fmt.Errorf("generator cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		config:    cfg,
		extractor: extractor,
		terms:     terms,
		locator:   locator,
		generator: generator,
		mcpServer: mcpServer,
	}
	s.registerTools()
	return s, nil
}

func (s *Server) registerTools() {
	parseRecapTool := mcp.NewTool(
		"parse_recap",
		mcp.WithDescription("Extract commercial terms (vessel, cargo, freight, ports, laycan, demurrage) from a recap document"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the recap file (.txt, .pdf, .docx)"),
		),
	)
	s.mcpServer.AddTool(parseRecapTool, s.handleParseRecap)

	parseTemplateTool := mcp.NewTool(
		"parse_template",
		mcp.WithDescription("Locate fillable fields in a charter party template and classify its family"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the template file (.txt, .pdf, .docx)"),
		),
	)
	s.mcpServer.AddTool(parseTemplateTool, s.handleParseTemplate)

	generateTool := mcp.NewTool(
		"generate_charter_party",
		mcp.WithDescription("Generate a filled charter party from a template and a recap, with a change report"),
		mcp.WithString("template_path",
			mcp.Required(),
			mcp.Description("Full path to the charter party template"),
		),
		mcp.WithString("recap_path",
			mcp.Required(),
			mcp.Description("Full path to the recap document"),
		),
		mcp.WithString("output_format",
			mcp.Description("Output format: text, html, docx, or pdf (default text)"),
		),
	)
	s.mcpServer.AddTool(generateTool, s.handleGenerate)
}

func (s *Server) handleParseRecap(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text, err := s.extractor.Extract(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	terms := s.terms.Extract(text)
	recap.AugmentWithEntities(terms, recap.RecognizeEntities(text))

	return mcp.NewToolResultText(recapSummary(path, terms)), nil
}

// recapSummary renders extracted terms in sorted term type order so repeated
// invocations produce identical output.
func recapSummary(path string, terms map[string]charter.ExtractedTerm) string {
	termTypes := make([]string, 0, len(terms))
	for termType := range terms {
		termTypes = append(termTypes, termType)
	}
	sort.Strings(termTypes)

	var b strings.Builder
	fmt.Fprintf(&b, "Extracted %d commercial terms from %s\n\n", len(terms), path)
	for _, termType := range termTypes {
		term := terms[termType]
		fmt.Fprintf(&b, "%s: %s (confidence %.2f, source %s)\n",
			termType, term.Value, term.Confidence, term.Source)
	}
	return b.String()
}

func (s *Server) handleParseTemplate(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text, err := s.extractor.Extract(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	parsed, err := s.locator.Parse(text)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Template family: %s\n", parsed.Family)
	fmt.Fprintf(&b, "Fillable fields: %d\n", len(parsed.Fields))
	fmt.Fprintf(&b, "Headers: %d, numbered clauses: %d\n\n",
		len(parsed.Structure.Headers), len(parsed.Structure.NumberedClauses))
	for _, field := range parsed.Fields {
		required := ""
		if field.Required {
			required = " (required)"
		}
		fmt.Fprintf(&b, "%s: %s%s at [%d:%d]\n",
			field.FieldID, field.FieldType, required, field.Span.Start, field.Span.End)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleGenerate(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	templatePath, err := request.RequireString("template_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	recapPath, err := request.RequireString("recap_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	outputFormat := generate.FormatText
	if format, ok := request.GetArguments()["output_format"].(string); ok && format != "" {
		outputFormat = format
	}

	result, err := s.generator.Generate(generate.Request{
		TemplatePath: templatePath,
		RecapPath:    recapPath,
		OutputFormat: outputFormat,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	reportJSON, err := json.MarshalIndent(result.Report, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Charter party generated (%s, family %s)\n", result.Format, result.Family)
	fmt.Fprintf(&b, "Fields filled: %d of %d (completeness %.2f, confidence %.2f)\n\n",
		len(result.Modifications), len(result.Mappings),
		result.Validation.CompletenessScore, result.Validation.ConfidenceScore)
	b.WriteString("Change report:\n")
	b.Write(reportJSON)
	if result.Format == generate.FormatText {
		b.WriteString("\n\nGenerated document:\n")
		b.Write(result.Content)
	}
	return mcp.NewToolResultText(b.String()), nil
}

// Run serves MCP requests over standard I/O until the transport closes.
func (s *Server) Run(_ context.Context) error {
	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
