// Package extract normalizes heterogeneous input files into a single text
// blob. Plain text is read verbatim, PDFs go through a two-tier extraction
// chain, and DOCX files are flattened paragraph by paragraph and then table
// by table.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// UnsupportedFormatError is returned for file extensions outside the known
// set. It is raised before any file bytes are read.
type UnsupportedFormatError struct {
	Ext string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file format: %q", e.Ext)
}

// ExtractionError indicates no text could be obtained from a source file
// after all extraction strategies were tried.
type ExtractionError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extract %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("extract %s: %s", e.Path, e.Reason)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Extractor converts input documents to plain text.
type Extractor struct {
	maxFileSize int64
}

// NewExtractor creates an extractor enforcing the given file size ceiling.
func NewExtractor(maxFileSize int64) *Extractor {
	return &Extractor{maxFileSize: maxFileSize}
}

// Extract dispatches on file extension and returns the document text.
// Unknown extensions fail with UnsupportedFormatError before the file is
// opened. An empty result after all strategies is a hard ExtractionError,
// never an empty success.
func (e *Extractor) Extract(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".txt", ".pdf", ".docx", ".doc":
	default:
		return "", &UnsupportedFormatError{Ext: ext}
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", &ExtractionError{Path: path, Reason: "cannot access file", Err: err}
	}
	if info.IsDir() {
		return "", &ExtractionError{Path: path, Reason: "path is a directory"}
	}
	if e.maxFileSize > 0 && info.Size() > e.maxFileSize {
		return "", &ExtractionError{
			Path:   path,
			Reason: fmt.Sprintf("file too large: %d bytes (max %d)", info.Size(), e.maxFileSize),
		}
	}

	switch ext {
	case ".txt":
		return e.extractText(path)
	case ".pdf":
		return e.extractPDF(path)
	default:
		return e.extractDocx(path)
	}
}

func (e *Extractor) extractText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &ExtractionError{Path: path, Reason: "cannot read file", Err: err}
	}
	text := string(data)
	if strings.TrimSpace(text) == "" {
		return "", &ExtractionError{Path: path, Reason: "file contains no text"}
	}
	return text, nil
}
