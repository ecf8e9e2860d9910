package extract

import (
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"
)

// extractPDF extracts per-page text with the primary parser and falls back
// to the secondary renderer when the primary fails or yields nothing. Page
// texts are joined with a newline in original page order. Empty output
// after both tiers is a hard failure.
func (e *Extractor) extractPDF(path string) (string, error) {
	text, err := pdfPlainText(path)
	if err == nil && strings.TrimSpace(text) != "" {
		return text, nil
	}

	fallback, fbErr := fitzPlainText(path)
	if fbErr == nil && strings.TrimSpace(fallback) != "" {
		return fallback, nil
	}

	if err == nil {
		err = fbErr
	}
	return "", &ExtractionError{Path: path, Reason: "no text could be extracted from PDF", Err: err}
}

func pdfPlainText(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var pages []string
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			// Other pages may still extract cleanly.
			continue
		}
		if content != "" {
			pages = append(pages, content)
		}
	}
	return strings.Join(pages, "\n"), nil
}

func fitzPlainText(path string) (string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return "", err
	}
	defer doc.Close()

	var pages []string
	for i := 0; i < doc.NumPage(); i++ {
		content, err := doc.Text(i)
		if err != nil {
			continue
		}
		if content != "" {
			pages = append(pages, content)
		}
	}
	return strings.Join(pages, "\n"), nil
}
