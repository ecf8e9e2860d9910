package extract

import (
	"archive/zip"
	"encoding/xml"
	"strings"
)

// Minimal WordprocessingML shapes, just enough to flatten document text.
type docxDocument struct {
	Body docxBody `xml:"body"`
}

type docxBody struct {
	Paragraphs []docxParagraph `xml:"p"`
	Tables     []docxTable     `xml:"tbl"`
}

type docxParagraph struct {
	Runs []docxRun `xml:"r"`
}

type docxRun struct {
	Texts []string `xml:"t"`
}

type docxTable struct {
	Rows []docxRow `xml:"tr"`
}

type docxRow struct {
	Cells []docxCell `xml:"tc"`
}

type docxCell struct {
	Paragraphs []docxParagraph `xml:"p"`
}

func (p docxParagraph) text() string {
	var b strings.Builder
	for _, run := range p.Runs {
		for _, t := range run.Texts {
			b.WriteString(t)
		}
	}
	return b.String()
}

// extractDocx flattens a DOCX file: body paragraphs in document order, then
// table text cell by cell in row-major order with a tab between cells and a
// newline after each row.
func (e *Extractor) extractDocx(path string) (string, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return "", &ExtractionError{Path: path, Reason: "cannot open document archive", Err: err}
	}
	defer archive.Close()

	var doc docxDocument
	found := false
	for _, file := range archive.File {
		if file.Name != "word/document.xml" {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return "", &ExtractionError{Path: path, Reason: "cannot open document part", Err: err}
		}
		err = xml.NewDecoder(rc).Decode(&doc)
		rc.Close()
		if err != nil {
			return "", &ExtractionError{Path: path, Reason: "cannot parse document part", Err: err}
		}
		found = true
		break
	}
	if !found {
		return "", &ExtractionError{Path: path, Reason: "archive has no word/document.xml part"}
	}

	var b strings.Builder
	for _, p := range doc.Body.Paragraphs {
		b.WriteString(p.text())
		b.WriteString("\n")
	}
	for _, table := range doc.Body.Tables {
		for _, row := range table.Rows {
			for _, cell := range row.Cells {
				var cellText []string
				for _, p := range cell.Paragraphs {
					cellText = append(cellText, p.text())
				}
				b.WriteString(strings.Join(cellText, " "))
				b.WriteString("\t")
			}
			b.WriteString("\n")
		}
	}

	text := b.String()
	if strings.TrimSpace(text) == "" {
		return "", &ExtractionError{Path: path, Reason: "document contains no text"}
	}
	return text, nil
}
