package generate

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/fairlead/cpgen/internal/charter"
)

const docxContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>
`

const docxRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>
`

// RenderDocx renders the filled document as a minimal DOCX archive. Every
// substituted value becomes a bold red run so reviewers can spot each
// replaced region.
func RenderDocx(original string, mods []charter.Modification) ([]byte, error) {
	var doc strings.Builder
	doc.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	doc.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)

	// Paragraph boundaries follow newlines in the filled text; a marked
	// segment spanning newlines keeps its marking in every paragraph it
	// touches.
	doc.WriteString(`<w:p>`)
	for _, seg := range segments(original, mods) {
		lines := strings.Split(seg.text, "\n")
		for i, line := range lines {
			if i > 0 {
				doc.WriteString(`</w:p><w:p>`)
			}
			if line == "" {
				continue
			}
			writeRun(&doc, line, seg.marked)
		}
	}
	doc.WriteString(`</w:p>`)
	doc.WriteString(`</w:body></w:document>`)

	var buf bytes.Buffer
	archive := zip.NewWriter(&buf)
	parts := []struct {
		name string
		body string
	}{
		{"[Content_Types].xml", docxContentTypes},
		{"_rels/.rels", docxRels},
		{"word/document.xml", doc.String()},
	}
	for _, part := range parts {
		w, err := archive.Create(part.name)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", part.name, err)
		}
		if _, err := w.Write([]byte(part.body)); err != nil {
			return nil, fmt.Errorf("write %s: %w", part.name, err)
		}
	}
	if err := archive.Close(); err != nil {
		return nil, fmt.Errorf("close document archive: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRun(doc *strings.Builder, text string, marked bool) {
	doc.WriteString(`<w:r>`)
	if marked {
		doc.WriteString(`<w:rPr><w:b/><w:color w:val="FF0000"/></w:rPr>`)
	}
	doc.WriteString(`<w:t xml:space="preserve">`)
	_ = xml.EscapeText(doc, []byte(text))
	doc.WriteString(`</w:t></w:r>`)
}
