package generate

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/fairlead/cpgen/internal/charter"
)

// segment is one contiguous piece of output text. Marked segments are
// substituted values that renderers must visually distinguish.
type segment struct {
	text   string
	marked bool
}

// segments walks the original template text and the ascending modification
// list, yielding untouched stretches interleaved with substituted values.
// Concatenating the segment texts reproduces the filled document exactly.
func segments(original string, mods []charter.Modification) []segment {
	var out []segment
	cursor := 0
	for _, mod := range mods {
		if mod.Span.Start > cursor {
			out = append(out, segment{text: original[cursor:mod.Span.Start]})
		}
		out = append(out, segment{text: mod.NewText, marked: true})
		cursor = mod.Span.End
	}
	if cursor < len(original) {
		out = append(out, segment{text: original[cursor:]})
	}
	return out
}

// RenderText renders the filled document as plain text, wrapping every
// substituted value in >> << markers.
func RenderText(original string, mods []charter.Modification) string {
	var b strings.Builder
	for _, seg := range segments(original, mods) {
		if seg.marked {
			b.WriteString(">>")
			b.WriteString(seg.text)
			b.WriteString("<<")
		} else {
			b.WriteString(seg.text)
		}
	}
	return b.String()
}

// RenderHTML renders the filled document as a standalone HTML page with
// every substituted value in a highlighted span and a change summary below
// the document body.
func RenderHTML(original string, mods []charter.Modification, generatedAt time.Time) string {
	var content strings.Builder
	for _, seg := range segments(original, mods) {
		if seg.marked {
			content.WriteString(`<span class="modified">`)
			content.WriteString(html.EscapeString(seg.text))
			content.WriteString(`</span>`)
		} else {
			content.WriteString(html.EscapeString(seg.text))
		}
	}

	var changes strings.Builder
	for i, mod := range mods {
		changes.WriteString(fmt.Sprintf(
			"        <li>Field %d: %s - %q replaced with %q (confidence %.2f)</li>\n",
			i+1, html.EscapeString(mod.FieldType),
			html.EscapeString(mod.OldText), html.EscapeString(mod.NewText),
			mod.Confidence,
		))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
  <title>Charter Party</title>
  <style>
    body { font-family: Arial, sans-serif; margin: 40px; }
    .header { text-align: center; font-size: 18px; font-weight: bold; margin-bottom: 20px; }
    .info { font-size: 10px; font-style: italic; margin-bottom: 20px; }
    .content { white-space: pre-wrap; line-height: 1.6; }
    .modified { background-color: yellow; color: #c00000; font-weight: bold; }
    .change-summary { margin-top: 30px; border-top: 1px solid #ccc; padding-top: 20px; }
  </style>
</head>
<body>
  <div class="header">CHARTER PARTY</div>
  <div class="info">Generated on: %s</div>
  <div class="content">%s</div>
  <div class="change-summary">
    <h3>Changes Made:</h3>
    <ul>
%s    </ul>
  </div>
</body>
</html>
`, generatedAt.Format("2006-01-02 15:04:05"), content.String(), changes.String())
}
