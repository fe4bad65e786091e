package render

import (
	"strings"

	"github.com/goliatone/go-blockgraph/internal/tables"
)

var cellReplacer = strings.NewReplacer("\r\n", "<br>", "\n", "<br>")

// tableMarkdown renders a GFM pipe table. Tables without a header row get
// an empty one since GFM requires it.
func tableMarkdown(t *tables.Table) string {
	if t == nil || len(t.Columns) == 0 {
		return ""
	}
	width := len(t.Columns)

	var b strings.Builder
	header, _ := t.HeaderRow()
	writeRow(&b, header, width)
	b.WriteString("\n|")
	for i := 0; i < width; i++ {
		b.WriteString(" --- |")
	}
	for _, row := range t.Body() {
		b.WriteString("\n")
		writeRow(&b, row, width)
	}
	return b.String()
}

func writeRow(b *strings.Builder, row tables.Row, width int) {
	b.WriteString("|")
	for i := 0; i < width; i++ {
		text := ""
		if i < len(row.Cells) {
			text = cellReplacer.Replace(inlineMarkdown(row.Cells[i].Inline))
		}
		if text == "" {
			b.WriteString("  |")
			continue
		}
		b.WriteString(" " + text + " |")
	}
}
