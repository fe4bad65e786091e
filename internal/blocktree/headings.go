package blocktree

// HeadingEntry is one table-of-contents line.
type HeadingEntry struct {
	Slug  string `json:"slug"`
	Text  string `json:"text"`
	Level int    `json:"level"`
}

// Headings flattens heading blocks depth-first in source order. Slugs are
// the anchors computed during the build.
func Headings(blocks []*Block) []HeadingEntry {
	var out []HeadingEntry
	Walk(blocks, func(b *Block) bool {
		if b.Kind == KindHeading {
			out = append(out, HeadingEntry{
				Slug:  b.Anchor,
				Text:  b.PlainText(),
				Level: b.Level,
			})
		}
		return true
	})
	return out
}
