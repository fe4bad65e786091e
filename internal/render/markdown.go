package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/escape"

	"github.com/goliatone/go-blockgraph/internal/blocktree"
	"github.com/goliatone/go-blockgraph/internal/richtext"
	"github.com/goliatone/go-blockgraph/internal/slugger"
)

// listSeparator keeps two adjacent lists of the same kind from merging.
const listSeparator = "<!-- -->"

// Exporter converts block trees into CommonMark with GFM tables and task
// items. Inline HTML is used where Markdown has no syntax (underline,
// colour classes, toggles).
type Exporter struct {
	pageURL func(id, title string) string
}

// ExportOption configures an Exporter.
type ExportOption func(*Exporter)

// WithPageURL sets how links to child pages are resolved.
func WithPageURL(fn func(id, title string) string) ExportOption {
	return func(e *Exporter) {
		if fn != nil {
			e.pageURL = fn
		}
	}
}

// NewExporter returns an exporter. Child pages link to their page slug by
// default.
func NewExporter(opts ...ExportOption) *Exporter {
	e := &Exporter{
		pageURL: func(id, title string) string {
			if s := slugger.PageSlug(title); s != "" {
				return s
			}
			return id
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Markdown renders blocks with a default Exporter.
func Markdown(blocks []*blocktree.Block) string {
	return NewExporter().Markdown(blocks)
}

// Markdown renders the block tree.
func (e *Exporter) Markdown(blocks []*blocktree.Block) string {
	out := e.sequence(blocks)
	if out == "" {
		return ""
	}
	return out + "\n"
}

func (e *Exporter) sequence(blocks []*blocktree.Block) string {
	var b strings.Builder
	var prev *blocktree.Block
	for _, blk := range blocks {
		if blk == nil {
			continue
		}
		chunk := e.block(blk)
		if chunk == "" {
			continue
		}
		if prev != nil {
			b.WriteString(separator(prev, blk))
		}
		b.WriteString(chunk)
		prev = blk
	}
	return b.String()
}

func separator(prev, next *blocktree.Block) string {
	switch {
	case isItem(prev) && isItem(next) && prev.Kind == next.Kind:
		return "\n"
	case prev.Kind == blocktree.KindList && next.Kind == blocktree.KindList && prev.Ordered == next.Ordered:
		return "\n\n" + listSeparator + "\n\n"
	default:
		return "\n\n"
	}
}

func isItem(b *blocktree.Block) bool {
	switch b.Kind {
	case blocktree.KindBulletItem, blocktree.KindNumberItem, blocktree.KindToDo:
		return true
	}
	return false
}

func (e *Exporter) block(b *blocktree.Block) string {
	switch b.Kind {
	case blocktree.KindParagraph:
		return e.withChildren(inlineMarkdown(b.Text), b.Children)
	case blocktree.KindHeading:
		level := b.Level
		if level < 1 || level > 6 {
			level = 1
		}
		line := strings.Repeat("#", level) + " " + inlineMarkdown(b.Text)
		if b.Anchor != "" {
			line += " {#" + b.Anchor + "}"
		}
		return e.withChildren(line, b.Children)
	case blocktree.KindList:
		items := make([]string, 0, len(b.Children))
		for _, child := range b.Children {
			if chunk := e.block(child); chunk != "" {
				items = append(items, chunk)
			}
		}
		return strings.Join(items, "\n")
	case blocktree.KindBulletItem:
		return e.item("-", inlineMarkdown(b.Text), b.Children)
	case blocktree.KindNumberItem:
		index := b.Index
		if index < 1 {
			index = 1
		}
		return e.item(fmt.Sprintf("%d.", index), inlineMarkdown(b.Text), b.Children)
	case blocktree.KindToDo:
		box := "[ ]"
		if b.Checked {
			box = "[x]"
		}
		return e.item("-", box+" "+inlineMarkdown(b.Text), b.Children)
	case blocktree.KindToggle:
		var sb strings.Builder
		sb.WriteString("<details>\n<summary>")
		sb.WriteString(html.EscapeString(b.PlainText()))
		sb.WriteString("</summary>\n\n")
		if inner := e.sequence(b.Children); inner != "" {
			sb.WriteString(inner)
			sb.WriteString("\n\n")
		}
		sb.WriteString("</details>")
		return sb.String()
	case blocktree.KindQuote:
		return quote(e.withChildren(inlineMarkdown(b.Text), b.Children))
	case blocktree.KindCallout:
		text := inlineMarkdown(b.Text)
		if b.Icon != "" {
			text = b.Icon + " " + text
		}
		return quote(e.withChildren(text, b.Children))
	case blocktree.KindCode:
		return codeBlock(b.Language, richtext.JoinText(b.Text))
	case blocktree.KindEquation:
		if b.Markup != "" {
			return b.Markup
		}
		return "$$\n" + b.Expr + "\n$$"
	case blocktree.KindImage:
		if b.URL == "" {
			return ""
		}
		alt := escape.MarkdownCharacters(richtext.JoinText(b.Caption))
		return e.withChildren("!["+alt+"]("+destination(b.URL)+")", b.Children)
	case blocktree.KindVideo, blocktree.KindEmbed:
		if b.URL == "" {
			return ""
		}
		label := inlineMarkdown(b.Caption)
		if label == "" {
			label = escape.MarkdownCharacters(b.URL)
		}
		return e.withChildren("["+label+"]("+destination(b.URL)+")", b.Children)
	case blocktree.KindBookmark:
		if b.URL == "" {
			return ""
		}
		title := escape.MarkdownCharacters(b.Title)
		if title == "" {
			title = escape.MarkdownCharacters(b.URL)
		}
		line := "[" + title + "](" + destination(b.URL) + ")"
		if b.Description != "" {
			line += "\n" + escape.MarkdownCharacters(b.Description)
		}
		return line
	case blocktree.KindTable:
		return tableMarkdown(b.Table)
	case blocktree.KindDivider:
		return "---"
	case blocktree.KindPageLink:
		title := b.Title
		if title == "" {
			title = b.ID
		}
		return "[" + escape.MarkdownCharacters(title) + "](" + destination(e.pageURL(b.ID, b.Title)) + ")"
	default:
		// column lists, columns and unsupported blocks contribute their children only
		return e.sequence(b.Children)
	}
}

func (e *Exporter) withChildren(head string, children []*blocktree.Block) string {
	inner := e.sequence(children)
	switch {
	case inner == "":
		return head
	case head == "":
		return inner
	default:
		return head + "\n\n" + inner
	}
}

// item renders a list entry with nested blocks indented under the marker.
func (e *Exporter) item(marker, text string, children []*blocktree.Block) string {
	head := marker + " " + text
	inner := e.sequence(children)
	if inner == "" {
		return head
	}
	sep := "\n\n"
	if first := firstBlock(children); first != nil && (isItem(first) || first.Kind == blocktree.KindList) {
		sep = "\n"
	}
	pad := strings.Repeat(" ", len(marker)+1)
	return head + sep + prefixLines(inner, pad, pad)
}

func firstBlock(blocks []*blocktree.Block) *blocktree.Block {
	for _, b := range blocks {
		if b != nil {
			return b
		}
	}
	return nil
}

func quote(body string) string {
	return prefixLines(body, "> ", "> ")
}

// prefixLines prefixes every line; blank lines get the prefix without
// trailing spaces.
func prefixLines(text, first, rest string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		prefix := rest
		if i == 0 {
			prefix = first
		}
		if strings.TrimSpace(line) == "" {
			lines[i] = strings.TrimRight(prefix, " ")
			continue
		}
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

func codeBlock(language, code string) string {
	fence := strings.Repeat("`", max(3, longestRun(code, '`')+1))
	return fence + strings.TrimSpace(language) + "\n" + strings.TrimRight(code, "\n") + "\n" + fence
}

func longestRun(s string, ch rune) int {
	longest, current := 0, 0
	for _, r := range s {
		if r == ch {
			current++
			if current > longest {
				longest = current
			}
			continue
		}
		current = 0
	}
	return longest
}

var destinationReplacer = strings.NewReplacer(" ", "%20", "(", "%28", ")", "%29")

func destination(url string) string {
	return destinationReplacer.Replace(strings.TrimSpace(url))
}
