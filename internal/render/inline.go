package render

import (
	"html"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/escape"

	"github.com/goliatone/go-blockgraph/internal/richtext"
)

func inlineMarkdown(nodes []richtext.Inline) string {
	var b strings.Builder
	for _, n := range nodes {
		b.WriteString(inlineNode(n))
	}
	return b.String()
}

func inlineNode(n richtext.Inline) string {
	switch v := n.(type) {
	case richtext.Text:
		return escape.MarkdownCharacters(v.Value)
	case richtext.DateText:
		return escape.MarkdownCharacters(v.Value)
	case richtext.MentionChip:
		return "@" + escape.MarkdownCharacters(v.Name)
	case richtext.Math:
		if v.Markup != "" {
			return v.Markup
		}
		return "$" + v.Expr + "$"
	case richtext.Style:
		return styleMarkdown(v)
	case richtext.Palette:
		return `<span class="` + html.EscapeString(v.Class) + `">` + inlineNode(v.Child) + "</span>"
	case richtext.Anchor:
		label := inlineNode(v.Child)
		if strings.TrimSpace(label) == "" {
			label = escape.MarkdownCharacters(v.Href)
		}
		return "[" + label + "](" + destination(v.Href) + ")"
	default:
		return ""
	}
}

func styleMarkdown(s richtext.Style) string {
	switch s.Style {
	case richtext.StyleBold:
		return delimit(inlineNode(s.Child), "**", "**")
	case richtext.StyleItalic:
		return delimit(inlineNode(s.Child), "_", "_")
	case richtext.StyleStrike:
		return delimit(inlineNode(s.Child), "~~", "~~")
	case richtext.StyleUnderline:
		return delimit(inlineNode(s.Child), "<u>", "</u>")
	case richtext.StyleCode:
		if text, ok := s.Child.(richtext.Text); ok {
			return codeSpan(text.Value)
		}
		return delimit(inlineNode(s.Child), "<code>", "</code>")
	default:
		return inlineNode(s.Child)
	}
}

// delimit wraps inner, moving surrounding whitespace outside the
// delimiters so emphasis stays valid.
func delimit(inner, open, close string) string {
	trimmed := strings.TrimSpace(inner)
	if trimmed == "" {
		return inner
	}
	start := strings.Index(inner, trimmed)
	lead := inner[:start]
	trail := inner[start+len(trimmed):]
	return lead + open + trimmed + close + trail
}

func codeSpan(code string) string {
	if code == "" {
		return ""
	}
	fence := strings.Repeat("`", longestRun(code, '`')+1)
	if strings.HasPrefix(code, "`") || strings.HasSuffix(code, "`") {
		return fence + " " + code + " " + fence
	}
	return fence + code + fence
}
