package blocktree

import (
	"strings"

	"github.com/goliatone/go-blockgraph/internal/lists"
	"github.com/goliatone/go-blockgraph/internal/richtext"
	"github.com/goliatone/go-blockgraph/internal/tables"
)

// Kind tags a Block variant.
type Kind string

const (
	KindParagraph   Kind = "paragraph"
	KindHeading     Kind = "heading"
	KindBulletItem  Kind = "bullet_item"
	KindNumberItem  Kind = "number_item"
	KindToDo        Kind = "to_do"
	KindToggle      Kind = "toggle"
	KindQuote       Kind = "quote"
	KindCallout     Kind = "callout"
	KindCode        Kind = "code"
	KindEquation    Kind = "equation"
	KindImage       Kind = "image"
	KindVideo       Kind = "video"
	KindEmbed       Kind = "embed"
	KindBookmark    Kind = "bookmark"
	KindTable       Kind = "table"
	KindDivider     Kind = "divider"
	KindColumnList  Kind = "column_list"
	KindColumn      Kind = "column"
	KindList        Kind = "list"
	KindPageLink    Kind = "page_link"
	KindUnsupported Kind = "unsupported"
)

// Block is one node of the output tree. Only the fields relevant to Kind
// are populated. Children are owned exclusively by their parent and keep
// source order.
type Block struct {
	ID         string            `json:"id"`
	Kind       Kind              `json:"kind"`
	SourceType string            `json:"source_type,omitempty"`
	Text       []richtext.Inline `json:"text,omitempty"`
	Color      string            `json:"color,omitempty"`

	// Heading level; nesting depth on List, NumberItem and BulletItem
	Level  int    `json:"level,omitempty"`
	Anchor string `json:"anchor,omitempty"`

	// NumberItem
	Index int `json:"index,omitempty"`

	// ToDo
	Checked bool `json:"checked,omitempty"`

	// Callout, Bookmark
	Icon string `json:"icon,omitempty"`

	// Code
	Language string `json:"language,omitempty"`

	// Equation
	Expr   string `json:"expr,omitempty"`
	Markup string `json:"markup,omitempty"`

	// Image, Video, Embed, Bookmark
	URL         string            `json:"url,omitempty"`
	Caption     []richtext.Inline `json:"caption,omitempty"`
	Title       string            `json:"title,omitempty"`
	Description string            `json:"description,omitempty"`
	Cover       string            `json:"cover,omitempty"`

	Table *tables.Table `json:"table,omitempty"`

	// Column
	Ratio float64 `json:"ratio,omitempty"`

	// List container; Style is also set on NumberItem.
	Ordered bool              `json:"ordered,omitempty"`
	Style   lists.NumberStyle `json:"style,omitempty"`
	Start   int               `json:"start,omitempty"`

	Children []*Block `json:"children,omitempty"`
}

// PlainText returns the block's text without decoration.
func (b *Block) PlainText() string {
	if b == nil {
		return ""
	}
	return strings.TrimSpace(richtext.JoinText(b.Text))
}

// Walk visits b and its descendants depth-first in source order. Returning
// false from fn skips the block's children.
func Walk(blocks []*Block, fn func(*Block) bool) {
	for _, b := range blocks {
		if b == nil {
			continue
		}
		if fn(b) {
			Walk(b.Children, fn)
		}
	}
}

// Count returns the number of blocks in the tree.
func Count(blocks []*Block) int {
	n := 0
	Walk(blocks, func(*Block) bool {
		n++
		return true
	})
	return n
}
