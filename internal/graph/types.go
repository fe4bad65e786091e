package graph

import (
	"strings"

	"github.com/goliatone/go-blockgraph/internal/richtext"
)

// Well-known property names.
const (
	PropTitle       = "title"
	PropSource      = "source"
	PropCaption     = "caption"
	PropLanguage    = "language"
	PropLink        = "link"
	PropDescription = "description"
	PropChecked     = "checked"
)

// ColumnFormat carries per-column table display attributes.
type ColumnFormat struct {
	Width int    `json:"width,omitempty"`
	Color string `json:"color,omitempty"`
}

// Format holds display attributes attached to a node.
type Format struct {
	BlockColor     string                  `json:"block_color,omitempty"`
	PageIcon       string                  `json:"page_icon,omitempty"`
	ColumnRatio    float64                 `json:"column_ratio,omitempty"`
	DisplaySource  string                  `json:"display_source,omitempty"`
	BookmarkCover  string                  `json:"bookmark_cover,omitempty"`
	BookmarkIcon   string                  `json:"bookmark_icon,omitempty"`
	ColumnOrder    []string                `json:"table_block_column_order,omitempty"`
	ColumnFormat   map[string]ColumnFormat `json:"table_block_column_format,omitempty"`
	ColumnHeader   bool                    `json:"table_block_column_header,omitempty"`
	RowHeader      bool                    `json:"table_block_row_header,omitempty"`
	BlockFullWidth bool                    `json:"block_full_width,omitempty"`
}

// Node is one record of the content graph. Content holds child ids in
// source order; ParentID is a non-owning back-reference.
type Node struct {
	ID         string
	Type       string
	Properties map[string][]richtext.Run
	Format     Format
	Content    []string
	ParentID   string
	Alive      bool
}

// Property returns the runs stored under name.
func (n *Node) Property(name string) []richtext.Run {
	if n == nil || n.Properties == nil {
		return nil
	}
	return n.Properties[name]
}

// PropertyText returns the plain text stored under name.
func (n *Node) PropertyText(name string) string {
	return strings.TrimSpace(richtext.PlainText(n.Property(name)))
}

// Title is shorthand for the plain text of the title property.
func (n *Node) Title() string {
	return n.PropertyText(PropTitle)
}

// Graph is the id-indexed node set for one content fetch. Consumers treat
// it as read-only.
type Graph map[string]*Node

// Lookup resolves an id, canonicalising it first. Nodes marked not alive
// are reported as missing.
func (g Graph) Lookup(id string) (*Node, bool) {
	if g == nil {
		return nil, false
	}
	node, ok := g[id]
	if !ok {
		canonical := CanonicalID(id)
		if canonical == id {
			return nil, false
		}
		node, ok = g[canonical]
	}
	if !ok || node == nil || !node.Alive {
		return nil, false
	}
	return node, true
}

// Has reports whether id resolves to an alive node.
func (g Graph) Has(id string) bool {
	_, ok := g.Lookup(id)
	return ok
}

// Add stores the node under its canonical id and returns the graph for chaining.
func (g Graph) Add(node *Node) Graph {
	if g == nil || node == nil {
		return g
	}
	node.ID = CanonicalID(node.ID)
	node.ParentID = CanonicalID(node.ParentID)
	for i, child := range node.Content {
		node.Content[i] = CanonicalID(child)
	}
	g[node.ID] = node
	return g
}
