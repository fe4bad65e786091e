package lists

import (
	"strings"

	"github.com/goliatone/go-blockgraph/internal/graph"
)

// Node types that form lists.
const (
	TypeBulleted = "bulleted_list"
	TypeNumbered = "numbered_list"
)

// NumberStyle is the marker style of an ordered list.
type NumberStyle string

const (
	StyleDecimal    NumberStyle = "decimal"
	StyleLowerAlpha NumberStyle = "lower-alpha"
	StyleLowerRoman NumberStyle = "lower-roman"
)

var numberStyles = [...]NumberStyle{StyleDecimal, StyleLowerAlpha, StyleLowerRoman}

// NodeLookup resolves ids to nodes. graph.Graph satisfies it.
type NodeLookup interface {
	Lookup(id string) (*graph.Node, bool)
}

// Member is one sibling of a group with its 1-based position.
type Member struct {
	ID       string
	Position int
}

// Group is a maximal contiguous run of siblings sharing a node type.
// Kind is empty for ids the lookup could not resolve.
type Group struct {
	Kind    string
	Members []Member
	// Level counts consecutive ancestors of the same list kind.
	Level int
	// Style is set for numbered groups only.
	Style NumberStyle
	// Container is true when the group opens its own list rather than
	// continuing one owned by the parent item.
	Container bool
}

// IsList reports whether the group holds list items.
func (g Group) IsList() bool {
	return IsListType(g.Kind)
}

// Ordered reports whether the group is a numbered list.
func (g Group) Ordered() bool {
	return g.Kind == TypeNumbered
}

// IDs returns the member ids in order.
func (g Group) IDs() []string {
	ids := make([]string, len(g.Members))
	for i, m := range g.Members {
		ids[i] = m.ID
	}
	return ids
}

// IsListType reports whether nodeType is a list item type.
func IsListType(nodeType string) bool {
	switch strings.TrimSpace(nodeType) {
	case TypeBulleted, TypeNumbered:
		return true
	}
	return false
}

// StyleForLevel cycles decimal, lower-alpha, lower-roman.
func StyleForLevel(level int) NumberStyle {
	if level < 0 {
		level = 0
	}
	return numberStyles[level%len(numberStyles)]
}

// Siblings partitions ordered sibling ids into contiguous same-type groups.
// Every id lands in exactly one group and concatenating the groups
// reproduces the input order.
func Siblings(ids []string, lookup NodeLookup) []Group {
	if len(ids) == 0 {
		return nil
	}

	var groups []Group
	var current *Group
	for _, id := range ids {
		kind := ""
		var node *graph.Node
		if lookup != nil {
			if n, ok := lookup.Lookup(id); ok {
				node = n
				kind = n.Type
			}
		}

		if current == nil || current.Kind != kind {
			groups = append(groups, Group{Kind: kind})
			current = &groups[len(groups)-1]
			if IsListType(kind) && node != nil {
				parent := parentOf(node, lookup)
				current.Level = Level(node, lookup)
				current.Container = parent == nil || parent.Type != kind
				if kind == TypeNumbered {
					current.Style = StyleForLevel(current.Level)
				}
			}
		}
		current.Members = append(current.Members, Member{ID: id, Position: len(current.Members) + 1})
	}
	return groups
}

// Level walks parent references upward and counts consecutive ancestors
// sharing the node's type. Cyclic parent chains stop at the first repeat.
func Level(node *graph.Node, lookup NodeLookup) int {
	if node == nil || lookup == nil {
		return 0
	}
	seen := map[string]struct{}{node.ID: {}}
	level := 0
	for parent := parentOf(node, lookup); parent != nil && parent.Type == node.Type; parent = parentOf(parent, lookup) {
		if _, dup := seen[parent.ID]; dup {
			break
		}
		seen[parent.ID] = struct{}{}
		level++
	}
	return level
}

func parentOf(node *graph.Node, lookup NodeLookup) *graph.Node {
	if node == nil || node.ParentID == "" || lookup == nil {
		return nil
	}
	parent, ok := lookup.Lookup(node.ParentID)
	if !ok {
		return nil
	}
	return parent
}
