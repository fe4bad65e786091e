package richtext

import (
	"encoding/json"
	"strings"
)

// NodeType tags an inline node variant.
type NodeType string

const (
	NodeText    NodeType = "text"
	NodeStyle   NodeType = "style"
	NodePalette NodeType = "palette"
	NodeAnchor  NodeType = "anchor"
	NodeMath    NodeType = "math"
	NodeMention NodeType = "mention"
	NodeDate    NodeType = "date"
	NodeEmpty   NodeType = "empty"
)

// StyleKind names the simple text styles.
type StyleKind string

const (
	StyleBold      StyleKind = "bold"
	StyleItalic    StyleKind = "italic"
	StyleUnderline StyleKind = "underline"
	StyleStrike    StyleKind = "strike"
	StyleCode      StyleKind = "code"
)

// Inline is one node of a decorated run.
type Inline interface {
	Type() NodeType
}

// Text is the leaf holding literal run content.
type Text struct {
	Value string
}

// Style wraps its child in a simple text style.
type Style struct {
	Style StyleKind
	Child Inline
}

// Palette wraps its child in a colour class.
type Palette struct {
	Class     string
	Highlight bool
	Child     Inline
}

// Anchor wraps its child in a hyperlink. External links open in a new context.
type Anchor struct {
	Href     string
	External bool
	Child    Inline
}

// Math is an equation leaf. Markup is empty when no typesetter was available.
type Math struct {
	Expr   string
	Markup string
}

// MentionChip is a resolved user mention leaf.
type MentionChip struct {
	UserID    string
	Name      string
	AvatarURL string
}

// DateText is a formatted date leaf.
type DateText struct {
	Value string
}

// Empty renders nothing.
type Empty struct{}

func (Text) Type() NodeType        { return NodeText }
func (Style) Type() NodeType       { return NodeStyle }
func (Palette) Type() NodeType     { return NodePalette }
func (Anchor) Type() NodeType      { return NodeAnchor }
func (Math) Type() NodeType        { return NodeMath }
func (MentionChip) Type() NodeType { return NodeMention }
func (DateText) Type() NodeType    { return NodeDate }
func (Empty) Type() NodeType       { return NodeEmpty }

func (n Text) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  NodeType `json:"type"`
		Value string   `json:"value"`
	}{NodeText, n.Value})
}

func (n Style) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  NodeType  `json:"type"`
		Style StyleKind `json:"style"`
		Child Inline    `json:"child"`
	}{NodeStyle, n.Style, n.Child})
}

func (n Palette) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type      NodeType `json:"type"`
		Class     string   `json:"class"`
		Highlight bool     `json:"highlight,omitempty"`
		Child     Inline   `json:"child"`
	}{NodePalette, n.Class, n.Highlight, n.Child})
}

func (n Anchor) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     NodeType `json:"type"`
		Href     string   `json:"href"`
		External bool     `json:"external"`
		Child    Inline   `json:"child"`
	}{NodeAnchor, n.Href, n.External, n.Child})
}

func (n Math) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type   NodeType `json:"type"`
		Expr   string   `json:"expr"`
		Markup string   `json:"markup,omitempty"`
	}{NodeMath, n.Expr, n.Markup})
}

func (n MentionChip) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type      NodeType `json:"type"`
		UserID    string   `json:"user_id"`
		Name      string   `json:"name"`
		AvatarURL string   `json:"avatar_url,omitempty"`
	}{NodeMention, n.UserID, n.Name, n.AvatarURL})
}

func (n DateText) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  NodeType `json:"type"`
		Value string   `json:"value"`
	}{NodeDate, n.Value})
}

func (Empty) MarshalJSON() ([]byte, error) {
	return []byte(`{"type":"empty"}`), nil
}

// Unwrap returns the child of a wrapper node, or nil for leaves.
func Unwrap(n Inline) Inline {
	switch v := n.(type) {
	case Style:
		return v.Child
	case Palette:
		return v.Child
	case Anchor:
		return v.Child
	default:
		return nil
	}
}

// Leaf descends through wrapper nodes and returns the innermost node.
func Leaf(n Inline) Inline {
	for n != nil {
		child := Unwrap(n)
		if child == nil {
			return n
		}
		n = child
	}
	return nil
}

// TextOf returns the visible text of a node tree.
func TextOf(n Inline) string {
	switch v := Leaf(n).(type) {
	case Text:
		return v.Value
	case Math:
		return v.Expr
	case MentionChip:
		return v.Name
	case DateText:
		return v.Value
	default:
		return ""
	}
}

// JoinText returns the visible text of a sequence of nodes.
func JoinText(nodes []Inline) string {
	var b strings.Builder
	for _, n := range nodes {
		b.WriteString(TextOf(n))
	}
	return b.String()
}
