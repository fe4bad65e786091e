package richtext

import (
	"strings"
	"time"
)

// Kind identifies a decorator variant.
type Kind string

const (
	KindBold      Kind = "bold"
	KindItalic    Kind = "italic"
	KindUnderline Kind = "underline"
	KindStrike    Kind = "strike"
	KindCode      Kind = "code"
	KindColor     Kind = "color"
	KindHighlight Kind = "highlight"
	KindLink      Kind = "link"
	KindEquation  Kind = "equation"
	KindMention   Kind = "mention"
	KindDate      Kind = "date"
	KindUnknown   Kind = "unknown"
)

// Decorator is one inline style or behaviour instruction attached to a run.
// The variant set is closed: decoders map tags they do not recognise onto
// Unknown, which the fold passes through unchanged.
type Decorator interface {
	Kind() Kind
}

type (
	Bold      struct{}
	Italic    struct{}
	Underline struct{}
	Strike    struct{}
	Code      struct{}
)

// Color applies a palette text colour.
type Color struct {
	Name string
}

// Highlight applies a palette background colour.
type Highlight struct {
	Name string
}

// Link turns the run into an anchor.
type Link struct {
	URL string
}

// Equation replaces the run text with a typeset expression.
type Equation struct {
	Expr string
}

// Mention replaces the run text with a user chip.
type Mention struct {
	UserID string
}

// Date replaces the run text with a formatted instant, or a range when End is set.
type Date struct {
	Start time.Time
	End   *time.Time
}

// Unknown carries a decoration tag this package does not understand.
type Unknown struct {
	Tag  string
	Args []any
}

func (Bold) Kind() Kind      { return KindBold }
func (Italic) Kind() Kind    { return KindItalic }
func (Underline) Kind() Kind { return KindUnderline }
func (Strike) Kind() Kind    { return KindStrike }
func (Code) Kind() Kind      { return KindCode }
func (Color) Kind() Kind     { return KindColor }
func (Highlight) Kind() Kind { return KindHighlight }
func (Link) Kind() Kind      { return KindLink }
func (Equation) Kind() Kind  { return KindEquation }
func (Mention) Kind() Kind   { return KindMention }
func (Date) Kind() Kind      { return KindDate }
func (Unknown) Kind() Kind   { return KindUnknown }

// IsRange reports whether the date spans two instants.
func (d Date) IsRange() bool {
	return d.End != nil
}

// Run is a contiguous span of text sharing one decoration list.
type Run struct {
	Text        string
	Decorations []Decorator
}

// Plain builds an undecorated run.
func Plain(text string) Run {
	return Run{Text: text}
}

// PlainText concatenates the raw text of every run, ignoring decorations.
func PlainText(runs []Run) string {
	if len(runs) == 0 {
		return ""
	}
	var b strings.Builder
	for _, run := range runs {
		b.WriteString(run.Text)
	}
	return b.String()
}

// HasDecoration reports whether the run carries a decorator of the given kind.
func (r Run) HasDecoration(kind Kind) bool {
	for _, dec := range r.Decorations {
		if dec != nil && dec.Kind() == kind {
			return true
		}
	}
	return false
}
