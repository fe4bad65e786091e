package richtext

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/goliatone/go-blockgraph/pkg/interfaces"
)

const (
	// DefaultRelativeWindow is how far back an instant is still shown as "time ago".
	DefaultRelativeWindow = 5 * 24 * time.Hour
	// DefaultAbsoluteLayout renders DD/MM/YYYY HH:mm.
	DefaultAbsoluteLayout = "02/01/2006 15:04"

	dateRangeSeparator = " → "
)

// DefaultExternalSchemes lists URL prefixes that open in a new context.
var DefaultExternalSchemes = []string{"http://", "https://"}

// IssueKind classifies a recoverable decoration anomaly.
type IssueKind string

const (
	IssueUnknownDecorator  IssueKind = "unknown_decorator"
	IssueUnresolvedMention IssueKind = "unresolved_mention"
)

// Issue describes a decoration that could not be applied as written.
type Issue struct {
	Kind   IssueKind
	Detail string
}

// RunDecorator folds run decorations into inline node trees. It holds no
// per-call state and is safe for concurrent use once constructed.
type RunDecorator struct {
	directory interfaces.UserDirectory
	math      interfaces.MathRenderer
	now       func() time.Time
	location  *time.Location
	window    time.Duration
	layout    string
	schemes   []string
	palette   ColorPalette
}

// Option configures a RunDecorator.
type Option func(*RunDecorator)

// WithDirectory supplies the user directory used to resolve mentions.
func WithDirectory(dir interfaces.UserDirectory) Option {
	return func(d *RunDecorator) {
		d.directory = dir
	}
}

// WithMathRenderer supplies the equation typesetter.
func WithMathRenderer(r interfaces.MathRenderer) Option {
	return func(d *RunDecorator) {
		d.math = r
	}
}

// WithClock overrides the reference time used for relative dates.
func WithClock(now func() time.Time) Option {
	return func(d *RunDecorator) {
		if now != nil {
			d.now = now
		}
	}
}

// WithLocation sets the zone absolute dates are rendered in.
func WithLocation(loc *time.Location) Option {
	return func(d *RunDecorator) {
		if loc != nil {
			d.location = loc
		}
	}
}

// WithRelativeWindow overrides DefaultRelativeWindow.
func WithRelativeWindow(window time.Duration) Option {
	return func(d *RunDecorator) {
		if window > 0 {
			d.window = window
		}
	}
}

// WithAbsoluteLayout overrides DefaultAbsoluteLayout.
func WithAbsoluteLayout(layout string) Option {
	return func(d *RunDecorator) {
		if strings.TrimSpace(layout) != "" {
			d.layout = layout
		}
	}
}

// WithExternalSchemes overrides DefaultExternalSchemes.
func WithExternalSchemes(schemes []string) Option {
	return func(d *RunDecorator) {
		if len(schemes) > 0 {
			d.schemes = normalizeSchemes(schemes)
		}
	}
}

// WithPalette overrides DefaultPalette.
func WithPalette(p ColorPalette) Option {
	return func(d *RunDecorator) {
		d.palette = p
	}
}

// NewRunDecorator constructs a decorator with the supplied options applied
// over the package defaults.
func NewRunDecorator(opts ...Option) *RunDecorator {
	d := &RunDecorator{
		now:      time.Now,
		location: time.UTC,
		window:   DefaultRelativeWindow,
		layout:   DefaultAbsoluteLayout,
		schemes:  normalizeSchemes(DefaultExternalSchemes),
		palette:  DefaultPalette(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decorate folds the run's decorations into a styled inline node.
func (d *RunDecorator) Decorate(run Run) Inline {
	return d.DecorateReport(run, nil)
}

// DecorateReport is Decorate with a callback receiving recoverable issues.
func (d *RunDecorator) DecorateReport(run Run, report func(Issue)) Inline {
	if report == nil {
		report = func(Issue) {}
	}
	if len(run.Decorations) == 0 {
		return Text{Value: run.Text}
	}

	node := d.leaf(run, report)
	if _, empty := node.(Empty); empty {
		return node
	}

	for _, dec := range run.Decorations {
		switch v := dec.(type) {
		case Bold:
			node = Style{Style: StyleBold, Child: node}
		case Italic:
			node = Style{Style: StyleItalic, Child: node}
		case Underline:
			node = Style{Style: StyleUnderline, Child: node}
		case Strike:
			node = Style{Style: StyleStrike, Child: node}
		case Code:
			node = Style{Style: StyleCode, Child: node}
		case Color:
			node = Palette{Class: d.palette.TextClass(v.Name), Child: node}
		case Highlight:
			node = Palette{Class: d.palette.HighlightClass(v.Name), Highlight: true, Child: node}
		case Link:
			node = Anchor{Href: v.URL, External: d.IsExternal(v.URL), Child: node}
		case Equation, Mention, Date:
			// consumed by leaf
		case Unknown:
			report(Issue{Kind: IssueUnknownDecorator, Detail: v.Tag})
		default:
			report(Issue{Kind: IssueUnknownDecorator, Detail: fmt.Sprintf("%T", dec)})
		}
	}
	return node
}

// DecorateAll decorates every run in order, dropping runs that render nothing.
func (d *RunDecorator) DecorateAll(runs []Run, report func(Issue)) []Inline {
	if len(runs) == 0 {
		return nil
	}
	out := make([]Inline, 0, len(runs))
	for _, run := range runs {
		node := d.DecorateReport(run, report)
		if _, empty := node.(Empty); empty {
			continue
		}
		out = append(out, node)
	}
	return out
}

// IsExternal reports whether the URL starts with a recognised external scheme.
func (d *RunDecorator) IsExternal(url string) bool {
	candidate := strings.ToLower(strings.TrimSpace(url))
	for _, scheme := range d.schemes {
		if strings.HasPrefix(candidate, scheme) {
			return true
		}
	}
	return false
}

// FormatDate renders a date decoration relative to the decorator's clock.
func (d *RunDecorator) FormatDate(date Date) string {
	start := d.formatInstant(date.Start)
	if date.End == nil {
		return start
	}
	return start + dateRangeSeparator + d.formatInstant(*date.End)
}

// leaf picks the node the style decorators wrap. The first content
// decorator wins; without one the run text is used.
func (d *RunDecorator) leaf(run Run, report func(Issue)) Inline {
	for _, dec := range run.Decorations {
		switch v := dec.(type) {
		case Equation:
			return d.equation(v)
		case Mention:
			return d.mention(v, report)
		case Date:
			return DateText{Value: d.FormatDate(v)}
		}
	}
	return Text{Value: run.Text}
}

func (d *RunDecorator) equation(eq Equation) Inline {
	node := Math{Expr: eq.Expr}
	if d.math == nil {
		return node
	}
	markup, err := d.math.RenderMath(eq.Expr, false)
	if err != nil {
		return node
	}
	node.Markup = markup
	return node
}

func (d *RunDecorator) mention(m Mention, report func(Issue)) Inline {
	if d.directory == nil {
		report(Issue{Kind: IssueUnresolvedMention, Detail: m.UserID})
		return Empty{}
	}
	user, ok := d.directory.LookupUser(m.UserID)
	if !ok {
		report(Issue{Kind: IssueUnresolvedMention, Detail: m.UserID})
		return Empty{}
	}
	name := strings.TrimSpace(user.Name)
	if name == "" {
		name = m.UserID
	}
	return MentionChip{UserID: m.UserID, Name: name, AvatarURL: user.AvatarURL}
}

func (d *RunDecorator) formatInstant(t time.Time) string {
	now := d.now()
	if now.Sub(t) > d.window {
		return t.In(d.location).Format(d.layout)
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

func normalizeSchemes(schemes []string) []string {
	out := make([]string, 0, len(schemes))
	for _, s := range schemes {
		if trimmed := strings.ToLower(strings.TrimSpace(s)); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
