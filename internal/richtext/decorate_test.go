package richtext

import (
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-blockgraph/pkg/interfaces"
)

type stubDirectory map[string]interfaces.User

func (s stubDirectory) LookupUser(id string) (interfaces.User, bool) {
	user, ok := s[id]
	return user, ok
}

type stubMath struct {
	err error
}

func (s stubMath) RenderMath(expr string, display bool) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "<math>" + expr + "</math>", nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestDecorateWithoutDecorationsReturnsPlainText(t *testing.T) {
	d := NewRunDecorator()

	got := d.Decorate(Plain("hello"))

	text, ok := got.(Text)
	if !ok {
		t.Fatalf("expected Text leaf, got %T", got)
	}
	if text.Value != "hello" {
		t.Fatalf("expected hello, got %q", text.Value)
	}
}

func TestDecorateFoldsFirstDecoratorInnermost(t *testing.T) {
	d := NewRunDecorator()
	run := Run{Text: "x", Decorations: []Decorator{Bold{}, Link{URL: "https://x.example"}}}

	got := d.Decorate(run)

	anchor, ok := got.(Anchor)
	if !ok {
		t.Fatalf("expected Anchor outermost, got %T", got)
	}
	if anchor.Href != "https://x.example" || !anchor.External {
		t.Fatalf("unexpected anchor %+v", anchor)
	}
	style, ok := anchor.Child.(Style)
	if !ok || style.Style != StyleBold {
		t.Fatalf("expected bold inside anchor, got %#v", anchor.Child)
	}
	if leaf, ok := style.Child.(Text); !ok || leaf.Value != "x" {
		t.Fatalf("expected text leaf, got %#v", style.Child)
	}
}

func TestDecorateReversedListReversesNesting(t *testing.T) {
	d := NewRunDecorator()
	run := Run{Text: "x", Decorations: []Decorator{Link{URL: "/page"}, Bold{}}}

	got := d.Decorate(run)

	style, ok := got.(Style)
	if !ok || style.Style != StyleBold {
		t.Fatalf("expected bold outermost, got %#v", got)
	}
	anchor, ok := style.Child.(Anchor)
	if !ok {
		t.Fatalf("expected anchor inside bold, got %#v", style.Child)
	}
	if anchor.External {
		t.Fatalf("relative link must not be external")
	}
}

func TestDecorateStyles(t *testing.T) {
	cases := []struct {
		name string
		dec  Decorator
		want StyleKind
	}{
		{"bold", Bold{}, StyleBold},
		{"italic", Italic{}, StyleItalic},
		{"underline", Underline{}, StyleUnderline},
		{"strike", Strike{}, StyleStrike},
		{"code", Code{}, StyleCode},
	}
	d := NewRunDecorator()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := d.Decorate(Run{Text: "t", Decorations: []Decorator{tc.dec}})
			style, ok := got.(Style)
			if !ok || style.Style != tc.want {
				t.Fatalf("expected %s style, got %#v", tc.want, got)
			}
		})
	}
}

func TestDecorateUnknownPassesThroughAndReports(t *testing.T) {
	d := NewRunDecorator()
	var issues []Issue
	run := Run{Text: "t", Decorations: []Decorator{Unknown{Tag: "zz"}, Italic{}}}

	got := d.DecorateReport(run, func(i Issue) { issues = append(issues, i) })

	style, ok := got.(Style)
	if !ok || style.Style != StyleItalic {
		t.Fatalf("expected italic wrapper, got %#v", got)
	}
	if _, ok := style.Child.(Text); !ok {
		t.Fatalf("unknown decorator must not wrap, got %#v", style.Child)
	}
	if len(issues) != 1 || issues[0].Kind != IssueUnknownDecorator || issues[0].Detail != "zz" {
		t.Fatalf("expected one unknown decorator issue, got %+v", issues)
	}
}

func TestDecorateColorFallsBackToDefaultClass(t *testing.T) {
	d := NewRunDecorator()

	known := d.Decorate(Run{Text: "t", Decorations: []Decorator{Color{Name: "red"}}})
	unknown := d.Decorate(Run{Text: "t", Decorations: []Decorator{Color{Name: "ultraviolet"}}})
	highlight := d.Decorate(Run{Text: "t", Decorations: []Decorator{Highlight{Name: "blue_background"}}})

	if got := known.(Palette).Class; got != "text-red" {
		t.Fatalf("expected text-red, got %q", got)
	}
	if got := unknown.(Palette).Class; got != "text-default" {
		t.Fatalf("expected text-default, got %q", got)
	}
	hp := highlight.(Palette)
	if hp.Class != "highlight-blue" || !hp.Highlight {
		t.Fatalf("unexpected highlight palette %+v", hp)
	}
}

func TestIsExternal(t *testing.T) {
	d := NewRunDecorator()
	cases := map[string]bool{
		"https://example.com": true,
		"HTTP://EXAMPLE.COM":  true,
		"/abc123":             false,
		"mailto:a@b.c":        false,
		"":                    false,
	}
	for url, want := range cases {
		if got := d.IsExternal(url); got != want {
			t.Fatalf("IsExternal(%q) = %v, want %v", url, got, want)
		}
	}

	custom := NewRunDecorator(WithExternalSchemes([]string{"mailto:"}))
	if !custom.IsExternal("mailto:a@b.c") {
		t.Fatalf("expected custom scheme to be external")
	}
}

func TestDecorateEquationDelegatesToRenderer(t *testing.T) {
	run := Run{Text: "⁍", Decorations: []Decorator{Equation{Expr: "E=mc^2"}}}

	plain := NewRunDecorator().Decorate(run)
	if m, ok := plain.(Math); !ok || m.Expr != "E=mc^2" || m.Markup != "" {
		t.Fatalf("expected raw math leaf, got %#v", plain)
	}

	rendered := NewRunDecorator(WithMathRenderer(stubMath{})).Decorate(run)
	if m := rendered.(Math); m.Markup != "<math>E=mc^2</math>" {
		t.Fatalf("expected typeset markup, got %q", m.Markup)
	}

	failed := NewRunDecorator(WithMathRenderer(stubMath{err: errors.New("boom")})).Decorate(run)
	if m := failed.(Math); m.Markup != "" || m.Expr != "E=mc^2" {
		t.Fatalf("expected fallback to raw expression, got %#v", m)
	}
}

func TestDecorateMention(t *testing.T) {
	dir := stubDirectory{"u1": {ID: "u1", Name: "Ada", AvatarURL: "https://img/ada.png"}}
	d := NewRunDecorator(WithDirectory(dir))

	got := d.Decorate(Run{Text: "‣", Decorations: []Decorator{Mention{UserID: "u1"}, Bold{}}})
	style, ok := got.(Style)
	if !ok {
		t.Fatalf("expected bold wrapper around chip, got %#v", got)
	}
	chip, ok := style.Child.(MentionChip)
	if !ok || chip.Name != "Ada" {
		t.Fatalf("expected resolved chip, got %#v", style.Child)
	}

	var issues []Issue
	missing := d.DecorateReport(Run{Text: "‣", Decorations: []Decorator{Mention{UserID: "nobody"}, Bold{}}}, func(i Issue) {
		issues = append(issues, i)
	})
	if _, ok := missing.(Empty); !ok {
		t.Fatalf("expected empty node for unresolved mention, got %#v", missing)
	}
	if len(issues) != 1 || issues[0].Kind != IssueUnresolvedMention {
		t.Fatalf("expected unresolved mention issue, got %+v", issues)
	}
}

func TestDecorateDates(t *testing.T) {
	now := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	d := NewRunDecorator(WithClock(fixedClock(now)))

	old := time.Date(2024, 1, 10, 9, 30, 0, 0, time.UTC)
	recent := now.Add(-48 * time.Hour)
	hours := now.Add(-3 * time.Hour)

	cases := []struct {
		name string
		date Date
		want string
	}{
		{"absolute", Date{Start: old}, "10/01/2024 09:30"},
		{"relative days", Date{Start: recent}, "2 days ago"},
		{"relative hours", Date{Start: hours}, "3 hours ago"},
		{"range", Date{Start: old, End: &recent}, "10/01/2024 09:30 → 2 days ago"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := d.Decorate(Run{Text: "‣", Decorations: []Decorator{tc.date}})
			dt, ok := got.(DateText)
			if !ok {
				t.Fatalf("expected DateText, got %#v", got)
			}
			if dt.Value != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, dt.Value)
			}
		})
	}
}

func TestDecorateAbsoluteDateUsesLocation(t *testing.T) {
	now := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	loc := time.FixedZone("plus2", 2*60*60)
	d := NewRunDecorator(WithClock(fixedClock(now)), WithLocation(loc))

	got := d.FormatDate(Date{Start: time.Date(2024, 1, 10, 9, 30, 0, 0, time.UTC)})
	if got != "10/01/2024 11:30" {
		t.Fatalf("expected shifted time, got %q", got)
	}
}

func TestDecorateAllDropsEmptyNodes(t *testing.T) {
	d := NewRunDecorator()
	runs := []Run{
		Plain("a"),
		{Text: "‣", Decorations: []Decorator{Mention{UserID: "x"}}},
		Plain("b"),
	}

	got := d.DecorateAll(runs, nil)

	if len(got) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(got))
	}
	if JoinText(got) != "ab" {
		t.Fatalf("expected order preserved, got %q", JoinText(got))
	}
}

func TestPlainText(t *testing.T) {
	runs := []Run{Plain("Hello, "), {Text: "World", Decorations: []Decorator{Bold{}}}}
	if got := PlainText(runs); got != "Hello, World" {
		t.Fatalf("expected concatenated text, got %q", got)
	}
	if !runs[1].HasDecoration(KindBold) || runs[0].HasDecoration(KindBold) {
		t.Fatalf("HasDecoration mismatch")
	}
}
