package render_test

import (
	"strings"
	"testing"

	"github.com/goliatone/go-blockgraph/internal/blocktree"
	"github.com/goliatone/go-blockgraph/internal/render"
	"github.com/goliatone/go-blockgraph/internal/richtext"
	"github.com/goliatone/go-blockgraph/internal/tables"
)

func text(s string) []richtext.Inline {
	return []richtext.Inline{richtext.Text{Value: s}}
}

func TestMarkdownHeadingAndParagraph(t *testing.T) {
	blocks := []*blocktree.Block{
		{ID: "h", Kind: blocktree.KindHeading, Level: 1, Anchor: "hello-world-abcdef12", Text: text("Hello, World!")},
		{ID: "p", Kind: blocktree.KindParagraph, Text: []richtext.Inline{
			richtext.Text{Value: "plain "},
			richtext.Style{Style: richtext.StyleBold, Child: richtext.Text{Value: "bold"}},
		}},
	}
	want := "# Hello, World! {#hello-world-abcdef12}\n\nplain **bold**\n"
	if got := render.Markdown(blocks); got != want {
		t.Fatalf("unexpected markdown:\n%q\nwant:\n%q", got, want)
	}
}

func TestMarkdownEmpty(t *testing.T) {
	if got := render.Markdown(nil); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}

func TestMarkdownLists(t *testing.T) {
	blocks := []*blocktree.Block{
		{ID: "l1", Kind: blocktree.KindList, Ordered: true, Children: []*blocktree.Block{
			{ID: "n1", Kind: blocktree.KindNumberItem, Index: 1, Text: text("one"), Children: []*blocktree.Block{
				{ID: "n1a", Kind: blocktree.KindNumberItem, Index: 1, Text: text("a")},
			}},
			{ID: "n2", Kind: blocktree.KindNumberItem, Index: 2, Text: text("two")},
		}},
		{ID: "l2", Kind: blocktree.KindList, Children: []*blocktree.Block{
			{ID: "b1", Kind: blocktree.KindBulletItem, Text: text("x")},
		}},
	}
	want := "1. one\n   1. a\n2. two\n\n- x\n"
	if got := render.Markdown(blocks); got != want {
		t.Fatalf("unexpected markdown:\n%q\nwant:\n%q", got, want)
	}
}

func TestMarkdownSeparatesAdjacentListsOfSameKind(t *testing.T) {
	blocks := []*blocktree.Block{
		{ID: "l1", Kind: blocktree.KindList, Ordered: true, Children: []*blocktree.Block{
			{ID: "n1", Kind: blocktree.KindNumberItem, Index: 1, Text: text("first")},
		}},
		{ID: "l2", Kind: blocktree.KindList, Ordered: true, Children: []*blocktree.Block{
			{ID: "n2", Kind: blocktree.KindNumberItem, Index: 1, Text: text("restart")},
		}},
	}
	got := render.Markdown(blocks)
	if !strings.Contains(got, "1. first\n\n<!-- -->\n\n1. restart") {
		t.Fatalf("expected list separator, got %q", got)
	}
}

func TestMarkdownItemWithParagraphChild(t *testing.T) {
	blocks := []*blocktree.Block{
		{ID: "l", Kind: blocktree.KindList, Children: []*blocktree.Block{
			{ID: "b", Kind: blocktree.KindBulletItem, Text: text("item"), Children: []*blocktree.Block{
				{ID: "p", Kind: blocktree.KindParagraph, Text: text("detail")},
			}},
		}},
	}
	want := "- item\n\n  detail\n"
	if got := render.Markdown(blocks); got != want {
		t.Fatalf("unexpected markdown %q, want %q", got, want)
	}
}

func TestMarkdownInlineNodes(t *testing.T) {
	cases := []struct {
		name string
		node richtext.Inline
		want string
	}{
		{"link wrapping bold", richtext.Anchor{Href: "https://x.example", External: true, Child: richtext.Style{Style: richtext.StyleBold, Child: richtext.Text{Value: "World"}}}, "[**World**](https://x.example)"},
		{"palette", richtext.Palette{Class: "text-red", Child: richtext.Text{Value: "red"}}, `<span class="text-red">red</span>`},
		{"underline", richtext.Style{Style: richtext.StyleUnderline, Child: richtext.Text{Value: "u"}}, "<u>u</u>"},
		{"italic", richtext.Style{Style: richtext.StyleItalic, Child: richtext.Text{Value: "i"}}, "_i_"},
		{"strike", richtext.Style{Style: richtext.StyleStrike, Child: richtext.Text{Value: "s"}}, "~~s~~"},
		{"code", richtext.Style{Style: richtext.StyleCode, Child: richtext.Text{Value: "a_b"}}, "`a_b`"},
		{"code with backtick", richtext.Style{Style: richtext.StyleCode, Child: richtext.Text{Value: "`x"}}, "`` `x ``"},
		{"math", richtext.Math{Expr: "x^2"}, "$x^2$"},
		{"math markup", richtext.Math{Expr: "x", Markup: "<m>x</m>"}, "<m>x</m>"},
		{"mention", richtext.MentionChip{UserID: "u", Name: "Ada Lovelace"}, "@Ada Lovelace"},
		{"date", richtext.DateText{Value: "2 days ago"}, "2 days ago"},
		{"trailing space outside emphasis", richtext.Style{Style: richtext.StyleBold, Child: richtext.Text{Value: "bold "}}, "**bold** "},
		{"escaped text", richtext.Text{Value: "a*b*"}, `a\*b\*`},
		{"link with space", richtext.Anchor{Href: "https://x.example/a b", Child: richtext.Text{Value: "x"}}, "[x](https://x.example/a%20b)"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			blocks := []*blocktree.Block{{ID: "p", Kind: blocktree.KindParagraph, Text: []richtext.Inline{tc.node}}}
			got := strings.TrimSuffix(render.Markdown(blocks), "\n")
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestMarkdownBlockVariants(t *testing.T) {
	cases := []struct {
		name  string
		block *blocktree.Block
		want  string
	}{
		{"todo", &blocktree.Block{Kind: blocktree.KindToDo, Checked: true, Text: text("done")}, "- [x] done"},
		{"open todo", &blocktree.Block{Kind: blocktree.KindToDo, Text: text("open")}, "- [ ] open"},
		{"quote", &blocktree.Block{Kind: blocktree.KindQuote, Text: text("q")}, "> q"},
		{"callout", &blocktree.Block{Kind: blocktree.KindCallout, Icon: "💡", Text: text("note")}, "> 💡 note"},
		{"code", &blocktree.Block{Kind: blocktree.KindCode, Language: "go", Text: text("fmt.Println()")}, "```go\nfmt.Println()\n```"},
		{"equation", &blocktree.Block{Kind: blocktree.KindEquation, Expr: "E=mc^2"}, "$$\nE=mc^2\n$$"},
		{"divider", &blocktree.Block{Kind: blocktree.KindDivider}, "---"},
		{"image", &blocktree.Block{Kind: blocktree.KindImage, URL: "https://i.example/x.png", Caption: text("cap")}, "![cap](https://i.example/x.png)"},
		{"image without url", &blocktree.Block{Kind: blocktree.KindImage}, ""},
		{"video", &blocktree.Block{Kind: blocktree.KindVideo, URL: "https://v.example/v"}, "[https://v.example/v](https://v.example/v)"},
		{"bookmark", &blocktree.Block{Kind: blocktree.KindBookmark, URL: "https://go.dev", Title: "Go", Description: "The Go site"}, "[Go](https://go.dev)\nThe Go site"},
		{"toggle", &blocktree.Block{Kind: blocktree.KindToggle, Text: text("more"), Children: []*blocktree.Block{
			{Kind: blocktree.KindParagraph, Text: text("inner")},
		}}, "<details>\n<summary>more</summary>\n\ninner\n\n</details>"},
		{"unsupported keeps children", &blocktree.Block{Kind: blocktree.KindUnsupported, Children: []*blocktree.Block{
			{Kind: blocktree.KindParagraph, Text: text("kept")},
		}}, "kept"},
		{"quote with child", &blocktree.Block{Kind: blocktree.KindQuote, Text: text("q"), Children: []*blocktree.Block{
			{Kind: blocktree.KindParagraph, Text: text("child")},
		}}, "> q\n>\n> child"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := strings.TrimSuffix(render.Markdown([]*blocktree.Block{tc.block}), "\n")
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestMarkdownPageLinkUsesResolver(t *testing.T) {
	exporter := render.NewExporter(render.WithPageURL(func(id, title string) string {
		return "/pages/" + id
	}))
	got := exporter.Markdown([]*blocktree.Block{{ID: "sub", Kind: blocktree.KindPageLink, Title: "Child Page"}})
	if got != "[Child Page](/pages/sub)\n" {
		t.Fatalf("unexpected page link %q", got)
	}
}

func TestMarkdownTables(t *testing.T) {
	cell := func(s string) tables.Cell {
		if s == "" {
			return tables.Cell{}
		}
		return tables.Cell{Inline: text(s)}
	}
	columns := []tables.Column{{ID: "A"}, {ID: "B"}}

	withHeader := &tables.Table{
		Columns:   columns,
		HasHeader: true,
		Rows: []tables.Row{
			{ID: "r0", Header: true, Cells: []tables.Cell{cell("h1"), cell("h2")}},
			{ID: "r1", Cells: []tables.Cell{cell("x"), cell("")}},
		},
	}
	got := strings.TrimSuffix(render.Markdown([]*blocktree.Block{{Kind: blocktree.KindTable, Table: withHeader}}), "\n")
	if want := "| h1 | h2 |\n| --- | --- |\n| x |  |"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	headless := &tables.Table{
		Columns: columns,
		Rows:    []tables.Row{{ID: "r0", Cells: []tables.Cell{cell("x"), cell("y|z")}}},
	}
	got = strings.TrimSuffix(render.Markdown([]*blocktree.Block{{Kind: blocktree.KindTable, Table: headless}}), "\n")
	if want := "|  |  |\n| --- | --- |\n| x | y\\|z |"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
