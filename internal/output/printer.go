package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/itchyny/gojq"

	"github.com/goliatone/go-blockgraph/internal/blocktree"
	"github.com/goliatone/go-blockgraph/internal/documents"
	"github.com/goliatone/go-blockgraph/internal/render"
	"github.com/goliatone/go-blockgraph/pkg/interfaces"
)

// Format names an output rendering of a document.
type Format string

const (
	FormatJSON     Format = "json"
	FormatNDJSON   Format = "ndjson"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatTOC      Format = "toc"
)

// Formats lists every supported format.
var Formats = []Format{FormatJSON, FormatNDJSON, FormatMarkdown, FormatHTML, FormatTOC}

var (
	ErrUnknownFormat    = errors.New("output: unknown format")
	ErrQueryInvalid     = errors.New("output: invalid query")
	ErrQueryUnsupported = errors.New("output: query requires json or ndjson format")
)

// ParseFormat matches s against Formats. The empty string is json.
func ParseFormat(s string) (Format, error) {
	candidate := Format(strings.ToLower(strings.TrimSpace(s)))
	if candidate == "" {
		return FormatJSON, nil
	}
	for _, f := range Formats {
		if f == candidate {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Printer writes documents in one of the supported formats.
type Printer struct {
	exporter *render.Exporter
	renderer interfaces.MarkdownRenderer
	query    *gojq.Code
}

// Option configures a Printer.
type Option func(*Printer) error

// WithExporter sets the Markdown exporter.
func WithExporter(e *render.Exporter) Option {
	return func(p *Printer) error {
		if e != nil {
			p.exporter = e
		}
		return nil
	}
}

// WithRenderer sets the HTML renderer.
func WithRenderer(r interfaces.MarkdownRenderer) Option {
	return func(p *Printer) error {
		if r != nil {
			p.renderer = r
		}
		return nil
	}
}

// WithQuery filters structured output through a jq expression.
func WithQuery(expr string) Option {
	return func(p *Printer) error {
		expr = strings.TrimSpace(expr)
		if expr == "" {
			return nil
		}
		parsed, err := gojq.Parse(expr)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrQueryInvalid, err)
		}
		code, err := gojq.Compile(parsed)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrQueryInvalid, err)
		}
		p.query = code
		return nil
	}
}

// NewPrinter applies opts over a default exporter and goldmark renderer.
func NewPrinter(opts ...Option) (*Printer, error) {
	p := &Printer{
		exporter: render.NewExporter(),
		renderer: render.NewGoldmarkRenderer(render.DefaultRenderOptions()),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Print writes doc to w.
func (p *Printer) Print(w io.Writer, doc *documents.Document, format Format) error {
	if p.query != nil && format != FormatJSON && format != FormatNDJSON {
		return fmt.Errorf("%w: %s", ErrQueryUnsupported, format)
	}
	switch format {
	case FormatJSON:
		return p.printJSON(w, doc)
	case FormatNDJSON:
		return p.printNDJSON(w, doc)
	case FormatMarkdown:
		_, err := io.WriteString(w, p.exporter.Markdown(doc.Blocks))
		return err
	case FormatHTML:
		html, err := p.renderer.Render([]byte(p.exporter.Markdown(doc.Blocks)))
		if err != nil {
			return err
		}
		_, err = w.Write(html)
		return err
	case FormatTOC:
		_, err := io.WriteString(w, TableOfContents(doc.Headings))
		return err
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// TableOfContents renders headings as a nested Markdown link list.
func TableOfContents(headings []blocktree.HeadingEntry) string {
	var b strings.Builder
	for _, h := range headings {
		indent := strings.Repeat("  ", max(h.Level-1, 0))
		fmt.Fprintf(&b, "%s- [%s](#%s)\n", indent, h.Text, h.Slug)
	}
	return b.String()
}

func (p *Printer) printJSON(w io.Writer, doc *documents.Document) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if p.query == nil {
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}
	return p.run(enc, doc)
}

// printNDJSON writes one top-level block per line, or one query result per
// line when a query is set.
func (p *Printer) printNDJSON(w io.Writer, doc *documents.Document) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if p.query != nil {
		return p.run(enc, doc)
	}
	for _, blk := range doc.Blocks {
		if err := enc.Encode(blk); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) run(enc *json.Encoder, doc *documents.Document) error {
	input, err := generic(doc)
	if err != nil {
		return err
	}
	iter := p.query.Run(input)
	for {
		v, ok := iter.Next()
		if !ok {
			return nil
		}
		if err, isErr := v.(error); isErr {
			return fmt.Errorf("query error: %w", err)
		}
		if err := enc.Encode(v); err != nil {
			return err
		}
	}
}

// generic converts v into the map/slice form gojq evaluates.
func generic(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
