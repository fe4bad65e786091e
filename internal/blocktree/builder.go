package blocktree

import (
	"strings"

	"github.com/goliatone/go-blockgraph/internal/graph"
	"github.com/goliatone/go-blockgraph/internal/identity"
	"github.com/goliatone/go-blockgraph/internal/lists"
	"github.com/goliatone/go-blockgraph/internal/richtext"
	"github.com/goliatone/go-blockgraph/internal/slugger"
	"github.com/goliatone/go-blockgraph/internal/tables"
)

// DefaultContainerTypes lists the node types a build may start from.
var DefaultContainerTypes = []string{"page"}

// Result is the output of one build.
type Result struct {
	Root      *graph.Node
	Blocks    []*Block
	Headings  []HeadingEntry
	Anomalies []Anomaly
}

// Builder converts a content graph into a Block tree. A Builder holds only
// configuration; every build owns its visited-set, so one Builder may
// serve concurrent builds over read-only graphs.
type Builder struct {
	decorator  *richtext.RunDecorator
	slugger    slugger.Slugger
	containers map[string]struct{}
	maxDepth   int
}

// Option configures a Builder.
type Option func(*Builder)

// WithDecorator sets the run decorator used for rich text.
func WithDecorator(d *richtext.RunDecorator) Option {
	return func(b *Builder) {
		if d != nil {
			b.decorator = d
		}
	}
}

// WithSlugger sets the heading slugger.
func WithSlugger(s slugger.Slugger) Option {
	return func(b *Builder) {
		b.slugger = s
	}
}

// WithContainerTypes overrides DefaultContainerTypes.
func WithContainerTypes(types ...string) Option {
	return func(b *Builder) {
		set := make(map[string]struct{}, len(types))
		for _, t := range types {
			if trimmed := strings.TrimSpace(t); trimmed != "" {
				set[trimmed] = struct{}{}
			}
		}
		if len(set) > 0 {
			b.containers = set
		}
	}
}

// WithMaxDepth stops recursion below depth levels. Zero means unbounded.
func WithMaxDepth(depth int) Option {
	return func(b *Builder) {
		if depth >= 0 {
			b.maxDepth = depth
		}
	}
}

// NewBuilder returns a builder with defaults applied before opts.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		decorator: richtext.NewRunDecorator(),
	}
	WithContainerTypes(DefaultContainerTypes...)(b)
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// BuildTree builds with a default Builder.
func BuildTree(g graph.Graph, rootID string) ([]*Block, error) {
	return NewBuilder().BuildTree(g, rootID)
}

// BuildTree returns the blocks under rootID, dropping anomaly details.
func (b *Builder) BuildTree(g graph.Graph, rootID string) ([]*Block, error) {
	result, err := b.Build(g, rootID)
	if err != nil {
		return nil, err
	}
	return result.Blocks, nil
}

// Build walks the graph from rootID. It fails only when the root is absent
// or is not a container type; every other problem is recorded as an
// anomaly and the offending fragment is skipped or degraded.
func (b *Builder) Build(g graph.Graph, rootID string) (Result, error) {
	root, ok := g.Lookup(rootID)
	if !ok {
		return Result{}, missingRootError(rootID, reasonAbsent, "")
	}
	if _, container := b.containers[root.Type]; !container {
		return Result{}, missingRootError(rootID, reasonNotContainer, root.Type)
	}

	w := &walk{
		builder: b,
		graph:   g,
		visited: map[string]struct{}{root.ID: {}},
	}
	blocks := w.children(root.Content, 1)
	return Result{
		Root:      root,
		Blocks:    blocks,
		Headings:  Headings(blocks),
		Anomalies: w.anomalies,
	}, nil
}

// walk is the per-call state of one build.
type walk struct {
	builder   *Builder
	graph     graph.Graph
	visited   map[string]struct{}
	anomalies []Anomaly
}

func (w *walk) note(kind AnomalyKind, nodeID, detail string) {
	w.anomalies = append(w.anomalies, Anomaly{Kind: kind, NodeID: nodeID, Detail: detail})
}

// resolve looks up id and claims it for this walk.
func (w *walk) resolve(id string) (*graph.Node, bool) {
	node, ok := w.graph.Lookup(id)
	if !ok {
		w.note(AnomalyUnresolvedChild, id, "")
		return nil, false
	}
	if _, seen := w.visited[node.ID]; seen {
		w.note(AnomalyCycleSkipped, node.ID, "")
		return nil, false
	}
	w.visited[node.ID] = struct{}{}
	return node, true
}

func (w *walk) children(ids []string, depth int) []*Block {
	if len(ids) == 0 {
		return nil
	}
	var out []*Block
	for _, group := range lists.Siblings(ids, w.graph) {
		if !group.IsList() {
			for _, m := range group.Members {
				if blk := w.block(m.ID, 0, depth); blk != nil {
					out = append(out, blk)
				}
			}
			continue
		}

		// positions count rendered items so skipped ids leave no gap
		items := make([]*Block, 0, len(group.Members))
		for _, m := range group.Members {
			blk := w.block(m.ID, len(items)+1, depth)
			if blk == nil {
				continue
			}
			if blk.Kind == KindNumberItem || blk.Kind == KindBulletItem {
				blk.Level = group.Level
				blk.Style = group.Style
			}
			items = append(items, blk)
		}
		if len(items) == 0 {
			continue
		}
		if !group.Container {
			out = append(out, items...)
			continue
		}
		out = append(out, &Block{
			ID:       identity.ListUUID(group.Members[0].ID).String(),
			Kind:     KindList,
			Ordered:  group.Ordered(),
			Style:    group.Style,
			Level:    group.Level,
			Start:    1,
			Children: items,
		})
	}
	return out
}

func (w *walk) block(id string, position, depth int) *Block {
	node, ok := w.resolve(id)
	if !ok {
		return nil
	}

	blk := &Block{ID: node.ID, SourceType: node.Type}
	recurse := true
	switch node.Type {
	case "text":
		blk.Kind = KindParagraph
		w.textBlock(blk, node)
	case "header", "sub_header", "sub_sub_header":
		blk.Kind = KindHeading
		blk.Level = headingLevel(node.Type)
		w.textBlock(blk, node)
		blk.Anchor = w.builder.slugger.SlugFor(node.Title(), node.ID)
	case lists.TypeBulleted:
		blk.Kind = KindBulletItem
		w.textBlock(blk, node)
	case lists.TypeNumbered:
		blk.Kind = KindNumberItem
		blk.Index = position
		w.textBlock(blk, node)
	case "to_do":
		blk.Kind = KindToDo
		blk.Checked = strings.EqualFold(node.PropertyText(graph.PropChecked), "yes")
		w.textBlock(blk, node)
	case "toggle":
		blk.Kind = KindToggle
		w.textBlock(blk, node)
	case "quote":
		blk.Kind = KindQuote
		w.textBlock(blk, node)
	case "callout":
		blk.Kind = KindCallout
		blk.Icon = node.Format.PageIcon
		w.textBlock(blk, node)
	case "code":
		blk.Kind = KindCode
		blk.Language = node.PropertyText(graph.PropLanguage)
		w.textBlock(blk, node)
	case "equation":
		blk.Kind = KindEquation
		blk.Expr = node.Title()
		if math, ok := w.decorate(node, richtext.Run{Decorations: []richtext.Decorator{richtext.Equation{Expr: blk.Expr}}}).(richtext.Math); ok {
			blk.Markup = math.Markup
		}
	case "image":
		blk.Kind = KindImage
		w.mediaBlock(blk, node)
	case "video":
		blk.Kind = KindVideo
		w.mediaBlock(blk, node)
	case "embed":
		blk.Kind = KindEmbed
		w.mediaBlock(blk, node)
	case "bookmark":
		blk.Kind = KindBookmark
		blk.URL = node.PropertyText(graph.PropLink)
		blk.Title = node.Title()
		blk.Description = node.PropertyText(graph.PropDescription)
		blk.Cover = node.Format.BookmarkCover
		blk.Icon = node.Format.BookmarkIcon
	case "table":
		blk.Kind = KindTable
		blk.Table = w.table(node)
		recurse = false
	case "divider":
		blk.Kind = KindDivider
	case "column_list":
		blk.Kind = KindColumnList
	case "column":
		blk.Kind = KindColumn
		blk.Ratio = node.Format.ColumnRatio
	case "page":
		blk.Kind = KindPageLink
		blk.Title = node.Title()
		blk.Icon = node.Format.PageIcon
		recurse = false
	default:
		blk.Kind = KindUnsupported
		w.note(AnomalyUnknownBlockType, node.ID, node.Type)
	}

	if !recurse || len(node.Content) == 0 {
		return blk
	}
	if limit := w.builder.maxDepth; limit > 0 && depth >= limit {
		w.note(AnomalyDepthTruncated, node.ID, "")
		return blk
	}
	blk.Children = w.children(node.Content, depth+1)
	return blk
}

func (w *walk) textBlock(blk *Block, node *graph.Node) {
	blk.Text = w.inline(node, node.Property(graph.PropTitle))
	blk.Color = node.Format.BlockColor
}

// mediaBlock reads the display source first and falls back to the raw
// source property.
func (w *walk) mediaBlock(blk *Block, node *graph.Node) {
	blk.URL = strings.TrimSpace(node.Format.DisplaySource)
	if blk.URL == "" {
		blk.URL = node.PropertyText(graph.PropSource)
	}
	blk.Caption = w.inline(node, node.Property(graph.PropCaption))
}

func (w *walk) table(node *graph.Node) *tables.Table {
	rows := make([]*graph.Node, 0, len(node.Content))
	for _, id := range node.Content {
		row, ok := w.resolve(id)
		if !ok {
			continue
		}
		rows = append(rows, row)
	}

	table, issues := tables.Extract(node, rows)
	for _, issue := range issues {
		w.note(AnomalyMalformedTable, issue.NodeID, issue.Detail)
	}
	for r := range table.Rows {
		rowID := table.Rows[r].ID
		for c := range table.Rows[r].Cells {
			cell := &table.Rows[r].Cells[c]
			cell.Inline = w.inlineFor(rowID, cell.Runs)
		}
	}
	return &table
}

func (w *walk) inline(node *graph.Node, runs []richtext.Run) []richtext.Inline {
	return w.inlineFor(node.ID, runs)
}

func (w *walk) inlineFor(nodeID string, runs []richtext.Run) []richtext.Inline {
	if len(runs) == 0 {
		return nil
	}
	return w.builder.decorator.DecorateAll(runs, func(issue richtext.Issue) {
		w.anomalies = append(w.anomalies, anomalyFromIssue(nodeID, issue))
	})
}

func (w *walk) decorate(node *graph.Node, run richtext.Run) richtext.Inline {
	return w.builder.decorator.DecorateReport(run, func(issue richtext.Issue) {
		w.anomalies = append(w.anomalies, anomalyFromIssue(node.ID, issue))
	})
}

func headingLevel(nodeType string) int {
	switch nodeType {
	case "sub_header":
		return 2
	case "sub_sub_header":
		return 3
	default:
		return 1
	}
}
