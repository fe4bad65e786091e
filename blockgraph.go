// Package blockgraph converts a content graph of loosely typed nodes into a
// tree of typed blocks with decorated rich text, grouped lists, extracted
// tables and stable heading anchors.
package blockgraph

import (
	"context"
	"io"
	"time"

	"github.com/goliatone/go-blockgraph/internal/blocktree"
	"github.com/goliatone/go-blockgraph/internal/di"
	"github.com/goliatone/go-blockgraph/internal/documents"
	"github.com/goliatone/go-blockgraph/internal/graph"
	"github.com/goliatone/go-blockgraph/internal/richtext"
	"github.com/goliatone/go-blockgraph/internal/slugger"
	"github.com/goliatone/go-blockgraph/pkg/interfaces"
)

type (
	Graph         = graph.Graph
	Node          = graph.Node
	Format        = graph.Format
	Snapshot      = graph.Snapshot
	DecodeOptions = graph.DecodeOptions
	Directory     = graph.Directory

	Run       = richtext.Run
	Decorator = richtext.Decorator
	Inline    = richtext.Inline

	Block        = blocktree.Block
	Kind         = blocktree.Kind
	Anomaly      = blocktree.Anomaly
	AnomalyKind  = blocktree.AnomalyKind
	HeadingEntry = blocktree.HeadingEntry

	Document = documents.Document
	Fetcher  = documents.Fetcher

	User           = interfaces.User
	UserDirectory  = interfaces.UserDirectory
	MathRenderer   = interfaces.MathRenderer
	LoggerProvider = interfaces.LoggerProvider
	Logger         = interfaces.Logger
)

var (
	ErrMissingRoot        = blocktree.ErrMissingRoot
	ErrSnapshotInvalid    = graph.ErrSnapshotInvalid
	ErrFetcherUnavailable = documents.ErrFetcherUnavailable
)

// BuildTree converts the page at rootID with default settings.
func BuildTree(g Graph, rootID string) ([]*Block, error) {
	return blocktree.BuildTree(g, rootID)
}

// DecodeSnapshot reads a record-map JSON snapshot.
func DecodeSnapshot(r io.Reader, opts DecodeOptions) (*Snapshot, error) {
	return graph.DecodeSnapshot(r, opts)
}

// SlugFor returns the heading anchor for a title and node id.
func SlugFor(title, id string) string {
	return slugger.SlugFor(title, id)
}

// Option customises New.
type Option = di.Option

// WithLoggerProvider overrides the provider selected by Config.Logging.
func WithLoggerProvider(p LoggerProvider) Option { return di.WithLoggerProvider(p) }

// WithDirectory supplies the user directory used to resolve mentions.
func WithDirectory(d UserDirectory) Option { return di.WithDirectory(d) }

// WithMathRenderer supplies the equation typesetter.
func WithMathRenderer(r MathRenderer) Option { return di.WithMathRenderer(r) }

// WithFetcher supplies the graph source used by Module.Fetch.
func WithFetcher(f Fetcher) Option { return di.WithFetcher(f) }

// WithClock overrides the reference time for relative dates.
func WithClock(now func() time.Time) Option { return di.WithClock(now) }

// Module is the configured converter.
type Module struct {
	container *di.Container
}

// New validates cfg and wires a Module.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Build converts the page at rootID.
func (m *Module) Build(ctx context.Context, g Graph, rootID string) (*Document, error) {
	return m.container.Documents().Build(ctx, g, rootID)
}

// BuildMany converts several pages concurrently, keeping input order.
func (m *Module) BuildMany(ctx context.Context, g Graph, rootIDs []string) ([]*Document, error) {
	return m.container.Documents().BuildMany(ctx, g, rootIDs)
}

// Fetch loads the graph through the configured Fetcher and converts it.
func (m *Module) Fetch(ctx context.Context, rootID string) (*Document, error) {
	return m.container.Documents().Fetch(ctx, rootID)
}

// Markdown exports blocks as CommonMark with GFM tables.
func (m *Module) Markdown(blocks []*Block) string {
	return m.container.Exporter().Markdown(blocks)
}

// HTML renders blocks through Markdown and goldmark.
func (m *Module) HTML(blocks []*Block) ([]byte, error) {
	return m.container.Renderer().Render([]byte(m.Markdown(blocks)))
}
