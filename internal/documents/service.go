package documents

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-blockgraph/internal/blocktree"
	"github.com/goliatone/go-blockgraph/internal/graph"
	"github.com/goliatone/go-blockgraph/internal/identity"
	"github.com/goliatone/go-blockgraph/internal/logging"
	"github.com/goliatone/go-blockgraph/internal/slugger"
	"github.com/goliatone/go-blockgraph/pkg/interfaces"
)

// ErrFetcherUnavailable is returned by Fetch when no Fetcher was configured.
var ErrFetcherUnavailable = errors.New("documents: fetcher not configured")

// Fetcher loads the graph reachable from a root node.
type Fetcher interface {
	FetchGraph(ctx context.Context, rootID string) (graph.Graph, error)
}

// Document is one converted page.
type Document struct {
	ID        string                   `json:"id"`
	RootID    string                   `json:"root_id"`
	Title     string                   `json:"title"`
	Slug      string                   `json:"slug"`
	Blocks    []*blocktree.Block       `json:"blocks"`
	Headings  []blocktree.HeadingEntry `json:"headings"`
	Anomalies []blocktree.Anomaly      `json:"anomalies,omitempty"`
}

// Service builds documents and logs what the builder reports.
type Service struct {
	builder *blocktree.Builder
	fetcher Fetcher
	logger  interfaces.Logger
	workers int
}

// Option configures a Service.
type Option func(*Service)

// WithBuilder replaces the default builder.
func WithBuilder(b *blocktree.Builder) Option {
	return func(s *Service) {
		if b != nil {
			s.builder = b
		}
	}
}

// WithFetcher supplies the graph source used by Fetch.
func WithFetcher(f Fetcher) Option {
	return func(s *Service) {
		s.fetcher = f
	}
}

// WithLogger sets the service logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		if logger == nil {
			logger = logging.NoOp()
		}
		s.logger = logger
	}
}

// WithWorkers bounds BuildMany concurrency. Zero or less uses GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(s *Service) {
		s.workers = n
	}
}

// NewService constructs a Service.
func NewService(opts ...Option) *Service {
	s := &Service{
		builder: blocktree.NewBuilder(),
		logger:  logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Build converts the page at rootID.
func (s *Service) Build(ctx context.Context, g graph.Graph, rootID string) (*Document, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger := logging.WithDocumentContext(s.logger.WithContext(ctx), rootID, "")

	result, err := s.builder.Build(g, rootID)
	if err != nil {
		logger.Debug("documents.build.failed", "error", err, "reason", blocktree.MissingRootReason(err))
		return nil, err
	}

	doc := newDocument(result)
	s.logAnomalies(logger, doc)
	logger.Debug("documents.build.success", "blocks", blocktree.Count(doc.Blocks), "headings", len(doc.Headings))
	return doc, nil
}

// BuildMany converts several pages of one graph concurrently. Results keep
// the order of rootIDs. The first failure cancels the remaining builds.
func (s *Service) BuildMany(ctx context.Context, g graph.Graph, rootIDs []string) ([]*Document, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	docs := make([]*Document, len(rootIDs))
	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(s.limit())
	for i, id := range rootIDs {
		grp.Go(func() error {
			doc, err := s.Build(gctx, g, id)
			if err != nil {
				return err
			}
			docs[i] = doc
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

// Fetch loads the graph for rootID through the configured Fetcher and
// builds it.
func (s *Service) Fetch(ctx context.Context, rootID string) (*Document, error) {
	if s.fetcher == nil {
		return nil, ErrFetcherUnavailable
	}
	g, err := s.fetcher.FetchGraph(ctx, rootID)
	if err != nil {
		return nil, fmt.Errorf("documents: fetch %s: %w", rootID, err)
	}
	return s.Build(ctx, g, rootID)
}

func (s *Service) limit() int {
	if s.workers > 0 {
		return s.workers
	}
	return runtime.GOMAXPROCS(0)
}

func (s *Service) logAnomalies(logger interfaces.Logger, doc *Document) {
	if len(doc.Anomalies) == 0 {
		return
	}
	for _, a := range doc.Anomalies {
		logger.Debug("documents.build.anomaly", "kind", string(a.Kind), "node_id", a.NodeID, "detail", a.Detail)
	}
	counts := blocktree.CountByKind(doc.Anomalies)
	summary := make(map[string]int, len(counts))
	for kind, n := range counts {
		summary[string(kind)] = n
	}
	logger.Info("documents.build.anomalies", "total", len(doc.Anomalies), "by_kind", summary)
}

func newDocument(result blocktree.Result) *Document {
	root := result.Root
	title := strings.TrimSpace(root.Title())
	slug := slugger.PageSlug(title)
	if slug == "" {
		slug = root.ID
	}
	return &Document{
		ID:        identity.DocumentUUID(root.ID).String(),
		RootID:    root.ID,
		Title:     title,
		Slug:      slug,
		Blocks:    result.Blocks,
		Headings:  result.Headings,
		Anomalies: result.Anomalies,
	}
}
