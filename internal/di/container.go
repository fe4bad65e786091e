package di

import (
	"strings"
	"time"

	"github.com/goliatone/go-blockgraph/internal/blocktree"
	"github.com/goliatone/go-blockgraph/internal/documents"
	"github.com/goliatone/go-blockgraph/internal/logging"
	"github.com/goliatone/go-blockgraph/internal/logging/console"
	"github.com/goliatone/go-blockgraph/internal/logging/gologger"
	"github.com/goliatone/go-blockgraph/internal/render"
	"github.com/goliatone/go-blockgraph/internal/richtext"
	"github.com/goliatone/go-blockgraph/internal/runtimeconfig"
	"github.com/goliatone/go-blockgraph/internal/slugger"
	"github.com/goliatone/go-blockgraph/pkg/interfaces"
)

// Container wires the converter services from a validated Config.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	directory      interfaces.UserDirectory
	math           interfaces.MathRenderer
	fetcher        documents.Fetcher
	clock          func() time.Time

	decorator *richtext.RunDecorator
	builder   *blocktree.Builder
	documents *documents.Service
	renderer  *render.GoldmarkRenderer
	exporter  *render.Exporter
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider selected by Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithDirectory supplies the user directory used to resolve mentions.
func WithDirectory(dir interfaces.UserDirectory) Option {
	return func(c *Container) {
		c.directory = dir
	}
}

// WithMathRenderer supplies the equation typesetter.
func WithMathRenderer(r interfaces.MathRenderer) Option {
	return func(c *Container) {
		c.math = r
	}
}

// WithFetcher supplies the graph source for Documents().Fetch.
func WithFetcher(f documents.Fetcher) Option {
	return func(c *Container) {
		c.fetcher = f
	}
}

// WithClock overrides the reference time for relative dates.
func WithClock(now func() time.Time) Option {
	return func(c *Container) {
		c.clock = now
	}
}

// NewContainer validates cfg and builds every service.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	if err := c.configureDecorator(); err != nil {
		return nil, err
	}
	c.configureBuilder()
	c.configureRendering()

	logging.ModuleLogger(c.loggerProvider, "blockgraph.di").Debug("container.configured",
		"logging_provider", c.Config.Logging.Provider,
		"container_types", strings.Join(c.Config.Builder.ContainerTypes, ","),
		"max_depth", c.Config.Builder.MaxDepth,
	)
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil {
		return nil
	}
	cfg := c.Config.Logging
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	default:
		level, err := console.ParseLevel(cfg.Level)
		if err != nil {
			return err
		}
		c.loggerProvider = console.NewProvider(console.Options{Level: level})
	}
	return nil
}

func (c *Container) configureDecorator() error {
	rt := c.Config.RichText
	loc, err := rt.Location()
	if err != nil {
		return err
	}
	colors := rt.Palette
	if len(colors) == 0 {
		colors = richtext.DefaultColors
	}
	opts := []richtext.Option{
		richtext.WithLocation(loc),
		richtext.WithRelativeWindow(rt.RelativeDateWindow),
		richtext.WithAbsoluteLayout(rt.AbsoluteDateLayout),
		richtext.WithExternalSchemes(rt.ExternalSchemes),
		richtext.WithPalette(richtext.NewPalette(colors, rt.DefaultTextClass, rt.DefaultHighlightClass)),
	}
	if c.directory != nil {
		opts = append(opts, richtext.WithDirectory(c.directory))
	}
	if c.math != nil {
		opts = append(opts, richtext.WithMathRenderer(c.math))
	}
	if c.clock != nil {
		opts = append(opts, richtext.WithClock(c.clock))
	}
	c.decorator = richtext.NewRunDecorator(opts...)
	return nil
}

func (c *Container) configureBuilder() {
	c.builder = blocktree.NewBuilder(
		blocktree.WithDecorator(c.decorator),
		blocktree.WithSlugger(slugger.New(c.Config.Slugs.IDPrefixLength)),
		blocktree.WithContainerTypes(c.Config.Builder.ContainerTypes...),
		blocktree.WithMaxDepth(c.Config.Builder.MaxDepth),
	)
	c.documents = documents.NewService(
		documents.WithBuilder(c.builder),
		documents.WithFetcher(c.fetcher),
		documents.WithLogger(logging.DocumentsLogger(c.loggerProvider)),
		documents.WithWorkers(c.Config.Documents.Workers),
	)
}

func (c *Container) configureRendering() {
	c.renderer = render.NewGoldmarkRenderer(c.RenderOptions())
	c.exporter = render.NewExporter()
}

// RenderOptions converts Config.Render for the goldmark renderer.
func (c *Container) RenderOptions() interfaces.RenderOptions {
	return interfaces.RenderOptions{
		Extensions: append([]string(nil), c.Config.Render.Extensions...),
		HardWraps:  c.Config.Render.HardWraps,
		Unsafe:     c.Config.Render.Unsafe,
	}
}

// LoggerProvider returns the configured provider.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// Decorator returns the configured run decorator.
func (c *Container) Decorator() *richtext.RunDecorator {
	return c.decorator
}

// Builder returns the configured tree builder.
func (c *Container) Builder() *blocktree.Builder {
	return c.builder
}

// Documents returns the documents service.
func (c *Container) Documents() *documents.Service {
	return c.documents
}

// Renderer returns the Markdown to HTML renderer.
func (c *Container) Renderer() *render.GoldmarkRenderer {
	return c.renderer
}

// Exporter returns the block to Markdown exporter.
func (c *Container) Exporter() *render.Exporter {
	return c.exporter
}
