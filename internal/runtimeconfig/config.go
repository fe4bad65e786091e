package runtimeconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-blockgraph/internal/logging/gologger"
	"github.com/goliatone/go-blockgraph/internal/render"
)

var (
	ErrDateWindowInvalid      = errors.New("blockgraph config: relative date window must be positive")
	ErrDateLayoutRequired     = errors.New("blockgraph config: absolute date layout is required")
	ErrTimezoneInvalid        = errors.New("blockgraph config: timezone is invalid")
	ErrSlugPrefixInvalid      = errors.New("blockgraph config: slug id prefix length must be between 1 and 32")
	ErrContainerTypesRequired = errors.New("blockgraph config: at least one container type is required")
	ErrMaxDepthInvalid        = errors.New("blockgraph config: max depth must be zero or positive")
	ErrWorkersInvalid         = errors.New("blockgraph config: workers must be zero or positive")
	ErrRenderExtensionUnknown = errors.New("blockgraph config: render extension is unknown")
	ErrLoggingProviderUnknown = errors.New("blockgraph config: logging provider is invalid")
	ErrLoggingLevelInvalid    = errors.New("blockgraph config: logging level is invalid")
	ErrLoggingFormatInvalid   = errors.New("blockgraph config: logging format is invalid")
	ErrConfigDecode           = errors.New("blockgraph config: decode failed")
)

// Config aggregates the runtime options of the converter and its CLI.
type Config struct {
	RichText  RichTextConfig  `yaml:"rich_text"`
	Slugs     SlugConfig      `yaml:"slugs"`
	Builder   BuilderConfig   `yaml:"builder"`
	Snapshot  SnapshotConfig  `yaml:"snapshot"`
	Render    RenderConfig    `yaml:"render"`
	Documents DocumentsConfig `yaml:"documents"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// RichTextConfig controls inline decoration.
type RichTextConfig struct {
	// RelativeDateWindow is how far back a date still renders as "time ago".
	RelativeDateWindow    time.Duration `yaml:"relative_date_window"`
	AbsoluteDateLayout    string        `yaml:"absolute_date_layout"`
	Timezone              string        `yaml:"timezone"`
	ExternalSchemes       []string      `yaml:"external_schemes"`
	Palette               []string      `yaml:"palette"`
	DefaultTextClass      string        `yaml:"default_text_class"`
	DefaultHighlightClass string        `yaml:"default_highlight_class"`
}

// Location resolves Timezone. The empty string means UTC.
func (c RichTextConfig) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.Timezone)
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTimezoneInvalid, name)
	}
	return loc, nil
}

// SlugConfig controls heading anchors.
type SlugConfig struct {
	IDPrefixLength int `yaml:"id_prefix_length"`
}

// BuilderConfig controls tree construction.
type BuilderConfig struct {
	ContainerTypes []string `yaml:"container_types"`
	// MaxDepth of zero leaves recursion unbounded.
	MaxDepth int `yaml:"max_depth"`
}

// SnapshotConfig controls snapshot decoding.
type SnapshotConfig struct {
	ValidateSchema bool `yaml:"validate_schema"`
}

// RenderConfig mirrors interfaces.RenderOptions.
type RenderConfig struct {
	Extensions []string `yaml:"extensions"`
	HardWraps  bool     `yaml:"hard_wraps"`
	Unsafe     bool     `yaml:"unsafe"`
}

// DocumentsConfig controls the documents service.
type DocumentsConfig struct {
	// Workers bounds BuildMany concurrency; zero uses GOMAXPROCS.
	Workers int `yaml:"workers"`
}

// LoggingConfig selects the logger provider.
type LoggingConfig struct {
	Provider  string   `yaml:"provider"`
	Level     string   `yaml:"level"`
	Format    string   `yaml:"format"`
	AddSource bool     `yaml:"add_source"`
	Focus     []string `yaml:"focus"`
}

// DefaultConfig returns the defaults used when no file is supplied.
func DefaultConfig() Config {
	return Config{
		RichText: RichTextConfig{
			RelativeDateWindow:    5 * 24 * time.Hour,
			AbsoluteDateLayout:    "02/01/2006 15:04",
			Timezone:              "UTC",
			ExternalSchemes:       []string{"http://", "https://"},
			DefaultTextClass:      "text-default",
			DefaultHighlightClass: "highlight-default",
		},
		Slugs: SlugConfig{
			IDPrefixLength: 8,
		},
		Builder: BuilderConfig{
			ContainerTypes: []string{"page"},
		},
		Snapshot: SnapshotConfig{
			ValidateSchema: true,
		},
		Render: RenderConfig{
			Extensions: []string{"gfm"},
			Unsafe:     true,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Load decodes YAML over DefaultConfig and validates the result. Unknown
// keys are rejected.
func Load(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %v", ErrConfigDecode, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadBytes is Load over an in-memory document.
func LoadBytes(data []byte) (Config, error) {
	return Load(bytes.NewReader(data))
}

// Validate performs field checks and reports the first failure as one of
// the package sentinels.
func (cfg Config) Validate() error {
	rt := cfg.RichText
	if err := validation.Validate(rt.RelativeDateWindow, validation.Min(time.Duration(1))); err != nil {
		return fmt.Errorf("%w: %v", ErrDateWindowInvalid, err)
	}
	if err := validation.Validate(strings.TrimSpace(rt.AbsoluteDateLayout), validation.Required); err != nil {
		return ErrDateLayoutRequired
	}
	if _, err := rt.Location(); err != nil {
		return err
	}
	if err := validation.Validate(cfg.Slugs.IDPrefixLength, validation.Min(1), validation.Max(32)); err != nil {
		return fmt.Errorf("%w: %v", ErrSlugPrefixInvalid, err)
	}
	if err := validation.Validate(nonEmpty(cfg.Builder.ContainerTypes), validation.Required); err != nil {
		return ErrContainerTypesRequired
	}
	if err := validation.Validate(cfg.Builder.MaxDepth, validation.Min(0)); err != nil {
		return fmt.Errorf("%w: %v", ErrMaxDepthInvalid, err)
	}
	if err := validation.Validate(cfg.Documents.Workers, validation.Min(0)); err != nil {
		return fmt.Errorf("%w: %v", ErrWorkersInvalid, err)
	}
	for _, ext := range cfg.Render.Extensions {
		if strings.TrimSpace(ext) != "" && !render.KnownExtension(ext) {
			return fmt.Errorf("%w: %s", ErrRenderExtensionUnknown, ext)
		}
	}

	provider := normalize(cfg.Logging.Provider)
	if err := validation.Validate(provider, validation.In("console", "gologger")); err != nil || provider == "" {
		return fmt.Errorf("%w: %q", ErrLoggingProviderUnknown, cfg.Logging.Provider)
	}
	if err := validation.Validate(cfg.Logging.Level, validation.By(knownLevel)); err != nil {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, cfg.Logging.Level)
	}
	if provider == "gologger" {
		if err := validation.Validate(cfg.Logging.Format, validation.By(knownFormat)); err != nil {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, cfg.Logging.Format)
		}
	}
	return nil
}

func knownLevel(value any) error {
	level, _ := value.(string)
	if !gologger.ValidLevel(level) {
		return validation.NewError("validation_level_unknown", "unknown level")
	}
	return nil
}

func knownFormat(value any) error {
	format, _ := value.(string)
	if !gologger.ValidFormat(format) {
		return validation.NewError("validation_format_unknown", "unknown format")
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
