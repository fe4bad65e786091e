package runtimeconfig_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-blockgraph/internal/runtimeconfig"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
	if cfg.RichText.RelativeDateWindow != 120*time.Hour {
		t.Fatalf("expected 120h window, got %s", cfg.RichText.RelativeDateWindow)
	}
	if cfg.Slugs.IDPrefixLength != 8 {
		t.Fatalf("expected prefix length 8, got %d", cfg.Slugs.IDPrefixLength)
	}
}

func TestConfigValidate_Sentinels(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*runtimeconfig.Config)
		want   error
	}{
		{"zero window", func(c *runtimeconfig.Config) { c.RichText.RelativeDateWindow = 0 }, runtimeconfig.ErrDateWindowInvalid},
		{"blank layout", func(c *runtimeconfig.Config) { c.RichText.AbsoluteDateLayout = " " }, runtimeconfig.ErrDateLayoutRequired},
		{"bad timezone", func(c *runtimeconfig.Config) { c.RichText.Timezone = "Mars/Olympus" }, runtimeconfig.ErrTimezoneInvalid},
		{"prefix zero", func(c *runtimeconfig.Config) { c.Slugs.IDPrefixLength = 0 }, runtimeconfig.ErrSlugPrefixInvalid},
		{"prefix too long", func(c *runtimeconfig.Config) { c.Slugs.IDPrefixLength = 33 }, runtimeconfig.ErrSlugPrefixInvalid},
		{"no containers", func(c *runtimeconfig.Config) { c.Builder.ContainerTypes = []string{" "} }, runtimeconfig.ErrContainerTypesRequired},
		{"negative depth", func(c *runtimeconfig.Config) { c.Builder.MaxDepth = -1 }, runtimeconfig.ErrMaxDepthInvalid},
		{"negative workers", func(c *runtimeconfig.Config) { c.Documents.Workers = -2 }, runtimeconfig.ErrWorkersInvalid},
		{"unknown extension", func(c *runtimeconfig.Config) { c.Render.Extensions = []string{"gfm", "mermaid"} }, runtimeconfig.ErrRenderExtensionUnknown},
		{"unknown provider", func(c *runtimeconfig.Config) { c.Logging.Provider = "syslog" }, runtimeconfig.ErrLoggingProviderUnknown},
		{"empty provider", func(c *runtimeconfig.Config) { c.Logging.Provider = "" }, runtimeconfig.ErrLoggingProviderUnknown},
		{"bad level", func(c *runtimeconfig.Config) { c.Logging.Level = "loud" }, runtimeconfig.ErrLoggingLevelInvalid},
		{"bad format", func(c *runtimeconfig.Config) {
			c.Logging.Provider = "gologger"
			c.Logging.Format = "xml"
		}, runtimeconfig.ErrLoggingFormatInvalid},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := runtimeconfig.DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestConfigValidate_FormatIgnoredForConsole(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("console provider should ignore format, got %v", err)
	}
}

func TestRichTextLocation(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.RichText.Timezone = ""
	loc, err := cfg.RichText.Location()
	if err != nil || loc != time.UTC {
		t.Fatalf("expected UTC for empty timezone, got %v %v", loc, err)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	doc := `
rich_text:
  relative_date_window: 48h
slugs:
  id_prefix_length: 12
builder:
  max_depth: 4
logging:
  provider: gologger
  level: debug
  format: json
`
	cfg, err := runtimeconfig.Load(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RichText.RelativeDateWindow != 48*time.Hour {
		t.Fatalf("expected 48h, got %s", cfg.RichText.RelativeDateWindow)
	}
	if cfg.RichText.AbsoluteDateLayout != "02/01/2006 15:04" {
		t.Fatalf("default layout lost: %q", cfg.RichText.AbsoluteDateLayout)
	}
	if cfg.Slugs.IDPrefixLength != 12 || cfg.Builder.MaxDepth != 4 {
		t.Fatalf("unexpected overlay: %+v", cfg)
	}
	if len(cfg.Builder.ContainerTypes) != 1 || cfg.Builder.ContainerTypes[0] != "page" {
		t.Fatalf("default containers lost: %v", cfg.Builder.ContainerTypes)
	}
}

func TestLoadEmptyDocument(t *testing.T) {
	cfg, err := runtimeconfig.LoadBytes(nil)
	if err != nil {
		t.Fatalf("LoadBytes(nil): %v", err)
	}
	if cfg.Logging.Provider != "console" {
		t.Fatalf("expected defaults, got %+v", cfg.Logging)
	}
}

func TestLoadRejects(t *testing.T) {
	if _, err := runtimeconfig.LoadBytes([]byte("unknown_section: true\n")); !errors.Is(err, runtimeconfig.ErrConfigDecode) {
		t.Fatalf("expected ErrConfigDecode, got %v", err)
	}
	if _, err := runtimeconfig.LoadBytes([]byte("slugs:\n  id_prefix_length: 0\n")); !errors.Is(err, runtimeconfig.ErrSlugPrefixInvalid) {
		t.Fatalf("expected ErrSlugPrefixInvalid, got %v", err)
	}
}
