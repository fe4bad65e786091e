package blockgraph_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-blockgraph"
)

func TestConfigValidateTimezone(t *testing.T) {
	cfg := blockgraph.DefaultConfig()
	cfg.RichText.Timezone = "Nowhere/Special"
	if err := cfg.Validate(); !errors.Is(err, blockgraph.ErrTimezoneInvalid) {
		t.Fatalf("expected ErrTimezoneInvalid, got %v", err)
	}
}

func TestConfigValidateWorkers(t *testing.T) {
	cfg := blockgraph.DefaultConfig()
	cfg.Documents.Workers = -1
	if err := cfg.Validate(); !errors.Is(err, blockgraph.ErrWorkersInvalid) {
		t.Fatalf("expected ErrWorkersInvalid, got %v", err)
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := blockgraph.DefaultConfig()
	cfg.Render.Extensions = []string{"katex"}
	if _, err := blockgraph.New(cfg); !errors.Is(err, blockgraph.ErrRenderExtensionUnknown) {
		t.Fatalf("expected ErrRenderExtensionUnknown, got %v", err)
	}
}
