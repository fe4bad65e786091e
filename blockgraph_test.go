package blockgraph_test

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	_ "time/tzdata"

	"github.com/goliatone/go-blockgraph"
)

const releaseNotesRoot = "4a1f0c2e-9b7d-4c55-8f4e-1d2c3b4a5f60"

type stubProvider struct{}

func (stubProvider) GetLogger(string) blockgraph.Logger { return nopLogger{} }

func loadSnapshot(t *testing.T) *blockgraph.Snapshot {
	t.Helper()
	f, err := os.Open("testdata/release-notes.json")
	if err != nil {
		t.Fatalf("open fixture: %v", err)
	}
	defer f.Close()
	snap, err := blockgraph.DecodeSnapshot(f, blockgraph.DecodeOptions{ValidateSchema: true})
	if err != nil {
		t.Fatalf("DecodeSnapshot: %v", err)
	}
	return snap
}

func TestModuleBuildsSnapshot(t *testing.T) {
	snap := loadSnapshot(t)
	module, err := blockgraph.New(blockgraph.DefaultConfig(),
		blockgraph.WithDirectory(snap.Users),
		blockgraph.WithLoggerProvider(stubProvider{}),
		blockgraph.WithClock(func() time.Time { return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) }),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	doc, err := module.Build(context.Background(), snap.Graph, releaseNotesRoot)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if doc.Title != "Release Notes" || len(doc.Blocks) != 2 {
		t.Fatalf("unexpected document %+v", doc)
	}
	if len(doc.Headings) != 1 || doc.Headings[0].Slug != blockgraph.SlugFor("Hello, World", "5b2e1d3f-8a9c-4d6e-9f0a-1b2c3d4e5f61") {
		t.Fatalf("unexpected headings %+v", doc.Headings)
	}

	md := module.Markdown(doc.Blocks)
	if !strings.Contains(md, "{#hello-world-5b2e1d3f}") || !strings.Contains(md, "10/01/2024 08:30") {
		t.Fatalf("unexpected markdown %q", md)
	}
	html, err := module.HTML(doc.Blocks)
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	if !strings.Contains(string(html), `id="hello-world-5b2e1d3f"`) {
		t.Fatalf("expected heading id in %s", html)
	}
}

func TestBuildTreeMissingRoot(t *testing.T) {
	snap := loadSnapshot(t)
	if _, err := blockgraph.BuildTree(snap.Graph, "8e5b4a6c-2d3f-4a9b-8c1d-2e3f4a5b6c74"); !errors.Is(err, blockgraph.ErrMissingRoot) {
		t.Fatalf("expected ErrMissingRoot for a tombstoned root, got %v", err)
	}
}

func TestModuleFetchWithoutFetcher(t *testing.T) {
	module, err := blockgraph.New(blockgraph.DefaultConfig(), blockgraph.WithLoggerProvider(stubProvider{}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := module.Fetch(context.Background(), releaseNotesRoot); !errors.Is(err, blockgraph.ErrFetcherUnavailable) {
		t.Fatalf("expected ErrFetcherUnavailable, got %v", err)
	}
}

type nopLogger struct{}

func (nopLogger) Trace(string, ...any)                            {}
func (nopLogger) Debug(string, ...any)                            {}
func (nopLogger) Info(string, ...any)                             {}
func (nopLogger) Warn(string, ...any)                             {}
func (nopLogger) Error(string, ...any)                            {}
func (nopLogger) Fatal(string, ...any)                            {}
func (n nopLogger) WithContext(context.Context) blockgraph.Logger { return n }
