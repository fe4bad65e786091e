package console_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-blockgraph/internal/logging"
	"github.com/goliatone/go-blockgraph/internal/logging/console"
	"github.com/goliatone/go-blockgraph/pkg/interfaces"
)

func fixedClock() time.Time {
	return time.Date(2024, 3, 14, 15, 9, 26, 535897000, time.UTC)
}

func TestLoggerWritesLogfmtLine(t *testing.T) {
	var buf bytes.Buffer
	provider := console.NewProvider(console.Options{Writer: &buf, Clock: fixedClock, Level: console.LevelDebug})

	ctx := logging.ContextWithFields(context.Background(), map[string]any{"command": "blockgraph.documents.render"})
	logger := provider.GetLogger("blockgraph.documents").(interfaces.FieldsLogger).
		WithFields(map[string]any{"root_id": "4a1f0c2e-9b7d-4c55-8f4e-1d2c3b4a5f60"}).
		WithContext(ctx)

	logger.Debug("documents.build.success", "blocks", 12, "title", "Release Notes")

	want := `2024-03-14T15:09:26.535Z DEBUG [blockgraph.documents] documents.build.success blocks=12 command=blockgraph.documents.render root_id=4a1f0c2e-9b7d-4c55-8f4e-1d2c3b4a5f60 title="Release Notes"` + "\n"
	if got := buf.String(); got != want {
		t.Fatalf("unexpected entry\nwant: %s\ngot:  %s", want, got)
	}
}

func TestLoggerDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := console.NewProvider(console.Options{Writer: &buf, Clock: fixedClock}).GetLogger("blockgraph")

	logger.Debug("dropped")
	logger.Info("kept")
	logger.Error("failed", "error", errors.New("no root"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", buf.String())
	}
	if !strings.Contains(lines[1], `error="no root"`) {
		t.Fatalf("expected quoted error, got %s", lines[1])
	}
}

func TestLoggerArgumentPrecedenceAndBadKeys(t *testing.T) {
	var buf bytes.Buffer
	logger := console.NewProvider(console.Options{Writer: &buf, Clock: fixedClock}).
		GetLogger("").(interfaces.FieldsLogger).
		WithFields(map[string]any{"format": "json"})

	logger.Warn("odd", "format", "toc", "dangling")

	got := buf.String()
	if !strings.Contains(got, "format=toc") || strings.Contains(got, "format=json") {
		t.Fatalf("expected call argument to win, got %s", got)
	}
	if !strings.Contains(got, "!BADKEY=dangling") {
		t.Fatalf("expected dangling value under !BADKEY, got %s", got)
	}
	if strings.Contains(got, "[") {
		t.Fatalf("expected no logger name, got %s", got)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]console.Level{
		"trace":   console.LevelTrace,
		" DEBUG ": console.LevelDebug,
		"":        console.LevelInfo,
		"warning": console.LevelWarn,
		"Error":   console.LevelError,
		"fatal":   console.LevelFatal,
	}
	for name, want := range cases {
		got, err := console.ParseLevel(name)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v; want %v", name, got, err, want)
		}
	}
	if _, err := console.ParseLevel("loud"); !errors.Is(err, console.ErrUnknownLevel) {
		t.Fatalf("expected ErrUnknownLevel, got %v", err)
	}
	if got := console.Level(9).String(); got != "LEVEL(9)" {
		t.Fatalf("unexpected label %q", got)
	}
}
