package console_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-cms-editor/internal/logging"
	"github.com/goliatone/go-cms-editor/internal/logging/console"
)

func TestConsoleLogger_WritesStructuredEntry(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2024, 3, 14, 15, 9, 26, 535897000, time.UTC)

	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		TimeFunc: func() time.Time { return now },
	})

	logger := provider.GetLogger("editor.dnd")
	logger = logging.WithFields(logger, map[string]any{"module": "editor.dnd"})
	ctx := logging.ContextWithFields(context.Background(), map[string]any{"page": "p-1"})
	logger = logger.WithContext(ctx)

	logger.Info("dnd.drop.completed",
		"target", "aside",
		"index", 2,
		"error", errors.New("fetch failed"),
	)

	got := strings.TrimSpace(buf.String())
	want := `2024-03-14T15:09:26.535897Z INFO dnd.drop.completed error="fetch failed" index=2 logger=editor.dnd module=editor.dnd page=p-1 target=aside`
	if got != want {
		t.Fatalf("unexpected log entry\nwant: %s\ngot:  %s", want, got)
	}
}

func TestConsoleLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	minLevel := console.ParseLevel("warn")
	provider := console.NewProvider(console.Options{Writer: &buf, MinLevel: &minLevel})

	logger := provider.GetLogger("editor.test")
	logger.Info("ignored.info")
	logger.Warn("included.warn", "dangling")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected single log line, got %d: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "included.warn") || !strings.Contains(lines[0], "field_0=dangling") {
		t.Fatalf("unexpected line %s", lines[0])
	}
}
