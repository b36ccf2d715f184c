package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/keithlinneman/assetserve/internal/xerrors"
)

func newTestLogger(t *testing.T, opts Options) (Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	opts.Writer = &buf
	if opts.App == "" {
		opts.App = "test"
	}
	l, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return l, &buf
}

func lastLine(buf *bytes.Buffer) map[string]any {
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var m map[string]any
	json.Unmarshal([]byte(lines[len(lines)-1]), &m)
	return m
}

func TestJSONOutput(t *testing.T) {
	l, buf := newTestLogger(t, Options{Level: slog.LevelInfo, JsonFormat: true})

	l.Info(context.Background(), "hello", "key", "value")

	m := lastLine(buf)
	if m["msg"] != "hello" {
		t.Errorf("msg = %v, want hello", m["msg"])
	}
	if m["key"] != "value" {
		t.Errorf("key = %v, want value", m["key"])
	}
	if m["app"] != "test" {
		t.Errorf("app = %v, want test", m["app"])
	}
}

func TestLevelFiltering(t *testing.T) {
	l, buf := newTestLogger(t, Options{Level: slog.LevelWarn, JsonFormat: true})

	l.Debug(context.Background(), "too quiet")
	l.Info(context.Background(), "still too quiet")
	if buf.Len() != 0 {
		t.Fatalf("below-level records emitted: %q", buf.String())
	}

	l.Warn(context.Background(), "loud enough")
	if buf.Len() == 0 {
		t.Fatal("warn record suppressed")
	}
}

func TestWithAddsPersistentFields(t *testing.T) {
	l, buf := newTestLogger(t, Options{Level: slog.LevelInfo, JsonFormat: true})

	child := l.With("component", "server")
	child.Info(context.Background(), "one")

	m := lastLine(buf)
	if m["component"] != "server" {
		t.Errorf("component = %v, want server", m["component"])
	}

	// parent stays clean, With is copy-on-write
	buf.Reset()
	l.Info(context.Background(), "two")
	if m := lastLine(buf); m["component"] != nil {
		t.Errorf("parent logger gained child field: %v", m["component"])
	}
}

func TestErrorIncludesStack(t *testing.T) {
	l, buf := newTestLogger(t, Options{Level: slog.LevelInfo, JsonFormat: true})

	l.Error(context.Background(), xerrors.New("kaboom"), "operation failed")

	m := lastLine(buf)
	errVal, _ := m["err"].(string)
	if !strings.Contains(errVal, "kaboom") {
		t.Errorf("err = %v, want kaboom", m["err"])
	}
	stack, _ := m["stack"].(string)
	if stack == "" {
		t.Fatal("error record has no stack field")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{" warn ", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestContextRoundTrip(t *testing.T) {
	l, _ := newTestLogger(t, Options{Level: slog.LevelInfo, JsonFormat: true})

	ctx := WithContext(context.Background(), l)
	if got := FromContext(ctx); got != l {
		t.Fatal("FromContext did not return the stored logger")
	}
	if got := FromContext(context.Background()); got == nil {
		t.Fatal("FromContext on bare context should return the nop logger, not nil")
	}
}
