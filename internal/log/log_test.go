package log

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(io.Discard)
		SetLevel(LevelInfo)
	})
	return &buf
}

func TestLevels(t *testing.T) {
	buf := capture(t)
	SetLevel(LevelInfo)

	Debug("hidden")
	Info("shown", "week", "2026-10-11")
	Error("failed", errors.New("boom"), "id", 7)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatal("debug should be filtered at INFO")
	}
	if !strings.Contains(out, "[INFO] shown week=2026-10-11") {
		t.Fatalf("missing info line: %q", out)
	}
	if !strings.Contains(out, "[ERROR] failed err=boom id=7") {
		t.Fatalf("missing error line: %q", out)
	}
}

func TestErrorLevelOnly(t *testing.T) {
	buf := capture(t)
	SetLevel(LevelError)
	Info("quiet")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at ERROR: %q", buf.String())
	}
}

func TestFormatKVsQuotesSpaces(t *testing.T) {
	got := formatKVs("title", "two words", 3, "ignored", "odd")
	if got != ` title="two words"` {
		t.Fatalf("formatKVs = %q", got)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug": LevelDebug,
		"ERROR": LevelError,
		"info":  LevelInfo,
		"":      LevelInfo,
		"warn":  LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "studygrid.log")
	f, err := OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		SetOutput(io.Discard)
		f.Close()
	})
	Info("written")
}
