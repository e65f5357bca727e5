package logger

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriterLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewWriterLogger(&buf, "info")
	if err != nil {
		t.Fatalf("NewWriterLogger: %v", err)
	}

	l.Debug("скрыто %d", 1)
	l.Info("видно %d", 2)
	l.LogError(errors.New("boom"), "контекст")
	l.LogError(nil, "не пишется")

	out := buf.String()
	if strings.Contains(out, "скрыто") {
		t.Errorf("debug line leaked at info level: %s", out)
	}
	if !strings.Contains(out, "видно 2") {
		t.Errorf("info line missing: %s", out)
	}
	if !strings.Contains(out, `"error":"boom"`) || !strings.Contains(out, "контекст") {
		t.Errorf("LogError line missing fields: %s", out)
	}
	if strings.Contains(out, "не пишется") {
		t.Errorf("LogError wrote a nil error: %s", out)
	}
}

func TestNewLoggerManagerCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "bot.log")
	l, err := NewLoggerManager(path, "debug")
	if err != nil {
		t.Fatalf("NewLoggerManager: %v", err)
	}
	l.Info("старт")
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "старт") {
		t.Errorf("log file content: got %q", data)
	}
}

func TestUnknownLevel(t *testing.T) {
	if _, err := NewWriterLogger(&bytes.Buffer{}, "loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestNopDiscards(t *testing.T) {
	l := Nop()
	l.Error("ничего %s", "не будет")
	if err := l.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
