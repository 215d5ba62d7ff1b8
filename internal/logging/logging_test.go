package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"info", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"chatty", LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) err = %v", tt.in, err)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevelStringRoundTrip(t *testing.T) {
	for _, l := range []Level{LevelDebug, LevelInfo, LevelWarn, LevelError} {
		parsed, err := ParseLevel(LevelString(l))
		if err != nil || parsed != l {
			t.Errorf("round trip %v -> %q -> %v (%v)", l, LevelString(l), parsed, err)
		}
	}
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "numpadd.log")
	log, err := New(&Config{
		Level:     LevelInfo,
		Format:    FormatJSON,
		Output:    "file",
		FilePath:  path,
		Component: "test",
	})
	if err != nil {
		t.Fatal(err)
	}

	log.Info("keypad on", "layout", "m433ia")
	if err := log.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.Contains(out, `"msg":"keypad on"`) {
		t.Errorf("log line missing message: %s", out)
	}
	if !strings.Contains(out, `"component":"test"`) {
		t.Errorf("log line missing component: %s", out)
	}
}

func TestDebugFilteredAtInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "numpadd.log")
	log, err := New(&Config{Level: LevelInfo, Output: "file", FilePath: path})
	if err != nil {
		t.Fatal(err)
	}

	log.Debug("noise")
	log.Close()

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "noise") {
		t.Error("debug line emitted at info level")
	}
}

func TestNewRejectsUnknownOutput(t *testing.T) {
	if _, err := New(&Config{Output: "syslog"}); err == nil {
		t.Error("expected error for unknown output")
	}
}
