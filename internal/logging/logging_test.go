package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestSetVerbosity(t *testing.T) {
	tests := []struct {
		count     int
		wantLevel string
		wantCount int
	}{
		{-3, "warn", 0},
		{0, "warn", 0},
		{1, "info", 1},
		{2, "debug", 2},
		{3, "trace", 3},
		{9, "trace", 4},
	}
	for _, tt := range tests {
		SetVerbosity(tt.count)
		if got := LevelName(); got != tt.wantLevel {
			t.Errorf("SetVerbosity(%d): LevelName() = %q, want %q", tt.count, got, tt.wantLevel)
		}
		if got := Verbosity(); got != tt.wantCount {
			t.Errorf("SetVerbosity(%d): Verbosity() = %d, want %d", tt.count, got, tt.wantCount)
		}
	}
	SetVerbosity(0)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in        string
		wantLevel Level
		wantCount int
		wantErr   bool
	}{
		{"error", LevelError, 0, false},
		{"WARNING", LevelWarn, 0, false},
		{"info", LevelInfo, 1, false},
		{"Debug", LevelDebug, 2, false},
		{"trace", LevelTrace, 4, false},
		{"loud", LevelWarn, 0, true},
	}
	for _, tt := range tests {
		level, count, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if level != tt.wantLevel || count != tt.wantCount {
			t.Errorf("ParseLevel(%q) = %v, %d; want %v, %d", tt.in, level, count, tt.wantLevel, tt.wantCount)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbosity(1)
	defer SetVerbosity(0)

	Infof("device %s committed", "A")
	Debugf("hidden %d", 1)
	Errorf("boom")

	out := buf.String()
	if !strings.Contains(out, `"message":"device A committed"`) {
		t.Errorf("info line missing: %s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line leaked at info level: %s", out)
	}
	if !strings.Contains(out, `"level":"error"`) {
		t.Errorf("error line missing: %s", out)
	}
}
