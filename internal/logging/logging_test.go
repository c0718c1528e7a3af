package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.expected {
			t.Errorf("Level(%d).String() = %q, expected %q", tt.level, got, tt.expected)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
		valid    bool
	}{
		{"debug", LevelDebug, true},
		{"DEBUG", LevelDebug, true},
		{"info", LevelInfo, true},
		{"warn", LevelWarn, true},
		{"WARNING", LevelWarn, true},
		{"error", LevelError, true},
		{"loud", LevelInfo, false},
		{"", LevelInfo, false},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLevel(%q) = %v, expected %v", tt.input, got, tt.expected)
		}
		if got := ValidLevel(tt.input); got != tt.valid {
			t.Errorf("ValidLevel(%q) = %t, expected %t", tt.input, got, tt.valid)
		}
	}
}

func TestLogger_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelWarn, Output: &buf, Prefix: "test"})

	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown %d", 1)
	l.Error("shown %d", 2)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("records below the level were written: %q", out)
	}
	if !strings.Contains(out, "[WARN] test: shown 1") || !strings.Contains(out, "[ERROR] test: shown 2") {
		t.Errorf("missing records: %q", out)
	}
}

func TestLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelDebug, Output: &buf}).
		WithComponent("store").
		WithField("action", "Quit")

	l.Debug("applied")
	if !strings.Contains(buf.String(), "applied {action=Quit, component=store}") {
		t.Errorf("unexpected record: %q", buf.String())
	}
}

func TestLogger_SetLevelIsShared(t *testing.T) {
	var buf bytes.Buffer
	root := New(Config{Level: LevelError, Output: &buf})
	child := root.WithComponent("child")

	child.Info("before")
	root.SetLevel(LevelInfo)
	child.Info("after")

	if strings.Contains(buf.String(), "before") {
		t.Error("record written before the level was lowered")
	}
	if !strings.Contains(buf.String(), "after") {
		t.Error("derived logger did not pick up the new level")
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Error("nothing")
	l.WithField("k", "v").Error("still nothing")
}
