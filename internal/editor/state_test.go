package editor

import (
	"errors"
	"testing"
)

func TestParseLineNumber(t *testing.T) {
	tests := []struct {
		input   string
		want    LineNumber
		wantErr bool
	}{
		{"0", 0, false},
		{"42", 42, false},
		{"007", 7, false},
		{"", 0, true},
		{"-1", 0, true},
		{"1a", 0, true},
		{"99999999999", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseLineNumber(tt.input)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidLineNumber) {
				t.Errorf("ParseLineNumber(%q) error = %v, want ErrInvalidLineNumber", tt.input, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseLineNumber(%q) = %d, %v; want %d", tt.input, got, err, tt.want)
		}
	}
}

func TestModeNames(t *testing.T) {
	tests := []struct {
		mode    Mode
		name    string
		display string
	}{
		{Normal(), "normal", "NORMAL"},
		{Command("wq"), "command(wq)", "COMMAND"},
		{Input(), "input", "INSERT"},
		{ConfirmExit(), "confirm-exit", "CONFIRM"},
		{Exit(), "exit", ""},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.name {
			t.Errorf("String() = %q, want %q", got, tt.name)
		}
		if got := tt.mode.DisplayName(); got != tt.display {
			t.Errorf("DisplayName() = %q, want %q", got, tt.display)
		}
	}
}

func TestNewStates(t *testing.T) {
	if s := NewState(); s.Mode != Normal() || s.LineCount() != 1 || s.Text() != "" {
		t.Errorf("NewState() = %v", s)
	}
	if s := NewCommandState(); s.Mode != Command("") {
		t.Errorf("NewCommandState() mode = %v", s.Mode)
	}
}
