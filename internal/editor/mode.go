package editor

// ModeKind identifies one of the editor modes.
type ModeKind uint8

const (
	// ModeNormal is idle, waiting for a key that switches mode.
	ModeNormal ModeKind = iota

	// ModeCommand accumulates a colon command.
	ModeCommand

	// ModeInput collects free text for the document.
	ModeInput

	// ModeConfirmExit waits for the user to confirm leaving.
	ModeConfirmExit

	// ModeExit is terminal.
	ModeExit
)

// String returns the mode identifier.
func (k ModeKind) String() string {
	switch k {
	case ModeNormal:
		return "normal"
	case ModeCommand:
		return "command"
	case ModeInput:
		return "input"
	case ModeConfirmExit:
		return "confirm-exit"
	case ModeExit:
		return "exit"
	default:
		return "unknown"
	}
}

// Mode is the current editing context. Command carries the text typed so
// far and is only meaningful when Kind is ModeCommand.
type Mode struct {
	Kind    ModeKind
	Command string
}

// Normal returns the Normal mode.
func Normal() Mode { return Mode{Kind: ModeNormal} }

// Command returns Command mode with the given pending text.
func Command(text string) Mode { return Mode{Kind: ModeCommand, Command: text} }

// Input returns Input mode.
func Input() Mode { return Mode{Kind: ModeInput} }

// ConfirmExit returns the ConfirmExit mode.
func ConfirmExit() Mode { return Mode{Kind: ModeConfirmExit} }

// Exit returns the terminal mode.
func Exit() Mode { return Mode{Kind: ModeExit} }

// Is reports whether m is of the given kind.
func (m Mode) Is(kind ModeKind) bool {
	return m.Kind == kind
}

// DisplayName returns the label shown in a status line.
func (m Mode) DisplayName() string {
	switch m.Kind {
	case ModeNormal:
		return "NORMAL"
	case ModeCommand:
		return "COMMAND"
	case ModeInput:
		return "INSERT"
	case ModeConfirmExit:
		return "CONFIRM"
	default:
		return ""
	}
}

func (m Mode) String() string {
	if m.Kind == ModeCommand {
		return "command(" + m.Command + ")"
	}
	return m.Kind.String()
}
