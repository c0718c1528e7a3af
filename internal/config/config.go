package config

import (
	"github.com/dshills/lined/internal/logging"
)

// Frontend names.
const (
	FrontendAuto   = "auto"
	FrontendLine   = "line"
	FrontendScreen = "screen"
)

// Start mode names.
const (
	StartNormal  = "normal"
	StartCommand = "command"
)

// Config is the complete lined configuration.
type Config struct {
	Log    LogConfig    `toml:"log" yaml:"log"`
	Editor EditorConfig `toml:"editor" yaml:"editor"`
	UI     UIConfig     `toml:"ui" yaml:"ui"`
	Script ScriptConfig `toml:"script" yaml:"script"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level" yaml:"level"`
	// File receives log output. Empty means stderr.
	File string `toml:"file" yaml:"file"`
}

// EditorConfig configures the editor core.
type EditorConfig struct {
	// StartMode is the initial mode: normal or command.
	StartMode string `toml:"start_mode" yaml:"start_mode"`
	// ErrorIndicator prints "?" after a command that was not understood or
	// was refused.
	ErrorIndicator bool `toml:"error_indicator" yaml:"error_indicator"`
	// QueueSize is the dispatch queue capacity.
	QueueSize int `toml:"queue_size" yaml:"queue_size"`
}

// UIConfig configures the frontend.
type UIConfig struct {
	// Frontend is auto, line or screen.
	Frontend string `toml:"frontend" yaml:"frontend"`
}

// ScriptConfig configures Lua scripting.
type ScriptConfig struct {
	// Init is a Lua file run before input is read.
	Init string `toml:"init" yaml:"init"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log: LogConfig{
			Level: "info",
		},
		Editor: EditorConfig{
			StartMode:      StartNormal,
			ErrorIndicator: true,
			QueueSize:      256,
		},
		UI: UIConfig{
			Frontend: FrontendAuto,
		},
	}
}

// Validate checks every setting.
func (c Config) Validate() error {
	if !logging.ValidLevel(c.Log.Level) {
		return invalid("log.level", c.Log.Level, "expected debug, info, warn or error")
	}

	switch c.Editor.StartMode {
	case StartNormal, StartCommand:
	default:
		return invalid("editor.start_mode", c.Editor.StartMode, "expected normal or command")
	}

	if c.Editor.QueueSize <= 0 {
		return invalid("editor.queue_size", c.Editor.QueueSize, "must be positive")
	}

	switch c.UI.Frontend {
	case FrontendAuto, FrontendLine, FrontendScreen:
	default:
		return invalid("ui.frontend", c.UI.Frontend, "expected auto, line or screen")
	}

	return nil
}

// LogLevel returns the parsed log level.
func (c Config) LogLevel() logging.Level {
	return logging.ParseLevel(c.Log.Level)
}
