package config

import (
	"fmt"
	"strconv"
)

// EnvPrefix is the prefix of environment variables read by ApplyEnv.
const EnvPrefix = "LINED_"

// LookupFunc looks up an environment variable, like os.LookupEnv.
type LookupFunc func(key string) (string, bool)

type envSetting struct {
	name  string
	apply func(cfg *Config, value string) error
}

func setString(target func(*Config) *string) func(*Config, string) error {
	return func(cfg *Config, v string) error {
		*target(cfg) = v
		return nil
	}
}

var envSettings = []envSetting{
	{"LOG_LEVEL", setString(func(c *Config) *string { return &c.Log.Level })},
	{"LOG_FILE", setString(func(c *Config) *string { return &c.Log.File })},
	{"EDITOR_START_MODE", setString(func(c *Config) *string { return &c.Editor.StartMode })},
	{"EDITOR_ERROR_INDICATOR", func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		c.Editor.ErrorIndicator = b
		return nil
	}},
	{"EDITOR_QUEUE_SIZE", func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		c.Editor.QueueSize = n
		return nil
	}},
	{"UI_FRONTEND", setString(func(c *Config) *string { return &c.UI.Frontend })},
	{"SCRIPT_INIT", setString(func(c *Config) *string { return &c.Script.Init })},
}

// ApplyEnv overrides cfg with LINED_* variables found by lookup.
// Empty values are treated as set.
func ApplyEnv(cfg *Config, lookup LookupFunc) error {
	for _, s := range envSettings {
		name := EnvPrefix + s.name
		value, ok := lookup(name)
		if !ok {
			continue
		}
		if err := s.apply(cfg, value); err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, name, value, err)
		}
	}
	return nil
}
