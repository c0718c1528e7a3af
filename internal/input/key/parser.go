package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Parse errors.
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

// Parse parses a key specification into an Event.
func Parse(spec string) (Event, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Event{}, ErrEmptySpec
	}

	if len(spec) > 2 && strings.HasPrefix(spec, "<") && strings.HasSuffix(spec, ">") {
		return parseParts(strings.Split(spec[1:len(spec)-1], "-"), spec)
	}
	if len(spec) > 1 && strings.Contains(spec, "+") {
		return parseParts(strings.Split(spec, "+"), spec)
	}
	return parseKey(spec, ModNone)
}

// ParseAll parses a whitespace-separated list of key specifications.
func ParseAll(specs string) ([]Event, error) {
	fields := strings.Fields(specs)
	events := make([]Event, 0, len(fields))
	for _, f := range fields {
		ev, err := Parse(f)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}

func parseParts(parts []string, spec string) (Event, error) {
	var mods Modifier
	for _, p := range parts[:len(parts)-1] {
		mod := ModifierFromName(strings.TrimSpace(p))
		if mod == ModNone {
			return Event{}, fmt.Errorf("%w: unknown modifier %q in %q", ErrInvalidSpec, p, spec)
		}
		mods = mods.With(mod)
	}
	return parseKey(strings.TrimSpace(parts[len(parts)-1]), mods)
}

func parseKey(name string, mods Modifier) (Event, error) {
	runes := []rune(name)
	if len(runes) == 1 {
		r := runes[0]
		if r == ' ' {
			return NewSpecialEvent(KeySpace, mods), nil
		}
		if mods.Has(ModCtrl) {
			r = unicode.ToLower(r)
		}
		return NewRuneEvent(r, mods), nil
	}

	if k := KeyFromName(name); k != KeyNone {
		return NewSpecialEvent(k, mods), nil
	}
	return Event{}, fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, name)
}
