package editor

// Effect is a request for a side computation that reads a state snapshot.
// Effects never change the state themselves. The zero value means no effect.
type Effect uint8

const (
	// EffectNone requests nothing.
	EffectNone Effect = iota

	// EffectPrint writes the whole document to the output.
	EffectPrint

	// EffectPrintLine writes the line under the cursor to the output.
	EffectPrintLine
)

// String returns the effect name.
func (e Effect) String() string {
	switch e {
	case EffectNone:
		return "none"
	case EffectPrint:
		return "print"
	case EffectPrintLine:
		return "print-line"
	default:
		return "unknown"
	}
}
