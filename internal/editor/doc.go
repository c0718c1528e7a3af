// Package editor defines the editing state machine: the modes an editing
// session moves through, the actions that drive it, the effects a state may
// request, and the reducer that applies one action to one state.
//
// The reducer is pure. It never performs I/O and never fails: actions that
// make no sense in the current mode are dropped, and actions that address a
// line past the end of the document leave the mode untouched and mark the
// resulting state as Rejected.
//
// Text typed in Input mode is batched. AddChar, Enter and AddInputLine only
// grow State.Pending; the pending text reaches the document in one insertion
// when Input mode is left. Readers of a State therefore never see a
// half-entered block of input in Doc.
//
// Whole lines entered after StartAppendingInput(n) become new lines after
// line n, and the last of them becomes the current line. Characters typed
// one at a time are inserted at the cursor, which StartAppendingInput puts
// at the end of line n.
package editor
