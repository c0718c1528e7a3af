// Package key defines the key events the screen frontend and scripts feed
// to the input mapper.
//
// Key specifications can be written as:
//
//   - single characters: "a", "A", ":", "."
//   - key names: "Enter", "Esc", "Backspace", "Space"
//   - modifier style: "Ctrl+C", "Ctrl+D"
//   - Vim style: "<C-c>", "<CR>", "<Esc>"
package key
