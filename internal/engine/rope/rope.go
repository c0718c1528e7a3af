package rope

import (
	"fmt"
	"io"
	"strings"
)

// Rope is an immutable text buffer addressed by character offset.
// Operations return new Rope values; the receiver is never modified.
type Rope struct {
	root *Node
}

// New creates an empty rope.
func New() Rope {
	return Rope{root: newLeafNode()}
}

// FromString creates a rope from a string.
func FromString(s string) Rope {
	if len(s) == 0 {
		return New()
	}
	return buildFromChunks(splitIntoChunks(s))
}

// FromReader creates a rope from an io.Reader.
func FromReader(r io.Reader) (Rope, error) {
	var b Builder
	if _, err := b.ReadFrom(r); err != nil {
		return Rope{}, err
	}
	return b.Build(), nil
}

func buildFromChunks(chunks []Chunk) Rope {
	if len(chunks) == 0 {
		return New()
	}

	var nodes []*Node
	for i := 0; i < len(chunks); i += MaxChunksPerLeaf {
		end := min(i+MaxChunksPerLeaf, len(chunks))
		leaf := make([]Chunk, end-i)
		copy(leaf, chunks[i:end])
		nodes = append(nodes, newLeafNodeWithChunks(leaf))
	}
	return Rope{root: buildNodeFromChildren(nodes)}
}

// Len returns the number of characters.
func (r Rope) Len() CharOffset {
	if r.root == nil {
		return 0
	}
	return r.root.summary.Chars
}

// ByteLen returns the UTF-8 encoded length.
func (r Rope) ByteLen() uint64 {
	if r.root == nil {
		return 0
	}
	return r.root.summary.Bytes
}

// LineCount returns the number of lines (newlines + 1).
func (r Rope) LineCount() uint32 {
	if r.root == nil {
		return 1
	}
	return r.root.summary.Lines + 1
}

// IsEmpty returns true if the rope contains no text.
func (r Rope) IsEmpty() bool {
	return r.Len() == 0
}

// Summary returns the aggregated metrics for the entire rope.
func (r Rope) Summary() TextSummary {
	if r.root == nil {
		return TextSummary{}
	}
	return r.root.summary
}

// String returns the full text.
func (r Rope) String() string {
	if r.root == nil {
		return ""
	}
	var sb strings.Builder
	sb.Grow(int(r.ByteLen()))
	r.root.appendTo(&sb)
	return sb.String()
}

// Slice returns the text in the character range [start, end).
func (r Rope) Slice(start, end CharOffset) string {
	if r.root == nil || start >= end {
		return ""
	}
	var sb strings.Builder
	r.root.appendRange(&sb, start, min(end, r.Len()))
	return sb.String()
}

// Insert inserts text at a character offset. Offsets past the end append.
func (r Rope) Insert(offset CharOffset, text string) Rope {
	if len(text) == 0 {
		return r
	}
	if r.IsEmpty() {
		return FromString(text)
	}
	if offset == 0 {
		return FromString(text).Concat(r)
	}
	if offset >= r.Len() {
		return r.Concat(FromString(text))
	}

	left, right := r.Split(offset)
	return left.Concat(FromString(text)).Concat(right)
}

// Append adds text at the end of the rope.
func (r Rope) Append(text string) Rope {
	return r.Concat(FromString(text))
}

// Delete removes the characters in [start, end).
func (r Rope) Delete(start, end CharOffset) Rope {
	if r.root == nil || start >= end || start >= r.Len() {
		return r
	}
	left, rest := r.Split(start)
	_, right := rest.Split(end - start)
	return left.Concat(right)
}

// Split splits the rope at a character offset.
// The left rope holds [0, offset), the right [offset, Len()).
func (r Rope) Split(offset CharOffset) (Rope, Rope) {
	if r.root == nil || offset == 0 {
		return New(), r
	}
	if offset >= r.Len() {
		return r, New()
	}
	left, right := r.root.split(offset)
	return Rope{root: left}, Rope{root: right}
}

// Concat joins two ropes.
func (r Rope) Concat(other Rope) Rope {
	if r.IsEmpty() {
		if other.root == nil {
			return New()
		}
		return other
	}
	if other.IsEmpty() {
		return r
	}
	return Rope{root: concat(r.root, other.root)}
}

// LineToChar returns the character offset at which line starts.
// Lines are 0-indexed. It panics if line >= LineCount(); callers validate
// line numbers before addressing the rope.
func (r Rope) LineToChar(line uint32) CharOffset {
	if line >= r.LineCount() {
		panic(fmt.Sprintf("rope: line %d out of range [0, %d)", line, r.LineCount()))
	}
	if line == 0 {
		return 0
	}
	return r.root.charAfterNewline(line)
}

// LineLen returns the number of characters on line, excluding its newline.
// It has the same precondition as LineToChar.
func (r Rope) LineLen(line uint32) uint32 {
	start := r.LineToChar(line)
	if line+1 == r.LineCount() {
		return uint32(r.Len() - start)
	}
	return uint32(r.LineToChar(line+1) - start - 1)
}

// LineText returns the text of line without its newline.
// It has the same precondition as LineToChar.
func (r Rope) LineText(line uint32) string {
	start := r.LineToChar(line)
	return r.Slice(start, start+CharOffset(r.LineLen(line)))
}

// WriteTo writes the rope's content to w chunk by chunk.
func (r Rope) WriteTo(w io.Writer) (int64, error) {
	var total int64
	it := r.Chunks()
	for it.Next() {
		n, err := io.WriteString(w, it.Chunk().String())
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Height returns the height of the tree.
func (r Rope) Height() int {
	if r.root == nil {
		return 0
	}
	return int(r.root.height) + 1
}

// Equals reports whether two ropes hold the same text.
func (r Rope) Equals(other Rope) bool {
	if r.root == other.root {
		return true
	}
	if r.ByteLen() != other.ByteLen() {
		return false
	}
	return r.String() == other.String()
}
