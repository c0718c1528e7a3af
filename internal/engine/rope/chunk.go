package rope

// Chunk size constants control the granularity of text storage.
const (
	// MinChunkSize is the minimum bytes per chunk (except for the last chunk).
	MinChunkSize = 128

	// MaxChunkSize is the maximum bytes per chunk before splitting.
	MaxChunkSize = 256

	// TargetChunkSize is the preferred chunk size when building.
	TargetChunkSize = (MinChunkSize + MaxChunkSize) / 2
)

// Chunk is a bounded, immutable string stored in a leaf node.
type Chunk struct {
	data    string
	summary TextSummary
}

// NewChunk creates a chunk from a string and computes its metrics.
func NewChunk(s string) Chunk {
	return Chunk{
		data:    s,
		summary: ComputeSummary(s),
	}
}

// String returns the chunk's text.
func (c Chunk) String() string {
	return c.data
}

// Summary returns the chunk's precomputed metrics.
func (c Chunk) Summary() TextSummary {
	return c.summary
}

// Chars returns the number of characters in the chunk.
func (c Chunk) Chars() CharOffset {
	return c.summary.Chars
}

// IsEmpty returns true if the chunk contains no text.
func (c Chunk) IsEmpty() bool {
	return len(c.data) == 0
}

// Split splits a chunk at a character offset.
func (c Chunk) Split(offset CharOffset) (Chunk, Chunk) {
	if offset == 0 {
		return Chunk{}, c
	}
	if offset >= c.summary.Chars {
		return c, Chunk{}
	}
	at := byteIndexOfChar(c.data, offset)
	return NewChunk(c.data[:at]), NewChunk(c.data[at:])
}

// slice returns the text between two character offsets of the chunk.
func (c Chunk) slice(start, end CharOffset) string {
	if end > c.summary.Chars {
		end = c.summary.Chars
	}
	if start >= end {
		return ""
	}
	if c.summary.Bytes == uint64(c.summary.Chars) {
		return c.data[start:end]
	}
	from := byteIndexOfChar(c.data, start)
	to := from + byteIndexOfChar(c.data[from:], end-start)
	return c.data[from:to]
}

// splitIntoChunks splits a string into chunks of appropriate size.
func splitIntoChunks(s string) []Chunk {
	if len(s) == 0 {
		return nil
	}
	if len(s) <= MaxChunkSize {
		return []Chunk{NewChunk(s)}
	}

	var chunks []Chunk
	remaining := s
	for len(remaining) > 0 {
		if len(remaining) <= MaxChunkSize {
			chunks = append(chunks, NewChunk(remaining))
			break
		}
		at := findSplitPoint(remaining, TargetChunkSize)
		chunks = append(chunks, NewChunk(remaining[:at]))
		remaining = remaining[at:]
	}
	return chunks
}

// findSplitPoint finds a UTF-8 boundary near target, preferring the byte
// after a newline.
func findSplitPoint(s string, target int) int {
	if target >= len(s) {
		return len(s)
	}

	lo := max(target-MinChunkSize/4, 1)
	hi := min(target+MinChunkSize/4, len(s))
	for i := target; i < hi; i++ {
		if s[i] == '\n' {
			return i + 1
		}
	}
	for i := target - 1; i >= lo; i-- {
		if s[i] == '\n' {
			return i + 1
		}
	}

	pos := target
	for pos > 0 && !isUTF8Start(s[pos]) {
		pos--
	}
	if pos == 0 {
		pos = target
		for pos < len(s) && !isUTF8Start(s[pos]) {
			pos++
		}
	}
	return pos
}

// isUTF8Start reports whether b begins a UTF-8 sequence.
func isUTF8Start(b byte) bool {
	return b&0xC0 != 0x80
}
