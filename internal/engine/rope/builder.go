package rope

import (
	"io"
	"strings"
	"unicode/utf8"
)

// Builder accumulates text and builds a rope in one pass.
type Builder struct {
	chunks []Chunk
	buffer strings.Builder
}

// WriteString appends a string to the builder.
func (b *Builder) WriteString(s string) (int, error) {
	b.buffer.WriteString(s)
	if b.buffer.Len() >= MaxChunkSize*2 {
		b.flush()
	}
	return len(s), nil
}

// Write implements io.Writer.
func (b *Builder) Write(p []byte) (int, error) {
	return b.WriteString(string(p))
}

// flush moves whole chunks out of the buffer, keeping any partial UTF-8
// sequence at the tail for the next write.
func (b *Builder) flush() {
	s := b.buffer.String()
	cut := len(s)
	last := len(s) - 1
	for last > 0 && !isUTF8Start(s[last]) {
		last--
	}
	if !utf8.FullRuneInString(s[last:]) {
		cut = last
	}
	b.chunks = append(b.chunks, splitIntoChunks(s[:cut])...)
	b.buffer.Reset()
	b.buffer.WriteString(s[cut:])
}

// ReadFrom implements io.ReaderFrom.
func (b *Builder) ReadFrom(r io.Reader) (int64, error) {
	buf := make([]byte, 64*1024)
	var total int64
	for {
		n, err := r.Read(buf)
		if n > 0 {
			b.Write(buf[:n])
			total += int64(n)
		}
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}

// Build creates the rope and resets the builder.
func (b *Builder) Build() Rope {
	b.chunks = append(b.chunks, splitIntoChunks(b.buffer.String())...)
	chunks := b.chunks
	b.chunks = nil
	b.buffer.Reset()
	return buildFromChunks(chunks)
}
