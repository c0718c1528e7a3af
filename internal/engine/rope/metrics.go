package rope

import "unicode/utf8"

// CharOffset is an absolute character (code point) position in a rope.
type CharOffset uint64

// TextSummary holds aggregated metrics for a span of text.
// Summaries form a monoid under Add, which lets internal nodes cache the
// metrics of their whole subtree.
type TextSummary struct {
	// Bytes is the UTF-8 byte count.
	Bytes uint64

	// Chars is the code point count.
	Chars CharOffset

	// Lines is the number of newline characters.
	Lines uint32
}

// Add combines two summaries.
func (s TextSummary) Add(other TextSummary) TextSummary {
	return TextSummary{
		Bytes: s.Bytes + other.Bytes,
		Chars: s.Chars + other.Chars,
		Lines: s.Lines + other.Lines,
	}
}

// IsZero returns true if the summary describes no text.
func (s TextSummary) IsZero() bool {
	return s.Bytes == 0
}

// ComputeSummary calculates metrics for a string.
func ComputeSummary(s string) TextSummary {
	sum := TextSummary{
		Bytes: uint64(len(s)),
		Chars: CharOffset(utf8.RuneCountInString(s)),
	}
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			sum.Lines++
		}
	}
	return sum
}

// byteIndexOfChar returns the byte index of the n-th character of s.
// n may equal the character count, in which case len(s) is returned.
func byteIndexOfChar(s string, n CharOffset) int {
	if n == 0 {
		return 0
	}
	var count CharOffset
	for i := range s {
		if count == n {
			return i
		}
		count++
	}
	return len(s)
}

// charIndexAfterNewline returns the character index just past the n-th
// newline (1-indexed) in s, or -1 when s holds fewer than n newlines.
func charIndexAfterNewline(s string, n uint32) int {
	if n == 0 {
		return 0
	}
	var seen uint32
	idx := 0
	for _, r := range s {
		idx++
		if r == '\n' {
			seen++
			if seen == n {
				return idx
			}
		}
	}
	return -1
}
