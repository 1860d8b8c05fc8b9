// Package chunk splits raw document text into bounded-size, delimiter-aware
// segments, the atomic units of embedding and retrieval.
package chunk

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// DefaultDelimiter is the default segment delimiter.
const DefaultDelimiter = "\n"

// DefaultChunkSize is the default maximum number of characters per chunk.
const DefaultChunkSize = 500

// Splitter splits text into chunks no longer than a configured size,
// preferring to cut at a delimiter. Segments longer than the size limit are
// force-split into consecutive fixed-size pieces.
//
// Every produced chunk is prefixed with a human-readable "[Chunk N] " marker
// (1-based) so retrieved context remains attributable when surfaced to a
// language model.
type Splitter struct {
	delimiter string
	chunkSize int
}

// Option configures a Splitter.
type Option func(*Splitter)

// WithDelimiter sets the segment delimiter. Matching is exact-substring,
// not a pattern. Empty delimiters are ignored.
func WithDelimiter(delimiter string) Option {
	return func(s *Splitter) {
		if delimiter != "" {
			s.delimiter = delimiter
		}
	}
}

// WithChunkSize sets the maximum chunk size in characters (runes).
// Non-positive sizes are ignored.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// New creates a Splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		delimiter: DefaultDelimiter,
		chunkSize: DefaultChunkSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Split splits text into prefixed chunks.
//
// Text is first divided on the delimiter; each segment is whitespace-trimmed
// and empty segments are discarded. Segments are then greedily packed into
// chunks, rejoined by the delimiter, without exceeding the chunk size. A
// single segment longer than the chunk size flushes the current chunk and is
// force-split into consecutive pieces of exactly chunkSize characters (the
// last piece may be shorter); force-split pieces are emitted as-is, never
// rejoined with the delimiter.
//
// Empty input yields a nil slice.
func (s *Splitter) Split(text string) []string {
	var chunks []string
	var buf strings.Builder
	bufLen := 0 // rune length of buf

	delimLen := utf8.RuneCountInString(s.delimiter)

	for _, raw := range strings.Split(text, s.delimiter) {
		seg := strings.TrimSpace(raw)
		if seg == "" {
			continue
		}
		segLen := utf8.RuneCountInString(seg)

		switch {
		case segLen > s.chunkSize:
			if bufLen > 0 {
				chunks = append(chunks, buf.String())
				buf.Reset()
				bufLen = 0
			}
			chunks = append(chunks, forceSplit(seg, s.chunkSize)...)

		case bufLen > 0 && bufLen+delimLen+segLen > s.chunkSize:
			chunks = append(chunks, buf.String())
			buf.Reset()
			buf.WriteString(seg)
			bufLen = segLen

		default:
			if bufLen > 0 {
				buf.WriteString(s.delimiter)
				bufLen += delimLen
			}
			buf.WriteString(seg)
			bufLen += segLen
		}
	}

	if bufLen > 0 {
		chunks = append(chunks, buf.String())
	}

	for i, c := range chunks {
		chunks[i] = fmt.Sprintf("[Chunk %d] %s", i+1, c)
	}
	return chunks
}

// forceSplit cuts an oversized segment into consecutive pieces of exactly
// size runes each; the final piece may be shorter.
func forceSplit(seg string, size int) []string {
	runes := []rune(seg)
	pieces := make([]string, 0, (len(runes)+size-1)/size)
	for start := 0; start < len(runes); start += size {
		end := min(start+size, len(runes))
		pieces = append(pieces, string(runes[start:end]))
	}
	return pieces
}
