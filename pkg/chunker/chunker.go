// Package chunker splits normalized text into overlapping, size-bounded
// segments suitable for embedding.
package chunker

import (
	"strings"
)

type ChunkerConfig struct {
	ChunkSize    int
	ChunkOverlap int
}

type Chunker struct {
	config ChunkerConfig
}

// separators are tried in order when seeking a cut point: paragraph breaks,
// line breaks, sentence-ending punctuation, then spaces. If none is present
// in the window the text is cut at the size limit.
var separators = []string{"\n\n", "\n", ". ", "! ", "? ", " "}

func NewWithConfig(config ChunkerConfig) Chunker {
	if config.ChunkSize == 0 {
		config.ChunkSize = 1000
	}
	if config.ChunkOverlap == 0 {
		config.ChunkOverlap = 200
	}
	if config.ChunkOverlap >= config.ChunkSize {
		config.ChunkOverlap = config.ChunkSize / 5
	}

	return Chunker{config: config}
}

// Chunk splits text into ordered segments of at most ChunkSize characters.
// The trailing ChunkOverlap characters of each segment are repeated at the
// start of the next one so context spanning a boundary is not lost. Blank
// input yields no chunks, not an error.
func (c Chunker) Chunk(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	size := c.config.ChunkSize
	overlap := c.config.ChunkOverlap

	var chunks []string
	start := 0
	for start < len(text) {
		end := start + size
		if end >= len(text) {
			end = len(text)
		} else {
			end = start + c.seekBoundary(text[start:end])
		}

		chunk := strings.TrimSpace(text[start:end])
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		if end == len(text) {
			break
		}

		next := end - overlap
		if next <= start {
			// Guarantee forward progress when the overlap would swallow
			// the whole segment.
			next = end
		}
		start = next
	}

	return chunks
}

// seekBoundary returns the cut position within window, preferring the last
// occurrence of the highest-ranked separator and falling back to a hard cut
// at the window end.
func (c Chunker) seekBoundary(window string) int {
	for _, sep := range separators {
		if idx := strings.LastIndex(window, sep); idx > 0 {
			return idx + len(sep)
		}
	}
	// No boundary in the window; cut at the limit, but never mid-rune.
	cut := len(window)
	for cut > 0 && !isRuneStart(window, cut) {
		cut--
	}
	if cut == 0 {
		cut = len(window)
	}
	return cut
}

func isRuneStart(s string, i int) bool {
	return i >= len(s) || (s[i]&0xC0) != 0x80
}
