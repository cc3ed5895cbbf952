// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package chunk splits document text into offset-addressed, sentence-aligned
// passages for citation-grounded summarization.
package chunk

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/summary-engine/pkg/types"
)

const (
	// DefaultWindow is the maximum passage length in bytes.
	DefaultWindow = 1200

	// DefaultOverlap is the passage overlap budget in bytes.
	DefaultOverlap = 200
)

// Split scans text left to right and emits passages of at most window bytes.
// When a sentence terminator ('.') falls beyond a slice's midpoint, the
// passage ends just after it so sentences are not cut mid-way. Passage IDs
// increase from 0 and Start/End are absolute byte offsets; together the
// passages cover the whole document with no gaps.
//
// Zero-valued config fields take the package defaults. A window that does
// not exceed the overlap cannot guarantee forward progress and is rejected
// with a ConfigError.
func Split(text string, cfg types.ChunkingConfig) ([]types.Chunk, error) {
	window := cfg.Window
	if window == 0 {
		window = DefaultWindow
	}
	overlap := cfg.Overlap
	if overlap == 0 {
		overlap = DefaultOverlap
	}

	if window < 0 {
		return nil, &types.ConfigError{Reason: fmt.Sprintf("window %d must be positive", window)}
	}
	if overlap < 0 {
		return nil, &types.ConfigError{Reason: fmt.Sprintf("overlap %d must not be negative", overlap)}
	}
	if window <= overlap {
		return nil, &types.ConfigError{Reason: fmt.Sprintf("window %d must exceed overlap %d", window, overlap)}
	}

	var chunks []types.Chunk
	start := 0
	for start < len(text) {
		end := start + window
		if end >= len(text) {
			end = len(text)
		} else {
			end = snapToRuneStart(text, end)
		}
		if end == start {
			// The window is smaller than the rune at start; take the
			// whole rune so the passage is non-empty and start advances.
			_, size := utf8.DecodeRuneInString(text[start:])
			end = start + size
		}

		slice := text[start:end]
		if lastDot := strings.LastIndexByte(slice, '.'); float64(lastDot) > float64(window)*0.5 {
			end = start + lastDot + 1
		}

		chunks = append(chunks, types.Chunk{
			ID:    len(chunks),
			Page:  0,
			Start: start,
			End:   end,
			Text:  text[start:end],
		})

		// The floor keeps start monotonic, so consecutive passages touch
		// rather than overlap and the loop always terminates.
		start = max(end-overlap, end)
	}

	return chunks, nil
}

// ByID indexes passages by their ID for citation lookup.
func ByID(chunks []types.Chunk) map[int]types.Chunk {
	m := make(map[int]types.Chunk, len(chunks))
	for _, c := range chunks {
		m[c.ID] = c
	}
	return m
}

// snapToRuneStart moves pos back to the nearest UTF-8 boundary at or before
// pos so a cut never splits a multi-byte character.
func snapToRuneStart(text string, pos int) int {
	for pos > 0 && !utf8.RuneStart(text[pos]) {
		pos--
	}
	return pos
}
