package chunker

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned when the split geometry is unusable.
var ErrInvalidConfig = errors.New("chunker: invalid configuration")

// Config holds the split geometry. Size and Overlap are measured in runes
// so multi-byte text splits and restitches cleanly.
type Config struct {
	Size    int // window length
	Overlap int // runes shared between consecutive windows
}

// Validate checks the geometry before any splitting happens.
func (c Config) Validate() error {
	if c.Size <= 0 {
		return fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidConfig, c.Size)
	}
	if c.Overlap < 0 {
		return fmt.Errorf("%w: overlap must be non-negative, got %d", ErrInvalidConfig, c.Overlap)
	}
	if c.Overlap >= c.Size {
		return fmt.Errorf("%w: overlap %d must be smaller than chunk size %d", ErrInvalidConfig, c.Overlap, c.Size)
	}
	return nil
}

// Chunk is a single window of the source text with its sequential position.
type Chunk struct {
	Index int    // 0-based, contiguous within a document
	Text  string // source[Index*step : Index*step+Size] in runes
}

// Split cuts text into fixed-size overlapping windows, advancing by
// Size-Overlap runes per step. The final chunk may be shorter than Size.
// Splitting is deterministic: the same input always yields the same chunks.
func Split(text string, cfg Config) ([]Chunk, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	runes := []rune(text)
	if len(runes) == 0 {
		return nil, nil
	}

	step := cfg.Size - cfg.Overlap
	var chunks []Chunk

	// Stop once the remaining tail is fully covered by the previous window:
	// a start position within the last Overlap runes would produce a chunk
	// that is a suffix of the one before it.
	for start := 0; start < len(runes)-cfg.Overlap; start += step {
		end := start + cfg.Size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, Chunk{
			Index: len(chunks),
			Text:  string(runes[start:end]),
		})
	}

	// A non-empty document shorter than the overlap never enters the loop
	// but still becomes a single chunk.
	if len(chunks) == 0 {
		chunks = append(chunks, Chunk{Index: 0, Text: text})
	}

	return chunks, nil
}
