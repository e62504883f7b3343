package source

import (
	"fmt"
	"io"

	"github.com/go-audio/aiff"

	"github.com/tejashwikalptaru/goscope/internal/domain"
)

// DecodeAIFF decodes an uncompressed AIFF file.
func DecodeAIFF(r io.ReadSeeker) (Stream, error) {
	dec := aiff.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("aiff: not an AIFF file: %w", domain.ErrInvalidFormat)
	}
	dec.ReadInfo()

	format := dec.Format()
	if format == nil {
		return nil, fmt.Errorf("aiff: missing COMM chunk: %w", domain.ErrInvalidFormat)
	}

	return newIntStream(dec, format, int(dec.BitDepth)), nil
}
