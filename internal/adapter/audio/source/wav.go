package source

import (
	"fmt"
	"io"

	"github.com/go-audio/wav"

	"github.com/tejashwikalptaru/goscope/internal/domain"
)

// wavFormatPCM is the WAVE format tag for integer PCM.
const wavFormatPCM = 1

// DecodeWAV decodes an integer PCM WAV file of any bit depth.
func DecodeWAV(r io.ReadSeeker) (Stream, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("wav: not a WAVE file: %w", domain.ErrInvalidFormat)
	}
	if dec.WavAudioFormat != wavFormatPCM {
		return nil, fmt.Errorf("wav: format tag %d: %w", dec.WavAudioFormat, domain.ErrUnsupportedFormat)
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("wav: %w", err)
	}

	format := dec.Format()
	if format == nil {
		return nil, fmt.Errorf("wav: missing fmt chunk: %w", domain.ErrInvalidFormat)
	}

	return newIntStream(dec, format, int(dec.SampleBitDepth())), nil
}
