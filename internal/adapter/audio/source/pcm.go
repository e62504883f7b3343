package source

import (
	"errors"
	"io"

	"github.com/go-audio/audio"
)

// pcmReader is the part of the go-audio WAV and AIFF decoders we read from.
type pcmReader interface {
	PCMBuffer(buf *audio.IntBuffer) (int, error)
}

// intStream converts integer PCM from a go-audio decoder to float32.
type intStream struct {
	dec        pcmReader
	format     *audio.Format
	sampleRate int
	channels   int
	scale      float32
	buf        *audio.IntBuffer
}

func newIntStream(dec pcmReader, format *audio.Format, bitDepth int) *intStream {
	return &intStream{
		dec:        dec,
		format:     format,
		sampleRate: format.SampleRate,
		channels:   format.NumChannels,
		scale:      fullScale(bitDepth),
	}
}

// fullScale returns the magnitude of the most negative sample at bitDepth.
func fullScale(bitDepth int) float32 {
	if bitDepth <= 0 || bitDepth > 32 {
		bitDepth = 16
	}
	return float32(uint64(1) << (bitDepth - 1))
}

func (s *intStream) SampleRate() int { return s.sampleRate }
func (s *intStream) Channels() int   { return s.channels }

func (s *intStream) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	if s.buf == nil || cap(s.buf.Data) < len(dst) {
		s.buf = &audio.IntBuffer{Format: s.format, Data: make([]int, len(dst))}
	}
	s.buf.Data = s.buf.Data[:len(dst)]

	n, err := s.dec.PCMBuffer(s.buf)
	if n == 0 {
		if err != nil && !errors.Is(err, io.EOF) {
			return 0, err
		}
		return 0, io.EOF
	}

	for i, v := range s.buf.Data[:n] {
		dst[i] = float32(v) / s.scale
	}
	if errors.Is(err, io.EOF) {
		err = nil
	}
	return n, err
}
