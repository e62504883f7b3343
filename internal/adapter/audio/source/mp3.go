package source

import (
	"encoding/binary"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
)

// go-mp3 always decodes to 16-bit little-endian stereo.
const (
	mp3Channels       = 2
	mp3BytesPerSample = 2
)

// mp3Reader is the part of gomp3.Decoder we read from.
type mp3Reader interface {
	io.Reader
	SampleRate() int
}

type mp3Stream struct {
	dec mp3Reader
	buf []byte
}

// DecodeMP3 decodes an MPEG-1/2 layer III file.
func DecodeMP3(r io.ReadSeeker) (Stream, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("mp3: %w", err)
	}
	return &mp3Stream{dec: dec}, nil
}

func (s *mp3Stream) SampleRate() int { return s.dec.SampleRate() }
func (s *mp3Stream) Channels() int   { return mp3Channels }

func (s *mp3Stream) ReadSamples(dst []float32) (int, error) {
	need := len(dst) * mp3BytesPerSample
	if cap(s.buf) < need {
		s.buf = make([]byte, need)
	}
	s.buf = s.buf[:need]

	n, err := io.ReadFull(s.dec, s.buf)
	samples := n / mp3BytesPerSample
	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(s.buf[i*mp3BytesPerSample:]))
		dst[i] = float32(v) / 32768
	}

	switch {
	case samples == 0 && (err == io.EOF || err == io.ErrUnexpectedEOF):
		return 0, io.EOF
	case err == io.ErrUnexpectedEOF:
		return samples, nil
	}
	return samples, err
}
