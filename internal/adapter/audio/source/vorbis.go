package source

import (
	"errors"
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"
)

type vorbisStream struct {
	dec *oggvorbis.Reader
}

// DecodeVorbis decodes an Ogg Vorbis file.
func DecodeVorbis(r io.ReadSeeker) (Stream, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("vorbis: %w", err)
	}
	return &vorbisStream{dec: dec}, nil
}

func (s *vorbisStream) SampleRate() int { return s.dec.SampleRate() }
func (s *vorbisStream) Channels() int   { return s.dec.Channels() }

// ReadSamples fills dst by repeated decoder reads, since one Vorbis packet
// is usually smaller than a block.
func (s *vorbisStream) ReadSamples(dst []float32) (int, error) {
	// keep whole sample frames
	dst = dst[:len(dst)-len(dst)%s.dec.Channels()]

	total := 0
	for total < len(dst) {
		n, err := s.dec.Read(dst[total:])
		total += n
		if errors.Is(err, io.EOF) {
			if total == 0 {
				return 0, io.EOF
			}
			return total, nil
		}
		if err != nil {
			return total, err
		}
		if n == 0 {
			break
		}
	}
	return total, nil
}
