package source

import (
	"errors"
	"fmt"
	"os"

	"github.com/tejashwikalptaru/goscope/internal/domain"
)

// fileSource is a Source backed by a decoded file. Rewind reopens the file
// and decodes it again, which works for every decoder regardless of seek
// support.
type fileSource struct {
	path   string
	decode Decoder
	info   domain.SourceInfo

	file   *os.File
	stream Stream
}

func openFile(path string, decode Decoder) (*fileSource, error) {
	s := &fileSource{path: path, decode: decode}
	if err := s.open(); err != nil {
		return nil, err
	}

	meta := ReadMetadata(path)
	s.info = domain.SourceInfo{
		Name:       meta.Title,
		Artist:     meta.Artist,
		Path:       path,
		SampleRate: s.stream.SampleRate(),
		Channels:   s.stream.Channels(),
	}
	return s, nil
}

func (s *fileSource) open() error {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.NewSourceError("open", s.path, "file does not exist", domain.ErrFileNotFound)
	}
	if err != nil {
		return domain.NewSourceError("open", s.path, err.Error(), err)
	}

	stream, err := s.decode(f)
	if err != nil {
		_ = f.Close()
		return domain.NewSourceError("decode", s.path, err.Error(), err)
	}
	if stream.SampleRate() <= 0 || stream.Channels() <= 0 {
		_ = f.Close()
		return domain.NewSourceError("decode", s.path,
			fmt.Sprintf("bad format: %d Hz, %d channels", stream.SampleRate(), stream.Channels()),
			domain.ErrInvalidFormat)
	}

	s.file = f
	s.stream = stream
	return nil
}

func (s *fileSource) Info() domain.SourceInfo {
	return s.info
}

func (s *fileSource) Read(dst []float32) (int, error) {
	if s.stream == nil {
		return 0, os.ErrClosed
	}
	return s.stream.ReadSamples(dst)
}

func (s *fileSource) Rewind() error {
	if err := s.Close(); err != nil {
		return err
	}
	return s.open()
}

func (s *fileSource) Close() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	s.stream = nil
	return err
}
