// Package source provides the audio sources that feed a probe: decoded
// files (WAV, AIFF, MP3, Ogg Vorbis) and a generated test tone, plus the
// Pump that paces them into a probe at real-time rate.
package source

import (
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/tejashwikalptaru/goscope/internal/domain"
)

// Source yields interleaved float32 samples in [-1, 1].
type Source interface {
	// Info describes the source. SampleRate and Channels are always set.
	Info() domain.SourceInfo

	// Read fills dst with interleaved samples and returns how many values
	// were written. It returns io.EOF once the source is exhausted.
	Read(dst []float32) (int, error)

	// Rewind restarts the source from its first sample.
	Rewind() error

	// Close releases the underlying file, if any.
	Close() error
}

// Stream is a decoded audio stream as returned by a Decoder.
type Stream interface {
	SampleRate() int
	Channels() int

	// ReadSamples has the same contract as Source.Read.
	ReadSamples(dst []float32) (int, error)
}

// Decoder turns an open file into a Stream.
type Decoder func(r io.ReadSeeker) (Stream, error)

// Registry maps lower-case file extensions (with the dot) to decoders.
type Registry struct {
	mu       sync.RWMutex
	decoders map[string]Decoder
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{decoders: make(map[string]Decoder)}
}

// DefaultRegistry returns a registry with every built-in decoder.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(".wav", DecodeWAV)
	r.Register(".wave", DecodeWAV)
	r.Register(".aif", DecodeAIFF)
	r.Register(".aiff", DecodeAIFF)
	r.Register(".mp3", DecodeMP3)
	r.Register(".ogg", DecodeVorbis)
	r.Register(".oga", DecodeVorbis)
	return r
}

// Register adds or replaces the decoder for ext.
func (r *Registry) Register(ext string, d Decoder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decoders[normalizeExt(ext)] = d
}

// Lookup returns the decoder registered for path's extension.
func (r *Registry) Lookup(path string) (Decoder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.decoders[normalizeExt(filepath.Ext(path))]
	return d, ok
}

// Extensions returns the registered extensions in sorted order.
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exts := make([]string, 0, len(r.decoders))
	for ext := range r.decoders {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}

// Supports reports whether path has a registered extension.
func (r *Registry) Supports(path string) bool {
	_, ok := r.Lookup(path)
	return ok
}

// Open decodes the file at path with the decoder for its extension.
func (r *Registry) Open(path string) (Source, error) {
	if strings.TrimSpace(path) == "" {
		return nil, domain.ErrInvalidFilePath
	}

	dec, ok := r.Lookup(path)
	if !ok {
		return nil, domain.NewSourceError("open", path,
			fmt.Sprintf("no decoder for %q", filepath.Ext(path)), domain.ErrUnsupportedFormat)
	}
	return openFile(path, dec)
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
