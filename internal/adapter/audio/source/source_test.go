package source

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/goscope/internal/domain"
)

// writeWAV encodes interleaved 16-bit samples into a temporary WAV file.
func writeWAV(t *testing.T, name string, sampleRate, channels int, samples []int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           samples,
		SourceBitDepth: 16,
	}
	require.NoError(t, enc.Write(buf))
	require.NoError(t, enc.Close())
	return path
}

func readAll(t *testing.T, src Source, chunk int) []float32 {
	t.Helper()

	var out []float32
	buf := make([]float32, chunk)
	for {
		n, err := src.Read(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
	}
}

func TestRegistry_OpenWAV(t *testing.T) {
	samples := make([]int, 200)
	for i := range samples {
		samples[i] = (i - 100) * 300
	}
	path := writeWAV(t, "ramp.wav", 8000, 2, samples)

	src, err := DefaultRegistry().Open(path)
	require.NoError(t, err)
	defer src.Close()

	info := src.Info()
	assert.Equal(t, 8000, info.SampleRate)
	assert.Equal(t, 2, info.Channels)
	assert.Equal(t, "ramp.wav", info.Name)
	assert.Equal(t, path, info.Path)

	got := readAll(t, src, 64)
	require.Len(t, got, len(samples))
	for i, v := range samples {
		assert.InDelta(t, float32(v)/32768, got[i], 1e-6, "sample %d", i)
	}

	require.NoError(t, src.Rewind())
	again := readAll(t, src, 50)
	assert.Equal(t, got, again)
}

func TestRegistry_OpenErrors(t *testing.T) {
	reg := DefaultRegistry()

	_, err := reg.Open("")
	assert.ErrorIs(t, err, domain.ErrInvalidFilePath)

	_, err = reg.Open(filepath.Join(t.TempDir(), "missing.wav"))
	assert.ErrorIs(t, err, domain.ErrFileNotFound)

	_, err = reg.Open("track.flac")
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
	var serr *domain.SourceError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "open", serr.Op)

	garbage := filepath.Join(t.TempDir(), "noise.wav")
	require.NoError(t, os.WriteFile(garbage, []byte("definitely not a riff header"), 0o600))
	_, err = reg.Open(garbage)
	assert.ErrorIs(t, err, domain.ErrInvalidFormat)
}

func TestRegistry_Extensions(t *testing.T) {
	reg := DefaultRegistry()

	exts := reg.Extensions()
	assert.IsIncreasing(t, exts)
	for _, ext := range []string{".wav", ".aiff", ".mp3", ".ogg"} {
		assert.Contains(t, exts, ext)
	}

	assert.True(t, reg.Supports("/music/Song.MP3"))
	assert.False(t, reg.Supports("/music/song.flac"))
}

func TestRegistry_RegisterNormalizesExtension(t *testing.T) {
	reg := NewRegistry()
	reg.Register("RAW", DecodeWAV)

	_, ok := reg.Lookup("capture.raw")
	assert.True(t, ok)
	assert.Equal(t, []string{".raw"}, reg.Extensions())
}

func TestReadMetadata_FallsBackToFileName(t *testing.T) {
	meta := ReadMetadata(filepath.Join(t.TempDir(), "untagged.ogg"))
	assert.Equal(t, "untagged.ogg", meta.Title)
	assert.Empty(t, meta.Artist)
}

func TestFullScale(t *testing.T) {
	assert.Equal(t, float32(128), fullScale(8))
	assert.Equal(t, float32(32768), fullScale(16))
	assert.Equal(t, float32(8388608), fullScale(24))
	assert.Equal(t, float32(32768), fullScale(0))
}
