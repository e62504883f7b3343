package source

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/goscope/internal/domain"
)

func TestRemix_SameChannels(t *testing.T) {
	src := &sliceSource{info: domain.SourceInfo{SampleRate: 8000, Channels: 2}}
	assert.Same(t, src, Remix(src, 2))
}

func TestRemix_MonoToStereo(t *testing.T) {
	src := &sliceSource{
		info: domain.SourceInfo{SampleRate: 8000, Channels: 1},
		data: []float32{0.1, 0.2, 0.3},
	}
	r := Remix(src, 2)
	assert.Equal(t, 2, r.Info().Channels)
	assert.Equal(t, 8000, r.Info().SampleRate)

	buf := make([]float32, 7)
	n, err := r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Equal(t, []float32{0.1, 0.1, 0.2, 0.2, 0.3, 0.3}, buf[:n])

	_, err = r.Read(buf)
	assert.ErrorIs(t, err, io.EOF)
}

func TestRemix_StereoToMono(t *testing.T) {
	src := &sliceSource{
		info: domain.SourceInfo{SampleRate: 8000, Channels: 2},
		data: []float32{0.1, -0.1, 0.2, -0.2},
	}
	r := Remix(src, 1)

	buf := make([]float32, 4)
	n, err := r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2}, buf[:n])

	require.NoError(t, r.Rewind())
	assert.Equal(t, 1, src.rewinds)
}
