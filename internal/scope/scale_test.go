package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/goscope/internal/domain"
)

func TestAmplitudeDivisions(t *testing.T) {
	assert.Equal(t, 8, AmplitudeDivisions(600, 40))
	assert.Equal(t, 4, AmplitudeDivisions(200, 40))
	assert.Equal(t, 2, AmplitudeDivisions(100, 40))
	assert.Equal(t, 2, AmplitudeDivisions(0, 40))
	assert.Equal(t, 8, AmplitudeDivisions(600, 0), "zero spacing uses the default")
}

func TestTimeDivisions(t *testing.T) {
	assert.Equal(t, 16, TimeDivisions(800, 40))
	assert.Equal(t, 8, TimeDivisions(400, 40))
	assert.Equal(t, 4, TimeDivisions(200, 40))
	assert.Equal(t, 2, TimeDivisions(100, 40))
	assert.Equal(t, 0, TimeDivisions(50, 40))
}

func TestNewScale(t *testing.T) {
	m := NewMapper(domain.Viewport{Width: 800, Height: 600}, domain.SampleWindow{Min: 0, Max: 1600}, 1)

	s := NewScale(m, DefaultTickSpacing)

	require.Len(t, s.Amplitude, 8)
	assert.InDelta(t, 0.0, s.Amplitude[0].Pixel, 1e-9)
	assert.InDelta(t, 1.0, s.Amplitude[0].Value, 1e-9)
	assert.InDelta(t, 300.0, s.Amplitude[4].Pixel, 1e-9)
	assert.InDelta(t, 0.0, s.Amplitude[4].Value, 1e-9)

	require.Len(t, s.Time, 16)
	assert.InDelta(t, 0.0, s.Time[0].Value, 1e-9)
	assert.InDelta(t, 50.0, s.Time[1].Pixel, 1e-9)
	assert.InDelta(t, 100.0, s.Time[1].Value, 1e-9)
}

func TestNewScale_AmplitudeFollowsFullScale(t *testing.T) {
	m := NewMapper(domain.Viewport{Width: 300, Height: 300}, domain.SampleWindow{Max: 100}, 0.3)
	require.Equal(t, 0.3, m.FullScale())

	s := NewScale(m, DefaultTickSpacing)

	require.Len(t, s.Amplitude, 4)
	assert.Equal(t, 0.3, s.Amplitude[0].Value)
	assert.InDelta(t, 0.15, s.Amplitude[1].Value, 1e-12)
	assert.Equal(t, 0.0, s.Amplitude[2].Value)
	for _, tick := range s.Amplitude {
		assert.InDelta(t, m.Amplitude(tick.Pixel), tick.Value, 1e-9)
	}
}

func TestNewScale_Degenerate(t *testing.T) {
	s := NewScale(NewMapper(domain.Viewport{}, domain.SampleWindow{Max: 10}, 1), DefaultTickSpacing)
	assert.Empty(t, s.Amplitude)
	assert.Empty(t, s.Time)
}
