package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregationMethod_ParseRoundTrip(t *testing.T) {
	for _, m := range AggregationMethods() {
		t.Run(m.String(), func(t *testing.T) {
			assert.True(t, m.Valid())
			parsed, err := ParseAggregationMethod(m.String())
			require.NoError(t, err)
			assert.Equal(t, m, parsed)
		})
	}
}

func TestAggregationMethod_Unknown(t *testing.T) {
	assert.False(t, AggregationMethod(-1).Valid())
	assert.Equal(t, "aggregation(7)", AggregationMethod(7).String())

	_, err := ParseAggregationMethod("median")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "aggregation", verr.Field)
}

func TestViewportAndWindow(t *testing.T) {
	assert.True(t, Viewport{}.Empty())
	assert.True(t, Viewport{Width: 10}.Empty())
	assert.False(t, Viewport{Width: 10, Height: 1}.Empty())

	assert.Equal(t, 256, SampleWindow{Min: 256, Max: 512}.Span())
}

func TestDefaultScopeSettings(t *testing.T) {
	s := DefaultScopeSettings()
	assert.InDelta(t, 1.0, s.Amplitude, 1e-12)
	assert.Zero(t, s.Window.Max)
	assert.Equal(t, AggregationNearest, s.Aggregation)
}

func TestValidationErrors_MatchSentinels(t *testing.T) {
	assert.True(t, errors.Is(NewAmplitudeError(-1), ErrInvalidAmplitude))
	assert.True(t, errors.Is(NewWindowError(SampleWindow{Min: 5, Max: 2}), ErrInvalidWindow))
	assert.Contains(t, NewWindowError(SampleWindow{Min: 5, Max: 2}).Error(), "[5, 2)")
}

func TestSourceError(t *testing.T) {
	err := NewSourceError("open", "/tmp/a.wav", "no such file", ErrFileNotFound)
	assert.ErrorIs(t, err, ErrFileNotFound)
	assert.Equal(t, "source open failed for '/tmp/a.wav': no such file", err.Error())

	err = NewSourceError("decode", "", "bad header", nil)
	assert.Equal(t, "source decode failed: bad header", err.Error())
}
