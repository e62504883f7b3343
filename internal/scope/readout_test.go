package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/goscope/internal/domain"
)

var testLabel = LabelSize{Width: 82, Height: 12, Offset: 4}

func TestPlaceLabel(t *testing.T) {
	vp := domain.Viewport{Width: 200, Height: 100}

	l := PlaceLabel(Cursor{X: 10, Y: 10}, vp, testLabel)
	assert.Equal(t, Label{X: 14, Y: 14}, l)

	l = PlaceLabel(Cursor{X: 190, Y: 10}, vp, testLabel)
	assert.Equal(t, Label{X: 104, Y: 14, AlignRight: true}, l)

	l = PlaceLabel(Cursor{X: 10, Y: 95}, vp, testLabel)
	assert.Equal(t, Label{X: 14, Y: 79}, l)

	l = PlaceLabel(Cursor{X: 190, Y: 95}, vp, testLabel)
	assert.Equal(t, Label{X: 104, Y: 79, AlignRight: true}, l)
}

func TestNewReadout(t *testing.T) {
	m := NewMapper(domain.Viewport{Width: 200, Height: 100}, domain.SampleWindow{Max: 400}, 1)

	r, ok := NewReadout(m, Cursor{X: 100, Y: 25}, testLabel)
	require.True(t, ok)
	assert.Equal(t, 200, r.Sample)
	assert.InDelta(t, 0.5, r.Amplitude, 1e-9)
}

func TestNewReadout_Hidden(t *testing.T) {
	m := NewMapper(domain.Viewport{Width: 200, Height: 100}, domain.SampleWindow{Max: 400}, 1)

	_, ok := NewReadout(m, NoCursor, testLabel)
	assert.False(t, ok)

	_, ok = NewReadout(NewMapper(domain.Viewport{}, domain.SampleWindow{Max: 400}, 1), Cursor{X: 1, Y: 1}, testLabel)
	assert.False(t, ok)
}
