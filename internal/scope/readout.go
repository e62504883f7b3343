package scope

import "github.com/tejashwikalptaru/goscope/internal/domain"

// Cursor is the pointer position in viewport pixels.
// Negative coordinates mean the pointer is outside the scope.
type Cursor struct {
	X int
	Y int
}

// NoCursor is the sentinel for "pointer outside".
var NoCursor = Cursor{X: -1, Y: -1}

// Inside reports whether the cursor is over the viewport.
func (c Cursor) Inside() bool {
	return c.X >= 0 && c.Y >= 0
}

// LabelSize is the box the readout text is drawn in, with the gap kept
// between the pointer and the box.
type LabelSize struct {
	Width  int
	Height int
	Offset int
}

// Label is where the readout box goes.
type Label struct {
	X          int
	Y          int
	AlignRight bool
}

// Readout is the value under the cursor.
type Readout struct {
	Sample    int
	Amplitude float64
	Label     Label
}

// PlaceLabel positions a label of the given size next to c. The box sits
// below and to the right of the pointer and flips to the left (right
// aligned) or above when it would cross the viewport edge.
func PlaceLabel(c Cursor, viewport domain.Viewport, size LabelSize) Label {
	l := Label{X: c.X + size.Offset, Y: c.Y + size.Offset}

	if l.X+size.Width > viewport.Width {
		l.X = c.X - size.Offset - size.Width
		l.AlignRight = true
	}
	if l.Y+size.Height > viewport.Height {
		l.Y = c.Y - size.Offset - size.Height
	}

	return l
}

// NewReadout returns the sample index and amplitude under c.
// It reports false for an outside cursor or a degenerate mapper.
func NewReadout(m Mapper, c Cursor, size LabelSize) (Readout, bool) {
	if !c.Inside() || m.Degenerate() {
		return Readout{}, false
	}

	return Readout{
		Sample:    m.SampleIndex(float64(c.X)),
		Amplitude: m.Amplitude(float64(c.Y)),
		Label:     PlaceLabel(c, m.Viewport(), size),
	}, true
}
