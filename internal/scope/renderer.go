package scope

import (
	"github.com/tejashwikalptaru/goscope/internal/domain"
)

// Trace is the polyline for one channel.
// Channel is the stable identity the presentation layer keys colours on.
type Trace struct {
	Channel int
	Points  []Point
}

// Renderer builds one Trace per channel from a frame snapshot.
//
// Vertex storage is owned by the Renderer and reused across passes. It is
// sized to width+1 on Reserve and never grows during a pass, so a render
// after the first allocates nothing.
type Renderer struct {
	traces []Trace
	agg    Aggregator
}

// NewRenderer creates a renderer for channels traces with room for width+1
// vertices each.
func NewRenderer(channels, width int) *Renderer {
	r := &Renderer{traces: make([]Trace, channels)}
	for ch := range r.traces {
		r.traces[ch].Channel = ch
	}
	r.Reserve(width)
	return r
}

// Reserve makes sure every trace can hold width+1 vertices.
// Call it when the viewport changes, never from the render pass.
func (r *Renderer) Reserve(width int) {
	need := max(width, 0) + 1
	for ch := range r.traces {
		if cap(r.traces[ch].Points) < need {
			r.traces[ch].Points = make([]Point, 0, need)
		}
	}
}

// Render rebuilds every trace from frame using the given mapper and method.
// Each trace starts at the first windowed sample and continues with the
// aggregated vertices. A degenerate mapper yields empty traces.
//
// The returned slice and its points are owned by the Renderer and are only
// valid until the next call to Render or Reserve.
func (r *Renderer) Render(frame Frame, m Mapper, method domain.AggregationMethod) []Trace {
	reducer := ReducerFor(method)
	window := m.Window()

	for ch := range r.traces {
		points := r.traces[ch].Points[:0]

		if !m.Degenerate() && ch < len(frame) && window.Min < len(frame[ch]) {
			row := frame[ch]
			points = append(points, Point{
				X: float32(m.PixelX(window.Min)),
				Y: float32(m.PixelY(float64(row[window.Min]))),
			})
			points = r.agg.Append(points, row, m, reducer)
		}

		r.traces[ch].Points = points
	}

	return r.traces
}

// Traces returns the result of the last Render.
func (r *Renderer) Traces() []Trace {
	return r.traces
}
