// Package scope implements the oscilloscope core: the shared frame buffer,
// the freshness gate, coordinate mapping, sub-pixel aggregation and the
// per-channel trace renderer.
//
// Nothing in this package knows about windows, colours or fonts. A host
// widget feeds it a viewport and configuration, a producer feeds it frames,
// and a periodic poll turns the latest frame into polylines.
package scope

import (
	"math"

	"github.com/tejashwikalptaru/goscope/internal/domain"
)

// Mapper converts between the sample domain (index, amplitude) and the pixel
// domain (x, y). Its ratios are derived once in NewMapper; a Mapper is an
// immutable value, so a copy taken under a lock stays consistent for the
// whole render pass.
type Mapper struct {
	viewport  domain.Viewport
	window    domain.SampleWindow
	amplitude float64

	xRatio    float64
	xRatioInv float64
	yRatio    float64
	yRatioInv float64

	degenerate bool
}

// NewMapper derives the ratios for the given viewport, window and amplitude.
//
// A zero viewport dimension, an empty window or a non-positive amplitude
// leaves the affected ratios at 0 and marks the mapper degenerate, so no
// conversion ever yields NaN or Inf.
func NewMapper(viewport domain.Viewport, window domain.SampleWindow, amplitude float64) Mapper {
	m := Mapper{
		viewport:  viewport,
		window:    window,
		amplitude: amplitude,
	}

	span := window.Span()
	if span > 0 && viewport.Width > 0 {
		m.xRatio = float64(viewport.Width) / float64(span)
		m.xRatioInv = 1 / m.xRatio
	} else {
		m.degenerate = true
	}

	if validAmplitude(amplitude) && viewport.Height > 0 {
		m.yRatio = float64(viewport.Height) / (amplitude * 2)
		m.yRatioInv = 1 / m.yRatio
	} else {
		m.degenerate = true
	}

	return m
}

// validAmplitude reports whether a is usable as a full-scale value.
func validAmplitude(a float64) bool {
	return a > 0 && !math.IsInf(a, 0) && !math.IsNaN(a)
}

// PixelX returns the x position of sample index i.
func (m Mapper) PixelX(i int) float64 {
	return float64(i-m.window.Min) * m.xRatio
}

// SampleIndex returns the sample index under pixel column px.
func (m Mapper) SampleIndex(px float64) int {
	return int(px*m.xRatioInv) + m.window.Min
}

// PixelY returns the y position of amplitude a. Values beyond full scale
// are clamped to the canvas edge.
func (m Mapper) PixelY(a float64) float64 {
	clamped := math.Max(-m.amplitude, math.Min(m.amplitude, a))
	return (m.amplitude - clamped) * m.yRatio
}

// Amplitude returns the amplitude at pixel row py.
func (m Mapper) Amplitude(py float64) float64 {
	return m.amplitude - py*m.yRatioInv
}

// Ratios returns the derived x and y ratios.
func (m Mapper) Ratios() (xRatio, yRatio float64) {
	return m.xRatio, m.yRatio
}

// Degenerate reports whether the mapper has no drawable area.
func (m Mapper) Degenerate() bool {
	return m.degenerate
}

// Viewport returns the viewport the mapper was built for.
func (m Mapper) Viewport() domain.Viewport {
	return m.viewport
}

// Window returns the sample window the mapper was built for.
func (m Mapper) Window() domain.SampleWindow {
	return m.window
}

// FullScale returns the amplitude scale the mapper was built for.
func (m Mapper) FullScale() float64 {
	return m.amplitude
}
