// Package domain contains core models and logic with no external dependencies.
// This package defines the fundamental entities of the GoScope oscilloscope.
package domain

import "fmt"

// DefaultAmplitude is the full-scale amplitude used until one is configured.
const DefaultAmplitude = 1.0

// AggregationMethod selects how samples that fall within the same pixel
// column are reduced to a single displayed value.
type AggregationMethod int

// Aggregation methods.
const (
	// AggregationNearest emits the first sample of each column.
	AggregationNearest AggregationMethod = iota

	// AggregationMaximum emits the sample with the largest magnitude, sign kept.
	AggregationMaximum

	// AggregationAverage emits the arithmetic mean of the column.
	AggregationAverage
)

// String returns the display name of the aggregation method.
func (m AggregationMethod) String() string {
	switch m {
	case AggregationNearest:
		return "nearest"
	case AggregationMaximum:
		return "maximum"
	case AggregationAverage:
		return "average"
	default:
		return fmt.Sprintf("aggregation(%d)", int(m))
	}
}

// Valid reports whether m is one of the known aggregation methods.
func (m AggregationMethod) Valid() bool {
	return m >= AggregationNearest && m <= AggregationAverage
}

// ParseAggregationMethod converts a display name back into a method.
func ParseAggregationMethod(name string) (AggregationMethod, error) {
	for _, m := range AggregationMethods() {
		if m.String() == name {
			return m, nil
		}
	}
	return AggregationNearest, NewValidationError("aggregation", name, "unknown aggregation method")
}

// AggregationMethods returns every aggregation method in display order.
func AggregationMethods() []AggregationMethod {
	return []AggregationMethod{AggregationNearest, AggregationMaximum, AggregationAverage}
}

// Viewport is the drawable area in device pixels.
type Viewport struct {
	Width  int
	Height int
}

// Empty reports whether the viewport has no drawable area.
func (v Viewport) Empty() bool {
	return v.Width <= 0 || v.Height <= 0
}

// SampleWindow is the visible range of the frame along the time axis,
// in samples. Min is inclusive and Max is exclusive.
type SampleWindow struct {
	Min int
	Max int
}

// Span returns the number of samples inside the window.
func (w SampleWindow) Span() int {
	return w.Max - w.Min
}

// ScopeSettings is the user-configurable part of the oscilloscope state.
// It is what gets persisted between sessions.
type ScopeSettings struct {
	// Amplitude is the full-scale value of the y-axis (always > 0)
	Amplitude float64

	// Window is the visible sample range
	Window SampleWindow

	// Aggregation is the sub-pixel aggregation method
	Aggregation AggregationMethod
}

// DefaultScopeSettings returns the settings of a freshly created scope.
// A zero Window.Max means "use the producer's maximum block size".
func DefaultScopeSettings() ScopeSettings {
	return ScopeSettings{
		Amplitude:   DefaultAmplitude,
		Window:      SampleWindow{Min: 0, Max: 0},
		Aggregation: AggregationNearest,
	}
}

// SourceInfo describes the producer feeding the scope.
type SourceInfo struct {
	// Name is a human readable title (track title, file name or "Test Tone")
	Name string

	// Artist is the performing artist, if known
	Artist string

	// Path is the file the source reads from (empty for generated sources)
	Path string

	// SampleRate is the rate of the source in Hz
	SampleRate int

	// Channels is the number of channels delivered per frame
	Channels int

	// BlockSize is the number of samples per channel in one frame
	BlockSize int
}
