package scope

import (
	"math"

	"github.com/tejashwikalptaru/goscope/internal/domain"
)

// Reducer collapses a run of samples that share one pixel column into a
// single displayed value. run is never empty.
type Reducer interface {
	Reduce(run []float32) float32
}

// ReducerFunc adapts a plain function to the Reducer interface.
type ReducerFunc func(run []float32) float32

// Reduce calls f(run).
func (f ReducerFunc) Reduce(run []float32) float32 {
	return f(run)
}

// Nearest returns the first sample of the run.
// It is the cheapest reducer and aliases high-frequency content.
func Nearest() Reducer {
	return ReducerFunc(func(run []float32) float32 {
		return run[0]
	})
}

// Maximum returns the sample with the largest magnitude, keeping its sign.
// Ties keep the earliest sample.
func Maximum() Reducer {
	return ReducerFunc(func(run []float32) float32 {
		peak := run[0]
		for _, v := range run[1:] {
			if math.Abs(float64(v)) > math.Abs(float64(peak)) {
				peak = v
			}
		}
		return peak
	})
}

// Average returns the arithmetic mean of the run.
func Average() Reducer {
	return ReducerFunc(func(run []float32) float32 {
		var sum float64
		for _, v := range run {
			sum += float64(v)
		}
		return float32(sum / float64(len(run)))
	})
}

var reducers = [...]Reducer{
	domain.AggregationNearest: Nearest(),
	domain.AggregationMaximum: Maximum(),
	domain.AggregationAverage: Average(),
}

// ReducerFor returns the reducer implementing method.
// Unknown methods fall back to Nearest.
func ReducerFor(method domain.AggregationMethod) Reducer {
	if !method.Valid() {
		return reducers[domain.AggregationNearest]
	}
	return reducers[method]
}

// Point is one polyline vertex in pixel coordinates.
type Point struct {
	X float32
	Y float32
}

// Aggregator turns one channel row into polyline vertices, one per occupied
// pixel column.
type Aggregator struct{}

// Append scans the samples after the window start and appends one vertex
// per pixel column to dst.
//
// A run is the contiguous indices whose x falls before the next integer pixel
// boundary of the run's first sample. Each run becomes a vertex at the first
// sample's x with the reduced y, so x strictly increases and a window
// spanning w pixels yields at most w vertices whatever the sample count.
//
// row must cover the mapper's window. dst is expected to have capacity for
// the result; Append only grows it when it does not.
func (Aggregator) Append(dst []Point, row []float32, m Mapper, r Reducer) []Point {
	window := m.Window()
	limit := min(window.Max, len(row))

	i := window.Min + 1
	for i < limit {
		start := i
		x := m.PixelX(start)
		boundary := math.Floor(x) + 1

		i++
		for i < limit && m.PixelX(i) < boundary {
			i++
		}

		y := r.Reduce(row[start:i])
		dst = append(dst, Point{X: float32(x), Y: float32(m.PixelY(float64(y)))})
	}

	return dst
}
