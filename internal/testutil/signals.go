package testutil

import "math"

// Sine returns n samples of a sine with the given number of cycles and peak.
func Sine(n int, cycles, peak float64) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(peak * math.Sin(2*math.Pi*cycles*float64(i)/float64(n)))
	}
	return out
}

// Ramp returns n samples rising linearly from -1 to just below 1.
func Ramp(n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(2*float64(i)/float64(n) - 1)
	}
	return out
}

// Interleave packs equal-length channel rows into one interleaved block.
// Rows shorter than the first are padded with silence.
func Interleave(rows ...[]float32) []float32 {
	if len(rows) == 0 {
		return nil
	}
	n := len(rows[0])
	out := make([]float32, n*len(rows))
	for ch, row := range rows {
		for i := 0; i < n && i < len(row); i++ {
			out[i*len(rows)+ch] = row[i]
		}
	}
	return out
}
