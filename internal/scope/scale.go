package scope

// DefaultTickSpacing is the minimum distance in pixels between two axis ticks.
const DefaultTickSpacing = 40

// Tick is one axis division: its pixel offset along the axis and the value
// the axis shows there (amplitude for y, sample index for x).
type Tick struct {
	Pixel float64
	Value float64
}

// Scale holds the background ticks for one viewport and configuration.
type Scale struct {
	Amplitude []Tick
	Time      []Tick
}

// AmplitudeDivisions returns how many amplitude divisions fit in height:
// eighths, quarters or halves.
func AmplitudeDivisions(height, spacing int) int {
	if spacing <= 0 {
		spacing = DefaultTickSpacing
	}
	switch fit := height / spacing; {
	case fit >= 8:
		return 8
	case fit >= 4:
		return 4
	default:
		return 2
	}
}

// TimeDivisions returns how many time divisions fit in width, up to 16.
// A viewport too narrow for two divisions gets none.
func TimeDivisions(width, spacing int) int {
	if spacing <= 0 {
		spacing = DefaultTickSpacing
	}
	fit := width / spacing
	for _, n := range []int{16, 8, 4, 2} {
		if fit >= n {
			return n
		}
	}
	return 0
}

// NewScale computes the amplitude and time ticks for m.
// A degenerate mapper has no ticks.
func NewScale(m Mapper, spacing int) Scale {
	if m.Degenerate() {
		return Scale{}
	}

	vp := m.Viewport()

	// values step down from +full scale by 2*fullScale/n
	n := AmplitudeDivisions(vp.Height, spacing)
	fullScale := m.FullScale()
	amp := make([]Tick, n)
	for t := range amp {
		y := float64(vp.Height) / float64(n) * float64(t)
		amp[t] = Tick{Pixel: y, Value: fullScale * (1 - 2*float64(t)/float64(n))}
	}

	n = TimeDivisions(vp.Width, spacing)
	tm := make([]Tick, n)
	for t := range tm {
		x := float64(vp.Width) / float64(n) * float64(t)
		tm[t] = Tick{Pixel: x, Value: float64(m.SampleIndex(x))}
	}

	return Scale{Amplitude: amp, Time: tm}
}
