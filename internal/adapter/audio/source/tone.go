package source

import (
	"fmt"
	"math"

	"github.com/tejashwikalptaru/goscope/internal/domain"
)

// ToneName is the Info name of generated sources.
const ToneName = "Test Tone"

// DefaultToneFrequencies are used when NewTone gets no frequencies.
// Channel n plays DefaultToneFrequencies[n % len].
var DefaultToneFrequencies = []float64{220, 330, 440, 550}

// ToneSource generates one sine per channel. It never runs out.
type ToneSource struct {
	info  domain.SourceInfo
	gain  float64
	steps []float64 // phase increment per sample, per channel
	phase []float64
}

// NewTone creates a tone source at sampleRate with the given channel count.
// Channel n uses freqs[n % len(freqs)].
func NewTone(sampleRate, channels int, gain float64, freqs ...float64) (*ToneSource, error) {
	if sampleRate <= 0 || channels <= 0 {
		return nil, fmt.Errorf("tone %d Hz x %d: %w", sampleRate, channels, domain.ErrInvalidFormat)
	}
	if len(freqs) == 0 {
		freqs = DefaultToneFrequencies
	}

	t := &ToneSource{
		info: domain.SourceInfo{
			Name:       ToneName,
			SampleRate: sampleRate,
			Channels:   channels,
		},
		gain:  gain,
		steps: make([]float64, channels),
		phase: make([]float64, channels),
	}
	for ch := range t.steps {
		t.steps[ch] = 2 * math.Pi * freqs[ch%len(freqs)] / float64(sampleRate)
	}
	return t, nil
}

// Info implements Source.
func (t *ToneSource) Info() domain.SourceInfo {
	return t.info
}

// Read implements Source. It writes whole sample frames only.
func (t *ToneSource) Read(dst []float32) (int, error) {
	channels := len(t.steps)
	frames := len(dst) / channels

	for i := range frames {
		for ch := range channels {
			dst[i*channels+ch] = float32(t.gain * math.Sin(t.phase[ch]))
			t.phase[ch] = math.Mod(t.phase[ch]+t.steps[ch], 2*math.Pi)
		}
	}
	return frames * channels, nil
}

// Rewind implements Source.
func (t *ToneSource) Rewind() error {
	clear(t.phase)
	return nil
}

// Close implements Source.
func (t *ToneSource) Close() error {
	return nil
}
