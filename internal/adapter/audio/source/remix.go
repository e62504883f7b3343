package source

import "github.com/tejashwikalptaru/goscope/internal/domain"

// remixSource maps a source onto a different channel count. Output channel
// n plays input channel n % inChannels, so mono is copied to every channel
// and surplus input channels are dropped.
type remixSource struct {
	Source
	in      int
	out     int
	scratch []float32
}

// Remix returns src with its channel count changed to channels.
// src is returned unchanged when it already has that many channels.
func Remix(src Source, channels int) Source {
	in := src.Info().Channels
	if channels <= 0 || in == channels {
		return src
	}
	return &remixSource{Source: src, in: in, out: channels}
}

// Info implements Source.
func (r *remixSource) Info() domain.SourceInfo {
	info := r.Source.Info()
	info.Channels = r.out
	return info
}

// Read implements Source. It writes whole sample frames only.
func (r *remixSource) Read(dst []float32) (int, error) {
	frames := len(dst) / r.out
	if need := frames * r.in; cap(r.scratch) < need {
		r.scratch = make([]float32, need)
	}
	src := r.scratch[:frames*r.in]

	n, err := r.Source.Read(src)
	got := n / r.in
	for i := range got {
		for ch := range r.out {
			dst[i*r.out+ch] = src[i*r.in+ch%r.in]
		}
	}
	return got * r.out, err
}
