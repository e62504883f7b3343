// Package ports define interfaces for dependency inversion.
// These interfaces allow the scope core to remain independent of the audio pipeline.
package ports

import (
	"github.com/tejashwikalptaru/goscope/internal/domain"
)

// FrameProducer is the audio-side source of oscilloscope frames.
// It owns its own per-channel frame and notifies registered listeners each
// time a new frame is complete.
//
// The producer's channel count and block size are fixed once it has been
// configured; listeners size their buffers from them.
//
// Thread-safety: Implementations must be thread-safe. CopyFrame is called
// from inside FrameReady, on the producer's goroutine.
type FrameProducer interface {
	// NumChannels returns the number of channels in each frame.
	NumChannels() int

	// MaximumBlockSize returns the number of samples per channel in each frame.
	MaximumBlockSize() int

	// CopyFrame copies the current frame of channel into dst.
	// dst is at least MaximumBlockSize long. It must not allocate.
	CopyFrame(dst []float32, channel int)

	// AddListener registers l for frame-ready notifications.
	// The producer keeps a non-owning reference to l until RemoveListener.
	AddListener(l FrameListener) domain.SubscriptionID

	// RemoveListener removes a previously registered listener.
	// When RemoveListener returns, no notification to that listener is in
	// flight and none will start. Unknown IDs are a no-op.
	RemoveListener(id domain.SubscriptionID)
}

// FrameListener receives frame-ready notifications from a FrameProducer.
//
// FrameReady runs on the producer's real-time goroutine. Implementations
// must not block, must not allocate and must return quickly.
type FrameListener interface {
	FrameReady(producer FrameProducer)
}
