package scope

import (
	"sync"

	"github.com/tejashwikalptaru/goscope/internal/domain"
)

// Frame is one multi-channel snapshot: a row of samples per channel.
type Frame [][]float32

// NewFrame allocates a zeroed frame of channels rows of size samples.
func NewFrame(channels, size int) Frame {
	backing := make([]float32, channels*size)
	f := make(Frame, channels)
	for ch := range f {
		f[ch] = backing[ch*size : (ch+1)*size : (ch+1)*size]
	}
	return f
}

// Channels returns the number of rows.
func (f Frame) Channels() int {
	return len(f)
}

// Size returns the row length.
func (f Frame) Size() int {
	if len(f) == 0 {
		return 0
	}
	return len(f[0])
}

// FrameBuffer holds the latest frame written by the producer and a private
// snapshot for the consumer.
//
// The lock is held only while samples are copied in or out, never while a
// snapshot is rendered. The freshness flag is armed inside the same critical
// section as the copy, so a consumer that clears it has always copied the
// data that armed it.
type FrameBuffer struct {
	mu       sync.Mutex
	shared   Frame
	snapshot Frame
	released bool

	gate UpdateGate
}

// NewFrameBuffer allocates a buffer of channels x blockSize samples.
func NewFrameBuffer(channels, blockSize int) *FrameBuffer {
	return &FrameBuffer{
		shared:   NewFrame(channels, blockSize),
		snapshot: NewFrame(channels, blockSize),
	}
}

// Write copies one channel's samples into the shared frame and arms the
// freshness flag. Samples beyond the block size are ignored.
// It never allocates and only waits for an in-progress Consume copy.
func (b *FrameBuffer) Write(channel int, samples []float32) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.released {
		return domain.ErrScopeClosed
	}
	if channel < 0 || channel >= len(b.shared) {
		return domain.ErrInvalidChannel
	}

	copy(b.shared[channel], samples)
	b.gate.Arm()
	return nil
}

// WriteFrame fills every channel under one critical section using copyFn
// and arms the freshness flag once.
func (b *FrameBuffer) WriteFrame(copyFn func(dst []float32, channel int)) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.released {
		return domain.ErrScopeClosed
	}

	for ch, row := range b.shared {
		copyFn(row, ch)
	}
	b.gate.Arm()
	return nil
}

// Consume copies the shared frame into the snapshot if fresh data is
// available. It reports false without taking the lock when nothing new was
// written since the last successful Consume.
//
// The returned frame is owned by the buffer and stays valid until the next
// successful Consume.
func (b *FrameBuffer) Consume() (Frame, bool) {
	if !b.gate.Armed() {
		return nil, false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.released {
		return nil, false
	}

	for ch, row := range b.shared {
		copy(b.snapshot[ch], row)
	}
	b.gate.Clear()
	return b.snapshot, true
}

// Snapshot returns the last consumed frame without checking freshness.
// Only the consumer may call it.
func (b *FrameBuffer) Snapshot() Frame {
	return b.snapshot
}

// Fresh reports whether a write is waiting to be consumed.
func (b *FrameBuffer) Fresh() bool {
	return b.gate.Armed()
}

// Release drops both frames. Every later Write or Consume is a no-op.
func (b *FrameBuffer) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.released = true
	b.shared = nil
	b.gate.Clear()
}

// Channels returns the number of channels the buffer was sized for.
func (b *FrameBuffer) Channels() int {
	return len(b.snapshot)
}

// BlockSize returns the number of samples per channel.
func (b *FrameBuffer) BlockSize() int {
	return b.snapshot.Size()
}
