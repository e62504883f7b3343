// Package probe provides the FrameProducer that sits between an audio
// source and the oscilloscope. A probe owns one block of samples per
// channel, fills it from the source and notifies its listeners.
package probe

import (
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/tejashwikalptaru/goscope/internal/domain"
	"github.com/tejashwikalptaru/goscope/internal/ports"
)

// Probe is a fixed-format ports.FrameProducer.
//
// Deliver and DeliverInterleaved are meant to be called from one producer
// goroutine; concurrent calls are serialised. Listeners are notified on that
// goroutine and may only call CopyFrame from inside FrameReady.
type Probe struct {
	channels  int
	blockSize int

	// deliverMu serialises deliveries and guards block
	deliverMu sync.Mutex
	block     [][]float32

	// listenersMu is read-held for the whole notification, so RemoveListener
	// returns only once no FrameReady call is in flight.
	listenersMu sync.RWMutex
	listeners   []registration
	nextID      uint64

	frames atomic.Int64
}

type registration struct {
	id       domain.SubscriptionID
	listener ports.FrameListener
}

// New creates a probe for channels channels of blockSize samples each.
func New(channels, blockSize int) (*Probe, error) {
	if channels <= 0 || blockSize <= 0 {
		return nil, fmt.Errorf("probe %dx%d: %w", channels, blockSize, domain.ErrInvalidFormat)
	}

	block := make([][]float32, channels)
	for ch := range block {
		block[ch] = make([]float32, blockSize)
	}

	return &Probe{
		channels:  channels,
		blockSize: blockSize,
		block:     block,
	}, nil
}

// NumChannels implements ports.FrameProducer.
func (p *Probe) NumChannels() int {
	return p.channels
}

// MaximumBlockSize implements ports.FrameProducer.
func (p *Probe) MaximumBlockSize() int {
	return p.blockSize
}

// CopyFrame implements ports.FrameProducer. It must only be called from a
// listener's FrameReady.
func (p *Probe) CopyFrame(dst []float32, channel int) {
	if channel < 0 || channel >= p.channels {
		return
	}
	copy(dst, p.block[channel])
}

// AddListener implements ports.FrameProducer.
func (p *Probe) AddListener(l ports.FrameListener) domain.SubscriptionID {
	p.listenersMu.Lock()
	defer p.listenersMu.Unlock()

	p.nextID++
	id := domain.SubscriptionID(fmt.Sprintf("probe-%d", p.nextID))
	p.listeners = append(p.listeners, registration{id: id, listener: l})
	return id
}

// RemoveListener implements ports.FrameProducer. It blocks until any
// notification in progress has finished, so it must not be called from
// inside FrameReady.
func (p *Probe) RemoveListener(id domain.SubscriptionID) {
	p.listenersMu.Lock()
	defer p.listenersMu.Unlock()

	p.listeners = slices.DeleteFunc(p.listeners, func(r registration) bool {
		return r.id == id
	})
}

// ListenerCount returns the number of registered listeners.
func (p *Probe) ListenerCount() int {
	p.listenersMu.RLock()
	defer p.listenersMu.RUnlock()
	return len(p.listeners)
}

// Deliver copies one row per channel into the probe's block and notifies
// every listener. Rows shorter than the block size leave the tail silent;
// extra samples are dropped.
func (p *Probe) Deliver(rows [][]float32) error {
	if len(rows) != p.channels {
		return fmt.Errorf("deliver %d rows to %d channels: %w", len(rows), p.channels, domain.ErrInvalidChannel)
	}

	p.deliverMu.Lock()
	defer p.deliverMu.Unlock()

	for ch, row := range rows {
		n := copy(p.block[ch], row)
		clear(p.block[ch][n:])
	}
	p.notify()
	return nil
}

// DeliverInterleaved splits interleaved samples (L R L R ...) across the
// channels and notifies every listener. A trailing partial sample frame is
// ignored.
func (p *Probe) DeliverInterleaved(samples []float32) {
	p.deliverMu.Lock()
	defer p.deliverMu.Unlock()

	n := min(len(samples)/p.channels, p.blockSize)
	for ch := range p.block {
		row := p.block[ch]
		for i := range n {
			row[i] = samples[i*p.channels+ch]
		}
		clear(row[n:])
	}
	p.notify()
}

// notify must be called with deliverMu held.
func (p *Probe) notify() {
	p.frames.Add(1)

	p.listenersMu.RLock()
	defer p.listenersMu.RUnlock()

	for _, r := range p.listeners {
		r.listener.FrameReady(p)
	}
}

// Frames returns the number of frames delivered so far.
func (p *Probe) Frames() int64 {
	return p.frames.Load()
}

var _ ports.FrameProducer = (*Probe)(nil)
