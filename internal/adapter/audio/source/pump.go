package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tejashwikalptaru/goscope/internal/domain"
	"github.com/tejashwikalptaru/goscope/internal/ports"
)

// Sink receives interleaved blocks. probe.Probe implements it.
type Sink interface {
	NumChannels() int
	MaximumBlockSize() int
	DeliverInterleaved(samples []float32)
}

// PumpConfig controls pacing and looping.
type PumpConfig struct {
	// Interval between blocks. Zero means real time: blockSize / sampleRate.
	Interval time.Duration

	// Loop rewinds the source at end of stream instead of stopping.
	Loop bool
}

// Pump reads blocks from a Source and delivers them to a Sink on its own
// goroutine, one block per tick, until the context is cancelled or the
// source ends.
type Pump struct {
	logger *slog.Logger
	bus    ports.EventBus
	src    Source
	sink   Sink
	cfg    PumpConfig

	block    []float32
	interval time.Duration
	info     domain.SourceInfo

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool

	frames atomic.Int64
}

// NewPump wires src to sink. The sink's channel count must match the source.
func NewPump(logger *slog.Logger, bus ports.EventBus, src Source, sink Sink, cfg PumpConfig) (*Pump, error) {
	info := src.Info()
	if info.Channels != sink.NumChannels() {
		return nil, fmt.Errorf("pump: source has %d channels, sink %d: %w",
			info.Channels, sink.NumChannels(), domain.ErrInvalidFormat)
	}
	if info.SampleRate <= 0 {
		return nil, fmt.Errorf("pump: sample rate %d: %w", info.SampleRate, domain.ErrInvalidFormat)
	}

	blockSize := sink.MaximumBlockSize()
	info.BlockSize = blockSize

	interval := cfg.Interval
	if interval <= 0 {
		interval = RealTimeInterval(info.SampleRate, blockSize)
	}

	return &Pump{
		logger:   logger.With(slog.String("component", "pump")),
		bus:      bus,
		src:      src,
		sink:     sink,
		cfg:      cfg,
		block:    make([]float32, blockSize*info.Channels),
		interval: interval,
		info:     info,
	}, nil
}

// RealTimeInterval is how long blockSize samples last at sampleRate.
func RealTimeInterval(sampleRate, blockSize int) time.Duration {
	if sampleRate <= 0 {
		return time.Second
	}
	return time.Duration(blockSize) * time.Second / time.Duration(sampleRate)
}

// Info returns the source description with the block size filled in.
func (p *Pump) Info() domain.SourceInfo {
	return p.info
}

// Interval returns the time between two blocks.
func (p *Pump) Interval() time.Duration {
	return p.interval
}

// Frames returns the number of blocks delivered so far.
func (p *Pump) Frames() int {
	return int(p.frames.Load())
}

// Running reports whether the pump goroutine is active.
func (p *Pump) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Start launches the pump goroutine. It returns domain.ErrAlreadyRunning if
// the pump is running.
func (p *Pump) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return domain.ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.running = true

	go p.run(ctx, p.done)
	return nil
}

// Stop cancels the pump and waits for its goroutine to exit, including one
// that already ended on its own and is still publishing its stop event.
// Stopping a pump that was never started is a no-op.
func (p *Pump) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// Wait blocks until the pump goroutine exits on its own or is stopped.
func (p *Pump) Wait() {
	p.mu.Lock()
	done := p.done
	p.mu.Unlock()

	if done != nil {
		<-done
	}
}

func (p *Pump) run(ctx context.Context, done chan struct{}) {
	var runErr error
	defer func() {
		p.mu.Lock()
		p.running = false
		if p.cancel != nil {
			p.cancel()
			p.cancel = nil
		}
		p.mu.Unlock()

		p.logger.Info("source stopped",
			slog.String("source", p.info.Name),
			slog.Int("frames", p.Frames()),
			slog.Any("error", runErr))
		p.bus.Publish(domain.NewSourceStoppedEvent(p.info, p.Frames(), runErr))
		close(done)
	}()

	p.logger.Info("source started",
		slog.String("source", p.info.Name),
		slog.Int("sample_rate", p.info.SampleRate),
		slog.Int("channels", p.info.Channels),
		slog.Int("block_size", p.info.BlockSize),
		slog.Duration("interval", p.interval))
	p.bus.Publish(domain.NewSourceStartedEvent(p.info))

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		more, err := p.step()
		if err != nil {
			runErr = err
			p.logger.Error("source read failed", slog.Any("error", err))
			return
		}
		if !more {
			return
		}
	}
}

// step reads and delivers one block. It reports false at end of stream.
func (p *Pump) step() (bool, error) {
	n, err := p.fill()
	if n > 0 {
		clear(p.block[n:])
		p.sink.DeliverInterleaved(p.block)
		p.frames.Add(1)
	}

	switch {
	case errors.Is(err, io.EOF):
		if !p.cfg.Loop {
			return false, nil
		}
		p.logger.Debug("source looped", slog.String("source", p.info.Name))
		if err := p.src.Rewind(); err != nil {
			return false, fmt.Errorf("rewind: %w", err)
		}
		return true, nil
	case err != nil:
		return false, err
	}
	return true, nil
}

// fill reads until the block is full or the source fails.
func (p *Pump) fill() (int, error) {
	total := 0
	for total < len(p.block) {
		n, err := p.src.Read(p.block[total:])
		total += n
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, io.ErrNoProgress
		}
	}
	return total, nil
}
