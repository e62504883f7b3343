package scope

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/tejashwikalptaru/goscope/internal/domain"
	"github.com/tejashwikalptaru/goscope/internal/ports"
)

// PollResult is the outcome of one render poll.
type PollResult int

// Poll results.
const (
	// PollNotReady means no producer has been assigned and prepared yet.
	PollNotReady PollResult = iota

	// PollIdle means nothing changed since the last render.
	PollIdle

	// PollRendered means the traces were rebuilt.
	PollRendered
)

// String returns a short name for the result, used in logs.
func (r PollResult) String() string {
	switch r {
	case PollNotReady:
		return "not_ready"
	case PollIdle:
		return "idle"
	case PollRendered:
		return "rendered"
	default:
		return "unknown"
	}
}

// Config holds the presentation constants of an oscilloscope.
type Config struct {
	// TickSpacing is the minimum pixel distance between axis ticks
	TickSpacing int

	// Label is the size of the cursor readout box
	Label LabelSize
}

// DefaultConfig returns the default oscilloscope configuration.
func DefaultConfig() Config {
	return Config{
		TickSpacing: DefaultTickSpacing,
		Label:       LabelSize{Width: 82, Height: 12, Offset: 4},
	}
}

// Oscilloscope is the core of the scope widget. It listens to a
// FrameProducer, keeps the latest frame and renders it on demand.
//
// Three goroutines meet here: the producer calls FrameReady, the render
// poll calls Poll, and the UI calls the setters and VisitTraces. The
// producer only ever contends for the frame buffer lock, and only for the
// length of a copy.
type Oscilloscope struct {
	cfg Config

	// Lifecycle. Guarded by mu; producer and copyFrame are written only
	// while no listener is registered.
	mu        sync.Mutex
	producer  ports.FrameProducer
	copyFrame func(dst []float32, channel int)
	subID     domain.SubscriptionID
	closed    bool

	buffer atomic.Pointer[FrameBuffer]

	// Configuration and derived ratios. Guarded by cfgMu.
	cfgMu     sync.Mutex
	settings  domain.ScopeSettings
	viewport  domain.Viewport
	blockSize int
	mapper    Mapper
	cursor    Cursor

	// dirty is set when configuration changed since the last render.
	dirty atomic.Bool

	renderMu sync.RWMutex
	renderer *Renderer
}

// NewOscilloscope creates an unassigned oscilloscope with default settings.
func NewOscilloscope(cfg Config) *Oscilloscope {
	if cfg.TickSpacing <= 0 {
		cfg.TickSpacing = DefaultTickSpacing
	}

	o := &Oscilloscope{
		cfg:      cfg,
		settings: domain.DefaultScopeSettings(),
		cursor:   NoCursor,
		renderer: NewRenderer(0, 0),
	}
	o.recalculateRatios()
	return o
}

// Assign attaches the oscilloscope to producer. The producer must already
// have its final channel count and block size. An unset window maximum
// defaults to the producer's block size.
func (o *Oscilloscope) Assign(producer ports.FrameProducer) error {
	if producer == nil {
		return domain.ErrNoProducer
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return domain.ErrScopeClosed
	}
	if o.producer != nil {
		return domain.ErrAlreadyAssigned
	}

	o.producer = producer
	o.copyFrame = producer.CopyFrame

	o.cfgMu.Lock()
	if o.settings.Window.Max == 0 {
		o.settings.Window.Max = producer.MaximumBlockSize()
	}
	o.cfgMu.Unlock()

	if err := o.prepareLocked(); err != nil {
		o.producer = nil
		o.copyFrame = nil
		return err
	}

	o.subID = producer.AddListener(o)
	return nil
}

// Prepare (re)allocates the frame buffer from the assigned producer's
// current channel count and block size and recomputes the ratios.
func (o *Oscilloscope) Prepare() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return domain.ErrScopeClosed
	}
	return o.prepareLocked()
}

func (o *Oscilloscope) prepareLocked() error {
	if o.producer == nil {
		return domain.ErrNoProducer
	}

	channels := o.producer.NumChannels()
	blockSize := o.producer.MaximumBlockSize()
	if channels <= 0 || blockSize <= 0 {
		return domain.ErrInvalidFormat
	}

	o.buffer.Store(NewFrameBuffer(channels, blockSize))

	o.cfgMu.Lock()
	o.blockSize = blockSize
	o.settings.Window = clampWindow(o.settings.Window, blockSize)
	if o.settings.Window.Min >= o.settings.Window.Max {
		o.settings.Window = domain.SampleWindow{Min: 0, Max: blockSize}
	}
	o.recalculateRatios()
	width := o.viewport.Width
	o.cfgMu.Unlock()

	o.renderMu.Lock()
	o.renderer = NewRenderer(channels, width)
	o.renderMu.Unlock()

	return nil
}

// FrameReady implements ports.FrameListener. It copies the producer's
// frame into the shared buffer and arms the freshness flag. Notifications
// from any producer other than the assigned one are ignored.
func (o *Oscilloscope) FrameReady(producer ports.FrameProducer) {
	if producer != o.producer {
		return
	}
	buf := o.buffer.Load()
	if buf == nil {
		return
	}
	_ = buf.WriteFrame(o.copyFrame)
}

// Write copies samples for one channel straight into the shared buffer,
// bypassing the producer. It is the push-style entry point for hosts that
// deliver channels one at a time.
func (o *Oscilloscope) Write(channel int, samples []float32) error {
	buf := o.buffer.Load()
	if buf == nil {
		return domain.ErrNotPrepared
	}
	return buf.Write(channel, samples)
}

// Poll is the render-timer entry point. If fresh data arrived or the
// configuration changed since the last pass it rebuilds the traces and
// returns PollRendered; otherwise it returns PollIdle without locking
// anything the producer uses.
func (o *Oscilloscope) Poll() (PollResult, error) {
	buf := o.buffer.Load()
	if buf == nil {
		return PollNotReady, domain.ErrNotPrepared
	}

	frame, fresh := buf.Consume()
	changed := o.dirty.Swap(false)
	if !fresh && !changed {
		return PollIdle, nil
	}
	if !fresh {
		frame = buf.Snapshot()
	}

	o.cfgMu.Lock()
	m := o.mapper
	method := o.settings.Aggregation
	o.cfgMu.Unlock()

	o.renderMu.Lock()
	o.renderer.Reserve(m.Viewport().Width)
	o.renderer.Render(frame, m, method)
	o.renderMu.Unlock()

	return PollRendered, nil
}

// VisitTraces calls fn for every channel trace of the last render.
// fn must not retain the points after it returns.
func (o *Oscilloscope) VisitTraces(fn func(Trace)) {
	o.renderMu.RLock()
	defer o.renderMu.RUnlock()

	for _, t := range o.renderer.Traces() {
		fn(t)
	}
}

// Close detaches from the producer and then releases the frame buffer.
// Once the listener is removed no write can reach the buffer, so the buffer
// is never released under a running copy. Close is idempotent.
func (o *Oscilloscope) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return nil
	}
	o.closed = true

	if o.producer != nil {
		o.producer.RemoveListener(o.subID)
	}

	if buf := o.buffer.Swap(nil); buf != nil {
		buf.Release()
	}

	o.producer = nil
	o.copyFrame = nil
	o.subID = ""
	return nil
}

// Prepared reports whether a frame buffer is allocated.
func (o *Oscilloscope) Prepared() bool {
	return o.buffer.Load() != nil
}

// Channels returns the number of channels of the prepared buffer.
func (o *Oscilloscope) Channels() int {
	if buf := o.buffer.Load(); buf != nil {
		return buf.Channels()
	}
	return 0
}

// BlockSize returns the maximum block size of the prepared buffer.
func (o *Oscilloscope) BlockSize() int {
	o.cfgMu.Lock()
	defer o.cfgMu.Unlock()
	return o.blockSize
}

// Resize sets the viewport. Negative sizes are treated as zero.
func (o *Oscilloscope) Resize(width, height int) {
	o.cfgMu.Lock()
	defer o.cfgMu.Unlock()

	vp := domain.Viewport{Width: max(width, 0), Height: max(height, 0)}
	if vp == o.viewport {
		return
	}
	o.viewport = vp
	o.recalculateRatios()
}

// Viewport returns the current viewport.
func (o *Oscilloscope) Viewport() domain.Viewport {
	o.cfgMu.Lock()
	defer o.cfgMu.Unlock()
	return o.viewport
}

// SetAmplitude sets the full-scale amplitude of the y-axis.
// Non-positive or non-finite values are rejected and the previous scale kept.
func (o *Oscilloscope) SetAmplitude(amplitude float64) error {
	if !validAmplitude(amplitude) {
		return domain.NewAmplitudeError(amplitude)
	}

	o.cfgMu.Lock()
	defer o.cfgMu.Unlock()

	o.settings.Amplitude = amplitude
	o.recalculateRatios()
	return nil
}

// Amplitude returns the full-scale amplitude.
func (o *Oscilloscope) Amplitude() float64 {
	o.cfgMu.Lock()
	defer o.cfgMu.Unlock()
	return o.settings.Amplitude
}

// SetWindow sets the visible sample range. A negative min is raised to 0 and
// a max beyond the block size is lowered to it. A window that is still empty
// or inverted after clamping is rejected and the previous window kept.
func (o *Oscilloscope) SetWindow(minSample, maxSample int) error {
	o.cfgMu.Lock()
	defer o.cfgMu.Unlock()

	return o.setWindowLocked(domain.SampleWindow{Min: minSample, Max: maxSample})
}

// SetMin sets the first visible sample.
func (o *Oscilloscope) SetMin(minSample int) error {
	o.cfgMu.Lock()
	defer o.cfgMu.Unlock()

	w := o.settings.Window
	w.Min = minSample
	return o.setWindowLocked(w)
}

// SetMax sets the end of the visible range (exclusive).
func (o *Oscilloscope) SetMax(maxSample int) error {
	o.cfgMu.Lock()
	defer o.cfgMu.Unlock()

	w := o.settings.Window
	w.Max = maxSample
	return o.setWindowLocked(w)
}

func (o *Oscilloscope) setWindowLocked(w domain.SampleWindow) error {
	w = clampWindow(w, o.blockSize)

	// Before a producer is assigned a zero max stands for "block size".
	unassignedDefault := o.blockSize == 0 && w.Max == 0
	if !unassignedDefault && w.Min >= w.Max {
		return domain.NewWindowError(w)
	}

	o.settings.Window = w
	o.recalculateRatios()
	return nil
}

// clampWindow raises a negative min to 0 and lowers max to blockSize when
// the block size is known.
func clampWindow(w domain.SampleWindow, blockSize int) domain.SampleWindow {
	w.Min = max(w.Min, 0)
	w.Max = max(w.Max, 0)
	if blockSize > 0 && w.Max > blockSize {
		w.Max = blockSize
	}
	return w
}

// Window returns the effective sample window.
func (o *Oscilloscope) Window() domain.SampleWindow {
	o.cfgMu.Lock()
	defer o.cfgMu.Unlock()
	return o.settings.Window
}

// SetAggregation selects the sub-pixel aggregation method.
func (o *Oscilloscope) SetAggregation(method domain.AggregationMethod) error {
	if !method.Valid() {
		return domain.NewValidationError("aggregation", int(method), "unknown aggregation method")
	}

	o.cfgMu.Lock()
	defer o.cfgMu.Unlock()

	o.settings.Aggregation = method
	o.dirty.Store(true)
	return nil
}

// Aggregation returns the current aggregation method.
func (o *Oscilloscope) Aggregation() domain.AggregationMethod {
	o.cfgMu.Lock()
	defer o.cfgMu.Unlock()
	return o.settings.Aggregation
}

// Settings returns the effective amplitude, window and aggregation.
func (o *Oscilloscope) Settings() domain.ScopeSettings {
	o.cfgMu.Lock()
	defer o.cfgMu.Unlock()
	return o.settings
}

// ApplySettings applies every field of s. Invalid fields are skipped and
// reported together; valid fields still take effect.
func (o *Oscilloscope) ApplySettings(s domain.ScopeSettings) error {
	return errors.Join(
		o.SetAmplitude(s.Amplitude),
		o.SetWindow(s.Window.Min, s.Window.Max),
		o.SetAggregation(s.Aggregation),
	)
}

// Mapper returns the mapper for the current configuration.
func (o *Oscilloscope) Mapper() Mapper {
	o.cfgMu.Lock()
	defer o.cfgMu.Unlock()
	return o.mapper
}

// recalculateRatios rebuilds the mapper. It is the only place ratios are
// derived and must be called with cfgMu held after any change to the
// viewport, window or amplitude.
func (o *Oscilloscope) recalculateRatios() {
	o.mapper = NewMapper(o.viewport, o.settings.Window, o.settings.Amplitude)
	o.dirty.Store(true)
}

// Scale returns the background ticks for the current configuration.
func (o *Oscilloscope) Scale() Scale {
	return NewScale(o.Mapper(), o.cfg.TickSpacing)
}

// SetCursor records the pointer position for the readout.
func (o *Oscilloscope) SetCursor(x, y int) {
	o.cfgMu.Lock()
	defer o.cfgMu.Unlock()
	o.cursor = Cursor{X: x, Y: y}
}

// ClearCursor marks the pointer as outside the scope.
func (o *Oscilloscope) ClearCursor() {
	o.cfgMu.Lock()
	defer o.cfgMu.Unlock()
	o.cursor = NoCursor
}

// Readout returns the time and amplitude under the pointer. It reports
// false when the pointer is outside or nothing can be drawn.
func (o *Oscilloscope) Readout() (Readout, bool) {
	o.cfgMu.Lock()
	m, c := o.mapper, o.cursor
	o.cfgMu.Unlock()

	return NewReadout(m, c, o.cfg.Label)
}

var _ ports.FrameListener = (*Oscilloscope)(nil)
