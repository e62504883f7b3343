// Package fyne provides Fyne UI adapter implementations.
// This package implements the UI layer using the Fyne toolkit.
package fyne

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/tejashwikalptaru/goscope/internal/domain"
	"github.com/tejashwikalptaru/goscope/internal/ports"
	"github.com/tejashwikalptaru/goscope/internal/scope"
	"github.com/tejashwikalptaru/goscope/internal/service"
)

// DefaultPollInterval is the render poll period (30 Hz).
const DefaultPollInterval = time.Second / 30

// SourceLoader switches the scope input to an audio file.
type SourceLoader interface {
	LoadFile(path string) error
}

// Presenter implements the Presenter pattern (MVP architecture).
// It drives the render poll and maps scope events onto the view.
//
// Responsibilities:
// - Poll the scope service at a fixed rate and refresh the waveform on new data
// - Refresh the scale and controls when the configuration changes
// - Translate UI commands to service calls
//
// Thread-safety: event handlers run on the publisher's goroutine and the poll
// on its own; the view marshals onto the UI thread itself.
type Presenter struct {
	// Dependencies
	logger *slog.Logger

	// Services (injected)
	scopeService *service.ScopeService
	loader       SourceLoader
	recent       ports.RecentFilesRepository

	eventBus ports.EventBus
	view     ports.ScopeView

	interval      time.Duration
	subscriptions []domain.SubscriptionID

	pollTicker *time.Ticker
	stopPoll   chan struct{}
	pollDone   chan struct{}

	mu           sync.Mutex
	lastPollErr  error
	shutdownOnce sync.Once
}

// NewPresenter creates a presenter, subscribes it to scope events and starts
// the render poll. interval <= 0 means DefaultPollInterval. loader and recent
// may be nil.
func NewPresenter(
	logger *slog.Logger,
	scopeService *service.ScopeService,
	loader SourceLoader,
	recent ports.RecentFilesRepository,
	eventBus ports.EventBus,
	view ports.ScopeView,
	interval time.Duration,
) *Presenter {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	p := &Presenter{
		logger:       logger.With(slog.String("component", "presenter")),
		scopeService: scopeService,
		loader:       loader,
		recent:       recent,
		eventBus:     eventBus,
		view:         view,
		interval:     interval,
		stopPoll:     make(chan struct{}),
		pollDone:     make(chan struct{}),
	}

	p.subscribeToEvents()
	p.syncInitialState()
	p.startPolling()

	return p
}

// subscribeToEvents subscribes to all relevant events from the event bus.
func (p *Presenter) subscribeToEvents() {
	subscriptions := []struct {
		eventType domain.EventType
		handler   domain.EventHandler
	}{
		{domain.EventScopeAssigned, p.onScopeAssigned},
		{domain.EventScopeConfigChanged, p.onConfigChanged},
		{domain.EventSourceStarted, p.onSourceStarted},
		{domain.EventSourceStopped, p.onSourceStopped},
	}

	for _, s := range subscriptions {
		p.subscriptions = append(p.subscriptions, p.eventBus.Subscribe(s.eventType, s.handler))
	}
}

// syncInitialState pushes the restored settings and recent files to the view.
func (p *Presenter) syncInitialState() {
	p.view.SetSettings(p.scopeService.Settings())
	p.view.RefreshScale()
	p.pushRecentFiles()
}

// pushRecentFiles sends the stored recent files to the view.
func (p *Presenter) pushRecentFiles() {
	if p.recent == nil {
		return
	}
	paths, err := p.recent.LoadRecent()
	if err != nil {
		p.logger.Warn("failed to load recent files", slog.Any("error", err))
		return
	}
	p.view.SetRecentFiles(paths)
}

// Event handlers

func (p *Presenter) onScopeAssigned(event domain.Event) {
	e, ok := event.(domain.ScopeAssignedEvent)
	if !ok {
		return
	}
	p.view.SetSettings(e.Settings)
	p.view.RefreshScale()
}

func (p *Presenter) onConfigChanged(event domain.Event) {
	e, ok := event.(domain.ScopeConfigChangedEvent)
	if !ok {
		return
	}
	p.view.SetSettings(e.Settings)
	p.view.RefreshScale()
}

func (p *Presenter) onSourceStarted(event domain.Event) {
	e, ok := event.(domain.SourceStartedEvent)
	if !ok {
		return
	}
	p.view.SetSourceInfo(e.Info)
}

func (p *Presenter) onSourceStopped(event domain.Event) {
	e, ok := event.(domain.SourceStoppedEvent)
	if !ok || e.Error == nil {
		return
	}
	p.view.ShowNotification("Source Error", fmt.Sprintf("%s stopped: %v", e.Info.Name, e.Error))
}

func (p *Presenter) startPolling() {
	p.pollTicker = time.NewTicker(p.interval)

	go func() {
		defer close(p.pollDone)
		for {
			select {
			case <-p.pollTicker.C:
				p.poll()
			case <-p.stopPoll:
				return
			}
		}
	}()
}

// poll runs one render pass and refreshes the waveform if anything was drawn.
func (p *Presenter) poll() {
	result, err := p.scopeService.Poll()
	if err != nil {
		p.logPollError(err)
		return
	}
	if result == scope.PollRendered {
		p.view.RefreshWaveform()
	}
}

// logPollError logs a poll failure once until it changes.
func (p *Presenter) logPollError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.lastPollErr != nil && errors.Is(err, p.lastPollErr) {
		return
	}
	p.lastPollErr = err
	p.logger.Debug("scope not ready", slog.Any("error", err))
}

// UI Command handlers (called by UI)

// OnAmplitudeSelected handles a full-scale amplitude selection.
func (p *Presenter) OnAmplitudeSelected(amplitude float64) {
	p.report(p.scopeService.SetAmplitude(amplitude))
}

// OnAggregationSelected handles an aggregation method selection by name.
func (p *Presenter) OnAggregationSelected(name string) {
	method, err := domain.ParseAggregationMethod(name)
	if err != nil {
		p.report(err)
		return
	}
	p.report(p.scopeService.SetAggregation(method))
}

// OnWindowChanged handles an edit of the visible sample range.
func (p *Presenter) OnWindowChanged(minSample, maxSample int) {
	p.report(p.scopeService.SetWindow(minSample, maxSample))
}

// OnResetClicked restores the default settings.
func (p *Presenter) OnResetClicked() {
	p.report(p.scopeService.ResetSettings())
}

// OnFileOpened handles file open requests.
func (p *Presenter) OnFileOpened(filePath string) error {
	if p.loader == nil {
		return domain.ErrNoProducer
	}
	if err := p.loader.LoadFile(filePath); err != nil {
		p.view.ShowNotification("Open Failed", err.Error())
		return err
	}

	if p.recent != nil {
		if err := p.recent.AddRecent(filePath); err != nil {
			p.logger.Warn("failed to remember file", slog.String("path", filePath), slog.Any("error", err))
		}
		p.pushRecentFiles()
	}
	return nil
}

// OnClearRecentClicked forgets the recent files.
func (p *Presenter) OnClearRecentClicked() {
	if p.recent == nil {
		return
	}
	if err := p.recent.Clear(); err != nil {
		p.logger.Warn("failed to clear recent files", slog.Any("error", err))
	}
	p.pushRecentFiles()
}

// report shows a rejected command and resets the controls to the effective
// settings.
func (p *Presenter) report(err error) {
	if err == nil {
		return
	}
	p.view.ShowNotification("Invalid Setting", err.Error())
	p.view.SetSettings(p.scopeService.Settings())
}

// Shutdown stops the poll and unsubscribes from the bus.
// It's safe to call multiple times (idempotent).
func (p *Presenter) Shutdown() {
	p.shutdownOnce.Do(func() {
		// Stop the ticker first to prevent new iterations
		p.pollTicker.Stop()
		close(p.stopPoll)
		<-p.pollDone

		for _, id := range p.subscriptions {
			p.eventBus.Unsubscribe(id)
		}
		p.subscriptions = nil
	})
}
