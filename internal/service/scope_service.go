// Package service provides the application logic of goscope on top of the
// oscilloscope core.
package service

import (
	"log/slog"
	"sync"

	"github.com/tejashwikalptaru/goscope/internal/domain"
	"github.com/tejashwikalptaru/goscope/internal/ports"
	"github.com/tejashwikalptaru/goscope/internal/scope"
)

const scopeServiceName = "ScopeService"

// ScopeService owns the oscilloscope for the application. It validates and
// applies configuration, persists it, and announces every change on the bus.
//
// Configuration calls are serialised; Poll and the viewport calls go
// straight to the oscilloscope.
type ScopeService struct {
	// Dependencies (injected)
	logger     *slog.Logger
	scope      *scope.Oscilloscope
	repository ports.SettingsRepository
	bus        ports.EventBus

	// mu serialises configuration changes with their persistence and event
	mu     sync.Mutex
	closed bool
}

// NewScopeService creates a scope service and restores saved settings.
// repository may be nil, in which case nothing is persisted.
func NewScopeService(
	logger *slog.Logger,
	osc *scope.Oscilloscope,
	repository ports.SettingsRepository,
	bus ports.EventBus,
) *ScopeService {
	s := &ScopeService{
		logger:     logger.With(slog.String("service", scopeServiceName)),
		scope:      osc,
		repository: repository,
		bus:        bus,
	}
	s.restore()
	s.logger.Debug("scope service initialized")
	return s
}

// restore applies the saved settings. Invalid saved values are logged and
// skipped, so a corrupt store never blocks start-up.
func (s *ScopeService) restore() {
	if s.repository == nil {
		return
	}

	saved, err := s.repository.LoadSettings()
	if err != nil {
		s.logger.Warn("failed to load scope settings", slog.Any("error", err))
	}
	if err := s.scope.ApplySettings(saved); err != nil {
		s.logger.Warn("ignored invalid saved settings", slog.Any("error", err))
	}
}

// Scope returns the oscilloscope, for the widget to read traces from.
func (s *ScopeService) Scope() *scope.Oscilloscope {
	return s.scope
}

// Attach assigns producer to the oscilloscope and publishes ScopeAssignedEvent.
func (s *ScopeService) Attach(producer ports.FrameProducer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.scope.Assign(producer); err != nil {
		s.logger.Error("failed to assign producer", slog.Any("error", err))
		return domain.NewServiceError(scopeServiceName, "Attach", "failed to assign producer", err)
	}

	settings := s.scope.Settings()
	s.logger.Info("producer assigned",
		slog.Int("channels", s.scope.Channels()),
		slog.Int("block_size", s.scope.BlockSize()),
		slog.Int("window_min", settings.Window.Min),
		slog.Int("window_max", settings.Window.Max))

	s.bus.Publish(domain.NewScopeAssignedEvent(s.scope.Channels(), s.scope.BlockSize(), settings))
	return nil
}

// Settings returns the effective settings.
func (s *ScopeService) Settings() domain.ScopeSettings {
	return s.scope.Settings()
}

// SetAmplitude sets the full-scale amplitude.
func (s *ScopeService) SetAmplitude(amplitude float64) error {
	return s.configure("SetAmplitude", func() error {
		return s.scope.SetAmplitude(amplitude)
	})
}

// SetWindow sets the visible sample range.
func (s *ScopeService) SetWindow(minSample, maxSample int) error {
	return s.configure("SetWindow", func() error {
		return s.scope.SetWindow(minSample, maxSample)
	})
}

// SetMin sets the first visible sample.
func (s *ScopeService) SetMin(minSample int) error {
	return s.configure("SetMin", func() error {
		return s.scope.SetMin(minSample)
	})
}

// SetMax sets the end of the visible range.
func (s *ScopeService) SetMax(maxSample int) error {
	return s.configure("SetMax", func() error {
		return s.scope.SetMax(maxSample)
	})
}

// SetAggregation selects the aggregation method.
func (s *ScopeService) SetAggregation(method domain.AggregationMethod) error {
	return s.configure("SetAggregation", func() error {
		return s.scope.SetAggregation(method)
	})
}

// ResetSettings restores the default amplitude and aggregation and shows
// the whole block.
func (s *ScopeService) ResetSettings() error {
	return s.configure("ResetSettings", func() error {
		def := domain.DefaultScopeSettings()
		def.Window.Max = s.scope.BlockSize()
		return s.scope.ApplySettings(def)
	})
}

// configure runs apply, then persists and publishes the effective settings.
// A rejected value is logged and returned; nothing is published for it.
func (s *ScopeService) configure(op string, apply func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.NewServiceError(scopeServiceName, op, "scope closed", domain.ErrScopeClosed)
	}

	if err := apply(); err != nil {
		s.logger.Warn("configuration rejected", slog.String("op", op), slog.Any("error", err))
		return domain.NewServiceError(scopeServiceName, op, "configuration rejected", err)
	}

	settings := s.scope.Settings()
	s.logger.Debug("configuration changed",
		slog.String("op", op),
		slog.Float64("amplitude", settings.Amplitude),
		slog.Int("window_min", settings.Window.Min),
		slog.Int("window_max", settings.Window.Max),
		slog.String("aggregation", settings.Aggregation.String()))

	s.persist(settings)
	s.bus.Publish(domain.NewScopeConfigChangedEvent(settings))
	return nil
}

func (s *ScopeService) persist(settings domain.ScopeSettings) {
	if s.repository == nil {
		return
	}
	if err := s.repository.SaveSettings(settings); err != nil {
		s.logger.Warn("failed to save scope settings", slog.Any("error", err))
	}
}

// Resize forwards the widget size.
func (s *ScopeService) Resize(width, height int) {
	s.scope.Resize(width, height)
}

// SetCursor forwards the pointer position.
func (s *ScopeService) SetCursor(x, y int) {
	s.scope.SetCursor(x, y)
}

// ClearCursor forwards pointer exit.
func (s *ScopeService) ClearCursor() {
	s.scope.ClearCursor()
}

// Poll runs one render poll. ErrNotPrepared before Attach is returned as is
// so callers can tell "waiting" from failure.
func (s *ScopeService) Poll() (scope.PollResult, error) {
	return s.scope.Poll()
}

// Close detaches the oscilloscope and publishes ScopeClosedEvent once.
func (s *ScopeService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if err := s.scope.Close(); err != nil {
		return domain.NewServiceError(scopeServiceName, "Close", "failed to close scope", err)
	}

	s.logger.Info("scope closed")
	s.bus.Publish(domain.NewScopeClosedEvent())
	return nil
}
