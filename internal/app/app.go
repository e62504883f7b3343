// Package app provides application-level orchestration and dependency injection.
// This package wires together all components and manages the application lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"

	"github.com/tejashwikalptaru/goscope/internal/adapter/audio/probe"
	"github.com/tejashwikalptaru/goscope/internal/adapter/audio/source"
	"github.com/tejashwikalptaru/goscope/internal/adapter/eventbus"
	"github.com/tejashwikalptaru/goscope/internal/adapter/repository/memory"
	fyneui "github.com/tejashwikalptaru/goscope/internal/adapter/ui/fyne"
	"github.com/tejashwikalptaru/goscope/internal/adapter/ui/fyne/widgets"
	"github.com/tejashwikalptaru/goscope/internal/domain"
	"github.com/tejashwikalptaru/goscope/internal/logger"
	"github.com/tejashwikalptaru/goscope/internal/ports"
	"github.com/tejashwikalptaru/goscope/internal/scope"
	"github.com/tejashwikalptaru/goscope/internal/service"
)

// Application is the root application structure that holds all dependencies.
// It follows the Dependency Injection pattern with constructor-based injection.
//
// The Application struct is responsible for:
// - Creating and wiring all dependencies
// - Managing the application lifecycle (startup, shutdown)
// - Providing a clean entry point for main.go
type Application struct {
	config Config

	// Core dependencies
	logger  *slog.Logger
	fyneApp fyne.App

	// Infrastructure
	eventBus ports.EventBus
	registry *source.Registry
	probe    *probe.Probe

	// Repositories
	settingsRepo ports.SettingsRepository
	recentRepo   ports.RecentFilesRepository

	// Services
	scopeService *service.ScopeService

	// Input. Guarded by sourceMu; replaced by LoadFile.
	sourceMu sync.Mutex
	source   source.Source
	pump     *source.Pump
	ctx      context.Context
	cancel   context.CancelFunc

	// UI
	presenter  *fyneui.Presenter
	mainWindow *fyneui.MainWindow

	shutdownOnce sync.Once
	shutdownErr  error
}

// Config holds application configuration.
type Config struct {
	// AppID is the unique application identifier
	AppID string

	// AppName is the display name
	AppName string

	// SourcePath is the audio file to show. Empty means the test tone.
	SourcePath string

	// Channels is the number of scope channels. Files with a different
	// channel count are remixed to it.
	Channels int

	// SampleRate of the test tone
	SampleRate int

	// BlockSize is the number of samples per channel in one frame
	BlockSize int

	// ToneFrequencies per channel; nil means source.DefaultToneFrequencies
	ToneFrequencies []float64

	// ToneGain is the test tone peak amplitude
	ToneGain float64

	// Loop rewinds files at end of stream
	Loop bool

	// PollInterval is the render poll period
	PollInterval time.Duration

	// PumpInterval overrides the real-time block pacing when > 0
	PumpInterval time.Duration

	// RecentLimit caps the Open Recent menu; <= 0 means memory.DefaultRecentLimit
	RecentLimit int

	// LogLevel controls logging verbosity
	LogLevel slog.Level

	// LogFormat is "text" or "json"
	LogFormat string

	// TestFyneApp allows injecting a test Fyne app for testing (nil for production)
	TestFyneApp fyne.App
}

// DefaultConfig returns the default application configuration.
func DefaultConfig() Config {
	loggerCfg := logger.DefaultConfig()
	return Config{
		AppID:        "com.goscope.app",
		AppName:      fyneui.APPNAME,
		Channels:     2,
		SampleRate:   44100,
		BlockSize:    4096,
		ToneGain:     0.8,
		Loop:         true,
		PollInterval: fyneui.DefaultPollInterval,
		LogLevel:     loggerCfg.Level,
		LogFormat:    loggerCfg.Format,
	}
}

// NewApplication creates a new application with all dependencies wired.
// This is the main dependency injection function.
func NewApplication(config Config) (*Application, error) {
	app := &Application{config: config}

	// Step 1: Create Fyne application
	if config.TestFyneApp != nil {
		app.fyneApp = config.TestFyneApp
	} else {
		app.fyneApp = fyneapp.NewWithID(config.AppID)
	}

	// Step 1.5: Create logger
	app.logger = logger.NewLogger(logger.Config{
		Level:  config.LogLevel,
		Format: config.LogFormat,
	})
	app.logger.Info("initializing application",
		slog.String("app_id", config.AppID),
		slog.String("app_name", config.AppName),
		slog.String("version", GetVersionInfo().FullString()))

	// Step 2: Create an event bus
	app.eventBus = eventbus.NewSyncEventBus(app.logger.With(slog.String("component", "eventbus")))

	// Step 3: Create the probe the sources feed
	p, err := probe.New(config.Channels, config.BlockSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create probe: %w", err)
	}
	app.probe = p
	app.registry = source.DefaultRegistry()

	// Step 4: Create repositories
	app.settingsRepo = memory.NewSettingsRepository(app.fyneApp.Preferences())
	app.recentRepo = memory.NewRecentFilesRepository(app.fyneApp.Preferences(), config.RecentLimit)

	// Step 5: Create the oscilloscope and its service, then attach the probe
	osc := scope.NewOscilloscope(scope.DefaultConfig())
	app.scopeService = service.NewScopeService(app.logger, osc, app.settingsRepo, app.eventBus)
	if err := app.scopeService.Attach(app.probe); err != nil {
		return nil, fmt.Errorf("failed to attach scope: %w", err)
	}

	// Step 6: Open the initial source
	app.ctx, app.cancel = context.WithCancel(context.Background())
	if err := app.openInitialSource(); err != nil {
		app.cancel()
		_ = app.scopeService.Close()
		return nil, err
	}

	// Step 7: Create UI
	scopeWidget := widgets.NewOscilloscope(osc, scope.DefaultConfig().Label)
	app.mainWindow = fyneui.NewMainWindow(app.fyneApp, scopeWidget, app.registry.Extensions(), app.logger)

	// Step 8: Create Presenter and wire with UI
	app.presenter = fyneui.NewPresenter(
		app.logger,
		app.scopeService,
		app,
		app.recentRepo,
		app.eventBus,
		app.mainWindow,
		config.PollInterval,
	)
	app.mainWindow.SetPresenter(app.presenter)

	return app, nil
}

func (a *Application) openInitialSource() error {
	if a.config.SourcePath != "" {
		return a.setSource(a.config.SourcePath)
	}

	tone, err := source.NewTone(a.config.SampleRate, a.config.Channels, a.config.ToneGain, a.config.ToneFrequencies...)
	if err != nil {
		return fmt.Errorf("failed to create test tone: %w", err)
	}
	return a.replaceSource(tone)
}

// Start begins feeding the scope from the current source.
func (a *Application) Start() error {
	a.sourceMu.Lock()
	defer a.sourceMu.Unlock()

	if a.pump == nil {
		return domain.ErrNoProducer
	}
	return a.pump.Start(a.ctx)
}

// Run starts the source and the UI.
// This is called from main.go after the application is created and
// blocks until the window is closed.
func (a *Application) Run() error {
	if err := a.Start(); err != nil {
		return fmt.Errorf("failed to start source: %w", err)
	}

	a.logger.Info("GoScope started")

	// Show and run UI (blocks until the window is closed)
	a.mainWindow.ShowAndRun()
	return nil
}

// LoadFile implements fyneui.SourceLoader. It replaces the running source
// with the file at path and keeps the pump running if it was.
func (a *Application) LoadFile(path string) error {
	a.sourceMu.Lock()
	defer a.sourceMu.Unlock()

	running := a.pump != nil && a.pump.Running()
	if err := a.setSource(path); err != nil {
		return err
	}
	if running {
		return a.pump.Start(a.ctx)
	}
	return nil
}

// setSource opens path and swaps it in. Callers starting the pump afterwards
// must hold sourceMu.
func (a *Application) setSource(path string) error {
	src, err := a.registry.Open(path)
	if err != nil {
		a.logger.Warn("failed to open source", slog.String("path", path), slog.Any("error", err))
		return err
	}
	if err := a.replaceSource(source.Remix(src, a.probe.NumChannels())); err != nil {
		_ = src.Close()
		return err
	}
	return nil
}

// replaceSource stops the current pump, closes the current source and
// builds a new pump for src. The new pump is not started.
func (a *Application) replaceSource(src source.Source) error {
	pump, err := source.NewPump(a.logger, a.eventBus, src, a.probe, source.PumpConfig{
		Interval: a.config.PumpInterval,
		Loop:     a.config.Loop,
	})
	if err != nil {
		return fmt.Errorf("failed to create pump: %w", err)
	}

	a.stopSource()
	a.source, a.pump = src, pump
	return nil
}

// stopSource stops the pump and closes the source, if any.
func (a *Application) stopSource() {
	if a.pump != nil {
		a.pump.Stop()
	}
	if a.source != nil {
		if err := a.source.Close(); err != nil {
			a.logger.Warn("failed to close source", slog.Any("error", err))
		}
	}
	a.source, a.pump = nil, nil
}

// Shutdown gracefully shuts down the application.
// The poll stops first, then the producer, then the scope detaches and
// releases its buffer, and the bus closes last.
// It's safe to call multiple times (idempotent).
func (a *Application) Shutdown() error {
	a.shutdownOnce.Do(func() {
		a.logger.Info("shutting down application")

		if a.presenter != nil {
			a.presenter.Shutdown()
		}

		a.sourceMu.Lock()
		a.stopSource()
		a.sourceMu.Unlock()
		if a.cancel != nil {
			a.cancel()
		}

		var errs []error
		if err := a.scopeService.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close scope: %w", err))
		}
		if err := a.eventBus.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close event bus: %w", err))
		}
		a.shutdownErr = errors.Join(errs...)

		a.logger.Info("application shutdown complete")
	})
	return a.shutdownErr
}

// GetScopeService returns the scope service.
func (a *Application) GetScopeService() *service.ScopeService {
	return a.scopeService
}

// GetEventBus returns the event bus.
func (a *Application) GetEventBus() ports.EventBus {
	return a.eventBus
}

// GetFyneApp returns the Fyne application.
func (a *Application) GetFyneApp() fyne.App {
	return a.fyneApp
}

// GetRecentFiles returns the recent files repository.
func (a *Application) GetRecentFiles() ports.RecentFilesRepository {
	return a.recentRepo
}

// GetProbe returns the probe every source feeds.
func (a *Application) GetProbe() *probe.Probe {
	return a.probe
}

// SourceInfo returns the description of the current source.
func (a *Application) SourceInfo() (info domain.SourceInfo, ok bool) {
	a.sourceMu.Lock()
	defer a.sourceMu.Unlock()

	if a.pump == nil {
		return info, false
	}
	return a.pump.Info(), true
}

var _ fyneui.SourceLoader = (*Application)(nil)
