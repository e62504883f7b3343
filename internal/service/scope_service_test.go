package service

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/goscope/internal/adapter/audio/probe"
	"github.com/tejashwikalptaru/goscope/internal/adapter/eventbus"
	"github.com/tejashwikalptaru/goscope/internal/domain"
	"github.com/tejashwikalptaru/goscope/internal/logger"
	"github.com/tejashwikalptaru/goscope/internal/ports"
	"github.com/tejashwikalptaru/goscope/internal/scope"
)

// fakeSettingsRepository keeps settings in a field.
type fakeSettingsRepository struct {
	mu       sync.Mutex
	settings domain.ScopeSettings
	saves    int
	loadErr  error
	saveErr  error
}

func newFakeSettingsRepository() *fakeSettingsRepository {
	return &fakeSettingsRepository{settings: domain.DefaultScopeSettings()}
}

func (r *fakeSettingsRepository) SaveSettings(s domain.ScopeSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.settings = s
	r.saves++
	return nil
}

func (r *fakeSettingsRepository) LoadSettings() (domain.ScopeSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.settings, r.loadErr
}

func (r *fakeSettingsRepository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings = domain.DefaultScopeSettings()
	return nil
}

// Helper to create a test scope service
func newTestScopeService(t *testing.T, repo *fakeSettingsRepository) (*ScopeService, *eventbus.SyncEventBus) {
	t.Helper()

	var settings ports.SettingsRepository
	if repo != nil {
		settings = repo
	}

	bus := eventbus.NewSyncEventBus(nil)
	osc := scope.NewOscilloscope(scope.DefaultConfig())
	svc := NewScopeService(logger.NewTestLogger(), osc, settings, bus)
	t.Cleanup(func() {
		_ = svc.Close()
		_ = bus.Close()
	})
	return svc, bus
}

func newTestProbe(t *testing.T, channels, blockSize int) *probe.Probe {
	t.Helper()
	p, err := probe.New(channels, blockSize)
	require.NoError(t, err)
	return p
}

func TestScopeService_RestoresSavedSettings(t *testing.T) {
	repo := newFakeSettingsRepository()
	repo.settings = domain.ScopeSettings{
		Amplitude:   0.5,
		Window:      domain.SampleWindow{Min: 64, Max: 8192},
		Aggregation: domain.AggregationMaximum,
	}
	svc, _ := newTestScopeService(t, repo)

	require.NoError(t, svc.Attach(newTestProbe(t, 2, 4096)))

	s := svc.Settings()
	assert.InDelta(t, 0.5, s.Amplitude, 1e-12)
	assert.Equal(t, domain.SampleWindow{Min: 64, Max: 4096}, s.Window, "saved max is clamped to the block size")
	assert.Equal(t, domain.AggregationMaximum, s.Aggregation)
}

func TestScopeService_IgnoresCorruptSettings(t *testing.T) {
	repo := newFakeSettingsRepository()
	repo.settings = domain.ScopeSettings{Amplitude: -1, Aggregation: domain.AggregationAverage}
	repo.loadErr = errors.New("store unavailable")

	svc, _ := newTestScopeService(t, repo)

	s := svc.Settings()
	assert.InDelta(t, domain.DefaultAmplitude, s.Amplitude, 1e-12)
	assert.Equal(t, domain.AggregationAverage, s.Aggregation)
}

func TestScopeService_AttachPublishesEvent(t *testing.T) {
	svc, bus := newTestScopeService(t, nil)

	var got domain.ScopeAssignedEvent
	bus.Subscribe(domain.EventScopeAssigned, func(e domain.Event) {
		got = e.(domain.ScopeAssignedEvent)
	})

	p := newTestProbe(t, 2, 1024)
	require.NoError(t, svc.Attach(p))

	assert.Equal(t, 2, got.Channels)
	assert.Equal(t, 1024, got.BlockSize)
	assert.Equal(t, 1024, got.Settings.Window.Max)
	assert.Equal(t, 1, p.ListenerCount())

	err := svc.Attach(newTestProbe(t, 1, 16))
	assert.ErrorIs(t, err, domain.ErrAlreadyAssigned)
	var serr *domain.ServiceError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "Attach", serr.Op)
}

func TestScopeService_ConfigurePersistsAndPublishes(t *testing.T) {
	repo := newFakeSettingsRepository()
	svc, bus := newTestScopeService(t, repo)
	require.NoError(t, svc.Attach(newTestProbe(t, 1, 2048)))

	var changes []domain.ScopeSettings
	bus.Subscribe(domain.EventScopeConfigChanged, func(e domain.Event) {
		changes = append(changes, e.(domain.ScopeConfigChangedEvent).Settings)
	})

	require.NoError(t, svc.SetAmplitude(0.25))
	require.NoError(t, svc.SetWindow(100, 9999))
	require.NoError(t, svc.SetMin(200))
	require.NoError(t, svc.SetMax(1000))
	require.NoError(t, svc.SetAggregation(domain.AggregationAverage))

	require.Len(t, changes, 5)
	assert.Equal(t, domain.SampleWindow{Min: 100, Max: 2048}, changes[1].Window, "events carry the clamped window")

	want := domain.ScopeSettings{
		Amplitude:   0.25,
		Window:      domain.SampleWindow{Min: 200, Max: 1000},
		Aggregation: domain.AggregationAverage,
	}
	assert.Equal(t, want, changes[4])
	assert.Equal(t, want, repo.settings)
	assert.Equal(t, 5, repo.saves)
}

func TestScopeService_RejectedConfigIsNotPublished(t *testing.T) {
	repo := newFakeSettingsRepository()
	svc, bus := newTestScopeService(t, repo)
	require.NoError(t, svc.Attach(newTestProbe(t, 1, 512)))

	published := 0
	bus.Subscribe(domain.EventScopeConfigChanged, func(domain.Event) { published++ })

	err := svc.SetAmplitude(0)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "amplitude", verr.Field)

	assert.ErrorIs(t, svc.SetWindow(300, 300), domain.ErrInvalidWindow)
	assert.Zero(t, published)
	assert.Zero(t, repo.saves)
}

func TestScopeService_SaveFailureDoesNotFailConfigure(t *testing.T) {
	repo := newFakeSettingsRepository()
	repo.saveErr = errors.New("read-only store")
	svc, _ := newTestScopeService(t, repo)

	require.NoError(t, svc.SetAmplitude(2))
	assert.InDelta(t, 2.0, svc.Settings().Amplitude, 1e-12)
}

func TestScopeService_ResetSettings(t *testing.T) {
	svc, _ := newTestScopeService(t, nil)
	require.NoError(t, svc.Attach(newTestProbe(t, 2, 4096)))

	require.NoError(t, svc.SetAmplitude(0.1))
	require.NoError(t, svc.SetWindow(10, 20))
	require.NoError(t, svc.SetAggregation(domain.AggregationMaximum))

	require.NoError(t, svc.ResetSettings())

	s := svc.Settings()
	assert.InDelta(t, domain.DefaultAmplitude, s.Amplitude, 1e-12)
	assert.Equal(t, domain.SampleWindow{Min: 0, Max: 4096}, s.Window)
	assert.Equal(t, domain.AggregationNearest, s.Aggregation)
}

func TestScopeService_PollAndViewport(t *testing.T) {
	svc, _ := newTestScopeService(t, nil)

	res, err := svc.Poll()
	assert.Equal(t, scope.PollNotReady, res)
	assert.ErrorIs(t, err, domain.ErrNotPrepared)

	p := newTestProbe(t, 1, 256)
	require.NoError(t, svc.Attach(p))
	svc.Resize(256, 100)

	p.DeliverInterleaved(make([]float32, 256))
	res, err = svc.Poll()
	require.NoError(t, err)
	assert.Equal(t, scope.PollRendered, res)

	svc.SetCursor(128, 50)
	r, ok := svc.Scope().Readout()
	require.True(t, ok)
	assert.Equal(t, 128, r.Sample)

	svc.ClearCursor()
	_, ok = svc.Scope().Readout()
	assert.False(t, ok)
}

func TestScopeService_Close(t *testing.T) {
	svc, bus := newTestScopeService(t, nil)
	p := newTestProbe(t, 1, 64)
	require.NoError(t, svc.Attach(p))

	closedEvents := 0
	bus.Subscribe(domain.EventScopeClosed, func(domain.Event) { closedEvents++ })

	require.NoError(t, svc.Close())
	require.NoError(t, svc.Close())

	assert.Equal(t, 1, closedEvents)
	assert.Zero(t, p.ListenerCount())
	assert.ErrorIs(t, svc.SetAmplitude(0.5), domain.ErrScopeClosed)
}
