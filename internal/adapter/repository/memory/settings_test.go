package memory

import (
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/goscope/internal/domain"
)

// Helper to create a test settings repository
func newTestSettingsRepository() *SettingsRepository {
	app := test.NewApp()
	return NewSettingsRepository(app.Preferences())
}

func TestSettingsRepository_SaveAndLoad(t *testing.T) {
	repo := newTestSettingsRepository()

	want := domain.ScopeSettings{
		Amplitude:   0.25,
		Window:      domain.SampleWindow{Min: 128, Max: 2048},
		Aggregation: domain.AggregationAverage,
	}
	require.NoError(t, repo.SaveSettings(want))

	got, err := repo.LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSettingsRepository_LoadDefaults(t *testing.T) {
	repo := newTestSettingsRepository()

	got, err := repo.LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultScopeSettings(), got)
}

func TestSettingsRepository_SaveRejectsUnknownAggregation(t *testing.T) {
	repo := newTestSettingsRepository()

	err := repo.SaveSettings(domain.ScopeSettings{Amplitude: 1, Aggregation: domain.AggregationMethod(12)})
	var rerr *domain.RepositoryError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "save", rerr.Op)
}

func TestSettingsRepository_LoadCorruptAggregation(t *testing.T) {
	app := test.NewApp()
	prefs := app.Preferences()
	prefs.SetString(keyAggregation, "median")
	prefs.SetFloat(keyAmplitude, 0.5)

	got, err := NewSettingsRepository(prefs).LoadSettings()
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.InDelta(t, 0.5, got.Amplitude, 1e-12, "valid fields still load")
	assert.Equal(t, domain.AggregationNearest, got.Aggregation)
}

func TestSettingsRepository_Clear(t *testing.T) {
	repo := newTestSettingsRepository()
	require.NoError(t, repo.SaveSettings(domain.ScopeSettings{
		Amplitude:   3,
		Window:      domain.SampleWindow{Min: 1, Max: 2},
		Aggregation: domain.AggregationMaximum,
	}))

	require.NoError(t, repo.Clear())

	got, err := repo.LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultScopeSettings(), got)
}
