// Package memory provides repositories backed by fyne preferences, which
// keep their data in memory and flush it to the app's preference store.
package memory

import (
	"sync"

	"fyne.io/fyne/v2"

	"github.com/tejashwikalptaru/goscope/internal/domain"
	"github.com/tejashwikalptaru/goscope/internal/ports"
)

// Preference keys.
const (
	keyAmplitude   = "scope.amplitude"
	keyWindowMin   = "scope.window_min"
	keyWindowMax   = "scope.window_max"
	keyAggregation = "scope.aggregation"
)

// SettingsRepository implements ports.SettingsRepository using Fyne preferences.
//
// Thread-safe: All operations protected by sync.RWMutex.
type SettingsRepository struct {
	prefs fyne.Preferences
	mu    sync.RWMutex
}

// NewSettingsRepository creates a settings repository.
// The preferences parameter should be obtained from fyne.CurrentApp().Preferences().
func NewSettingsRepository(prefs fyne.Preferences) *SettingsRepository {
	return &SettingsRepository{
		prefs: prefs,
	}
}

// SaveSettings persists amplitude, window and aggregation.
func (r *SettingsRepository) SaveSettings(s domain.ScopeSettings) error {
	if !s.Aggregation.Valid() {
		return domain.NewRepositoryError("save", "settings", "unknown aggregation method",
			domain.NewValidationError("aggregation", int(s.Aggregation), "unknown aggregation method"))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.prefs.SetFloat(keyAmplitude, s.Amplitude)
	r.prefs.SetInt(keyWindowMin, s.Window.Min)
	r.prefs.SetInt(keyWindowMax, s.Window.Max)
	r.prefs.SetString(keyAggregation, s.Aggregation.String())
	return nil
}

// LoadSettings retrieves the saved settings. Missing keys fall back to
// domain.DefaultScopeSettings.
func (r *SettingsRepository) LoadSettings() (domain.ScopeSettings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def := domain.DefaultScopeSettings()
	s := domain.ScopeSettings{
		Amplitude: r.prefs.FloatWithFallback(keyAmplitude, def.Amplitude),
		Window: domain.SampleWindow{
			Min: r.prefs.IntWithFallback(keyWindowMin, def.Window.Min),
			Max: r.prefs.IntWithFallback(keyWindowMax, def.Window.Max),
		},
		Aggregation: def.Aggregation,
	}

	name := r.prefs.StringWithFallback(keyAggregation, def.Aggregation.String())
	method, err := domain.ParseAggregationMethod(name)
	if err != nil {
		return s, domain.NewRepositoryError("load", "settings", "unknown aggregation method", err)
	}
	s.Aggregation = method
	return s, nil
}

// Clear removes all saved settings.
func (r *SettingsRepository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, key := range []string{keyAmplitude, keyWindowMin, keyWindowMax, keyAggregation} {
		r.prefs.RemoveValue(key)
	}
	return nil
}

// Verify interface implementation
var _ ports.SettingsRepository = (*SettingsRepository)(nil)
