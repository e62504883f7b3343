// Package ports define repository interfaces for data persistence abstraction.
// These interfaces enable the repository pattern and allow swapping persistence mechanisms.
package ports

import (
	"github.com/tejashwikalptaru/goscope/internal/domain"
)

// SettingsRepository handles the persistence of oscilloscope settings.
// This abstracts the Fyne preferences storage.
//
// Thread-safety: Implementations must be thread-safe.
type SettingsRepository interface {
	// SaveSettings persists amplitude, sample window and aggregation method.
	//
	// Returns an error if saving fails.
	SaveSettings(settings domain.ScopeSettings) error

	// LoadSettings retrieves the saved settings.
	// If nothing was saved, returns domain.DefaultScopeSettings() (not an error).
	//
	// Returns the settings or an error if loading fails.
	LoadSettings() (domain.ScopeSettings, error)

	// Clear removes all saved settings.
	//
	// Returns an error if clearing fails.
	Clear() error
}

// RecentFilesRepository remembers the audio files opened most recently.
//
// Thread-safety: Implementations must be thread-safe.
type RecentFilesRepository interface {
	// AddRecent records path as the most recently opened file.
	AddRecent(path string) error

	// LoadRecent returns the remembered paths, most recent first.
	// An empty list is not an error.
	LoadRecent() ([]string, error)

	// Clear forgets every path.
	Clear() error
}
