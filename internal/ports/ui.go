// Package ports define the UI interface for view abstraction.
// This interface allows the presenter to update the UI without depending on Fyne directly.
package ports

import (
	"github.com/tejashwikalptaru/goscope/internal/domain"
)

// ScopeView is the interface for the oscilloscope window.
// The presenter polls the scope service and calls these methods
// to update the UI accordingly.
//
// Thread-safety: Implementations must marshal onto the UI thread themselves;
// the presenter calls them from its poll goroutine.
type ScopeView interface {
	// RefreshWaveform redraws the foreground (per-channel traces and cursor readout).
	RefreshWaveform()

	// RefreshScale redraws the background (axis ticks and labels).
	RefreshScale()

	// SetSettings updates the configuration controls to the effective settings.
	SetSettings(settings domain.ScopeSettings)

	// SetSourceInfo updates the title and status line from the producer.
	SetSourceInfo(info domain.SourceInfo)

	// SetRecentFiles updates the recently opened files, most recent first.
	SetRecentFiles(paths []string)

	// ShowNotification displays a short message to the user.
	ShowNotification(title, message string)
}
