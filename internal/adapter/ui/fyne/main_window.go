package fyne

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"

	fyneapp "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/tejashwikalptaru/goscope/internal/adapter/ui/fyne/widgets"
	"github.com/tejashwikalptaru/goscope/internal/domain"
	"github.com/tejashwikalptaru/goscope/internal/ports"
	"github.com/tejashwikalptaru/goscope/res"
)

// Window defaults.
const (
	APPNAME string  = "GoScope"
	WIDTH   float32 = 900
	HEIGHT  float32 = 520
)

// AmplitudeChoices are the full-scale values offered by the amplitude select.
var AmplitudeChoices = []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 4}

// MainWindow is the main UI window implementing the ports.ScopeView interface.
// It handles all UI rendering and user interactions.
//
// The MainWindow follows the MVP pattern:
// - It's a "dumb view" that just displays data
// - All business logic is in the Presenter
// - User interactions are forwarded to the Presenter
type MainWindow struct {
	app    fyneapp.App
	window fyneapp.Window
	logger *slog.Logger

	// UI components
	scope           *widgets.Oscilloscope
	amplitudeSelect *widget.Select
	aggregateSelect *widget.Select
	minEntry        *widget.Entry
	maxEntry        *widget.Entry
	applyButton     *widget.Button
	resetButton     *widget.Button
	sourceInfo      *widget.Label
	mainMenu        *fyneapp.MainMenu
	recentMenu      *fyneapp.MenuItem

	extensions []string

	// updating is set while controls are changed programmatically so their
	// change handlers do not echo the value back to the presenter.
	updating bool

	// Lifecycle management
	closeOnce sync.Once

	// Presenter (set after construction)
	presenter *Presenter
}

// NewMainWindow creates a new main window around the scope widget.
// extensions limits the file open dialog; nil shows every file.
func NewMainWindow(app fyneapp.App, scope *widgets.Oscilloscope, extensions []string, logger *slog.Logger) *MainWindow {
	w := &MainWindow{
		app:        app,
		scope:      scope,
		extensions: extensions,
		logger:     logger.With(slog.String("component", "main_window")),
	}

	// Create a window
	w.window = app.NewWindow(APPNAME)

	// Build UI
	w.buildUI()

	// Set window properties
	w.window.Resize(fyneapp.Size{
		Width:  WIDTH,
		Height: HEIGHT,
	})

	return w
}

// SetPresenter connects the presenter to this view.
// This must be called before showing the window.
func (w *MainWindow) SetPresenter(presenter *Presenter) {
	w.presenter = presenter
	w.wirePresenterHandlers()
	w.addShortcuts()
}

// buildUI constructs the UI components.
func (w *MainWindow) buildUI() {
	amplitudes := make([]string, len(AmplitudeChoices))
	for i, a := range AmplitudeChoices {
		amplitudes[i] = formatAmplitude(a)
	}
	w.amplitudeSelect = widget.NewSelect(amplitudes, nil)

	methods := domain.AggregationMethods()
	names := make([]string, len(methods))
	for i, m := range methods {
		names[i] = m.String()
	}
	w.aggregateSelect = widget.NewSelect(names, nil)

	w.minEntry = widget.NewEntry()
	w.minEntry.SetPlaceHolder("min")
	w.maxEntry = widget.NewEntry()
	w.maxEntry.SetPlaceHolder("max")
	w.applyButton = widget.NewButton("Apply", nil)
	w.resetButton = widget.NewButton("Reset", nil)

	w.sourceInfo = widget.NewLabel("No source")
	w.sourceInfo.Truncation = fyneapp.TextTruncateEllipsis
	w.sourceInfo.TextStyle = fyneapp.TextStyle{Italic: true}

	controls := container.NewHBox(
		widget.NewLabel("Amplitude"), w.amplitudeSelect,
		widget.NewLabel("Aggregation"), w.aggregateSelect,
		widget.NewLabel("Samples"), container.NewGridWrap(fyneapp.NewSize(72, w.minEntry.MinSize().Height), w.minEntry, w.maxEntry),
		w.applyButton, w.resetButton,
	)
	bottom := container.NewBorder(nil, nil, controls, nil, w.sourceInfo)

	// Main layout
	w.window.SetContent(container.NewBorder(nil, bottom, nil, nil, w.scope))

	// Menu
	w.mainMenu = fyneapp.NewMainMenu(w.createMenu()...)
	w.window.SetMainMenu(w.mainMenu)
}

// wirePresenterHandlers connects UI events to presenter handlers.
func (w *MainWindow) wirePresenterHandlers() {
	if w.presenter == nil {
		return
	}

	w.amplitudeSelect.OnChanged = func(value string) {
		if w.updating {
			return
		}
		a, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return
		}
		w.presenter.OnAmplitudeSelected(a)
	}

	w.aggregateSelect.OnChanged = func(value string) {
		if w.updating {
			return
		}
		w.presenter.OnAggregationSelected(value)
	}

	w.applyButton.OnTapped = w.applyWindow
	w.minEntry.OnSubmitted = func(string) { w.applyWindow() }
	w.maxEntry.OnSubmitted = func(string) { w.applyWindow() }

	w.resetButton.OnTapped = func() {
		w.presenter.OnResetClicked()
	}

	w.scope.OnSecondaryTapped = func(pe *fyneapp.PointEvent) {
		widget.ShowPopUpMenuAtPosition(w.scopeMenu(), w.window.Canvas(), pe.AbsolutePosition)
	}
}

// scopeMenu is the right-click menu of the scope: the aggregation methods
// with the current one checked, then a reset.
func (w *MainWindow) scopeMenu() *fyneapp.Menu {
	methods := domain.AggregationMethods()
	items := make([]*fyneapp.MenuItem, 0, len(methods)+2)
	for _, m := range methods {
		item := fyneapp.NewMenuItem(m.String(), func() {
			w.presenter.OnAggregationSelected(m.String())
		})
		item.Checked = w.aggregateSelect.Selected == m.String()
		items = append(items, item)
	}
	items = append(items,
		fyneapp.NewMenuItemSeparator(),
		fyneapp.NewMenuItem("Reset Settings", func() {
			w.presenter.OnResetClicked()
		}),
	)
	return fyneapp.NewMenu("", items...)
}

// applyWindow forwards the sample range entries.
func (w *MainWindow) applyWindow() {
	minSample, errMin := strconv.Atoi(strings.TrimSpace(w.minEntry.Text))
	maxSample, errMax := strconv.Atoi(strings.TrimSpace(w.maxEntry.Text))
	if errMin != nil || errMax != nil {
		w.ShowNotification("Invalid Setting", "sample range must be two whole numbers")
		return
	}
	w.presenter.OnWindowChanged(minSample, maxSample)
}

// createMenu creates the application menu.
func (w *MainWindow) createMenu() []*fyneapp.Menu {
	separator := fyneapp.NewMenuItemSeparator()

	openFile := fyneapp.NewMenuItem("Open", func() {
		w.handleOpenFile()
	})

	w.recentMenu = fyneapp.NewMenuItem("Open Recent", nil)
	w.recentMenu.ChildMenu = w.buildRecentMenu(nil)

	exitMenu := fyneapp.NewMenuItem("Exit", func() {
		w.window.Close()
	})

	about := fyneapp.NewMenuItem("About", func() {
		w.showAbout()
	})

	return []*fyneapp.Menu{
		fyneapp.NewMenu("File", openFile, w.recentMenu, separator, exitMenu),
		fyneapp.NewMenu("Help", about),
	}
}

// buildRecentMenu lists paths by base name, with a clear action at the end.
func (w *MainWindow) buildRecentMenu(paths []string) *fyneapp.Menu {
	if len(paths) == 0 {
		empty := fyneapp.NewMenuItem("No recent files", nil)
		empty.Disabled = true
		return fyneapp.NewMenu("", empty)
	}

	items := make([]*fyneapp.MenuItem, 0, len(paths)+2)
	for _, path := range paths {
		items = append(items, fyneapp.NewMenuItem(filepath.Base(path), func() {
			w.openPath(path)
		}))
	}
	items = append(items,
		fyneapp.NewMenuItemSeparator(),
		fyneapp.NewMenuItem("Clear Recent", func() {
			if w.presenter != nil {
				w.presenter.OnClearRecentClicked()
			}
		}),
	)
	return fyneapp.NewMenu("", items...)
}

// handleOpenFile handles the "Open File" menu action.
func (w *MainWindow) handleOpenFile() {
	if w.presenter == nil {
		return
	}

	d := NewFileDialog(w.window, w.extensions, w.openPath, w.logger)
	d.Show()
}

func (w *MainWindow) openPath(filePath string) {
	if w.presenter == nil {
		return
	}
	if err := w.presenter.OnFileOpened(filePath); err != nil {
		w.logger.Warn("failed to open file", slog.String("path", filePath), slog.Any("error", err))
	}
}

func (w *MainWindow) showAbout() {
	content := widget.NewRichTextFromMarkdown(res.AboutContent)
	content.Wrapping = fyneapp.TextWrapWord
	d := dialog.NewCustom("About "+APPNAME, "Close", content, w.window)
	d.Resize(fyneapp.NewSize(420, 260))
	d.Show()
}

// addShortcuts adds keyboard shortcuts.
func (w *MainWindow) addShortcuts() {
	w.window.Canvas().AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyneapp.KeyO,
		Modifier: fyneapp.KeyModifierShortcutDefault,
	}, func(fyneapp.Shortcut) {
		w.handleOpenFile()
	})

	// Alt+Up zooms in on the amplitude axis, Alt+Down zooms out
	w.window.Canvas().AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyneapp.KeyUp,
		Modifier: fyneapp.KeyModifierAlt,
	}, func(fyneapp.Shortcut) {
		w.stepAmplitude(-1)
	})

	w.window.Canvas().AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyneapp.KeyDown,
		Modifier: fyneapp.KeyModifierAlt,
	}, func(fyneapp.Shortcut) {
		w.stepAmplitude(1)
	})
}

// stepAmplitude moves the amplitude select by delta choices.
func (w *MainWindow) stepAmplitude(delta int) {
	i := w.amplitudeSelect.SelectedIndex() + delta
	if i < 0 || i >= len(w.amplitudeSelect.Options) {
		return
	}
	w.amplitudeSelect.SetSelectedIndex(i)
}

// ShowAndRun shows the window and runs the application.
func (w *MainWindow) ShowAndRun() {
	w.window.ShowAndRun()
}

// SetOnClosed sets a callback run after the window closed.
func (w *MainWindow) SetOnClosed(fn func()) {
	w.window.SetOnClosed(fn)
}

// Close closes the window.
// It's safe to call multiple times (idempotent).
func (w *MainWindow) Close() {
	w.closeOnce.Do(func() {
		w.window.Close()
	})
}

// GetWindow returns the underlying Fyne window.
func (w *MainWindow) GetWindow() fyneapp.Window {
	return w.window
}

// ScopeView interface implementation

// RefreshWaveform redraws the traces.
func (w *MainWindow) RefreshWaveform() {
	fyneapp.Do(w.scope.RefreshWaveform)
}

// RefreshScale redraws the grid and tick labels.
func (w *MainWindow) RefreshScale() {
	fyneapp.Do(w.scope.RefreshScale)
}

// SetSettings updates the controls to the effective settings.
func (w *MainWindow) SetSettings(settings domain.ScopeSettings) {
	fyneapp.Do(func() {
		w.applySettings(settings)
	})
}

func (w *MainWindow) applySettings(settings domain.ScopeSettings) {
	w.updating = true
	defer func() { w.updating = false }()

	amplitude := formatAmplitude(settings.Amplitude)
	if !slices.Contains(w.amplitudeSelect.Options, amplitude) {
		w.amplitudeSelect.Options = append(w.amplitudeSelect.Options, amplitude)
	}
	w.amplitudeSelect.SetSelected(amplitude)
	w.aggregateSelect.SetSelected(settings.Aggregation.String())

	w.minEntry.SetText(strconv.Itoa(settings.Window.Min))
	if settings.Window.Max > 0 {
		w.maxEntry.SetText(strconv.Itoa(settings.Window.Max))
	} else {
		w.maxEntry.SetText("")
	}
}

// SetSourceInfo updates the title and status line.
func (w *MainWindow) SetSourceInfo(info domain.SourceInfo) {
	fyneapp.Do(func() {
		w.applySourceInfo(info)
	})
}

func (w *MainWindow) applySourceInfo(info domain.SourceInfo) {
	title := info.Name
	if info.Artist != "" && info.Name != "" {
		title = fmt.Sprintf("%s - %s", info.Artist, info.Name)
	}
	if title == "" {
		title = "Unknown source"
	}

	w.window.SetTitle(fmt.Sprintf("%s - %s", APPNAME, title))
	w.sourceInfo.SetText(fmt.Sprintf("%s | %d Hz | %d ch | %d samples",
		title, info.SampleRate, info.Channels, info.BlockSize))
}

// SetRecentFiles rebuilds the Open Recent submenu.
func (w *MainWindow) SetRecentFiles(paths []string) {
	fyneapp.Do(func() {
		w.applyRecentFiles(paths)
	})
}

func (w *MainWindow) applyRecentFiles(paths []string) {
	w.recentMenu.ChildMenu = w.buildRecentMenu(paths)
	w.mainMenu.Refresh()
}

// ShowNotification displays a system notification.
func (w *MainWindow) ShowNotification(title, message string) {
	w.app.SendNotification(fyneapp.NewNotification(title, message))
}

func formatAmplitude(a float64) string {
	return strconv.FormatFloat(a, 'g', -1, 64)
}

// Verify ScopeView implementation
var _ ports.ScopeView = (*MainWindow)(nil)
