package fyne

import (
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
)

// FileDialog is a helper for creating audio file open dialogs.
type FileDialog struct {
	window     fyne.Window
	extensions []string
	callback   func(string)
	logger     *slog.Logger
}

// NewFileDialog creates a new file dialog that lists files with one of
// extensions (".wav", ".mp3", ...). An empty list shows every file.
func NewFileDialog(window fyne.Window, extensions []string, callback func(string), logger *slog.Logger) *FileDialog {
	return &FileDialog{
		window:     window,
		extensions: extensions,
		callback:   callback,
		logger:     logger,
	}
}

// Show displays the file dialog.
func (d *FileDialog) Show() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			d.logger.Error("file dialog error", slog.Any("error", err))
			return
		}
		if reader == nil {
			return // User cancelled
		}
		defer reader.Close()

		// Get file path
		filePath := reader.URI().Path()
		if d.callback != nil {
			d.callback(filePath)
		}
	}, d.window)

	if len(d.extensions) > 0 {
		fd.SetFilter(storage.NewExtensionFileFilter(d.extensions))
	}
	fd.Show()
}
