package memory

import (
	"encoding/json"
	"slices"
	"sync"

	"fyne.io/fyne/v2"

	"github.com/tejashwikalptaru/goscope/internal/domain"
	"github.com/tejashwikalptaru/goscope/internal/ports"
)

const keyRecentFiles = "history.recent_files"

// DefaultRecentLimit is how many files RecentFilesRepository remembers.
const DefaultRecentLimit = 8

// RecentFilesRepository implements ports.RecentFilesRepository using Fyne
// preferences. The list is stored as JSON, most recent first.
//
// Thread-safe: All operations protected by sync.RWMutex.
type RecentFilesRepository struct {
	prefs fyne.Preferences
	limit int
	mu    sync.RWMutex
}

// NewRecentFilesRepository creates a recent files repository keeping at
// most limit paths. limit <= 0 means DefaultRecentLimit.
func NewRecentFilesRepository(prefs fyne.Preferences, limit int) *RecentFilesRepository {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return &RecentFilesRepository{
		prefs: prefs,
		limit: limit,
	}
}

// AddRecent moves path to the front of the list, dropping the oldest entry
// once the list is full.
func (r *RecentFilesRepository) AddRecent(path string) error {
	if path == "" {
		return domain.NewRepositoryError("add", "recent", "empty path", domain.ErrInvalidFilePath)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	paths, err := r.load()
	if err != nil {
		// a corrupt list is replaced
		paths = nil
	}

	paths = slices.DeleteFunc(paths, func(p string) bool { return p == path })
	paths = append([]string{path}, paths...)
	if len(paths) > r.limit {
		paths = paths[:r.limit]
	}

	data, err := json.Marshal(paths)
	if err != nil {
		return domain.NewRepositoryError("add", "recent", "failed to marshal paths", err)
	}
	r.prefs.SetString(keyRecentFiles, string(data))
	return nil
}

// LoadRecent returns the remembered paths, most recent first.
func (r *RecentFilesRepository) LoadRecent() ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	paths, err := r.load()
	if err != nil {
		return nil, domain.NewRepositoryError("load", "recent", "failed to unmarshal paths", err)
	}
	return paths, nil
}

func (r *RecentFilesRepository) load() ([]string, error) {
	data := r.prefs.String(keyRecentFiles)
	if data == "" {
		return []string{}, nil
	}

	var paths []string
	if err := json.Unmarshal([]byte(data), &paths); err != nil {
		return nil, err
	}
	return paths, nil
}

// Clear forgets every path.
func (r *RecentFilesRepository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prefs.RemoveValue(keyRecentFiles)
	return nil
}

// Verify interface implementation
var _ ports.RecentFilesRepository = (*RecentFilesRepository)(nil)
