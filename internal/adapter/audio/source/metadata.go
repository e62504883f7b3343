package source

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
)

// Metadata is the descriptive part of a file's tags.
type Metadata struct {
	Title  string
	Artist string
	Album  string
}

// ReadMetadata reads the title, artist and album tags of the file at path.
// Files without readable tags get the file name as title.
func ReadMetadata(path string) Metadata {
	meta := Metadata{Title: filepath.Base(path)}

	file, err := os.Open(path)
	if err != nil {
		return meta
	}
	defer file.Close()

	m, err := tag.ReadFrom(file)
	if err != nil || m == nil {
		return meta
	}

	if title := strings.TrimSpace(m.Title()); title != "" {
		meta.Title = title
	}
	meta.Artist = strings.TrimSpace(m.Artist())
	meta.Album = strings.TrimSpace(m.Album())
	return meta
}
