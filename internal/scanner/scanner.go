// Package scanner lists the poster images in the source directory and
// derives the collection name each one targets.
package scanner

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// imageExtensions is the allow-list of poster file formats, matched
// case-insensitively. .tbn is the legacy XBMC/Kodi thumbnail format
// that Plex still accepts.
var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".tbn":  {},
}

// ImageFile describes one eligible poster image found in the source
// directory.
type ImageFile struct {
	// Name is the file's base name including extension.
	Name string
	// Path is the full path to the file.
	Path string
	// Collection is the collection name the file targets: the base name
	// with the extension stripped, or its alias when one is configured.
	Collection string
}

// Scan lists eligible image files in dir, in directory listing order.
// Directories and non-regular entries are skipped, as are files outside
// the extension allow-list. A missing directory is a warning, not an
// error: the result is simply empty.
//
// aliases maps file base names (without extension) to replacement
// collection names; pass the result of LoadAliases, or nil.
func Scan(dir string, aliases map[string]string, logger *slog.Logger) []ImageFile {
	var files []ImageFile

	if _, err := os.Stat(dir); err != nil {
		logger.Warn("poster folder does not exist", slog.String("dir", dir))
		return files
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Error("reading poster folder", slog.String("dir", dir), slog.Any("error", err))
		return files
	}

	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}

		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if _, ok := imageExtensions[ext]; !ok {
			continue
		}

		collection := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		if alias, ok := aliases[collection]; ok {
			collection = alias
		}

		files = append(files, ImageFile{
			Name:       entry.Name(),
			Path:       filepath.Join(dir, entry.Name()),
			Collection: collection,
		})

		logger.Debug("found image file",
			slog.String("file", entry.Name()),
			slog.String("collection", collection),
		)
	}

	return files
}

// Eligible reports whether name has an allow-listed image extension.
// Used by watch mode to decide whether a filesystem event warrants a
// re-sync.
func Eligible(name string) bool {
	_, ok := imageExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}
