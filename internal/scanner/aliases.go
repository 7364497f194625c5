package scanner

import (
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// AliasFileName is the optional per-folder alias file. It maps file base
// names to collection titles for posters whose titles cannot legally
// appear in a file name (slashes, colons, trailing dots on Windows).
const AliasFileName = ".poster_aliases.yaml"

// LoadAliases reads the alias file from dir. A missing file yields an
// empty map. A malformed file is logged and otherwise ignored, the same
// policy as a corrupt state cache: never fatal.
func LoadAliases(dir string, logger *slog.Logger) map[string]string {
	path := filepath.Join(dir, AliasFileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("reading alias file", slog.String("path", path), slog.Any("error", err))
		}

		return map[string]string{}
	}

	aliases := make(map[string]string)
	if err := yaml.Unmarshal(data, &aliases); err != nil {
		logger.Warn("parsing alias file", slog.String("path", path), slog.Any("error", err))
		return map[string]string{}
	}

	logger.Debug("loaded aliases", slog.Int("count", len(aliases)))

	return aliases
}
