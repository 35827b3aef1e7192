package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/titanous/json5"
)

// LocalPath returns the override file of a config file,
// ex. "conf/config.json5" -> "conf/config.local.json5".
func LocalPath(name string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + ".local" + ext
}

// ReadFile decodes the json5 file `name` and then LocalPath(name) onto base,
// so a key set in a later layer wins, zero values included, and keys no file
// sets keep the value of base. Either file may be missing but os.ErrNotExist
// is returned along with base if both are.
func ReadFile[T any](name string, base T) (T, error) {
	out := base
	found := false

	for i, path := range []string{name, LocalPath(name)} {
		contents, err := os.ReadFile(path)
		if os.IsNotExist(err) || (err == nil && len(contents) == 0) {
			continue
		}
		if err != nil {
			return out, err
		}

		err = json5.Unmarshal(contents, &out)
		if err != nil {
			return out, fmt.Errorf("parse %s: %w", path, err)
		}
		if i > 0 {
			slog.Info("merged config with local overrides", "local", path)
		}
		found = true
	}

	if !found {
		return out, os.ErrNotExist
	}
	return out, nil
}
