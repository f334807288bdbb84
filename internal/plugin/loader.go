package plugin

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Script is a discovered plugin file.
type Script struct {
	Name string
	Path string
}

// DefaultPaths returns the user and project plugin directories.
func DefaultPaths() []string {
	var paths []string
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "pmedit", "plugins"))
	}
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".pmedit", "plugins"))
	}
	return paths
}

// Discover lists the *.lua files in paths. Missing directories are
// skipped. A name found in a later path replaces the earlier one, so
// project plugins override user plugins. The result is sorted by name.
func Discover(paths ...string) ([]Script, error) {
	byName := make(map[string]Script)
	for _, dir := range paths {
		entries, err := os.ReadDir(dir)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.IsDir() || filepath.Ext(e.Name()) != ".lua" {
				continue
			}
			name := strings.TrimSuffix(e.Name(), ".lua")
			byName[name] = Script{Name: name, Path: filepath.Join(dir, e.Name())}
		}
	}

	scripts := make([]Script, 0, len(byName))
	for _, s := range byName {
		scripts = append(scripts, s)
	}
	sort.Slice(scripts, func(i, j int) bool {
		return scripts[i].Name < scripts[j].Name
	})
	return scripts, nil
}
