package recipes

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

//go:embed *.yaml
var RecipesFS embed.FS

// Dir is the on-disk directory whose files take precedence over the
// embedded ones.
var Dir = "recipes"

// Load returns the named recipe file, preferring a copy on disk.
func Load(name string) ([]byte, error) {
	clean := cleanRecipePath(name)
	if data, err := os.ReadFile(diskPath(clean)); err == nil {
		return data, nil
	}
	return RecipesFS.ReadFile(clean)
}

// LoadScript returns the named naming script, preferring a copy on disk.
func LoadScript(name string) ([]byte, error) {
	clean := cleanScriptPath(name)
	if data, err := os.ReadFile(diskPath(clean)); err == nil {
		return data, nil
	}
	return ScriptsFS.ReadFile(clean)
}

// ModTime reports when the on-disk copy of a recipe last changed. Embedded
// recipes have none.
func ModTime(name string) (time.Time, bool) {
	clean := cleanRecipePath(name)
	info, err := os.Stat(diskPath(clean))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// Names lists every recipe available on disk or embedded, without extension.
func Names() ([]string, error) {
	seen := map[string]bool{}
	embedded, err := fs.Glob(RecipesFS, "*.yaml")
	if err != nil {
		return nil, err
	}
	onDisk, _ := filepath.Glob(filepath.Join(Dir, "*.yaml"))
	for _, p := range append(embedded, onDisk...) {
		seen[strings.TrimSuffix(filepath.Base(p), ".yaml")] = true
	}
	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)
	return out, nil
}

func cleanRecipePath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "recipes/"); ok {
		s = after
	}
	if !IsRecipeFile(s) {
		s += ".yaml"
	}
	return s
}

func cleanScriptPath(path string) string {
	if path == "" {
		return ""
	}

	s := filepath.ToSlash(path)

	if after, ok := strings.CutPrefix(s, "recipes/scripts/"); ok {
		s = after
	}

	if after, ok := strings.CutPrefix(s, "recipes/"); ok {
		s = after
	}

	if after, ok := strings.CutPrefix(s, "scripts/"); ok {
		s = after
	}

	if !isScriptFile(s) {
		s += ".tengo"
	}
	return fmt.Sprintf("scripts/%s", s)
}

func diskPath(clean string) string {
	return filepath.Join(Dir, filepath.FromSlash(clean))
}
