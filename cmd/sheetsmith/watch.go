package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/milk9111/sheetsmith/process"
	"github.com/milk9111/sheetsmith/recipes"
)

// watch processes once, then again whenever a relevant file changes, until
// ctx is cancelled.
func watch(ctx context.Context, p *process.Processor, cfg *config, stdout io.Writer) error {
	if err := runOnce(ctx, p, cfg, stdout); err != nil {
		slog.Error("processing failed", "err", err)
	}

	dirs := []string{cfg.SourceDir}
	if info, err := os.Stat(recipes.Dir); err == nil && info.IsDir() {
		dirs = append(dirs, recipes.Dir)
		if info, err := os.Stat(filepath.Join(recipes.Dir, "scripts")); err == nil && info.IsDir() {
			dirs = append(dirs, filepath.Join(recipes.Dir, "scripts"))
		}
	}
	w, err := recipes.NewWatcher(dirs...)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()
	slog.Info("watching for changes", "dirs", dirs)

	seen := stamps{}
	if names, err := recipes.Names(); err == nil {
		for _, n := range names {
			seen.changed(n + ".yaml")
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", "err", err)
		case path, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !affects(cfg, path) || !seen.changed(path) {
				continue
			}
			slog.Info("change detected", "path", path)
			if err := runOnce(ctx, p, cfg, stdout); err != nil {
				slog.Error("processing failed", "err", err)
			}
		}
	}
}

// affects reports whether a change to path should trigger re-processing.
// In single mode only the configured texture's image counts; recipes and
// scripts always do.
func affects(cfg *config, path string) bool {
	if !recipes.IsImageFile(path) {
		return true
	}
	if cfg.Batch {
		return true
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	tex := strings.TrimSuffix(filepath.Base(cfg.Texture), filepath.Ext(cfg.Texture))
	if cfg.Recipe != "" && !cfg.isSet("texture") {
		if r, err := recipes.LoadRecipe(cfg.Recipe); err == nil {
			tex = r.BaseName()
		}
	}
	return strings.EqualFold(base, tex)
}

// stamps holds the last seen modification time of each on-disk recipe.
type stamps map[string]time.Time

// changed reports whether path should be treated as modified. Recipes whose
// modification time matches the last one seen are not; other files always
// are.
func (s stamps) changed(path string) bool {
	if !recipes.IsRecipeFile(path) {
		return true
	}
	name := filepath.Base(path)
	mt, ok := recipes.ModTime(name)
	if !ok {
		delete(s, name)
		return true
	}
	if prev, found := s[name]; found && prev.Equal(mt) {
		return false
	}
	s[name] = mt
	return true
}
