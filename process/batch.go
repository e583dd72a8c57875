package process

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/milk9111/sheetsmith/anim"
	"github.com/milk9111/sheetsmith/catalog"
	"github.com/milk9111/sheetsmith/codegen"
	"github.com/milk9111/sheetsmith/logging"
	"github.com/milk9111/sheetsmith/recipes"
	"github.com/milk9111/sheetsmith/sheet"
	"golang.org/x/sync/errgroup"
)

const DefaultCharacterPackage = "characters"

type BatchOptions struct {
	SourceDir string
	DestDir   string
	Grid      sheet.GridSpec
	FPS       float64
	Namer     anim.Namer
	// Recipes override the batch defaults for textures with the same base name.
	Recipes map[string]*recipes.Recipe
	// Workers bounds concurrently processed sheets; <= 0 means 4.
	Workers int
	DryRun  bool
	// Characters writes a generated Go file per processed sheet. Sheets whose
	// recipe sets character get one regardless.
	Characters       bool
	CharacterPackage string
}

type Failure struct {
	Texture string
	Err     error
}

type BatchSummary struct {
	Discovered []string
	Results    []*Result
	Failures   []Failure
	Characters []string
}

// Err summarises failures, or returns nil when every sheet succeeded.
func (s *BatchSummary) Err() error {
	if len(s.Failures) == 0 {
		return nil
	}
	names := make([]string, len(s.Failures))
	for i, f := range s.Failures {
		names[i] = f.Texture
	}
	return fmt.Errorf("process: %d of %d sheets failed: %s", len(s.Failures), len(s.Discovered), strings.Join(names, ", "))
}

// Discover lists the sheet images directly inside dir, sorted by name.
func Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("process: %w", err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !recipes.IsImageFile(e.Name()) {
			continue
		}
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out, nil
}

// Batch processes every image in opts.SourceDir. A failing sheet is
// recorded in the summary and does not stop the others; the returned error
// is only set when discovery fails or ctx is cancelled.
func (p *Processor) Batch(ctx context.Context, opts BatchOptions) (*BatchSummary, error) {
	log := logging.FromContext(ctx)

	files, err := Discover(opts.SourceDir)
	if err != nil {
		return nil, err
	}
	summary := &BatchSummary{Discovered: files}
	log.Info("discovered sheets", "dir", opts.SourceDir, "count", len(files), "dry_run", opts.DryRun)
	if opts.DryRun {
		for _, f := range files {
			log.Info("would process", "texture", f)
		}
		return summary, nil
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = 4
	}

	results := make([]*Result, len(files))
	errs := make([]error, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			job, err := opts.job(f)
			if err == nil {
				results[i], err = p.ProcessSheet(gctx, job)
			}
			if err != nil {
				log.Error("sheet failed", "texture", f, "err", err)
				errs[i] = err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return summary, err
	}
	if err := ctx.Err(); err != nil {
		return summary, err
	}

	for i, f := range files {
		if errs[i] != nil {
			summary.Failures = append(summary.Failures, Failure{Texture: f, Err: errs[i]})
			continue
		}
		summary.Results = append(summary.Results, results[i])
	}

	for _, res := range summary.Results {
		if !opts.Characters && !res.Job.Character {
			continue
		}
		path, err := WriteCharacter(opts.DestDir, opts.CharacterPackage, res)
		if err != nil {
			return summary, err
		}
		summary.Characters = append(summary.Characters, path)
	}
	return summary, nil
}

func (o BatchOptions) job(file string) (Job, error) {
	base := strings.TrimSuffix(file, filepath.Ext(file))
	if r, ok := o.Recipes[strings.ToLower(base)]; ok {
		job, err := JobFromRecipe(r)
		if err != nil {
			return Job{}, err
		}
		job.Texture = file
		job.SourceDir = o.SourceDir
		job.DestDir = o.DestDir
		return job, nil
	}
	return Job{
		Texture:   file,
		SourceDir: o.SourceDir,
		DestDir:   o.DestDir,
		Grid:      o.Grid,
		Suffix:    base,
		FPS:       o.FPS,
		Namer:     o.Namer,
	}, nil
}

// WriteCharacter generates the character file for a processed sheet under
// dest/pkg and returns its path. Only flipbooks present in the manifest are
// bound.
func WriteCharacter(dest, pkg string, res *Result) (string, error) {
	if pkg == "" {
		pkg = DefaultCharacterPackage
	}
	base := res.Job.BaseName()
	src, err := codegen.Character(pkg, base, base, bindings(res.Manifest))
	if err != nil {
		return "", fmt.Errorf("process: character %s: %w", base, err)
	}
	dir := filepath.Join(dest, pkg)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("process: %w", err)
	}
	path := filepath.Join(dir, codegen.FileName(base))
	if err := os.WriteFile(path, src, 0644); err != nil {
		return "", fmt.Errorf("process: %w", err)
	}
	return path, nil
}

// bindings maps each known animation kind in m to its flipbook name.
func bindings(m *catalog.Manifest) []codegen.Binding {
	var out []codegen.Binding
	for _, fb := range m.Flipbooks {
		if fb.Kind == anim.Unknown {
			continue
		}
		out = append(out, codegen.Binding{Kind: fb.Kind, Flipbook: fb.Name})
	}
	return out
}
