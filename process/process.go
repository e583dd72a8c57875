package process

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/milk9111/sheetsmith/anim"
	"github.com/milk9111/sheetsmith/catalog"
	"github.com/milk9111/sheetsmith/logging"
	"github.com/milk9111/sheetsmith/recipes"
	"github.com/milk9111/sheetsmith/sheet"
)

// imageExts is the lookup order for textures given without an extension.
var imageExts = []string{".png", ".bmp", ".webp"}

// Job is one sprite sheet to process.
type Job struct {
	Texture   string
	SourceDir string
	DestDir   string
	Grid      sheet.GridSpec
	Suffix    string
	FPS       float64
	Namer     anim.Namer
	// Character requests a generated character file next to the catalog.
	Character bool
}

// JobFromRecipe builds a job from a recipe, compiling its naming script.
func JobFromRecipe(r *recipes.Recipe) (Job, error) {
	job := Job{
		Texture:   r.Texture,
		SourceDir: r.SourceDir,
		DestDir:   r.DestDir,
		Grid:      r.Grid(),
		Suffix:    r.Suffix,
		FPS:       r.FPS,
		Character: r.Character,
	}
	if r.NamingScript != "" {
		namer, err := recipes.LoadNamer(r.NamingScript)
		if err != nil {
			return Job{}, err
		}
		job.Namer = namer
	}
	return job, nil
}

// BaseName is the texture without directory or extension.
func (j Job) BaseName() string {
	return strings.TrimSuffix(filepath.Base(j.Texture), filepath.Ext(j.Texture))
}

type Result struct {
	Job        Job
	Source     string
	Width      int
	Height     int
	CellWidth  int
	CellHeight int
	RemainderX int
	RemainderY int
	Sequences  []anim.Sequence
	Manifest   *catalog.Manifest
	Elapsed    time.Duration
}

type Processor struct {
	// SliceWorkers bounds the goroutines used to cut a single sheet.
	SliceWorkers int
}

// ProcessSheet decodes, slices, assembles and saves one sheet. Nothing is
// written unless every step succeeds.
func (p *Processor) ProcessSheet(ctx context.Context, job Job) (*Result, error) {
	start := time.Now()
	log := logging.FromContext(ctx).With("texture", job.Texture)

	if err := recipes.ValidateName(job.Texture); err != nil {
		return nil, fmt.Errorf("process: %w", err)
	}
	if err := job.Grid.Validate(); err != nil {
		return nil, fmt.Errorf("process: %s: %w", job.Texture, err)
	}
	if job.Grid.Columns > recipes.MaxGridDimension || job.Grid.Rows > recipes.MaxGridDimension {
		return nil, fmt.Errorf("process: %s: grid %dx%d exceeds %d", job.Texture, job.Grid.Columns, job.Grid.Rows, recipes.MaxGridDimension)
	}

	path, err := ResolveSource(job.SourceDir, job.Texture)
	if err != nil {
		return nil, fmt.Errorf("process: %w", err)
	}
	src, err := sheet.DecodeFile(path)
	if err != nil {
		return nil, fmt.Errorf("process: %s: %w", job.Texture, err)
	}

	cw, ch := job.Grid.CellSize(src.Width, src.Height)
	rx, ry := job.Grid.Remainder(src.Width, src.Height)
	log.Debug("decoded sheet",
		"path", path,
		"width", src.Width,
		"height", src.Height,
		"columns", job.Grid.Columns,
		"rows", job.Grid.Rows,
		"cell_width", cw,
		"cell_height", ch,
	)
	if rx != 0 || ry != 0 {
		log.Warn("sheet size is not a multiple of the grid; trailing pixels are dropped",
			"remainder_x", rx,
			"remainder_y", ry,
		)
	}

	base := job.BaseName()
	cells, err := sheet.SliceConcurrent(ctx, src, job.Grid, base, p.SliceWorkers)
	if err != nil {
		return nil, fmt.Errorf("process: %s: %w", job.Texture, err)
	}
	seqs, err := anim.Assemble(cells, job.Grid, anim.Options{
		Suffix: job.Suffix,
		FPS:    job.FPS,
		Namer:  job.Namer,
	})
	if err != nil {
		return nil, fmt.Errorf("process: %s: %w", job.Texture, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m, err := catalog.Save(job.DestDir, &catalog.Sheet{
		Texture:   base,
		Source:    path,
		Width:     src.Width,
		Height:    src.Height,
		Grid:      job.Grid,
		Cells:     cells,
		Sequences: seqs,
	})
	if err != nil {
		return nil, fmt.Errorf("process: %s: %w", job.Texture, err)
	}

	res := &Result{
		Job:        job,
		Source:     path,
		Width:      src.Width,
		Height:     src.Height,
		CellWidth:  cw,
		CellHeight: ch,
		RemainderX: rx,
		RemainderY: ry,
		Sequences:  seqs,
		Manifest:   m,
		Elapsed:    time.Since(start),
	}
	log.Info("processed sheet",
		"sprites", len(m.Sprites),
		"flipbooks", len(m.Flipbooks),
		"dest", job.DestDir,
		"elapsed", res.Elapsed,
	)
	return res, nil
}

// ResolveSource finds the image for texture in dir. A texture without an
// extension matches the first existing .png, .bmp or .webp file.
func ResolveSource(dir, texture string) (string, error) {
	if err := recipes.ValidateName(texture); err != nil {
		return "", err
	}
	if filepath.Ext(texture) != "" {
		p := filepath.Join(dir, texture)
		if _, err := os.Stat(p); err != nil {
			return "", fmt.Errorf("source %s: %w", p, err)
		}
		return p, nil
	}
	for _, ext := range imageExts {
		p := filepath.Join(dir, texture+ext)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("source %s: no %s image found in %s", texture, strings.Join(imageExts, "/"), dir)
}
