package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/milk9111/sheetsmith/inputmap"
	"github.com/milk9111/sheetsmith/logging"
	"github.com/milk9111/sheetsmith/process"
	"github.com/milk9111/sheetsmith/recipes"
	"github.com/milk9111/sheetsmith/sheet"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, exit, err := parseArgs(args, stderr)
	if err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			fmt.Fprintln(stderr, "error:", ee.Message)
			return ee.Code
		}
		fmt.Fprintln(stderr, "error:", err)
		return 2
	}
	if exit {
		return 0
	}

	cleanup, err := logging.Init(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile, Console: stderr})
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 2
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logging.WithLogger(ctx, slog.Default())

	if cfg.InputPath != "" {
		if err := inputmap.Save(cfg.InputPath, inputmap.Default()); err != nil {
			slog.Error("write input context", "path", cfg.InputPath, "err", err)
			return 1
		}
		fmt.Fprintf(stdout, "Wrote %s to %s\n", inputmap.PlayerInput, cfg.InputPath)
		if cfg.Texture == "" && cfg.Recipe == "" && !cfg.Batch {
			return 0
		}
	}

	p := &process.Processor{}
	if cfg.Watch {
		if err := watch(ctx, p, cfg, stdout); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("watch stopped", "err", err)
			return 1
		}
		return 0
	}
	if err := runOnce(ctx, p, cfg, stdout); err != nil {
		slog.Error("processing failed", "err", err)
		return 1
	}
	return 0
}

func runOnce(ctx context.Context, p *process.Processor, cfg *config, stdout io.Writer) error {
	if cfg.Batch {
		return runBatch(ctx, p, cfg, stdout)
	}
	job, err := singleJob(cfg)
	if err != nil {
		return err
	}
	res, err := p.ProcessSheet(ctx, job)
	if err != nil {
		return err
	}
	printResult(stdout, res)
	if job.Character {
		path, err := process.WriteCharacter(job.DestDir, process.DefaultCharacterPackage, res)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Generated %s\n", path)
	}
	return nil
}

// singleJob builds the job for one texture. Explicit flags override the
// recipe's values.
func singleJob(cfg *config) (process.Job, error) {
	var job process.Job
	if cfg.Recipe != "" {
		r, err := recipes.LoadRecipe(cfg.Recipe)
		if err != nil {
			return process.Job{}, err
		}
		job, err = process.JobFromRecipe(r)
		if err != nil {
			return process.Job{}, err
		}
	} else {
		job = process.Job{
			Texture:   cfg.Texture,
			SourceDir: cfg.SourceDir,
			DestDir:   cfg.DestDir,
			Grid:      sheet.GridSpec{Columns: cfg.Columns, Rows: cfg.Rows},
			Suffix:    cfg.Suffix,
			FPS:       cfg.FPS,
		}
	}

	if cfg.isSet("texture") {
		job.Texture = cfg.Texture
	}
	if cfg.isSet("source") {
		job.SourceDir = cfg.SourceDir
	}
	if cfg.isSet("dest") {
		job.DestDir = cfg.DestDir
	}
	if cfg.isSet("columns") {
		job.Grid.Columns = cfg.Columns
	}
	if cfg.isSet("rows") {
		job.Grid.Rows = cfg.Rows
	}
	if cfg.isSet("suffix") {
		job.Suffix = cfg.Suffix
	}
	if cfg.isSet("fps") {
		job.FPS = cfg.FPS
	}
	if cfg.Naming != "" {
		namer, err := recipes.LoadNamer(cfg.Naming)
		if err != nil {
			return process.Job{}, err
		}
		job.Namer = namer
	}
	return job, nil
}

func batchOptions(cfg *config) (process.BatchOptions, error) {
	opts := process.BatchOptions{
		SourceDir:  cfg.SourceDir,
		DestDir:    cfg.DestDir,
		Grid:       sheet.GridSpec{Columns: cfg.Columns, Rows: cfg.Rows},
		FPS:        cfg.FPS,
		Workers:    cfg.Workers,
		DryRun:     cfg.DryRun,
		Characters: cfg.Characters,
		Recipes:    loadRecipes(),
	}
	if cfg.Naming != "" {
		namer, err := recipes.LoadNamer(cfg.Naming)
		if err != nil {
			return opts, err
		}
		opts.Namer = namer
	}
	return opts, nil
}

// loadRecipes indexes every available recipe by lower-case texture name.
// Recipes that fail to load are skipped with a warning.
func loadRecipes() map[string]*recipes.Recipe {
	names, err := recipes.Names()
	if err != nil {
		slog.Warn("list recipes", "err", err)
		return nil
	}
	out := make(map[string]*recipes.Recipe, len(names))
	for _, n := range names {
		r, err := recipes.LoadRecipe(n)
		if err != nil {
			slog.Warn("skip recipe", "recipe", n, "err", err)
			continue
		}
		out[strings.ToLower(r.BaseName())] = r
	}
	return out
}

func runBatch(ctx context.Context, p *process.Processor, cfg *config, stdout io.Writer) error {
	opts, err := batchOptions(cfg)
	if err != nil {
		return err
	}
	summary, err := p.Batch(ctx, opts)
	if err != nil {
		return err
	}

	if cfg.DryRun {
		fmt.Fprintf(stdout, "Dry run: %d sheet(s) in %s\n", len(summary.Discovered), cfg.SourceDir)
		for _, f := range summary.Discovered {
			fmt.Fprintf(stdout, "  %s\n", f)
		}
		return nil
	}
	for _, res := range summary.Results {
		printResult(stdout, res)
	}
	for _, path := range summary.Characters {
		fmt.Fprintf(stdout, "Generated %s\n", path)
	}
	for _, f := range summary.Failures {
		fmt.Fprintf(stdout, "FAILED %s: %v\n", f.Texture, f.Err)
	}
	return summary.Err()
}

func printResult(w io.Writer, res *process.Result) {
	m := res.Manifest
	fmt.Fprintf(w, "Processed %s (%dx%d, %dx%d grid, %dx%d cells)\n",
		m.Texture, res.Width, res.Height, m.Grid.Columns, m.Grid.Rows, m.CellWidth, m.CellHeight)
	fmt.Fprintf(w, "  Sprites:   %s (%d)\n", filepath.Join(res.Job.DestDir, "Sprites"), len(m.Sprites))
	fmt.Fprintf(w, "  Flipbooks: %s (%d)\n", filepath.Join(res.Job.DestDir, "Flipbooks"), len(m.Flipbooks))
	for i, fb := range m.Flipbooks {
		fmt.Fprintf(w, "  %d. %s (%d frames @ %gfps)\n", i+1, fb.Name, len(fb.Frames), fb.FPS)
	}
	if res.RemainderX != 0 || res.RemainderY != 0 {
		fmt.Fprintf(w, "  Note: %dx%d trailing pixels were not covered by the grid\n", res.RemainderX, res.RemainderY)
	}
}
