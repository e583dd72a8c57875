package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/milk9111/sheetsmith/anim"
	"github.com/milk9111/sheetsmith/logging"
	"github.com/milk9111/sheetsmith/recipes"
)

// exitError carries the process exit code for a failed invocation.
type exitError struct {
	Code    int
	Message string
}

func (e *exitError) Error() string {
	return e.Message
}

type config struct {
	Texture    string
	Columns    int
	Rows       int
	SourceDir  string
	DestDir    string
	Suffix     string
	FPS        float64
	Naming     string
	Recipe     string
	Batch      bool
	Characters bool
	DryRun     bool
	Workers    int
	Watch      bool
	InputPath  string
	LogLevel   string
	LogFile    string

	// set records the flags given explicitly, by canonical name.
	set map[string]bool
}

var aliases = map[string]string{
	"t": "texture",
	"c": "columns",
	"r": "rows",
	"s": "source",
	"d": "dest",
}

// parseArgs parses command line arguments. It returns the config, whether
// the program should exit cleanly (help), or an *exitError.
func parseArgs(args []string, output io.Writer) (*config, bool, error) {
	cfg := &config{set: map[string]bool{}}
	fs := flag.NewFlagSet("sheetsmith", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.Usage = func() {
		fmt.Fprint(output, `
sheetsmith - slice sprite sheets into sprites and flipbook animations.

Usage:
  sheetsmith -texture=<name> [options]
  sheetsmith -recipe=<name> [options]
  sheetsmith -batch [options]

Examples:
  sheetsmith -texture=Warrior_Blue
  sheetsmith -t=Warrior_Blue -c=6 -r=8
  sheetsmith -batch -characters -workers=8

Options:
`)
		fs.PrintDefaults()
	}

	fs.StringVar(&cfg.Texture, "texture", "", "Texture name in the source directory (extension optional).")
	fs.StringVar(&cfg.Texture, "t", "", "Texture name (shorthand).")
	fs.IntVar(&cfg.Columns, "columns", recipes.DefaultColumns, "Number of grid columns.")
	fs.IntVar(&cfg.Columns, "c", recipes.DefaultColumns, "Number of grid columns (shorthand).")
	fs.IntVar(&cfg.Rows, "rows", recipes.DefaultRows, "Number of grid rows.")
	fs.IntVar(&cfg.Rows, "r", recipes.DefaultRows, "Number of grid rows (shorthand).")
	fs.StringVar(&cfg.SourceDir, "source", recipes.DefaultSourceDir, "Directory containing sprite sheet images.")
	fs.StringVar(&cfg.SourceDir, "s", recipes.DefaultSourceDir, "Source directory (shorthand).")
	fs.StringVar(&cfg.DestDir, "dest", recipes.DefaultDestDir, "Catalog output directory.")
	fs.StringVar(&cfg.DestDir, "d", recipes.DefaultDestDir, "Catalog output directory (shorthand).")
	fs.StringVar(&cfg.Suffix, "suffix", "", "Suffix appended to flipbook names as {Kind}_{suffix}.")
	fs.Float64Var(&cfg.FPS, "fps", anim.DefaultFPS, "Flipbook frame rate.")
	fs.StringVar(&cfg.Naming, "naming", "", "Naming script (tengo) used to name flipbooks.")
	fs.StringVar(&cfg.Recipe, "recipe", "", "Recipe name to process (see recipes/).")
	fs.BoolVar(&cfg.Batch, "batch", false, "Process every image in the source directory.")
	fs.BoolVar(&cfg.Characters, "characters", false, "Generate character Go files for processed sheets (batch).")
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "List the sheets that would be processed (batch).")
	fs.IntVar(&cfg.Workers, "workers", 4, "Number of sheets processed concurrently (batch).")
	fs.BoolVar(&cfg.Watch, "watch", false, "Re-process sheets when their image, recipe or script changes.")
	fs.StringVar(&cfg.InputPath, "input", "", "Write the default player input context to this YAML file.")
	fs.StringVar(&cfg.LogLevel, "log-level", "info", "Console log level: debug, info, warn or error.")
	fs.StringVar(&cfg.LogFile, "log-file", "", "Also write JSON logs to this file (rotated).")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &exitError{Code: 2, Message: err.Error()}
	}
	fs.Visit(func(f *flag.Flag) {
		name := f.Name
		if long, ok := aliases[name]; ok {
			name = long
		}
		cfg.set[name] = true
	})

	if fs.NArg() > 0 {
		if cfg.Texture != "" || fs.NArg() > 1 {
			return nil, false, &exitError{Code: 2, Message: fmt.Sprintf("unexpected arguments: %s", strings.Join(fs.Args(), " "))}
		}
		cfg.Texture = fs.Arg(0)
		cfg.set["texture"] = true
	}

	if err := cfg.validate(); err != nil {
		fs.Usage()
		return nil, false, err
	}
	return cfg, false, nil
}

func (c *config) validate() error {
	usage := func(format string, args ...any) error {
		return &exitError{Code: 2, Message: fmt.Sprintf(format, args...)}
	}

	if c.Texture == "" && c.Recipe == "" && !c.Batch && c.InputPath == "" {
		return usage("missing required parameter: texture (or -recipe / -batch)")
	}
	if c.Batch && c.Recipe != "" {
		return usage("-batch and -recipe are mutually exclusive")
	}
	if c.Texture != "" {
		if err := recipes.ValidateName(c.Texture); err != nil {
			return usage("%v", err)
		}
	}
	if c.Columns < 1 || c.Columns > recipes.MaxGridDimension {
		return usage("columns must be between 1 and %d, got %d", recipes.MaxGridDimension, c.Columns)
	}
	if c.Rows < 1 || c.Rows > recipes.MaxGridDimension {
		return usage("rows must be between 1 and %d, got %d", recipes.MaxGridDimension, c.Rows)
	}
	if c.FPS <= 0 {
		return usage("fps must be positive, got %v", c.FPS)
	}
	if c.Workers < 1 {
		return usage("workers must be at least 1, got %d", c.Workers)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return usage("%v", err)
	}
	if (c.Characters || c.DryRun) && !c.Batch {
		return usage("-characters and -dry-run require -batch")
	}
	return nil
}

func (c *config) isSet(name string) bool {
	return c.set[name]
}
