package recipes

import (
	"fmt"
	"image/color"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/milk9111/sheetsmith/anim"
	"github.com/milk9111/sheetsmith/sheet"
	"gopkg.in/yaml.v3"
)

// MaxGridDimension bounds columns and rows of a recipe.
const MaxGridDimension = 100

const (
	DefaultColumns   = 6
	DefaultRows      = 8
	DefaultSourceDir = "RawAssets"
	DefaultDestDir   = "Content"
)

// Recipe describes how one sprite sheet is processed.
type Recipe struct {
	Name         string      `yaml:"name"`
	Texture      string      `yaml:"texture"`
	Columns      int         `yaml:"columns"`
	Rows         int         `yaml:"rows"`
	Suffix       string      `yaml:"suffix"`
	FPS          float64     `yaml:"fps"`
	SourceDir    string      `yaml:"source_dir"`
	DestDir      string      `yaml:"dest_dir"`
	NamingScript string      `yaml:"naming_script"`
	Character    bool        `yaml:"character"`
	Preview      PreviewSpec `yaml:"preview"`
}

type PreviewSpec struct {
	Background *YAMLColor `yaml:"background"`
	Scale      float64    `yaml:"scale"`
}

// LoadRecipe loads, defaults and validates the named recipe.
func LoadRecipe(name string) (*Recipe, error) {
	data, err := Load(name)
	if err != nil {
		return nil, fmt.Errorf("recipes: load %s: %w", name, err)
	}
	r, err := ParseRecipe(data)
	if err != nil {
		return nil, fmt.Errorf("recipes: %s: %w", name, err)
	}
	return r, nil
}

// ParseRecipe decodes a recipe document and fills in defaults.
func ParseRecipe(data []byte) (*Recipe, error) {
	var r Recipe
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	r.applyDefaults()
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *Recipe) applyDefaults() {
	if r.Texture == "" {
		r.Texture = r.Name
	}
	if r.Name == "" {
		r.Name = strings.TrimSuffix(r.Texture, filepath.Ext(r.Texture))
	}
	if r.Columns == 0 {
		r.Columns = DefaultColumns
	}
	if r.Rows == 0 {
		r.Rows = DefaultRows
	}
	if r.FPS == 0 {
		r.FPS = anim.DefaultFPS
	}
	if r.SourceDir == "" {
		r.SourceDir = DefaultSourceDir
	}
	if r.DestDir == "" {
		r.DestDir = DefaultDestDir
	}
	if r.Preview.Scale == 0 {
		r.Preview.Scale = 2
	}
}

// Validate checks the recipe after defaults have been applied.
func (r *Recipe) Validate() error {
	if r.Texture == "" {
		return fmt.Errorf("texture is required")
	}
	if err := ValidateName(r.Texture); err != nil {
		return err
	}
	if err := r.Grid().Validate(); err != nil {
		return err
	}
	if r.Columns > MaxGridDimension || r.Rows > MaxGridDimension {
		return fmt.Errorf("grid %dx%d exceeds %d", r.Columns, r.Rows, MaxGridDimension)
	}
	if r.FPS < 0 {
		return fmt.Errorf("fps must be positive, got %v", r.FPS)
	}
	return nil
}

// Grid returns the recipe's grid.
func (r *Recipe) Grid() sheet.GridSpec {
	return sheet.GridSpec{Columns: r.Columns, Rows: r.Rows}
}

// BaseName is the texture name without directory or extension.
func (r *Recipe) BaseName() string {
	return strings.TrimSuffix(filepath.Base(r.Texture), filepath.Ext(r.Texture))
}

// ValidateName rejects texture names that would escape the source directory.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("empty texture name")
	}
	s := filepath.ToSlash(name)
	if strings.HasPrefix(s, "/") || filepath.IsAbs(name) {
		return fmt.Errorf("texture name %q must be relative", name)
	}
	for _, part := range strings.Split(s, "/") {
		if part == ".." {
			return fmt.Errorf("texture name %q escapes the source directory", name)
		}
	}
	return nil
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
