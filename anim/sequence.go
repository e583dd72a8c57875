package anim

import (
	"fmt"
	"time"

	"github.com/milk9111/sheetsmith/sheet"
)

// DefaultFPS is the playback rate given to every assembled sequence unless
// Options.FPS says otherwise.
const DefaultFPS = 12.0

// Namer overrides the display name of a sequence.
type Namer func(kind Kind, row int, suffix string) (string, error)

// Options configures Assemble.
type Options struct {
	// Suffix is appended to every name as "{Kind}_{Suffix}".
	Suffix string
	// FPS defaults to DefaultFPS when <= 0.
	FPS float64
	// Namer, when set, replaces the default naming.
	Namer Namer
}

// Sequence is one row of a sprite sheet played as a flipbook.
type Sequence struct {
	Kind   Kind
	Name   string
	Row    int
	FPS    float64
	Frames []*sheet.SpriteCell
}

// Len returns the number of frames.
func (s *Sequence) Len() int { return len(s.Frames) }

// Duration is the time one pass over all frames takes.
func (s *Sequence) Duration() time.Duration {
	if s == nil || s.FPS <= 0 {
		return 0
	}
	return time.Duration(float64(len(s.Frames)) / s.FPS * float64(time.Second))
}

// DisplayName is the default sequence name.
func DisplayName(kind Kind, suffix string) string {
	if suffix == "" {
		return kind.String()
	}
	return kind.String() + "_" + suffix
}

// Assemble groups row-major cells (as returned by sheet.Slice) into one
// sequence per grid row. Sequence i references cells [i*C, i*C+C) in column
// order. Either the whole grid assembles or an error is returned.
func Assemble(cells []sheet.SpriteCell, grid sheet.GridSpec, opts Options) ([]Sequence, error) {
	if err := grid.Validate(); err != nil {
		return nil, err
	}
	if want := grid.Cells(); len(cells) != want {
		return nil, &CellCountMismatchError{Expected: want, Actual: len(cells)}
	}

	fps := opts.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}

	seqs := make([]Sequence, grid.Rows)
	for row := 0; row < grid.Rows; row++ {
		kind := KindForRow(row)
		name := DisplayName(kind, opts.Suffix)
		if opts.Namer != nil {
			n, err := opts.Namer(kind, row, opts.Suffix)
			if err != nil {
				return nil, fmt.Errorf("anim: name row %d: %w", row, err)
			}
			if n != "" {
				name = n
			}
		}

		frames := make([]*sheet.SpriteCell, grid.Columns)
		for col := 0; col < grid.Columns; col++ {
			frames[col] = &cells[row*grid.Columns+col]
		}
		seqs[row] = Sequence{Kind: kind, Name: name, Row: row, FPS: fps, Frames: frames}
	}
	return seqs, nil
}

// ByKind indexes sequences by kind. Unknown rows are skipped and the first
// sequence of a kind wins.
func ByKind(seqs []Sequence) map[Kind]*Sequence {
	out := make(map[Kind]*Sequence, len(seqs))
	for i := range seqs {
		k := seqs[i].Kind
		if k == Unknown {
			continue
		}
		if _, ok := out[k]; !ok {
			out[k] = &seqs[i]
		}
	}
	return out
}
