package sheet

import (
	"context"
	"errors"
	"fmt"
	"image"

	"golang.org/x/sync/errgroup"
)

// GridSpec partitions a sprite sheet into Columns x Rows equally sized cells.
type GridSpec struct {
	Columns int `yaml:"columns" json:"columns"`
	Rows    int `yaml:"rows" json:"rows"`
}

// Cells returns the number of cells the grid produces.
func (g GridSpec) Cells() int { return g.Columns * g.Rows }

// Validate checks the grid on its own, without an image.
func (g GridSpec) Validate() error {
	if g.Columns < 1 || g.Rows < 1 {
		return &InvalidGridError{Columns: g.Columns, Rows: g.Rows, Reason: "columns and rows must be >= 1"}
	}
	return nil
}

// CellSize returns the per-cell pixel size for an image of w x h. Leftover
// pixels are not distributed: 65 pixels over 6 columns gives 10.
func (g GridSpec) CellSize(w, h int) (int, int) {
	if g.Columns < 1 || g.Rows < 1 {
		return 0, 0
	}
	return w / g.Columns, h / g.Rows
}

// Remainder returns how many pixels on the right and bottom edges fall
// outside every cell.
func (g GridSpec) Remainder(w, h int) (int, int) {
	cw, ch := g.CellSize(w, h)
	return w - cw*g.Columns, h - ch*g.Rows
}

func (g GridSpec) geometry(w, h int) (int, int, error) {
	if err := g.Validate(); err != nil {
		var ig *InvalidGridError
		if errors.As(err, &ig) {
			ig.Width, ig.Height = w, h
		}
		return 0, 0, err
	}
	cw, ch := g.CellSize(w, h)
	if cw <= 0 || ch <= 0 {
		return 0, 0, &InvalidGridError{
			Columns: g.Columns,
			Rows:    g.Rows,
			Width:   w,
			Height:  h,
			Reason:  fmt.Sprintf("cell size %dx%d is empty", cw, ch),
		}
	}
	return cw, ch, nil
}

// SpriteCell is one extracted grid cell. Pix is an independent copy laid out
// like SourceImage.Pix.
type SpriteCell struct {
	Name   string
	Row    int
	Col    int
	Width  int
	Height int
	Stride int
	Pix    []byte
}

// CellName builds the sprite name for the cell at row/col.
func CellName(base string, row, col int) string {
	if base == "" {
		return fmt.Sprintf("R%d_C%d", row, col)
	}
	return fmt.Sprintf("%s_R%d_C%d", base, row, col)
}

// Image returns the cell as a standard library image (NRGBA or Gray).
func (c *SpriteCell) Image() image.Image {
	return toImage(c.Width, c.Height, c.Stride, c.Pix)
}

// Slice cuts src into grid.Rows*grid.Columns cells ordered row by row:
// row 0 col 0, row 0 col 1, ..., row 1 col 0, ... The returned cells do not
// share memory with src. Nothing is allocated when the grid is invalid.
func Slice(src *SourceImage, grid GridSpec, base string) ([]SpriteCell, error) {
	if src == nil {
		return nil, errors.New("sheet: nil source image")
	}
	cw, ch, err := grid.geometry(src.Width, src.Height)
	if err != nil {
		return nil, err
	}
	if err := src.check(); err != nil {
		return nil, err
	}

	cells := make([]SpriteCell, grid.Cells())
	for row := 0; row < grid.Rows; row++ {
		for col := 0; col < grid.Columns; col++ {
			cells[row*grid.Columns+col] = src.extract(row, col, cw, ch, base)
		}
	}
	return cells, nil
}

// SliceConcurrent is Slice with cells extracted by up to workers goroutines.
// The result is identical to Slice; workers <= 0 means no limit.
func SliceConcurrent(ctx context.Context, src *SourceImage, grid GridSpec, base string, workers int) ([]SpriteCell, error) {
	if src == nil {
		return nil, errors.New("sheet: nil source image")
	}
	cw, ch, err := grid.geometry(src.Width, src.Height)
	if err != nil {
		return nil, err
	}
	if err := src.check(); err != nil {
		return nil, err
	}

	cells := make([]SpriteCell, grid.Cells())
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i := range cells {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			// each goroutine owns slot i
			cells[i] = src.extract(i/grid.Columns, i%grid.Columns, cw, ch, base)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return cells, nil
}

// extract copies one cell, one destination row per copy call.
func (s *SourceImage) extract(row, col, cw, ch int, base string) SpriteCell {
	rowBytes := cw * s.Stride
	pitch := s.Width * s.Stride
	x0 := col * rowBytes
	y0 := row * ch

	pix := make([]byte, rowBytes*ch)
	for y := 0; y < ch; y++ {
		off := (y0+y)*pitch + x0
		copy(pix[y*rowBytes:(y+1)*rowBytes], s.Pix[off:off+rowBytes])
	}

	return SpriteCell{
		Name:   CellName(base, row, col),
		Row:    row,
		Col:    col,
		Width:  cw,
		Height: ch,
		Stride: s.Stride,
		Pix:    pix,
	}
}
