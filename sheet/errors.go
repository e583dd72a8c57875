package sheet

import (
	"errors"
	"fmt"
)

// ErrInvalidGrid matches every *InvalidGridError through errors.Is.
var ErrInvalidGrid = errors.New("sheet: invalid grid")

// InvalidGridError reports a grid that cannot partition an image into
// non-empty cells.
type InvalidGridError struct {
	Columns int
	Rows    int
	Width   int
	Height  int
	Reason  string
}

func (e *InvalidGridError) Error() string {
	if e.Width == 0 && e.Height == 0 {
		return fmt.Sprintf("sheet: invalid grid %dx%d: %s", e.Columns, e.Rows, e.Reason)
	}
	return fmt.Sprintf("sheet: invalid grid %dx%d for %dx%d image: %s", e.Columns, e.Rows, e.Width, e.Height, e.Reason)
}

func (e *InvalidGridError) Is(target error) bool {
	return target == ErrInvalidGrid
}
