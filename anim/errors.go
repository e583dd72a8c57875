package anim

import (
	"errors"
	"fmt"
)

// ErrCellCountMismatch matches every *CellCountMismatchError through errors.Is.
var ErrCellCountMismatch = errors.New("anim: cell count mismatch")

// CellCountMismatchError is returned when the assembler receives a number of
// cells that does not match the grid.
type CellCountMismatchError struct {
	Expected int
	Actual   int
}

func (e *CellCountMismatchError) Error() string {
	return fmt.Sprintf("anim: cell count mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *CellCountMismatchError) Is(target error) bool {
	return target == ErrCellCountMismatch
}
