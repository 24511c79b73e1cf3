package workbook

import (
	"errors"
	"fmt"
)

// ErrCellOutOfRange is returned for a cell name that is not a worksheet reference,
// e.g. one accepted by a custom name pattern but beyond column XFD.
var ErrCellOutOfRange = errors.New("cell name is not a worksheet reference")

var ErrSheetNotFound = errors.New("worksheet not found")

// WorkbookError reports which workbook and worksheet an export or import failed on.
type WorkbookError struct {
	Path  string
	Sheet string
	Err   error
}

func (e *WorkbookError) Error() string {
	return fmt.Sprintf("workbook %q sheet %q: %v", e.Path, e.Sheet, e.Err)
}

func (e *WorkbookError) Unwrap() error {
	return e.Err
}
