package spreadsheet

import (
	"errors"
	"fmt"
)

var ErrInvalidName = errors.New("invalid cell name")

var ErrNullContent = errors.New("cell contents are null")

var ErrCircularDependency = errors.New("circular dependency")

var ErrDuplicateName = errors.New("duplicate cell name")

var ErrLoad = errors.New("spreadsheet load failure")

// CircularDependencyError rejects an edit whose formula would make Cell
// depend on itself. The spreadsheet is left as it was before the edit.
type CircularDependencyError struct {
	Cell string
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("%s: %s", e.Cell, ErrCircularDependency)
}

func (e *CircularDependencyError) Is(target error) bool {
	return target == ErrCircularDependency
}

// LoadError reports the record that stopped a load.
type LoadError struct {
	Name string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%s: %v", ErrLoad, e.Err)
	}
	return fmt.Sprintf("%s: cell %s: %v", ErrLoad, e.Name, e.Err)
}

func (e *LoadError) Is(target error) bool {
	return target == ErrLoad
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
