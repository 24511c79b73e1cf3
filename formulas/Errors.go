package formulas

import (
	"errors"
	"fmt"
)

var ErrFormat = errors.New("invalid formula")

var ErrEvaluation = errors.New("formula evaluation error")

// FormatError is returned when a formula cannot be built from its source.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: %s", ErrFormat, e.Reason)
}

func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

// EvaluationError is a runtime failure of a syntactically valid formula:
// division by zero or a variable the lookup does not know.
type EvaluationError struct {
	Reason string
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrEvaluation, e.Reason)
}

func (e *EvaluationError) Is(target error) bool {
	return target == ErrEvaluation
}

func newFormatError(format string, args ...any) *FormatError {
	return &FormatError{Reason: fmt.Sprintf(format, args...)}
}
