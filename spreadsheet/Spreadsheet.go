// Package spreadsheet is an in-memory store of named cells. Formula cells are
// recomputed whenever a cell they depend on changes, and edits that would
// introduce a circular reference are rejected without any visible change.
//
// A Spreadsheet is not safe for concurrent use; callers serialize access.
package spreadsheet

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"sheetEngine/dependencies"
	"sheetEngine/formulas"
)

const FormulaPrefix = "="

// cellNameRegex is checked against the upper-cased name.
var cellNameRegex = regexp.MustCompile(`\A[A-Z]+[1-9][0-9]*\z`)

var numberRegex = regexp.MustCompile(`\A[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?\z`)

type cell struct {
	contents Contents
	value    Value
}

type Spreadsheet struct {
	cells map[string]*cell
	// edge (variable, cell) for every variable referenced by a formula cell
	graph     *dependencies.DependencyGraph
	validator func(string) bool
	pattern   *regexp.Regexp
	changed   bool
}

type Option func(*Spreadsheet)

// WithNamePattern restricts cell names to those matching pattern. The
// pattern is matched against the upper-cased name and is kept in saved files.
func WithNamePattern(pattern *regexp.Regexp) Option {
	return func(s *Spreadsheet) {
		s.pattern = pattern
		s.validator = pattern.MatchString
	}
}

// WithNameValidator restricts cell names with an arbitrary predicate over the
// upper-cased name.
func WithNameValidator(validator func(string) bool) Option {
	return func(s *Spreadsheet) {
		s.pattern = nil
		s.validator = validator
	}
}

func New(opts ...Option) *Spreadsheet {
	s := &Spreadsheet{
		cells:     map[string]*cell{},
		graph:     dependencies.NewDependencyGraph(),
		validator: formulas.AcceptAll,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.validator == nil {
		s.validator = formulas.AcceptAll
	}

	return s
}

// Changed reports whether the spreadsheet was modified since it was created,
// loaded or saved.
func (s *Spreadsheet) Changed() bool {
	return s.changed
}

// NamePattern is the source of the pattern given to WithNamePattern, or "".
func (s *Spreadsheet) NamePattern() string {
	if s.pattern == nil {
		return ""
	}
	return s.pattern.String()
}

func (s *Spreadsheet) GetContents(name string) (Contents, error) {
	name, err := s.normalizeName(name)
	if err != nil {
		return nil, err
	}

	if c, ok := s.cells[name]; ok {
		return c.contents, nil
	}
	return Text(""), nil
}

func (s *Spreadsheet) GetValue(name string) (Value, error) {
	name, err := s.normalizeName(name)
	if err != nil {
		return nil, err
	}

	if c, ok := s.cells[name]; ok {
		return c.value, nil
	}
	return Text(""), nil
}

// NonEmptyCells lists the names of all present cells, sorted.
func (s *Spreadsheet) NonEmptyCells() []string {
	names := make([]string, 0, len(s.cells))
	for name := range s.cells {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// DirectDependents lists the cells whose formulas reference name.
func (s *Spreadsheet) DirectDependents(name string) ([]string, error) {
	name, err := s.normalizeName(name)
	if err != nil {
		return nil, err
	}

	return s.graph.Dependents(name)
}

// SetContents stores content in the named cell and returns every cell whose
// value was recomputed, dependencies before dependents. content is a number,
// a formula when it starts with "=", or text; empty text removes the cell.
func (s *Spreadsheet) SetContents(name string, content string) ([]string, error) {
	name, err := s.normalizeName(name)
	if err != nil {
		return nil, err
	}

	contents, err := s.parseContents(content)
	if err != nil {
		return nil, err
	}

	m := s.newMutation(name, contents)
	s.apply(m)

	order, err := s.cellsToRecalculate(name)
	if err != nil {
		s.rollback(m)
		return nil, err
	}

	s.recalculate(order)
	s.changed = true

	return order, nil
}

func (s *Spreadsheet) normalizeName(name string) (string, error) {
	normalized := strings.ToUpper(name)
	if !s.isValidName(normalized) {
		return "", fmt.Errorf("%q: %w", name, ErrInvalidName)
	}
	return normalized, nil
}

func (s *Spreadsheet) isValidName(normalized string) bool {
	return cellNameRegex.MatchString(normalized) && s.validator(normalized)
}

func (s *Spreadsheet) parseContents(content string) (Contents, error) {
	trimmed := strings.TrimSpace(content)
	if numberRegex.MatchString(trimmed) {
		if number, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return Number(number), nil
		}
	}

	if strings.HasPrefix(content, FormulaPrefix) {
		formula, err := formulas.Parse(strings.TrimPrefix(content, FormulaPrefix), strings.ToUpper, s.isValidName)
		if err != nil {
			return nil, err
		}
		return FormulaContents{Formula: formula}, nil
	}

	return Text(content), nil
}

// lookup hands numeric cell values to the formula evaluator.
func (s *Spreadsheet) lookup(name string) (float64, bool) {
	if c, ok := s.cells[name]; ok {
		if number, ok := c.value.(Number); ok {
			return float64(number), true
		}
	}
	return 0, false
}

func (s *Spreadsheet) recalculate(order []string) {
	for _, name := range order {
		c, ok := s.cells[name]
		if !ok {
			continue
		}

		switch contents := c.contents.(type) {
		case FormulaContents:
			value, err := contents.Formula.Evaluate(s.lookup)
			if err != nil {
				c.value = FormulaError{Reason: reasonOf(err)}
			} else {
				c.value = Number(value)
			}
		case Text:
			c.value = contents
		case Number:
			c.value = contents
		}
	}
}

func reasonOf(err error) string {
	var evaluationError *formulas.EvaluationError
	if errors.As(err, &evaluationError) {
		return evaluationError.Reason
	}
	return err.Error()
}
