package spreadsheet

import (
	"strconv"

	"sheetEngine/formulas"
)

// Contents is what the user typed into a cell: Text, Number or FormulaContents.
type Contents interface {
	// String renders contents so that SetContents(name, c.String()) recreates them.
	String() string
	isContents()
}

// Value is what a cell shows: Text, Number or FormulaError.
type Value interface {
	String() string
	isValue()
}

type Text string

func (t Text) String() string { return string(t) }
func (Text) isContents()      {}
func (Text) isValue()         {}

type Number float64

func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}
func (Number) isContents() {}
func (Number) isValue()    {}

type FormulaContents struct {
	Formula formulas.Formula
}

func (f FormulaContents) String() string {
	return FormulaPrefix + f.Formula.String()
}
func (FormulaContents) isContents() {}

// FormulaError is the value of a formula cell that could not be evaluated.
type FormulaError struct {
	Reason string
}

func (e FormulaError) String() string {
	return "#ERROR: " + e.Reason
}
func (FormulaError) isValue() {}

func variablesOf(contents Contents) []string {
	if f, ok := contents.(FormulaContents); ok {
		return f.Formula.Variables()
	}
	return nil
}
