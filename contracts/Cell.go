package contracts

import "errors"

// Cell is the API view of a cell: Value is what was typed, Result is what is shown.
type Cell struct {
	CanonicalKey string `json:"-"`
	Value        string `json:"value"`
	Result       string `json:"result"`
}

type CellList map[string]*Cell

var CellNotFoundError = errors.New("cell not found")
