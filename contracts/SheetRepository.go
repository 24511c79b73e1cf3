package contracts

import "errors"

type SheetRepository interface {
	// SetCell stores value and returns the cell together with every cell that
	// was recalculated because of it, the cell itself included.
	SetCell(sheetId string, cellId string, value string) (cell *Cell, updated []*Cell, err error)
	GetCell(sheetId string, cellId string) (*Cell, error)
	GetCellList(sheetId string) (CellList, error)
}

var SheetNotFoundError = errors.New("sheet not found")
