// Package workbook copies a spreadsheet to and from one worksheet of an xlsx file.
package workbook

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"sheetEngine/spreadsheet"
)

const DefaultSheetName = "Sheet1"

// Export writes every present cell of sheet to a new workbook at path.
// Numbers and text are stored as values, formulas as worksheet formulas.
func Export(sheet *spreadsheet.Spreadsheet, path string, sheetName string) error {
	if sheetName == "" {
		sheetName = DefaultSheetName
	}

	f := excelize.NewFile()
	defer f.Close()

	if sheetName != DefaultSheetName {
		if err := f.SetSheetName(DefaultSheetName, sheetName); err != nil {
			return &WorkbookError{Path: path, Sheet: sheetName, Err: err}
		}
	}

	bounds := newBounds()
	for _, record := range sheet.Cells() {
		col, row, err := excelize.CellNameToCoordinates(record.Name)
		if err != nil {
			return &WorkbookError{Path: path, Sheet: sheetName, Err: fmt.Errorf("%s: %w", record.Name, ErrCellOutOfRange)}
		}
		bounds.extend(col, row)

		if err = writeCell(f, sheet, sheetName, record.Name); err != nil {
			return &WorkbookError{Path: path, Sheet: sheetName, Err: err}
		}
	}

	if !bounds.empty() {
		if err := f.SetSheetDimension(sheetName, bounds.rangeRef()); err != nil {
			return &WorkbookError{Path: path, Sheet: sheetName, Err: err}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return &WorkbookError{Path: path, Sheet: sheetName, Err: err}
	}

	return nil
}

func writeCell(f *excelize.File, sheet *spreadsheet.Spreadsheet, sheetName string, name string) error {
	contents, err := sheet.GetContents(name)
	if err != nil {
		return err
	}

	switch contents := contents.(type) {
	case spreadsheet.Number:
		return f.SetCellFloat(sheetName, name, float64(contents), -1, 64)
	case spreadsheet.FormulaContents:
		return f.SetCellFormula(sheetName, name, contents.Formula.String())
	default:
		return f.SetCellStr(sheetName, name, contents.String())
	}
}

// Import reads one worksheet of the workbook at path into a new spreadsheet.
// An empty sheetName selects the active worksheet. Formula cells are imported
// as formulas, all other cells by their raw value.
func Import(path string, sheetName string, opts ...spreadsheet.Option) (*spreadsheet.Spreadsheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &WorkbookError{Path: path, Sheet: sheetName, Err: err}
	}
	defer f.Close()

	if sheetName == "" {
		sheetName = f.GetSheetName(f.GetActiveSheetIndex())
	}
	if index, err := f.GetSheetIndex(sheetName); err != nil || index < 0 {
		return nil, &WorkbookError{Path: path, Sheet: sheetName, Err: ErrSheetNotFound}
	}

	records, err := readRecords(f, sheetName)
	if err != nil {
		return nil, &WorkbookError{Path: path, Sheet: sheetName, Err: err}
	}

	sheet, err := spreadsheet.Load(records, opts...)
	if err != nil {
		return nil, &WorkbookError{Path: path, Sheet: sheetName, Err: err}
	}

	return sheet, nil
}

func readRecords(f *excelize.File, sheetName string) ([]spreadsheet.Record, error) {
	bounds, err := usedRange(f, sheetName)
	if err != nil {
		return nil, err
	}

	records := make([]spreadsheet.Record, 0)
	for row := bounds.minRow; row <= bounds.maxRow; row++ {
		for col := bounds.minCol; col <= bounds.maxCol; col++ {
			name, err := excelize.CoordinatesToCellName(col, row)
			if err != nil {
				return nil, err
			}

			formula, err := f.GetCellFormula(sheetName, name)
			if err != nil {
				return nil, err
			}
			if formula != "" {
				records = append(records, spreadsheet.Record{Name: name, Contents: spreadsheet.FormulaPrefix + formula})
				continue
			}

			value, err := f.GetCellValue(sheetName, name, excelize.Options{RawCellValue: true})
			if err != nil {
				return nil, err
			}
			if value != "" {
				records = append(records, spreadsheet.Record{Name: name, Contents: value})
			}
		}
	}

	return records, nil
}

// usedRange covers both the stored dimension and the extent of the rows,
// since a workbook may carry a stale dimension or none at all.
func usedRange(f *excelize.File, sheetName string) (*bounds, error) {
	dimension, err := f.GetSheetDimension(sheetName)
	if err != nil {
		return nil, err
	}

	b := newBounds()
	if dimension != "" {
		for _, ref := range strings.Split(dimension, ":") {
			col, row, err := excelize.CellNameToCoordinates(ref)
			if err != nil {
				return nil, err
			}
			b.extend(col, row)
		}
	}

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	for rowIdx, row := range rows {
		if len(row) > 0 {
			b.extend(1, rowIdx+1)
			b.extend(len(row), rowIdx+1)
		}
	}

	return b, nil
}

type bounds struct {
	minCol, minRow, maxCol, maxRow int
}

func newBounds() *bounds {
	return &bounds{minCol: excelize.MaxColumns + 1, minRow: excelize.TotalRows + 1}
}

func (b *bounds) extend(col int, row int) {
	b.minCol = min(b.minCol, col)
	b.minRow = min(b.minRow, row)
	b.maxCol = max(b.maxCol, col)
	b.maxRow = max(b.maxRow, row)
}

func (b *bounds) empty() bool {
	return b.maxCol == 0
}

func (b *bounds) rangeRef() string {
	first, _ := excelize.CoordinatesToCellName(b.minCol, b.minRow)
	last, _ := excelize.CoordinatesToCellName(b.maxCol, b.maxRow)
	return first + ":" + last
}
