package contracts

import "sheetEngine/spreadsheet"

type CellSerializer interface {
	Marshal(record spreadsheet.Record) []byte
	Unmarshal(data []byte) (spreadsheet.Record, error)
}
