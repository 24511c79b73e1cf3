package contracts

type Canonicalizer interface {
	CanonicalizeSheetId(sheetId string) string
	CanonicalizeCellId(cellId string) string
}
