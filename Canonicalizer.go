package main

import (
	"strings"
)

// Canonicalizer maps ids from URLs to the keys used for storage and webhooks.
// Sheet ids are case-insensitive and stored lower-cased, cell ids are
// upper-cased the same way the spreadsheet stores cell names.
type Canonicalizer struct{}

func NewCanonicalizer() *Canonicalizer {
	return &Canonicalizer{}
}

func (c *Canonicalizer) CanonicalizeSheetId(sheetId string) string {
	return strings.ToLower(strings.TrimSpace(sheetId))
}

func (c *Canonicalizer) CanonicalizeCellId(cellId string) string {
	return strings.ToUpper(strings.TrimSpace(cellId))
}
