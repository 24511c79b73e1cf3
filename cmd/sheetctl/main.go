// Command sheetctl edits spreadsheet files from the shell and converts them
// to and from xlsx workbooks.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
