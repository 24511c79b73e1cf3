package spreadsheet

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	json "github.com/bytedance/sonic"
)

// Record is one saved cell: its name and the exact string that recreates its
// contents through SetContents.
type Record struct {
	Name     string `json:"name"`
	Contents string `json:"contents"`
}

type document struct {
	IsValid string           `json:"isValid,omitempty"`
	Cells   []documentRecord `json:"cells"`
}

// documentRecord keeps Contents nullable so a missing value is reported
// instead of being read as an empty cell.
type documentRecord struct {
	Name     string  `json:"name"`
	Contents *string `json:"contents"`
}

// Cells lists every present cell, sorted by name.
func (s *Spreadsheet) Cells() []Record {
	names := s.NonEmptyCells()
	records := make([]Record, 0, len(names))
	for _, name := range names {
		records = append(records, Record{Name: name, Contents: s.cells[name].contents.String()})
	}

	return records
}

// MarkSaved clears Changed once the records from Cells have been written.
func (s *Spreadsheet) MarkSaved() {
	s.changed = false
}

// Load builds a spreadsheet by replaying records in order. Any failure is
// returned as *LoadError.
func Load(records []Record, opts ...Option) (*Spreadsheet, error) {
	s := New(opts...)

	seen := make(map[string]bool, len(records))
	for _, record := range records {
		normalized := strings.ToUpper(record.Name)
		if seen[normalized] {
			return nil, &LoadError{Name: record.Name, Err: ErrDuplicateName}
		}
		seen[normalized] = true

		if _, err := s.SetContents(record.Name, record.Contents); err != nil {
			return nil, &LoadError{Name: record.Name, Err: err}
		}
	}

	s.changed = false
	return s, nil
}

// WriteJSON saves the spreadsheet together with its name pattern.
func (s *Spreadsheet) WriteJSON(w io.Writer) error {
	doc := document{
		IsValid: s.NamePattern(),
		Cells:   make([]documentRecord, 0, len(s.cells)),
	}
	for _, record := range s.Cells() {
		contents := record.Contents
		doc.Cells = append(doc.Cells, documentRecord{Name: record.Name, Contents: &contents})
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	if _, err = w.Write(data); err != nil {
		return err
	}

	s.MarkSaved()
	return nil
}

// ReadJSON loads a document written by WriteJSON. A name pattern stored in the
// document takes precedence over one passed in opts.
func ReadJSON(r io.Reader, opts ...Option) (*Spreadsheet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &LoadError{Err: err}
	}

	var doc document
	if err = json.Unmarshal(data, &doc); err != nil {
		return nil, &LoadError{Err: err}
	}

	if doc.IsValid != "" {
		pattern, err := regexp.Compile(doc.IsValid)
		if err != nil {
			return nil, &LoadError{Err: fmt.Errorf("name pattern: %w", err)}
		}
		opts = append(opts, WithNamePattern(pattern))
	}

	records := make([]Record, 0, len(doc.Cells))
	for _, item := range doc.Cells {
		if item.Contents == nil {
			return nil, &LoadError{Name: item.Name, Err: ErrNullContent}
		}
		records = append(records, Record{Name: item.Name, Contents: *item.Contents})
	}

	return Load(records, opts...)
}
