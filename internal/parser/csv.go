package parser

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/dgallion1/docstruct/internal/doctree"
)

// CSVParser handles CSV files. The whole file becomes one table whose
// first row is the header row.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	title := baseTitle(filename)
	if len(records) == 0 {
		return finish(title, nil), nil
	}

	// Pad ragged rows to the header width so every row has the same cells.
	width := 0
	for _, row := range records {
		width = max(width, len(row))
	}
	for i, row := range records {
		for len(row) < width {
			row = append(row, "")
		}
		records[i] = row
	}

	return finish(title, []*doctree.Node{
		heading(1, title),
		tableFromRows(records),
	}), nil
}
