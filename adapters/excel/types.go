package excel

import (
	"strings"

	"kycflow/internal/errors"
)

// RawRowData represents a row of raw spreadsheet data keyed by trimmed header.
// Every header of the sheet is present; cells past the end of a short row are "".
type RawRowData map[string]string

// SheetData represents one sheet of a workbook
type SheetData struct {
	Name    string       // Sheet name ("" for CSV sources)
	Headers []string     // Column headers in sheet order
	Rows    []RawRowData // Data rows in sheet order
}

// HasColumn reports whether the header row contains column
func (d *SheetData) HasColumn(column string) bool {
	for _, header := range d.Headers {
		if header == column {
			return true
		}
	}
	return false
}

// Filter returns the rows whose column equals value, in sheet order
func (d *SheetData) Filter(column, value string) ([]RawRowData, error) {
	if !d.HasColumn(column) {
		return nil, errors.MissingColumn(column)
	}

	value = strings.TrimSpace(value)
	var matches []RawRowData
	for _, row := range d.Rows {
		if row[column] == value {
			matches = append(matches, row)
		}
	}
	return matches, nil
}

// Get returns the cell for column, failing when the sheet has no such column
func (r RawRowData) Get(column string) (string, error) {
	value, ok := r[column]
	if !ok {
		return "", errors.MissingColumn(column)
	}
	return value, nil
}
