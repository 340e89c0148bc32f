// Package statement reads bank statement exports (CSV, XLSX, XLS) into raw
// header-labelled rows.
package statement

import (
	"errors"
	"path/filepath"
	"strings"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported statement format")
	ErrEmptyFile         = errors.New("statement has no data rows")
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
)

// FormatFromName maps a file name's extension to a Format.
func FormatFromName(name string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV, true
	case ".xlsx":
		return FormatXLSX, true
	case ".xls":
		return FormatXLS, true
	}

	return "", false
}

// RawRow is one data row labelled by the file's header. Line is the 1-based
// physical row number in the source.
type RawRow struct {
	Line   int
	Header []string
	Cells  []string
}

// Cell returns the trimmed cell at idx, or "" when the row is short.
func (r RawRow) Cell(idx int) string {
	if idx < 0 || idx >= len(r.Cells) {
		return ""
	}

	return strings.TrimSpace(r.Cells[idx])
}

// Get returns the cell under the first header equal to label, ignoring case
// and surrounding whitespace.
func (r RawRow) Get(label string) string {
	for i, h := range r.Header {
		if strings.EqualFold(strings.TrimSpace(h), strings.TrimSpace(label)) {
			return r.Cell(i)
		}
	}

	return ""
}

// Map returns the row as header -> cell. Later duplicate headers do not
// overwrite earlier ones.
func (r RawRow) Map() map[string]string {
	m := make(map[string]string, len(r.Header))

	for i, h := range r.Header {
		if _, ok := m[h]; !ok {
			m[h] = r.Cell(i)
		}
	}

	return m
}

// Blank reports whether every cell is empty after trimming.
func Blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}

	return true
}
