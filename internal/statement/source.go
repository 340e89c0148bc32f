package statement

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/spendwise/internal/encoding"
)

// source yields physical rows with their 1-based line numbers and io.EOF at
// the end.
type source interface {
	next() (int, []string, error)
	close() error
}

func newSource(format Format, data []byte) (source, error) {
	switch format {
	case FormatCSV:
		return newCSVSource(data)
	case FormatXLSX:
		return newXLSXSource(data)
	case FormatXLS:
		return newXLSSource(data)
	}

	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
}

type csvSource struct {
	r *csv.Reader
}

func newCSVSource(data []byte) (*csvSource, error) {
	utf8r, err := encoding.NewUTF8Reader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	return &csvSource{r: reader}, nil
}

func (s *csvSource) next() (int, []string, error) {
	record, err := s.r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, nil, io.EOF
		}

		return 0, nil, fmt.Errorf("read csv: %w", err)
	}

	line, _ := s.r.FieldPos(0)

	return line, record, nil
}

func (s *csvSource) close() error { return nil }

// xlsxSource streams the first worksheet. Cells are read unformatted so
// numbers keep full precision and dates arrive as serial numbers.
type xlsxSource struct {
	file *excelize.File
	rows *excelize.Rows
	line int
}

func newXLSXSource(data []byte) (*xlsxSource, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: open xlsx: %v", ErrUnsupportedFormat, err)
	}

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		_ = f.Close()
		return nil, ErrEmptyFile
	}

	rows, err := f.Rows(sheets[0])
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	return &xlsxSource{file: f, rows: rows}, nil
}

func (s *xlsxSource) next() (int, []string, error) {
	if !s.rows.Next() {
		if err := s.rows.Error(); err != nil {
			return 0, nil, fmt.Errorf("read xlsx: %w", err)
		}

		return 0, nil, io.EOF
	}

	s.line++

	cols, err := s.rows.Columns(excelize.Options{RawCellValue: true})
	if err != nil {
		return 0, nil, fmt.Errorf("read xlsx row %d: %w", s.line, err)
	}

	return s.line, cols, nil
}

func (s *xlsxSource) close() error {
	rowsErr := s.rows.Close()
	fileErr := s.file.Close()

	return errors.Join(rowsErr, fileErr)
}

// xlsSource reads the first worksheet of a legacy BIFF8 workbook.
type xlsSource struct {
	rows []biffRow
	idx  int
}

func newXLSSource(data []byte) (src *xlsSource, err error) {
	// Malformed BIFF must reject the upload, never take the process down.
	defer func() {
		if r := recover(); r != nil {
			src, err = nil, fmt.Errorf("%w: read xls: %v", ErrUnsupportedFormat, r)
		}
	}()

	rows, err := readBIFF(data)
	if err != nil {
		return nil, fmt.Errorf("%w: read xls: %v", ErrUnsupportedFormat, err)
	}

	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}

	return &xlsSource{rows: rows}, nil
}

func (s *xlsSource) next() (int, []string, error) {
	if s.idx >= len(s.rows) {
		return 0, nil, io.EOF
	}

	row := s.rows[s.idx]
	s.idx++

	return row.line, row.cells, nil
}

func (s *xlsSource) close() error { return nil }
