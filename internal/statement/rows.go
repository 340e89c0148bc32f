package statement

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

const defaultHeaderScanLimit = 20

type options struct {
	probe     func([]string) bool
	scanLimit int
}

type Option func(*options)

// WithHeaderProbe makes Open pick the first leading row accepted by probe as
// the header instead of the first non-blank row.
func WithHeaderProbe(probe func([]string) bool) Option {
	return func(o *options) {
		o.probe = probe
	}
}

// WithHeaderScanLimit bounds how many non-blank leading rows the probe sees.
func WithHeaderScanLimit(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.scanLimit = n
		}
	}
}

type physicalRow struct {
	line  int
	cells []string
}

// Rows is a lazy, single-pass iterator over the data rows of a statement.
type Rows struct {
	src     source
	format  Format
	header  []string
	pending []physicalRow
	cur     RawRow
	err     error
	closed  bool
}

// Open detects the format of the content read from r, locates the header and
// positions the iterator before the first data row. fileName is only a hint.
func Open(r io.Reader, fileName string, opts ...Option) (*Rows, error) {
	o := options{scanLimit: defaultHeaderScanLimit}
	for _, opt := range opts {
		opt(&o)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read statement: %w", err)
	}

	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	format, err := detectFormat(data, fileName)
	if err != nil {
		return nil, err
	}

	src, err := newSource(format, data)
	if err != nil {
		return nil, err
	}

	rows := &Rows{src: src, format: format}

	if err := rows.locateHeader(o); err != nil {
		_ = src.close()
		return nil, err
	}

	// Peek so a header-only file fails here rather than yielding nothing.
	first, err := rows.fetch()
	if err != nil {
		_ = src.close()

		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyFile
		}

		return nil, err
	}

	rows.pending = append([]physicalRow{first}, rows.pending...)

	return rows, nil
}

func (r *Rows) locateHeader(o options) error {
	var scanned []physicalRow

	for len(scanned) < o.scanLimit {
		row, err := r.readNonBlank()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return err
		}

		if o.probe == nil {
			r.header = trimAll(row.cells)
			return nil
		}

		if o.probe(row.cells) {
			r.header = trimAll(row.cells)
			return nil
		}

		scanned = append(scanned, row)
	}

	if len(scanned) == 0 {
		return ErrEmptyFile
	}

	// No row satisfied the probe; fall back to the first one so the caller
	// can report which columns are missing.
	r.header = trimAll(scanned[0].cells)
	r.pending = scanned[1:]

	return nil
}

func (r *Rows) readNonBlank() (physicalRow, error) {
	for {
		line, cells, err := r.src.next()
		if err != nil {
			return physicalRow{}, err
		}

		if !Blank(cells) {
			return physicalRow{line: line, cells: cells}, nil
		}
	}
}

// fetch returns the next buffered or freshly read non-blank row.
func (r *Rows) fetch() (physicalRow, error) {
	if len(r.pending) > 0 {
		row := r.pending[0]
		r.pending = r.pending[1:]

		return row, nil
	}

	return r.readNonBlank()
}

// Next advances to the next data row. It returns false at the end of input or
// on error; check Err afterwards.
func (r *Rows) Next() bool {
	if r.err != nil || r.closed {
		return false
	}

	row, err := r.fetch()
	if err != nil {
		if !errors.Is(err, io.EOF) {
			r.err = err
		}

		return false
	}

	r.cur = RawRow{Line: row.line, Header: r.header, Cells: row.cells}

	return true
}

func (r *Rows) Row() RawRow { return r.cur }

func (r *Rows) Err() error { return r.err }

func (r *Rows) Header() []string { return r.header }

func (r *Rows) Format() Format { return r.format }

func (r *Rows) Close() error {
	if r.closed {
		return nil
	}

	r.closed = true

	return r.src.close()
}

func trimAll(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.TrimSpace(c)
	}

	return out
}
