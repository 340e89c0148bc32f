package statement

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"unicode/utf16"

	"github.com/richardlehane/mscfb"
)

// BIFF8 record identifiers read from the Workbook stream.
const (
	recFormula    uint16 = 0x0006
	recEOF        uint16 = 0x000A
	recFilePass   uint16 = 0x002F
	recContinue   uint16 = 0x003C
	recBoundSheet uint16 = 0x0085
	recMulRK      uint16 = 0x00BD
	recSST        uint16 = 0x00FC
	recLabelSST   uint16 = 0x00FD
	recNumber     uint16 = 0x0203
	recLabel      uint16 = 0x0204
	recBoolErr    uint16 = 0x0205
	recString     uint16 = 0x0207
	recRK         uint16 = 0x027E
	recBOF        uint16 = 0x0809
)

const (
	biff8Version   = 0x0600
	workbookStream = "Workbook"
	maxBIFFColumns = 256
)

var errTruncated = errors.New("truncated record")

// biffRow is one populated worksheet row. cells is dense from column 0.
type biffRow struct {
	line  int
	cells []string
}

// readBIFF returns the populated rows of the first worksheet in a BIFF8
// compound file. Numbers are rendered unformatted so date cells arrive as
// serial numbers, the same as the xlsx reader.
func readBIFF(data []byte) ([]biffRow, error) {
	stream, err := readWorkbookStream(data)
	if err != nil {
		return nil, err
	}

	g, err := readGlobals(stream)
	if err != nil {
		return nil, err
	}

	if len(g.sheets) == 0 {
		return nil, nil
	}

	return readWorksheet(stream, g.sheets[0], g.sst)
}

func readWorkbookStream(data []byte) ([]byte, error) {
	doc, err := mscfb.New(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open compound file: %w", err)
	}

	for {
		entry, err := doc.Next()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("no %s stream", workbookStream)
		}

		if err != nil {
			return nil, fmt.Errorf("read compound directory: %w", err)
		}

		if entry.Name != workbookStream {
			continue
		}

		if entry.Size <= 0 || entry.Size > int64(len(data)) {
			return nil, fmt.Errorf("%s stream size %d out of range", workbookStream, entry.Size)
		}

		buf := make([]byte, entry.Size)
		if _, err := io.ReadFull(entry, buf); err != nil {
			return nil, fmt.Errorf("read %s stream: %w", workbookStream, err)
		}

		return buf, nil
	}
}

type biffRecord struct {
	id   uint16
	data []byte
}

type recordReader struct {
	buf []byte
	pos int
}

func (r *recordReader) next() (biffRecord, error) {
	if r.pos == len(r.buf) {
		return biffRecord{}, io.EOF
	}

	if r.pos+4 > len(r.buf) {
		return biffRecord{}, errTruncated
	}

	id := binary.LittleEndian.Uint16(r.buf[r.pos:])
	size := int(binary.LittleEndian.Uint16(r.buf[r.pos+2:]))

	start := r.pos + 4
	if start+size > len(r.buf) {
		return biffRecord{}, fmt.Errorf("%w %#04x at offset %d", errTruncated, id, r.pos)
	}

	r.pos = start + size

	return biffRecord{id: id, data: r.buf[start:r.pos]}, nil
}

func (r *recordReader) peek() (uint16, bool) {
	if r.pos+4 > len(r.buf) {
		return 0, false
	}

	return binary.LittleEndian.Uint16(r.buf[r.pos:]), true
}

type globals struct {
	sheets []uint32
	sst    []string
}

// readGlobals walks the workbook globals substream up to its EOF record.
func readGlobals(stream []byte) (globals, error) {
	var g globals

	rr := &recordReader{buf: stream}

	bof, err := rr.next()
	if err != nil {
		return g, err
	}

	if bof.id != recBOF || len(bof.data) < 4 {
		return g, errors.New("workbook stream does not start with BOF")
	}

	if v := binary.LittleEndian.Uint16(bof.data); v != biff8Version {
		return g, fmt.Errorf("BIFF version %#04x", v)
	}

	for {
		rec, err := rr.next()
		if errors.Is(err, io.EOF) {
			return g, nil
		}

		if err != nil {
			return g, err
		}

		switch rec.id {
		case recFilePass:
			return g, errors.New("workbook is encrypted")

		case recBoundSheet:
			// Sheet type 0 is a worksheet; charts and macro sheets are skipped.
			if len(rec.data) >= 6 && rec.data[5] == 0 {
				g.sheets = append(g.sheets, binary.LittleEndian.Uint32(rec.data))
			}

		case recSST:
			segs := [][]byte{rec.data}

			for {
				id, ok := rr.peek()
				if !ok || id != recContinue {
					break
				}

				cont, err := rr.next()
				if err != nil {
					return g, err
				}

				segs = append(segs, cont.data)
			}

			if g.sst, err = readSST(segs); err != nil {
				return g, fmt.Errorf("read shared strings: %w", err)
			}

		case recEOF:
			return g, nil
		}
	}
}

// segments reads a record body split over CONTINUE records.
type segments struct {
	segs [][]byte
	seg  int
	pos  int
}

func (s *segments) advance() bool {
	if s.seg+1 >= len(s.segs) {
		return false
	}

	s.seg++
	s.pos = 0

	return true
}

func (s *segments) bytes(n int) ([]byte, error) {
	for s.seg < len(s.segs) && s.pos >= len(s.segs[s.seg]) {
		if !s.advance() {
			return nil, errTruncated
		}
	}

	cur := s.segs[s.seg]
	if s.pos+n > len(cur) {
		return nil, errTruncated
	}

	b := cur[s.pos : s.pos+n]
	s.pos += n

	return b, nil
}

func (s *segments) uint8() (byte, error) {
	b, err := s.bytes(1)
	if err != nil {
		return 0, err
	}

	return b[0], nil
}

func (s *segments) uint16() (uint16, error) {
	b, err := s.bytes(2)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint16(b), nil
}

func (s *segments) uint32() (uint32, error) {
	b, err := s.bytes(4)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint32(b), nil
}

func (s *segments) skip(n int) error {
	for n > 0 {
		if s.pos >= len(s.segs[s.seg]) && !s.advance() {
			return errTruncated
		}

		step := min(n, len(s.segs[s.seg])-s.pos)
		s.pos += step
		n -= step
	}

	return nil
}

// chars reads n characters. A string that crosses into the next segment
// restarts with its own option byte choosing the character width.
func (s *segments) chars(n int, wide bool) (string, error) {
	units := make([]uint16, 0, n)

	for len(units) < n {
		if s.pos >= len(s.segs[s.seg]) {
			if !s.advance() {
				return "", errTruncated
			}

			flags, err := s.uint8()
			if err != nil {
				return "", err
			}

			wide = flags&0x01 != 0

			continue
		}

		cur := s.segs[s.seg]

		if wide {
			if s.pos+2 > len(cur) {
				return "", errTruncated
			}

			units = append(units, binary.LittleEndian.Uint16(cur[s.pos:]))
			s.pos += 2
		} else {
			units = append(units, uint16(cur[s.pos]))
			s.pos++
		}
	}

	return string(utf16.Decode(units)), nil
}

// unicodeString reads an XLUnicodeRichExtendedString.
func (s *segments) unicodeString() (string, error) {
	cch, err := s.uint16()
	if err != nil {
		return "", err
	}

	flags, err := s.uint8()
	if err != nil {
		return "", err
	}

	var runs, ext int

	if flags&0x08 != 0 {
		n, err := s.uint16()
		if err != nil {
			return "", err
		}

		runs = int(n)
	}

	if flags&0x04 != 0 {
		n, err := s.uint32()
		if err != nil {
			return "", err
		}

		ext = int(n)
	}

	str, err := s.chars(int(cch), flags&0x01 != 0)
	if err != nil {
		return "", err
	}

	if err := s.skip(4 * runs); err != nil {
		return "", err
	}

	if err := s.skip(ext); err != nil {
		return "", err
	}

	return str, nil
}

func readSST(segs [][]byte) ([]string, error) {
	s := &segments{segs: segs}

	if _, err := s.uint32(); err != nil {
		return nil, err
	}

	unique, err := s.uint32()
	if err != nil {
		return nil, err
	}

	var out []string

	for i := uint32(0); i < unique; i++ {
		str, err := s.unicodeString()
		if err != nil {
			return nil, fmt.Errorf("string %d: %w", i, err)
		}

		out = append(out, str)
	}

	return out, nil
}

// sheetCells collects cell values by row while a worksheet is decoded.
type sheetCells map[int][]string

func (c sheetCells) set(row, col int, v string) {
	if col >= maxBIFFColumns {
		return
	}

	cells := c[row]
	if len(cells) <= col {
		cells = append(cells, make([]string, col+1-len(cells))...)
	}

	cells[col] = v
	c[row] = cells
}

func (c sheetCells) rows() []biffRow {
	keys := make([]int, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	out := make([]biffRow, 0, len(keys))
	for _, k := range keys {
		out = append(out, biffRow{line: k + 1, cells: c[k]})
	}

	return out
}

func readWorksheet(stream []byte, offset uint32, sst []string) ([]biffRow, error) {
	if int64(offset) >= int64(len(stream)) {
		return nil, fmt.Errorf("worksheet offset %d out of range", offset)
	}

	rr := &recordReader{buf: stream, pos: int(offset)}

	bof, err := rr.next()
	if err != nil {
		return nil, err
	}

	if bof.id != recBOF {
		return nil, fmt.Errorf("worksheet at offset %d does not start with BOF", offset)
	}

	var (
		cells   = sheetCells{}
		depth   int
		pending = [2]int{-1, -1}
	)

	for {
		rec, err := rr.next()
		if errors.Is(err, io.EOF) {
			return cells.rows(), nil
		}

		if err != nil {
			return nil, err
		}

		d := rec.data

		// Embedded charts carry their own BOF/EOF substreams.
		switch rec.id {
		case recBOF:
			depth++
			continue
		case recEOF:
			if depth == 0 {
				return cells.rows(), nil
			}

			depth--

			continue
		}

		if depth > 0 {
			continue
		}

		var row, col int
		if len(d) >= 4 {
			row = int(binary.LittleEndian.Uint16(d))
			col = int(binary.LittleEndian.Uint16(d[2:]))
		}

		switch rec.id {
		case recLabelSST:
			if len(d) < 10 {
				return nil, errTruncated
			}

			if idx := binary.LittleEndian.Uint32(d[6:]); int64(idx) < int64(len(sst)) {
				cells.set(row, col, sst[idx])
			}

		case recLabel:
			if len(d) < 6 {
				return nil, errTruncated
			}

			s := &segments{segs: [][]byte{d[6:]}}

			str, err := s.unicodeString()
			if err != nil {
				return nil, fmt.Errorf("label at row %d: %w", row+1, err)
			}

			cells.set(row, col, str)

		case recRK:
			if len(d) < 10 {
				return nil, errTruncated
			}

			cells.set(row, col, formatNumber(decodeRK(binary.LittleEndian.Uint32(d[6:]))))

		case recMulRK:
			if len(d) < 6 {
				return nil, errTruncated
			}

			for i, p := 0, 4; p+6 <= len(d)-2; i, p = i+1, p+6 {
				cells.set(row, col+i, formatNumber(decodeRK(binary.LittleEndian.Uint32(d[p+2:]))))
			}

		case recNumber:
			if len(d) < 14 {
				return nil, errTruncated
			}

			cells.set(row, col, formatNumber(math.Float64frombits(binary.LittleEndian.Uint64(d[6:]))))

		case recFormula:
			if len(d) < 14 {
				return nil, errTruncated
			}

			if d[12] != 0xFF || d[13] != 0xFF {
				cells.set(row, col, formatNumber(math.Float64frombits(binary.LittleEndian.Uint64(d[6:]))))
				break
			}

			switch d[6] {
			case 0:
				pending = [2]int{row, col}
			case 1:
				cells.set(row, col, formatBool(d[8]))
			}

		case recString:
			if pending[0] < 0 {
				break
			}

			s := &segments{segs: [][]byte{d}}

			str, err := s.unicodeString()
			if err != nil {
				return nil, fmt.Errorf("formula string at row %d: %w", pending[0]+1, err)
			}

			cells.set(pending[0], pending[1], str)
			pending = [2]int{-1, -1}

		case recBoolErr:
			if len(d) < 8 {
				return nil, errTruncated
			}

			// Error codes carry no statement data.
			if d[7] == 0 {
				cells.set(row, col, formatBool(d[6]))
			}
		}
	}
}

// decodeRK expands the compressed RK number encoding.
func decodeRK(rk uint32) float64 {
	var f float64

	if rk&0x02 != 0 {
		f = float64(int32(rk) >> 2)
	} else {
		f = math.Float64frombits(uint64(rk&^0x03) << 32)
	}

	if rk&0x01 != 0 {
		f /= 100
	}

	return f
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatBool(b byte) string {
	if b != 0 {
		return "TRUE"
	}

	return "FALSE"
}
