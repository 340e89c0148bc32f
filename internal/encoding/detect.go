package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	xenc "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Charset names reported by Decode.
const (
	CharsetUTF8        = "UTF-8"
	CharsetUTF16LE     = "UTF-16LE"
	CharsetUTF16BE     = "UTF-16BE"
	CharsetWindows1252 = "windows-1252"
	CharsetISO88599    = "ISO-8859-9"
	CharsetISO885915   = "ISO-8859-15"
)

// sniffSize is how much of the input is inspected before committing to a charset.
const sniffSize = 4096

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// chardetDecoders maps chardet results to decoders. Anything not listed falls
// back to Windows-1252, the usual charset of spreadsheet-exported bank CSVs.
var chardetDecoders = map[string]struct {
	name string
	enc  xenc.Encoding
}{
	"ISO-8859-1":   {CharsetWindows1252, charmap.Windows1252},
	"windows-1252": {CharsetWindows1252, charmap.Windows1252},
	"ISO-8859-9":   {CharsetISO88599, charmap.ISO8859_9},
	"ISO-8859-15":  {CharsetISO885915, charmap.ISO8859_15},
}

// Decode detects the charset of r and returns a reader producing UTF-8
// together with the detected charset name.
//
// Detection order: byte order mark, UTF-8 validity of the first 4 KiB,
// chardet heuristics, Windows-1252.
func Decode(r io.Reader) (io.Reader, string, error) {
	br := bufio.NewReaderSize(r, sniffSize)

	buf, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, "", fmt.Errorf("peek: %w", err)
	}

	switch {
	case bytes.HasPrefix(buf, bomUTF8):
		_, _ = br.Discard(len(bomUTF8))
		return br, CharsetUTF8, nil
	case bytes.HasPrefix(buf, bomUTF16LE):
		dec := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
		return transform.NewReader(br, dec), CharsetUTF16LE, nil
	case bytes.HasPrefix(buf, bomUTF16BE):
		dec := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
		return transform.NewReader(br, dec), CharsetUTF16BE, nil
	}

	if validUTF8Prefix(buf, len(buf) == sniffSize) {
		return br, CharsetUTF8, nil
	}

	if result, err := chardet.NewTextDetector().DetectBest(buf); err == nil {
		if result.Charset == CharsetUTF8 {
			return br, CharsetUTF8, nil
		}

		if d, ok := chardetDecoders[result.Charset]; ok {
			return transform.NewReader(br, d.enc.NewDecoder()), d.name, nil
		}
	}

	return transform.NewReader(br, charmap.Windows1252.NewDecoder()), CharsetWindows1252, nil
}

// NewUTF8Reader is Decode without the charset name.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	out, _, err := Decode(r)
	return out, err
}

// validUTF8Prefix reports whether buf is valid UTF-8. When buf was truncated at
// the sniff boundary a trailing partial rune is tolerated.
func validUTF8Prefix(buf []byte, truncated bool) bool {
	if utf8.Valid(buf) {
		return true
	}

	if !truncated {
		return false
	}

	for cut := 1; cut < utf8.UTFMax && cut < len(buf); cut++ {
		if utf8.Valid(buf[:len(buf)-cut]) {
			return true
		}
	}

	return false
}
