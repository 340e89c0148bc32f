package statement

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
)

// sniff classifies content by walking mimetype's detection hierarchy.
func sniff(data []byte) (Format, string) {
	mtype := mimetype.Detect(data)

	for m := mtype; m != nil; m = m.Parent() {
		switch {
		case m.Is("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"), m.Is("application/zip"):
			return FormatXLSX, mtype.String()
		case m.Is("application/vnd.ms-excel"), m.Is("application/x-ole-storage"):
			return FormatXLS, mtype.String()
		case m.Is("text/plain"):
			return FormatCSV, mtype.String()
		}
	}

	// Legacy single-byte charsets can fail text detection; no NUL byte is
	// enough to treat the content as delimited text.
	sample := data
	if len(sample) > 3072 {
		sample = sample[:3072]
	}

	if !bytes.Contains(sample, []byte{0}) {
		return FormatCSV, mtype.String()
	}

	return "", mtype.String()
}

// detectFormat picks the reader for data. A name with an extension must use a
// supported one that agrees with the sniffed content family; content is only
// sniffed on its own when the name has no extension.
func detectFormat(data []byte, fileName string) (Format, error) {
	sniffed, mimeType := sniff(data)

	if ext := filepath.Ext(fileName); ext != "" {
		declared, known := FormatFromName(fileName)

		switch {
		case !known:
			return "", fmt.Errorf("%w: extension %q", ErrUnsupportedFormat, ext)
		case sniffed != declared:
			return "", fmt.Errorf("%w: %q declared as %s but content is %s", ErrUnsupportedFormat, fileName, declared, mimeType)
		}

		return declared, nil
	}

	if sniffed == "" {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, mimeType)
	}

	return sniffed, nil
}
