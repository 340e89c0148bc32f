package classifier

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/MrJamesThe3rd/spendwise/internal/encoding"
)

// DatasetHeader is the header row of a training CSV.
var DatasetHeader = []string{"description", "category_id"}

// ReadSamples parses a training CSV. The header row is optional; rows with an
// empty description or label are skipped.
func ReadSamples(r io.Reader) ([]Sample, error) {
	utf8, err := encoding.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}

	cr := csv.NewReader(utf8)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var samples []Sample

	for first := true; ; first = false {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("read dataset: %w", err)
		}

		if len(rec) < 2 {
			continue
		}

		if first && strings.EqualFold(strings.TrimSpace(rec[0]), DatasetHeader[0]) {
			continue
		}

		s := Sample{Text: strings.TrimSpace(rec[0]), Label: strings.TrimSpace(rec[1])}
		if s.Text == "" || s.Label == "" {
			continue
		}

		samples = append(samples, s)
	}

	return samples, nil
}

// WriteSamples writes samples as a training CSV with a header row.
func WriteSamples(w io.Writer, samples []Sample) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(DatasetHeader); err != nil {
		return fmt.Errorf("write dataset header: %w", err)
	}

	for _, s := range samples {
		if err := cw.Write([]string{s.Text, s.Label}); err != nil {
			return fmt.Errorf("write dataset row: %w", err)
		}
	}

	cw.Flush()

	return cw.Error()
}
