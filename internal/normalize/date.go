package normalize

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// dateLayouts are tried in order; the first full parse wins, so an ambiguous
// 03/04/2024 reads as March 4th.
var dateLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"2/1/2006",
	"2006/1/2",
	"1-2-2006",
	"2-1-2006",
	"2 Jan 2006",
	"2-Jan-2006",
	"Jan 2, 2006",
	"2006-01-02 15:04:05",
	"20060102",
}

// Spreadsheet serial days between 1954 and 2173.
const (
	minSerialDate = 20000
	maxSerialDate = 100000
)

var errUnknownDate = errors.New("unrecognized date")

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return midnight(t), nil
		}
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial >= minSerialDate && serial < maxSerialDate {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err == nil {
			return midnight(t), nil
		}
	}

	return time.Time{}, errUnknownDate
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
