package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/spendwise/internal/insights"
)

// Period is a predefined month selection for insights.
type Period int

const (
	PeriodThisMonth Period = iota
	PeriodLastMonth
	PeriodLastThreeMonths
	PeriodAll
	PeriodCustom
)

var periods = []Period{PeriodThisMonth, PeriodLastMonth, PeriodLastThreeMonths, PeriodAll, PeriodCustom}

func (p Period) String() string {
	switch p {
	case PeriodThisMonth:
		return "This Month"
	case PeriodLastMonth:
		return "Last Month"
	case PeriodLastThreeMonths:
		return "Last 3 Months"
	case PeriodAll:
		return "All Time"
	case PeriodCustom:
		return "Custom Months"
	}

	return "Unknown"
}

// Months returns the YYYY-MM filter for p relative to now. An empty result
// means no month filter. PeriodCustom parses custom.
func (p Period) Months(now time.Time, custom string) ([]string, error) {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	switch p {
	case PeriodThisMonth:
		return []string{first.Format("2006-01")}, nil
	case PeriodLastMonth:
		return []string{first.AddDate(0, -1, 0).Format("2006-01")}, nil
	case PeriodLastThreeMonths:
		return []string{
			first.AddDate(0, -2, 0).Format("2006-01"),
			first.AddDate(0, -1, 0).Format("2006-01"),
			first.Format("2006-01"),
		}, nil
	case PeriodAll:
		return nil, nil
	case PeriodCustom:
		return ParseMonths(custom)
	}

	return nil, fmt.Errorf("unknown period %d", p)
}

// ParseMonths splits a comma or space separated list of YYYY-MM values.
func ParseMonths(s string) ([]string, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	if len(fields) == 0 {
		return nil, fmt.Errorf("enter at least one month")
	}

	months := make([]string, 0, len(fields))

	for _, f := range fields {
		if !insights.ValidMonth(f) {
			return nil, fmt.Errorf("%q is not YYYY-MM", f)
		}

		months = append(months, f)
	}

	return months, nil
}
