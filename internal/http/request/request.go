// Package request parses and validates query parameters shared by handlers.
package request

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type monthsQuery struct {
	Months []string `validate:"dive,datetime=2006-01"`
}

// Months returns the repeatable ?month=YYYY-MM parameter. Comma separated
// values are accepted as well.
func Months(r *http.Request) ([]string, error) {
	var q monthsQuery

	for _, v := range r.URL.Query()["month"] {
		for _, m := range strings.Split(v, ",") {
			if m = strings.TrimSpace(m); m != "" {
				q.Months = append(q.Months, m)
			}
		}
	}

	if err := validate.Struct(q); err != nil {
		return nil, fmt.Errorf("month must be YYYY-MM: %w", err)
	}

	return q.Months, nil
}
