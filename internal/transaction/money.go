package transaction

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Money is the wire form of an amount: a JSON string with exactly two
// fractional digits.
type Money decimal.Decimal

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(decimal.Decimal(m).StringFixed(2))), nil
}

func (m *Money) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return err
	}

	*m = Money(d)

	return nil
}
