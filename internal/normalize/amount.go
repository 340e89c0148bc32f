package normalize

import (
	"errors"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

var errNotNumeric = errors.New("not a number")

// parseAmount parses a bank-formatted amount into a signed decimal.
// Examples: "1,234.56", "-588.74", "(12.00)", "-(12.00)", "12.00-", "$ 10",
// "INR 1,200".
func parseAmount(s string) (decimal.Decimal, error) {
	var b strings.Builder

	for _, r := range s {
		if unicode.IsSpace(r) || unicode.Is(unicode.Sc, r) || r == ',' {
			continue
		}

		b.WriteRune(r)
	}

	clean := trimCurrencyCode(b.String())
	negative := false

	// A minus in front of parentheses marks the same debit.
	if strings.HasPrefix(clean, "-(") {
		clean = clean[1:]
	}

	if strings.HasPrefix(clean, "(") && strings.HasSuffix(clean, ")") {
		negative = true
		clean = clean[1 : len(clean)-1]
	}

	switch {
	case strings.HasSuffix(clean, "-"):
		negative = !negative
		clean = strings.TrimSuffix(clean, "-")
	case strings.HasPrefix(clean, "-"):
		negative = !negative
		clean = strings.TrimPrefix(clean, "-")
	case strings.HasPrefix(clean, "+"):
		clean = strings.TrimPrefix(clean, "+")
	}

	if !plainDecimal(clean) {
		return decimal.Zero, errNotNumeric
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, err
	}

	if negative {
		d = d.Neg()
	}

	return d, nil
}

// trimCurrencyCode drops a three letter code such as "USD" from either end.
func trimCurrencyCode(s string) string {
	if len(s) <= 3 {
		return s
	}

	switch {
	case isCurrencyCode(s[:3]):
		return s[3:]
	case isCurrencyCode(s[len(s)-3:]):
		return s[:len(s)-3]
	}

	return s
}

func isCurrencyCode(s string) bool {
	for _, r := range s {
		if (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') {
			return false
		}
	}

	return true
}

// plainDecimal accepts digits with at most one '.', and at least one digit.
func plainDecimal(s string) bool {
	digits, dots := 0, 0

	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.':
			dots++
		default:
			return false
		}
	}

	return digits > 0 && dots <= 1
}

// money rounds a magnitude to cents, half to even.
func money(d decimal.Decimal) decimal.Decimal {
	return d.Abs().RoundBank(2)
}
