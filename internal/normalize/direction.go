package normalize

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendwise/internal/transaction"
)

type decimalWithType struct {
	amount decimal.Decimal
	typ    transaction.Type
}

var typeKeywords = map[string]transaction.Type{
	"debit":      transaction.TypeDebit,
	"dr":         transaction.TypeDebit,
	"withdrawal": transaction.TypeDebit,
	"expense":    transaction.TypeDebit,
	"credit":     transaction.TypeCredit,
	"cr":         transaction.TypeCredit,
	"deposit":    transaction.TypeCredit,
	"income":     transaction.TypeCredit,
}

// signedAmount decides direction from the sign of a single amount column,
// letting a recognised type keyword override an unsigned value.
func signedAmount(text, typeText string) (decimalWithType, error) {
	if text == "" {
		return decimalWithType{}, fmt.Errorf("%w: empty", ErrMalformedAmount)
	}

	d, err := parseAmount(text)
	if err != nil {
		return decimalWithType{}, fmt.Errorf("%w: %q", ErrMalformedAmount, text)
	}

	amount := money(d)
	if amount.IsZero() {
		return decimalWithType{}, ErrZeroAmount
	}

	typ := transaction.TypeCredit
	if d.IsNegative() {
		typ = transaction.TypeDebit
	}

	if kw, ok := typeKeywords[token(typeText)]; ok {
		if d.IsNegative() && kw == transaction.TypeCredit {
			return decimalWithType{}, fmt.Errorf("%w: %q is negative but marked %q", ErrAmbiguousType, text, typeText)
		}

		typ = kw
	}

	return decimalWithType{amount: amount, typ: typ}, nil
}

// splitAmount requires exactly one of the debit and credit cells to hold a
// non-zero value.
func splitAmount(debitText, creditText string) (decimalWithType, error) {
	debit, err := optionalAmount(debitText)
	if err != nil {
		return decimalWithType{}, err
	}

	credit, err := optionalAmount(creditText)
	if err != nil {
		return decimalWithType{}, err
	}

	switch {
	case !debit.IsZero() && credit.IsZero():
		return decimalWithType{amount: debit, typ: transaction.TypeDebit}, nil
	case debit.IsZero() && !credit.IsZero():
		return decimalWithType{amount: credit, typ: transaction.TypeCredit}, nil
	case debit.IsZero() && credit.IsZero():
		return decimalWithType{}, fmt.Errorf("%w: neither debit nor credit populated", ErrAmbiguousType)
	}

	return decimalWithType{}, fmt.Errorf("%w: both debit %q and credit %q populated", ErrAmbiguousType, debitText, creditText)
}

// optionalAmount treats an empty cell as zero.
func optionalAmount(text string) (decimal.Decimal, error) {
	if text == "" {
		return decimal.Zero, nil
	}

	d, err := parseAmount(text)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrMalformedAmount, text)
	}

	return money(d), nil
}
