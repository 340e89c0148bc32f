package normalize

import (
	"fmt"
	"strings"
	"unicode"
)

type field int

const (
	fieldDate field = iota
	fieldDescription
	fieldAmount
	fieldDebit
	fieldCredit
	fieldType
)

func (f field) String() string {
	switch f {
	case fieldDate:
		return "date"
	case fieldDescription:
		return "description"
	case fieldAmount:
		return "amount"
	case fieldDebit:
		return "debit"
	case fieldCredit:
		return "credit"
	case fieldType:
		return "type"
	}

	return "unknown"
}

// synonyms lists accepted header labels per field, most preferred first.
var synonyms = map[field][]string{
	fieldDate:        {"date", "txn date", "transaction date", "value date", "posting date", "posted date", "booking date"},
	fieldDescription: {"description", "narration", "particulars", "details", "transaction details", "memo", "payee", "remarks"},
	fieldAmount:      {"amount", "transaction amount", "amt"},
	fieldDebit:       {"debit", "debit amount", "withdrawal", "withdrawals", "withdrawal amt", "money out", "paid out"},
	fieldCredit:      {"credit", "credit amount", "deposit", "deposits", "deposit amt", "money in", "paid in"},
	fieldType:        {"type", "type of transaction", "transaction type", "dr/cr", "cr/dr", "debit/credit"},
}

// token folds a header label to lower-case letters and digits only.
func token(s string) string {
	var b strings.Builder

	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}

	return b.String()
}

// Layout is the resolved column mapping of one statement file. Absent
// columns hold -1.
type Layout struct {
	Date        int
	Description int
	Amount      int
	Debit       int
	Credit      int
	Type        int
}

// Split reports whether amounts come from separate debit and credit columns.
func (l *Layout) Split() bool {
	return l.Amount < 0
}

// Resolve maps a header row onto the canonical fields. A signed amount column
// wins over a debit/credit pair.
func Resolve(header []string) (*Layout, error) {
	index := make(map[string]int, len(header))

	for i, h := range header {
		t := token(h)
		if _, dup := index[t]; t != "" && !dup {
			index[t] = i
		}
	}

	find := func(f field) int {
		for _, syn := range synonyms[f] {
			if i, ok := index[token(syn)]; ok {
				return i
			}
		}

		return -1
	}

	l := &Layout{
		Date:        find(fieldDate),
		Description: find(fieldDescription),
		Amount:      find(fieldAmount),
		Debit:       find(fieldDebit),
		Credit:      find(fieldCredit),
		Type:        find(fieldType),
	}

	var missing []string

	if l.Date < 0 {
		missing = append(missing, fieldDate.String())
	}

	if l.Description < 0 {
		missing = append(missing, fieldDescription.String())
	}

	if l.Amount < 0 && (l.Debit < 0 || l.Credit < 0) {
		missing = append(missing, "amount (or debit and credit)")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	if !l.Split() {
		l.Debit, l.Credit = -1, -1
	}

	return l, nil
}

// LooksLikeHeader reports whether cells resolve to a complete layout.
func LooksLikeHeader(cells []string) bool {
	_, err := Resolve(cells)
	return err == nil
}
