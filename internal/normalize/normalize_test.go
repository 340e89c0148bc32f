package normalize_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/spendwise/internal/normalize"
	"github.com/MrJamesThe3rd/spendwise/internal/statement"
	"github.com/MrJamesThe3rd/spendwise/internal/transaction"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

type sliceRows struct {
	rows []statement.RawRow
	pos  int
	err  error
}

func (s *sliceRows) Next() bool {
	if s.pos >= len(s.rows) {
		return false
	}

	s.pos++

	return true
}

func (s *sliceRows) Row() statement.RawRow { return s.rows[s.pos-1] }

func (s *sliceRows) Err() error { return s.err }

func rowsOf(header []string, lines ...[]string) *sliceRows {
	out := &sliceRows{}
	for i, cells := range lines {
		out.rows = append(out.rows, statement.RawRow{Line: i + 2, Header: header, Cells: cells})
	}

	return out
}

func TestResolve(t *testing.T) {
	type testCase struct {
		name    string
		header  []string
		verify  func(t *testing.T, l *normalize.Layout)
		wantErr bool
	}

	tests := []testCase{
		{
			name:   "SignedAmount",
			header: []string{"Txn Date", "Narration", "Amount"},
			verify: func(t *testing.T, l *normalize.Layout) {
				assert.Equal(t, 0, l.Date)
				assert.Equal(t, 1, l.Description)
				assert.Equal(t, 2, l.Amount)
				assert.False(t, l.Split())
			},
		},
		{
			name:   "SplitColumnsAndType",
			header: []string{" Posting Date ", "Particulars", "Withdrawal Amt.", "Deposit Amt.", "Dr/Cr"},
			verify: func(t *testing.T, l *normalize.Layout) {
				assert.True(t, l.Split())
				assert.Equal(t, 2, l.Debit)
				assert.Equal(t, 3, l.Credit)
				assert.Equal(t, 4, l.Type)
			},
		},
		{
			name:   "SignedAmountBeatsSplit",
			header: []string{"Date", "Description", "Debit", "Credit", "Amount"},
			verify: func(t *testing.T, l *normalize.Layout) {
				assert.False(t, l.Split())
				assert.Equal(t, 4, l.Amount)
				assert.Equal(t, -1, l.Debit)
			},
		},
		{
			name:   "SynonymPriority",
			header: []string{"Value Date", "Date", "Memo", "Description", "AMOUNT"},
			verify: func(t *testing.T, l *normalize.Layout) {
				assert.Equal(t, 1, l.Date)
				assert.Equal(t, 3, l.Description)
			},
		},
		{name: "MissingDescription", header: []string{"Date", "Amount"}, wantErr: true},
		{name: "OnlyDebit", header: []string{"Date", "Description", "Debit"}, wantErr: true},
		{name: "Preamble", header: []string{"Account statement", ""}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := normalize.Resolve(tt.header)
			if tt.wantErr {
				assert.ErrorIs(t, err, normalize.ErrMissingColumns)
				assert.False(t, normalize.LooksLikeHeader(tt.header))

				return
			}

			require.NoError(t, err)
			assert.True(t, normalize.LooksLikeHeader(tt.header))
			tt.verify(t, l)
		})
	}
}

func TestLayout_Row_Signed(t *testing.T) {
	header := []string{"Date", "Description", "Amount", "Type"}
	layout, err := normalize.Resolve(header)
	require.NoError(t, err)

	type testCase struct {
		name       string
		cells      []string
		wantDate   time.Time
		wantAmount string
		wantType   transaction.Type
		wantErr    error
	}

	tests := []testCase{
		{name: "NegativeIsDebit", cells: []string{"2024-01-15", "COFFEE SHOP", "-4.50", ""}, wantDate: date(2024, 1, 15), wantAmount: "4.5", wantType: transaction.TypeDebit},
		{name: "PositiveIsCredit", cells: []string{"2024-01-16", "SALARY", "3000.00", ""}, wantDate: date(2024, 1, 16), wantAmount: "3000", wantType: transaction.TypeCredit},
		{name: "ThousandsSeparator", cells: []string{"01/20/2024", "RENT", "1,234.50", ""}, wantDate: date(2024, 1, 20), wantAmount: "1234.5", wantType: transaction.TypeCredit},
		{name: "Parentheses", cells: []string{"2024-01-15", "FEE", "(12.00)", ""}, wantDate: date(2024, 1, 15), wantAmount: "12", wantType: transaction.TypeDebit},
		{name: "TrailingMinus", cells: []string{"2024-01-15", "FEE", "12.00-", ""}, wantDate: date(2024, 1, 15), wantAmount: "12", wantType: transaction.TypeDebit},
		{name: "CurrencySymbol", cells: []string{"2024-01-15", "SHOP", "$ -4.50", ""}, wantDate: date(2024, 1, 15), wantAmount: "4.5", wantType: transaction.TypeDebit},
		{name: "EuroSymbol", cells: []string{"2024-01-15", "SHOP", "€1,000", ""}, wantDate: date(2024, 1, 15), wantAmount: "1000", wantType: transaction.TypeCredit},
		{name: "MinusBeforeParentheses", cells: []string{"2024-01-15", "FEE", "-(12.50)", ""}, wantDate: date(2024, 1, 15), wantAmount: "12.5", wantType: transaction.TypeDebit},
		{name: "LeadingISOCode", cells: []string{"2024-01-15", "SHOP", "USD 5", ""}, wantDate: date(2024, 1, 15), wantAmount: "5", wantType: transaction.TypeCredit},
		{name: "LeadingISOCodeWithSeparator", cells: []string{"2024-01-15", "SHOP", "INR 1,200", ""}, wantDate: date(2024, 1, 15), wantAmount: "1200", wantType: transaction.TypeCredit},
		{name: "TrailingISOCode", cells: []string{"2024-01-15", "SHOP", "-4.50 eur", ""}, wantDate: date(2024, 1, 15), wantAmount: "4.5", wantType: transaction.TypeDebit},
		{name: "ISOCodeThenMinus", cells: []string{"2024-01-15", "SHOP", "USD -4.50", ""}, wantDate: date(2024, 1, 15), wantAmount: "4.5", wantType: transaction.TypeDebit},
		{name: "BankersRoundingDown", cells: []string{"2024-01-15", "A", "2.345", ""}, wantDate: date(2024, 1, 15), wantAmount: "2.34", wantType: transaction.TypeCredit},
		{name: "BankersRoundingUp", cells: []string{"2024-01-15", "A", "2.355", ""}, wantDate: date(2024, 1, 15), wantAmount: "2.36", wantType: transaction.TypeCredit},
		{name: "TypeKeywordMakesDebit", cells: []string{"2024-01-15", "ATM", "25.00", "DR"}, wantDate: date(2024, 1, 15), wantAmount: "25", wantType: transaction.TypeDebit},
		{name: "TypeKeywordCredit", cells: []string{"2024-01-15", "REFUND", "25.00", "Credit"}, wantDate: date(2024, 1, 15), wantAmount: "25", wantType: transaction.TypeCredit},
		{name: "UnknownKeywordSignDecides", cells: []string{"2024-01-15", "X", "-1.00", "POS"}, wantDate: date(2024, 1, 15), wantAmount: "1", wantType: transaction.TypeDebit},
		{name: "DayFirstDate", cells: []string{"15/01/2024", "X", "1.00", ""}, wantDate: date(2024, 1, 15), wantAmount: "1", wantType: transaction.TypeCredit},
		{name: "AmbiguousDateMonthFirst", cells: []string{"03/04/2024", "X", "1.00", ""}, wantDate: date(2024, 3, 4), wantAmount: "1", wantType: transaction.TypeCredit},
		{name: "TextMonth", cells: []string{"5 Feb 2024", "X", "1.00", ""}, wantDate: date(2024, 2, 5), wantAmount: "1", wantType: transaction.TypeCredit},
		{name: "DateTime", cells: []string{"2024-02-05 13:45:00", "X", "1.00", ""}, wantDate: date(2024, 2, 5), wantAmount: "1", wantType: transaction.TypeCredit},
		{name: "SpreadsheetSerial", cells: []string{"45306", "X", "1.00", ""}, wantDate: date(2024, 1, 15), wantAmount: "1", wantType: transaction.TypeCredit},
		{name: "Zero", cells: []string{"2024-01-15", "X", "0.00", ""}, wantErr: normalize.ErrZeroAmount},
		{name: "RoundsToZero", cells: []string{"2024-01-15", "X", "0.004", ""}, wantErr: normalize.ErrZeroAmount},
		{name: "BadAmount", cells: []string{"2024-01-15", "X", "abc", ""}, wantErr: normalize.ErrMalformedAmount},
		{name: "ExponentRejected", cells: []string{"2024-01-15", "X", "1e5", ""}, wantErr: normalize.ErrMalformedAmount},
		{name: "EmptyAmount", cells: []string{"2024-01-15", "X", "", ""}, wantErr: normalize.ErrMalformedAmount},
		{name: "BadDate", cells: []string{"yesterday", "X", "1.00", ""}, wantErr: normalize.ErrMalformedDate},
		{name: "ImpossibleDate", cells: []string{"13/13/2024", "X", "1.00", ""}, wantErr: normalize.ErrMalformedDate},
		{name: "CodeOnlyAmount", cells: []string{"2024-01-15", "X", "USD", ""}, wantErr: normalize.ErrMalformedAmount},
		{name: "WordAmount", cells: []string{"2024-01-15", "X", "five USD", ""}, wantErr: normalize.ErrMalformedAmount},
		{name: "MissingDescription", cells: []string{"2024-01-15", "   ", "1.00", ""}, wantErr: normalize.ErrMissingDescription},
		{name: "NegativeMarkedCredit", cells: []string{"2024-01-15", "X", "-5.00", "CR"}, wantErr: normalize.ErrAmbiguousType},
		{name: "ShortRow", cells: []string{"2024-01-15"}, wantErr: normalize.ErrMissingDescription},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := layout.Row(statement.RawRow{Line: 7, Header: header, Cells: tt.cells})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, tx)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantDate, tx.Date)
			assert.Equal(t, tt.wantAmount, tx.Amount.String())
			assert.Equal(t, tt.wantType, tx.Type)
			assert.Equal(t, 7, tx.SourceLine)
			assert.False(t, tx.Amount.IsNegative())
			assert.Nil(t, tx.CategoryID)
		})
	}
}

func TestLayout_Row_Split(t *testing.T) {
	header := []string{"Date", "Details", "Money Out", "Money In"}
	layout, err := normalize.Resolve(header)
	require.NoError(t, err)

	type testCase struct {
		name       string
		cells      []string
		wantAmount string
		wantType   transaction.Type
		wantErr    error
	}

	tests := []testCase{
		{name: "DebitOnly", cells: []string{"2024-01-15", "GROCER", "42.10", ""}, wantAmount: "42.1", wantType: transaction.TypeDebit},
		{name: "CreditOnly", cells: []string{"2024-01-15", "PAY", "", "1,500.00"}, wantAmount: "1500", wantType: transaction.TypeCredit},
		{name: "ZeroCountsAsEmpty", cells: []string{"2024-01-15", "PAY", "0.00", "10.00"}, wantAmount: "10", wantType: transaction.TypeCredit},
		{name: "NegativeDebitMagnitude", cells: []string{"2024-01-15", "GROCER", "-42.10", ""}, wantAmount: "42.1", wantType: transaction.TypeDebit},
		{name: "Both", cells: []string{"2024-01-15", "X", "1.00", "2.00"}, wantErr: normalize.ErrAmbiguousType},
		{name: "Neither", cells: []string{"2024-01-15", "X", "", ""}, wantErr: normalize.ErrAmbiguousType},
		{name: "BadDebit", cells: []string{"2024-01-15", "X", "n/a", ""}, wantErr: normalize.ErrMalformedAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := layout.Row(statement.RawRow{Line: 2, Header: header, Cells: tt.cells})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantAmount, tx.Amount.String())
			assert.Equal(t, tt.wantType, tx.Type)
		})
	}
}

func TestNormalize_PartialFailurePreservesOrder(t *testing.T) {
	header := []string{"Date", "Description", "Amount"}
	layout, err := normalize.Resolve(header)
	require.NoError(t, err)

	var lines [][]string
	for i := 0; i < 50; i++ {
		amount := fmt.Sprintf("-%d.00", i+1)
		if i%10 == 3 {
			amount = "oops"
		}

		lines = append(lines, []string{"2024-01-15", fmt.Sprintf("ROW %02d", i), amount})
	}

	result, err := normalize.Normalize(context.Background(), layout, rowsOf(header, lines...), 4)
	require.NoError(t, err)

	require.Len(t, result.Candidates, 45)
	require.Len(t, result.Rejected, 5)

	for i := 1; i < len(result.Candidates); i++ {
		assert.Less(t, result.Candidates[i-1].SourceLine, result.Candidates[i].SourceLine)
	}

	assert.Equal(t, 5, result.Rejected[0].Line)
	assert.ErrorIs(t, result.Rejected[0], normalize.ErrMalformedAmount)
	assert.Contains(t, result.Rejected[0].Error(), "line 5")
}

func TestNormalize_SpendwiseScenario(t *testing.T) {
	header := []string{"Date", "Description", "Amount"}
	layout, err := normalize.Resolve(header)
	require.NoError(t, err)

	rows := rowsOf(header,
		[]string{"2024-01-15", "COFFEE SHOP", "-4.50"},
		[]string{"2024-01-16", "SALARY", "3000.00"},
		[]string{"bad-date", "X", "1"},
	)

	result, err := normalize.Normalize(context.Background(), layout, rows, 1)
	require.NoError(t, err)

	require.Len(t, result.Candidates, 2)
	assert.Equal(t, transaction.TypeDebit, result.Candidates[0].Type)
	assert.Equal(t, "4.5", result.Candidates[0].Amount.String())
	assert.Equal(t, transaction.TypeCredit, result.Candidates[1].Type)

	require.Len(t, result.Rejected, 1)
	assert.Equal(t, 4, result.Rejected[0].Line)
	assert.ErrorIs(t, result.Rejected[0], normalize.ErrMalformedDate)
}

func TestNormalize_ReadError(t *testing.T) {
	layout, err := normalize.Resolve([]string{"Date", "Description", "Amount"})
	require.NoError(t, err)

	readErr := errors.New("truncated")

	_, err = normalize.Normalize(context.Background(), layout, &sliceRows{err: readErr}, 2)
	assert.ErrorIs(t, err, readErr)
}

func TestNormalize_Cancelled(t *testing.T) {
	header := []string{"Date", "Description", "Amount"}
	layout, err := normalize.Resolve(header)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = normalize.Normalize(ctx, layout, rowsOf(header, []string{"2024-01-15", "X", "1"}), 2)
	assert.ErrorIs(t, err, context.Canceled)
}
