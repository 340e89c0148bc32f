// Package normalize turns raw statement rows into canonical transactions.
package normalize

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/spendwise/internal/statement"
	"github.com/MrJamesThe3rd/spendwise/internal/transaction"
)

var (
	ErrMissingColumns = errors.New("missing required columns")

	ErrMalformedAmount    = errors.New("malformed amount")
	ErrMalformedDate      = errors.New("malformed date")
	ErrAmbiguousType      = errors.New("ambiguous transaction type")
	ErrMissingDescription = errors.New("missing description")
	ErrZeroAmount         = errors.New("zero amount")
)

// RowError is a row that could not be normalized.
type RowError struct {
	Line   int
	Reason string
	Err    error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

func (e RowError) Unwrap() error {
	return e.Err
}

// Row normalizes one raw row. The returned transaction carries no user,
// category or source file yet.
func (l *Layout) Row(raw statement.RawRow) (*transaction.Transaction, error) {
	desc := raw.Cell(l.Description)
	if desc == "" {
		return nil, ErrMissingDescription
	}

	dateText := raw.Cell(l.Date)

	date, err := parseDate(dateText)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrMalformedDate, dateText)
	}

	var decided decimalWithType

	if l.Split() {
		decided, err = splitAmount(raw.Cell(l.Debit), raw.Cell(l.Credit))
	} else {
		decided, err = signedAmount(raw.Cell(l.Amount), raw.Cell(l.Type))
	}

	if err != nil {
		return nil, err
	}

	return &transaction.Transaction{
		Date:        date,
		Description: desc,
		Amount:      decided.amount,
		Type:        decided.typ,
		SourceLine:  raw.Line,
	}, nil
}

// Normalize reads every row and normalizes them on up to workers goroutines.
// Output order matches source order. Only read failures and context
// cancellation are returned as errors; bad rows land in Result.Rejected.
func Normalize(ctx context.Context, layout *Layout, rows RowIterator, workers int) (*Result, error) {
	var raws []statement.RawRow

	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raws = append(raws, rows.Row())
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}

	type outcome struct {
		tx  *transaction.Transaction
		err error
	}

	outcomes := make([]outcome, len(raws))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))

	for i := range raws {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			tx, err := layout.Row(raws[i])
			outcomes[i] = outcome{tx: tx, err: err}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{}

	for i, o := range outcomes {
		if o.err != nil {
			result.Rejected = append(result.Rejected, RowError{
				Line:   raws[i].Line,
				Reason: o.err.Error(),
				Err:    o.err,
			})

			continue
		}

		result.Candidates = append(result.Candidates, o.tx)
	}

	return result, nil
}

// RowIterator is the subset of *statement.Rows Normalize consumes.
type RowIterator interface {
	Next() bool
	Row() statement.RawRow
	Err() error
}

type Result struct {
	Candidates []*transaction.Transaction
	Rejected   []RowError
}
