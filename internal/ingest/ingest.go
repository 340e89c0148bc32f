// Package ingest runs the statement pipeline: extract, normalize, categorize
// and persist.
package ingest

import (
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/spendwise/internal/normalize"
	"github.com/MrJamesThe3rd/spendwise/internal/transaction"
)

var (
	ErrFileTooLarge = errors.New("statement file too large")
	ErrNoValidRows  = errors.New("statement has no valid rows")
)

// NoValidRowsError carries the per-row reasons when every row was rejected.
type NoValidRowsError struct {
	Rejected []normalize.RowError
}

func (e *NoValidRowsError) Error() string {
	return fmt.Sprintf("%s: %d rows rejected", ErrNoValidRows, len(e.Rejected))
}

func (e *NoValidRowsError) Unwrap() error {
	return ErrNoValidRows
}

// Result reports one upload. Transactions are in source order and carry the
// ids assigned by the store; rows the store rejected keep a nil id.
type Result struct {
	InsertedCount int
	RejectedRows  []normalize.RowError
	Insert        *transaction.InsertResult
	Transactions  []*transaction.Transaction
}

type Options struct {
	MaxUploadBytes int64
	Workers        int
}

// StoreRejections maps the rows the store refused back to their source lines.
func (r *Result) StoreRejections() []normalize.RowError {
	if r.Insert == nil {
		return nil
	}

	out := make([]normalize.RowError, 0, len(r.Insert.Rejected))

	for _, rej := range r.Insert.Rejected {
		line := 0
		if rej.Index >= 0 && rej.Index < len(r.Transactions) {
			line = r.Transactions[rej.Index].SourceLine
		}

		out = append(out, normalize.RowError{Line: line, Reason: rej.Reason})
	}

	return out
}
