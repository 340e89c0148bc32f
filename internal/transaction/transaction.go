package transaction

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendwise/internal/category"
)

var ErrNotFound = errors.New("transaction not found")

// Type is the direction of a transaction.
type Type string

const (
	TypeCredit Type = "credit"
	TypeDebit  Type = "debit"
)

// ParseType accepts the stored form case-insensitively.
func ParseType(s string) (Type, bool) {
	switch Type(strings.ToLower(strings.TrimSpace(s))) {
	case TypeCredit:
		return TypeCredit, true
	case TypeDebit:
		return TypeDebit, true
	}

	return "", false
}

// Transaction is the canonical record produced by the ingestion pipeline.
// Amount is always a nonnegative magnitude with two fractional digits;
// direction lives only in Type.
type Transaction struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Date        time.Time // UTC midnight
	Description string
	Amount      decimal.Decimal
	Type        Type
	CategoryID  *category.ID // nil until categorized
	Confidence  *float64
	SourceFile  string
	SourceLine  int
	CreatedAt   time.Time
}

// Month returns the YYYY-MM token used by month filters.
func (t *Transaction) Month() string {
	return t.Date.Format("2006-01")
}

// Categorized reports whether a category has been assigned.
func (t *Transaction) Categorized() bool {
	return t.CategoryID != nil
}

// Rejection is a row the store refused, indexed into the submitted batch.
type Rejection struct {
	Index  int
	Reason string
}

// InsertResult is the store's verdict on a batch write.
type InsertResult struct {
	Inserted int
	// IDs is aligned with the submitted batch; rejected rows hold uuid.Nil.
	IDs      []uuid.UUID
	Rejected []Rejection
}

// PersistenceError reports a batch the store rejected as a whole.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return "persisting transactions: " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
